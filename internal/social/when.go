package social

import (
	"strconv"
	"time"
)

const day = 24 * time.Hour

// When renders postedAt relative to now: the date once a whole day has
// elapsed, otherwise whole hours, then whole minutes, then "few seconds ago".
// Hours and minutes come from the remainder after whole days, not from
// wall-clock fields. A postedAt after now counts as no time elapsed.
func When(now, postedAt time.Time) string {
	elapsed := now.Sub(postedAt)
	if elapsed < 0 {
		elapsed = 0
	}

	days := elapsed / day
	rem := elapsed % day
	hours := rem / time.Hour
	minutes := (rem / time.Minute) % 60

	switch {
	case days > 0:
		return postedAt.Format("02 January, 2006")
	case hours > 0:
		return strconv.FormatInt(int64(hours), 10) + "h"
	case minutes > 0:
		return strconv.FormatInt(int64(minutes), 10) + "m"
	default:
		return "few seconds ago"
	}
}
