package main

import (
	"time"

	"minitweet/internal/model"
	"minitweet/internal/social"
)

// View models handed to the templates.

func userView(u model.User) map[string]interface{} {
	return map[string]interface{}{
		"id":     u.ID,
		"name":   u.Name,
		"avatar": gravatar(u.Email),
	}
}

// userViews marks each user as the viewer, followed, or neither.
func userViews(users []model.User, viewerID int64, followees []int64) []map[string]interface{} {
	following := make(map[int64]bool, len(followees))
	for _, id := range followees {
		following[id] = true
	}

	views := make([]map[string]interface{}, 0, len(users))
	for _, u := range users {
		v := userView(u)
		v["self"] = u.ID == viewerID
		v["following"] = following[u.ID]
		views = append(views, v)
	}
	return views
}

// tweetViews renders posting times relative to now.
func tweetViews(tweets []model.Tweet, viewerID int64, now time.Time) []map[string]interface{} {
	views := make([]map[string]interface{}, 0, len(tweets))
	for _, t := range tweets {
		views = append(views, map[string]interface{}{
			"id":     t.ID,
			"author": t.AuthorName,
			"body":   t.Body,
			"when":   social.When(now, t.PostedAt),
			"posted": datetimeformat(t.PostedAt),
			"own":    t.AuthorID == viewerID,
		})
	}
	return views
}
