package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"minitweet/internal/config"
	"minitweet/internal/model"
	"minitweet/internal/social"
	"minitweet/internal/store"
)

const toolDoc = `MiniTweet Operator Tool

Usage:
  tweettool [-db <path>] -i
  tweettool [-db <path>] -u
  tweettool [-db <path>] -feed <name>
  tweettool [-db <path>] -seed <n>
  tweettool -h
Options:
  -h            Show this screen.
  -db path      Database file (defaults to $DATABASE).
  -i            Dump all tweets to STDOUT.
  -u            Dump all users to STDOUT.
  -feed name    Print the feed of a user.
  -seed n       Create n fake users with tweets and follows.`

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

type tool struct {
	out      io.Writer
	users    *store.UserStore
	tweets   *store.TweetStore
	accounts *social.Accounts
	graph    *social.Graph
	feed     *social.Composer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %s\n", err)
		return 1
	}

	fs := flag.NewFlagSet("tweettool", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		dbPath   = fs.String("db", cfg.Database, "")
		help     = fs.Bool("h", false, "")
		dumpAll  = fs.Bool("i", false, "")
		dumpUser = fs.Bool("u", false, "")
		feedOf   = fs.String("feed", "", "")
		seed     = fs.Int("seed", 0, "")
	)
	if err := fs.Parse(args); err != nil || len(args) == 0 || *help {
		fmt.Fprintln(stdout, toolDoc)
		if err != nil {
			return 2
		}
		return 0
	}

	db, err := store.Open(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(stderr, "Can't open database: %s\n", err)
		return 1
	}
	defer db.Close()

	users := store.NewUserStore(db)
	tweets := store.NewTweetStore(db)
	graph := social.NewGraph(users, store.NewFollowStore(db))
	t := &tool{
		out:      stdout,
		users:    users,
		tweets:   tweets,
		accounts: social.NewAccounts(users, cfg.BcryptCost),
		graph:    graph,
		feed:     social.NewComposer(graph, tweets),
	}

	switch {
	case *seed > 0:
		err = t.seed(ctx, *seed)
	case *feedOf != "":
		err = t.printFeed(ctx, *feedOf, time.Now())
	case *dumpUser:
		err = t.dumpUsers(ctx)
	case *dumpAll:
		err = t.dumpTweets(ctx)
	default:
		fmt.Fprintln(stdout, toolDoc)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

func (t *tool) dumpTweets(ctx context.Context) error {
	tweets, err := t.tweets.List(ctx)
	if err != nil {
		return err
	}
	for _, tw := range tweets {
		fmt.Fprintf(t.out, "%d,%s,%s,%d\n", tw.ID, tw.AuthorName, tw.Body, tw.PostedAt.Unix())
	}
	return nil
}

func (t *tool) dumpUsers(ctx context.Context) error {
	users, err := t.users.List(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		fmt.Fprintf(t.out, "%d,%s,%s,%s\n", u.ID, u.Name, u.Email, u.Role)
	}
	return nil
}

func (t *tool) printFeed(ctx context.Context, name string, now time.Time) error {
	u, err := t.users.GetByName(ctx, name)
	if err != nil {
		return fmt.Errorf("user %q: %w", name, err)
	}
	tweets, err := t.feed.Compose(ctx, u.ID)
	if err != nil {
		return err
	}
	for _, tw := range tweets {
		fmt.Fprintf(t.out, "%s\t%s\t%s\n", social.When(now, tw.PostedAt), tw.AuthorName, tw.Body)
	}
	return nil
}

// seed registers n fake users, posts a few tweets for each at random times in
// the last three days and adds random follow edges among the new users.
func (t *tool) seed(ctx context.Context, n int) error {
	now := time.Now()
	posting := social.NewTweets(t.tweets, func() time.Time {
		return gofakeit.DateRange(now.Add(-72*time.Hour), now)
	})

	created := make([]model.User, 0, n)
	for i := 0; i < n; i++ {
		name := gofakeit.Username()
		if len(name) > 20 {
			name = name[:20]
		}
		name = fmt.Sprintf("%s%d", name, i)
		password := gofakeit.Password(true, true, true, false, false, 12)

		u, err := t.accounts.Register(ctx, social.Registration{
			Name:     name,
			Email:    strings.ToLower(name) + "@" + gofakeit.DomainName(),
			Password: password,
			Confirm:  password,
		})
		if errors.Is(err, model.ErrDuplicateIdentity) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to register %s: %w", name, err)
		}
		created = append(created, u)

		for j := gofakeit.Number(1, 3); j > 0; j-- {
			_, err := posting.Post(ctx, u.ID, gofakeit.Sentence(8))
			if model.KindOf(err) == model.KindValidation {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to post for %s: %w", name, err)
			}
		}
	}

	edges := 0
	for _, u := range created {
		for j := gofakeit.Number(0, 3); j > 0; j-- {
			target := created[gofakeit.Number(0, len(created)-1)]
			_, err := t.graph.Follow(ctx, u.ID, target.ID)
			switch {
			case err == nil:
				edges++
			case errors.Is(err, model.ErrSelfFollow), errors.Is(err, model.ErrAlreadyFollowing):
			default:
				return fmt.Errorf("failed to follow: %w", err)
			}
		}
	}

	fmt.Fprintf(t.out, "Seeded %d users and %d follow edges\n", len(created), edges)
	return nil
}
