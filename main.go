package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"minitweet/internal/config"
	"minitweet/internal/logger"
	"minitweet/internal/social"
	"minitweet/internal/store"
)

// App carries everything a request handler needs.
type App struct {
	log      *logger.Logger
	sessions *sessions.CookieStore
	pages    *pages
	now      func() time.Time

	accounts *social.Accounts
	graph    *social.Graph
	feed     *social.Composer
	tweets   *social.Tweets
}

func newApp(db *store.DB, cfg *config.Config, log *logger.Logger) (*App, error) {
	p, err := loadPages()
	if err != nil {
		return nil, err
	}

	users := store.NewUserStore(db)
	tweets := store.NewTweetStore(db)
	graph := social.NewGraph(users, store.NewFollowStore(db))

	return &App{
		log:      log,
		sessions: newStore(cfg.SecretKey),
		pages:    p,
		now:      time.Now,
		accounts: social.NewAccounts(users, cfg.BcryptCost),
		graph:    graph,
		feed:     social.NewComposer(graph, tweets),
		tweets:   social.NewTweets(tweets, time.Now),
	}, nil
}

func (a *App) setupRouter() *mux.Router {
	r := mux.NewRouter().StrictSlash(true)
	r.Use(a.logRequests, a.authenticate)

	r.HandleFunc("/", a.loginHandler).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/register/", a.registerHandler).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/logout/", a.requireLogin(a.logoutHandler)).Methods(http.MethodGet)
	r.HandleFunc("/users/", a.requireLogin(a.usersHandler)).Methods(http.MethodGet)

	t := r.PathPrefix("/tweets").Subrouter()
	t.HandleFunc("/", a.requireLogin(a.feedHandler)).Methods(http.MethodGet)
	t.HandleFunc("/post/", a.requireLogin(a.postTweetHandler)).Methods(http.MethodPost)
	t.HandleFunc("/delete/{id:[0-9]+}/", a.requireLogin(a.deleteTweetHandler)).Methods(http.MethodGet, http.MethodPost)
	t.HandleFunc("/follow/{id:[0-9]+}/", a.requireLogin(a.followHandler)).Methods(http.MethodGet, http.MethodPost)
	t.HandleFunc("/unfollow/{id:[0-9]+}/", a.requireLogin(a.unfollowHandler)).Methods(http.MethodGet, http.MethodPost)

	r.NotFoundHandler = a.logRequests(a.authenticate(http.HandlerFunc(a.notFound)))
	return r
}

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logger.New(0).Fatal("failed to load config", "error", err)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal("failed to open database", "path", cfg.Database, "error", err)
	}
	defer db.Close()

	app, err := newApp(db, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize app", "error", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shut down server", "error", err)
		}
	}()

	log.Info("listening", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server stopped", "error", err)
	}
}
