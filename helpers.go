package main

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/sessions"

	"minitweet/internal/model"
)

const sessionName = "session"

// --- Session helpers ---

func newStore(secret string) *sessions.CookieStore {
	s := sessions.NewCookieStore([]byte(secret))
	s.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return s
}

func (a *App) session(r *http.Request) *sessions.Session {
	// A cookie that fails to decode yields a fresh session, which is what we want.
	session, _ := a.sessions.Get(r, sessionName)
	return session
}

func (a *App) addFlash(w http.ResponseWriter, r *http.Request, message string) {
	session := a.session(r)
	session.AddFlash(message)
	if err := session.Save(r, w); err != nil {
		a.log.Error("failed to save session", "error", err)
	}
}

func (a *App) getFlashes(w http.ResponseWriter, r *http.Request) []interface{} {
	session := a.session(r)
	flashes := session.Flashes()
	if len(flashes) > 0 {
		if err := session.Save(r, w); err != nil {
			a.log.Error("failed to save session", "error", err)
		}
	}
	return flashes
}

func (a *App) redirectWithFlash(w http.ResponseWriter, r *http.Request, to, message string) {
	a.addFlash(w, r, message)
	http.Redirect(w, r, to, http.StatusFound)
}

// --- Authentication context ---

type userKey struct{}

// authenticate resolves the signed-in user once per request and stores it in
// the request context.
func (a *App) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := a.session(r).Values["user_id"].(int64)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		u, err := a.accounts.Get(r.Context(), id)
		switch {
		case errors.Is(err, model.ErrUserNotFound):
			next.ServeHTTP(w, r)
		case err != nil:
			a.serverError(w, r, err)
		default:
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, u)))
		}
	})
}

func currentUser(r *http.Request) (model.User, bool) {
	u, ok := r.Context().Value(userKey{}).(model.User)
	return u, ok
}

// requireLogin sends anonymous visitors to the sign in page.
func (a *App) requireLogin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := currentUser(r); !ok {
			a.redirectWithFlash(w, r, "/", "You need to login first")
			return
		}
		next(w, r)
	}
}

// --- Request logging ---

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (a *App) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		a.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// --- Error boundary ---

// fail turns a recoverable error into a notice on the feed. Anything else is
// a server error.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	if model.KindOf(err) == model.KindUnknown {
		a.serverError(w, r, err)
		return
	}
	a.log.Info("request rejected", "path", r.URL.Path, "code", model.CodeOf(err))
	a.redirectWithFlash(w, r, "/tweets/", err.Error())
}

func (a *App) serverError(w http.ResponseWriter, r *http.Request, err error) {
	a.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	a.render(w, r, http.StatusInternalServerError, "500.html", map[string]interface{}{
		"title": "Internal Server Error",
	})
}

func (a *App) notFound(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusNotFound, "404.html", map[string]interface{}{
		"title": "Page Not Found",
	})
}

// --- Template helpers ---

func gravatar(email string) string {
	h := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon&s=48", h)
}

func datetimeformat(t time.Time) string {
	return t.Format("2006-01-02 @ 15:04")
}

func (a *App) render(w http.ResponseWriter, r *http.Request, status int, page string, data map[string]interface{}) {
	if u, ok := currentUser(r); ok {
		data["current_user"] = userView(u)
	}
	if _, ok := data["flashes"]; !ok {
		data["flashes"] = a.getFlashes(w, r)
	}

	body, err := a.pages.render(page, data)
	if err != nil {
		a.log.Error("failed to render page", "page", page, "error", err)
		http.Error(w, "Something went terribly wrong.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}
