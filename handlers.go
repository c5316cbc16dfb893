package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"minitweet/internal/model"
	"minitweet/internal/social"
)

// GET + POST /: sign in
func (a *App) loginHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(r); ok {
		http.Redirect(w, r, "/tweets/", http.StatusFound)
		return
	}

	data := map[string]interface{}{
		"title": "Sign In",
		"name":  "",
	}
	if r.Method == http.MethodPost {
		name := r.FormValue("name")
		data["name"] = name

		u, err := a.accounts.Authenticate(r.Context(), name, r.FormValue("password"))
		switch {
		case err == nil:
			session := a.session(r)
			session.Values["user_id"] = u.ID
			session.AddFlash("Welcome")
			if err := session.Save(r, w); err != nil {
				a.serverError(w, r, err)
				return
			}
			http.Redirect(w, r, "/tweets/", http.StatusFound)
			return
		case errors.Is(err, model.ErrAuthFailure):
			data["error"] = err.Error()
		default:
			a.serverError(w, r, err)
			return
		}
	}

	a.render(w, r, http.StatusOK, "login.html", data)
}

// GET + POST /register/
func (a *App) registerHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(r); ok {
		http.Redirect(w, r, "/tweets/", http.StatusFound)
		return
	}

	data := map[string]interface{}{
		"title": "Sign Up",
		"name":  "",
		"email": "",
	}
	if r.Method == http.MethodPost {
		reg := social.Registration{
			Name:     r.FormValue("name"),
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
			Confirm:  r.FormValue("confirm"),
		}
		data["name"], data["email"] = reg.Name, reg.Email

		_, err := a.accounts.Register(r.Context(), reg)
		switch {
		case err == nil:
			a.redirectWithFlash(w, r, "/", "Thanks for registering. Please login.")
			return
		case model.KindOf(err) != model.KindUnknown:
			data["error"] = err.Error()
		default:
			a.serverError(w, r, err)
			return
		}
	}

	a.render(w, r, http.StatusOK, "register.html", data)
}

// GET /logout/
func (a *App) logoutHandler(w http.ResponseWriter, r *http.Request) {
	session := a.session(r)
	delete(session.Values, "user_id")
	session.AddFlash("You have been logged out")
	if err := session.Save(r, w); err != nil {
		a.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// GET /users/: everybody, with follow links
func (a *App) usersHandler(w http.ResponseWriter, r *http.Request) {
	me, _ := currentUser(r)

	users, err := a.accounts.List(r.Context())
	if err != nil {
		a.serverError(w, r, err)
		return
	}
	followees, err := a.graph.Followees(r.Context(), me.ID)
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	a.render(w, r, http.StatusOK, "users.html", map[string]interface{}{
		"title": "Users",
		"users": userViews(users, me.ID, followees),
	})
}

// GET /tweets/: own tweets and those of followed users
func (a *App) feedHandler(w http.ResponseWriter, r *http.Request) {
	me, _ := currentUser(r)

	tweets, err := a.feed.Compose(r.Context(), me.ID)
	if err != nil {
		a.serverError(w, r, err)
		return
	}

	a.render(w, r, http.StatusOK, "feed.html", map[string]interface{}{
		"title":      "Feed",
		"tweets":     tweetViews(tweets, me.ID, a.now()),
		"has_tweets": len(tweets) > 0,
	})
}

// POST /tweets/post/
func (a *App) postTweetHandler(w http.ResponseWriter, r *http.Request) {
	me, _ := currentUser(r)

	if _, err := a.tweets.Post(r.Context(), me.ID, r.FormValue("tweet")); err != nil {
		a.fail(w, r, err)
		return
	}
	a.redirectWithFlash(w, r, "/tweets/", "New tweet has been posted.")
}

// GET /tweets/delete/{id}/
func (a *App) deleteTweetHandler(w http.ResponseWriter, r *http.Request) {
	me, _ := currentUser(r)
	id, ok := pathID(r)
	if !ok {
		a.fail(w, r, model.ErrTweetNotFound)
		return
	}

	if err := a.tweets.Delete(r.Context(), id, me.ID); err != nil {
		a.fail(w, r, err)
		return
	}
	a.redirectWithFlash(w, r, "/tweets/", "That tweet was deleted.")
}

// GET /tweets/follow/{id}/
func (a *App) followHandler(w http.ResponseWriter, r *http.Request) {
	me, _ := currentUser(r)
	id, ok := pathID(r)
	if !ok {
		a.fail(w, r, model.ErrTargetNotFound)
		return
	}

	target, err := a.graph.Follow(r.Context(), me.ID, id)
	switch {
	case err == nil:
		a.redirectWithFlash(w, r, "/tweets/", fmt.Sprintf("You are now following %s", target.Name))
	case errors.Is(err, model.ErrAlreadyFollowing):
		a.redirectWithFlash(w, r, "/tweets/", fmt.Sprintf("You are already following %s", target.Name))
	default:
		a.fail(w, r, err)
	}
}

// GET /tweets/unfollow/{id}/
func (a *App) unfollowHandler(w http.ResponseWriter, r *http.Request) {
	me, _ := currentUser(r)
	id, ok := pathID(r)
	if !ok {
		a.fail(w, r, model.ErrTargetNotFound)
		return
	}

	target, err := a.graph.Unfollow(r.Context(), me.ID, id)
	switch {
	case err == nil:
		a.redirectWithFlash(w, r, "/tweets/", fmt.Sprintf("You are no more following %s", target.Name))
	case errors.Is(err, model.ErrNotFollowing):
		a.redirectWithFlash(w, r, "/tweets/", fmt.Sprintf("You are not following %s to unfollow.", target.Name))
	default:
		a.fail(w, r, err)
	}
}

// pathID parses the numeric {id} route variable.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id, err == nil
}
