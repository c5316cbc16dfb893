package social

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"minitweet/internal/model"
)

// UserStore is the identity store consumed by Accounts.
type UserStore interface {
	UserLookup
	Create(ctx context.Context, name, email, pwHash string) (model.User, error)
	GetByName(ctx context.Context, name string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

// Registration is a sign-up request as submitted by the user.
type Registration struct {
	Name     string
	Email    string
	Password string
	Confirm  string
}

// Validate checks the registration form. Name and email are trimmed in place.
func (r *Registration) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)

	if n := utf8.RuneCountInString(r.Name); n < 1 || n > 25 {
		return model.ErrInvalidName
	}
	if !strings.Contains(r.Email, "@") {
		return model.ErrInvalidEmail
	}
	if n := utf8.RuneCountInString(r.Password); n < 6 || n > 40 {
		return model.ErrInvalidPassword
	}
	if r.Password != r.Confirm {
		return model.ErrPasswordMismatch
	}
	return nil
}

// Accounts owns registration and credential verification.
type Accounts struct {
	users UserStore
	cost  int
}

// NewAccounts hashes passwords with the given bcrypt cost.
func NewAccounts(users UserStore, cost int) *Accounts {
	return &Accounts{users: users, cost: cost}
}

// Register validates reg and creates the user. A taken name or email yields
// model.ErrDuplicateIdentity.
func (a *Accounts) Register(ctx context.Context, reg Registration) (model.User, error) {
	if err := reg.Validate(); err != nil {
		return model.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), a.cost)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	return a.users.Create(ctx, reg.Name, reg.Email, string(hash))
}

// Authenticate returns model.ErrAuthFailure for an unknown name and for a
// wrong password alike.
func (a *Accounts) Authenticate(ctx context.Context, name, password string) (model.User, error) {
	u, err := a.users.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.User{}, model.ErrAuthFailure
		}
		return model.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PwHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return model.User{}, model.ErrAuthFailure
		}
		return model.User{}, fmt.Errorf("failed to verify password: %w", err)
	}
	return u, nil
}

func (a *Accounts) Get(ctx context.Context, id int64) (model.User, error) {
	return a.users.GetByID(ctx, id)
}

func (a *Accounts) List(ctx context.Context) ([]model.User, error) {
	return a.users.List(ctx)
}
