package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"minitweet/internal/model"
)

// UserStore is the SQLite identity store.
type UserStore struct {
	db *DB
}

func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a user with the default role. A name or email that is already
// taken yields model.ErrDuplicateIdentity and nothing is written.
func (s *UserStore) Create(ctx context.Context, name, email, pwHash string) (model.User, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO users (name, email, password, role) VALUES (?, ?, ?, ?)",
		name, email, pwHash, model.RoleUser)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrDuplicateIdentity
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, fmt.Errorf("failed to read user id: %w", err)
	}

	return model.User{ID: id, Name: name, Email: email, PwHash: pwHash, Role: model.RoleUser}, nil
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (model.User, error) {
	return s.getOne(ctx, "SELECT id, name, email, password, role FROM users WHERE id = ?", id)
}

func (s *UserStore) GetByName(ctx context.Context, name string) (model.User, error) {
	return s.getOne(ctx, "SELECT id, name, email, password, role FROM users WHERE name = ?", name)
}

func (s *UserStore) getOne(ctx context.Context, query string, arg any) (model.User, error) {
	var u model.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Name, &u.Email, &u.PwHash, &u.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrUserNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// List returns every user ordered by id.
func (s *UserStore) List(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, email, password, role FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PwHash, &u.Role); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
