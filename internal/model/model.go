// Package model holds the entities shared by storage, social logic and the web layer.
package model

import "time"

// Role is the access level of a registered user.
type Role string

const RoleUser Role = "user"

// User represents a registered user.
type User struct {
	ID     int64
	Name   string
	Email  string
	PwHash string
	Role   Role
}

// Tweet represents a posted message joined with its author's name.
type Tweet struct {
	ID         int64
	AuthorID   int64
	AuthorName string
	Body       string
	PostedAt   time.Time
}

// FollowEdge is a directed "Follower follows Followee" relationship.
type FollowEdge struct {
	FollowerID int64
	FolloweeID int64
}
