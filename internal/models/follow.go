package models

import (
	"time"
)

// FollowStatus represents the status of a follow edge.
type FollowStatus string

const (
	// FollowStatusPending indicates a follow request awaiting action by the followed user.
	FollowStatusPending FollowStatus = "pending"
	// FollowStatusAccepted indicates an accepted follow relationship.
	FollowStatusAccepted FollowStatus = "accepted"
)

// Follow represents a directed follow edge from FollowerID to FollowedID.
// The composite unique index is the arbiter for concurrent duplicate
// requests: exactly one insert wins, the loser sees a duplicate-key error.
// An edge only ever exists as pending or accepted; rejection and unfollow
// delete the row rather than marking it.
type Follow struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	FollowerID uint         `gorm:"not null;uniqueIndex:idx_follows_pair" json:"follower_id"`
	FollowedID uint         `gorm:"not null;uniqueIndex:idx_follows_pair;index:idx_follows_followed" json:"followed_id"`
	Status     FollowStatus `gorm:"type:varchar(20);default:'pending';index:idx_follows_status" json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`

	// Relationships
	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followed User `gorm:"foreignKey:FollowedID" json:"followed,omitempty"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
