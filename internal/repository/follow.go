package repository

import (
	"context"
	"errors"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow edge data operations.
// Edges are directed: GetBetween looks up the ordered (follower, followed)
// pair, not either direction.
type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error
	GetByID(ctx context.Context, id uint) (*models.Follow, error)
	GetBetween(ctx context.Context, followerID, followedID uint) (*models.Follow, error)
	GetFollowers(ctx context.Context, userID uint) ([]models.Follow, error)
	GetFollowing(ctx context.Context, userID uint) ([]models.Follow, error)
	GetPendingRequests(ctx context.Context, userID uint) ([]models.Follow, error)
	UpdateStatus(ctx context.Context, followID uint, status models.FollowStatus) error
	Delete(ctx context.Context, followID uint) error
}

// followRepository implements FollowRepository
type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Create inserts a new edge. The unique index on (follower_id, followed_id)
// decides races between concurrent duplicate requests: the loser gets
// ErrDuplicatedKey, surfaced here so the service can report the conflict.
func (r *followRepository) Create(ctx context.Context, follow *models.Follow) error {
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return models.NewStoreUnavailableError(err)
	}
	return nil
}

func (r *followRepository) GetByID(ctx context.Context, id uint) (*models.Follow, error) {
	var follow models.Follow
	if err := r.db.WithContext(ctx).
		Preload("Follower").
		Preload("Follower.Profile").
		First(&follow, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Follow request", id)
		}
		return nil, models.NewStoreUnavailableError(err)
	}
	return &follow, nil
}

func (r *followRepository) GetBetween(ctx context.Context, followerID, followedID uint) (*models.Follow, error) {
	var follow models.Follow
	if err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		First(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // No edge exists
		}
		return nil, models.NewStoreUnavailableError(err)
	}
	return &follow, nil
}

// GetFollowers returns accepted edges pointing at userID with the follower
// and their profile preloaded.
func (r *followRepository) GetFollowers(ctx context.Context, userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	if err := r.db.WithContext(ctx).
		Where("followed_id = ? AND status = ?", userID, models.FollowStatusAccepted).
		Preload("Follower").
		Preload("Follower.Profile").
		Order("id").
		Find(&follows).Error; err != nil {
		return nil, models.NewStoreUnavailableError(err)
	}
	return follows, nil
}

// GetFollowing returns accepted edges originating from userID with the
// followed user and their profile preloaded.
func (r *followRepository) GetFollowing(ctx context.Context, userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	if err := r.db.WithContext(ctx).
		Where("follower_id = ? AND status = ?", userID, models.FollowStatusAccepted).
		Preload("Followed").
		Preload("Followed.Profile").
		Order("id").
		Find(&follows).Error; err != nil {
		return nil, models.NewStoreUnavailableError(err)
	}
	return follows, nil
}

func (r *followRepository) GetPendingRequests(ctx context.Context, userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	if err := r.db.WithContext(ctx).
		Where("followed_id = ? AND status = ?", userID, models.FollowStatusPending).
		Preload("Follower").
		Preload("Follower.Profile").
		Order("id").
		Find(&follows).Error; err != nil {
		return nil, models.NewStoreUnavailableError(err)
	}
	return follows, nil
}

func (r *followRepository) UpdateStatus(ctx context.Context, followID uint, status models.FollowStatus) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("id = ?", followID).
		Update("status", status).Error; err != nil {
		return models.NewStoreUnavailableError(err)
	}
	return nil
}

func (r *followRepository) Delete(ctx context.Context, followID uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Follow{}, followID).Error; err != nil {
		return models.NewStoreUnavailableError(err)
	}
	return nil
}
