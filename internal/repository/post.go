package repository

import (
	"context"
	"errors"

	"ripple/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post and like data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int) ([]*models.Post, error)
	Delete(ctx context.Context, id uint) error
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// withCounts annotates posts with like and comment counts at query time.
func withCounts(db *gorm.DB) *gorm.DB {
	return db.
		Select("posts.*",
			"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) AS likes_count",
			"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count",
		)
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewStoreUnavailableError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := withCounts(r.db.WithContext(ctx)).
		Preload("User").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewStoreUnavailableError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	if err := withCounts(r.db.WithContext(ctx)).
		Where("posts.user_id = ?", userID).
		Preload("User").
		Order("posts.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewStoreUnavailableError(err)
	}
	return posts, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	if err := withCounts(r.db.WithContext(ctx)).
		Preload("User").
		Order("posts.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewStoreUnavailableError(err)
	}
	return posts, nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewStoreUnavailableError(err)
	}
	return nil
}

// Like inserts a like row; the (user_id, post_id) unique index rejects
// duplicates at the store.
func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	like := models.Like{UserID: userID, PostID: postID}
	if err := r.db.WithContext(ctx).Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("Post already liked")
		}
		return models.NewStoreUnavailableError(err)
	}
	return nil
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if res.Error != nil {
		return models.NewStoreUnavailableError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Like", postID)
	}
	return nil
}
