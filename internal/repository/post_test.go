package repository

import (
	"context"
	"testing"

	"ripple/internal/models"
)

func TestPostRepositoryCountsComputedAtQueryTime(t *testing.T) {
	db := setupTestDB(t)
	posts := NewPostRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice", "alice@example.com")
	bob := createTestUser(t, db, "bob", "bob@example.com")

	post := &models.Post{Title: "hello", Content: "first post", UserID: alice.ID}
	if err := posts.Create(ctx, post); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := posts.Like(ctx, alice.ID, post.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := posts.Like(ctx, bob.ID, post.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := comments.Create(ctx, &models.Comment{Content: "nice", UserID: bob.ID, PostID: post.ID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := posts.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.LikesCount != 2 {
		t.Fatalf("expected 2 likes, got %d", got.LikesCount)
	}
	if got.CommentsCount != 1 {
		t.Fatalf("expected 1 comment, got %d", got.CommentsCount)
	}
	if got.User.Username != "alice" {
		t.Fatalf("expected author preloaded, got %#v", got.User)
	}
}

func TestPostRepositoryDoubleLikeConflicts(t *testing.T) {
	db := setupTestDB(t)
	posts := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice", "alice@example.com")
	post := &models.Post{Title: "hello", Content: "first post", UserID: alice.ID}
	if err := posts.Create(ctx, post); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := posts.Like(ctx, alice.ID, post.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := posts.Like(ctx, alice.ID, post.ID)
	appErr := models.AsAppError(err)
	if appErr.Code != models.CodeConflict {
		t.Fatalf("expected conflict on double like, got %q", appErr.Code)
	}
}

func TestPostRepositoryUnlikeWithoutLike(t *testing.T) {
	db := setupTestDB(t)
	posts := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice", "alice@example.com")
	post := &models.Post{Title: "hello", Content: "first post", UserID: alice.ID}
	if err := posts.Create(ctx, post); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := posts.Unlike(ctx, alice.ID, post.ID)
	appErr := models.AsAppError(err)
	if appErr.Code != models.CodeNotFound {
		t.Fatalf("expected not-found on unlike without like, got %q", appErr.Code)
	}

	// like then unlike round trips
	if err := posts.Like(ctx, alice.ID, post.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := posts.Unlike(ctx, alice.ID, post.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := posts.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.LikesCount != 0 {
		t.Fatalf("expected 0 likes, got %d", got.LikesCount)
	}
}

func TestPostRepositoryListNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	posts := NewPostRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice", "alice@example.com")
	for _, title := range []string{"one", "two", "three"} {
		if err := posts.Create(ctx, &models.Post{Title: title, Content: "body", UserID: alice.ID}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	listed, err := posts.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(listed))
	}

	byUser, err := posts.GetByUserID(ctx, alice.ID, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byUser) != 2 {
		t.Fatalf("expected limit applied, got %d posts", len(byUser))
	}
}
