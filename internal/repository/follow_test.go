package repository

import (
	"context"
	"errors"
	"testing"

	"ripple/internal/models"

	"gorm.io/gorm"
)

func TestFollowRepositoryDuplicatePairSurfacesAsDuplicatedKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice", "alice@example.com")
	bob := createTestUser(t, db, "bob", "bob@example.com")

	first := &models.Follow{FollowerID: alice.ID, FollowedID: bob.ID, Status: models.FollowStatusPending}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := &models.Follow{FollowerID: alice.ID, FollowedID: bob.ID, Status: models.FollowStatusPending}
	err := repo.Create(ctx, second)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicated-key error, got %v", err)
	}
}

func TestFollowRepositoryEdgeIsDirected(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice", "alice@example.com")
	bob := createTestUser(t, db, "bob", "bob@example.com")

	forward := &models.Follow{FollowerID: alice.ID, FollowedID: bob.ID, Status: models.FollowStatusPending}
	if err := repo.Create(ctx, forward); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the opposite direction is a distinct edge
	reverse := &models.Follow{FollowerID: bob.ID, FollowedID: alice.ID, Status: models.FollowStatusPending}
	if err := repo.Create(ctx, reverse); err != nil {
		t.Fatalf("reverse edge rejected: %v", err)
	}

	edge, err := repo.GetBetween(ctx, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if edge == nil || edge.ID != forward.ID {
		t.Fatalf("expected forward edge, got %#v", edge)
	}
}

func TestFollowRepositoryGetBetweenMiss(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)

	edge, err := repo.GetBetween(context.Background(), 1, 2)
	if err != nil || edge != nil {
		t.Fatalf("expected nil, nil for missing edge, got %#v, %v", edge, err)
	}
}

func TestFollowRepositoryFollowerAndFollowingLists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice", "alice@example.com")
	bob := createTestUser(t, db, "bob", "bob@example.com")
	carol := createTestUser(t, db, "carol", "carol@example.com")

	// bob and carol follow alice; carol is still pending
	mustCreate := func(f *models.Follow) {
		t.Helper()
		if err := repo.Create(ctx, f); err != nil {
			t.Fatalf("create edge: %v", err)
		}
	}
	mustCreate(&models.Follow{FollowerID: bob.ID, FollowedID: alice.ID, Status: models.FollowStatusAccepted})
	mustCreate(&models.Follow{FollowerID: carol.ID, FollowedID: alice.ID, Status: models.FollowStatusPending})
	mustCreate(&models.Follow{FollowerID: alice.ID, FollowedID: bob.ID, Status: models.FollowStatusAccepted})

	followers, err := repo.GetFollowers(ctx, alice.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(followers) != 1 || followers[0].FollowerID != bob.ID {
		t.Fatalf("expected only bob as accepted follower, got %#v", followers)
	}
	if followers[0].Follower.Username != "bob" {
		t.Fatalf("expected follower preloaded, got %#v", followers[0].Follower)
	}
	if followers[0].Follower.Profile == nil {
		t.Fatal("expected follower profile preloaded")
	}

	following, err := repo.GetFollowing(ctx, alice.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(following) != 1 || following[0].FollowedID != bob.ID {
		t.Fatalf("expected alice following bob, got %#v", following)
	}

	pending, err := repo.GetPendingRequests(ctx, alice.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 1 || pending[0].FollowerID != carol.ID {
		t.Fatalf("expected carol's pending request, got %#v", pending)
	}
}

func TestFollowRepositoryUpdateStatusAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice", "alice@example.com")
	bob := createTestUser(t, db, "bob", "bob@example.com")

	edge := &models.Follow{FollowerID: alice.ID, FollowedID: bob.ID, Status: models.FollowStatusPending}
	if err := repo.Create(ctx, edge); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := repo.UpdateStatus(ctx, edge.ID, models.FollowStatusAccepted); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reloaded, err := repo.GetByID(ctx, edge.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reloaded.Status != models.FollowStatusAccepted {
		t.Fatalf("expected accepted, got %q", reloaded.Status)
	}

	if err := repo.Delete(ctx, edge.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = repo.GetByID(ctx, edge.ID)
	appErr := models.AsAppError(err)
	if appErr.Code != models.CodeNotFound {
		t.Fatalf("expected not-found after delete, got %q", appErr.Code)
	}

	// deleted edge leaves no trace; the pair can be created again
	again := &models.Follow{FollowerID: alice.ID, FollowedID: bob.ID, Status: models.FollowStatusPending}
	if err := repo.Create(ctx, again); err != nil {
		t.Fatalf("re-request after delete rejected: %v", err)
	}
}
