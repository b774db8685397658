package service

import (
	"context"
	"errors"

	"ripple/internal/models"
	"ripple/internal/repository"

	"gorm.io/gorm"
)

// FollowService maintains the directed follow graph and its request
// lifecycle: (none) -> pending -> accepted -> (none) via unfollow, or
// pending -> (none) via reject/withdraw. No other transitions exist.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// RequestFollow creates a pending edge from follower to followed. An
// existing edge in either status is a conflict whose message discloses
// the current status. Races between duplicate requests are decided by the
// unique pair index at the store.
func (s *FollowService) RequestFollow(ctx context.Context, followerID, followedID uint) (*models.Follow, error) {
	if followerID == followedID {
		return nil, models.NewSelfFollowError()
	}

	if _, err := s.userRepo.GetByID(ctx, followedID); err != nil {
		return nil, err
	}

	existing, err := s.followRepo.GetBetween(ctx, followerID, followedID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewDuplicateFollowError(existing.Status)
	}

	follow := &models.Follow{
		FollowerID: followerID,
		FollowedID: followedID,
		Status:     models.FollowStatusPending,
	}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race against a concurrent request for the same
			// pair; report the winner's status.
			if winner, getErr := s.followRepo.GetBetween(ctx, followerID, followedID); getErr == nil && winner != nil {
				return nil, models.NewDuplicateFollowError(winner.Status)
			}
			return nil, models.NewDuplicateFollowError(models.FollowStatusPending)
		}
		return nil, err
	}

	// Load the edge with the follower preloaded for the response.
	return s.followRepo.GetByID(ctx, follow.ID)
}

// AcceptFollow transitions a pending edge to accepted. Only the followed
// user may accept; accepting an already-accepted edge is a conflict, not
// a no-op.
func (s *FollowService) AcceptFollow(ctx context.Context, actingUserID, followID uint) (*models.Follow, error) {
	follow, err := s.followRepo.GetByID(ctx, followID)
	if err != nil {
		return nil, err
	}

	if follow.FollowedID != actingUserID {
		return nil, models.NewForbiddenError("You can only accept follow requests sent to you")
	}
	if follow.Status != models.FollowStatusPending {
		return nil, models.NewConflictError("Follow request already accepted")
	}

	if err := s.followRepo.UpdateStatus(ctx, followID, models.FollowStatusAccepted); err != nil {
		return nil, err
	}

	return s.followRepo.GetByID(ctx, followID)
}

// RejectFollow deletes a pending edge. Rejected requests leave no trace,
// so the follower may request again later.
func (s *FollowService) RejectFollow(ctx context.Context, actingUserID, followID uint) error {
	follow, err := s.followRepo.GetByID(ctx, followID)
	if err != nil {
		return err
	}

	if follow.FollowedID != actingUserID {
		return models.NewForbiddenError("You can only reject follow requests sent to you")
	}
	if follow.Status != models.FollowStatusPending {
		return models.NewConflictError("Follow request is not pending")
	}

	return s.followRepo.Delete(ctx, follow.ID)
}

// Unfollow deletes the edge from follower to followed regardless of its
// status: it withdraws a pending request or ends an accepted
// relationship alike.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	follow, err := s.followRepo.GetBetween(ctx, followerID, followedID)
	if err != nil {
		return err
	}
	if follow == nil {
		return models.NewNotFoundError("Follow relationship", followedID)
	}

	return s.followRepo.Delete(ctx, follow.ID)
}

// ListFollowers returns the accepted edges pointing at the user, with
// follower profiles attached.
func (s *FollowService) ListFollowers(ctx context.Context, userID uint) ([]models.Follow, error) {
	return s.followRepo.GetFollowers(ctx, userID)
}

// ListFollowing returns the accepted edges originating from the user.
func (s *FollowService) ListFollowing(ctx context.Context, userID uint) ([]models.Follow, error) {
	return s.followRepo.GetFollowing(ctx, userID)
}

// ListPending returns the pending requests awaiting the user's action.
func (s *FollowService) ListPending(ctx context.Context, userID uint) ([]models.Follow, error) {
	return s.followRepo.GetPendingRequests(ctx, userID)
}
