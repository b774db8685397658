// Package service contains the business logic for authentication and the
// follow graph.
package service

import (
	"context"
	"crypto/md5"
	"fmt"
	"strings"

	"ripple/internal/models"
	"ripple/internal/repository"
	"ripple/internal/session"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ExternalIdentity is the assertion produced by an OAuth provider after a
// successful exchange. How the assertion is obtained is the verifier's
// problem; this service only consumes it.
type ExternalIdentity struct {
	Provider  string
	Email     string
	Username  string
	AvatarURL string
}

// AuthService maps credentials or external-identity assertions to user
// identities and maintains the session-to-identity binding.
type AuthService struct {
	userRepo repository.UserRepository
	sessions *session.Store
}

// NewAuthService returns a new AuthService.
func NewAuthService(userRepo repository.UserRepository, sessions *session.Store) *AuthService {
	return &AuthService{userRepo: userRepo, sessions: sessions}
}

// RegisterLocal creates a user with a one-way password digest and a
// gravatar-seeded profile. Username and email collisions fail with a
// duplicate-account conflict; the unique indexes at the store are the
// final arbiter when registrations race.
func (s *AuthService) RegisterLocal(ctx context.Context, username, email, password string) (*models.User, error) {
	if existing, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewDuplicateAccountError()
	}
	if existing, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewDuplicateAccountError()
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(digest),
		Profile:  &models.Profile{AvatarURL: gravatarURL(email)},
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// AuthenticateLocal verifies a username/password pair. Unknown usernames
// and wrong passwords fail identically so callers cannot probe which
// field was wrong.
func (s *AuthService) AuthenticateLocal(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	return user, nil
}

// AuthenticateExternal logs in or registers a provider-asserted identity.
// The lookup key is the asserted email: a second assertion with the same
// email resolves to the same user, so the operation is idempotent. New
// accounts receive a random digest (no password ever verifies against it)
// and a profile seeded with the provider avatar.
func (s *AuthService) AuthenticateExternal(ctx context.Context, ext ExternalIdentity) (*models.User, error) {
	if ext.Email == "" {
		return nil, models.NewExternalIdentityError(
			fmt.Sprintf("Provider %q did not supply an email address", ext.Provider))
	}

	user, err := s.userRepo.GetByEmail(ctx, ext.Email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	username := ext.Username
	if username == "" {
		username = strings.SplitN(ext.Email, "@", 2)[0]
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	avatar := ext.AvatarURL
	if avatar == "" {
		avatar = gravatarURL(ext.Email)
	}

	user = &models.User{
		Username: username,
		Email:    ext.Email,
		Password: string(digest),
		Provider: ext.Provider,
		Profile:  &models.Profile{AvatarURL: avatar},
	}
	if createErr := s.userRepo.Create(ctx, user); createErr != nil {
		appErr := models.AsAppError(createErr)
		if appErr.Code != models.CodeDuplicateAccount {
			return nil, createErr
		}
		// Concurrent first logins for the same email race on the unique
		// email index; the loser re-reads the winner's row.
		if existing, getErr := s.userRepo.GetByEmail(ctx, ext.Email); getErr == nil && existing != nil {
			return existing, nil
		}
		// Otherwise the username collided with an unrelated account.
		user.Username = fmt.Sprintf("%s_%s", username, ext.Provider)
		if retryErr := s.userRepo.Create(ctx, user); retryErr != nil {
			return nil, retryErr
		}
	}
	return user, nil
}

// EstablishSession binds a fresh session token to the user id.
func (s *AuthService) EstablishSession(ctx context.Context, userID uint) (string, error) {
	return s.sessions.Create(ctx, &session.State{UserID: userID})
}

// EstablishGuestSession creates a guest session permitting read-only browsing.
func (s *AuthService) EstablishGuestSession(ctx context.Context) (string, error) {
	return s.sessions.Create(ctx, &session.State{IsGuest: true})
}

// ResolveSession resolves a session token into a caller identity. An
// empty or unknown token is anonymous, not an error; routes that require
// authentication reject anonymous callers themselves.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (models.Identity, error) {
	if token == "" {
		return models.Anonymous(), nil
	}
	state, err := s.sessions.Get(ctx, token)
	if err != nil {
		return models.Anonymous(), err
	}
	return state.Identity(), nil
}

// EndSession destroys the server-side session state. Idempotent: ending
// an already-ended session succeeds.
func (s *AuthService) EndSession(ctx context.Context, token string) error {
	return s.sessions.Destroy(ctx, token)
}

// Flash appends a one-shot message to the session.
func (s *AuthService) Flash(ctx context.Context, token, message string) error {
	return s.sessions.AddFlash(ctx, token, message)
}

// PopFlashes returns and clears the pending flash messages.
func (s *AuthService) PopFlashes(ctx context.Context, token string) ([]string, error) {
	return s.sessions.PopFlashes(ctx, token)
}

// gravatarURL derives the default identicon avatar for an email address.
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon", sum)
}
