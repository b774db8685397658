// Package session implements the server-side session store backed by Redis.
//
// A session is an opaque token mapped to a small bag of state: the
// authenticated user id or a guest flag, plus one-shot flash messages. A
// session is never simultaneously authenticated and guest.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ripple/internal/models"
	"ripple/internal/observability"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "sess:"

// State is the server-side session state.
type State struct {
	UserID  uint     `json:"user_id,omitempty"`
	IsGuest bool     `json:"is_guest,omitempty"`
	Flashes []string `json:"flashes,omitempty"`
}

// Identity resolves the session state into a caller identity.
func (s *State) Identity() models.Identity {
	switch {
	case s == nil:
		return models.Anonymous()
	case s.UserID != 0:
		return models.UserIdentity(s.UserID)
	case s.IsGuest:
		return models.GuestIdentity()
	default:
		return models.Anonymous()
	}
}

// Store persists sessions in Redis with a fixed TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns a session store using the given Redis client.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func key(token string) string {
	return keyPrefix + token
}

// Create stores the state under a fresh opaque token and returns the token.
func (s *Store) Create(ctx context.Context, state *State) (string, error) {
	if state.UserID != 0 && state.IsGuest {
		return "", models.NewInternalError(errors.New("session cannot be both authenticated and guest"))
	}
	token := uuid.NewString()
	if err := s.write(ctx, token, state, s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Get returns the session state for the token, or nil if no session exists.
// Reading does not consume flashes; see PopFlashes.
func (s *Store) Get(ctx context.Context, token string) (*State, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := s.client.Get(ctx, key(token)).Result()
	if errors.Is(err, redis.Nil) {
		observability.SessionOperations.WithLabelValues("get", "miss").Inc()
		return nil, nil
	}
	if err != nil {
		observability.SessionOperations.WithLabelValues("get", "error").Inc()
		return nil, models.NewStoreUnavailableError(err)
	}
	observability.SessionOperations.WithLabelValues("get", "hit").Inc()
	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, models.NewInternalError(fmt.Errorf("corrupt session state: %w", err))
	}
	return &state, nil
}

// Set overwrites the session state for an existing token. The expiry is
// refreshed, so active sessions slide rather than expire mid-use.
func (s *Store) Set(ctx context.Context, token string, state *State) error {
	return s.write(ctx, token, state, s.ttl)
}

// AddFlash appends a one-shot message to the session. Missing sessions are
// ignored; a flash for a dead session has nowhere to go.
func (s *Store) AddFlash(ctx context.Context, token, message string) error {
	state, err := s.Get(ctx, token)
	if err != nil {
		return err
	}
	if state == nil {
		return nil
	}
	state.Flashes = append(state.Flashes, message)
	return s.Set(ctx, token, state)
}

// PopFlashes returns the pending flash messages and clears them. A second
// pop returns nothing.
func (s *Store) PopFlashes(ctx context.Context, token string) ([]string, error) {
	state, err := s.Get(ctx, token)
	if err != nil || state == nil {
		return nil, err
	}
	flashes := state.Flashes
	if len(flashes) == 0 {
		return nil, nil
	}
	state.Flashes = nil
	if err := s.Set(ctx, token, state); err != nil {
		return nil, err
	}
	return flashes, nil
}

// Destroy deletes the session. Destroying an absent session is not an
// error, so double logout is harmless.
func (s *Store) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, key(token)).Err(); err != nil {
		observability.SessionOperations.WithLabelValues("destroy", "error").Inc()
		return models.NewStoreUnavailableError(err)
	}
	observability.SessionOperations.WithLabelValues("destroy", "ok").Inc()
	return nil
}

func (s *Store) write(ctx context.Context, token string, state *State, ttl time.Duration) error {
	b, err := json.Marshal(state)
	if err != nil {
		return models.NewInternalError(err)
	}
	if err := s.client.Set(ctx, key(token), b, ttl).Err(); err != nil {
		observability.SessionOperations.WithLabelValues("set", "error").Inc()
		return models.NewStoreUnavailableError(err)
	}
	observability.SessionOperations.WithLabelValues("set", "ok").Inc()
	return nil
}
