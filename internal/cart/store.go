package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a cart session does not exist or has
// expired.
var ErrNotFound = errors.New("cart not found")

const keyPrefix = "cart:"

// SessionStore persists cart state in Redis with a sliding TTL.
type SessionStore struct {
	R   *redis.Client
	TTL time.Duration
}

// NewSessionStore constructs a SessionStore.
func NewSessionStore(r *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{R: r, TTL: ttl}
}

// Get loads a cart by id.
func (s *SessionStore) Get(ctx context.Context, id string) (State, error) {
	if s == nil || s.R == nil {
		return State{}, errors.New("cart store not configured")
	}
	raw, err := s.R.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return State{}, ErrNotFound
		}
		return State{}, fmt.Errorf("get cart %s: %w", id, err)
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}, fmt.Errorf("decode cart %s: %w", id, err)
	}
	return st, nil
}

// Put writes a cart back, refreshing its TTL.
func (s *SessionStore) Put(ctx context.Context, st State) error {
	if s == nil || s.R == nil {
		return errors.New("cart store not configured")
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", st.ID, err)
	}
	if err := s.R.Set(ctx, keyPrefix+st.ID, raw, s.TTL).Err(); err != nil {
		return fmt.Errorf("put cart %s: %w", st.ID, err)
	}
	return nil
}

// Delete removes a cart session. Missing keys are not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if s == nil || s.R == nil {
		return errors.New("cart store not configured")
	}
	if err := s.R.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete cart %s: %w", id, err)
	}
	return nil
}
