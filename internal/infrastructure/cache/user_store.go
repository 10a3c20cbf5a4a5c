// Package cache decorates the durable user store with a cache-aside layer
// over a volatile key/value service. The durable store stays the source of
// truth; losing every cache entry costs one extra round trip, never data.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/mbressan/identity-service/internal/application/account"
	"github.com/mbressan/identity-service/internal/domain"
)

// Two keyspaces: the by-id entry holds the full snapshot, the by-mail entry
// only the id, so mail lookups resolve through the canonical by-id entry.
const (
	idKeyPrefix   = "identity-by-id:"
	mailKeyPrefix = "identity-by-mail:"
)

// UserStore implements account.UserStore with cache population on every
// durable read and write. Cache failures degrade silently to the durable
// path; durable failures propagate.
type UserStore struct {
	inner account.UserStore
	kv    account.Cache
	ttl   time.Duration
	log   zerolog.Logger
}

func NewUserStore(inner account.UserStore, kv account.Cache, ttl time.Duration, log zerolog.Logger) *UserStore {
	return &UserStore{
		inner: inner,
		kv:    kv,
		ttl:   ttl,
		log:   log,
	}
}

// userSnapshot is the cache wire form of a user. Kept separate from
// domain.User so the domain type carries no serialization concerns.
type userSnapshot struct {
	ID           string `json:"id"`
	Mail         string `json:"mail"`
	Name         string `json:"name"`
	PasswordHash string `json:"password_hash"`
	Verified     bool   `json:"verified"`
}

func snapshotOf(u domain.User) userSnapshot {
	return userSnapshot{
		ID:           u.ID,
		Mail:         u.Mail,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Verified:     u.Verified,
	}
}

func (s userSnapshot) toDomain() domain.User {
	return domain.User{
		ID:           s.ID,
		Mail:         s.Mail,
		Name:         s.Name,
		PasswordHash: s.PasswordHash,
		Verified:     s.Verified,
	}
}

// Create delegates to the durable store (which enforces mail uniqueness),
// then populates both keyspaces. The cache write happens only after the
// durable write succeeded: an unpersisted value must never be served.
func (s *UserStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	created, err := s.inner.Create(ctx, u)
	if err != nil {
		return domain.User{}, err
	}
	s.populate(ctx, created)
	return created, nil
}

// FindByID serves from the by-id entry when possible and reads through to
// the durable store otherwise. A durable miss is NOT cached: with no
// invalidation path, a tombstone could mask a user forever.
func (s *UserStore) FindByID(ctx context.Context, id string) (domain.User, error) {
	if raw, ok, err := s.kv.Get(ctx, idKeyPrefix+id); err == nil && ok {
		var snap userSnapshot
		if uerr := json.Unmarshal([]byte(raw), &snap); uerr == nil && snap.ID != "" {
			return snap.toDomain(), nil
		}
		// corrupt entry: fall through and let the next populate overwrite it
		s.log.Warn().Str("user_id", id).Msg("corrupt identity cache entry, rereading store")
	} else if err != nil {
		// cache timeout or backend error is a miss, never a failure
		s.log.Debug().Err(err).Msg("identity cache read degraded to durable store")
	}

	u, err := s.inner.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	s.populate(ctx, u)
	return u, nil
}

// FindByMail resolves the by-mail index to an id and delegates to FindByID.
// An index miss falls through to the durable store; it never means the
// user does not exist (the two cache writes are not atomic, see populate).
func (s *UserStore) FindByMail(ctx context.Context, mail string) (domain.User, error) {
	if id, ok, err := s.kv.Get(ctx, mailKeyPrefix+mail); err == nil && ok && id != "" {
		return s.FindByID(ctx, id)
	} else if err != nil {
		s.log.Debug().Err(err).Msg("identity cache read degraded to durable store")
	}

	u, err := s.inner.FindByMail(ctx, mail)
	if err != nil {
		return domain.User{}, err
	}
	s.populate(ctx, u)
	return u, nil
}

// Update writes the full record durably, then repopulates the cache with
// what the store returned. On durable failure the cache is left untouched.
func (s *UserStore) Update(ctx context.Context, u domain.User) (domain.User, error) {
	saved, err := s.inner.Update(ctx, u)
	if err != nil {
		return domain.User{}, err
	}
	s.populate(ctx, saved)
	return saved, nil
}

// populate writes both keyspaces, best effort. The two writes are
// independent; a concurrent reader may observe one without the other.
func (s *UserStore) populate(ctx context.Context, u domain.User) {
	raw, err := json.Marshal(snapshotOf(u))
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", u.ID).Msg("identity snapshot marshal failed")
		return
	}
	if err := s.kv.Set(ctx, idKeyPrefix+u.ID, string(raw), s.ttl); err != nil {
		s.log.Debug().Err(err).Str("user_id", u.ID).Msg("identity cache populate skipped")
		return
	}
	if err := s.kv.Set(ctx, mailKeyPrefix+u.Mail, u.ID, s.ttl); err != nil {
		s.log.Debug().Err(err).Str("user_id", u.ID).Msg("identity mail index populate skipped")
	}
}
