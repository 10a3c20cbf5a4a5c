package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/mbressan/identity-service/internal/domain"
)

// UserStore is an in-memory durable-store stand-in for tests and local runs.
type UserStore struct {
	mu     sync.RWMutex
	byID   map[string]domain.User
	byMail map[string]string // mail -> userID
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:   make(map[string]domain.User),
		byMail: make(map[string]string),
	}
}

func normalizeMail(mail string) string {
	return strings.ToLower(strings.TrimSpace(mail))
}

func (r *UserStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Mail = normalizeMail(u.Mail)

	r.mu.Lock()
	defer r.mu.Unlock()

	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	if _, exists := r.byMail[u.Mail]; exists {
		return domain.User{}, domain.ErrDuplicateMail()
	}

	r.byID[u.ID] = u
	r.byMail[u.Mail] = u.ID
	return u, nil
}

func (r *UserStore) FindByID(ctx context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *UserStore) FindByMail(ctx context.Context, mail string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byMail[normalizeMail(mail)]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return r.byID[id], nil
}

func (r *UserStore) Update(ctx context.Context, u domain.User) (domain.User, error) {
	u.Mail = normalizeMail(u.Mail)

	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[u.ID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	if old.Mail != u.Mail {
		if _, taken := r.byMail[u.Mail]; taken {
			return domain.User{}, domain.ErrDuplicateMail()
		}
		delete(r.byMail, old.Mail)
		r.byMail[u.Mail] = u.ID
	}
	r.byID[u.ID] = u
	return u, nil
}

// Delete removes a user out-of-band. Only tests use it, to simulate a record
// disappearing from the durable store behind the cache's back.
func (r *UserStore) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.byID[id]; ok {
		delete(r.byMail, u.Mail)
		delete(r.byID, id)
	}
}
