package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mbressan/identity-service/internal/domain"
)

// fakeStore is a minimal in-memory UserStore for service tests.
type fakeStore struct {
	mu     sync.Mutex
	byID   map[string]domain.User
	byMail map[string]string

	failWith error // when set, every call fails with it
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		byID:   make(map[string]domain.User),
		byMail: make(map[string]string),
	}
}

func (f *fakeStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.User{}, f.failWith
	}
	if _, exists := f.byMail[u.Mail]; exists {
		return domain.User{}, domain.ErrDuplicateMail()
	}
	f.byID[u.ID] = u
	f.byMail[u.Mail] = u.ID
	return u, nil
}

func (f *fakeStore) FindByID(ctx context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.User{}, f.failWith
	}
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeStore) FindByMail(ctx context.Context, mail string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.User{}, f.failWith
	}
	id, ok := f.byMail[mail]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return f.byID[id], nil
}

func (f *fakeStore) Update(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return domain.User{}, f.failWith
	}
	old, ok := f.byID[u.ID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	if old.Mail != u.Mail {
		delete(f.byMail, old.Mail)
		f.byMail[u.Mail] = u.ID
	}
	f.byID[u.ID] = u
	return u, nil
}

// fakeHasher records plaintexts as "hashed:<pw>" so assertions stay readable.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokens issues readable tokens "purpose|subject|n" and tracks expiry
// per token. No cryptography; the real signing path has its own tests.
type fakeTokens struct {
	mu      sync.Mutex
	n       int
	expired map[string]bool
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{expired: make(map[string]bool)}
}

func (f *fakeTokens) Issue(subjectID string, purpose TokenPurpose, ttl time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	return fmt.Sprintf("%s|%s|%d", purpose, subjectID, f.n), nil
}

func (f *fakeTokens) Verify(token string, purpose TokenPurpose) (TokenClaims, error) {
	f.mu.Lock()
	expired := f.expired[token]
	f.mu.Unlock()

	parts := strings.SplitN(token, "|", 3)
	if len(parts) != 3 {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	if parts[0] != string(purpose) {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	if expired {
		return TokenClaims{}, domain.ErrTokenExpired()
	}
	return TokenClaims{SubjectID: parts[1], Purpose: purpose}, nil
}

func (f *fakeTokens) expire(token string) {
	f.mu.Lock()
	f.expired[token] = true
	f.mu.Unlock()
}

// fakeMail records published events.
type fakeMail struct {
	mu       sync.Mutex
	confirms []ConfirmMailEvent
	resets   []ResetMailEvent
}

func (f *fakeMail) PublishConfirmMail(ctx context.Context, evt ConfirmMailEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirms = append(f.confirms, evt)
	return nil
}

func (f *fakeMail) PublishResetMail(ctx context.Context, evt ResetMailEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets = append(f.resets, evt)
	return nil
}

func isCode(err error, code string) bool {
	return domain.Is(err, code)
}

func newTestService() (*Service, *fakeStore, *fakeTokens, *fakeMail) {
	store := newFakeStore()
	tokens := newFakeTokens()
	mail := &fakeMail{}
	svc := NewService(store, fakeHasher{}, tokens, mail, Config{
		ConfirmBaseURL: "https://app.test/confirm/",
		ResetBaseURL:   "https://app.test/reset/",
	})
	return svc, store, tokens, mail
}
