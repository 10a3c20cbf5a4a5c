package account

import (
	"context"
	"time"

	"github.com/mbressan/identity-service/internal/domain"
)

/*
UserStore
---------
Persistence port for users. The durable store is the source of truth;
it enforces mail uniqueness and signals absence, nothing more.
*/
type UserStore interface {
	Create(ctx context.Context, u domain.User) (domain.User, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByMail(ctx context.Context, mail string) (domain.User, error)

	// Update replaces the full record. Callers mutate a loaded User and
	// hand it back; there is no partial patch.
	Update(ctx context.Context, u domain.User) (domain.User, error)
}

/*
Cache
-----
Volatile key/value port over the identity keyspace. Absence is a normal
outcome (ok=false, nil error); only connectivity failures are errors.
*/
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

/*
PasswordHasher
--------------
Abstracts bcrypt / argon2.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenService
------------
Issues and verifies purpose-scoped signed tokens. Each purpose is signed
with its own secret, so a token minted for one purpose can never verify
as another. Used by the service and the session guard.
*/
type TokenPurpose string

const (
	PurposeMailConfirm TokenPurpose = "mail-confirm"
	PurposeAccess      TokenPurpose = "access"
	PurposeRefresh     TokenPurpose = "refresh"
)

type TokenClaims struct {
	SubjectID string
	Purpose   TokenPurpose
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type TokenService interface {
	Issue(subjectID string, purpose TokenPurpose, ttl time.Duration) (string, error)
	Verify(token string, purpose TokenPurpose) (TokenClaims, error)
}

/*
MailPublisher
-------------
Publishes mail events to the broker. The mailer consumes these and sends
the actual mails; this service never talks SMTP itself.
*/
type MailPublisher interface {
	PublishConfirmMail(ctx context.Context, evt ConfirmMailEvent) error
	PublishResetMail(ctx context.Context, evt ResetMailEvent) error
}

type ConfirmMailEvent struct {
	UserID string
	Mail   string
	Name   string
	URL    string
}

type ResetMailEvent struct {
	UserID string
	Mail   string
	Name   string
	URL    string
}
