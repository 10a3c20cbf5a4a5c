package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mbressan/identity-service/internal/domain"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// ---------- helpers ----------

func normalizeMail(mail string) string {
	return strings.ToLower(strings.TrimSpace(mail))
}

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Mail, &u.Name, &u.PasswordHash, &u.Verified)
	return u, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ---------- account.UserStore ----------

func (r *UserStore) Create(ctx context.Context, u domain.User) (domain.User, error) {
	u.Mail = normalizeMail(u.Mail)
	if u.ID == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}
	if u.Mail == "" {
		return domain.User{}, domain.ErrMissingField("mail")
	}
	if u.PasswordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}

	const q = `
INSERT INTO users (id, mail, name, password_hash, verified)
VALUES ($1,$2,$3,$4,$5)
RETURNING id, mail, name, password_hash, verified;
`
	created, err := scanUser(r.db.QueryRowContext(ctx, q,
		u.ID, u.Mail, u.Name, u.PasswordHash, u.Verified,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrDuplicateMail()
		}
		return domain.User{}, domain.ErrStoreUnavailable(err)
	}
	return created, nil
}

func (r *UserStore) FindByID(ctx context.Context, id string) (domain.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}

	const q = `
SELECT id, mail, name, password_hash, verified
FROM users
WHERE id = $1
LIMIT 1;
`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrStoreUnavailable(err)
	}
	return u, nil
}

func (r *UserStore) FindByMail(ctx context.Context, mail string) (domain.User, error) {
	mail = normalizeMail(mail)
	if mail == "" {
		return domain.User{}, domain.ErrMissingField("mail")
	}

	const q = `
SELECT id, mail, name, password_hash, verified
FROM users
WHERE mail = $1
LIMIT 1;
`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, mail))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrStoreUnavailable(err)
	}
	return u, nil
}

// Update replaces the full record.
func (r *UserStore) Update(ctx context.Context, u domain.User) (domain.User, error) {
	u.Mail = normalizeMail(u.Mail)
	if strings.TrimSpace(u.ID) == "" {
		return domain.User{}, domain.ErrMissingField("id")
	}

	const q = `
UPDATE users
SET mail = $2,
    name = $3,
    password_hash = $4,
    verified = $5
WHERE id = $1
RETURNING id, mail, name, password_hash, verified;
`
	saved, err := scanUser(r.db.QueryRowContext(ctx, q,
		u.ID, u.Mail, u.Name, u.PasswordHash, u.Verified,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrDuplicateMail()
		}
		return domain.User{}, domain.ErrStoreUnavailable(err)
	}
	return saved, nil
}
