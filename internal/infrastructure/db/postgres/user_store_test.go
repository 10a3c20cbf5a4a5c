package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbressan/identity-service/internal/domain"
)

/*
Postgres user store test cases:
1) Create returns the inserted row
2) unique violation (23505) maps to duplicate_mail
3) FindByID maps ErrNoRows to user_not_found
4) FindByMail normalizes the mail before querying
5) driver failure maps to store_unavailable
6) Update full-replace returns the stored row
7) Update of a missing id maps to user_not_found
*/

func newTestStore(t *testing.T) (*UserStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserStore(db), mock
}

func userRows(u domain.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "mail", "name", "password_hash", "verified"}).
		AddRow(u.ID, u.Mail, u.Name, u.PasswordHash, u.Verified)
}

func TestCreate_ReturnsInsertedRow(t *testing.T) {
	store, mock := newTestStore(t)
	u := domain.User{ID: "u1", Mail: "ana@example.com", Name: "Ana", PasswordHash: "h", Verified: false}

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("u1", "ana@example.com", "Ana", "h", false).
		WillReturnRows(userRows(u))

	created, err := store.Create(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, u, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolation(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_mail_key"})

	_, err := store.Create(context.Background(), domain.User{
		ID: "u1", Mail: "ana@example.com", PasswordHash: "h",
	})
	assert.True(t, domain.Is(err, "duplicate_mail"))
}

func TestFindByID_NotFound(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(`SELECT id, mail, name, password_hash, verified`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := store.FindByID(context.Background(), "ghost")
	assert.True(t, domain.Is(err, "user_not_found"))
}

func TestFindByMail_NormalizesMail(t *testing.T) {
	store, mock := newTestStore(t)
	u := domain.User{ID: "u1", Mail: "ana@example.com", Name: "Ana", PasswordHash: "h", Verified: true}

	mock.ExpectQuery(`SELECT id, mail, name, password_hash, verified`).
		WithArgs("ana@example.com").
		WillReturnRows(userRows(u))

	got, err := store.FindByMail(context.Background(), "  ANA@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, u, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_DriverFailure(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(`SELECT id, mail, name, password_hash, verified`).
		WillReturnError(errors.New("connection refused"))

	_, err := store.FindByID(context.Background(), "u1")
	assert.True(t, domain.Is(err, "store_unavailable"))
}

func TestUpdate_FullReplace(t *testing.T) {
	store, mock := newTestStore(t)
	u := domain.User{ID: "u1", Mail: "ana@example.com", Name: "Ana", PasswordHash: "new", Verified: true}

	mock.ExpectQuery(`UPDATE users`).
		WithArgs("u1", "ana@example.com", "Ana", "new", true).
		WillReturnRows(userRows(u))

	saved, err := store.Update(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, u, saved)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_MissingID(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery(`UPDATE users`).
		WillReturnError(sql.ErrNoRows)

	_, err := store.Update(context.Background(), domain.User{ID: "ghost", Mail: "a@b.c"})
	assert.True(t, domain.Is(err, "user_not_found"))
}
