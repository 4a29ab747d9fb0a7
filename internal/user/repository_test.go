package user

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/go-auth-api/internal/database"
)

var userColumns = []string{"id", "name", "email", "password_hash", "avatar", "created_at"}

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return NewRepository(database.NewBunDB(sqlDB)), mock
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMockRepository(t)

	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Second)
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(id.String(), "Ana", "a@x.com", "hash", "av", now))

	created, err := repo.Create(context.Background(), &User{Name: "Ana", Email: "A@x.com", PasswordHash: "hash", Avatar: "av"})
	require.NoError(t, err)

	assert.Equal(t, id.String(), created.ID)
	assert.Equal(t, "a@x.com", created.Email)
	assert.True(t, created.CreatedAt.Equal(now))
}

func TestRepository_Create_UniqueViolation(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := repo.Create(context.Background(), &User{Name: "Ana", Email: "a@x.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRepository_Create_OtherError(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "users"`)).
		WillReturnError(sql.ErrConnDone)

	_, err := repo.Create(context.Background(), &User{Name: "Ana", Email: "a@x.com", PasswordHash: "hash"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestRepository_FindByEmail(t *testing.T) {
	repo, mock := newMockRepository(t)

	id := uuid.New()
	mock.ExpectQuery(`SELECT .+ FROM "users" AS "u" WHERE \(lower\(email\) = 'a@x.com'\)`).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(id.String(), "Ana", "a@x.com", "hash", "av", time.Now()))

	u, err := repo.FindByEmail(context.Background(), " A@X.com")
	require.NoError(t, err)
	assert.Equal(t, id.String(), u.ID)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestRepository_FindByEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM "users"`)).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.FindByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_FindByID_ExcludesHash(t *testing.T) {
	repo, mock := newMockRepository(t)

	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "avatar", "created_at"}).
			AddRow(id.String(), "Ana", "a@x.com", "av", time.Now()))

	u, err := repo.FindByID(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Empty(t, u.PasswordHash)
}

func TestRepository_FindByID_MalformedID(t *testing.T) {
	repo, _ := newMockRepository(t)

	_, err := repo.FindByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}
