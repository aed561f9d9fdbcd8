package data

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fareaz/eTuitionBd-Server/internal/errdefs"
	"github.com/fareaz/eTuitionBd-Server/internal/model"
)

func TestUserRepo_Upsert(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewUserRepository(mockPool)
	now := time.Now()
	id := uuid.New()

	mockPool.ExpectQuery("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "new@example.com", "New User", "017", model.RoleStudent).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "name", "phone", "role", "created_at", "updated_at"}).
			AddRow(id, "new@example.com", "New User", "017", string(model.RoleStudent), now, now))

	user, err := repo.Upsert(context.Background(), &model.UpsertUserInput{
		Email: " New@Example.COM ",
		Name:  " New User ",
		Phone: "017",
		Role:  "Student",
	})
	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, model.RoleStudent, user.Role)
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewUserRepository(mockPool)

	mockPool.ExpectQuery("SELECT .* FROM users").
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.GetByEmail(context.Background(), "ghost@example.com")
	assert.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestUserRepo_Delete_NotFound(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewUserRepository(mockPool)
	id := uuid.New()

	mockPool.ExpectExec("DELETE FROM users").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = repo.Delete(context.Background(), id)
	assert.ErrorIs(t, err, errdefs.ErrNotFound)
}
