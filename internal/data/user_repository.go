package data

import (
	"context"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/fareaz/eTuitionBd-Server/internal/errdefs"
	"github.com/fareaz/eTuitionBd-Server/internal/model"
)

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert inserts or refreshes a user keyed by normalized email.
// created_at survives the refresh.
func (r *UserRepository) Upsert(ctx context.Context, input *model.UpsertUserInput) (*model.User, error) {
	query := `
INSERT INTO users (id, email, name, phone, role)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (email) DO UPDATE
SET name = EXCLUDED.name,
    phone = EXCLUDED.phone,
    role = EXCLUDED.role,
    updated_at = now()
RETURNING id, email, name, phone, role, created_at, updated_at
`
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	var user model.User
	err = pgxscan.Get(ctx, r.db, &user, query,
		id,
		model.NormalizeEmail(input.Email),
		strings.TrimSpace(input.Name),
		strings.TrimSpace(input.Phone),
		model.NormalizeRole(input.Role),
	)
	if err != nil {
		return nil, handleError(err)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
SELECT id, email, name, phone, role, created_at, updated_at
FROM users
WHERE email = $1
`
	var user model.User
	err := pgxscan.Get(ctx, r.db, &user, query, model.NormalizeEmail(email))
	if err != nil {
		return nil, handleError(err)
	}
	return &user, nil
}

func (r *UserRepository) Search(ctx context.Context, searchText string, limit int) ([]*model.User, error) {
	query := `
SELECT id, email, name, phone, role, created_at, updated_at
FROM users
`
	var args []any
	if searchText != "" {
		query += "WHERE name ILIKE $1 OR email ILIKE $1\n"
		args = append(args, "%"+searchText+"%")
	}
	query += "ORDER BY created_at DESC\n"
	if searchText != "" {
		query += "LIMIT $2"
	} else {
		query += "LIMIT $1"
	}
	args = append(args, limit)

	var users []*model.User
	err := pgxscan.Select(ctx, r.db, &users, query, args...)
	if err != nil {
		return nil, handleError(err)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, input *model.UpdateUserInput) (*model.User, error) {
	query, args, err := buildUserUpdateQuery(input)
	if err != nil {
		return nil, err
	}
	args = append(args, id)

	var user model.User
	err = pgxscan.Get(ctx, r.db, &user, query, args...)
	if err != nil {
		return nil, handleError(err)
	}
	return &user, nil
}

func (r *UserRepository) SetRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error) {
	query := `
UPDATE users
SET role = $1, updated_at = now()
WHERE id = $2
RETURNING id, email, name, phone, role, created_at, updated_at
`
	var user model.User
	err := pgxscan.Get(ctx, r.db, &user, query, role, id)
	if err != nil {
		return nil, handleError(err)
	}
	return &user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`

	res, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return handleError(err)
	}
	if res.RowsAffected() == 0 {
		return errdefs.ErrNotFound
	}
	return nil
}
