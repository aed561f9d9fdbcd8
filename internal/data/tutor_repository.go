package data

import (
	"context"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/fareaz/eTuitionBd-Server/internal/errdefs"
	"github.com/fareaz/eTuitionBd-Server/internal/model"
)

type TutorRepository struct {
	db Querier
}

func NewTutorRepository(db Querier) *TutorRepository {
	return &TutorRepository{db: db}
}

func (r *TutorRepository) Create(ctx context.Context, email string, input *model.CreateTutorProfileInput) (*model.TutorProfile, error) {
	query := `
INSERT INTO tutor_profiles (id, email, name, qualifications, experience, expected_salary, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, email, name, qualifications, experience, expected_salary, status, created_at, updated_at
`
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	var profile model.TutorProfile
	err = pgxscan.Get(ctx, r.db, &profile, query,
		id,
		model.NormalizeEmail(email),
		strings.TrimSpace(input.Name),
		strings.TrimSpace(input.Qualifications),
		strings.TrimSpace(input.Experience),
		input.ExpectedSalary,
		model.ModerationPending,
	)
	if err != nil {
		return nil, handleError(err)
	}
	return &profile, nil
}

func (r *TutorRepository) Get(ctx context.Context, id uuid.UUID) (*model.TutorProfile, error) {
	query := `
SELECT id, email, name, qualifications, experience, expected_salary, status, created_at, updated_at
FROM tutor_profiles
WHERE id = $1
`
	var profile model.TutorProfile
	err := pgxscan.Get(ctx, r.db, &profile, query, id)
	if err != nil {
		return nil, handleError(err)
	}
	return &profile, nil
}

// GetLatestByEmail returns the tutor's most recent profile. Application
// creation snapshots from it.
func (r *TutorRepository) GetLatestByEmail(ctx context.Context, email string) (*model.TutorProfile, error) {
	query := `
SELECT id, email, name, qualifications, experience, expected_salary, status, created_at, updated_at
FROM tutor_profiles
WHERE email = $1
ORDER BY created_at DESC
LIMIT 1
`
	var profile model.TutorProfile
	err := pgxscan.Get(ctx, r.db, &profile, query, model.NormalizeEmail(email))
	if err != nil {
		return nil, handleError(err)
	}
	return &profile, nil
}

// List returns profiles newest first. Empty email and onlyApproved
// false means everything.
func (r *TutorRepository) List(ctx context.Context, email string, onlyApproved bool) ([]*model.TutorProfile, error) {
	query := `
SELECT id, email, name, qualifications, experience, expected_salary, status, created_at, updated_at
FROM tutor_profiles
`
	var where []string
	var args []any
	if email != "" {
		where = append(where, "email = $1")
		args = append(args, model.NormalizeEmail(email))
	}
	if onlyApproved {
		where = append(where, "status = 'approved'")
	}
	if len(where) > 0 {
		query += "WHERE " + strings.Join(where, " AND ") + "\n"
	}
	query += "ORDER BY created_at DESC"

	var profiles []*model.TutorProfile
	err := pgxscan.Select(ctx, r.db, &profiles, query, args...)
	if err != nil {
		return nil, handleError(err)
	}
	return profiles, nil
}

func (r *TutorRepository) Update(ctx context.Context, id uuid.UUID, input *model.UpdateTutorProfileInput) (*model.TutorProfile, error) {
	query, args, err := buildTutorProfileUpdateQuery(input)
	if err != nil {
		return nil, err
	}
	args = append(args, id)

	var profile model.TutorProfile
	err = pgxscan.Get(ctx, r.db, &profile, query, args...)
	if err != nil {
		return nil, handleError(err)
	}
	return &profile, nil
}

func (r *TutorRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.ModerationStatus) (*model.TutorProfile, error) {
	query := `
UPDATE tutor_profiles
SET status = $1, updated_at = now()
WHERE id = $2
RETURNING id, email, name, qualifications, experience, expected_salary, status, created_at, updated_at
`
	var profile model.TutorProfile
	err := pgxscan.Get(ctx, r.db, &profile, query, status, id)
	if err != nil {
		return nil, handleError(err)
	}
	return &profile, nil
}

func (r *TutorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tutor_profiles WHERE id = $1`

	res, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return handleError(err)
	}
	if res.RowsAffected() == 0 {
		return errdefs.ErrNotFound
	}
	return nil
}
