package data

import (
	"context"
	"strings"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/fareaz/eTuitionBd-Server/internal/errdefs"
	"github.com/fareaz/eTuitionBd-Server/internal/model"
)

type TuitionRepository struct {
	db Querier
}

func NewTuitionRepository(db Querier) *TuitionRepository {
	return &TuitionRepository{db: db}
}

func (r *TuitionRepository) Create(ctx context.Context, createdBy string, input *model.CreateTuitionInput) (*model.Tuition, error) {
	query := `
INSERT INTO tuitions (id, subject, class, location, budget, created_by, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, subject, class, location, budget, created_by, status, created_at, updated_at
`
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	var tuition model.Tuition
	err = pgxscan.Get(ctx, r.db, &tuition, query,
		id,
		strings.TrimSpace(input.Subject),
		strings.TrimSpace(input.Class),
		strings.TrimSpace(input.Location),
		input.Budget,
		model.NormalizeEmail(createdBy),
		model.ModerationPending,
	)
	if err != nil {
		return nil, handleError(err)
	}
	return &tuition, nil
}

func (r *TuitionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Tuition, error) {
	query := `
SELECT id, subject, class, location, budget, created_by, status, created_at, updated_at
FROM tuitions
WHERE id = $1
`
	var tuition model.Tuition
	err := pgxscan.Get(ctx, r.db, &tuition, query, id)
	if err != nil {
		return nil, handleError(err)
	}
	return &tuition, nil
}

func (r *TuitionRepository) List(ctx context.Context, createdBy string) ([]*model.Tuition, error) {
	query := `
SELECT id, subject, class, location, budget, created_by, status, created_at, updated_at
FROM tuitions
`
	var args []any
	if createdBy != "" {
		query += "WHERE created_by = $1\n"
		args = append(args, model.NormalizeEmail(createdBy))
	}
	query += "ORDER BY created_at DESC"

	var tuitions []*model.Tuition
	err := pgxscan.Select(ctx, r.db, &tuitions, query, args...)
	if err != nil {
		return nil, handleError(err)
	}
	return tuitions, nil
}

// ListApproved serves the public paginated listing. Returns the page
// rows and the total match count.
func (r *TuitionRepository) ListApproved(ctx context.Context, q *model.ApprovedTuitionsQuery) ([]*model.Tuition, int, error) {
	listQuery, countQuery, args := buildApprovedTuitionsQuery(q)

	var total int
	err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, handleError(err)
	}

	offset := (q.Page - 1) * q.Limit
	listArgs := append(args, q.Limit, offset)

	var tuitions []*model.Tuition
	err = pgxscan.Select(ctx, r.db, &tuitions, listQuery, listArgs...)
	if err != nil {
		return nil, 0, handleError(err)
	}
	return tuitions, total, nil
}

func (r *TuitionRepository) Update(ctx context.Context, id uuid.UUID, input *model.UpdateTuitionInput) (*model.Tuition, error) {
	query, args, err := buildTuitionUpdateQuery(input)
	if err != nil {
		return nil, err
	}
	args = append(args, id)

	var tuition model.Tuition
	err = pgxscan.Get(ctx, r.db, &tuition, query, args...)
	if err != nil {
		return nil, handleError(err)
	}
	return &tuition, nil
}

func (r *TuitionRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.ModerationStatus) (*model.Tuition, error) {
	query := `
UPDATE tuitions
SET status = $1, updated_at = now()
WHERE id = $2
RETURNING id, subject, class, location, budget, created_by, status, created_at, updated_at
`
	var tuition model.Tuition
	err := pgxscan.Get(ctx, r.db, &tuition, query, status, id)
	if err != nil {
		return nil, handleError(err)
	}
	return &tuition, nil
}

func (r *TuitionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tuitions WHERE id = $1`

	res, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return handleError(err)
	}
	if res.RowsAffected() == 0 {
		return errdefs.ErrNotFound
	}
	return nil
}
