package data

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/fareaz/eTuitionBd-Server/internal/errdefs"
	"github.com/fareaz/eTuitionBd-Server/internal/model"
)

const applicationColumns = `id, tuition_id, tutor_email, student_email,
	subject, class, location, budget,
	tutor_name, qualifications, experience, expected_salary, student_name,
	status, paid, created_at, updated_at`

type ApplicationRepository struct {
	db Querier
}

func NewApplicationRepository(db Querier) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts a new application carrying the tuition/tutor snapshot.
// The unique index on (tuition_id, tutor_email) is the real duplicate
// guard; a violation comes back as ErrAlreadyExists.
func (r *ApplicationRepository) Create(ctx context.Context, app *model.Application) (*model.Application, error) {
	query := `
INSERT INTO applications (
	id, tuition_id, tutor_email, student_email,
	subject, class, location, budget,
	tutor_name, qualifications, experience, expected_salary, student_name,
	status, paid
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING ` + applicationColumns

	var created model.Application
	err := pgxscan.Get(ctx, r.db, &created, query,
		app.Id,
		app.TuitionId,
		app.TutorEmail,
		app.StudentEmail,
		app.Subject,
		app.Class,
		app.Location,
		app.Budget,
		app.TutorName,
		app.Qualifications,
		app.Experience,
		app.ExpectedSalary,
		app.StudentName,
		app.Status,
		app.Paid,
	)
	if err != nil {
		return nil, handleError(err)
	}
	normalizeApplication(&created)
	return &created, nil
}

func (r *ApplicationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	query := `SELECT ` + applicationColumns + `
FROM applications
WHERE id = $1
`
	var app model.Application
	err := pgxscan.Get(ctx, r.db, &app, query, id)
	if err != nil {
		return nil, handleError(err)
	}
	normalizeApplication(&app)
	return &app, nil
}

// ExistsForTuitionAndTutor is the fast-path duplicate check. The unique
// index still backs it up under races.
func (r *ApplicationRepository) ExistsForTuitionAndTutor(ctx context.Context, tuitionId uuid.UUID, tutorEmail string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM applications WHERE tuition_id = $1 AND tutor_email = $2)`

	var exists bool
	err := r.db.QueryRow(ctx, query, tuitionId, model.NormalizeEmail(tutorEmail)).Scan(&exists)
	if err != nil {
		return false, handleError(err)
	}
	return exists, nil
}

func (r *ApplicationRepository) List(ctx context.Context, filter *model.ListApplicationsFilter) ([]*model.Application, error) {
	query, args := buildListApplicationsQuery(filter)

	var apps []*model.Application
	err := pgxscan.Select(ctx, r.db, &apps, query, args...)
	if err != nil {
		return nil, handleError(err)
	}
	for _, app := range apps {
		normalizeApplication(app)
	}
	return apps, nil
}

func (r *ApplicationRepository) Update(ctx context.Context, id uuid.UUID, patch *model.RepositoryApplicationPatch) (*model.Application, error) {
	query, args, err := buildApplicationUpdateQuery(patch)
	if err != nil {
		return nil, err
	}
	args = append(args, id)

	var app model.Application
	err = pgxscan.Get(ctx, r.db, &app, query, args...)
	if err != nil {
		return nil, handleError(err)
	}
	normalizeApplication(&app)
	return &app, nil
}

// RejectSiblings bulk-rejects every other still-open application for
// the same tuition. Runs after an approving transition commits.
func (r *ApplicationRepository) RejectSiblings(ctx context.Context, tuitionId uuid.UUID, exceptId uuid.UUID) (int64, error) {
	query := `
UPDATE applications
SET status = 'rejected', updated_at = now()
WHERE tuition_id = $1 AND id <> $2 AND status IN ('pending', 'requested')
`
	res, err := r.db.Exec(ctx, query, tuitionId, exceptId)
	if err != nil {
		return 0, handleError(err)
	}
	return res.RowsAffected(), nil
}

func (r *ApplicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM applications WHERE id = $1`

	res, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return handleError(err)
	}
	if res.RowsAffected() == 0 {
		return errdefs.ErrNotFound
	}
	return nil
}

// normalizeApplication folds legacy free-text statuses into the closed
// set at the storage boundary.
func normalizeApplication(app *model.Application) {
	if normalized, ok := model.ParseApplicationStatus(string(app.Status)); ok {
		app.Status = normalized
	}
}
