package data

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fareaz/eTuitionBd-Server/internal/model"
)

var ErrNoFieldsToUpdate = fmt.Errorf("no fields to update")

func buildUserUpdateQuery(input *model.UpdateUserInput) (string, []any, error) {
	var set []string
	var args []any
	argIdx := 1

	if input.Email != nil {
		set = append(set, fmt.Sprintf("email = $%d", argIdx))
		args = append(args, model.NormalizeEmail(*input.Email))
		argIdx++
	}
	if input.Name != nil {
		set = append(set, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, strings.TrimSpace(*input.Name))
		argIdx++
	}
	if input.Phone != nil {
		set = append(set, fmt.Sprintf("phone = $%d", argIdx))
		args = append(args, strings.TrimSpace(*input.Phone))
		argIdx++
	}
	if input.Role != nil {
		set = append(set, fmt.Sprintf("role = $%d", argIdx))
		args = append(args, model.NormalizeRole(*input.Role))
		argIdx++
	}

	if len(set) == 0 {
		return "", nil, ErrNoFieldsToUpdate
	}

	set = append(set, "updated_at = now()")

	query := fmt.Sprintf(`
UPDATE users
SET %s
WHERE id = $%d
RETURNING id, email, name, phone, role, created_at, updated_at
`,
		strings.Join(set, ", "),
		argIdx,
	)
	return query, args, nil
}

func buildTuitionUpdateQuery(input *model.UpdateTuitionInput) (string, []any, error) {
	var set []string
	var args []any
	argIdx := 1

	if input.Subject != nil {
		set = append(set, fmt.Sprintf("subject = $%d", argIdx))
		args = append(args, strings.TrimSpace(*input.Subject))
		argIdx++
	}
	if input.Class != nil {
		set = append(set, fmt.Sprintf("class = $%d", argIdx))
		args = append(args, strings.TrimSpace(*input.Class))
		argIdx++
	}
	if input.Location != nil {
		set = append(set, fmt.Sprintf("location = $%d", argIdx))
		args = append(args, strings.TrimSpace(*input.Location))
		argIdx++
	}
	if input.Budget != nil {
		set = append(set, fmt.Sprintf("budget = $%d", argIdx))
		args = append(args, *input.Budget)
		argIdx++
	}

	if len(set) == 0 {
		return "", nil, ErrNoFieldsToUpdate
	}

	set = append(set, "updated_at = now()")

	query := fmt.Sprintf(`
UPDATE tuitions
SET %s
WHERE id = $%d
RETURNING id, subject, class, location, budget, created_by, status, created_at, updated_at
`,
		strings.Join(set, ", "),
		argIdx,
	)
	return query, args, nil
}

func buildTutorProfileUpdateQuery(input *model.UpdateTutorProfileInput) (string, []any, error) {
	var set []string
	var args []any
	argIdx := 1

	if input.Name != nil {
		set = append(set, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, strings.TrimSpace(*input.Name))
		argIdx++
	}
	if input.Qualifications != nil {
		set = append(set, fmt.Sprintf("qualifications = $%d", argIdx))
		args = append(args, strings.TrimSpace(*input.Qualifications))
		argIdx++
	}
	if input.Experience != nil {
		set = append(set, fmt.Sprintf("experience = $%d", argIdx))
		args = append(args, strings.TrimSpace(*input.Experience))
		argIdx++
	}
	if input.ExpectedSalary != nil {
		set = append(set, fmt.Sprintf("expected_salary = $%d", argIdx))
		args = append(args, *input.ExpectedSalary)
		argIdx++
	}

	if len(set) == 0 {
		return "", nil, ErrNoFieldsToUpdate
	}

	set = append(set, "updated_at = now()")

	query := fmt.Sprintf(`
UPDATE tutor_profiles
SET %s
WHERE id = $%d
RETURNING id, email, name, qualifications, experience, expected_salary, status, created_at, updated_at
`,
		strings.Join(set, ", "),
		argIdx,
	)
	return query, args, nil
}

func buildApplicationUpdateQuery(patch *model.RepositoryApplicationPatch) (string, []any, error) {
	var set []string
	var args []any
	argIdx := 1

	if patch.Status != nil {
		set = append(set, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *patch.Status)
		argIdx++
	}
	if patch.Paid != nil {
		set = append(set, fmt.Sprintf("paid = $%d", argIdx))
		args = append(args, *patch.Paid)
		argIdx++
	}

	if len(set) == 0 {
		return "", nil, ErrNoFieldsToUpdate
	}

	set = append(set, "updated_at = now()")

	query := fmt.Sprintf(`
UPDATE applications
SET %s
WHERE id = $%d
RETURNING %s
`,
		strings.Join(set, ", "),
		argIdx,
		applicationColumns,
	)
	return query, args, nil
}

func buildListApplicationsQuery(filter *model.ListApplicationsFilter) (string, []any) {
	var where []string
	var args []any
	argIdx := 1

	if filter.TutorEmail != "" {
		where = append(where, fmt.Sprintf("tutor_email = $%d", argIdx))
		args = append(args, model.NormalizeEmail(filter.TutorEmail))
		argIdx++
	}
	if filter.StudentEmail != "" {
		where = append(where, fmt.Sprintf("student_email = $%d", argIdx))
		args = append(args, model.NormalizeEmail(filter.StudentEmail))
		argIdx++
	}
	if filter.TuitionId != uuid.Nil {
		where = append(where, fmt.Sprintf("tuition_id = $%d", argIdx))
		args = append(args, filter.TuitionId)
		argIdx++
	}

	query := fmt.Sprintf("SELECT %s\nFROM applications\n", applicationColumns)
	if len(where) > 0 {
		query += "WHERE " + strings.Join(where, " AND ") + "\n"
	}
	query += "ORDER BY created_at DESC"

	return query, args
}

func buildApprovedTuitionsQuery(q *model.ApprovedTuitionsQuery) (string, string, []any) {
	where := []string{"status = 'approved'"}
	var args []any
	argIdx := 1

	if q.Search != "" {
		where = append(where, fmt.Sprintf("(subject ILIKE $%d OR location ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+q.Search+"%")
		argIdx++
	}

	order := "created_at DESC"
	switch q.Sort {
	case "oldest":
		order = "created_at ASC"
	case "budget-asc":
		order = "budget ASC"
	case "budget-desc":
		order = "budget DESC"
	}

	whereClause := strings.Join(where, " AND ")

	countQuery := "SELECT count(*) FROM tuitions WHERE " + whereClause

	listQuery := fmt.Sprintf(`
SELECT id, subject, class, location, budget, created_by, status, created_at, updated_at
FROM tuitions
WHERE %s
ORDER BY %s
LIMIT $%d OFFSET $%d
`,
		whereClause,
		order,
		argIdx,
		argIdx+1,
	)

	return listQuery, countQuery, args
}
