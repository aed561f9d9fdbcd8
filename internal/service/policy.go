package service

import (
	"fmt"

	"github.com/fareaz/eTuitionBd-Server/internal/errdefs"
	"github.com/fareaz/eTuitionBd-Server/internal/model"
)

// The authorization policy for application mutations. Pure functions:
// requester identity and role in, allow or deny out.
//
// The asymmetry is deliberate: a tutor may self-report readiness by
// setting status to "confirmed", but only the paying party (the
// student who owns the underlying tuition) or an admin can approve or
// mark an application paid.

func isStudentOwner(email string, app *model.Application) bool {
	return model.NormalizeEmail(email) == model.NormalizeEmail(app.StudentEmail)
}

func isTutorOwner(email string, app *model.Application) bool {
	return model.NormalizeEmail(email) == model.NormalizeEmail(app.TutorEmail)
}

func deny(reason string) error {
	return fmt.Errorf("%s: %w", reason, errdefs.ErrPermissionDenied)
}

// DecideApplicationUpdate gates the update transition. Rules are
// evaluated in order; the first deny wins.
func DecideApplicationUpdate(requesterEmail string, requesterRole model.Role, app *model.Application, patch *model.ApplicationPatch) error {
	admin := requesterRole == model.RoleAdmin
	studentOwner := isStudentOwner(requesterEmail, app)
	tutorOwner := isTutorOwner(requesterEmail, app)

	if !admin && !studentOwner && !tutorOwner {
		return deny("not related to this application")
	}

	if tutorOwner && !admin && !studentOwner {
		// A tutor may only self-confirm. Anything else, including any
		// paid change, is off limits.
		if patch.Paid != nil {
			return deny("tutors cannot change the paid flag")
		}
		if patch.Status == nil {
			return deny("tutors may only set status to confirmed")
		}
		if status, ok := model.ParseApplicationStatus(*patch.Status); !ok || status != model.ApplicationConfirmed {
			return deny("tutors may only set status to confirmed")
		}
		return nil
	}

	if patch.Paid != nil && *patch.Paid && !studentOwner && !admin {
		return deny("only the student owner or an admin can mark an application paid")
	}

	return nil
}

// DecideApplicationPay gates the explicit pay transition.
func DecideApplicationPay(requesterEmail string, requesterRole model.Role, app *model.Application) error {
	if requesterRole == model.RoleAdmin || isStudentOwner(requesterEmail, app) {
		return nil
	}
	return deny("only the student owner or an admin can pay an application")
}

// DecideApplicationDelete gates deletion, which is broader than
// mutation: any related party may delete.
func DecideApplicationDelete(requesterEmail string, requesterRole model.Role, app *model.Application) error {
	if requesterRole == model.RoleAdmin || isStudentOwner(requesterEmail, app) || isTutorOwner(requesterEmail, app) {
		return nil
	}
	return deny("not related to this application")
}
