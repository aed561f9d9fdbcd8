package service_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/fareaz/eTuitionBd-Server/internal/errdefs"
	"github.com/fareaz/eTuitionBd-Server/internal/model"
	"github.com/fareaz/eTuitionBd-Server/internal/service"
)

func policyApp() *model.Application {
	return &model.Application{
		Id:           uuid.New(),
		TuitionId:    uuid.New(),
		StudentEmail: "student@example.com",
		TutorEmail:   "tutor@example.com",
		Status:       model.ApplicationPending,
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestDecideApplicationUpdate(t *testing.T) {
	app := policyApp()

	testCases := []struct {
		name    string
		email   string
		role    model.Role
		patch   *model.ApplicationPatch
		allowed bool
	}{
		{"AdminApproves", "admin@example.com", model.RoleAdmin, &model.ApplicationPatch{Status: strPtr("approved")}, true},
		{"AdminSetsPaid", "admin@example.com", model.RoleAdmin, &model.ApplicationPatch{Paid: boolPtr(true)}, true},
		{"StudentApproves", "student@example.com", model.RoleStudent, &model.ApplicationPatch{Status: strPtr("approved")}, true},
		{"StudentRejects", "student@example.com", model.RoleStudent, &model.ApplicationPatch{Status: strPtr("rejected")}, true},
		{"StudentSetsPaid", "student@example.com", model.RoleStudent, &model.ApplicationPatch{Paid: boolPtr(true)}, true},
		{"TutorConfirms", "tutor@example.com", model.RoleTutor, &model.ApplicationPatch{Status: strPtr("confirmed")}, true},
		{"TutorConfirmsMixedCase", "Tutor@Example.COM", model.RoleTutor, &model.ApplicationPatch{Status: strPtr("Confirmed")}, true},
		{"TutorApproves", "tutor@example.com", model.RoleTutor, &model.ApplicationPatch{Status: strPtr("approved")}, false},
		{"TutorRejects", "tutor@example.com", model.RoleTutor, &model.ApplicationPatch{Status: strPtr("rejected")}, false},
		{"TutorSetsPaid", "tutor@example.com", model.RoleTutor, &model.ApplicationPatch{Paid: boolPtr(true)}, false},
		{"TutorConfirmsAndPays", "tutor@example.com", model.RoleTutor, &model.ApplicationPatch{Status: strPtr("confirmed"), Paid: boolPtr(true)}, false},
		{"Stranger", "stranger@example.com", model.RoleStudent, &model.ApplicationPatch{Status: strPtr("confirmed")}, false},
		{"StrangerTutorRole", "stranger@example.com", model.RoleTutor, &model.ApplicationPatch{Status: strPtr("confirmed")}, false},
		{"EmptyRoleStudentOwner", "student@example.com", "", &model.ApplicationPatch{Status: strPtr("approved")}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.DecideApplicationUpdate(tc.email, tc.role, app, tc.patch)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, errdefs.ErrPermissionDenied))
			}
		})
	}
}

func TestDecideApplicationPay(t *testing.T) {
	app := policyApp()

	assert.NoError(t, service.DecideApplicationPay("student@example.com", model.RoleStudent, app))
	assert.NoError(t, service.DecideApplicationPay("admin@example.com", model.RoleAdmin, app))

	err := service.DecideApplicationPay("tutor@example.com", model.RoleTutor, app)
	assert.True(t, errors.Is(err, errdefs.ErrPermissionDenied))

	err = service.DecideApplicationPay("stranger@example.com", model.RoleStudent, app)
	assert.True(t, errors.Is(err, errdefs.ErrPermissionDenied))
}

func TestDecideApplicationDelete(t *testing.T) {
	app := policyApp()

	assert.NoError(t, service.DecideApplicationDelete("student@example.com", model.RoleStudent, app))
	assert.NoError(t, service.DecideApplicationDelete("tutor@example.com", model.RoleTutor, app))
	assert.NoError(t, service.DecideApplicationDelete("admin@example.com", model.RoleAdmin, app))

	err := service.DecideApplicationDelete("stranger@example.com", model.RoleStudent, app)
	assert.True(t, errors.Is(err, errdefs.ErrPermissionDenied))
}
