package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fareaz/eTuitionBd-Server/internal/errdefs"
	"github.com/fareaz/eTuitionBd-Server/internal/events"
	"github.com/fareaz/eTuitionBd-Server/internal/logging"
	"github.com/fareaz/eTuitionBd-Server/internal/model"
)

// ApplicationService owns the application lifecycle: create, the
// update/pay/delete transitions, the authorization policy calls, and
// the sibling auto-reject side effect.
type ApplicationService struct {
	applications ApplicationRepository
	tuitions     TuitionRepository
	tutors       TutorRepository
	users        UserRepository
	producer     EventProducer
}

func NewApplicationService(
	applications ApplicationRepository,
	tuitions TuitionRepository,
	tutors TutorRepository,
	users UserRepository,
	producer EventProducer,
) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		tuitions:     tuitions,
		tutors:       tutors,
		users:        users,
		producer:     producer,
	}
}

type applicationEvent struct {
	ApplicationId string `json:"applicationId"`
	TuitionId     string `json:"tuitionId"`
	TutorEmail    string `json:"tutorEmail"`
	StudentEmail  string `json:"studentEmail"`
	Status        string `json:"status"`
	Paid          bool   `json:"paid"`
}

// Create inserts a new pending application snapshotting the tuition
// and the requester's tutor profile as they are right now. Later edits
// to either source do not propagate.
func (s *ApplicationService) Create(ctx context.Context, input *model.CreateApplicationInput) (*model.Application, error) {
	tutorEmail, err := requesterEmail(ctx)
	if err != nil {
		return nil, err
	}

	tuitionId, err := uuid.Parse(input.TuitionId)
	if err != nil {
		return nil, fmt.Errorf("malformed tuition id %q: %w", input.TuitionId, errdefs.ErrInvalidArgument)
	}

	tuition, err := s.tuitions.Get(ctx, tuitionId)
	if err != nil {
		return nil, err
	}

	profile, err := s.tutors.GetLatestByEmail(ctx, tutorEmail)
	if err != nil {
		return nil, err
	}

	// Fast-path duplicate check for a friendly error; the unique index
	// on (tuition_id, tutor_email) is the actual enforcement.
	exists, err := s.applications.ExistsForTuitionAndTutor(ctx, tuitionId, tutorEmail)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("application for this tuition already exists: %w", errdefs.ErrAlreadyExists)
	}

	studentName := ""
	if student, err := s.users.GetByEmail(ctx, tuition.CreatedBy); err == nil {
		studentName = student.Name
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	app := &model.Application{
		Id:             id,
		TuitionId:      tuition.Id,
		TutorEmail:     tutorEmail,
		StudentEmail:   model.NormalizeEmail(tuition.CreatedBy),
		Subject:        tuition.Subject,
		Class:          tuition.Class,
		Location:       tuition.Location,
		Budget:         tuition.Budget,
		TutorName:      profile.Name,
		Qualifications: profile.Qualifications,
		Experience:     profile.Experience,
		ExpectedSalary: profile.ExpectedSalary,
		StudentName:    studentName,
		Status:         model.ApplicationPending,
		Paid:           false,
	}

	created, err := s.applications.Create(ctx, app)
	if err != nil {
		return nil, err
	}

	s.emit(ctx, events.TopicApplicationCreated, created)

	return created, nil
}

// List returns applications newest first. Non-admins only see rows
// they are a party to, so the filter has to name their own email.
func (s *ApplicationService) List(ctx context.Context, filter *model.ListApplicationsFilter) ([]*model.Application, error) {
	email, err := requesterEmail(ctx)
	if err != nil {
		return nil, err
	}
	role, err := lookupRole(ctx, s.users, email)
	if err != nil {
		return nil, err
	}

	if role != model.RoleAdmin {
		tutorMatch := model.NormalizeEmail(filter.TutorEmail) == email && filter.TutorEmail != ""
		studentMatch := model.NormalizeEmail(filter.StudentEmail) == email && filter.StudentEmail != ""
		if !tutorMatch && !studentMatch {
			return nil, deny("filter must reference your own email")
		}
	}

	return s.applications.List(ctx, filter)
}

// Update applies one state transition: status and/or paid. An
// approving result bulk-rejects still-open siblings best-effort.
func (s *ApplicationService) Update(ctx context.Context, idParam string, patch *model.ApplicationPatch) (*model.Application, error) {
	email, err := requesterEmail(ctx)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idParam)
	if err != nil {
		return nil, fmt.Errorf("malformed application id %q: %w", idParam, errdefs.ErrInvalidArgument)
	}

	if patch == nil || (patch.Status == nil && patch.Paid == nil) {
		return nil, fmt.Errorf("no fields to update: %w", errdefs.ErrInvalidArgument)
	}

	app, err := s.applications.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := lookupRole(ctx, s.users, email)
	if err != nil {
		return nil, err
	}

	if err := DecideApplicationUpdate(email, role, app, patch); err != nil {
		return nil, err
	}

	repoPatch := &model.RepositoryApplicationPatch{Paid: patch.Paid}
	if patch.Status != nil {
		status, ok := model.ParseApplicationStatus(*patch.Status)
		if !ok {
			return nil, fmt.Errorf("unknown status %q: %w", *patch.Status, errdefs.ErrInvalidArgument)
		}
		repoPatch.Status = &status
	}

	updated, err := s.applications.Update(ctx, id, repoPatch)
	if err != nil {
		return nil, err
	}

	if updated.Status == model.ApplicationApproved {
		s.rejectSiblings(ctx, updated)
	}
	s.emit(ctx, events.TopicApplicationStatusChanged, updated)

	return updated, nil
}

// Pay is the student-or-admin pay transition.
func (s *ApplicationService) Pay(ctx context.Context, idParam string) (*model.Application, error) {
	email, err := requesterEmail(ctx)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idParam)
	if err != nil {
		return nil, fmt.Errorf("malformed application id %q: %w", idParam, errdefs.ErrInvalidArgument)
	}

	app, err := s.applications.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	role, err := lookupRole(ctx, s.users, email)
	if err != nil {
		return nil, err
	}

	if err := DecideApplicationPay(email, role, app); err != nil {
		return nil, err
	}

	return s.ApplyPayTransition(ctx, id)
}

// ApplyPayTransition sets status=approved, paid=true and rejects
// siblings. Callers are responsible for authorization; payment
// reconciliation calls this directly because the provider's
// confirmation is itself the authorization.
func (s *ApplicationService) ApplyPayTransition(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	status := model.ApplicationApproved
	paid := true
	updated, err := s.applications.Update(ctx, id, &model.RepositoryApplicationPatch{
		Status: &status,
		Paid:   &paid,
	})
	if err != nil {
		return nil, err
	}

	s.rejectSiblings(ctx, updated)
	s.emit(ctx, events.TopicApplicationPaid, updated)

	return updated, nil
}

func (s *ApplicationService) Delete(ctx context.Context, idParam string) error {
	email, err := requesterEmail(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(idParam)
	if err != nil {
		return fmt.Errorf("no application with id %q: %w", idParam, errdefs.ErrNotFound)
	}

	app, err := s.applications.Get(ctx, id)
	if err != nil {
		return err
	}

	role, err := lookupRole(ctx, s.users, email)
	if err != nil {
		return err
	}

	if err := DecideApplicationDelete(email, role, app); err != nil {
		return err
	}

	return s.applications.Delete(ctx, id)
}

// rejectSiblings is best-effort: exclusivity per tuition is eventually
// consistent, and a failure here never fails the parent transition.
func (s *ApplicationService) rejectSiblings(ctx context.Context, app *model.Application) {
	count, err := s.applications.RejectSiblings(ctx, app.TuitionId, app.Id)
	if err != nil {
		if logger, ok := logging.GetFromContext(ctx); ok {
			logger.Error(ctx, "failed to reject sibling applications",
				zap.String("tuition_id", app.TuitionId.String()),
				zap.String("application_id", app.Id.String()),
				zap.Error(err),
			)
		}
		return
	}
	if count > 0 {
		if logger, ok := logging.GetFromContext(ctx); ok {
			logger.Info(ctx, "rejected sibling applications",
				zap.String("tuition_id", app.TuitionId.String()),
				zap.Int64("count", count),
			)
		}
	}
}

func (s *ApplicationService) emit(ctx context.Context, topic string, app *model.Application) {
	event := &applicationEvent{
		ApplicationId: app.Id.String(),
		TuitionId:     app.TuitionId.String(),
		TutorEmail:    app.TutorEmail,
		StudentEmail:  app.StudentEmail,
		Status:        app.Status.String(),
		Paid:          app.Paid,
	}
	if err := s.producer.Send(ctx, topic, event); err != nil {
		if logger, ok := logging.GetFromContext(ctx); ok {
			logger.Warn(ctx, "failed to publish application event",
				zap.String("topic", topic),
				zap.Error(err),
			)
		}
	}
}
