package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fareaz/eTuitionBd-Server/internal/errdefs"
	"github.com/fareaz/eTuitionBd-Server/internal/model"
)

type TutorService struct {
	tutors TutorRepository
	users  UserRepository
}

func NewTutorService(tutors TutorRepository, users UserRepository) *TutorService {
	return &TutorService{tutors: tutors, users: users}
}

func (s *TutorService) Create(ctx context.Context, input *model.CreateTutorProfileInput) (*model.TutorProfile, error) {
	email, err := requesterEmail(ctx)
	if err != nil {
		return nil, err
	}

	if input.Name == "" {
		return nil, fmt.Errorf("name is required: %w", errdefs.ErrInvalidArgument)
	}

	return s.tutors.Create(ctx, email, input)
}

func (s *TutorService) List(ctx context.Context) ([]*model.TutorProfile, error) {
	return s.tutors.List(ctx, "", false)
}

func (s *TutorService) ListApproved(ctx context.Context) ([]*model.TutorProfile, error) {
	return s.tutors.List(ctx, "", true)
}

func (s *TutorService) ListMine(ctx context.Context) ([]*model.TutorProfile, error) {
	email, err := requesterEmail(ctx)
	if err != nil {
		return nil, err
	}
	return s.tutors.List(ctx, email, false)
}

func (s *TutorService) Update(ctx context.Context, idParam string, input *model.UpdateTutorProfileInput) (*model.TutorProfile, error) {
	id, err := s.authorizeOwnerOrAdmin(ctx, idParam)
	if err != nil {
		return nil, err
	}

	if input.Name == nil && input.Qualifications == nil && input.Experience == nil && input.ExpectedSalary == nil {
		return nil, fmt.Errorf("no fields to update: %w", errdefs.ErrInvalidArgument)
	}

	return s.tutors.Update(ctx, id, input)
}

func (s *TutorService) SetStatus(ctx context.Context, idParam string, statusParam string) (*model.TutorProfile, error) {
	if _, err := requireAdmin(ctx, s.users); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idParam)
	if err != nil {
		return nil, fmt.Errorf("no tutor profile with id %q: %w", idParam, errdefs.ErrNotFound)
	}

	status, ok := model.ParseModerationStatus(statusParam)
	if !ok {
		return nil, fmt.Errorf("unknown status %q: %w", statusParam, errdefs.ErrInvalidArgument)
	}

	return s.tutors.SetStatus(ctx, id, status)
}

func (s *TutorService) Delete(ctx context.Context, idParam string) error {
	id, err := s.authorizeOwnerOrAdmin(ctx, idParam)
	if err != nil {
		return err
	}
	return s.tutors.Delete(ctx, id)
}

func (s *TutorService) authorizeOwnerOrAdmin(ctx context.Context, idParam string) (uuid.UUID, error) {
	email, err := requesterEmail(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(idParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("no tutor profile with id %q: %w", idParam, errdefs.ErrNotFound)
	}

	profile, err := s.tutors.Get(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}

	if model.NormalizeEmail(profile.Email) == email {
		return id, nil
	}

	role, err := lookupRole(ctx, s.users, email)
	if err != nil {
		return uuid.Nil, err
	}
	if role != model.RoleAdmin {
		return uuid.Nil, deny("only the owner or an admin can modify this profile")
	}

	return id, nil
}
