package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fareaz/eTuitionBd-Server/internal/errdefs"
	"github.com/fareaz/eTuitionBd-Server/internal/model"
)

type TuitionService struct {
	tuitions TuitionRepository
	users    UserRepository
}

func NewTuitionService(tuitions TuitionRepository, users UserRepository) *TuitionService {
	return &TuitionService{tuitions: tuitions, users: users}
}

func (s *TuitionService) Create(ctx context.Context, input *model.CreateTuitionInput) (*model.Tuition, error) {
	email, err := requesterEmail(ctx)
	if err != nil {
		return nil, err
	}

	if input.Budget <= 0 {
		return nil, fmt.Errorf("budget must be positive: %w", errdefs.ErrInvalidArgument)
	}
	if input.Subject == "" {
		return nil, fmt.Errorf("subject is required: %w", errdefs.ErrInvalidArgument)
	}

	return s.tuitions.Create(ctx, email, input)
}

func (s *TuitionService) List(ctx context.Context) ([]*model.Tuition, error) {
	return s.tuitions.List(ctx, "")
}

func (s *TuitionService) ListMine(ctx context.Context) ([]*model.Tuition, error) {
	email, err := requesterEmail(ctx)
	if err != nil {
		return nil, err
	}
	return s.tuitions.List(ctx, email)
}

func (s *TuitionService) ListApproved(ctx context.Context, q *model.ApprovedTuitionsQuery) (*model.ApprovedTuitionsPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 10
	}
	if q.Limit > 100 {
		q.Limit = 100
	}

	results, total, err := s.tuitions.ListApproved(ctx, q)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []*model.Tuition{}
	}

	return &model.ApprovedTuitionsPage{
		Total:   total,
		Page:    q.Page,
		Limit:   q.Limit,
		Results: results,
	}, nil
}

func (s *TuitionService) Update(ctx context.Context, idParam string, input *model.UpdateTuitionInput) (*model.Tuition, error) {
	id, _, err := s.authorizeOwnerOrAdmin(ctx, idParam)
	if err != nil {
		return nil, err
	}

	if input.Subject == nil && input.Class == nil && input.Location == nil && input.Budget == nil {
		return nil, fmt.Errorf("no fields to update: %w", errdefs.ErrInvalidArgument)
	}
	if input.Budget != nil && *input.Budget <= 0 {
		return nil, fmt.Errorf("budget must be positive: %w", errdefs.ErrInvalidArgument)
	}

	return s.tuitions.Update(ctx, id, input)
}

func (s *TuitionService) SetStatus(ctx context.Context, idParam string, statusParam string) (*model.Tuition, error) {
	if _, err := requireAdmin(ctx, s.users); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idParam)
	if err != nil {
		return nil, fmt.Errorf("no tuition with id %q: %w", idParam, errdefs.ErrNotFound)
	}

	status, ok := model.ParseModerationStatus(statusParam)
	if !ok {
		return nil, fmt.Errorf("unknown status %q: %w", statusParam, errdefs.ErrInvalidArgument)
	}

	return s.tuitions.SetStatus(ctx, id, status)
}

func (s *TuitionService) Delete(ctx context.Context, idParam string) error {
	id, _, err := s.authorizeOwnerOrAdmin(ctx, idParam)
	if err != nil {
		return err
	}
	return s.tuitions.Delete(ctx, id)
}

func (s *TuitionService) authorizeOwnerOrAdmin(ctx context.Context, idParam string) (uuid.UUID, *model.Tuition, error) {
	email, err := requesterEmail(ctx)
	if err != nil {
		return uuid.Nil, nil, err
	}

	id, err := uuid.Parse(idParam)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("no tuition with id %q: %w", idParam, errdefs.ErrNotFound)
	}

	tuition, err := s.tuitions.Get(ctx, id)
	if err != nil {
		return uuid.Nil, nil, err
	}

	if model.NormalizeEmail(tuition.CreatedBy) == email {
		return id, tuition, nil
	}

	role, err := lookupRole(ctx, s.users, email)
	if err != nil {
		return uuid.Nil, nil, err
	}
	if role != model.RoleAdmin {
		return uuid.Nil, nil, deny("only the owner or an admin can modify this tuition")
	}

	return id, tuition, nil
}
