//go:generate mockgen -source=interface.go -destination=mocks/service_mocks.go -package=mocks

package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fareaz/eTuitionBd-Server/internal/model"
	"github.com/fareaz/eTuitionBd-Server/internal/payments"
)

type UserRepository interface {
	Upsert(ctx context.Context, input *model.UpsertUserInput) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Search(ctx context.Context, searchText string, limit int) ([]*model.User, error)
	Update(ctx context.Context, id uuid.UUID, input *model.UpdateUserInput) (*model.User, error)
	SetRole(ctx context.Context, id uuid.UUID, role model.Role) (*model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TuitionRepository interface {
	Create(ctx context.Context, createdBy string, input *model.CreateTuitionInput) (*model.Tuition, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Tuition, error)
	// List returns tuitions newest first, optionally filtered by creator.
	List(ctx context.Context, createdBy string) ([]*model.Tuition, error)
	ListApproved(ctx context.Context, q *model.ApprovedTuitionsQuery) ([]*model.Tuition, int, error)
	Update(ctx context.Context, id uuid.UUID, input *model.UpdateTuitionInput) (*model.Tuition, error)
	SetStatus(ctx context.Context, id uuid.UUID, status model.ModerationStatus) (*model.Tuition, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TutorRepository interface {
	Create(ctx context.Context, email string, input *model.CreateTutorProfileInput) (*model.TutorProfile, error)
	Get(ctx context.Context, id uuid.UUID) (*model.TutorProfile, error)
	GetLatestByEmail(ctx context.Context, email string) (*model.TutorProfile, error)
	List(ctx context.Context, email string, onlyApproved bool) ([]*model.TutorProfile, error)
	Update(ctx context.Context, id uuid.UUID, input *model.UpdateTutorProfileInput) (*model.TutorProfile, error)
	SetStatus(ctx context.Context, id uuid.UUID, status model.ModerationStatus) (*model.TutorProfile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) (*model.Application, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Application, error)
	ExistsForTuitionAndTutor(ctx context.Context, tuitionId uuid.UUID, tutorEmail string) (bool, error)
	List(ctx context.Context, filter *model.ListApplicationsFilter) ([]*model.Application, error)
	Update(ctx context.Context, id uuid.UUID, patch *model.RepositoryApplicationPatch) (*model.Application, error)
	RejectSiblings(ctx context.Context, tuitionId uuid.UUID, exceptId uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PaymentRepository interface {
	InsertIfAbsent(ctx context.Context, payment *model.Payment) (bool, error)
	ExistsByTransactionId(ctx context.Context, transactionId string) (bool, error)
	ListByEmail(ctx context.Context, email string) ([]*model.Payment, error)
}

// ApplicationWorkflow is the slice of the application service the
// payment reconciliation needs: the pay transition as a trusted
// system-to-system call, not gated by the authorization policy.
type ApplicationWorkflow interface {
	ApplyPayTransition(ctx context.Context, id uuid.UUID) (*model.Application, error)
}

type CheckoutProvider interface {
	CreateSession(ctx context.Context, input *payments.CreateSessionInput) (*payments.CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionId string) (*payments.CheckoutSession, error)
}

type EventProducer interface {
	Send(ctx context.Context, topic string, message interface{}) error
}

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}
