package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fareaz/eTuitionBd-Server/internal/errdefs"
	"github.com/fareaz/eTuitionBd-Server/internal/model"
	"github.com/fareaz/eTuitionBd-Server/internal/payments"
)

type CheckoutConfig struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

// PaymentService creates checkout sessions and reconciles the
// provider's confirmations into application state plus ledger rows.
type PaymentService struct {
	payments     PaymentRepository
	applications ApplicationRepository
	workflow     ApplicationWorkflow
	provider     CheckoutProvider
	checkout     CheckoutConfig
}

func NewPaymentService(
	paymentRepo PaymentRepository,
	applications ApplicationRepository,
	workflow ApplicationWorkflow,
	provider CheckoutProvider,
	checkout CheckoutConfig,
) *PaymentService {
	return &PaymentService{
		payments:     paymentRepo,
		applications: applications,
		workflow:     workflow,
		provider:     provider,
		checkout:     checkout,
	}
}

type CheckoutSessionResult struct {
	URL string `json:"url"`
}

// CreateCheckoutSession opens a provider session for an application.
// The amount is the tutor's expected salary when set, otherwise the
// tuition budget snapshot; the application id rides in the metadata so
// reconciliation can find its way back.
func (s *PaymentService) CreateCheckoutSession(ctx context.Context, input *model.CreateCheckoutSessionInput) (*CheckoutSessionResult, error) {
	email, err := requesterEmail(ctx)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(input.ApplicationId)
	if err != nil {
		return nil, fmt.Errorf("malformed application id %q: %w", input.ApplicationId, errdefs.ErrInvalidArgument)
	}

	app, err := s.applications.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	amount := app.ExpectedSalary
	if amount <= 0 {
		amount = app.Budget
	}
	if amount <= 0 {
		return nil, fmt.Errorf("application has no payable amount: %w", errdefs.ErrInvalidArgument)
	}

	session, err := s.provider.CreateSession(ctx, &payments.CreateSessionInput{
		Amount:      int64(amount * 100),
		Currency:    s.checkout.Currency,
		ProductName: fmt.Sprintf("Tuition: %s (%s)", app.Subject, app.Class),
		PayerEmail:  email,
		Metadata: map[string]string{
			payments.MetadataApplicationId: app.Id.String(),
		},
		SuccessURL: s.checkout.SuccessURL,
		CancelURL:  s.checkout.CancelURL,
	})
	if err != nil {
		return nil, err
	}

	return &CheckoutSessionResult{URL: session.URL}, nil
}

// Reconcile turns a provider confirmation into the pay transition plus
// a ledger row, idempotently on the provider transaction id. Calling
// it twice for the same transaction yields exactly one Payment row and
// no second application mutation.
func (s *PaymentService) Reconcile(ctx context.Context, sessionId string) (*model.ReconcileResult, error) {
	if sessionId == "" {
		return nil, fmt.Errorf("missing session id: %w", errdefs.ErrInvalidArgument)
	}

	session, err := s.provider.RetrieveSession(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	result := &model.ReconcileResult{TransactionId: session.TransactionId}

	exists, err := s.payments.ExistsByTransactionId(ctx, session.TransactionId)
	if err != nil {
		return nil, err
	}
	if exists {
		result.Existing = true
		return result, nil
	}

	if session.PaymentStatus != payments.StatusPaid {
		return nil, fmt.Errorf("session %s has payment status %q: %w",
			sessionId, session.PaymentStatus, errdefs.ErrPaymentNotComplete)
	}

	appId, err := uuid.Parse(session.Metadata[payments.MetadataApplicationId])
	if err != nil {
		return nil, fmt.Errorf("session %s carries no application id: %w", sessionId, errdefs.ErrNotFound)
	}

	app, err := s.workflow.ApplyPayTransition(ctx, appId)
	if err != nil {
		return nil, err
	}
	result.ApplicationId = app.Id

	paymentId, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	payment := &model.Payment{
		Id:            paymentId,
		ApplicationId: app.Id,
		TransactionId: session.TransactionId,
		Amount:        session.AmountTotal,
		Currency:      session.Currency,
		StudentEmail:  app.StudentEmail,
		TutorEmail:    app.TutorEmail,
		PaymentStatus: session.PaymentStatus,
		PaidAt:        time.Now(),
	}

	inserted, err := s.payments.InsertIfAbsent(ctx, payment)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// A concurrent reconciliation for the same transaction got
		// there first; the constraint decided the winner.
		result.Existing = true
		return result, nil
	}

	result.Applied = true
	result.PaymentId = paymentId
	return result, nil
}

// ListPayments returns the requester's ledger rows.
func (s *PaymentService) ListPayments(ctx context.Context) ([]*model.Payment, error) {
	email, err := requesterEmail(ctx)
	if err != nil {
		return nil, err
	}
	return s.payments.ListByEmail(ctx, email)
}
