package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/fareaz/eTuitionBd-Server/internal/errdefs"
	"github.com/fareaz/eTuitionBd-Server/internal/model"
	"github.com/fareaz/eTuitionBd-Server/internal/payments"
	"github.com/fareaz/eTuitionBd-Server/internal/service"
	"github.com/fareaz/eTuitionBd-Server/internal/service/mocks"
)

type paymentFixture struct {
	svc          *service.PaymentService
	payments     *mocks.MockPaymentRepository
	applications *mocks.MockApplicationRepository
	workflow     *mocks.MockApplicationWorkflow
	provider     *mocks.MockCheckoutProvider
}

func setupPayment(t *testing.T) (*gomock.Controller, *paymentFixture) {
	ctrl := gomock.NewController(t)

	f := &paymentFixture{
		payments:     mocks.NewMockPaymentRepository(ctrl),
		applications: mocks.NewMockApplicationRepository(ctrl),
		workflow:     mocks.NewMockApplicationWorkflow(ctrl),
		provider:     mocks.NewMockCheckoutProvider(ctrl),
	}
	f.svc = service.NewPaymentService(f.payments, f.applications, f.workflow, f.provider, service.CheckoutConfig{
		Currency:   "usd",
		SuccessURL: "http://localhost/success",
		CancelURL:  "http://localhost/cancel",
	})
	return ctrl, f
}

func TestCreateCheckoutSession(t *testing.T) {
	t.Run("UsesExpectedSalary", func(t *testing.T) {
		ctrl, f := setupPayment(t)
		defer ctrl.Finish()

		appId := uuid.New()
		app := sampleApplication(appId, "student@example.com", "tutor@example.com")
		app.ExpectedSalary = 4500
		app.Budget = 5000

		f.applications.EXPECT().Get(gomock.Any(), appId).Return(app, nil)
		f.provider.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, input *payments.CreateSessionInput) (*payments.CheckoutSession, error) {
				assert.Equal(t, int64(450000), input.Amount)
				assert.Equal(t, "usd", input.Currency)
				assert.Equal(t, appId.String(), input.Metadata[payments.MetadataApplicationId])
				return &payments.CheckoutSession{Id: "cs_123", URL: "https://checkout.test/cs_123"}, nil
			})

		result, err := f.svc.CreateCheckoutSession(ctxWithEmail("student@example.com"), &model.CreateCheckoutSessionInput{ApplicationId: appId.String()})
		assert.NoError(t, err)
		assert.Equal(t, "https://checkout.test/cs_123", result.URL)
	})

	t.Run("FallsBackToBudget", func(t *testing.T) {
		ctrl, f := setupPayment(t)
		defer ctrl.Finish()

		appId := uuid.New()
		app := sampleApplication(appId, "student@example.com", "tutor@example.com")
		app.ExpectedSalary = 0
		app.Budget = 5000

		f.applications.EXPECT().Get(gomock.Any(), appId).Return(app, nil)
		f.provider.EXPECT().CreateSession(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, input *payments.CreateSessionInput) (*payments.CheckoutSession, error) {
				assert.Equal(t, int64(500000), input.Amount)
				return &payments.CheckoutSession{Id: "cs_123", URL: "u"}, nil
			})

		_, err := f.svc.CreateCheckoutSession(ctxWithEmail("student@example.com"), &model.CreateCheckoutSessionInput{ApplicationId: appId.String()})
		assert.NoError(t, err)
	})

	t.Run("Error_NoAmount", func(t *testing.T) {
		ctrl, f := setupPayment(t)
		defer ctrl.Finish()

		appId := uuid.New()
		app := sampleApplication(appId, "student@example.com", "tutor@example.com")
		app.ExpectedSalary = 0
		app.Budget = 0

		f.applications.EXPECT().Get(gomock.Any(), appId).Return(app, nil)

		_, err := f.svc.CreateCheckoutSession(ctxWithEmail("student@example.com"), &model.CreateCheckoutSessionInput{ApplicationId: appId.String()})
		assert.True(t, errors.Is(err, errdefs.ErrInvalidArgument))
	})

	t.Run("Error_MalformedId", func(t *testing.T) {
		_, f := setupPayment(t)

		_, err := f.svc.CreateCheckoutSession(ctxWithEmail("student@example.com"), &model.CreateCheckoutSessionInput{ApplicationId: "nope"})
		assert.True(t, errors.Is(err, errdefs.ErrInvalidArgument))
	})

	t.Run("Error_Unauthenticated", func(t *testing.T) {
		_, f := setupPayment(t)

		_, err := f.svc.CreateCheckoutSession(context.Background(), &model.CreateCheckoutSessionInput{ApplicationId: uuid.NewString()})
		assert.True(t, errors.Is(err, errdefs.ErrAuthentication))
	})
}

func TestReconcile(t *testing.T) {
	session := func(appId uuid.UUID) *payments.CheckoutSession {
		return &payments.CheckoutSession{
			Id:            "cs_123",
			TransactionId: "pi_abc",
			PaymentStatus: payments.StatusPaid,
			AmountTotal:   450000,
			Currency:      "usd",
			Metadata:      map[string]string{payments.MetadataApplicationId: appId.String()},
		}
	}

	t.Run("FirstCallApplies", func(t *testing.T) {
		ctrl, f := setupPayment(t)
		defer ctrl.Finish()

		appId := uuid.New()
		app := sampleApplication(appId, "student@example.com", "tutor@example.com")
		app.Status = model.ApplicationApproved
		app.Paid = true

		f.provider.EXPECT().RetrieveSession(gomock.Any(), "cs_123").Return(session(appId), nil)
		f.payments.EXPECT().ExistsByTransactionId(gomock.Any(), "pi_abc").Return(false, nil)
		f.workflow.EXPECT().ApplyPayTransition(gomock.Any(), appId).Return(app, nil)
		f.payments.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, payment *model.Payment) (bool, error) {
				assert.Equal(t, "pi_abc", payment.TransactionId)
				assert.Equal(t, appId, payment.ApplicationId)
				assert.Equal(t, int64(450000), payment.Amount)
				assert.Equal(t, "student@example.com", payment.StudentEmail)
				return true, nil
			})

		res, err := f.svc.Reconcile(context.Background(), "cs_123")
		assert.NoError(t, err)
		assert.True(t, res.Applied)
		assert.False(t, res.Existing)
		assert.Equal(t, "pi_abc", res.TransactionId)
		assert.Equal(t, appId, res.ApplicationId)
	})

	t.Run("SecondCallIsNoop", func(t *testing.T) {
		ctrl, f := setupPayment(t)
		defer ctrl.Finish()

		appId := uuid.New()
		f.provider.EXPECT().RetrieveSession(gomock.Any(), "cs_123").Return(session(appId), nil)
		f.payments.EXPECT().ExistsByTransactionId(gomock.Any(), "pi_abc").Return(true, nil)

		res, err := f.svc.Reconcile(context.Background(), "cs_123")
		assert.NoError(t, err)
		assert.False(t, res.Applied)
		assert.True(t, res.Existing)
	})

	t.Run("ConcurrentInsertLoses", func(t *testing.T) {
		ctrl, f := setupPayment(t)
		defer ctrl.Finish()

		appId := uuid.New()
		app := sampleApplication(appId, "student@example.com", "tutor@example.com")

		f.provider.EXPECT().RetrieveSession(gomock.Any(), "cs_123").Return(session(appId), nil)
		f.payments.EXPECT().ExistsByTransactionId(gomock.Any(), "pi_abc").Return(false, nil)
		f.workflow.EXPECT().ApplyPayTransition(gomock.Any(), appId).Return(app, nil)
		f.payments.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).Return(false, nil)

		res, err := f.svc.Reconcile(context.Background(), "cs_123")
		assert.NoError(t, err)
		assert.False(t, res.Applied)
		assert.True(t, res.Existing)
	})

	t.Run("Error_NotPaid", func(t *testing.T) {
		ctrl, f := setupPayment(t)
		defer ctrl.Finish()

		s := session(uuid.New())
		s.PaymentStatus = "unpaid"

		f.provider.EXPECT().RetrieveSession(gomock.Any(), "cs_123").Return(s, nil)
		f.payments.EXPECT().ExistsByTransactionId(gomock.Any(), "pi_abc").Return(false, nil)

		_, err := f.svc.Reconcile(context.Background(), "cs_123")
		assert.True(t, errors.Is(err, errdefs.ErrPaymentNotComplete))
	})

	t.Run("Error_NoApplicationMetadata", func(t *testing.T) {
		ctrl, f := setupPayment(t)
		defer ctrl.Finish()

		s := session(uuid.New())
		s.Metadata = map[string]string{}

		f.provider.EXPECT().RetrieveSession(gomock.Any(), "cs_123").Return(s, nil)
		f.payments.EXPECT().ExistsByTransactionId(gomock.Any(), "pi_abc").Return(false, nil)

		_, err := f.svc.Reconcile(context.Background(), "cs_123")
		assert.True(t, errors.Is(err, errdefs.ErrNotFound))
	})

	t.Run("Error_MissingSessionId", func(t *testing.T) {
		_, f := setupPayment(t)

		_, err := f.svc.Reconcile(context.Background(), "")
		assert.True(t, errors.Is(err, errdefs.ErrInvalidArgument))
	})

	t.Run("Error_ProviderDown", func(t *testing.T) {
		ctrl, f := setupPayment(t)
		defer ctrl.Finish()

		f.provider.EXPECT().RetrieveSession(gomock.Any(), "cs_123").Return(nil, errdefs.ErrUpstream)

		_, err := f.svc.Reconcile(context.Background(), "cs_123")
		assert.True(t, errors.Is(err, errdefs.ErrUpstream))
	})
}

func TestListPayments(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		ctrl, f := setupPayment(t)
		defer ctrl.Finish()

		f.payments.EXPECT().ListByEmail(gomock.Any(), "student@example.com").Return([]*model.Payment{{TransactionId: "pi_abc"}}, nil)

		list, err := f.svc.ListPayments(ctxWithEmail("student@example.com"))
		assert.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("Error_Unauthenticated", func(t *testing.T) {
		_, f := setupPayment(t)

		_, err := f.svc.ListPayments(context.Background())
		assert.True(t, errors.Is(err, errdefs.ErrAuthentication))
	})
}
