package data

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fareaz/eTuitionBd-Server/internal/model"
)

func samplePayment() *model.Payment {
	return &model.Payment{
		Id:            uuid.New(),
		ApplicationId: uuid.New(),
		TransactionId: "pi_abc",
		Amount:        450000,
		Currency:      "usd",
		StudentEmail:  "student@example.com",
		TutorEmail:    "tutor@example.com",
		PaymentStatus: "paid",
		PaidAt:        time.Now(),
	}
}

func TestPaymentRepo_InsertIfAbsent(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPaymentRepository(mockPool)
	payment := samplePayment()

	mockPool.ExpectExec("INSERT INTO payments").
		WithArgs(payment.Id, payment.ApplicationId, payment.TransactionId, payment.Amount, payment.Currency,
			payment.StudentEmail, payment.TutorEmail, payment.PaymentStatus, payment.PaidAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	inserted, err := repo.InsertIfAbsent(context.Background(), payment)
	assert.NoError(t, err)
	assert.True(t, inserted)
}

func TestPaymentRepo_InsertIfAbsent_Conflict(t *testing.T) {
	// Same transaction id already recorded: ON CONFLICT DO NOTHING
	// affects zero rows and inserted is false, not an error.
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPaymentRepository(mockPool)
	payment := samplePayment()

	mockPool.ExpectExec("INSERT INTO payments").
		WithArgs(payment.Id, payment.ApplicationId, payment.TransactionId, payment.Amount, payment.Currency,
			payment.StudentEmail, payment.TutorEmail, payment.PaymentStatus, payment.PaidAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	inserted, err := repo.InsertIfAbsent(context.Background(), payment)
	assert.NoError(t, err)
	assert.False(t, inserted)
}

func TestPaymentRepo_ExistsByTransactionId(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPaymentRepository(mockPool)

	mockPool.ExpectQuery("SELECT EXISTS").
		WithArgs("pi_abc").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByTransactionId(context.Background(), "pi_abc")
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestPaymentRepo_ListByEmail(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	repo := NewPaymentRepository(mockPool)
	payment := samplePayment()

	mockPool.ExpectQuery("SELECT .* FROM payments").
		WithArgs("student@example.com").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "application_id", "transaction_id", "amount", "currency",
			"student_email", "tutor_email", "payment_status", "paid_at",
		}).AddRow(
			payment.Id, payment.ApplicationId, payment.TransactionId, payment.Amount, payment.Currency,
			payment.StudentEmail, payment.TutorEmail, payment.PaymentStatus, payment.PaidAt,
		))

	list, err := repo.ListByEmail(context.Background(), "Student@Example.COM")
	assert.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "pi_abc", list[0].TransactionId)
}
