package data

import (
	"context"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/fareaz/eTuitionBd-Server/internal/model"
)

type PaymentRepository struct {
	db Querier
}

func NewPaymentRepository(db Querier) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// InsertIfAbsent records a payment unless one with the same
// transaction id already exists. The unique constraint serializes
// concurrent reconciliations; the loser sees inserted == false.
func (r *PaymentRepository) InsertIfAbsent(ctx context.Context, payment *model.Payment) (bool, error) {
	query := `
INSERT INTO payments (
	id, application_id, transaction_id, amount, currency,
	student_email, tutor_email, payment_status, paid_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (transaction_id) DO NOTHING
`
	res, err := r.db.Exec(ctx, query,
		payment.Id,
		payment.ApplicationId,
		payment.TransactionId,
		payment.Amount,
		payment.Currency,
		payment.StudentEmail,
		payment.TutorEmail,
		payment.PaymentStatus,
		payment.PaidAt,
	)
	if err != nil {
		return false, handleError(err)
	}
	return res.RowsAffected() == 1, nil
}

func (r *PaymentRepository) ExistsByTransactionId(ctx context.Context, transactionId string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM payments WHERE transaction_id = $1)`

	var exists bool
	err := r.db.QueryRow(ctx, query, transactionId).Scan(&exists)
	if err != nil {
		return false, handleError(err)
	}
	return exists, nil
}

// ListByEmail returns the ledger rows where the address appears on
// either side, newest first.
func (r *PaymentRepository) ListByEmail(ctx context.Context, email string) ([]*model.Payment, error) {
	query := `
SELECT id, application_id, transaction_id, amount, currency,
	student_email, tutor_email, payment_status, paid_at
FROM payments
WHERE student_email = $1 OR tutor_email = $1
ORDER BY paid_at DESC
`
	var payments []*model.Payment
	err := pgxscan.Select(ctx, r.db, &payments, query, model.NormalizeEmail(email))
	if err != nil {
		return nil, handleError(err)
	}
	return payments, nil
}
