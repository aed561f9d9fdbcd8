package payments

import "context"

// CheckoutSession is the provider-agnostic view of an external
// checkout session.
type CheckoutSession struct {
	Id            string
	URL           string
	TransactionId string
	PaymentStatus string
	AmountTotal   int64
	Currency      string
	CustomerEmail string
	Metadata      map[string]string
}

type CreateSessionInput struct {
	Amount      int64
	Currency    string
	ProductName string
	PayerEmail  string
	Metadata    map[string]string
	SuccessURL  string
	CancelURL   string
}

// CheckoutProvider abstracts the external payment-checkout service.
// The provider's own confirmation is the authorization for the pay
// transition, so nothing above this interface knows provider details.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionId string) (*CheckoutSession, error)
}

const (
	// StatusPaid is the provider session state reconciliation requires.
	StatusPaid = "paid"

	// MetadataApplicationId carries the application the session pays for.
	MetadataApplicationId = "applicationId"
)
