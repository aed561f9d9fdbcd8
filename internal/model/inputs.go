package model

import "github.com/google/uuid"

type UpsertUserInput struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

type UpdateUserInput struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Role  *string `json:"role"`
}

type CreateTuitionInput struct {
	Subject  string  `json:"subject"`
	Class    string  `json:"class"`
	Location string  `json:"location"`
	Budget   float64 `json:"budget"`
}

type UpdateTuitionInput struct {
	Subject  *string  `json:"subject"`
	Class    *string  `json:"class"`
	Location *string  `json:"location"`
	Budget   *float64 `json:"budget"`
}

// ApprovedTuitionsQuery filters the public approved-tuitions listing.
// Sort is one of newest|oldest|budget-asc|budget-desc.
type ApprovedTuitionsQuery struct {
	Page   int
	Limit  int
	Search string
	Sort   string
}

type ApprovedTuitionsPage struct {
	Total   int        `json:"total"`
	Page    int        `json:"page"`
	Limit   int        `json:"limit"`
	Results []*Tuition `json:"results"`
}

type CreateTutorProfileInput struct {
	Name           string  `json:"name"`
	Qualifications string  `json:"qualifications"`
	Experience     string  `json:"experience"`
	ExpectedSalary float64 `json:"expectedSalary"`
}

type UpdateTutorProfileInput struct {
	Name           *string  `json:"name"`
	Qualifications *string  `json:"qualifications"`
	Experience     *string  `json:"experience"`
	ExpectedSalary *float64 `json:"expectedSalary"`
}

type CreateApplicationInput struct {
	TuitionId string `json:"tuitionId"`
}

// ApplicationPatch carries the mutable application fields. Status is
// the raw client string; the service normalizes and validates it.
type ApplicationPatch struct {
	Status *string `json:"status"`
	Paid   *bool   `json:"paid"`
}

type ListApplicationsFilter struct {
	TutorEmail   string
	StudentEmail string
	TuitionId    uuid.UUID
}

// RepositoryApplicationPatch is the normalized form the repository
// persists.
type RepositoryApplicationPatch struct {
	Status *ApplicationStatus
	Paid   *bool
}

type CreateCheckoutSessionInput struct {
	ApplicationId string `json:"applicationId"`
}

// ReconcileResult reports what a payment-success callback did.
// Applied is false when the transaction was already recorded.
type ReconcileResult struct {
	Applied       bool      `json:"applied"`
	Existing      bool      `json:"existing"`
	TransactionId string    `json:"transactionId"`
	PaymentId     uuid.UUID `json:"paymentId"`
	ApplicationId uuid.UUID `json:"applicationId"`
}
