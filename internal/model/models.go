package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
	RoleAdmin   Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleTutor || r == RoleAdmin
}

// NormalizeRole maps free-text role values from clients ("Student",
// "Tutor ") onto the closed set. Unknown values stay as typed so the
// caller can reject them.
func NormalizeRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}

// ApplicationStatus is the closed application workflow state set.
// Legacy rows written as "requested" read back as pending.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationConfirmed ApplicationStatus = "confirmed"
	ApplicationApproved  ApplicationStatus = "approved"
	ApplicationRejected  ApplicationStatus = "rejected"
)

func (s ApplicationStatus) String() string {
	return string(s)
}

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationPending, ApplicationConfirmed, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

// ParseApplicationStatus normalizes a client-supplied status value.
// Comparison is case-insensitive and whitespace-trimmed; "requested"
// is an alias for pending kept for old clients.
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	normalized := ApplicationStatus(strings.ToLower(strings.TrimSpace(s)))
	if normalized == "requested" {
		normalized = ApplicationPending
	}
	return normalized, normalized.IsValid()
}

// ModerationStatus is the admin-controlled state of tuitions and tutor
// profiles.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

func (s ModerationStatus) String() string {
	return string(s)
}

func (s ModerationStatus) IsValid() bool {
	return s == ModerationPending || s == ModerationApproved || s == ModerationRejected
}

func ParseModerationStatus(s string) (ModerationStatus, bool) {
	normalized := ModerationStatus(strings.ToLower(strings.TrimSpace(s)))
	return normalized, normalized.IsValid()
}

// NormalizeEmail lower-cases and trims an email so ownership checks
// compare apples to apples.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

type User struct {
	Id        uuid.UUID `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type Tuition struct {
	Id        uuid.UUID        `db:"id" json:"id"`
	Subject   string           `db:"subject" json:"subject"`
	Class     string           `db:"class" json:"class"`
	Location  string           `db:"location" json:"location"`
	Budget    float64          `db:"budget" json:"budget"`
	CreatedBy string           `db:"created_by" json:"createdBy"`
	Status    ModerationStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time        `db:"updated_at" json:"updatedAt"`
}

type TutorProfile struct {
	Id             uuid.UUID        `db:"id" json:"id"`
	Email          string           `db:"email" json:"email"`
	Name           string           `db:"name" json:"name"`
	Qualifications string           `db:"qualifications" json:"qualifications"`
	Experience     string           `db:"experience" json:"experience"`
	ExpectedSalary float64          `db:"expected_salary" json:"expectedSalary"`
	Status         ModerationStatus `db:"status" json:"status"`
	CreatedAt      time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updatedAt"`
}

// Application is a tutor's bid on a tuition. The subject/class/budget
// and tutor fields are a snapshot taken at creation time; later edits
// to the tuition or the tutor profile do not propagate here.
type Application struct {
	Id             uuid.UUID         `db:"id" json:"id"`
	TuitionId      uuid.UUID         `db:"tuition_id" json:"tuitionId"`
	TutorEmail     string            `db:"tutor_email" json:"tutorEmail"`
	StudentEmail   string            `db:"student_email" json:"studentEmail"`
	Subject        string            `db:"subject" json:"subject"`
	Class          string            `db:"class" json:"class"`
	Location       string            `db:"location" json:"location"`
	Budget         float64           `db:"budget" json:"budget"`
	TutorName      string            `db:"tutor_name" json:"tutorName"`
	Qualifications string            `db:"qualifications" json:"qualifications"`
	Experience     string            `db:"experience" json:"experience"`
	ExpectedSalary float64           `db:"expected_salary" json:"expectedSalary"`
	StudentName    string            `db:"student_name" json:"studentName"`
	Status         ApplicationStatus `db:"status" json:"status"`
	Paid           bool              `db:"paid" json:"paid"`
	CreatedAt      time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time         `db:"updated_at" json:"updatedAt"`
}

// Payment is an immutable ledger row recording a completed checkout.
// TransactionId is the provider's payment identifier and is unique,
// which is what makes reconciliation idempotent.
type Payment struct {
	Id            uuid.UUID `db:"id" json:"id"`
	ApplicationId uuid.UUID `db:"application_id" json:"applicationId"`
	TransactionId string    `db:"transaction_id" json:"transactionId"`
	Amount        int64     `db:"amount" json:"amount"`
	Currency      string    `db:"currency" json:"currency"`
	StudentEmail  string    `db:"student_email" json:"studentEmail"`
	TutorEmail    string    `db:"tutor_email" json:"tutorEmail"`
	PaymentStatus string    `db:"payment_status" json:"paymentStatus"`
	PaidAt        time.Time `db:"paid_at" json:"paidAt"`
}
