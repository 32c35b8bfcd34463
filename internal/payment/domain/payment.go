package domain

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

const (
	MethodCOD          = "COD"
	MethodOnline       = "Online"
	MethodBankTransfer = "Bank Transfer"
	MethodCash         = "Cash"
)

func ValidMethod(m string) bool {
	switch m {
	case MethodCOD, MethodOnline, MethodBankTransfer, MethodCash:
		return true
	}
	return false
}

// Attempt tracks one payment lifecycle. Created before checkout; checkout
// reconciles it on success; it stays queryable and cancelable while pending.
type Attempt struct {
	ID            string
	PaymentID     string
	Amount        int64
	Currency      string
	Status        Status
	PaymentMethod string
	BuyerID       string
	OrderID       string
	CartItemIDs   []string
	Metadata      map[string]any
	ErrorMessage  string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
