// models/payment_status.go
package models

// PaymentStatus is the persisted lifecycle of a payment attempt as tracked
// by this service (not a gateway value).
type PaymentStatus int

const (
	PaymentStatusPending PaymentStatus = 0

	PaymentStatusFailed PaymentStatus = 1

	PaymentStatusSucceeded PaymentStatus = 3
)

func (ps PaymentStatus) String() string {
	switch ps {
	case PaymentStatusPending:
		return "pending"
	case PaymentStatusFailed:
		return "failed"
	case PaymentStatusSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}
