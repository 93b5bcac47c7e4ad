package model

import "time"

// PaymentStatus values for appointment bills.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Bill charges a patient for an appointment.
type Bill struct {
	ID            string        `json:"id"`
	AppointmentID string        `json:"appointment"`
	PatientID     *int64        `json:"patient,omitempty"`
	Amount        string        `json:"amount"`
	Currency      string        `json:"currency,omitempty"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at,omitempty"`
	UpdatedAt     time.Time     `json:"updated_at,omitempty"`
}

// CheckoutSession is the hosted-payment handoff returned by the backend's
// Stripe integration. The client redirects the user to URL; success and
// cancel land back on the payment-success/payment-cancel public routes.
type CheckoutSession struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// PendingPayment is the durable-cache marker written before the checkout
// redirect so the flow can resume after the round trip.
type PendingPayment struct {
	BillID    string    `json:"bill_id"`
	SessionID string    `json:"session_id,omitempty"`
	StartedAt time.Time `json:"started_at"`
}
