package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// PaymentTypeModel marks a one-off purchase of a single catalog model.
const PaymentTypeModel = "model"

type Payment struct {
	ID            string        `db:"id" json:"id"`
	UserID        string        `db:"user_id" json:"-"`
	ModelID       string        `db:"model_id" json:"modelId"`
	Amount        float64       `db:"amount" json:"amount"`
	Currency      string        `db:"currency" json:"currency"`
	Status        PaymentStatus `db:"status" json:"status"`
	PaymentType   string        `db:"payment_type" json:"paymentType"`
	TransactionID *string       `db:"authorize_net_transaction_id" json:"transactionId,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
}
