package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/guncad/market-server-go/internal/database"
	"github.com/guncad/market-server-go/internal/model"
)

// PaymentRepository is read-only. Only completed model purchases count.
type PaymentRepository interface {
	FindCompletedPurchases(ctx context.Context, userID string) ([]model.Payment, error)
	HasCompletedPurchase(ctx context.Context, userID, modelID string) (bool, error)
}

type paymentRepo struct {
	db database.DBTX
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) FindCompletedPurchases(ctx context.Context, userID string) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.SelectContext(ctx, &payments, `
		SELECT * FROM payments
		WHERE user_id = $1 AND status = $2 AND payment_type = $3
		ORDER BY created_at DESC
	`, userID, model.PaymentStatusCompleted, model.PaymentTypeModel)
	return payments, err
}

func (r *paymentRepo) HasCompletedPurchase(ctx context.Context, userID, modelID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM payments
			WHERE user_id = $1 AND model_id = $2 AND status = $3 AND payment_type = $4
		)
	`, userID, modelID, model.PaymentStatusCompleted, model.PaymentTypeModel)
	return exists, err
}
