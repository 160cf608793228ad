package service

import (
	"context"
	"time"

	apperrors "github.com/guncad/market-server-go/internal/errors"
	"github.com/guncad/market-server-go/internal/repository"
)

// PurchaseView is one row of the caller's purchase history. Catalog titles
// are not resolved here, so ModelTitle falls back to the model id.
type PurchaseView struct {
	ID            string    `json:"id"`
	ModelID       string    `json:"model_id"`
	ModelTitle    string    `json:"model_title"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	PurchasedAt   time.Time `json:"purchased_at"`
	TransactionID *string   `json:"transaction_id"`
}

type PurchaseService struct {
	payments repository.PaymentRepository
}

func NewPurchaseService(payments repository.PaymentRepository) *PurchaseService {
	return &PurchaseService{payments: payments}
}

func (s *PurchaseService) ListPurchases(ctx context.Context, userID string) ([]PurchaseView, error) {
	payments, err := s.payments.FindCompletedPurchases(ctx, userID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	views := make([]PurchaseView, 0, len(payments))
	for _, p := range payments {
		views = append(views, PurchaseView{
			ID:            p.ID,
			ModelID:       p.ModelID,
			ModelTitle:    p.ModelID,
			Amount:        p.Amount,
			Currency:      p.Currency,
			PurchasedAt:   p.CreatedAt,
			TransactionID: p.TransactionID,
		})
	}
	return views, nil
}

func (s *PurchaseService) HasPurchased(ctx context.Context, userID, modelID string) (bool, error) {
	modelID, err := validateProjectID("modelId", modelID)
	if err != nil {
		return false, err
	}
	purchased, err := s.payments.HasCompletedPurchase(ctx, userID, modelID)
	if err != nil {
		return false, apperrors.Database(err)
	}
	return purchased, nil
}
