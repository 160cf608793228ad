package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guncad/market-server-go/internal/database"
	"github.com/guncad/market-server-go/internal/model"
)

func insertPayment(t *testing.T, db *database.DB, userID, modelID string, status model.PaymentStatus, paymentType string, at time.Time) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO payments (user_id, model_id, amount, status, payment_type, authorize_net_transaction_id, created_at)
		VALUES ($1, $2, 4.99, $3, $4, 'txn-1', $5)
	`, userID, modelID, status, paymentType, at)
	require.NoError(t, err)
}

func TestPaymentRepository(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewPaymentRepository(db.DB)
	ctx := context.Background()
	user := createTestUser(t, db, model.UserStatusActive)
	other := createTestUser(t, db, model.UserStatusActive)
	now := time.Now()

	insertPayment(t, db, user.ID, "m-old", model.PaymentStatusCompleted, model.PaymentTypeModel, now.Add(-time.Hour))
	insertPayment(t, db, user.ID, "m-new", model.PaymentStatusCompleted, model.PaymentTypeModel, now)
	insertPayment(t, db, user.ID, "m-pending", model.PaymentStatusPending, model.PaymentTypeModel, now)
	insertPayment(t, db, user.ID, "m-tip", model.PaymentStatusCompleted, "donation", now)
	insertPayment(t, db, other.ID, "m-other", model.PaymentStatusCompleted, model.PaymentTypeModel, now)

	t.Run("lists completed model purchases newest first", func(t *testing.T) {
		payments, err := repo.FindCompletedPurchases(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, payments, 2)
		assert.Equal(t, "m-new", payments[0].ModelID)
		assert.Equal(t, "m-old", payments[1].ModelID)
		assert.InDelta(t, 4.99, payments[0].Amount, 0.001)
		require.NotNil(t, payments[0].TransactionID)
		assert.Equal(t, "txn-1", *payments[0].TransactionID)
	})

	t.Run("checks a single purchase", func(t *testing.T) {
		for modelID, want := range map[string]bool{
			"m-new":     true,
			"m-pending": false,
			"m-tip":     false,
			"m-other":   false,
		} {
			got, err := repo.HasCompletedPurchase(ctx, user.ID, modelID)
			require.NoError(t, err)
			assert.Equal(t, want, got, modelID)
		}
	})
}
