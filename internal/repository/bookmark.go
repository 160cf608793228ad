package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/guncad/market-server-go/internal/database"
	"github.com/guncad/market-server-go/internal/model"
)

type BookmarkRepository interface {
	Exists(ctx context.Context, userID, modelID string) (bool, error)
	// Add is a no-op when the bookmark already exists.
	Add(ctx context.Context, userID, modelID string) error
	Remove(ctx context.Context, userID, modelID string) (bool, error)
	FindByUserID(ctx context.Context, userID string) ([]model.Bookmark, error)
	CountByModelID(ctx context.Context, modelID string) (int64, error)
	WithTx(tx *sqlx.Tx) BookmarkRepository
}

type bookmarkRepo struct {
	db database.DBTX
}

func NewBookmarkRepository(db *sqlx.DB) BookmarkRepository {
	return &bookmarkRepo{db: db}
}

func (r *bookmarkRepo) WithTx(tx *sqlx.Tx) BookmarkRepository {
	return &bookmarkRepo{db: tx}
}

func (r *bookmarkRepo) Exists(ctx context.Context, userID, modelID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM bookmarks WHERE user_id = $1 AND model_id = $2
		)
	`, userID, modelID)
	return exists, err
}

func (r *bookmarkRepo) Add(ctx context.Context, userID, modelID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bookmarks (user_id, model_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, model_id) DO NOTHING
	`, userID, modelID)
	return err
}

func (r *bookmarkRepo) Remove(ctx context.Context, userID, modelID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM bookmarks WHERE user_id = $1 AND model_id = $2
	`, userID, modelID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

func (r *bookmarkRepo) FindByUserID(ctx context.Context, userID string) ([]model.Bookmark, error) {
	var bookmarks []model.Bookmark
	err := r.db.SelectContext(ctx, &bookmarks, `
		SELECT * FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}

func (r *bookmarkRepo) CountByModelID(ctx context.Context, modelID string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM bookmarks WHERE model_id = $1
	`, modelID)
	return count, err
}
