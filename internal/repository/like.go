package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/guncad/market-server-go/internal/database"
	"github.com/guncad/market-server-go/internal/model"
)

type LikeRepository interface {
	Exists(ctx context.Context, userID, projectID string) (bool, error)
	// Add reports whether a new row was inserted.
	Add(ctx context.Context, userID, projectID string) (bool, error)
	Remove(ctx context.Context, userID, projectID string) (bool, error)
	FindByUserID(ctx context.Context, userID string) ([]model.Like, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) LikeRepository
}

type likeRepo struct {
	db database.DBTX
}

func NewLikeRepository(db *sqlx.DB) LikeRepository {
	return &likeRepo{db: db}
}

func (r *likeRepo) WithTx(tx *sqlx.Tx) LikeRepository {
	return &likeRepo{db: tx}
}

func (r *likeRepo) Exists(ctx context.Context, userID, projectID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM user_likes WHERE user_id = $1 AND project_id = $2
		)
	`, userID, projectID)
	return exists, err
}

func (r *likeRepo) Add(ctx context.Context, userID, projectID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO user_likes (user_id, project_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, project_id) DO NOTHING
	`, userID, projectID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

func (r *likeRepo) Remove(ctx context.Context, userID, projectID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM user_likes WHERE user_id = $1 AND project_id = $2
	`, userID, projectID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	return n > 0, err
}

func (r *likeRepo) FindByUserID(ctx context.Context, userID string) ([]model.Like, error) {
	var likes []model.Like
	err := r.db.SelectContext(ctx, &likes, `
		SELECT * FROM user_likes
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return likes, nil
}
