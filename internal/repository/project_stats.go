package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/guncad/market-server-go/internal/database"
	"github.com/guncad/market-server-go/internal/model"
)

// ProjectStatsRepository keeps per-project counters. Every increment is a
// single upsert so concurrent requests never lose counts.
type ProjectStatsRepository interface {
	FindByProjectID(ctx context.Context, projectID string) (*model.ProjectStats, error)
	TrackView(ctx context.Context, params model.TrackViewParams) (*model.ProjectStats, error)
	IncrementDownloads(ctx context.Context, projectID string) (*model.ProjectStats, error)
	AdjustLikes(ctx context.Context, projectID string, delta int64) (*model.ProjectStats, error)
	WithTx(tx *sqlx.Tx) ProjectStatsRepository
}

type projectStatsRepo struct {
	db database.DBTX
}

func NewProjectStatsRepository(db *sqlx.DB) ProjectStatsRepository {
	return &projectStatsRepo{db: db}
}

func (r *projectStatsRepo) WithTx(tx *sqlx.Tx) ProjectStatsRepository {
	return &projectStatsRepo{db: tx}
}

func (r *projectStatsRepo) FindByProjectID(ctx context.Context, projectID string) (*model.ProjectStats, error) {
	var stats model.ProjectStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT * FROM project_stats WHERE project_id = $1
	`, projectID)
	return HandleNotFound(&stats, err)
}

// TrackView counts one local view. Base counters are replaced only when the
// caller supplies them.
func (r *projectStatsRepo) TrackView(ctx context.Context, params model.TrackViewParams) (*model.ProjectStats, error) {
	var stats model.ProjectStats
	err := r.db.GetContext(ctx, &stats, `
		INSERT INTO project_stats (project_id, base_views, base_likes, our_views)
		VALUES ($1, COALESCE($2::bigint, 0), COALESCE($3::bigint, 0), 1)
		ON CONFLICT (project_id) DO UPDATE SET
			base_views = COALESCE($2::bigint, project_stats.base_views),
			base_likes = COALESCE($3::bigint, project_stats.base_likes),
			our_views = project_stats.our_views + 1,
			updated_at = NOW()
		RETURNING *
	`, params.ProjectID, params.BaseViews, params.BaseLikes)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *projectStatsRepo) IncrementDownloads(ctx context.Context, projectID string) (*model.ProjectStats, error) {
	var stats model.ProjectStats
	err := r.db.GetContext(ctx, &stats, `
		INSERT INTO project_stats (project_id, our_downloads)
		VALUES ($1, 1)
		ON CONFLICT (project_id) DO UPDATE SET
			our_downloads = project_stats.our_downloads + 1,
			updated_at = NOW()
		RETURNING *
	`, projectID)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// AdjustLikes adds delta to the local like counter, never going below zero.
func (r *projectStatsRepo) AdjustLikes(ctx context.Context, projectID string, delta int64) (*model.ProjectStats, error) {
	var stats model.ProjectStats
	err := r.db.GetContext(ctx, &stats, `
		INSERT INTO project_stats (project_id, our_likes)
		VALUES ($1, GREATEST($2::bigint, 0))
		ON CONFLICT (project_id) DO UPDATE SET
			our_likes = GREATEST(project_stats.our_likes + $2::bigint, 0),
			updated_at = NOW()
		RETURNING *
	`, projectID, delta)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
