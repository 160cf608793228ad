package service

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/guncad/market-server-go/internal/database"
	apperrors "github.com/guncad/market-server-go/internal/errors"
	"github.com/guncad/market-server-go/internal/model"
	"github.com/guncad/market-server-go/internal/repository"
)

const maxProjectIDLength = 256

// TxRunner runs fn inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn database.TxFunc) error
}

// CatalogService records per-user bookmarks and likes plus the per-project
// counters shown alongside catalog entries.
type CatalogService struct {
	tx        TxRunner
	bookmarks repository.BookmarkRepository
	likes     repository.LikeRepository
	stats     repository.ProjectStatsRepository
}

func NewCatalogService(
	tx TxRunner,
	bookmarks repository.BookmarkRepository,
	likes repository.LikeRepository,
	stats repository.ProjectStatsRepository,
) *CatalogService {
	return &CatalogService{
		tx:        tx,
		bookmarks: bookmarks,
		likes:     likes,
		stats:     stats,
	}
}

func validateProjectID(field, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", apperrors.MissingRequired(field)
	}
	if len(id) > maxProjectIDLength {
		return "", apperrors.InvalidInput(field, "too long")
	}
	return id, nil
}

func (s *CatalogService) IsBookmarked(ctx context.Context, userID, modelID string) (bool, error) {
	modelID, err := validateProjectID("modelId", modelID)
	if err != nil {
		return false, err
	}
	exists, err := s.bookmarks.Exists(ctx, userID, modelID)
	if err != nil {
		return false, apperrors.Database(err)
	}
	return exists, nil
}

// ToggleBookmark flips the bookmark and reports the new state.
func (s *CatalogService) ToggleBookmark(ctx context.Context, userID, modelID string) (bool, error) {
	modelID, err := validateProjectID("modelId", modelID)
	if err != nil {
		return false, err
	}

	var bookmarked bool
	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		bookmarks := s.bookmarks.WithTx(tx)

		removed, err := bookmarks.Remove(ctx, userID, modelID)
		if err != nil || removed {
			return err
		}
		bookmarked = true
		return bookmarks.Add(ctx, userID, modelID)
	})
	if err != nil {
		return false, apperrors.Database(err)
	}
	return bookmarked, nil
}

func (s *CatalogService) ListBookmarks(ctx context.Context, userID string) ([]model.Bookmark, error) {
	bookmarks, err := s.bookmarks.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if bookmarks == nil {
		bookmarks = []model.Bookmark{}
	}
	return bookmarks, nil
}

func (s *CatalogService) ListLikes(ctx context.Context, userID string) ([]model.Like, error) {
	likes, err := s.likes.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if likes == nil {
		likes = []model.Like{}
	}
	return likes, nil
}

type ProjectStatsView struct {
	model.StatsSummary
	IsLiked bool `json:"isLiked"`
}

// GetStats returns combined counters. userID may be empty for anonymous callers.
func (s *CatalogService) GetStats(ctx context.Context, projectID, userID string) (*ProjectStatsView, error) {
	projectID, err := validateProjectID("projectId", projectID)
	if err != nil {
		return nil, err
	}

	stats, err := s.stats.FindByProjectID(ctx, projectID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	bookmarks, err := s.bookmarks.CountByModelID(ctx, projectID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	view := &ProjectStatsView{StatsSummary: stats.Summary(bookmarks)}
	if userID != "" {
		view.IsLiked, err = s.likes.Exists(ctx, userID, projectID)
		if err != nil {
			return nil, apperrors.Database(err)
		}
	}
	return view, nil
}

// ToggleLike flips the caller's like and adjusts the project counter in the
// same transaction.
func (s *CatalogService) ToggleLike(ctx context.Context, userID, projectID string) (*ProjectStatsView, error) {
	projectID, err := validateProjectID("projectId", projectID)
	if err != nil {
		return nil, err
	}

	var (
		liked bool
		stats *model.ProjectStats
	)
	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		likes := s.likes.WithTx(tx)

		removed, err := likes.Remove(ctx, userID, projectID)
		if err != nil {
			return err
		}

		statsRepo := s.stats.WithTx(tx)
		if removed {
			stats, err = statsRepo.AdjustLikes(ctx, projectID, -1)
			return err
		}

		inserted, err := likes.Add(ctx, userID, projectID)
		if err != nil {
			return err
		}
		liked = true
		// A concurrent toggle already inserted the row and counted it.
		if !inserted {
			stats, err = statsRepo.FindByProjectID(ctx, projectID)
			return err
		}
		stats, err = statsRepo.AdjustLikes(ctx, projectID, 1)
		return err
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}

	bookmarks, err := s.bookmarks.CountByModelID(ctx, projectID)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Debug().Str("userId", userID).Str("projectId", projectID).Bool("liked", liked).Msg("like toggled")

	return &ProjectStatsView{StatsSummary: stats.Summary(bookmarks), IsLiked: liked}, nil
}

func (s *CatalogService) TrackView(ctx context.Context, params model.TrackViewParams) (*model.StatsSummary, error) {
	projectID, err := validateProjectID("projectId", params.ProjectID)
	if err != nil {
		return nil, err
	}
	if (params.BaseViews != nil && *params.BaseViews < 0) || (params.BaseLikes != nil && *params.BaseLikes < 0) {
		return nil, apperrors.InvalidInput("base counters", "must not be negative")
	}
	params.ProjectID = projectID

	stats, err := s.stats.TrackView(ctx, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return s.summarize(ctx, stats)
}

func (s *CatalogService) TrackDownload(ctx context.Context, projectID string) (*model.StatsSummary, error) {
	projectID, err := validateProjectID("projectId", projectID)
	if err != nil {
		return nil, err
	}

	stats, err := s.stats.IncrementDownloads(ctx, projectID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return s.summarize(ctx, stats)
}

func (s *CatalogService) summarize(ctx context.Context, stats *model.ProjectStats) (*model.StatsSummary, error) {
	bookmarks, err := s.bookmarks.CountByModelID(ctx, stats.ProjectID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	summary := stats.Summary(bookmarks)
	return &summary, nil
}
