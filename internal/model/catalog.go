package model

import (
	"time"
)

type Bookmark struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"-"`
	ModelID   string    `db:"model_id" json:"modelId"`
	CreatedAt time.Time `db:"created_at" json:"bookmarkedAt"`
}

type Like struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"-"`
	ProjectID string    `db:"project_id" json:"modelId"`
	CreatedAt time.Time `db:"created_at" json:"likedAt"`
}

// ProjectStats keeps the counters mirrored from the catalog (base_*) apart
// from the ones counted on this site (our_*).
type ProjectStats struct {
	ProjectID    string    `db:"project_id" json:"projectId"`
	BaseViews    int64     `db:"base_views" json:"-"`
	BaseLikes    int64     `db:"base_likes" json:"-"`
	OurViews     int64     `db:"our_views" json:"-"`
	OurLikes     int64     `db:"our_likes" json:"-"`
	OurDownloads int64     `db:"our_downloads" json:"-"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type TrackViewParams struct {
	ProjectID string
	BaseViews *int64
	BaseLikes *int64
}

// StatsSummary is the combined view returned to clients.
type StatsSummary struct {
	Views     int64 `json:"views"`
	Likes     int64 `json:"likes"`
	Bookmarks int64 `json:"bookmarks"`
	Downloads int64 `json:"downloads"`
}

func (s *ProjectStats) Summary(bookmarks int64) StatsSummary {
	if s == nil {
		return StatsSummary{Bookmarks: bookmarks}
	}
	return StatsSummary{
		Views:     s.BaseViews + s.OurViews,
		Likes:     s.BaseLikes + s.OurLikes,
		Bookmarks: bookmarks,
		Downloads: s.OurDownloads,
	}
}
