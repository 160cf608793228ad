package handler

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/guncad/market-server-go/internal/database"
	"github.com/guncad/market-server-go/internal/model"
	"github.com/guncad/market-server-go/internal/repository"
	"github.com/guncad/market-server-go/internal/service"
)

// memStore backs every repository interface with maps so the HTTP tests can
// run without Postgres.
type memStore struct {
	mu         sync.Mutex
	users      map[string]*model.User
	identities map[string]*model.AccountIdentity
	sessions   map[string]*model.Session
	bookmarks  map[[2]string]model.Bookmark
	likes      map[[2]string]model.Like
	stats      map[string]*model.ProjectStats
	payments   []model.Payment
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]*model.User{},
		identities: map[string]*model.AccountIdentity{},
		sessions:   map[string]*model.Session{},
		bookmarks:  map[[2]string]model.Bookmark{},
		likes:      map[[2]string]model.Like{},
		stats:      map[string]*model.ProjectStats{},
	}
}

func (s *memStore) WithTx(ctx context.Context, fn database.TxFunc) error {
	return fn(nil)
}

func (s *memStore) setStatus(userID string, status model.UserStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID].Status = status
}

func (s *memStore) addPayment(p model.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append(s.payments, p)
}

func (s *memStore) sessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *memStore) onlyUserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.users {
		return id
	}
	return ""
}

type memUsers struct{ *memStore }

func (r memUsers) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (r memUsers) Create(ctx context.Context, params model.CreateUserParams) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := &model.User{ID: params.ID, Status: params.Status, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	r.users[u.ID] = u
	copied := *u
	return &copied, nil
}

func (r memUsers) UpdateStatus(ctx context.Context, id string, status model.UserStatus) (*model.User, error) {
	r.setStatus(id, status)
	return r.FindByID(ctx, id)
}

func (r memUsers) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r memUsers) WithTx(tx *sqlx.Tx) repository.UserRepository { return r }

type memIdentities struct{ *memStore }

func (r memIdentities) FindByLookupToken(ctx context.Context, lookupToken string) (*model.AccountIdentity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.identities[lookupToken], nil
}

func (r memIdentities) Create(ctx context.Context, params model.CreateAccountIdentityParams) (*model.AccountIdentity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.identities[params.LookupToken]; exists {
		return nil, repository.ErrDuplicateLookupToken
	}
	identity := &model.AccountIdentity{UserID: params.UserID, LookupToken: params.LookupToken, CreatedAt: time.Now()}
	r.identities[params.LookupToken] = identity
	return identity, nil
}


type memSessions struct{ *memStore }

func (r memSessions) FindActiveByTokenHash(ctx context.Context, tokenHash string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.SessionTokenHash == tokenHash && time.Now().Before(s.ExpiresAt) {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (r memSessions) Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &model.Session{
		ID:               uuid.NewString(),
		SessionTokenHash: params.SessionTokenHash,
		UserID:           params.UserID,
		ExpiresAt:        params.ExpiresAt,
		CreatedAt:        time.Now(),
	}
	r.sessions[s.ID] = s
	return s, nil
}

func (r memSessions) TouchLastSeen(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		now := time.Now()
		s.LastSeenAt = &now
	}
	return nil
}

func (r memSessions) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r memSessions) DeleteByTokenHash(ctx context.Context, tokenHash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.sessions {
		if s.SessionTokenHash == tokenHash {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

func (r memSessions) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

func (r memSessions) DeleteExpired(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.sessions {
		if !time.Now().Before(s.ExpiresAt) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

func (r memSessions) WithTx(tx *sqlx.Tx) repository.SessionRepository { return r }

type memBookmarks struct{ *memStore }

func (r memBookmarks) Exists(ctx context.Context, userID, modelID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.bookmarks[[2]string{userID, modelID}]
	return ok, nil
}

func (r memBookmarks) Add(ctx context.Context, userID, modelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]string{userID, modelID}
	if _, ok := r.bookmarks[key]; !ok {
		r.bookmarks[key] = model.Bookmark{ID: uuid.NewString(), UserID: userID, ModelID: modelID, CreatedAt: time.Now()}
	}
	return nil
}

func (r memBookmarks) Remove(ctx context.Context, userID, modelID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]string{userID, modelID}
	_, ok := r.bookmarks[key]
	delete(r.bookmarks, key)
	return ok, nil
}

func (r memBookmarks) FindByUserID(ctx context.Context, userID string) ([]model.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Bookmark
	for key, b := range r.bookmarks {
		if key[0] == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memBookmarks) CountByModelID(ctx context.Context, modelID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for key := range r.bookmarks {
		if key[1] == modelID {
			n++
		}
	}
	return n, nil
}

func (r memBookmarks) WithTx(tx *sqlx.Tx) repository.BookmarkRepository { return r }

type memLikes struct{ *memStore }

func (r memLikes) Exists(ctx context.Context, userID, projectID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.likes[[2]string{userID, projectID}]
	return ok, nil
}

func (r memLikes) Add(ctx context.Context, userID, projectID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]string{userID, projectID}
	if _, ok := r.likes[key]; ok {
		return false, nil
	}
	r.likes[key] = model.Like{ID: uuid.NewString(), UserID: userID, ProjectID: projectID, CreatedAt: time.Now()}
	return true, nil
}

func (r memLikes) Remove(ctx context.Context, userID, projectID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]string{userID, projectID}
	_, ok := r.likes[key]
	delete(r.likes, key)
	return ok, nil
}

func (r memLikes) FindByUserID(ctx context.Context, userID string) ([]model.Like, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Like
	for key, l := range r.likes {
		if key[0] == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r memLikes) WithTx(tx *sqlx.Tx) repository.LikeRepository { return r }

type memStats struct{ *memStore }

func (r memStats) row(projectID string) *model.ProjectStats {
	st, ok := r.stats[projectID]
	if !ok {
		st = &model.ProjectStats{ProjectID: projectID}
		r.stats[projectID] = st
	}
	st.UpdatedAt = time.Now()
	return st
}

func (r memStats) FindByProjectID(ctx context.Context, projectID string) (*model.ProjectStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.stats[projectID]; ok {
		copied := *st
		return &copied, nil
	}
	return nil, nil
}

func (r memStats) TrackView(ctx context.Context, params model.TrackViewParams) (*model.ProjectStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.row(params.ProjectID)
	if params.BaseViews != nil {
		st.BaseViews = *params.BaseViews
	}
	if params.BaseLikes != nil {
		st.BaseLikes = *params.BaseLikes
	}
	st.OurViews++
	copied := *st
	return &copied, nil
}

func (r memStats) IncrementDownloads(ctx context.Context, projectID string) (*model.ProjectStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.row(projectID)
	st.OurDownloads++
	copied := *st
	return &copied, nil
}

func (r memStats) AdjustLikes(ctx context.Context, projectID string, delta int64) (*model.ProjectStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.row(projectID)
	st.OurLikes += delta
	if st.OurLikes < 0 {
		st.OurLikes = 0
	}
	copied := *st
	return &copied, nil
}

func (r memStats) WithTx(tx *sqlx.Tx) repository.ProjectStatsRepository { return r }

type memPayments struct{ *memStore }

func (r memPayments) FindCompletedPurchases(ctx context.Context, userID string) ([]model.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Payment{}
	for _, p := range r.payments {
		if p.UserID == userID && p.Status == model.PaymentStatusCompleted && p.PaymentType == model.PaymentTypeModel {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memPayments) HasCompletedPurchase(ctx context.Context, userID, modelID string) (bool, error) {
	purchases, _ := r.FindCompletedPurchases(ctx, userID)
	for _, p := range purchases {
		if p.ModelID == modelID {
			return true, nil
		}
	}
	return false, nil
}

// geoTable answers lookups from a fixed address table. Unknown addresses
// fail like an unreachable provider.
type geoTable map[string]*service.GeoInfo

func (g geoTable) Lookup(ctx context.Context, ip string) (*service.GeoInfo, error) {
	if info, ok := g[ip]; ok {
		return info, nil
	}
	return nil, errors.New("lookup unavailable")
}
