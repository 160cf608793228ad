package service

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"

	"github.com/guncad/market-server-go/internal/database"
	"github.com/guncad/market-server-go/internal/model"
	"github.com/guncad/market-server-go/internal/repository"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, params model.CreateUserParams) (*model.User, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) UpdateStatus(ctx context.Context, id string, status model.UserStatus) (*model.User, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepo) WithTx(tx *sqlx.Tx) repository.UserRepository {
	return m
}

type mockIdentityRepo struct {
	mock.Mock
}

func (m *mockIdentityRepo) FindByLookupToken(ctx context.Context, lookupToken string) (*model.AccountIdentity, error) {
	args := m.Called(ctx, lookupToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccountIdentity), args.Error(1)
}

func (m *mockIdentityRepo) Create(ctx context.Context, params model.CreateAccountIdentityParams) (*model.AccountIdentity, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccountIdentity), args.Error(1)
}

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) FindActiveByTokenHash(ctx context.Context, tokenHash string) (*model.Session, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockSessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockSessionRepo) TouchLastSeen(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSessionRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) (int64, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSessionRepo) WithTx(tx *sqlx.Tx) repository.SessionRepository {
	return m
}

type mockBookmarkRepo struct {
	mock.Mock
}

func (m *mockBookmarkRepo) Exists(ctx context.Context, userID, modelID string) (bool, error) {
	args := m.Called(ctx, userID, modelID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookmarkRepo) Add(ctx context.Context, userID, modelID string) error {
	args := m.Called(ctx, userID, modelID)
	return args.Error(0)
}

func (m *mockBookmarkRepo) Remove(ctx context.Context, userID, modelID string) (bool, error) {
	args := m.Called(ctx, userID, modelID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookmarkRepo) FindByUserID(ctx context.Context, userID string) ([]model.Bookmark, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Bookmark), args.Error(1)
}

func (m *mockBookmarkRepo) CountByModelID(ctx context.Context, modelID string) (int64, error) {
	args := m.Called(ctx, modelID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBookmarkRepo) WithTx(tx *sqlx.Tx) repository.BookmarkRepository {
	return m
}

type mockLikeRepo struct {
	mock.Mock
}

func (m *mockLikeRepo) Exists(ctx context.Context, userID, projectID string) (bool, error) {
	args := m.Called(ctx, userID, projectID)
	return args.Bool(0), args.Error(1)
}

func (m *mockLikeRepo) Add(ctx context.Context, userID, projectID string) (bool, error) {
	args := m.Called(ctx, userID, projectID)
	return args.Bool(0), args.Error(1)
}

func (m *mockLikeRepo) Remove(ctx context.Context, userID, projectID string) (bool, error) {
	args := m.Called(ctx, userID, projectID)
	return args.Bool(0), args.Error(1)
}

func (m *mockLikeRepo) FindByUserID(ctx context.Context, userID string) ([]model.Like, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Like), args.Error(1)
}

func (m *mockLikeRepo) WithTx(tx *sqlx.Tx) repository.LikeRepository {
	return m
}

type mockStatsRepo struct {
	mock.Mock
}

func (m *mockStatsRepo) FindByProjectID(ctx context.Context, projectID string) (*model.ProjectStats, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectStats), args.Error(1)
}

func (m *mockStatsRepo) TrackView(ctx context.Context, params model.TrackViewParams) (*model.ProjectStats, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectStats), args.Error(1)
}

func (m *mockStatsRepo) IncrementDownloads(ctx context.Context, projectID string) (*model.ProjectStats, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectStats), args.Error(1)
}

func (m *mockStatsRepo) AdjustLikes(ctx context.Context, projectID string, delta int64) (*model.ProjectStats, error) {
	args := m.Called(ctx, projectID, delta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectStats), args.Error(1)
}

func (m *mockStatsRepo) WithTx(tx *sqlx.Tx) repository.ProjectStatsRepository {
	return m
}

// fakeTx runs fn without a real transaction and records whether it failed.
type fakeTx struct {
	calls  int
	failed bool
}

func (f *fakeTx) WithTx(ctx context.Context, fn database.TxFunc) error {
	f.calls++
	err := fn(nil)
	f.failed = err != nil
	return err
}

type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) FindCompletedPurchases(ctx context.Context, userID string) ([]model.Payment, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}

func (m *mockPaymentRepo) HasCompletedPurchase(ctx context.Context, userID, modelID string) (bool, error) {
	args := m.Called(ctx, userID, modelID)
	return args.Bool(0), args.Error(1)
}
