package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/guncad/market-server-go/internal/config"
	apperrors "github.com/guncad/market-server-go/internal/errors"
	"github.com/guncad/market-server-go/internal/model"
	"github.com/guncad/market-server-go/internal/repository"
	"github.com/guncad/market-server-go/internal/util"
)

type SessionState int

const (
	SessionAnonymous SessionState = iota
	SessionAuthenticated
	// SessionRevoked means a stored session belonged to a missing or inactive
	// user and has been deleted.
	SessionRevoked
)

func (s SessionState) String() string {
	switch s {
	case SessionAuthenticated:
		return "authenticated"
	case SessionRevoked:
		return "revoked"
	default:
		return "anonymous"
	}
}

// SessionResolution is the outcome of resolving a session cookie. Identity is
// set only for SessionAuthenticated.
type SessionResolution struct {
	State       SessionState
	Identity    *model.Identity
	ClearCookie bool
}

type AccountService struct {
	tx           TxRunner
	userRepo     repository.UserRepository
	identityRepo repository.AccountIdentityRepository
	sessionRepo  repository.SessionRepository
	pepper       string
	autoApprove  bool

	// Replaced in tests.
	numberGen func() (string, error)
	now       func() time.Time
}

func NewAccountService(
	tx TxRunner,
	userRepo repository.UserRepository,
	identityRepo repository.AccountIdentityRepository,
	sessionRepo repository.SessionRepository,
	pepper string,
	autoApprove bool,
) *AccountService {
	return &AccountService{
		tx:           tx,
		userRepo:     userRepo,
		identityRepo: identityRepo,
		sessionRepo:  sessionRepo,
		pepper:       pepper,
		autoApprove:  autoApprove,
		numberGen:    util.GenerateAccountNumber,
		now:          time.Now,
	}
}

func (s *AccountService) lookupToken(accountNumber string) (string, error) {
	token, err := util.HashForLookup(util.NormalizeAccountNumber(accountNumber), s.pepper)
	if errors.Is(err, util.ErrMissingPepper) {
		return "", apperrors.Configuration("ACCOUNT_NUMBER_PEPPER").WithCause(err)
	}
	return token, err
}

// CreateAccount registers a new pseudonymous account and returns its 16-digit
// number. The number is shown once and never stored.
func (s *AccountService) CreateAccount(ctx context.Context) (string, error) {
	status := model.UserStatusPending
	if s.autoApprove {
		status = model.UserStatusActive
	}

	for attempt := 1; attempt <= config.AccountCreateMaxAttempts; attempt++ {
		accountNumber, err := s.numberGen()
		if err != nil {
			return "", apperrors.Internal("Failed to generate account number").WithCause(err)
		}

		lookupToken, err := s.lookupToken(accountNumber)
		if err != nil {
			return "", err
		}

		user, err := s.userRepo.Create(ctx, model.CreateUserParams{
			ID:     uuid.NewString(),
			Status: status,
		})
		if err != nil {
			return "", apperrors.Database(err)
		}

		_, err = s.identityRepo.Create(ctx, model.CreateAccountIdentityParams{
			UserID:      user.ID,
			LookupToken: lookupToken,
		})
		if err == nil {
			log.Info().Str("userId", user.ID).Str("status", string(status)).Msg("account created")
			return accountNumber, nil
		}

		if delErr := s.userRepo.Delete(ctx, user.ID); delErr != nil {
			log.Error().Err(delErr).Str("userId", user.ID).Msg("failed to roll back orphaned user")
		}

		if !errors.Is(err, repository.ErrDuplicateLookupToken) {
			return "", apperrors.Database(err)
		}

		log.Warn().Int("attempt", attempt).Msg("account number collision, retrying")
	}

	return "", apperrors.Internal("Failed to create account")
}

// Login exchanges an account number for a new session token.
func (s *AccountService) Login(ctx context.Context, accountNumber string) (string, time.Time, error) {
	user, err := s.ValidateAccount(ctx, accountNumber)
	if err != nil {
		return "", time.Time{}, err
	}

	token, err := util.GenerateOpaqueToken(util.SessionTokenBytes)
	if err != nil {
		return "", time.Time{}, apperrors.Internal("Failed to generate session token").WithCause(err)
	}

	expiresAt := s.now().Add(config.SessionTTL)
	if _, err := s.sessionRepo.Create(ctx, model.CreateSessionParams{
		SessionTokenHash: util.HashForStorage(token),
		UserID:           user.ID,
		ExpiresAt:        expiresAt,
	}); err != nil {
		return "", time.Time{}, apperrors.Database(err)
	}

	return token, expiresAt, nil
}

// ValidateAccount resolves an account number to its active user without
// opening a session.
func (s *AccountService) ValidateAccount(ctx context.Context, accountNumber string) (*model.User, error) {
	if !util.IsValidAccountNumber(accountNumber) {
		return nil, apperrors.ValidationError("Account number must be 16 digits")
	}

	lookupToken, err := s.lookupToken(accountNumber)
	if err != nil {
		return nil, err
	}

	identity, err := s.identityRepo.FindByLookupToken(ctx, lookupToken)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if identity == nil {
		return nil, apperrors.Unauthorized("Invalid account number")
	}

	user, err := s.userRepo.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if user == nil {
		return nil, apperrors.Unauthorized("Invalid account number")
	}
	if !user.IsActive() {
		return nil, apperrors.AccountPending()
	}

	return user, nil
}

// ResolveSession maps a session cookie value to an identity. A returned error
// means the store could not be read and the caller must not trust the token.
func (s *AccountService) ResolveSession(ctx context.Context, token string) (*SessionResolution, error) {
	if token == "" {
		return &SessionResolution{State: SessionAnonymous}, nil
	}

	session, err := s.sessionRepo.FindActiveByTokenHash(ctx, util.HashForStorage(token))
	if err != nil {
		return nil, err
	}
	if session == nil || session.IsExpired(s.now()) {
		return &SessionResolution{State: SessionAnonymous, ClearCookie: true}, nil
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
			return nil, err
		}
		log.Info().Str("userId", session.UserID).Str("sessionId", session.ID).Msg("session revoked for inactive account")
		return &SessionResolution{State: SessionRevoked, ClearCookie: true}, nil
	}

	if err := s.sessionRepo.TouchLastSeen(ctx, session.ID); err != nil {
		log.Warn().Err(err).Str("sessionId", session.ID).Msg("failed to update session last seen")
	}

	return &SessionResolution{
		State:    SessionAuthenticated,
		Identity: &model.Identity{UserID: user.ID, SessionID: session.ID},
	}, nil
}

// Logout deletes the session behind token. Unknown tokens are not an error.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if _, err := s.sessionRepo.DeleteByTokenHash(ctx, util.HashForStorage(token)); err != nil {
		return apperrors.Database(err)
	}
	return nil
}

// SetStatus moves an account between pending, active and suspended. Leaving
// active drops every session of the user in the same transaction.
func (s *AccountService) SetStatus(ctx context.Context, userID string, status model.UserStatus) (*model.User, int64, error) {
	if !status.IsValid() {
		return nil, 0, apperrors.InvalidInput("status", "must be pending, active or suspended")
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, 0, apperrors.InvalidInput("user id", "must be a UUID")
	}

	var (
		user    *model.User
		revoked int64
	)
	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		user, err = s.userRepo.WithTx(tx).UpdateStatus(ctx, userID, status)
		if err != nil || user == nil {
			return err
		}
		if status != model.UserStatusActive {
			revoked, err = s.sessionRepo.WithTx(tx).DeleteByUserID(ctx, userID)
		}
		return err
	})
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}
	if user == nil {
		return nil, 0, apperrors.NotFound("User")
	}

	log.Info().
		Str("userId", userID).
		Str("status", string(status)).
		Int64("revokedSessions", revoked).
		Msg("account status changed")
	return user, revoked, nil
}
