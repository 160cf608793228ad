package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/guncad/market-server-go/internal/database"
	"github.com/guncad/market-server-go/internal/model"
)

const lookupTokenConstraint = "account_identities_lookup_token_key"

// ErrDuplicateLookupToken is returned by Create when another account already
// owns the lookup token.
var ErrDuplicateLookupToken = errors.New("lookup token already registered")

type AccountIdentityRepository interface {
	FindByLookupToken(ctx context.Context, lookupToken string) (*model.AccountIdentity, error)
	Create(ctx context.Context, params model.CreateAccountIdentityParams) (*model.AccountIdentity, error)
}

type accountIdentityRepo struct {
	db database.DBTX
}

func NewAccountIdentityRepository(db *sqlx.DB) AccountIdentityRepository {
	return &accountIdentityRepo{db: db}
}

func (r *accountIdentityRepo) FindByLookupToken(ctx context.Context, lookupToken string) (*model.AccountIdentity, error) {
	var identity model.AccountIdentity
	err := r.db.GetContext(ctx, &identity, `
		SELECT * FROM account_identities WHERE lookup_token = $1
	`, lookupToken)
	return HandleNotFound(&identity, err)
}

func (r *accountIdentityRepo) Create(ctx context.Context, params model.CreateAccountIdentityParams) (*model.AccountIdentity, error) {
	var identity model.AccountIdentity
	err := r.db.GetContext(ctx, &identity, `
		INSERT INTO account_identities (user_id, lookup_token)
		VALUES ($1, $2)
		RETURNING *
	`, params.UserID, params.LookupToken)
	if isUniqueViolation(err, lookupTokenConstraint) {
		return nil, ErrDuplicateLookupToken
	}
	if err != nil {
		return nil, err
	}
	return &identity, nil
}
