package service

import (
	apperrors "github.com/guncad/market-server-go/internal/errors"
	"github.com/guncad/market-server-go/internal/util"
)

// AccessService guards the site-wide beta with a shared password. The cookie
// value is derived from the password, so rotating it revokes every grant.
type AccessService struct {
	password string
}

func NewAccessService(password string) *AccessService {
	return &AccessService{password: password}
}

// Grant checks supplied against the configured password and returns the
// cookie value to set.
func (s *AccessService) Grant(supplied string) (string, error) {
	if supplied == "" {
		return "", apperrors.MissingRequired("password")
	}
	if s.password == "" {
		return "", apperrors.Configuration("BETA_ACCESS_PASSWORD")
	}
	if !util.ConstantTimeEqual(supplied, s.password) {
		return "", apperrors.Unauthorized("Invalid access code")
	}
	return util.ComputeAccessToken(s.password), nil
}

// IsGranted is false whenever no password is configured.
func (s *AccessService) IsGranted(cookieValue string) bool {
	if s.password == "" || cookieValue == "" {
		return false
	}
	return util.ConstantTimeEqual(cookieValue, util.ComputeAccessToken(s.password))
}
