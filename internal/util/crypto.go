package util

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
)

// SessionTokenBytes is the entropy of a session token before encoding.
const SessionTokenBytes = 48

const accessGrantMessage = "guncad_access_granted"

var ErrMissingPepper = errors.New("account number pepper is not configured")

// GenerateOpaqueToken returns byteLength random bytes encoded as unpadded base64url,
// safe to use as a cookie value.
func GenerateOpaqueToken(byteLength int) (string, error) {
	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// HashForStorage is an unkeyed SHA-256 fingerprint of a random token.
func HashForStorage(secret string) string {
	hash := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(hash[:])
}

// HashForLookup derives a deterministic lookup key for secret. The pepper is
// never defaulted: without it no key can be produced.
func HashForLookup(secret, pepper string) (string, error) {
	if pepper == "" {
		return "", ErrMissingPepper
	}
	return HmacSHA256(pepper, secret), nil
}

// ComputeAccessToken is the beta access cookie value for a shared password.
func ComputeAccessToken(password string) string {
	return HmacSHA256(password, accessGrantMessage)
}

func HmacSHA256(secret, data string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

func ConstantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
