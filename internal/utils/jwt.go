package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"   // secure random number generation for invite tokens
	"crypto/sha256" // SHA-256 hashing for refresh and invite tokens
	"encoding/hex"  // hex encoding for digests and random tokens
	"errors"        // sentinel errors for claim validation
	"time"          // expiry arithmetic

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// TokenClaims is the payload carried by both access and refresh tokens:
// the user id (sub) and the platform role.  The two token kinds are signed
// with separate secrets so one can never stand in for the other.
type TokenClaims struct {
	UserID       uint64
	PlatformRole string
}

// SignedToken couples a serialized JWT with its UTC expiry.
type SignedToken struct {
	Token string
	Exp   time.Time
}

// ErrInvalidToken is returned when a token fails signature or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken builds and signs a short-lived HS256 JWT.  Claims follow
// the usual layout: sub, role, exp, iat.
func NewAccessToken(secret string, c TokenClaims, ttlMin int) (SignedToken, error) {
	return signToken(secret, c, time.Duration(ttlMin)*time.Minute)
}

// NewRefreshToken builds and signs a long-lived HS256 JWT with the same
// claim shape as an access token.  Only its SHA-256 hash is ever persisted.
func NewRefreshToken(secret string, c TokenClaims, ttlDays int) (SignedToken, error) {
	return signToken(secret, c, time.Duration(ttlDays)*24*time.Hour)
}

func signToken(secret string, c TokenClaims, ttl time.Duration) (SignedToken, error) {
	exp := time.Now().UTC().Add(ttl)
	claims := jwt.MapClaims{
		"sub":  c.UserID,
		"role": c.PlatformRole,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SignedToken{}, err
	}
	return SignedToken{Token: signed, Exp: exp}, nil
}

// ParseToken verifies an HS256 JWT against the given secret and extracts the
// claims.  Tokens signed with any other method are rejected.
func ParseToken(secret, raw string) (TokenClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return TokenClaims{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return TokenClaims{}, ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	return TokenClaims{UserID: uint64(sub), PlatformRole: role}, nil
}

// HashTokenRaw returns the SHA-256 hash of a raw token as a hex string.
// Refresh and invite tokens are stored hashed so a database read alone
// never discloses a usable credential.
func HashTokenRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// NewInviteToken returns a cryptographically random 32-byte token encoded
// as 64 hex characters.
func NewInviteToken() (string, error) {
	return randomHex(32)
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
