package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/clinicore/clinic-scheduler/internal/domain"
)

// Typed verification failures. Callers branch on these instead of inspecting
// jwt library internals.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenMalformed = errors.New("malformed token")
)

// TokenManager handles issuing and validating JWT session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Claims describes the JWT payload. AdminCheck carries a derived credential
// for administrator tokens; it is never the raw password.
type Claims struct {
	SubjectID  string      `json:"sub_id"`
	Role       domain.Role `json:"role"`
	Email      string      `json:"email,omitempty"`
	AdminCheck string      `json:"chk,omitempty"`
	jwt.RegisteredClaims
}

// Issue builds and signs a session token for the subject. A refreshed session
// is always a brand-new token; issued tokens are never mutated.
func (tm *TokenManager) Issue(subjectID string, role domain.Role, email string) (string, time.Time, error) {
	return tm.issue(subjectID, role, email, "")
}

// IssueAdmin signs an administrator token carrying the secondary credential
// claim derived from the configured admin password.
func (tm *TokenManager) IssueAdmin(adminEmail, adminPassword string) (string, time.Time, error) {
	return tm.issue(adminEmail, domain.RoleAdmin, adminEmail, CredentialDigest(adminPassword))
}

func (tm *TokenManager) issue(subjectID string, role domain.Role, email, check string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		SubjectID:  subjectID,
		Role:       role,
		Email:      email,
		AdminCheck: check,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify validates the signature and expiry window and returns claims.
// A token is valid for issuedAt <= now < expiresAt; a token exactly at its
// expiry boundary is expired.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrTokenInvalid
		}
		return tm.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrTokenInvalid
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	if !claims.Role.Valid() || claims.SubjectID == "" {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// CredentialDigest derives the secondary admin credential claim from the
// configured password so the raw value never travels inside a token.
func CredentialDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
