package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/clinicore/clinic-scheduler/internal/domain"
	apperrors "github.com/clinicore/clinic-scheduler/pkg/util"
)

const identityKey = "auth_identity"

// Policy decides whether decoded claims admit the caller. Role gates differ
// only in which claims are mandatory and which role value is accepted.
type Policy interface {
	Admit(claims *Claims) (domain.Identity, error)
}

// RolePolicy admits any token whose role claim matches and whose subject id
// is present.
type RolePolicy struct {
	Role domain.Role
}

// Admit implements Policy.
func (p RolePolicy) Admit(claims *Claims) (domain.Identity, error) {
	if claims.Role != p.Role {
		return domain.Identity{}, apperrors.NewUnauthorized("not authorized for this resource")
	}
	return domain.Identity{SubjectID: claims.SubjectID, Role: claims.Role, Email: claims.Email}, nil
}

// AdminPolicy additionally requires the decoded claims to exactly match the
// configured administrator identity: subject id and the secondary credential
// claim. A correctly signed token for the wrong identity is Unauthorized,
// not Unauthenticated.
type AdminPolicy struct {
	AdminEmail       string
	CredentialDigest string
}

// Admit implements Policy.
func (p AdminPolicy) Admit(claims *Claims) (domain.Identity, error) {
	if claims.Role != domain.RoleAdmin {
		return domain.Identity{}, apperrors.NewUnauthorized("not authorized for this resource")
	}
	subjectOK := subtle.ConstantTimeCompare([]byte(claims.SubjectID), []byte(p.AdminEmail)) == 1
	checkOK := subtle.ConstantTimeCompare([]byte(claims.AdminCheck), []byte(p.CredentialDigest)) == 1
	if !subjectOK || !checkOK {
		return domain.Identity{}, apperrors.NewUnauthorized("not authorized, login again")
	}
	return domain.Identity{SubjectID: claims.SubjectID, Role: domain.RoleAdmin, Email: claims.Email}, nil
}

// Gate is role-scoped authentication middleware. It extracts the bearer
// token, verifies it, applies the policy and attaches the identity.
type Gate struct {
	tokens *TokenManager
	policy Policy
	logger *zap.Logger
}

// NewGate constructs a gate over the given policy.
func NewGate(tokens *TokenManager, policy Policy, logger *zap.Logger) *Gate {
	return &Gate{tokens: tokens, policy: policy, logger: logger}
}

// NewAdminGate builds the administrator gate for the configured identity pair.
func NewAdminGate(tokens *TokenManager, adminEmail, adminPassword string, logger *zap.Logger) *Gate {
	return NewGate(tokens, AdminPolicy{
		AdminEmail:       adminEmail,
		CredentialDigest: CredentialDigest(adminPassword),
	}, logger)
}

// NewRoleGate builds a gate admitting one role.
func NewRoleGate(tokens *TokenManager, role domain.Role, logger *zap.Logger) *Gate {
	return NewGate(tokens, RolePolicy{Role: role}, logger)
}

// Handle enforces authentication for protected routes.
func (g *Gate) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthenticated("not authorized, login again")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthenticated("invalid token")
	}

	claims, err := g.tokens.Verify(parts[1])
	if err != nil {
		// decode internals stay in the log; the response carries a generic
		// message only
		g.logger.Debug("token verification failed", zap.Error(err))
		if errors.Is(err, ErrTokenExpired) {
			return apperrors.NewUnauthenticated("token expired, login again")
		}
		return apperrors.NewUnauthenticated("invalid token")
	}

	identity, err := g.policy.Admit(claims)
	if err != nil {
		return err
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext retrieves the authenticated caller.
func IdentityFromContext(c *fiber.Ctx) (domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return domain.Identity{}, false
	}
	identity, ok := val.(domain.Identity)
	return identity, ok
}
