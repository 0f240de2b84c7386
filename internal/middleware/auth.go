package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kingrain94/tenant-guard/internal/config"
	"github.com/kingrain94/tenant-guard/internal/domain"
	"github.com/kingrain94/tenant-guard/internal/utils"
)

type AuthMiddleware struct {
	config *config.Config
}

func NewAuthMiddleware(config *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		config: config,
	}
}

// JWTAuth verifies the bearer token and stores the caller's principal.
// A token without tenant_id is accepted; the tenant guard decides what to do with it.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}
		if !m.authenticate(c) {
			return
		}
		c.Next()
	}
}

// OptionalJWTAuth is JWTAuth for routes in front of the tenant guard: a
// request without a token continues with no principal, so skip-listed paths
// stay reachable and the guard answers NO_COMPANY for everything else.
// A token that is present must still be valid.
func (m *AuthMiddleware) OptionalJWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		if !m.authenticate(c) {
			return
		}
		c.Next()
	}
}

// RequireAuth rejects requests that reached it without a principal.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := principalFrom(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}
		c.Next()
	}
}

// authenticate parses the Authorization header and stores the principal.
// It aborts with 401 and returns false when the token is unusable.
func (m *AuthMiddleware) authenticate(c *gin.Context) bool {
	bearerToken := strings.Split(c.GetHeader("Authorization"), " ")
	if len(bearerToken) != 2 || strings.ToLower(bearerToken[0]) != "bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
		return false
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(bearerToken[1], &claims, func(token *jwt.Token) (any, error) {
		return []byte(m.config.JWTSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}

	c.Set(string(utils.ClaimsKey), claims)
	c.Set(string(utils.PrincipalKey), PrincipalFromClaims(claims))
	return true
}

// RequireRole passes callers holding any of roles. Superadmins always pass.
func (m *AuthMiddleware) RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := principalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No authentication found"})
			return
		}

		if !principal.IsSuperAdmin && !principal.HasAnyRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		c.Next()
	}
}

func (m *AuthMiddleware) RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := principalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No authentication found"})
			return
		}

		if !principal.IsSuperAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Superadmin access required"})
			return
		}

		c.Next()
	}
}

func (m *AuthMiddleware) GenerateToken(principal domain.Principal) (string, error) {
	return GenerateToken(principal, m.config.JWTSecretKey, time.Duration(m.config.JWTExpirationHours)*time.Hour)
}

// GenerateToken signs an HS256 token carrying the principal's claims.
func GenerateToken(principal domain.Principal, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":       principal.UserID,
		"tenant_id":     principal.TenantID,
		"role":          principal.Role,
		"roles":         principal.Roles,
		"is_superadmin": principal.IsSuperAdmin,
		"exp":           now.Add(ttl).Unix(),
		"iat":           now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// PrincipalFromClaims maps token claims onto a principal. The superadmin
// flag is set by is_superadmin or by holding the superadmin role.
func PrincipalFromClaims(claims jwt.MapClaims) *domain.Principal {
	p := &domain.Principal{
		TenantID: strings.TrimSpace(stringClaim(claims, "tenant_id")),
		UserID:   stringClaim(claims, "user_id"),
		Role:     stringClaim(claims, "role"),
	}
	if p.UserID == "" {
		p.UserID = stringClaim(claims, "sub")
	}

	if raw, ok := claims["roles"].([]any); ok {
		for _, r := range raw {
			if s, ok := r.(string); ok && s != "" {
				p.Roles = append(p.Roles, s)
			}
		}
	}

	flag, _ := claims["is_superadmin"].(bool)
	p.IsSuperAdmin = flag || p.HasAnyRole(domain.RoleSuperAdmin)
	return p
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

func principalFrom(c *gin.Context) (*domain.Principal, bool) {
	v, exists := c.Get(string(utils.PrincipalKey))
	if !exists {
		return nil, false
	}
	principal, ok := v.(*domain.Principal)
	return principal, ok && principal != nil
}
