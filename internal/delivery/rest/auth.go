package rest

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/yourusername/sheet-store/internal/domain/entity"
	"github.com/yourusername/sheet-store/pkg/logger"
)

const (
	accountKey = "account"
	roleAdmin  = "admin"
)

// Claims token payload issued by the identity service: sub is the user id.
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens. It never issues tokens for
// requests; IssueToken exists for operators and tests.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator JWT tekshiruvchi
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Protect rejects requests without a valid bearer token and stores the
// caller's entity.Account in the gin context.
func (a *Authenticator) Protect() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}
		account, err := a.Verify(raw)
		if err != nil {
			logger.InfoLogger.Printf("[auth] token rejected: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
			return
		}
		c.Set(accountKey, account)
		c.Next()
	}
}

// AdminOnly must run after Protect.
func (a *Authenticator) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentAccount(c).Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Not authorized as an admin"})
			return
		}
		c.Next()
	}
}

// Verify parses raw and maps its claims to an account.
func (a *Authenticator) Verify(raw string) (entity.Account, error) {
	if len(a.secret) == 0 {
		return entity.Account{}, errors.New("JWT secret is not configured")
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return entity.Account{}, err
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return entity.Account{}, errors.New("token has no subject")
	}
	return entity.Account{
		ID:    claims.Subject,
		Name:  claims.Name,
		Admin: strings.EqualFold(claims.Role, roleAdmin),
	}, nil
}

// IssueToken signs a token for account valid for ttl.
func (a *Authenticator) IssueToken(account entity.Account, ttl time.Duration) (string, error) {
	if len(a.secret) == 0 {
		return "", errors.New("JWT secret is not configured")
	}
	role := "user"
	if account.Admin {
		role = roleAdmin
	}
	now := time.Now()
	claims := Claims{
		Name: account.Name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func currentAccount(c *gin.Context) entity.Account {
	if v, ok := c.Get(accountKey); ok {
		if acc, ok := v.(entity.Account); ok {
			return acc
		}
	}
	return entity.Account{}
}
