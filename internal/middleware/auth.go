package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/SAP-F-2025/interview-prep-service/internal/utils"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	UserIDKey   = "user_id"
	UserRoleKey = "user_role"

	RoleAdmin = "admin"
	RoleUser  = "user"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated caller.
type Identity struct {
	UserID string
	Role   string
}

// Verifier turns a bearer token into an Identity.
type Verifier interface {
	Verify(token string) (*Identity, error)
}

// JWTVerifier accepts HMAC signed tokens carrying the user id in sub,
// user_id or id and an optional role or roles claim.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID := extractUserID(claims)
	if userID == "" {
		return nil, ErrInvalidToken
	}
	role := extractRole(claims)
	if role == "" {
		role = RoleUser
	}
	return &Identity{UserID: userID, Role: role}, nil
}

func extractUserID(claims jwt.MapClaims) string {
	for _, key := range []string{"sub", "user_id", "id"} {
		switch v := claims[key].(type) {
		case string:
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

func extractRole(claims jwt.MapClaims) string {
	for _, key := range []string{"role", "roles"} {
		switch v := claims[key].(type) {
		case string:
			if role := strings.ToLower(strings.TrimSpace(v)); role != "" {
				return role
			}
		case []interface{}:
			for _, item := range v {
				if s, ok := item.(string); ok {
					if role := strings.ToLower(strings.TrimSpace(s)); role != "" {
						return role
					}
				}
			}
		}
	}
	return ""
}

// CasdoorVerifier validates tokens issued by a Casdoor application.
type CasdoorVerifier struct {
	client *casdoorsdk.Client
}

type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
}

func NewCasdoorVerifier(cfg CasdoorConfig) *CasdoorVerifier {
	return &CasdoorVerifier{
		client: casdoorsdk.NewClient(
			cfg.Endpoint,
			cfg.ClientID,
			cfg.ClientSecret,
			cfg.Certificate,
			cfg.OrganizationName,
			cfg.ApplicationName,
		),
	}
}

func (v *CasdoorVerifier) Verify(token string) (*Identity, error) {
	claims, err := v.client.ParseJwtToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID := claims.User.Id
	if userID == "" {
		userID = claims.RegisteredClaims.Subject
	}
	if userID == "" {
		return nil, ErrInvalidToken
	}

	role := RoleUser
	if claims.User.IsAdmin {
		role = RoleAdmin
	}
	return &Identity{UserID: userID, Role: role}, nil
}

// Authenticate rejects requests without a valid bearer token and stores the
// caller identity in the gin context.
func Authenticate(verifier Verifier, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorization := c.GetHeader("Authorization")
		if authorization == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "authorization header missing")
			return
		}

		const bearer = "bearer "
		if len(authorization) <= len(bearer) || !strings.EqualFold(authorization[:len(bearer)], bearer) {
			abort(c, http.StatusUnauthorized, "unauthorized", "invalid authorization header")
			return
		}

		identity, err := verifier.Verify(strings.TrimSpace(authorization[len(bearer):]))
		if err != nil {
			utils.GetLoggerFromContext(c, logger).Warn("Rejected bearer token", "error", err)
			abort(c, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}

		c.Set(UserIDKey, identity.UserID)
		c.Set(UserRoleKey, identity.Role)
		c.Next()
	}
}

// RequireRole only lets callers with the given role through.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(UserRoleKey) != role {
			abort(c, http.StatusForbidden, "forbidden", "insufficient permissions")
			return
		}
		c.Next()
	}
}

// GetUserID returns the authenticated user id, or "" outside Authenticate.
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}
