package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/roomcare/housekeeping-backend/internal/models"
	"github.com/roomcare/housekeeping-backend/pkg/jwt"
	"github.com/sirupsen/logrus"
)

// UserContextKey is the key used to store user information in Gin context
const UserContextKey = "user"

// TokenHeader carries the JWT on every authenticated request
const TokenHeader = "token"

var errMissingToken = errors.New("missing token")

// UserContext represents the authenticated user's information
type UserContext struct {
	UserID   uuid.UUID   `json:"id"`
	Role     models.Role `json:"role"`
	Facility string      `json:"facility,omitempty"`
	Email    string      `json:"email"`
}

// Actor converts the context into the identity services authorize against
func (u UserContext) Actor() models.Actor {
	return models.Actor{ID: u.UserID, Role: u.Role, Facility: u.Facility, Email: u.Email}
}

// AuthMiddleware validates the JWT from the token header, or from a Bearer
// Authorization header
func AuthMiddleware(jwtService *jwt.Service, logger *logrus.Logger) gin.HandlerFunc {
	return authenticate(jwtService, logger, false)
}

// QueryTokenAuth is AuthMiddleware that also accepts ?token=, for clients
// such as browsers opening a websocket that cannot set headers
func QueryTokenAuth(jwtService *jwt.Service, logger *logrus.Logger) gin.HandlerFunc {
	return authenticate(jwtService, logger, true)
}

func authenticate(jwtService *jwt.Service, logger *logrus.Logger, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.WithFields(logrus.Fields{
			"path": c.Request.URL.Path,
			"ip":   c.ClientIP(),
		})

		tokenString, err := extractToken(c, allowQuery)
		if err != nil {
			log.WithError(err).Warn("Auth failed")
			code := "INVALID_AUTH_FORMAT"
			message := "Invalid authorization header format. Expected: Bearer <token>"
			if errors.Is(err, errMissingToken) {
				code = "MISSING_TOKEN"
				message = "A token header is required"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": message,
				"code":    code,
			})
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			log.WithError(err).Warn("Auth failed: invalid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": "Invalid or expired token",
				"code":    "INVALID_TOKEN",
			})
			return
		}

		c.Set(UserContextKey, UserContext{
			UserID:   claims.ID,
			Role:     models.Role(strings.ToLower(claims.Role)),
			Facility: strings.TrimSpace(claims.Facility),
			Email:    claims.Email,
		})

		c.Next()
	}
}

func extractToken(c *gin.Context, allowQuery bool) (string, error) {
	if token := strings.TrimSpace(c.GetHeader(TokenHeader)); token != "" {
		return token, nil
	}

	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			return "", errors.New("invalid authorization header format")
		}
		return strings.TrimSpace(parts[1]), nil
	}

	if allowQuery {
		if token := strings.TrimSpace(c.Query("token")); token != "" {
			return token, nil
		}
	}

	return "", errMissingToken
}

// RequireRole creates a middleware that checks if user has one of the roles
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userCtx, exists := GetUserContext(c)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "User context not found. Auth middleware may not be applied.",
				"code":    "MISSING_USER_CONTEXT",
			})
			return
		}

		for _, role := range roles {
			if userCtx.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "You don't have permission to access this resource",
			"code":    "INSUFFICIENT_PERMISSIONS",
		})
	}
}

// GetUserContext retrieves the user context from Gin context
func GetUserContext(c *gin.Context) (UserContext, bool) {
	value, exists := c.Get(UserContextKey)
	if !exists {
		return UserContext{}, false
	}

	userCtx, ok := value.(UserContext)
	if !ok {
		return UserContext{}, false
	}

	return userCtx, true
}

// MustGetUserContext retrieves the user context or panics (use only after AuthMiddleware)
func MustGetUserContext(c *gin.Context) UserContext {
	userCtx, exists := GetUserContext(c)
	if !exists {
		panic("user context not found - ensure AuthMiddleware is applied")
	}
	return userCtx
}
