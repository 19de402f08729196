package handlers

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/questionnaire-analytics/internal/config"
	"github.com/SAP-F-2025/questionnaire-analytics/internal/utils"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the authenticated caller id
const UserIDKey = "user_id"

// DevUserHeader carries the caller id when casdoor is not configured
const DevUserHeader = "X-User-ID"

// TokenParser turns a bearer token into casdoor claims
type TokenParser interface {
	ParseJwtToken(token string) (*casdoorsdk.Claims, error)
}

type casdoorTokenParser struct{}

// NewCasdoorTokenParser initialises the casdoor SDK from config
func NewCasdoorTokenParser(cfg config.CasdoorConfig) TokenParser {
	casdoorsdk.InitConfig(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Certificate,
		cfg.OrganizationName,
		cfg.ApplicationName,
	)
	return casdoorTokenParser{}
}

func (casdoorTokenParser) ParseJwtToken(token string) (*casdoorsdk.Claims, error) {
	return casdoorsdk.ParseJwtToken(token)
}

// AuthMiddleware validates the bearer token and stores the casdoor user id
func AuthMiddleware(parser TokenParser, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Missing bearer token",
				Code:    "UNAUTHENTICATED",
			})
			return
		}

		claims, err := parser.ParseJwtToken(token)
		if err != nil {
			logger.Warn("Rejected bearer token", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid token",
				Code:    "UNAUTHENTICATED",
			})
			return
		}
		if claims.User.Id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Token has no subject",
				Code:    "UNAUTHENTICATED",
			})
			return
		}

		c.Set(UserIDKey, claims.User.Id)
		c.Set("user_name", claims.User.Name)
		c.Next()
	}
}

// HeaderAuthMiddleware trusts the X-User-ID header. Only used outside
// production when casdoor is not configured.
func HeaderAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := strings.TrimSpace(c.GetHeader(DevUserHeader)); userID != "" {
			c.Set(UserIDKey, userID)
		}
		c.Next()
	}
}
