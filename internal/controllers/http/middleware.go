package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"storefront-service/internal/domain"
	"storefront-service/internal/logger"
	"storefront-service/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxRequestID = "request_id"
	ctxIdentity  = "identity"

	headerRequestID = "X-Request-ID"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(ctxRequestID),
		}
		if id, ok := identity(c); ok {
			fields = append(fields, "user_id", id.UserID)
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

func CORS(frontendURL string) gin.HandlerFunc {
	origins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	if frontendURL != "" && frontendURL != origins[0] {
		origins = append(origins, frontendURL)
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", headerRequestID},
		ExposeHeaders:    []string{headerRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// CacheControl marks public GET responses as cacheable for maxAge seconds.
// Error responses override it with no-store.
func CacheControl(maxAge int) gin.HandlerFunc {
	value := "public, max-age=" + strconv.Itoa(maxAge)
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}

type AuthMiddleware struct {
	auth *services.AuthService
	log  *logger.Logger
}

func NewAuthMiddleware(auth *services.AuthService, log *logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, log: log.With("middleware", "AuthMiddleware")}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
			return
		}
		id, err := am.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			status, code := errorStatus(err)
			if status == http.StatusInternalServerError {
				am.log.Error("authentication lookup failed", "error", err)
				respondError(c, status, code, "internal server error")
				return
			}
			respondError(c, status, code, err.Error())
			return
		}
		c.Set(ctxIdentity, id)
		c.Next()
	}
}

// RequireRole must run after RequireAuth.
func (am *AuthMiddleware) RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token")
			return
		}
		for _, r := range roles {
			if id.Role == r {
				c.Next()
				return
			}
		}
		respondError(c, http.StatusForbidden, "forbidden", "insufficient permissions")
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func identity(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(ctxIdentity)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}
