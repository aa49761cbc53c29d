package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/giaic/promptnights/config"
	"github.com/giaic/promptnights/internal/cache"
	"github.com/giaic/promptnights/internal/dto"
	"github.com/giaic/promptnights/internal/model"
	"github.com/giaic/promptnights/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxUserID    = "userID"
	CtxUserName  = "userName"
	CtxUserEmail = "userEmail"
	CtxUserImage = "userImage"
	CtxIsAdmin   = "isAdmin"
)

const (
	userSyncTTL     = 5 * time.Minute
	userSyncMaxKeys = 10_000
)

// Authenticator verifies the frontend's session token and mirrors the
// identity into the local user table. The mirror write is fire and forget:
// it runs in its own goroutine and never blocks or fails the request, and a
// TTL guard keeps repeat requests from hammering the upsert.
type Authenticator struct {
	secret      []byte
	userService service.UserService
	syncedAt    *cache.KeyedTTLCache[struct{}]
}

func NewAuthenticator(cfg *config.Config, userService service.UserService) *Authenticator {
	return &Authenticator{
		secret:      []byte(cfg.JWTSecret),
		userService: userService,
		syncedAt:    cache.NewKeyedTTL[struct{}](userSyncTTL, userSyncMaxKeys),
	}
}

func (a *Authenticator) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing bearer token"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return a.secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Token has no subject"})
			return
		}
		name, _ := claims["name"].(string)
		email, _ := claims["email"].(string)
		picture, _ := claims["picture"].(string)
		isAdmin, _ := claims["admin"].(bool)

		c.Set(CtxUserID, sub)
		c.Set(CtxUserName, name)
		c.Set(CtxUserEmail, email)
		c.Set(CtxUserImage, picture)
		c.Set(CtxIsAdmin, isAdmin)

		a.syncUser(sub, name, email, picture)
		c.Next()
	}
}

// RequireAdmin guards the seeding endpoints. Must run after Auth.
func (a *Authenticator) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(CtxIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Admin access required"})
			return
		}
		c.Next()
	}
}

func (a *Authenticator) syncUser(id, name, email, picture string) {
	if _, ok := a.syncedAt.Get(id); ok {
		return
	}
	a.syncedAt.Set(id, struct{}{})

	user := &model.User{ID: id, Name: name, Email: email}
	if picture != "" {
		user.ImageURL = &picture
	}
	go func() {
		if err := a.userService.SyncUser(user); err != nil {
			log.Error().Err(err).Str("user_id", id).Msg("User sync failed")
			a.syncedAt.Remove(id)
		}
	}()
}
