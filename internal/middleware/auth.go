package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nextalk/room-service/internal/model"
)

// ContextUserID is the gin context key for the resolved caller identity.
const ContextUserID = "userID"

// Identity resolves the caller from the Authorization header and upserts the
// matching users row. With a JWT secret configured the bearer token is a
// verified HS256 token and the subject claim is the external identity; without
// one the bearer token itself is treated as the opaque identity (the platform
// gateway has already verified it). Requests without a header pass through
// unresolved; RequireAuth gates the routes that need one.
func Identity(db *gorm.DB, jwtSecret string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.Next()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		externalID := token
		name, email := "", ""
		if jwtSecret != "" {
			parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !parsed.Valid {
				log.Debug("invalid bearer token", zap.Error(err))
				c.Next()
				return
			}
			claims, ok := parsed.Claims.(jwt.MapClaims)
			if !ok {
				c.Next()
				return
			}
			sub, _ := claims.GetSubject()
			if sub == "" {
				c.Next()
				return
			}
			externalID = sub
			name, _ = claims["name"].(string)
			email, _ = claims["email"].(string)
		}

		user, err := resolveUser(db, externalID, name, email)
		if err != nil {
			log.Warn("identity resolution failed", zap.Error(err))
			c.Next()
			return
		}
		c.Set(ContextUserID, user.ID)
		c.Next()
	}
}

// RequireAuth aborts with 401 when no identity was resolved.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ContextUserID); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		c.Next()
	}
}

// UserID returns the resolved caller identity, or "" if none.
func UserID(c *gin.Context) string {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}

// resolveUser looks up or creates the users row for the external identity.
func resolveUser(db *gorm.DB, externalID, name, email string) (*model.User, error) {
	var user model.User
	err := db.Where("external_id = ?", externalID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	user = model.User{
		ID:         uuid.New().String(),
		ExternalID: externalID,
		Name:       name,
		Email:      email,
	}
	if err := db.Create(&user).Error; err != nil {
		// Lost a concurrent upsert race; re-read.
		if rerr := db.Where("external_id = ?", externalID).First(&user).Error; rerr == nil {
			return &user, nil
		}
		return nil, err
	}
	return &user, nil
}
