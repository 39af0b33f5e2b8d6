package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"scribe/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userKey = "user"

// Claims carries the caller identity encoded in the bearer token.
type Claims struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Gender         string `json:"gender"`
	Bio            string `json:"bio,omitempty"`
	ProfilePicture string `json:"pfp"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "your-secret-key-change-this-in-production"
	}
	return []byte(secret)
}

// NewToken issues a signed token for the user, valid for one hour.
func NewToken(user *models.User) (string, error) {
	claims := &Claims{
		ID:             user.ID.Hex(),
		Username:       user.Username,
		Email:          user.Email,
		Gender:         user.Gender,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
}

// Auth verifies the Authorization bearer token. No token at all is a 401;
// a present but invalid or expired token is a 403.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Access denied. No token provided."})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtSecret(), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusForbidden, gin.H{"message": "Invalid or expired token."})
			c.Abort()
			return
		}

		c.Set(userKey, claims)
		c.Next()
	}
}

// CurrentUser returns the verified caller identity set by Auth.
func CurrentUser(c *gin.Context) *Claims {
	claims, _ := c.MustGet(userKey).(*Claims)
	return claims
}
