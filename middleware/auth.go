// api/middleware/auth.go

package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/api/config"
	logger "github.com/taskhive/taskhive/api/logging"
)

type AuthClaims struct {
	jwt.StandardClaims
	Username string `json:"username"`
}

// AuthMiddleware validates the bearer token and puts the caller's identity
// into the request context. Downstream middleware (the subscription gate in
// particular) reads "userID" from the context and must tolerate its absence
// on unauthenticated route groups.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			logger.Warn("No Authorization token provided")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		claims, err := parseToken(tokenString)
		if err != nil {
			logger.Error("Error parsing token", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set("userID", claims.Subject)
		c.Set("requestingUserID", claims.Subject)
		c.Set("username", claims.Username)

		c.Next()
	}
}

func parseToken(tokenString string) (*AuthClaims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	secret := config.GetString("auth.jwtSecret")

	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*AuthClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token or wrong claims type")
}
