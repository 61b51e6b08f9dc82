package middlewares

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/PrayInVerses/apperrors"
	"github.com/PrayInVerses/initializers"
	"github.com/PrayInVerses/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// CheckAuth validates the bearer token and loads the caller. The role is
// always read from the database so a revoked role takes effect before the
// token expires.
func CheckAuth(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")

	if authHeader == "" {
		apperrors.Respond(c, apperrors.NewUnauthorized(apperrors.ErrCodeTokenInvalid, "Authorization header is missing"))
		return
	}

	authToken := strings.Split(authHeader, " ")
	if len(authToken) != 2 || authToken[0] != "Bearer" {
		apperrors.Respond(c, apperrors.NewUnauthorized(apperrors.ErrCodeTokenInvalid, "Invalid token format"))
		return
	}

	token, err := jwt.Parse(authToken[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(os.Getenv("SECRET")), nil
	})
	if err != nil || !token.Valid {
		apperrors.Respond(c, apperrors.NewUnauthorized(apperrors.ErrCodeTokenInvalid, "Invalid or expired token"))
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !claims.VerifyExpiresAt(time.Now().Unix(), true) {
		apperrors.Respond(c, apperrors.NewUnauthorized(apperrors.ErrCodeTokenInvalid, "Invalid token"))
		return
	}

	userID, ok := claims["id"].(float64)
	if !ok {
		apperrors.Respond(c, apperrors.NewUnauthorized(apperrors.ErrCodeTokenInvalid, "Invalid token"))
		return
	}

	var user models.UserProfile
	found, err := initializers.DB.From("user_profile").
		Where(
			goqu.C("user_profile_id").Eq(int(userID)),
			goqu.C("deleted").IsFalse(),
		).
		ScanStructContext(c.Request.Context(), &user)
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to load user profile", err))
		return
	}

	if !found {
		apperrors.Respond(c, apperrors.NewUnauthorized(apperrors.ErrCodeTokenInvalid, "User no longer exists"))
		return
	}

	c.Set("currentUser", user)
	c.Set("role", user.Role)

	c.Next()
}
