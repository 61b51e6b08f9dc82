package controllers

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"

	"github.com/PrayInVerses/apperrors"
	"github.com/PrayInVerses/initializers"
	"github.com/PrayInVerses/models"
	"github.com/PrayInVerses/services"
	"github.com/PrayInVerses/workflow"
	"github.com/doug-martin/goqu/v9"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

// PublicUserSignup registers a reader account. New accounts always start
// with the USER role; staff roles are granted by a super admin.
func PublicUserSignup(c *gin.Context) {
	var user models.UserProfileSignup

	if err := c.ShouldBindJSON(&user); err != nil {
		apperrors.Respond(c, apperrors.NewValidation(apperrors.ErrCodeValidationFailed, "Invalid request body").WithDetail(err.Error()))
		return
	}

	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	userCount, err := initializers.DB.From("user_profile").
		Where(goqu.Or(
			goqu.C("username").Eq(user.Username),
			goqu.C("email").Eq(user.Email),
		)).
		CountContext(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to check existing users", err))
		return
	}

	if userCount > 0 {
		apperrors.Respond(c, apperrors.NewValidation(apperrors.ErrCodeResourceExists, "username or email already exists"))
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternal(apperrors.ErrCodeUnexpectedError, "Failed to hash password", err))
		return
	}

	newUser := models.UserProfile{
		Username:   user.Username,
		Password:   string(passwordHash),
		Email:      user.Email,
		First_Name: user.First_Name,
		Last_Name:  user.Last_Name,
		Role:       workflow.RoleUser,
		Created_By: 1,
		Updated_By: 1,
	}

	var created models.UserProfile
	_, err = initializers.DB.Insert("user_profile").
		Rows(newUser).
		Returning(goqu.Star()).
		Executor().
		ScanStructContext(c.Request.Context(), &created)
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to create user", err))
		return
	}

	if emailService := services.GetEmailService(); emailService != nil {
		go func(email, firstName string) {
			if err := emailService.SendWelcomeEmail(email, firstName); err != nil {
				log.Warn().Err(err).Str("username", created.Username).Msg("failed to send welcome email")
			}
		}(created.Email, created.First_Name)
	}

	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func UserLogin(c *gin.Context) {
	var user models.Login

	if err := c.ShouldBindJSON(&user); err != nil {
		apperrors.Respond(c, apperrors.NewValidation(apperrors.ErrCodeValidationFailed, "Invalid request body").WithDetail(err.Error()))
		return
	}

	var dbUser models.UserProfile
	found, err := initializers.DB.From("user_profile").
		Where(
			goqu.C("username").Eq(strings.TrimSpace(user.Username)),
			goqu.C("deleted").IsFalse(),
		).
		ScanStructContext(c.Request.Context(), &dbUser)
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to load user", err))
		return
	}

	invalid := apperrors.NewUnauthorized(apperrors.ErrCodeInvalidCredentials, "Invalid username or password")
	if !found {
		apperrors.Respond(c, invalid)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(dbUser.Password), []byte(user.Password)); err != nil {
		apperrors.Respond(c, invalid)
		return
	}

	generateToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   dbUser.User_Profile_ID,
		"exp":  time.Now().Add(tokenLifetime).Unix(),
		"role": string(dbUser.Role),
	})

	token, err := generateToken.SignedString([]byte(os.Getenv("SECRET")))
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternal(apperrors.ErrCodeUnexpectedError, "Failed to generate token", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"data":  dbUser,
	})
}

func GetUserProfile(c *gin.Context) {
	user := c.MustGet("currentUser").(models.UserProfile)

	c.JSON(http.StatusOK, gin.H{"data": user})
}

// UpdateUserRole grants or revokes a role. A super admin cannot demote
// themselves, so the system always keeps one.
func UpdateUserRole(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.UserProfile)

	userID, err := strconv.Atoi(c.Param("user_profile_id"))
	if err != nil {
		apperrors.Respond(c, apperrors.NewValidation(apperrors.ErrCodeInvalidInput, "Invalid user ID"))
		return
	}

	var body models.UserRoleUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.NewValidation(apperrors.ErrCodeMissingField, "role is required"))
		return
	}

	role, ok := workflow.ParseRole(body.Role)
	if !ok {
		apperrors.Respond(c, apperrors.NewValidation(apperrors.ErrCodeInvalidInput, "Unknown role").WithDetail(body.Role))
		return
	}

	if userID == currentUser.User_Profile_ID && role != workflow.RoleSuperAdmin {
		apperrors.Respond(c, apperrors.NewForbidden(apperrors.ErrCodeForbidden, "You cannot change your own role"))
		return
	}

	var updated models.UserProfile
	found, err := initializers.DB.Update("user_profile").
		Set(goqu.Record{
			"role":            role,
			"updated_by":      currentUser.User_Profile_ID,
			"datetime_update": goqu.L("NOW()"),
		}).
		Where(
			goqu.C("user_profile_id").Eq(userID),
			goqu.C("deleted").IsFalse(),
		).
		Returning(goqu.Star()).
		Executor().
		ScanStructContext(c.Request.Context(), &updated)
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to update role", err))
		return
	}
	if !found {
		apperrors.Respond(c, apperrors.NewNotFound(apperrors.ErrCodeUserNotFound, "User not found"))
		return
	}

	log.Info().
		Int("user_profile_id", updated.User_Profile_ID).
		Str("role", string(updated.Role)).
		Int("granted_by", currentUser.User_Profile_ID).
		Msg("user role changed")

	c.JSON(http.StatusOK, gin.H{"data": updated})
}

// StorePushToken registers a device for push notifications. Re-sending the
// same token moves it to the current user and refreshes its platform.
func StorePushToken(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.UserProfile)

	var body models.PushTokenRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.NewValidation(apperrors.ErrCodeValidationFailed, "Invalid request body").WithDetail(err.Error()))
		return
	}

	token := models.PushToken{
		UserProfileID: currentUser.User_Profile_ID,
		PushToken:     body.PushToken,
		Platform:      body.Platform,
	}

	_, err := initializers.DB.Insert("user_push_tokens").
		Rows(token).
		OnConflict(goqu.DoUpdate("push_token", goqu.Record{
			"user_profile_id": currentUser.User_Profile_ID,
			"platform":        body.Platform,
			"updated_at":      goqu.L("NOW()"),
		})).
		Executor().
		ExecContext(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to store push token", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
