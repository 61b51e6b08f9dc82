package controllers

import (
	"net/http"

	"github.com/PrayInVerses/apperrors"
	"github.com/PrayInVerses/initializers"
	"github.com/PrayInVerses/models"
	"github.com/PrayInVerses/workflow"
	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

// SaveCuratedPrayer bookmarks a published prayer for the current user.
// Saving the same prayer twice is not an error.
func SaveCuratedPrayer(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.UserProfile)
	ctx := c.Request.Context()

	prayer, err := curatedPrayerService().GetPublished(ctx, c.Param("curated_prayer_id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	saved := models.SavedPrayer{
		User_Profile_ID:   currentUser.User_Profile_ID,
		Curated_Prayer_ID: prayer.Curated_Prayer_ID,
	}

	_, err = initializers.DB.Insert("saved_prayer").
		Rows(saved).
		OnConflict(goqu.DoNothing()).
		Executor().
		ExecContext(ctx)
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to save prayer", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func UnsaveCuratedPrayer(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.UserProfile)

	_, err := initializers.DB.Delete("saved_prayer").
		Where(
			goqu.C("user_profile_id").Eq(currentUser.User_Profile_ID),
			goqu.C("curated_prayer_id").Eq(c.Param("curated_prayer_id")),
		).
		Executor().
		ExecContext(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to remove saved prayer", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetSavedPrayers lists the current user's bookmarks that are still
// published, most recently saved first.
func GetSavedPrayers(c *gin.Context) {
	currentUser := c.MustGet("currentUser").(models.UserProfile)

	query := initializers.DB.From("saved_prayer").
		Select(
			goqu.I("saved_prayer.saved_prayer_id"),
			goqu.I("saved_prayer.datetime_create").As("saved_at"),
			goqu.I("curated_prayer.curated_prayer_id"),
			goqu.I("curated_prayer.book"),
			goqu.I("curated_prayer.chapter"),
			goqu.I("curated_prayer.verse"),
			goqu.I("curated_prayer.theme"),
		).
		InnerJoin(
			goqu.T("curated_prayer"),
			goqu.On(goqu.Ex{"saved_prayer.curated_prayer_id": goqu.I("curated_prayer.curated_prayer_id")}),
		).
		Where(
			goqu.C("user_profile_id").Table("saved_prayer").Eq(currentUser.User_Profile_ID),
			goqu.C("state").Table("curated_prayer").Eq(workflow.StatePublished),
		).
		Order(goqu.I("saved_prayer.datetime_create").Desc())

	saved := []models.SavedCuratedPrayer{}
	if err := query.ScanStructsContext(c.Request.Context(), &saved); err != nil {
		apperrors.Respond(c, apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Failed to fetch saved prayers", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": saved})
}
