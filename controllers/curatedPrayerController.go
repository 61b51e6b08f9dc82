package controllers

import (
	"net/http"
	"strconv"

	"github.com/PrayInVerses/apperrors"
	"github.com/PrayInVerses/initializers"
	"github.com/PrayInVerses/models"
	"github.com/PrayInVerses/services"
	"github.com/PrayInVerses/workflow"
	"github.com/gin-gonic/gin"
)

func curatedPrayerService() *services.CuratedPrayerService {
	return services.NewCuratedPrayerService(initializers.DB, services.GetCurationNotifier())
}

func currentActor(c *gin.Context) workflow.Actor {
	return c.MustGet("currentUser").(models.UserProfile).Actor()
}

// parseCuratedPrayerFilter reads q, book, limit and cursor from the query
// string, and state when withState is set.
func parseCuratedPrayerFilter(c *gin.Context, withState bool) (models.CuratedPrayerFilter, error) {
	filter := models.CuratedPrayerFilter{
		Query:  c.Query("q"),
		Book:   c.Query("book"),
		Cursor: c.Query("cursor"),
	}

	if raw := c.Query("state"); withState && raw != "" {
		state, ok := workflow.ParseState(raw)
		if !ok {
			return filter, apperrors.NewValidation(apperrors.ErrCodeInvalidInput, "Unknown state filter").WithDetail(raw)
		}
		filter.State = &state
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return filter, apperrors.NewValidation(apperrors.ErrCodeInvalidInput, "limit must be an integer")
		}
		// an explicit limit below 1 clamps to 1; only an absent limit gets the default
		filter.Limit = max(limit, 1)
	}

	return filter, nil
}

func CreateCuratedPrayer(c *gin.Context) {
	var body models.CuratedPrayerCreate
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.NewValidation(apperrors.ErrCodeValidationFailed, "Invalid request body").WithDetail(err.Error()))
		return
	}

	prayer, err := curatedPrayerService().Create(c.Request.Context(), currentActor(c), body)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": prayer})
}

func ListCuratedPrayers(c *gin.Context) {
	filter, err := parseCuratedPrayerFilter(c, true)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	page, err := curatedPrayerService().List(c.Request.Context(), currentActor(c), filter)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func GetCuratedPrayer(c *gin.Context) {
	prayer, err := curatedPrayerService().Get(c.Request.Context(), c.Param("curated_prayer_id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": prayer})
}

func UpdateCuratedPrayer(c *gin.Context) {
	var patch models.CuratedPrayerUpdate
	if err := c.ShouldBindJSON(&patch); err != nil {
		apperrors.Respond(c, apperrors.NewValidation(apperrors.ErrCodeValidationFailed, "Invalid request body").WithDetail(err.Error()))
		return
	}

	prayer, err := curatedPrayerService().Update(c.Request.Context(), currentActor(c), c.Param("curated_prayer_id"), patch)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": prayer})
}

func TransitionCuratedPrayer(c *gin.Context) {
	var body models.CuratedPrayerTransition
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.NewValidation(apperrors.ErrCodeMissingField, "target is required"))
		return
	}

	prayer, err := curatedPrayerService().Transition(c.Request.Context(), currentActor(c), c.Param("curated_prayer_id"), body.Target)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": prayer})
}

func DeleteCuratedPrayer(c *gin.Context) {
	if err := curatedPrayerService().Remove(c.Request.Context(), currentActor(c), c.Param("curated_prayer_id")); err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func GetCuratedPrayerHistory(c *gin.Context) {
	history, err := curatedPrayerService().History(c.Request.Context(), currentActor(c), c.Param("curated_prayer_id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": history})
}
