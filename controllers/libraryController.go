package controllers

import (
	"net/http"

	"github.com/PrayInVerses/apperrors"
	"github.com/gin-gonic/gin"
)

// GetLibrary lists published curated prayers. A state query parameter is
// ignored.
func GetLibrary(c *gin.Context) {
	filter, err := parseCuratedPrayerFilter(c, false)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	page, err := curatedPrayerService().ListPublished(c.Request.Context(), filter)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func GetLibraryPrayer(c *gin.Context) {
	prayer, err := curatedPrayerService().GetPublished(c.Request.Context(), c.Param("curated_prayer_id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": prayer})
}
