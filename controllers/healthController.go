package controllers

import (
	"net/http"

	"github.com/PrayInVerses/initializers"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Ping reports liveness and whether the database answers.
func Ping(c *gin.Context) {
	database := "ok"

	var one int
	if _, err := initializers.DB.ScanValContext(c.Request.Context(), &one, "SELECT 1"); err != nil {
		log.Warn().Err(err).Msg("database ping failed")
		database = "unavailable"
	}

	c.JSON(http.StatusOK, gin.H{"message": "pong", "database": database})
}
