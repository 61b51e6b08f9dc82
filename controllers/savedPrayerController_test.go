package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/PrayInVerses/models"
	"github.com/PrayInVerses/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveCuratedPrayer(t *testing.T) {
	tests := []struct {
		name           string
		state          workflow.State
		insertErr      error
		expectedStatus int
	}{
		{name: "saves published prayer", state: workflow.StatePublished, expectedStatus: http.StatusOK},
		{name: "cannot save a draft", state: workflow.StateDraft, expectedStatus: http.StatusNotFound},
		{name: "database failure", state: workflow.StatePublished, insertErr: errors.New("connection reset"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			mock.ExpectQuery(`SELECT .* FROM "curated_prayer"`).
				WillReturnRows(sqlmock.NewRows(curatedPrayerColumns).AddRow(curatedPrayerRow(MockCuratedPrayer(tt.state, 3))...))

			if tt.state == workflow.StatePublished {
				expect := mock.ExpectExec(`INSERT INTO "saved_prayer" .* ON CONFLICT DO NOTHING`)
				if tt.insertErr != nil {
					expect.WillReturnError(tt.insertErr)
				} else {
					expect.WillReturnResult(sqlmock.NewResult(1, 1))
				}
			}

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, MockUser())
			c.Params = curatedPrayerParams(mockCuratedPrayerID)
			c.Request = httptest.NewRequest("POST", "/library/"+mockCuratedPrayerID+"/save", nil)

			SaveCuratedPrayer(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.JSONEq(t, `{"ok":true}`, w.Body.String())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUnsaveCuratedPrayer(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	mock.ExpectExec(`DELETE FROM "saved_prayer" WHERE .*"user_profile_id" = 5`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockUser())
	c.Params = curatedPrayerParams(mockCuratedPrayerID)
	c.Request = httptest.NewRequest("DELETE", "/library/"+mockCuratedPrayerID+"/save", nil)

	UnsaveCuratedPrayer(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSavedPrayers(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	savedAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .* FROM "saved_prayer" INNER JOIN "curated_prayer"`).
		WillReturnRows(sqlmock.NewRows([]string{"saved_prayer_id", "saved_at", "curated_prayer_id", "book", "chapter", "verse", "theme"}).
			AddRow(7, savedAt, mockCuratedPrayerID, "Psalms", 23, 1, "Provision"))

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockUser())
	c.Request = httptest.NewRequest("GET", "/users/me/saved", nil)

	GetSavedPrayers(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Data []models.SavedCuratedPrayer `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Data, 1)
	assert.Equal(t, 7, response.Data[0].Saved_Prayer_ID)
	assert.Equal(t, "Psalms", response.Data[0].Book)
	assert.NoError(t, mock.ExpectationsWereMet())
}
