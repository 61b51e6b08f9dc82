package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/PrayInVerses/apperrors"
	"github.com/PrayInVerses/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLibrary(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT .* FROM "curated_prayer" WHERE .*"state" = 'PUBLISHED'`).
		WillReturnRows(sqlmock.NewRows(curatedPrayerColumns).AddRow(curatedPrayerRow(MockCuratedPrayer(workflow.StatePublished, 3))...))

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockUser())
	// state is ignored for readers
	c.Request = httptest.NewRequest("GET", "/library?state=DRAFT&q=shepherd", nil)

	GetLibrary(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response["data"], 1)
	assert.Nil(t, response["nextCursor"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLibraryPrayer(t *testing.T) {
	tests := []struct {
		name           string
		state          workflow.State
		expectedStatus int
	}{
		{"published entry is visible", workflow.StatePublished, http.StatusOK},
		{"draft is hidden", workflow.StateDraft, http.StatusNotFound},
		{"entry under review is hidden", workflow.StateReview, http.StatusNotFound},
		{"archived entry is hidden", workflow.StateArchived, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			mock.ExpectQuery(`SELECT .* FROM "curated_prayer"`).
				WillReturnRows(sqlmock.NewRows(curatedPrayerColumns).AddRow(curatedPrayerRow(MockCuratedPrayer(tt.state, 3))...))

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, MockUser())
			c.Params = curatedPrayerParams(mockCuratedPrayerID)
			c.Request = httptest.NewRequest("GET", "/library/"+mockCuratedPrayerID, nil)

			GetLibraryPrayer(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusNotFound {
				assert.Equal(t, apperrors.ErrCodeCuratedPrayerNotFound, decodeError(t, w).Error)
			}
		})
	}
}
