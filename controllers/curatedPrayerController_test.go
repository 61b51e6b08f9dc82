package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/PrayInVerses/apperrors"
	"github.com/PrayInVerses/models"
	"github.com/PrayInVerses/workflow"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func curatedPrayerParams(id string) gin.Params {
	return gin.Params{{Key: "curated_prayer_id", Value: id}}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var response apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestCreateCuratedPrayer(t *testing.T) {
	validBody := map[string]interface{}{
		"book":          "Psalms",
		"chapter":       23,
		"verse":         1,
		"theme":         "Provision",
		"scriptureText": "The Lord is my shepherd; I shall not want.",
		"insight":       "He leads and He provides.",
		"prayerPoints":  []string{"Trust His leading", "Rest in His care"},
		"closing":       "Amen.",
	}

	tests := []struct {
		name           string
		currentUser    models.UserProfile
		body           map[string]interface{}
		setupMock      func(mock sqlmock.Sqlmock)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:        "editor creates draft",
			currentUser: MockEditor(),
			body:        validBody,
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO "curated_prayer"`).
					WillReturnRows(sqlmock.NewRows(curatedPrayerColumns).AddRow(curatedPrayerRow(MockCuratedPrayer(workflow.StateDraft, 1))...))
				mock.ExpectExec(`INSERT INTO "curated_prayer_history"`).WillReturnResult(sqlmock.NewResult(1, 1))
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "reader cannot create",
			currentUser:    MockUser(),
			body:           validBody,
			expectedStatus: http.StatusForbidden,
			expectedCode:   apperrors.ErrCodeInsufficientPermission,
		},
		{
			name:           "missing fields",
			currentUser:    MockEditor(),
			body:           map[string]interface{}{"book": "Psalms"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apperrors.ErrCodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			if tt.setupMock != nil {
				tt.setupMock(mock)
			}

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, tt.currentUser)
			SetJSONRequest(c, "POST", "/admin/curated", tt.body)

			CreateCuratedPrayer(c)

			if w.Code != tt.expectedStatus {
				t.Logf("Response body: %s", w.Body.String())
			}
			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Error)
			} else {
				var response struct {
					Data models.CuratedPrayer `json:"data"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, workflow.StateDraft, response.Data.State)
				assert.Equal(t, 1, response.Data.Version)
				assert.Nil(t, response.Data.Published_At)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestListCuratedPrayers(t *testing.T) {
	t.Run("returns page with next cursor", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		first := MockCuratedPrayer(workflow.StateDraft, 1)
		second := MockCuratedPrayer(workflow.StateReview, 2)
		second.Curated_Prayer_ID = "8c1e9d2f-4a66-4b6f-8b68-1a7a6c4d3e22"

		mock.ExpectQuery(`SELECT .* FROM "curated_prayer" .*LIMIT 2`).
			WillReturnRows(sqlmock.NewRows(curatedPrayerColumns).
				AddRow(curatedPrayerRow(first)...).
				AddRow(curatedPrayerRow(second)...))

		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockModerator())
		c.Request = httptest.NewRequest("GET", "/admin/curated?limit=1", nil)

		ListCuratedPrayers(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response["data"], 1)
		assert.Equal(t, first.Curated_Prayer_ID, response["nextCursor"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("limit below one is clamped to one", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT .* FROM "curated_prayer" .*LIMIT 2`).
			WillReturnRows(sqlmock.NewRows(curatedPrayerColumns))

		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockModerator())
		c.Request = httptest.NewRequest("GET", "/admin/curated?limit=-5", nil)

		ListCuratedPrayers(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	badQueries := []struct {
		name  string
		query string
	}{
		{"unknown state", "?state=PENDING"},
		{"non numeric limit", "?limit=ten"},
	}

	for _, tt := range badQueries {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, MockModerator())
			c.Request = httptest.NewRequest("GET", "/admin/curated"+tt.query, nil)

			ListCuratedPrayers(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, apperrors.ErrCodeInvalidInput, decodeError(t, w).Error)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetCuratedPrayer(t *testing.T) {
	t.Run("editor sees a draft", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT .* FROM "curated_prayer"`).
			WillReturnRows(sqlmock.NewRows(curatedPrayerColumns).AddRow(curatedPrayerRow(MockCuratedPrayer(workflow.StateDraft, 1))...))

		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockEditor())
		c.Params = curatedPrayerParams(mockCuratedPrayerID)
		c.Request = httptest.NewRequest("GET", "/admin/curated/"+mockCuratedPrayerID, nil)

		GetCuratedPrayer(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"state":"DRAFT"`)
	})

	t.Run("malformed id is not found", func(t *testing.T) {
		_, _, cleanup := SetupTestDB(t)
		defer cleanup()

		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockEditor())
		c.Params = curatedPrayerParams("42")
		c.Request = httptest.NewRequest("GET", "/admin/curated/42", nil)

		GetCuratedPrayer(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperrors.ErrCodeCuratedPrayerNotFound, decodeError(t, w).Error)
	})
}

func TestUpdateCuratedPrayer(t *testing.T) {
	t.Run("stale version is a conflict", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT .* FROM "curated_prayer"`).
			WillReturnRows(sqlmock.NewRows(curatedPrayerColumns).AddRow(curatedPrayerRow(MockCuratedPrayer(workflow.StateDraft, 4))...))
		mock.ExpectQuery(`UPDATE "curated_prayer"`).WillReturnRows(sqlmock.NewRows(curatedPrayerColumns))

		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockEditor())
		c.Params = curatedPrayerParams(mockCuratedPrayerID)
		SetJSONRequest(c, "PATCH", "/admin/curated/"+mockCuratedPrayerID, map[string]string{"theme": "Shepherd"})

		UpdateCuratedPrayer(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, apperrors.ErrCodeStaleWrite, decodeError(t, w).Error)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("editor cannot touch published entry", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT .* FROM "curated_prayer"`).
			WillReturnRows(sqlmock.NewRows(curatedPrayerColumns).AddRow(curatedPrayerRow(MockCuratedPrayer(workflow.StatePublished, 3))...))

		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockEditor())
		c.Params = curatedPrayerParams(mockCuratedPrayerID)
		SetJSONRequest(c, "PATCH", "/admin/curated/"+mockCuratedPrayerID, map[string]string{"theme": "Shepherd"})

		UpdateCuratedPrayer(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransitionCuratedPrayer(t *testing.T) {
	tests := []struct {
		name           string
		currentUser    models.UserProfile
		state          workflow.State
		body           map[string]string
		expectUpdate   bool
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "owner submits for review",
			currentUser:    MockEditor(),
			state:          workflow.StateDraft,
			body:           map[string]string{"target": "REVIEW"},
			expectUpdate:   true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "moderator publishes",
			currentUser:    MockModerator(),
			state:          workflow.StateReview,
			body:           map[string]string{"target": "published"},
			expectUpdate:   true,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "editor cannot publish",
			currentUser:    MockEditor(),
			state:          workflow.StateReview,
			body:           map[string]string{"target": "PUBLISHED"},
			expectedStatus: http.StatusForbidden,
			expectedCode:   apperrors.ErrCodeForbidden,
		},
		{
			name:           "archived cannot be republished",
			currentUser:    MockModerator(),
			state:          workflow.StateArchived,
			body:           map[string]string{"target": "PUBLISHED"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apperrors.ErrCodeInvalidTransition,
		},
		{
			name:           "missing target",
			currentUser:    MockModerator(),
			body:           map[string]string{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apperrors.ErrCodeMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mock, cleanup := SetupTestDB(t)
			defer cleanup()

			if tt.state != "" {
				current := MockCuratedPrayer(tt.state, 2)
				mock.ExpectQuery(`SELECT .* FROM "curated_prayer"`).
					WillReturnRows(sqlmock.NewRows(curatedPrayerColumns).AddRow(curatedPrayerRow(current)...))

				if tt.expectUpdate {
					target, _ := workflow.ParseState(tt.body["target"])
					next := MockCuratedPrayer(target, 3)
					mock.ExpectQuery(`UPDATE "curated_prayer"`).
						WillReturnRows(sqlmock.NewRows(curatedPrayerColumns).AddRow(curatedPrayerRow(next)...))
					mock.ExpectExec(`INSERT INTO "curated_prayer_history"`).WillReturnResult(sqlmock.NewResult(1, 1))
				}
			}

			c, w := SetupTestContext()
			SetAuthenticatedUser(c, tt.currentUser)
			c.Params = curatedPrayerParams(mockCuratedPrayerID)
			SetJSONRequest(c, "POST", "/admin/curated/"+mockCuratedPrayerID+"/transition", tt.body)

			TransitionCuratedPrayer(c)

			if w.Code != tt.expectedStatus {
				t.Logf("Response body: %s", w.Body.String())
			}
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Error)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDeleteCuratedPrayer(t *testing.T) {
	_, mock, cleanup := SetupTestDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT .* FROM "curated_prayer"`).
		WillReturnRows(sqlmock.NewRows(curatedPrayerColumns).AddRow(curatedPrayerRow(MockCuratedPrayer(workflow.StateDraft, 1))...))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "saved_prayer"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "curated_prayer"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectExec(`INSERT INTO "curated_prayer_history"`).WillReturnResult(sqlmock.NewResult(1, 1))

	c, w := SetupTestContext()
	SetAuthenticatedUser(c, MockEditor())
	c.Params = curatedPrayerParams(mockCuratedPrayerID)
	c.Request = httptest.NewRequest("DELETE", "/admin/curated/"+mockCuratedPrayerID, nil)

	DeleteCuratedPrayer(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCuratedPrayerHistory(t *testing.T) {
	t.Run("returns trail oldest first", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT .* FROM "curated_prayer_history" .*ORDER BY "datetime_create" ASC`).
			WillReturnRows(sqlmock.NewRows([]string{"curated_prayer_history_id", "curated_prayer_id", "user_profile_id", "action_type", "from_state", "to_state"}).
				AddRow(1, mockCuratedPrayerID, 1, models.HistoryActionCreated, nil, "DRAFT").
				AddRow(2, mockCuratedPrayerID, 1, models.HistoryActionTransitioned, "DRAFT", "REVIEW"))

		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockModerator())
		c.Params = curatedPrayerParams(mockCuratedPrayerID)
		c.Request = httptest.NewRequest("GET", "/admin/curated/"+mockCuratedPrayerID+"/history", nil)

		GetCuratedPrayerHistory(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Data []models.CuratedPrayerHistory `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 2)
		assert.Nil(t, response.Data[0].From_State)
		require.NotNil(t, response.Data[1].To_State)
		assert.Equal(t, workflow.StateReview, *response.Data[1].To_State)
	})

	t.Run("no trail is not found", func(t *testing.T) {
		_, mock, cleanup := SetupTestDB(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT .* FROM "curated_prayer_history"`).
			WillReturnRows(sqlmock.NewRows([]string{"curated_prayer_history_id"}))

		c, w := SetupTestContext()
		SetAuthenticatedUser(c, MockModerator())
		c.Params = curatedPrayerParams(mockCuratedPrayerID)
		c.Request = httptest.NewRequest("GET", "/admin/curated/"+mockCuratedPrayerID+"/history", nil)

		GetCuratedPrayerHistory(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
