package controllers

import (
	"database/sql/driver"
	"time"

	"github.com/PrayInVerses/models"
	"github.com/PrayInVerses/workflow"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// Test fixture data for use in tests

const mockCuratedPrayerID = "7b0d8c1e-3f55-4a5e-9a57-0f6f5b3c2d11"

var userProfileColumns = []string{
	"user_profile_id", "username", "password", "email", "first_name", "last_name", "role",
	"created_by", "datetime_create", "updated_by", "datetime_update", "deleted",
}

var curatedPrayerColumns = []string{
	"curated_prayer_id", "book", "chapter", "verse", "theme", "scripture_text", "insight",
	"prayer_points", "closing", "state", "published_at", "version", "created_by", "updated_by",
	"datetime_create", "datetime_update",
}

func mockUserWithRole(id int, username string, role workflow.Role) models.UserProfile {
	return models.UserProfile{
		User_Profile_ID: id,
		Username:        username,
		First_Name:      "Test",
		Last_Name:       "User",
		Email:           username + "@example.com",
		Role:            role,
		Created_By:      1,
		Updated_By:      1,
		Datetime_Create: time.Now(),
		Datetime_Update: time.Now(),
	}
}

// MockUser creates a reader account for testing
func MockUser() models.UserProfile {
	return mockUserWithRole(5, "reader", workflow.RoleUser)
}

// MockEditor creates the editor "alice" who owns the mock curated prayer
func MockEditor() models.UserProfile {
	return mockUserWithRole(1, "alice", workflow.RoleEditor)
}

// MockModerator creates the moderator "bob"
func MockModerator() models.UserProfile {
	return mockUserWithRole(2, "bob", workflow.RoleModerator)
}

// MockSuperAdmin creates a super admin for testing
func MockSuperAdmin() models.UserProfile {
	return mockUserWithRole(9, "root", workflow.RoleSuperAdmin)
}

// MockUserWithPassword creates a reader with a bcrypt hashed password
// Password is "password123" - use this in tests
func MockUserWithPassword() models.UserProfile {
	user := MockUser()
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user.Password = string(hashedPassword)
	return user
}

func userRow(u models.UserProfile) []driver.Value {
	return []driver.Value{
		u.User_Profile_ID, u.Username, u.Password, u.Email, u.First_Name, u.Last_Name, string(u.Role),
		u.Created_By, u.Datetime_Create, u.Updated_By, u.Datetime_Update, u.Deleted,
	}
}

// MockCuratedPrayer creates a curated prayer owned by MockEditor
func MockCuratedPrayer(state workflow.State, version int) models.CuratedPrayer {
	created := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	prayer := models.CuratedPrayer{
		Curated_Prayer_ID: mockCuratedPrayerID,
		Book:              "Psalms",
		Chapter:           23,
		Verse:             1,
		Theme:             "Provision",
		Scripture_Text:    "The Lord is my shepherd; I shall not want.",
		Insight:           "He leads and He provides.",
		Prayer_Points:     pq.StringArray{"Trust His leading", "Rest in His care"},
		Closing:           "Amen.",
		State:             state,
		Version:           version,
		Created_By:        1,
		Updated_By:        1,
		Datetime_Create:   created,
		Datetime_Update:   created,
	}
	if state == workflow.StatePublished || state == workflow.StateArchived {
		publishedAt := created.Add(24 * time.Hour)
		prayer.Published_At = &publishedAt
	}
	return prayer
}

func curatedPrayerRow(p models.CuratedPrayer) []driver.Value {
	points, _ := p.Prayer_Points.Value()
	var publishedAt driver.Value
	if p.Published_At != nil {
		publishedAt = *p.Published_At
	}
	return []driver.Value{
		p.Curated_Prayer_ID, p.Book, p.Chapter, p.Verse, p.Theme, p.Scripture_Text, p.Insight,
		points, p.Closing, string(p.State), publishedAt, p.Version, p.Created_By, p.Updated_By,
		p.Datetime_Create, p.Datetime_Update,
	}
}
