package models

import (
	"time"

	"github.com/PrayInVerses/workflow"
)

type UserProfile struct {
	User_Profile_ID int           `json:"userProfileId" goqu:"skipinsert"`
	Username        string        `json:"username"`
	Password        string        `json:"-"`
	Email           string        `json:"email"`
	First_Name      string        `json:"firstName"`
	Last_Name       string        `json:"lastName"`
	Role            workflow.Role `json:"role"`
	Created_By      int           `json:"createdBy"`
	Datetime_Create time.Time     `json:"datetimeCreate" goqu:"skipinsert"`
	Updated_By      int           `json:"updatedBy"`
	Datetime_Update time.Time     `json:"datetimeUpdate" goqu:"skipinsert"`
	Deleted         bool          `json:"deleted" goqu:"skipinsert"`
}

// Actor returns the workflow identity of the user.
func (u UserProfile) Actor() workflow.Actor {
	return workflow.Actor{ID: u.User_Profile_ID, Role: u.Role}
}

type UserProfileSignup struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required,min=8"`
	Email      string `json:"email" binding:"required,email"`
	First_Name string `json:"firstName"`
	Last_Name  string `json:"lastName"`
}

type UserRoleUpdate struct {
	Role string `json:"role" binding:"required"`
}

type Login struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
