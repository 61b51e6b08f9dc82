package models

import (
	"time"

	"github.com/PrayInVerses/workflow"
)

// History action type constants
const (
	// HistoryActionCreated records when an entry is first drafted.
	HistoryActionCreated = "created"

	// HistoryActionEdited records a content change.
	HistoryActionEdited = "edited"

	// HistoryActionTransitioned records a workflow state change.
	HistoryActionTransitioned = "transitioned"

	// HistoryActionDeleted records removal of the entry. The history rows
	// outlive the entry itself.
	HistoryActionDeleted = "deleted"
)

// CuratedPrayerHistory represents an entry in the curated_prayer_history table.
type CuratedPrayerHistory struct {
	Curated_Prayer_History_ID int             `json:"historyId" goqu:"skipinsert"`
	Curated_Prayer_ID         string          `json:"curatedPrayerId"`
	User_Profile_ID           int             `json:"actorId"`
	Action_Type               string          `json:"actionType"`
	From_State                *workflow.State `json:"fromState"`
	To_State                  *workflow.State `json:"toState"`
	Datetime_Create           time.Time       `json:"datetimeCreate" goqu:"skipinsert"`
}
