package models

import "time"

// SavedPrayer is a user's bookmark of a published curated prayer.
type SavedPrayer struct {
	Saved_Prayer_ID   int       `json:"savedPrayerId" goqu:"skipinsert"`
	User_Profile_ID   int       `json:"userProfileId"`
	Curated_Prayer_ID string    `json:"curatedPrayerId"`
	Datetime_Create   time.Time `json:"datetimeCreate" goqu:"skipinsert"`
}

// SavedCuratedPrayer is a bookmark joined with the entry it points at.
type SavedCuratedPrayer struct {
	Saved_Prayer_ID   int       `json:"savedPrayerId" db:"saved_prayer_id"`
	Saved_At          time.Time `json:"savedAt" db:"saved_at"`
	Curated_Prayer_ID string    `json:"id" db:"curated_prayer_id"`
	Book              string    `json:"book" db:"book"`
	Chapter           int       `json:"chapter" db:"chapter"`
	Verse             int       `json:"verse" db:"verse"`
	Theme             string    `json:"theme" db:"theme"`
}
