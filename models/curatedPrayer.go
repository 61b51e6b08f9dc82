package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/PrayInVerses/apperrors"
	"github.com/PrayInVerses/workflow"
	"github.com/lib/pq"
)

// CuratedPrayer is one Scripture-anchored devotional entry of the library.
type CuratedPrayer struct {
	Curated_Prayer_ID string         `json:"id"`
	Book              string         `json:"book"`
	Chapter           int            `json:"chapter"`
	Verse             int            `json:"verse"`
	Theme             string         `json:"theme"`
	Scripture_Text    string         `json:"scriptureText"`
	Insight           string         `json:"insight"`
	Prayer_Points     pq.StringArray `json:"prayerPoints"`
	Closing           string         `json:"closing"`
	State             workflow.State `json:"state"`
	Published_At      *time.Time     `json:"publishedAt"`
	Version           int            `json:"version"`
	Created_By        int            `json:"createdById"`
	Updated_By        int            `json:"updatedById"`
	Datetime_Create   time.Time      `json:"createdAt" goqu:"skipinsert,skipupdate"`
	Datetime_Update   time.Time      `json:"updatedAt" goqu:"skipinsert,skipupdate"`
}

// Reference formats the scripture reference, e.g. "Genesis 1:1".
func (p CuratedPrayer) Reference() string {
	return fmt.Sprintf("%s %d:%d", p.Book, p.Chapter, p.Verse)
}

// WorkflowEntry returns the fields the publication workflow decides on.
func (p CuratedPrayer) WorkflowEntry() workflow.Entry {
	return workflow.Entry{CreatedBy: p.Created_By, State: p.State}
}

type CuratedPrayerCreate struct {
	Book           string   `json:"book" binding:"required"`
	Chapter        int      `json:"chapter" binding:"required"`
	Verse          int      `json:"verse" binding:"required"`
	Theme          string   `json:"theme" binding:"required"`
	Scripture_Text string   `json:"scriptureText" binding:"required"`
	Insight        string   `json:"insight" binding:"required"`
	Prayer_Points  []string `json:"prayerPoints" binding:"required"`
	Closing        string   `json:"closing" binding:"required"`
}

// Validate trims the text fields in place and checks every field is present.
func (b *CuratedPrayerCreate) Validate() error {
	b.Book = strings.TrimSpace(b.Book)
	b.Theme = strings.TrimSpace(b.Theme)
	b.Scripture_Text = strings.TrimSpace(b.Scripture_Text)
	b.Insight = strings.TrimSpace(b.Insight)
	b.Closing = strings.TrimSpace(b.Closing)

	required := []struct {
		name  string
		value string
	}{
		{"book", b.Book},
		{"theme", b.Theme},
		{"scriptureText", b.Scripture_Text},
		{"insight", b.Insight},
		{"closing", b.Closing},
	}
	for _, f := range required {
		if f.value == "" {
			return apperrors.NewValidation(apperrors.ErrCodeMissingField, f.name+" is required")
		}
	}

	if err := validateReference(b.Chapter, b.Verse); err != nil {
		return err
	}

	points, err := cleanPrayerPoints(b.Prayer_Points)
	if err != nil {
		return err
	}
	b.Prayer_Points = points
	return nil
}

// CuratedPrayerUpdate is a partial patch; nil fields are left unchanged.
type CuratedPrayerUpdate struct {
	Book           *string   `json:"book"`
	Chapter        *int      `json:"chapter"`
	Verse          *int      `json:"verse"`
	Theme          *string   `json:"theme"`
	Scripture_Text *string   `json:"scriptureText"`
	Insight        *string   `json:"insight"`
	Prayer_Points  *[]string `json:"prayerPoints"`
	Closing        *string   `json:"closing"`
}

func (b *CuratedPrayerUpdate) Validate() error {
	texts := []struct {
		name  string
		value *string
	}{
		{"book", b.Book},
		{"theme", b.Theme},
		{"scriptureText", b.Scripture_Text},
		{"insight", b.Insight},
		{"closing", b.Closing},
	}
	for _, f := range texts {
		if f.value == nil {
			continue
		}
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			return apperrors.NewValidation(apperrors.ErrCodeMissingField, f.name+" cannot be empty")
		}
	}

	if b.Chapter != nil && *b.Chapter < 1 {
		return apperrors.NewValidation(apperrors.ErrCodeInvalidInput, "chapter must be a positive integer")
	}
	if b.Verse != nil && *b.Verse < 1 {
		return apperrors.NewValidation(apperrors.ErrCodeInvalidInput, "verse must be a positive integer")
	}

	if b.Prayer_Points != nil {
		points, err := cleanPrayerPoints(*b.Prayer_Points)
		if err != nil {
			return err
		}
		b.Prayer_Points = &points
	}
	return nil
}

// Apply returns p with the patch applied and reports whether the scripture
// reference changed.
func (b CuratedPrayerUpdate) Apply(p CuratedPrayer) (CuratedPrayer, bool) {
	referenceChanged := false
	if b.Book != nil && !strings.EqualFold(*b.Book, p.Book) {
		referenceChanged = true
	}
	if b.Chapter != nil && *b.Chapter != p.Chapter {
		referenceChanged = true
	}
	if b.Verse != nil && *b.Verse != p.Verse {
		referenceChanged = true
	}

	if b.Book != nil {
		p.Book = *b.Book
	}
	if b.Chapter != nil {
		p.Chapter = *b.Chapter
	}
	if b.Verse != nil {
		p.Verse = *b.Verse
	}
	if b.Theme != nil {
		p.Theme = *b.Theme
	}
	if b.Scripture_Text != nil {
		p.Scripture_Text = *b.Scripture_Text
	}
	if b.Insight != nil {
		p.Insight = *b.Insight
	}
	if b.Prayer_Points != nil {
		p.Prayer_Points = pq.StringArray(*b.Prayer_Points)
	}
	if b.Closing != nil {
		p.Closing = *b.Closing
	}
	return p, referenceChanged
}

type CuratedPrayerTransition struct {
	Target string `json:"target" binding:"required"`
}

// CuratedPrayerFilter narrows a listing. Cursor is the id of the last entry
// of the previous page.
type CuratedPrayerFilter struct {
	Query  string
	State  *workflow.State
	Book   string
	Limit  int
	Cursor string
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageSize clamps Limit to [1, MaxPageSize], defaulting to DefaultPageSize.
func (f CuratedPrayerFilter) PageSize() int {
	switch {
	case f.Limit <= 0:
		return DefaultPageSize
	case f.Limit > MaxPageSize:
		return MaxPageSize
	default:
		return f.Limit
	}
}

type CuratedPrayerPage struct {
	Data        []CuratedPrayer `json:"data"`
	Next_Cursor *string         `json:"nextCursor"`
}

func validateReference(chapter, verse int) error {
	if chapter < 1 {
		return apperrors.NewValidation(apperrors.ErrCodeInvalidInput, "chapter must be a positive integer")
	}
	if verse < 1 {
		return apperrors.NewValidation(apperrors.ErrCodeInvalidInput, "verse must be a positive integer")
	}
	return nil
}

func cleanPrayerPoints(points []string) ([]string, error) {
	cleaned := make([]string, 0, len(points))
	for _, point := range points {
		point = strings.TrimSpace(point)
		if point == "" {
			return nil, apperrors.NewValidation(apperrors.ErrCodeInvalidInput, "prayer points cannot be blank")
		}
		cleaned = append(cleaned, point)
	}
	if len(cleaned) == 0 {
		return nil, apperrors.NewValidation(apperrors.ErrCodeMissingField, "at least one prayer point is required")
	}
	return cleaned, nil
}
