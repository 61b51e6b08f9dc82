package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PrayInVerses/apperrors"
	"github.com/PrayInVerses/metrics"
	"github.com/PrayInVerses/models"
	"github.com/PrayInVerses/workflow"
	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	curatedPrayerTable        = "curated_prayer"
	savedPrayerTable          = "saved_prayer"
	curatedPrayerHistoryTable = "curated_prayer_history"

	uniqueViolation = "23505"
)

// CurationNotifier is told about workflow events people should hear about.
// Implementations must not block the caller.
type CurationNotifier interface {
	SubmittedForReview(prayer models.CuratedPrayer)
	Published(prayer models.CuratedPrayer)
}

// CuratedPrayerService runs the publication workflow for curated prayers.
// Writes are conditional on the version that was read, so two callers racing
// on the same entry cannot both succeed.
type CuratedPrayerService struct {
	db       *goqu.Database
	notifier CurationNotifier
	now      func() time.Time
}

func NewCuratedPrayerService(db *goqu.Database, notifier CurationNotifier) *CuratedPrayerService {
	if notifier == nil {
		notifier = noopCurationNotifier{}
	}
	return &CuratedPrayerService{db: db, notifier: notifier, now: time.Now}
}

// Create drafts a new entry owned by actor.
func (s *CuratedPrayerService) Create(ctx context.Context, actor workflow.Actor, body models.CuratedPrayerCreate) (*models.CuratedPrayer, error) {
	if !actor.Role.AtLeast(workflow.RoleEditor) {
		return nil, s.fail("create", apperrors.NewForbidden(apperrors.ErrCodeInsufficientPermission, "Only editors can create curated prayers"))
	}
	if err := body.Validate(); err != nil {
		return nil, s.fail("create", err)
	}

	prayer := models.CuratedPrayer{
		Curated_Prayer_ID: uuid.NewString(),
		Book:              body.Book,
		Chapter:           body.Chapter,
		Verse:             body.Verse,
		Theme:             body.Theme,
		Scripture_Text:    body.Scripture_Text,
		Insight:           body.Insight,
		Prayer_Points:     pq.StringArray(body.Prayer_Points),
		Closing:           body.Closing,
		State:             workflow.StateDraft,
		Version:           1,
		Created_By:        actor.ID,
		Updated_By:        actor.ID,
	}

	var created models.CuratedPrayer
	_, err := s.db.Insert(curatedPrayerTable).
		Rows(prayer).
		Returning(goqu.Star()).
		Executor().
		ScanStructContext(ctx, &created)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, s.fail("create", duplicateReference(prayer))
		}
		return nil, s.fail("create", databaseError("create curated prayer", err))
	}

	s.recordHistory(ctx, created.Curated_Prayer_ID, actor.ID, models.HistoryActionCreated, nil, &created.State)
	metrics.RecordOperation("create", "ok")
	return &created, nil
}

// Get loads an entry in any state.
func (s *CuratedPrayerService) Get(ctx context.Context, id string) (*models.CuratedPrayer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, curatedPrayerNotFound(id)
	}

	var prayer models.CuratedPrayer
	found, err := s.db.From(curatedPrayerTable).
		Where(goqu.C("curated_prayer_id").Eq(id)).
		ScanStructContext(ctx, &prayer)
	if err != nil {
		return nil, databaseError("load curated prayer", err)
	}
	if !found {
		return nil, curatedPrayerNotFound(id)
	}

	return &prayer, nil
}

// GetPublished loads an entry only if it is currently published.
func (s *CuratedPrayerService) GetPublished(ctx context.Context, id string) (*models.CuratedPrayer, error) {
	prayer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if prayer.State != workflow.StatePublished {
		return nil, curatedPrayerNotFound(id)
	}
	return prayer, nil
}

// Update applies a content patch. The workflow state is never touched here.
func (s *CuratedPrayerService) Update(ctx context.Context, actor workflow.Actor, id string, patch models.CuratedPrayerUpdate) (*models.CuratedPrayer, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, s.fail("update", err)
	}

	if err := workflow.AuthorizeEdit(actor, current.WorkflowEntry()); err != nil {
		return nil, s.fail("update", workflowError(err))
	}

	if err := patch.Validate(); err != nil {
		return nil, s.fail("update", err)
	}

	next, referenceChanged := patch.Apply(*current)
	if referenceChanged {
		if err := s.ensureReferenceAvailable(ctx, next); err != nil {
			return nil, s.fail("update", err)
		}
	}

	updated, err := s.writeVersioned(ctx, *current, goqu.Record{
		"book":           next.Book,
		"chapter":        next.Chapter,
		"verse":          next.Verse,
		"theme":          next.Theme,
		"scripture_text": next.Scripture_Text,
		"insight":        next.Insight,
		"prayer_points":  next.Prayer_Points,
		"closing":        next.Closing,
		"updated_by":     actor.ID,
	})
	if err != nil {
		return nil, s.fail("update", err)
	}

	s.recordHistory(ctx, updated.Curated_Prayer_ID, actor.ID, models.HistoryActionEdited, &current.State, &updated.State)
	metrics.RecordOperation("update", "ok")
	return updated, nil
}

// Transition moves an entry to target. publishedAt is stamped on the first
// publication only and is never cleared afterwards.
func (s *CuratedPrayerService) Transition(ctx context.Context, actor workflow.Actor, id string, target string) (*models.CuratedPrayer, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, s.fail("transition", err)
	}

	state, ok := workflow.ParseState(target)
	if !ok {
		state = workflow.State(target)
	}

	if err := workflow.Authorize(actor, current.WorkflowEntry(), state); err != nil {
		return nil, s.fail("transition", workflowError(err))
	}

	record := goqu.Record{
		"state":      state,
		"updated_by": actor.ID,
	}

	firstPublication := state == workflow.StatePublished && current.Published_At == nil
	if firstPublication {
		record["published_at"] = s.now().UTC()
	}

	updated, err := s.writeVersioned(ctx, *current, record)
	if err != nil {
		return nil, s.fail("transition", err)
	}

	s.recordHistory(ctx, updated.Curated_Prayer_ID, actor.ID, models.HistoryActionTransitioned, &current.State, &updated.State)
	metrics.RecordTransition(current.State.String(), updated.State.String())
	metrics.RecordOperation("transition", "ok")

	switch {
	case state == workflow.StateReview:
		s.notifier.SubmittedForReview(*updated)
	case firstPublication:
		s.notifier.Published(*updated)
	}

	return updated, nil
}

// Remove deletes an entry together with every bookmark pointing at it.
func (s *CuratedPrayerService) Remove(ctx context.Context, actor workflow.Actor, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return s.fail("remove", err)
	}

	if err := workflow.AuthorizeDelete(actor, current.WorkflowEntry()); err != nil {
		return s.fail("remove", workflowError(err))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.fail("remove", databaseError("begin transaction", err))
	}

	err = tx.Wrap(func() error {
		if _, err := tx.Delete(savedPrayerTable).
			Where(goqu.C("curated_prayer_id").Eq(id)).
			Executor().
			ExecContext(ctx); err != nil {
			return fmt.Errorf("remove bookmarks: %w", err)
		}

		result, err := tx.Delete(curatedPrayerTable).
			Where(goqu.C("curated_prayer_id").Eq(id), goqu.C("version").Eq(current.Version)).
			Executor().
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("remove curated prayer: %w", err)
		}

		if rows, _ := result.RowsAffected(); rows == 0 {
			return staleWrite()
		}
		return nil
	})
	if err != nil {
		if _, ok := apperrors.AsAppError(err); ok {
			return s.fail("remove", err)
		}
		return s.fail("remove", databaseError("remove curated prayer", err))
	}

	s.recordHistory(ctx, id, actor.ID, models.HistoryActionDeleted, &current.State, nil)
	metrics.RecordOperation("remove", "ok")
	return nil
}

// List returns one page of entries in any state for content staff.
func (s *CuratedPrayerService) List(ctx context.Context, actor workflow.Actor, filter models.CuratedPrayerFilter) (*models.CuratedPrayerPage, error) {
	if !actor.Role.AtLeast(workflow.RoleEditor) {
		return nil, apperrors.NewForbidden(apperrors.ErrCodeInsufficientPermission, "Only content staff can list curated prayers")
	}
	return s.list(ctx, filter)
}

// ListPublished returns one page of the public library.
func (s *CuratedPrayerService) ListPublished(ctx context.Context, filter models.CuratedPrayerFilter) (*models.CuratedPrayerPage, error) {
	published := workflow.StatePublished
	filter.State = &published
	return s.list(ctx, filter)
}

// list orders by state, then most recently updated, then id, so drafts are
// grouped together and the cursor position is unambiguous.
func (s *CuratedPrayerService) list(ctx context.Context, filter models.CuratedPrayerFilter) (*models.CuratedPrayerPage, error) {
	limit := filter.PageSize()
	ds := s.db.From(curatedPrayerTable)

	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		ds = ds.Where(goqu.Or(
			goqu.C("theme").ILike(pattern),
			goqu.C("scripture_text").ILike(pattern),
			goqu.C("insight").ILike(pattern),
		))
	}

	if filter.State != nil {
		ds = ds.Where(goqu.C("state").Eq(*filter.State))
	}

	if book := strings.TrimSpace(filter.Book); book != "" {
		ds = ds.Where(goqu.C("book").ILike(escapeLike(book)))
	}

	if filter.Cursor != "" {
		cursor, err := s.Get(ctx, filter.Cursor)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.NewValidation(apperrors.ErrCodeInvalidCursor, "Unknown cursor")
			}
			return nil, err
		}

		ds = ds.Where(goqu.Or(
			goqu.C("state").Gt(cursor.State),
			goqu.And(
				goqu.C("state").Eq(cursor.State),
				goqu.C("datetime_update").Lt(cursor.Datetime_Update),
			),
			goqu.And(
				goqu.C("state").Eq(cursor.State),
				goqu.C("datetime_update").Eq(cursor.Datetime_Update),
				goqu.C("curated_prayer_id").Gt(cursor.Curated_Prayer_ID),
			),
		))
	}

	var prayers []models.CuratedPrayer
	err := ds.Order(
		goqu.C("state").Asc(),
		goqu.C("datetime_update").Desc(),
		goqu.C("curated_prayer_id").Asc(),
	).
		Limit(uint(limit + 1)).
		ScanStructsContext(ctx, &prayers)
	if err != nil {
		return nil, databaseError("list curated prayers", err)
	}

	page := &models.CuratedPrayerPage{Data: prayers}
	if len(prayers) > limit {
		page.Data = prayers[:limit]
		next := page.Data[limit-1].Curated_Prayer_ID
		page.Next_Cursor = &next
	}
	if page.Data == nil {
		page.Data = []models.CuratedPrayer{}
	}

	return page, nil
}

// History returns the audit trail of an entry, oldest first. The trail is
// kept after the entry itself is removed.
func (s *CuratedPrayerService) History(ctx context.Context, actor workflow.Actor, id string) ([]models.CuratedPrayerHistory, error) {
	if !actor.Role.AtLeast(workflow.RoleEditor) {
		return nil, apperrors.NewForbidden(apperrors.ErrCodeInsufficientPermission, "Only content staff can view history")
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, curatedPrayerNotFound(id)
	}

	history := []models.CuratedPrayerHistory{}
	err := s.db.From(curatedPrayerHistoryTable).
		Where(goqu.C("curated_prayer_id").Eq(id)).
		Order(goqu.C("datetime_create").Asc(), goqu.C("curated_prayer_history_id").Asc()).
		ScanStructsContext(ctx, &history)
	if err != nil {
		return nil, databaseError("load curated prayer history", err)
	}
	if len(history) == 0 {
		return nil, curatedPrayerNotFound(id)
	}
	return history, nil
}

func (s *CuratedPrayerService) ensureReferenceAvailable(ctx context.Context, prayer models.CuratedPrayer) error {
	count, err := s.db.From(curatedPrayerTable).
		Where(
			goqu.Func("LOWER", goqu.C("book")).Eq(strings.ToLower(prayer.Book)),
			goqu.C("chapter").Eq(prayer.Chapter),
			goqu.C("verse").Eq(prayer.Verse),
			goqu.C("curated_prayer_id").Neq(prayer.Curated_Prayer_ID),
		).
		CountContext(ctx)
	if err != nil {
		return databaseError("check scripture reference", err)
	}
	if count > 0 {
		return duplicateReference(prayer)
	}
	return nil
}

// writeVersioned updates the row only if its version still matches current
// and bumps the version.
func (s *CuratedPrayerService) writeVersioned(ctx context.Context, current models.CuratedPrayer, record goqu.Record) (*models.CuratedPrayer, error) {
	record["version"] = current.Version + 1
	record["datetime_update"] = goqu.L("NOW()")

	var updated models.CuratedPrayer
	found, err := s.db.Update(curatedPrayerTable).
		Set(record).
		Where(
			goqu.C("curated_prayer_id").Eq(current.Curated_Prayer_ID),
			goqu.C("version").Eq(current.Version),
		).
		Returning(goqu.Star()).
		Executor().
		ScanStructContext(ctx, &updated)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, duplicateReference(current)
		}
		return nil, databaseError("update curated prayer", err)
	}
	if !found {
		return nil, staleWrite()
	}

	return &updated, nil
}

// recordHistory is best effort: a failed audit insert is logged and the
// operation still succeeds.
func (s *CuratedPrayerService) recordHistory(ctx context.Context, prayerID string, actorID int, action string, from, to *workflow.State) {
	entry := models.CuratedPrayerHistory{
		Curated_Prayer_ID: prayerID,
		User_Profile_ID:   actorID,
		Action_Type:       action,
		From_State:        from,
		To_State:          to,
	}

	_, err := s.db.Insert(curatedPrayerHistoryTable).Rows(entry).Executor().ExecContext(ctx)
	if err != nil {
		log.Warn().
			Err(err).
			Str("curated_prayer_id", prayerID).
			Str("action", action).
			Msg("failed to record curated prayer history")
	}
}

func (s *CuratedPrayerService) fail(operation string, err error) error {
	metrics.RecordOperation(operation, string(apperrors.KindOf(err)))
	return err
}

func workflowError(err error) error {
	switch {
	case errors.Is(err, workflow.ErrForbidden):
		return apperrors.NewForbidden(apperrors.ErrCodeForbidden, err.Error())
	case errors.Is(err, workflow.ErrInvalidTransition):
		return apperrors.NewValidation(apperrors.ErrCodeInvalidTransition, err.Error())
	default:
		return apperrors.NewInternal(apperrors.ErrCodeUnexpectedError, "Workflow check failed", err)
	}
}

func curatedPrayerNotFound(id string) error {
	return apperrors.NewNotFound(apperrors.ErrCodeCuratedPrayerNotFound, "Curated prayer not found").
		WithDetail(id)
}

func duplicateReference(prayer models.CuratedPrayer) error {
	return apperrors.NewValidation(apperrors.ErrCodeDuplicateReference, "duplicate reference").
		WithDetail(prayer.Reference() + " already has a curated prayer")
}

func staleWrite() error {
	return apperrors.NewConflict(apperrors.ErrCodeStaleWrite, "The curated prayer was changed by someone else; reload and try again")
}

func databaseError(action string, err error) error {
	return apperrors.NewInternal(apperrors.ErrCodeDatabaseError, "Database operation failed", fmt.Errorf("%s: %w", action, err))
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
