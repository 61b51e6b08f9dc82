package services

import (
	"github.com/PrayInVerses/initializers"
	"github.com/PrayInVerses/models"
	"github.com/PrayInVerses/workflow"
	"github.com/doug-martin/goqu/v9"
	"github.com/rs/zerolog/log"
)

type noopCurationNotifier struct{}

func (noopCurationNotifier) SubmittedForReview(models.CuratedPrayer) {}
func (noopCurationNotifier) Published(models.CuratedPrayer)          {}

// asyncCurationNotifier sends push and email messages in the background.
// Failures are logged and never reach the request that caused them.
type asyncCurationNotifier struct {
	push  *PushNotificationService
	email *EmailService
}

// GetCurationNotifier returns a notifier backed by whichever delivery
// channels were initialized, or a no-op when none were.
func GetCurationNotifier() CurationNotifier {
	push := GetPushNotificationService()
	email := GetEmailService()
	if push == nil && email == nil {
		return noopCurationNotifier{}
	}
	return asyncCurationNotifier{push: push, email: email}
}

func (n asyncCurationNotifier) SubmittedForReview(prayer models.CuratedPrayer) {
	go n.notifyReviewers(prayer)
}

func (n asyncCurationNotifier) Published(prayer models.CuratedPrayer) {
	go n.notifyAuthor(prayer)
}

func (n asyncCurationNotifier) notifyReviewers(prayer models.CuratedPrayer) {
	if n.push == nil {
		return
	}

	reviewerIDs, err := reviewerIDsExcluding(prayer.Created_By)
	if err != nil {
		log.Error().Err(err).Str("curated_prayer_id", prayer.Curated_Prayer_ID).Msg("failed to load reviewers")
		return
	}
	if len(reviewerIDs) == 0 {
		return
	}

	payload := NotificationPayload{
		Title: "New prayer awaiting review",
		Body:  prayer.Reference() + " · " + prayer.Theme,
		Data: map[string]string{
			"type":            "curated_prayer_review",
			"curatedPrayerId": prayer.Curated_Prayer_ID,
		},
	}

	if err := n.push.SendNotificationToUsers(reviewerIDs, payload); err != nil {
		log.Warn().Err(err).Str("curated_prayer_id", prayer.Curated_Prayer_ID).Msg("review notification partially failed")
	}
}

func (n asyncCurationNotifier) notifyAuthor(prayer models.CuratedPrayer) {
	var author models.UserProfile
	found, err := initializers.DB.From("user_profile").
		Where(goqu.C("user_profile_id").Eq(prayer.Created_By)).
		ScanStruct(&author)
	if err != nil || !found {
		log.Error().Err(err).Int("user_profile_id", prayer.Created_By).Msg("failed to load author for publication notice")
		return
	}

	if n.email != nil && author.Email != "" {
		if err := n.email.SendPublishedEmail(author.Email, author.First_Name, prayer.Reference(), prayer.Theme); err != nil {
			log.Warn().Err(err).Int("user_profile_id", author.User_Profile_ID).Msg("failed to send publication email")
		}
	}

	if n.push != nil {
		payload := NotificationPayload{
			Title: "Your prayer is published",
			Body:  prayer.Reference() + " is now in the library",
			Data: map[string]string{
				"type":            "curated_prayer_published",
				"curatedPrayerId": prayer.Curated_Prayer_ID,
			},
			Priority: "high",
		}
		if err := n.push.SendNotificationToUser(author.User_Profile_ID, payload); err != nil {
			log.Warn().Err(err).Int("user_profile_id", author.User_Profile_ID).Msg("failed to send publication push")
		}
	}
}

// reviewerIDsExcluding returns active elevated users other than excludeID.
func reviewerIDsExcluding(excludeID int) ([]int, error) {
	var ids []int
	err := initializers.DB.From("user_profile").
		Select("user_profile_id").
		Where(
			goqu.C("role").In(workflow.RoleModerator, workflow.RoleSuperAdmin),
			goqu.C("deleted").IsFalse(),
			goqu.C("user_profile_id").Neq(excludeID),
		).
		ScanVals(&ids)
	return ids, err
}
