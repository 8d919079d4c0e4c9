package cron

import (
	"context"
	"time"

	"github.com/meteormate/backend/internal/app"
	"github.com/meteormate/backend/internal/db"
	svcErr "github.com/meteormate/backend/internal/errors"
	"github.com/meteormate/backend/internal/repository"
)

// Retention thresholds for the dormancy lifecycle.
const (
	// dormancyThreshold: active accounts untouched this long are
	// soft-retired (is_active = false).
	dormancyThreshold = 2 * 30 * 24 * time.Hour
	// retentionThreshold: soft-retired accounts untouched this long are
	// hard-deleted together with their survey and profile.
	retentionThreshold = 2 * 365 * 24 * time.Hour

	// Notice lead times before the dormancy threshold.
	oneMonthLead = 30 * 24 * time.Hour
	oneWeekLead  = 7 * 24 * time.Hour
)

// Service implements the scheduled maintenance sweeps. Administrative,
// driven by an external scheduler hitting the cron endpoints.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
	codes  *repository.CodeRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
		codes:  repository.NewCodeRepository(appCtx.DB),
	}
}

// CleanupReport summarizes one clean-db sweep.
type CleanupReport struct {
	DeletedVerificationCodes int64 `json:"deleted_verification_codes"`
	DeletedUsers             int64 `json:"deleted_users"`
	MarkedInactive           int64 `json:"marked_inactive"`
}

// CleanDB purges expired codes, hard-deletes long-retired accounts and
// soft-retires dormant ones.
func (s *Service) CleanDB(ctx context.Context) (CleanupReport, error) {
	var report CleanupReport
	now := time.Now().UTC()

	deletedCodes, err := s.codes.PurgeExpired(ctx)
	if err != nil {
		return report, svcErr.Map(err)
	}
	report.DeletedVerificationCodes = deletedCodes

	deletedUsers, err := s.users.DeleteInactiveBefore(ctx, now.Add(-retentionThreshold))
	if err != nil {
		return report, svcErr.Map(err)
	}
	report.DeletedUsers = deletedUsers

	marked, err := s.users.MarkInactiveBefore(ctx, now.Add(-dormancyThreshold))
	if err != nil {
		return report, svcErr.Map(err)
	}
	report.MarkedInactive = marked

	s.appCtx.Logger.Info("db cleanup completed",
		"deleted_codes", report.DeletedVerificationCodes,
		"deleted_users", report.DeletedUsers,
		"marked_inactive", report.MarkedInactive,
	)
	return report, nil
}

// NoticeReport summarizes one inactivity-notice sweep.
type NoticeReport struct {
	OneMonthNotices int `json:"one_month_notices"`
	OneWeekNotices  int `json:"one_week_notices"`
	InactiveNotices int `json:"inactive_notices"`
}

// CheckInactiveUsers sends staged dormancy notices. Runs in three steps
// so a failure in one doesn't stop the others; individual send failures
// are logged and skipped.
func (s *Service) CheckInactiveUsers(ctx context.Context) (NoticeReport, error) {
	var report NoticeReport
	now := time.Now().UTC()

	stages := []struct {
		cutoff time.Time
		prev   *db.InactivityStage
		stage  db.InactivityStage
		count  *int
	}{
		{now.Add(-(dormancyThreshold - oneMonthLead)), nil, db.StageOneMonth, &report.OneMonthNotices},
		{now.Add(-(dormancyThreshold - oneWeekLead)), stagePtr(db.StageOneMonth), db.StageOneWeek, &report.OneWeekNotices},
		{now.Add(-dormancyThreshold), stagePtr(db.StageOneWeek), db.StageInactive, &report.InactiveNotices},
	}

	for _, st := range stages {
		users, err := s.users.ListForInactivityStage(ctx, st.cutoff, st.prev)
		if err != nil {
			s.appCtx.Logger.Error("inactivity sweep step failed", "stage", string(st.stage), "err", err)
			continue
		}

		for _, u := range users {
			if err := s.appCtx.Mailer.SendInactivityNotice(ctx, u.Email, st.stage); err != nil {
				s.appCtx.Logger.Error("failed to send inactivity notice", "user_id", u.ID, "err", err)
				continue
			}
			if err := s.users.SetInactivityStage(ctx, u.ID, st.stage); err != nil {
				s.appCtx.Logger.Error("failed to record notice stage", "user_id", u.ID, "err", err)
				continue
			}
			*st.count++
		}
	}

	s.appCtx.Logger.Info("inactivity notices sent",
		"one_month", report.OneMonthNotices,
		"one_week", report.OneWeekNotices,
		"inactive", report.InactiveNotices,
	)
	return report, nil
}

func stagePtr(s db.InactivityStage) *db.InactivityStage { return &s }
