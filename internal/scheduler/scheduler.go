package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go-incentive/internal/claims"
	"go-incentive/internal/mailer"
	"go-incentive/internal/timewindow"
	"go-incentive/internal/user"

	"go.uber.org/zap"
)

const (
	dailySummaryHour  = 21
	weeklySummaryHour = 18

	tickInterval = time.Minute
)

// Scheduler sends claim summaries to admins: a short daily digest every
// evening and a fuller weekly one on Friday. It ticks once a minute and
// fires when the wall clock crosses a slot, tracking the last fired slot
// so restarts within the same minute do not double-send.
type Scheduler struct {
	claims claims.Repository
	users  user.Repository
	mail   mailer.Mailer
	now    timewindow.Clock
	logger *zap.Logger

	lastDaily  time.Time
	lastWeekly time.Time
}

func New(
	claimsRepo claims.Repository,
	users user.Repository,
	mail mailer.Mailer,
	now timewindow.Clock,
) *Scheduler {
	if now == nil {
		now = timewindow.UTCNow
	}
	return &Scheduler{
		claims: claimsRepo,
		users:  users,
		mail:   mail,
		now:    now,
		logger: zap.L().Named("scheduler"),
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	s.logger.Info("summary scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("summary scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	now := s.now()
	today := timewindow.BusinessDate(now)

	if now.Hour() >= dailySummaryHour && s.lastDaily.Before(today) {
		s.lastDaily = today
		s.sendSummary(ctx, "Daily claim summary", now.Add(-24*time.Hour))
	}

	if now.Weekday() == time.Friday && now.Hour() >= weeklySummaryHour && s.lastWeekly.Before(today) {
		s.lastWeekly = today
		s.sendSummary(ctx, "Weekly claim summary", now.Add(-7*24*time.Hour))
	}
}

func (s *Scheduler) sendSummary(ctx context.Context, subject string, since time.Time) {
	admins, err := s.users.AdminEmails(ctx)
	if err != nil {
		s.logger.Error("summary admin lookup failed", zap.Error(err))
		return
	}
	if len(admins) == 0 {
		s.logger.Warn("no admins configured, skipping summary")
		return
	}

	totals, err := s.claims.ListUserTotalsSince(ctx, since)
	if err != nil {
		s.logger.Error("summary totals query failed", zap.Error(err))
		return
	}

	body := formatSummary(totals, since)
	for _, email := range admins {
		if err := s.mail.SendClaimSummary(email, subject, body); err != nil {
			s.logger.Error("summary send failed",
				zap.String("to", email),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("claim summary sent",
		zap.String("subject", subject),
		zap.Int("admins", len(admins)),
		zap.Int("users", len(totals)),
	)
}

func formatSummary(totals []claims.UserClaimTotals, since time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Claims since %s:\n\n", since.Format("2006-01-02 15:04 MST"))
	for _, t := range totals {
		fmt.Fprintf(&b, "%-40s period: %6d  all-time: %8d\n", t.Email, t.PeriodClaimed, t.TotalClaimed)
	}
	if len(totals) == 0 {
		b.WriteString("No participants yet.\n")
	}
	return b.String()
}
