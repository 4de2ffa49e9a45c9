package claims

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-incentive/internal/attendance"
	"go-incentive/internal/credit"
	"go-incentive/internal/shared/apperror"
	"go-incentive/internal/timewindow"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const monthSummaryCacheTTL = 60 * time.Second

//go:generate mockgen -source=claims_service.go -destination=mock/claims_service_mock.go -package=mock
type Service interface {
	TodayClaim(ctx context.Context, userID string) (TodayClaimResponse, error)
	MonthClaims(ctx context.Context, userID string, year, month int) (MonthClaimsResponse, error)
	MonthSummary(ctx context.Context, userID string, year, month int) (MonthSummaryResponse, error)
	MonthEarnings(ctx context.Context, userID string, year, month int) (MonthEarningsResponse, error)
	Available(ctx context.Context, userID string) (AvailableResponse, error)
}

// service is the claim computation engine. Every view is read-only: it
// combines the attendance ledger (day bounds), the credit-event ledger
// (recorded earnings) and the claims ledger (redemption history) without
// touching any of them.
type service struct {
	attendances attendance.Repository
	credits     credit.Repository
	repo        Repository
	windows     timewindow.Config
	now         timewindow.Clock
	rdb         *redis.Client
	sf          *singleflight.Group
	logger      *zap.Logger
}

func NewService(
	attendances attendance.Repository,
	credits credit.Repository,
	repo Repository,
	windows timewindow.Config,
	now timewindow.Clock,
	rdb *redis.Client,
) Service {
	if now == nil {
		now = timewindow.UTCNow
	}
	return &service{
		attendances: attendances,
		credits:     credits,
		repo:        repo,
		windows:     windows,
		now:         now,
		rdb:         rdb,
		sf:          &singleflight.Group{},
		logger:      zap.L().Named("claims.service"),
	}
}

func (s *service) TodayClaim(ctx context.Context, userID string) (TodayClaimResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return TodayClaimResponse{}, apperror.ErrInvalidInput
	}

	date := timewindow.BusinessDate(s.now())

	bounds, err := s.attendances.DayBounds(ctx, userID, date)
	if err != nil {
		s.logger.Error("today claim day bounds failed", zap.Error(err))
		return TodayClaimResponse{}, err
	}

	// Displayed amounts come from the recorded credit events, not from the
	// current incentive rates: if a rate changed intraday the view must
	// still match what was actually minted.
	recorded, err := s.credits.GetByDate(ctx, userID, date)
	if err != nil {
		s.logger.Error("today claim credit lookup failed", zap.Error(err))
		return TodayClaimResponse{}, err
	}

	resp := TodayClaimResponse{
		Date:          timewindow.FormatDate(date),
		MorningCredit: recorded.MorningCredit,
		EveningCredit: recorded.EveningCredit,
		TotalCredit:   recorded.TotalCredit,
	}
	if bounds.FirstLogin != nil {
		v := bounds.FirstLogin.Format(time.RFC3339)
		resp.FirstLogin = &v
		resp.MorningEligible = timewindow.IsAtOrBefore(*bounds.FirstLogin, s.windows.Morning)
	}
	if bounds.LastLogout != nil {
		v := bounds.LastLogout.Format(time.RFC3339)
		resp.LastLogout = &v
		resp.EveningEligible = timewindow.IsAtOrAfter(*bounds.LastLogout, s.windows.Evening)
	}
	return resp, nil
}

func (s *service) MonthClaims(ctx context.Context, userID string, year, month int) (MonthClaimsResponse, error) {
	if err := validateMonthQuery(userID, year, month); err != nil {
		return MonthClaimsResponse{}, err
	}

	start := timewindow.MonthStart(year, time.Month(month))
	end := timewindow.MonthEnd(year, time.Month(month))

	rows, err := s.repo.ListByMonth(ctx, userID, start, end)
	if err != nil {
		s.logger.Error("month claims list failed", zap.Error(err))
		return MonthClaimsResponse{}, err
	}

	resp := MonthClaimsResponse{
		Year:   year,
		Month:  month,
		Count:  len(rows),
		Claims: make([]ClaimResponse, len(rows)),
	}
	for i, row := range rows {
		resp.TotalClaimed += row.Amount
		resp.Claims[i] = ClaimResponse{
			ID:        row.ID.String(),
			Amount:    row.Amount,
			Note:      row.Note,
			ClaimedAt: row.ClaimedAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}

func (s *service) MonthSummary(ctx context.Context, userID string, year, month int) (MonthSummaryResponse, error) {
	if err := validateMonthQuery(userID, year, month); err != nil {
		return MonthSummaryResponse{}, err
	}

	cacheKey := fmt.Sprintf("claims:summary:%s:%04d-%02d", userID, year, month)
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached MonthSummaryResponse
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (any, error) {
		return s.computeMonthSummary(ctx, userID, year, month)
	})
	if err != nil {
		return MonthSummaryResponse{}, err
	}
	resp := v.(MonthSummaryResponse)

	if s.rdb != nil {
		if payload, err := json.Marshal(resp); err == nil {
			_ = s.rdb.Set(ctx, cacheKey, payload, monthSummaryCacheTTL).Err()
		}
	}
	return resp, nil
}

func (s *service) computeMonthSummary(ctx context.Context, userID string, year, month int) (MonthSummaryResponse, error) {
	start := timewindow.MonthStart(year, time.Month(month))
	end := timewindow.MonthEnd(year, time.Month(month))

	earned, err := s.credits.SumEarnedInMonth(ctx, userID, start, end)
	if err != nil {
		s.logger.Error("month summary earned sum failed", zap.Error(err))
		return MonthSummaryResponse{}, err
	}
	claimed, err := s.repo.SumClaimedInMonth(ctx, userID, start, end)
	if err != nil {
		s.logger.Error("month summary claimed sum failed", zap.Error(err))
		return MonthSummaryResponse{}, err
	}

	return MonthSummaryResponse{
		Year:           year,
		Month:          month,
		EarnedInMonth:  earned,
		ClaimedInMonth: claimed,
		Remaining:      floorZero(earned - claimed),
	}, nil
}

func (s *service) MonthEarnings(ctx context.Context, userID string, year, month int) (MonthEarningsResponse, error) {
	if err := validateMonthQuery(userID, year, month); err != nil {
		return MonthEarningsResponse{}, err
	}

	start := timewindow.MonthStart(year, time.Month(month))
	end := timewindow.MonthEnd(year, time.Month(month))

	days, err := s.credits.ListEarningsByMonth(ctx, userID, start, end)
	if err != nil {
		s.logger.Error("month earnings list failed", zap.Error(err))
		return MonthEarningsResponse{}, err
	}

	resp := MonthEarningsResponse{
		Year:  year,
		Month: month,
		Days:  make([]DayEarningsResponse, len(days)),
	}
	for i, day := range days {
		resp.Days[i] = DayEarningsResponse{
			Date:          timewindow.FormatDate(day.Date),
			MorningCredit: day.MorningCredit,
			EveningCredit: day.EveningCredit,
			TotalCredit:   day.TotalCredit,
		}
	}
	return resp, nil
}

func (s *service) Available(ctx context.Context, userID string) (AvailableResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return AvailableResponse{}, apperror.ErrInvalidInput
	}

	earned, err := s.credits.SumEarned(ctx, userID)
	if err != nil {
		s.logger.Error("available earned sum failed", zap.Error(err))
		return AvailableResponse{}, err
	}
	claimed, err := s.repo.SumClaimed(ctx, userID)
	if err != nil {
		s.logger.Error("available claimed sum failed", zap.Error(err))
		return AvailableResponse{}, err
	}

	return AvailableResponse{
		Earned:    earned,
		Claimed:   claimed,
		Available: floorZero(earned - claimed),
	}, nil
}

func validateMonthQuery(userID string, year, month int) error {
	if _, err := uuid.Parse(userID); err != nil {
		return apperror.ErrInvalidInput
	}
	if !timewindow.ValidMonth(year, month) {
		return apperror.New(apperror.CodeInvalidInput, "invalid year or month", 400)
	}
	return nil
}

func floorZero(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
