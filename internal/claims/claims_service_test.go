package claims

import (
	"context"
	"testing"
	"time"

	"go-incentive/internal/attendance"
	"go-incentive/internal/credit"
	"go-incentive/internal/timewindow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAttendanceRepo struct {
	attendance.Repository
	bounds attendance.DayBounds
}

func (f *fakeAttendanceRepo) DayBounds(ctx context.Context, userID string, date time.Time) (attendance.DayBounds, error) {
	return f.bounds, nil
}

type fakeCreditRepo struct {
	credit.Repository
	day         credit.DayCredits
	earned      int64
	earnedMonth int64
	monthDays   []credit.DayCredits
}

func (f *fakeCreditRepo) GetByDate(ctx context.Context, userID string, date time.Time) (credit.DayCredits, error) {
	return f.day, nil
}
func (f *fakeCreditRepo) SumEarned(ctx context.Context, userID string) (int64, error) {
	return f.earned, nil
}
func (f *fakeCreditRepo) SumEarnedInMonth(ctx context.Context, userID string, monthStart, monthEnd time.Time) (int64, error) {
	return f.earnedMonth, nil
}
func (f *fakeCreditRepo) ListEarningsByMonth(ctx context.Context, userID string, monthStart, monthEnd time.Time) ([]credit.DayCredits, error) {
	return f.monthDays, nil
}

type fakeClaimsRepo struct {
	Repository
	claimed      int64
	claimedMonth int64
	monthClaims  []CreditsClaim
}

func (f *fakeClaimsRepo) SumClaimed(ctx context.Context, userID string) (int64, error) {
	return f.claimed, nil
}
func (f *fakeClaimsRepo) SumClaimedInMonth(ctx context.Context, userID string, monthStart, monthEnd time.Time) (int64, error) {
	return f.claimedMonth, nil
}
func (f *fakeClaimsRepo) ListByMonth(ctx context.Context, userID string, monthStart, monthEnd time.Time) ([]CreditsClaim, error) {
	return f.monthClaims, nil
}

func testWindows() timewindow.Config {
	return timewindow.Config{
		Morning: timewindow.DefaultMorning,
		Evening: timewindow.DefaultEvening,
	}
}

func fixedClock(t time.Time) timewindow.Clock {
	return func() time.Time { return t }
}

func newTestService(
	att *fakeAttendanceRepo,
	credits *fakeCreditRepo,
	repo *fakeClaimsRepo,
	now time.Time,
) Service {
	return NewService(att, credits, repo, testWindows(), fixedClock(now), nil)
}

func TestTodayClaim_FullDay(t *testing.T) {
	userID := uuid.New().String()
	firstLogin := time.Date(2025, 3, 10, 7, 45, 0, 0, time.UTC)
	lastLogout := time.Date(2025, 3, 10, 19, 15, 0, 0, time.UTC)

	att := &fakeAttendanceRepo{bounds: attendance.DayBounds{
		FirstLogin: &firstLogin,
		LastLogout: &lastLogout,
	}}
	credits := &fakeCreditRepo{day: credit.DayCredits{
		MorningCredit: 100,
		EveningCredit: 100,
		TotalCredit:   200,
	}}

	svc := newTestService(att, credits, &fakeClaimsRepo{}, time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC))

	resp, err := svc.TodayClaim(context.Background(), userID)
	assert.NoError(t, err)
	assert.Equal(t, "2025-03-10", resp.Date)
	assert.True(t, resp.MorningEligible)
	assert.True(t, resp.EveningEligible)
	assert.Equal(t, int64(100), resp.MorningCredit)
	assert.Equal(t, int64(100), resp.EveningCredit)
	assert.Equal(t, int64(200), resp.TotalCredit)
}

func TestTodayClaim_NoAttendance(t *testing.T) {
	svc := newTestService(
		&fakeAttendanceRepo{},
		&fakeCreditRepo{},
		&fakeClaimsRepo{},
		time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	)

	resp, err := svc.TodayClaim(context.Background(), uuid.New().String())
	assert.NoError(t, err)
	assert.Nil(t, resp.FirstLogin)
	assert.Nil(t, resp.LastLogout)
	assert.False(t, resp.MorningEligible)
	assert.False(t, resp.EveningEligible)
	assert.Zero(t, resp.TotalCredit)
}

func TestTodayClaim_LateLoginEarlyLogout(t *testing.T) {
	firstLogin := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	lastLogout := time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)

	att := &fakeAttendanceRepo{bounds: attendance.DayBounds{
		FirstLogin: &firstLogin,
		LastLogout: &lastLogout,
	}}

	svc := newTestService(att, &fakeCreditRepo{}, &fakeClaimsRepo{}, time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC))

	resp, err := svc.TodayClaim(context.Background(), uuid.New().String())
	assert.NoError(t, err)
	assert.False(t, resp.MorningEligible)
	assert.False(t, resp.EveningEligible)
}

func TestTodayClaim_AmountsComeFromLedgerNotRates(t *testing.T) {
	// The credit was minted at 100 before the user's rate changed; the view
	// must report the minted amount.
	firstLogin := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)
	att := &fakeAttendanceRepo{bounds: attendance.DayBounds{FirstLogin: &firstLogin}}
	credits := &fakeCreditRepo{day: credit.DayCredits{MorningCredit: 100, TotalCredit: 100}}

	svc := newTestService(att, credits, &fakeClaimsRepo{}, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	resp, err := svc.TodayClaim(context.Background(), uuid.New().String())
	assert.NoError(t, err)
	assert.Equal(t, int64(100), resp.MorningCredit)
	assert.Equal(t, int64(100), resp.TotalCredit)
}

func TestMonthClaims(t *testing.T) {
	note := "coffee"
	repo := &fakeClaimsRepo{monthClaims: []CreditsClaim{
		{ID: uuid.New(), Amount: 200, Note: &note, ClaimedAt: time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)},
		{ID: uuid.New(), Amount: 300, ClaimedAt: time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC)},
	}}

	svc := newTestService(&fakeAttendanceRepo{}, &fakeCreditRepo{}, repo, time.Now().UTC())

	resp, err := svc.MonthClaims(context.Background(), uuid.New().String(), 2025, 3)
	assert.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, int64(500), resp.TotalClaimed)
	assert.Equal(t, "coffee", *resp.Claims[0].Note)
}

func TestMonthSummary(t *testing.T) {
	credits := &fakeCreditRepo{earnedMonth: 900}
	repo := &fakeClaimsRepo{claimedMonth: 300}

	svc := newTestService(&fakeAttendanceRepo{}, credits, repo, time.Now().UTC())

	resp, err := svc.MonthSummary(context.Background(), uuid.New().String(), 2025, 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(900), resp.EarnedInMonth)
	assert.Equal(t, int64(300), resp.ClaimedInMonth)
	assert.Equal(t, int64(600), resp.Remaining)
}

func TestMonthSummary_RemainingFloorsAtZero(t *testing.T) {
	// Claims can exceed in-month earnings when balance carried over from
	// earlier months was redeemed this month.
	credits := &fakeCreditRepo{earnedMonth: 100}
	repo := &fakeClaimsRepo{claimedMonth: 400}

	svc := newTestService(&fakeAttendanceRepo{}, credits, repo, time.Now().UTC())

	resp, err := svc.MonthSummary(context.Background(), uuid.New().String(), 2025, 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), resp.Remaining)
}

func TestMonthSummary_InvalidMonth(t *testing.T) {
	svc := newTestService(&fakeAttendanceRepo{}, &fakeCreditRepo{}, &fakeClaimsRepo{}, time.Now().UTC())

	_, err := svc.MonthSummary(context.Background(), uuid.New().String(), 2025, 13)
	assert.Error(t, err)

	_, err = svc.MonthSummary(context.Background(), uuid.New().String(), 2025, 0)
	assert.Error(t, err)
}

func TestMonthEarnings(t *testing.T) {
	credits := &fakeCreditRepo{monthDays: []credit.DayCredits{
		{Date: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), MorningCredit: 100, TotalCredit: 100},
		{Date: time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), MorningCredit: 100, EveningCredit: 100, TotalCredit: 200},
	}}

	svc := newTestService(&fakeAttendanceRepo{}, credits, &fakeClaimsRepo{}, time.Now().UTC())

	resp, err := svc.MonthEarnings(context.Background(), uuid.New().String(), 2025, 3)
	assert.NoError(t, err)
	assert.Len(t, resp.Days, 2)
	assert.Equal(t, "2025-03-03", resp.Days[0].Date)
	assert.Equal(t, int64(200), resp.Days[1].TotalCredit)
}

func TestAvailable(t *testing.T) {
	credits := &fakeCreditRepo{earned: 1200}
	repo := &fakeClaimsRepo{claimed: 700}

	svc := newTestService(&fakeAttendanceRepo{}, credits, repo, time.Now().UTC())

	resp, err := svc.Available(context.Background(), uuid.New().String())
	assert.NoError(t, err)
	assert.Equal(t, int64(1200), resp.Earned)
	assert.Equal(t, int64(700), resp.Claimed)
	assert.Equal(t, int64(500), resp.Available)
}

func TestAvailable_InvalidUserID(t *testing.T) {
	svc := newTestService(&fakeAttendanceRepo{}, &fakeCreditRepo{}, &fakeClaimsRepo{}, time.Now().UTC())

	_, err := svc.Available(context.Background(), "nope")
	assert.Error(t, err)
}
