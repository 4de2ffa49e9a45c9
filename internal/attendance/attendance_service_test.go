package attendance

import (
	"context"
	"database/sql"
	"testing"
	"time"

	attendanceerrors "go-incentive/internal/attendance/errors"
	"go-incentive/internal/credit"
	"go-incentive/internal/timewindow"
	"go-incentive/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	withTxFn            func(tx *sql.Tx) Repository
	createFn            func(ctx context.Context, a *Attendance) error
	hasOpenFn           func(ctx context.Context, userID string) (bool, error)
	findOpenForUpdateFn func(ctx context.Context, userID string) (*Attendance, error)
	closeOpenFn         func(ctx context.Context, id uuid.UUID, logoutTime time.Time) error
	dayBoundsFn         func(ctx context.Context, userID string, date time.Time) (DayBounds, error)
	listByDateFn        func(ctx context.Context, userID string, date time.Time) ([]Attendance, error)
	countPresentOnFn    func(ctx context.Context, date time.Time) (int64, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, a *Attendance) error {
	return f.createFn(ctx, a)
}
func (f *fakeRepo) HasOpen(ctx context.Context, userID string) (bool, error) {
	return f.hasOpenFn(ctx, userID)
}
func (f *fakeRepo) FindOpenForUpdate(ctx context.Context, userID string) (*Attendance, error) {
	return f.findOpenForUpdateFn(ctx, userID)
}
func (f *fakeRepo) CloseOpen(ctx context.Context, id uuid.UUID, logoutTime time.Time) error {
	return f.closeOpenFn(ctx, id, logoutTime)
}
func (f *fakeRepo) DayBounds(ctx context.Context, userID string, date time.Time) (DayBounds, error) {
	return f.dayBoundsFn(ctx, userID, date)
}
func (f *fakeRepo) ListByDate(ctx context.Context, userID string, date time.Time) ([]Attendance, error) {
	return f.listByDateFn(ctx, userID, date)
}
func (f *fakeRepo) CountPresentOn(ctx context.Context, date time.Time) (int64, error) {
	return f.countPresentOnFn(ctx, date)
}

type fakeCreditRepo struct {
	credit.Repository
	morning map[string]int64
	evening map[string]int64
}

func newFakeCreditRepo() *fakeCreditRepo {
	return &fakeCreditRepo{
		morning: make(map[string]int64),
		evening: make(map[string]int64),
	}
}

func (f *fakeCreditRepo) WithTx(tx *sql.Tx) credit.Repository { return f }

func (f *fakeCreditRepo) UpsertMorning(ctx context.Context, userID string, date time.Time, amount int64) error {
	key := userID + date.Format("2006-01-02")
	if _, exists := f.morning[key]; !exists {
		f.morning[key] = amount
	}
	return nil
}

func (f *fakeCreditRepo) UpsertEvening(ctx context.Context, userID string, date time.Time, amount int64) error {
	key := userID + date.Format("2006-01-02")
	if _, exists := f.evening[key]; !exists {
		f.evening[key] = amount
	}
	return nil
}

type fakeUserRepo struct {
	user.Repository
	rates user.IncentiveRates
}

func (f *fakeUserRepo) GetIncentiveRates(ctx context.Context, userID string) (user.IncentiveRates, error) {
	return f.rates, nil
}

func fixedClock(t time.Time) timewindow.Clock {
	return func() time.Time { return t }
}

func defaultWindows() timewindow.Config {
	return timewindow.Config{
		Morning: timewindow.DefaultMorning,
		Evening: timewindow.DefaultEvening,
	}
}

func newPunchRepo(saved *Attendance) *fakeRepo {
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.hasOpenFn = func(ctx context.Context, userID string) (bool, error) {
		return saved != nil && saved.ID != uuid.Nil && saved.LogoutTime == nil, nil
	}
	repo.createFn = func(ctx context.Context, a *Attendance) error {
		*saved = *a
		return nil
	}
	repo.findOpenForUpdateFn = func(ctx context.Context, userID string) (*Attendance, error) {
		if saved == nil || saved.ID == uuid.Nil || saved.LogoutTime != nil {
			return nil, sql.ErrNoRows
		}
		cp := *saved
		return &cp, nil
	}
	repo.closeOpenFn = func(ctx context.Context, id uuid.UUID, logoutTime time.Time) error {
		lt := logoutTime
		saved.LogoutTime = &lt
		return nil
	}
	repo.dayBoundsFn = func(ctx context.Context, userID string, date time.Time) (DayBounds, error) {
		if saved == nil || saved.ID == uuid.Nil {
			return DayBounds{}, nil
		}
		return DayBounds{FirstLogin: &saved.LoginTime, LastLogout: saved.LogoutTime}, nil
	}
	return repo
}

func TestPunchIn_BeforeMorningCutoff_MintsCredit(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	userID := uuid.New().String()
	var saved Attendance
	repo := newPunchRepo(&saved)
	credits := newFakeCreditRepo()
	users := &fakeUserRepo{rates: user.IncentiveRates{Morning: 100, Evening: 100}}

	now := time.Date(2025, 3, 10, 7, 45, 0, 0, time.UTC)
	svc := NewService(db, repo, credits, users, defaultWindows(), fixedClock(now))

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.PunchIn(context.Background(), userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Len(t, credits.morning, 1)
	assert.Equal(t, int64(100), credits.morning[userID+"2025-03-10"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPunchIn_AtCutoffBoundary_MintsCredit(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	userID := uuid.New().String()
	var saved Attendance
	repo := newPunchRepo(&saved)
	credits := newFakeCreditRepo()
	users := &fakeUserRepo{rates: user.IncentiveRates{Morning: 150, Evening: 100}}

	// Exactly 08:00:00 still counts.
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	svc := NewService(db, repo, credits, users, defaultWindows(), fixedClock(now))

	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := svc.PunchIn(context.Background(), userID)
	assert.NoError(t, err)
	assert.Equal(t, int64(150), credits.morning[userID+"2025-03-10"])
}

func TestPunchIn_AfterMorningCutoff_NoCredit(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	userID := uuid.New().String()
	var saved Attendance
	repo := newPunchRepo(&saved)
	credits := newFakeCreditRepo()
	users := &fakeUserRepo{rates: user.IncentiveRates{Morning: 100, Evening: 100}}

	now := time.Date(2025, 3, 10, 8, 1, 0, 0, time.UTC)
	svc := NewService(db, repo, credits, users, defaultWindows(), fixedClock(now))

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.PunchIn(context.Background(), userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Empty(t, credits.morning)
}

func TestPunchIn_OpenSession_Rejected(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	userID := uuid.New().String()
	saved := Attendance{
		ID:        uuid.New(),
		UserID:    uuid.MustParse(userID),
		LoginTime: time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC),
	}
	repo := newPunchRepo(&saved)
	credits := newFakeCreditRepo()
	users := &fakeUserRepo{rates: user.IncentiveRates{Morning: 100, Evening: 100}}

	now := time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC)
	svc := NewService(db, repo, credits, users, defaultWindows(), fixedClock(now))

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.PunchIn(context.Background(), userID)
	assert.ErrorIs(t, err, attendanceerrors.ErrSessionAlreadyOpen)
}

func TestPunchIn_NonPositiveRate_PunchSucceedsWithoutCredit(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	userID := uuid.New().String()
	var saved Attendance
	repo := newPunchRepo(&saved)
	credits := newFakeCreditRepo()
	users := &fakeUserRepo{rates: user.IncentiveRates{Morning: 0, Evening: 0}}

	now := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)
	svc := NewService(db, repo, credits, users, defaultWindows(), fixedClock(now))

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.PunchIn(context.Background(), userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Empty(t, credits.morning)
}

func TestPunchOut_AfterEveningCutoff_MintsCredit(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	userID := uuid.New().String()
	saved := Attendance{
		ID:        uuid.New(),
		UserID:    uuid.MustParse(userID),
		LoginTime: time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC),
	}
	repo := newPunchRepo(&saved)
	credits := newFakeCreditRepo()
	users := &fakeUserRepo{rates: user.IncentiveRates{Morning: 100, Evening: 120}}

	now := time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC)
	svc := NewService(db, repo, credits, users, defaultWindows(), fixedClock(now))

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.PunchOut(context.Background(), userID)
	assert.NoError(t, err)
	assert.NotNil(t, resp.LogoutTime)
	assert.Equal(t, int64(120), credits.evening[userID+"2025-03-10"])
}

func TestPunchOut_BeforeEveningCutoff_NoCredit(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	userID := uuid.New().String()
	saved := Attendance{
		ID:        uuid.New(),
		UserID:    uuid.MustParse(userID),
		LoginTime: time.Date(2025, 3, 10, 7, 30, 0, 0, time.UTC),
	}
	repo := newPunchRepo(&saved)
	credits := newFakeCreditRepo()
	users := &fakeUserRepo{rates: user.IncentiveRates{Morning: 100, Evening: 100}}

	now := time.Date(2025, 3, 10, 18, 59, 0, 0, time.UTC)
	svc := NewService(db, repo, credits, users, defaultWindows(), fixedClock(now))

	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := svc.PunchOut(context.Background(), userID)
	assert.NoError(t, err)
	assert.Empty(t, credits.evening)
}

func TestPunchOut_LateFirstLogin_NoEveningCredit(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	userID := uuid.New().String()
	// First login already at the evening cutoff: logging out later the same
	// evening must not harvest a credit.
	saved := Attendance{
		ID:        uuid.New(),
		UserID:    uuid.MustParse(userID),
		LoginTime: time.Date(2025, 3, 10, 19, 0, 0, 0, time.UTC),
	}
	repo := newPunchRepo(&saved)
	credits := newFakeCreditRepo()
	users := &fakeUserRepo{rates: user.IncentiveRates{Morning: 100, Evening: 100}}

	now := time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)
	svc := NewService(db, repo, credits, users, defaultWindows(), fixedClock(now))

	mock.ExpectBegin()
	mock.ExpectCommit()

	_, err := svc.PunchOut(context.Background(), userID)
	assert.NoError(t, err)
	assert.Empty(t, credits.evening)
}

func TestPunchOut_NoActiveSession(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	userID := uuid.New().String()
	var saved Attendance
	repo := newPunchRepo(&saved)
	credits := newFakeCreditRepo()
	users := &fakeUserRepo{rates: user.IncentiveRates{Morning: 100, Evening: 100}}

	now := time.Date(2025, 3, 10, 19, 30, 0, 0, time.UTC)
	svc := NewService(db, repo, credits, users, defaultWindows(), fixedClock(now))

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.PunchOut(context.Background(), userID)
	assert.ErrorIs(t, err, attendanceerrors.ErrNoActiveSession)
}

func TestPunchIn_InvalidUserID(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, newFakeCreditRepo(), &fakeUserRepo{}, defaultWindows(), nil)

	_, err := svc.PunchIn(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, attendanceerrors.ErrInvalidUserID)
}

func TestMintIdempotence_SecondPunchSameDay(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	userID := uuid.New().String()
	var saved Attendance
	repo := newPunchRepo(&saved)
	credits := newFakeCreditRepo()
	users := &fakeUserRepo{rates: user.IncentiveRates{Morning: 100, Evening: 100}}

	now := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)
	svc := NewService(db, repo, credits, users, defaultWindows(), fixedClock(now))

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.PunchIn(context.Background(), userID)
	assert.NoError(t, err)

	// Close the session, then punch in again before the cutoff. The upsert
	// keeps the original amount.
	logout := time.Date(2025, 3, 10, 7, 10, 0, 0, time.UTC)
	saved.LogoutTime = &logout
	users.rates = user.IncentiveRates{Morning: 500, Evening: 100}

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = svc.PunchIn(context.Background(), userID)
	assert.NoError(t, err)

	assert.Len(t, credits.morning, 1)
	assert.Equal(t, int64(100), credits.morning[userID+"2025-03-10"])
}
