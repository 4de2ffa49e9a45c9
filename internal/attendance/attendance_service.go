package attendance

import (
	"context"
	"database/sql"
	"time"

	attendanceerrors "go-incentive/internal/attendance/errors"
	"go-incentive/internal/credit"
	"go-incentive/internal/timewindow"
	"go-incentive/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	PunchIn(ctx context.Context, userID string) (AttendanceResponse, error)
	PunchOut(ctx context.Context, userID string) (AttendanceResponse, error)
	Today(ctx context.Context, userID string) ([]AttendanceResponse, error)
}

// service is the accrual engine: it owns the attendance ledger writes and
// decides on each punch whether a morning or evening credit event is minted.
type service struct {
	db      *sql.DB
	repo    Repository
	credits credit.Repository
	users   user.Repository
	windows timewindow.Config
	now     timewindow.Clock
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	credits credit.Repository,
	users user.Repository,
	windows timewindow.Config,
	now timewindow.Clock,
) Service {
	if now == nil {
		now = timewindow.UTCNow
	}
	return &service{
		db:      db,
		repo:    repo,
		credits: credits,
		users:   users,
		windows: windows,
		now:     now,
		logger:  zap.L().Named("attendance.service"),
	}
}

func (s *service) PunchIn(ctx context.Context, userID string) (AttendanceResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("punch in begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	open, err := qtx.HasOpen(ctx, userID)
	if err != nil {
		s.logger.Error("punch in open session check failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if open {
		s.logger.Warn("punch in rejected, session already open", zap.String("user_id", userID))
		return AttendanceResponse{}, attendanceerrors.ErrSessionAlreadyOpen
	}

	now := s.now()
	record := &Attendance{
		ID:        uuid.New(),
		UserID:    userUUID,
		LoginTime: now,
	}
	if err := qtx.Create(ctx, record); err != nil {
		s.logger.Error("punch in persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	if timewindow.IsAtOrBefore(now, s.windows.Morning) {
		if err := s.mintCredit(ctx, tx, userID, now, credit.TypeMorning); err != nil {
			return AttendanceResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("punch in commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	s.logger.Info("punch in recorded",
		zap.String("user_id", userID),
		zap.Time("login_time", now),
	)

	return mapToResponse(*record), nil
}

func (s *service) PunchOut(ctx context.Context, userID string) (AttendanceResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidUserID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("punch out begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindOpenForUpdate(ctx, userID)
	if err == sql.ErrNoRows {
		s.logger.Warn("punch out without active session", zap.String("user_id", userID))
		return AttendanceResponse{}, attendanceerrors.ErrNoActiveSession
	}
	if err != nil {
		s.logger.Error("punch out find open session failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	now := s.now()
	if err := qtx.CloseOpen(ctx, record.ID, now); err != nil {
		s.logger.Error("punch out persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	record.LogoutTime = &now

	if timewindow.IsAtOrAfter(now, s.windows.Evening) {
		eligible, err := s.eveningEligible(ctx, qtx, userID, now)
		if err != nil {
			return AttendanceResponse{}, err
		}
		if eligible {
			if err := s.mintCredit(ctx, tx, userID, now, credit.TypeEvening); err != nil {
				return AttendanceResponse{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("punch out commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	s.logger.Info("punch out recorded",
		zap.String("user_id", userID),
		zap.Time("logout_time", now),
	)

	return mapToResponse(*record), nil
}

// eveningEligible guards against a same-day punch-in at or after the evening
// cutoff immediately followed by a punch-out harvesting an evening credit:
// the first login of the business date must itself fall before the cutoff.
func (s *service) eveningEligible(ctx context.Context, qtx Repository, userID string, now time.Time) (bool, error) {
	bounds, err := qtx.DayBounds(ctx, userID, timewindow.BusinessDate(now))
	if err != nil {
		s.logger.Error("punch out day bounds failed", zap.Error(err))
		return false, err
	}
	if bounds.FirstLogin == nil {
		return false, nil
	}
	if timewindow.IsAtOrAfter(*bounds.FirstLogin, s.windows.Evening) {
		s.logger.Info("evening credit skipped, first login past cutoff",
			zap.String("user_id", userID),
			zap.Time("first_login", *bounds.FirstLogin),
		)
		return false, nil
	}
	return true, nil
}

// mintCredit resolves the user's incentive rate and idempotently inserts the
// credit event for the business date. Non-positive rates mean the user does
// not participate; the punch itself still succeeds.
func (s *service) mintCredit(ctx context.Context, tx *sql.Tx, userID string, now time.Time, creditType string) error {
	rates, err := s.users.GetIncentiveRates(ctx, userID)
	if err != nil {
		s.logger.Error("incentive rate lookup failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return err
	}

	rate := rates.Morning
	if creditType == credit.TypeEvening {
		rate = rates.Evening
	}
	if rate <= 0 {
		return nil
	}

	date := timewindow.BusinessDate(now)
	qcred := s.credits.WithTx(tx)

	if creditType == credit.TypeMorning {
		err = qcred.UpsertMorning(ctx, userID, date, rate)
	} else {
		err = qcred.UpsertEvening(ctx, userID, date, rate)
	}
	if err != nil {
		s.logger.Error("credit event insert failed",
			zap.String("user_id", userID),
			zap.String("type", creditType),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("credit event minted",
		zap.String("user_id", userID),
		zap.String("type", creditType),
		zap.String("date", timewindow.FormatDate(date)),
		zap.Int64("amount", rate),
	)
	return nil
}

func (s *service) Today(ctx context.Context, userID string) ([]AttendanceResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, attendanceerrors.ErrInvalidUserID
	}

	records, err := s.repo.ListByDate(ctx, userID, timewindow.BusinessDate(s.now()))
	if err != nil {
		return nil, err
	}

	res := make([]AttendanceResponse, len(records))
	for i, rec := range records {
		res[i] = mapToResponse(rec)
	}
	return res, nil
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:        a.ID.String(),
		UserID:    a.UserID.String(),
		LoginTime: a.LoginTime.Format(time.RFC3339),
	}
	if a.LogoutTime != nil {
		v := a.LogoutTime.Format(time.RFC3339)
		resp.LogoutTime = &v
	}
	return resp
}
