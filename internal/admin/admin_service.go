package admin

import (
	"context"

	"go-incentive/internal/attendance"
	"go-incentive/internal/redeem"
	"go-incentive/internal/timewindow"
	"go-incentive/internal/user"

	"go.uber.org/zap"
)

//go:generate mockgen -source=admin_service.go -destination=mock/admin_service_mock.go -package=mock
type Service interface {
	Overview(ctx context.Context) (OverviewResponse, error)
}

type service struct {
	users       user.Repository
	attendances attendance.Repository
	redeems     redeem.Repository
	now         timewindow.Clock
	logger      *zap.Logger
}

func NewService(
	users user.Repository,
	attendances attendance.Repository,
	redeems redeem.Repository,
	now timewindow.Clock,
) Service {
	if now == nil {
		now = timewindow.UTCNow
	}
	return &service{
		users:       users,
		attendances: attendances,
		redeems:     redeems,
		now:         now,
		logger:      zap.L().Named("admin.service"),
	}
}

func (s *service) Overview(ctx context.Context) (OverviewResponse, error) {
	total, err := s.users.CountAll(ctx)
	if err != nil {
		s.logger.Error("overview user count failed", zap.Error(err))
		return OverviewResponse{}, err
	}
	admins, err := s.users.CountAdmins(ctx)
	if err != nil {
		s.logger.Error("overview admin count failed", zap.Error(err))
		return OverviewResponse{}, err
	}

	today := timewindow.BusinessDate(s.now())
	present, err := s.attendances.CountPresentOn(ctx, today)
	if err != nil {
		s.logger.Error("overview presence count failed", zap.Error(err))
		return OverviewResponse{}, err
	}

	pending, err := s.redeems.CountPending(ctx)
	if err != nil {
		s.logger.Error("overview pending redeem count failed", zap.Error(err))
		return OverviewResponse{}, err
	}

	return OverviewResponse{
		Date:           timewindow.FormatDate(today),
		TotalUsers:     total,
		Admins:         admins,
		Participants:   total - admins,
		PresentToday:   present,
		PendingRedeems: pending,
	}, nil
}
