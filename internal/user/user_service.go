package user

import (
	"context"

	"go-incentive/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetIncentives(ctx context.Context, userID string) (IncentivesResponse, error)
	GetAdminEmails(ctx context.Context) ([]string, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository) Service {
	return &service{
		repo:   repo,
		logger: zap.L().Named("user.service"),
	}
}

func (s *service) GetIncentives(ctx context.Context, userID string) (IncentivesResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return IncentivesResponse{}, apperror.ErrInvalidInput
	}

	rates, err := s.repo.GetIncentiveRates(ctx, userID)
	if err != nil {
		s.logger.Error("incentive rate lookup failed", zap.Error(err))
		return IncentivesResponse{}, err
	}

	return IncentivesResponse{
		MorningIncentive: rates.Morning,
		EveningIncentive: rates.Evening,
	}, nil
}

// GetAdminEmails lists the configured approvers, ordered by seniority.
func (s *service) GetAdminEmails(ctx context.Context) ([]string, error) {
	emails, err := s.repo.AdminEmails(ctx)
	if err != nil {
		s.logger.Error("admin email lookup failed", zap.Error(err))
		return nil, err
	}
	return emails, nil
}
