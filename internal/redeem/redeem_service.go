package redeem

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go-incentive/internal/claims"
	"go-incentive/internal/credit"
	"go-incentive/internal/events"
	"go-incentive/internal/messaging/kafka"
	redeemerrors "go-incentive/internal/redeem/errors"
	"go-incentive/internal/timewindow"
	"go-incentive/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=redeem_service.go -destination=mock/redeem_service_mock.go -package=mock
type Service interface {
	CreateRequest(ctx context.Context, userID string, payload CreateRequestPayload) (RequestResponse, error)
	ListRequests(ctx context.Context, userID string) ([]RequestResponse, error)
	ListAllRequests(ctx context.Context) ([]RequestResponse, error)
	Approve(ctx context.Context, requestID string) (RedeemResultResponse, error)
	Deny(ctx context.Context, requestID string) error
	Redeem(ctx context.Context, userID, requestID string) (RedeemResultResponse, error)
	RedeemDirect(ctx context.Context, userID string, payload DirectRedeemPayload) (RedeemResultResponse, error)
}

// Notifier pushes redemption updates to connected clients. Implemented by
// the realtime hub; a nil-safe no-op is fine in workers and tests.
type Notifier interface {
	Publish(userID string, event any)
}

// service is the redemption engine. All writes that touch balance run in a
// single transaction that first locks the user row, so concurrent
// check-then-deduct sequences for one user serialize and the available
// balance can never go negative.
type service struct {
	db       *sql.DB
	repo     Repository
	claims   claims.Repository
	credits  credit.Repository
	users    user.Repository
	outbox   kafka.OutboxRepository
	notifier Notifier
	now      timewindow.Clock
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	claimsRepo claims.Repository,
	credits credit.Repository,
	users user.Repository,
	outbox kafka.OutboxRepository,
	notifier Notifier,
	now timewindow.Clock,
) Service {
	if now == nil {
		now = timewindow.UTCNow
	}
	return &service{
		db:       db,
		repo:     repo,
		claims:   claimsRepo,
		credits:  credits,
		users:    users,
		outbox:   outbox,
		notifier: notifier,
		now:      now,
		logger:   zap.L().Named("redeem.service"),
	}
}

func (s *service) CreateRequest(ctx context.Context, userID string, payload CreateRequestPayload) (RequestResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return RequestResponse{}, redeemerrors.ErrInvalidUserID
	}
	if payload.Amount <= 0 {
		return RequestResponse{}, redeemerrors.ErrInvalidAmount
	}

	adminEmail, err := s.resolveAdminEmail(ctx, payload.AdminEmail)
	if err != nil {
		return RequestResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create request begin tx failed", zap.Error(err))
		return RequestResponse{}, err
	}
	defer tx.Rollback()

	// Lock before reading the sums so a concurrent redemption cannot slip
	// between the balance check and the insert.
	available, err := s.lockedAvailable(ctx, tx, userID)
	if err != nil {
		return RequestResponse{}, err
	}
	if payload.Amount > available {
		return RequestResponse{}, insufficientBalance(payload.Amount, available)
	}

	req := &RedeemRequest{
		ID:         uuid.New(),
		UserID:     userUUID,
		Amount:     payload.Amount,
		Note:       payload.Note,
		AdminEmail: adminEmail,
		CreatedAt:  s.now(),
	}
	if err := s.repo.WithTx(tx).Create(ctx, req); err != nil {
		s.logger.Error("create request persist failed", zap.Error(err))
		return RequestResponse{}, err
	}

	if err := s.enqueueEvent(ctx, tx, events.RedeemRequestedTopic, events.RedemptionEvent{
		EventType:  events.TypeRedeemRequested,
		RequestID:  req.ID.String(),
		UserID:     userID,
		Amount:     req.Amount,
		AdminEmail: adminEmail,
		OccurredAt: req.CreatedAt,
	}); err != nil {
		return RequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create request commit failed", zap.Error(err))
		return RequestResponse{}, err
	}
	s.logger.Info("redeem request created",
		zap.String("request_id", req.ID.String()),
		zap.String("user_id", userID),
		zap.Int64("amount", req.Amount),
		zap.String("admin_email", adminEmail),
	)

	return mapRequest(*req), nil
}

// resolveAdminEmail validates the chosen approver against the configured
// admins, defaulting to the longest-standing admin when none is named.
func (s *service) resolveAdminEmail(ctx context.Context, requested string) (string, error) {
	admins, err := s.users.AdminEmails(ctx)
	if err != nil {
		s.logger.Error("admin email lookup failed", zap.Error(err))
		return "", err
	}
	if len(admins) == 0 {
		return "", redeemerrors.ErrNoAdminsConfigured
	}
	if requested == "" {
		return admins[0], nil
	}
	for _, email := range admins {
		if email == requested {
			return email, nil
		}
	}
	return "", redeemerrors.ErrUnknownAdminEmail
}

func (s *service) ListRequests(ctx context.Context, userID string) ([]RequestResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, redeemerrors.ErrInvalidUserID
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("list requests failed", zap.Error(err))
		return nil, err
	}
	return mapRequests(rows), nil
}

func (s *service) ListAllRequests(ctx context.Context) ([]RequestResponse, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("list all requests failed", zap.Error(err))
		return nil, err
	}
	return mapRequests(rows), nil
}

// Approve marks the request approved and credits it in the same
// transaction. An insufficient balance at approval time rolls everything
// back and leaves the request pending, so the admin can retry later.
func (s *service) Approve(ctx context.Context, requestID string) (RedeemResultResponse, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return RedeemResultResponse{}, redeemerrors.ErrRequestNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve begin tx failed", zap.Error(err))
		return RedeemResultResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	req, err := qtx.FindByIDForUpdate(ctx, requestID)
	if err == sql.ErrNoRows {
		return RedeemResultResponse{}, redeemerrors.ErrRequestNotFound
	}
	if err != nil {
		s.logger.Error("approve request lookup failed", zap.Error(err))
		return RedeemResultResponse{}, err
	}
	if req.Redeemed {
		return RedeemResultResponse{}, redeemerrors.ErrAlreadyRedeemed
	}

	if err := qtx.SetApproved(ctx, requestID, true); err != nil {
		s.logger.Error("approve persist failed", zap.Error(err))
		return RedeemResultResponse{}, err
	}

	result, err := s.finalize(ctx, tx, req)
	if err != nil {
		return RedeemResultResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve commit failed", zap.Error(err))
		return RedeemResultResponse{}, err
	}
	s.logger.Info("redeem request approved and redeemed",
		zap.String("request_id", requestID),
		zap.String("user_id", req.UserID.String()),
		zap.Int64("amount", req.Amount),
	)
	s.notify(req.UserID.String(), result)

	return result, nil
}

func (s *service) Deny(ctx context.Context, requestID string) error {
	if _, err := uuid.Parse(requestID); err != nil {
		return redeemerrors.ErrRequestNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("deny begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	req, err := qtx.FindByIDForUpdate(ctx, requestID)
	if err == sql.ErrNoRows {
		return redeemerrors.ErrRequestNotFound
	}
	if err != nil {
		s.logger.Error("deny request lookup failed", zap.Error(err))
		return err
	}
	if req.Redeemed {
		return redeemerrors.ErrAlreadyRedeemed
	}

	if err := qtx.Delete(ctx, requestID); err != nil {
		s.logger.Error("deny persist failed", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("deny commit failed", zap.Error(err))
		return err
	}
	s.logger.Info("redeem request denied",
		zap.String("request_id", requestID),
		zap.String("user_id", req.UserID.String()),
	)
	return nil
}

// Redeem finalizes an approved request on behalf of its owner. It is safe
// to call twice: the second call sees the redeemed flag under lock and is
// rejected before touching balance.
func (s *service) Redeem(ctx context.Context, userID, requestID string) (RedeemResultResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return RedeemResultResponse{}, redeemerrors.ErrInvalidUserID
	}
	if _, err := uuid.Parse(requestID); err != nil {
		return RedeemResultResponse{}, redeemerrors.ErrRequestNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("redeem begin tx failed", zap.Error(err))
		return RedeemResultResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	req, err := qtx.FindByIDForUpdate(ctx, requestID)
	if err == sql.ErrNoRows {
		return RedeemResultResponse{}, redeemerrors.ErrRequestNotFound
	}
	if err != nil {
		s.logger.Error("redeem request lookup failed", zap.Error(err))
		return RedeemResultResponse{}, err
	}
	if req.UserID.String() != userID {
		return RedeemResultResponse{}, redeemerrors.ErrNotRequestOwner
	}
	if req.Redeemed {
		return RedeemResultResponse{}, redeemerrors.ErrAlreadyRedeemed
	}
	if !req.Approved {
		return RedeemResultResponse{}, redeemerrors.ErrNotApproved
	}

	result, err := s.finalize(ctx, tx, req)
	if err != nil {
		return RedeemResultResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("redeem commit failed", zap.Error(err))
		return RedeemResultResponse{}, err
	}
	s.logger.Info("redeem request redeemed",
		zap.String("request_id", requestID),
		zap.String("user_id", userID),
		zap.Int64("amount", req.Amount),
	)
	s.notify(userID, result)

	return result, nil
}

// RedeemDirect converts balance into a claim without an approval round
// trip. Used for small self-service redemptions.
func (s *service) RedeemDirect(ctx context.Context, userID string, payload DirectRedeemPayload) (RedeemResultResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return RedeemResultResponse{}, redeemerrors.ErrInvalidUserID
	}
	if payload.Amount <= 0 {
		return RedeemResultResponse{}, redeemerrors.ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("direct redeem begin tx failed", zap.Error(err))
		return RedeemResultResponse{}, err
	}
	defer tx.Rollback()

	available, err := s.lockedAvailable(ctx, tx, userID)
	if err != nil {
		return RedeemResultResponse{}, err
	}
	if payload.Amount > available {
		return RedeemResultResponse{}, insufficientBalance(payload.Amount, available)
	}

	now := s.now()
	if err := s.claims.WithTx(tx).Insert(ctx, &claims.CreditsClaim{
		ID:        uuid.New(),
		UserID:    userUUID,
		Amount:    payload.Amount,
		Note:      payload.Note,
		ClaimedAt: now,
	}); err != nil {
		s.logger.Error("direct redeem claim insert failed", zap.Error(err))
		return RedeemResultResponse{}, err
	}

	if err := s.enqueueEvent(ctx, tx, events.RedeemRedeemedTopic, events.RedemptionEvent{
		EventType:  events.TypeRedeemRedeemed,
		UserID:     userID,
		Amount:     payload.Amount,
		OccurredAt: now,
	}); err != nil {
		return RedeemResultResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("direct redeem commit failed", zap.Error(err))
		return RedeemResultResponse{}, err
	}
	s.logger.Info("direct redeem recorded",
		zap.String("user_id", userID),
		zap.Int64("amount", payload.Amount),
	)

	result := RedeemResultResponse{
		Amount:    payload.Amount,
		Available: available - payload.Amount,
	}
	s.notify(userID, result)
	return result, nil
}

// finalize performs the balance-deducting half of a redemption inside the
// caller's transaction: lock the user, re-check the balance, record the
// claim, flip the redeemed flag, enqueue the redeemed event. The caller
// already holds the request row lock.
func (s *service) finalize(ctx context.Context, tx *sql.Tx, req *RedeemRequest) (RedeemResultResponse, error) {
	userID := req.UserID.String()

	available, err := s.lockedAvailable(ctx, tx, userID)
	if err != nil {
		return RedeemResultResponse{}, err
	}
	if req.Amount > available {
		s.logger.Warn("redemption rejected, insufficient balance",
			zap.String("request_id", req.ID.String()),
			zap.String("user_id", userID),
			zap.Int64("attempted", req.Amount),
			zap.Int64("available", available),
		)
		return RedeemResultResponse{}, insufficientBalance(req.Amount, available)
	}

	now := s.now()
	if err := s.claims.WithTx(tx).Insert(ctx, &claims.CreditsClaim{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Amount:    req.Amount,
		Note:      req.Note,
		ClaimedAt: now,
	}); err != nil {
		s.logger.Error("finalize claim insert failed", zap.Error(err))
		return RedeemResultResponse{}, err
	}

	if err := s.repo.WithTx(tx).MarkRedeemed(ctx, req.ID.String()); err != nil {
		s.logger.Error("finalize mark redeemed failed", zap.Error(err))
		return RedeemResultResponse{}, err
	}

	if err := s.enqueueEvent(ctx, tx, events.RedeemRedeemedTopic, events.RedemptionEvent{
		EventType:  events.TypeRedeemRedeemed,
		RequestID:  req.ID.String(),
		UserID:     userID,
		Amount:     req.Amount,
		AdminEmail: req.AdminEmail,
		OccurredAt: now,
	}); err != nil {
		return RedeemResultResponse{}, err
	}

	return RedeemResultResponse{
		RequestID: req.ID.String(),
		Amount:    req.Amount,
		Available: available - req.Amount,
	}, nil
}

// lockedAvailable serializes on the user row, then reads both ledgers
// through the same transaction so the snapshot is consistent with the lock.
func (s *service) lockedAvailable(ctx context.Context, tx *sql.Tx, userID string) (int64, error) {
	if err := s.users.WithTx(tx).LockForBalance(ctx, userID); err != nil {
		s.logger.Error("user balance lock failed", zap.Error(err))
		return 0, err
	}

	earned, err := s.credits.WithTx(tx).SumEarned(ctx, userID)
	if err != nil {
		s.logger.Error("earned sum failed", zap.Error(err))
		return 0, err
	}
	claimed, err := s.claims.WithTx(tx).SumClaimed(ctx, userID)
	if err != nil {
		s.logger.Error("claimed sum failed", zap.Error(err))
		return 0, err
	}

	available := earned - claimed
	if available < 0 {
		available = 0
	}
	return available, nil
}

func (s *service) enqueueEvent(ctx context.Context, tx *sql.Tx, topic string, event events.RedemptionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("event payload marshal failed", zap.Error(err))
		return err
	}
	err = s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: "redeem_request",
		AggregateID:   event.UserID,
		EventType:     event.EventType,
		Topic:         topic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		s.logger.Error("outbox enqueue failed",
			zap.String("topic", topic),
			zap.Error(err),
		)
	}
	return err
}

func (s *service) notify(userID string, event any) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(userID, event)
}

func insufficientBalance(attempted, available int64) error {
	return redeemerrors.ErrInsufficientBalance.WithDetails(redeemerrors.BalanceDetails{
		Attempted: attempted,
		Available: available,
	})
}

func mapRequest(r RedeemRequest) RequestResponse {
	return RequestResponse{
		ID:         r.ID.String(),
		UserID:     r.UserID.String(),
		Amount:     r.Amount,
		Note:       r.Note,
		AdminEmail: r.AdminEmail,
		Approved:   r.Approved,
		Redeemed:   r.Redeemed,
		CreatedAt:  r.CreatedAt.Format(time.RFC3339),
	}
}

func mapRequests(rows []RedeemRequest) []RequestResponse {
	res := make([]RequestResponse, len(rows))
	for i, row := range rows {
		res[i] = mapRequest(row)
	}
	return res
}
