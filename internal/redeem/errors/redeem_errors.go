package redeemerrors

import (
	"net/http"

	"go-incentive/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amount must be a positive integer",
		http.StatusBadRequest,
	)
	ErrUnknownAdminEmail = apperror.New(
		apperror.CodeInvalidInput,
		"admin_email is not a configured approver",
		http.StatusBadRequest,
	)
	ErrNoAdminsConfigured = apperror.New(
		apperror.CodeConfigurationError,
		"no admin approvers are configured",
		http.StatusServiceUnavailable,
	)
	ErrAdminCannotRedeem = apperror.New(
		apperror.CodeForbidden,
		"admins cannot redeem credits",
		http.StatusForbidden,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"redeem request not found",
		http.StatusNotFound,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"redeem request belongs to another user",
		http.StatusForbidden,
	)
	ErrNotApproved = apperror.New(
		apperror.CodeInvalidState,
		"redeem request has not been approved",
		http.StatusBadRequest,
	)
	ErrAlreadyRedeemed = apperror.New(
		apperror.CodeInvalidState,
		"redeem request has already been redeemed",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"insufficient available balance",
		http.StatusBadRequest,
	)
)

// BalanceDetails travels with ErrInsufficientBalance so the UI can show
// the attempted amount against what is actually available.
type BalanceDetails struct {
	Attempted int64 `json:"attempted"`
	Available int64 `json:"available"`
}
