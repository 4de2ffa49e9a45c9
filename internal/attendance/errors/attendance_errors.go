package attendanceerrors

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
	ErrSessionAlreadyOpen = apperror.New(
		apperror.CodeConflict,
		"an attendance session is already open",
		http.StatusConflict,
	)
	ErrNoActiveSession = apperror.New(
		apperror.CodeInvalidState,
		"no active login session",
		http.StatusBadRequest,
	)
)
