package redeem

import (
	"net/http"

	redeemerrors "go-incentive/internal/redeem/errors"
	"go-incentive/internal/shared/apperror"
	"go-incentive/internal/shared/response"
	"go-incentive/internal/user"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// isAdmin reports whether the caller is an administrator. Admins do not
// participate in the incentive scheme, so every balance-deducting endpoint
// rejects them here before the engine is ever invoked.
func isAdmin(c *gin.Context) bool {
	return c.GetString("role") == user.RoleAdmin
}

func (h *Handler) CreateRequest(c *gin.Context) {
	if isAdmin(c) {
		writeServiceError(c, redeemerrors.ErrAdminCannotRedeem)
		return
	}

	var payload CreateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.CreateRequest(c.Request.Context(), c.GetString("user_id"), payload)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ListRequests(c *gin.Context) {
	resp, err := h.service.ListRequests(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListAllRequests(c *gin.Context) {
	resp, err := h.service.ListAllRequests(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	resp, err := h.service.Approve(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Deny(c *gin.Context) {
	if err := h.service.Deny(c.Request.Context(), c.Param("id")); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"denied": true}, nil)
}

func (h *Handler) Redeem(c *gin.Context) {
	if isAdmin(c) {
		writeServiceError(c, redeemerrors.ErrAdminCannotRedeem)
		return
	}

	resp, err := h.service.Redeem(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RedeemDirect(c *gin.Context) {
	if isAdmin(c) {
		writeServiceError(c, redeemerrors.ErrAdminCannotRedeem)
		return
	}

	var payload DirectRedeemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.RedeemDirect(c.Request.Context(), c.GetString("user_id"), payload)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
