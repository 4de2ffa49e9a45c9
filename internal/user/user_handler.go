package user

import (
	"net/http"

	"go-incentive/internal/shared/apperror"
	"go-incentive/internal/shared/response"

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

func (h *Handler) Incentives(c *gin.Context) {
	// Admins are outside the scheme; their rates are always zero.
	if c.GetString("role") == RoleAdmin {
		response.Success(c, http.StatusOK, IncentivesResponse{}, nil)
		return
	}

	resp, err := h.service.GetIncentives(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) AdminEmails(c *gin.Context) {
	emails, err := h.service.GetAdminEmails(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if emails == nil {
		emails = []string{}
	}
	response.Success(c, http.StatusOK, AdminEmailsResponse{Admins: emails}, nil)
}
