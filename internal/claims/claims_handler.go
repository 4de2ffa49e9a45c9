package claims

import (
	"net/http"
	"strconv"

	"go-incentive/internal/shared/apperror"
	"go-incentive/internal/shared/response"
	"go-incentive/internal/timewindow"
	"go-incentive/internal/user"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	now     timewindow.Clock
}

func NewHandler(service Service, now timewindow.Clock) *Handler {
	if now == nil {
		now = timewindow.UTCNow
	}
	return &Handler{service: service, now: now}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// isAdmin reports whether the caller is an administrator. Admins do not
// participate in the incentive scheme, so every claim view returns a
// structurally identical zero payload for them, decided here before the
// engine is ever invoked.
func isAdmin(c *gin.Context) bool {
	return c.GetString("role") == user.RoleAdmin
}

func (h *Handler) monthQuery(c *gin.Context) (int, int, bool) {
	now := h.now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil {
		return 0, 0, false
	}
	return year, month, true
}

func (h *Handler) Today(c *gin.Context) {
	if isAdmin(c) {
		response.Success(c, http.StatusOK, TodayClaimResponse{
			Date: timewindow.FormatDate(timewindow.BusinessDate(h.now())),
		}, nil)
		return
	}

	resp, err := h.service.TodayClaim(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Month(c *gin.Context) {
	year, month, ok := h.monthQuery(c)
	if !ok {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid year or month", nil)
		return
	}

	if isAdmin(c) {
		response.Success(c, http.StatusOK, MonthClaimsResponse{
			Year:   year,
			Month:  month,
			Claims: []ClaimResponse{},
		}, nil)
		return
	}

	resp, err := h.service.MonthClaims(c.Request.Context(), c.GetString("user_id"), year, month)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MonthSummary(c *gin.Context) {
	year, month, ok := h.monthQuery(c)
	if !ok {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid year or month", nil)
		return
	}

	if isAdmin(c) {
		response.Success(c, http.StatusOK, MonthSummaryResponse{Year: year, Month: month}, nil)
		return
	}

	resp, err := h.service.MonthSummary(c.Request.Context(), c.GetString("user_id"), year, month)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) MonthEarned(c *gin.Context) {
	year, month, ok := h.monthQuery(c)
	if !ok {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid year or month", nil)
		return
	}

	if isAdmin(c) {
		response.Success(c, http.StatusOK, MonthEarningsResponse{
			Year:  year,
			Month: month,
			Days:  []DayEarningsResponse{},
		}, nil)
		return
	}

	resp, err := h.service.MonthEarnings(c.Request.Context(), c.GetString("user_id"), year, month)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Available(c *gin.Context) {
	if isAdmin(c) {
		response.Success(c, http.StatusOK, AvailableResponse{}, nil)
		return
	}

	resp, err := h.service.Available(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
