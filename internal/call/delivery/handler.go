package delivery

import (
	"errors"
	"net/http"

	"callboard/internal/call/usecase"
	"callboard/pkg/vapi"

	"github.com/gin-gonic/gin"
)

// Error bodies returned to the dashboard.
const (
	MsgAPIKeyNotSet = "API key not set"
	MsgFetchFailed  = "Failed to fetch call records"
)

// CallHandler is the Record Proxy.
type CallHandler struct {
	callUsecase usecase.CallUsecase
}

func NewCallHandler(callUsecase usecase.CallUsecase) *CallHandler {
	return &CallHandler{
		callUsecase: callUsecase,
	}
}

// ListCalls relays the provider's call list.
// GET /api/calls
func (h *CallHandler) ListCalls(c *gin.Context) {
	body, err := h.callUsecase.ListCalls(c.Request.Context())
	if err != nil {
		var statusErr *vapi.StatusError
		switch {
		case errors.Is(err, usecase.ErrAPIKeyNotSet):
			c.JSON(http.StatusInternalServerError, gin.H{"error": MsgAPIKeyNotSet})
		case errors.As(err, &statusErr):
			c.JSON(statusErr.Code, gin.H{"error": statusErr.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": MsgFetchFailed})
		}
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
