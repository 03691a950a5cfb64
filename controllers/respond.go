package controllers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel-desk/apperrors"
	"hotel-desk/middleware"
	"hotel-desk/utils"
)

// respondError renders err with the status of its code. Storage failures
// are logged with the request id and reach the client as a generic
// message.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.Storage("unexpected error", err)
	}
	status := apperrors.HTTPStatus(appErr.Code)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(c.Request.Context(), appErr.Message,
			"request_id", middleware.RequestIDFrom(c), "path", c.FullPath(), "error", appErr.Err)
		_ = c.Error(err)
	}
	utils.JSONError(c, status, string(appErr.Code), apperrors.PublicMessage(appErr), appErr.Fields)
}

// bindBody accepts JSON or form bodies.
func bindBody(c *gin.Context, logger *slog.Logger, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		logger.DebugContext(c.Request.Context(), "binding error", "error", err, "request_id", middleware.RequestIDFrom(c))
		utils.JSONError(c, http.StatusBadRequest, string(apperrors.CodeValidation), "Invalid request payload", nil)
		return false
	}
	return true
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, string(apperrors.CodeValidation), "id must be a positive integer", nil)
		return 0, false
	}
	return uint(id), true
}

// Checkbox is a boolean that also accepts HTML checkbox values ("on")
// from form posts.
type Checkbox bool

func (b *Checkbox) UnmarshalParam(param string) error {
	switch strings.ToLower(strings.TrimSpace(param)) {
	case "on", "true", "1", "yes":
		*b = true
	case "", "off", "false", "0", "no":
		*b = false
	default:
		return fmt.Errorf("invalid checkbox value %q", param)
	}
	return nil
}

func (b *Checkbox) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = Checkbox(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid checkbox value %s", data)
	}
	return b.UnmarshalParam(s)
}
