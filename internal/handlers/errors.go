package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/roomcare/housekeeping-backend/internal/middleware"
	"github.com/roomcare/housekeeping-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

var kindStatus = map[services.ErrorKind]int{
	services.KindValidation: http.StatusBadRequest,
	services.KindForbidden:  http.StatusForbidden,
	services.KindNotFound:   http.StatusNotFound,
	services.KindConflict:   http.StatusConflict,
	services.KindInternal:   http.StatusInternalServerError,
}

var kindError = map[services.ErrorKind]string{
	services.KindValidation: "validation_error",
	services.KindForbidden:  "forbidden",
	services.KindNotFound:   "not_found",
	services.KindConflict:   "conflict",
	services.KindInternal:   "internal_error",
}

// respondError writes err as an ErrorResponse. Anything that is not a
// ServiceError is reported as a generic 500.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	se, ok := services.AsServiceError(err)
	if !ok {
		se = &services.ServiceError{
			Kind:    services.KindInternal,
			Code:    services.CodeInternal,
			Message: "internal server error",
			Err:     err,
		}
	}

	status, known := kindStatus[se.Kind]
	if !known {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		logger.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		c.JSON(status, ErrorResponse{
			Error:   "internal_error",
			Message: "internal server error",
			Code:    services.CodeInternal,
		})
		return
	}

	c.JSON(status, ErrorResponse{
		Error:   kindError[se.Kind],
		Message: se.Message,
		Code:    se.Code,
		Details: se.Details,
	})
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}

// requireUser fetches the authenticated caller or writes a 401
func requireUser(c *gin.Context) (middleware.UserContext, bool) {
	userCtx, exists := middleware.GetUserContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authenticated",
		})
		return middleware.UserContext{}, false
	}
	return userCtx, true
}

// pathID parses the :id path parameter or writes a 400
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid " + name + " id",
			Code:    "INVALID_ID",
		})
		return uuid.Nil, false
	}
	return id, true
}
