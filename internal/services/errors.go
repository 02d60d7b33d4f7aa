package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a rejected operation
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindForbidden  ErrorKind = "forbidden"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindInternal   ErrorKind = "internal"
)

// Machine-readable error codes returned to clients
const (
	CodeInvalidTime         = "INVALID_TIME"
	CodeInvalidDate         = "INVALID_DATE"
	CodeDateNotToday        = "DATE_NOT_TODAY"
	CodeSlotCrossesMidnight = "SLOT_CROSSES_MIDNIGHT"
	CodeInvalidServiceType  = "INVALID_SERVICE_TYPE"
	CodeNoFacility          = "NO_FACILITY"
	CodeDailyLimitReached   = "DAILY_LIMIT_REACHED"
	CodeOverlappingRequest  = "OVERLAPPING_REQUEST"
	CodeInvalidSchedule     = "INVALID_SCHEDULE"
	CodeRoleNotAllowed      = "ROLE_NOT_ALLOWED"
	CodeCrossFacility       = "CROSS_FACILITY"
	CodeNotAssignee         = "NOT_ASSIGNEE"
	CodeRequestNotFound     = "REQUEST_NOT_FOUND"
	CodeTaskNotFound        = "TASK_NOT_FOUND"
	CodeHousekeeperNotFound = "HOUSEKEEPER_NOT_FOUND"
	CodeItemNotFound        = "ITEM_NOT_FOUND"
	CodeHousekeeperInactive = "HOUSEKEEPER_INACTIVE"
	CodeHousekeeperBusy     = "HOUSEKEEPER_BUSY"
	CodeNoHousekeeper       = "NO_HOUSEKEEPER_AVAILABLE"
	CodeInvalidState        = "INVALID_STATE"
	CodeTooEarly            = "TOO_EARLY"
	CodeInternal            = "INTERNAL_ERROR"
)

// ServiceError is a caller-visible rejection with a stable code
type ServiceError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, code, message string) *ServiceError {
	return &ServiceError{Kind: kind, Code: code, Message: message}
}

func validationError(code, format string, args ...interface{}) *ServiceError {
	return newError(KindValidation, code, fmt.Sprintf(format, args...))
}

func forbiddenError(code, format string, args ...interface{}) *ServiceError {
	return newError(KindForbidden, code, fmt.Sprintf(format, args...))
}

func notFoundError(code, format string, args ...interface{}) *ServiceError {
	return newError(KindNotFound, code, fmt.Sprintf(format, args...))
}

func conflictError(code, format string, args ...interface{}) *ServiceError {
	return newError(KindConflict, code, fmt.Sprintf(format, args...))
}

// internalError hides err behind a generic message
func internalError(err error) *ServiceError {
	return &ServiceError{Kind: KindInternal, Code: CodeInternal, Message: "internal server error", Err: err}
}

// AsServiceError extracts a ServiceError from err
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
