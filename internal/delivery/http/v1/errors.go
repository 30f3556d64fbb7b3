package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-manager/internal/services"
)

const (
	entityTask = "task"
	entityTag  = "tag"
)

const (
	errKeyIDExists       = "idexists"
	errKeyIDNull         = "idnull"
	errKeyIDInvalid      = "idinvalid"
	errKeyIDNotFound     = "idnotfound"
	errKeyUserNull       = "usernull"
	errKeyTagNotFound    = "tagnotfound"
	errKeyInvalidDay     = "invalidday"
	errKeyInvalidWeek    = "invalidweek"
	errKeyInvalidMonth   = "invalidmonth"
	errKeyInvalidPayload = "invalidpayload"
	errKeyInvalidPaging  = "invalidpaging"
	errKeyConflict       = "conflict"
)

var (
	errInvalidRequestBody = errors.New("invalid request body")
	errInvalidID          = errors.New("invalid id")
)

// apiError is rendered as a problem body. A non-empty ErrorKey is also
// exposed through the X-<app>-error header.
type apiError struct {
	Title      string `json:"title"`
	Status     int    `json:"status"`
	EntityName string `json:"entityName,omitempty"`
	ErrorKey   string `json:"errorKey,omitempty"`
	Message    string `json:"message"`
}

func newAPIError(status int, message string) apiError {
	return apiError{
		Title:   http.StatusText(status),
		Status:  status,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func (h *handlerImpl) abort(c *gin.Context, err apiError) {
	if err.ErrorKey != "" {
		c.Header(h.headerName("error"), "error."+err.ErrorKey)
		c.Header(h.headerName("params"), err.EntityName)
	}
	c.AbortWithStatusJSON(err.Status, err)
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(entity, key, message string) apiError {
	err := newAPIError(http.StatusBadRequest, message)
	err.EntityName = entity
	err.ErrorKey = key
	return err
}

func newNotFoundError(entity, message string) apiError {
	err := newAPIError(http.StatusNotFound, message)
	err.EntityName = entity
	err.ErrorKey = errKeyIDNotFound
	return err
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newConflictError(entity, message string) apiError {
	err := newAPIError(http.StatusConflict, message)
	err.EntityName = entity
	err.ErrorKey = errKeyConflict
	return err
}

// serviceError maps errors returned by the services that every endpoint
// treats the same way. Not-found handling differs per endpoint and is left
// to the caller.
func serviceError(entity string, err error) apiError {
	switch {
	case errors.Is(err, services.ErrTaskIDExists), errors.Is(err, services.ErrTagIDExists):
		return newBadRequestError(entity, errKeyIDExists, "A new "+entity+" cannot already have an ID")
	case errors.Is(err, services.ErrTagNotFound) && entity == entityTask:
		return newBadRequestError(entityTag, errKeyTagNotFound, "Referenced tag not found")
	case errors.Is(err, services.ErrInvalidSort):
		return newBadRequestError(entity, errKeyInvalidPaging, err.Error())
	case errors.Is(err, services.ErrConflict):
		return newConflictError(entity, "Conflicting data")
	case errors.Is(err, services.ErrTaskNotFound), errors.Is(err, services.ErrTagNotFound):
		return newNotFoundError(entity, "Entity not found")
	default:
		return newStatusTextError(http.StatusInternalServerError)
	}
}
