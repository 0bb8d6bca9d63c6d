package apierr

import (
	"errors"
	"net/http"

	"github.com/2beens/portfolioapi/pkg"
	"github.com/2beens/portfolioapi/pkg/validation"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	msgNotAuthorized    = "Not authorized"
	msgResourceNotFound = "Resource not found"
	msgDuplicateField   = "Duplicate field value entered"
	msgServerError      = "Server Error"
	msgTooManyRequests  = "Too many requests, please try again later"
	msgRouteNotFound    = "Route not found"
	msgMethodNotAllowed = "Method not allowed"
)

// ErrInvalidID is returned for path ids that are not valid uuids, rendered as not found
var ErrInvalidID = errors.New("invalid id")

// Error is an API error with the status and message sent to the client
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func Validation(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Unauthenticated() *Error {
	return New(http.StatusUnauthorized, msgNotAuthorized)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Conflict signals an already existing resource. Rendered as 400, clients rely on it.
func Conflict(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func TooManyRequests() *Error {
	return New(http.StatusTooManyRequests, msgTooManyRequests)
}

// ParseID parses a resource id taken from the request path
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}

// Respond writes err as a JSON error response. Unknown errors are logged and hidden behind a generic 500.
func Respond(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *Error
	var validationErr *validation.Error
	switch {
	case errors.As(err, &apiErr):
		pkg.WriteError(w, apiErr.Status, apiErr.Message)
	case errors.As(err, &validationErr):
		pkg.WriteError(w, http.StatusBadRequest, validationErr.Error())
	case pkg.IsUniqueViolationError(err):
		log.Debugf("unique violation on [%s %s]: %s", r.Method, r.URL.Path, pkg.UniqueViolationConstraint(err))
		pkg.WriteError(w, http.StatusBadRequest, msgDuplicateField)
	case errors.Is(err, ErrInvalidID):
		pkg.WriteError(w, http.StatusNotFound, msgResourceNotFound)
	default:
		log.Errorf("[%s %s] failed: %s", r.Method, r.URL.Path, err)
		pkg.WriteError(w, http.StatusInternalServerError, msgServerError)
	}
}

func HandleNotFound(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteError(w, http.StatusNotFound, msgRouteNotFound)
}

func HandleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}
