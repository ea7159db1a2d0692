package helper

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"rayob-cms/models"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the error half of the response envelope.
type ErrorBody struct {
	Code    models.ErrorKind `json:"code"`
	Message string           `json:"message"`
	Details interface{}      `json:"details,omitempty"`
}

// Envelope wraps every response body.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// HTTPHelper writes envelopes and maps error kinds to status codes.
type HTTPHelper struct {
	Logger *slog.Logger
}

func NewHTTPHelper(logger *slog.Logger) *HTTPHelper {
	return &HTTPHelper{Logger: logger}
}

var statusByKind = map[models.ErrorKind]int{
	models.KindInvalidCredentials: http.StatusUnauthorized,
	models.KindInvalidToken:       http.StatusUnauthorized,
	models.KindExpiredToken:       http.StatusUnauthorized,
	models.KindUnauthenticated:    http.StatusUnauthorized,
	models.KindForbidden:          http.StatusForbidden,
	models.KindValidation:         http.StatusBadRequest,
	models.KindNotFound:           http.StatusNotFound,
	models.KindConflict:           http.StatusConflict,
	models.KindRateLimited:        http.StatusTooManyRequests,
	models.KindTimeout:            http.StatusGatewayTimeout,
	models.KindInternal:           http.StatusInternalServerError,
}

// GetStatusCode returns the HTTP status for err. Unclassified errors are
// internal.
func (u *HTTPHelper) GetStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var appErr *models.Error
	if errors.As(err, &appErr) {
		if status, ok := statusByKind[appErr.Kind]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}

func (u *HTTPHelper) SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// SendError writes the envelope for err. Classified errors are shown as
// they are; anything else is logged in full and reported generically.
func (u *HTTPHelper) SendError(c *gin.Context, err error) {
	var appErr *models.Error
	if !errors.As(err, &appErr) {
		u.logger().Error("request failed",
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(RequestIDKey),
		)
		appErr = &models.Error{Kind: models.KindInternal, Message: "internal server error"}
	}

	c.AbortWithStatusJSON(u.GetStatusCode(appErr), Envelope{
		Success: false,
		Error: &ErrorBody{
			Code:    appErr.Kind,
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}

func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string, details interface{}) {
	u.SendError(c, models.NewValidationError(message, details))
}

// BindJSON decodes the request body into dst, reporting malformed JSON as
// a validation error.
func (u *HTTPHelper) BindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		u.SendBadRequest(c, "malformed JSON body", err.Error())
		return false
	}
	return true
}

// ParseID reads a positive integer id from raw, writing a 400 on failure.
func (u *HTTPHelper) ParseID(c *gin.Context, raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		u.SendBadRequest(c, "invalid id", map[string]string{"id": raw})
		return 0, false
	}
	return uint(id), true
}

func (u *HTTPHelper) logger() *slog.Logger {
	if u.Logger == nil {
		return slog.Default()
	}
	return u.Logger
}

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "X-Request-ID"
