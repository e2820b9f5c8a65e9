package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shopit/internal/apperr"
	"github.com/Skotchmaster/shopit/internal/logging"
	"github.com/Skotchmaster/shopit/internal/repo"
)

const (
	MsgInvalidID      = "Resource not found. Invalid: _id"
	MsgNotFound       = "Resource not found"
	MsgTokenExpired   = "JSON Web Token is expired. Try Again!!!"
	MsgTokenInvalid   = "JSON Web Token is invalid. Try Again!!!"
	MsgInternalServer = "Internal Server Error"
)

type errorBody struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	ErrMessage string `json:"errMessage,omitempty"`
	Stack      string `json:"stack,omitempty"`
}

// ErrorHandler renders every handler error as {success:false, message}. With
// dev set the raw error text and the captured stack are added.
func ErrorHandler(dev bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, msg := translate(err)
		l := logging.FromContext(c.Request().Context())
		if status >= http.StatusInternalServerError {
			l.Error("request_failed", "status", status, "error", err)
		}

		body := errorBody{Message: msg}
		if dev {
			body.ErrMessage = err.Error()
			body.Stack = apperr.Stack(err)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			l.Error("error_response_failed", "error", werr)
		}
	}
}

func translate(err error) (int, string) {
	var (
		ae    *apperr.Error
		dup   *repo.DuplicateError
		verrs validator.ValidationErrors
		he    *echo.HTTPError
	)

	switch {
	case errors.As(err, &ae):
		return ae.Status(), ae.Message
	case errors.Is(err, repo.ErrInvalidID):
		return http.StatusBadRequest, MsgInvalidID
	case errors.As(err, &dup):
		return http.StatusConflict, fmt.Sprintf("Duplicate %s entered", dup.Field)
	case errors.Is(err, repo.ErrNotFound):
		return http.StatusNotFound, MsgNotFound
	case errors.As(err, &verrs):
		return http.StatusBadRequest, validationMessage(verrs)
	case errors.Is(err, jwt.ErrTokenExpired):
		return http.StatusBadRequest, MsgTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt.ErrTokenInvalidClaims),
		errors.Is(err, jwt.ErrTokenNotValidYet):
		return http.StatusBadRequest, MsgTokenInvalid
	case errors.As(err, &he):
		if m, ok := he.Message.(string); ok {
			return he.Code, m
		}
		return he.Code, http.StatusText(he.Code)
	default:
		return http.StatusInternalServerError, MsgInternalServer
	}
}
