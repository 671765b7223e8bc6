package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"day-planner/internal/errors"
	"day-planner/internal/logging"
	"day-planner/internal/validation"
)

// HeaderUserID carries the id of the user a request acts for.
const HeaderUserID = "X-User-ID"

const userKey = "user_id"

// requireUser rejects requests without a user id and stores it on the
// context for handlers.
func requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := c.Request().Header.Get(HeaderUserID)
		if user == "" {
			return errors.NewPermissionError("access", "planner")
		}
		c.Set(userKey, user)
		return next(c)
	}
}

func userID(c echo.Context) string {
	id, _ := c.Get(userKey).(string)
	return id
}

type errorPayload struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func errorBody(code, message string, fields []string) map[string]errorPayload {
	return map[string]errorPayload{"error": {Code: code, Message: message, Fields: fields}}
}

func httpStatus(err error) int {
	if validation.IsValidationError(err) {
		return http.StatusBadRequest
	}
	return errors.HTTPStatus(err)
}

// customErrorHandler renders every error as {"error": {...}} with a status
// taken from the error taxonomy.
func customErrorHandler(logger *logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			code = httpStatus(err)
			body interface{}
		)

		switch e := err.(type) {
		case *echo.HTTPError:
			code = e.Code
			msg, ok := e.Message.(string)
			if !ok {
				msg = http.StatusText(code)
			}
			body = errorBody("HTTP_ERROR", msg, nil)
		case *validation.ValidationError:
			fields := make([]string, 0, len(e.Errors))
			for _, fe := range e.Errors {
				fields = append(fields, fe.Field)
			}
			body = errorBody("VALIDATION_ERROR", e.GetUserFriendlyMessage(), fields)
		default:
			var fields []string
			if appErr, ok := errors.AsAppError(err); ok {
				if v, ok := appErr.GetContext("fields"); ok {
					fields, _ = v.([]string)
				}
			}
			body = errorBody(errors.GetErrorCode(err), errors.GetUserMessage(err), fields)
		}

		if code >= http.StatusInternalServerError || errors.ShouldLogError(err) {
			logger.WithError(err).Errorw("request failed", "path", c.Request().URL.Path, "status", code)
		}

		var sendErr error
		if c.Request().Method == http.MethodHead {
			sendErr = c.NoContent(code)
		} else {
			sendErr = c.JSON(code, body)
		}
		if sendErr != nil {
			logger.WithError(sendErr).Errorw("error sending response")
		}
	}
}
