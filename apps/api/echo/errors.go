package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Tawhide16/CampusKit/core"
	"github.com/Tawhide16/CampusKit/core/budget"
	"github.com/Tawhide16/CampusKit/core/planner"
	"github.com/Tawhide16/CampusKit/core/profile"
	"github.com/Tawhide16/CampusKit/core/qabank"
	"github.com/Tawhide16/CampusKit/core/quiz"
	"github.com/Tawhide16/CampusKit/core/schedule"
)

var errHttpNotFound = echo.NewHTTPError(http.StatusNotFound, "not found")

// domainErrors maps the services' sentinel errors to a response status.
var domainErrors = []struct {
	err  error
	code int
}{
	{schedule.ErrNotFound, http.StatusNotFound},
	{budget.ErrTransactionNotFound, http.StatusNotFound},
	{budget.ErrCategoryNotFound, http.StatusNotFound},
	{qabank.ErrNotFound, http.StatusNotFound},
	{planner.ErrGoalNotFound, http.StatusNotFound},
	{planner.ErrTaskNotFound, http.StatusNotFound},
	{profile.ErrNotFound, http.StatusNotFound},
	{profile.ErrUnauthenticated, http.StatusUnauthorized},
	{budget.ErrCategoryInUse, http.StatusConflict},
	{budget.ErrCategoryTypeInUse, http.StatusConflict},
	{quiz.ErrInvalidState, http.StatusConflict},
	{quiz.ErrNotInProgress, http.StatusConflict},
	{quiz.ErrNotStarted, http.StatusConflict},
	{quiz.ErrNoQuestions, http.StatusBadRequest},
	{quiz.ErrUnknownQuestion, http.StatusBadRequest},
	{qabank.ErrUnknownSetting, http.StatusBadRequest},
}

func domainErrorCode(err error) (int, bool) {
	for _, de := range domainErrors {
		if errors.Is(err, de.err) {
			return de.code, true
		}
	}
	return 0, false
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = origErr.Message
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			message = core.TranslateErrors(origErr, translator)
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *qabank.ImportError:
			code = http.StatusBadRequest
			message = origErr.Error()
		default:
			if dCode, ok := domainErrorCode(err); ok {
				code = dCode
				message = errors.Cause(err).Error()
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			args := []interface{}{errors.Wrap(err, msg)}
			if usr := getContextUser(ctx); usr != nil {
				args = append(args, *usr)
			}
			logger.Error(msg, args...)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
