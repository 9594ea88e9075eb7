package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/iiw24/turma/core"
	"github.com/iiw24/turma/core/agenda"
	"github.com/iiw24/turma/core/suggestion"
)

var (
	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")

	msgConflict = "the agenda was changed meanwhile, try again"
	msgRemote   = "agenda storage unavailable"
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, auth *sessionAuth) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		var (
			httpErr   *echo.HTTPError
			fldErrs   validator.ValidationErrors
			valErr    *core.ValidationError
			serverErr bool
		)
		switch {
		case errors.As(err, &httpErr):
			if httpErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = errUnauthorized.Message
				break
			}
			if httpErr.Internal != nil {
				if herr, ok := httpErr.Internal.(*echo.HTTPError); ok {
					httpErr = herr
				}
			}
			code = httpErr.Code
			message = httpErr.Message
		case errors.As(err, &fldErrs):
			msgs := make(map[string]string, len(fldErrs))
			for _, vErr := range fldErrs {
				msgs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = msgs
		case errors.As(err, &valErr):
			msgs := make(map[string]string, len(valErr.Fields))
			for _, fErr := range valErr.Fields {
				msgs[fErr.Field] = fErr.Error
			}
			code = http.StatusBadRequest
			message = msgs
		case errors.Is(err, agenda.ErrClassNotFound):
			code = http.StatusNotFound
			message = agenda.ErrClassNotFound.Error()
		case errors.Is(err, agenda.ErrNotFound):
			code = http.StatusNotFound
			message = agenda.ErrNotFound.Error()
		case errors.Is(err, suggestion.ErrRateLimited):
			code = http.StatusTooManyRequests
			message = suggestion.ErrRateLimited.Error()
		case agenda.IsConflict(err):
			code = http.StatusConflict
			message = msgConflict
			serverErr = true
		case agenda.IsRemoteRead(err), agenda.IsRemoteWrite(err):
			code = http.StatusInternalServerError
			message = msgRemote
			serverErr = true
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(http.StatusInternalServerError)
			serverErr = true
		}

		if serverErr {
			msg := http.StatusText(code)
			logger.Error(msg, errors.Wrap(err, msg), auth.contextPerson(ctx))
		}

		if ctx.Echo().Debug {
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
