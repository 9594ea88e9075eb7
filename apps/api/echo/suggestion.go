package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/iiw24/turma/core/suggestion"
)

type SuccessResponse struct {
	Success bool `json:"success"`
}

type suggestionApi struct {
	svc SuggestionService
}

func registerSuggestionAPI(g *echo.Group, svc SuggestionService) {
	api := suggestionApi{svc: svc}
	g.POST("/suggestions", api.create)
}

func (api *suggestionApi) create(ctx echo.Context) error {
	var data suggestion.Request
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to suggestion.Request")
	}
	// limited per client: first X-Forwarded-For entry, else X-Real-IP, else remote address
	if err := api.svc.Submit(ctx.Request().Context(), ctx.RealIP(), data); err != nil {
		return errors.Wrap(err, "submitting suggestion")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}
