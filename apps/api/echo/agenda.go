package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/iiw24/turma/core/agenda"
)

type CleanupResponse struct {
	Removed int `json:"removed"`
}

type agendaApi struct {
	svc      AgendaService
	validate *validator.Validate
}

func registerAgendaAPI(g *echo.Group, session echo.MiddlewareFunc, svc AgendaService, validate *validator.Validate) {
	api := agendaApi{svc: svc, validate: validate}

	ag := g.Group("/agenda")

	// un-authed endpoints
	ag.GET("/:classId", api.query)

	// authed endpoints
	ag.POST("/cleanup", api.cleanup, session)
	ag.POST("/:classId", api.create, session)
	ag.PUT("/:classId/:activityId", api.update, session)
	ag.DELETE("/:classId/:activityId", api.destroy, session)
}

func pathClassID(ctx echo.Context) (string, error) {
	return agenda.CleanClassID(ctx.Param("classId"))
}

// Handlers

func (api *agendaApi) query(ctx echo.Context) error {
	classID, err := pathClassID(ctx)
	if err != nil {
		return err
	}
	items, err := api.svc.Query(ctx.Request().Context(), classID)
	if err != nil {
		return errors.Wrap(err, "querying agenda")
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *agendaApi) create(ctx echo.Context) error {
	classID, err := pathClassID(ctx)
	if err != nil {
		return err
	}
	var data agenda.ItemInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ItemInput")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	item, err := api.svc.Add(ctx.Request().Context(), classID, data)
	if err != nil {
		return errors.Wrap(err, "adding agenda item")
	}
	return ctx.JSON(http.StatusCreated, item)
}

func (api *agendaApi) update(ctx echo.Context) error {
	classID, err := pathClassID(ctx)
	if err != nil {
		return err
	}
	var data agenda.ItemInput
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ItemInput")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	item, err := api.svc.Update(ctx.Request().Context(), classID, ctx.Param("activityId"), data)
	if err != nil {
		return errors.Wrap(err, "updating agenda item")
	}
	return ctx.JSON(http.StatusOK, item)
}

func (api *agendaApi) destroy(ctx echo.Context) error {
	classID, err := pathClassID(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), classID, ctx.Param("activityId")); err != nil {
		return errors.Wrap(err, "deleting agenda item")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "agenda item deleted"})
}

func (api *agendaApi) cleanup(ctx echo.Context) error {
	removed, err := api.svc.Cleanup(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "cleaning up agenda")
	}
	return ctx.JSON(http.StatusOK, CleanupResponse{Removed: removed})
}
