package echoapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iiw24/turma/core"
	"github.com/iiw24/turma/core/timetable"
)

type (
	// Envelope wraps every timetable response.
	Envelope struct {
		Content interface{} `json:"content"`
		OK      bool        `json:"ok"`
	}

	ScheduleRequest struct {
		ClassName string `json:"className"`
	}

	RoomRequest struct {
		RoomName string `json:"roomName"`
	}
)

var errEnvelope = Envelope{Content: "Error", OK: false}

type timetableApi struct {
	svc    TimetableService
	logger core.Logger
}

func registerTimetableAPI(g *echo.Group, svc TimetableService, logger core.Logger) {
	api := timetableApi{svc: svc, logger: logger}

	g.POST("/schedule", api.byClass)
	g.POST("/rooms", api.byRoom)
	g.GET("/rooms", api.roomIndex)
}

// respond writes doc, normalized when asked to, or the error envelope.
// Lookup failures never escape as errors: clients only get {content: "Error", ok: false}.
func (api *timetableApi) respond(ctx echo.Context, what string, doc timetable.Document, err error) error {
	if err != nil {
		if !timetable.IsNotFound(err) {
			api.logger.Warn(fmt.Sprintf("fetching timetable of %s: %v", what, err), err)
		}
		return ctx.JSON(http.StatusBadRequest, errEnvelope)
	}

	if normalized, _ := strconv.ParseBool(ctx.QueryParam("normalized")); normalized {
		return ctx.JSON(http.StatusOK, Envelope{Content: timetable.Normalize(doc), OK: true})
	}
	return ctx.JSON(http.StatusOK, Envelope{Content: doc, OK: true})
}

// Handlers

func (api *timetableApi) byClass(ctx echo.Context) error {
	var data ScheduleRequest
	if err := ctx.Bind(&data); err != nil || core.CleanString(data.ClassName) == "" {
		return ctx.JSON(http.StatusBadRequest, errEnvelope)
	}
	doc, err := api.svc.ByClass(ctx.Request().Context(), data.ClassName)
	return api.respond(ctx, "class "+data.ClassName, doc, err)
}

func (api *timetableApi) byRoom(ctx echo.Context) error {
	var data RoomRequest
	if err := ctx.Bind(&data); err != nil || core.CleanString(data.RoomName) == "" {
		return ctx.JSON(http.StatusBadRequest, errEnvelope)
	}
	doc, err := api.svc.ByRoom(ctx.Request().Context(), data.RoomName)
	return api.respond(ctx, "room "+data.RoomName, doc, err)
}

func (api *timetableApi) roomIndex(ctx echo.Context) error {
	blocks, err := api.svc.RoomIndex(ctx.Request().Context())
	if err != nil {
		api.logger.Error(fmt.Sprintf("listing rooms: %v", err), err)
		return ctx.JSON(http.StatusInternalServerError, Envelope{Content: []timetable.Block{}, OK: false})
	}
	return ctx.JSON(http.StatusOK, Envelope{Content: blocks, OK: true})
}
