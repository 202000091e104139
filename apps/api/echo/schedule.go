package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Tawhide16/CampusKit/core/schedule"
	"github.com/Tawhide16/CampusKit/core/workspace"
)

type scheduleApi struct {
	reg *workspace.Registry
}

func registerScheduleAPI(g *echo.Group, reg *workspace.Registry) {
	api := scheduleApi{reg: reg}

	sg := g.Group("/schedules")
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.PUT("/:index", api.update)
	sg.DELETE("/:index", api.destroy)
}

func (api *scheduleApi) service(ctx echo.Context) (*schedule.Service, error) {
	ws, err := contextWorkspace(ctx, api.reg)
	if err != nil {
		return nil, err
	}
	return ws.Schedules, nil
}

func indexParam(ctx echo.Context) (int, error) {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		return 0, errHttpNotFound
	}
	return index, nil
}

func (api *scheduleApi) query(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	filter := new(schedule.QueryFilter)
	if err = ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []schedule.Schedule{})
	}
	filter.Clean()
	return ctx.JSON(http.StatusOK, svc.Filter(*filter))
}

func (api *scheduleApi) create(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	var data schedule.NewSchedule
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchedule")
	}
	schedules, err := svc.Add(data)
	if err != nil {
		return errors.Wrap(err, "adding schedule")
	}
	return ctx.JSON(http.StatusCreated, schedules)
}

func (api *scheduleApi) update(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	index, err := indexParam(ctx)
	if err != nil {
		return err
	}
	var data schedule.NewSchedule
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchedule")
	}
	schedules, err := svc.Update(index, data)
	if err != nil {
		return errors.Wrap(err, "updating schedule")
	}
	return ctx.JSON(http.StatusOK, schedules)
}

func (api *scheduleApi) destroy(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	index, err := indexParam(ctx)
	if err != nil {
		return err
	}
	schedules, err := svc.Delete(index)
	if err != nil {
		return errors.Wrap(err, "deleting schedule")
	}
	return ctx.JSON(http.StatusOK, schedules)
}
