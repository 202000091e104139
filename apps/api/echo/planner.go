package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Tawhide16/CampusKit/core/planner"
	"github.com/Tawhide16/CampusKit/core/workspace"
)

type plannerApi struct {
	reg *workspace.Registry
}

func registerPlannerAPI(g *echo.Group, reg *workspace.Registry) {
	api := plannerApi{reg: reg}

	pg := g.Group("/planner")
	pg.GET("/stats", api.stats)
	pg.GET("/goals", api.query)
	pg.POST("/goals", api.create)

	dg := pg.Group("/goals/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.rename)
	dg.DELETE("", api.destroy)
	dg.POST("/tasks", api.createTask)
	dg.POST("/tasks/:taskID/toggle", api.toggleTask)
	dg.DELETE("/tasks/:taskID", api.destroyTask)
}

func (api *plannerApi) service(ctx echo.Context) (*planner.Service, error) {
	ws, err := contextWorkspace(ctx, api.reg)
	if err != nil {
		return nil, err
	}
	return ws.Planner, nil
}

func (api *plannerApi) stats(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, svc.Stats())
}

func (api *plannerApi) query(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	goals := svc.List()
	views := make([]planner.GoalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, planner.NewGoalView(g))
	}
	return ctx.JSON(http.StatusOK, views)
}

func (api *plannerApi) create(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	var data planner.NewGoal
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGoal")
	}
	goal, err := svc.AddGoal(data)
	if err != nil {
		return errors.Wrap(err, "adding goal")
	}
	return ctx.JSON(http.StatusCreated, planner.NewGoalView(goal))
}

func (api *plannerApi) retrieve(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	goal, err := svc.Get(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "finding goal")
	}
	return ctx.JSON(http.StatusOK, planner.NewGoalView(goal))
}

func (api *plannerApi) rename(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	var data planner.NewGoal
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGoal")
	}
	goal, err := svc.RenameGoal(ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "renaming goal")
	}
	return ctx.JSON(http.StatusOK, planner.NewGoalView(goal))
}

func (api *plannerApi) destroy(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	if err = svc.DeleteGoal(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting goal")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *plannerApi) createTask(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	var data planner.NewTask
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}
	goal, err := svc.AddTask(ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "adding task")
	}
	return ctx.JSON(http.StatusCreated, planner.NewGoalView(goal))
}

func (api *plannerApi) toggleTask(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	goal, err := svc.ToggleTask(ctx.Param("id"), ctx.Param("taskID"))
	if err != nil {
		return errors.Wrap(err, "toggling task")
	}
	return ctx.JSON(http.StatusOK, planner.NewGoalView(goal))
}

func (api *plannerApi) destroyTask(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	goal, err := svc.DeleteTask(ctx.Param("id"), ctx.Param("taskID"))
	if err != nil {
		return errors.Wrap(err, "deleting task")
	}
	return ctx.JSON(http.StatusOK, planner.NewGoalView(goal))
}
