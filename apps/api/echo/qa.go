package echoapi

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Tawhide16/CampusKit/core/qabank"
	"github.com/Tawhide16/CampusKit/core/workspace"
)

// maxImportSize bounds the body of an import request.
const maxImportSize = 5 << 20

type qaApi struct {
	reg *workspace.Registry
}

func registerQAAPI(g *echo.Group, reg *workspace.Registry) {
	api := qaApi{reg: reg}

	qg := g.Group("/qa")
	qg.GET("/questions", api.query)
	qg.POST("/questions", api.create)
	qg.DELETE("/questions/:id", api.destroy)
	qg.GET("/topics", api.topics)
	qg.GET("/export", api.exportBank)
	qg.POST("/import", api.importBank)
	qg.POST("/reset", api.reset)
	qg.GET("/settings", api.settings)
	qg.PUT("/settings", api.updateSettings)
	qg.POST("/settings/:name/toggle", api.toggleSetting)
}

func (api *qaApi) service(ctx echo.Context) (*qabank.Service, error) {
	ws, err := contextWorkspace(ctx, api.reg)
	if err != nil {
		return nil, err
	}
	return ws.QA, nil
}

func (api *qaApi) query(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	filter := new(qabank.QueryFilter)
	if err = ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []qabank.Question{})
	}
	filter.Clean()
	return ctx.JSON(http.StatusOK, svc.Filter(*filter))
}

func (api *qaApi) create(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	var data qabank.NewQuestion
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewQuestion")
	}
	q, err := svc.Add(data)
	if err != nil {
		return errors.Wrap(err, "adding question")
	}
	return ctx.JSON(http.StatusCreated, q)
}

func (api *qaApi) destroy(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	if err = svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting question")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *qaApi) topics(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, svc.Topics())
}

func (api *qaApi) exportBank(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	filename, data, err := svc.Export()
	if err != nil {
		return errors.Wrap(err, "exporting question bank")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, data)
}

type ImportResponse struct {
	Imported  int               `json:"imported"`
	Questions []qabank.Question `json:"questions"`
}

func (api *qaApi) importBank(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(io.LimitReader(ctx.Request().Body, maxImportSize))
	if err != nil {
		return errors.Wrap(err, "reading import body")
	}
	res, err := svc.Import(data)
	if err != nil {
		return errors.Wrap(err, "importing question bank")
	}
	return ctx.JSON(http.StatusOK, ImportResponse{Imported: res.Count(), Questions: svc.Questions()})
}

func (api *qaApi) reset(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, svc.Reset())
}

func (api *qaApi) settings(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, svc.Settings())
}

func (api *qaApi) updateSettings(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	var data qabank.UpdateSettings
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSettings")
	}
	return ctx.JSON(http.StatusOK, svc.UpdateSettings(data))
}

func (api *qaApi) toggleSetting(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	settings, err := svc.ToggleSetting(ctx.Param("name"))
	if err != nil {
		return errors.Wrap(err, "toggling setting")
	}
	return ctx.JSON(http.StatusOK, settings)
}
