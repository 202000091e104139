package echoapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Tawhide16/CampusKit/core/budget"
	"github.com/Tawhide16/CampusKit/core/workspace"
	"github.com/Tawhide16/CampusKit/services/report"
)

type budgetApi struct {
	reg      *workspace.Registry
	validate *validator.Validate
}

func registerBudgetAPI(g *echo.Group, reg *workspace.Registry, validate *validator.Validate) {
	api := budgetApi{reg: reg, validate: validate}

	bg := g.Group("/budget")
	bg.GET("/summary", api.summary)
	bg.GET("/report.xlsx", api.report)

	tg := bg.Group("/transactions")
	tg.GET("", api.queryTransactions)
	tg.POST("", api.createTransaction)
	tg.PUT("/:id", api.updateTransaction)
	tg.DELETE("/:id", api.destroyTransaction)

	cg := bg.Group("/categories")
	cg.GET("", api.queryCategories)
	cg.POST("", api.createCategory)
	cg.PUT("/:id", api.updateCategory)
	cg.DELETE("/:id", api.destroyCategory)
}

func (api *budgetApi) service(ctx echo.Context) (*budget.Service, error) {
	ws, err := contextWorkspace(ctx, api.reg)
	if err != nil {
		return nil, err
	}
	return ws.Budget, nil
}

func idParam(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}

func bindRange(ctx echo.Context) (budget.QueryFilter, error) {
	var filter budget.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return filter, errors.Wrap(err, "binding to QueryFilter")
	}
	return filter, nil
}

// Transactions

func (api *budgetApi) queryTransactions(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	filter, err := bindRange(ctx)
	if err != nil {
		return err
	}
	txs, err := svc.Transactions(filter)
	if err != nil {
		return errors.Wrap(err, "querying transactions")
	}
	return ctx.JSON(http.StatusOK, txs)
}

func (api *budgetApi) createTransaction(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	var data budget.NewTransaction
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTransaction")
	}
	tx, err := svc.AddTransaction(data)
	if err != nil {
		return errors.Wrap(err, "adding transaction")
	}
	return ctx.JSON(http.StatusCreated, tx)
}

func (api *budgetApi) updateTransaction(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data budget.NewTransaction
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTransaction")
	}
	tx, err := svc.UpdateTransaction(id, data)
	if err != nil {
		return errors.Wrap(err, "updating transaction")
	}
	return ctx.JSON(http.StatusOK, tx)
}

func (api *budgetApi) destroyTransaction(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = svc.DeleteTransaction(id); err != nil {
		return errors.Wrap(err, "deleting transaction")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Categories

func (api *budgetApi) queryCategories(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, svc.Categories(ctx.QueryParam("type")))
}

func (api *budgetApi) createCategory(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	var data budget.NewCategory
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCategory")
	}
	cat, err := svc.AddCategory(data)
	if err != nil {
		return errors.Wrap(err, "adding category")
	}
	return ctx.JSON(http.StatusCreated, cat)
}

func (api *budgetApi) updateCategory(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	var data budget.NewCategory
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCategory")
	}
	cat, err := svc.UpdateCategory(id, data)
	if err != nil {
		return errors.Wrap(err, "updating category")
	}
	return ctx.JSON(http.StatusOK, cat)
}

func (api *budgetApi) destroyCategory(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	id, err := idParam(ctx)
	if err != nil {
		return err
	}
	if err = svc.DeleteCategory(id); err != nil {
		return errors.Wrap(err, "deleting category")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Summary & report

func (api *budgetApi) summary(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	filter, err := bindRange(ctx)
	if err != nil {
		return err
	}
	summary, err := svc.Summary(filter)
	if err != nil {
		return errors.Wrap(err, "summarizing budget")
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *budgetApi) report(ctx echo.Context) error {
	svc, err := api.service(ctx)
	if err != nil {
		return err
	}
	filter, err := bindRange(ctx)
	if err != nil {
		return err
	}
	summary, err := svc.Summary(filter)
	if err != nil {
		return errors.Wrap(err, "summarizing budget")
	}
	txs, err := svc.Transactions(filter)
	if err != nil {
		return errors.Wrap(err, "querying transactions")
	}

	var buf bytes.Buffer
	if err = report.WriteBudget(&buf, summary, txs); err != nil {
		return errors.Wrap(err, "writing budget report")
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "budget-"+summary.Range+".xlsx"))
	return ctx.Blob(http.StatusOK, report.ContentType, buf.Bytes())
}
