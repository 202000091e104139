package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Tawhide16/CampusKit/core"
	"github.com/Tawhide16/CampusKit/core/quiz"
	"github.com/Tawhide16/CampusKit/core/workspace"
)

type quizApi struct {
	reg      *workspace.Registry
	mgr      *quiz.Manager
	validate *validator.Validate
}

func registerQuizAPI(g *echo.Group, reg *workspace.Registry, mgr *quiz.Manager, validate *validator.Validate) {
	api := quizApi{reg: reg, mgr: mgr, validate: validate}

	qg := g.Group("/quiz")
	qg.GET("", api.view)
	qg.POST("/start", api.start)
	qg.POST("/answer", api.answer)
	qg.POST("/next", api.next)
	qg.POST("/prev", api.prev)
	qg.POST("/submit", api.submit)
	qg.POST("/reset", api.reset)
}

// quizContext returns the user's workspace and uid.
func (api *quizApi) quizContext(ctx echo.Context) (*workspace.Workspace, string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, "", err
	}
	return api.reg.Workspace(claims.Subject), claims.Subject, nil
}

func (api *quizApi) view(ctx echo.Context) error {
	ws, uid, err := api.quizContext(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.mgr.View(uid, ws.QA.Settings()))
}

func (api *quizApi) start(ctx echo.Context) error {
	ws, uid, err := api.quizContext(ctx)
	if err != nil {
		return err
	}
	var filters quiz.Filters
	if err = ctx.Bind(&filters); err != nil {
		return errors.Wrap(err, "binding to Filters")
	}
	filters.Topic = core.CleanString(filters.Topic)
	filters.Difficulty = core.CleanString(filters.Difficulty, true /* lower */)
	if err = api.validate.Struct(filters); err != nil {
		return err
	}

	view, err := api.mgr.Start(uid, ws.QA.Questions(), filters, ws.QA.Settings())
	if err != nil {
		return errors.Wrap(err, "starting quiz")
	}
	return ctx.JSON(http.StatusOK, view)
}

type AnswerRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
	Answer     string `json:"answer"`
}

func (api *quizApi) answer(ctx echo.Context) error {
	ws, uid, err := api.quizContext(ctx)
	if err != nil {
		return err
	}
	var data AnswerRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AnswerRequest")
	}
	if err = api.validate.Struct(data); err != nil {
		return err
	}

	view, err := api.mgr.Answer(uid, data.QuestionID, data.Answer, ws.QA.Settings())
	if err != nil {
		return errors.Wrap(err, "answering question")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *quizApi) next(ctx echo.Context) error {
	ws, uid, err := api.quizContext(ctx)
	if err != nil {
		return err
	}
	view, err := api.mgr.Next(uid, ws.QA.Settings())
	if err != nil {
		return errors.Wrap(err, "moving to next question")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *quizApi) prev(ctx echo.Context) error {
	ws, uid, err := api.quizContext(ctx)
	if err != nil {
		return err
	}
	view, err := api.mgr.Prev(uid, ws.QA.Settings())
	if err != nil {
		return errors.Wrap(err, "moving to previous question")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *quizApi) submit(ctx echo.Context) error {
	ws, uid, err := api.quizContext(ctx)
	if err != nil {
		return err
	}
	view, err := api.mgr.Submit(uid, ws.QA.Settings())
	if err != nil {
		return errors.Wrap(err, "submitting quiz")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *quizApi) reset(ctx echo.Context) error {
	ws, uid, err := api.quizContext(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, api.mgr.Reset(uid, ws.QA.Settings()))
}
