package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Tawhide16/CampusKit/core/profile"
)

type authApi struct {
	revoked  *revocationList
	svc      *profile.Service
	validate *validator.Validate
}

func registerAuthAPI(g *echo.Group, revoked *revocationList, svc *profile.Service, validate *validator.Validate) {
	api := authApi{revoked: revoked, svc: svc, validate: validate}

	g.POST("/auth/signout", api.signOut)
	g.GET("/profile", api.retrieveProfile)
	g.PUT("/profile", api.updateProfile)
}

func (api *authApi) signOut(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	api.revoked.Revoke(claims)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authApi) retrieveProfile(ctx echo.Context) error {
	view, err := api.svc.View(ctx.Request().Context(), getContextUser(ctx))
	if err != nil {
		return errors.Wrap(err, "viewing profile")
	}
	return ctx.JSON(http.StatusOK, view)
}

type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
}

func (api *authApi) updateProfile(ctx echo.Context) error {
	usr := getContextUser(ctx)
	if usr == nil {
		return errUnauthorized
	}

	var data UpdateProfileRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfileRequest")
	}

	rec := profile.Record{
		UID:         usr.UID,
		DisplayName: data.DisplayName,
		Email:       data.Email,
		PhotoURL:    data.PhotoURL,
	}
	if _, err := api.svc.Save(ctx.Request().Context(), rec); err != nil {
		return errors.Wrap(err, "saving profile")
	}

	view, err := api.svc.View(ctx.Request().Context(), usr)
	if err != nil {
		return errors.Wrap(err, "viewing profile")
	}
	return ctx.JSON(http.StatusOK, view)
}
