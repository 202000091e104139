package profile

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"

	"github.com/Tawhide16/CampusKit/core"
)

var (
	// errors
	ErrNotFound        = errors.New("profile not found")
	ErrUnauthenticated = errors.New("user not authenticated")
)

type (
	Repository interface {
		// FetchProfile returns ErrNotFound when no record exists for uid.
		FetchProfile(ctx context.Context, uid string) (Record, error)
		SaveProfile(ctx context.Context, rec Record) (Record, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
		logger   core.Logger
	}
)

func NewService(repo Repository, validate *validator.Validate, logger core.Logger) *Service {
	return &Service{repo: repo, validate: validate, logger: logger}
}

// View resolves what to display for the signed-in user.
// Fetch failures other than ErrNotFound are logged and the view falls back to the auth identity.
func (svc *Service) View(ctx context.Context, current *User) (View, error) {
	if current == nil || current.UID == "" {
		return View{}, ErrUnauthenticated
	}
	rec, err := svc.repo.FetchProfile(ctx, current.UID)
	switch {
	case err == nil:
		return Merge(*current, &rec), nil
	case errors.Is(err, ErrNotFound):
		return Merge(*current, nil), nil
	default:
		svc.logger.Error("fetching profile", pkgerrors.Wrap(err, "fetching profile"), *current)
		view := Merge(*current, nil)
		view.Degraded = true
		return view, nil
	}
}

func (svc *Service) Get(ctx context.Context, uid string) (Record, error) {
	return svc.repo.FetchProfile(ctx, core.CleanString(uid))
}

func (svc *Service) Save(ctx context.Context, rec Record) (Record, error) {
	rec.UID = core.CleanString(rec.UID)
	rec.DisplayName = core.CleanString(rec.DisplayName)
	rec.Email = core.CleanString(rec.Email, true /* lower */)
	rec.PhotoURL = core.CleanString(rec.PhotoURL)
	if err := svc.validate.Struct(rec); err != nil {
		return Record{}, err
	}
	return svc.repo.SaveProfile(ctx, rec)
}
