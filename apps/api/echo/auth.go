package echoapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/Tawhide16/CampusKit/core"
	"github.com/Tawhide16/CampusKit/core/profile"
)

const (
	contextTokenKey = "userToken"
	tokenAudience   = "CampusKit"
)

var (
	errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errTokenRevoked = echo.NewHTTPError(http.StatusUnauthorized, "token has been revoked")
)

// Claims represents the authorization claims transmitted via a JWT.
// The subject is the auth provider uid.
type Claims struct {
	jwt.StandardClaims
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

func (c Claims) User() profile.User {
	return profile.User{
		UID:         c.Subject,
		DisplayName: c.DisplayName,
		Email:       c.Email,
		PhotoURL:    c.PhotoURL,
	}
}

func GetUserClaims(usr profile.User, conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Issuer:    conf.AppName,
			Subject:   usr.UID,
			Audience:  tokenAudience,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		DisplayName: usr.DisplayName,
		Email:       usr.Email,
		PhotoURL:    usr.PhotoURL,
	}
}

func jwtConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims, conf *core.Config) (string, error) {
	cfg := jwtConfig(conf)
	method := jwt.GetSigningMethod(cfg.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(cfg.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextUser returns the signed-in identity, or nil when the request carries none.
func getContextUser(ctx echo.Context) *profile.User {
	claims, err := getContextClaims(ctx)
	if err != nil || claims.Subject == "" {
		return nil
	}
	usr := claims.User()
	return &usr
}

// revocationList holds the ids of signed-out tokens until they expire.
type revocationList struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	nowFunc func() time.Time
}

func newRevocationList() *revocationList {
	return &revocationList{revoked: make(map[string]time.Time), nowFunc: time.Now}
}

func (rl *revocationList) Revoke(claims Claims) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.nowFunc()
	for id, exp := range rl.revoked {
		if now.After(exp) {
			delete(rl.revoked, id)
		}
	}
	rl.revoked[claims.Id] = time.Unix(claims.ExpiresAt, 0)
}

func (rl *revocationList) IsRevoked(claims Claims) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	_, ok := rl.revoked[claims.Id]
	return ok
}

// revocationMiddleware rejects tokens that were signed out. Must run after the JWT middleware.
func revocationMiddleware(rl *revocationList) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if claims.Subject == "" {
				return errUnauthorized
			}
			if rl.IsRevoked(claims) {
				return errTokenRevoked
			}
			return next(ctx)
		}
	}
}
