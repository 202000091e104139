package tests

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/Tawhide16/CampusKit/apps/api/echo"
	"github.com/Tawhide16/CampusKit/core/profile"
	"github.com/Tawhide16/CampusKit/storage/database/inmem"
)

func TestServer_home(t *testing.T) {
	env := setup(t)

	rec := env.do(newRequest(http.MethodGet, "/"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to CampusKit API!", rec.Body.String())
}

func TestServer_auth(t *testing.T) {
	env := setup(t)

	expired := GetUserClaims(student, env.conf)
	expired.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	expiredToken, err := GenerateToken(expired, env.conf)
	require.NoError(t, err)

	otherConf := newConf()
	otherConf.SecretKey = "another-secret"

	noSubject := GetUserClaims(profile.User{}, env.conf)
	noSubjectToken, err := GenerateToken(noSubject, env.conf)
	require.NoError(t, err)

	tests := []httpTest{
		{name: "missing token", path: "/v1/schedules", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "expired token", path: "/v1/schedules", token: expiredToken,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{
			name: "wrong signature", path: "/v1/schedules", token: getToken(t, otherConf, student),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
		{
			name: "no subject", path: "/v1/schedules", token: noSubjectToken,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "user not authenticated"}),
		},
		{name: "valid token", path: "/v1/schedules", token: getToken(t, env.conf, student), wantCode: http.StatusOK, wantData: marchallList(t)},
	}
	runHTTPTests(t, env, tests)
}

func TestServer_signOut(t *testing.T) {
	env := setup(t)
	token := getToken(t, env.conf, student)
	otherToken := getToken(t, env.conf, student)

	rec := env.do(newAuthRequest(http.MethodPost, "/v1/auth/signout", token))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(newAuthRequest(http.MethodGet, "/v1/profile", token))
	checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "token has been revoked"})}, rec)

	// other sessions stay signed in
	rec = env.do(newAuthRequest(http.MethodGet, "/v1/profile", otherToken))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_profile(t *testing.T) {
	env := setup(t)
	token := getToken(t, env.conf, student)

	t.Run("identity fallbacks", func(t *testing.T) {
		usr := profile.User{UID: "student-3"}
		rec := env.do(newAuthRequest(http.MethodGet, "/v1/profile", getToken(t, env.conf, usr)))
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, profile.View{
				UID:         "student-3",
				DisplayName: profile.DefaultDisplayName,
				Email:       profile.DefaultEmail,
				PhotoURL:    profile.DefaultPhotoURL,
			}),
		}, rec)
	})

	t.Run("stored record wins", func(t *testing.T) {
		repo := inmemdb.NewProfileRepository(env.db)
		_, err := repo.SaveProfile(context.Background(), profile.Record{UID: student.UID, DisplayName: "Ada L."})
		require.NoError(t, err)

		rec := env.do(newAuthRequest(http.MethodGet, "/v1/profile", token))
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, profile.View{
				UID:         student.UID,
				DisplayName: "Ada L.",
				Email:       student.Email,
				PhotoURL:    profile.DefaultPhotoURL,
			}),
		}, rec)
	})

	tests := []httpTest{
		{
			name: "update: invalid", method: http.MethodPut, path: "/v1/profile", token: token,
			body:     marchallObj(t, UpdateProfileRequest{Email: "not-an-email", PhotoURL: "nope"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"email":    "email must be a valid email address",
				"photoURL": "photoURL must be a valid URL",
			}),
		},
		{
			name: "update", method: http.MethodPut, path: "/v1/profile", token: token,
			body:     marchallObj(t, UpdateProfileRequest{DisplayName: " Ada ", Email: "ADA@uni.test", PhotoURL: "https://img.test/ada.png"}),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, profile.View{
				UID:         student.UID,
				DisplayName: "Ada",
				Email:       "ada@uni.test",
				PhotoURL:    "https://img.test/ada.png",
			}),
		},
	}
	runHTTPTests(t, env, tests)
}
