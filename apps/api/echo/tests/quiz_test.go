package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/Tawhide16/CampusKit/apps/api/echo"
	"github.com/Tawhide16/CampusKit/core/qabank"
	"github.com/Tawhide16/CampusKit/core/quiz"
)

func Test_quizApi(t *testing.T) {
	env := setup(t)
	token := getToken(t, env.conf, student)

	idle := quiz.View{State: quiz.StateIdle}
	notStarted := marchallObj(t, httpErr{Error: quiz.ErrNotStarted.Error()})
	notInProgress := marchallObj(t, httpErr{Error: quiz.ErrNotInProgress.Error()})

	tests := []httpTest{
		{name: "auth required", path: "/v1/quiz", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "idle", path: "/v1/quiz", token: token, wantCode: http.StatusOK, wantData: marchallObj(t, idle)},
		{name: "next: not started", method: http.MethodPost, path: "/v1/quiz/next", token: token, wantCode: http.StatusConflict, wantData: notStarted},
		{name: "prev: not started", method: http.MethodPost, path: "/v1/quiz/prev", token: token, wantCode: http.StatusConflict, wantData: notStarted},
		{name: "submit: not started", method: http.MethodPost, path: "/v1/quiz/submit", token: token, wantCode: http.StatusConflict, wantData: notInProgress},
		{
			name: "start: no match", method: http.MethodPost, path: "/v1/quiz/start", token: token,
			body:     marchallObj(t, quiz.Filters{Topic: "Astronomy"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: quiz.ErrNoQuestions.Error()}),
		},
		{
			name: "start: count too high", method: http.MethodPost, path: "/v1/quiz/start", token: token,
			body:     marchallObj(t, quiz.Filters{Count: 51}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"count": "count must be 50 or less"}),
		},
	}
	runHTTPTests(t, env, tests)

	dbms := env.registry.Workspace(student.UID).QA.Filter(qabank.QueryFilter{Topic: "DBMS"})
	require.Len(t, dbms, 1)
	q := dbms[0]

	t.Run("full session", func(t *testing.T) {
		rec := env.do(newAuthRequest(http.MethodPost, "/v1/quiz/start", token, marchallObj(t, quiz.Filters{Topic: "DBMS", Count: 3})))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var view quiz.View
		unmarshal(t, rec, &view)
		assert.Equal(t, quiz.StateInProgress, view.State)
		assert.Equal(t, 1, view.Total)
		require.NotNil(t, view.Current)
		assert.Equal(t, q.ID, view.Current.ID)
		assert.Empty(t, view.Current.Answer)

		rec = env.do(newAuthRequest(http.MethodPost, "/v1/quiz/start", token, marchallObj(t, quiz.Filters{})))
		checkCodeAndData(t, httpTest{wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: quiz.ErrInvalidState.Error()})}, rec)

		rec = env.do(newAuthRequest(http.MethodPost, "/v1/quiz/answer", token, marchallObj(t, AnswerRequest{QuestionID: "nope", Answer: "x"})))
		checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: quiz.ErrUnknownQuestion.Error()})}, rec)

		rec = env.do(newAuthRequest(http.MethodPost, "/v1/quiz/answer", token, marchallObj(t, AnswerRequest{QuestionID: q.ID, Answer: "  " + q.Answer + " "})))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = env.do(newAuthRequest(http.MethodPost, "/v1/quiz/next", token))
		require.Equal(t, http.StatusOK, rec.Code)
		unmarshal(t, rec, &view)
		assert.Equal(t, 0, view.Index)

		rec = env.do(newAuthRequest(http.MethodPost, "/v1/quiz/submit", token))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		view = quiz.View{}
		unmarshal(t, rec, &view)
		assert.Equal(t, quiz.StateSubmitted, view.State)
		require.NotNil(t, view.Result)
		assert.Equal(t, 1, view.Result.Score)
		assert.Equal(t, 100, view.Result.Percent)
		assert.Equal(t, q.Answer, view.Current.Answer)
		assert.Equal(t, q.Explanation, view.Current.Explanation)

		rec = env.do(newAuthRequest(http.MethodPost, "/v1/quiz/reset", token))
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, idle)}, rec)
	})

	t.Run("exam mode hides explanations", func(t *testing.T) {
		rec := env.do(newAuthRequest(http.MethodPut, "/v1/qa/settings", token, []byte(`{"examMode": true}`)))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(newAuthRequest(http.MethodPost, "/v1/quiz/start", token, marchallObj(t, quiz.Filters{Topic: "DBMS"})))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		rec = env.do(newAuthRequest(http.MethodPost, "/v1/quiz/submit", token))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var view quiz.View
		unmarshal(t, rec, &view)
		assert.True(t, view.ExamMode)
		require.NotNil(t, view.Result)
		assert.Equal(t, 0, view.Result.Score)
		assert.Empty(t, view.Current.Explanation)
		for _, rv := range view.Result.Review {
			assert.Empty(t, rv.Explanation)
		}
	})

	t.Run("sessions are per user", func(t *testing.T) {
		rec := env.do(newAuthRequest(http.MethodGet, "/v1/quiz", getToken(t, env.conf, other)))
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, idle)}, rec)
	})
}
