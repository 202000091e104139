package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/Tawhide16/CampusKit/apps/api/echo"
	"github.com/Tawhide16/CampusKit/core"
	"github.com/Tawhide16/CampusKit/core/profile"
	"github.com/Tawhide16/CampusKit/core/workspace"
	"github.com/Tawhide16/CampusKit/storage/database/inmem"
	"github.com/Tawhide16/CampusKit/tests"
)

var (
	errMissingToken = httpErr{Error: "missing or malformed jwt"}

	student = profile.User{UID: "student-1", DisplayName: "Ada", Email: "ada@campus.test"}
	other   = profile.User{UID: "student-2", DisplayName: "Alan", Email: "alan@campus.test"}
)

type testEnv struct {
	app      *Server
	conf     *core.Config
	registry *workspace.Registry
	db       *inmemdb.DB
	logger   *testutil.LoggerMock
}

func newConf() *core.Config {
	conf := &core.Config{AppName: "CampusKit", Env: "TEST", SecretKey: "test-secret"}
	conf.Server.JWTExpirationDelta = time.Hour
	return conf
}

func setup(t *testing.T) testEnv {
	t.Helper()

	conf := newConf()
	logger := testutil.NewLoggerMock()
	validate, translator := testutil.NewValidator()
	workspace.InitValidators(validate, translator)

	// set up DB & repos
	db := inmemdb.Open()
	store := core.NewStorage(inmemdb.NewKVStore(db), logger, 0)
	registry := workspace.NewRegistry(store, validate)

	// set up server
	app := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Registry:       registry,
		ProfileSvc:     profile.NewService(inmemdb.NewProfileRepository(db), validate, logger),
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})
	return testEnv{app: app, conf: conf, registry: registry, db: db, logger: logger}
}

func (env testEnv) do(req *http.Request, rec *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	env.app.ServeHTTP(rec, req)
	return rec
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, conf *core.Config, usr profile.User) string {
	token, err := GenerateToken(GetUserClaims(usr, conf), conf)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("json.Unmarshal(%s) failed: %v", rec.Body.String(), err)
	}
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, env testEnv, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			rec := env.do(newAuthRequest(method, tt.path, tt.token, tt.body))
			checkCodeAndData(t, tt, rec)
		})
	}
}
