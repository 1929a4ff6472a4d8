package echoapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	. "github.com/trezcool/duka/apps/api/echo"
	"github.com/trezcool/duka/core"
	"github.com/trezcool/duka/core/ebook"
	emailsvc "github.com/trezcool/duka/services/email"
	metricsvc "github.com/trezcool/duka/services/metrics"
	inmemdb "github.com/trezcool/duka/storage/database/inmem"
	"github.com/trezcool/duka/tests"
)

var (
	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}

	collaborator = core.Actor{ID: "42", Name: "Ana Lima", Email: "ana@uni.edu"}
	other        = core.Actor{ID: "7", Name: "Rui Costa", Email: "rui@uni.edu"}
	editor       = core.Actor{ID: "1", Name: "Editorial", Email: "editorial@duka.app", IsAdmin: true}
)

type testApp struct {
	conf    *core.Config
	server  *Server
	db      *inmemdb.DB
	repo    ebook.Repository
	mailSvc *emailsvc.ConsoleServiceMock
}

func setup(t *testing.T) *testApp {
	t.Helper()

	conf := testutil.NewConfig()
	logger := testutil.NewLogger(conf)
	core.ParseEmailTemplates(conf, logger)

	db := inmemdb.Open()
	repo := inmemdb.NewEbookRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	validator := testutil.NewValidator()

	ebookSvc := ebook.NewService(ebook.ServiceDeps{
		Conf:      conf,
		Repo:      repo,
		Validator: validator,
		MailSvc:   mailSvc,
		Logger:    logger,
		Recorder:  metricsvc.New(prometheus.NewRegistry()),
	})

	server := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logger,
		EbookSvc:   ebookSvc,
		Translator: core.NewTranslator(),
	})
	t.Cleanup(func() { _ = server.Close() })

	return &testApp{conf: conf, server: server, db: db, repo: repo, mailSvc: mailSvc}
}

func (app *testApp) token(t *testing.T, actor core.Actor, origIat ...int64) string {
	t.Helper()
	token, err := GenerateToken(app.conf, NewClaims(app.conf, actor, origIat...))
	if err != nil {
		t.Fatalf("token(): %v", err)
	}
	return token
}

func (app *testApp) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.server.ServeHTTP(rec, req)
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

func newAuthRequest(method, path, token string, data ...[]byte) *http.Request {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v (body %s)", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		if rec.Body.Len() != 0 {
			t.Errorf("failed! body = %s; want empty", rec.Body.String())
		}
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %s; wantData %s", rec.Body.String(), tt.wantData)
	}
}

func runHTTPTests(t *testing.T, app *testApp, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.serve(newAuthRequest(tt.method, tt.path, tt.token, tt.body))
			checkCodeAndData(t, tt, rec)
		})
	}
}
