package echoapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/duka/apps/api/echo"
	"github.com/trezcool/duka/core/ebook"
	"github.com/trezcool/duka/tests"
)

func rawBody(t *testing.T, mutate func(raw map[string]interface{})) []byte {
	raw := testutil.ValidRaw()
	if mutate != nil {
		mutate(raw)
	}
	return marchallObj(t, raw)
}

func TestHome(t *testing.T) {
	app := setup(t)
	rec := app.serve(newAuthRequest(http.MethodGet, "/", ""))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Duka API!", rec.Body.String())
}

func TestEbookApi_queryAcademicAreas(t *testing.T) {
	app := setup(t)
	runHTTPTests(t, app, []httpTest{
		{
			name:     "public",
			method:   http.MethodGet,
			path:     "/v1/ebooks/academic-areas",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, ebook.Areas),
		},
	})
}

func TestEbookApi_validate(t *testing.T) {
	app := setup(t)
	token := app.token(t, collaborator)
	path := "/v1/ebooks/validate"

	sanitized := testutil.ValidSubmission()
	sanitized.CoverURL = "cover.png"

	runHTTPTests(t, app, []httpTest{
		{name: "no token", method: http.MethodPost, path: path, body: rawBody(t, nil), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "valid", method: http.MethodPost, path: path, token: token, body: rawBody(t, nil), wantCode: http.StatusOK, wantData: marchallObj(t, testutil.ValidSubmission())},
		{
			name:   "sanitized",
			method: http.MethodPost,
			path:   path,
			token:  token,
			body: rawBody(t, func(raw map[string]interface{}) {
				raw["academicArea"] = "exact-sciences"
				raw["title"] = "  Cálculo Avançado "
				raw["coverUrl"] = " cover.png"
			}),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, sanitized),
		},
		{
			name:     "not JSON",
			method:   http.MethodPost,
			path:     path,
			token:    token,
			body:     []byte(`{"title": `),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "request body must be a JSON object"}),
		},
		{
			name:     "JSON array",
			method:   http.MethodPost,
			path:     path,
			token:    token,
			body:     []byte(`[]`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "request body must be a JSON object"}),
		},
		{
			name:     "missing field",
			method:   http.MethodPost,
			path:     path,
			token:    token,
			body:     rawBody(t, func(raw map[string]interface{}) { delete(raw, "authorName") }),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"authorName": "authorName is required"}),
		},
		{
			name:     "fractional price",
			method:   http.MethodPost,
			path:     path,
			token:    token,
			body:     []byte(`{"title":"Cálculo Avançado","description":"Um guia completo sobre limites e derivadas.","academicArea":"EXACT_SCIENCES","authorName":"Ana Lima","price":29.90,"pageCount":150,"fileUrl":"doc.pdf"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"price": "price must be an integer"}),
		},
		{
			name:     "price too large",
			method:   http.MethodPost,
			path:     path,
			token:    token,
			body:     []byte(`{"title":"Cálculo Avançado","description":"Um guia completo sobre limites e derivadas.","academicArea":"EXACT_SCIENCES","authorName":"Ana Lima","price":3000000000,"pageCount":150,"fileUrl":"doc.pdf"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"price": "price is too large"}),
		},
		{
			name:     "free with too many pages",
			method:   http.MethodPost,
			path:     path,
			token:    token,
			body:     rawBody(t, func(raw map[string]interface{}) { raw["price"] = 0 }),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"pageCount": "free ebooks should not exceed 100 pages"}),
		},
		{
			name:     "unsupported document",
			method:   http.MethodPost,
			path:     path,
			token:    token,
			body:     rawBody(t, func(raw map[string]interface{}) { raw["fileUrl"] = "doc.txt" }),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"fileUrl": "fileUrl must end with one of: .pdf, .epub, .mobi"}),
		},
		{
			name:     "spam title",
			method:   http.MethodPost,
			path:     path,
			token:    token,
			body:     rawBody(t, func(raw map[string]interface{}) { raw["title"] = "aaaaa design" }),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"title": "title looks like spam or placeholder content"}),
		},
	})

	// dry run: nothing is stored
	books, err := app.repo.QueryEbooks(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestEbookApi_create(t *testing.T) {
	app := setup(t)
	token := app.token(t, collaborator)

	rec := app.serve(newAuthRequest(http.MethodPost, "/v1/ebooks", "", rawBody(t, nil)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.serve(newAuthRequest(http.MethodPost, "/v1/ebooks", token, rawBody(t, func(raw map[string]interface{}) {
		raw["academicArea"] = "exact_sciences"
	})))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var book ebook.Ebook
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &book))
	assert.NotEmpty(t, book.ID)
	assert.Equal(t, ebook.AreaExactSciences, book.AcademicArea)
	assert.Equal(t, collaborator.ID, book.SubmittedBy)

	stored, err := app.repo.GetEbookByID(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.Title, stored.Title)
	assert.Len(t, app.mailSvc.SentMessages(), 1)

	// same author, same title
	runHTTPTests(t, app, []httpTest{
		{
			name:     "duplicate",
			method:   http.MethodPost,
			path:     "/v1/ebooks",
			token:    token,
			body:     rawBody(t, nil),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"title": "an ebook with a similar title was already submitted by this author"}),
		},
	})
}

func TestEbookApi_query(t *testing.T) {
	app := setup(t)
	now := time.Now()

	b1 := testutil.CreateEbook(t, app.repo, "1", "Cálculo Avançado", "Ana Lima", ebook.AreaExactSciences, 2990, collaborator.ID, now.Add(-time.Hour))
	b2 := testutil.CreateEbook(t, app.repo, "2", "História do Brasil", "Rui Costa", ebook.AreaHumanities, 0, other.ID, now)

	adminToken := app.token(t, editor)
	runHTTPTests(t, app, []httpTest{
		{name: "no token", method: http.MethodGet, path: "/v1/ebooks", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "not admin", method: http.MethodGet, path: "/v1/ebooks", token: app.token(t, collaborator), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "all", method: http.MethodGet, path: "/v1/ebooks", token: adminToken, wantCode: http.StatusOK, wantData: marchallList(t, b2, b1)},
		{name: "ordering", method: http.MethodGet, path: "/v1/ebooks?ordering=-price,title", token: adminToken, wantCode: http.StatusOK, wantData: marchallList(t, b1, b2)},
		{name: "search", method: http.MethodGet, path: "/v1/ebooks?search=brasil", token: adminToken, wantCode: http.StatusOK, wantData: marchallList(t, b2)},
		{name: "area", method: http.MethodGet, path: "/v1/ebooks?area=exact-sciences&area=languages", token: adminToken, wantCode: http.StatusOK, wantData: marchallList(t, b1)},
		{name: "author", method: http.MethodGet, path: "/v1/ebooks?author=ana", token: adminToken, wantCode: http.StatusOK, wantData: marchallList(t, b1)},
		{name: "free", method: http.MethodGet, path: "/v1/ebooks?free=true", token: adminToken, wantCode: http.StatusOK, wantData: marchallList(t, b2)},
		{name: "no match", method: http.MethodGet, path: "/v1/ebooks?search=fisica", token: adminToken, wantCode: http.StatusOK, wantData: marchallList(t)},
	})
}

func TestEbookApi_retrieve(t *testing.T) {
	app := setup(t)
	book := testutil.CreateEbook(t, app.repo, "1", "Cálculo Avançado", "Ana Lima", ebook.AreaExactSciences, 2990, collaborator.ID)

	runHTTPTests(t, app, []httpTest{
		{name: "no token", method: http.MethodGet, path: "/v1/ebooks/1", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "submitter", method: http.MethodGet, path: "/v1/ebooks/1", token: app.token(t, collaborator), wantCode: http.StatusOK, wantData: marchallObj(t, book)},
		{name: "admin", method: http.MethodGet, path: "/v1/ebooks/1", token: app.token(t, editor), wantCode: http.StatusOK, wantData: marchallObj(t, book)},
		{name: "other collaborator", method: http.MethodGet, path: "/v1/ebooks/1", token: app.token(t, other), wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
		{name: "unknown", method: http.MethodGet, path: "/v1/ebooks/2", token: app.token(t, editor), wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
	})
}

func TestEbookApi_destroy(t *testing.T) {
	app := setup(t)
	testutil.CreateEbook(t, app.repo, "1", "Cálculo Avançado", "Ana Lima", ebook.AreaExactSciences, 2990, collaborator.ID)
	testutil.CreateEbook(t, app.repo, "2", "História do Brasil", "Rui Costa", ebook.AreaHumanities, 0, other.ID)
	testutil.CreateEbook(t, app.repo, "3", "Cálculo Numérico", "Rui Costa", ebook.AreaExactSciences, 0, other.ID)

	adminToken := app.token(t, editor)
	runHTTPTests(t, app, []httpTest{
		{name: "submitter", method: http.MethodDelete, path: "/v1/ebooks/1", token: app.token(t, collaborator), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "admin", method: http.MethodDelete, path: "/v1/ebooks/1", token: adminToken, wantCode: http.StatusNoContent},
		{name: "deleted", method: http.MethodGet, path: "/v1/ebooks/1", token: adminToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
		{name: "multiple, not admin", method: http.MethodDelete, path: "/v1/ebooks?id=2&id=3", token: app.token(t, other), wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)},
		{name: "multiple", method: http.MethodDelete, path: "/v1/ebooks?id=2&id=3", token: adminToken, wantCode: http.StatusNoContent},
		{name: "multiple, no ids", method: http.MethodDelete, path: "/v1/ebooks", token: adminToken, wantCode: http.StatusNoContent},
		{name: "all gone", method: http.MethodGet, path: "/v1/ebooks", token: adminToken, wantCode: http.StatusOK, wantData: marchallList(t)},
	})
}

func TestServer_refreshToken(t *testing.T) {
	app := setup(t)
	path := "/v1/token-refresh"

	expired := time.Now().Add(-app.conf.JWTRefreshExpirationDelta - time.Minute).Unix()
	runHTTPTests(t, app, []httpTest{
		{name: "no token", method: http.MethodPost, path: path, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "refresh expired", method: http.MethodPost, path: path, token: app.token(t, collaborator, expired), wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "refresh has expired"})},
	})

	rec := app.serve(newAuthRequest(http.MethodPost, path, app.token(t, collaborator)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	// the refreshed token is usable
	rec = app.serve(newAuthRequest(http.MethodPost, "/v1/ebooks/validate", resp.Token, rawBody(t, nil)))
	assert.Equal(t, http.StatusOK, rec.Code)
}
