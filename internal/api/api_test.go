package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zulandar/yardplan/internal/cascade"
	"github.com/zulandar/yardplan/internal/store"
	"github.com/zulandar/yardplan/internal/testutil"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewTestDB(t)
	return &harness{t: t, db: db, router: NewRouter(db, store.NewEngine(db), nil)}
}

func (h *harness) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

// create posts body and decodes the created object.
func (h *harness) create(path string, body interface{}) map[string]interface{} {
	h.t.Helper()
	w := h.do(http.MethodPost, path, body)
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())
	return decode(h.t, w)
}

func (h *harness) get(path string) map[string]interface{} {
	h.t.Helper()
	w := h.do(http.MethodGet, path, nil)
	require.Equal(h.t, http.StatusOK, w.Code, w.Body.String())
	return decode(h.t, w)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// day reports the calendar date of a JSON timestamp, or "" for null.
func day(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.SplitN(s, "T", 2)[0]
}

func TestStart_NilDB(t *testing.T) {
	err := Start(context.Background(), StartOpts{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db is required")
}

func TestStart_NilEngine(t *testing.T) {
	db := testutil.NewTestDB(t)
	err := Start(context.Background(), StartOpts{DB: db})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine is required")
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = h.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestOrganizations(t *testing.T) {
	h := newHarness(t)

	org := h.create("/orgs", gin.H{"name": "Acme Corp"})
	assert.Equal(t, "acme-corp", org["slug"])

	bySlug := h.get("/orgs/acme-corp")
	assert.Equal(t, org["id"], bySlug["id"])

	w := h.do(http.MethodGet, "/orgs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)

	w = h.do(http.MethodPost, "/orgs", gin.H{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "invalid input")

	w = h.do(http.MethodGet, "/orgs/nope/projects", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomers(t *testing.T) {
	h := newHarness(t)
	h.create("/orgs", gin.H{"name": "acme"})

	c := h.create("/orgs/acme/customers", gin.H{"name": "Initech", "email": "ops@initech.test"})
	p := h.create("/orgs/acme/projects", gin.H{"name": "Migration", "customer_id": c["id"]})
	assert.Equal(t, c["id"], p["customer_id"])

	w := h.do(http.MethodGet, "/orgs/acme/projects?customer_id="+c["id"].(string), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)
}

func TestProjectCascadeOverHTTP(t *testing.T) {
	h := newHarness(t)
	h.create("/orgs", gin.H{"name": "acme"})

	root := h.create("/orgs/acme/projects", gin.H{"name": "Root"})
	rootID := root["id"].(string)
	child := h.create("/orgs/acme/projects", gin.H{"name": "Child", "parent_id": rootID})
	childID := child["id"].(string)

	task := h.create("/orgs/acme/projects/"+childID+"/tasks", gin.H{
		"title":          "Build",
		"available_date": "2024-01-01",
		"start_date":     "2024-01-02",
		"end_date":       "2024-01-31",
	})

	got := h.get("/orgs/acme/projects/" + rootID)
	assert.Equal(t, "2024-01-01", day(got["available_date"]))
	assert.Equal(t, "2024-01-02", day(got["start_date"]))
	assert.Equal(t, "2024-01-31", day(got["end_date"]))

	w := h.do(http.MethodPatch, "/orgs/acme/tasks/"+task["id"].(string), gin.H{
		"dates": gin.H{"available_date": "2024-01-01", "start_date": "2024-01-02", "end_date": "2024-03-15"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got = h.get("/orgs/acme/projects/" + rootID)
	assert.Equal(t, "2024-03-15", day(got["end_date"]))

	tree := h.get("/orgs/acme/projects/" + rootID + "/tree")
	children := tree["children"].([]interface{})
	require.Len(t, children, 1)
	assert.Equal(t, "Child", children[0].(map[string]interface{})["name"])

	w = h.do(http.MethodDelete, "/orgs/acme/projects/"+childID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = h.do(http.MethodDelete, "/orgs/acme/tasks/"+task["id"].(string), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	got = h.get("/orgs/acme/projects/" + rootID)
	assert.Nil(t, got["end_date"])
}

func TestProjectErrors(t *testing.T) {
	h := newHarness(t)
	h.create("/orgs", gin.H{"name": "acme"})

	w := h.do(http.MethodGet, "/orgs/acme/projects/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodPost, "/orgs/acme/projects", gin.H{"name": "Bad", "start_date": "soon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, "/orgs/acme/projects", gin.H{
		"name":       "Backwards",
		"start_date": "2024-02-01",
		"end_date":   "2024-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	parent := h.create("/orgs/acme/projects", gin.H{"name": "Parent"})
	h.create("/orgs/acme/projects", gin.H{"name": "Child", "parent_id": parent["id"]})
	w = h.do(http.MethodPatch, "/orgs/acme/projects/"+parent["id"].(string), gin.H{
		"dates": gin.H{"start_date": "2024-01-01"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPost, "/orgs/acme/projects", "not an object")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductsFeedProjectOverHTTP(t *testing.T) {
	h := newHarness(t)
	h.create("/orgs", gin.H{"name": "acme"})

	prj := h.create("/orgs/acme/projects", gin.H{"name": "Program"})
	prjID := prj["id"].(string)
	prd := h.create("/orgs/acme/products", gin.H{"name": "Platform", "project_id": prjID})
	prdID := prd["id"].(string)

	h.create("/orgs/acme/products/"+prdID+"/value-chains", gin.H{
		"name":       "Supply",
		"start_date": "2024-05-01",
		"end_date":   "2024-07-01",
	})

	got := h.get("/orgs/acme/products/" + prdID)
	assert.Equal(t, "2024-05-01", day(got["start_date"]))
	got = h.get("/orgs/acme/projects/" + prjID)
	assert.Equal(t, "2024-07-01", day(got["end_date"]))

	w := h.do(http.MethodGet, "/orgs/acme/products/"+prdID+"/value-chains", nil)
	require.Equal(t, http.StatusOK, w.Code)
	chains := decodeList(t, w)
	require.Len(t, chains, 1)

	w = h.do(http.MethodPatch, "/orgs/acme/products/"+prdID, gin.H{"project_id": ""})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got = h.get("/orgs/acme/projects/" + prjID)
	assert.Nil(t, got["end_date"])

	w = h.do(http.MethodPost, "/orgs/acme/products", gin.H{"name": "Both", "project_id": prjID, "parent_id": prdID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRepairEndpoint(t *testing.T) {
	h := newHarness(t)
	h.create("/orgs", gin.H{"name": "acme"})
	h.create("/orgs/acme/projects", gin.H{"name": "Solo"})

	report := h.do(http.MethodPost, "/orgs/acme/repair", nil)
	require.Equal(t, http.StatusOK, report.Code)
	got := decode(t, report)
	assert.Equal(t, float64(1), got["checked"])
	assert.Equal(t, float64(0), got["updated"])
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{cascade.ErrConflict, http.StatusConflict},
		{cascade.ErrNotFound, http.StatusNotFound},
		{errBadRequest, http.StatusBadRequest},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
