package routes

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"candyshop/controllers"
	"candyshop/middleware"
	"candyshop/utils"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTable builds the policy table with bare controllers. Gated requests
// are rejected by the middleware before any handler (and thus any database)
// is touched.
func testTable() []Route {
	return Table(
		&controllers.UserController{},
		&controllers.ProductController{},
		&controllers.OrderController{},
		&controllers.UploadController{},
		&controllers.StatsController{},
	)
}

func testRouter(t *testing.T) (*mux.Router, *utils.TokenService) {
	t.Helper()
	ts := utils.NewTokenService("test-secret", time.Hour)
	router := mux.NewRouter()
	Register(router, middleware.NewAuthenticator(ts), testTable())
	return router, ts
}

func TestPolicyTableDeclarations(t *testing.T) {
	want := map[string]Access{
		"GET /api/health":             Public,
		"POST /api/auth/register":     Public,
		"POST /api/auth/login":        Public,
		"GET /api/products":           Public,
		"GET /api/products/{id}":      Public,
		"POST /api/products":          Manager,
		"PUT /api/products/{id}":      Manager,
		"DELETE /api/products/{id}":   Manager,
		"POST /api/orders":            Authenticated,
		"GET /api/orders":             Authenticated,
		"PUT /api/orders/{id}/status": Manager,
		"POST /api/upload":            Public,
		"GET /api/stats":              Manager,
	}

	table := testTable()
	require.Len(t, table, len(want))
	for _, rt := range table {
		key := fmt.Sprintf("%s %s", rt.Method, rt.Path)
		access, ok := want[key]
		require.True(t, ok, "unexpected route %s", key)
		assert.Equal(t, access, rt.Access, "route %s", key)
	}
}

func TestGatedRoutesRejectAnonymous(t *testing.T) {
	router, _ := testRouter(t)

	for _, rt := range testTable() {
		if rt.Access == Public {
			continue
		}
		path := strings.NewReplacer("{id}", "000000000000000000000000").Replace(rt.Path)
		req := httptest.NewRequest(rt.Method, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", rt.Method, rt.Path)
	}
}

func TestManagerRoutesRejectUserRole(t *testing.T) {
	router, ts := testRouter(t)
	token, err := ts.Issue("000000000000000000000001", "user")
	require.NoError(t, err)

	for _, rt := range testTable() {
		if rt.Access != Manager {
			continue
		}
		path := strings.NewReplacer("{id}", "000000000000000000000000").Replace(rt.Path)
		req := httptest.NewRequest(rt.Method, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code, "%s %s", rt.Method, rt.Path)
	}
}

func TestHealthIsPublic(t *testing.T) {
	router, _ := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
