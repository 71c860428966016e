package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"candyshop/config"
	"candyshop/controllers"
	"candyshop/middleware"
	"candyshop/routes"
	"candyshop/utils"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const testManagerCode = "mgr-code-123"

// testServer is a fully wired storefront against a throwaway test database.
// Tests are skipped unless MONGO_TEST_URI is set.
type testServer struct {
	router *mux.Router
	tokens *utils.TokenService
}

func setupServer(t *testing.T) *testServer {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set; skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := utils.ConnectDB(ctx, uri)
	require.NoError(t, err)
	t.Cleanup(func() { client.Disconnect(context.Background()) })

	db := client.Database("candyshop_test")
	for _, name := range []string{"users", "products", "orders"} {
		require.NoError(t, db.Collection(name).Drop(ctx))
	}
	require.NoError(t, utils.EnsureIndexes(ctx, db))

	cfg := &config.Config{
		ManagerCode: testManagerCode,
	}
	log := logrus.New()
	log.SetOutput(bytes.NewBuffer(nil))
	tokens := utils.NewTokenService("integration-secret", time.Hour)

	uploadController, err := controllers.NewUploadController(t.TempDir(), log)
	require.NoError(t, err)

	router := mux.NewRouter()
	routes.Register(router, middleware.NewAuthenticator(tokens), routes.Table(
		controllers.NewUserController(db, tokens, cfg, log),
		controllers.NewProductController(db, log),
		controllers.NewOrderController(db, nil, log),
		uploadController,
		controllers.NewStatsController(db, log),
	))

	return &testServer{router: router, tokens: tokens}
}

// do performs a JSON request and returns the recorder.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

type authResult struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

// registerUser registers an account and returns the auth payload.
func (s *testServer) registerUser(t *testing.T, name, email, password, managerCode string) authResult {
	t.Helper()
	w := s.do(t, "POST", "/api/auth/register", "", map[string]string{
		"name":        name,
		"email":       email,
		"password":    password,
		"managerCode": managerCode,
	})
	require.Equal(t, 200, w.Code, "register %s: %s", email, w.Body.String())

	var result authResult
	decodeBody(t, w, &result)
	return result
}
