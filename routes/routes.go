package routes

import (
	"net/http"

	"candyshop/controllers"
	"candyshop/middleware"

	"github.com/gorilla/mux"
)

// Access is the role a route requires. Gating is declared here, in one
// table, rather than ad hoc per handler.
type Access int

const (
	// Public routes need no token.
	Public Access = iota
	// Authenticated routes need a valid token of any role.
	Authenticated
	// Manager routes need a manager or admin token.
	Manager
)

// Route pairs one endpoint with its required access level.
type Route struct {
	Method  string
	Path    string
	Access  Access
	Handler http.HandlerFunc
}

// Table returns the authoritative route-to-role policy table.
func Table(
	userController *controllers.UserController,
	productController *controllers.ProductController,
	orderController *controllers.OrderController,
	uploadController *controllers.UploadController,
	statsController *controllers.StatsController,
) []Route {
	return []Route{
		{http.MethodGet, "/api/health", Public, healthCheck},

		{http.MethodPost, "/api/auth/register", Public, userController.Register},
		{http.MethodPost, "/api/auth/login", Public, userController.Login},

		{http.MethodGet, "/api/products", Public, productController.ListProducts},
		{http.MethodGet, "/api/products/{id}", Public, productController.GetProductByID},
		{http.MethodPost, "/api/products", Manager, productController.CreateProduct},
		{http.MethodPut, "/api/products/{id}", Manager, productController.UpdateProduct},
		{http.MethodDelete, "/api/products/{id}", Manager, productController.DeleteProduct},

		{http.MethodPost, "/api/orders", Authenticated, orderController.CreateOrder},
		{http.MethodGet, "/api/orders", Authenticated, orderController.GetOrders},
		{http.MethodPut, "/api/orders/{id}/status", Manager, orderController.UpdateOrderStatus},

		{http.MethodPost, "/api/upload", Public, uploadController.Upload},

		{http.MethodGet, "/api/stats", Manager, statsController.GetStats},
	}
}

// Register wires the policy table into the router, deriving the auth gates
// from each route's access level. The manager gate always runs behind the
// auth gate.
func Register(router *mux.Router, auth *middleware.Authenticator, table []Route) {
	for _, rt := range table {
		var h http.Handler = rt.Handler
		switch rt.Access {
		case Authenticated:
			h = auth.Handler(h)
		case Manager:
			h = auth.Handler(middleware.RequireManager(h))
		}
		router.Handle(rt.Path, h).Methods(rt.Method)
	}
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
