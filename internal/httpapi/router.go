package httpapi

import (
	"net/http"

	authapp "github.com/agromart/agromart/internal/auth/app"
	cartapp "github.com/agromart/agromart/internal/cart/app"
	catalogapp "github.com/agromart/agromart/internal/catalog/app"
	checkoutapp "github.com/agromart/agromart/internal/checkout/app"
	orderapp "github.com/agromart/agromart/internal/order/app"
	paymentapp "github.com/agromart/agromart/internal/payment/app"
	"github.com/agromart/agromart/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Deps struct {
	Auth     *authapp.Service
	Cart     *cartapp.Service
	Catalog  *catalogapp.Service
	Checkout *checkoutapp.Service
	Orders   *orderapp.Service
	Payments *paymentapp.Service
	Metrics  *metrics.ServerMetrics
	Log      zerolog.Logger
}

func NewRouter(d Deps) http.Handler {
	auth := newAuthenticator(d.Auth.VerifyAccess)

	authH := &authHandlers{auth: d.Auth}
	cartH := &cartHandlers{cart: d.Cart, checkout: d.Checkout, metrics: d.Metrics}
	orderH := &orderHandlers{orders: d.Orders}
	paymentH := &paymentHandlers{payments: d.Payments}
	catalogH := &catalogHandlers{catalog: d.Catalog}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(d.Log, d.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondData(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", authH.signup)
		r.Post("/login", authH.login)
		r.Post("/refresh/{token}", authH.refresh)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser)
			r.Get("/me", authH.me)
			r.Post("/logout", authH.logout)
		})
	})

	r.Route("/api/category", func(r chi.Router) {
		r.Get("/get-categories", catalogH.listCategories)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/create-category", catalogH.createCategory)
			r.Put("/update-category/{id}", catalogH.updateCategory)
			r.Delete("/delete-category/{id}", catalogH.deleteCategory)
		})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", catalogH.listProducts)
		r.Get("/{id}", catalogH.getProduct)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/", catalogH.createProduct)
			r.Put("/{id}", catalogH.updateProduct)
			r.Delete("/{id}", catalogH.deleteProduct)
		})
	})

	r.Route("/api/listings", func(r chi.Router) {
		r.Get("/open", catalogH.openListings)
		r.Get("/{id}", catalogH.getListing)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser)
			r.Post("/", catalogH.createListing)
			r.Get("/mine", catalogH.myListings)
		})
	})

	r.Route("/api/buy", func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Post("/add-toCart", cartH.addToCart)
		r.Get("/get-cartItems", cartH.getCartItems)
		r.Post("/update-cartItems", cartH.updateCartItems)
		r.Put("/update-cartItems", cartH.updateCartItems)
		r.Post("/delete-cartItems", cartH.deleteCartItem)
		r.Delete("/delete-cartItems/{id}", cartH.deleteCartItem)
		r.Post("/buy-product", cartH.buyProduct)
		r.Post("/get-myOrders", orderH.getMyOrders)
		r.Get("/get-myOrders", orderH.getMyOrders)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Put("/update-order-status", orderH.updateOrderStatus)
			r.Get("/get-allOrders", orderH.listAll(false))
			r.Get("/admin/orders-with-payments", orderH.listAll(true))
		})
	})

	r.Route("/api/payments", func(r chi.Router) {
		r.Use(auth.RequireUser)
		r.Post("/create", paymentH.create)
		r.Get("/user", paymentH.listMine)
		r.Get("/{id}", paymentH.get)
		r.Put("/{id}/cancel", paymentH.cancel)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Put("/update-status", paymentH.updateStatus)
			r.Get("/all", paymentH.listAll)
		})
	})

	return r
}
