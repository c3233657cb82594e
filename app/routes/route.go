package routes

import (
	"net/http"

	"github.com/Rakhulsr/go-perfumery/app/configs"
	"github.com/Rakhulsr/go-perfumery/app/handlers"
	"github.com/Rakhulsr/go-perfumery/app/handlers/admin"
	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/middlewares"
	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/repositories"
	"github.com/Rakhulsr/go-perfumery/app/services"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/Rakhulsr/go-perfumery/app/utils/format"
	"github.com/Rakhulsr/go-perfumery/app/utils/metrics"
	"github.com/Rakhulsr/go-perfumery/app/utils/renderer"
	"github.com/Rakhulsr/go-perfumery/app/utils/token"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewRouter wires every repository, service and handler onto one router.
// CORS wraps the router from outside so preflights never reach route
// matching, and the access log sits outside recover so panics are logged
// with their 500.
func NewRouter(db *gorm.DB, cfg *configs.Config, logger *zap.Logger, m *metrics.Metrics) http.Handler {
	rnd := renderer.New(!cfg.IsProduction())
	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	userRepo := repositories.NewUserRepository(db)
	perfumeRepo := repositories.NewPerfumeRepository(db)
	discountRepo := repositories.NewDiscountRepository(db)
	cartItemRepo := repositories.NewCartItemRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	orderItemRepo := repositories.NewOrderItemRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	favoriteRepo := repositories.NewFavoriteRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	authSvc := services.NewAuthService(userRepo, tokens, helpers.NewValidator(), logger)
	catalogSvc := services.NewCatalogService(db, perfumeRepo, cartItemRepo, favoriteRepo, reviewRepo, discountRepo, cfg.MaxPhotoBytes, logger)
	offerSvc := services.NewOfferService(db, perfumeRepo, discountRepo, logger)
	cartSvc := services.NewCartService(db, cartItemRepo, perfumeRepo, logger)
	checkoutSvc := services.NewCheckoutService(db, perfumeRepo, cartItemRepo, orderRepo, orderItemRepo, paymentRepo, m, logger)
	orderSvc := services.NewOrderService(db, orderRepo, orderItemRepo, perfumeRepo, logger)
	favoriteSvc := services.NewFavoriteService(favoriteRepo, perfumeRepo, logger)
	reviewSvc := services.NewReviewService(reviewRepo, perfumeRepo, logger)
	reportSvc := services.NewReportService(reportRepo, perfumeRepo, format.NewMoney(cfg.CurrencySymbol), logger)

	authHandler := handlers.NewAuthHandler(rnd, authSvc, logger)
	perfumeHandler := handlers.NewPerfumeHandler(rnd, catalogSvc, offerSvc, logger)
	cartHandler := handlers.NewCartHandler(rnd, cartSvc, logger)
	checkoutHandler := handlers.NewCheckoutHandler(rnd, checkoutSvc, logger)
	orderHandler := handlers.NewOrderHandler(rnd, orderSvc, logger)
	favoriteHandler := handlers.NewFavoriteHandler(rnd, favoriteSvc, logger)
	reviewHandler := handlers.NewReviewHandler(rnd, reviewSvc, logger)
	healthHandler := handlers.NewHealthHandler(rnd, db, logger)
	adminHandler := admin.NewAdminHandler(rnd, catalogSvc, offerSvc, orderSvc, reviewSvc, reportSvc, cfg.MaxPhotoBytes, logger)

	anyRole := middlewares.RequireRole(tokens, rnd, logger, models.RoleAdmin, models.RoleCustomer)
	customer := middlewares.RequireRole(tokens, rnd, logger, models.RoleCustomer)
	adminOnly := middlewares.RequireRole(tokens, rnd, logger, models.RoleAdmin)
	gate := func(mw mux.MiddlewareFunc, h http.HandlerFunc) http.Handler { return mw(h) }

	router := mux.NewRouter()
	router.Use(middlewares.Metrics(m))
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		renderer.Error(rnd, w, logger, apperror.NotFound("Not found"))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = rnd.JSON(w, http.StatusMethodNotAllowed, renderer.ErrorBody{Error: "Method not allowed"})
	})

	router.HandleFunc("/healthz", healthHandler.Healthz).Methods(http.MethodGet)
	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	// identity
	router.HandleFunc("/admin/signup", authHandler.Signup(models.RoleAdmin)).Methods(http.MethodPost)
	router.HandleFunc("/customer/signup", authHandler.Signup(models.RoleCustomer)).Methods(http.MethodPost)
	router.HandleFunc("/admin/login", authHandler.Login(models.RoleAdmin)).Methods(http.MethodPost)
	router.HandleFunc("/customer/login", authHandler.Login(models.RoleCustomer)).Methods(http.MethodPost)
	router.Handle("/dashboard", gate(anyRole, authHandler.Dashboard)).Methods(http.MethodGet)
	router.Handle("/profile", gate(anyRole, authHandler.Profile)).Methods(http.MethodGet)
	router.Handle("/profile/update", gate(anyRole, authHandler.UpdateProfile)).Methods(http.MethodPut)

	// public catalog
	router.HandleFunc("/perfumes", perfumeHandler.List).Methods(http.MethodGet)
	router.HandleFunc("/perfumes/best-sellers", perfumeHandler.BestSellers).Methods(http.MethodGet)
	router.HandleFunc("/perfumes/new-arrivals", perfumeHandler.NewArrivals).Methods(http.MethodGet)
	router.HandleFunc("/perfumes/special-offers", perfumeHandler.SpecialOffers).Methods(http.MethodGet)
	router.HandleFunc("/perfumes/photo/{id:[0-9]+}", perfumeHandler.Photo).Methods(http.MethodGet)
	router.HandleFunc("/perfumes/{id:[0-9]+}", perfumeHandler.Detail).Methods(http.MethodGet)

	// reviews
	router.HandleFunc("/perfumes/{id:[0-9]+}/reviews", reviewHandler.ForPerfume).Methods(http.MethodGet)
	router.Handle("/perfumes/{id:[0-9]+}/reviews", gate(customer, reviewHandler.Create)).Methods(http.MethodPost)
	router.Handle("/perfumes/{perfume_id:[0-9]+}/reviews/{review_id:[0-9]+}", gate(anyRole, reviewHandler.Delete)).Methods(http.MethodDelete)
	router.Handle("/users/{id:[0-9]+}/reviews", gate(customer, reviewHandler.ForUser)).Methods(http.MethodGet)
	router.HandleFunc("/reviews", reviewHandler.Overview).Methods(http.MethodGet)

	// cart, checkout, orders, favorites
	router.Handle("/cart", gate(customer, cartHandler.Add)).Methods(http.MethodPost)
	router.Handle("/cart", gate(customer, cartHandler.View)).Methods(http.MethodGet)
	router.Handle("/cart/{perfume_id:[0-9]+}", gate(customer, cartHandler.Remove)).Methods(http.MethodDelete)
	router.Handle("/checkout", gate(customer, checkoutHandler.Checkout)).Methods(http.MethodPost)
	router.Handle("/orders", gate(customer, orderHandler.History)).Methods(http.MethodGet)
	router.Handle("/recent-orders", gate(customer, orderHandler.Recent)).Methods(http.MethodGet)
	router.Handle("/favorites", gate(customer, favoriteHandler.Add)).Methods(http.MethodPost)
	router.Handle("/favorites", gate(customer, favoriteHandler.List)).Methods(http.MethodGet)
	router.Handle("/favorites", gate(customer, favoriteHandler.Remove)).Methods(http.MethodDelete)

	// admin
	adminRouter := router.PathPrefix("/admin").Subrouter()
	adminRouter.Use(adminOnly)
	adminRouter.HandleFunc("/perfumes", adminHandler.CreatePerfume).Methods(http.MethodPost)
	adminRouter.HandleFunc("/perfumes", adminHandler.ListPerfumes).Methods(http.MethodGet)
	adminRouter.HandleFunc("/perfumes", adminHandler.UpdatePerfume).Methods(http.MethodPut)
	adminRouter.HandleFunc("/perfumes", adminHandler.DeletePerfume).Methods(http.MethodDelete)
	adminRouter.HandleFunc("/perfumes/best-seller", adminHandler.SetBestSeller).Methods(http.MethodPut)
	adminRouter.HandleFunc("/special-offers", adminHandler.CreateSpecialOffer).Methods(http.MethodPost)
	adminRouter.HandleFunc("/special-offers/{id:[0-9]+}", adminHandler.UpdateSpecialOffer).Methods(http.MethodPut)
	adminRouter.HandleFunc("/special-offers/{id:[0-9]+}", adminHandler.DeleteSpecialOffer).Methods(http.MethodDelete)
	adminRouter.HandleFunc("/orders", adminHandler.ListOrders).Methods(http.MethodGet)
	adminRouter.HandleFunc("/orders/{id:[0-9]+}/cancel", adminHandler.CancelOrder).Methods(http.MethodPost)
	adminRouter.HandleFunc("/reviews", adminHandler.ListReviews).Methods(http.MethodGet)
	adminRouter.HandleFunc("/reviews/{id:[0-9]+}", adminHandler.DeleteReview).Methods(http.MethodDelete)
	adminRouter.HandleFunc("/sales/report", adminHandler.SalesReport).Methods(http.MethodGet)
	adminRouter.HandleFunc("/revenue/perfume/{id:[0-9]+}", adminHandler.PerfumeRevenue).Methods(http.MethodGet)
	adminRouter.HandleFunc("/revenue/monthly", adminHandler.MonthlyRevenue).Methods(http.MethodGet)

	var handler http.Handler = router
	handler = middlewares.CORS(cfg.AllowedOrigins())(handler)
	handler = middlewares.Recover(rnd, logger)(handler)
	handler = middlewares.AccessLog(logger)(handler)
	handler = middlewares.RequestID(handler)
	return handler
}
