package services

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/db/testdb"
	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/repositories"
	"github.com/Rakhulsr/go-perfumery/app/utils/format"
	"github.com/Rakhulsr/go-perfumery/app/utils/metrics"
	"github.com/Rakhulsr/go-perfumery/app/utils/token"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

type env struct {
	db      *gorm.DB
	metrics *metrics.Metrics
	tokens  *token.Manager

	perfumes repositories.PerfumeRepository
	carts    repositories.CartItemRepository
	orders   repositories.OrderRepository
	items    repositories.OrderItemRepository
	payments repositories.PaymentRepository
	users    repositories.UserRepository

	auth     *AuthService
	catalog  *CatalogService
	offers   *OfferService
	cart     *CartService
	checkout *CheckoutService
	order    *OrderService
	favorite *FavoriteService
	review   *ReviewService
	report   *ReportService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testdb.Open(t)
	logger := zap.NewNop()

	e := &env{
		db:       db,
		metrics:  metrics.New(),
		tokens:   token.NewManager(testSecret, time.Hour),
		perfumes: repositories.NewPerfumeRepository(db),
		carts:    repositories.NewCartItemRepository(db),
		orders:   repositories.NewOrderRepository(db),
		items:    repositories.NewOrderItemRepository(db),
		payments: repositories.NewPaymentRepository(db),
		users:    repositories.NewUserRepository(db),
	}
	favorites := repositories.NewFavoriteRepository(db)
	reviews := repositories.NewReviewRepository(db)
	discounts := repositories.NewDiscountRepository(db)

	e.auth = NewAuthService(e.users, e.tokens, helpers.NewValidator(), logger)
	e.catalog = NewCatalogService(db, e.perfumes, e.carts, favorites, reviews, discounts, 1<<20, logger)
	e.offers = NewOfferService(db, e.perfumes, discounts, logger)
	e.cart = NewCartService(db, e.carts, e.perfumes, logger)
	e.checkout = NewCheckoutService(db, e.perfumes, e.carts, e.orders, e.items, e.payments, e.metrics, logger)
	e.order = NewOrderService(db, e.orders, e.items, e.perfumes, logger)
	e.favorite = NewFavoriteService(favorites, e.perfumes, logger)
	e.review = NewReviewService(reviews, e.perfumes, logger)
	e.report = NewReportService(repositories.NewReportRepository(db), e.perfumes, format.NewMoney("$"), logger)
	return e
}

func (e *env) user(t *testing.T, username string, roleID int) *token.Claims {
	t.Helper()
	hash, err := helpers.HashPassword("secret123")
	require.NoError(t, err)
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PhoneNumber:  fmt.Sprintf("0800%s", username),
		PasswordHash: hash,
		RoleID:       roleID,
	}
	require.NoError(t, e.db.Create(u).Error)
	return &token.Claims{UserID: u.ID, Username: u.Username, RoleID: u.RoleID}
}

func (e *env) perfume(t *testing.T, name, price string, qty int, sizes ...string) *models.Perfume {
	t.Helper()
	p := &models.Perfume{
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Quantity:  qty,
		Available: true,
		Category:  models.CategoryUnisex,
		Sizes:     models.SizeList(sizes),
	}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *env) stock(t *testing.T, id uint) int {
	t.Helper()
	var p models.Perfume
	require.NoError(t, e.db.Unscoped().Select("quantity").First(&p, id).Error)
	return p.Quantity
}

func (e *env) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}

func raw(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

var validShipping = map[string]string{
	"firstName": "Ada",
	"lastName":  "Lovelace",
	"email":     "ADA@Example.com",
	"phone":     "0812345678",
	"address":   "1 Analytical St",
	"city":      "London",
	"state":     "LDN",
	"zip":       "10001",
}

type item struct {
	PerfumeID uint   `json:"perfume_id"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	Size      string `json:"selectedSize,omitempty"`
}

func checkoutRequest(method string, items ...item) *CheckoutRequest {
	req := &CheckoutRequest{
		Shipping:      raw(validShipping),
		PaymentMethod: raw(method),
		Items:         raw(items),
		TotalPrice:    raw(100),
		Tax:           raw("10.00"),
		ShippingCost:  raw(5),
	}
	if method == models.PaymentMethodCard {
		req.CardDetails = raw(map[string]string{
			"cardName":   "Ada Lovelace",
			"cardNumber": "4111 1111 1111 1234",
			"expiry":     "12/30",
			"cvv":        "123",
		})
	}
	return req
}
