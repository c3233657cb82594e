package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/helpers"
	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/repositories"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/shopspring/decimal"
)

const maxJSONBody = 1 << 20

// DecodeJSON reads a JSON body. An empty body decodes to the zero value so
// field checks produce their own messages.
func DecodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apperror.Validation("Invalid JSON body")
}

// FormValue returns nil when key was not submitted at all.
func FormValue(r *http.Request, key string) *string {
	if r.MultipartForm != nil {
		if vs, ok := r.MultipartForm.Value[key]; ok && len(vs) > 0 {
			return &vs[0]
		}
	}
	if vs, ok := r.Form[key]; ok && len(vs) > 0 {
		return &vs[0]
	}
	return nil
}

func IDFromForm(r *http.Request, key, message string) (uint, error) {
	id, ok := helpers.ParseID(r.FormValue(key))
	if !ok {
		return 0, apperror.Validation("%s", message)
	}
	return id, nil
}

func IsJSON(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "application/json")
}

type PerfumeView struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	Available    bool            `json:"available"`
	Category     string          `json:"category"`
	Sizes        []string        `json:"size"`
	TopNotes     string          `json:"top_notes"`
	HeartNotes   string          `json:"heart_notes"`
	BaseNotes    string          `json:"base_notes"`
	IsBestSeller bool            `json:"is_best_seller"`
	InStock      bool            `json:"in_stock"`
	StockLevel   string          `json:"stock_level"`
	PhotoURL     string          `json:"photo_url"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func NewPerfumeView(baseURL string, p *models.Perfume) PerfumeView {
	sizes := []string(p.Sizes)
	if sizes == nil {
		sizes = []string{}
	}
	return PerfumeView{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Quantity:     p.Quantity,
		Available:    p.Available,
		Category:     p.Category,
		Sizes:        sizes,
		TopNotes:     p.TopNotes,
		HeartNotes:   p.HeartNotes,
		BaseNotes:    p.BaseNotes,
		IsBestSeller: p.IsBestSeller,
		InStock:      p.InStock(),
		StockLevel:   p.StockLevel(),
		PhotoURL:     helpers.PhotoURL(baseURL, p.ID),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func PerfumeViews(baseURL string, perfumes []models.Perfume) []PerfumeView {
	views := make([]PerfumeView, 0, len(perfumes))
	for i := range perfumes {
		views = append(views, NewPerfumeView(baseURL, &perfumes[i]))
	}
	return views
}

type OrderItemView struct {
	PerfumeID uint            `json:"perfume_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Size      *string         `json:"size"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	PhotoURL  string          `json:"photo_url"`
}

type OrderView struct {
	ID            uint               `json:"id"`
	OrderCode     string             `json:"order_code"`
	UserID        uint               `json:"user_id"`
	Username      string             `json:"username,omitempty"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	ShippingCost  decimal.Decimal    `json:"shipping_cost"`
	TaxAmount     decimal.Decimal    `json:"tax_amount"`
	GrandTotal    decimal.Decimal    `json:"grand_total"`
	Status        models.OrderStatus `json:"status"`
	PaymentMethod string             `json:"payment_method"`
	FirstName     string             `json:"shipping_first_name"`
	LastName      string             `json:"shipping_last_name"`
	Email         string             `json:"shipping_email"`
	Phone         string             `json:"shipping_phone"`
	Address       string             `json:"shipping_address"`
	City          string             `json:"shipping_city"`
	State         string             `json:"shipping_state"`
	Zip           string             `json:"shipping_zip"`
	CreatedAt     time.Time          `json:"created_at"`
	Items         []OrderItemView    `json:"items"`
}

// OrderItemViews falls back to the perfume's first size when the line
// was bought without one.
func OrderItemViews(baseURL string, items []models.OrderItem) []OrderItemView {
	views := make([]OrderItemView, 0, len(items))
	for _, it := range items {
		v := OrderItemView{
			PerfumeID: it.PerfumeID,
			Quantity:  it.Quantity,
			Size:      it.Size,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal(),
			PhotoURL:  helpers.PhotoURL(baseURL, it.PerfumeID),
		}
		if it.Perfume != nil {
			v.Name = it.Perfume.Name
			if v.Size == nil && len(it.Perfume.Sizes) > 0 {
				size := it.Perfume.DefaultSize()
				v.Size = &size
			}
		}
		views = append(views, v)
	}
	return views
}

func NewOrderView(baseURL string, o *models.Order) OrderView {
	v := OrderView{
		ID:            o.ID,
		OrderCode:     o.OrderCode,
		UserID:        o.UserID,
		TotalAmount:   o.TotalAmount,
		ShippingCost:  o.ShippingCost,
		TaxAmount:     o.TaxAmount,
		GrandTotal:    o.GrandTotal().Round(2),
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		FirstName:     o.FirstName,
		LastName:      o.LastName,
		Email:         o.Email,
		Phone:         o.Phone,
		Address:       o.Address,
		City:          o.City,
		State:         o.State,
		Zip:           o.Zip,
		CreatedAt:     o.CreatedAt,
		Items:         OrderItemViews(baseURL, o.OrderItems),
	}
	if o.User != nil {
		v.Username = o.User.Username
	}
	return v
}

func OrderViews(baseURL string, orders []models.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, NewOrderView(baseURL, &orders[i]))
	}
	return views
}

type ReviewView struct {
	ID          uint      `json:"id"`
	PerfumeID   uint      `json:"perfume_id"`
	PerfumeName string    `json:"perfume_name"`
	UserID      uint      `json:"user_id"`
	Username    string    `json:"user_name"`
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
}

func ReviewViews(lines []repositories.ReviewLine) []ReviewView {
	views := make([]ReviewView, 0, len(lines))
	for _, l := range lines {
		views = append(views, ReviewView{
			ID:          l.ID,
			PerfumeID:   l.PerfumeID,
			PerfumeName: l.PerfumeName,
			UserID:      l.UserID,
			Username:    l.Username,
			Rating:      l.Rating,
			Comment:     l.Comment,
			CreatedAt:   l.CreatedAt,
		})
	}
	return views
}
