package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SalesSummary struct {
	TotalOrders   int64
	TotalSales    decimal.Decimal
	TotalShipping decimal.Decimal
	TotalTax      decimal.Decimal
	AvgOrderValue decimal.Decimal
}

type StatusCount struct {
	Status models.OrderStatus
	Count  int64
}

type TopPerfume struct {
	ID            uint
	Name          string
	TotalQuantity int64
	TotalRevenue  decimal.Decimal
	NumOrders     int64
}

type DailySales struct {
	Date     string
	Orders   int64
	Quantity int64
	Revenue  decimal.Decimal
}

type PaymentMethodRevenue struct {
	PaymentMethod string
	Count         int64
	Revenue       decimal.Decimal
}

type PerfumeSalesStats struct {
	TotalQuantitySold int64
	TotalOrders       int64
	TotalRevenue      decimal.Decimal
	AvgPriceSold      decimal.Decimal
}

type MonthlyRevenue struct {
	Month           string
	TotalOrders     int64
	TotalRevenue    decimal.Decimal
	AvgOrderValue   decimal.Decimal
	CompletedOrders int64
	CancelledOrders int64
}

type ReportRepository interface {
	SalesSummary(ctx context.Context, since time.Time) (SalesSummary, error)
	OrdersByStatus(ctx context.Context, since time.Time) ([]StatusCount, error)
	TopPerfumes(ctx context.Context, since time.Time, limit int) ([]TopPerfume, error)
	DailySales(ctx context.Context, since time.Time) ([]DailySales, error)
	PaymentMethods(ctx context.Context, since time.Time) ([]PaymentMethodRevenue, error)
	PerfumeStats(ctx context.Context, perfumeID uint, since time.Time) (PerfumeSalesStats, error)
	PerfumeDailySales(ctx context.Context, perfumeID uint, since time.Time) ([]DailySales, error)
	Monthly(ctx context.Context, since time.Time) ([]MonthlyRevenue, error)
}

// Every money aggregate below skips cancelled orders.
const (
	notCancelled = "o.status <> 'cancelled'"
	grossRevenue = "o.total_amount + COALESCE(o.shipping_cost, 0) + COALESCE(o.tax_amount, 0)"
)

type gormReportRepository struct {
	db        *gorm.DB
	dayExpr   string
	monthExpr string
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	r := &gormReportRepository{
		db:        db,
		dayExpr:   "DATE_FORMAT(o.created_at, '%Y-%m-%d')",
		monthExpr: "DATE_FORMAT(o.created_at, '%Y-%m')",
	}
	if db.Dialector.Name() == "sqlite" {
		r.dayExpr = "strftime('%Y-%m-%d', o.created_at)"
		r.monthExpr = "strftime('%Y-%m', o.created_at)"
	}
	return r
}

func (r *gormReportRepository) orders(ctx context.Context, since time.Time) *gorm.DB {
	return r.db.WithContext(ctx).Table("orders AS o").Where("o.created_at >= ?", since)
}

func (r *gormReportRepository) SalesSummary(ctx context.Context, since time.Time) (SalesSummary, error) {
	var s SalesSummary
	err := r.orders(ctx, since).
		Select(`COUNT(*) AS total_orders,
			COALESCE(SUM(o.total_amount), 0) AS total_sales,
			COALESCE(SUM(o.shipping_cost), 0) AS total_shipping,
			COALESCE(SUM(o.tax_amount), 0) AS total_tax,
			COALESCE(AVG(o.total_amount), 0) AS avg_order_value`).
		Where(notCancelled).
		Scan(&s).Error
	if err != nil {
		return s, fmt.Errorf("sales summary: %w", err)
	}
	return s, nil
}

func (r *gormReportRepository) OrdersByStatus(ctx context.Context, since time.Time) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.orders(ctx, since).
		Select("o.status, COUNT(*) AS count").
		Group("o.status").
		Order("o.status ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *gormReportRepository) TopPerfumes(ctx context.Context, since time.Time, limit int) ([]TopPerfume, error) {
	var rows []TopPerfume
	err := r.orders(ctx, since).
		Select(`p.id, p.name,
			SUM(oi.quantity) AS total_quantity,
			SUM(oi.quantity * oi.unit_price) AS total_revenue,
			COUNT(DISTINCT oi.order_id) AS num_orders`).
		Joins("JOIN order_items AS oi ON oi.order_id = o.id").
		Joins("JOIN perfumes AS p ON p.id = oi.perfume_id").
		Where(notCancelled).
		Group("p.id, p.name").
		Order("total_revenue DESC").
		Order("p.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *gormReportRepository) DailySales(ctx context.Context, since time.Time) ([]DailySales, error) {
	var rows []DailySales
	err := r.orders(ctx, since).
		Select(fmt.Sprintf("%s AS date, COUNT(*) AS orders, COALESCE(SUM(%s), 0) AS revenue", r.dayExpr, grossRevenue)).
		Where(notCancelled).
		Group(r.dayExpr).
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *gormReportRepository) PaymentMethods(ctx context.Context, since time.Time) ([]PaymentMethodRevenue, error) {
	var rows []PaymentMethodRevenue
	err := r.orders(ctx, since).
		Select(fmt.Sprintf("o.payment_method, COUNT(*) AS count, COALESCE(SUM(%s), 0) AS revenue", grossRevenue)).
		Where(notCancelled).
		Group("o.payment_method").
		Order("o.payment_method ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *gormReportRepository) PerfumeStats(ctx context.Context, perfumeID uint, since time.Time) (PerfumeSalesStats, error) {
	var s PerfumeSalesStats
	err := r.orders(ctx, since).
		Select(`COALESCE(SUM(oi.quantity), 0) AS total_quantity_sold,
			COUNT(DISTINCT oi.order_id) AS total_orders,
			COALESCE(SUM(oi.quantity * oi.unit_price), 0) AS total_revenue,
			COALESCE(AVG(oi.unit_price), 0) AS avg_price_sold`).
		Joins("JOIN order_items AS oi ON oi.order_id = o.id").
		Where("oi.perfume_id = ?", perfumeID).
		Where(notCancelled).
		Scan(&s).Error
	return s, err
}

func (r *gormReportRepository) PerfumeDailySales(ctx context.Context, perfumeID uint, since time.Time) ([]DailySales, error) {
	var rows []DailySales
	err := r.orders(ctx, since).
		Select(fmt.Sprintf(`%s AS date, COUNT(DISTINCT o.id) AS orders,
			SUM(oi.quantity) AS quantity, SUM(oi.quantity * oi.unit_price) AS revenue`, r.dayExpr)).
		Joins("JOIN order_items AS oi ON oi.order_id = o.id").
		Where("oi.perfume_id = ?", perfumeID).
		Where(notCancelled).
		Group(r.dayExpr).
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *gormReportRepository) Monthly(ctx context.Context, since time.Time) ([]MonthlyRevenue, error) {
	var rows []MonthlyRevenue
	err := r.orders(ctx, since).
		Select(fmt.Sprintf(`%s AS month,
			COUNT(*) AS total_orders,
			COALESCE(SUM(CASE WHEN %s THEN %s ELSE 0 END), 0) AS total_revenue,
			COALESCE(AVG(CASE WHEN %s THEN o.total_amount END), 0) AS avg_order_value,
			SUM(CASE WHEN o.status = 'paid' THEN 1 ELSE 0 END) AS completed_orders,
			SUM(CASE WHEN o.status = 'cancelled' THEN 1 ELSE 0 END) AS cancelled_orders`,
			r.monthExpr, notCancelled, grossRevenue, notCancelled)).
		Group(r.monthExpr).
		Order("month DESC").
		Scan(&rows).Error
	return rows, err
}
