package services

import (
	"context"
	"time"

	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/Rakhulsr/go-perfumery/app/repositories"
	"github.com/Rakhulsr/go-perfumery/app/utils/apperror"
	"github.com/Rakhulsr/go-perfumery/app/utils/format"
	"go.uber.org/zap"
)

const (
	defaultReportDays = 30
	maxReportDays     = 365
	topPerfumesLimit  = 10
	monthlyWindow     = 12
)

type SalesReport struct {
	PeriodDays        int
	GeneratedAt       time.Time
	Summary           repositories.SalesSummary
	TotalSalesDisplay string
	OrdersByStatus    []repositories.StatusCount
	TopPerfumes       []repositories.TopPerfume
	DailySales        []repositories.DailySales
	PaymentMethods    []repositories.PaymentMethodRevenue
}

type PerfumeRevenue struct {
	Perfume    *models.Perfume
	Stats      repositories.PerfumeSalesStats
	DailySales []repositories.DailySales
}

type MonthlyRow struct {
	repositories.MonthlyRevenue
	TotalRevenueDisplay string
}

type ReportService struct {
	reportRepo  repositories.ReportRepository
	perfumeRepo repositories.PerfumeRepository
	money       *format.Money
	logger      *zap.Logger
	now         func() time.Time
}

func NewReportService(reportRepo repositories.ReportRepository, perfumeRepo repositories.PerfumeRepository, money *format.Money, logger *zap.Logger) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		perfumeRepo: perfumeRepo,
		money:       money,
		logger:      logger.Named("reports"),
		now:         time.Now,
	}
}

// ClampDays keeps a report window within 1..365 days; zero means the default.
func ClampDays(days int) int {
	switch {
	case days == 0:
		return defaultReportDays
	case days < 1:
		return 1
	case days > maxReportDays:
		return maxReportDays
	}
	return days
}

func (s *ReportService) Sales(ctx context.Context, days int) (*SalesReport, error) {
	days = ClampDays(days)
	now := s.now()
	since := now.AddDate(0, 0, -days)

	report := &SalesReport{PeriodDays: days, GeneratedAt: now}
	var err error
	if report.Summary, err = s.reportRepo.SalesSummary(ctx, since); err != nil {
		return nil, s.fail("Sales", err)
	}
	if report.OrdersByStatus, err = s.reportRepo.OrdersByStatus(ctx, since); err != nil {
		return nil, s.fail("Sales", err)
	}
	if report.TopPerfumes, err = s.reportRepo.TopPerfumes(ctx, since, topPerfumesLimit); err != nil {
		return nil, s.fail("Sales", err)
	}
	if report.DailySales, err = s.reportRepo.DailySales(ctx, since); err != nil {
		return nil, s.fail("Sales", err)
	}
	if report.PaymentMethods, err = s.reportRepo.PaymentMethods(ctx, since); err != nil {
		return nil, s.fail("Sales", err)
	}
	report.Summary.AvgOrderValue = report.Summary.AvgOrderValue.Round(2)
	report.TotalSalesDisplay = s.money.Format(report.Summary.TotalSales)
	return report, nil
}

// Perfume reports sales of one perfume, including one that was deleted since.
func (s *ReportService) Perfume(ctx context.Context, perfumeID uint, days int) (*PerfumeRevenue, error) {
	perfume, err := s.perfumeRepo.FindUnscoped(ctx, perfumeID)
	if err != nil {
		return nil, s.fail("Perfume", err)
	}
	if perfume == nil {
		return nil, apperror.NotFound("Perfume not found")
	}

	since := s.now().AddDate(0, 0, -ClampDays(days))
	out := &PerfumeRevenue{Perfume: perfume}
	if out.Stats, err = s.reportRepo.PerfumeStats(ctx, perfumeID, since); err != nil {
		return nil, s.fail("Perfume", err)
	}
	if out.DailySales, err = s.reportRepo.PerfumeDailySales(ctx, perfumeID, since); err != nil {
		return nil, s.fail("Perfume", err)
	}
	out.Stats.AvgPriceSold = out.Stats.AvgPriceSold.Round(2)
	return out, nil
}

func (s *ReportService) Monthly(ctx context.Context) ([]MonthlyRow, error) {
	now := s.now()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(monthlyWindow - 1), 0)

	rows, err := s.reportRepo.Monthly(ctx, since)
	if err != nil {
		return nil, s.fail("Monthly", err)
	}
	out := make([]MonthlyRow, 0, len(rows))
	for _, row := range rows {
		row.AvgOrderValue = row.AvgOrderValue.Round(2)
		out = append(out, MonthlyRow{MonthlyRevenue: row, TotalRevenueDisplay: s.money.Format(row.TotalRevenue)})
	}
	return out, nil
}

func (s *ReportService) fail(op string, err error) error {
	s.logger.Error(op+": report query failed", zap.Error(err))
	return apperror.Internal("Failed to generate report", err)
}
