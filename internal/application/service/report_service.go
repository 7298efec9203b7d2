package service

import (
	"context"
	"time"

	"github.com/sangkips/retailpos-api/internal/config"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/internal/domain/value"
	"github.com/sangkips/retailpos-api/internal/domain/view"
	"github.com/sangkips/retailpos-api/pkg/apperror"
)

const reportDateLayout = "2006-01-02"

// ReportService provides the store's sales and inventory reports
type ReportService struct {
	items repository.ItemRepository
	bills repository.BillRepository
	store config.StoreConfig
	now   func() time.Time
}

// NewReportService creates a new report service
func NewReportService(items repository.ItemRepository, bills repository.BillRepository, store config.StoreConfig) *ReportService {
	return &ReportService{
		items: items,
		bills: bills,
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// DailySalesReport summarises the bills of one day
type DailySalesReport struct {
	Date string `json:"date"`
	view.SalesStatistics
}

// DailySales runs the statistics visitor over every bill of date's day.
func (s *ReportService) DailySales(ctx context.Context, date time.Time) (*DailySalesReport, error) {
	bills, err := s.bills.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	stats := view.NewStatisticsVisitor()
	view.Walk(view.Bills(bills), stats)
	return &DailySalesReport{
		Date:            date.UTC().Format(reportDateLayout),
		SalesStatistics: stats.Statistics(),
	}, nil
}

// BillSummary is one row of the bill report
type BillSummary struct {
	Number          string      `json:"bill_number"`
	Date            time.Time   `json:"date"`
	TransactionType string      `json:"transaction_type"`
	Lines           int         `json:"lines"`
	Subtotal        value.Money `json:"subtotal"`
	Discount        value.Money `json:"discount"`
	FinalAmount     value.Money `json:"final_amount"`
}

// BillReport lists the bills of one day with their running total
type BillReport struct {
	Date  string        `json:"date"`
	Bills []BillSummary `json:"bills"`
	Total value.Money   `json:"total"`
}

// Bills returns the bills of date's day, oldest first.
func (s *ReportService) Bills(ctx context.Context, date time.Time) (*BillReport, error) {
	bills, err := s.bills.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	report := &BillReport{
		Date:  date.UTC().Format(reportDateLayout),
		Bills: make([]BillSummary, 0, len(bills)),
		Total: value.Zero,
	}
	for _, b := range bills {
		report.Bills = append(report.Bills, BillSummary{
			Number:          b.Number().String(),
			Date:            b.Date(),
			TransactionType: b.TransactionType().String(),
			Lines:           b.ItemCount(),
			Subtotal:        b.Subtotal(),
			Discount:        b.Discount(),
			FinalAmount:     b.FinalAmount(),
		})
		report.Total = report.Total.Add(b.FinalAmount())
	}
	return report, nil
}

// StockLine is one stock bucket as shown in the inventory reports
type StockLine struct {
	ID              int64       `json:"id"`
	Code            string      `json:"code"`
	Name            string      `json:"name"`
	State           string      `json:"state"`
	Quantity        int         `json:"quantity"`
	Price           value.Money `json:"price"`
	Value           value.Money `json:"value"`
	PurchaseDate    time.Time   `json:"purchase_date"`
	ExpiryDate      *time.Time  `json:"expiry_date,omitempty"`
	DaysUntilExpiry *int        `json:"days_until_expiry,omitempty"`
}

// StockReport lists buckets with the value they hold
type StockReport struct {
	Lines      []StockLine `json:"lines"`
	TotalUnits int         `json:"total_units"`
	TotalValue value.Money `json:"total_value"`
}

// Stock reports every bucket in every state. Store batches emptied onto the
// shelf are left out.
func (s *ReportService) Stock(ctx context.Context) (*StockReport, error) {
	items, err := s.items.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	kept := items[:0]
	for _, it := range items {
		if it.State() == enum.ItemStateInStore && it.Quantity().IsZero() {
			continue
		}
		kept = append(kept, it)
	}
	return s.stockReport(kept), nil
}

// Reorder reports the live buckets of every code holding fewer than threshold
// units across store and shelf. A threshold of zero uses the configured
// reorder level.
func (s *ReportService) Reorder(ctx context.Context, threshold int) (*StockReport, error) {
	if threshold < 0 {
		return nil, apperror.NewFieldError("threshold", "threshold cannot be negative")
	}
	if threshold == 0 {
		threshold = s.store.LowStockThreshold
	}
	items, err := s.items.FindLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	return s.stockReport(items), nil
}

// Expiring reports the live buckets expiring within days. Zero uses the
// configured window.
func (s *ReportService) Expiring(ctx context.Context, days int) (*StockReport, error) {
	if days < 0 {
		return nil, apperror.NewFieldError("days", "days cannot be negative")
	}
	if days == 0 {
		days = s.store.ExpiringDays
	}
	items, err := s.items.FindExpiringSoon(ctx, s.now(), days)
	if err != nil {
		return nil, err
	}
	return s.stockReport(items), nil
}

func (s *ReportService) stockReport(items []*entity.Item) *StockReport {
	now := s.now()
	report := &StockReport{
		Lines:      make([]StockLine, 0, len(items)),
		TotalValue: value.Zero,
	}
	for _, it := range items {
		line := StockLine{
			ID:           it.ID(),
			Code:         it.Code().String(),
			Name:         it.Name(),
			State:        it.State().String(),
			Quantity:     it.Quantity().Value(),
			Price:        it.Price(),
			Value:        it.Price().Multiply(it.Quantity().Value()),
			PurchaseDate: it.PurchaseDate(),
			ExpiryDate:   it.ExpiryDate(),
		}
		if days, ok := it.DaysUntilExpiry(now); ok {
			line.DaysUntilExpiry = &days
		}
		report.Lines = append(report.Lines, line)
		report.TotalUnits += line.Quantity
		report.TotalValue = report.TotalValue.Add(line.Value)
	}
	return report
}
