package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/retailpos-api/internal/config"
	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/internal/domain/value"
	"github.com/sangkips/retailpos-api/internal/domain/view"
	"github.com/sangkips/retailpos-api/pkg/apperror"
	"github.com/sangkips/retailpos-api/pkg/printer"
	"go.uber.org/zap"
)

// PrinterService renders bills as receipts and sends them to the till printer.
type PrinterService struct {
	printer printer.Printer
	bills   repository.BillRepository
	users   *UserService
	header  entity.ReceiptHeader
	cfg     config.PrinterConfig
	log     *zap.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	bills repository.BillRepository,
	users *UserService,
	store config.StoreConfig,
	cfg config.PrinterConfig,
	log *zap.Logger,
) *PrinterService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PrinterService{
		printer: p,
		bills:   bills,
		users:   users,
		header: entity.ReceiptHeader{
			StoreName: store.Name,
			Address:   store.Address,
			Phone:     store.Phone,
			TaxID:     store.TaxID,
		},
		cfg: cfg,
		log: log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.cfg.Type != "none" && s.cfg.Type != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.cfg.Type,
	}
}

// Receipt builds the receipt of a stored bill without printing it.
func (s *PrinterService) Receipt(ctx context.Context, number value.BillNumber) (*entity.Receipt, string, error) {
	bill, err := s.bills.FindByNumber(ctx, number)
	if err != nil {
		return nil, "", err
	}
	if bill == nil {
		return nil, "", apperror.NewNotFoundError("Bill " + number.String())
	}

	v := s.visitor(ctx)
	v.VisitBill(bill)
	return v.Receipt(), v.Text(), nil
}

// PrintBill prints the receipt of a stored bill. The receipt is returned even
// when the printer fails so the till can show it on screen.
func (s *PrinterService) PrintBill(ctx context.Context, number value.BillNumber) (*entity.Receipt, error) {
	receipt, _, err := s.Receipt(ctx, number)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(FormatReceipt(receipt)); err != nil {
		s.log.Error("receipt print failed", zap.String("bill", number.String()), zap.Error(err))
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	s.log.Info("receipt printed", zap.String("bill", number.String()))
	return receipt, nil
}

// TestPrint sends a sample receipt to the printer.
func (s *PrinterService) TestPrint() (*entity.Receipt, error) {
	price := value.MoneyFromCents(250)
	receipt := &entity.Receipt{
		Header:          s.header,
		BillNo:          "TEST",
		Date:            time.Now().UTC().Format("2006-01-02 15:04"),
		Cashier:         "System",
		TransactionType: "TEST",
		Items: []entity.ReceiptItem{
			{Code: "TEST", Name: "Test item", Quantity: 2, UnitPrice: price, Total: price.Multiply(2)},
		},
		SubTotal: price.Multiply(2),
		Discount: value.Zero,
		Total:    price.Multiply(2),
		Cash:     price.Multiply(2),
		Change:   value.Zero,
	}

	if err := s.printer.Print(FormatReceipt(receipt)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

func (s *PrinterService) visitor(ctx context.Context) *view.ReceiptVisitor {
	var opts []view.ReceiptOption
	if s.users != nil {
		opts = append(opts, view.WithCashierNames(func(id value.UserID) string {
			return s.users.CashierName(ctx, id)
		}))
	}
	return view.NewReceiptVisitor(s.header, opts...)
}

// FormatReceipt converts a Receipt into ESC/POS bytes for 58mm paper.
func FormatReceipt(r *entity.Receipt) []byte {
	doc := printer.NewDocument(printer.Width58mm)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)
	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("Tax ID: %s", r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		Columns("Bill:", r.BillNo).
		Columns("Date:", r.Date)
	if r.Cashier != "" {
		doc.Columns("Cashier:", r.Cashier)
	}
	doc.Columns("Type:", r.TransactionType).
		Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, item.Total.String())
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", item.UnitPrice)
		}
	}

	doc.Separator('-').
		Columns("Subtotal:", r.SubTotal.String())
	if !r.Discount.IsZero() {
		doc.Columns("Discount:", r.Discount.String())
	}
	doc.SetBold(true).
		Columns("TOTAL:", r.Total.String()).
		SetBold(false).
		Columns("Cash:", r.Cash.String()).
		Columns("Change:", r.Change.String()).
		Separator('-')

	doc.SetAlign(printer.AlignCenter).
		Text("Thank you for shopping with us!").
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
