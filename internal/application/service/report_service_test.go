package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/retailpos-api/internal/config"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/internal/domain/value"
	"github.com/sangkips/retailpos-api/internal/domain/view"
	"github.com/sangkips/retailpos-api/pkg/apperror"
	"github.com/sangkips/retailpos-api/pkg/email"
	"github.com/sangkips/retailpos-api/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var testStore = config.StoreConfig{
	Name:              "Corner Shop",
	Address:           "1 Main Street",
	LowStockThreshold: 5,
	ExpiringDays:      7,
}

func TestDailySalesAndBillReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stock(t, "MILK01", "2.50", 10, 10, nil)
	f.stock(t, "BREAD1", "1.20", 10, 10, nil)

	f.sell(t, value.UserID{}, "10.00", map[string]int{"MILK01": 2})
	f.sell(t, value.UserID{}, "10.00", map[string]int{"BREAD1": 1})
	f.sell(t, value.UserID{}, "10.00", map[string]int{"MILK01": 1})

	reports := NewReportService(f.items, f.bills, testStore)
	daily, err := reports.DailySales(ctx, today())
	require.NoError(t, err)
	assert.Equal(t, today().Format("2006-01-02"), daily.Date)
	assert.Equal(t, 3, daily.BillCount)
	assert.Equal(t, "8.70", daily.TotalRevenue.String())
	assert.Equal(t, 4, daily.ItemsSold)
	require.NotNil(t, daily.MostPopular)
	assert.Equal(t, "MILK01", daily.MostPopular.Code)

	bills, err := reports.Bills(ctx, today())
	require.NoError(t, err)
	require.Len(t, bills.Bills, 3)
	assert.Equal(t, "BILL-000001", bills.Bills[0].Number)
	assert.Equal(t, "8.70", bills.Total.String())

	empty, err := reports.DailySales(ctx, today().AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Zero(t, empty.BillCount)
	assert.Nil(t, empty.MostPopular)
}

func TestStockReports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stock(t, "MILK01", "2.50", 10, 3, inDays(2))
	f.stock(t, "RICE05", "6.00", 40, 0, nil)

	reports := NewReportService(f.items, f.bills, testStore)

	stock, err := reports.Stock(ctx)
	require.NoError(t, err)
	assert.Len(t, stock.Lines, 3)
	assert.Equal(t, 50, stock.TotalUnits)
	assert.Equal(t, "265.00", stock.TotalValue.String())

	reorder, err := reports.Reorder(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, reorder.Lines, "3 shelved units with 7 in store is not below 5")

	reorder, err = reports.Reorder(ctx, 11)
	require.NoError(t, err)
	require.Len(t, reorder.Lines, 2, "both MILK01 buckets, 10 units in total")
	for _, l := range reorder.Lines {
		assert.Equal(t, "MILK01", l.Code)
	}

	reorder, err = reports.Reorder(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, reorder.Lines, 3)

	_, err = f.inventory.MoveToShelf(ctx, code(t, "MILK01"), 7)
	require.NoError(t, err)

	stock, err = reports.Stock(ctx)
	require.NoError(t, err)
	assert.Len(t, stock.Lines, 2, "the emptied store batch is not listed")
	assert.Equal(t, 50, stock.TotalUnits)

	reorder, err = reports.Reorder(ctx, 11)
	require.NoError(t, err)
	require.Len(t, reorder.Lines, 1)
	assert.Equal(t, enum.ItemStateOnShelf.String(), reorder.Lines[0].State)
	assert.Equal(t, 10, reorder.Lines[0].Quantity)

	_, err = reports.Reorder(ctx, -1)
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	expiring, err := reports.Expiring(ctx, 0)
	require.NoError(t, err)
	require.Len(t, expiring.Lines, 1, "only the shelf bucket still holds units")
	for _, l := range expiring.Lines {
		require.NotNil(t, l.DaysUntilExpiry)
		assert.Equal(t, 2, *l.DaysUntilExpiry)
	}

	expiring, err = reports.Expiring(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, expiring.Lines)
}

type recordingSender struct {
	to   []string
	sent []email.OrderConfirmation
	err  error
}

func (s *recordingSender) SendOrderConfirmation(to string, data email.OrderConfirmation) error {
	s.to = append(s.to, to)
	s.sent = append(s.sent, data)
	return s.err
}

func TestPlaceOnlineOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.stock(t, "MILK01", "2.50", 10, 10, nil)
	bill := f.sell(t, value.UserID{}, "5.00", map[string]int{"MILK01": 2})

	sender := &recordingSender{}
	orders := NewOnlineOrderService(f.bills, sender, testStore.Name, zaptest.NewLogger(t))

	order, err := orders.PlaceOrder(ctx, &PlaceOrderInput{
		BillNumber: bill.Number(),
		Contact:    view.Contact{Name: "Ada", Email: "ada@example.com"},
		Address:    "2 High Street",
	})
	require.NoError(t, err)
	assert.Equal(t, enum.TransactionTypeOnline, order.TransactionType())
	assert.Equal(t, "5.00", order.FinalAmount().String())
	assert.WithinDuration(t, bill.Date().AddDate(0, 0, view.DeliveryDays), order.EstimatedDelivery(), time.Second)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ada@example.com", sender.to[0])
	assert.Equal(t, order.TrackingToken(), sender.sent[0].TrackingToken)
	assert.Equal(t, []email.OrderLine{{Name: "MILK01 item", Quantity: 2, Total: "5.00"}}, sender.sent[0].Lines)

	stored, err := f.bills.FindByNumber(ctx, bill.Number())
	require.NoError(t, err)
	assert.Equal(t, enum.TransactionTypeInStore, stored.TransactionType(), "the stored bill is untouched")

	sender.err = errors.New("smtp down")
	_, err = orders.PlaceOrder(ctx, &PlaceOrderInput{
		BillNumber: bill.Number(),
		Contact:    view.Contact{Name: "Ada", Email: "ada@example.com"},
		Address:    "2 High Street",
	})
	assert.NoError(t, err, "a failed confirmation does not fail the order")

	_, err = orders.PlaceOrder(ctx, &PlaceOrderInput{
		BillNumber: bill.Number(),
		Contact:    view.Contact{Name: "Ada", Phone: "0700000000"},
		Address:    "2 High Street",
	})
	require.NoError(t, err)
	assert.Len(t, sender.sent, 2, "no email address, no email")

	missing, _ := value.NewBillNumber(99)
	_, err = orders.PlaceOrder(ctx, &PlaceOrderInput{BillNumber: missing, Contact: view.Contact{Name: "Ada", Phone: "1"}, Address: "x"})
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestPrintBill(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	log := zaptest.NewLogger(t)

	users := NewUserService(f.users, log)
	cashier, err := users.CreateUser(ctx, &CreateUserInput{Username: "till1", FullName: "Grace Hopper", Password: "password1"})
	require.NoError(t, err)
	cashierID, err := cashier.UserID()
	require.NoError(t, err)

	f.stock(t, "MILK01", "2.50", 10, 10, nil)
	bill := f.sell(t, cashierID, "10.00", map[string]int{"MILK01": 3})

	p := printer.NewMemoryPrinter()
	svc := NewPrinterService(p, f.bills, users, testStore, config.PrinterConfig{Type: "none"}, log)

	receipt, err := svc.PrintBill(ctx, bill.Number())
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", receipt.Cashier)
	assert.Equal(t, "Corner Shop", receipt.Header.StoreName)
	assert.Equal(t, "7.50", receipt.Total.String())
	assert.Equal(t, "2.50", receipt.Change.String())

	jobs := p.Jobs()
	require.Len(t, jobs, 1)
	assert.True(t, bytes.Contains(jobs[0], []byte("BILL-000001")))
	assert.True(t, bytes.Contains(jobs[0], []byte("3x MILK01 item")))

	_, text, err := svc.Receipt(ctx, bill.Number())
	require.NoError(t, err)
	assert.True(t, strings.Contains(text, "Cashier:"))

	status := svc.GetStatus()
	assert.False(t, status.Configured)

	missing, _ := value.NewBillNumber(42)
	_, err = svc.PrintBill(ctx, missing)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestAuthAndUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	log := zaptest.NewLogger(t)
	jwt := newTestJWT()

	users := NewUserService(f.users, log)
	auth := NewAuthService(f.users, jwt, log)

	_, err := users.CreateUser(ctx, &CreateUserInput{Username: "", Password: "short", Role: "owner"})
	appErr := apperror.GetAppError(err)
	require.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Len(t, appErr.Errors, 3)

	created, err := users.CreateUser(ctx, &CreateUserInput{Username: "till1", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "cashier", created.Role)

	_, err = users.CreateUser(ctx, &CreateUserInput{Username: "till1", Password: "password1"})
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	out, err := auth.Login(ctx, &LoginInput{Username: "till1", Password: "password1"})
	require.NoError(t, err)
	claims, err := jwt.ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)

	_, err = auth.Login(ctx, &LoginInput{Username: "till1", Password: "wrong"})
	assert.Equal(t, apperror.ErrInvalidCredentials, err)
	_, err = auth.Login(ctx, &LoginInput{Username: "ghost", Password: "password1"})
	assert.Equal(t, apperror.ErrInvalidCredentials, err)

	require.NoError(t, auth.ChangePassword(ctx, &ChangePasswordInput{UserID: created.ID, CurrentPassword: "password1", NewPassword: "password2"}))
	_, err = auth.Login(ctx, &LoginInput{Username: "till1", Password: "password2"})
	require.NoError(t, err)

	err = auth.ChangePassword(ctx, &ChangePasswordInput{UserID: created.ID, CurrentPassword: "password1", NewPassword: "password3"})
	assert.True(t, errors.Is(err, apperror.ErrValidation))

	list, err := users.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	id, _ := value.NewUserID(created.ID)
	assert.Equal(t, "till1", users.CashierName(ctx, id))
	unknown, _ := value.NewUserID(999)
	assert.Equal(t, "#999", users.CashierName(ctx, unknown))
}
