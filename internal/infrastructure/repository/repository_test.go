package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/internal/domain/value"
	"github.com/sangkips/retailpos-api/internal/infrastructure/database"
	"github.com/sangkips/retailpos-api/internal/infrastructure/database/dbtest"
	"github.com/sangkips/retailpos-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var now = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

func daysFromNow(n int) *time.Time {
	t := dayStart(now).AddDate(0, 0, n)
	return &t
}

func mustCode(t *testing.T, raw string) value.ItemCode {
	t.Helper()
	c, err := value.NewItemCode(raw)
	require.NoError(t, err)
	return c
}

func newItemRepo(db *dbtest.DB) *itemRepository {
	return &itemRepository{db: db.Tx, now: func() time.Time { return now }}
}

func createStock(t *testing.T, repo *itemRepository, code string, qty int, price float64, expiry *time.Time) *entity.Item {
	t.Helper()
	item, err := entity.NewItem(mustCode(t, code), code+" item", value.MoneyFromFloat(price), value.MustQuantity(qty), now.AddDate(0, 0, -30), expiry)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), item))
	require.NotZero(t, item.ID())
	return item
}

func shelve(t *testing.T, repo *itemRepository, store *entity.Item, n int) *entity.Item {
	t.Helper()
	ctx := context.Background()
	shelf, err := store.MoveToShelf(n)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, store))
	require.NoError(t, repo.Create(ctx, shelf))
	return shelf
}

func TestFindByCodePrefersSellableShelfBucket(t *testing.T) {
	db := dbtest.Default(t)
	repo := newItemRepo(db)
	ctx := context.Background()

	missing, err := repo.FindByCode(ctx, mustCode(t, "NONE01"))
	require.NoError(t, err)
	assert.Nil(t, missing)

	store := createStock(t, repo, "MILK01", 20, 2.5, daysFromNow(10))

	found, err := repo.FindByCode(ctx, store.Code())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, store.ID(), found.ID())
	assert.Equal(t, enum.ItemStateInStore, found.State())
	assert.Equal(t, "2.50", found.Price().String())

	later := createStock(t, repo, "MILK01", 20, 2.5, daysFromNow(20))
	shelve(t, repo, later, 5)
	sooner := shelve(t, repo, store, 8)

	found, err = repo.FindByCode(ctx, store.Code())
	require.NoError(t, err)
	assert.Equal(t, sooner.ID(), found.ID(), "earliest expiry first")
	assert.Equal(t, enum.ItemStateOnShelf, found.State())
	assert.Equal(t, 8, found.Quantity().Value())
	require.NotNil(t, found.ExpiryDate())
	assert.True(t, daysFromNow(10).Equal(*found.ExpiryDate()))
}

func TestFindByCodeSkipsExpiredShelfBucket(t *testing.T) {
	db := dbtest.Default(t)
	repo := newItemRepo(db)
	ctx := context.Background()

	stale := createStock(t, repo, "BREAD1", 5, 1.2, daysFromNow(-1))
	shelve(t, repo, stale, 5)
	fresh := createStock(t, repo, "BREAD1", 5, 1.2, daysFromNow(2))
	freshShelf := shelve(t, repo, fresh, 3)

	found, err := repo.FindByCode(ctx, stale.Code())
	require.NoError(t, err)
	assert.Equal(t, freshShelf.ID(), found.ID())
	assert.True(t, found.IsSellable(now))

	available, err := repo.FindAvailable(ctx, now)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, freshShelf.ID(), available[0].ID())
}

func TestUpdateDetectsConcurrentModification(t *testing.T) {
	db := dbtest.Default(t)
	repo := newItemRepo(db)
	ctx := context.Background()

	store := createStock(t, repo, "EGGS12", 10, 3, nil)

	first, err := repo.FindByCode(ctx, store.Code())
	require.NoError(t, err)
	second, err := repo.FindByCode(ctx, store.Code())
	require.NoError(t, err)

	_, err = first.MoveToShelf(4)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, first))
	assert.Equal(t, 2, first.Version())

	_, err = second.MoveToShelf(8)
	require.NoError(t, err)
	err = repo.Update(ctx, second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStaleItem))
	assert.True(t, errors.Is(err, apperror.ErrStorage))

	reloaded, err := repo.FindByCode(ctx, store.Code())
	require.NoError(t, err)
	assert.Equal(t, 6, reloaded.Quantity().Value())
}

func TestFindBucket(t *testing.T) {
	db := dbtest.Default(t)
	repo := newItemRepo(db)
	ctx := context.Background()

	withExpiry := createStock(t, repo, "MILK01", 10, 2.5, daysFromNow(5))
	noExpiry := createStock(t, repo, "MILK01", 10, 2.5, nil)

	got, err := repo.FindBucket(ctx, withExpiry.Code(), enum.ItemStateInStore, daysFromNow(5))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, withExpiry.ID(), got.ID())

	got, err = repo.FindBucket(ctx, withExpiry.Code(), enum.ItemStateInStore, nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, noExpiry.ID(), got.ID())

	got, err = repo.FindBucket(ctx, withExpiry.Code(), enum.ItemStateOnShelf, daysFromNow(5))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestReportQueries(t *testing.T) {
	db := dbtest.Default(t)
	repo := newItemRepo(db)
	ctx := context.Background()

	createStock(t, repo, "AAAA01", 80, 1, nil)
	createStock(t, repo, "BBBB01", 30, 1, daysFromNow(3))
	createStock(t, repo, "CCCC01", 10, 1, daysFromNow(1))
	expired := createStock(t, repo, "DDDD01", 5, 1, daysFromNow(-2))
	createStock(t, repo, "EEEE01", 100, 1, daysFromNow(30))
	// 3 on the shelf but 57 more in store: not low
	shelve(t, repo, createStock(t, repo, "FFFF01", 60, 1, nil), 3)
	// fully shelved: the emptied store batch is not listed
	shelve(t, repo, createStock(t, repo, "GGGG01", 10, 1, nil), 10)

	lowStock, err := repo.FindLowStock(ctx, 50)
	require.NoError(t, err)
	codes := func(items []*entity.Item) []string {
		out := make([]string, len(items))
		for i, it := range items {
			out[i] = it.Code().String()
		}
		return out
	}
	assert.Equal(t, []string{"BBBB01", "CCCC01", "DDDD01", "GGGG01"}, codes(lowStock))
	assert.Equal(t, enum.ItemStateOnShelf, lowStock[3].State())

	expiring, err := repo.FindExpiringSoon(ctx, now, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"CCCC01", "BBBB01"}, codes(expiring))

	stale, err := repo.FindExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, expired.ID(), stale[0].ID())

	require.True(t, stale[0].EvaluateExpiry(now))
	require.NoError(t, repo.Update(ctx, stale[0]))

	lowStock, err = repo.FindLowStock(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"BBBB01", "CCCC01", "GGGG01"}, codes(lowStock), "expired buckets are not reorder candidates")

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 9)
}

func TestFindSellableListsEveryShelfBucket(t *testing.T) {
	db := dbtest.Default(t)
	repo := newItemRepo(db)
	ctx := context.Background()

	late := shelve(t, repo, createStock(t, repo, "MILK01", 5, 2.5, daysFromNow(10)), 5)
	early := shelve(t, repo, createStock(t, repo, "MILK01", 3, 2.5, daysFromNow(5)), 3)
	shelve(t, repo, createStock(t, repo, "MILK01", 4, 2.5, daysFromNow(-1)), 4)
	createStock(t, repo, "MILK01", 9, 2.5, daysFromNow(20))

	sellable, err := repo.FindSellable(ctx, early.Code(), now)
	require.NoError(t, err)
	require.Len(t, sellable, 2)
	assert.Equal(t, early.ID(), sellable[0].ID())
	assert.Equal(t, late.ID(), sellable[1].ID())

	none, err := repo.FindSellable(ctx, mustCode(t, "NOPE01"), now)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func mustSaleBill(t *testing.T, items []*entity.Item, number int64, date time.Time, qty ...int) *entity.Bill {
	t.Helper()
	lines := make([]entity.BillItem, len(items))
	for i, it := range items {
		line, err := entity.NewBillItem(it, qty[i])
		require.NoError(t, err)
		lines[i] = line
	}
	bn, err := value.NewBillNumber(number)
	require.NoError(t, err)
	cashier, err := value.NewUserID(1)
	require.NoError(t, err)
	bill, err := entity.NewBill(entity.BillParams{
		Number:       bn,
		Date:         date,
		Items:        lines,
		Discount:     value.MoneyFromFloat(0.5),
		CashTendered: value.MoneyFromFloat(50),
		Cashier:      cashier,
	})
	require.NoError(t, err)
	return bill
}

func countRows(t *testing.T, orm *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, orm.Model(model).Count(&n).Error)
	return n
}

func TestSaveBillWithItemsRoundTrip(t *testing.T) {
	db := dbtest.Default(t)
	items := newItemRepo(db)
	bills := NewBillRepository(db.Tx)
	ctx := context.Background()

	milk := shelve(t, items, createStock(t, items, "MILK01", 10, 2.5, nil), 10)
	bread := shelve(t, items, createStock(t, items, "BREAD1", 10, 1.2, nil), 10)

	bill := mustSaleBill(t, []*entity.Item{milk, bread}, 7, now, 3, 2)
	require.NoError(t, bills.SaveBillWithItems(ctx, bill))

	got, err := bills.FindByNumber(ctx, bill.Number())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, bill.Number(), got.Number())
	assert.True(t, now.Equal(got.Date()))
	assert.Equal(t, "9.90", got.Subtotal().String())
	assert.Equal(t, "9.40", got.FinalAmount().String())
	assert.Equal(t, "40.60", got.Change().String())
	assert.Equal(t, int64(1), got.Cashier().Value())
	require.Equal(t, 2, got.ItemCount())
	assert.Equal(t, "MILK01", got.Items()[0].Code().String())
	assert.Equal(t, milk.ID(), got.Items()[0].ItemID())
	assert.Equal(t, "BREAD1", got.Items()[1].Code().String())

	missing, err := bills.FindByNumber(ctx, value.BillNumber{})
	require.NoError(t, err)
	assert.Nil(t, missing)

	last, err := bills.MaxBillNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), last)
}

func TestSaveBillWithItemsIsAtomic(t *testing.T) {
	db := dbtest.Default(t)
	items := newItemRepo(db)
	bills := NewBillRepository(db.Tx)
	ctx := context.Background()

	milk := shelve(t, items, createStock(t, items, "MILK01", 10, 2.5, nil), 10)

	injected := errors.New("injected line insert failure")
	require.NoError(t, db.ORM.Callback().Create().Before("gorm:create").
		Register("test:fail_bill_items", func(tx *gorm.DB) {
			if tx.Statement.Table == "bill_items" {
				_ = tx.AddError(injected)
			}
		}))
	t.Cleanup(func() { _ = db.ORM.Callback().Create().Remove("test:fail_bill_items") })

	err := bills.SaveBillWithItems(ctx, mustSaleBill(t, []*entity.Item{milk}, 1, now, 2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrStorage))
	assert.True(t, errors.Is(err, injected))

	assert.Equal(t, int64(0), countRows(t, db.ORM, &database.BillModel{}), "header must not survive a failed line insert")
	assert.Equal(t, int64(0), countRows(t, db.ORM, &database.BillItemModel{}))
	assert.Equal(t, 0, db.Pool.Stats().InUse)
}

func TestSaveBillJoinsOuterTransaction(t *testing.T) {
	db := dbtest.Default(t)
	items := newItemRepo(db)
	bills := NewBillRepository(db.Tx)
	ctx := context.Background()

	milk := shelve(t, items, createStock(t, items, "MILK01", 10, 2.5, nil), 10)

	err := db.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := bills.SaveBillWithItems(ctx, mustSaleBill(t, []*entity.Item{milk}, 1, now, 2)); err != nil {
			return err
		}
		return apperror.NewInsufficientStockError("MILK01", 20, 10)
	})
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
	assert.Equal(t, int64(0), countRows(t, db.ORM, &database.BillModel{}))
}

func TestSaveBillRejectsDuplicateNumber(t *testing.T) {
	db := dbtest.Default(t)
	items := newItemRepo(db)
	bills := NewBillRepository(db.Tx)
	ctx := context.Background()

	milk := shelve(t, items, createStock(t, items, "MILK01", 10, 2.5, nil), 10)
	require.NoError(t, bills.SaveBillWithItems(ctx, mustSaleBill(t, []*entity.Item{milk}, 1, now, 1)))

	err := bills.SaveBillWithItems(ctx, mustSaleBill(t, []*entity.Item{milk}, 1, now, 4))
	assert.True(t, errors.Is(err, apperror.ErrStorage))
	assert.Equal(t, int64(1), countRows(t, db.ORM, &database.BillModel{}))
	assert.Equal(t, int64(1), countRows(t, db.ORM, &database.BillItemModel{}))
}

func TestFindByDate(t *testing.T) {
	db := dbtest.Default(t)
	items := newItemRepo(db)
	bills := NewBillRepository(db.Tx)
	ctx := context.Background()

	milk := shelve(t, items, createStock(t, items, "MILK01", 10, 2.5, nil), 10)

	yesterday := now.AddDate(0, 0, -1)
	endOfDay := dayStart(now).Add(23*time.Hour + 59*time.Minute)
	tomorrowMidnight := dayStart(now).AddDate(0, 0, 1)

	for i, date := range []time.Time{endOfDay, yesterday, now, tomorrowMidnight} {
		require.NoError(t, bills.SaveBillWithItems(ctx, mustSaleBill(t, []*entity.Item{milk}, int64(i+1), date, 1)))
	}

	got, err := bills.FindByDate(ctx, now)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].Number().Value())
	assert.Equal(t, int64(1), got[1].Number().Value())

	none, err := bills.FindByDate(ctx, now.AddDate(0, 0, -10))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUserRepository(t *testing.T) {
	db := dbtest.Default(t)
	users := NewUserRepository(db.Tx)
	ctx := context.Background()

	u := &entity.User{Username: "till1", FullName: "Till One", Password: "hash"}
	require.NoError(t, users.Create(ctx, u))
	require.NotZero(t, u.ID)

	got, err := users.GetByUsername(ctx, "till1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.RoleCashier, got.Role)

	byID, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Till One", byID.FullName)

	missing, err := users.GetByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
