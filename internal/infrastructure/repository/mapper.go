package repository

import (
	"fmt"
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/internal/domain/value"
	"github.com/sangkips/retailpos-api/internal/infrastructure/database"
)

func toItemModel(item *entity.Item) database.ItemModel {
	return database.ItemModel{
		ID:           item.ID(),
		Code:         item.Code().String(),
		Name:         item.Name(),
		Price:        item.Price().Decimal(),
		Quantity:     item.Quantity().Value(),
		State:        int(item.State()),
		PurchaseDate: item.PurchaseDate().UTC(),
		ExpiryDate:   utcDate(item.ExpiryDate()),
		Version:      item.Version(),
	}
}

func toItem(m *database.ItemModel) (*entity.Item, error) {
	code, err := value.NewItemCode(m.Code)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", m.ID, err)
	}
	qty, err := value.NewQuantity(m.Quantity)
	if err != nil {
		return nil, fmt.Errorf("item %d: %w", m.ID, err)
	}
	state := enum.ItemState(m.State)
	if !state.IsValid() {
		return nil, fmt.Errorf("item %d: unknown state %d", m.ID, m.State)
	}
	return entity.RestoreItem(m.ID, code, m.Name, value.NewMoney(m.Price), qty, state,
		m.PurchaseDate, m.ExpiryDate, m.Version), nil
}

func toItems(models []database.ItemModel) ([]*entity.Item, error) {
	items := make([]*entity.Item, 0, len(models))
	for i := range models {
		item, err := toItem(&models[i])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func toBillModel(bill *entity.Bill) database.BillModel {
	m := database.BillModel{
		BillNumber:      bill.Number().Value(),
		BillDate:        bill.Date().UTC(),
		TotalAmount:     bill.FinalAmount().Decimal(),
		Discount:        bill.Discount().Decimal(),
		CashTendered:    bill.CashTendered().Decimal(),
		ChangeAmount:    bill.Change().Decimal(),
		TransactionType: int(bill.TransactionType()),
	}
	if !bill.Cashier().IsZero() {
		id := bill.Cashier().Value()
		m.CashierID = &id
	}
	return m
}

func toBillItemModels(billID int64, bill *entity.Bill) []database.BillItemModel {
	lines := make([]database.BillItemModel, 0, bill.ItemCount())
	bill.EachItem(func(it entity.BillItem) {
		line := database.BillItemModel{
			BillID:    billID,
			Position:  len(lines) + 1,
			ItemCode:  it.Code().String(),
			ItemName:  it.Name(),
			Quantity:  it.Quantity().Value(),
			UnitPrice: it.UnitPrice().Decimal(),
		}
		if it.ItemID() != 0 {
			id := it.ItemID()
			line.ItemID = &id
		}
		lines = append(lines, line)
	})
	return lines
}

func toBill(m *database.BillModel) (*entity.Bill, error) {
	number, err := value.NewBillNumber(m.BillNumber)
	if err != nil {
		return nil, err
	}

	items := make([]entity.BillItem, 0, len(m.Items))
	for _, l := range m.Items {
		code, err := value.NewItemCode(l.ItemCode)
		if err != nil {
			return nil, fmt.Errorf("bill %d line %d: %w", m.BillNumber, l.Position, err)
		}
		qty, err := value.NewQuantity(l.Quantity)
		if err != nil {
			return nil, fmt.Errorf("bill %d line %d: %w", m.BillNumber, l.Position, err)
		}
		var itemID int64
		if l.ItemID != nil {
			itemID = *l.ItemID
		}
		items = append(items, entity.RestoreBillItem(itemID, code, l.ItemName, qty, value.NewMoney(l.UnitPrice)))
	}

	var cashier value.UserID
	if m.CashierID != nil {
		if cashier, err = value.NewUserID(*m.CashierID); err != nil {
			return nil, err
		}
	}

	return entity.NewBill(entity.BillParams{
		Number:          number,
		Date:            m.BillDate.UTC(),
		Items:           items,
		Discount:        value.NewMoney(m.Discount),
		CashTendered:    value.NewMoney(m.CashTendered),
		TransactionType: enum.TransactionType(m.TransactionType),
		Cashier:         cashier,
	})
}

func utcDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := dayStart(*t)
	return &d
}
