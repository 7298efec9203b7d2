package service

import (
	"context"
	"time"

	"github.com/sangkips/retailpos-api/internal/domain/entity"
	"github.com/sangkips/retailpos-api/internal/domain/enum"
	"github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/internal/domain/value"
	"github.com/sangkips/retailpos-api/pkg/apperror"
	"go.uber.org/zap"
)

// InventoryService is the entry point for sales and stock movement.
type InventoryService struct {
	tx      repository.TxManager
	items   repository.ItemRepository
	bills   repository.BillRepository
	numbers BillNumberSource
	log     *zap.Logger
	now     func() time.Time
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	tx repository.TxManager,
	items repository.ItemRepository,
	bills repository.BillRepository,
	numbers BillNumberSource,
	log *zap.Logger,
) *InventoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &InventoryService{
		tx:      tx,
		items:   items,
		bills:   bills,
		numbers: numbers,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// StartNewSale opens an empty sale rung up by cashier.
func (s *InventoryService) StartNewSale(cashier value.UserID) *SaleBuilder {
	return newSaleBuilder(s.items, s.numbers, s.now, cashier)
}

// SaveBill stores the bill and takes its units off the shelf in one
// transaction. Each bucket is re-read inside the transaction and written back
// under its row version, so a concurrent sale of the same units fails this one
// instead of driving stock negative.
func (s *InventoryService) SaveBill(ctx context.Context, bill *entity.Bill) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.bills.SaveBillWithItems(ctx, bill); err != nil {
			return err
		}

		sold := make(map[int64]int, bill.ItemCount())
		codes := make(map[int64]value.ItemCode, bill.ItemCount())
		var order []int64
		for _, line := range bill.Items() {
			id := line.ItemID()
			if id == 0 {
				item, err := s.items.FindByCode(ctx, line.Code())
				if err != nil {
					return err
				}
				if item == nil {
					return apperror.NewItemNotFoundError(line.Code().String())
				}
				id = item.ID()
			}
			if _, seen := sold[id]; !seen {
				order = append(order, id)
			}
			sold[id] += line.Quantity().Value()
			codes[id] = line.Code()
		}

		for _, id := range order {
			item, err := s.items.FindByID(ctx, id)
			if err != nil {
				return err
			}
			if item == nil {
				return apperror.NewItemNotFoundError(codes[id].String())
			}
			if err := item.Sell(sold[id]); err != nil {
				return err
			}
			if err := s.items.Update(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Warn("bill not saved", zap.String("bill", bill.Number().String()), zap.Error(err))
		return err
	}

	s.log.Info("bill saved",
		zap.String("bill", bill.Number().String()),
		zap.Int("lines", bill.ItemCount()),
		zap.String("total", bill.FinalAmount().String()),
	)
	return nil
}

// IsItemAvailable reports whether code has sellable units on the shelf.
func (s *InventoryService) IsItemAvailable(ctx context.Context, code value.ItemCode) (bool, error) {
	buckets, err := s.items.FindSellable(ctx, code, s.now())
	if err != nil {
		return false, err
	}
	return len(buckets) > 0, nil
}

// GetAvailableItems lists the sellable shelf buckets.
func (s *InventoryService) GetAvailableItems(ctx context.Context) ([]*entity.Item, error) {
	return s.items.FindAvailable(ctx, s.now())
}

// AddStockInput is one stock intake
type AddStockInput struct {
	Code       value.ItemCode
	Name       string
	Price      value.Money
	Quantity   int
	ExpiryDate *time.Time
}

// AddStock records an intake into the store. An existing store batch with the
// same code, expiry date and price absorbs the units; otherwise a new batch
// is created.
func (s *InventoryService) AddStock(ctx context.Context, input AddStockInput) (*entity.Item, error) {
	qty, err := value.NewQuantity(input.Quantity)
	if err != nil {
		return nil, err
	}
	intake, err := entity.NewItem(input.Code, input.Name, input.Price, qty, s.now(), input.ExpiryDate)
	if err != nil {
		return nil, err
	}

	var result *entity.Item
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.items.FindBucket(ctx, intake.Code(), enum.ItemStateInStore, intake.ExpiryDate())
		if err != nil {
			return err
		}
		if existing != nil && existing.Merge(intake) == nil {
			result = existing
			return s.items.Update(ctx, existing)
		}
		result = intake
		return s.items.Create(ctx, intake)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("stock added",
		zap.String("code", result.Code().String()),
		zap.Int("quantity", input.Quantity),
		zap.Int("batch_quantity", result.Quantity().Value()),
	)
	return result, nil
}

// MoveToShelf moves qty units of code from the store to the shelf, taking the
// earliest-expiring batches first. Every batch drawn from lands in the shelf
// bucket of its own expiry date, and those buckets are returned in FEFO order.
// Batches found expired on the way are marked EXPIRED and skipped.
func (s *InventoryService) MoveToShelf(ctx context.Context, code value.ItemCode, qty int) ([]*entity.Item, error) {
	if qty <= 0 {
		return nil, apperror.NewFieldError("quantity", "quantity must be greater than zero")
	}

	var shelved []*entity.Item
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		batches, err := s.items.FindByState(ctx, code, enum.ItemStateInStore)
		if err != nil {
			return err
		}
		if len(batches) == 0 {
			return apperror.NewItemNotFoundError(code.String())
		}

		var live []*entity.Item
		available := 0
		for _, b := range batches {
			if b.EvaluateExpiry(s.now()) {
				if err := s.items.Update(ctx, b); err != nil {
					return err
				}
				continue
			}
			if b.Quantity().IsZero() {
				continue
			}
			live = append(live, b)
			available += b.Quantity().Value()
		}
		if qty > available {
			return apperror.NewInsufficientStockError(code.String(), qty, available)
		}

		need := qty
		for _, batch := range live {
			if need == 0 {
				break
			}
			take := batch.Quantity().Value()
			if take > need {
				take = need
			}
			moved, err := batch.MoveToShelf(take)
			if err != nil {
				return err
			}
			if err := s.items.Update(ctx, batch); err != nil {
				return err
			}
			shelf, err := s.placeOnShelf(ctx, moved)
			if err != nil {
				return err
			}
			shelved = append(shelved, shelf)
			need -= take
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("stock shelved",
		zap.String("code", code.String()),
		zap.Int("quantity", qty),
		zap.Int("buckets", len(shelved)),
	)
	return shelved, nil
}

// placeOnShelf merges moved into the shelf bucket of the same batch, or
// persists it as a new bucket.
func (s *InventoryService) placeOnShelf(ctx context.Context, moved *entity.Item) (*entity.Item, error) {
	existing, err := s.items.FindBucket(ctx, moved.Code(), enum.ItemStateOnShelf, moved.ExpiryDate())
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Merge(moved) == nil {
		return existing, s.items.Update(ctx, existing)
	}
	return moved, s.items.Create(ctx, moved)
}

// SweepExpired marks every bucket past its expiry date EXPIRED and returns
// how many changed.
func (s *InventoryService) SweepExpired(ctx context.Context) (int, error) {
	swept := 0
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		items, err := s.items.FindExpired(ctx, s.now())
		if err != nil {
			return err
		}
		for _, item := range items {
			if !item.EvaluateExpiry(s.now()) {
				continue
			}
			if err := s.items.Update(ctx, item); err != nil {
				return err
			}
			swept++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if swept > 0 {
		s.log.Info("expired stock swept", zap.Int("buckets", swept))
	}
	return swept, nil
}
