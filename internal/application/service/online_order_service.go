package service

import (
	"context"

	"github.com/sangkips/retailpos-api/internal/domain/repository"
	"github.com/sangkips/retailpos-api/internal/domain/value"
	"github.com/sangkips/retailpos-api/internal/domain/view"
	"github.com/sangkips/retailpos-api/pkg/apperror"
	"github.com/sangkips/retailpos-api/pkg/email"
	"go.uber.org/zap"
)

// OnlineOrderService presents stored bills as online orders and notifies the
// customer. Orders are views over the bill; nothing extra is stored.
type OnlineOrderService struct {
	bills     repository.BillRepository
	sender    email.Sender
	storeName string
	log       *zap.Logger
}

// NewOnlineOrderService creates a new online order service
func NewOnlineOrderService(bills repository.BillRepository, sender email.Sender, storeName string, log *zap.Logger) *OnlineOrderService {
	if sender == nil {
		sender = email.NewNoopSender()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OnlineOrderService{
		bills:     bills,
		sender:    sender,
		storeName: storeName,
		log:       log,
	}
}

// PlaceOrderInput represents the input for turning a bill into an online order
type PlaceOrderInput struct {
	BillNumber value.BillNumber
	Contact    view.Contact
	Address    string
}

// PlaceOrder wraps the stored bill in the online order decorator and emails a
// confirmation when the customer left an address. A failed email is logged;
// the order stands.
func (s *OnlineOrderService) PlaceOrder(ctx context.Context, input *PlaceOrderInput) (*view.OnlineOrder, error) {
	bill, err := s.bills.FindByNumber(ctx, input.BillNumber)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill " + input.BillNumber.String())
	}

	order, err := view.NewOnlineOrder(bill, input.Contact, input.Address)
	if err != nil {
		return nil, err
	}

	if to := order.Contact().Email; to != "" {
		if err := s.sender.SendOrderConfirmation(to, s.confirmation(order)); err != nil {
			s.log.Warn("order confirmation not sent",
				zap.String("bill", order.Number().String()),
				zap.Error(err),
			)
		}
	}

	s.log.Info("online order placed",
		zap.String("bill", order.Number().String()),
		zap.String("tracking", order.TrackingToken()),
	)
	return order, nil
}

func (s *OnlineOrderService) confirmation(order *view.OnlineOrder) email.OrderConfirmation {
	data := email.OrderConfirmation{
		StoreName:         s.storeName,
		CustomerName:      order.Contact().Name,
		BillNo:            order.Number().String(),
		TrackingToken:     order.TrackingToken(),
		DeliveryAddress:   order.DeliveryAddress(),
		EstimatedDelivery: order.EstimatedDelivery().Format("Monday, 2 January 2006"),
		Total:             order.FinalAmount().String(),
	}
	for _, it := range order.Items() {
		data.Lines = append(data.Lines, email.OrderLine{
			Name:     it.Name(),
			Quantity: it.Quantity().Value(),
			Total:    it.TotalPrice().String(),
		})
	}
	return data
}
