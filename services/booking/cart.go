package booking

import (
	"context"

	"choreify/models"
	"choreify/services/pricing"
	"choreify/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GetCart returns the cart for cartID, empty when none is stored.
func (s *Service) GetCart(ctx context.Context, cartID string) (*models.Cart, error) {
	cart, err := s.store.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &models.Cart{SessionID: cartID, Items: []models.CartItem{}}
	}
	summarize(cart)
	return cart, nil
}

// AddToCart prices a selection and appends it to the cart.
func (s *Service) AddToCart(ctx context.Context, cartID string, req models.QuoteRequest) (*models.Cart, error) {
	svc, err := s.lookupService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	cart.Items = append(cart.Items, models.CartItem{
		ID:          uuid.New().String(),
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		Selection:   req.Selection,
		Details:     req.Details,
		Breakdown:   pricing.CalculateServicePrice(svc, req.Selection, req.Details),
		AddedAt:     s.now(),
	})
	return cart, s.saveCart(ctx, cart)
}

// RemoveFromCart drops one item.
func (s *Service) RemoveFromCart(ctx context.Context, cartID, itemID string) (*models.Cart, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, item := range cart.Items {
		if item.ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrCartItemNotFound
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	return cart, s.saveCart(ctx, cart)
}

// ClearCart empties the cart.
func (s *Service) ClearCart(ctx context.Context, cartID string) error {
	return s.store.DeleteCart(ctx, cartID)
}

// Checkout submits every cart item as a chore, in order. Submission stops at
// the first failure; submitted items leave the cart and the rest stay.
func (s *Service) Checkout(ctx context.Context, cartID string, session *models.Session, req CheckoutRequest) ([]models.ChoreReceipt, error) {
	cart, err := s.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}
	addr, err := s.resolveAddress(ctx, session, req.Address)
	if err != nil {
		return nil, err
	}

	receipts := make([]models.ChoreReceipt, 0, len(cart.Items))
	var failure error
	for _, item := range cart.Items {
		svc, err := s.lookupService(ctx, item.ServiceID)
		if err != nil {
			failure = err
			break
		}
		chore := newChore(svc, item.Selection, item.Details, addr)
		chore.ScheduledFor = req.ScheduledFor
		chore.Notes = req.Notes

		receipt, err := s.backend.CreateChore(ctx, session.AccessToken, chore)
		if err != nil {
			failure = err
			break
		}
		receipts = append(receipts, *receipt)
	}

	if failure == nil {
		if err := s.store.DeleteCart(ctx, cartID); err != nil {
			s.logger.Warn("Failed to clear cart after checkout", zap.String("cartID", cartID), zap.Error(err))
		}
		s.logger.Info("Cart checked out", zap.String("userID", session.User.ID), zap.Int("items", len(receipts)))
		return receipts, nil
	}

	if len(receipts) > 0 {
		cart.Items = cart.Items[len(receipts):]
		if err := s.saveCart(ctx, cart); err != nil {
			s.logger.Error("Failed to save cart after partial checkout", zap.String("cartID", cartID), zap.Error(err))
		}
	}
	return receipts, &CheckoutError{Submitted: len(receipts), Err: failure}
}

func (s *Service) saveCart(ctx context.Context, cart *models.Cart) error {
	summarize(cart)
	return s.store.PutCart(ctx, cart, utils.CartTTL)
}

// summarize recomputes the cart total from its items.
func summarize(cart *models.Cart) {
	total := 0.0
	for _, item := range cart.Items {
		total += item.Breakdown.Total
	}
	cart.Total = pricing.RoundCents(total)
	cart.Currency = pricing.Currency
	cart.Formatted = pricing.FormatAmount(cart.Total, cart.Currency)
}
