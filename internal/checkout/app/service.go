package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agromart/agromart/internal/checkout/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	tx      TxRunner
	catalog CatalogReader
	events  EventPublisher
	log     zerolog.Logger

	maxResolvers int
}

func NewService(tx TxRunner, catalog CatalogReader, events EventPublisher, log zerolog.Logger) *Service {
	return &Service{
		tx:           tx,
		catalog:      catalog,
		events:       events,
		log:          log,
		maxResolvers: 10,
	}
}

type PlaceOrderInput struct {
	BuyerID          string
	CartItemIDs      []string
	Address          domain.DeliveryAddress
	PaymentIntent    string
	PaymentAttemptID string
}

func validateAddress(a domain.DeliveryAddress) error {
	required := []struct{ field, value string }{
		{"deliveryAddress.street", a.Street},
		{"deliveryAddress.city", a.City},
		{"deliveryAddress.state", a.State},
		{"deliveryAddress.postalCode", a.PostalCode},
		{"deliveryAddress.country", a.Country},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.field, Reason: "required"}
		}
	}
	return nil
}

// PlaceOrder converts the buyer's active cart items into orders as one
// atomic unit: conditional inventory decrements, cart deactivation, order
// inserts and payment-attempt reconciliation all commit or abort together.
// Replaying with already-consumed ids yields ErrNoActiveItems and writes
// nothing.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) ([]domain.PlacedOrder, error) {
	if in.BuyerID == "" {
		return nil, &ValidationError{Field: "buyerId", Reason: "required"}
	}
	if len(in.CartItemIDs) == 0 {
		return nil, &ValidationError{Field: "cartId", Reason: "must be a non-empty list"}
	}
	for _, id := range in.CartItemIDs {
		if strings.TrimSpace(id) == "" {
			return nil, &ValidationError{Field: "cartId", Reason: "contains an empty id"}
		}
		if err := uuid.Validate(id); err != nil {
			return nil, &ValidationError{Field: "cartId", Reason: fmt.Sprintf("malformed id %q", id)}
		}
	}
	if err := validateAddress(in.Address); err != nil {
		return nil, err
	}

	var created []domain.PlacedOrder

	err := s.tx.InTx(ctx, func(st Stores) error {
		lines, err := st.ActiveCartLines(ctx, in.BuyerID, in.CartItemIDs)
		if err != nil {
			return fmt.Errorf("load cart items: %w", err)
		}
		if len(lines) == 0 {
			return ErrNoActiveItems
		}

		for _, ln := range lines {
			if ln.Quantity <= 0 {
				return fmt.Errorf("cart item %s: %w: quantity %d", ln.ID, ErrInvalidState, ln.Quantity)
			}
			switch ln.Ref.Kind {
			case domain.KindListing:
				err = st.DecrementListingStock(ctx, ln.Ref.ID, ln.Quantity)
			case domain.KindProduct:
				err = st.DecrementProductStock(ctx, ln.Ref.ID, ln.Quantity)
			default:
				return fmt.Errorf("cart item %s: %w: no resolvable inventory reference", ln.ID, ErrInvalidState)
			}
			if err != nil {
				return err
			}
		}

		ids := make([]string, 0, len(lines))
		for _, ln := range lines {
			ids = append(ids, ln.ID)
		}
		if err := st.DeactivateCartItems(ctx, ids); err != nil {
			return fmt.Errorf("deactivate cart items: %w", err)
		}

		orders := make([]domain.NewOrder, 0, len(lines))
		for _, ln := range lines {
			o := domain.NewOrder{
				BuyerID:       in.BuyerID,
				SellerID:      ln.SellerID,
				CartItemID:    ln.ID,
				ProductID:     ln.ProductID,
				CategoryID:    ln.CategoryID,
				Quantity:      ln.Quantity,
				TotalAmount:   ln.TotalAmount,
				PaymentIntent: in.PaymentIntent,
				Status:        domain.OrderStatusInitialized,
				IsPaid:        true, // settled at this layer for COD/pre-authorized flows
				Address:       in.Address,
			}
			if ln.Ref.Kind == domain.KindListing {
				o.ListingID = ln.Ref.ID
			}
			orders = append(orders, o)
		}

		created, err = st.InsertOrders(ctx, orders)
		if err != nil {
			return fmt.Errorf("insert orders: %w", err)
		}
		if len(created) != len(lines) {
			return fmt.Errorf("order count %d does not match cart line count %d", len(created), len(lines))
		}

		if in.PaymentAttemptID != "" {
			orderIDs := make([]string, 0, len(created))
			for _, o := range created {
				orderIDs = append(orderIDs, o.ID)
			}
			if err := st.CompletePaymentAttempt(ctx, in.PaymentAttemptID, orderIDs); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("buyer_id", in.BuyerID).
			Strs("cart_item_ids", in.CartItemIDs).
			Msg("checkout aborted")
		return nil, err
	}

	s.resolveProductNames(ctx, created)
	s.publishOrderPlaced(ctx, in.BuyerID, created)

	return created, nil
}

// resolveProductNames decorates the response after commit; a resolution
// failure must not turn a committed checkout into an error.
func (s *Service) resolveProductNames(ctx context.Context, orders []domain.PlacedOrder) {
	if s.catalog == nil {
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxResolvers)

	for idx := range orders {
		idx := idx
		g.Go(func() error {
			name, err := s.catalog.ProductName(ctx, orders[idx].ProductID)
			if err != nil {
				return err
			}
			orders[idx].ProductName = name
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.log.Warn().Err(err).Msg("failed to resolve product names for checkout response")
	}
}

func (s *Service) publishOrderPlaced(ctx context.Context, buyerID string, orders []domain.PlacedOrder) {
	if s.events == nil {
		return
	}

	evt := OrderPlacedEvent{
		BuyerID:    buyerID,
		TotalItems: len(orders),
		PlacedAt:   time.Now().UTC(),
	}
	for _, o := range orders {
		evt.OrderIDs = append(evt.OrderIDs, o.ID)
		if o.SellerID != "" {
			evt.SellerIDs = append(evt.SellerIDs, o.SellerID)
		}
	}

	if err := s.events.OrderPlaced(ctx, evt); err != nil {
		s.log.Warn().Err(err).Str("buyer_id", buyerID).Msg("failed to publish order placed event")
	}
}
