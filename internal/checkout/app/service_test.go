package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/agromart/agromart/internal/checkout/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// fakeWorld backs the Stores and TxRunner ports with in-memory state. InTx
// snapshots the state up front and restores it when fn fails, so tests can
// assert real rollback behavior.
type fakeWorld struct {
	mu sync.Mutex

	cartLines    map[string]domain.CartLine
	activeItems  map[string]bool
	listingStock map[string]int32
	productStock map[string]int32

	orders       []domain.PlacedOrder
	attempts     map[string]string   // attempt id -> status
	attemptOrder map[string][]string // attempt id -> recorded order ids

	nextOrderID int
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		cartLines:    map[string]domain.CartLine{},
		activeItems:  map[string]bool{},
		listingStock: map[string]int32{},
		productStock: map[string]int32{},
		attempts:     map[string]string{},
		attemptOrder: map[string][]string{},
	}
}

func (f *fakeWorld) addCartLine(ln domain.CartLine) {
	f.cartLines[ln.ID] = ln
	f.activeItems[ln.ID] = true
}

func (f *fakeWorld) snapshot() *fakeWorld {
	s := newFakeWorld()
	for k, v := range f.cartLines {
		s.cartLines[k] = v
	}
	for k, v := range f.activeItems {
		s.activeItems[k] = v
	}
	for k, v := range f.listingStock {
		s.listingStock[k] = v
	}
	for k, v := range f.productStock {
		s.productStock[k] = v
	}
	for k, v := range f.attempts {
		s.attempts[k] = v
	}
	for k, v := range f.attemptOrder {
		s.attemptOrder[k] = append([]string(nil), v...)
	}
	s.orders = append([]domain.PlacedOrder(nil), f.orders...)
	s.nextOrderID = f.nextOrderID
	return s
}

func (f *fakeWorld) restore(s *fakeWorld) {
	f.cartLines = s.cartLines
	f.activeItems = s.activeItems
	f.listingStock = s.listingStock
	f.productStock = s.productStock
	f.orders = s.orders
	f.attempts = s.attempts
	f.attemptOrder = s.attemptOrder
	f.nextOrderID = s.nextOrderID
}

func (f *fakeWorld) InTx(ctx context.Context, fn func(Stores) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	before := f.snapshot()
	if err := fn(f); err != nil {
		f.restore(before)
		return err
	}
	return nil
}

func (f *fakeWorld) ActiveCartLines(_ context.Context, buyerID string, ids []string) ([]domain.CartLine, error) {
	var out []domain.CartLine
	for _, id := range ids {
		ln, ok := f.cartLines[id]
		if !ok || !f.activeItems[id] || ln.BuyerID != buyerID {
			continue
		}
		out = append(out, ln)
	}
	return out, nil
}

func (f *fakeWorld) DecrementListingStock(_ context.Context, listingID string, qty int32) error {
	have, ok := f.listingStock[listingID]
	if !ok || have < qty {
		return &StockError{Kind: domain.KindListing, ID: listingID, Requested: qty}
	}
	f.listingStock[listingID] = have - qty
	return nil
}

func (f *fakeWorld) DecrementProductStock(_ context.Context, productID string, qty int32) error {
	have, ok := f.productStock[productID]
	if !ok || have < qty {
		return &StockError{Kind: domain.KindProduct, ID: productID, Requested: qty}
	}
	f.productStock[productID] = have - qty
	return nil
}

func (f *fakeWorld) DeactivateCartItems(_ context.Context, ids []string) error {
	for _, id := range ids {
		f.activeItems[id] = false
	}
	return nil
}

func (f *fakeWorld) InsertOrders(_ context.Context, orders []domain.NewOrder) ([]domain.PlacedOrder, error) {
	out := make([]domain.PlacedOrder, 0, len(orders))
	for _, o := range orders {
		f.nextOrderID++
		placed := domain.PlacedOrder{
			ID:          fmt.Sprintf("order-%d", f.nextOrderID),
			BuyerID:     o.BuyerID,
			SellerID:    o.SellerID,
			CartItemID:  o.CartItemID,
			ProductID:   o.ProductID,
			ListingID:   o.ListingID,
			CategoryID:  o.CategoryID,
			Quantity:    o.Quantity,
			TotalAmount: o.TotalAmount,
			Status:      o.Status,
			IsPaid:      o.IsPaid,
			Address:     o.Address,
		}
		f.orders = append(f.orders, placed)
		out = append(out, placed)
	}
	return out, nil
}

func (f *fakeWorld) CompletePaymentAttempt(_ context.Context, attemptID string, orderIDs []string) error {
	if _, ok := f.attempts[attemptID]; !ok {
		return ErrPaymentAttemptNotFound
	}
	f.attempts[attemptID] = "completed"
	f.attemptOrder[attemptID] = orderIDs
	return nil
}

type fakeCatalog struct {
	names map[string]string
}

func (f *fakeCatalog) ProductName(_ context.Context, productID string) (string, error) {
	name, ok := f.names[productID]
	if !ok {
		return "", errors.New("unknown product")
	}
	return name, nil
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []OrderPlacedEvent
}

func (p *capturingPublisher) OrderPlaced(_ context.Context, evt OrderPlacedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

// cartID builds a deterministic uuid-shaped cart item id; PlaceOrder
// rejects anything that does not parse as a uuid.
func cartID(n int) string {
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", n)
}

func validAddress() domain.DeliveryAddress {
	return domain.DeliveryAddress{
		Street:     "12 Market Rd",
		City:       "Pune",
		State:      "MH",
		PostalCode: "411001",
		Country:    "IN",
	}
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("creates one order per active cart line", func(t *testing.T) {
		world := newFakeWorld()
		world.listingStock["listing-1"] = 10
		world.productStock["product-2"] = 4
		world.addCartLine(domain.CartLine{
			ID: cartID(1), BuyerID: "buyer-1",
			Ref:       domain.InventoryRef{Kind: domain.KindListing, ID: "listing-1"},
			ProductID: "p-1", SellerID: "seller-1", Quantity: 3, TotalAmount: 300,
		})
		world.addCartLine(domain.CartLine{
			ID: cartID(2), BuyerID: "buyer-1",
			Ref:       domain.InventoryRef{Kind: domain.KindProduct, ID: "product-2"},
			ProductID: "product-2", Quantity: 2, TotalAmount: 500,
		})

		catalog := &fakeCatalog{names: map[string]string{"p-1": "Alphonso Mango", "product-2": "Basmati Rice"}}
		publisher := &capturingPublisher{}
		svc := NewService(world, catalog, publisher, zerolog.Nop())

		placed, err := svc.PlaceOrder(ctx, PlaceOrderInput{
			BuyerID:     "buyer-1",
			CartItemIDs: []string{cartID(1), cartID(2)},
			Address:     validAddress(),
		})
		require.NoError(t, err)
		require.Len(t, placed, 2)

		assert.Equal(t, int32(7), world.listingStock["listing-1"])
		assert.Equal(t, int32(2), world.productStock["product-2"])
		assert.False(t, world.activeItems[cartID(1)])
		assert.False(t, world.activeItems[cartID(2)])

		for _, o := range placed {
			assert.Equal(t, domain.OrderStatusInitialized, o.Status)
			assert.True(t, o.IsPaid)
			assert.Equal(t, "buyer-1", o.BuyerID)
		}
		assert.Equal(t, "listing-1", placed[0].ListingID)
		assert.Equal(t, "Alphonso Mango", placed[0].ProductName)
		assert.Equal(t, "Basmati Rice", placed[1].ProductName)
		assert.Empty(t, placed[1].ListingID)

		require.Len(t, publisher.events, 1)
		assert.Equal(t, 2, publisher.events[0].TotalItems)
		assert.ElementsMatch(t, []string{placed[0].ID, placed[1].ID}, publisher.events[0].OrderIDs)
	})

	t.Run("partial availability aborts the whole checkout", func(t *testing.T) {
		world := newFakeWorld()
		world.listingStock["listing-ok"] = 10
		world.listingStock["listing-low"] = 2
		world.addCartLine(domain.CartLine{
			ID: cartID(1), BuyerID: "buyer-1",
			Ref:      domain.InventoryRef{Kind: domain.KindListing, ID: "listing-ok"},
			Quantity: 1, TotalAmount: 100,
		})
		world.addCartLine(domain.CartLine{
			ID: cartID(2), BuyerID: "buyer-1",
			Ref:      domain.InventoryRef{Kind: domain.KindListing, ID: "listing-low"},
			Quantity: 3, TotalAmount: 300,
		})

		svc := NewService(world, nil, nil, zerolog.Nop())
		_, err := svc.PlaceOrder(ctx, PlaceOrderInput{
			BuyerID:     "buyer-1",
			CartItemIDs: []string{cartID(1), cartID(2)},
			Address:     validAddress(),
		})
		require.ErrorIs(t, err, ErrInsufficientStock)

		var stockErr *StockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "listing-low", stockErr.ID)
		assert.Equal(t, int32(3), stockErr.Requested)

		// Everything rolled back, including the decrement that succeeded.
		assert.Equal(t, int32(10), world.listingStock["listing-ok"])
		assert.Equal(t, int32(2), world.listingStock["listing-low"])
		assert.True(t, world.activeItems[cartID(1)])
		assert.True(t, world.activeItems[cartID(2)])
		assert.Empty(t, world.orders)
	})

	t.Run("exact fit succeeds and drains stock", func(t *testing.T) {
		world := newFakeWorld()
		world.listingStock["listing-1"] = 3
		world.addCartLine(domain.CartLine{
			ID: cartID(1), BuyerID: "buyer-1",
			Ref:      domain.InventoryRef{Kind: domain.KindListing, ID: "listing-1"},
			Quantity: 3, TotalAmount: 300,
		})

		svc := NewService(world, nil, nil, zerolog.Nop())
		placed, err := svc.PlaceOrder(ctx, PlaceOrderInput{
			BuyerID:     "buyer-1",
			CartItemIDs: []string{cartID(1)},
			Address:     validAddress(),
		})
		require.NoError(t, err)
		require.Len(t, placed, 1)
		assert.Equal(t, int32(0), world.listingStock["listing-1"])
	})

	t.Run("replay with consumed ids yields ErrNoActiveItems", func(t *testing.T) {
		world := newFakeWorld()
		world.listingStock["listing-1"] = 10
		world.addCartLine(domain.CartLine{
			ID: cartID(1), BuyerID: "buyer-1",
			Ref:      domain.InventoryRef{Kind: domain.KindListing, ID: "listing-1"},
			Quantity: 2, TotalAmount: 200,
		})

		svc := NewService(world, nil, nil, zerolog.Nop())
		in := PlaceOrderInput{BuyerID: "buyer-1", CartItemIDs: []string{cartID(1)}, Address: validAddress()}

		_, err := svc.PlaceOrder(ctx, in)
		require.NoError(t, err)

		_, err = svc.PlaceOrder(ctx, in)
		require.ErrorIs(t, err, ErrNoActiveItems)

		// The replay wrote nothing.
		assert.Equal(t, int32(8), world.listingStock["listing-1"])
		assert.Len(t, world.orders, 1)
	})

	t.Run("other buyers' cart items are excluded", func(t *testing.T) {
		world := newFakeWorld()
		world.listingStock["listing-1"] = 10
		world.addCartLine(domain.CartLine{
			ID: cartID(3), BuyerID: "buyer-2",
			Ref:      domain.InventoryRef{Kind: domain.KindListing, ID: "listing-1"},
			Quantity: 2, TotalAmount: 200,
		})

		svc := NewService(world, nil, nil, zerolog.Nop())
		_, err := svc.PlaceOrder(ctx, PlaceOrderInput{
			BuyerID:     "buyer-1",
			CartItemIDs: []string{cartID(3)},
			Address:     validAddress(),
		})
		require.ErrorIs(t, err, ErrNoActiveItems)
		assert.True(t, world.activeItems[cartID(3)])
	})

	t.Run("completes the referenced payment attempt", func(t *testing.T) {
		world := newFakeWorld()
		world.listingStock["listing-1"] = 5
		world.attempts["attempt-1"] = "pending"
		world.addCartLine(domain.CartLine{
			ID: cartID(1), BuyerID: "buyer-1",
			Ref:      domain.InventoryRef{Kind: domain.KindListing, ID: "listing-1"},
			Quantity: 1, TotalAmount: 100,
		})

		svc := NewService(world, nil, nil, zerolog.Nop())
		placed, err := svc.PlaceOrder(ctx, PlaceOrderInput{
			BuyerID:          "buyer-1",
			CartItemIDs:      []string{cartID(1)},
			Address:          validAddress(),
			PaymentAttemptID: "attempt-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "completed", world.attempts["attempt-1"])
		assert.Equal(t, []string{placed[0].ID}, world.attemptOrder["attempt-1"])
	})

	t.Run("unknown payment attempt aborts the checkout", func(t *testing.T) {
		world := newFakeWorld()
		world.listingStock["listing-1"] = 5
		world.addCartLine(domain.CartLine{
			ID: cartID(1), BuyerID: "buyer-1",
			Ref:      domain.InventoryRef{Kind: domain.KindListing, ID: "listing-1"},
			Quantity: 1, TotalAmount: 100,
		})

		svc := NewService(world, nil, nil, zerolog.Nop())
		_, err := svc.PlaceOrder(ctx, PlaceOrderInput{
			BuyerID:          "buyer-1",
			CartItemIDs:      []string{cartID(1)},
			Address:          validAddress(),
			PaymentAttemptID: "missing",
		})
		require.ErrorIs(t, err, ErrPaymentAttemptNotFound)

		assert.Equal(t, int32(5), world.listingStock["listing-1"])
		assert.True(t, world.activeItems[cartID(1)])
		assert.Empty(t, world.orders)
	})

	t.Run("corrupt stored quantity is an invalid state", func(t *testing.T) {
		world := newFakeWorld()
		world.addCartLine(domain.CartLine{
			ID: cartID(1), BuyerID: "buyer-1",
			Ref:      domain.InventoryRef{Kind: domain.KindListing, ID: "listing-1"},
			Quantity: 0, TotalAmount: 0,
		})

		svc := NewService(world, nil, nil, zerolog.Nop())
		_, err := svc.PlaceOrder(ctx, PlaceOrderInput{
			BuyerID:     "buyer-1",
			CartItemIDs: []string{cartID(1)},
			Address:     validAddress(),
		})
		require.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("name resolution failure does not fail a committed checkout", func(t *testing.T) {
		world := newFakeWorld()
		world.listingStock["listing-1"] = 5
		world.addCartLine(domain.CartLine{
			ID: cartID(1), BuyerID: "buyer-1",
			Ref:       domain.InventoryRef{Kind: domain.KindListing, ID: "listing-1"},
			ProductID: "unknown", Quantity: 1, TotalAmount: 100,
		})

		svc := NewService(world, &fakeCatalog{names: map[string]string{}}, nil, zerolog.Nop())
		placed, err := svc.PlaceOrder(ctx, PlaceOrderInput{
			BuyerID:     "buyer-1",
			CartItemIDs: []string{cartID(1)},
			Address:     validAddress(),
		})
		require.NoError(t, err)
		require.Len(t, placed, 1)
		assert.Empty(t, placed[0].ProductName)
	})
}

func TestPlaceOrderValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeWorld(), nil, nil, zerolog.Nop())

	cases := []struct {
		name  string
		in    PlaceOrderInput
		field string
	}{
		{
			name:  "missing buyer",
			in:    PlaceOrderInput{CartItemIDs: []string{cartID(1)}, Address: validAddress()},
			field: "buyerId",
		},
		{
			name:  "empty cart id list",
			in:    PlaceOrderInput{BuyerID: "buyer-1", Address: validAddress()},
			field: "cartId",
		},
		{
			name:  "blank cart id entry",
			in:    PlaceOrderInput{BuyerID: "buyer-1", CartItemIDs: []string{cartID(1), "  "}, Address: validAddress()},
			field: "cartId",
		},
		{
			name:  "malformed cart id entry",
			in:    PlaceOrderInput{BuyerID: "buyer-1", CartItemIDs: []string{"not-a-uuid"}, Address: validAddress()},
			field: "cartId",
		},
		{
			name: "missing postal code",
			in: PlaceOrderInput{
				BuyerID:     "buyer-1",
				CartItemIDs: []string{cartID(1)},
				Address: domain.DeliveryAddress{
					Street: "12 Market Rd", City: "Pune", State: "MH", Country: "IN",
				},
			},
			field: "deliveryAddress.postalCode",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PlaceOrder(ctx, tc.in)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestPlaceOrderNeverOversells(t *testing.T) {
	const stock, buyers = 5, 12

	world := newFakeWorld()
	world.listingStock["listing-1"] = stock
	for i := 0; i < buyers; i++ {
		world.addCartLine(domain.CartLine{
			ID:      cartID(i),
			BuyerID: fmt.Sprintf("buyer-%d", i),
			Ref:     domain.InventoryRef{Kind: domain.KindListing, ID: "listing-1"},
			Quantity: 1, TotalAmount: 100,
		})
	}

	svc := NewService(world, nil, nil, zerolog.Nop())

	var succeeded, outOfStock int64
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < buyers; i++ {
		i := i
		g.Go(func() error {
			_, err := svc.PlaceOrder(ctx, PlaceOrderInput{
				BuyerID:     fmt.Sprintf("buyer-%d", i),
				CartItemIDs: []string{cartID(i)},
				Address:     validAddress(),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrInsufficientStock):
				outOfStock++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(stock), succeeded)
	assert.Equal(t, int64(buyers-stock), outOfStock)
	assert.Equal(t, int32(0), world.listingStock["listing-1"])
	assert.Len(t, world.orders, stock)
}
