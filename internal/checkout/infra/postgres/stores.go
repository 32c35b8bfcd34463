package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/agromart/agromart/internal/checkout/app"
	"github.com/agromart/agromart/internal/checkout/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// txStores is the store surface of one open transaction.
type txStores struct {
	tx *sqlx.Tx
}

type cartLineRow struct {
	ID               string         `db:"id"`
	UserID           string         `db:"user_id"`
	ListingID        sql.NullString `db:"listing_id"`
	ProductID        sql.NullString `db:"product_id"`
	ListingProductID sql.NullString `db:"listing_product_id"`
	SellerID         sql.NullString `db:"seller_id"`
	CategoryID       sql.NullString `db:"category_id"`
	Quantity         int32          `db:"quantity"`
	TotalAmount      int64          `db:"total_amount"`
}

func (s *txStores) ActiveCartLines(ctx context.Context, buyerID string, ids []string) ([]domain.CartLine, error) {
	var rows []cartLineRow
	err := s.tx.SelectContext(ctx, &rows, `
		SELECT ci.id, ci.user_id, ci.listing_id, ci.product_id, ci.category_id,
			ci.quantity, ci.total_amount,
			l.product_id AS listing_product_id,
			l.seller_id AS seller_id
		FROM cart_items ci
		LEFT JOIN listings l ON l.id = ci.listing_id
		WHERE ci.user_id = $1 AND ci.is_active AND ci.id = ANY($2::uuid[])`,
		buyerID, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	out := make([]domain.CartLine, 0, len(rows))
	for _, row := range rows {
		line := domain.CartLine{
			ID:          row.ID,
			BuyerID:     row.UserID,
			CategoryID:  row.CategoryID.String,
			Quantity:    row.Quantity,
			TotalAmount: row.TotalAmount,
		}
		switch {
		case row.ListingID.Valid:
			line.Ref = domain.InventoryRef{Kind: domain.KindListing, ID: row.ListingID.String}
			line.ProductID = row.ListingProductID.String
			line.SellerID = row.SellerID.String
		case row.ProductID.Valid:
			line.Ref = domain.InventoryRef{Kind: domain.KindProduct, ID: row.ProductID.String}
			line.ProductID = row.ProductID.String
		}
		out = append(out, line)
	}
	return out, nil
}

// decrement only succeeds when the current quantity covers the request;
// this single conditional UPDATE is the one concurrency-control primitive
// checkout relies on.
func (s *txStores) DecrementListingStock(ctx context.Context, listingID string, qty int32) error {
	res, err := s.tx.ExecContext(ctx, `
		UPDATE listings
		SET quantity = quantity - $1, updated_at = now()
		WHERE id = $2 AND quantity >= $1`, qty, listingID)
	if err != nil {
		return fmt.Errorf("decrement listing %s: %w", listingID, err)
	}
	return checkDecrement(res, domain.KindListing, listingID, qty)
}

func (s *txStores) DecrementProductStock(ctx context.Context, productID string, qty int32) error {
	res, err := s.tx.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $1, updated_at = now()
		WHERE id = $2 AND stock_quantity >= $1`, qty, productID)
	if err != nil {
		return fmt.Errorf("decrement product %s: %w", productID, err)
	}
	return checkDecrement(res, domain.KindProduct, productID, qty)
}

func checkDecrement(res sql.Result, kind domain.InventoryKind, id string, qty int32) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &app.StockError{Kind: kind, ID: id, Requested: qty}
	}
	return nil
}

func (s *txStores) DeactivateCartItems(ctx context.Context, ids []string) error {
	_, err := s.tx.ExecContext(ctx, `
		UPDATE cart_items
		SET is_active = FALSE, updated_at = now()
		WHERE id = ANY($1::uuid[]) AND is_active`, pq.Array(ids))
	return err
}

func (s *txStores) InsertOrders(ctx context.Context, orders []domain.NewOrder) ([]domain.PlacedOrder, error) {
	out := make([]domain.PlacedOrder, 0, len(orders))

	for i, o := range orders {
		var lon, lat sql.NullFloat64
		if o.Address.Location != nil {
			lon = sql.NullFloat64{Float64: o.Address.Location.Longitude, Valid: true}
			lat = sql.NullFloat64{Float64: o.Address.Location.Latitude, Valid: true}
		}

		var created struct {
			ID        string         `db:"id"`
			CreatedAt sql.NullTime   `db:"created_at"`
			RefID     sql.NullString `db:"ref_id"`
		}
		err := s.tx.GetContext(ctx, &created, `
			INSERT INTO orders (user_id, seller_id, cart_item_id, product_id, listing_id,
				category_id, quantity, total_amount, payment_intent, status, is_paid,
				addr_label, addr_street, addr_city, addr_state, addr_postal, addr_country,
				addr_longitude, addr_latitude)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
				$12, $13, $14, $15, $16, $17, $18, $19)
			RETURNING id, created_at, ref_id`,
			o.BuyerID, nullable(o.SellerID), o.CartItemID, o.ProductID, nullable(o.ListingID),
			nullable(o.CategoryID), o.Quantity, o.TotalAmount, o.PaymentIntent, o.Status, o.IsPaid,
			o.Address.Label, o.Address.Street, o.Address.City, o.Address.State,
			o.Address.PostalCode, o.Address.Country, lon, lat)
		if err != nil {
			return nil, fmt.Errorf("insert order %d: %w", i, err)
		}

		out = append(out, domain.PlacedOrder{
			ID:            created.ID,
			BuyerID:       o.BuyerID,
			SellerID:      o.SellerID,
			CartItemID:    o.CartItemID,
			ProductID:     o.ProductID,
			ListingID:     o.ListingID,
			CategoryID:    o.CategoryID,
			Quantity:      o.Quantity,
			TotalAmount:   o.TotalAmount,
			PaymentIntent: o.PaymentIntent,
			Status:        o.Status,
			IsPaid:        o.IsPaid,
			Address:       o.Address,
			CreatedAt:     created.CreatedAt.Time,
		})
	}
	return out, nil
}

func (s *txStores) CompletePaymentAttempt(ctx context.Context, attemptID string, orderIDs []string) error {
	meta, err := json.Marshal(map[string]any{"order_ids": orderIDs})
	if err != nil {
		return err
	}

	var orderID sql.NullString
	if len(orderIDs) == 1 {
		orderID = sql.NullString{String: orderIDs[0], Valid: true}
	}

	res, err := s.tx.ExecContext(ctx, `
		UPDATE payment_attempts
		SET status = 'completed', order_id = $2, metadata = metadata || $3::jsonb, updated_at = now()
		WHERE id = $1`, attemptID, orderID, meta)
	if err != nil {
		return fmt.Errorf("complete payment attempt %s: %w", attemptID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrPaymentAttemptNotFound
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
