package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/agromart/agromart/internal/order/app"
	"github.com/agromart/agromart/internal/order/domain"
	"github.com/jmoiron/sqlx"
)

type orderRow struct {
	ID            string          `db:"id"`
	UserID        string          `db:"user_id"`
	SellerID      sql.NullString  `db:"seller_id"`
	CartItemID    string          `db:"cart_item_id"`
	ProductID     string          `db:"product_id"`
	ListingID     sql.NullString  `db:"listing_id"`
	CategoryID    sql.NullString  `db:"category_id"`
	Quantity      int32           `db:"quantity"`
	TotalAmount   int64           `db:"total_amount"`
	PaymentIntent string          `db:"payment_intent"`
	PaymentMethod string          `db:"payment_method"`
	Status        string          `db:"status"`
	IsPaid        bool            `db:"is_paid"`
	IsActive      bool            `db:"is_active"`
	RefID         string          `db:"ref_id"`
	AddrLabel     string          `db:"addr_label"`
	AddrStreet    string          `db:"addr_street"`
	AddrCity      string          `db:"addr_city"`
	AddrState     string          `db:"addr_state"`
	AddrPostal    string          `db:"addr_postal"`
	AddrCountry   string          `db:"addr_country"`
	AddrLongitude sql.NullFloat64 `db:"addr_longitude"`
	AddrLatitude  sql.NullFloat64 `db:"addr_latitude"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (r orderRow) toDomain() domain.Order {
	o := domain.Order{
		ID:            r.ID,
		BuyerID:       r.UserID,
		SellerID:      r.SellerID.String,
		CartItemID:    r.CartItemID,
		ProductID:     r.ProductID,
		ListingID:     r.ListingID.String,
		CategoryID:    r.CategoryID.String,
		Quantity:      r.Quantity,
		TotalAmount:   r.TotalAmount,
		PaymentIntent: r.PaymentIntent,
		PaymentMethod: r.PaymentMethod,
		Status:        r.Status,
		IsPaid:        r.IsPaid,
		Active:        r.IsActive,
		RefID:         r.RefID,
		Address: domain.DeliveryAddress{
			Label:      r.AddrLabel,
			Street:     r.AddrStreet,
			City:       r.AddrCity,
			State:      r.AddrState,
			PostalCode: r.AddrPostal,
			Country:    r.AddrCountry,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.AddrLongitude.Valid && r.AddrLatitude.Valid {
		o.Address.Location = &domain.GeoPoint{
			Longitude: r.AddrLongitude.Float64,
			Latitude:  r.AddrLatitude.Float64,
		}
	}
	return o
}

const orderColumns = `o.id, o.user_id, o.seller_id, o.cart_item_id, o.product_id,
	o.listing_id, o.category_id, o.quantity, o.total_amount, o.payment_intent,
	o.payment_method, o.status, o.is_paid, o.is_active, o.ref_id,
	o.addr_label, o.addr_street, o.addr_city, o.addr_state, o.addr_postal,
	o.addr_country, o.addr_longitude, o.addr_latitude, o.created_at, o.updated_at`

type resolvedOrderRow struct {
	orderRow
	ProductName  sql.NullString `db:"product_name"`
	CategoryName sql.NullString `db:"category_name"`
	BuyerName    sql.NullString `db:"buyer_name"`
	SellerName   sql.NullString `db:"seller_name"`
}

func (r resolvedOrderRow) toResolved() domain.ResolvedOrder {
	return domain.ResolvedOrder{
		Order:        r.toDomain(),
		ProductName:  r.ProductName.String,
		CategoryName: r.CategoryName.String,
		BuyerName:    r.BuyerName.String,
		SellerName:   r.SellerName.String,
	}
}

const resolvedJoin = `
	FROM orders o
	LEFT JOIN products p ON p.id = o.product_id
	LEFT JOIN categories c ON c.id = o.category_id
	LEFT JOIN users b ON b.id = o.user_id
	LEFT JOIN users s ON s.id = o.seller_id`

const resolvedColumns = orderColumns + `,
	p.product_name AS product_name,
	c.category_name AS category_name,
	b.full_name AS buyer_name,
	s.full_name AS seller_name`

type OrderRepo struct {
	db *sqlx.DB
}

func NewOrderRepo(db *sqlx.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	var row orderRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	return row.toDomain(), nil
}

func (r *OrderRepo) ListByBuyer(ctx context.Context, buyerID string) ([]domain.ResolvedOrder, error) {
	return r.listResolved(ctx, `WHERE o.user_id = $1`, buyerID)
}

func (r *OrderRepo) ListBySeller(ctx context.Context, sellerID string) ([]domain.ResolvedOrder, error) {
	return r.listResolved(ctx, `WHERE o.seller_id = $1`, sellerID)
}

func (r *OrderRepo) listResolved(ctx context.Context, where string, arg any) ([]domain.ResolvedOrder, error) {
	var rows []resolvedOrderRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+resolvedColumns+resolvedJoin+` `+where+` ORDER BY o.created_at DESC`, arg)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ResolvedOrder, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toResolved())
	}
	return out, nil
}

type orderPaymentRow struct {
	resolvedOrderRow
	AttemptID     sql.NullString `db:"attempt_id"`
	PaymentID     sql.NullString `db:"payment_id"`
	PayStatus     sql.NullString `db:"pay_status"`
	PayAmount     sql.NullInt64  `db:"pay_amount"`
	PayCurrency   sql.NullString `db:"pay_currency"`
	PayMethod     sql.NullString `db:"pay_method"`
	PayError      sql.NullString `db:"pay_error"`
}

func (r *OrderRepo) ListAllWithPayments(ctx context.Context) ([]domain.OrderWithPayment, error) {
	var rows []orderPaymentRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+resolvedColumns+`,
			pa.id AS attempt_id,
			pa.payment_id AS payment_id,
			pa.status AS pay_status,
			pa.amount AS pay_amount,
			pa.currency AS pay_currency,
			pa.payment_method AS pay_method,
			pa.error_message AS pay_error`+
			resolvedJoin+`
		LEFT JOIN payment_attempts pa ON pa.order_id = o.id
		ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, err
	}

	out := make([]domain.OrderWithPayment, 0, len(rows))
	for _, row := range rows {
		owp := domain.OrderWithPayment{ResolvedOrder: row.toResolved()}
		if row.AttemptID.Valid {
			owp.Payment = &domain.PaymentSummary{
				AttemptID:     row.AttemptID.String,
				PaymentID:     row.PaymentID.String,
				Status:        row.PayStatus.String,
				Amount:        row.PayAmount.Int64,
				Currency:      row.PayCurrency.String,
				PaymentMethod: row.PayMethod.String,
				ErrorMessage:  row.PayError.String,
			}
		}
		out = append(out, owp)
	}
	return out, nil
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) (domain.Order, error) {
	var row orderRow
	err := r.db.GetContext(ctx, &row, `
		UPDATE orders o SET status = $2, updated_at = now()
		WHERE o.id = $1
		RETURNING `+orderColumns,
		id, status)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	return row.toDomain(), nil
}
