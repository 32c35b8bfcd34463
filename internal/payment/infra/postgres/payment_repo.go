package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/agromart/agromart/internal/payment/app"
	"github.com/agromart/agromart/internal/payment/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type attemptRow struct {
	ID            string         `db:"id"`
	PaymentID     string         `db:"payment_id"`
	Amount        int64          `db:"amount"`
	Currency      string         `db:"currency"`
	Status        string         `db:"status"`
	PaymentMethod string         `db:"payment_method"`
	BuyerID       string         `db:"buyer_id"`
	OrderID       sql.NullString `db:"order_id"`
	CartItemIDs   pq.StringArray `db:"cart_item_ids"`
	Metadata      []byte         `db:"metadata"`
	ErrorMessage  string         `db:"error_message"`
	Notes         string         `db:"notes"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r attemptRow) toDomain() domain.Attempt {
	a := domain.Attempt{
		ID:            r.ID,
		PaymentID:     r.PaymentID,
		Amount:        r.Amount,
		Currency:      r.Currency,
		Status:        domain.Status(r.Status),
		PaymentMethod: r.PaymentMethod,
		BuyerID:       r.BuyerID,
		OrderID:       r.OrderID.String,
		CartItemIDs:   r.CartItemIDs,
		ErrorMessage:  r.ErrorMessage,
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if len(r.Metadata) > 0 {
		_ = json.Unmarshal(r.Metadata, &a.Metadata)
	}
	return a
}

const attemptColumns = `id, payment_id, amount, currency, status, payment_method,
	buyer_id, order_id, cart_item_ids, metadata, error_message, notes,
	created_at, updated_at`

type AttemptRepo struct {
	db *sqlx.DB
}

func NewAttemptRepo(db *sqlx.DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

func (r *AttemptRepo) Create(ctx context.Context, a domain.Attempt) (domain.Attempt, error) {
	metadata := []byte(`{}`)
	if a.Metadata != nil {
		raw, err := json.Marshal(a.Metadata)
		if err != nil {
			return domain.Attempt{}, err
		}
		metadata = raw
	}

	var row attemptRow
	err := r.db.GetContext(ctx, &row, `
		INSERT INTO payment_attempts
			(payment_id, amount, currency, status, payment_method, buyer_id, cart_item_ids, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+attemptColumns,
		a.PaymentID, a.Amount, a.Currency, string(a.Status), a.PaymentMethod,
		a.BuyerID, pq.Array(a.CartItemIDs), metadata)
	if err != nil {
		return domain.Attempt{}, err
	}
	return row.toDomain(), nil
}

func (r *AttemptRepo) Get(ctx context.Context, id string) (domain.Attempt, error) {
	var row attemptRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+attemptColumns+` FROM payment_attempts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Attempt{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Attempt{}, err
	}
	return row.toDomain(), nil
}

func (r *AttemptRepo) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Attempt, error) {
	return r.list(ctx,
		`SELECT `+attemptColumns+` FROM payment_attempts WHERE buyer_id = $1 ORDER BY created_at DESC`,
		buyerID)
}

func (r *AttemptRepo) ListAll(ctx context.Context) ([]domain.Attempt, error) {
	return r.list(ctx,
		`SELECT `+attemptColumns+` FROM payment_attempts ORDER BY created_at DESC`)
}

func (r *AttemptRepo) list(ctx context.Context, query string, args ...any) ([]domain.Attempt, error) {
	var rows []attemptRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	out := make([]domain.Attempt, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *AttemptRepo) SetStatus(ctx context.Context, id string, status domain.Status, notes string) (domain.Attempt, error) {
	var row attemptRow
	err := r.db.GetContext(ctx, &row, `
		UPDATE payment_attempts
		SET status = $2,
		    notes = CASE WHEN $3 <> '' THEN $3 ELSE notes END,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+attemptColumns,
		id, string(status), notes)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Attempt{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Attempt{}, err
	}
	return row.toDomain(), nil
}
