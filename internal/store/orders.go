package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrOrderNotFound is returned when a reference matches no archived order.
var ErrOrderNotFound = errors.New("order not found")

// Order is one archived checkout.
type Order struct {
	ID        int64     `db:"id" json:"id"`
	Reference string    `db:"reference" json:"reference"`
	SessionID string    `db:"session_id" json:"session_id"`
	Subtotal  float64   `db:"subtotal" json:"subtotal"`
	ItemCount int       `db:"item_count" json:"item_count"`
	Currency  string    `db:"currency" json:"currency"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// OrderLine is one cart line captured at checkout time.
type OrderLine struct {
	ID        int64   `db:"id" json:"id"`
	OrderID   int64   `db:"order_id" json:"order_id"`
	ProductID string  `db:"product_id" json:"product_id"`
	Name      string  `db:"name" json:"name"`
	SKU       string  `db:"sku" json:"sku"`
	UnitPrice float64 `db:"unit_price" json:"unit_price"`
	Quantity  int     `db:"quantity" json:"quantity"`
}

// CreateOrder inserts an archived order
func (s *Store) CreateOrder(ctx context.Context, order *Order) error {
	query := `
		INSERT INTO orders (reference, session_id, subtotal, item_count, currency)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, order, query,
		order.Reference, order.SessionID, order.Subtotal, order.ItemCount, order.Currency)
}

// CreateOrderLine inserts one line of an archived order
func (s *Store) CreateOrderLine(ctx context.Context, line *OrderLine) error {
	query := `
		INSERT INTO order_lines (order_id, product_id, name, sku, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	return s.db.GetContext(ctx, &line.ID, query,
		line.OrderID, line.ProductID, line.Name, line.SKU, line.UnitPrice, line.Quantity)
}

// GetOrderByReference retrieves an archived order by its reference
func (s *Store) GetOrderByReference(ctx context.Context, reference string) (*Order, error) {
	var order Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE reference = $1", reference)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, reference)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderLines retrieves all lines for an archived order
func (s *Store) GetOrderLines(ctx context.Context, orderID int64) ([]OrderLine, error) {
	var lines []OrderLine
	err := s.db.SelectContext(ctx, &lines,
		"SELECT * FROM order_lines WHERE order_id = $1", orderID)
	return lines, err
}

// GetOrdersBySession retrieves archived orders for one session
func (s *Store) GetOrdersBySession(ctx context.Context, sessionID string) ([]Order, error) {
	var orders []Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE session_id = $1 ORDER BY created_at DESC", sessionID)
	return orders, err
}
