package order_repo

import (
	"fmt"

	"cookiegallery/internal/domain/order"

	"github.com/jackc/pgx/v5"
)

var orderColumns = []string{
	"id", "user_id", "items", "payment_status", "payment_id",
	"amount", "currency", "reported_status", "created_at", "updated_at",
}

func parseOrderRow(row pgx.Row) (order.Order, error) {
	var m orderRow
	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.Items,
		&m.PaymentStatus,
		&m.PaymentID,
		&m.Amount,
		&m.Currency,
		&m.ReportedStatus,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return order.Order{}, fmt.Errorf("scan order row: %w", err)
	}

	o, err := m.toDomain()
	if err != nil {
		return order.Order{}, fmt.Errorf("invalid status in database: %w", err)
	}
	return o, nil
}

func parseOrderRows(rows pgx.Rows) ([]order.Order, error) {
	defer rows.Close()

	orders := make([]order.Order, 0)
	for rows.Next() {
		o, err := parseOrderRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	return orders, nil
}
