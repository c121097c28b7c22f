package order_repo

import (
	"time"

	"cookiegallery/internal/domain/order"
	"cookiegallery/pkg/pointers"
)

type orderRow struct {
	ID             string
	UserID         *string
	Items          []byte
	PaymentStatus  string
	PaymentID      *string
	Amount         *int64
	Currency       *string
	ReportedStatus *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (m orderRow) toDomain() (order.Order, error) {
	status, err := order.ParseStatus(m.PaymentStatus)
	if err != nil {
		return order.Order{}, err
	}

	return order.Order{
		ID:             m.ID,
		UserID:         pointers.Deref(m.UserID),
		Items:          m.Items,
		PaymentStatus:  status,
		PaymentID:      pointers.Deref(m.PaymentID),
		Amount:         m.Amount,
		Currency:       pointers.Deref(m.Currency),
		ReportedStatus: pointers.Deref(m.ReportedStatus),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
