package order

import "fmt"

const MaxPageSize = 100

type Pagination struct {
	PageSize   int
	PageNumber int
}

type OrdersQuery struct {
	IDs        []string
	UserIDs    []string
	Statuses   []PaymentStatus
	Pagination *Pagination
}

func (q *OrdersQuery) Validate() error {
	for _, s := range q.Statuses {
		if _, err := ParseStatus(string(s)); err != nil {
			return err
		}
	}
	if p := q.Pagination; p != nil {
		if p.PageSize < 1 || p.PageSize > MaxPageSize {
			return fmt.Errorf("page size must be between 1 and %d", MaxPageSize)
		}
		if p.PageNumber < 1 {
			return fmt.Errorf("page number must be positive")
		}
	}
	return nil
}

type OrdersQueryBuilder struct {
	query *OrdersQuery
}

func NewOrdersQueryBuilder() *OrdersQueryBuilder {
	return &OrdersQueryBuilder{query: &OrdersQuery{}}
}

func (b *OrdersQueryBuilder) Build() (*OrdersQuery, error) {
	if err := b.query.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidQuery, err.Error())
	}
	return b.query, nil
}

func (b *OrdersQueryBuilder) WithIDs(ids ...string) *OrdersQueryBuilder {
	b.query.IDs = ids
	return b
}

func (b *OrdersQueryBuilder) WithUserIDs(userIDs ...string) *OrdersQueryBuilder {
	b.query.UserIDs = userIDs
	return b
}

func (b *OrdersQueryBuilder) WithStatuses(statuses ...PaymentStatus) *OrdersQueryBuilder {
	b.query.Statuses = statuses
	return b
}

func (b *OrdersQueryBuilder) WithPagination(pagination Pagination) *OrdersQueryBuilder {
	b.query.Pagination = &pagination
	return b
}
