package order_repo

import (
	"context"
	"fmt"

	"cookiegallery/internal/domain/order"
	"cookiegallery/pkg/postgres"

	"github.com/Masterminds/squirrel"
)

// advances is true when the incoming status outranks the stored one.
const advances = `payment_status_rank(EXCLUDED.payment_status) > payment_status_rank(orders.payment_status)`

// upsertStatusSuffix never downgrades: payment fields follow the status only when it advances.
// status_tx records the transaction that last moved payment_status, so RETURNING can tell an
// advance from a no-op.
const upsertStatusSuffix = `ON CONFLICT (id) DO UPDATE SET
	payment_status = CASE WHEN ` + advances + ` THEN EXCLUDED.payment_status ELSE orders.payment_status END,
	status_tx = CASE WHEN ` + advances + ` THEN EXCLUDED.status_tx ELSE orders.status_tx END,
	payment_id = CASE WHEN ` + advances + ` THEN COALESCE(EXCLUDED.payment_id, orders.payment_id) ELSE COALESCE(orders.payment_id, EXCLUDED.payment_id) END,
	amount = CASE WHEN ` + advances + ` THEN COALESCE(EXCLUDED.amount, orders.amount) ELSE COALESCE(orders.amount, EXCLUDED.amount) END,
	currency = CASE WHEN ` + advances + ` THEN COALESCE(EXCLUDED.currency, orders.currency) ELSE COALESCE(orders.currency, EXCLUDED.currency) END,
	updated_at = now()
RETURNING payment_status, status_tx IS NOT DISTINCT FROM txid_current()`

// saveDetailsSuffix leaves payment_status alone; amounts reported by the gateway win over the client's.
// A row already owned by another user is not updated.
const saveDetailsSuffix = `ON CONFLICT (id) DO UPDATE SET
	user_id = COALESCE(orders.user_id, EXCLUDED.user_id),
	items = EXCLUDED.items,
	reported_status = EXCLUDED.reported_status,
	amount = COALESCE(orders.amount, EXCLUDED.amount),
	currency = COALESCE(orders.currency, EXCLUDED.currency),
	updated_at = now()
WHERE orders.user_id IS NULL OR orders.user_id = EXCLUDED.user_id`

// PgOrderRepo is the main repository
type PgOrderRepo struct {
	pg *postgres.Postgres
	repo
}

func NewPgOrderRepo(pg *postgres.Postgres) order.OrderRepo {
	return &PgOrderRepo{
		pg:   pg,
		repo: repo{db: pg.Pool, builder: pg.Builder},
	}
}

func (r *PgOrderRepo) InTransaction(ctx context.Context, fn func(repo order.TxOrderRepo) error) error {
	return r.pg.InTransaction(ctx, func(tx postgres.Executor) error {
		return fn(&repo{db: tx, builder: r.pg.Builder})
	})
}

type repo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

func (r *repo) UpsertStatus(ctx context.Context, t order.Transition) (order.StatusChange, error) {
	query, args, err := r.builder.Insert("orders").
		Columns("id", "payment_status", "payment_id", "amount", "currency", "status_tx", "created_at", "updated_at").
		Values(t.OrderID, string(t.Status), nullIfEmpty(t.PaymentID), t.Amount, nullIfEmpty(t.Currency),
			squirrel.Expr("txid_current()"), squirrel.Expr("now()"), squirrel.Expr("now()")).
		Suffix(upsertStatusSuffix).
		ToSql()
	if err != nil {
		return order.StatusChange{}, fmt.Errorf("build upsert query: %w", err)
	}

	var (
		raw      string
		advanced bool
	)
	if err := r.db.QueryRow(ctx, query, args...).Scan(&raw, &advanced); err != nil {
		return order.StatusChange{}, fmt.Errorf("upsert order status: %w", err)
	}
	status, err := order.ParseStatus(raw)
	if err != nil {
		return order.StatusChange{}, err
	}
	return order.StatusChange{Status: status, Advanced: advanced}, nil
}

func (r *repo) CreateEvent(ctx context.Context, event order.Event) error {
	query, args, err := r.builder.Insert("payment_events").
		Columns("id", "order_id", "event_type", "provider_event_id", "payment_id", "amount", "created_at").
		Values(event.ID, event.OrderID, event.EventType, nullIfEmpty(event.ProviderEventID), nullIfEmpty(event.PaymentID), event.Amount, event.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if postgres.IsPgErrorUniqueViolation(err) {
			return order.ErrEventAlreadyStored
		}
		return fmt.Errorf("insert payment event: %w", err)
	}
	return nil
}

func (r *repo) SaveDetails(ctx context.Context, d order.Details) error {
	query, args, err := r.builder.Insert("orders").
		Columns("id", "user_id", "items", "payment_status", "amount", "currency", "reported_status", "created_at", "updated_at").
		Values(d.OrderID, d.UserID, string(d.Items), string(order.StatusPending), d.Amount, nullIfEmpty(d.Currency), d.ReportedStatus, squirrel.Expr("now()"), squirrel.Expr("now()")).
		Suffix(saveDetailsSuffix).
		ToSql()
	if err != nil {
		return fmt.Errorf("build save details query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save order details: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotOwner
	}
	return nil
}

func (r *repo) GetOrders(ctx context.Context, query *order.OrdersQuery) ([]order.Order, error) {
	sql, args, err := r.buildOrdersQuery(query).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build orders query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	return parseOrderRows(rows)
}

func (r *repo) buildOrdersQuery(q *order.OrdersQuery) squirrel.SelectBuilder {
	query := r.builder.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC", "id")

	if len(q.IDs) > 0 {
		query = query.Where(squirrel.Eq{"id": q.IDs})
	}
	if len(q.UserIDs) > 0 {
		query = query.Where(squirrel.Eq{"user_id": q.UserIDs})
	}
	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
		query = query.Where(squirrel.Eq{"payment_status": statuses})
	}

	if q.Pagination != nil {
		offset := (q.Pagination.PageNumber - 1) * q.Pagination.PageSize
		query = query.Limit(uint64(q.Pagination.PageSize)).Offset(uint64(offset))
	}
	return query
}
