package customer_repo

import (
	"context"
	"fmt"

	"cookiegallery/internal/domain/customer"
	"cookiegallery/pkg/postgres"

	"github.com/Masterminds/squirrel"
)

// Absent optional fields keep what an earlier sign-in stored.
const upsertSuffix = `ON CONFLICT (email) DO UPDATE SET
	auth_uid = COALESCE(EXCLUDED.auth_uid, customers.auth_uid),
	display_name = COALESCE(EXCLUDED.display_name, customers.display_name),
	phone_number = COALESCE(EXCLUDED.phone_number, customers.phone_number),
	updated_at = EXCLUDED.updated_at`

type PgCustomerRepo struct {
	db      postgres.Executor
	builder squirrel.StatementBuilderType
}

func NewPgCustomerRepo(pg *postgres.Postgres) customer.Repo {
	return &PgCustomerRepo{db: pg.Pool, builder: pg.Builder}
}

func (r *PgCustomerRepo) Upsert(ctx context.Context, p customer.Profile) error {
	var authUID *string
	if p.AuthUID != "" {
		authUID = &p.AuthUID
	}

	query, args, err := r.builder.Insert("customers").
		Columns("email", "auth_uid", "display_name", "phone_number", "created_at", "updated_at").
		Values(p.Email, authUID, p.DisplayName, p.PhoneNumber, p.UpdatedAt, p.UpdatedAt).
		Suffix(upsertSuffix).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert customer: %w", err)
	}
	return nil
}
