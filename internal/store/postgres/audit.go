package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/staffhub/staffhub/internal/domain"
)

const auditColumns = `id, entity_type, entity_id, action, actor_id, actor_name,
       old_snapshot, new_snapshot, field_name, old_value, new_value, source_addr, created_at`

// AuditRepo is append-only: records are inserted once and never updated or
// deleted here.
type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Insert(ctx context.Context, rec *domain.AuditRecord) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO audit_log (entity_type, entity_id, action, actor_id, actor_name,
		                        old_snapshot, new_snapshot, field_name, old_value, new_value,
		                        source_addr, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id`,
		rec.EntityType, rec.EntityID, rec.Action, rec.ActorID, rec.ActorName,
		rec.OldSnapshot, rec.NewSnapshot, rec.FieldName, rec.OldValue, rec.NewValue,
		rec.SourceAddr, rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("auditRepo.Insert: %w", err)
	}

	return nil
}

func (r *AuditRepo) GetByID(ctx context.Context, id int64) (*domain.AuditRecord, error) {
	var rec domain.AuditRecord

	err := r.pool.QueryRow(ctx,
		`SELECT `+auditColumns+` FROM audit_log WHERE id = $1`,
		id,
	).Scan(
		&rec.ID, &rec.EntityType, &rec.EntityID, &rec.Action, &rec.ActorID, &rec.ActorName,
		&rec.OldSnapshot, &rec.NewSnapshot, &rec.FieldName, &rec.OldValue, &rec.NewValue,
		&rec.SourceAddr, &rec.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("auditRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("auditRepo.GetByID: %w", err)
	}

	return &rec, nil
}

func (r *AuditRepo) List(ctx context.Context, f domain.AuditFilter) ([]*domain.AuditRecord, error) {
	builder := sq.Select(
		"id", "entity_type", "entity_id", "action", "actor_id", "actor_name",
		"old_snapshot", "new_snapshot", "field_name", "old_value", "new_value",
		"source_addr", "created_at",
	).
		From("audit_log").
		PlaceholderFormat(sq.Dollar).
		OrderBy("created_at DESC", "id DESC")

	if f.EntityType != "" {
		builder = builder.Where(sq.Eq{"entity_type": f.EntityType})
	}
	if f.EntityID != 0 {
		builder = builder.Where(sq.Eq{"entity_id": f.EntityID})
	}

	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	builder = builder.Limit(uint64(limit))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("auditRepo.List: build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("auditRepo.List: %w", err)
	}
	defer rows.Close()

	var records []*domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		if err := rows.Scan(
			&rec.ID, &rec.EntityType, &rec.EntityID, &rec.Action, &rec.ActorID, &rec.ActorName,
			&rec.OldSnapshot, &rec.NewSnapshot, &rec.FieldName, &rec.OldValue, &rec.NewValue,
			&rec.SourceAddr, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("auditRepo.List: scan: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("auditRepo.List: rows: %w", err)
	}

	return records, nil
}
