package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// AuditRepository stores immutable lifecycle records. No update or delete
// exists; audit rows outlive their ticket.
type AuditRepository interface {
	Create(ctx context.Context, audit *domain.Audit) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Audit, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository builds repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Create(ctx context.Context, audit *domain.Audit) error {
	const query = `
        INSERT INTO audits (ticket_id, action, field_changed, previous_value, new_value, actor_id, actor_name)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		audit.TicketID,
		audit.Action,
		audit.FieldChanged,
		audit.PreviousValue,
		audit.NewValue,
		audit.ActorID,
		audit.ActorName,
	).Scan(&audit.ID, &audit.CreatedAt)
}

func (r *auditRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Audit, error) {
	const query = `
        SELECT id, ticket_id, action, field_changed, previous_value, new_value, actor_id, actor_name, created_at
        FROM audits WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Audit
	for rows.Next() {
		var audit domain.Audit
		if err := rows.Scan(
			&audit.ID,
			&audit.TicketID,
			&audit.Action,
			&audit.FieldChanged,
			&audit.PreviousValue,
			&audit.NewValue,
			&audit.ActorID,
			&audit.ActorName,
			&audit.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, audit)
	}
	return result, rows.Err()
}
