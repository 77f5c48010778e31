package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// TicketFilter captures listing parameters.
type TicketFilter struct {
	SubmitterID *string
	AssigneeID  *string
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	Limit       int
	Offset      int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) error
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, title, description, department, category, equipment, status, priority,
       submitter, assigned_to, room_id, activity_log, attachments, messages, participants,
       created_at, updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, department, category, equipment, status, priority,
                             submitter, assigned_to, room_id, activity_log, attachments, messages, participants)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Department,
		ticket.Category,
		ticket.Equipment,
		ticket.Status,
		ticket.Priority,
		ticket.Submitter,
		ticket.AssignedTo,
		ticket.RoomID,
		emptyIfNilEntries(ticket.ActivityLog),
		emptyIfNilAttachments(ticket.Attachments),
		emptyIfNilMessages(ticket.Messages),
		emptyIfNilSnapshots(ticket.Participants),
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets
        SET title=$1, description=$2, department=$3, category=$4, equipment=$5, status=$6,
            priority=$7, assigned_to=$8, activity_log=$9, attachments=$10, messages=$11,
            participants=$12, updated_at=NOW()
        WHERE id=$13`

	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Department,
		ticket.Category,
		ticket.Equipment,
		ticket.Status,
		ticket.Priority,
		ticket.AssignedTo,
		emptyIfNilEntries(ticket.ActivityLog),
		emptyIfNilAttachments(ticket.Attachments),
		emptyIfNilMessages(ticket.Messages),
		emptyIfNilSnapshots(ticket.Participants),
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id=$1`, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Department,
		&ticket.Category,
		&ticket.Equipment,
		&ticket.Status,
		&ticket.Priority,
		&ticket.Submitter,
		&ticket.AssignedTo,
		&ticket.RoomID,
		&ticket.ActivityLog,
		&ticket.Attachments,
		&ticket.Messages,
		&ticket.Participants,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.SubmitterID != nil {
		args = append(args, *filter.SubmitterID)
		clauses = append(clauses, fmt.Sprintf("submitter->>'userId'=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assigned_to->>'userId'=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Department,
			&ticket.Category,
			&ticket.Equipment,
			&ticket.Status,
			&ticket.Priority,
			&ticket.Submitter,
			&ticket.AssignedTo,
			&ticket.RoomID,
			&ticket.ActivityLog,
			&ticket.Attachments,
			&ticket.Messages,
			&ticket.Participants,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func emptyIfNilEntries(v []domain.ActivityEntry) []domain.ActivityEntry {
	if v == nil {
		return []domain.ActivityEntry{}
	}
	return v
}

func emptyIfNilAttachments(v []domain.Attachment) []domain.Attachment {
	if v == nil {
		return []domain.Attachment{}
	}
	return v
}

func emptyIfNilMessages(v []domain.Message) []domain.Message {
	if v == nil {
		return []domain.Message{}
	}
	return v
}

func emptyIfNilSnapshots(v []domain.UserSnapshot) []domain.UserSnapshot {
	if v == nil {
		return []domain.UserSnapshot{}
	}
	return v
}
