package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// FeedbackRepository persists ratings. There is no update or delete; a
// unique constraint on (ticket_id, submitter_id) backs the one-shot rule.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.Feedback) error
	GetByTicketAndSubmitter(ctx context.Context, ticketID, submitterID string) (*domain.Feedback, error)
	ListByAgent(ctx context.Context, agentID string, limit, offset int) ([]domain.Feedback, error)
}

type feedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository instantiates the repository.
func NewFeedbackRepository(pool *pgxpool.Pool) FeedbackRepository {
	return &feedbackRepository{pool: pool}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	const query = `
        INSERT INTO feedback (ticket_id, submitter_id, agent_id, rating, comment)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		feedback.TicketID,
		feedback.SubmitterID,
		feedback.AgentID,
		feedback.Rating,
		feedback.Comment,
	).Scan(&feedback.ID, &feedback.CreatedAt)
}

func (r *feedbackRepository) GetByTicketAndSubmitter(ctx context.Context, ticketID, submitterID string) (*domain.Feedback, error) {
	const query = `
        SELECT id, ticket_id, submitter_id, agent_id, rating, comment, created_at
        FROM feedback WHERE ticket_id=$1 AND submitter_id=$2`
	var fb domain.Feedback
	err := r.pool.QueryRow(ctx, query, ticketID, submitterID).Scan(
		&fb.ID,
		&fb.TicketID,
		&fb.SubmitterID,
		&fb.AgentID,
		&fb.Rating,
		&fb.Comment,
		&fb.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

func (r *feedbackRepository) ListByAgent(ctx context.Context, agentID string, limit, offset int) ([]domain.Feedback, error) {
	const query = `
        SELECT id, ticket_id, submitter_id, agent_id, rating, comment, created_at
        FROM feedback WHERE agent_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, agentID, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Feedback
	for rows.Next() {
		var fb domain.Feedback
		if err := rows.Scan(
			&fb.ID,
			&fb.TicketID,
			&fb.SubmitterID,
			&fb.AgentID,
			&fb.Rating,
			&fb.Comment,
			&fb.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, fb)
	}
	return result, rows.Err()
}
