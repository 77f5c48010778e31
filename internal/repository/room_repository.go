package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// RoomRepository encapsulates chat room persistence.
type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	GetByName(ctx context.Context, name string) (*domain.Room, error)
	// FindPairRoom returns the room whose member set is exactly {a, b}, or
	// nil when no such room exists.
	FindPairRoom(ctx context.Context, a, b string) (*domain.Room, error)
	ListByMember(ctx context.Context, userID string) ([]domain.Room, error)
	// SetTicket links a room to its owning ticket after the ticket row
	// exists. Not atomic with ticket creation.
	SetTicket(ctx context.Context, roomID, ticketID string) error
}

type roomRepository struct {
	pool *pgxpool.Pool
}

// NewRoomRepository instantiates the repository.
func NewRoomRepository(pool *pgxpool.Pool) RoomRepository {
	return &roomRepository{pool: pool}
}

const roomColumns = `id, name, member_ids, is_public, ticket_id, created_at, updated_at`

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	const query = `
        INSERT INTO rooms (name, member_ids, is_public, ticket_id)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`

	members := room.MemberIDs
	if members == nil {
		members = []string{}
	}
	return r.pool.QueryRow(ctx, query,
		room.Name,
		members,
		room.IsPublic,
		room.TicketID,
	).Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)
}

func (r *roomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	return r.fetchSingle(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id=$1`, id)
}

func (r *roomRepository) GetByName(ctx context.Context, name string) (*domain.Room, error) {
	return r.fetchSingle(ctx, `SELECT `+roomColumns+` FROM rooms WHERE name=$1`, name)
}

func (r *roomRepository) FindPairRoom(ctx context.Context, a, b string) (*domain.Room, error) {
	const query = `
        SELECT ` + roomColumns + ` FROM rooms
        WHERE cardinality(member_ids)=2 AND $1 = ANY(member_ids) AND $2 = ANY(member_ids)
          AND ticket_id IS NULL AND is_public=FALSE
        LIMIT 1`
	room, err := r.fetchSingle(ctx, query, a, b)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return room, err
}

func (r *roomRepository) ListByMember(ctx context.Context, userID string) ([]domain.Room, error) {
	const query = `
        SELECT ` + roomColumns + ` FROM rooms
        WHERE $1 = ANY(member_ids) OR is_public=TRUE
        ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Room
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(
			&room.ID,
			&room.Name,
			&room.MemberIDs,
			&room.IsPublic,
			&room.TicketID,
			&room.CreatedAt,
			&room.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, room)
	}
	return result, rows.Err()
}

func (r *roomRepository) SetTicket(ctx context.Context, roomID, ticketID string) error {
	const query = `UPDATE rooms SET ticket_id=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, ticketID, roomID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *roomRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Room, error) {
	var room domain.Room
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&room.ID,
		&room.Name,
		&room.MemberIDs,
		&room.IsPublic,
		&room.TicketID,
		&room.CreatedAt,
		&room.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &room, nil
}
