package repository

import (
	"context"
	"errors"

	"github.com/Domenick1991/trainbooking/internal/domain"
	"github.com/jackc/pgx/v5"
)

type TicketRepository interface {
	List(ctx context.Context) ([]domain.Ticket, error)
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	// Save inserts a ticket with a zero ID and updates it otherwise. The
	// returned ticket is the argument with its ID assigned.
	Save(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error)
	DeleteByID(ctx context.Context, id int64) error
}

type PGTicketRepository struct {
	db DB
}

func NewTicketRepository(db DB) TicketRepository {
	return &PGTicketRepository{db: db}
}

const ticketSelect = `SELECT t.id, t.user_id, t.train_id, t.booking_date, t.final_price,
	u.id, u.name, u.email, u.created_at, u.updated_at,
	tr.id, tr.name, tr.source, tr.destination, tr.base_price, tr.discount_percentage, tr.created_at, tr.updated_at
	FROM tickets t
	JOIN users u ON u.id = t.user_id
	JOIN trains tr ON tr.id = t.train_id`

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var (
		t  domain.Ticket
		u  domain.User
		tr domain.Train
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.TrainID, &t.BookingDate, &t.FinalPrice,
		&u.ID, &u.Name, &u.Email, &u.CreatedAt, &u.UpdatedAt,
		&tr.ID, &tr.Name, &tr.Source, &tr.Destination, &tr.BasePrice, &tr.DiscountPercentage, &tr.CreatedAt, &tr.UpdatedAt); err != nil {
		return nil, err
	}
	t.User = &u
	t.Train = &tr
	return &t, nil
}

func (r *PGTicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, ticketSelect+` ORDER BY t.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

// GetByID returns nil, nil when no ticket has the id.
func (r *PGTicketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	t, err := scanTicket(r.db.QueryRow(ctx, ticketSelect+` WHERE t.id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

func (r *PGTicketRepository) Save(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	if ticket.ID == 0 {
		err := r.db.QueryRow(ctx, `INSERT INTO tickets (user_id, train_id, booking_date, final_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id`, ticket.UserID, ticket.TrainID, ticket.BookingDate, ticket.FinalPrice).
			Scan(&ticket.ID)
		if err != nil {
			return nil, translateError(err)
		}
		return ticket, nil
	}

	err := r.db.QueryRow(ctx, `UPDATE tickets SET user_id=$1, train_id=$2, booking_date=$3, final_price=$4
		WHERE id=$5
		RETURNING id`, ticket.UserID, ticket.TrainID, ticket.BookingDate, ticket.FinalPrice, ticket.ID).
		Scan(&ticket.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, translateError(err)
	}
	return ticket, nil
}

// DeleteByID does not report unknown ids.
func (r *PGTicketRepository) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	return err
}

var _ TicketRepository = (*PGTicketRepository)(nil)
