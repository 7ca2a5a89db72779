package kafka

import (
	"strconv"
	"time"

	"github.com/Domenick1991/trainbooking/internal/domain"
	"github.com/google/uuid"
)

const (
	TicketCreated = "ticket_created"
	TicketUpdated = "ticket_updated"
	TicketDeleted = "ticket_deleted"
)

type TicketEvent struct {
	EventID     string    `json:"event_id"`
	Type        string    `json:"type"`
	TicketID    int64     `json:"ticket_id"`
	UserID      int64     `json:"user_id,omitempty"`
	TrainID     int64     `json:"train_id,omitempty"`
	UserName    string    `json:"user_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	TrainName   string    `json:"train_name,omitempty"`
	Source      string    `json:"source,omitempty"`
	Destination string    `json:"destination,omitempty"`
	FinalPrice  float64   `json:"final_price,omitempty"`
	BookingDate time.Time `json:"booking_date,omitempty"`
}

// NewTicketEvent builds an event for a ticket. Resolved user and train fields
// are copied when present.
func NewTicketEvent(eventType string, t *domain.Ticket) TicketEvent {
	event := TicketEvent{
		EventID:     uuid.NewString(),
		Type:        eventType,
		TicketID:    t.ID,
		UserID:      t.UserID,
		TrainID:     t.TrainID,
		FinalPrice:  t.FinalPrice,
		BookingDate: t.BookingDate,
	}
	if t.User != nil {
		event.UserName = t.User.Name
		event.Email = t.User.Email
	}
	if t.Train != nil {
		event.TrainName = t.Train.Name
		event.Source = t.Train.Source
		event.Destination = t.Train.Destination
	}
	return event
}

// Key is the partition key; events for one ticket stay ordered.
func (e TicketEvent) Key() string {
	return strconv.FormatInt(e.TicketID, 10)
}
