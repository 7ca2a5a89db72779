// Package tickets books users onto trains and keeps the resulting tickets.
package tickets

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/trainbooking/internal/domain"
	"github.com/Domenick1991/trainbooking/internal/fare"
	"github.com/Domenick1991/trainbooking/internal/kafka"
	"github.com/Domenick1991/trainbooking/internal/repository"
)

type TicketUseCase interface {
	List(ctx context.Context) ([]domain.Ticket, error)
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	Create(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error)
	Update(ctx context.Context, id int64, input UpdateTicketInput) (*domain.Ticket, error)
	Delete(ctx context.Context, id int64) error
	CalculatePrice(basePrice, discountPercentage float64) float64
}

// UserStore and TrainStore return nil, nil for unknown ids.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type TrainStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Train, error)
}

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

type CreateTicketInput struct {
	UserID  int64 `json:"user_id"`
	TrainID int64 `json:"train_id"`
}

type UpdateTicketInput struct {
	UserID  int64 `json:"user_id"`
	TrainID int64 `json:"train_id"`
}

type TicketService struct {
	users              UserStore
	trains             TrainStore
	tickets            repository.TicketRepository
	producer           Producer
	ticketTopic        string
	notificationsTopic string
	publishRetries     int
	now                func() time.Time
}

type TicketServiceOption func(*TicketService)

func WithProducer(producer Producer, ticketTopic string) TicketServiceOption {
	return func(s *TicketService) {
		s.producer = producer
		s.ticketTopic = ticketTopic
	}
}

func WithNotificationsTopic(topic string) TicketServiceOption {
	return func(s *TicketService) {
		s.notificationsTopic = topic
	}
}

// WithPublishRetries sets how many attempts each event publish gets. Values below 1 mean one attempt.
func WithPublishRetries(n int) TicketServiceOption {
	return func(s *TicketService) {
		s.publishRetries = n
	}
}

func WithClock(now func() time.Time) TicketServiceOption {
	return func(s *TicketService) {
		s.now = now
	}
}

func NewTicketService(users UserStore, trains TrainStore, tickets repository.TicketRepository, opts ...TicketServiceOption) *TicketService {
	service := &TicketService{
		users:          users,
		trains:         trains,
		tickets:        tickets,
		publishRetries: 1,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// List returns tickets in store order.
func (s *TicketService) List(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.List(ctx)
}

// GetByID returns nil, nil when the ticket does not exist.
func (s *TicketService) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

// Create books the user on the train at the current fare. Nothing is saved
// when either reference is missing.
func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error) {
	user, err := s.resolveUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	train, err := s.resolveTrain(ctx, input.TrainID)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		UserID:      user.ID,
		TrainID:     train.ID,
		User:        user,
		Train:       train,
		BookingDate: s.now(),
		FinalPrice:  s.CalculatePrice(train.BasePrice, train.DiscountPercentage),
	}

	saved, err := s.tickets.Save(ctx, ticket)
	if err != nil {
		return nil, fmt.Errorf("save ticket: %w", err)
	}

	s.publish(ctx, kafka.TicketCreated, saved)
	return saved, nil
}

// Update moves an existing ticket to another user and train. The booking date
// is kept; the final price is recomputed only when the train changes.
func (s *TicketService) Update(ctx context.Context, id int64, input UpdateTicketInput) (*domain.Ticket, error) {
	current, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket %d: %w", id, err)
	}
	if current == nil {
		return nil, fmt.Errorf("ticket %d: %w", id, domain.ErrNotFound)
	}

	user, err := s.resolveUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	train, err := s.resolveTrain(ctx, input.TrainID)
	if err != nil {
		return nil, err
	}

	if current.TrainID != train.ID {
		current.FinalPrice = s.CalculatePrice(train.BasePrice, train.DiscountPercentage)
	}
	current.UserID = user.ID
	current.TrainID = train.ID
	current.User = user
	current.Train = train

	saved, err := s.tickets.Save(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("save ticket %d: %w", id, err)
	}

	s.publish(ctx, kafka.TicketUpdated, saved)
	return saved, nil
}

// Delete removes the ticket. Unknown ids are not an error.
func (s *TicketService) Delete(ctx context.Context, id int64) error {
	if err := s.tickets.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete ticket %d: %w", id, err)
	}
	s.publish(ctx, kafka.TicketDeleted, &domain.Ticket{ID: id})
	return nil
}

func (s *TicketService) CalculatePrice(basePrice, discountPercentage float64) float64 {
	return fare.Price(basePrice, discountPercentage)
}

func (s *TicketService) resolveUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return user, nil
}

func (s *TicketService) resolveTrain(ctx context.Context, id int64) (*domain.Train, error) {
	train, err := s.trains.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get train %d: %w", id, err)
	}
	if train == nil {
		return nil, fmt.Errorf("train %d: %w", id, domain.ErrNotFound)
	}
	return train, nil
}

// publish never fails the caller; the ticket is already saved.
func (s *TicketService) publish(ctx context.Context, eventType string, ticket *domain.Ticket) {
	if s.producer == nil || s.ticketTopic == "" {
		return
	}
	retries := max(s.publishRetries, 1)
	event := kafka.NewTicketEvent(eventType, ticket)
	if err := s.producer.PublishWithRetry(ctx, s.ticketTopic, event.Key(), event, retries); err != nil {
		log.Printf("WARNING: failed to publish %s event for ticket %d: %v", eventType, ticket.ID, err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.PublishWithRetry(ctx, s.notificationsTopic, event.Key(), event, retries); err != nil {
			log.Printf("WARNING: failed to publish %s notification for ticket %d: %v", eventType, ticket.ID, err)
		}
	}
}

var _ TicketUseCase = (*TicketService)(nil)
