package tickets_service_api

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/trainbooking/internal/domain"
	"github.com/Domenick1991/trainbooking/internal/service/tickets"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Server implements TicketsServiceServer over the ticket use case.
type Server struct {
	tickets tickets.TicketUseCase
}

func NewServer(tickets tickets.TicketUseCase) *Server {
	return &Server{tickets: tickets}
}

func (s *Server) ListTickets(ctx context.Context, _ *Empty) (*ListTicketsResponse, error) {
	list, err := s.tickets.List(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &ListTicketsResponse{
		Tickets: make([]*Ticket, 0, len(list)),
	}
	for i := range list {
		resp.Tickets = append(resp.Tickets, toPBTicket(&list[i]))
	}
	return resp, nil
}

func (s *Server) GetTicket(ctx context.Context, req *GetTicketRequest) (*Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, req.Id)
	if err != nil {
		return nil, toStatus(err)
	}
	if ticket == nil {
		return nil, status.Errorf(codes.NotFound, "ticket %d not found", req.Id)
	}
	return toPBTicket(ticket), nil
}

func (s *Server) CreateTicket(ctx context.Context, req *CreateTicketRequest) (*Ticket, error) {
	created, err := s.tickets.Create(ctx, tickets.CreateTicketInput{
		UserID:  req.UserId,
		TrainID: req.TrainId,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return toPBTicket(created), nil
}

func (s *Server) UpdateTicket(ctx context.Context, req *UpdateTicketRequest) (*Ticket, error) {
	updated, err := s.tickets.Update(ctx, req.Id, tickets.UpdateTicketInput{
		UserID:  req.UserId,
		TrainID: req.TrainId,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return toPBTicket(updated), nil
}

func (s *Server) DeleteTicket(ctx context.Context, req *DeleteTicketRequest) (*Empty, error) {
	if err := s.tickets.Delete(ctx, req.Id); err != nil {
		return nil, toStatus(err)
	}
	return &Empty{}, nil
}

func toPBTicket(t *domain.Ticket) *Ticket {
	if t == nil {
		return nil
	}
	pb := &Ticket{
		Id:          t.ID,
		UserId:      t.UserID,
		TrainId:     t.TrainID,
		BookingDate: t.BookingDate.Format(time.RFC3339),
		FinalPrice:  t.FinalPrice,
	}
	if t.User != nil {
		pb.UserName = t.User.Name
		pb.Email = t.User.Email
	}
	if t.Train != nil {
		pb.TrainName = t.Train.Name
		pb.Source = t.Train.Source
		pb.Destination = t.Train.Destination
	}
	return pb
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalid):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

var _ TicketsServiceServer = (*Server)(nil)
