package tickets_service_api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "trainbooking.v1.TicketsService"

type Empty struct{}

type Ticket struct {
	Id          int64   `json:"id"`
	UserId      int64   `json:"user_id"`
	TrainId     int64   `json:"train_id"`
	UserName    string  `json:"user_name,omitempty"`
	Email       string  `json:"email,omitempty"`
	TrainName   string  `json:"train_name,omitempty"`
	Source      string  `json:"source,omitempty"`
	Destination string  `json:"destination,omitempty"`
	BookingDate string  `json:"booking_date"`
	FinalPrice  float64 `json:"final_price"`
}

type ListTicketsResponse struct {
	Tickets []*Ticket `json:"tickets"`
}

type GetTicketRequest struct {
	Id int64 `json:"id"`
}

type CreateTicketRequest struct {
	UserId  int64 `json:"user_id"`
	TrainId int64 `json:"train_id"`
}

type UpdateTicketRequest struct {
	Id      int64 `json:"id"`
	UserId  int64 `json:"user_id"`
	TrainId int64 `json:"train_id"`
}

type DeleteTicketRequest struct {
	Id int64 `json:"id"`
}

type TicketsServiceServer interface {
	ListTickets(context.Context, *Empty) (*ListTicketsResponse, error)
	GetTicket(context.Context, *GetTicketRequest) (*Ticket, error)
	CreateTicket(context.Context, *CreateTicketRequest) (*Ticket, error)
	UpdateTicket(context.Context, *UpdateTicketRequest) (*Ticket, error)
	DeleteTicket(context.Context, *DeleteTicketRequest) (*Empty, error)
}

func RegisterTicketsServiceServer(s grpc.ServiceRegistrar, srv TicketsServiceServer) {
	s.RegisterService(&TicketsServiceDesc, srv)
}

var TicketsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TicketsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListTickets", TicketsServiceServer.ListTickets),
		unary("GetTicket", TicketsServiceServer.GetTicket),
		unary("CreateTicket", TicketsServiceServer.CreateTicket),
		unary("UpdateTicket", TicketsServiceServer.UpdateTicket),
		unary("DeleteTicket", TicketsServiceServer.DeleteTicket),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "trainbooking/v1/tickets.json",
}

// FullMethod returns the path clients pass to grpc.ClientConn.Invoke.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary[Req, Resp any](method string, call func(TicketsServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(TicketsServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(TicketsServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
