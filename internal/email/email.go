package email

import (
	"context"
	"fmt"
	"log"

	"github.com/Domenick1991/trainbooking/config"
	"github.com/Domenick1991/trainbooking/internal/kafka"
	"github.com/wneessen/go-mail"
)

type Mailer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Sender struct {
	mailer   Mailer
	from     string
	fromName string
}

// NewSender returns a Sender that only logs when cfg.Host is empty.
func NewSender(cfg config.SMTPConfig) (*Sender, error) {
	if cfg.Host == "" {
		return &Sender{from: cfg.From, fromName: cfg.FromName}, nil
	}

	opts := []mail.Option{mail.WithPort(cfg.Port), mail.WithTLSPolicy(mail.TLSOpportunistic)}
	if cfg.Username != "" {
		opts = append(opts, mail.WithSMTPAuth(mail.SMTPAuthPlain), mail.WithUsername(cfg.Username), mail.WithPassword(cfg.Password))
	}
	c, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("init smtp client: %w", err)
	}
	return NewSenderWithMailer(c, cfg.From, cfg.FromName), nil
}

func NewSenderWithMailer(m Mailer, from, fromName string) *Sender {
	return &Sender{mailer: m, from: from, fromName: fromName}
}

// Send mails the ticket owner. Deletion events carry only the ticket id and
// are never mailed.
func (s *Sender) Send(ctx context.Context, event kafka.TicketEvent) error {
	if event.Type == kafka.TicketDeleted {
		return nil
	}
	if event.Email == "" {
		log.Printf("skip notification for ticket %d: no email", event.TicketID)
		return nil
	}

	if s.mailer == nil {
		log.Printf("send email to %s about %s for ticket %d on train %d", event.Email, event.Type, event.TicketID, event.TrainID)
		return nil
	}

	msg, err := s.buildMessage(event)
	if err != nil {
		return err
	}
	if err := s.mailer.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send email to %s: %w", event.Email, err)
	}
	return nil
}

func (s *Sender) buildMessage(event kafka.TicketEvent) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.from); err != nil {
		return nil, fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(event.Email); err != nil {
		return nil, fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(subject(event))
	msg.SetBodyString(mail.TypeTextPlain, body(event))
	return msg, nil
}

func subject(event kafka.TicketEvent) string {
	switch event.Type {
	case kafka.TicketCreated:
		return fmt.Sprintf("Your ticket #%d is booked", event.TicketID)
	case kafka.TicketUpdated:
		return fmt.Sprintf("Your ticket #%d was changed", event.TicketID)
	default:
		return fmt.Sprintf("Update on ticket #%d", event.TicketID)
	}
}

func body(event kafka.TicketEvent) string {
	return fmt.Sprintf("Hello %s,\n\nTicket #%d\nTrain: %s (%s -> %s)\nBooked at: %s\nPrice: %.2f\n",
		event.UserName, event.TicketID, event.TrainName, event.Source, event.Destination,
		event.BookingDate.Format("2006-01-02 15:04"), event.FinalPrice)
}
