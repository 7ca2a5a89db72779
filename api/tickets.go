package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/trainbooking/internal/domain"
	"github.com/Domenick1991/trainbooking/internal/service/tickets"
	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	service tickets.TicketUseCase
}

type ticketRequest struct {
	UserID  int64 `json:"user_id" binding:"required,gt=0"`
	TrainID int64 `json:"train_id" binding:"required,gt=0"`
}

type ticketResponse struct {
	ID          int64         `json:"id"`
	User        *domain.User  `json:"user,omitempty"`
	Train       *domain.Train `json:"train,omitempty"`
	UserID      int64         `json:"user_id"`
	TrainID     int64         `json:"train_id"`
	BookingDate string        `json:"booking_date"`
	FinalPrice  float64       `json:"final_price"`
}

type fareResponse struct {
	BasePrice          float64 `json:"base_price"`
	DiscountPercentage float64 `json:"discount_percentage"`
	FinalPrice         float64 `json:"final_price"`
}

func NewTicketHandler(service tickets.TicketUseCase) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

// RegisterFare mounts the price quote endpoint.
func (h *TicketHandler) RegisterFare(router *gin.RouterGroup) {
	router.GET("", h.quote)
}

func toTicketResponse(t *domain.Ticket) ticketResponse {
	return ticketResponse{
		ID:          t.ID,
		User:        t.User,
		Train:       t.Train,
		UserID:      t.UserID,
		TrainID:     t.TrainID,
		BookingDate: t.BookingDate.Format(time.RFC3339),
		FinalPrice:  t.FinalPrice,
	}
}

func (h *TicketHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	resp := make([]ticketResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toTicketResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TicketHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ticket, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if ticket == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(ticket))
}

func (h *TicketHandler) create(c *gin.Context) {
	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.service.Create(c.Request.Context(), tickets.CreateTicketInput{
		UserID:  req.UserID,
		TrainID: req.TrainID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTicketResponse(ticket))
}

func (h *TicketHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ticket, err := h.service.Update(c.Request.Context(), id, tickets.UpdateTicketInput{
		UserID:  req.UserID,
		TrainID: req.TrainID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTicketResponse(ticket))
}

func (h *TicketHandler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TicketHandler) quote(c *gin.Context) {
	base, err := strconv.ParseFloat(c.Query("base"), 64)
	if err != nil || base < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid base"})
		return
	}
	discount := 0.0
	if raw := c.Query("discount"); raw != "" {
		discount, err = strconv.ParseFloat(raw, 64)
		if err != nil || discount < 0 || discount > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid discount"})
			return
		}
	}
	c.JSON(http.StatusOK, fareResponse{
		BasePrice:          base,
		DiscountPercentage: discount,
		FinalPrice:         h.service.CalculatePrice(base, discount),
	})
}
