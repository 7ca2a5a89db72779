package domain

import "time"

type Train struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name" validate:"required,max=255"`
	Source             string    `json:"source"`
	Destination        string    `json:"destination"`
	BasePrice          float64   `json:"base_price" validate:"gte=0"`
	DiscountPercentage float64   `json:"discount_percentage" validate:"gte=0,lte=100"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
