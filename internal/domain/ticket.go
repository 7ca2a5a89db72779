package domain

import "time"

// Ticket is a user's booking on a train. UserID and TrainID are the stored
// references; User and Train are filled in by the stores on read and by the
// ticket service on write.
type Ticket struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	TrainID     int64     `json:"train_id"`
	User        *User     `json:"user,omitempty"`
	Train       *Train    `json:"train,omitempty"`
	BookingDate time.Time `json:"booking_date"`
	FinalPrice  float64   `json:"final_price"`
}
