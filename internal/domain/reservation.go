package domain

import "time"

type Reservation struct {
	ID         int64     `json:"id"`
	GuestID    int64     `json:"guest_id"`
	PropertyID int64     `json:"property_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
}

// GuestReservation is a reservation together with the reserved property
// (including its average rating).
type GuestReservation struct {
	Reservation
	Property Property `json:"property"`
}
