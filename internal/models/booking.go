package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusAccepted  BookingStatus = "accepted"
	StatusRejected  BookingStatus = "rejected"
)

// Layouts for the date and start time fields.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// validTransitions lists the moves a photographer may make. Statuses absent
// from the map are terminal.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending: {StatusAccepted, StatusRejected},
}

// CanTransitionTo reports whether a transition from s to next is allowed.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsInitial reports whether s is a valid status for a newly created booking.
func (s BookingStatus) IsInitial() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Booking is a client's request for a photographer's time.
type Booking struct {
	ID             ID            `json:"id"`
	UserID         ID            `json:"user_id"`
	PhotographerID ID            `json:"photographer_id"`
	Date           string        `json:"date"`
	Time           string        `json:"time"`
	Duration       int           `json:"duration"`
	Status         BookingStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
}

// BookingRequest is the form body for POST /booking/{photographerID}.
type BookingRequest struct {
	Date     string `form:"date" validate:"required,datetime=2006-01-02"`
	Time     string `form:"time" validate:"required,datetime=15:04"`
	Duration int    `form:"duration" validate:"required,gte=1,lte=24"`
}
