package models

import "time"

const (
	BookingNew       = "new"
	BookingContacted = "contacted"
	BookingClosed    = "closed"
	BookingSpam      = "spam"
)

// Booking is a consultation request submitted through the booking form.
type Booking struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Company       string    `json:"company,omitempty"`
	ServiceID     string    `json:"service_id,omitempty"`
	PreferredDate string    `json:"preferred_date,omitempty"`
	Message       string    `json:"message,omitempty"`
	Locale        string    `json:"locale,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func ValidBookingStatus(s string) bool {
	switch s {
	case BookingNew, BookingContacted, BookingClosed, BookingSpam:
		return true
	}
	return false
}
