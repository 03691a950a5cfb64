package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

func (p PaymentStatus) Valid() bool {
	return p == PaymentPending || p == PaymentPaid
}

// Booking holds the room it was allocated. Edits never touch RoomID;
// cancellation deletes the row and frees the room.
type Booking struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	GuestName     string         `gorm:"column:guest_name;size:255;not null" json:"guest_name"`
	RoomID        uint           `gorm:"column:room_id;not null;index" json:"room_id"`
	CheckIn       datatypes.Date `gorm:"column:check_in;not null" json:"check_in"`
	CheckOut      datatypes.Date `gorm:"column:check_out;not null" json:"check_out"`
	PaymentStatus PaymentStatus  `gorm:"column:payment_status;type:varchar(16);not null;default:pending" json:"payment_status"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	Room Room `gorm:"foreignKey:RoomID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

// BookingView is a booking joined with its room for listing and detail
// pages.
type BookingView struct {
	ID            uint           `json:"id"`
	GuestName     string         `json:"guest_name"`
	RoomID        uint           `json:"room_id"`
	CheckIn       datatypes.Date `json:"check_in"`
	CheckOut      datatypes.Date `json:"check_out"`
	PaymentStatus PaymentStatus  `json:"payment_status"`
	CreatedAt     time.Time      `json:"created_at"`
	RoomNumber    string         `json:"room_number"`
	RoomType      RoomType       `json:"room_type"`
}
