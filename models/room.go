package models

import (
	"time"
)

type RoomType string

const (
	RoomTypeSingle RoomType = "single"
	RoomTypeDouble RoomType = "double"
	RoomTypeSuite  RoomType = "suite"
)

// RoomTypes lists the recognized room types in display order.
var RoomTypes = []RoomType{RoomTypeSingle, RoomTypeDouble, RoomTypeSuite}

func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeSingle, RoomTypeDouble, RoomTypeSuite:
		return true
	}
	return false
}

// Room is one unit of inventory. IsBooked is the occupancy flag flipped
// by allocation and cancellation; admins may also set it directly.
type Room struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RoomNumber string    `gorm:"column:room_number;uniqueIndex;type:varchar(50);not null" json:"room_number"`
	RoomType   RoomType  `gorm:"column:room_type;type:varchar(16);not null;index:idx_rooms_type_booked" json:"room_type"`
	IsBooked   bool      `gorm:"column:is_booked;not null;default:false;index:idx_rooms_type_booked" json:"is_booked"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DashboardStats is the inventory summary shown on the admin dashboard.
// VIPRooms counts suites.
type DashboardStats struct {
	TotalRooms        int64 `json:"total_rooms"`
	TotalReservations int64 `json:"total_reservations"`
	AvailableRooms    int64 `json:"available_rooms"`
	BookedRooms       int64 `json:"booked_rooms"`
	VIPRooms          int64 `json:"vip_rooms"`
}

// InventoryAudit lists rooms whose occupancy flag disagrees with the
// bookings table.
type InventoryAudit struct {
	BookedWithoutBooking []Room `json:"booked_without_booking"`
	FreeWithBooking      []Room `json:"free_with_booking"`
}

func (a InventoryAudit) Consistent() bool {
	return len(a.BookedWithoutBooking) == 0 && len(a.FreeWithBooking) == 0
}
