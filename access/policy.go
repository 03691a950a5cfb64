// Package access decides which roles may perform which operations.
package access

import "hotel-desk/models"

type Operation string

const (
	RoomsList   Operation = "rooms.list"
	RoomsView   Operation = "rooms.view"
	RoomsCreate Operation = "rooms.create"
	RoomsUpdate Operation = "rooms.update"
	RoomsDelete Operation = "rooms.delete"
	RoomsAudit  Operation = "rooms.audit"

	BookingsCreate Operation = "bookings.create"
	BookingsList   Operation = "bookings.list"
	BookingsView   Operation = "bookings.view"
	BookingsUpdate Operation = "bookings.update"
	BookingsCancel Operation = "bookings.cancel"

	DashboardView Operation = "dashboard.view"

	UsersMe Operation = "users.me"
)

// Policy maps an operation to the roles allowed to run it. An empty role
// list admits any authenticated user. Operations missing from the table
// are denied.
type Policy map[Operation][]models.Role

var (
	adminOnly = []models.Role{models.RoleAdmin}
	frontDesk = []models.Role{models.RoleAdmin, models.RoleReceptionist}
)

// DefaultPolicy is the role table the HTTP routes are gated with.
func DefaultPolicy() Policy {
	return Policy{
		RoomsList:   {},
		RoomsView:   adminOnly,
		RoomsCreate: adminOnly,
		RoomsUpdate: adminOnly,
		RoomsDelete: adminOnly,
		RoomsAudit:  adminOnly,

		BookingsCreate: frontDesk,
		BookingsList:   frontDesk,
		BookingsView:   frontDesk,
		BookingsUpdate: frontDesk,
		BookingsCancel: frontDesk,

		DashboardView: adminOnly,

		UsersMe: {},
	}
}

func (p Policy) Allowed(role models.Role, op Operation) bool {
	roles, ok := p[op]
	if !ok {
		return false
	}
	if len(roles) == 0 {
		return role.Valid()
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
