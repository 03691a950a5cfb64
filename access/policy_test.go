package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hotel-desk/models"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	tests := []struct {
		op           Operation
		admin        bool
		receptionist bool
	}{
		{RoomsList, true, true},
		{RoomsView, true, false},
		{RoomsCreate, true, false},
		{RoomsUpdate, true, false},
		{RoomsDelete, true, false},
		{RoomsAudit, true, false},
		{BookingsCreate, true, true},
		{BookingsList, true, true},
		{BookingsView, true, true},
		{BookingsUpdate, true, true},
		{BookingsCancel, true, true},
		{DashboardView, true, false},
		{UsersMe, true, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			assert.Equal(t, tt.admin, p.Allowed(models.RoleAdmin, tt.op))
			assert.Equal(t, tt.receptionist, p.Allowed(models.RoleReceptionist, tt.op))
		})
	}
}

func TestAllowedUnknownOperationAndRole(t *testing.T) {
	p := DefaultPolicy()
	assert.False(t, p.Allowed(models.RoleAdmin, Operation("reports.export")))
	assert.False(t, p.Allowed(models.Role("guest"), RoomsList))
}
