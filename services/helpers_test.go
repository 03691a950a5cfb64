package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-desk/models"
)

// newTestDB opens a private in-memory database. The clock advances one
// second per call so created_at ordering is deterministic.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	var mu sync.Mutex
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			now = now.Add(time.Second)
			return now
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Room{}, &models.Booking{}))
	return db
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newServices(t *testing.T, opts BookingOptions) (*RoomService, *BookingService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	rooms := NewRoomService(db, nil, quietLogger(), time.Minute)
	return rooms, NewBookingService(db, rooms, quietLogger(), opts), db
}

func seedRoom(t *testing.T, rooms *RoomService, number string, roomType models.RoomType) models.Room {
	t.Helper()
	room, err := rooms.Create(context.Background(), RoomInput{RoomNumber: number, RoomType: string(roomType)})
	require.NoError(t, err)
	return room
}

func allocateInput(guest string, roomType models.RoomType) AllocateInput {
	return AllocateInput{
		GuestName: guest,
		RoomType:  string(roomType),
		CheckIn:   "2024-03-01",
		CheckOut:  "2024-03-04",
	}
}
