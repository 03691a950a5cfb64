package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hotel-desk/apperrors"
	"hotel-desk/cache"
	"hotel-desk/metrics"
	"hotel-desk/models"
	"hotel-desk/validation"

	"gorm.io/gorm"
)

const statsCacheKey = "dashboard:stats"

type RoomInput struct {
	RoomNumber string
	RoomType   string
}

// RoomUpdate is an admin edit. IsBooked is written as given, even when it
// disagrees with the bookings table.
type RoomUpdate struct {
	RoomNumber string
	RoomType   string
	IsBooked   bool
}

type RoomService struct {
	DB       *gorm.DB
	Cache    cache.Cache
	Log      *slog.Logger
	StatsTTL time.Duration
}

func NewRoomService(db *gorm.DB, c cache.Cache, logger *slog.Logger, statsTTL time.Duration) *RoomService {
	if c == nil {
		c = cache.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RoomService{DB: db, Cache: c, Log: logger, StatsTTL: statsTTL}
}

func (s *RoomService) Create(ctx context.Context, in RoomInput) (models.Room, error) {
	number, roomType, err := validation.Room(in.RoomNumber, in.RoomType)
	if err != nil {
		return models.Room{}, err
	}

	room := models.Room{RoomNumber: number, RoomType: roomType}
	if err := s.DB.WithContext(ctx).Create(&room).Error; err != nil {
		if isDuplicateKey(err) {
			return models.Room{}, apperrors.DuplicateRoomNumber(number, err)
		}
		return models.Room{}, apperrors.Storage("create room", err)
	}

	s.InvalidateStats(ctx)
	return room, nil
}

func (s *RoomService) Get(ctx context.Context, id uint) (models.Room, error) {
	var room models.Room
	err := s.DB.WithContext(ctx).First(&room, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Room{}, apperrors.NotFound("room")
	}
	if err != nil {
		return models.Room{}, apperrors.Storage("get room", err)
	}
	return room, nil
}

func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	rooms := []models.Room{}
	if err := s.DB.WithContext(ctx).Order("room_number ASC, id ASC").Find(&rooms).Error; err != nil {
		return nil, apperrors.Storage("list rooms", err)
	}
	return rooms, nil
}

func (s *RoomService) Update(ctx context.Context, id uint, in RoomUpdate) (models.Room, error) {
	number, roomType, err := validation.Room(in.RoomNumber, in.RoomType)
	if err != nil {
		return models.Room{}, err
	}

	var room models.Room
	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&room, id).Error; err != nil {
			return err
		}
		// map so that is_booked=false is written
		return tx.Model(&room).Updates(map[string]any{
			"room_number": number,
			"room_type":   roomType,
			"is_booked":   in.IsBooked,
		}).Error
	})
	switch {
	case txErr == nil:
	case errors.Is(txErr, gorm.ErrRecordNotFound):
		return models.Room{}, apperrors.NotFound("room")
	case isDuplicateKey(txErr):
		return models.Room{}, apperrors.DuplicateRoomNumber(number, txErr)
	default:
		return models.Room{}, apperrors.Storage("update room", txErr)
	}

	room.RoomNumber = number
	room.RoomType = roomType
	room.IsBooked = in.IsBooked
	s.InvalidateStats(ctx)
	return room, nil
}

// Delete removes a room that no booking references.
func (s *RoomService) Delete(ctx context.Context, id uint) error {
	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.First(&room, id).Error; err != nil {
			return err
		}
		var refs int64
		if err := tx.Model(&models.Booking{}).Where("room_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return apperrors.New(apperrors.CodeRoomInUse,
				fmt.Sprintf("room %s has %d booking(s)", room.RoomNumber, refs), nil)
		}
		return tx.Delete(&room).Error
	})
	switch {
	case txErr == nil:
	case errors.Is(txErr, gorm.ErrRecordNotFound):
		return apperrors.NotFound("room")
	case errors.Is(txErr, apperrors.ErrRoomInUse):
		return txErr
	default:
		return apperrors.Storage("delete room", txErr)
	}

	s.InvalidateStats(ctx)
	return nil
}

// Stats reads through the cache. Cache failures are logged and the
// numbers are computed from the database.
func (s *RoomService) Stats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	found, err := s.Cache.Get(ctx, statsCacheKey, &stats)
	if err != nil {
		s.Log.WarnContext(ctx, "stats cache read failed", "error", err)
	}
	if found {
		return stats, nil
	}

	db := s.DB.WithContext(ctx)
	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&stats.TotalRooms, db.Model(&models.Room{})},
		{&stats.TotalReservations, db.Model(&models.Booking{})},
		{&stats.AvailableRooms, db.Model(&models.Room{}).Where("is_booked = ?", false)},
		{&stats.BookedRooms, db.Model(&models.Room{}).Where("is_booked = ?", true)},
		{&stats.VIPRooms, db.Model(&models.Room{}).Where("room_type = ?", models.RoomTypeSuite)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return models.DashboardStats{}, apperrors.Storage("dashboard stats", err)
		}
	}

	if s.StatsTTL > 0 {
		if err := s.Cache.Set(ctx, statsCacheKey, stats, s.StatsTTL); err != nil {
			s.Log.WarnContext(ctx, "stats cache write failed", "error", err)
		}
	}
	return stats, nil
}

// InvalidateStats drops the cached dashboard numbers after a write.
func (s *RoomService) InvalidateStats(ctx context.Context) {
	if err := s.Cache.Delete(ctx, statsCacheKey); err != nil {
		s.Log.WarnContext(ctx, "stats cache invalidation failed", "error", err)
	}
}

// Audit lists rooms whose is_booked flag disagrees with the bookings
// table. It only reports.
func (s *RoomService) Audit(ctx context.Context) (models.InventoryAudit, error) {
	audit := models.InventoryAudit{
		BookedWithoutBooking: []models.Room{},
		FreeWithBooking:      []models.Room{},
	}
	db := s.DB.WithContext(ctx)

	err := db.Where("is_booked = ? AND NOT EXISTS (SELECT 1 FROM bookings WHERE bookings.room_id = rooms.id)", true).
		Order("room_number ASC").
		Find(&audit.BookedWithoutBooking).Error
	if err != nil {
		return models.InventoryAudit{}, apperrors.Storage("audit booked rooms", err)
	}

	err = db.Where("is_booked = ? AND EXISTS (SELECT 1 FROM bookings WHERE bookings.room_id = rooms.id)", false).
		Order("room_number ASC").
		Find(&audit.FreeWithBooking).Error
	if err != nil {
		return models.InventoryAudit{}, apperrors.Storage("audit free rooms", err)
	}

	metrics.SetAuditMismatches(len(audit.BookedWithoutBooking) + len(audit.FreeWithBooking))
	return audit, nil
}
