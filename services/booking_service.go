package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hotel-desk/apperrors"
	"hotel-desk/metrics"
	"hotel-desk/models"
	"hotel-desk/validation"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultAllocationRetries bounds how many times Allocate re-runs its
// transaction after losing a room to a concurrent request.
const DefaultAllocationRetries = 5

// errRoomTaken means the selected room was booked between the select and
// the flag update. The transaction is rolled back and retried.
var errRoomTaken = errors.New("room taken by a concurrent allocation")

type AllocateInput struct {
	GuestName     string
	RoomType      string
	CheckIn       string
	CheckOut      string
	PaymentStatus string
}

type BookingUpdate struct {
	GuestName     string
	CheckIn       string
	CheckOut      string
	PaymentStatus string
}

// Allocation is the result of a successful Allocate.
type Allocation struct {
	BookingID  uint            `json:"booking_id"`
	RoomID     uint            `json:"room_id"`
	RoomNumber string          `json:"room_number"`
	RoomType   models.RoomType `json:"room_type"`
}

type BookingOptions struct {
	AllocationRetries int
	EnforceDateOrder  bool
}

// BookingService owns the booking lifecycle and keeps rooms.is_booked in
// step with it.
type BookingService struct {
	DB    *gorm.DB
	Rooms *RoomService
	Log   *slog.Logger
	opts  BookingOptions
}

func NewBookingService(db *gorm.DB, rooms *RoomService, logger *slog.Logger, opts BookingOptions) *BookingService {
	if opts.AllocationRetries <= 0 {
		opts.AllocationRetries = DefaultAllocationRetries
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingService{DB: db, Rooms: rooms, Log: logger, opts: opts}
}

// Allocate books the lowest-id free room of the requested type for a
// guest. Either the booking exists and the room is flagged booked, or
// nothing changed.
func (s *BookingService) Allocate(ctx context.Context, in AllocateInput) (Allocation, error) {
	roomType, stay, err := s.validateAllocate(in)
	if err != nil {
		return Allocation{}, err
	}

	for attempt := 1; attempt <= s.opts.AllocationRetries; attempt++ {
		alloc, err := s.tryAllocate(ctx, roomType, stay)
		switch {
		case err == nil:
			metrics.IncRoomAllocated(string(roomType))
			s.afterWrite(ctx)
			s.Log.InfoContext(ctx, "room allocated",
				"booking_id", alloc.BookingID, "room_id", alloc.RoomID, "room_type", roomType, "attempt", attempt)
			return alloc, nil
		case errors.Is(err, errRoomTaken):
			metrics.IncAllocationRetry()
			s.Log.DebugContext(ctx, "room taken concurrently, retrying", "room_type", roomType, "attempt", attempt)
			continue
		case isLockConflict(err):
			metrics.IncAllocationRetry()
			s.Log.WarnContext(ctx, "lock conflict, retrying", "room_type", roomType, "attempt", attempt, "error", err)
			continue
		case errors.Is(err, apperrors.ErrNoAvailability):
			metrics.IncAllocationFailed("no_availability")
			return Allocation{}, err
		default:
			metrics.IncAllocationFailed("storage")
			return Allocation{}, apperrors.Storage("allocate room", err)
		}
	}

	metrics.IncAllocationFailed("contention")
	s.Log.WarnContext(ctx, "allocation retries exhausted", "room_type", roomType, "retries", s.opts.AllocationRetries)
	return Allocation{}, apperrors.NoAvailability(string(roomType))
}

func (s *BookingService) validateAllocate(in AllocateInput) (models.RoomType, validation.Stay, error) {
	fields := map[string]string{}
	roomType, typeErr := validation.RoomType(in.RoomType)
	stay, stayErr := validation.BookingFields(in.GuestName, in.CheckIn, in.CheckOut, in.PaymentStatus, s.opts.EnforceDateOrder)
	for _, err := range []error{typeErr, stayErr} {
		if appErr, ok := apperrors.As(err); ok {
			for k, v := range appErr.Fields {
				fields[k] = v
			}
		}
	}
	if len(fields) > 0 {
		return "", validation.Stay{}, apperrors.Validation(fields)
	}
	return roomType, stay, nil
}

func (s *BookingService) tryAllocate(ctx context.Context, roomType models.RoomType, stay validation.Stay) (Allocation, error) {
	var alloc Allocation
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("room_type = ? AND is_booked = ?", roomType, false).
			Order("id ASC").
			First(&room).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NoAvailability(string(roomType))
		}
		if err != nil {
			return fmt.Errorf("select free room: %w", err)
		}

		booking := models.Booking{
			GuestName:     stay.GuestName,
			RoomID:        room.ID,
			CheckIn:       datatypes.Date(stay.CheckIn),
			CheckOut:      datatypes.Date(stay.CheckOut),
			PaymentStatus: stay.PaymentStatus,
		}
		if err := tx.Omit(clause.Associations).Create(&booking).Error; err != nil {
			return fmt.Errorf("insert booking: %w", err)
		}

		// compare-and-set: only one transaction may flip the flag
		res := tx.Model(&models.Room{}).
			Where("id = ? AND is_booked = ?", room.ID, false).
			Update("is_booked", true)
		if res.Error != nil {
			return fmt.Errorf("mark room booked: %w", res.Error)
		}
		if res.RowsAffected != 1 {
			return errRoomTaken
		}

		alloc = Allocation{
			BookingID:  booking.ID,
			RoomID:     room.ID,
			RoomNumber: room.RoomNumber,
			RoomType:   room.RoomType,
		}
		return nil
	})
	return alloc, err
}

func (s *BookingService) viewQuery(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Table("bookings").
		Select("bookings.id, bookings.guest_name, bookings.room_id, bookings.check_in, bookings.check_out, " +
			"bookings.payment_status, bookings.created_at, rooms.room_number, rooms.room_type").
		Joins("JOIN rooms ON rooms.id = bookings.room_id")
}

func (s *BookingService) Get(ctx context.Context, id uint) (models.BookingView, error) {
	var view models.BookingView
	err := s.viewQuery(ctx).Where("bookings.id = ?", id).Take(&view).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.BookingView{}, apperrors.NotFound("booking")
	}
	if err != nil {
		return models.BookingView{}, apperrors.Storage("get booking", err)
	}
	return view, nil
}

// List returns every booking, newest first.
func (s *BookingService) List(ctx context.Context) ([]models.BookingView, error) {
	views := []models.BookingView{}
	err := s.viewQuery(ctx).
		Order("bookings.created_at DESC, bookings.id DESC").
		Scan(&views).Error
	if err != nil {
		return nil, apperrors.Storage("list bookings", err)
	}
	return views, nil
}

// Update rewrites guest name, dates and payment status. The room stays
// as allocated. It reports false when the booking does not exist.
func (s *BookingService) Update(ctx context.Context, id uint, in BookingUpdate) (bool, error) {
	stay, err := validation.BookingFields(in.GuestName, in.CheckIn, in.CheckOut, in.PaymentStatus, s.opts.EnforceDateOrder)
	if err != nil {
		return false, err
	}

	found := false
	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		err := tx.Select("id").First(&booking, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return tx.Model(&models.Booking{}).Where("id = ?", id).Updates(map[string]any{
			"guest_name":     stay.GuestName,
			"check_in":       datatypes.Date(stay.CheckIn),
			"check_out":      datatypes.Date(stay.CheckOut),
			"payment_status": stay.PaymentStatus,
		}).Error
	})
	if txErr != nil {
		return false, apperrors.Storage("update booking", txErr)
	}
	return found, nil
}

// Cancel deletes the booking and frees its room in one transaction. It
// reports false, with nothing changed, when the booking does not exist.
func (s *BookingService) Cancel(ctx context.Context, id uint) (bool, error) {
	found := false
	var roomID uint
	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "room_id").
			First(&booking, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("lock booking: %w", err)
		}

		if err := tx.Delete(&models.Booking{}, booking.ID).Error; err != nil {
			return fmt.Errorf("delete booking: %w", err)
		}
		if err := tx.Model(&models.Room{}).Where("id = ?", booking.RoomID).Update("is_booked", false).Error; err != nil {
			return fmt.Errorf("free room: %w", err)
		}
		found = true
		roomID = booking.RoomID
		return nil
	})
	if txErr != nil {
		return false, apperrors.Storage("cancel booking", txErr)
	}
	if !found {
		return false, nil
	}

	metrics.IncBookingCancelled()
	s.afterWrite(ctx)
	s.Log.InfoContext(ctx, "booking cancelled", "booking_id", id, "room_id", roomID)
	return true, nil
}

func (s *BookingService) afterWrite(ctx context.Context) {
	if s.Rooms != nil {
		s.Rooms.InvalidateStats(ctx)
	}
}
