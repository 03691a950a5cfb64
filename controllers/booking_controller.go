package controllers

import (
	"log/slog"
	"net/http"

	"hotel-desk/apperrors"
	"hotel-desk/services"
	"hotel-desk/utils"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type CreateBookingRequest struct {
	GuestName     string `json:"guestName" form:"guestName"`
	RoomType      string `json:"roomType" form:"roomType"`
	CheckIn       string `json:"checkIn" form:"checkIn"`
	CheckOut      string `json:"checkOut" form:"checkOut"`
	PaymentStatus string `json:"paymentStatus" form:"paymentStatus"`
}

type UpdateBookingRequest struct {
	GuestName     string `json:"guestName" form:"guestName"`
	CheckIn       string `json:"checkIn" form:"checkIn"`
	CheckOut      string `json:"checkOut" form:"checkOut"`
	PaymentStatus string `json:"paymentStatus" form:"paymentStatus"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	BookingSvc *services.BookingService
	Log        *slog.Logger
}

func NewBookingController(svc *services.BookingService, logger *slog.Logger) *BookingController {
	return &BookingController{BookingSvc: svc, Log: logger}
}

func (ctrl *BookingController) CreateBooking(c *gin.Context) {
	var payload CreateBookingRequest
	if !bindBody(c, ctrl.Log, &payload) {
		return
	}

	alloc, err := ctrl.BookingSvc.Allocate(c.Request.Context(), services.AllocateInput{
		GuestName:     payload.GuestName,
		RoomType:      payload.RoomType,
		CheckIn:       payload.CheckIn,
		CheckOut:      payload.CheckOut,
		PaymentStatus: payload.PaymentStatus,
	})
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Booking created successfully", "data": alloc})
}

func (ctrl *BookingController) GetBookings(c *gin.Context) {
	bookings, err := ctrl.BookingSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (ctrl *BookingController) GetBookingDetails(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	booking, err := ctrl.BookingSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (ctrl *BookingController) UpdateBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var payload UpdateBookingRequest
	if !bindBody(c, ctrl.Log, &payload) {
		return
	}

	found, err := ctrl.BookingSvc.Update(c.Request.Context(), id, services.BookingUpdate{
		GuestName:     payload.GuestName,
		CheckIn:       payload.CheckIn,
		CheckOut:      payload.CheckOut,
		PaymentStatus: payload.PaymentStatus,
	})
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	if !found {
		respondError(c, ctrl.Log, apperrors.NotFound("booking"))
		return
	}

	booking, err := ctrl.BookingSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking updated", "data": booking})
}

// CancelBooking deletes the booking and frees its room.
func (ctrl *BookingController) CancelBooking(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	found, err := ctrl.BookingSvc.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	if !found {
		respondError(c, ctrl.Log, apperrors.NotFound("booking"))
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "message": "Booking cancelled"})
}
