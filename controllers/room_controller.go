package controllers

import (
	"log/slog"
	"net/http"

	"hotel-desk/services"
	"hotel-desk/utils"

	"github.com/gin-gonic/gin"
)

type RoomRequest struct {
	RoomNumber string   `json:"room_number" form:"room_number"`
	RoomType   string   `json:"room_type" form:"room_type"`
	IsBooked   Checkbox `json:"is_booked" form:"is_booked"`
}

type RoomController struct {
	RoomSvc *services.RoomService
	Log     *slog.Logger
}

func NewRoomController(svc *services.RoomService, logger *slog.Logger) *RoomController {
	return &RoomController{RoomSvc: svc, Log: logger}
}

// ----------------------------------------------------
// GET /api/rooms
// ----------------------------------------------------

func (ctrl *RoomController) GetRooms(c *gin.Context) {
	rooms, err := ctrl.RoomSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (ctrl *RoomController) GetRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	room, err := ctrl.RoomSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// ----------------------------------------------------
// POST /api/rooms
// ----------------------------------------------------

func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var payload RoomRequest
	if !bindBody(c, ctrl.Log, &payload) {
		return
	}
	room, err := ctrl.RoomSvc.Create(c.Request.Context(), services.RoomInput{
		RoomNumber: payload.RoomNumber,
		RoomType:   payload.RoomType,
	})
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

// ----------------------------------------------------
// PUT/PATCH /api/rooms/:id
// ----------------------------------------------------

func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var payload RoomRequest
	if !bindBody(c, ctrl.Log, &payload) {
		return
	}
	room, err := ctrl.RoomSvc.Update(c.Request.Context(), id, services.RoomUpdate{
		RoomNumber: payload.RoomNumber,
		RoomType:   payload.RoomType,
		IsBooked:   bool(payload.IsBooked),
	})
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// ----------------------------------------------------
// DELETE /api/rooms/:id
// ----------------------------------------------------

func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctrl.RoomSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id, "message": "Room deleted"})
}

// AuditRooms reports rooms whose occupancy flag disagrees with bookings.
func (ctrl *RoomController) AuditRooms(c *gin.Context) {
	audit, err := ctrl.RoomSvc.Audit(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consistent": audit.Consistent(), "data": audit})
}

func (ctrl *RoomController) Dashboard(c *gin.Context) {
	stats, err := ctrl.RoomSvc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.Log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
