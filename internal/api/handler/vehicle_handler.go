package handler

import (
	"net/http"
	"strconv"

	"github.com/uknown4ever/parking/internal/domain"
	"github.com/uknown4ever/parking/internal/service"

	"github.com/gin-gonic/gin"
)

type VehicleHandler struct {
	parkingService *service.ParkingService
}

func NewVehicleHandler(ps *service.ParkingService) *VehicleHandler {
	return &VehicleHandler{parkingService: ps}
}

// POST /vehicles
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var dto domain.VehicleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}
	vehicle, err := h.parkingService.CreateVehicle(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vehicle)
}

// GET /vehicles?plate= — with a plate, an exact lookup; without, the full list.
func (h *VehicleHandler) GetVehicles(c *gin.Context) {
	if plate := c.Query("plate"); plate != "" {
		vehicle, err := h.parkingService.GetVehicleByPlate(c.Request.Context(), plate)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, vehicle)
		return
	}
	vehicles, err := h.parkingService.GetAllVehicles(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// GET /vehicles/:id
func (h *VehicleHandler) GetVehicleByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return
	}
	vehicle, err := h.parkingService.GetVehicleByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

// PUT /vehicles/:id
func (h *VehicleHandler) UpdateVehicle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return
	}
	var dto domain.VehicleDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}
	vehicle, err := h.parkingService.UpdateVehicle(c.Request.Context(), id, dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicle)
}

// DELETE /vehicles/:id
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return
	}
	if err := h.parkingService.DeleteVehicle(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /vehicles/:id/sessions
func (h *VehicleHandler) GetVehicleSessions(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle id"})
		return
	}
	sessions, err := h.parkingService.GetSessionsByVehicle(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}
