package handler

import (
	"net/http"
	"strconv"

	"github.com/uknown4ever/parking/internal/domain"
	"github.com/uknown4ever/parking/internal/service"

	"github.com/gin-gonic/gin"
)

type SpaceHandler struct {
	parkingService *service.ParkingService
}

func NewSpaceHandler(ps *service.ParkingService) *SpaceHandler {
	return &SpaceHandler{parkingService: ps}
}

// POST /spaces
func (h *SpaceHandler) CreateSpace(c *gin.Context) {
	var dto domain.SpaceDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}
	space, err := h.parkingService.CreateSpace(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, space)
}

// GET /spaces?kind=&status=
func (h *SpaceHandler) FindSpaces(c *gin.Context) {
	var filter domain.SpaceFilterDTO
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter: " + err.Error()})
		return
	}
	spaces, err := h.parkingService.FindSpaces(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, spaces)
}

// GET /spaces/free?kind=
func (h *SpaceHandler) FindFreeSpaces(c *gin.Context) {
	spaces, err := h.parkingService.FindFreeSpaces(c.Request.Context(), c.Query("kind"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, spaces)
}

// GET /spaces/:id
func (h *SpaceHandler) GetSpaceByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid space id"})
		return
	}
	space, err := h.parkingService.GetSpaceByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, space)
}

// PUT /spaces/:id
func (h *SpaceHandler) UpdateSpace(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid space id"})
		return
	}
	var dto domain.SpaceDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}
	space, err := h.parkingService.UpdateSpace(c.Request.Context(), id, dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, space)
}

// DELETE /spaces/:id
func (h *SpaceHandler) DeleteSpace(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid space id"})
		return
	}
	if err := h.parkingService.DeleteSpace(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
