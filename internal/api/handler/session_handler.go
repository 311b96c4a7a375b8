package handler

import (
	"net/http"
	"strconv"

	"github.com/uknown4ever/parking/internal/domain"
	"github.com/uknown4ever/parking/internal/service"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	parkingService *service.ParkingService
}

func NewSessionHandler(ps *service.ParkingService) *SessionHandler {
	return &SessionHandler{parkingService: ps}
}

// POST /sessions/open
func (h *SessionHandler) OpenSession(c *gin.Context) {
	var dto domain.OpenSessionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}
	session, err := h.parkingService.OpenSession(c.Request.Context(), dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// POST /sessions/:id/close
func (h *SessionHandler) CloseSession(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	var dto domain.CloseSessionDTO
	// Body is optional: closing without one stamps the exit time with "now".
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&dto); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
			return
		}
	}
	session, err := h.parkingService.CloseSession(c.Request.Context(), id, dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// GET /sessions?space_kind=&status=&date_from=&date_to=
func (h *SessionHandler) FindSessions(c *gin.Context) {
	var filter domain.SessionFilterDTO
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter: " + err.Error()})
		return
	}
	sessions, err := h.parkingService.FindSessions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GET /sessions/open
func (h *SessionHandler) GetOpenSessions(c *gin.Context) {
	sessions, err := h.parkingService.GetOpenSessions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GET /sessions/:id
func (h *SessionHandler) GetSessionByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	session, err := h.parkingService.GetSessionByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// PUT /sessions/:id — administrative overwrite.
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	var dto domain.UpdateSessionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}
	session, err := h.parkingService.UpdateSession(c.Request.Context(), id, dto)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// DELETE /sessions/:id — administrative override.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}
	if err := h.parkingService.DeleteSession(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /revenue/monthly
func (h *SessionHandler) MonthlyRevenue(c *gin.Context) {
	revenue, err := h.parkingService.MonthlyRevenue(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, revenue)
}
