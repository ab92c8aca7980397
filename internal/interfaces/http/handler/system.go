package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/saleledger/backend/internal/infrastructure/connectivity"
)

// Pinger checks the authoritative database connection
type Pinger interface {
	Ping() error
}

// SystemHandler handles health and connectivity endpoints
type SystemHandler struct {
	BaseHandler
	db      Pinger
	monitor *connectivity.Monitor
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db Pinger, monitor *connectivity.Monitor) *SystemHandler {
	return &SystemHandler{db: db, monitor: monitor}
}

// RegisterRoutes registers health and connectivity routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	{
		system.GET("/health", h.Health)
		system.GET("/connectivity", h.Connectivity)
		system.POST("/connectivity", h.SetConnectivityOverride)
	}
}

// HealthResponse reports service health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Online   bool   `json:"online"`
}

// Health reports service health. The service is healthy even while the
// backend is unreachable; captures then go through the local queue.
func (h *SystemHandler) Health(c *gin.Context) {
	database := "up"
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			database = "down"
		}
	}
	h.Success(c, HealthResponse{
		Status:   "ok",
		Database: database,
		Online:   h.monitor.IsOnline(),
	})
}

// ConnectivityResponse reports the current reachability state
type ConnectivityResponse struct {
	Online bool `json:"online"`
}

// Connectivity reports whether the authoritative backend is reachable
func (h *SystemHandler) Connectivity(c *gin.Context) {
	h.Success(c, ConnectivityResponse{Online: h.monitor.IsOnline()})
}

// ConnectivityOverrideRequest pins or releases the reachability state
type ConnectivityOverrideRequest struct {
	Mode string `json:"mode" binding:"required,oneof=online offline auto"`
}

// SetConnectivityOverride pins the monitor to a state, or returns it to
// probing with mode "auto". Used by operators to force offline capture
// during known backend maintenance.
func (h *SystemHandler) SetConnectivityOverride(c *gin.Context) {
	var req ConnectivityOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	switch req.Mode {
	case "online":
		h.monitor.Override(true)
	case "offline":
		h.monitor.Override(false)
	case "auto":
		h.monitor.ClearOverride()
	}
	h.Success(c, ConnectivityResponse{Online: h.monitor.IsOnline()})
}
