package common

import (
	"database/sql"
	"net"

	"crewtrack.com/crewtrack/core"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	Dm *core.DatabaseManager
}

func GetHostname(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// Tenant resolves the tenant schema for the request's hostname.
func Tenant(r *gin.Context) string {
	return core.TenantFromHost(GetHostname(r.Request.Host))
}

func (h *Handler) GetDB(r *gin.Context) (*gorm.DB, *sql.Conn, error) {
	hostname := GetHostname(r.Request.Host)
	return h.Dm.GetDB(r.Request.Context(), hostname)
}
