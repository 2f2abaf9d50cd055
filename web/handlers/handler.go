package handlers

import (
	"net/http"

	"crewtrack.com/crewtrack/attendance"
	"crewtrack.com/crewtrack/core"
	"crewtrack.com/crewtrack/infrastructure/filesystem"
	"crewtrack.com/crewtrack/task"
	"crewtrack.com/crewtrack/web/common"
	"crewtrack.com/crewtrack/web/middlewares"
	"github.com/gin-gonic/gin"
)

type Endpoint struct {
	base       common.Handler
	attendance *attendance.Service
	tasks      *task.Service
	settings   *core.SettingsService
	photos     *filesystem.PhotoStore
}

func Register(r *gin.RouterGroup, dm *core.DatabaseManager, att *attendance.Service, tasks *task.Service, photos *filesystem.PhotoStore) {
	endpoint := &Endpoint{
		base:       common.Handler{Dm: dm},
		attendance: att,
		tasks:      tasks,
		settings:   att.Settings,
		photos:     photos,
	}

	r.POST("/attendance/check-in", endpoint.CheckIn)
	r.GET("/attendance/remaining-attempts", endpoint.RemainingAttempts)
	r.POST("/attendance/search", endpoint.SearchAttendance)
	r.GET("/attendance/export", endpoint.ExportAttendance)

	r.POST("/tasks/:id/check-in", endpoint.TaskCheckIn)
	r.POST("/tasks/:id/check-out", endpoint.TaskCheckOut)
	r.GET("/tasks/current", endpoint.CurrentTask)

	r.POST("/photos", endpoint.UploadPhoto)
	r.GET("/photos/*key", endpoint.GetPhoto)

	admin := r.Group("")
	admin.Use(middlewares.AdminOnly())
	{
		admin.PUT("/attendance/:id/approve", endpoint.Approve)
		admin.PUT("/attendance/:id/reject", endpoint.Reject)
		admin.PUT("/attendance/:id/re-enable", endpoint.ReEnable)
		admin.POST("/attendance/bypass", endpoint.BypassCreate)

		admin.POST("/employees", endpoint.CreateEmployee)
		admin.POST("/employees/search", endpoint.SearchEmployees)
		admin.GET("/employees/:id", endpoint.GetEmployee)

		admin.GET("/customers", endpoint.ListCustomers)
		admin.POST("/customers", endpoint.CreateCustomer)

		admin.GET("/notifications", endpoint.ListNotifications)
		admin.GET("/uploads", endpoint.ListPhotos)
		admin.PUT("/configuration/office-location", endpoint.UpdateOfficeLocation)
		admin.PUT("/configuration/:key", endpoint.UpdateConfiguration)
	}
}

// respondServiceError maps business-rule failures to 400 with the error text
// as the message; anything else is an opaque 500.
func respondServiceError(c *gin.Context, err error) {
	if attendance.IsBusinessError(err) || task.IsBusinessError(err) {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusInternalServerError, common.NewErrorResponse("unexpected error"))
}

// adminID pulls the acting admin's id from the token claims.
func adminID(c *gin.Context) (uint, bool) {
	id, ok := middlewares.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, common.NewErrorResponse("missing identity"))
		return 0, false
	}
	return id, true
}
