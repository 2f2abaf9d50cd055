package handlers

import (
	"net/http"
	"strconv"

	"crewtrack.com/crewtrack/attendance"
	"crewtrack.com/crewtrack/core"
	"crewtrack.com/crewtrack/web/common"
	"github.com/gin-gonic/gin"
)

func (ep *Endpoint) CheckIn(c *gin.Context) {
	var body CheckInDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	att, err := ep.attendance.CheckIn(c.Request.Context(), db, common.Tenant(c), attendance.CheckInInput{
		EmployeeID: body.EmployeeID,
		Latitude:   body.Latitude,
		Longitude:  body.Longitude,
		Photo:      body.Photo,
		IPAddress:  c.ClientIP(),
		DeviceInfo: body.DeviceInfo,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(toAttendanceDTO(att)))
}

func (ep *Endpoint) Approve(c *gin.Context) {
	ep.resolveApproval(c, true)
}

func (ep *Endpoint) Reject(c *gin.Context) {
	ep.resolveApproval(c, false)
}

func (ep *Endpoint) resolveApproval(c *gin.Context, approve bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id"))
		return
	}

	admin, ok := adminID(c)
	if !ok {
		return
	}

	var reason *string
	if approve {
		var body ApprovalDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}
		reason = body.Reason
	} else {
		var body RejectDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
			return
		}
		reason = &body.Reason
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	var att *core.Attendance
	if approve {
		att, err = ep.attendance.Approve(c.Request.Context(), db, uint(id), admin, reason)
	} else {
		att, err = ep.attendance.Reject(c.Request.Context(), db, uint(id), admin, reason)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(toAttendanceDTO(att)))
}

func (ep *Endpoint) ReEnable(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id"))
		return
	}

	admin, ok := adminID(c)
	if !ok {
		return
	}

	var body ReEnableDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	att, err := ep.attendance.ReEnable(c.Request.Context(), db, uint(id), admin, body.Reason, body.RestoreStatus)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(toAttendanceDTO(att)))
}

func (ep *Endpoint) BypassCreate(c *gin.Context) {
	admin, ok := adminID(c)
	if !ok {
		return
	}

	var body BypassCreateDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	att, err := ep.attendance.BypassCreate(c.Request.Context(), db, common.Tenant(c), attendance.BypassCreateInput{
		EmployeeID: body.EmployeeID,
		AdminID:    admin,
		Status:     body.Status,
		ClockIn:    body.ClockIn.TimePtr(),
		Location:   body.Location,
		Reason:     body.Reason,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(toAttendanceDTO(att)))
}

func (ep *Endpoint) RemainingAttempts(c *gin.Context) {
	employeeID, err := strconv.Atoi(c.Query("employeeId"))
	if err != nil || employeeID <= 0 {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid employeeId"))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	remaining, found, err := ep.attendance.RemainingAttemptsToday(c.Request.Context(), db, common.Tenant(c), uint(employeeID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{
		"remaining": remaining,
		"hasRecord": found,
	}))
}

func (ep *Endpoint) SearchAttendance(c *gin.Context) {
	var body AttendanceSearchDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}
	if body.Limit == 0 {
		body.Limit = 100
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	query := db.Model(&core.Attendance{})
	if body.EmployeeID != nil {
		query = query.Where("employee_id = ?", *body.EmployeeID)
	}
	if body.DateFrom != nil && !body.DateFrom.IsZero() {
		query = query.Where("date >= ?", body.DateFrom.Time)
	}
	if body.DateTo != nil && !body.DateTo.IsZero() {
		query = query.Where("date <= ?", body.DateTo.Time)
	}
	if body.Approval != nil {
		query = query.Where("approval_status = ?", *body.Approval)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	var records []core.Attendance
	if err := query.Order("date DESC, employee_id").Limit(body.Limit).Offset(body.Offset).Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	dtos := make([]AttendanceDTO, len(records))
	for i := range records {
		dtos[i] = toAttendanceDTO(&records[i])
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(dtos, total))
}
