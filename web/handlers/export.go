package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"crewtrack.com/crewtrack/core"
	"crewtrack.com/crewtrack/utils"
	"crewtrack.com/crewtrack/web/common"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const exportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportAttendance writes the filtered attendance rows out as an xlsx
// download. Same filters as search, no paging.
func (ep *Endpoint) ExportAttendance(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	query := db.Model(&core.Attendance{}).Preload("Employee")
	if v := c.Query("employeeId"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid employeeId"))
			return
		}
		query = query.Where("employee_id = ?", id)
	}
	if v := c.Query("dateFrom"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid dateFrom"))
			return
		}
		query = query.Where("date >= ?", from)
	}
	if v := c.Query("dateTo"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid dateTo"))
			return
		}
		query = query.Where("date <= ?", to)
	}

	var records []core.Attendance
	if err := query.Order("date, employee_id").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Attendance"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Date", "Code", "Employee", "Clock In", "Clock Out", "Status", "Approval", "Attempts", "Locked", "Location", "Source"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, att := range records {
		row := i + 2
		values := []interface{}{
			att.Date.Format("2006-01-02"),
			att.Employee.Code,
			att.Employee.DisplayName(),
			formatClock(att.ClockIn),
			formatClock(att.ClockOut),
			att.Status,
			att.ApprovalStatus,
			att.AttemptCount,
			utils.FormatBoolean(att.Locked, "Yes", "No"),
			utils.Format(att.Location),
			att.Source,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("attendance-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", exportContentType)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
	}
}

func formatClock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04:05")
}
