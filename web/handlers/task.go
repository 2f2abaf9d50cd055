package handlers

import (
	"net/http"
	"strconv"

	"crewtrack.com/crewtrack/task"
	"crewtrack.com/crewtrack/web/common"
	"github.com/gin-gonic/gin"
)

func (ep *Endpoint) TaskCheckIn(c *gin.Context) {
	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id"))
		return
	}

	var body TaskCheckInDTO
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

	t, err := ep.tasks.CheckIn(c.Request.Context(), db, task.CheckInInput{
		Tenant:     common.Tenant(c),
		EmployeeID: body.EmployeeID,
		TaskID:     uint(taskID),
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
		Photo:      body.Photo,
		Latitude:   body.Latitude,
		Longitude:  body.Longitude,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(toTaskDTO(t)))
}

func (ep *Endpoint) TaskCheckOut(c *gin.Context) {
	taskID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id"))
		return
	}

	var body TaskCheckOutDTO
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

	t, err := ep.tasks.CheckOut(c.Request.Context(), db, body.EmployeeID, uint(taskID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(toTaskDTO(t)))
}

func (ep *Endpoint) CurrentTask(c *gin.Context) {
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

	t, err := ep.tasks.CurrentTask(c.Request.Context(), db, uint(employeeID))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if t == nil {
		c.JSON(http.StatusOK, common.NewSuccessResponse(nil))
		return
	}
	c.JSON(http.StatusOK, common.NewSuccessResponse(toTaskDTO(t)))
}
