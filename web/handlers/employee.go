package handlers

import (
	"net/http"
	"strconv"

	"crewtrack.com/crewtrack/core"
	"crewtrack.com/crewtrack/utils"
	"crewtrack.com/crewtrack/web/common"
	"github.com/gin-gonic/gin"
)

func (ep *Endpoint) CreateEmployee(c *gin.Context) {
	var body EmployeeCreateDTO
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

	emp := core.Employee{
		FirstName: body.FirstName,
		Surname:   body.Surname,
		Email:     body.Email,
		Phone:     body.Phone,
		Role:      body.Role,
		Status:    core.EmployeeStatusActive,
	}
	if err := core.CreateEmployee(db, &emp); err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(toEmployeeDTO(&emp)))
}

func (ep *Endpoint) SearchEmployees(c *gin.Context) {
	var body EmployeeSearchDTO
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

	query := db.Model(&core.Employee{})
	if body.Query != "" {
		like := "%" + body.Query + "%"
		query = query.Where("first_name LIKE ? OR surname LIKE ? OR code LIKE ?", like, like, like)
	}
	if body.Role != nil {
		query = query.Where("role = ?", *body.Role)
	}
	if body.Status != nil {
		query = query.Where("status = ?", *body.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	var employees []core.Employee
	if err := query.Order("employee_id").Limit(body.Limit).Offset(body.Offset).Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	dtos := utils.Map(employees, func(e core.Employee) EmployeeDTO {
		return toEmployeeDTO(&e)
	})

	c.JSON(http.StatusOK, common.NewSearchResponse(dtos, total))
}

func (ep *Endpoint) GetEmployee(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Invalid id"))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	emp, err := core.FindEmployeeByID(db, uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	if emp == nil {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Employee not found"))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(toEmployeeDTO(emp)))
}
