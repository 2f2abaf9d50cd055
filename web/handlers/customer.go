package handlers

import (
	"net/http"

	"crewtrack.com/crewtrack/core"
	"crewtrack.com/crewtrack/web/common"
	"github.com/gin-gonic/gin"
)

func (ep *Endpoint) ListCustomers(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	customers, err := core.GetCustomers(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(customers))
}

func (ep *Endpoint) CreateCustomer(c *gin.Context) {
	var body CustomerCreateDTO
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

	customer := core.Customer{
		Name:  body.Name,
		Email: body.Email,
		Phone: body.Phone,
		ABN:   body.ABN,
	}
	if err := core.CreateCustomer(db, &customer); err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(customer))
}
