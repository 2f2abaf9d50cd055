package handlers

import (
	"net/http"

	"crewtrack.com/crewtrack/core"
	"crewtrack.com/crewtrack/utils"
	"crewtrack.com/crewtrack/web/common"
	"github.com/gin-gonic/gin"
)

// UpdateOfficeLocation sets the office geofence. Accepts either explicit
// coordinates or a free-text address, which is forward-geocoded; the
// geofence radius defaults to the geocoder's granularity estimate when not
// given explicitly.
func (ep *Endpoint) UpdateOfficeLocation(c *gin.Context) {
	var body OfficeLocationDTO
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	cfg := core.SystemConfiguration{
		Key:   core.ConfigOfficeLocation,
		Value: body.Name,
	}

	switch {
	case body.Latitude != nil && body.Longitude != nil:
		cfg.Latitude = body.Latitude
		cfg.Longitude = body.Longitude
		cfg.RadiusM = body.RadiusM
	case body.Address != nil && *body.Address != "":
		place, err := ep.attendance.Geocoder.Forward(c.Request.Context(), *body.Address)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.NewErrorResponse("Could not resolve address: "+*body.Address))
			return
		}
		cfg.Latitude = &place.Latitude
		cfg.Longitude = &place.Longitude
		cfg.RadiusM = body.RadiusM
		if cfg.RadiusM == nil && place.RadiusM > 0 {
			cfg.RadiusM = utils.Ptr(place.RadiusM)
		}
		if cfg.Value == "" {
			cfg.Value = place.DisplayName
		}
	default:
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Either coordinates or an address is required"))
		return
	}

	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	if err := ep.settings.Upsert(db, common.Tenant(c), cfg); err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}

// UpdateConfiguration upserts a plain string configuration key (cutoff time,
// max attempts). The tenant's settings cache is invalidated on write.
func (ep *Endpoint) UpdateConfiguration(c *gin.Context) {
	key := c.Param("key")
	if key != core.ConfigCutoffTime && key != core.ConfigMaxAttempts {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse("Unknown configuration key"))
		return
	}

	var body ConfigurationDTO
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

	if err := ep.settings.Upsert(db, common.Tenant(c), core.SystemConfiguration{
		Key:   key,
		Value: body.Value,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(gin.H{}))
}

func (ep *Endpoint) ListNotifications(c *gin.Context) {
	db, conn, err := ep.base.GetDB(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}
	defer conn.Close()

	notifications, err := core.UnreadNotifications(db, 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, common.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(notifications))
}
