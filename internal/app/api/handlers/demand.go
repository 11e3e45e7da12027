package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/greenplate/mealsub/internal/app/service/demand"
	"github.com/greenplate/mealsub/pkg/response"

	"github.com/gin-gonic/gin"
)

// @Summary      Daily Meal Demand
// @Description  Meal counts for one date; materials=1 adds the raw-material rollup for prep sheets.
// @Tags         Demand
// @Produce      json
// @Param        date query string true "Target date (YYYY-MM-DD)"
// @Param        materials query bool false "Include raw materials"
// @Success      200  {object}  handlers.RespDayDemand
// @Router       /api/v1/demand/daily [get]
func ApiDailyDemand(svc *demand.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		date, err := time.Parse(time.DateOnly, c.Query("date"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "date must be YYYY-MM-DD"))
			return
		}
		withMaterials, _ := strconv.ParseBool(c.Query("materials"))
		d, err := svc.DailyDemand(c.Request.Context(), date, withMaterials)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(d))
	}
}

// @Summary      Month Demand Calendar
// @Description  Per-day meal counts for a whole month, Monday-aligned with filler cells.
// @Tags         Demand
// @Produce      json
// @Param        year query int true "Year"
// @Param        month query int true "Month (1-12)"
// @Success      200  {object}  handlers.RespCalendar
// @Router       /api/v1/demand/calendar [get]
func ApiMonthCalendar(svc *demand.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		year, err := strconv.Atoi(c.Query("year"))
		if err != nil || year < 2000 || year > 2100 {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid year"))
			return
		}
		month, err := strconv.Atoi(c.Query("month"))
		if err != nil || month < 1 || month > 12 {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "invalid month"))
			return
		}
		cells, err := svc.MonthCalendar(c.Request.Context(), year, time.Month(month))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(cells))
	}
}

// RegisterDemandRoutes wires the reporting/dashboard demand APIs.
func RegisterDemandRoutes(rg *gin.RouterGroup, svc *demand.Service) {
	rg.GET("/daily", ApiDailyDemand(svc))
	rg.GET("/calendar", ApiMonthCalendar(svc))
}
