package handlers

import (
	"github.com/greenplate/mealsub/internal/app/service/catalog"
	"github.com/greenplate/mealsub/internal/app/service/demand"
	"github.com/greenplate/mealsub/internal/app/service/statistics"
	"github.com/greenplate/mealsub/internal/models"
	"github.com/greenplate/mealsub/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespSubscription wraps a subscription in the standard envelope.
type RespSubscription struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Subscription      `json:"data"`
}

// RespSubscriptionList wraps the paginated subscription list.
type RespSubscriptionList struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    struct {
		Items []models.Subscription `json:"Items"`
		Total int64                 `json:"Total"`
	} `json:"data"`
}

// RespHistory wraps the state history list.
type RespHistory struct {
	Code    response.APIResponseCode          `json:"code"`
	Message string                            `json:"message"`
	Data    []models.SubscriptionStateHistory `json:"data"`
}

// RespSweep wraps a sweep result.
type RespSweep struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    SweepResult              `json:"data"`
}

// RespStatistics wraps the statistics response.
type RespStatistics struct {
	Code    response.APIResponseCode     `json:"code"`
	Message string                       `json:"message"`
	Data    statistics.StatisticResponse `json:"data"`
}

// RespDayDemand wraps a single-date demand result.
type RespDayDemand struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    demand.DayDemand         `json:"data"`
}

// RespCalendar wraps the month calendar cells.
type RespCalendar struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []demand.CalendarCell    `json:"data"`
}

// RespPlan wraps one plan.
type RespPlan struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Plan              `json:"data"`
}

// RespPlanList wraps the plan list.
type RespPlanList struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.Plan            `json:"data"`
}

// RespCycle wraps one menu cycle.
type RespCycle struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.MenuCycle         `json:"data"`
}

// RespCycleDays wraps the cycle day views.
type RespCycleDays struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []catalog.CycleDayView   `json:"data"`
}

// RespCycleList wraps the cycle list.
type RespCycleList struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.MenuCycle       `json:"data"`
}

// RespMeal wraps one meal.
type RespMeal struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Meal              `json:"data"`
}

// RespMealList wraps the meal list.
type RespMealList struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.Meal            `json:"data"`
}

// RespIngredient wraps one ingredient.
type RespIngredient struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Ingredient        `json:"data"`
}

// RespIngredientList wraps the ingredient list.
type RespIngredientList struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.Ingredient      `json:"data"`
}
