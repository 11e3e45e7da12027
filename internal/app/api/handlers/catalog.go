package handlers

import (
	"net/http"
	"strconv"

	"github.com/greenplate/mealsub/internal/app/service/catalog"
	"github.com/greenplate/mealsub/pkg/response"
	"github.com/greenplate/mealsub/pkg/types"

	"github.com/gin-gonic/gin"
)

// @Summary      Create Plan (Admin)
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        request body catalog.PlanInput true "Plan"
// @Success      200  {object}  handlers.RespPlan
// @Router       /api/v1/admin/plans [post]
func ApiCreatePlan(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.PlanInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		plan, err := svc.CreatePlan(c.Request.Context(), &in)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(plan))
	}
}

// @Summary      Update Plan (Admin)
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "Plan ID"
// @Param        request body catalog.PlanInput true "Plan"
// @Success      200  {object}  handlers.RespPlan
// @Router       /api/v1/admin/plans/{id} [put]
func ApiUpdatePlan(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.PlanInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		plan, err := svc.UpdatePlan(c.Request.Context(), c.Param("id"), &in)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](serviceErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(plan))
	}
}

// @Summary      Archive Plan (Admin)
// @Tags         Catalog
// @Produce      json
// @Param        id path string true "Plan ID"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/admin/plans/{id}/archive [post]
func ApiArchivePlan(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.ArchivePlan(c.Request.Context(), c.Param("id")); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](serviceErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      List Plans (Admin)
// @Tags         Catalog
// @Produce      json
// @Param        include_archived query bool false "Include archived plans"
// @Success      200  {object}  handlers.RespPlanList
// @Router       /api/v1/admin/plans [get]
func ApiListPlans(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		includeArchived, _ := strconv.ParseBool(c.Query("include_archived"))
		plans, err := svc.ListPlans(c.Request.Context(), includeArchived)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](serviceErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(plans))
	}
}

type CreateCycleRequest struct {
	Name       string   `json:"name" binding:"required"`
	LengthDays int      `json:"length_days" binding:"required"`
	Labels     []string `json:"labels"`
}

// @Summary      Create Menu Cycle (Admin)
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        request body CreateCycleRequest true "Cycle"
// @Success      200  {object}  handlers.RespCycle
// @Router       /api/v1/admin/cycles [post]
func ApiCreateCycle(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCycleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		cycle, err := svc.CreateCycle(c.Request.Context(), req.Name, req.LengthDays, req.Labels)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(cycle))
	}
}

// @Summary      Activate Menu Cycle (Admin)
// @Description  Activates the cycle and deactivates all others.
// @Tags         Catalog
// @Produce      json
// @Param        id path string true "Cycle ID"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/admin/cycles/{id}/activate [post]
func ApiActivateCycle(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.ActivateCycle(c.Request.Context(), c.Param("id")); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](serviceErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

type AssignMealRequest struct {
	DayIndex int    `json:"day_index"`
	Slot     string `json:"slot" binding:"required"`
	MealID   string `json:"meal_id" binding:"required"`
}

// @Summary      Assign Meal to Cycle Day (Admin)
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "Cycle ID"
// @Param        request body AssignMealRequest true "Assignment"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/admin/cycles/{id}/assign [post]
func ApiAssignMeal(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AssignMealRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if err := svc.AssignMeal(c.Request.Context(), c.Param("id"), req.DayIndex, types.MealSlot(req.Slot), req.MealID); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](serviceErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Get Cycle Days (Admin)
// @Tags         Catalog
// @Produce      json
// @Param        id path string true "Cycle ID"
// @Success      200  {object}  handlers.RespCycleDays
// @Router       /api/v1/admin/cycles/{id}/days [get]
func ApiGetCycleDays(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		days, err := svc.GetCycleDays(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](serviceErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(days))
	}
}

// @Summary      List Menu Cycles (Admin)
// @Tags         Catalog
// @Produce      json
// @Success      200  {object}  handlers.RespCycleList
// @Router       /api/v1/admin/cycles [get]
func ApiListCycles(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cycles, err := svc.ListCycles(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](serviceErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(cycles))
	}
}

// @Summary      Create Meal (Admin)
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        request body catalog.MealInput true "Meal"
// @Success      200  {object}  handlers.RespMeal
// @Router       /api/v1/admin/meals [post]
func ApiCreateMeal(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.MealInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		meal, err := svc.CreateMeal(c.Request.Context(), &in)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(meal))
	}
}

// @Summary      List Meals (Admin)
// @Tags         Catalog
// @Produce      json
// @Success      200  {object}  handlers.RespMealList
// @Router       /api/v1/admin/meals [get]
func ApiListMeals(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		meals, err := svc.ListMeals(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](serviceErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(meals))
	}
}

type SetMealActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// @Summary      Set Meal Active (Admin)
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "Meal ID"
// @Param        request body SetMealActiveRequest true "Active flag"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/admin/meals/{id}/active [put]
func ApiSetMealActive(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SetMealActiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if err := svc.SetMealActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](serviceErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

type SetRecipeRequest struct {
	Lines []catalog.RecipeLine `json:"lines"`
}

// @Summary      Set Meal Recipe (Admin)
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "Meal ID"
// @Param        request body SetRecipeRequest true "Recipe lines"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/admin/meals/{id}/recipe [put]
func ApiSetMealRecipe(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SetRecipeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if err := svc.SetMealIngredients(c.Request.Context(), c.Param("id"), req.Lines); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](serviceErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Create Ingredient (Admin)
// @Tags         Catalog
// @Accept       json
// @Produce      json
// @Param        request body catalog.IngredientInput true "Ingredient"
// @Success      200  {object}  handlers.RespIngredient
// @Router       /api/v1/admin/ingredients [post]
func ApiCreateIngredient(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.IngredientInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		ing, err := svc.CreateIngredient(c.Request.Context(), &in)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(ing))
	}
}

// @Summary      List Ingredients (Admin)
// @Tags         Catalog
// @Produce      json
// @Success      200  {object}  handlers.RespIngredientList
// @Router       /api/v1/admin/ingredients [get]
func ApiListIngredients(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.ListIngredients(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](serviceErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

// RegisterCatalogRoutes wires the catalog admin APIs.
func RegisterCatalogRoutes(rg *gin.RouterGroup, svc *catalog.Service) {
	rg.POST("/plans", ApiCreatePlan(svc))
	rg.GET("/plans", ApiListPlans(svc))
	rg.PUT("/plans/:id", ApiUpdatePlan(svc))
	rg.POST("/plans/:id/archive", ApiArchivePlan(svc))
	rg.POST("/cycles", ApiCreateCycle(svc))
	rg.GET("/cycles", ApiListCycles(svc))
	rg.POST("/cycles/:id/activate", ApiActivateCycle(svc))
	rg.POST("/cycles/:id/assign", ApiAssignMeal(svc))
	rg.GET("/cycles/:id/days", ApiGetCycleDays(svc))
	rg.POST("/meals", ApiCreateMeal(svc))
	rg.GET("/meals", ApiListMeals(svc))
	rg.PUT("/meals/:id/active", ApiSetMealActive(svc))
	rg.PUT("/meals/:id/recipe", ApiSetMealRecipe(svc))
	rg.POST("/ingredients", ApiCreateIngredient(svc))
	rg.GET("/ingredients", ApiListIngredients(svc))
}
