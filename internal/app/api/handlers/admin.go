package handlers

import (
	"net/http"
	"time"

	"github.com/greenplate/mealsub/internal/app/service/lifecycle"
	"github.com/greenplate/mealsub/internal/app/service/statistics"
	"github.com/greenplate/mealsub/internal/app/service/sweep"
	"github.com/greenplate/mealsub/pkg/response"
	"github.com/greenplate/mealsub/pkg/types"

	"github.com/gin-gonic/gin"
)

type TransitionRequest struct {
	SubscriptionID string `json:"subscription_id" binding:"required"`
	NewState       string `json:"new_state" binding:"required"`
	Reason         string `json:"reason"`
}

// @Summary      Transition Subscription (Admin)
// @Description  Applies a lifecycle state transition to a subscription.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body TransitionRequest true "Transition request"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/admin/subscription/transition [post]
func ApiTransitionSubscription(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TransitionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		target, err := types.ParseSubscriptionStatus(req.NewState)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		sub, err := svc.ExecuteTransition(c.Request.Context(), req.SubscriptionID, target, req.Reason, c.GetString("actor"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](serviceErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

type CreateSubscriptionRequest struct {
	UserID       string `json:"user_id" binding:"required"`
	PlanID       string `json:"plan_id" binding:"required"`
	Status       string `json:"status" binding:"required"`
	StartDate    string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate      string `json:"end_date"`
	PriceCharged int64  `json:"price_charged"`
	AutoRenewal  bool   `json:"auto_renewal"`
}

// @Summary      Create Subscription (Admin)
// @Description  Creates a subscription with a caller-supplied initial state and the creation history entry.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body CreateSubscriptionRequest true "Create request"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/admin/subscription/create [post]
func ApiCreateSubscription(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSubscriptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		start, err := time.Parse(time.DateOnly, req.StartDate)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "start_date must be YYYY-MM-DD"))
			return
		}
		var end *time.Time
		if req.EndDate != "" {
			e, err := time.Parse(time.DateOnly, req.EndDate)
			if err != nil {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "end_date must be YYYY-MM-DD"))
				return
			}
			end = &e
		}
		sub, err := svc.CreateWithState(c.Request.Context(), lifecycle.CreateSubscriptionInput{
			UserID:       req.UserID,
			PlanID:       req.PlanID,
			Status:       types.SubscriptionStatus(req.Status),
			StartDate:    start,
			EndDate:      end,
			PriceCharged: req.PriceCharged,
			AutoRenewal:  req.AutoRenewal,
			ChangedBy:    c.GetString("actor"),
		})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](serviceErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

// @Summary      Subscription State History (Admin)
// @Description  Returns the append-only state history of a subscription, oldest first.
// @Tags         Admin
// @Produce      json
// @Param        id path string true "Subscription ID"
// @Success      200  {object}  handlers.RespHistory
// @Router       /api/v1/admin/subscription/{id}/history [get]
func ApiSubscriptionHistory(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := svc.ListHistory(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](serviceErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(entries))
	}
}

// @Summary      List Subscriptions (Admin)
// @Description  Paginated and filterable subscription list.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body lifecycle.ListSubscriptionsRequest true "List request"
// @Success      200  {object}  handlers.RespSubscriptionList
// @Router       /api/v1/admin/subscription/list [post]
func ApiListSubscriptions(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req lifecycle.ListSubscriptionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.ListSubscriptions(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](serviceErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

type SweepResult struct {
	Transitioned int `json:"transitioned"`
}

// @Summary      Activate New Joiners (Admin)
// @Description  Promotes New_Joiner subscriptions with enough completed cycles to Active.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  handlers.RespSweep
// @Router       /api/v1/admin/sweep/activate_new_joiners [post]
func ApiSweepActivateNewJoiners(svc *sweep.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := svc.ActivateNewJoiners(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](serviceErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&SweepResult{Transitioned: n}))
	}
}

// @Summary      Cancel Exiting Subscriptions (Admin)
// @Description  Retires Exiting subscriptions whose paid period has ended.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  handlers.RespSweep
// @Router       /api/v1/admin/sweep/cancel_exiting [post]
func ApiSweepCancelExiting(svc *sweep.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := svc.CancelExiting(c.Request.Context(), time.Now())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](serviceErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&SweepResult{Transitioned: n}))
	}
}

// @Summary      Get Statistics (Admin)
// @Description  Resolves the requested reporting data items.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body statistics.StatisticRequest true "Statistic request"
// @Success      200  {object}  handlers.RespStatistics
// @Router       /api/v1/admin/statistics [post]
func ApiGetStatistics(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.StatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.GetStatistics(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](serviceErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// RegisterAdminRoutes wires the admin subscription, sweep, and reporting APIs.
func RegisterAdminRoutes(rg *gin.RouterGroup, lc *lifecycle.Service, sw *sweep.Service, stats *statistics.Service) {
	rg.POST("/subscription/transition", ApiTransitionSubscription(lc))
	rg.POST("/subscription/create", ApiCreateSubscription(lc))
	rg.GET("/subscription/:id/history", ApiSubscriptionHistory(lc))
	rg.POST("/subscription/list", ApiListSubscriptions(lc))
	rg.POST("/sweep/activate_new_joiners", ApiSweepActivateNewJoiners(sw))
	rg.POST("/sweep/cancel_exiting", ApiSweepCancelExiting(sw))
	rg.POST("/statistics", ApiGetStatistics(stats))
}
