package handlers

import (
	"net/http"

	"github.com/greenplate/mealsub/internal/app/service/lifecycle"
	"github.com/greenplate/mealsub/pkg/logctx"
	"github.com/greenplate/mealsub/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PaymentWebhookRequest struct {
	SubscriptionID string `json:"subscription_id" binding:"required"`
	// Event is "success" or "failure", resolved by the gateway adapter
	// from its own transaction reference.
	Event string `json:"event" binding:"required"`
}

// @Summary      Payment Webhook
// @Description  Records a payment outcome and applies the resulting lifecycle transition.
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        request body PaymentWebhookRequest true "Payment event"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/webhooks/payment [post]
func ApiPaymentWebhook(svc *lifecycle.Service, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PaymentWebhookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		ctx := c.Request.Context()
		logctx.FromGin(c, log).Infow("payment webhook", "subscription_id", req.SubscriptionID, "event", req.Event)

		switch req.Event {
		case "success":
			sub, err := svc.ProcessPaymentSuccess(ctx, req.SubscriptionID)
			if err != nil {
				c.JSON(http.StatusOK, response.ErrorT[any](serviceErrCode(err), err.Error()))
				return
			}
			c.JSON(http.StatusOK, response.OKT(sub))
		case "failure":
			sub, err := svc.ProcessPaymentFailure(ctx, req.SubscriptionID)
			if err != nil {
				c.JSON(http.StatusOK, response.ErrorT[any](serviceErrCode(err), err.Error()))
				return
			}
			c.JSON(http.StatusOK, response.OKT(sub))
		default:
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "event must be success or failure"))
		}
	}
}

// RegisterWebhookRoutes wires the payment gateway callback.
func RegisterWebhookRoutes(rg *gin.RouterGroup, svc *lifecycle.Service, log *zap.SugaredLogger) {
	rg.POST("/payment", ApiPaymentWebhook(svc, log))
}
