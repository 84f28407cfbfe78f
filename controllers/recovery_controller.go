package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"cart-recovery-service/dispatch"
	"cart-recovery-service/models"
	"cart-recovery-service/services"
	"cart-recovery-service/source"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type RecoveryController struct {
	recoveryService services.RecoveryService
	validate        *validator.Validate
	logger          *zap.Logger
}

func NewRecoveryController(svc services.RecoveryService, logger *zap.Logger) *RecoveryController {
	return &RecoveryController{
		recoveryService: svc,
		validate:        validator.New(),
		logger:          logger,
	}
}

// ListAbandonedCheckouts handles GET /checkouts/abandoned?days=&query=.
func (rc *RecoveryController) ListAbandonedCheckouts(ctx *gin.Context) {
	opts := models.ListOptions{Query: ctx.Query("query")}

	if daysStr := ctx.Query("days"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil || days < 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid days"})
			return
		}
		opts.Days = days
	}

	checkouts, err := rc.recoveryService.ListCandidates(ctx.Request.Context(), opts)
	if err != nil {
		rc.logger.Error("failed to list abandoned checkouts",
			zap.Int("days", opts.Days),
			zap.Error(err),
		)
		if errors.Is(err, source.ErrSourceUnavailable) || errors.Is(err, source.ErrEmptyResult) {
			ctx.JSON(http.StatusBadGateway, gin.H{"error": "commerce platform unavailable"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":  checkouts,
		"count": len(checkouts),
	})
}

// Field names match the admin UI form submission.
type notifyForm struct {
	MessageContent string `form:"messageContent" binding:"required"`
	Phone          string `form:"phone" binding:"required"`
	CustomerID     string `form:"customerId"`
	CheckoutID     string `form:"checkoutId"`
}

// SendRecoverySMS handles POST /notifications/sms. Provider rejections
// are a 200 with accepted=false; the UI decides what to show from the
// status field.
func (rc *RecoveryController) SendRecoverySMS(ctx *gin.Context) {
	var form notifyForm
	if err := ctx.ShouldBind(&form); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "messageContent and phone are required"})
		return
	}

	if err := rc.validate.Var(form.Phone, "e164"); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "phone must be in E.164 format"})
		return
	}

	result, err := rc.recoveryService.Notify(
		ctx.Request.Context(),
		form.MessageContent,
		form.Phone,
		models.SendContext{CustomerID: form.CustomerID, CheckoutID: form.CheckoutID},
	)
	if err != nil {
		if errors.Is(err, dispatch.ErrMissingContext) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "customerId and checkoutId are required"})
			return
		}
		rc.logger.Error("notify failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, result)
}
