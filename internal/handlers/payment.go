package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KonarzewskiP/software-testing/internal/metrics"
	"github.com/KonarzewskiP/software-testing/internal/models"
	"github.com/KonarzewskiP/software-testing/internal/redis"
	"github.com/KonarzewskiP/software-testing/internal/services"
	"github.com/KonarzewskiP/software-testing/internal/utils"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
	idempotency    *redis.Idempotency
}

// NewPaymentHandler wires the charge API. idempotency may be nil, in which
// case the Idempotency-Key header is ignored.
func NewPaymentHandler(paymentService *services.PaymentService, idempotency *redis.Idempotency) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		idempotency:    idempotency,
	}
}

// ChargeCard handles POST /api/v1/customers/:id/charge.
func (h *PaymentHandler) ChargeCard(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid customer id", err.Error()))
		return
	}

	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Validation failed", err.Error()))
		return
	}

	idemKey := c.GetHeader("Idempotency-Key")
	if idemKey != "" && h.idempotency != nil {
		reserved, err := h.idempotency.Reserve(c.Request.Context(), idemKey)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, utils.ErrorResponse("Idempotency check failed", err.Error()))
			return
		}
		if !reserved {
			c.JSON(http.StatusConflict, utils.ErrorResponse("Duplicate charge request", "idempotency key already used"))
			return
		}
	}

	if err := h.paymentService.ChargeCard(c.Request.Context(), customerID, &req); err != nil {
		// Free the key so the caller can retry the failed charge.
		if idemKey != "" && h.idempotency != nil {
			_ = h.idempotency.Release(c.Request.Context(), idemKey)
		}
		h.renderChargeError(c, err)
		return
	}

	metrics.ChargesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	c.JSON(http.StatusOK, utils.SuccessResponse("Card charged", gin.H{
		"customer_id": customerID,
		"amount":      req.Payment.Amount,
		"currency":    req.Payment.Currency,
	}))
}

func (h *PaymentHandler) renderChargeError(c *gin.Context, err error) {
	var (
		notFound    *services.CustomerNotFoundError
		badCurrency *services.CurrencyNotSupportedError
		notDebited  *services.CardNotDebitedError
		provider    *services.ChargeProviderError
	)

	switch {
	case errors.As(err, &notFound):
		metrics.ChargesTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
		c.JSON(http.StatusNotFound, utils.ErrorResponse("Customer not found", err.Error()))
	case errors.As(err, &badCurrency):
		metrics.ChargesTotal.WithLabelValues(metrics.OutcomeBadCurrency).Inc()
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Currency not supported", err.Error()))
	case errors.As(err, &notDebited):
		metrics.ChargesTotal.WithLabelValues(metrics.OutcomeDeclined).Inc()
		c.JSON(http.StatusPaymentRequired, utils.ErrorResponse("Card not debited", err.Error()))
	case errors.As(err, &provider):
		metrics.ChargesTotal.WithLabelValues(metrics.OutcomeProviderError).Inc()
		c.JSON(http.StatusBadGateway, utils.ErrorResponse("Charge provider failure", err.Error()))
	default:
		metrics.ChargesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Charge failed", err.Error()))
	}
}

// ListPayments handles GET /api/v1/customers/:id/payments.
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid customer id", err.Error()))
		return
	}

	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	payments, err := h.paymentService.PaymentsForCustomer(c.Request.Context(), customerID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to list payments", err.Error()))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Payments retrieved", payments))
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
