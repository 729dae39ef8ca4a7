package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KonarzewskiP/software-testing/internal/metrics"
	"github.com/KonarzewskiP/software-testing/internal/models"
	"github.com/KonarzewskiP/software-testing/internal/services"
	"github.com/KonarzewskiP/software-testing/internal/utils"
)

type CustomerHandler struct {
	registrationService *services.CustomerRegistrationService
}

func NewCustomerHandler(registrationService *services.CustomerRegistrationService) *CustomerHandler {
	return &CustomerHandler{registrationService: registrationService}
}

// Register handles POST /api/v1/customers.
func (h *CustomerHandler) Register(c *gin.Context) {
	var req models.CustomerRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Validation failed", err.Error()))
		return
	}

	if err := h.registrationService.RegisterNewCustomer(c.Request.Context(), &req); err != nil {
		var (
			invalidPhone *services.InvalidPhoneNumberError
			phoneTaken   *services.PhoneNumberTakenError
		)
		switch {
		case errors.As(err, &invalidPhone):
			metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeInvalidPhone).Inc()
			c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid phone number", err.Error()))
		case errors.As(err, &phoneTaken):
			metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomePhoneTaken).Inc()
			c.JSON(http.StatusConflict, utils.ErrorResponse("Phone number taken", err.Error()))
		default:
			metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
			c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Registration failed", err.Error()))
		}
		return
	}

	metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	c.JSON(http.StatusCreated, utils.SuccessResponse("Customer registered", gin.H{
		"name":         req.Customer.Name,
		"phone_number": req.Customer.PhoneNumber,
	}))
}
