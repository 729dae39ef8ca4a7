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

type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Create handles POST /api/v1/accounts.
func (h *AccountHandler) Create(c *gin.Context) {
	var req models.AccountCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Invalid request payload", err.Error()))
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Validation failed", err.Error()))
		return
	}

	if err := h.accountService.CreateAccount(c.Request.Context(), &req); err != nil {
		var notFound *services.CustomerNotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, utils.ErrorResponse("Customer not found", err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Account creation failed", err.Error()))
		return
	}

	metrics.AccountsCreatedTotal.Inc()
	c.JSON(http.StatusCreated, utils.SuccessResponse("Account created", gin.H{
		"customer_id": req.CustomerID,
		"currency":    req.Currency,
		"bank_name":   req.BankName,
	}))
}
