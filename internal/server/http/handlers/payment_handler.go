package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kamaubrian/dukapay/internal/adapter/daraja"
	domainErrors "github.com/kamaubrian/dukapay/internal/domain/errors"
	"github.com/kamaubrian/dukapay/internal/domain/model"
	"github.com/kamaubrian/dukapay/internal/server/http/dto"
)

// receiptMetadataKey is the well-known metadata name carrying the
// gateway's permanent receipt number.
const receiptMetadataKey = "MpesaReceiptNumber"

// PaymentHandler manages the initiation and callback endpoints.
type PaymentHandler struct {
	facade PaymentFacade
	logger *slog.Logger
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{facade: facade, logger: logger}
}

// Initiate handles POST /api/payments/initiate.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	var req dto.InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.InitiateResponse{Success: false, Message: "invalid request body"})
		return
	}

	result, err := h.facade.InitiatePayment(c.Request.Context(), req.OrderID, req.Amount, req.Phone)
	if err != nil {
		var rejected daraja.RejectedError
		switch {
		case errors.Is(err, domainErrors.ErrInvalidAmount), errors.Is(err, domainErrors.ErrInvalidPhone):
			c.JSON(http.StatusBadRequest, dto.InitiateResponse{Success: false, Message: err.Error()})
		case errors.Is(err, domainErrors.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.InitiateResponse{Success: false, Message: "order not found"})
		case errors.Is(err, domainErrors.ErrOrderNotPayable):
			c.JSON(http.StatusConflict, dto.InitiateResponse{Success: false, Message: "order is not awaiting payment"})
		case errors.As(err, &rejected):
			c.JSON(http.StatusPaymentRequired, dto.InitiateResponse{Success: false, Message: rejected.Description})
		case errors.Is(err, daraja.ErrAuthFailure), errors.Is(err, daraja.ErrUnavailable):
			c.JSON(http.StatusBadGateway, dto.InitiateResponse{Success: false, Message: "payment gateway unavailable"})
		default:
			h.logger.Error("payment initiation failed", slog.String("order", req.OrderID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.InitiateResponse{Success: false, Message: "internal error"})
		}
		return
	}

	if result.Demo {
		c.JSON(http.StatusOK, dto.InitiateResponse{Success: true, Demo: true, Message: result.Message})
		return
	}

	c.JSON(http.StatusOK, dto.InitiateResponse{
		Success:           true,
		Message:           result.Message,
		CheckoutRequestID: result.CheckoutRequestID,
	})
}

// Callback handles POST /api/payments/callback. The gateway is always
// acknowledged on a well-formed envelope so it stops retrying; only a
// parse failure produces an HTTP error.
func (h *PaymentHandler) Callback(c *gin.Context) {
	var envelope dto.CallbackEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		h.logger.Error("malformed callback envelope", slog.String("error", err.Error()))
		c.Status(http.StatusInternalServerError)
		return
	}

	conf := toConfirmation(envelope.Body.StkCallback)
	if err := h.facade.ReconcileCallback(c.Request.Context(), conf); err != nil {
		h.logger.Error("callback reconciliation failed",
			slog.String("correlation_token", conf.CorrelationToken),
			slog.String("error", err.Error()),
		)
	}

	c.JSON(http.StatusOK, dto.CallbackAck{ResultCode: 0, ResultDesc: "Accepted"})
}

func toConfirmation(cb dto.StkCallback) model.PaymentConfirmation {
	conf := model.PaymentConfirmation{
		CorrelationToken: cb.CheckoutRequestID,
		ResultCode:       cb.ResultCode,
		ResultDesc:       cb.ResultDesc,
	}

	for _, item := range cb.CallbackMetadata.Item {
		switch item.Name {
		case receiptMetadataKey:
			conf.ReceiptNumber = metadataString(item.Value)
		case "Amount":
			if v, ok := item.Value.(float64); ok {
				conf.Amount = int64(v)
			}
		case "PhoneNumber":
			conf.Phone = metadataString(item.Value)
		case "TransactionDate":
			conf.TransactionDate = metadataString(item.Value)
		}
	}

	return conf
}

func metadataString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return fmt.Sprintf("%.0f", value)
	case nil:
		return ""
	default:
		return fmt.Sprint(value)
	}
}
