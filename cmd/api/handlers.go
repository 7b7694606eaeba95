package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/internal/application"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/logging"
	"github.com/LERACHI/isartesanatos-seu-portal-de-sonhos/pkg/middleware"
)

const msgMalformedRequest = "requisição inválida"

// quoteRequest accepts both the storefront field names and their English aliases
type quoteRequest struct {
	CEP          string           `json:"cep"`
	PostalCode   string           `json:"postalCode"`
	CartTotal    *decimal.Decimal `json:"cartTotal"`
	CartSubtotal *decimal.Decimal `json:"cartSubtotal"`
}

func (r *quoteRequest) toCommand() application.CalculateQuoteCommand {
	cmd := application.CalculateQuoteCommand{
		PostalCode: r.CEP,
		CartTotal:  decimal.Zero,
	}
	if cmd.PostalCode == "" {
		cmd.PostalCode = r.PostalCode
	}

	switch {
	case r.CartTotal != nil:
		cmd.CartTotal = *r.CartTotal
	case r.CartSubtotal != nil:
		cmd.CartTotal = *r.CartSubtotal
	}
	return cmd
}

func calculateQuoteHandler(service *application.ShippingQuoteService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		// An empty body is a request without a postal code.
		var req quoteRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			logger.WithContext(c.Request.Context()).WithError(err).Debug("Rejected quote request body")
			responder.RespondBadRequest(msgMalformedRequest)
			return
		}

		quote, err := service.CalculateQuote(c.Request.Context(), req.toCommand())
		if err != nil {
			responder.RespondWithLoggedError(err)
			return
		}

		c.JSON(http.StatusOK, quote)
	}
}

func getPolicyHandler(service *application.ShippingQuoteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, service.GetPolicy())
	}
}
