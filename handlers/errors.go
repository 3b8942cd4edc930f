package handlers

import (
	"errors"
	"net/http"

	catalogRepo "choreify/database/repository/catalog"
	"choreify/services/backend"
	"choreify/services/booking"
	"choreify/services/identity"
	"choreify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps a service error onto a JSON error response.
func respondError(c *gin.Context, err error) {
	var (
		apiErr      *backend.APIError
		providerErr *identity.ProviderError
		checkoutErr *booking.CheckoutError
	)

	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, "Invalid email or password", "")
	case errors.Is(err, identity.ErrEmailInUse):
		utils.JSONError(c, http.StatusConflict, "An account with this email already exists", "")
	case errors.Is(err, identity.ErrSessionNotFound), errors.Is(err, identity.ErrRefreshUnavailable), errors.Is(err, backend.ErrUnauthenticated):
		utils.JSONError(c, http.StatusUnauthorized, "Your session has ended. Please sign in again.", "")
	case errors.As(err, &providerErr):
		utils.JSONError(c, http.StatusBadRequest, "Authentication failed", providerErr.Message)

	case errors.As(err, &checkoutErr):
		utils.JSONError(c, http.StatusBadGateway, "Checkout could not be completed", checkoutErr.Error())
	case errors.Is(err, booking.ErrQuoteNotFound):
		utils.JSONError(c, http.StatusNotFound, "Quote not found or expired", "")
	case errors.Is(err, booking.ErrServiceNotFound), errors.Is(err, catalogRepo.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Service not found", "")
	case errors.Is(err, booking.ErrCartItemNotFound):
		utils.JSONError(c, http.StatusNotFound, "Cart item not found", "")
	case errors.Is(err, booking.ErrEmptyCart), errors.Is(err, booking.ErrAddressRequired):
		utils.JSONError(c, http.StatusBadRequest, err.Error(), "")

	case errors.As(err, &apiErr):
		utils.JSONError(c, http.StatusBadGateway, "The booking service could not complete the request", apiErr.Message)

	default:
		getLogger(c).Error("Unhandled error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func badRequest(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
}
