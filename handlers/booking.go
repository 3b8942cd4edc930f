package handlers

import (
	"net/http"

	"choreify/middleware"
	"choreify/models"
	"choreify/services/booking"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	Booking *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{Booking: svc}
}

// StartQuote handles POST /api/booking/quote.
func (h *BookingHandler) StartQuote(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	q, err := h.Booking.StartQuote(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

// UpdateQuote handles PUT /api/booking/quote/:id.
func (h *BookingHandler) UpdateQuote(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	q, err := h.Booking.UpdateQuote(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// GetQuote handles GET /api/booking/quote/:id.
func (h *BookingHandler) GetQuote(c *gin.Context) {
	q, err := h.Booking.GetQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// Confirm handles POST /api/booking/confirm.
func (h *BookingHandler) Confirm(c *gin.Context) {
	var req models.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	receipt, err := h.Booking.Confirm(c.Request.Context(), middleware.CurrentSession(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

// GetCart handles GET /api/cart.
func (h *BookingHandler) GetCart(c *gin.Context) {
	cart, err := h.Booking.GetCart(c.Request.Context(), middleware.CartID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddToCart handles POST /api/cart.
func (h *BookingHandler) AddToCart(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cart, err := h.Booking.AddToCart(c.Request.Context(), middleware.CartID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveFromCart handles DELETE /api/cart/:itemId.
func (h *BookingHandler) RemoveFromCart(c *gin.Context) {
	cart, err := h.Booking.RemoveFromCart(c.Request.Context(), middleware.CartID(c), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// ClearCart handles DELETE /api/cart.
func (h *BookingHandler) ClearCart(c *gin.Context) {
	if err := h.Booking.ClearCart(c.Request.Context(), middleware.CartID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Checkout handles POST /api/cart/checkout.
func (h *BookingHandler) Checkout(c *gin.Context) {
	var req booking.CheckoutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	receipts, err := h.Booking.Checkout(c.Request.Context(), middleware.CartID(c), middleware.CurrentSession(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"chores": receipts})
}
