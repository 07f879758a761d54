package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/travelapp/internal/common"
	"github.com/dmitrijs2005/travelapp/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (h *handler) initiatePayment(c *gin.Context) {
	var req initiateRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.BookingID == "" {
		h.writeError(c, common.ValidationError("booking_id is required"))
		return
	}

	res, err := h.svc.Payments.Initiate(c.Request.Context(), actorFrom(c), req.BookingID, req.PhoneNumber)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkout_url": res.CheckoutURL, "tx_ref": res.TxRef})
}

func (h *handler) verifyPayment(c *gin.Context) {
	h.verify(c, c.Param("tx_ref"))
}

// paymentCallback is the provider's redirect after checkout. The reference
// arrives as trx_ref.
func (h *handler) paymentCallback(c *gin.Context) {
	txRef := c.Query("trx_ref")
	if txRef == "" {
		txRef = c.Query("tx_ref")
	}
	if txRef == "" {
		h.writeError(c, common.ValidationError("trx_ref is required"))
		return
	}
	h.verify(c, txRef)
}

func (h *handler) verify(c *gin.Context, txRef string) {
	p, err := h.svc.Payments.Verify(c.Request.Context(), txRef)
	if errors.Is(err, common.ErrorNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment verified", "status": p.Status})
}

func (h *handler) listPayments(c *gin.Context) {
	items, err := h.svc.Payments.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handler) getPayment(c *gin.Context) {
	p, err := h.svc.Payments.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handler) updatePayment(c *gin.Context) {
	var req paymentUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.svc.Payments.Update(c.Request.Context(), actorFrom(c), c.Param("id"), services.PaymentUpdate{
		Status: req.Status,
		Amount: req.Amount,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *handler) deletePayment(c *gin.Context) {
	if err := h.svc.Payments.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
