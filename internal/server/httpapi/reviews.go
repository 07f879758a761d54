package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handler) createReview(c *gin.Context) {
	var req reviewRequest
	if !bindJSON(c, &req) {
		return
	}

	r, err := h.svc.Reviews.Create(c.Request.Context(), actorFrom(c), req.ListingID, req.Rating, req.Comment)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *handler) listReviews(c *gin.Context) {
	items, err := h.svc.Reviews.List(c.Request.Context(), c.Query("listing_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handler) getReview(c *gin.Context) {
	r, err := h.svc.Reviews.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *handler) updateReview(c *gin.Context) {
	var req reviewUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	r, err := h.svc.Reviews.Update(c.Request.Context(), actorFrom(c), c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *handler) deleteReview(c *gin.Context) {
	if err := h.svc.Reviews.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
