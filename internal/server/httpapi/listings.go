package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/travelapp/internal/server/repositories/listings"
	"github.com/dmitrijs2005/travelapp/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (h *handler) createListing(c *gin.Context) {
	var req listingRequest
	if !bindJSON(c, &req) {
		return
	}

	l, err := h.svc.Listings.Create(c.Request.Context(), actorFrom(c), services.ListingInput{
		HostID:        req.HostID,
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
		Available:     req.Available,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *handler) listListings(c *gin.Context) {
	availableOnly, _ := strconv.ParseBool(c.Query("available"))
	items, err := h.svc.Listings.List(c.Request.Context(), listings.Filter{
		HostID:        c.Query("host_id"),
		Location:      c.Query("location"),
		AvailableOnly: availableOnly,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handler) getListing(c *gin.Context) {
	l, err := h.svc.Listings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *handler) updateListing(c *gin.Context) {
	var req listingUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	l, err := h.svc.Listings.Update(c.Request.Context(), actorFrom(c), c.Param("id"), services.ListingUpdate{
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
		Available:     req.Available,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *handler) deleteListing(c *gin.Context) {
	if err := h.svc.Listings.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) listingPhotoUpload(c *gin.Context) {
	up, err := h.svc.Listings.PhotoUploadURL(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, photoUploadView{Key: up.Key, UploadURL: up.URL})
}

func (h *handler) listingPhoto(c *gin.Context) {
	url, err := h.svc.Listings.PhotoURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
