package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/travelapp/internal/common"
	"github.com/dmitrijs2005/travelapp/internal/server/models"
	"github.com/dmitrijs2005/travelapp/internal/server/services"
	"github.com/gin-gonic/gin"
)

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, common.ValidationError("%s must be a date in YYYY-MM-DD format", field)
	}
	return t, nil
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *handler) createBooking(c *gin.Context) {
	var req bookingRequest
	if !bindJSON(c, &req) {
		return
	}

	checkIn, err := parseDate("check_in", req.CheckIn)
	if err != nil {
		h.writeError(c, err)
		return
	}
	checkOut, err := parseDate("check_out", req.CheckOut)
	if err != nil {
		h.writeError(c, err)
		return
	}

	d, err := h.svc.Bookings.Create(c.Request.Context(), actorFrom(c), services.BookingInput{
		GuestID:   req.GuestID,
		ListingID: req.ListingID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    req.Guests,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newBookingView(d))
}

func (h *handler) listBookings(c *gin.Context) {
	items, err := h.svc.Bookings.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	views := make([]bookingView, 0, len(items))
	for _, d := range items {
		views = append(views, newBookingView(d))
	}
	c.JSON(http.StatusOK, views)
}

func (h *handler) getBooking(c *gin.Context) {
	d, err := h.svc.Bookings.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBookingView(d))
}

func (h *handler) updateBooking(c *gin.Context) {
	var req bookingUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	checkIn, err := parseOptionalDate("check_in", req.CheckIn)
	if err != nil {
		h.writeError(c, err)
		return
	}
	checkOut, err := parseOptionalDate("check_out", req.CheckOut)
	if err != nil {
		h.writeError(c, err)
		return
	}

	d, err := h.svc.Bookings.Update(c.Request.Context(), actorFrom(c), c.Param("id"), services.BookingUpdate{
		ListingID: req.ListingID,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    req.Guests,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newBookingView(d))
}

func (h *handler) deleteBooking(c *gin.Context) {
	if err := h.svc.Bookings.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
