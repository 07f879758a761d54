package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/travelapp/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (h *handler) createUser(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.Accounts.Register(c.Request.Context(), actorFrom(c), services.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newAccountView(a))
}

func (h *handler) listUsers(c *gin.Context) {
	items, err := h.svc.Accounts.List(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	views := make([]accountView, 0, len(items))
	for _, a := range items {
		views = append(views, newAccountView(a))
	}
	c.JSON(http.StatusOK, views)
}

func (h *handler) getUser(c *gin.Context) {
	a, err := h.svc.Accounts.Get(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAccountView(a))
}

func (h *handler) updateUser(c *gin.Context) {
	var req accountUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.Accounts.Update(c.Request.Context(), actorFrom(c), c.Param("id"), services.AccountUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Role:        req.Role,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAccountView(a))
}

func (h *handler) deleteUser(c *gin.Context) {
	if err := h.svc.Accounts.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.svc.Accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenView{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

func (h *handler) refresh(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.svc.Accounts.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenView{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}
