package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"guestgate/internal/config"
	"guestgate/internal/services"
)

// GuestHandler handles guest lookup and update requests.
type GuestHandler struct {
	guestService services.GuestServicer
	param        string
}

// NewGuestHandler creates a new GuestHandler for the contract served by guestService.
func NewGuestHandler(guestService services.GuestServicer) *GuestHandler {
	return &GuestHandler{guestService: guestService, param: PathParam(guestService.Contract())}
}

// PathParam names the guest identifier path parameter for contract.
func PathParam(contract config.GuestContract) string {
	if contract == config.ContractNameID {
		return "nameId"
	}
	return "confirmationNo"
}

// Param returns the name of the path parameter the handler reads.
func (h *GuestHandler) Param() string {
	return h.param
}

// UpdateGuestRequest represents the request payload for a multi-field guest update.
type UpdateGuestRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=80" example:"Jane"`
	LastName  *string `json:"last_name" binding:"omitempty,max=80" example:"Doe"`
	Address   *string `json:"address" binding:"omitempty,max=200" example:"1 Harbour Road"`
	DocType   *string `json:"doc_type" binding:"omitempty,max=40" example:"PASSPORT"`
	DocNumber *string `json:"doc_number" binding:"omitempty,max=80" example:"X1234567"`
}

// UpdateGuestNameRequest represents the request payload for a display name update.
type UpdateGuestNameRequest struct {
	GuestName string `json:"guestName" binding:"required,notblank,max=200" example:"Jane Doe"`
}

// GetGuest handles guest lookups.
// @Summary     Get guest
// @Description Look up the guest name for a confirmation number or name id
// @Tags        guests
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path int true "Confirmation number or name id"
// @Success     200 {object} services.GuestRecord "Guest"
// @Failure     400 {object} ErrorResponse "Invalid identifier"
// @Failure     401 {object} ErrorResponse "Missing or invalid API key"
// @Failure     403 {object} ErrorResponse "License not usable"
// @Failure     404 {object} ErrorResponse "Guest not found"
// @Failure     429 {object} ErrorResponse "Daily quota reached"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /api/guests/{id} [get]
func (h *GuestHandler) GetGuest(c *gin.Context) {
	// Lookups name the identifier nameId under either contract.
	id, err := parsePathID(c, h.param, "nameId")
	if err != nil {
		abortWithError(c, err)
		return
	}

	guest, err := h.guestService.GetGuest(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, guest)
}

// UpdateGuest handles guest updates. Confirmation-number deployments accept
// UpdateGuestRequest, name-id deployments accept UpdateGuestNameRequest.
// @Summary     Update guest
// @Description Update guest details for a confirmation number, or the display name for a name id
// @Tags        guests
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path int true "Confirmation number or name id"
// @Param       request body UpdateGuestRequest true "Fields to update"
// @Success     200 {object} services.GuestUpdateResult "Guest updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Missing or invalid API key"
// @Failure     403 {object} ErrorResponse "License not usable"
// @Failure     404 {object} ErrorResponse "Guest not found"
// @Failure     429 {object} ErrorResponse "Daily quota reached"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /api/guests/{id} [put]
func (h *GuestHandler) UpdateGuest(c *gin.Context) {
	id, err := parsePathID(c, h.param, h.param)
	if err != nil {
		abortWithError(c, err)
		return
	}

	var result *services.GuestUpdateResult
	if h.guestService.Contract() == config.ContractNameID {
		var req UpdateGuestNameRequest
		if err := bindJSON(c, &req); err != nil {
			abortWithError(c, err)
			return
		}
		result, err = h.guestService.UpdateGuestName(c.Request.Context(), id, req.GuestName)
	} else {
		var req UpdateGuestRequest
		if err := bindJSON(c, &req); err != nil {
			abortWithError(c, err)
			return
		}
		result, err = h.guestService.UpdateGuest(c.Request.Context(), id, services.GuestUpdate{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Address:   req.Address,
			DocType:   req.DocType,
			DocNumber: req.DocNumber,
		})
	}
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
