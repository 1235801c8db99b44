package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/dadalto/producao-api/config"
	"github.com/dadalto/producao-api/models"
	"github.com/dadalto/producao-api/services"
)

// TicketController exposes ticket issuance and lookup.
type TicketController struct {
	tickets *services.TicketService
	cfg     *config.Config
}

// NewTicketController creates a ticket controller.
func NewTicketController(tickets *services.TicketService, cfg *config.Config) *TicketController {
	return &TicketController{tickets: tickets, cfg: cfg}
}

// CreateTicketRequest represents the request body for issuing a ticket
type CreateTicketRequest struct {
	ModelName string `json:"model_name" binding:"required"`
	Task      string `json:"task" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	Sector    string `json:"sector"`
}

// Create handles POST /api/v1/tickets
func (ctrl *TicketController) Create(c *gin.Context) {
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	ticket, err := ctrl.tickets.IssueTicket(services.IssueTicketInput{
		ModelName: req.ModelName,
		Task:      req.Task,
		Quantity:  req.Quantity,
		Sector:    req.Sector,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, gin.H{
		"ticket":     ticket,
		"redeem_url": ctrl.redeemURL(ticket),
	})
}

// CreateBatchRequest represents the request body for issuing a batch of tickets
type CreateBatchRequest struct {
	ModelName string `json:"model_name" binding:"required"`
	Task      string `json:"task" binding:"required"`
	Sector    string `json:"sector"`
	Count     int    `json:"count" binding:"required,gt=0"`
}

// CreateBatch handles POST /api/v1/tickets/batch
func (ctrl *TicketController) CreateBatch(c *gin.Context) {
	var req CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	tickets, err := ctrl.tickets.IssueBatch(services.IssueBatchInput{
		ModelName: req.ModelName,
		Task:      req.Task,
		Sector:    req.Sector,
		Count:     req.Count,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]gin.H, 0, len(tickets))
	for _, ticket := range tickets {
		items = append(items, gin.H{
			"ticket":     ticket,
			"redeem_url": ctrl.redeemURL(ticket),
		})
	}
	respondCreated(c, items)
}

// GetByNumber handles GET /api/v1/tickets/:number
func (ctrl *TicketController) GetByNumber(c *gin.Context) {
	number, err := models.ParseNumber(c.Param("number"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	ticket, err := ctrl.tickets.FindByNumber(number)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, ticket)
}

// UpdateStatusRequest represents the request body for a status transition
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PATCH /api/v1/tickets/:number/status
func (ctrl *TicketController) UpdateStatus(c *gin.Context) {
	number, err := models.ParseNumber(c.Param("number"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	ticket, err := ctrl.tickets.UpdateStatus(number, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, ticket)
}

// QRCode handles GET /api/v1/tickets/:number/qr and serves the printable QR
// image of the ticket's redemption link.
func (ctrl *TicketController) QRCode(c *gin.Context) {
	number, err := models.ParseNumber(c.Param("number"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	ticket, err := ctrl.tickets.FindByNumber(number)
	if err != nil {
		respondError(c, err)
		return
	}
	if ticket.Token == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONFLICT",
				"message": "Ticket has no active redemption token",
			},
		})
		return
	}

	png, err := qrcode.Encode(ctrl.redeemURL(ticket), qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "QR_ERROR",
				"message": "Failed to encode QR code",
			},
		})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", ticket.FichaNumber+".png"))
	c.Data(http.StatusOK, "image/png", png)
}

// redeemURL builds the redemption link embedded in the printed QR code.
func (ctrl *TicketController) redeemURL(ticket *models.Ticket) string {
	if ticket.Token == nil {
		return ""
	}
	return fmt.Sprintf("%s/api/v1/redeem/%s", ctrl.cfg.PublicBaseURL, *ticket.Token)
}
