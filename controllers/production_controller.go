package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dadalto/producao-api/models"
	"github.com/dadalto/producao-api/services"
)

// ProductionController exposes ledger recording and listing, including the
// public QR redemption flow used on the shop floor.
type ProductionController struct {
	production *services.ProductionService
	tickets    *services.TicketService
	db         *gorm.DB
}

// NewProductionController creates a production controller.
func NewProductionController(production *services.ProductionService, tickets *services.TicketService, db *gorm.DB) *ProductionController {
	return &ProductionController{production: production, tickets: tickets, db: db}
}

// CreateEntryRequest represents the request body for a manual ledger entry
type CreateEntryRequest struct {
	TicketNumber string `json:"ticket_number" binding:"required"`
	Operator     string `json:"operator" binding:"required"`
	Task         string `json:"task"`
	Size         string `json:"size"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
}

// Create handles POST /api/v1/production - manual entry by a leader
func (ctrl *ProductionController) Create(c *gin.Context) {
	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	number, err := models.ParseNumber(req.TicketNumber)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	entry, err := ctrl.production.RecordEntry(services.RecordEntryInput{
		TicketNumber: number,
		Operator:     req.Operator,
		Task:         req.Task,
		Size:         req.Size,
		Quantity:     req.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, entry)
}

// List handles GET /api/v1/production with operator/date filters
func (ctrl *ProductionController) List(c *gin.Context) {
	filter := services.EntryFilter{
		Operator: c.Query("operator"),
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	}

	entries, err := ctrl.production.ListEntries(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, entries)
}

// ResolveToken handles GET /api/v1/redeem/:token - resolves the scanned QR
// code so the shop-floor form can be pre-filled.
func (ctrl *ProductionController) ResolveToken(c *gin.Context) {
	ticket, err := ctrl.tickets.FindByToken(c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, ticket)
}

// RedeemRequest represents the request body for redeeming a ticket by QR token
type RedeemRequest struct {
	OperatorCode string `json:"operator_code" binding:"required"`
	PIN          string `json:"pin" binding:"required"`
	Task         string `json:"task"`
	Size         string `json:"size"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
}

// Redeem handles POST /api/v1/redeem/:token - validates the operator's code
// and PIN, then records the entry and finalizes the ticket in one step.
func (ctrl *ProductionController) Redeem(c *gin.Context) {
	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var operator models.User
	err := ctrl.db.Where("username = ? AND role = ? AND active = ?",
		req.OperatorCode, models.RoleOperator, true).First(&operator).Error
	if err != nil || bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(req.PIN)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CREDENTIALS",
				"message": "Invalid operator code or PIN",
			},
		})
		return
	}

	task := req.Task
	if task == "" {
		task = operator.DefaultTask
	}

	entry, err := ctrl.production.RecordEntry(services.RecordEntryInput{
		Token:    c.Param("token"),
		Operator: operator.Name,
		Task:     task,
		Size:     req.Size,
		Quantity: req.Quantity,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, entry)
}
