package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dadalto/producao-api/models"
)

// DefaultBatchQuantity is the per-ticket quantity used for batch issuance when
// the model's category has no explicit policy entry.
const DefaultBatchQuantity = 20

// issueRetries bounds how often number assignment is retried when a concurrent
// issuance wins the race on the unique index.
const issueRetries = 3

// BatchQuantityPolicy maps a catalog category to the per-ticket quantity used
// when issuing a batch for a model of that category.
type BatchQuantityPolicy map[string]int

// DefaultBatchPolicy returns the policy in production use: glove models get 50
// units per ticket, everything else falls back to DefaultBatchQuantity.
func DefaultBatchPolicy() BatchQuantityPolicy {
	return BatchQuantityPolicy{
		"luva": 50,
	}
}

// TicketService issues tickets with collision-free sequential numbers and
// resolves them by number or redemption token.
type TicketService struct {
	db     *gorm.DB
	policy BatchQuantityPolicy
}

// NewTicketService creates a ticket service bound to the given database
// handle. A nil policy falls back to DefaultBatchPolicy.
func NewTicketService(db *gorm.DB, policy BatchQuantityPolicy) *TicketService {
	if policy == nil {
		policy = DefaultBatchPolicy()
	}
	return &TicketService{db: db, policy: policy}
}

// IssueTicketInput carries the fields needed to issue a single ticket.
type IssueTicketInput struct {
	ModelName string
	Task      string
	Quantity  int
	Sector    string
}

// IssueTicket creates a new ticket with the next sequential number and a fresh
// redemption token. Number assignment relies on the unique index: a concurrent
// issuance that wins the race triggers a retry with a re-read maximum.
func (s *TicketService) IssueTicket(input IssueTicketInput) (*models.Ticket, error) {
	if input.ModelName == "" {
		return nil, NewValidationError("model name is required")
	}
	if input.Task == "" {
		return nil, NewValidationError("task is required")
	}
	if input.Quantity <= 0 {
		return nil, NewValidationError("quantity must be greater than zero, got %d", input.Quantity)
	}

	var lastErr error
	for attempt := 0; attempt < issueRetries; attempt++ {
		next, err := s.nextNumber()
		if err != nil {
			return nil, err
		}

		token := uuid.NewString()
		ticket := models.Ticket{
			Number:    next,
			ModelName: input.ModelName,
			Task:      input.Task,
			Quantity:  input.Quantity,
			Sector:    input.Sector,
			Status:    models.TicketStatusInProduction,
			Token:     &token,
		}

		if err := s.db.Create(&ticket).Error; err != nil {
			if isUniqueViolation(err) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("create ticket: %w", err)
		}
		return &ticket, nil
	}

	return nil, &ConflictError{Message: fmt.Sprintf("ticket number assignment kept conflicting: %v", lastErr)}
}

// IssueBatchInput carries the fields needed to issue a run of tickets.
type IssueBatchInput struct {
	ModelName string
	Task      string
	Sector    string
	Count     int
}

// IssueBatch issues Count tickets consecutively for one model. The per-ticket
// quantity comes from the quantity policy keyed by the model's catalog
// category; unregistered models use the default quantity.
func (s *TicketService) IssueBatch(input IssueBatchInput) ([]*models.Ticket, error) {
	if input.Count <= 0 {
		return nil, NewValidationError("count must be greater than zero, got %d", input.Count)
	}
	if input.ModelName == "" {
		return nil, NewValidationError("model name is required")
	}
	if input.Task == "" {
		return nil, NewValidationError("task is required")
	}

	quantity := s.batchQuantity(input.ModelName)

	tickets := make([]*models.Ticket, 0, input.Count)
	for i := 0; i < input.Count; i++ {
		ticket, err := s.IssueTicket(IssueTicketInput{
			ModelName: input.ModelName,
			Task:      input.Task,
			Quantity:  quantity,
			Sector:    input.Sector,
		})
		if err != nil {
			return nil, fmt.Errorf("issue ticket %d of %d: %w", i+1, input.Count, err)
		}
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

// batchQuantity resolves the per-ticket quantity for a model through its
// catalog category.
func (s *TicketService) batchQuantity(modelName string) int {
	var model models.ProductModel
	if err := s.db.Where("name = ?", modelName).First(&model).Error; err != nil {
		return DefaultBatchQuantity
	}
	if quantity, ok := s.policy[model.Category]; ok {
		return quantity
	}
	return DefaultBatchQuantity
}

// FindByNumber resolves a ticket by its sequential number.
func (s *TicketService) FindByNumber(number int) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := s.db.Where("number = ?", number).First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "ticket"}
		}
		return nil, fmt.Errorf("find ticket by number: %w", err)
	}
	return &ticket, nil
}

// FindByToken resolves a ticket by its redemption token. This is the sole
// point of trust for the QR redemption link.
func (s *TicketService) FindByToken(token string) (*models.Ticket, error) {
	if token == "" {
		return nil, &NotFoundError{Resource: "ticket"}
	}
	var ticket models.Ticket
	if err := s.db.Where("token = ?", token).First(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "ticket"}
		}
		return nil, fmt.Errorf("find ticket by token: %w", err)
	}
	return &ticket, nil
}

// UpdateStatus moves a ticket to a new status, enforcing the transition table.
// An attempt to leave a terminal status or skip a step fails with
// ConflictError.
func (s *TicketService) UpdateStatus(number int, newStatus string) (*models.Ticket, error) {
	switch newStatus {
	case models.TicketStatusInProduction, models.TicketStatusInStock, models.TicketStatusFinalized:
	default:
		return nil, NewValidationError("unknown status %q", newStatus)
	}

	ticket, err := s.FindByNumber(number)
	if err != nil {
		return nil, err
	}

	if !models.ValidTicketTransition(ticket.Status, newStatus) {
		return nil, &ConflictError{Message: fmt.Sprintf("ticket %s cannot move from %s to %s",
			models.FormatNumber(ticket.Number), ticket.Status, newStatus)}
	}

	updates := map[string]interface{}{"status": newStatus}
	if newStatus == models.TicketStatusFinalized {
		// finalizing invalidates the redemption token
		updates["token"] = nil
	}
	if err := s.db.Model(ticket).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update ticket status: %w", err)
	}

	ticket.Status = newStatus
	if newStatus == models.TicketStatusFinalized {
		ticket.Token = nil
	}
	return ticket, nil
}

// nextNumber computes the next sequence number as one greater than the highest
// existing ticket number. Soft-deleted rows still hold their numbers, so the
// scan is unscoped.
func (s *TicketService) nextNumber() (int, error) {
	var max int
	err := s.db.Unscoped().Model(&models.Ticket{}).
		Select("COALESCE(MAX(number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("read max ticket number: %w", err)
	}
	return max + 1, nil
}
