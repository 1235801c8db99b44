package services

import (
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dadalto/producao-api/models"
)

// ProductionService records completed work against tickets and lists the
// resulting ledger entries. Entries created through token redemption finalize
// their ticket in the same transaction, so a token can be consumed once.
type ProductionService struct {
	db *gorm.DB
}

// NewProductionService creates a production service bound to the given
// database handle.
func NewProductionService(db *gorm.DB) *ProductionService {
	return &ProductionService{db: db}
}

// RecordEntryInput carries the fields needed to record a production entry.
// Exactly one of Token or TicketNumber identifies the ticket: Token is the QR
// redemption path and finalizes the ticket; TicketNumber is the manual path
// used by leaders and leaves the status untouched.
type RecordEntryInput struct {
	Token        string
	TicketNumber int
	Operator     string
	Task         string
	Size         string
	Quantity     int
}

// RecordEntry validates the input, resolves the ticket, captures the current
// unit price from the catalog and persists the ledger entry. The whole
// operation runs in one transaction; a failed redemption writes nothing.
func (s *ProductionService) RecordEntry(input RecordEntryInput) (*models.ProductionEntry, error) {
	if input.Operator == "" {
		return nil, NewValidationError("operator is required")
	}
	if input.Quantity <= 0 {
		return nil, NewValidationError("quantity must be greater than zero, got %d", input.Quantity)
	}
	if input.Token == "" && input.TicketNumber == 0 {
		return nil, NewValidationError("either token or ticket number is required")
	}

	var entry models.ProductionEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		ticket, err := s.resolveTicket(tx, input)
		if err != nil {
			return err
		}

		if input.Token != "" {
			// Consume the token atomically with the entry insert: finalize the
			// ticket and clear the token, guarded by the current status so a
			// concurrent redemption of the same ticket loses cleanly.
			res := tx.Model(&models.Ticket{}).
				Where("id = ? AND status IN ?", ticket.ID,
					[]string{models.TicketStatusInProduction, models.TicketStatusInStock}).
				Updates(map[string]interface{}{
					"status": models.TicketStatusFinalized,
					"token":  nil,
				})
			if res.Error != nil {
				return fmt.Errorf("finalize ticket: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return &ConflictError{Message: fmt.Sprintf("ticket %s has already been finalized",
					models.FormatNumber(ticket.Number))}
			}
		} else if ticket.Status == models.TicketStatusFinalized {
			return &ConflictError{Message: fmt.Sprintf("ticket %s is finalized and accepts no further entries",
				models.FormatNumber(ticket.Number))}
		}

		unitPrice, found, err := s.lookupPrice(tx, ticket.ModelName)
		if err != nil {
			return err
		}
		if !found {
			log.Printf("WARNING: no catalog price for model %q, recording entry with value 0", ticket.ModelName)
		}

		task := input.Task
		if task == "" {
			task = ticket.Task
		}

		entry = models.ProductionEntry{
			TicketID:     ticket.ID,
			Operator:     input.Operator,
			ModelName:    ticket.ModelName,
			Task:         task,
			Size:         input.Size,
			Quantity:     input.Quantity,
			UnitPrice:    unitPrice,
			Value:        decimal.NewFromInt(int64(input.Quantity)).Mul(unitPrice),
			MissingPrice: !found,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("create production entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListEntries returns ledger entries matching the filter, newest first.
func (s *ProductionService) ListEntries(filter EntryFilter) ([]models.ProductionEntry, error) {
	query, err := filter.apply(s.db.Model(&models.ProductionEntry{}))
	if err != nil {
		return nil, err
	}

	var entries []models.ProductionEntry
	if err := query.Order("created_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list production entries: %w", err)
	}
	return entries, nil
}

// resolveTicket loads the ticket referenced by the input, by token or number.
func (s *ProductionService) resolveTicket(tx *gorm.DB, input RecordEntryInput) (*models.Ticket, error) {
	var ticket models.Ticket
	var err error
	if input.Token != "" {
		err = tx.Where("token = ?", input.Token).First(&ticket).Error
	} else {
		err = tx.Where("number = ?", input.TicketNumber).First(&ticket).Error
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "ticket"}
	}
	if err != nil {
		return nil, fmt.Errorf("resolve ticket: %w", err)
	}
	return &ticket, nil
}

// lookupPrice reads the model's unit price inside the entry transaction.
func (s *ProductionService) lookupPrice(tx *gorm.DB, modelName string) (decimal.Decimal, bool, error) {
	var model models.ProductModel
	err := tx.Where("name = ?", modelName).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("look up unit price: %w", err)
	}
	return model.UnitPrice, true, nil
}
