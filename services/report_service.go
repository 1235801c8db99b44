package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/dadalto/producao-api/models"
)

// exportTimeLayout is the timestamp format used on exported reports.
const exportTimeLayout = "02-01-2006 15:04:05"

// OperatorSummary aggregates ledger entries for one operator.
type OperatorSummary struct {
	Operator    string          `json:"operator"`
	TotalPieces int             `json:"total_pieces"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// ModelSummary aggregates ledger entries for one product model.
type ModelSummary struct {
	Model       string          `json:"model"`
	TotalPieces int             `json:"total_pieces"`
	TotalValue  decimal.Decimal `json:"total_value"`
}

// ReportService produces read-only summaries over the production ledger.
// Grouping happens in application code over the filtered rows, which keeps
// the decimal arithmetic exact on every supported database.
type ReportService struct {
	db *gorm.DB
}

// NewReportService creates a report service bound to the given database handle.
func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// SummaryByOperator groups ledger entries by operator, summing pieces and
// value. Results are ordered by operator name.
func (s *ReportService) SummaryByOperator(filter EntryFilter) ([]OperatorSummary, error) {
	entries, err := s.filteredEntries(filter)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*OperatorSummary)
	for _, entry := range entries {
		summary, ok := totals[entry.Operator]
		if !ok {
			summary = &OperatorSummary{Operator: entry.Operator, TotalValue: decimal.Zero}
			totals[entry.Operator] = summary
		}
		summary.TotalPieces += entry.Quantity
		summary.TotalValue = summary.TotalValue.Add(entry.Value)
	}

	summaries := make([]OperatorSummary, 0, len(totals))
	for _, summary := range totals {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Operator < summaries[j].Operator
	})
	return summaries, nil
}

// SummaryByModel groups ledger entries by model, summing pieces and value.
// Results are ordered by total pieces descending.
func (s *ReportService) SummaryByModel(filter EntryFilter) ([]ModelSummary, error) {
	entries, err := s.filteredEntries(filter)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*ModelSummary)
	for _, entry := range entries {
		summary, ok := totals[entry.ModelName]
		if !ok {
			summary = &ModelSummary{Model: entry.ModelName, TotalValue: decimal.Zero}
			totals[entry.ModelName] = summary
		}
		summary.TotalPieces += entry.Quantity
		summary.TotalValue = summary.TotalValue.Add(entry.Value)
	}

	summaries := make([]ModelSummary, 0, len(totals))
	for _, summary := range totals {
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].TotalPieces != summaries[j].TotalPieces {
			return summaries[i].TotalPieces > summaries[j].TotalPieces
		}
		return summaries[i].Model < summaries[j].Model
	})
	return summaries, nil
}

// WriteCSV streams the filtered ledger entries as CSV, newest first.
func (s *ReportService) WriteCSV(w io.Writer, filter EntryFilter) error {
	entries, err := s.exportEntries(filter)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(exportHeader()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, entry := range entries {
		if err := writer.Write(exportRow(entry)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	return nil
}

// BuildXLSX renders the filtered ledger entries as an Excel workbook.
func (s *ReportService) BuildXLSX(filter EntryFilter) (*excelize.File, error) {
	entries, err := s.exportEntries(filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := "Production"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range exportHeader() {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("write xlsx header: %w", err)
		}
	}
	for row, entry := range entries {
		for col, value := range exportRow(entry) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("write xlsx row: %w", err)
			}
		}
	}
	return f, nil
}

// filteredEntries loads ledger entries matching the filter, newest first.
func (s *ReportService) filteredEntries(filter EntryFilter) ([]models.ProductionEntry, error) {
	query, err := filter.apply(s.db.Model(&models.ProductionEntry{}))
	if err != nil {
		return nil, err
	}

	var entries []models.ProductionEntry
	if err := query.Order("created_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load production entries: %w", err)
	}
	return entries, nil
}

// exportEntries additionally preloads each entry's ticket so exports can show
// the display ficha number.
func (s *ReportService) exportEntries(filter EntryFilter) ([]models.ProductionEntry, error) {
	query, err := filter.apply(s.db.Model(&models.ProductionEntry{}))
	if err != nil {
		return nil, err
	}

	var entries []models.ProductionEntry
	if err := query.Preload("Ticket").Order("created_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load production entries: %w", err)
	}
	return entries, nil
}

func exportHeader() []string {
	return []string{"Ticket", "Operator", "Model", "Task", "Size", "Quantity", "Unit Price", "Value", "Recorded At"}
}

func exportRow(entry models.ProductionEntry) []string {
	return []string{
		models.FormatNumber(entry.Ticket.Number),
		entry.Operator,
		entry.ModelName,
		entry.Task,
		entry.Size,
		strconv.Itoa(entry.Quantity),
		entry.UnitPrice.StringFixed(2),
		entry.Value.StringFixed(2),
		entry.CreatedAt.Format(exportTimeLayout),
	}
}
