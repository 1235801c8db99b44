package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// seedLedger creates tickets and entries through the services so the report
// fixtures follow the same write path as production traffic.
func seedLedger(t *testing.T, db *gorm.DB) {
	t.Helper()
	catalog := NewCatalogService(db)
	production := NewProductionService(db)

	if _, err := catalog.SetPrice("MODELO A", decimal.NewFromFloat(10.00)); err != nil {
		t.Fatalf("Failed to seed price: %v", err)
	}
	if _, err := catalog.SetPrice("MODELO B", decimal.NewFromFloat(2.50)); err != nil {
		t.Fatalf("Failed to seed price: %v", err)
	}

	fixtures := []struct {
		model    string
		operator string
		quantity int
	}{
		{"MODELO A", "Ana Silva", 10},
		{"MODELO A", "ANA PEREIRA", 5},
		{"MODELO B", "Bruno Costa", 40},
		{"MODELO B", "Ana Silva", 2},
	}
	for _, f := range fixtures {
		ticket := issueTestTicket(t, db, f.model)
		if _, err := production.RecordEntry(RecordEntryInput{
			TicketNumber: ticket.Number,
			Operator:     f.operator,
			Quantity:     f.quantity,
		}); err != nil {
			t.Fatalf("Failed to seed entry: %v", err)
		}
	}
}

func TestSummaryByOperator(t *testing.T) {
	db := setupServiceTestDB(t)
	seedLedger(t, db)
	svc := NewReportService(db)

	summaries, err := svc.SummaryByOperator(EntryFilter{})
	assert.NoError(t, err)
	assert.Len(t, summaries, 3)

	byName := make(map[string]OperatorSummary)
	for _, s := range summaries {
		byName[s.Operator] = s
	}

	ana := byName["Ana Silva"]
	assert.Equal(t, 12, ana.TotalPieces)
	assert.True(t, ana.TotalValue.Equal(decimal.NewFromFloat(105.00)), "10x10.00 + 2x2.50, got %s", ana.TotalValue)

	bruno := byName["Bruno Costa"]
	assert.Equal(t, 40, bruno.TotalPieces)
	assert.True(t, bruno.TotalValue.Equal(decimal.NewFromFloat(100.00)))
}

func TestSummaryByOperator_SubstringFilter(t *testing.T) {
	db := setupServiceTestDB(t)
	seedLedger(t, db)
	svc := NewReportService(db)

	summaries, err := svc.SummaryByOperator(EntryFilter{Operator: "ana"})
	assert.NoError(t, err)
	assert.Len(t, summaries, 2, "matches Ana Silva and ANA PEREIRA, not Bruno Costa")

	// ordered by operator name
	assert.Equal(t, "ANA PEREIRA", summaries[0].Operator)
	assert.Equal(t, "Ana Silva", summaries[1].Operator)
}

func TestSummaryByModel_OrderedByPiecesDescending(t *testing.T) {
	db := setupServiceTestDB(t)
	seedLedger(t, db)
	svc := NewReportService(db)

	summaries, err := svc.SummaryByModel(EntryFilter{})
	assert.NoError(t, err)
	assert.Len(t, summaries, 2)

	assert.Equal(t, "MODELO B", summaries[0].Model)
	assert.Equal(t, 42, summaries[0].TotalPieces)
	assert.True(t, summaries[0].TotalValue.Equal(decimal.NewFromFloat(105.00)))

	assert.Equal(t, "MODELO A", summaries[1].Model)
	assert.Equal(t, 15, summaries[1].TotalPieces)
	assert.True(t, summaries[1].TotalValue.Equal(decimal.NewFromFloat(150.00)))
}

func TestSummary_InvalidDate(t *testing.T) {
	db := setupServiceTestDB(t)
	svc := NewReportService(db)

	_, err := svc.SummaryByOperator(EntryFilter{DateFrom: "31/12/2026"})
	assert.True(t, IsValidation(err))

	_, err = svc.SummaryByModel(EntryFilter{DateTo: "banana"})
	assert.True(t, IsValidation(err))
}

func TestWriteCSV(t *testing.T) {
	db := setupServiceTestDB(t)
	seedLedger(t, db)
	svc := NewReportService(db)

	var buf bytes.Buffer
	err := svc.WriteCSV(&buf, EntryFilter{Operator: "bruno"})
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2, "header plus one matching entry")
	assert.Contains(t, lines[0], "Operator")
	assert.Contains(t, lines[1], "Bruno Costa")
	assert.Contains(t, lines[1], "100.00")
	assert.Contains(t, lines[1], "F000", "ticket column shows the display ficha number")
}

func TestBuildXLSX(t *testing.T) {
	db := setupServiceTestDB(t)
	seedLedger(t, db)
	svc := NewReportService(db)

	file, err := svc.BuildXLSX(EntryFilter{})
	assert.NoError(t, err)

	rows, err := file.GetRows("Production")
	assert.NoError(t, err)
	assert.Len(t, rows, 5, "header plus four entries")
	assert.Equal(t, "Ticket", rows[0][0])
	assert.Equal(t, "Operator", rows[0][1])
}
