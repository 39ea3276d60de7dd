// Package report renders customer listings as Excel workbooks.
package report

import (
	"bytes"
	"fmt"

	"pdv-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	customersSheet = "Clients"
	statsSheet     = "Statistiques"
)

var customerHeaders = []string{
	"ID", "Date", "Téléphone", "Nom client", "Point de vente", "Montant commande",
	"Type client", "Comment connu", "Commentaire", "Note qualité", "Note prix",
	"Note service", "Note globale",
}

// Generator holds the state for one workbook.
type Generator struct {
	file *excelize.File
}

func NewGenerator() *Generator {
	return &Generator{file: excelize.NewFile()}
}

// CustomersWorkbook renders customers on a "Clients" sheet and stats on a
// "Statistiques" sheet. An empty customer list still yields the header row.
func CustomersWorkbook(customers []*models.Customer, stats *models.CustomerStats) (*bytes.Buffer, error) {
	gen := NewGenerator()
	defer gen.file.Close()

	if err := gen.file.SetSheetName("Sheet1", customersSheet); err != nil {
		return nil, fmt.Errorf("failed to rename default sheet: %w", err)
	}
	if err := gen.writeCustomers(customers); err != nil {
		return nil, err
	}
	if stats != nil {
		if err := gen.writeStats(stats); err != nil {
			return nil, err
		}
	}
	gen.file.SetActiveSheet(0)

	buffer, err := gen.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buffer, nil
}

func (g *Generator) writeCustomers(customers []*models.Customer) error {
	headerStyle, err := g.file.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center", Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err = g.file.SetSheetRow(customersSheet, "A1", &customerHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(customerHeaders))
	if err = g.file.SetCellStyle(customersSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style headers: %w", err)
	}
	if err = g.file.SetColWidth(customersSheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	for i, c := range customers {
		cell, _ := excelize.CoordinatesToCellName(1, i+2) // row 1 is the header
		row := []interface{}{
			c.ID, c.Date, c.Telephone, c.NomClient, c.PointVente, c.MontantCommande,
			c.TypeClient, text(c.CommentConnu), text(c.CommentaireClient),
			number(c.NoteQualiteProduits), number(c.NoteNiveauPrix),
			number(c.NoteServiceCommercial), number(c.NoteGlobale),
		}
		if err = g.file.SetSheetRow(customersSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to add row %d: %w", i+2, err)
		}
	}

	if len(customers) == 0 {
		return nil
	}
	if err = g.file.AddTable(customersSheet, &excelize.Table{
		Range:     fmt.Sprintf("A1:%s%d", lastCol, len(customers)+1),
		Name:      "table_clients",
		StyleName: "TableStyleMedium9",
	}); err != nil {
		return fmt.Errorf("failed to add table: %w", err)
	}
	return nil
}

func (g *Generator) writeStats(s *models.CustomerStats) error {
	if _, err := g.file.NewSheet(statsSheet); err != nil {
		return fmt.Errorf("failed to create stats sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Total clients", s.TotalClients},
		{"Montant total", s.MontantTotal},
		{"Nouveaux clients", s.NouveauxClients},
		{"Clients récurrents", s.ClientsRecurrents},
		{"Taux nouveaux (%)", s.TauxNouveaux},
		{"Taux récurrents (%)", s.TauxRecurrents},
		{"Note moyenne", number(s.NoteMoyenne)},
		{"Note qualité moyenne", number(s.NoteQualiteMoyenne)},
		{"Note prix moyenne", number(s.NotePrixMoyenne)},
		{"Note service moyenne", number(s.NoteServiceMoyenne)},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := g.file.SetSheetRow(statsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write stats row %d: %w", i+1, err)
		}
	}
	return g.file.SetColWidth(statsSheet, "A", "A", 24)
}

func text(s *string) interface{} {
	if s == nil {
		return ""
	}
	return *s
}

func number(f *float64) interface{} {
	if f == nil {
		return ""
	}
	return *f
}
