package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sync"

	"narration-backend/internal/models"
	"narration-backend/internal/repositories"
	"narration-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// StatementData holds everything a settlement statement renders
type StatementData struct {
	Engagement *models.Engagement
	View       *SettlementView
}

// ReportService renders settlement statements and ledger exports
type ReportService struct {
	EngagementRepo *repositories.EngagementRepository
	InvoiceRepo    *repositories.InvoiceRepository
	Settlements    *SettlementService
}

func NewReportService(
	engagementRepo *repositories.EngagementRepository,
	invoiceRepo *repositories.InvoiceRepository,
	settlements *SettlementService,
) *ReportService {
	return &ReportService{
		EngagementRepo: engagementRepo,
		InvoiceRepo:    invoiceRepo,
		Settlements:    settlements,
	}
}

// GetStatementData loads an engagement and its settlement for rendering
func (s *ReportService) GetStatementData(ctx context.Context, engagementID int) (*StatementData, error) {
	engagement, err := s.EngagementRepo.Get(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	view, err := s.Settlements.GetSettlement(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	return &StatementData{Engagement: engagement, View: view}, nil
}

func dollars(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

// GenerateStatementPDF renders the settlement statement for one engagement
func (s *ReportService) GenerateStatementPDF(data *StatementData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Narration Studio - Settlement Statement", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	e := data.Engagement
	inv := data.View.Invoice
	set := data.View.Settlement

	// Engagement Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Engagement", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Client: %s", e.ClientName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Type: %s", e.ClientType), "RB", 1, "L", false, 0, "")
	title := e.BookTitle
	if len(title) > 45 {
		title = title[:42] + "..."
	}
	pdf.CellFormat(95, 7, fmt.Sprintf("Title: %s", title), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Words: %d (%.2f PFH)", e.WordCount, set.PFHCount), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Invoice terms
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Invoice Terms", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(63, 7, fmt.Sprintf("PFH Rate: $%.2f", inv.PFHRate), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 7, fmt.Sprintf("Proofing: $%.2f/PFH", inv.PozotronRate), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 7, fmt.Sprintf("Est. Tax: %.1f%%", inv.EstTaxRate), "1", 1, "C", false, 0, "")

	invoiced := "not invoiced"
	due := "-"
	if inv.InvoicedDate != nil {
		invoiced = inv.InvoicedDate.Format("02-Jan-2006")
	}
	if inv.DueDate != nil {
		due = inv.DueDate.Format("02-Jan-2006") + " (NET-15)"
	}
	pdf.CellFormat(63, 7, fmt.Sprintf("Invoiced: %s", invoiced), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 7, fmt.Sprintf("Due: %s", due), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 7, fmt.Sprintf("Ledger: %s", inv.LedgerTab), "1", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Line items if any
	if len(inv.LineItems) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(190, 8, "Line Items", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(140, 7, "Description", "1", 0, "C", true, 0, "")
		pdf.CellFormat(50, 7, "Amount", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, item := range inv.LineItems {
			desc := item.Description
			if len(desc) > 70 {
				desc = desc[:67] + "..."
			}
			pdf.CellFormat(140, 6, desc, "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 6, fmt.Sprintf("$%.2f", item.Amount), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(5)
	}

	// Settlement pipeline
	pdf.SetFont("Arial", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(190, 8, "Settlement", "1", 1, "L", true, 0, "")

	rows := []struct {
		label string
		value string
	}{
		{"Gross (base)", dollars(set.GrossBase)},
		{"Extra revenue", dollars(set.ExtraRevenue)},
		{"Gross total", dollars(set.GrossTotal)},
		{"Expenses", dollars(set.Expenses)},
		{"Net before tax", dollars(set.NetBeforeTax)},
		{"Taxable income (QBI-adjusted)", dollars(set.TaxableIncome)},
		{"Estimated tax bill", dollars(set.TaxBill)},
	}
	pdf.SetFont("Arial", "", 11)
	for _, r := range rows {
		pdf.CellFormat(120, 7, r.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(70, 7, r.value, "1", 1, "R", false, 0, "")
	}

	pdf.SetFillColor(200, 255, 200)
	if set.TakeHome < 0 {
		pdf.SetFillColor(255, 200, 200)
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 10, fmt.Sprintf("Take-Home: %s", dollars(set.TakeHome)), "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(95, 8, fmt.Sprintf("Hours logged: %.2f", set.TotalHours), "1", 0, "C", false, 0, "")
	hourly := "-"
	if set.TotalHours > 0 {
		hourly = dollars(set.RealHourlyRate) + "/hr"
	}
	pdf.CellFormat(95, 8, fmt.Sprintf("Real hourly rate: %s", hourly), "1", 1, "C", false, 0, "")

	if data.View.OverdueDays != nil && *data.View.OverdueDays > 0 {
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 11)
		pdf.SetFillColor(255, 200, 200)
		pdf.CellFormat(190, 8,
			fmt.Sprintf("OVERDUE %d days - %s", *data.View.OverdueDays, data.View.ReminderLabel),
			"1", 1, "C", true, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateLedgerCSV exports every engagement's settlement figures, optionally
// filtered to one ledger tab
func (s *ReportService) GenerateLedgerCSV(ctx context.Context, tab string) ([]byte, error) {
	engagements, err := s.EngagementRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	// Settlements load independently per engagement
	type result struct {
		index int
		data  *StatementData
	}

	results := make(chan result, len(engagements))
	jobs := make(chan int, len(engagements))

	var wg sync.WaitGroup
	numWorkers := 5
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				data, err := s.GetStatementData(ctx, engagements[idx].ID)
				if err != nil {
					results <- result{index: idx}
					continue
				}
				results <- result{index: idx, data: data}
			}
		}()
	}

	for i := range engagements {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	rows := make([]*StatementData, len(engagements))
	for r := range results {
		rows[r.index] = r.data
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{
		"#", "Client", "Title", "Status", "Ledger", "PFH",
		"Gross", "Expenses", "Net", "Tax", "Take-Home", "Hours", "Real Hourly", "Reminders",
	})

	n := 0
	for _, d := range rows {
		if d == nil {
			continue
		}
		if tab != "" && d.View.Invoice.LedgerTab != tab {
			continue
		}
		n++
		set := d.View.Settlement
		w.Write([]string{
			fmt.Sprintf("%d", n),
			d.Engagement.ClientName,
			d.Engagement.BookTitle,
			d.Engagement.Status,
			d.View.Invoice.LedgerTab,
			fmt.Sprintf("%.2f", set.PFHCount),
			fmt.Sprintf("%.2f", float64(set.GrossTotal)/100),
			fmt.Sprintf("%.2f", float64(set.Expenses)/100),
			fmt.Sprintf("%.2f", float64(set.NetBeforeTax)/100),
			fmt.Sprintf("%.2f", float64(set.TaxBill)/100),
			fmt.Sprintf("%.2f", float64(set.TakeHome)/100),
			fmt.Sprintf("%.2f", set.TotalHours),
			fmt.Sprintf("%.2f", float64(set.RealHourlyRate)/100),
			models.ReminderLabel(d.View.Invoice.RemindersSent),
		})
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
