// Package report renders session reports as PDF documents.
package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment/entity"
)

const (
	title      = "Equipment Analysis Report"
	lineHeight = 7.0
	margin     = 15.0
)

type Options struct {
	// Compress deflates page streams. Off makes the output readable in tests.
	Compress bool
}

// PDF renders reports with the core fonts; text outside their code page is
// translated or dropped.
type PDF struct {
	opts Options
}

func NewPDF(opts Options) *PDF {
	return &PDF{opts: opts}
}

func (p *PDF) Render(ctx context.Context, report entity.Report) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := p.build(report)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}

	return buf.Bytes(), nil
}

func (p *PDF) build(report entity.Report) *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(p.opts.Compress)
	doc.SetAutoPageBreak(true, margin)
	doc.SetMargins(margin, margin, margin)
	doc.SetTitle(title, true)
	doc.SetCreationDate(report.Session.UploadedAt)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 12, title, "", 1, "C", false, 0, "")
	doc.Ln(4)

	writeSummary(doc, tr, report.Session)
	doc.Ln(6)

	writeDistribution(doc, tr, report.Distribution)
	doc.Ln(6)

	writeDetails(doc, tr, report.Records)

	return doc
}

func writeSummary(doc *fpdf.Fpdf, tr func(string) string, session entity.Session) {
	doc.SetFont("Helvetica", "", 11)

	lines := []string{
		"File: " + session.Filename,
		"Uploaded: " + session.UploadedAt.Format("2006-01-02 15:04"),
		fmt.Sprintf("Total Equipment: %d", session.TotalEquipment),
	}
	if avg := session.Averages; avg != nil {
		lines = append(lines,
			fmt.Sprintf("Average Flowrate: %.2f", avg.Flowrate),
			fmt.Sprintf("Average Pressure: %.2f", avg.Pressure),
			fmt.Sprintf("Average Temperature: %.2f", avg.Temperature),
		)
	}

	for _, line := range lines {
		doc.CellFormat(0, lineHeight, tr(line), "", 1, "L", false, 0, "")
	}
}

func writeDistribution(doc *fpdf.Fpdf, tr func(string) string, dist entity.Distribution) {
	heading(doc, "Equipment Type Distribution")

	widths := []float64{90, 45, 45}
	tableHeader(doc, widths, []string{"Type", "Count", "Percentage"})

	total := dist.Total()
	doc.SetFont("Helvetica", "", 10)
	for _, tc := range dist {
		pct := 0.0
		if total > 0 {
			pct = float64(tc.Count) / float64(total) * 100
		}
		doc.CellFormat(widths[0], lineHeight, tr(tc.Type), "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], lineHeight, fmt.Sprintf("%d", tc.Count), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[2], lineHeight, fmt.Sprintf("%.1f%%", pct), "1", 1, "R", false, 0, "")
	}
}

func writeDetails(doc *fpdf.Fpdf, tr func(string) string, records []entity.Record) {
	heading(doc, "Equipment Details")

	widths := []float64{60, 40, 27, 27, 26}
	tableHeader(doc, widths, []string{"Name", "Type", "Flowrate", "Pressure", "Temp"})

	doc.SetFont("Helvetica", "", 9)
	for _, rec := range records {
		doc.CellFormat(widths[0], lineHeight, tr(rec.Name), "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], lineHeight, tr(rec.Type), "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[2], lineHeight, fmt.Sprintf("%.2f", rec.Flowrate), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[3], lineHeight, fmt.Sprintf("%.2f", rec.Pressure), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[4], lineHeight, fmt.Sprintf("%.2f", rec.Temperature), "1", 1, "R", false, 0, "")
	}
}

func heading(doc *fpdf.Fpdf, text string) {
	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 9, text, "", 1, "L", false, 0, "")
}

func tableHeader(doc *fpdf.Fpdf, widths []float64, labels []string) {
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(220, 220, 220)
	for i, label := range labels {
		ln := 0
		if i == len(labels)-1 {
			ln = 1
		}
		doc.CellFormat(widths[i], lineHeight, label, "1", ln, "C", true, 0, "")
	}
}
