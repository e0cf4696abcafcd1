package export

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"xray-overlay/internal/render"
	"xray-overlay/internal/shape"
)

// Findings is the tabular content of the findings sheet.
type Findings struct {
	Title        string
	Source       string
	Date         time.Time
	Measurements []shape.Measurement
	Annotations  []shape.Shape
}

// Rows returns one "Kind  value" line per measurement, numbered from 1.
func (f Findings) Rows() []string {
	rows := make([]string, len(f.Measurements))
	for i, m := range f.Measurements {
		rows[i] = fmt.Sprintf("%d. %s  %s", i+1, m.Kind(), render.LabelText(m))
	}
	return rows
}

// Notes returns the text content of every text and note annotation.
func (f Findings) Notes() []string {
	var out []string
	for _, s := range f.Annotations {
		switch v := s.(type) {
		case shape.Text:
			out = append(out, v.Content())
		case shape.Note:
			out = append(out, v.Content())
		}
	}
	return out
}

// WriteReport renders an A4 sheet with the annotated image on top and the
// measurement table below.
func WriteReport(w io.Writer, img image.Image, f Findings) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	title := f.Title
	if title == "" {
		title = "Chest X-ray findings"
	}
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	meta := f.Date.Format("2006-01-02 15:04")
	if f.Source != "" {
		meta = f.Source + "  " + meta
	}
	pdf.CellFormat(0, 6, tr(meta), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if img != nil {
		var buf bytes.Buffer
		if err := WritePNG(&buf, img); err != nil {
			return err
		}
		pdf.RegisterImageOptionsReader("overlay", gofpdf.ImageOptions{ImageType: "PNG"}, &buf)

		pageW, pageH := pdf.GetPageSize()
		left, top, right, _ := pdf.GetMargins()
		maxW := pageW - left - right
		maxH := pageH/2 - top
		b := img.Bounds()
		iw, ih := maxW, maxW*float64(b.Dy())/float64(b.Dx())
		if ih > maxH {
			iw, ih = maxH*float64(b.Dx())/float64(b.Dy()), maxH
		}
		pdf.ImageOptions("overlay", left, pdf.GetY(), iw, ih, true, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Measurements", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	rows := f.Rows()
	if len(rows) == 0 {
		pdf.CellFormat(0, 6, "None", "", 1, "L", false, 0, "")
	}
	for _, row := range rows {
		pdf.CellFormat(0, 6, tr(row), "", 1, "L", false, 0, "")
	}

	if notes := f.Notes(); len(notes) > 0 {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Notes", "B", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, n := range notes {
			pdf.MultiCell(0, 6, tr("- "+n), "", "L", false)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build report: %w", err)
	}
	return pdf.Output(w)
}
