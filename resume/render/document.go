package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"cvbot-backend/resume/model"
)

const (
	pageMargin   = 18.0
	bottomMargin = 16.0
	lineHeight   = 5.0
	photoName    = "profile-photo"
)

// document wraps an fpdf page stream with the drawing primitives shared by all layouts.
type document struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	pal   Palette
	opts  options
	photo bool
	pageW float64
	pageH float64
}

func newDocument(p model.Profile, opts options) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, bottomMargin)
	pdf.SetTitle(p.FullName, true)
	pdf.SetAuthor(p.FullName, true)
	pdf.SetCreator("cvbot", false)

	d := &document{
		pdf:  pdf,
		tr:   pdf.UnicodeTranslatorFromDescriptor(""),
		pal:  PaletteFor(p.ColorScheme),
		opts: opts,
	}
	d.pageW, d.pageH = pdf.GetPageSize()
	if p.Photo != nil && len(p.Photo.Data) > 0 {
		format := strings.ToUpper(p.Photo.Format)
		pdf.RegisterImageOptionsReader(photoName, fpdf.ImageOptions{ImageType: format}, bytes.NewReader(p.Photo.Data))
		d.photo = pdf.Ok()
		if !d.photo {
			// An unreadable photo is dropped rather than failing the document.
			pdf.ClearError()
		}
	}
	return d
}

func (d *document) font(s TextStyle) {
	family := s.Family
	if d.opts.family != "" {
		family = d.opts.family
	}
	d.pdf.SetFont(family, s.Style, s.Size)
}

func (d *document) textColor(c RGB) { d.pdf.SetTextColor(c.R, c.G, c.B) }
func (d *document) fillColor(c RGB) { d.pdf.SetFillColor(c.R, c.G, c.B) }
func (d *document) drawColor(c RGB) { d.pdf.SetDrawColor(c.R, c.G, c.B) }

// line writes a single cell spanning to the right margin.
func (d *document) line(style TextStyle, c RGB, text, align string) {
	d.font(style)
	d.textColor(c)
	d.pdf.CellFormat(0, style.Size*0.5, d.tr(text), "", 1, align, false, 0, "")
}

// paragraph writes wrapped body text.
func (d *document) paragraph(text string) {
	d.font(bodyStyle)
	d.textColor(d.pal.Text)
	d.pdf.MultiCell(0, lineHeight, d.tr(text), "", "L", false)
}

func (d *document) heading(text string) {
	if d.opts.upperHeadings {
		text = strings.ToUpper(text)
	}
	text = d.opts.headingPrefix + text
	d.pdf.Ln(3)
	d.line(headingStyle, d.pal.Primary, text, "L")
	if d.opts.ruledHeadings {
		left, _, right, _ := d.pdf.GetMargins()
		y := d.pdf.GetY() + 0.5
		d.drawColor(d.pal.Accent)
		d.pdf.SetLineWidth(0.4)
		d.pdf.Line(left, y, d.pageW-right, y)
	}
	d.pdf.Ln(2)
}

func (d *document) entry(e Entry) {
	if e.Title == "" {
		return
	}
	d.line(titleStyle, d.pal.Text, e.Title, "L")
	if e.Org != "" {
		d.line(orgStyle, d.pal.Accent, e.Org, "L")
	}
	if e.Dates != "" {
		d.line(metaStyle, d.pal.Muted, e.Dates, "L")
	}
	if len(e.Details) > 0 {
		d.paragraph(strings.Join(e.Details, " "))
	}
	d.pdf.Ln(2)
}

func (d *document) bullets(items []string) {
	for _, item := range items {
		d.paragraph("- " + item)
	}
}

// skills draws the skill list in the variant's chosen mode.
func (d *document) skills(skills []string) {
	switch d.opts.skills {
	case skillsGrouped:
		for _, g := range GroupSkills(skills) {
			d.paragraph(fmt.Sprintf("%s = [%s]", g.Label, quoteJoin(g.Items)))
		}
	case skillsInline:
		d.paragraph(strings.Join(skills, "  |  "))
	default:
		left, _, right, _ := d.pdf.GetMargins()
		colW := (d.pageW - left - right) / 3
		d.font(bodyStyle)
		d.textColor(d.pal.Text)
		for _, row := range SkillRows(skills, 3) {
			for i, skill := range row {
				ln := 0
				if i == len(row)-1 {
					ln = 1
				}
				d.pdf.CellFormat(colW, lineHeight+1, d.tr("- "+skill), "", ln, "L", false, 0, "")
			}
		}
	}
}

func (d *document) drawPhoto(x, y, size float64) {
	if !d.photo {
		return
	}
	d.pdf.ImageOptions(photoName, x, y, size, size, false, fpdf.ImageOptions{}, 0, "")
}

func (d *document) output(w io.Writer) error {
	if err := d.pdf.Error(); err != nil {
		return err
	}
	return d.pdf.Output(w)
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = `"` + s + `"`
	}
	return strings.Join(quoted, ", ")
}
