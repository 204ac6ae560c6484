package render

import (
	"strings"

	"cvbot-backend/resume/model"
)

type skillsMode int

const (
	skillsGrid skillsMode = iota
	skillsGrouped
	skillsInline
)

type section int

const (
	sectionSummary section = iota
	sectionExperience
	sectionEducation
	sectionSkills
)

var defaultTitles = map[section]string{
	sectionSummary:    "Professional Summary",
	sectionExperience: "Work Experience",
	sectionEducation:  "Education",
	sectionSkills:     "Skills",
}

// options tune a layout family into a concrete template variant.
type options struct {
	family         string
	upperHeadings  bool
	ruledHeadings  bool
	headingPrefix  string
	skills         skillsMode
	educationFirst bool
	titles         map[section]string
}

func (o options) title(s section) string {
	if t, ok := o.titles[s]; ok {
		return t
	}
	return defaultTitles[s]
}

// layout draws a whole profile onto a document.
type layout func(d *document, p model.Profile)

// writeSections draws the body sections in order, skipping empty ones and any in skip.
func writeSections(d *document, p model.Profile, skip ...section) {
	skipped := func(s section) bool {
		for _, x := range skip {
			if x == s {
				return true
			}
		}
		return false
	}
	order := []section{sectionSummary, sectionExperience, sectionEducation, sectionSkills}
	if d.opts.educationFirst {
		order = []section{sectionSummary, sectionEducation, sectionExperience, sectionSkills}
	}
	for _, s := range order {
		if skipped(s) {
			continue
		}
		switch s {
		case sectionSummary:
			if strings.TrimSpace(p.Summary) == "" {
				continue
			}
			d.heading(d.opts.title(s))
			d.paragraph(p.Summary)
		case sectionExperience:
			if len(p.Experience) == 0 {
				continue
			}
			d.heading(d.opts.title(s))
			for _, text := range p.Experience {
				d.entry(ParseExperience(text))
			}
		case sectionEducation:
			if len(p.Education) == 0 {
				continue
			}
			d.heading(d.opts.title(s))
			for _, text := range p.Education {
				d.entry(ParseEducation(text))
			}
		case sectionSkills:
			if len(p.Skills) == 0 {
				continue
			}
			d.heading(d.opts.title(s))
			d.skills(p.Skills)
		}
	}
}

// classicLayout centers the name and contact line above a rule.
func classicLayout(d *document, p model.Profile) {
	d.pdf.AddPage()
	if d.photo {
		size := 28.0
		d.drawPhoto(d.pageW-pageMargin-size, pageMargin, size)
	}
	d.line(nameStyle, d.pal.Primary, p.FullName, "C")
	d.pdf.Ln(2)
	if contact := p.ContactLine("  |  "); contact != "" {
		d.line(metaStyle, d.pal.Muted, contact, "C")
	}
	y := d.pdf.GetY() + 2
	d.drawColor(d.pal.Primary)
	d.pdf.SetLineWidth(0.8)
	d.pdf.Line(pageMargin, y, d.pageW-pageMargin, y)
	d.pdf.SetY(y + 3)
	writeSections(d, p)
}

const sidebarWidth = 64.0

// sidebarLayout puts identity, contact and skills in a tinted left column.
func sidebarLayout(d *document, p model.Profile) {
	d.pdf.SetHeaderFunc(func() {
		d.fillColor(d.pal.Light)
		d.pdf.Rect(0, 0, sidebarWidth, d.pageH, "F")
	})
	d.pdf.AddPage()

	d.pdf.SetAutoPageBreak(false, 0)
	d.pdf.SetLeftMargin(8)
	d.pdf.SetRightMargin(d.pageW - sidebarWidth + 6)
	d.pdf.SetXY(8, pageMargin)
	if d.photo {
		size := sidebarWidth - 24
		d.drawPhoto(12, pageMargin, size)
		d.pdf.SetY(pageMargin + size + 4)
	}
	d.font(nameStyle)
	d.textColor(d.pal.Primary)
	d.pdf.MultiCell(0, 8, d.tr(p.FullName), "", "L", false)
	d.pdf.Ln(3)
	for _, v := range []string{p.Email, p.Phone, p.Address} {
		if v = strings.TrimSpace(v); v != "" && sidebarFits(d) {
			d.font(metaStyle)
			d.textColor(d.pal.Text)
			d.pdf.MultiCell(0, 4.5, d.tr(v), "", "L", false)
		}
	}
	if len(p.Skills) > 0 && sidebarFits(d) {
		d.pdf.Ln(4)
		d.line(headingStyle, d.pal.Primary, d.opts.headingPrefix+d.opts.title(sectionSkills), "L")
		d.pdf.Ln(1)
		if d.opts.skills == skillsGrouped {
			for _, g := range GroupSkills(p.Skills) {
				if !sidebarFits(d) {
					break
				}
				d.line(titleStyle, d.pal.Accent, g.Label, "L")
				for _, s := range g.Items {
					if sidebarFits(d) {
						d.line(bodyStyle, d.pal.Text, s, "L")
					}
				}
			}
		} else {
			for _, s := range p.Skills {
				if sidebarFits(d) {
					d.line(bodyStyle, d.pal.Text, "- "+s, "L")
				}
			}
		}
	}

	d.pdf.SetAutoPageBreak(true, bottomMargin)
	d.pdf.SetLeftMargin(sidebarWidth + 8)
	d.pdf.SetRightMargin(pageMargin)
	d.pdf.SetXY(sidebarWidth+8, pageMargin)
	writeSections(d, p, sectionSkills)
}

func sidebarFits(d *document) bool {
	return d.pdf.GetY() < d.pageH-bottomMargin-6
}

const bannerHeight = 42.0

// bannerLayout draws a full-width colored band holding the name and contact details.
func bannerLayout(d *document, p model.Profile) {
	d.pdf.AddPage()
	d.fillColor(d.pal.Primary)
	d.pdf.Rect(0, 0, d.pageW, bannerHeight, "F")

	textRight := pageMargin
	if d.photo {
		size := bannerHeight - 10
		d.drawPhoto(d.pageW-pageMargin-size, 5, size)
		textRight = pageMargin + size + 6
	}
	d.pdf.SetRightMargin(textRight)
	d.pdf.SetXY(pageMargin, 12)
	d.line(nameStyle, RGB{255, 255, 255}, p.FullName, "L")
	d.pdf.Ln(3)
	if contact := p.ContactLine("  |  "); contact != "" {
		d.font(metaStyle)
		d.textColor(d.pal.Light)
		d.pdf.MultiCell(0, 4.5, d.tr(contact), "", "L", false)
	}
	d.pdf.SetRightMargin(pageMargin)
	d.pdf.SetY(bannerHeight + 6)
	writeSections(d, p)
}

// minimalLayout is plain left-aligned text with muted headings.
func minimalLayout(d *document, p model.Profile) {
	d.pdf.AddPage()
	if d.photo {
		size := 24.0
		d.drawPhoto(d.pageW-pageMargin-size, pageMargin, size)
	}
	d.line(nameStyle, d.pal.Text, p.FullName, "L")
	d.pdf.Ln(1)
	for _, v := range []string{p.Email, p.Phone, p.Address} {
		if v = strings.TrimSpace(v); v != "" {
			d.line(metaStyle, d.pal.Muted, v, "L")
		}
	}
	d.pdf.Ln(4)
	writeSections(d, p)
}
