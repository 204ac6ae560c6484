package render

import (
	"fmt"
	"io"

	"cvbot-backend/resume/model"
)

// Template draws a profile as a single PDF. Every variant accepts the same Profile and
// writes the same artifact type.
type Template interface {
	Key() string
	Render(profile model.Profile, w io.Writer) error
}

type variant struct {
	key    string
	layout layout
	opts   options
}

func (v variant) Key() string { return v.key }

func (v variant) Render(profile model.Profile, w io.Writer) (err error) {
	if err := profile.Validate(); err != nil {
		return err
	}
	// fpdf reports most failures through its error state, but a few code paths panic.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render %s: %v", v.key, r)
		}
	}()
	d := newDocument(profile, v.opts)
	v.layout(d, profile)
	return d.output(w)
}

// Variants returns the built-in template variants keyed by template key.
func Variants() []Template {
	return []Template{
		variant{key: "template1", layout: classicLayout, opts: options{ruledHeadings: true, upperHeadings: true}},
		variant{key: "template2", layout: classicLayout, opts: options{
			family:        "Times",
			ruledHeadings: true,
			upperHeadings: true,
			skills:        skillsInline,
			titles:        map[section]string{sectionSummary: "Executive Profile", sectionExperience: "Career History"},
		}},
		variant{key: "template3", layout: bannerLayout, opts: options{upperHeadings: true}},
		variant{key: "template4", layout: minimalLayout, opts: options{skills: skillsInline, titles: map[section]string{sectionSummary: "About"}}},
		variant{key: "template5", layout: sidebarLayout, opts: options{
			family:        "Courier",
			headingPrefix: "// ",
			upperHeadings: true,
			skills:        skillsGrouped,
			titles:        map[section]string{sectionSkills: "Technical Skills"},
		}},
		variant{key: "template6", layout: bannerLayout, opts: options{
			upperHeadings: true,
			ruledHeadings: true,
			titles:        map[section]string{sectionSummary: "Sales Profile", sectionExperience: "Sales Experience"},
		}},
		variant{key: "template7", layout: classicLayout, opts: options{
			family:         "Times",
			educationFirst: true,
			skills:         skillsInline,
			titles:         map[section]string{sectionSummary: "Research Interests", sectionEducation: "Academic Qualifications", sectionExperience: "Academic Appointments"},
		}},
		variant{key: "template8", layout: sidebarLayout, opts: options{
			upperHeadings: true,
			titles:        map[section]string{sectionExperience: "Clinical Experience", sectionEducation: "Education & Training", sectionSkills: "Clinical Skills"},
		}},
		variant{key: "template9", layout: minimalLayout, opts: options{
			upperHeadings: true,
			ruledHeadings: true,
			titles:        map[section]string{sectionSummary: "Financial Profile", sectionSkills: "Core Competencies"},
		}},
		variant{key: "template10", layout: bannerLayout, opts: options{
			titles: map[section]string{sectionSummary: "Artist Statement", sectionExperience: "Creative Experience", sectionSkills: "Media & Skills"},
		}},
	}
}
