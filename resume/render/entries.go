package render

import (
	"strings"
	"unicode"
)

// Entry is a best-effort reading of one free-text experience or education block.
// Nothing outside this package depends on how a block is split.
type Entry struct {
	Title   string
	Org     string
	Dates   string
	Details []string
}

var dateHints = []string{
	"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec",
	"20", "19", "present", "current", "-",
}

// ParseExperience reads "Title at Company" from the first line and takes the first
// date-looking line after it as the period.
func ParseExperience(text string) Entry {
	lines := nonEmptyLines(text)
	if len(lines) == 0 {
		return Entry{}
	}
	e := Entry{}
	e.Title, e.Org = splitFirst(lines[0], " at ")
	for _, line := range lines[1:] {
		if e.Dates == "" && looksLikePeriod(line) {
			e.Dates = line
			continue
		}
		e.Details = append(e.Details, line)
	}
	return e
}

// ParseEducation reads "Degree at|from Institution" and takes the first short line
// holding a year as the period.
func ParseEducation(text string) Entry {
	lines := nonEmptyLines(text)
	if len(lines) == 0 {
		return Entry{}
	}
	e := Entry{}
	e.Title, e.Org = splitFirst(lines[0], " at ", " from ")
	for _, line := range lines[1:] {
		if e.Dates == "" && looksLikeYear(line) {
			e.Dates = line
			continue
		}
		e.Details = append(e.Details, line)
	}
	return e
}

func splitFirst(line string, seps ...string) (string, string) {
	for _, sep := range seps {
		if before, after, ok := strings.Cut(line, sep); ok {
			return strings.TrimSpace(before), strings.TrimSpace(after)
		}
	}
	return line, ""
}

func looksLikePeriod(line string) bool {
	lower := strings.ToLower(line)
	for _, hint := range dateHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

func looksLikeYear(line string) bool {
	return len(line) < 20 && (strings.Contains(line, "20") || strings.Contains(line, "19"))
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// SkillRows chunks skills into rows of n for grid layouts.
func SkillRows(skills []string, n int) [][]string {
	if n <= 0 {
		n = 1
	}
	var rows [][]string
	for i := 0; i < len(skills); i += n {
		end := i + n
		if end > len(skills) {
			end = len(skills)
		}
		rows = append(rows, skills[i:end])
	}
	return rows
}

// SkillGroup is a labelled bucket of skills.
type SkillGroup struct {
	Label string
	Items []string
}

var skillBuckets = []struct {
	label    string
	keywords []string
}{
	{"languages", []string{"python", "java", "javascript", "c++", "php", "ruby", "go", "golang", "rust"}},
	{"frameworks", []string{"react", "angular", "vue", "django", "flask", "spring", "express"}},
	{"tools", []string{"git", "docker", "kubernetes", "aws", "azure", "linux"}},
}

// GroupSkills sorts skills into languages, frameworks, tools and other by keyword tokens.
// Empty groups are omitted; input order is kept within a group.
func GroupSkills(skills []string) []SkillGroup {
	groups := make([]SkillGroup, len(skillBuckets)+1)
	for i, b := range skillBuckets {
		groups[i].Label = b.label
	}
	groups[len(skillBuckets)].Label = "other"

	for _, skill := range skills {
		idx := len(skillBuckets)
		tokens := skillTokens(skill)
	bucket:
		for i, b := range skillBuckets {
			for _, kw := range b.keywords {
				if _, ok := tokens[kw]; ok {
					idx = i
					break bucket
				}
			}
		}
		groups[idx].Items = append(groups[idx].Items, skill)
	}

	out := groups[:0]
	for _, g := range groups {
		if len(g.Items) > 0 {
			out = append(out, g)
		}
	}
	return out
}

func skillTokens(skill string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(skill), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
