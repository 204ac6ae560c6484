package model

import (
	"errors"
	"strings"
)

// Profile is the data every template variant draws. Experience and education entries are
// free text exactly as the user typed them.
type Profile struct {
	FullName    string   `json:"fullName"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	Address     string   `json:"address"`
	Summary     string   `json:"summary"`
	Experience  []string `json:"experience"`
	Education   []string `json:"education"`
	Skills      []string `json:"skills"`
	Photo       *Photo   `json:"-"`
	ColorScheme string   `json:"colorScheme"`
}

// Photo is a decoded profile image. Format is "JPG" or "PNG".
type Photo struct {
	Data   []byte
	Format string
}

// Validate rejects a profile the renderer cannot draw. Every text field may be blank.
func (p Profile) Validate() error {
	if p.Photo != nil && len(p.Photo.Data) == 0 {
		return errors.New("photo has no data")
	}
	return nil
}

// ContactLine joins the non-empty contact fields with sep.
func (p Profile) ContactLine(sep string) string {
	parts := make([]string, 0, 3)
	for _, v := range []string{p.Email, p.Phone, p.Address} {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}
