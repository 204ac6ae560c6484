package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// Info is what a reader can see of a rendered document.
type Info struct {
	Pages int
	Text  string
}

// Inspect parses a rendered PDF and reports its page count and plain text.
// A document without pages is an error; unreadable text is not.
func Inspect(data []byte) (info Info, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("inspect pdf: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("inspect pdf: %w", err)
	}
	info.Pages = reader.NumPage()
	if info.Pages == 0 {
		return info, errors.New("inspect pdf: no pages")
	}
	if plain, err := reader.GetPlainText(); err == nil {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, plain); err == nil {
			info.Text = buf.String()
		}
	}
	return info, nil
}
