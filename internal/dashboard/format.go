package dashboard

import (
	"bytes"
	"html/template"
	"math"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/okian/qaportal/internal/domain/model"
)

const (
	displayDate = "Jan 2, 2006"
	monthLabel  = "Jan"
)

var (
	printer  = message.NewPrinter(language.English) //nolint:gochecknoglobals // read-only formatter
	markdown = goldmark.New()                        //nolint:gochecknoglobals // default renderer escapes raw HTML
)

// FormatDate renders d as "Jan 2, 2006". Unparseable dates are shown as-is.
func FormatDate(d model.Date) string {
	t, ok := d.Time()
	if !ok {
		return string(d)
	}
	return t.Format(displayDate)
}

// MonthLabel is the abbreviated month of d, or the raw value when unparseable.
func MonthLabel(d model.Date) string {
	t, ok := d.Time()
	if !ok {
		return string(d)
	}
	return t.Format(monthLabel)
}

// FormatNumber prints whole numbers without a fraction and everything else
// with its shortest decimal form, grouping thousands.
func FormatNumber(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "0"
	}
	if x == math.Trunc(x) && math.Abs(x) < 1e15 {
		return printer.Sprintf("%d", int64(x))
	}
	return printer.Sprintf("%v", x)
}

// FormatInt prints n with grouped thousands.
func FormatInt(n int) string {
	return printer.Sprintf("%d", n)
}

// Markdown renders free text to HTML. Raw HTML in the source is dropped by
// the renderer, so the result is safe to embed. Render failures fall back to
// escaped plain text.
func Markdown(src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src)) //nolint:gosec // escaped above
	}
	return template.HTML(strings.TrimSpace(buf.String())) //nolint:gosec // goldmark omits raw HTML by default
}
