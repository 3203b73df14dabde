package site

import (
	"fmt"
	"html/template"

	"github.com/okian/qaportal/internal/domain/badge"
	"github.com/okian/qaportal/internal/domain/derive"
)

var funcs = template.FuncMap{ //nolint:gochecknoglobals // template helpers
	"bandClass":  bandClass,
	"badgeClass": badgeClass,
	"iconGlyph":  iconGlyph,
	"num":        func(f float64) string { return fmt.Sprintf("%g", f) },
	"sub100":     func(n int) int { return 100 - n },
}

func bandClass(b derive.Band) string {
	return "band-" + string(b)
}

func badgeClass(v badge.Variant) string {
	return "badge badge-" + string(v)
}

// iconGlyph draws badge icons as text so the page needs no icon font.
func iconGlyph(i badge.Icon) string {
	switch i {
	case badge.IconCheck:
		return "✓"
	case badge.IconClock:
		return "◷"
	case badge.IconCross:
		return "✕"
	case badge.IconAward:
		return "★"
	case badge.IconThumbs:
		return "▼"
	default:
		return ""
	}
}
