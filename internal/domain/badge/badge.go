// Package badge maps record kinds and statuses to display badges. Every
// mapping is total: unknown inputs fall through to an explicit default.
package badge

import (
	"strconv"

	"github.com/okian/qaportal/internal/domain/model"
)

// Variant is the visual category of a badge.
type Variant string

// Badge variants.
const (
	Info      Variant = "info"
	Success   Variant = "success"
	Danger    Variant = "danger"
	Warning   Variant = "warning"
	Secondary Variant = "secondary"
	Primary   Variant = "primary"
)

// Icon names a glyph rendered next to the label. Empty means no icon.
type Icon string

// Icons.
const (
	IconNone   Icon = ""
	IconCheck  Icon = "check"
	IconClock  Icon = "clock"
	IconCross  Icon = "x-circle"
	IconAward  Icon = "award"
	IconThumbs Icon = "thumbs-down"
)

// Descriptor is everything needed to draw a badge.
type Descriptor struct {
	Variant Variant `json:"variant"`
	Label   string  `json:"label"`
	Icon    Icon    `json:"icon,omitempty"`
}

// ForComment returns the badge for a comment's related record. ok is false
// when the comment has no related record or the kind is unknown.
func ForComment(rel *model.RelatedTo) (d Descriptor, ok bool) {
	if rel == nil {
		return Descriptor{}, false
	}
	switch rel.Type {
	case model.RelatedQA:
		return Descriptor{Variant: Info, Label: "QA Evaluation"}, true
	case model.RelatedMerit:
		return Descriptor{Variant: Success, Label: "Merit"}, true
	case model.RelatedDemerit:
		return Descriptor{Variant: Danger, Label: "Demerit"}, true
	default:
		return Descriptor{}, false
	}
}

// ForGoalStatus returns the badge for a goal status. Unknown statuses get a
// secondary badge labelled with the raw status and no icon.
func ForGoalStatus(s model.GoalStatus) Descriptor {
	switch s {
	case model.GoalCompleted:
		return Descriptor{Variant: Success, Label: "Completed", Icon: IconCheck}
	case model.GoalInProgress:
		return Descriptor{Variant: Info, Label: "In Progress", Icon: IconClock}
	case model.GoalMissed:
		return Descriptor{Variant: Danger, Label: "Missed", Icon: IconCross}
	case model.GoalPending:
		return Descriptor{Variant: Warning, Label: "Pending", Icon: IconClock}
	default:
		return Descriptor{Variant: Secondary, Label: string(s)}
	}
}

// ForRecord returns the points badge of a merit/demerit record. Anything that
// is not a merit is drawn as a deduction.
func ForRecord(r model.MeritDemerit) Descriptor {
	if r.Type == model.Merit {
		return Descriptor{Variant: Success, Label: "+" + strconv.Itoa(r.Points) + " points", Icon: IconAward}
	}
	return Descriptor{Variant: Danger, Label: "-" + strconv.Itoa(r.Points) + " points", Icon: IconThumbs}
}

// Role is the header badge for the signed-in role.
func Role(name string) Descriptor {
	return Descriptor{Variant: Primary, Label: name}
}
