package configurator

import (
	"fmt"
	"sort"

	"github.com/Vigneshforcecrm/dream-lease-nextjs/internal/catalog"
)

// StepKind identifies which wizard screen a step renders
type StepKind int

const (
	StepModel StepKind = iota
	StepColor
	StepWheels
	StepInterior
	StepPackages
	StepSummary
	StepUnsupported
)

// Default sequences used when the catalog leaves sequence unset (or 0)
const (
	SequenceModel    = 1
	SequenceColor    = 2
	SequenceWheels   = 3
	SequenceInterior = 4
	SequencePackages = 5
	SequenceSummary  = 999
)

var stepKindNames = map[StepKind]string{
	StepModel:       "model",
	StepColor:       "color",
	StepWheels:      "wheels",
	StepInterior:    "interior",
	StepPackages:    "packages",
	StepSummary:     "summary",
	StepUnsupported: "unsupported",
}

func (k StepKind) String() string {
	if name, ok := stepKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("StepKind(%d)", int(k))
}

// MarshalText renders the kind as its lowercase name in JSON
func (k StepKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a lowercase kind name
func (k *StepKind) UnmarshalText(text []byte) error {
	for kind, name := range stepKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown step kind %q", string(text))
}

// Step is one screen of the configuration wizard
type Step struct {
	Kind     StepKind `json:"kind"`
	Label    string   `json:"label"`
	Sequence int      `json:"sequence"`

	// Set for color steps
	CategoryCode string `json:"categoryCode,omitempty"`

	// Set for component steps
	GroupID             string `json:"groupId,omitempty"`
	MaxBundleComponents int    `json:"maxBundleComponents,omitempty"`
}

// UnsupportedGroup is a component group whose name maps to no step kind
type UnsupportedGroup struct {
	GroupID string `json:"groupId"`
	Name    string `json:"name"`
}

// Plan is the ordered step list for a product
type Plan struct {
	Steps       []Step             `json:"steps"`
	Unsupported []UnsupportedGroup `json:"unsupported,omitempty"`
}

// groupKinds maps exact component group names to their step kind
var groupKinds = map[string]struct {
	kind     StepKind
	label    string
	sequence int
}{
	"Wheels":   {StepWheels, "Wheels", SequenceWheels},
	"Interior": {StepInterior, "Interior", SequenceInterior},
	"Package":  {StepPackages, "Packages", SequencePackages},
}

// Steps derives the wizard plan from a catalog snapshot: Model first, one
// Color step per attribute category, a step per recognised component
// group, then Summary. Steps are stably sorted by sequence so ties keep
// catalog order.
func Steps(p *catalog.Product) Plan {
	steps := []Step{{Kind: StepModel, Label: "Model", Sequence: SequenceModel}}
	var unsupported []UnsupportedGroup

	if p != nil {
		for _, category := range p.AttributeCategories {
			steps = append(steps, Step{
				Kind:         StepColor,
				Label:        "Color",
				Sequence:     sequenceOr(category.Sequence, SequenceColor),
				CategoryCode: category.Code,
			})
		}

		for _, group := range p.ProductComponentGroups {
			mapping, ok := groupKinds[group.Name]
			if !ok {
				unsupported = append(unsupported, UnsupportedGroup{GroupID: group.ID, Name: group.Name})
				continue
			}
			steps = append(steps, Step{
				Kind:                mapping.kind,
				Label:               mapping.label,
				Sequence:            sequenceOr(group.Sequence, mapping.sequence),
				GroupID:             group.ID,
				MaxBundleComponents: group.MaxBundleComponents,
			})
		}
	}

	steps = append(steps, Step{Kind: StepSummary, Label: "Summary", Sequence: SequenceSummary})

	sort.SliceStable(steps, func(i, j int) bool {
		return steps[i].Sequence < steps[j].Sequence
	})

	return Plan{Steps: steps, Unsupported: unsupported}
}

func sequenceOr(seq *int, fallback int) int {
	if seq == nil || *seq == 0 {
		return fallback
	}
	return *seq
}

// Kinds lists the step kinds of the plan in order
func (p Plan) Kinds() []StepKind {
	kinds := make([]StepKind, len(p.Steps))
	for i, s := range p.Steps {
		kinds[i] = s.Kind
	}
	return kinds
}
