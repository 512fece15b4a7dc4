package sample

import (
	"strings"

	"github.com/pkg/errors"
)

// Criterion selects which scalar channel a layer filters on.
type Criterion int

// The known criteria.
const (
	CriterionLOD Criterion = iota
	CriterionDepth
	CriterionMatting
	CriterionSaliencyAttention
	CriterionSaliencyObjectness
)

var criterionNames = map[Criterion]string{
	CriterionLOD:                "lod",
	CriterionDepth:              "depth",
	CriterionMatting:            "matting",
	CriterionSaliencyAttention:  "saliency-attention",
	CriterionSaliencyObjectness: "saliency-objectness",
}

// Criteria lists every criterion in index order.
func Criteria() []Criterion {
	return []Criterion{
		CriterionLOD,
		CriterionDepth,
		CriterionMatting,
		CriterionSaliencyAttention,
		CriterionSaliencyObjectness,
	}
}

func (c Criterion) String() string {
	if name, ok := criterionNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseCriterion parses a criterion name. Both the dashed form ("saliency-attention")
// and the display labels used in saved configs ("Saliency Attention", "Lod") are
// accepted, case-insensitively.
func ParseCriterion(name string) (Criterion, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	norm = strings.NewReplacer(" ", "-", "_", "-").Replace(norm)
	for c, n := range criterionNames {
		if n == norm {
			return c, nil
		}
	}
	return 0, errors.Errorf("unknown criterion %q", name)
}
