// Package rules validates a recipe's stage composition against the
// stage-type rule table before the recipe is considered complete.
package rules

import (
	"fmt"

	"github.com/roach88/brewcode/internal/model"
)

// Violation codes. One code per check; the message distinguishes
// variants within a check (e.g. a required stage that is missing vs
// present twice).
const (
	// CodeRequiredStage: a stage type flagged isRequired is not
	// present exactly once.
	CodeRequiredStage = "REQUIRED_STAGE"

	// CodeMissingPrerequisite: a present stage type declares a
	// prerequisite that is absent or not ordered earlier.
	CodeMissingPrerequisite = "MISSING_PREREQUISITE"

	// CodeExclusionConflict: two mutually exclusive stage types are
	// both present.
	CodeExclusionConflict = "EXCLUSION_CONFLICT"

	// CodeStageOrder: stage order values are not strictly increasing
	// or contain duplicates.
	CodeStageOrder = "STAGE_ORDER"

	// CodeUnknownStageType: a stage references a type missing from the
	// rule table. The storage layer's foreign keys should make this
	// impossible; it is reported rather than ignored.
	CodeUnknownStageType = "UNKNOWN_STAGE_TYPE"
)

// Violation describes one failed stage-composition check.
type Violation struct {
	Code          string `json:"code"`
	StageTypeID   int64  `json:"stageTypeID,omitempty"`
	StageTypeName string `json:"stageTypeName,omitempty"`
	RelatedTypeID int64  `json:"relatedTypeID,omitempty"`
	RelatedName   string `json:"relatedName,omitempty"`
	Message       string `json:"message"`
}

// Error implements the error interface.
func (v Violation) Error() string {
	return fmt.Sprintf("[%s] %s", v.Code, v.Message)
}

// StageRef is one stage occurrence in a candidate recipe: which stage
// type, at which order position.
type StageRef struct {
	StageTypeID int64
	StageOrder  int
}

// Validate checks a candidate recipe's ordered stage list against the
// full stage-type rule table. It returns all violations found rather
// than failing fast, so a caller can report every problem at once. An
// empty result means the recipe is valid.
func Validate(stages []StageRef, types []model.StageType) []Violation {
	var violations []Violation

	byID := make(map[int64]model.StageType, len(types))
	for _, st := range types {
		byID[st.StageTypeID] = st
	}

	// Occurrence count and earliest order per present stage type.
	count := make(map[int64]int)
	firstOrder := make(map[int64]int)
	for _, s := range stages {
		count[s.StageTypeID]++
		if count[s.StageTypeID] == 1 {
			firstOrder[s.StageTypeID] = s.StageOrder
		}
	}

	violations = append(violations, checkUnknownTypes(stages, byID)...)
	violations = append(violations, checkRequired(types, count)...)
	violations = append(violations, checkPrerequisites(stages, byID, count, firstOrder)...)
	violations = append(violations, checkExclusions(stages, byID, count)...)
	violations = append(violations, checkOrdering(stages)...)

	return violations
}

func checkUnknownTypes(stages []StageRef, byID map[int64]model.StageType) []Violation {
	var violations []Violation
	seen := make(map[int64]bool)
	for _, s := range stages {
		if _, ok := byID[s.StageTypeID]; !ok && !seen[s.StageTypeID] {
			seen[s.StageTypeID] = true
			violations = append(violations, Violation{
				Code:        CodeUnknownStageType,
				StageTypeID: s.StageTypeID,
				Message:     fmt.Sprintf("stage type %d is not in the rule table", s.StageTypeID),
			})
		}
	}
	return violations
}

// checkRequired: every required stage type present exactly once.
func checkRequired(types []model.StageType, count map[int64]int) []Violation {
	var violations []Violation
	for _, st := range types {
		if !st.IsRequired {
			continue
		}
		switch n := count[st.StageTypeID]; {
		case n == 0:
			violations = append(violations, Violation{
				Code:          CodeRequiredStage,
				StageTypeID:   st.StageTypeID,
				StageTypeName: st.Name,
				Message:       fmt.Sprintf("required stage %q is missing", st.Name),
			})
		case n > 1:
			violations = append(violations, Violation{
				Code:          CodeRequiredStage,
				StageTypeID:   st.StageTypeID,
				StageTypeName: st.Name,
				Message:       fmt.Sprintf("required stage %q must appear exactly once, found %d", st.Name, n),
			})
		}
	}
	return violations
}

// checkPrerequisites walks each present stage's requires chain. The
// seed data only declares single-level dependencies, but the walk uses
// a visited set so chained or even cyclic reference data cannot loop
// the validator.
func checkPrerequisites(stages []StageRef, byID map[int64]model.StageType, count map[int64]int, firstOrder map[int64]int) []Violation {
	var violations []Violation
	reported := make(map[[2]int64]bool)

	for _, s := range stages {
		st, ok := byID[s.StageTypeID]
		if !ok {
			continue
		}

		visited := map[int64]bool{st.StageTypeID: true}
		current := st
		for current.RequiresStageTypeID != nil {
			reqID := *current.RequiresStageTypeID
			if visited[reqID] {
				break // defensive: cycle in the rule table
			}
			visited[reqID] = true

			req, ok := byID[reqID]
			if !ok {
				break
			}

			pair := [2]int64{s.StageTypeID, reqID}
			if count[reqID] == 0 {
				if !reported[pair] {
					reported[pair] = true
					violations = append(violations, Violation{
						Code:          CodeMissingPrerequisite,
						StageTypeID:   s.StageTypeID,
						StageTypeName: st.Name,
						RelatedTypeID: reqID,
						RelatedName:   req.Name,
						Message:       fmt.Sprintf("stage %q requires %q, which is not present", st.Name, req.Name),
					})
				}
			} else if firstOrder[reqID] >= s.StageOrder {
				if !reported[pair] {
					reported[pair] = true
					violations = append(violations, Violation{
						Code:          CodeMissingPrerequisite,
						StageTypeID:   s.StageTypeID,
						StageTypeName: st.Name,
						RelatedTypeID: reqID,
						RelatedName:   req.Name,
						Message:       fmt.Sprintf("stage %q requires %q earlier in the recipe", st.Name, req.Name),
					})
				}
			}

			current = req
		}
	}

	return violations
}

// checkExclusions enforces exclusions symmetrically: a declaration on
// either side of the pair is enough. Each conflicting pair is reported
// once.
func checkExclusions(stages []StageRef, byID map[int64]model.StageType, count map[int64]int) []Violation {
	var violations []Violation
	reported := make(map[[2]int64]bool)

	for _, s := range stages {
		st, ok := byID[s.StageTypeID]
		if !ok || st.ExcludesStageTypeID == nil {
			continue
		}
		exclID := *st.ExcludesStageTypeID
		if count[exclID] == 0 {
			continue
		}

		pair := [2]int64{st.StageTypeID, exclID}
		if pair[0] > pair[1] {
			pair[0], pair[1] = pair[1], pair[0]
		}
		if reported[pair] {
			continue
		}
		reported[pair] = true

		excl, ok := byID[exclID]
		exclName := fmt.Sprintf("stage type %d", exclID)
		if ok {
			exclName = fmt.Sprintf("%q", excl.Name)
		}
		violations = append(violations, Violation{
			Code:          CodeExclusionConflict,
			StageTypeID:   st.StageTypeID,
			StageTypeName: st.Name,
			RelatedTypeID: exclID,
			RelatedName:   excl.Name,
			Message:       fmt.Sprintf("stage %q cannot be combined with %s", st.Name, exclName),
		})
	}

	return violations
}

// checkOrdering: order values strictly increasing, no duplicates.
func checkOrdering(stages []StageRef) []Violation {
	var violations []Violation
	for i := 1; i < len(stages); i++ {
		if stages[i].StageOrder <= stages[i-1].StageOrder {
			violations = append(violations, Violation{
				Code:        CodeStageOrder,
				StageTypeID: stages[i].StageTypeID,
				Message: fmt.Sprintf("stage order %d at position %d does not increase past %d",
					stages[i].StageOrder, i, stages[i-1].StageOrder),
			})
		}
	}
	return violations
}
