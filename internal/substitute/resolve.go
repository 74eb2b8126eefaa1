// Package substitute resolves a recipe-ingredient selection to a
// concrete item for shopping-list and costing purposes.
package substitute

import (
	"errors"
	"fmt"

	"github.com/roach88/brewcode/internal/model"
)

// ResolveErrorCode categorizes resolution errors.
type ResolveErrorCode string

const (
	// ErrCodeInvalidSelection indicates a selection carrying neither a
	// valid item nor a valid group reference. The storage schema makes
	// this unrepresentable for persisted rows.
	ErrCodeInvalidSelection ResolveErrorCode = "INVALID_SELECTION"

	// ErrCodeUnknownGroup indicates a group reference the caller
	// supplied no data for.
	ErrCodeUnknownGroup ResolveErrorCode = "UNKNOWN_GROUP"

	// ErrCodeEmptyGroup indicates a substitute group with no members.
	ErrCodeEmptyGroup ResolveErrorCode = "EMPTY_GROUP"

	// ErrCodeAmbiguous indicates a group without exactly one preferred
	// member. The resolver never makes an arbitrary pick; the caller
	// must choose.
	ErrCodeAmbiguous ResolveErrorCode = "AMBIGUOUS_SUBSTITUTE"
)

// ResolveError is a coded resolution failure. For ambiguous groups,
// Candidates lists every member so the caller can prompt for a choice.
type ResolveError struct {
	Code       ResolveErrorCode
	GroupID    int64
	GroupName  string
	Candidates []model.SubstituteGroupMember
	Message    string
}

func (e *ResolveError) Error() string {
	if e.GroupID != 0 {
		return fmt.Sprintf("%s: %s (group=%d)", e.Code, e.Message, e.GroupID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsAmbiguous reports whether err is an ambiguous-substitute error.
// Uses errors.As to handle wrapped errors.
func IsAmbiguous(err error) bool {
	var re *ResolveError
	return errors.As(err, &re) && re.Code == ErrCodeAmbiguous
}

// Resolution is the outcome of resolving a selection: the concrete
// item, and the group it came through if the selection was a group.
type Resolution struct {
	ItemID    int64  `json:"itemID"`
	ItemName  string `json:"itemName,omitempty"`
	FromGroup *int64 `json:"fromGroup,omitempty"`
}

// Resolve maps a selection to a concrete item. A specific-item
// selection is returned directly. A group selection resolves to the
// group member flagged preferred; zero or several preferred members
// make the resolution ambiguous.
//
// groups must contain every group the selections may reference, keyed
// by group ID (typically the recipe's groups loaded from storage).
func Resolve(sel model.Selection, groups map[int64]model.SubstituteGroup) (Resolution, error) {
	switch sel.Kind {
	case model.SelectionItem:
		return Resolution{ItemID: sel.ID}, nil

	case model.SelectionGroup:
		group, ok := groups[sel.ID]
		if !ok {
			return Resolution{}, &ResolveError{
				Code:    ErrCodeUnknownGroup,
				GroupID: sel.ID,
				Message: fmt.Sprintf("substitute group %d not loaded", sel.ID),
			}
		}
		return resolveGroup(group)

	default:
		return Resolution{}, &ResolveError{
			Code:    ErrCodeInvalidSelection,
			Message: fmt.Sprintf("selection %v references neither an item nor a group", sel),
		}
	}
}

func resolveGroup(group model.SubstituteGroup) (Resolution, error) {
	if len(group.Members) == 0 {
		return Resolution{}, &ResolveError{
			Code:      ErrCodeEmptyGroup,
			GroupID:   group.GroupID,
			GroupName: group.Name,
			Message:   fmt.Sprintf("substitute group %q has no members", group.Name),
		}
	}

	var preferred []model.SubstituteGroupMember
	for _, m := range group.Members {
		if m.IsPreferred {
			preferred = append(preferred, m)
		}
	}

	if len(preferred) != 1 {
		detail := "no member is flagged preferred"
		if len(preferred) > 1 {
			detail = fmt.Sprintf("%d members are flagged preferred", len(preferred))
		}
		return Resolution{}, &ResolveError{
			Code:       ErrCodeAmbiguous,
			GroupID:    group.GroupID,
			GroupName:  group.Name,
			Candidates: group.Members,
			Message:    fmt.Sprintf("substitute group %q is ambiguous: %s", group.Name, detail),
		}
	}

	groupID := group.GroupID
	return Resolution{
		ItemID:    preferred[0].ItemID,
		ItemName:  preferred[0].ItemName,
		FromGroup: &groupID,
	}, nil
}
