package model

import "fmt"

// SelectionKind discriminates the two legal ingredient references.
type SelectionKind int

const (
	// SelectionItem references a specific item by ID.
	SelectionItem SelectionKind = iota + 1

	// SelectionGroup references a substitute group by ID.
	SelectionGroup
)

// Selection is a tagged variant: a recipe-ingredient line references
// exactly one of a specific item or a substitute group. Constructing
// the value through SelectItem/SelectGroup makes both-or-neither
// unrepresentable; the zero Selection is invalid.
type Selection struct {
	Kind SelectionKind `json:"kind"`
	ID   int64         `json:"id"`
}

// SelectItem returns a Selection referencing a specific item.
func SelectItem(itemID int64) Selection {
	return Selection{Kind: SelectionItem, ID: itemID}
}

// SelectGroup returns a Selection referencing a substitute group.
func SelectGroup(groupID int64) Selection {
	return Selection{Kind: SelectionGroup, ID: groupID}
}

// Valid reports whether the selection carries a recognized kind and a
// positive identifier.
func (s Selection) Valid() bool {
	return (s.Kind == SelectionItem || s.Kind == SelectionGroup) && s.ID > 0
}

func (s Selection) String() string {
	switch s.Kind {
	case SelectionItem:
		return fmt.Sprintf("item:%d", s.ID)
	case SelectionGroup:
		return fmt.Sprintf("group:%d", s.ID)
	default:
		return "invalid"
	}
}
