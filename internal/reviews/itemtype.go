package reviews

import (
	"encoding/json"
	"slices"
)

// ItemType categorizes the source of a review item.
type ItemType string

// Valid review item types.
const (
	TypeClassification ItemType = "classification"
	TypeAuditItem      ItemType = "audit_item"
	TypeAnomaly        ItemType = "anomaly"
)

var itemTypes = []ItemType{
	TypeClassification,
	TypeAuditItem,
	TypeAnomaly,
}

// ItemTypes returns the list of valid review item types.
func ItemTypes() []ItemType {
	return itemTypes
}

// UnmarshalJSON validates that the decoded string is a known item type.
func (t *ItemType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := ItemType(raw)
	if !slices.Contains(itemTypes, v) {
		return ErrInvalidType
	}
	*t = v
	return nil
}

// ParseItemType validates a string as a known review item type.
// Returns ErrInvalidType if the value is not recognized.
func ParseItemType(s string) (ItemType, error) {
	v := ItemType(s)
	if !slices.Contains(itemTypes, v) {
		return "", ErrInvalidType
	}
	return v, nil
}
