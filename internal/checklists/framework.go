package checklists

import (
	"encoding/json"
	"slices"
)

// Framework identifies the compliance framework a checklist item belongs to.
type Framework string

// Supported compliance frameworks.
const (
	FrameworkAPGFMS   Framework = "APGF-MS"
	FrameworkISO9001  Framework = "ISO9001"
	FrameworkISO27001 Framework = "ISO27001"
)

var frameworks = []Framework{
	FrameworkAPGFMS,
	FrameworkISO9001,
	FrameworkISO27001,
}

// Frameworks returns the list of supported compliance frameworks.
func Frameworks() []Framework {
	return frameworks
}

// UnmarshalJSON validates that the decoded string is a known framework.
func (f *Framework) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Framework(raw)
	if !slices.Contains(frameworks, v) {
		return ErrInvalidFramework
	}
	*f = v
	return nil
}

// ParseFramework validates a string as a known compliance framework.
func ParseFramework(s string) (Framework, error) {
	v := Framework(s)
	if !slices.Contains(frameworks, v) {
		return "", ErrInvalidFramework
	}
	return v, nil
}
