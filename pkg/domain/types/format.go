package types

import "fmt"

// Format is the shape of the serialized dictionary text
type Format string

const (
	// FormatList is an array of {"id","description","briefing"} objects.
	FormatList Format = "list"
	// FormatMap is an object of id -> {"description","briefing"}.
	FormatMap Format = "map"
)

// AllFormats returns all valid formats
func AllFormats() []Format {
	return []Format{
		FormatList,
		FormatMap,
	}
}

// IsValid checks if the format is valid
func (f Format) IsValid() bool {
	switch f {
	case FormatList,
		FormatMap:
		return true
	default:
		return false
	}
}

// Normalize returns the format, treating empty as FormatList.
func (f Format) Normalize() Format {
	if f == "" {
		return FormatList
	}
	return f
}

// String returns the string representation of the format
func (f Format) String() string {
	return string(f)
}

// ParseFormat parses a string into a Format
func ParseFormat(s string) (Format, error) {
	f := Format(s).Normalize()
	if !f.IsValid() {
		return "", fmt.Errorf("invalid format: %s", s)
	}
	return f, nil
}
