package types

import "fmt"

// KeyType selects the identifier type of a dictionary
type KeyType string

const (
	KeyTypeInt    KeyType = "int"
	KeyTypeString KeyType = "string"
)

// AllKeyTypes returns all valid key types
func AllKeyTypes() []KeyType {
	return []KeyType{
		KeyTypeInt,
		KeyTypeString,
	}
}

// IsValid checks if the key type is valid
func (k KeyType) IsValid() bool {
	switch k {
	case KeyTypeInt,
		KeyTypeString:
		return true
	default:
		return false
	}
}

// Normalize returns the key type, treating empty as KeyTypeInt.
func (k KeyType) Normalize() KeyType {
	if k == "" {
		return KeyTypeInt
	}
	return k
}

// String returns the string representation of the key type
func (k KeyType) String() string {
	return string(k)
}

// ParseKeyType parses a string into a KeyType
func ParseKeyType(s string) (KeyType, error) {
	k := KeyType(s).Normalize()
	if !k.IsValid() {
		return "", fmt.Errorf("invalid key type: %s", s)
	}
	return k, nil
}
