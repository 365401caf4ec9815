package types

import (
	"fmt"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
)

// Identifier is the set of key types a dictionary can be keyed by.
type Identifier interface {
	int64 | string
}

// Integer is the subset of Identifier with a numeric distance.
type Integer interface {
	int64
}

// ParseID converts the textual form of an identifier into K.
func ParseID[K Identifier](s string) (K, error) {
	var id K
	switch p := any(&id).(type) {
	case *int64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return id, goerr.Wrap(err, "identifier must be an integer", goerr.V("id", s))
		}
		*p = v
	case *string:
		if s == "" {
			return id, goerr.New("identifier cannot be empty")
		}
		*p = s
	}
	return id, nil
}

// FormatID returns the textual form of an identifier, as used for object keys.
func FormatID[K Identifier](id K) string {
	switch v := any(id).(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case string:
		return v
	}
	return fmt.Sprint(id)
}
