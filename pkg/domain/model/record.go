package model

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trio/pkg/domain/types"
)

// NewTextID generates a UUID v4 identifier for string-keyed dictionaries
func NewTextID() string {
	return uuid.New().String()
}

// Record is a single dictionary entry. The identifier is fixed at
// construction; description and briefing can be replaced but never emptied.
type Record[K types.Identifier] struct {
	id          K
	description string
	briefing    string
}

// NewRecord creates a Record, rejecting blank description or briefing
func NewRecord[K types.Identifier](id K, description, briefing string) (*Record[K], error) {
	if err := validateText("description", description); err != nil {
		return nil, goerr.Wrap(err, "invalid record", goerr.V(IDKey, id))
	}
	if err := validateText("briefing", briefing); err != nil {
		return nil, goerr.Wrap(err, "invalid record", goerr.V(IDKey, id))
	}

	return &Record[K]{
		id:          id,
		description: description,
		briefing:    briefing,
	}, nil
}

// ValidateDescription checks a description without creating a record
func ValidateDescription(description string) error {
	return validateText("description", description)
}

// ValidateBriefing checks a briefing without creating a record
func ValidateBriefing(briefing string) error {
	return validateText("briefing", briefing)
}

func validateText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return goerr.Wrap(ErrValidation, field+" cannot be empty", goerr.V(FieldKey, field))
	}
	if !utf8.ValidString(value) {
		return goerr.Wrap(ErrValidation, field+" must be valid UTF-8", goerr.V(FieldKey, field))
	}
	return nil
}

func (r *Record[K]) ID() K {
	return r.id
}

func (r *Record[K]) Description() string {
	return r.description
}

func (r *Record[K]) Briefing() string {
	return r.briefing
}

// SetDescription replaces the description. The record is left untouched on error.
func (r *Record[K]) SetDescription(description string) error {
	if err := validateText("description", description); err != nil {
		return goerr.Wrap(err, "failed to update description", goerr.V(IDKey, r.id))
	}
	r.description = description
	return nil
}

// SetBriefing replaces the briefing. The record is left untouched on error.
func (r *Record[K]) SetBriefing(briefing string) error {
	if err := validateText("briefing", briefing); err != nil {
		return goerr.Wrap(err, "failed to update briefing", goerr.V(IDKey, r.id))
	}
	r.briefing = briefing
	return nil
}

// Matches reports whether keyword is a substring of the description or briefing
func (r *Record[K]) Matches(keyword string) bool {
	return strings.Contains(r.description, keyword) || strings.Contains(r.briefing, keyword)
}

// HasPrefix reports whether the description or briefing starts with prefix
func (r *Record[K]) HasPrefix(prefix string) bool {
	return strings.HasPrefix(r.description, prefix) || strings.HasPrefix(r.briefing, prefix)
}

// Clone returns a copy that does not share state with r
func (r *Record[K]) Clone() *Record[K] {
	copied := *r
	return &copied
}

// Equal compares all three fields
func (r *Record[K]) Equal(other *Record[K]) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.id == other.id &&
		r.description == other.description &&
		r.briefing == other.briefing
}

func (r *Record[K]) String() string {
	return fmt.Sprintf("Entry{id=%s, description='%s', briefing='%s'}",
		types.FormatID(r.id), r.description, r.briefing)
}
