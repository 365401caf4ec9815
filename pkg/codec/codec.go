// Package codec converts dictionary records to and from JSON text.
//
// Two shapes are supported. The list shape is an array of
// {"id","description","briefing"} objects; the map shape is an object keyed
// by the textual id whose values hold "description" and "briefing". Both
// keep entries in the order they were given, and values are escaped, so any
// valid UTF-8 string round-trips. Records never hold invalid UTF-8.
package codec

import (
	"bytes"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trio/pkg/domain/interfaces"
	"github.com/secmon-lab/trio/pkg/domain/model"
	"github.com/secmon-lab/trio/pkg/domain/types"
	"github.com/tidwall/gjson"
)

// New returns the codec for the given format
func New[K types.Identifier](format types.Format) (interfaces.Codec[K], error) {
	switch format.Normalize() {
	case types.FormatList:
		return &List[K]{}, nil
	case types.FormatMap:
		return &Object[K]{}, nil
	default:
		return nil, goerr.Wrap(model.ErrInvalidConfig, "unknown dictionary format", goerr.V("format", format))
	}
}

// Detect guesses the format of encoded text. Blank text is reported as
// fallback since it decodes to zero entries in either shape.
func Detect(data []byte, fallback types.Format) (types.Format, error) {
	if isBlank(data) {
		return fallback, nil
	}
	if !gjson.ValidBytes(data) {
		return "", goerr.Wrap(model.ErrDecode, "text is not valid JSON")
	}

	switch parsed := gjson.ParseBytes(data); {
	case parsed.IsArray():
		return types.FormatList, nil
	case parsed.IsObject():
		return types.FormatMap, nil
	default:
		return "", goerr.Wrap(model.ErrDecode, "top level must be an array or an object")
	}
}

func isBlank(data []byte) bool {
	return len(bytes.TrimSpace(data)) == 0
}

// parseText checks that data is well-formed JSON and returns its root value
func parseText(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, goerr.Wrap(model.ErrDecode, "text is not valid JSON")
	}
	return gjson.ParseBytes(data), nil
}

// stringField reads a required string member of obj
func stringField(obj gjson.Result, name string) (string, error) {
	v := obj.Get(name)
	if !v.Exists() {
		return "", goerr.Wrap(model.ErrDecode, "missing field", goerr.V(model.FieldKey, name))
	}
	if v.Type != gjson.String {
		return "", goerr.Wrap(model.ErrDecode, "field must be a string", goerr.V(model.FieldKey, name))
	}
	return v.Str, nil
}

// newRecord builds a record from decoded values, reporting invalid content
// as a decode failure
func newRecord[K types.Identifier](idText, description, briefing string, offset int) (*model.Record[K], error) {
	id, err := types.ParseID[K](idText)
	if err != nil {
		return nil, goerr.Wrap(model.ErrDecode, "invalid id",
			goerr.V(model.OffsetKey, offset), goerr.V(model.IDKey, idText), goerr.V("reason", err.Error()))
	}

	record, err := model.NewRecord(id, description, briefing)
	if err != nil {
		return nil, goerr.Wrap(model.ErrDecode, "invalid record",
			goerr.V(model.OffsetKey, offset), goerr.V(model.IDKey, idText), goerr.V("reason", err.Error()))
	}
	return record, nil
}
