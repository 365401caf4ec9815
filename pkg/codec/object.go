package codec

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trio/pkg/domain/model"
	"github.com/secmon-lab/trio/pkg/domain/types"
	"github.com/tidwall/gjson"
)

type objectEntry struct {
	Description string `json:"description"`
	Briefing    string `json:"briefing"`
}

// Object encodes records as {"<id>":{"description":..,"briefing":..},..}.
// Keys are written in the given order rather than sorted.
type Object[K types.Identifier] struct{}

func (Object[K]) Format() types.Format {
	return types.FormatMap
}

func (Object[K]) Encode(records model.Records[K]) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range records {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.MarshalNoEscape(types.FormatID(r.ID()))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode id", goerr.V(model.IDKey, r.ID()))
		}
		value, err := json.MarshalNoEscape(objectEntry{
			Description: r.Description(),
			Briefing:    r.Briefing(),
		})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to encode record", goerr.V(model.IDKey, r.ID()))
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Decode keeps document order, including repeated keys.
func (Object[K]) Decode(data []byte) (model.Records[K], error) {
	records := model.Records[K]{}
	if isBlank(data) {
		return records, nil
	}

	root, err := parseText(data)
	if err != nil {
		return nil, err
	}
	if !root.IsObject() {
		return nil, goerr.Wrap(model.ErrDecode, "map text must be a JSON object")
	}

	var decodeErr error
	offset := 0
	root.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			decodeErr = goerr.Wrap(model.ErrDecode, "map value must be an object",
				goerr.V(model.OffsetKey, offset), goerr.V(model.IDKey, key.Str))
			return false
		}

		var description, briefing string
		if description, decodeErr = stringField(value, "description"); decodeErr != nil {
			decodeErr = goerr.Wrap(decodeErr, "bad map entry", goerr.V(model.IDKey, key.Str))
			return false
		}
		if briefing, decodeErr = stringField(value, "briefing"); decodeErr != nil {
			decodeErr = goerr.Wrap(decodeErr, "bad map entry", goerr.V(model.IDKey, key.Str))
			return false
		}

		var record *model.Record[K]
		if record, decodeErr = newRecord[K](key.Str, description, briefing, offset); decodeErr != nil {
			return false
		}
		records = append(records, record)
		offset++
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}

	return records, nil
}
