package codec

import (
	"github.com/goccy/go-json"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/trio/pkg/domain/model"
	"github.com/secmon-lab/trio/pkg/domain/types"
	"github.com/tidwall/gjson"
)

type listEntry[K types.Identifier] struct {
	ID          K      `json:"id"`
	Description string `json:"description"`
	Briefing    string `json:"briefing"`
}

// List encodes records as [{"id":..,"description":..,"briefing":..},..]
type List[K types.Identifier] struct{}

func (List[K]) Format() types.Format {
	return types.FormatList
}

func (List[K]) Encode(records model.Records[K]) ([]byte, error) {
	entries := make([]listEntry[K], 0, len(records))
	for _, r := range records {
		entries = append(entries, listEntry[K]{
			ID:          r.ID(),
			Description: r.Description(),
			Briefing:    r.Briefing(),
		})
	}

	data, err := json.MarshalNoEscape(entries)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode dictionary", goerr.V("count", len(records)))
	}
	return data, nil
}

// Decode accepts numeric or string ids for either key type as long as the
// value parses as K.
func (List[K]) Decode(data []byte) (model.Records[K], error) {
	records := model.Records[K]{}
	if isBlank(data) {
		return records, nil
	}

	root, err := parseText(data)
	if err != nil {
		return nil, err
	}
	if !root.IsArray() {
		return nil, goerr.Wrap(model.ErrDecode, "list text must be a JSON array")
	}

	var decodeErr error
	offset := 0
	root.ForEach(func(_, entry gjson.Result) bool {
		var record *model.Record[K]
		record, decodeErr = decodeListEntry[K](entry, offset)
		if decodeErr != nil {
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

func decodeListEntry[K types.Identifier](entry gjson.Result, offset int) (*model.Record[K], error) {
	if !entry.IsObject() {
		return nil, goerr.Wrap(model.ErrDecode, "list entry must be an object", goerr.V(model.OffsetKey, offset))
	}

	id := entry.Get("id")
	var idText string
	switch id.Type {
	case gjson.Number:
		idText = id.Raw
	case gjson.String:
		idText = id.Str
	default:
		return nil, goerr.Wrap(model.ErrDecode, "list entry needs a number or string id", goerr.V(model.OffsetKey, offset))
	}

	description, err := stringField(entry, "description")
	if err != nil {
		return nil, goerr.Wrap(err, "bad list entry", goerr.V(model.OffsetKey, offset))
	}
	briefing, err := stringField(entry, "briefing")
	if err != nil {
		return nil, goerr.Wrap(err, "bad list entry", goerr.V(model.OffsetKey, offset))
	}

	return newRecord[K](idText, description, briefing, offset)
}
