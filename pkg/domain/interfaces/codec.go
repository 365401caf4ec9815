package interfaces

import (
	"github.com/secmon-lab/trio/pkg/domain/model"
	"github.com/secmon-lab/trio/pkg/domain/types"
)

// Codec converts records to and from the dictionary text format
type Codec[K types.Identifier] interface {
	// Encode writes records in the given order
	Encode(records model.Records[K]) ([]byte, error)

	// Decode returns records in document order. Duplicated identifiers are
	// kept; it is up to the caller to de-duplicate.
	Decode(data []byte) (model.Records[K], error)

	Format() types.Format
}
