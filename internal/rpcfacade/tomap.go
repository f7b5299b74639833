package rpcfacade

import (
	"encoding/json"

	"github.com/banton/stompy-ticketing/internal/types"
)

// toMap round-trips v through its JSON encoding to produce the plain
// map[string]any shape every RPC result must be, reusing v's existing json
// tags rather than hand-writing a parallel field list.
func toMap(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, types.WrapInternal(err, "encode result")
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, types.WrapInternal(err, "decode result")
	}
	return m, nil
}
