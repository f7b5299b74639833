package rpcfacade

import (
	"github.com/go-viper/mapstructure/v2"

	"github.com/banton/stompy-ticketing/internal/types"
)

// decode populates out (a pointer to a request-args struct) from the
// generic args map every RPC handler receives, matching fields by their
// json tag so the same struct can serve both this facade and the HTTP
// facade's JSON bodies.
func decode(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "json",
	})
	if err != nil {
		return types.WrapInternal(err, "build args decoder")
	}
	if err := dec.Decode(args); err != nil {
		return types.NewValidationError("invalid arguments: %v", err)
	}
	return nil
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}
