package httpfacade

import (
	"net/http"
	"strconv"

	"github.com/banton/stompy-ticketing/internal/types"
)

func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, types.NewValidationError("invalid %s %q", name, raw)
	}
	return id, nil
}

func queryString(r *http.Request, key string) *string {
	if !r.URL.Query().Has(key) {
		return nil
	}
	v := r.URL.Query().Get(key)
	return &v
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func queryTicketType(r *http.Request, key string) *types.TicketType {
	if !r.URL.Query().Has(key) {
		return nil
	}
	t := types.TicketType(r.URL.Query().Get(key))
	return &t
}

func queryPriority(r *http.Request, key string) *types.Priority {
	if !r.URL.Query().Has(key) {
		return nil
	}
	p := types.Priority(r.URL.Query().Get(key))
	return &p
}

func queryTags(r *http.Request, key string) []string {
	return r.URL.Query()[key]
}
