package httpfacade

import (
	"context"
	"net/http"

	"github.com/banton/stompy-ticketing/internal/ticketsvc"
)

// handleSearch serves GET /projects/{name}/tickets/search.
func (f *Facade) handleSearch(w http.ResponseWriter, r *http.Request) {
	f.dispatch(w, r, "Search", func(ctx context.Context) (any, error) {
		svc, release, err := f.boundService(ctx, r)
		if err != nil {
			return nil, err
		}
		defer release()

		hits, err := svc.Search(ctx, ticketsvc.SearchParams{
			Query:  r.URL.Query().Get("query"),
			Type:   queryTicketType(r, "type"),
			Status: queryString(r, "status"),
			Limit:  queryInt(r, "limit", 0),
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{"hits": hits}, nil
	})
}
