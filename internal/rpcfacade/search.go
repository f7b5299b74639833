package rpcfacade

import (
	"context"

	"github.com/banton/stompy-ticketing/internal/ticketsvc"
	"github.com/banton/stompy-ticketing/internal/types"
)

type searchArgs struct {
	Project string            `json:"project"`
	Query   string            `json:"query"`
	Type    *types.TicketType `json:"type"`
	Status  *string           `json:"status"`
	Limit   int               `json:"limit"`
}

// handleSearch serves the "ticket_search" tool.
func (f *Facade) handleSearch(ctx context.Context, args map[string]any) (map[string]any, error) {
	return f.dispatch(ctx, "ticket_search", func(ctx context.Context) (map[string]any, error) {
		var a searchArgs
		if err := decode(args, &a); err != nil {
			return nil, err
		}

		svc, release, err := f.boundService(ctx, a.Project)
		if err != nil {
			return nil, err
		}
		defer release()

		hits, err := svc.Search(ctx, ticketsvc.SearchParams{
			Query:  a.Query,
			Type:   a.Type,
			Status: a.Status,
			Limit:  a.Limit,
		})
		if err != nil {
			return nil, err
		}
		return toMap(map[string]any{"hits": hits})
	})
}
