package rpcfacade

import (
	"context"

	"github.com/banton/stompy-ticketing/internal/types"
)

type boardArgs struct {
	Project string          `json:"project"`
	View    types.BoardView `json:"view"`
	Type    *types.TicketType `json:"type"`
}

// handleBoard serves the "ticket_board" tool. It has no action dispatch:
// the single parameter set selects between the kanban and summary shapes.
func (f *Facade) handleBoard(ctx context.Context, args map[string]any) (map[string]any, error) {
	return f.dispatch(ctx, "ticket_board", func(ctx context.Context) (map[string]any, error) {
		var a boardArgs
		if err := decode(args, &a); err != nil {
			return nil, err
		}
		if a.View == "" {
			a.View = types.BoardKanban
		}

		svc, release, err := f.boundService(ctx, a.Project)
		if err != nil {
			return nil, err
		}
		defer release()

		result, err := svc.Board(ctx, a.View, a.Type)
		if err != nil {
			return nil, err
		}

		if a.View == types.BoardSummary {
			return toMap(map[string]any{"summary": result.Summary})
		}
		return toMap(map[string]any{"kanban": result.Kanban})
	})
}
