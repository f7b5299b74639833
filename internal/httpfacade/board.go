package httpfacade

import (
	"context"
	"net/http"

	"github.com/banton/stompy-ticketing/internal/types"
)

// handleBoard serves GET /projects/{name}/tickets/board.
func (f *Facade) handleBoard(w http.ResponseWriter, r *http.Request) {
	f.dispatch(w, r, "Board", func(ctx context.Context) (any, error) {
		view := types.BoardView(r.URL.Query().Get("view"))
		if view == "" {
			view = types.BoardKanban
		}
		ticketType := queryTicketType(r, "type")

		svc, release, err := f.boundService(ctx, r)
		if err != nil {
			return nil, err
		}
		defer release()

		result, err := svc.Board(ctx, view, ticketType)
		if err != nil {
			return nil, err
		}
		if view == types.BoardSummary {
			return map[string]any{"summary": result.Summary}, nil
		}
		return map[string]any{"kanban": result.Kanban}, nil
	})
}
