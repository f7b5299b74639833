package httpfacade

import (
	"context"
	"net/http"

	"github.com/banton/stompy-ticketing/internal/types"
)

type linkAddBody struct {
	TargetID int64          `json:"target_id"`
	LinkType types.LinkType `json:"link_type"`
}

// handleLinkAdd serves POST /projects/{name}/tickets/{id}/links.
func (f *Facade) handleLinkAdd(w http.ResponseWriter, r *http.Request) {
	f.dispatch(w, r, "LinkAdd", func(ctx context.Context) (any, error) {
		sourceID, err := pathID(r, "id")
		if err != nil {
			return nil, err
		}
		var body linkAddBody
		if err := decodeBody(r, &body); err != nil {
			return nil, err
		}

		svc, release, err := f.boundService(ctx, r)
		if err != nil {
			return nil, err
		}
		defer release()

		return svc.LinkAdd(ctx, sourceID, body.TargetID, body.LinkType)
	})
}

// handleLinkList serves GET /projects/{name}/tickets/{id}/links.
func (f *Facade) handleLinkList(w http.ResponseWriter, r *http.Request) {
	f.dispatch(w, r, "LinkList", func(ctx context.Context) (any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return nil, err
		}

		svc, release, err := f.boundService(ctx, r)
		if err != nil {
			return nil, err
		}
		defer release()

		outgoing, incoming, err := svc.LinkList(ctx, id)
		if err != nil {
			return nil, err
		}
		return map[string]any{"outgoing_links": outgoing, "incoming_links": incoming}, nil
	})
}

// handleLinkRemove serves DELETE /projects/{name}/tickets/{id}/links/{link_id}.
func (f *Facade) handleLinkRemove(w http.ResponseWriter, r *http.Request) {
	f.dispatch(w, r, "LinkRemove", func(ctx context.Context) (any, error) {
		linkID, err := pathID(r, "link_id")
		if err != nil {
			return nil, err
		}

		svc, release, err := f.boundService(ctx, r)
		if err != nil {
			return nil, err
		}
		defer release()

		if err := svc.LinkRemove(ctx, linkID); err != nil {
			return nil, err
		}
		return map[string]any{"removed": true}, nil
	})
}
