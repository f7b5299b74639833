package rpcfacade

import (
	"context"

	"github.com/banton/stompy-ticketing/internal/types"
)

// LinkAction is the closed set of operations the "ticket_link" tool
// dispatches on.
type LinkAction string

const (
	LinkActionAdd    LinkAction = "add"
	LinkActionList   LinkAction = "list"
	LinkActionRemove LinkAction = "remove"
)

func (a LinkAction) valid() bool {
	switch a {
	case LinkActionAdd, LinkActionList, LinkActionRemove:
		return true
	}
	return false
}

type linkArgs struct {
	Project  string         `json:"project"`
	Action   LinkAction     `json:"action"`
	ID       int64          `json:"id"`
	SourceID int64          `json:"source_id"`
	TargetID int64          `json:"target_id"`
	LinkType types.LinkType `json:"link_type"`
	LinkID   int64          `json:"link_id"`
}

// handleLink serves the "ticket_link" tool.
func (f *Facade) handleLink(ctx context.Context, args map[string]any) (map[string]any, error) {
	return f.dispatch(ctx, "ticket_link."+stringArg(args, "action"), func(ctx context.Context) (map[string]any, error) {
		var a linkArgs
		if err := decode(args, &a); err != nil {
			return nil, err
		}
		if !a.Action.valid() {
			return nil, types.NewValidationError("unknown ticket_link action %q", a.Action)
		}

		svc, release, err := f.boundService(ctx, a.Project)
		if err != nil {
			return nil, err
		}
		defer release()

		switch a.Action {
		case LinkActionAdd:
			link, err := svc.LinkAdd(ctx, a.SourceID, a.TargetID, a.LinkType)
			if err != nil {
				return nil, err
			}
			return toMap(link)
		case LinkActionList:
			outgoing, incoming, err := svc.LinkList(ctx, a.ID)
			if err != nil {
				return nil, err
			}
			return toMap(map[string]any{"outgoing_links": outgoing, "incoming_links": incoming})
		case LinkActionRemove:
			if err := svc.LinkRemove(ctx, a.LinkID); err != nil {
				return nil, err
			}
			return map[string]any{"removed": true}, nil
		default:
			return nil, types.NewValidationError("unknown ticket_link action %q", a.Action)
		}
	})
}
