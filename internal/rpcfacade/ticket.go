package rpcfacade

import (
	"context"

	"github.com/banton/stompy-ticketing/internal/ticketsvc"
	"github.com/banton/stompy-ticketing/internal/types"
)

// TicketAction is the closed set of operations the "ticket" tool dispatches
// on. Unknown values fail with ValidationError rather than falling through
// a stringly-typed lookup.
type TicketAction string

const (
	TicketActionCreate TicketAction = "create"
	TicketActionGet    TicketAction = "get"
	TicketActionList   TicketAction = "list"
	TicketActionUpdate TicketAction = "update"
	TicketActionMove   TicketAction = "move"
	TicketActionClose  TicketAction = "close"
)

func (a TicketAction) valid() bool {
	switch a {
	case TicketActionCreate, TicketActionGet, TicketActionList, TicketActionUpdate, TicketActionMove, TicketActionClose:
		return true
	}
	return false
}

type ticketArgs struct {
	Project     string         `json:"project"`
	Action      TicketAction   `json:"action"`
	ID          int64          `json:"id"`
	Type        types.TicketType `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Priority    types.Priority `json:"priority"`
	Assignee    *string        `json:"assignee"`
	Reporter    *string        `json:"reporter"`
	Tags        []string       `json:"tags"`
	Metadata    map[string]any `json:"metadata"`
	Status      string         `json:"status"`
	ChangedBy   *string        `json:"changed_by"`

	ListType     *types.TicketType `json:"list_type"`
	ListStatus   *string           `json:"list_status"`
	ListPriority *types.Priority   `json:"list_priority"`
	ListAssignee *string           `json:"list_assignee"`
	ListTags     []string          `json:"list_tags"`
	Limit        int               `json:"limit"`
}

func (f *Facade) handleTicket(ctx context.Context, args map[string]any) (map[string]any, error) {
	return f.dispatch(ctx, "ticket."+stringArg(args, "action"), func(ctx context.Context) (map[string]any, error) {
		var a ticketArgs
		if err := decode(args, &a); err != nil {
			return nil, err
		}
		if !a.Action.valid() {
			return nil, types.NewValidationError("unknown ticket action %q", a.Action)
		}

		svc, release, err := f.boundService(ctx, a.Project)
		if err != nil {
			return nil, err
		}
		defer release()

		switch a.Action {
		case TicketActionCreate:
			return f.ticketCreate(ctx, svc, a)
		case TicketActionGet:
			return f.ticketGet(ctx, svc, a)
		case TicketActionList:
			return f.ticketList(ctx, svc, a)
		case TicketActionUpdate:
			return f.ticketUpdate(ctx, svc, a)
		case TicketActionMove:
			return f.ticketMove(ctx, svc, a)
		case TicketActionClose:
			return f.ticketClose(ctx, svc, a)
		default:
			return nil, types.NewValidationError("unknown ticket action %q", a.Action)
		}
	})
}

func (f *Facade) ticketCreate(ctx context.Context, svc *ticketsvc.Service, a ticketArgs) (map[string]any, error) {
	ticket, err := svc.Create(ctx, ticketsvc.CreateParams{
		Type:        a.Type,
		Title:       a.Title,
		Description: a.Description,
		Priority:    a.Priority,
		Assignee:    a.Assignee,
		Reporter:    a.Reporter,
		Tags:        a.Tags,
		Metadata:    a.Metadata,
	})
	if err != nil {
		return nil, err
	}
	return toMap(ticket)
}

func (f *Facade) ticketGet(ctx context.Context, svc *ticketsvc.Service, a ticketArgs) (map[string]any, error) {
	detail, err := svc.Get(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	return toMap(detail)
}

func (f *Facade) ticketList(ctx context.Context, svc *ticketsvc.Service, a ticketArgs) (map[string]any, error) {
	tickets, err := svc.List(ctx, ticketsvc.ListParams{
		Type:     a.ListType,
		Status:   a.ListStatus,
		Priority: a.ListPriority,
		Assignee: a.ListAssignee,
		Tags:     a.ListTags,
		Limit:    a.Limit,
	})
	if err != nil {
		return nil, err
	}
	return toMap(map[string]any{"tickets": tickets})
}

func (f *Facade) ticketUpdate(ctx context.Context, svc *ticketsvc.Service, a ticketArgs) (map[string]any, error) {
	if a.Status != "" || a.Type != "" {
		return nil, types.NewValidationError("status and type cannot be changed by update; use move to change status")
	}
	fields := ticketsvc.UpdateFields{
		Title:       nonEmpty(a.Title),
		Description: nonEmpty(a.Description),
	}
	if a.Priority != "" {
		fields.Priority = &a.Priority
	}
	if a.Assignee != nil {
		fields.Assignee = a.Assignee
	}
	if a.Reporter != nil {
		fields.Reporter = a.Reporter
	}
	if a.Tags != nil {
		fields.Tags = a.Tags
		fields.TagsSet = true
	}
	if a.Metadata != nil {
		fields.Metadata = a.Metadata
		fields.MetadataSet = true
	}

	ticket, err := svc.Update(ctx, a.ID, fields, a.ChangedBy)
	if err != nil {
		return nil, err
	}
	return toMap(ticket)
}

func (f *Facade) ticketMove(ctx context.Context, svc *ticketsvc.Service, a ticketArgs) (map[string]any, error) {
	ticket, err := svc.Transition(ctx, a.ID, a.Status, a.ChangedBy)
	if err != nil {
		return nil, err
	}
	return toMap(ticket)
}

func (f *Facade) ticketClose(ctx context.Context, svc *ticketsvc.Service, a ticketArgs) (map[string]any, error) {
	ticket, err := svc.Close(ctx, a.ID, a.ChangedBy)
	if err != nil {
		return nil, err
	}
	return toMap(ticket)
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
