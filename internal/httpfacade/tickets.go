package httpfacade

import (
	"context"
	"net/http"

	"github.com/banton/stompy-ticketing/internal/ticketsvc"
	"github.com/banton/stompy-ticketing/internal/types"
)

type createBody struct {
	Type        types.TicketType `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Priority    types.Priority   `json:"priority"`
	Assignee    *string          `json:"assignee"`
	Reporter    *string          `json:"reporter"`
	Tags        []string         `json:"tags"`
	Metadata    map[string]any   `json:"metadata"`
}

// handleCreate serves POST /projects/{name}/tickets.
func (f *Facade) handleCreate(w http.ResponseWriter, r *http.Request) {
	f.dispatch(w, r, "Create", func(ctx context.Context) (any, error) {
		var body createBody
		if err := decodeBody(r, &body); err != nil {
			return nil, err
		}
		svc, release, err := f.boundService(ctx, r)
		if err != nil {
			return nil, err
		}
		defer release()

		return svc.Create(ctx, ticketsvc.CreateParams{
			Type:        body.Type,
			Title:       body.Title,
			Description: body.Description,
			Priority:    body.Priority,
			Assignee:    body.Assignee,
			Reporter:    body.Reporter,
			Tags:        body.Tags,
			Metadata:    body.Metadata,
		})
	})
}

// handleList serves GET /projects/{name}/tickets, filters taken from the
// query string.
func (f *Facade) handleList(w http.ResponseWriter, r *http.Request) {
	f.dispatch(w, r, "List", func(ctx context.Context) (any, error) {
		svc, release, err := f.boundService(ctx, r)
		if err != nil {
			return nil, err
		}
		defer release()

		tickets, err := svc.List(ctx, ticketsvc.ListParams{
			Type:     queryTicketType(r, "type"),
			Status:   queryString(r, "status"),
			Priority: queryPriority(r, "priority"),
			Assignee: queryString(r, "assignee"),
			Tags:     queryTags(r, "tags"),
			Limit:    queryInt(r, "limit", 0),
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{"tickets": tickets}, nil
	})
}

// handleGet serves GET /projects/{name}/tickets/{id}.
func (f *Facade) handleGet(w http.ResponseWriter, r *http.Request) {
	f.dispatch(w, r, "Get", func(ctx context.Context) (any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return nil, err
		}
		svc, release, err := f.boundService(ctx, r)
		if err != nil {
			return nil, err
		}
		defer release()

		return svc.Get(ctx, id)
	})
}

type updateBody struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Priority    *types.Priority `json:"priority"`
	Assignee    *string        `json:"assignee"`
	Reporter    *string        `json:"reporter"`
	Tags        []string       `json:"tags"`
	TagsSet     bool           `json:"tags_set"`
	Metadata    map[string]any `json:"metadata"`
	MetadataSet bool           `json:"metadata_set"`
	ChangedBy   *string        `json:"changed_by"`
	Status      *string        `json:"status"`
	Type        *string        `json:"type"`
}

// handleUpdate serves PUT /projects/{name}/tickets/{id}.
func (f *Facade) handleUpdate(w http.ResponseWriter, r *http.Request) {
	f.dispatch(w, r, "Update", func(ctx context.Context) (any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return nil, err
		}
		var body updateBody
		if err := decodeBody(r, &body); err != nil {
			return nil, err
		}
		if body.Status != nil || body.Type != nil {
			return nil, types.NewValidationError("status and type cannot be changed by update; use move to change status")
		}

		svc, release, err := f.boundService(ctx, r)
		if err != nil {
			return nil, err
		}
		defer release()

		return svc.Update(ctx, id, ticketsvc.UpdateFields{
			Title:       body.Title,
			Description: body.Description,
			Priority:    body.Priority,
			Assignee:    body.Assignee,
			Reporter:    body.Reporter,
			Tags:        body.Tags,
			TagsSet:     body.TagsSet,
			Metadata:    body.Metadata,
			MetadataSet: body.MetadataSet,
		}, body.ChangedBy)
	})
}

type moveBody struct {
	Status    string  `json:"status"`
	ChangedBy *string `json:"changed_by"`
}

// handleMove serves POST /projects/{name}/tickets/{id}/move.
func (f *Facade) handleMove(w http.ResponseWriter, r *http.Request) {
	f.dispatch(w, r, "Transition", func(ctx context.Context) (any, error) {
		id, err := pathID(r, "id")
		if err != nil {
			return nil, err
		}
		var body moveBody
		if err := decodeBody(r, &body); err != nil {
			return nil, err
		}

		svc, release, err := f.boundService(ctx, r)
		if err != nil {
			return nil, err
		}
		defer release()

		return svc.Transition(ctx, id, body.Status, body.ChangedBy)
	})
}
