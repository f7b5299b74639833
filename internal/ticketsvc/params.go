package ticketsvc

import "github.com/banton/stompy-ticketing/internal/types"

// CreateParams is the input to Service.Create.
type CreateParams struct {
	Type        types.TicketType
	Title       string
	Description string
	Priority    types.Priority
	Assignee    *string
	Reporter    *string
	Tags        []string
	Metadata    map[string]any
}

// ListParams is the input to Service.List. Nil fields are unfiltered.
type ListParams struct {
	Type     *types.TicketType
	Status   *string
	Priority *types.Priority
	Assignee *string
	Tags     []string
	Limit    int
}

const (
	defaultListLimit = 50
	maxListLimit     = 200

	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

func (p ListParams) limit() int {
	switch {
	case p.Limit <= 0:
		return defaultListLimit
	case p.Limit > maxListLimit:
		return maxListLimit
	default:
		return p.Limit
	}
}

// UpdateFields is the input to Service.Update. Only non-nil fields are
// written; status and type are never accepted here.
type UpdateFields struct {
	Title       *string
	Description *string
	Priority    *types.Priority
	Assignee    *string
	Reporter    *string
	Tags        []string
	TagsSet     bool
	Metadata    map[string]any
	MetadataSet bool
}

// SearchParams is the input to Service.Search.
type SearchParams struct {
	Query  string
	Type   *types.TicketType
	Status *string
	Limit  int
}

func (p SearchParams) limit() int {
	switch {
	case p.Limit <= 0:
		return defaultSearchLimit
	case p.Limit > maxSearchLimit:
		return maxSearchLimit
	default:
		return p.Limit
	}
}
