// Package statemachine holds the four per-type ticket transition graphs and
// the validation, initial-status, terminal-status, and close-preference
// lookups built on top of them. The registry is pure, read-only after
// package init, and safe for unlimited concurrent readers.
package statemachine

import (
	"github.com/banton/stompy-ticketing/internal/types"
)

// graph describes one ticket type's transition graph.
type graph struct {
	initial   string
	terminals map[string]bool
	edges     map[string]map[string]bool
	// closePreference lists, in descending priority, the terminal statuses
	// Close should prefer when more than one is reachable in a single edge
	// from the current status.
	closePreference []string
}

var graphs = buildGraphs()

func buildGraphs() map[types.TicketType]*graph {
	return map[types.TicketType]*graph{
		types.TypeTask: {
			initial:   "backlog",
			terminals: set("done", "cancelled"),
			edges: edgeMap(
				edge{"backlog", "in_progress", "cancelled"},
				edge{"in_progress", "done", "cancelled"},
			),
			closePreference: []string{"done", "cancelled"},
		},
		types.TypeBug: {
			initial:   "triage",
			terminals: set("resolved", "wont_fix"),
			edges: edgeMap(
				edge{"triage", "confirmed", "wont_fix"},
				edge{"confirmed", "in_progress", "wont_fix"},
				edge{"in_progress", "resolved", "wont_fix"},
			),
			closePreference: []string{"resolved", "wont_fix"},
		},
		types.TypeFeature: {
			initial:   "proposed",
			terminals: set("shipped", "rejected"),
			edges: edgeMap(
				edge{"proposed", "approved", "rejected"},
				edge{"approved", "in_progress", "rejected"},
				edge{"in_progress", "shipped", "rejected"},
			),
			closePreference: []string{"shipped", "rejected"},
		},
		types.TypeDecision: {
			initial:   "open",
			terminals: set("decided", "deferred"),
			edges: edgeMap(
				edge{"open", "decided", "deferred"},
				edge{"deferred", "open"},
			),
			closePreference: []string{"decided", "deferred"},
		},
	}
}

// edge is a from-status followed by one or more to-statuses, used only to
// make buildGraphs's literal table readable.
type edge []string

func edgeMap(edges ...edge) map[string]map[string]bool {
	m := make(map[string]map[string]bool, len(edges))
	for _, e := range edges {
		from, tos := e[0], e[1:]
		targets := make(map[string]bool, len(tos))
		for _, to := range tos {
			targets[to] = true
		}
		m[from] = targets
	}
	return m
}

func set(vals ...string) map[string]bool {
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}

func graphFor(t types.TicketType) (*graph, error) {
	g, ok := graphs[t]
	if !ok {
		return nil, types.NewValidationError("unrecognized ticket type %q", t)
	}
	return g, nil
}

// Initial returns the initial status for a ticket type.
func Initial(t types.TicketType) (string, error) {
	g, err := graphFor(t)
	if err != nil {
		return "", err
	}
	return g.initial, nil
}

// IsTerminal reports whether status is a terminal status for t.
func IsTerminal(t types.TicketType, status string) (bool, error) {
	g, err := graphFor(t)
	if err != nil {
		return false, err
	}
	return g.terminals[status], nil
}

// Statuses returns the full set of statuses declared for t, initial first;
// the order of the remaining statuses is not defined.
func Statuses(t types.TicketType) ([]string, error) {
	g, err := graphFor(t)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{g.initial: true}
	order := []string{g.initial}
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			order = append(order, s)
		}
	}
	for from, tos := range g.edges {
		add(from)
		for to := range tos {
			add(to)
		}
	}
	for term := range g.terminals {
		add(term)
	}
	return order, nil
}

// Edges returns every legal (from, to) edge declared for t.
func Edges(t types.TicketType) (map[string][]string, error) {
	g, err := graphFor(t)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string, len(g.edges))
	for from, tos := range g.edges {
		list := make([]string, 0, len(tos))
		for to := range tos {
			list = append(list, to)
		}
		out[from] = list
	}
	return out, nil
}

// Validate signals InvalidTransition unless (from, to) is a declared edge
// of t's graph. Self-edges are always rejected, even if from == to happens
// to name a real status, since no type declares one.
func Validate(t types.TicketType, from, to string) error {
	g, err := graphFor(t)
	if err != nil {
		return err
	}
	targets, ok := g.edges[from]
	if !ok || !targets[to] {
		return types.NewInvalidTransition("no edge %s -> %s for ticket type %q", from, to, t)
	}
	return nil
}

// CloseTarget picks the first terminal status reachable via a single edge
// from the current status, in the type's declared preference order. It
// signals InvalidTransition if the current status already has no
// single-edge terminal successor (including when it is itself terminal
// with no outgoing edges, or terminal with only non-terminal successors).
func CloseTarget(t types.TicketType, from string) (string, error) {
	g, err := graphFor(t)
	if err != nil {
		return "", err
	}
	reachable := g.edges[from]
	for _, candidate := range g.closePreference {
		if reachable[candidate] {
			return candidate, nil
		}
	}
	return "", types.NewInvalidTransition("no single-edge terminal reachable from %q for ticket type %q", from, t)
}
