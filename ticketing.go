// Package ticketing is the public entry point for embedding the ticketing
// core into a host application. Most hosts need only Register and the
// type aliases below; the internal packages implement everything else.
package ticketing

import (
	"github.com/banton/stompy-ticketing/internal/hostapi"
	"github.com/banton/stompy-ticketing/internal/migrations"
	"github.com/banton/stompy-ticketing/internal/register"
	"github.com/banton/stompy-ticketing/internal/ticketsvc"
	"github.com/banton/stompy-ticketing/internal/types"
)

// Core domain types, re-exported so hosts never need to import the
// internal packages directly.
type (
	Ticket        = types.Ticket
	TicketType    = types.TicketType
	Priority      = types.Priority
	LinkType      = types.LinkType
	HistoryEntry  = types.HistoryEntry
	Link          = types.Link
	LinkedTicket  = types.LinkedTicket
	EnrichedLink  = types.EnrichedLink
	TicketDetail  = types.TicketDetail
	SearchHit     = types.SearchHit
	BoardView     = types.BoardView
	Error         = types.Error
	ErrorKind     = types.ErrorKind
)

// Ticket type constants.
const (
	TypeTask     = types.TypeTask
	TypeBug      = types.TypeBug
	TypeFeature  = types.TypeFeature
	TypeDecision = types.TypeDecision
)

// Priority constants.
const (
	PriorityLow    = types.PriorityLow
	PriorityMedium = types.PriorityMedium
	PriorityHigh   = types.PriorityHigh
	PriorityUrgent = types.PriorityUrgent
)

// Link type constants.
const (
	LinkBlocks    = types.LinkBlocks
	LinkParent    = types.LinkParent
	LinkRelated   = types.LinkRelated
	LinkDuplicate = types.LinkDuplicate
)

// Board view constants.
const (
	BoardKanban  = types.BoardKanban
	BoardSummary = types.BoardSummary
)

// Error kind constants.
const (
	KindValidation       = types.KindValidation
	KindNotFound         = types.KindNotFound
	KindInvalidTransition = types.KindInvalidTransition
	KindConflict         = types.KindConflict
	KindInternal         = types.KindInternal
)

// KindOf extracts the ErrorKind from err, defaulting to KindInternal for
// an unclassified error.
func KindOf(err error) ErrorKind { return types.KindOf(err) }

// Host callable and router contracts a host implements to attach this
// core; see internal/hostapi for documentation.
type (
	GetDB         = hostapi.GetDB
	CheckProject  = hostapi.CheckProject
	GetProject    = hostapi.GetProject
	ResolveSchema = hostapi.ResolveSchema
	RPCHost       = hostapi.RPCHost
	HTTPHost      = hostapi.HTTPHost
	ScopedConn    = ticketsvc.ScopedConn
)

// RegisterOptions and RegisterResult are the input/output of Register.
type (
	RegisterOptions = register.Options
	RegisterResult  = register.Result
)

// MigrationRecord is one schema migration the host must execute.
type MigrationRecord = migrations.Record

// Register attaches this core to a host: it binds the RPC and HTTP
// facades and returns the migration records plus a schema-SQL assembler
// for provisioning new project schemas after boot.
func Register(opts RegisterOptions) (RegisterResult, error) {
	return register.Register(opts)
}
