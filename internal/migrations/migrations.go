// Package migrations assembles the schema-templated DDL this core needs
// and packages it as migration records for a host-owned migration runner.
// The core never executes DDL itself; it only describes it.
package migrations

import (
	"strings"

	"github.com/jackc/pgx/v5"
)

// DefaultOffset is the migration id the first record receives when the
// host does not supply its own offset.
const DefaultOffset = 26

// Spec is the executable payload of one Record.
type Spec struct {
	CreateIfNotExists bool   `json:"create_if_not_exists"`
	SQL               string `json:"sql"`
}

// Record is one schema migration, keyed by a stable integer id assigned
// contiguously from the host-supplied offset. Hosts execute Spec.SQL
// themselves; the core never runs DDL.
type Record struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Table       string `json:"table"`
	Schema      string `json:"schema"`
	Spec        Spec   `json:"spec"`
}

const recordType = "custom"
const recordSchema = "project"

// ticketDDL, ticketHistoryDDL, ticketLinkDDL, tsvDDL, and ginIndexDDL hold
// {schema}-templated statements, substituted at SchemaSQL/RecordSQL time via
// pgx.Identifier.Sanitize() rather than raw string interpolation of a
// caller-supplied schema name.
const ticketDDL = `
CREATE TABLE IF NOT EXISTS {schema}.ticket (
	id          BIGSERIAL PRIMARY KEY,
	type        TEXT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	priority    TEXT NOT NULL,
	assignee    TEXT,
	reporter    TEXT,
	tags        TEXT[] NOT NULL DEFAULT '{}',
	metadata    JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const ticketHistoryDDL = `
CREATE TABLE IF NOT EXISTS {schema}.ticket_history (
	id         BIGSERIAL PRIMARY KEY,
	ticket_id  BIGINT NOT NULL REFERENCES {schema}.ticket(id) ON DELETE CASCADE,
	field      TEXT NOT NULL,
	old_value  TEXT,
	new_value  TEXT,
	changed_by TEXT,
	changed_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const ticketLinkDDL = `
CREATE TABLE IF NOT EXISTS {schema}.ticket_link (
	id         BIGSERIAL PRIMARY KEY,
	source_id  BIGINT NOT NULL REFERENCES {schema}.ticket(id) ON DELETE CASCADE,
	target_id  BIGINT NOT NULL REFERENCES {schema}.ticket(id) ON DELETE CASCADE,
	link_type  TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT ticket_link_no_self_reference CHECK (source_id <> target_id),
	CONSTRAINT ticket_link_unique_triple UNIQUE (source_id, target_id, link_type)
)`

const tsvDDL = `
ALTER TABLE {schema}.ticket ADD COLUMN IF NOT EXISTS tsv TSVECTOR;

CREATE OR REPLACE FUNCTION {schema}.ticket_tsv_trigger() RETURNS trigger AS $$
BEGIN
	NEW.tsv := to_tsvector('english', NEW.title || ' ' || coalesce(NEW.description, ''));
	RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS ticket_tsv_update ON {schema}.ticket;
CREATE TRIGGER ticket_tsv_update
	BEFORE INSERT OR UPDATE OF title, description ON {schema}.ticket
	FOR EACH ROW EXECUTE FUNCTION {schema}.ticket_tsv_trigger()`

const ginIndexDDL = `
CREATE INDEX IF NOT EXISTS ticket_tsv_idx ON {schema}.ticket USING GIN (tsv)`

// substitute replaces every {schema} placeholder in ddl with the sanitized
// identifier for schema.
func substitute(ddl, schema string) string {
	ident := pgx.Identifier{schema}.Sanitize()
	return strings.ReplaceAll(ddl, "{schema}", ident)
}

// Records returns the five migration records, with contiguous ids starting
// at offset. A non-positive offset falls back to DefaultOffset.
func Records(offset int) []Record {
	if offset <= 0 {
		offset = DefaultOffset
	}

	defs := []struct {
		description string
		table       string
		ddl         string
	}{
		{"create ticket table", "ticket", ticketDDL},
		{"create ticket_history table", "ticket_history", ticketHistoryDDL},
		{"create ticket_link table", "ticket_link", ticketLinkDDL},
		{"add ticket full-text search column and trigger", "ticket", tsvDDL},
		{"add GIN index on ticket.tsv", "ticket", ginIndexDDL},
	}

	records := make([]Record, len(defs))
	for i, d := range defs {
		records[i] = Record{
			ID:          offset + i,
			Description: d.description,
			Type:        recordType,
			Table:       d.table,
			Schema:      recordSchema,
			Spec: Spec{
				CreateIfNotExists: true,
				SQL:               d.ddl,
			},
		}
	}
	return records
}

// SchemaSQL assembles the same DDL as a single script with {schema}
// substituted, for hosts provisioning a new project schema after boot
// rather than replaying the numbered migration list.
func SchemaSQL(schema string) string {
	var b strings.Builder
	for i, ddl := range []string{ticketDDL, ticketHistoryDDL, ticketLinkDDL, tsvDDL, ginIndexDDL} {
		if i > 0 {
			b.WriteString(";\n\n")
		}
		b.WriteString(strings.TrimSpace(substitute(ddl, schema)))
	}
	b.WriteString(";\n")
	return b.String()
}

// RecordSQL returns record's DDL with {schema} substituted, for hosts that
// want to execute an individual record directly rather than the assembled
// script from SchemaSQL.
func RecordSQL(r Record, schema string) string {
	return substitute(r.Spec.SQL, schema)
}
