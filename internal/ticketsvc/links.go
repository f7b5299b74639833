package ticketsvc

import (
	"context"
	"fmt"

	"github.com/banton/stompy-ticketing/internal/types"
)

// LinkAdd inserts a directed link from sourceID to targetID. A repeat of
// the same (source, target, type) triple is reported as Conflict, not an
// internal error.
func (s *Service) LinkAdd(ctx context.Context, sourceID, targetID int64, linkType types.LinkType) (types.Link, error) {
	var link types.Link
	err := s.instr.Call(ctx, "ticketsvc.LinkAdd", "LinkAdd", func(ctx context.Context) error {
		l, err := s.linkAdd(ctx, sourceID, targetID, linkType)
		if err != nil {
			return err
		}
		link = l
		return nil
	})
	return link, err
}

func (s *Service) linkAdd(ctx context.Context, sourceID, targetID int64, linkType types.LinkType) (types.Link, error) {
	if !linkType.Valid() {
		return types.Link{}, types.NewValidationError("invalid link type %q", linkType)
	}
	if sourceID == targetID {
		return types.Link{}, types.NewValidationError("a ticket cannot link to itself")
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (source_id, target_id, link_type)
		VALUES ($1, $2, $3)
		RETURNING id, source_id, target_id, link_type, extract(epoch from created_at)::bigint
	`, s.table("ticket_link"))

	var link types.Link
	err := s.conn.QueryRow(ctx, query, sourceID, targetID, linkType).Scan(
		&link.ID, &link.SourceID, &link.TargetID, &link.LinkType, &link.CreatedAt,
	)
	if err != nil {
		return types.Link{}, wrapDBError("add ticket link", err)
	}

	s.logger.Info("ticket.link_add", "source_id", sourceID, "target_id", targetID, "type", linkType)
	return link, nil
}

// LinkList returns the outgoing links (id = source) and incoming links
// (id = target) for ticket id, each enriched with its counterpart ticket.
func (s *Service) LinkList(ctx context.Context, id int64) (outgoing, incoming []types.EnrichedLink, err error) {
	err = s.instr.Call(ctx, "ticketsvc.LinkList", "LinkList", func(ctx context.Context) error {
		out, ierr := s.enrichedLinks(ctx, "source_id", id)
		if ierr != nil {
			return ierr
		}
		in, ierr := s.enrichedLinks(ctx, "target_id", id)
		if ierr != nil {
			return ierr
		}
		outgoing, incoming = out, in
		return nil
	})
	return outgoing, incoming, err
}

// enrichedLinks returns every ticket_link row where endpointColumn = id,
// paired with the counterpart ticket's (id, title, type, status).
func (s *Service) enrichedLinks(ctx context.Context, endpointColumn string, id int64) ([]types.EnrichedLink, error) {
	counterpartColumn := "target_id"
	if endpointColumn == "target_id" {
		counterpartColumn = "source_id"
	}

	query := fmt.Sprintf(`
		SELECT l.id, l.source_id, l.target_id, l.link_type, extract(epoch from l.created_at)::bigint,
			t.id, t.title, t.type, t.status
		FROM %s l
		JOIN %s t ON t.id = l.%s
		WHERE l.%s = $1
		ORDER BY l.id ASC
	`, s.table("ticket_link"), s.table("ticket"), counterpartColumn, endpointColumn)

	rows, err := s.conn.Query(ctx, query, id)
	if err != nil {
		return nil, wrapDBError("load ticket links", err)
	}
	defer rows.Close()

	var links []types.EnrichedLink
	for rows.Next() {
		var el types.EnrichedLink
		if err := rows.Scan(
			&el.Link.ID, &el.Link.SourceID, &el.Link.TargetID, &el.Link.LinkType, &el.Link.CreatedAt,
			&el.Ticket.ID, &el.Ticket.Title, &el.Ticket.Type, &el.Ticket.Status,
		); err != nil {
			return nil, wrapDBError("scan ticket link", err)
		}
		links = append(links, el)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError("load ticket links", err)
	}
	return links, nil
}

// LinkRemove deletes the link identified by linkID. Deleting zero rows is
// reported as NotFound.
func (s *Service) LinkRemove(ctx context.Context, linkID int64) error {
	return s.instr.Call(ctx, "ticketsvc.LinkRemove", "LinkRemove", func(ctx context.Context) error {
		return s.linkRemove(ctx, linkID)
	})
}

func (s *Service) linkRemove(ctx context.Context, linkID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, s.table("ticket_link"))

	tag, err := s.conn.Exec(ctx, query, linkID)
	if err != nil {
		return wrapDBError("remove ticket link", err)
	}
	if tag.RowsAffected() == 0 {
		return types.NewNotFound("link %d not found", linkID)
	}

	s.logger.Info("ticket.link_remove", "link_id", linkID)
	return nil
}
