package postgres

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"concert_syncer/internal/domain"
)

// ConcertStore is the single write path for provider-synced concerts.
// Dedup is keyed on external_event_id; a matching row is fully replaced
// by the new fetch (last write wins, also across racing syncs).
type ConcertStore struct {
	db *sqlx.DB
}

func NewConcertStore(db *sqlx.DB) *ConcertStore {
	return &ConcertStore{db: db}
}

const concertColumns = 14

// UpsertBatch writes the batch in one statement. Records without an
// external_event_id are user-authored and never candidates for this path;
// they are skipped. Duplicate external ids within one batch collapse to
// the last record, because a single ON CONFLICT statement cannot update
// the same row twice. Returns the number of rows written.
func (s *ConcertStore) UpsertBatch(ctx context.Context, concerts []domain.Concert) (int, error) {
	valid := make([]domain.Concert, 0, len(concerts))
	byID := make(map[string]int, len(concerts))
	for _, c := range concerts {
		if c.ExternalEventID == nil || *c.ExternalEventID == "" {
			continue
		}
		if i, ok := byID[*c.ExternalEventID]; ok {
			valid[i] = c
			continue
		}
		byID[*c.ExternalEventID] = len(valid)
		valid = append(valid, c)
	}
	if len(valid) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`
		INSERT INTO concerts (
			title, venue, location, concert_date, start_time, orchestra,
			conductor, soloists, program, ticket_url, price_range, tags,
			source, external_event_id
		) VALUES `)

	args := make([]interface{}, 0, len(valid)*concertColumns)
	for i, c := range valid {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := 0; j < concertColumns; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(i*concertColumns + j + 1))
		}
		sb.WriteString(")")

		args = append(args,
			c.Title,
			c.Venue,
			c.Location,
			c.ConcertDate,
			c.StartTime,
			c.Orchestra,
			c.Conductor,
			c.Soloists,
			c.Program,
			c.TicketURL,
			c.PriceRange,
			pq.Array(c.Tags),
			c.Source,
			c.ExternalEventID,
		)
	}

	sb.WriteString(`
		ON CONFLICT (external_event_id) DO UPDATE SET
			title = EXCLUDED.title,
			venue = EXCLUDED.venue,
			location = EXCLUDED.location,
			concert_date = EXCLUDED.concert_date,
			start_time = EXCLUDED.start_time,
			orchestra = EXCLUDED.orchestra,
			conductor = EXCLUDED.conductor,
			soloists = EXCLUDED.soloists,
			program = EXCLUDED.program,
			ticket_url = EXCLUDED.ticket_url,
			price_range = EXCLUDED.price_range,
			tags = EXCLUDED.tags,
			source = EXCLUDED.source,
			updated_at = now()`)

	exec := GetExecutor(ctx, s.db)
	if _, err := exec.ExecContext(ctx, sb.String(), args...); err != nil {
		return 0, &domain.StorageError{Op: "upsert concerts", Err: err}
	}

	return len(valid), nil
}

// GetExistingExternalIDs reports which of the given external ids already
// have a row, so the caller can tell creates from updates.
func (s *ConcertStore) GetExistingExternalIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	result := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT external_event_id FROM concerts WHERE external_event_id = ANY($1)`

	var existing []string
	if err := s.db.SelectContext(ctx, &existing, query, pq.Array(ids)); err != nil {
		return nil, &domain.StorageError{Op: "get existing external ids", Err: err}
	}

	for _, id := range existing {
		result[id] = true
	}
	return result, nil
}

// DeleteOlderThan purges provider-synced concerts dated strictly before
// the cutoff. A concert on the cutoff date itself is kept. User-authored
// rows are permanently retained.
func (s *ConcertStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM concerts WHERE concert_date < $1 AND source <> $2`

	res, err := s.db.ExecContext(ctx, query, cutoff, domain.SourceUser)
	if err != nil {
		return 0, &domain.StorageError{Op: "delete stale concerts", Err: err}
	}

	return res.RowsAffected()
}
