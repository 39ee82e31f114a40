package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"vidgate/internal/models"
)

// linkColumns is the standard column list for link queries.
const linkColumns = `id, url, status, title, added_at`

// scanLink scans a row into a Link struct.
func scanLink(row pgx.Row) (*models.Link, error) {
	var link models.Link
	err := row.Scan(
		&link.ID,
		&link.URL,
		&link.Status,
		&link.Title,
		&link.AddedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// scanLinks scans multiple rows into a slice of Links.
func scanLinks(rows pgx.Rows) ([]models.Link, error) {
	defer rows.Close()

	var links []models.Link
	for rows.Next() {
		var link models.Link
		if err := rows.Scan(
			&link.ID,
			&link.URL,
			&link.Status,
			&link.Title,
			&link.AddedAt,
		); err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	return links, rows.Err()
}

// CreateLink inserts a new link as pending_approval. It is the single dedup
// gate for the whole system: a resubmission of an existing URL never creates
// a second row. The existing row is returned with created=false so callers
// can report its current status.
func (d *DB) CreateLink(ctx context.Context, url string) (*models.Link, bool, error) {
	insert := `
		INSERT INTO video_links (url, status)
		VALUES ($1, $2)
		ON CONFLICT (url) DO NOTHING
		RETURNING ` + linkColumns + `
	`

	link, err := scanLink(d.Pool.QueryRow(ctx, insert, url, models.StatusPendingApproval))
	if err == nil {
		return link, true, nil
	}
	if !errors.Is(err, ErrLinkNotFound) {
		return nil, false, err
	}

	// Conflict: another row already owns this URL.
	existing, err := d.GetLink(ctx, url)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// GetLink retrieves a link by its URL.
func (d *DB) GetLink(ctx context.Context, url string) (*models.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM video_links WHERE url = $1`
	return scanLink(d.Pool.QueryRow(ctx, query, url))
}

// GetLinkByTitle retrieves a downloaded link by its asset title.
func (d *DB) GetLinkByTitle(ctx context.Context, title string) (*models.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM video_links WHERE title = $1`
	return scanLink(d.Pool.QueryRow(ctx, query, title))
}

// SetStatus is an unguarded point update of a link's status.
func (d *DB) SetStatus(ctx context.Context, url, status string) error {
	result, err := d.Pool.Exec(ctx, `UPDATE video_links SET status = $1 WHERE url = $2`, status, url)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}
	return nil
}

// TransitionStatus moves a link from one status to another in a single
// guarded update. If the row exists but has already left the from status,
// ErrNotInStatus is returned so the caller can report an idempotent no-op.
func (d *DB) TransitionStatus(ctx context.Context, url, from, to string) error {
	result, err := d.Pool.Exec(ctx,
		`UPDATE video_links SET status = $1 WHERE url = $2 AND status = $3`,
		to, url, from,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	if _, err := d.GetLink(ctx, url); err != nil {
		return err
	}
	return ErrNotInStatus
}

// MarkDownloaded finalizes a successful fetch: status and title are written
// together, guarded on the row still being approved. A row concurrently
// rejected mid-fetch fails the guard and the transition is aborted.
func (d *DB) MarkDownloaded(ctx context.Context, url, title string) error {
	result, err := d.Pool.Exec(ctx,
		`UPDATE video_links SET status = $1, title = $2 WHERE url = $3 AND status = $4`,
		models.StatusDownloaded, title, url, models.StatusApproved,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateTitle
		}
		return err
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	if _, err := d.GetLink(ctx, url); err != nil {
		return err
	}
	return ErrNotApproved
}

// ListByStatus retrieves all links with the given status in insertion order.
func (d *DB) ListByStatus(ctx context.Context, status string) ([]models.Link, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM video_links
		WHERE status = $1
		ORDER BY added_at ASC, id ASC
	`
	rows, err := d.Pool.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	return scanLinks(rows)
}

// DeleteLink removes a link row by URL.
func (d *DB) DeleteLink(ctx context.Context, url string) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM video_links WHERE url = $1`, url)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}
	return nil
}

// DeleteLinkByTitle removes a link row by its asset title. Used only after
// the corresponding asset has been removed from disk.
func (d *DB) DeleteLinkByTitle(ctx context.Context, title string) error {
	result, err := d.Pool.Exec(ctx, `DELETE FROM video_links WHERE title = $1`, title)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}
	return nil
}

// ReinstateAllRejected moves every rejected link back to pending_approval and
// returns the affected rows so their moderation postings can be recreated.
func (d *DB) ReinstateAllRejected(ctx context.Context) ([]models.Link, error) {
	query := `
		UPDATE video_links
		SET status = $1
		WHERE status = $2
		RETURNING ` + linkColumns + `
	`
	rows, err := d.Pool.Query(ctx, query, models.StatusPendingApproval, models.StatusRejected)
	if err != nil {
		return nil, err
	}
	return scanLinks(rows)
}

// StatusCounts returns the number of links per status.
func (d *DB) StatusCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := d.Pool.Query(ctx, `SELECT status, COUNT(*) FROM video_links GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int64{
		models.StatusPendingApproval: 0,
		models.StatusApproved:        0,
		models.StatusRejected:        0,
		models.StatusDownloaded:      0,
	}
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
