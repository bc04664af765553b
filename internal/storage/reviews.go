package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a review id has no row.
var ErrNotFound = errors.New("review not found")

// Review is one saved review artifact in the index.
type Review struct {
	ID           string
	PRURL        string
	Host         string
	Owner        string
	Repo         string
	Number       int
	Title        string
	Author       string
	ArtifactPath string
	OutputFormat string
	CreatedAt    time.Time
}

// SaveReview inserts a review record, assigning a fresh UUID when
// the caller did not set one. Returns the stored id.
func (db *DB) SaveReview(r Review) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.OutputFormat == "" {
		r.OutputFormat = "html"
	}

	_, err := db.Exec(`
		INSERT INTO reviews (id, pr_url, host, owner, repo, number, title, author, artifact_path, output_format)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.PRURL, r.Host, r.Owner, r.Repo, r.Number,
		r.Title, r.Author, r.ArtifactPath, r.OutputFormat)
	if err != nil {
		return "", fmt.Errorf("insert review: %w", err)
	}
	return r.ID, nil
}

// GetReview looks up one review by id.
func (db *DB) GetReview(id string) (*Review, error) {
	var r Review
	var createdAt string
	err := db.QueryRow(`
		SELECT id, pr_url, host, owner, repo, number, title, author, artifact_path, output_format, created_at
		FROM reviews WHERE id = ?`, id).
		Scan(&r.ID, &r.PRURL, &r.Host, &r.Owner, &r.Repo, &r.Number,
			&r.Title, &r.Author, &r.ArtifactPath, &r.OutputFormat, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query review: %w", err)
	}
	r.CreatedAt = parseSQLiteTime(createdAt)
	return &r, nil
}

// ListReviews returns the most recent reviews, newest first. A
// non-positive limit returns everything.
func (db *DB) ListReviews(limit int) ([]Review, error) {
	q := `
		SELECT id, pr_url, host, owner, repo, number, title, author, artifact_path, output_format, created_at
		FROM reviews ORDER BY created_at DESC, id DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = db.Query(q+" LIMIT ?", limit)
	} else {
		rows, err = db.Query(q)
	}
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var r Review
		var createdAt string
		if err := rows.Scan(&r.ID, &r.PRURL, &r.Host, &r.Owner, &r.Repo,
			&r.Number, &r.Title, &r.Author, &r.ArtifactPath,
			&r.OutputFormat, &createdAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		r.CreatedAt = parseSQLiteTime(createdAt)
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// ResolveReviewID expands an id prefix to a full review id. Returns
// ErrNotFound for no match and an error naming the ambiguity when the
// prefix matches more than one row.
func (db *DB) ResolveReviewID(prefix string) (string, error) {
	rows, err := db.Query(
		`SELECT id FROM reviews WHERE id LIKE ? || '%' LIMIT 2`, prefix)
	if err != nil {
		return "", fmt.Errorf("query review id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", ErrNotFound
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("review id %q is ambiguous", prefix)
	}
}

// DeleteReview removes a review row. The caller owns removing the
// artifact file.
func (db *DB) DeleteReview(id string) error {
	res, err := db.Exec(`DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
