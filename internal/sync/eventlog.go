package syncx

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const TypeImportCompleted = "ImportCompleted"

type Event struct {
	Seq       int64  `json:"seq"`
	SiteID    string `json:"site_id"`
	Type      string `json:"type"`
	Key       string `json:"key"`
	DataJSON  string `json:"data"`
	CreatedAt int64  `json:"created_at"`
}

// ImportSummary is the payload of an ImportCompleted event.
type ImportSummary struct {
	QuizID         string `json:"quiz_id"`
	Dir            string `json:"dir"`
	FilesProcessed int    `json:"files_processed"`
	FilesFailed    int    `json:"files_failed"`
	Questions      int    `json:"questions"`
	Errors         int    `json:"errors"`
	DurationMS     int64  `json:"duration_ms"`
}

type EventRepo struct {
	db     *sql.DB
	siteID string
}

func NewEventRepo(db *sql.DB, siteID string) *EventRepo {
	if siteID == "" {
		siteID = "local"
	}
	return &EventRepo{db: db, siteID: siteID}
}

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	if e.SiteID == "" {
		e.SiteID = r.siteID
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.SiteID, e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}

// ImportCompleted records the outcome of one import run keyed by quiz.
func (r *EventRepo) ImportCompleted(ctx context.Context, s ImportSummary) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.Append(ctx, Event{Type: TypeImportCompleted, Key: s.QuizID, DataJSON: string(b)})
}

// List returns events after seq, oldest first. typ filters when non-empty.
func (r *EventRepo) List(ctx context.Context, typ string, after int64, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, site_id, typ, key, data, created_at FROM event_log
		 WHERE seq > $1 AND ($2 = '' OR typ = $2)
		 ORDER BY seq LIMIT $3`, after, typ, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Seq, &e.SiteID, &e.Type, &e.Key, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
