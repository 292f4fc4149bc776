// Package journal persists the score events of the open match so a process
// restart does not lose the board mid-match. It is not a match database:
// the event rows are dropped on every reset and match_results keeps exactly
// one completed-match row.
package journal

import (
	"context"
	"database/sql"
	"time"
)

type Event struct {
	MatchID   string
	Type      string
	Team      string
	DataJSON  string
	CreatedAt int64
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Append(ctx context.Context, e Event) error {
	created := e.CreatedAt
	if created == 0 {
		created = time.Now().Unix()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO score_events (match_id, typ, team, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.MatchID, e.Type, e.Team, e.DataJSON, created)
	return err
}

// Truncate drops every journaled event; called on match reset.
func (r *Repo) Truncate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM score_events`)
	return err
}

// SaveResult replaces the retained completed-match row.
func (r *Repo) SaveResult(ctx context.Context, matchID, winner, dataJSON string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM match_results`); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO match_results (match_id, winner, data, created_at)
		 VALUES ($1,$2,$3,$4)`,
		matchID, winner, dataJSON, time.Now().Unix())
	return err
}

// Count reports how many events are journaled for the open match.
func (r *Repo) Count(ctx context.Context, matchID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM score_events WHERE match_id = $1`, matchID).Scan(&n)
	return n, err
}
