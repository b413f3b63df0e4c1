package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sentrypolicy/authzcore/internal/domain/delegation"
)

// DelegationStore implements delegation.Store over a single "delegations"
// table. Scope.Resources/Actions and Metadata are stored as JSON text —
// they're read back whole, never queried by field, so a relational
// breakout would add migration cost for no query benefit.
type DelegationStore struct {
	db *sql.DB
}

var _ delegation.Store = (*DelegationStore)(nil)

// NewDelegationStore wraps db, creating the delegations table if absent.
func NewDelegationStore(db *sql.DB) (*DelegationStore, error) {
	s := &DelegationStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *DelegationStore) migrate(ctx context.Context) error {
	const stmt = `CREATE TABLE IF NOT EXISTS delegations (
		id            TEXT PRIMARY KEY,
		delegator_id  TEXT NOT NULL,
		delegate_id   TEXT NOT NULL,
		scope_json    TEXT NOT NULL,
		created_at    DATETIME NOT NULL,
		expires_at    DATETIME,
		is_transitive INTEGER NOT NULL DEFAULT 0,
		status        TEXT NOT NULL,
		metadata_json TEXT NOT NULL DEFAULT '{}'
	)`
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("sqlite: migrating delegation schema: %w", err)
	}
	return nil
}

// Create implements delegation.Store.
func (s *DelegationStore) Create(ctx context.Context, d delegation.Delegation) error {
	scopeJSON, err := json.Marshal(d.Scope)
	if err != nil {
		return fmt.Errorf("sqlite: marshaling scope: %w", err)
	}
	metaJSON, err := json.Marshal(d.Metadata)
	if err != nil {
		return fmt.Errorf("sqlite: marshaling metadata: %w", err)
	}

	var expiresAt any
	if d.ExpiresAt != nil {
		expiresAt = d.ExpiresAt.UTC().Format(time.RFC3339Nano)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO delegations (id, delegator_id, delegate_id, scope_json, created_at, expires_at, is_transitive, status, metadata_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.DelegatorID, d.DelegateID, string(scopeJSON),
		d.CreatedAt.UTC().Format(time.RFC3339Nano), expiresAt, boolToInt(d.IsTransitive), string(d.Status), string(metaJSON),
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting delegation %s: %w", d.ID, err)
	}
	return nil
}

// Revoke implements delegation.Store.
func (s *DelegationStore) Revoke(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE delegations SET status = ? WHERE id = ?`, string(delegation.Revoked), id)
	if err != nil {
		return fmt.Errorf("sqlite: revoking delegation %s: %w", id, err)
	}
	return nil
}

// FindActiveForDelegate implements delegation.Store.
func (s *DelegationStore) FindActiveForDelegate(ctx context.Context, delegateID string, now time.Time) ([]delegation.Delegation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, delegator_id, delegate_id, scope_json, created_at, expires_at, is_transitive, status, metadata_json
		 FROM delegations WHERE delegate_id = ? AND status = ?`, delegateID, string(delegation.Active))
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying active delegations for %s: %w", delegateID, err)
	}
	defer func() { _ = rows.Close() }()

	all, err := scanDelegations(rows)
	if err != nil {
		return nil, err
	}

	out := make([]delegation.Delegation, 0, len(all))
	for _, d := range all {
		if d.IsActive(now) {
			out = append(out, d)
		}
	}
	return out, nil
}

// FindOutgoingTransitive implements delegation.Store.
func (s *DelegationStore) FindOutgoingTransitive(ctx context.Context, subjectID string, now time.Time) ([]delegation.Delegation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, delegator_id, delegate_id, scope_json, created_at, expires_at, is_transitive, status, metadata_json
		 FROM delegations WHERE delegator_id = ? AND status = ? AND is_transitive = 1`, subjectID, string(delegation.Active))
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying outgoing transitive delegations for %s: %w", subjectID, err)
	}
	defer func() { _ = rows.Close() }()

	all, err := scanDelegations(rows)
	if err != nil {
		return nil, err
	}

	out := make([]delegation.Delegation, 0, len(all))
	for _, d := range all {
		if d.IsActive(now) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Sweep implements delegation.Store: it deletes Revoked or Expired
// records whose CreatedAt predates now minus retention. A record is
// expired-and-sweepable only when its own ExpiresAt has passed, so a
// long-lived Active delegation is never purged regardless of age.
func (s *DelegationStore) Sweep(ctx context.Context, retention time.Duration, now time.Time) (int, error) {
	cutoff := now.Add(-retention).UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM delegations
		 WHERE created_at < ?
		   AND (status = ? OR (expires_at IS NOT NULL AND expires_at <= ?))`,
		cutoff, string(delegation.Revoked), now.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: sweeping delegations: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting swept delegations: %w", err)
	}
	return int(affected), nil
}

func scanDelegations(rows *sql.Rows) ([]delegation.Delegation, error) {
	var out []delegation.Delegation
	for rows.Next() {
		var (
			id, delegatorID, delegateID, scopeJSON, createdAt, status, metaJSON string
			expiresAt                                                           sql.NullString
			isTransitive                                                       int
		)
		if err := rows.Scan(&id, &delegatorID, &delegateID, &scopeJSON, &createdAt, &expiresAt, &isTransitive, &status, &metaJSON); err != nil {
			return nil, fmt.Errorf("sqlite: scanning delegation row: %w", err)
		}

		var scope delegation.Scope
		if err := json.Unmarshal([]byte(scopeJSON), &scope); err != nil {
			return nil, fmt.Errorf("sqlite: unmarshaling scope for %s: %w", id, err)
		}
		var meta map[string]string
		if metaJSON != "" {
			if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
				return nil, fmt.Errorf("sqlite: unmarshaling metadata for %s: %w", id, err)
			}
		}

		created, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parsing created_at for %s: %w", id, err)
		}

		var expiresAtPtr *time.Time
		if expiresAt.Valid && expiresAt.String != "" {
			t, err := time.Parse(time.RFC3339Nano, expiresAt.String)
			if err != nil {
				return nil, fmt.Errorf("sqlite: parsing expires_at for %s: %w", id, err)
			}
			expiresAtPtr = &t
		}

		out = append(out, delegation.Delegation{
			ID: id, DelegatorID: delegatorID, DelegateID: delegateID,
			Scope: scope, CreatedAt: created, ExpiresAt: expiresAtPtr,
			IsTransitive: isTransitive != 0, Status: delegation.State(status), Metadata: meta,
		})
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
