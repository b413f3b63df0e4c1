package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

// PolicyStore implements policy.Loader over five tables: named policies,
// their rules, and resource/type/fallback bindings that pick which named policy
// governs a given resource — the same resource-id/type/fallback precedence
// as the in-memory loader, made durable.
type PolicyStore struct {
	db *sql.DB
}

var _ policy.Loader = (*PolicyStore)(nil)

// NewPolicyStore wraps db, creating the policies/rules/bindings tables if
// they don't already exist.
func NewPolicyStore(db *sql.DB) (*PolicyStore, error) {
	s := &PolicyStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PolicyStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS policies (
			name    TEXT PRIMARY KEY,
			extends TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS rules (
			policy_name TEXT NOT NULL,
			subject     TEXT NOT NULL,
			resource    TEXT NOT NULL,
			action      TEXT NOT NULL,
			effect      TEXT NOT NULL,
			priority    INTEGER NOT NULL DEFAULT 1,
			domain_id   TEXT NOT NULL DEFAULT '',
			condition   TEXT NOT NULL DEFAULT '',
			rule_order  INTEGER NOT NULL,
			FOREIGN KEY (policy_name) REFERENCES policies(name)
		)`,
		`CREATE TABLE IF NOT EXISTS resource_bindings (
			resource_id TEXT PRIMARY KEY,
			policy_name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS type_bindings (
			resource_type TEXT PRIMARY KEY,
			policy_name   TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS fallback_binding (
			id          INTEGER PRIMARY KEY CHECK (id = 0),
			policy_name TEXT NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: migrating policy schema: %w", err)
		}
	}
	return nil
}

// PutPolicy replaces pol's stored rules (by name) and rebinds resourceID to
// it, taking precedence over any type-level or fallback policy.
func (s *PolicyStore) PutPolicy(ctx context.Context, resourceID string, pol policy.Policy) error {
	if err := s.savePolicy(ctx, pol); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resource_bindings (resource_id, policy_name) VALUES (?, ?)
		 ON CONFLICT(resource_id) DO UPDATE SET policy_name = excluded.policy_name`,
		resourceID, pol.Name)
	if err != nil {
		return fmt.Errorf("sqlite: binding resource %s: %w", resourceID, err)
	}
	return nil
}

// PutTypePolicy binds pol to every resource of resourceType lacking a more
// specific resource-id binding.
func (s *PolicyStore) PutTypePolicy(ctx context.Context, resourceType string, pol policy.Policy) error {
	if err := s.savePolicy(ctx, pol); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO type_bindings (resource_type, policy_name) VALUES (?, ?)
		 ON CONFLICT(resource_type) DO UPDATE SET policy_name = excluded.policy_name`,
		resourceType, pol.Name)
	if err != nil {
		return fmt.Errorf("sqlite: binding type %s: %w", resourceType, err)
	}
	return nil
}

// SetFallbackPolicy sets pol as the policy returned when no resource-id or
// type binding matches.
func (s *PolicyStore) SetFallbackPolicy(ctx context.Context, pol policy.Policy) error {
	if err := s.savePolicy(ctx, pol); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO fallback_binding (id, policy_name) VALUES (0, ?)
		 ON CONFLICT(id) DO UPDATE SET policy_name = excluded.policy_name`,
		pol.Name)
	if err != nil {
		return fmt.Errorf("sqlite: setting fallback policy: %w", err)
	}
	return nil
}

func (s *PolicyStore) savePolicy(ctx context.Context, pol policy.Policy) error {
	if pol.Name == "" {
		return fmt.Errorf("sqlite: policy must have a name to be persisted")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO policies (name, extends) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET extends = excluded.extends`,
		pol.Name, pol.Extends); err != nil {
		return fmt.Errorf("sqlite: saving policy %s: %w", pol.Name, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM rules WHERE policy_name = ?`, pol.Name); err != nil {
		return fmt.Errorf("sqlite: clearing rules for %s: %w", pol.Name, err)
	}

	for i, rule := range pol.Rules {
		domainID := ""
		if rule.Domain != nil {
			domainID = rule.Domain.ID
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rules (policy_name, subject, resource, action, effect, priority, domain_id, condition, rule_order)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			pol.Name, rule.Subject, rule.Resource, rule.Action, string(rule.Effect), int(rule.Priority), domainID, rule.Condition, i,
		); err != nil {
			return fmt.Errorf("sqlite: inserting rule %d for %s: %w", i, pol.Name, err)
		}
	}

	return tx.Commit()
}

// GetPoliciesFor implements policy.Loader.
func (s *PolicyStore) GetPoliciesFor(ctx context.Context, _ policy.Subject, resource policy.Resource) (policy.Policy, error) {
	name, err := s.resolveName(ctx, resource)
	if err != nil {
		return policy.Policy{}, err
	}
	if name == "" {
		return policy.Policy{}, nil
	}
	return s.loadPolicy(ctx, name)
}

// GetPoliciesForBatch implements policy.Loader, issuing one lookup per
// resource but against the already-open connection (no additional
// round-trip setup per call).
func (s *PolicyStore) GetPoliciesForBatch(ctx context.Context, subject policy.Subject, resources []policy.Resource) (map[string]policy.Policy, error) {
	out := make(map[string]policy.Policy, len(resources))
	for _, res := range resources {
		pol, err := s.GetPoliciesFor(ctx, subject, res)
		if err != nil {
			return nil, err
		}
		out[res.ID] = pol
	}
	return out, nil
}

func (s *PolicyStore) resolveName(ctx context.Context, resource policy.Resource) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT policy_name FROM resource_bindings WHERE resource_id = ?`, resource.ID).Scan(&name)
	if err == nil {
		return name, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("sqlite: resolving resource binding: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `SELECT policy_name FROM type_bindings WHERE resource_type = ?`, resource.Type).Scan(&name)
	if err == nil {
		return name, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("sqlite: resolving type binding: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `SELECT policy_name FROM fallback_binding WHERE id = 0`).Scan(&name)
	if err == nil {
		return name, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("sqlite: resolving fallback binding: %w", err)
	}
	return "", nil
}

func (s *PolicyStore) loadPolicy(ctx context.Context, name string) (policy.Policy, error) {
	var extends string
	if err := s.db.QueryRowContext(ctx, `SELECT extends FROM policies WHERE name = ?`, name).Scan(&extends); err != nil {
		if err == sql.ErrNoRows {
			return policy.Policy{}, nil
		}
		return policy.Policy{}, fmt.Errorf("sqlite: loading policy %s: %w", name, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT subject, resource, action, effect, priority, domain_id, condition
		 FROM rules WHERE policy_name = ? ORDER BY rule_order ASC`, name)
	if err != nil {
		return policy.Policy{}, fmt.Errorf("sqlite: loading rules for %s: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	pol := policy.Policy{Name: name, Extends: extends}
	for rows.Next() {
		var (
			subject, resource, action, effect, domainID, condition string
			priority                                                int
		)
		if err := rows.Scan(&subject, &resource, &action, &effect, &priority, &domainID, &condition); err != nil {
			return policy.Policy{}, fmt.Errorf("sqlite: scanning rule for %s: %w", name, err)
		}
		var domain *policy.Domain
		if domainID != "" {
			domain = &policy.Domain{ID: domainID}
		}
		pol.Rules = append(pol.Rules, policy.ConditionalPolicyRule{
			PolicyRule: policy.PolicyRule{
				Subject: subject, Resource: resource, Action: action,
				Effect: policy.Effect(effect), Priority: policy.Priority(priority), Domain: domain,
			},
			Condition: condition,
		})
	}
	if err := rows.Err(); err != nil {
		return policy.Policy{}, fmt.Errorf("sqlite: iterating rules for %s: %w", name, err)
	}
	return pol, nil
}
