// Package expr implements the attribute resolver and ABAC condition
// expression evaluator: a small, hand-written grammar (comparisons,
// between/and, startsWith/endsWith, contains/in, equality) evaluated over
// dotted subject/resource attribute paths. See DESIGN.md for why this is a
// bespoke parser rather than cel-go: the grammar required (bare `between X
// and Y`, `not contains`, whole-token operator detection) is not CEL
// syntax, so CEL cannot host it directly — cel-go is instead used by the
// optional pre-filter in internal/adapter/outbound/celfilter.
package expr

import "github.com/sentrypolicy/authzcore/internal/domain/policy"

// AttributeProvider is an optional custom lookup hook. When set on a
// Resolver, every attribute lookup delegates to it instead of the direct
// field/attributes-map strategy.
type AttributeProvider interface {
	GetAttribute(entity any, attributeName string) (value any, ok bool)
}

// Resolver resolves dotted attribute expressions ("subject.department",
// "resource.owner") against Subject/Resource values.
type Resolver struct {
	// Provider, if non-nil, takes priority over the direct lookup strategy.
	Provider AttributeProvider
}

// Resolve looks up attr on entity, which must be a policy.Subject or
// policy.Resource. Direct lookup tries entity.ID as the "id" field, then
// falls back to the entity's Attributes map.
func (r Resolver) Resolve(entity any, attr string) (any, bool) {
	if r.Provider != nil {
		return r.Provider.GetAttribute(entity, attr)
	}
	switch e := entity.(type) {
	case policy.Subject:
		if attr == "id" {
			return e.ID, true
		}
		v, ok := e.Attributes[attr]
		return v, ok
	case policy.Resource:
		switch attr {
		case "id":
			return e.ID, true
		case "type":
			return e.Type, true
		}
		v, ok := e.Attributes[attr]
		return v, ok
	default:
		return nil, false
	}
}
