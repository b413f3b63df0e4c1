package service

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

// computeCacheKey hashes everything Engine.Evaluate's result can vary on:
// subject and resource identity, the action name, and both attribute bags.
// Two calls that share a subject/resource/action but differ in attribute
// values (an ABAC condition like resource.owner_id == subject.id after an
// ownership change, or an RBAC role change) must never collide on the same
// key — an attribute-blind key would serve the first call's stale cached
// effect to the second.
func computeCacheKey(subject policy.Subject, resource policy.Resource, action policy.Action) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(subject.ID)
	_, _ = h.Write([]byte{0})
	writeAttrs(h, subject.Attributes)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(resource.ID)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(resource.Type)
	_, _ = h.Write([]byte{0})
	writeAttrs(h, resource.Attributes)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(action.Name)
	return h.Sum64()
}

// writeAttrs writes attrs to h in sorted-key order, so map iteration's
// nondeterminism never changes the hash for an identical attribute set.
func writeAttrs(h *xxhash.Digest, attrs map[string]policy.AttributeValue) {
	if len(attrs) == 0 {
		return
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = h.WriteString(k)
		_, _ = h.Write([]byte{'='})
		fmt.Fprintf(h, "%v", attrs[k])
		_, _ = h.Write([]byte{0})
	}
}
