package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexedwards/argon2id"

	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

// bootstrapArgon2idParams are OWASP-minimum Argon2id parameters for
// bootstrap credential hashing.
var bootstrapArgon2idParams = &argon2id.Params{
	Memory:      47 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// SubjectResolver implements policy.SubjectResolver over an in-memory map
// from an opaque host context key to a Subject. Intended for tests and the
// authzctl demo, where the "host context" is just a subject ID string.
//
// Subjects registered via RegisterWithSecret additionally require a raw
// secret at resolve time, verified against an Argon2id hash — a minimal
// bootstrap credential store for CLI demos that seed subjects from a
// credentials file rather than trusting the host context verbatim.
type SubjectResolver struct {
	mu       sync.RWMutex
	subjects map[string]policy.Subject
	secrets  map[string]string // hostContext -> Argon2id PHC hash
}

// NewSubjectResolver returns an empty resolver.
func NewSubjectResolver() *SubjectResolver {
	return &SubjectResolver{subjects: make(map[string]policy.Subject), secrets: make(map[string]string)}
}

var _ policy.SubjectResolver = (*SubjectResolver)(nil)

// Register associates hostContext (expected to be a string key) with subject.
func (r *SubjectResolver) Register(hostContext string, subject policy.Subject) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subjects[hostContext] = subject
}

// RegisterWithSecret associates hostContext with subject, additionally
// requiring rawSecret (hashed here with Argon2id) to be presented via
// ResolveWithSecret.
func (r *SubjectResolver) RegisterWithSecret(hostContext string, subject policy.Subject, rawSecret string) error {
	hash, err := argon2id.CreateHash(rawSecret, bootstrapArgon2idParams)
	if err != nil {
		return fmt.Errorf("memory subject resolver: hashing secret for %q: %w", hostContext, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subjects[hostContext] = subject
	r.secrets[hostContext] = hash
	return nil
}

// ResolveWithSecret resolves hostContext like Resolve, additionally
// verifying rawSecret against the Argon2id hash RegisterWithSecret stored.
// Resolving a subject that was registered via Register (no secret) always
// fails here — secret verification must be opted into explicitly.
func (r *SubjectResolver) ResolveWithSecret(ctx context.Context, hostContext string, rawSecret string) (policy.Subject, error) {
	r.mu.RLock()
	hash, ok := r.secrets[hostContext]
	r.mu.RUnlock()
	if !ok {
		return policy.Subject{}, fmt.Errorf("memory subject resolver: no credentialed subject registered for %q", hostContext)
	}
	match, err := argon2id.ComparePasswordAndHash(rawSecret, hash)
	if err != nil {
		return policy.Subject{}, fmt.Errorf("memory subject resolver: verifying secret for %q: %w", hostContext, err)
	}
	if !match {
		return policy.Subject{}, fmt.Errorf("memory subject resolver: secret mismatch for %q", hostContext)
	}
	return r.Resolve(ctx, hostContext)
}

// Resolve looks up hostContext, which must be a string in this
// implementation — the core treats the type as opaque, but this adapter
// only understands string keys.
func (r *SubjectResolver) Resolve(_ context.Context, hostContext any) (policy.Subject, error) {
	key, ok := hostContext.(string)
	if !ok {
		return policy.Subject{}, fmt.Errorf("memory subject resolver: unsupported host context type %T", hostContext)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	subject, ok := r.subjects[key]
	if !ok {
		return policy.Subject{}, fmt.Errorf("memory subject resolver: no subject registered for %q", key)
	}
	return subject, nil
}
