package matcher

import (
	"regexp"
	"strings"
	"sync"

	"github.com/sentrypolicy/authzcore/internal/domain/policy"
)

var restVerbs = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true,
	"DELETE": true, "HEAD": true, "OPTIONS": true,
}

// RESTful matches URL-path actions ("GET /api/docs"). An action whose name
// does not begin with a recognized HTTP verb delegates entirely to
// Fallback (typically ACL).
type RESTful struct {
	Fallback Matcher

	mu    sync.Mutex
	cache map[string]*regexp.Regexp
}

var _ Matcher = (*RESTful)(nil)

func NewRESTful(fallback Matcher) *RESTful {
	return &RESTful{Fallback: fallback, cache: make(map[string]*regexp.Regexp)}
}

func (r *RESTful) Matches(rule policy.ConditionalPolicyRule, subject policy.Subject, resource policy.Resource, action policy.Action) bool {
	method, path, ok := splitVerb(action.Name)
	if !ok {
		fallback := r.Fallback
		if fallback == nil {
			fallback = ACL{}
		}
		return fallback.Matches(rule, subject, resource, action)
	}
	return restSubjectMatches(rule.Subject, subject) &&
		r.pathMatches(rule.Resource, path) &&
		restMethodMatches(rule.Action, method)
}

// splitVerb reports whether name begins with a recognized HTTP verb
// followed by whitespace, returning the verb and the remaining path.
func splitVerb(name string) (verb, rest string, ok bool) {
	i := strings.IndexAny(name, " \t")
	var head string
	if i < 0 {
		head, rest = name, ""
	} else {
		head, rest = name[:i], strings.TrimSpace(name[i+1:])
	}
	if !restVerbs[strings.ToUpper(head)] {
		return "", "", false
	}
	return strings.ToUpper(head), rest, true
}

// restSubjectMatches is ACL's identity test but with "*" treated as
// universal rather than requiring superuser.
func restSubjectMatches(rulePattern string, subject policy.Subject) bool {
	return rulePattern == "*" || rulePattern == "" || rulePattern == subject.ID
}

func restMethodMatches(rulePattern, method string) bool {
	if rulePattern == "*" || rulePattern == "" {
		return true
	}
	verb, _, ok := splitVerb(rulePattern)
	if !ok {
		verb = strings.ToUpper(rulePattern)
	}
	return strings.EqualFold(verb, method)
}

func (r *RESTful) pathMatches(pattern, path string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}
	re := r.compile(pattern)
	return re.MatchString(path)
}

// compile turns a ":name"/"*" URL pattern into an anchored regexp,
// memoizing compiled patterns since the same rule is evaluated repeatedly.
func (r *RESTful) compile(pattern string) *regexp.Regexp {
	r.mu.Lock()
	defer r.mu.Unlock()
	if re, ok := r.cache[pattern]; ok {
		return re
	}
	re := compilePathPattern(pattern)
	r.cache[pattern] = re
	return re
}

func compilePathPattern(pattern string) *regexp.Regexp {
	segments := strings.Split(pattern, "/")
	parts := make([]string, len(segments))
	for i, seg := range segments {
		switch {
		case seg == "*":
			parts[i] = "[^/]+"
		case strings.HasPrefix(seg, ":") && len(seg) > 1:
			parts[i] = "[^/]+"
		default:
			parts[i] = regexp.QuoteMeta(seg)
		}
	}
	return regexp.MustCompile("^" + strings.Join(parts, "/") + "$")
}
