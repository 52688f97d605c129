package router

import (
	"fmt"
	"regexp"
	"strings"
)

// matchRule identifies which rule accepted a path, so that parameter
// extraction can mirror it.
type matchRule int

const (
	ruleNone matchRule = iota
	ruleExact
	rulePattern
	ruleSegments
)

// match tests a request path against the route. Rules are tried in
// order: exact string equality, compiled pattern, segment-wise
// comparison. The first rule that succeeds wins.
func (r *Route) match(path string) matchRule {
	if r.Path == path {
		return ruleExact
	}
	if r.matcher != nil && r.matcher.MatchString(path) {
		return rulePattern
	}
	if matchSegments(r.Path, path) {
		return ruleSegments
	}
	return ruleNone
}

// matchSegments compares a ':'-parameterized route path against a
// request path segment by segment. Segment counts must be equal and
// every non-parameter segment must match literally.
func matchSegments(routePath, requestPath string) bool {
	routeParts := strings.Split(routePath, "/")
	requestParts := strings.Split(requestPath, "/")

	if len(routeParts) != len(requestParts) {
		return false
	}

	for i, part := range routeParts {
		if strings.HasPrefix(part, ":") {
			continue
		}
		if part != requestParts[i] {
			return false
		}
	}
	return true
}

// params extracts path parameters from a matched request path,
// mirroring the rule that matched: named captures when the route has
// a compiled pattern, zipped ':name' segment values otherwise.
func (r *Route) params(path string) map[string]string {
	params := make(map[string]string)

	if r.matcher != nil {
		matches := r.matcher.FindStringSubmatch(path)
		if matches == nil {
			return params
		}
		for i, name := range r.matcher.SubexpNames() {
			if i > 0 && name != "" && i < len(matches) {
				params[name] = matches[i]
			}
		}
		return params
	}

	routeParts := strings.Split(r.Path, "/")
	requestParts := strings.Split(path, "/")
	for i, part := range routeParts {
		if strings.HasPrefix(part, ":") && i < len(requestParts) {
			params[strings.TrimPrefix(part, ":")] = requestParts[i]
		}
	}
	return params
}

// compileMatcher compiles the route pattern once at registration. An
// explicit regex always wins; otherwise a pattern is auto-derived for
// paths containing ':name' segments. Purely static routes carry no
// pattern.
func (r *Route) compileMatcher() error {
	if r.Regex != "" {
		matcher, err := regexp.Compile(r.Regex)
		if err != nil {
			return fmt.Errorf("invalid route pattern %q: %w", r.Regex, err)
		}
		r.matcher = matcher
		return nil
	}

	if !strings.Contains(r.Path, ":") {
		return nil
	}

	matcher, err := regexp.Compile(derivePattern(r.Path))
	if err != nil {
		return fmt.Errorf("invalid parameter path %q: %w", r.Path, err)
	}
	r.matcher = matcher
	return nil
}

// derivePattern builds an anchored regex from a ':'-parameterized
// path. Each ':name' segment becomes a named capture matching one or
// more non-'/' characters; literal segments are quoted.
func derivePattern(path string) string {
	var b strings.Builder
	b.WriteString("^")

	for i, part := range strings.Split(path, "/") {
		if i > 0 {
			b.WriteString("/")
		}
		if name, ok := strings.CutPrefix(part, ":"); ok && name != "" {
			fmt.Fprintf(&b, "(?P<%s>[^/]+)", name)
		} else {
			b.WriteString(regexp.QuoteMeta(part))
		}
	}

	b.WriteString("$")
	return b.String()
}
