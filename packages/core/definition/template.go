package definition

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/hitsuite/packages/core/env"
)

// Bind resolves the {{...}} expressions of every test in tree. Expressions in
// url, body and auth become producers, so generated values are fresh on every
// execution; headers and expectations are resolved once. Every expression is
// checked up front and the first unresolvable one is returned as an error.
func Bind(tree *Tests, r *env.Resolver) error {
	if tree == nil || r == nil {
		return nil
	}
	for _, test := range tree.Cases() {
		if err := bindTest(test, r); err != nil {
			return fmt.Errorf("%s: %w", test.Name, err)
		}
	}
	for _, entry := range tree.Entries() {
		if entry.Suite == nil {
			continue
		}
		if err := Bind(entry.Suite.Tests, r); err != nil {
			return fmt.Errorf("%s: %w", entry.Key, err)
		}
	}
	return nil
}

func bindTest(t *Test, r *env.Resolver) error {
	var missing []string
	collect := func(s string) {
		missing = append(missing, r.Unresolved(s)...)
	}

	if t.URL.IsSet() && !t.URL.IsProducer() {
		if raw := t.URL.Resolve(); env.HasTemplate(raw) {
			collect(raw)
			t.URL = Producer(func() string { return resolveString(r, raw) })
		}
	}

	if t.Body.IsSet() && !t.Body.IsProducer() {
		if raw := t.Body.Resolve(); hasTemplates(raw, collect) {
			t.Body = Producer(func() any { return resolveAny(r, raw) })
		}
	}

	if t.Auth.IsSet() && !t.Auth.IsProducer() {
		raw := t.Auth.Resolve()
		templated := false
		for _, id := range raw.identities {
			if hasTemplates(id.Token, collect) || hasTemplates(id.Credentials, collect) {
				templated = true
			}
		}
		if templated {
			t.Auth = Producer(func() Auth { return resolveAuth(r, raw) })
		}
	}

	for i, field := range t.Headers {
		if hasTemplates(field.Value, collect) {
			t.Headers[i].Value = resolveAny(r, field.Value)
		}
	}

	if t.Expect != nil {
		if hasTemplates(t.Expect.Value, collect) {
			t.Expect.Value = resolveAny(r, t.Expect.Value)
		}
		for i, field := range t.Expect.Headers {
			if hasTemplates(field.Value, collect) {
				t.Expect.Headers[i].Value = Pattern(resolveAny(r, field.Value))
			}
		}
		if b := t.Expect.Body; b != nil && !b.IsProducer() {
			if raw := b.Resolve(); hasTemplates(raw, collect) {
				t.Expect.Body = ExpectBody(resolveAny(r, raw))
			}
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("unresolved template expressions: %s", strings.Join(missing, ", "))
	}
	return nil
}

// hasTemplates walks v and reports whether any string holds an expression.
// Every templated string is passed to visit.
func hasTemplates(v any, visit func(string)) bool {
	found := false
	switch x := v.(type) {
	case string:
		if env.HasTemplate(x) {
			visit(x)
			found = true
		}
	case map[string]any:
		for _, item := range x {
			if hasTemplates(item, visit) {
				found = true
			}
		}
	case []any:
		for _, item := range x {
			if hasTemplates(item, visit) {
				found = true
			}
		}
	}
	return found
}

func resolveString(r *env.Resolver, s string) string {
	out, err := r.Resolve(s)
	if err != nil {
		return s
	}
	return out
}

// resolveAny returns a copy of v with every expression replaced.
func resolveAny(r *env.Resolver, v any) any {
	switch x := v.(type) {
	case string:
		if !env.HasTemplate(x) {
			return x
		}
		out, err := r.ResolveValue(x)
		if err != nil {
			return x
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = resolveAny(r, item)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = resolveAny(r, item)
		}
		return out
	default:
		return v
	}
}

func resolveAuth(r *env.Resolver, a Auth) Auth {
	ids := make([]Identity, len(a.identities))
	for i, id := range a.identities {
		if id.IsToken() {
			ids[i] = Token(resolveString(r, id.Token))
			continue
		}
		ids[i] = Credentials(resolveAny(r, id.Credentials).(map[string]any))
	}
	return Auth{identities: ids, multi: a.multi}
}
