package api

import (
	"net/url"
	"sort"
	"strconv"

	"github.com/samber/lo"

	"github.com/Skryldev/jobly/apperr"
	"github.com/Skryldev/jobly/sqlfrag"
)

// ─────────────────────────────────────────────────────────────────────────────
// Query strings
// ─────────────────────────────────────────────────────────────────────────────

// checkQuery rejects query parameters outside allowed.
func checkQuery(q url.Values, allowed ...string) error {
	unknown := lo.Filter(lo.Keys(q), func(k string, _ int) bool { return !lo.Contains(allowed, k) })
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return apperr.Validation("unknown query parameter: %s", unknown[0])
}

func intParam(q url.Values, key string) (*int, error) {
	if !q.Has(key) {
		return nil, nil
	}
	n, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return nil, apperr.Validation("%s must be an integer", key)
	}
	return &n, nil
}

func boolParam(q url.Values, key string) (*bool, error) {
	if !q.Has(key) {
		return nil, nil
	}
	b, err := strconv.ParseBool(q.Get(key))
	if err != nil {
		return nil, apperr.Validation("%s must be a boolean", key)
	}
	return &b, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Update payloads
// ─────────────────────────────────────────────────────────────────────────────

// rule checks one payload value; v is what sqlfrag.Payload decoded.
type rule func(field string, v any) error

// checkPayload validates every entry of p against rules. Fields listed in
// immutable, and fields without a rule, are rejected.
func checkPayload(p *sqlfrag.Payload, rules map[string]rule, immutable ...string) error {
	for _, a := range p.Entries() {
		if lo.Contains(immutable, a.Field) {
			return apperr.Validation("%s cannot be changed", a.Field)
		}
		check, ok := rules[a.Field]
		if !ok {
			return apperr.Validation("unknown field: %s", a.Field)
		}
		if err := check(a.Field, a.Value); err != nil {
			return err
		}
	}
	return nil
}

// nullable lets null through to r.
func nullable(r rule) rule {
	return func(field string, v any) error {
		if v == nil {
			return nil
		}
		return r(field, v)
	}
}

func nonEmptyString(field string, v any) error {
	s, ok := v.(string)
	if !ok || s == "" {
		return apperr.Validation("%s must be a non-empty string", field)
	}
	return nil
}

func anyString(field string, v any) error {
	if _, ok := v.(string); !ok {
		return apperr.Validation("%s must be a string", field)
	}
	return nil
}

func urlString(field string, v any) error {
	s, ok := v.(string)
	if !ok || !validURL(s) {
		return apperr.Validation("%s must be a URL", field)
	}
	return nil
}

func nonNegativeInt(field string, v any) error {
	n, ok := v.(int64)
	if !ok || n < 0 {
		return apperr.Validation("%s must be a non-negative integer", field)
	}
	return nil
}

func fraction(field string, v any) error {
	var f float64
	switch n := v.(type) {
	case int64:
		f = float64(n)
	case float64:
		f = n
	default:
		return apperr.Validation("%s must be a number", field)
	}
	if f < 0 || f > 1 {
		return apperr.Validation("%s must be between 0 and 1", field)
	}
	return nil
}

func validURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
