package generator

import (
	"fmt"

	"github.com/valyala/fastjson"
)

// FieldMap maps query domains onto backend field names.
type FieldMap struct {
	// Default is used for domains that have no mapping. When empty, Field
	// passes an unmapped domain through and Lookup reports it as unmapped.
	Default string
	// Tags and Users name the fields #tag and @user terms are matched in.
	Tags  string
	Users string
	// Domains maps a query domain to a backend field.
	Domains map[string]string
	// Resolve, when set, is consulted before Domains.
	Resolve func(domain string) (string, bool)
}

// Field returns the backend field for domain. Terms without a domain have no
// field and yield "". Unmapped domains are passed through, which suits
// backends that reject unknown fields on their own.
func (m FieldMap) Field(domain string) string {
	if field, ok := m.Lookup(domain); ok || domain == "" {
		return field
	}
	return domain
}

// Lookup returns the backend field configured for domain. It reports false
// for unmapped domains when Default is empty.
func (m FieldMap) Lookup(domain string) (string, bool) {
	if domain == "" {
		return "", false
	}
	if m.Resolve != nil {
		if field, ok := m.Resolve(domain); ok {
			return field, true
		}
	}
	if field, ok := m.Domains[domain]; ok {
		return field, true
	}
	if m.Default != "" {
		return m.Default, true
	}
	return "", false
}

// ParseFieldMap decodes a field map document of the form
//
//	{"default":"text","tags":"tags","users":"author","domains":{"title":"title_t"}}
//
// Every key is optional.
func ParseFieldMap(data []byte) (FieldMap, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return FieldMap{}, fmt.Errorf("%w: %w", ErrInvalidFieldMap, err)
	}
	if v.Type() != fastjson.TypeObject {
		return FieldMap{}, fmt.Errorf("%w: document is %s, not an object", ErrInvalidFieldMap, v.Type())
	}

	var m FieldMap
	for key, target := range map[string]*string{"default": &m.Default, "tags": &m.Tags, "users": &m.Users} {
		if !v.Exists(key) {
			continue
		}
		s, err := v.Get(key).StringBytes()
		if err != nil {
			return FieldMap{}, fmt.Errorf("%w: %q: %w", ErrInvalidFieldMap, key, err)
		}
		*target = string(s)
	}

	if !v.Exists("domains") {
		return m, nil
	}
	domains, err := v.Get("domains").Object()
	if err != nil {
		return FieldMap{}, fmt.Errorf("%w: \"domains\": %w", ErrInvalidFieldMap, err)
	}
	m.Domains = make(map[string]string, domains.Len())
	domains.Visit(func(key []byte, field *fastjson.Value) {
		if err != nil {
			return
		}
		s, serr := field.StringBytes()
		if serr != nil {
			err = fmt.Errorf("%w: domain %q: %w", ErrInvalidFieldMap, key, serr)
			return
		}
		m.Domains[string(key)] = string(s)
	})
	if err != nil {
		return FieldMap{}, err
	}
	return m, nil
}
