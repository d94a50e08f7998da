// Package search provides SOSL search operations, generalizing the
// teacher's package of the same name onto internal/session and routing
// its fluent builder's escaping through internal/security.
package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sfcore/salesforce/internal/security"
	"github.com/sfcore/salesforce/internal/session"
)

// Result contains SOSL search results.
type Result struct {
	SearchRecords []SearchRecord `json:"searchRecords"`
}

// SearchRecord represents a search result record.
type SearchRecord struct {
	Attributes map[string]interface{} `json:"attributes"`
	ID         string                 `json:"Id"`
	Name       string                 `json:"Name,omitempty"`
}

// ParameterizedSearchRequest contains parameterized search parameters.
type ParameterizedSearchRequest struct {
	Query          string         `json:"q"`
	Fields         []string       `json:"fields,omitempty"`
	SObjects       []SObjSpec     `json:"sobjects,omitempty"`
	In             string         `json:"in,omitempty"`
	Limit          int            `json:"overallLimit,omitempty"`
	DefaultLimit   int            `json:"defaultLimit,omitempty"`
	DataCategories []DataCategory `json:"dataCategories,omitempty"`
}

// SObjSpec specifies search scope for an object.
type SObjSpec struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields,omitempty"`
	Limit  int      `json:"limit,omitempty"`
}

// DataCategory specifies a data category filter.
type DataCategory struct {
	Group      string   `json:"groupName"`
	Categories []string `json:"categories"`
}

// Service provides SOSL search operations bound to one session.
type Service struct {
	sess *session.Session
}

// NewService builds a Service.
func NewService(sess *session.Session) *Service { return &Service{sess: sess} }

// Execute runs a raw SOSL search query.
func (s *Service) Execute(ctx context.Context, sosl string) (*Result, error) {
	var result Result
	if _, err := s.sess.RestGet(ctx, "search?q="+url.QueryEscape(sosl), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Parameterized runs a parameterized search.
func (s *Service) Parameterized(ctx context.Context, req ParameterizedSearchRequest) (*Result, error) {
	var result Result
	if _, err := s.sess.RestPost(ctx, "parameterizedSearch", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Builder provides fluent SOSL query building, escaping the search term
// through internal/security.EscapeSOSL rather than an inline replacer.
type Builder struct {
	searchTerm   string
	returning    []string
	inScope      string
	withDivision string
	limit        int
}

// NewBuilder creates a new SOSL query builder.
func NewBuilder(searchTerm string) *Builder {
	return &Builder{searchTerm: searchTerm}
}

// Returning adds objects to return.
func (b *Builder) Returning(objects ...string) *Builder {
	b.returning = append(b.returning, objects...)
	return b
}

// ReturningWithFields adds object with specific fields.
func (b *Builder) ReturningWithFields(object string, fields ...string) *Builder {
	if len(fields) > 0 {
		b.returning = append(b.returning, fmt.Sprintf("%s(%s)", object, strings.Join(fields, ", ")))
	} else {
		b.returning = append(b.returning, object)
	}
	return b
}

// In sets the search scope (ALL, NAME, EMAIL, PHONE, SIDEBAR).
func (b *Builder) In(scope string) *Builder {
	b.inScope = scope
	return b
}

// WithDivision filters by division.
func (b *Builder) WithDivision(division string) *Builder {
	b.withDivision = division
	return b
}

// Limit sets maximum results.
func (b *Builder) Limit(limit int) *Builder {
	b.limit = limit
	return b
}

// Build generates the SOSL query string.
func (b *Builder) Build() string {
	var sb strings.Builder
	sb.WriteString("FIND {")
	sb.WriteString(security.EscapeSOSL(b.searchTerm))
	sb.WriteString("}")
	if b.inScope != "" {
		sb.WriteString(" IN ")
		sb.WriteString(b.inScope)
		sb.WriteString(" FIELDS")
	}
	if len(b.returning) > 0 {
		sb.WriteString(" RETURNING ")
		sb.WriteString(strings.Join(b.returning, ", "))
	}
	if b.withDivision != "" {
		sb.WriteString(" WITH DIVISION = '")
		sb.WriteString(b.withDivision)
		sb.WriteString("'")
	}
	if b.limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", b.limit)
	}
	return sb.String()
}

// Execute builds and runs the search.
func (b *Builder) Execute(ctx context.Context, s *Service) (*Result, error) {
	return s.Execute(ctx, b.Build())
}
