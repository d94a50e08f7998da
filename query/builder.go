// Package query provides SOQL query execution and a generics-based
// fluent builder, generalizing the teacher's query.Service/Builder so
// results decode into a caller-supplied record type and every literal
// interpolated into the generated SOQL is escaped through
// internal/security rather than concatenated raw.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sfcore/salesforce/internal/security"
	"github.com/sfcore/salesforce/internal/session"
	"github.com/sfcore/salesforce/sferrors"
)

// Service provides SOQL query operations against one session, the home
// of the untyped convenience methods mirroring the teacher's
// query.Service.
type Service struct {
	sess *session.Session
}

// NewService builds a Service bound to sess.
func NewService(sess *session.Session) *Service { return &Service{sess: sess} }

// Execute runs a raw SOQL string, returning raw record maps.
func (s *Service) Execute(ctx context.Context, soql string) (*session.QueryResult, error) {
	return s.sess.Query(ctx, soql)
}

// ExecuteAll runs a raw SOQL string including deleted/archived records.
func (s *Service) ExecuteAll(ctx context.Context, soql string) (*session.QueryResult, error) {
	return s.sess.QueryAllRecordsIncludingDeleted(ctx, soql)
}

// ExecuteAllRecords drains pagination, returning every record.
func (s *Service) ExecuteAllRecords(ctx context.Context, soql string) ([]map[string]interface{}, error) {
	return s.sess.QueryAll(ctx, soql)
}

// Builder fluently composes a SOQL statement for one SObject type T,
// escaping every literal and validating every field/object name before
// it reaches the generated string.
type Builder[T any] struct {
	sobject    string
	fields     []string
	conditions []string
	orderBy    []string
	limit      int
	offset     int
	invalid    []string // names rejected by the security grammar, surfaced by Build's error
}

// New starts a builder for sobject, the Go-generics successor to the
// teacher's NewBuilder(objectType string).
func New[T any](sobject string) *Builder[T] {
	b := &Builder[T]{sobject: sobject}
	if !security.IsSafeSObjectName(sobject) {
		b.invalid = append(b.invalid, "sobject:"+sobject)
	}
	return b
}

// Select adds fields to the projection, silently dropping any name that
// fails the field-name grammar rather than failing the whole query.
func (b *Builder[T]) Select(fields ...string) *Builder[T] {
	for _, f := range fields {
		if security.IsSafeFieldName(f) {
			b.fields = append(b.fields, f)
		}
	}
	return b
}

func (b *Builder[T]) checkedField(field string) string {
	if !security.IsSafeFieldName(field) {
		b.invalid = append(b.invalid, "field:"+field)
	}
	return field
}

// WhereEq adds a field = value condition, escaping string values.
func (b *Builder[T]) WhereEq(field string, value interface{}) *Builder[T] {
	field = b.checkedField(field)
	b.conditions = append(b.conditions, fmt.Sprintf("%s = %s", field, formatValue(value)))
	return b
}

// WhereNe adds a field != value condition.
func (b *Builder[T]) WhereNe(field string, value interface{}) *Builder[T] {
	field = b.checkedField(field)
	b.conditions = append(b.conditions, fmt.Sprintf("%s != %s", field, formatValue(value)))
	return b
}

// WhereLike adds a field LIKE 'pattern' condition with wildcard-aware escaping.
func (b *Builder[T]) WhereLike(field, pattern string) *Builder[T] {
	field = b.checkedField(field)
	b.conditions = append(b.conditions, fmt.Sprintf("%s LIKE '%s'", field, security.EscapeSOQLLike(pattern)))
	return b
}

// WhereIn adds a field IN (...) condition.
func (b *Builder[T]) WhereIn(field string, values ...interface{}) *Builder[T] {
	field = b.checkedField(field)
	formatted := make([]string, len(values))
	for i, v := range values {
		formatted[i] = formatValue(v)
	}
	b.conditions = append(b.conditions, fmt.Sprintf("%s IN (%s)", field, strings.Join(formatted, ", ")))
	return b
}

// WhereRaw appends a caller-composed condition verbatim, for expressions
// the typed helpers above can't express (e.g. date literals, subqueries).
// Callers are responsible for escaping any embedded literal themselves.
func (b *Builder[T]) WhereRaw(condition string) *Builder[T] {
	b.conditions = append(b.conditions, condition)
	return b
}

// OrderBy adds an ORDER BY clause fragment, e.g. "CreatedDate DESC".
func (b *Builder[T]) OrderBy(fragment string) *Builder[T] {
	b.orderBy = append(b.orderBy, fragment)
	return b
}

// Limit sets the LIMIT clause.
func (b *Builder[T]) Limit(n int) *Builder[T] {
	b.limit = n
	return b
}

// Offset sets the OFFSET clause.
func (b *Builder[T]) Offset(n int) *Builder[T] {
	b.offset = n
	return b
}

// Build renders the SOQL string, or an error naming every invalid
// field/object name encountered along the way. No fields selected is
// also an error: there is no sensible default projection to fall back to.
func (b *Builder[T]) Build() (string, error) {
	if len(b.invalid) > 0 {
		return "", sferrors.New(sferrors.KindSerialization, "invalid SOQL identifiers: "+strings.Join(b.invalid, ", "))
	}
	if len(b.fields) == 0 {
		return "", sferrors.New(sferrors.KindSerialization, "no fields selected")
	}
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.fields, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.sobject)
	if len(b.conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(b.conditions, " AND "))
	}
	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", b.limit)
	}
	if b.offset > 0 {
		fmt.Fprintf(&sb, " OFFSET %d", b.offset)
	}
	return sb.String(), nil
}

// Execute builds and runs the query, decoding each record into T.
func (b *Builder[T]) Execute(ctx context.Context, sess *session.Session) ([]T, error) {
	soql, err := b.Build()
	if err != nil {
		return nil, err
	}
	result, err := sess.Query(ctx, soql)
	if err != nil {
		return nil, err
	}
	return decodeRecords[T](result.Records)
}

// ExecuteAll builds the query and drains pagination, decoding every
// record into T.
func (b *Builder[T]) ExecuteAll(ctx context.Context, sess *session.Session) ([]T, error) {
	soql, err := b.Build()
	if err != nil {
		return nil, err
	}
	raw, err := sess.QueryAll(ctx, soql)
	if err != nil {
		return nil, err
	}
	return decodeRecords[T](raw)
}

func decodeRecords[T any](raw []map[string]interface{}) ([]T, error) {
	out := make([]T, len(raw))
	for i, r := range raw {
		data, err := json.Marshal(r)
		if err != nil {
			return nil, sferrors.Wrap(sferrors.KindJSON, "failed to re-marshal query record", err)
		}
		if err := json.Unmarshal(data, &out[i]); err != nil {
			return nil, sferrors.Wrap(sferrors.KindJSON, "failed to decode query record", err)
		}
	}
	return out, nil
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return "'" + security.EscapeSOQLString(val) + "'"
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case nil:
		return "NULL"
	default:
		return fmt.Sprintf("%v", val)
	}
}
