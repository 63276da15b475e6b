package domain

import "time"

// Resource names the collection a filter request targets.
type Resource string

const (
	ResourceMovie  Resource = "movie"
	ResourceActor  Resource = "actor"
	ResourceRating Resource = "rating"
)

// Filters is the raw string-keyed filter set handed over by the HTTP layer.
type Filters map[string]string

// Term is one comparison inside a predicate. The set of implementations is
// closed; only the repository layer renders terms into store queries.
type Term interface {
	// FieldName returns the (possibly rewritten) document field the term
	// applies to.
	FieldName() string

	isTerm()
}

// EqualsTerm matches documents whose field equals the value exactly.
type EqualsTerm struct {
	Field string
	Value any
}

// ContainsTerm matches documents whose string field contains the value,
// case-insensitively.
type ContainsTerm struct {
	Field string
	Value string
}

// RangeTerm matches documents whose date field lies in [From, To], both
// bounds inclusive.
type RangeTerm struct {
	Field string
	From  time.Time
	To    time.Time
}

// GreaterOrEqualTerm matches documents whose numeric field is >= Value.
type GreaterOrEqualTerm struct {
	Field string
	Value float64
}

// InTerm matches documents whose field is contained in IDs. An empty id set
// is a valid term that matches no documents; it must never be elided.
type InTerm struct {
	Field string
	IDs   []int
}

func (t EqualsTerm) FieldName() string         { return t.Field }
func (t ContainsTerm) FieldName() string       { return t.Field }
func (t RangeTerm) FieldName() string          { return t.Field }
func (t GreaterOrEqualTerm) FieldName() string { return t.Field }
func (t InTerm) FieldName() string             { return t.Field }

func (EqualsTerm) isTerm()         {}
func (ContainsTerm) isTerm()       {}
func (RangeTerm) isTerm()          {}
func (GreaterOrEqualTerm) isTerm() {}
func (InTerm) isTerm()             {}

// Predicate is a conjunction of terms. Terms are only ever combined with
// logical AND; there is no OR or NOT.
type Predicate struct {
	Terms []Term
}

// And returns a new predicate with the term appended. The receiver is left
// untouched so partially built predicates never leak state between fields.
func (p Predicate) And(t Term) Predicate {
	terms := make([]Term, 0, len(p.Terms)+1)
	terms = append(terms, p.Terms...)
	terms = append(terms, t)
	return Predicate{Terms: terms}
}

// IsEmpty reports whether the predicate constrains nothing.
func (p Predicate) IsEmpty() bool { return len(p.Terms) == 0 }
