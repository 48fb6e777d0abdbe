package repository

import (
	"fmt"
	"strings"
)

// Predicate is one typed condition of a Filter. Render returns SQL text with
// `?` placeholders and the values bound to them; user input never appears in
// the text.
type Predicate interface {
	Render() (string, []any)
}

// Equals matches rows whose column equals Value.
type Equals struct {
	Column string
	Value  any
}

func (p Equals) Render() (string, []any) {
	return fmt.Sprintf("%s = ?", p.Column), []any{p.Value}
}

// Contains matches rows whose column contains Value as a substring,
// ignoring case. LIKE wildcards inside Value are matched literally.
type Contains struct {
	Column string
	Value  string
}

func (p Contains) Render() (string, []any) {
	pattern := "%" + escapeLike(strings.ToLower(p.Value)) + "%"
	return fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, p.Column), []any{pattern}
}

// Filter is a conjunction of predicates. The zero value matches every row.
type Filter struct {
	Predicates []Predicate
}

func (f Filter) And(p Predicate) Filter {
	preds := make([]Predicate, 0, len(f.Predicates)+1)
	preds = append(preds, f.Predicates...)
	return Filter{Predicates: append(preds, p)}
}

// Render joins all predicates with AND.
func (f Filter) Render() (string, []any) {
	if len(f.Predicates) == 0 {
		return "1=1", nil
	}
	parts := make([]string, 0, len(f.Predicates))
	var args []any
	for _, p := range f.Predicates {
		text, vals := p.Render()
		parts = append(parts, text)
		args = append(args, vals...)
	}
	return strings.Join(parts, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
