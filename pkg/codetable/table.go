package codetable

import (
	"errors"
	"fmt"
	"sort"
	"unicode"
)

// ErrUnknownTable is returned by ByName for an unregistered variant.
var ErrUnknownTable = errors.New("unknown code table")

// Table maps canonical (lower case) characters to code strings.
// A Table is read-only after construction and safe for concurrent use.
type Table struct {
	name  string
	codes map[rune]string
}

// entry groups every character sharing one code.
type entry struct {
	code  string
	runes []rune
}

func build(name string, entries []entry) *Table {
	t := &Table{name: name, codes: make(map[rune]string)}
	for _, e := range entries {
		for _, r := range e.runes {
			if prev, dup := t.codes[r]; dup {
				panic(fmt.Sprintf("codetable %s: %q mapped twice (%s, %s)", name, r, prev, e.code))
			}
			t.codes[r] = e.code
		}
	}
	return t
}

// Fold returns the canonical form of r used as the lookup key.
func Fold(r rune) rune {
	return unicode.ToLower(r)
}

// Lookup returns the code for r after case folding.
// Space is the word separator and is never looked up.
func (t *Table) Lookup(r rune) (string, bool) {
	if r == ' ' {
		return "", false
	}
	code, ok := t.codes[Fold(r)]
	return code, ok
}

// Name returns the variant name ("default", "itu").
func (t *Table) Name() string {
	return t.name
}

// Len returns the number of canonical characters in the table.
func (t *Table) Len() int {
	return len(t.codes)
}

// Runes returns every canonical character, sorted.
func (t *Table) Runes() []rune {
	out := make([]rune, 0, len(t.codes))
	for r := range t.codes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ByName resolves a table variant. An empty name selects Default.
func ByName(name string) (*Table, error) {
	switch name {
	case "", Default.name:
		return Default, nil
	case ITU.name:
		return ITU, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
}
