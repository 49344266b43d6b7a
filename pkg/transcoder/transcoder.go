// Package transcoder turns free-form text into framed Morse lines.
//
// Translation is a two pass process: a validation pass that collects every character
// the code table cannot encode, and an encoding pass that only runs when validation
// found nothing. A single unsupported character therefore produces no partial output.
package transcoder

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/aretw0/morselink/internal/logging"
	"github.com/aretw0/morselink/pkg/codetable"
	"github.com/aretw0/morselink/pkg/domain"
)

// Transcoder validates and encodes text against one code table.
// It holds no mutable state and is safe for concurrent use.
type Transcoder struct {
	table  *codetable.Table
	logger *slog.Logger
}

// Option configures the Transcoder.
type Option func(*Transcoder)

// WithTable selects the code table (default: codetable.Default).
func WithTable(table *codetable.Table) Option {
	return func(t *Transcoder) {
		if table != nil {
			t.table = table
		}
	}
}

// WithLogger configures a logger for caught faults.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transcoder) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// New creates a Transcoder.
func New(opts ...Option) *Transcoder {
	t := &Transcoder{
		table:  codetable.Default,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Table returns the code table in use.
func (t *Transcoder) Table() *codetable.Table {
	return t.table
}

// Translate encodes raw into a Result. It never panics: an unexpected fault is
// reported as a domain.KindFault result.
func (t *Transcoder) Translate(raw string) (res domain.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			t.logger.Error("Transcoding fault", "err", fmt.Sprint(rec), "runes", len([]rune(raw)))
			res = domain.Result{Kind: domain.KindFault}
		}
	}()

	input := strings.TrimSpace(raw)
	if input == "" {
		return domain.Result{Kind: domain.KindEmpty}
	}

	runes := []rune(input)
	if invalid := t.validate(runes); len(invalid) > 0 {
		return domain.Invalid(invalid)
	}

	code := strings.Trim(t.encode(runes), domain.WordSeparator)
	if code == "" {
		return domain.Result{Kind: domain.KindNoSymbols}
	}
	return domain.Translated(code)
}

// validate returns the unsupported characters, folded, deduplicated, in first-seen order.
func (t *Transcoder) validate(runes []rune) []rune {
	var invalid []rune
	seen := make(map[rune]struct{})
	for _, r := range runes {
		if isSeparator(r) {
			continue
		}
		r = codetable.Fold(r)
		if _, ok := t.table.Lookup(r); ok {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		invalid = append(invalid, r)
	}
	return invalid
}

// encode frames already validated runes.
func (t *Transcoder) encode(runes []rune) string {
	var b strings.Builder
	inWord := false
	for _, r := range runes {
		if isSeparator(r) {
			if inWord {
				b.WriteString(domain.WordSeparator)
				inWord = false
			}
			continue
		}

		code, ok := t.table.Lookup(r)
		if !ok {
			panic(fmt.Sprintf("unvalidated rune %q reached encoder", r))
		}
		if inWord {
			b.WriteString(domain.LetterSeparator)
		}
		b.WriteString(code)
		inWord = true
	}
	return b.String()
}

// isSeparator reports whether r delimits words. Every Unicode white space counts,
// matching what strings.TrimSpace strips from the ends.
func isSeparator(r rune) bool {
	return unicode.IsSpace(r)
}

// Split breaks an encoded line back into its words and letter codes.
// It is the inverse of the framing only; it does not decode letters.
func Split(code string) [][]string {
	if code == "" {
		return nil
	}
	words := strings.Split(code, domain.WordSeparator)
	out := make([][]string, 0, len(words))
	for _, w := range words {
		out = append(out, strings.Split(w, domain.LetterSeparator))
	}
	return out
}
