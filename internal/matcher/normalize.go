// Package matcher compares typed command answers against accepted forms by
// text alone. Input is tokenized with POSIX shell quoting rules; nothing is
// expanded, executed or looked up on disk.
package matcher

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
)

const (
	// MaxTokens bounds the tokens considered in a single command.
	MaxTokens = 64
	// MaxVariants bounds the readings explored for one command.
	MaxVariants = 256
)

var (
	ErrEmpty         = errors.New("empty command")
	ErrTooManyTokens = fmt.Errorf("command has more than %d tokens", MaxTokens)
)

// Option is one normalized option, with its value when one was attached or
// consumed from the following token.
type Option struct {
	Key      string
	Value    string
	HasValue bool
}

func (o Option) String() string {
	if o.HasValue {
		return o.Key + "=" + o.Value
	}
	return o.Key
}

// Form is one canonical reading of a command: the command token, options
// sorted by key and value, and positionals in their original order.
type Form struct {
	Command     string
	Options     []Option
	Positionals []string
}

func (f Form) String() string {
	parts := []string{f.Command}
	for _, o := range f.Options {
		parts = append(parts, o.String())
	}
	if len(f.Positionals) > 0 {
		parts = append(parts, "--")
		parts = append(parts, f.Positionals...)
	}
	return shellquote.Join(parts...)
}

func (f Form) key() string {
	var b strings.Builder
	b.WriteString(strconv.Quote(f.Command))
	for _, o := range f.Options {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(o.Key))
		if o.HasValue {
			b.WriteByte('=')
			b.WriteString(strconv.Quote(o.Value))
		}
	}
	b.WriteString(" |")
	for _, p := range f.Positionals {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(p))
	}
	return b.String()
}

// optionAliases maps per-command long options to their short equivalent.
var optionAliases = map[string]map[string]string{
	"npm": {"--workspace": "-w"},
}

// valueOptions lists, per command, short options that always take a value.
var valueOptions = map[string]map[string]bool{
	"npm": {"-w": true},
}

// Normalize returns every plausible reading of a command, sorted
// deterministically. A short or long option followed by a non-option token
// is ambiguous: it may be a flag followed by a positional, or an option
// taking that token as its value. Both readings are kept.
func Normalize(command string) ([]Form, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, ErrEmpty
	}
	tokens, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("tokenizing command: %w", err)
	}
	if len(tokens) == 0 {
		return nil, ErrEmpty
	}
	if len(tokens) > MaxTokens {
		return nil, ErrTooManyTokens
	}

	w := &walker{command: tokens[0], tokens: tokens, seen: make(map[string]bool)}
	w.walk(1, false, nil, nil)

	sort.Slice(w.forms, func(i, j int) bool { return w.forms[i].key() < w.forms[j].key() })
	return w.forms, nil
}

type walker struct {
	command string
	tokens  []string
	forms   []Form
	seen    map[string]bool
	leaves  int
}

// full reports whether the walk has produced MaxVariants readings, counting
// duplicates, so repetitive input cannot blow up the search.
func (w *walker) full() bool { return w.leaves >= MaxVariants }

func (w *walker) walk(i int, forcePositional bool, opts []Option, pos []string) {
	if w.full() {
		return
	}
	if i >= len(w.tokens) {
		w.emit(opts, pos)
		return
	}

	tok := w.tokens[i]
	switch {
	case forcePositional:
		w.walk(i+1, true, opts, appendClone(pos, tok))

	case tok == "--":
		w.walk(i+1, true, opts, pos)

	case strings.HasPrefix(tok, "--") && len(tok) > 2:
		if key, value, ok := strings.Cut(tok, "="); ok {
			w.walk(i+1, false, appendClone(opts, Option{Key: key, Value: value, HasValue: true}), pos)
			return
		}
		w.walk(i+1, false, appendClone(opts, Option{Key: tok}), pos)
		if next, ok := w.valueAt(i + 1); ok {
			w.walk(i+2, false, appendClone(opts, Option{Key: tok, Value: next, HasValue: true}), pos)
		}

	case strings.HasPrefix(tok, "-") && len(tok) > 1:
		w.walkShort(i, tok, opts, pos)

	default:
		w.walk(i+1, false, opts, appendClone(pos, tok))
	}
}

func (w *walker) walkShort(i int, tok string, opts []Option, pos []string) {
	body := tok[1:]
	takesValue := valueOptions[w.command]

	switch {
	case len(body) > 1 && isAlpha(body):
		if bundleNeedsValue(body, takesValue) {
			parsed, consumed := w.valueBundle(i, body, takesValue)
			w.walk(i+consumed, false, append(cloneOptions(opts), parsed...), pos)
			return
		}
		letters := strings.Split(body, "")
		sort.Strings(letters)
		next := cloneOptions(opts)
		for _, l := range letters {
			next = append(next, Option{Key: "-" + l})
		}
		w.walk(i+1, false, next, pos)

	case len(body) > 1 && isDigits(body[1:]):
		w.walk(i+1, false, appendClone(opts, Option{Key: tok[:2], Value: body[1:], HasValue: true}), pos)

	case len(body) > 1:
		w.walk(i+1, false, appendClone(opts, Option{Key: tok}), pos)

	case takesValue[tok]:
		if next, ok := w.valueAt(i + 1); ok {
			w.walk(i+2, false, appendClone(opts, Option{Key: tok, Value: next, HasValue: true}), pos)
			return
		}
		w.walk(i+1, false, appendClone(opts, Option{Key: tok}), pos)

	default:
		w.walk(i+1, false, appendClone(opts, Option{Key: tok}), pos)
		if next, ok := w.valueAt(i + 1); ok {
			w.walk(i+2, false, appendClone(opts, Option{Key: tok, Value: next, HasValue: true}), pos)
		}
	}
}

// valueBundle parses a bundle such as "-Sw" where one letter takes a value:
// the rest of the bundle, or else the following token.
func (w *walker) valueBundle(i int, body string, takesValue map[string]bool) ([]Option, int) {
	var out []Option
	consumed := 1
	for j := 0; j < len(body); j++ {
		key := "-" + body[j:j+1]
		if !takesValue[key] {
			out = append(out, Option{Key: key})
			continue
		}
		if rest := body[j+1:]; rest != "" {
			out = append(out, Option{Key: key, Value: rest, HasValue: true})
			break
		}
		if next, ok := w.valueAt(i + 1); ok {
			out = append(out, Option{Key: key, Value: next, HasValue: true})
			consumed = 2
		} else {
			out = append(out, Option{Key: key})
		}
	}
	return out, consumed
}

func (w *walker) valueAt(i int) (string, bool) {
	if i >= len(w.tokens) || strings.HasPrefix(w.tokens[i], "-") {
		return "", false
	}
	return w.tokens[i], true
}

func (w *walker) emit(opts []Option, pos []string) {
	w.leaves++
	aliases := optionAliases[w.command]
	normalized := make([]Option, len(opts))
	for i, o := range opts {
		if alias, ok := aliases[o.Key]; ok {
			o.Key = alias
		}
		normalized[i] = o
	}
	sort.Slice(normalized, func(a, b int) bool {
		if normalized[a].Key != normalized[b].Key {
			return normalized[a].Key < normalized[b].Key
		}
		return normalized[a].Value < normalized[b].Value
	})

	f := Form{Command: w.command, Options: normalized, Positionals: append([]string(nil), pos...)}
	k := f.key()
	if w.seen[k] {
		return
	}
	w.seen[k] = true
	w.forms = append(w.forms, f)
}

// Equivalent reports whether two commands share at least one reading.
func Equivalent(a, b string) bool {
	fa, err := Normalize(a)
	if err != nil {
		return false
	}
	fb, err := Normalize(b)
	if err != nil {
		return false
	}
	return intersects(fa, fb)
}

func intersects(a, b []Form) bool {
	keys := make(map[string]bool, len(a))
	for _, f := range a {
		keys[f.key()] = true
	}
	for _, f := range b {
		if keys[f.key()] {
			return true
		}
	}
	return false
}

func bundleNeedsValue(body string, takesValue map[string]bool) bool {
	for _, r := range body {
		if takesValue["-"+string(r)] {
			return true
		}
	}
	return false
}

func appendClone[T any](s []T, v T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

func cloneOptions(opts []Option) []Option {
	return append([]Option(nil), opts...)
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return s != ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
