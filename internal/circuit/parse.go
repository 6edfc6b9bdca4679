package circuit

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// ParseError reports a malformed network line. No partial graph is returned
// alongside a ParseError.
type ParseError struct {
	Line    int    // 1-based line number, 0 when not tied to a line
	Text    string // offending line, trimmed
	Message string
	Err     error // underlying sentinel, if any
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %q", e.Line, e.Message, e.Text)
	}
	return e.Message
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads a network description and builds its Graph.
//
// Syntax, one declaration per line:
//
//	broadcaster -> a, b
//	%a -> b
//	&b -> a, output
//
// Blank lines and lines starting with '#' are ignored. Module names are
// NFC-normalised.
func Parse(text string) (*Graph, error) {
	decls, broadcast, err := ParseDeclarations(text)
	if err != nil {
		return nil, err
	}
	g, err := New(decls, broadcast)
	if err != nil {
		return nil, &ParseError{Message: err.Error(), Err: err}
	}
	return g, nil
}

// ParseDeclarations parses text into declarations without building a Graph.
func ParseDeclarations(text string) ([]Declaration, []string, error) {
	var (
		decls     []Declaration
		broadcast []string
		seen      = make(map[string]int)
		haveBcast bool
	)

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fail := func(msg string, err error) error {
			return &ParseError{Line: lineNo, Text: line, Message: msg, Err: err}
		}

		lhs, rhs, ok := strings.Cut(line, "->")
		if !ok {
			return nil, nil, fail("missing \"->\"", nil)
		}
		lhs = strings.TrimSpace(lhs)
		outputs, err := parseOutputs(rhs)
		if err != nil {
			return nil, nil, fail(err.Error(), nil)
		}

		if lhs == BroadcasterName {
			if haveBcast {
				return nil, nil, fail("duplicate broadcaster", ErrDuplicateModule)
			}
			haveBcast = true
			broadcast = outputs
			continue
		}

		if lhs == "" {
			return nil, nil, fail("empty module name", ErrEmptyName)
		}
		var kind Kind
		switch rune(lhs[0]) {
		case FlipFlopMarker:
			kind = FlipFlop
		case ConjunctionMarker:
			kind = Conjunction
		default:
			return nil, nil, fail("unknown module kind marker", ErrUnknownKind)
		}
		name, err := normalizeName(lhs[1:])
		if err != nil {
			return nil, nil, fail(err.Error(), ErrEmptyName)
		}
		if name == BroadcasterName {
			return nil, nil, fail("broadcaster cannot carry a kind marker", ErrReservedName)
		}
		if prev, dup := seen[name]; dup {
			return nil, nil, fail(fmt.Sprintf("module %s already declared on line %d", name, prev), ErrDuplicateModule)
		}
		seen[name] = lineNo
		decls = append(decls, Declaration{Name: name, Kind: kind, Outputs: outputs})
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("read network: %w", err)
	}
	if !haveBcast {
		return nil, nil, &ParseError{Message: "no broadcaster declaration", Err: ErrMissingBroadcaster}
	}
	return decls, broadcast, nil
}

// parseOutputs splits a comma-separated destination list. A blank list
// declares a module with no outputs; a blank entry is malformed.
func parseOutputs(rhs string) ([]string, error) {
	rhs = strings.TrimSpace(rhs)
	if rhs == "" {
		return nil, nil
	}
	parts := strings.Split(rhs, ",")
	outputs := make([]string, 0, len(parts))
	for _, p := range parts {
		name, err := normalizeName(p)
		if err != nil {
			return nil, fmt.Errorf("output list: %w", err)
		}
		outputs = append(outputs, name)
	}
	return outputs, nil
}

func normalizeName(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("empty module name")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || r == ',' || r == FlipFlopMarker || r == ConjunctionMarker {
			return "", fmt.Errorf("invalid character %q in module name %q", r, s)
		}
	}
	return norm.NFC.String(s), nil
}
