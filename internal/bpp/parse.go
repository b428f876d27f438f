package bpp

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// maxDecimalScale caps the per-file decimal precision. Anything beyond six
// fractional digits in a packing dataset is a corrupted file, not data.
const maxDecimalScale = 6

// ParseFile reads a dataset file and returns the instances it contains.
// The instance name is derived from the file name for single-instance
// layouts.
func ParseFile(path string) ([]*Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	instances, err := Parse(stem, string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return instances, nil
}

// Parse interprets raw dataset text. The layout is detected structurally:
// a file whose usable content is entirely numeric is a simple single-instance
// file (header `n capacity` or `capacity n`, then n size tokens); otherwise
// it must be a BinPack multi-instance file (leading instance count, then
// name / header / sizes blocks). Full-line `#` comments and blank lines are
// ignored everywhere. Decimal tokens are scaled to integers by one power of
// ten chosen per file.
func Parse(name, content string) ([]*Instance, error) {
	lines := usableLines(content)
	if len(lines) == 0 {
		return nil, ErrEmptyInput
	}

	tokens := splitTokens(lines)
	scale, err := detectScale(tokens)
	if err != nil {
		return nil, err
	}

	if allNumeric(tokens) {
		inst, err := parseSimple(name, tokens, scale)
		if err != nil {
			return nil, err
		}
		return []*Instance{inst}, nil
	}
	return parseBinPack(name, lines, scale)
}

// ParseDir parses every non-hidden regular file in dir, in lexical order.
// Files that fail to parse do not abort the batch: their errors are returned
// alongside the instances from the files that did parse. Failing to read the
// directory itself is fatal.
func ParseDir(dir string) ([]*Instance, []error, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var instances []*Instance
	var fileErrs []error
	for _, fname := range names {
		parsed, err := ParseFile(filepath.Join(dir, fname))
		if err != nil {
			fileErrs = append(fileErrs, err)
			continue
		}
		instances = append(instances, parsed...)
	}
	return instances, fileErrs, nil
}

// usableLines strips comments and blank lines, preserving line structure for
// the layouts that are line-sensitive (BinPack instance names).
func usableLines(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out
}

func splitTokens(lines []string) []string {
	var out []string
	for _, line := range lines {
		out = append(out, strings.Fields(line)...)
	}
	return out
}

// decimalPlaces reports the number of fractional digits of a numeric token,
// or ok=false if the token is not an unsigned decimal number.
func decimalPlaces(tok string) (int, bool) {
	intPart, fracPart, hasDot := strings.Cut(tok, ".")
	if intPart == "" || !allDigits(intPart) {
		return 0, false
	}
	if !hasDot {
		return 0, true
	}
	if fracPart == "" || !allDigits(fracPart) {
		return 0, false
	}
	return len(fracPart), true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func allNumeric(tokens []string) bool {
	for _, tok := range tokens {
		if _, ok := decimalPlaces(tok); !ok {
			return false
		}
	}
	return true
}

// detectScale returns the per-file scale factor: 10^(max fractional digits
// observed across every numeric token). Non-numeric tokens (BinPack instance
// names) are ignored.
func detectScale(tokens []string) (int, error) {
	places := 0
	for _, tok := range tokens {
		if d, ok := decimalPlaces(tok); ok && d > places {
			places = d
		}
	}
	if places > maxDecimalScale {
		return 0, fmt.Errorf("%w: too many decimal places (%d, limit %d)", ErrMalformedInput, places, maxDecimalScale)
	}
	scale := 1
	for i := 0; i < places; i++ {
		scale *= 10
	}
	return scale, nil
}

// parseScaled converts a numeric token into an integer under the file scale
// using exact fixed-point arithmetic. The scale is a power of ten at least as
// large as 10^(token's fractional digits).
func parseScaled(tok string, scale int) (int, error) {
	intPart, fracPart, _ := strings.Cut(tok, ".")
	if _, ok := decimalPlaces(tok); !ok {
		return 0, fmt.Errorf("%w: non-numeric token %q", ErrMalformedInput, tok)
	}
	value, err := strconv.Atoi(intPart)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid number %q", ErrMalformedInput, tok)
	}
	value *= scale

	if fracPart != "" {
		frac, err := strconv.Atoi(fracPart)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid number %q", ErrMalformedInput, tok)
		}
		pad := scale
		for i := 0; i < len(fracPart); i++ {
			pad /= 10
		}
		value += frac * pad
	}
	return value, nil
}

// intToken parses a token that must be a plain integer (counts, declared
// optima); decimal points are not permitted in these positions.
func intToken(tok string) (int, bool) {
	if d, ok := decimalPlaces(tok); !ok || d != 0 {
		return 0, false
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseSimple handles the two single-instance layouts. The header is two
// values, `n capacity` or `capacity n`; the reading under which exactly n
// size tokens remain wins. When both readings fit, the two leading values
// are necessarily equal and the interpretations coincide.
func parseSimple(name string, tokens []string, scale int) (*Instance, error) {
	if len(tokens) < 3 {
		return nil, fmt.Errorf("%w: need a header and at least one item size (got %d numeric tokens)", ErrMalformedInput, len(tokens))
	}
	body := len(tokens) - 2

	var capTok string
	nA, okA := intToken(tokens[0])
	nB, okB := intToken(tokens[1])
	switch {
	case okA && nA == body:
		capTok = tokens[1]
	case okB && nB == body:
		capTok = tokens[0]
	default:
		return nil, fmt.Errorf("%w: header %q %q does not match %d size tokens", ErrMalformedInput, tokens[0], tokens[1], body)
	}

	capacity, err := parseScaled(capTok, scale)
	if err != nil {
		return nil, err
	}
	sizes := make([]int, body)
	for i, tok := range tokens[2:] {
		if sizes[i], err = parseScaled(tok, scale); err != nil {
			return nil, err
		}
	}

	inst := &Instance{Name: name, Capacity: capacity, Sizes: sizes}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// parseBinPack handles the multi-instance layout: a leading instance count,
// then per instance a name line, a `capacity n [opt]` header line, and n size
// tokens spread over any number of lines.
func parseBinPack(stem string, lines []string, scale int) ([]*Instance, error) {
	cursor := 0
	next := func() (string, bool) {
		if cursor >= len(lines) {
			return "", false
		}
		line := lines[cursor]
		cursor++
		return line, true
	}

	first, _ := next()
	count, ok := intToken(first)
	if !ok || count <= 0 {
		return nil, fmt.Errorf("%w: expected an instance count, got %q", ErrMalformedInput, first)
	}

	instances := make([]*Instance, 0, count)
	for k := 0; k < count; k++ {
		nameLine, ok := next()
		if !ok {
			return nil, fmt.Errorf("%w: unexpected end of input while reading instance name (%d of %d)", ErrMalformedInput, k+1, count)
		}
		if allNumeric(strings.Fields(nameLine)) {
			return nil, fmt.Errorf("%w: expected an instance name, got numeric line %q", ErrMalformedInput, nameLine)
		}

		header, ok := next()
		if !ok {
			return nil, fmt.Errorf("%w: unexpected end of input while reading header for %q", ErrMalformedInput, nameLine)
		}
		fields := strings.Fields(header)
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("%w: header %q must be `capacity n [opt]`", ErrMalformedInput, header)
		}
		capacity, err := parseScaled(fields[0], scale)
		if err != nil {
			return nil, err
		}
		n, ok := intToken(fields[1])
		if !ok || n <= 0 {
			return nil, fmt.Errorf("%w: invalid item count in header %q", ErrMalformedInput, header)
		}
		optBins := 0
		if len(fields) == 3 {
			if optBins, ok = intToken(fields[2]); !ok || optBins <= 0 {
				return nil, fmt.Errorf("%w: invalid declared optimum in header %q", ErrMalformedInput, header)
			}
		}

		sizes := make([]int, 0, n)
		for len(sizes) < n {
			line, ok := next()
			if !ok {
				return nil, fmt.Errorf("%w: instance %q declares %d items but only %d size tokens follow", ErrMalformedInput, nameLine, n, len(sizes))
			}
			for _, tok := range strings.Fields(line) {
				if len(sizes) == n {
					return nil, fmt.Errorf("%w: instance %q declares %d items but more size tokens follow", ErrMalformedInput, nameLine, n)
				}
				size, err := parseScaled(tok, scale)
				if err != nil {
					return nil, err
				}
				sizes = append(sizes, size)
			}
		}

		inst := &Instance{
			Name:     stem + "_" + nameLine,
			Capacity: capacity,
			Sizes:    sizes,
			OptBins:  optBins,
		}
		if err := inst.Validate(); err != nil {
			return nil, err
		}
		instances = append(instances, inst)
	}
	return instances, nil
}
