package ingestion

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// The embedded columns of the dataset (genres, production companies,
// cast, crew, ...) hold Python list literals, not JSON: single-quoted
// strings, True/False/None, and backslash escapes. parseRecordList
// reads one such column into a slice of generic records.

type literalParser struct {
	input []rune
	pos   int
}

// parseRecordList parses a Python list-of-dicts literal. An empty or
// blank cell yields no records.
func parseRecordList(s string) ([]map[string]any, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	p := &literalParser{input: []rune(s)}
	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("trailing data at offset %d", p.pos)
	}

	list, ok := value.([]any)
	if !ok {
		return nil, errors.New("literal is not a list")
	}

	records := make([]map[string]any, 0, len(list))
	for _, item := range list {
		record, ok := item.(map[string]any)
		if !ok {
			return nil, errors.New("list item is not a dict")
		}
		records = append(records, record)
	}
	return records, nil
}

func (p *literalParser) parseValue() (any, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return nil, errors.New("unexpected end of literal")
	}

	switch c := p.input[p.pos]; {
	case c == '[':
		return p.parseList()
	case c == '{':
		return p.parseDict()
	case c == '\'' || c == '"':
		return p.parseString()
	case c == '-' || unicode.IsDigit(c):
		return p.parseNumber()
	default:
		return p.parseKeyword()
	}
}

func (p *literalParser) parseList() (any, error) {
	p.pos++ // consume '['
	var items []any
	for {
		p.skipSpace()
		if p.pos >= len(p.input) {
			return nil, errors.New("unterminated list")
		}
		if p.input[p.pos] == ']' {
			p.pos++
			return items, nil
		}
		item, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		p.skipSpace()
		if p.pos < len(p.input) && p.input[p.pos] == ',' {
			p.pos++
		}
	}
}

func (p *literalParser) parseDict() (any, error) {
	p.pos++ // consume '{'
	dict := make(map[string]any)
	for {
		p.skipSpace()
		if p.pos >= len(p.input) {
			return nil, errors.New("unterminated dict")
		}
		if p.input[p.pos] == '}' {
			p.pos++
			return dict, nil
		}

		key, err := p.parseString()
		if err != nil {
			return nil, fmt.Errorf("dict key: %w", err)
		}
		p.skipSpace()
		if p.pos >= len(p.input) || p.input[p.pos] != ':' {
			return nil, errors.New("expected ':' after dict key")
		}
		p.pos++

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		dict[key] = value

		p.skipSpace()
		if p.pos < len(p.input) && p.input[p.pos] == ',' {
			p.pos++
		}
	}
}

func (p *literalParser) parseString() (string, error) {
	if p.pos >= len(p.input) {
		return "", errors.New("unexpected end of literal")
	}
	quote := p.input[p.pos]
	if quote != '\'' && quote != '"' {
		return "", fmt.Errorf("expected string at offset %d", p.pos)
	}
	p.pos++

	var sb strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch c {
		case '\\':
			if p.pos+1 >= len(p.input) {
				return "", errors.New("dangling escape in string")
			}
			next := p.input[p.pos+1]
			switch next {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			default:
				sb.WriteRune(next)
			}
			p.pos += 2
		case quote:
			p.pos++
			return sb.String(), nil
		default:
			sb.WriteRune(c)
			p.pos++
		}
	}
	return "", errors.New("unterminated string")
}

func (p *literalParser) parseNumber() (any, error) {
	start := p.pos
	if p.input[p.pos] == '-' {
		p.pos++
	}
	isFloat := false
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if unicode.IsDigit(c) {
			p.pos++
			continue
		}
		if c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-' {
			isFloat = true
			p.pos++
			continue
		}
		break
	}

	text := string(p.input[start:p.pos])
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", text)
		}
		return f, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", text)
	}
	return n, nil
}

func (p *literalParser) parseKeyword() (any, error) {
	rest := string(p.input[p.pos:])
	for _, kw := range []struct {
		text  string
		value any
	}{
		{"True", true},
		{"False", false},
		{"None", nil},
	} {
		if strings.HasPrefix(rest, kw.text) {
			p.pos += len(kw.text)
			return kw.value, nil
		}
	}
	return nil, fmt.Errorf("unexpected token at offset %d", p.pos)
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(p.input[p.pos]) {
		p.pos++
	}
}

func recordString(record map[string]any, key string) string {
	switch v := record[key].(type) {
	case string:
		return v
	default:
		return ""
	}
}

func recordInt(record map[string]any, key string) int {
	switch v := record[key].(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
