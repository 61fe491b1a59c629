package format

import (
	"strings"

	"github.com/sssomt/sssomt/internal/model"
)

// identChar reports whether r can appear in a bare field identifier used by
// the "%field" shorthand form.
func identChar(r byte) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

func (f *Formatter) parse(template string) ([]piece, []error) {
	var pieces []piece
	var errs []error

	i := 0
	var literal strings.Builder
	flushLiteral := func() {
		if literal.Len() > 0 {
			pieces = append(pieces, piece{literal: literal.String(), isLiteral: true})
			literal.Reset()
		}
	}

	for i < len(template) {
		c := template[i]
		if c != '%' {
			literal.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(template) {
			errs = append(errs, &CompileError{Template: template, Message: "trailing '%' with no placeholder"})
			break
		}

		if template[i+1] == '{' {
			end := strings.IndexByte(template[i+2:], '}')
			if end < 0 {
				errs = append(errs, &CompileError{Template: template, Message: "unbalanced '{' with no matching '}'"})
				break
			}
			content := template[i+2 : i+2+end]
			flushLiteral()
			p, perrs := f.parsePlaceholder(template, content)
			errs = append(errs, perrs...)
			pieces = append(pieces, p)
			i = i + 2 + end + 1
			continue
		}

		j := i + 1
		for j < len(template) && identChar(template[j]) {
			j++
		}
		if j == i+1 {
			errs = append(errs, &CompileError{Template: template, Message: "'%' not followed by '{' or a field name"})
			i++
			continue
		}
		flushLiteral()
		p, perrs := f.parsePlaceholder(template, template[i+1:j])
		errs = append(errs, perrs...)
		pieces = append(pieces, p)
		i = j
	}
	flushLiteral()

	return pieces, errs
}

func (f *Formatter) parsePlaceholder(template, content string) (piece, []error) {
	var errs []error
	segments := strings.Split(content, "|")
	fieldName := strings.TrimSpace(segments[0])
	field := model.Field(fieldName)
	if fieldName == "" || !model.IsKnownField(field) {
		errs = append(errs, &CompileError{Template: template, Message: "unknown field " + fieldName})
	}

	p := piece{field: field}
	for _, seg := range segments[1:] {
		seg = strings.TrimSpace(seg)
		name, args, ok := parseModifierCall(seg)
		if !ok {
			errs = append(errs, &CompileError{Template: template, Message: "malformed modifier call " + seg})
			continue
		}
		fn, known, err := f.modifiers.Lookup(name, args)
		if !known {
			errs = append(errs, &CompileError{Template: template, Message: "unknown modifier " + name})
			continue
		}
		if err != nil {
			errs = append(errs, &CompileError{Template: template, Message: "modifier " + name + ": " + err.Error()})
			continue
		}
		p.transformers = append(p.transformers, fn)
	}
	return p, errs
}

// parseModifierCall splits a single pipeline segment ("name" or
// "name(arg1,arg2)") into its name and unquoted argument list.
func parseModifierCall(seg string) (name string, args []string, ok bool) {
	if seg == "" {
		return "", nil, false
	}
	open := strings.IndexByte(seg, '(')
	if open < 0 {
		return seg, nil, true
	}
	if !strings.HasSuffix(seg, ")") {
		return "", nil, false
	}
	name = seg[:open]
	argsStr := seg[open+1 : len(seg)-1]
	if argsStr == "" {
		return name, nil, true
	}
	for _, raw := range strings.Split(argsStr, ",") {
		args = append(args, unquoteArg(strings.TrimSpace(raw)))
	}
	return name, args, true
}

func unquoteArg(raw string) string {
	if len(raw) >= 2 {
		if (raw[0] == '\'' && raw[len(raw)-1] == '\'') || (raw[0] == '"' && raw[len(raw)-1] == '"') {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}
