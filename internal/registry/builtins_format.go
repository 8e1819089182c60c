package registry

import (
	"encoding/base32"
	"encoding/base64"
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/value"
)

// FormatFunc renders a single value as the body text of a `@name "..."`
// interpolated string, or as the whole output when used bare (`@base64`).
// These are dispatched by the parser/executor on the `@name` token rather
// than through the (name, arity) registry, since a format is a lexical
// modifier on string construction, not a callable filter.
type FormatFunc func(ctx Context, v value.Value) (string, error)

// Formats is the fixed table of `@name` format strings the language
// supports, grounded on the teacher's StrToHtml/StrToJSON/StrToXML family of
// escaping built-ins and generalized to jq's format-string catalog.
var Formats = map[string]FormatFunc{
	"text":   formatText,
	"json":   formatJSON,
	"html":   formatHTML,
	"uri":    formatURI,
	"csv":    formatCSV,
	"tsv":    formatTSV,
	"sh":     formatSh,
	"base64": formatBase64,
	"base64d": formatBase64d,
	"base32": formatBase32,
	"base32d": formatBase32d,
}

func formatText(ctx Context, v value.Value) (string, error) {
	if v.Kind() == value.KindString {
		return v.AsString(), nil
	}
	s, err := value.ToJSON(v)
	if err != nil {
		return "", ctx.Errorf(errors.KindValueError, "%s", err.Error())
	}
	return s, nil
}

func formatJSON(ctx Context, v value.Value) (string, error) {
	s, err := value.ToJSON(v)
	if err != nil {
		return "", ctx.Errorf(errors.KindValueError, "%s", err.Error())
	}
	return s, nil
}

func formatHTML(ctx Context, v value.Value) (string, error) {
	s, err := formatText(ctx, v)
	if err != nil {
		return "", err
	}
	return html.EscapeString(s), nil
}

func formatURI(ctx Context, v value.Value) (string, error) {
	s, err := formatText(ctx, v)
	if err != nil {
		return "", err
	}
	return url.QueryEscape(s), nil
}

// formatCSV and formatTSV expect an array of scalars (the row) rather than
// an arbitrary value, matching jq's `@csv`/`@tsv` contract.
func formatCSV(ctx Context, v value.Value) (string, error) {
	return formatDelimited(ctx, v, ',', true)
}

func formatTSV(ctx Context, v value.Value) (string, error) {
	return formatDelimited(ctx, v, '\t', false)
}

func formatDelimited(ctx Context, v value.Value, sep rune, quoteStrings bool) (string, error) {
	if v.Kind() != value.KindArray {
		return "", ctx.Errorf(errors.KindTypeError, "%s is not valid in a csv/tsv row", v.TypeName())
	}
	fields := make([]string, len(v.AsArray()))
	for i, e := range v.AsArray() {
		switch e.Kind() {
		case value.KindNull:
			fields[i] = ""
		case value.KindBool:
			fields[i] = strconv.FormatBool(e.AsBool())
		case value.KindInt:
			fields[i] = strconv.FormatInt(e.AsInt(), 10)
		case value.KindFloat:
			fields[i] = strconv.FormatFloat(e.AsFloat(), 'g', -1, 64)
		case value.KindString:
			if quoteStrings {
				fields[i] = `"` + strings.ReplaceAll(e.AsString(), `"`, `""`) + `"`
			} else {
				fields[i] = strings.NewReplacer("\\", `\\`, "\t", `\t`, "\n", `\n`, "\r", `\r`).Replace(e.AsString())
			}
		default:
			return "", ctx.Errorf(errors.KindTypeError, "%s is not valid in a csv/tsv row", e.TypeName())
		}
	}
	return strings.Join(fields, string(sep)), nil
}

// formatSh renders a value (or array of values) as POSIX shell-quoted
// arguments, matching jq's `@sh`.
func formatSh(ctx Context, v value.Value) (string, error) {
	if v.Kind() == value.KindArray {
		parts := make([]string, len(v.AsArray()))
		for i, e := range v.AsArray() {
			s, err := shQuote(ctx, e)
			if err != nil {
				return "", err
			}
			parts[i] = s
		}
		return strings.Join(parts, " "), nil
	}
	return shQuote(ctx, v)
}

func shQuote(ctx Context, v value.Value) (string, error) {
	switch v.Kind() {
	case value.KindString:
		return "'" + strings.ReplaceAll(v.AsString(), "'", `'\''`) + "'", nil
	case value.KindNull, value.KindBool, value.KindInt, value.KindFloat:
		return v.String(), nil
	default:
		return "", ctx.Errorf(errors.KindTypeError, "%s can not be escaped for shell", v.TypeName())
	}
}

func formatBase64(ctx Context, v value.Value) (string, error) {
	s, err := formatText(ctx, v)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString([]byte(s)), nil
}

func formatBase64d(ctx Context, v value.Value) (string, error) {
	s, err := formatText(ctx, v)
	if err != nil {
		return "", err
	}
	b, derr := base64.StdEncoding.DecodeString(s)
	if derr != nil {
		if b2, err2 := base64.RawStdEncoding.DecodeString(s); err2 == nil {
			return string(b2), nil
		}
		return "", ctx.Errorf(errors.KindValueError, "invalid base64 input")
	}
	return string(b), nil
}

func formatBase32(ctx Context, v value.Value) (string, error) {
	s, err := formatText(ctx, v)
	if err != nil {
		return "", err
	}
	return base32.StdEncoding.EncodeToString([]byte(s)), nil
}

func formatBase32d(ctx Context, v value.Value) (string, error) {
	s, err := formatText(ctx, v)
	if err != nil {
		return "", err
	}
	b, derr := base32.StdEncoding.DecodeString(s)
	if derr != nil {
		return "", ctx.Errorf(errors.KindValueError, "invalid base32 input")
	}
	return string(b), nil
}

// Base64 and Base64d expose @base64/@base64d as ordinary 0-arity filters too
// (`. | @base64` form without interpolation uses the same FormatFunc path;
// these wrap it so `tostream`-style pipelines can call them as functions).
func Base64(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	s, err := formatBase64(ctx, input)
	if err != nil {
		return err
	}
	return emit(value.String(s))
}

func Base64d(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	s, err := formatBase64d(ctx, input)
	if err != nil {
		return err
	}
	return emit(value.String(s))
}
