package registry

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/value"
)

func wantString(ctx Context, v value.Value, who string) (string, error) {
	if v.Kind() != value.KindString {
		return "", ctx.Errorf(errors.KindTypeError, "%s input must be a string, got %s", who, v.TypeName())
	}
	return v.AsString(), nil
}

// Ascii implements `ascii`: the character for a codepoint.
func Ascii(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if !input.IsNumber() {
		return ctx.Errorf(errors.KindTypeError, "ascii input must be a number")
	}
	return emit(value.String(string(rune(input.AsInt()))))
}

// Explode implements `explode`: a string to an array of codepoints.
func Explode(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	s, err := wantString(ctx, input, "explode")
	if err != nil {
		return err
	}
	var out []value.Value
	for _, r := range s {
		out = append(out, value.Int(int64(r)))
	}
	if out == nil {
		out = []value.Value{}
	}
	return emit(value.Array(out))
}

// Implode implements `implode`: an array of codepoints back to a string.
func Implode(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if input.Kind() != value.KindArray {
		return ctx.Errorf(errors.KindTypeError, "implode input must be an array")
	}
	var b strings.Builder
	for _, e := range input.AsArray() {
		if !e.IsNumber() {
			return ctx.Errorf(errors.KindTypeError, "implode input must be an array of numbers")
		}
		b.WriteRune(rune(e.AsInt()))
	}
	return emit(value.String(b.String()))
}

// AsciiDowncase implements `ascii_downcase`.
func AsciiDowncase(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	s, err := wantString(ctx, input, "ascii_downcase")
	if err != nil {
		return err
	}
	return emit(value.String(asciiMap(s, func(c byte) byte {
		if c >= 'A' && c <= 'Z' {
			return c + ('a' - 'A')
		}
		return c
	})))
}

// AsciiUpcase implements `ascii_upcase`.
func AsciiUpcase(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	s, err := wantString(ctx, input, "ascii_upcase")
	if err != nil {
		return err
	}
	return emit(value.String(asciiMap(s, func(c byte) byte {
		if c >= 'a' && c <= 'z' {
			return c - ('a' - 'A')
		}
		return c
	})))
}

func asciiMap(s string, f func(byte) byte) string {
	b := []byte(s)
	for i, c := range b {
		b[i] = f(c)
	}
	return string(b)
}

// Ltrimstr implements `ltrimstr($prefix)`: strips prefix if present,
// otherwise returns input unchanged (including for non-string input).
func Ltrimstr(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if input.Kind() != value.KindString || args[0].Kind() != value.KindString {
		return emit(input)
	}
	return emit(value.String(strings.TrimPrefix(input.AsString(), args[0].AsString())))
}

// Rtrimstr implements `rtrimstr($suffix)`.
func Rtrimstr(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if input.Kind() != value.KindString || args[0].Kind() != value.KindString {
		return emit(input)
	}
	return emit(value.String(strings.TrimSuffix(input.AsString(), args[0].AsString())))
}

// Startswith implements `startswith($s)`.
func Startswith(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	s, err := wantString(ctx, input, "startswith")
	if err != nil {
		return err
	}
	prefix, err := wantString(ctx, args[0], "startswith")
	if err != nil {
		return err
	}
	return emit(value.Bool(strings.HasPrefix(s, prefix)))
}

// Endswith implements `endswith($s)`.
func Endswith(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	s, err := wantString(ctx, input, "endswith")
	if err != nil {
		return err
	}
	suffix, err := wantString(ctx, args[0], "endswith")
	if err != nil {
		return err
	}
	return emit(value.Bool(strings.HasSuffix(s, suffix)))
}

// Split1 implements `split($sep)`.
func Split1(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	s, err := wantString(ctx, input, "split")
	if err != nil {
		return err
	}
	sep, err := wantString(ctx, args[0], "split")
	if err != nil {
		return err
	}
	parts := strings.Split(s, sep)
	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.String(p)
	}
	return emit(value.Array(out))
}

// Join1 implements `join($sep)`: joins an array of strings (null elements
// render as empty strings, matching jq).
func Join1(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if input.Kind() != value.KindArray {
		return ctx.Errorf(errors.KindTypeError, "Cannot iterate over %s", input.TypeName())
	}
	sep, err := wantString(ctx, args[0], "join")
	if err != nil {
		return err
	}
	parts := make([]string, len(input.AsArray()))
	for i, e := range input.AsArray() {
		switch e.Kind() {
		case value.KindNull:
			parts[i] = ""
		case value.KindString:
			parts[i] = e.AsString()
		default:
			parts[i] = e.String()
		}
	}
	return emit(value.String(strings.Join(parts, sep)))
}

// Ltrim implements `ltrim`: strips leading ASCII whitespace (space, \t, \n,
// \r, \v, \f); other Unicode spaces are kept.
func Ltrim(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	s, err := wantString(ctx, input, "ltrim")
	if err != nil {
		return err
	}
	return emit(value.String(strings.TrimLeft(s, " \t\n\r\v\f")))
}

// Rtrim implements `rtrim`: strips trailing ASCII whitespace (space, \t, \n,
// \r, \v, \f); other Unicode spaces are kept.
func Rtrim(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	s, err := wantString(ctx, input, "rtrim")
	if err != nil {
		return err
	}
	return emit(value.String(strings.TrimRight(s, " \t\n\r\v\f")))
}

// Trim implements `trim`.
func Trim(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	s, err := wantString(ctx, input, "trim")
	if err != nil {
		return err
	}
	return emit(value.String(strings.TrimSpace(s)))
}

// ToValidUtf8 implements `to_valid_utf8`, replacing invalid byte sequences
// with U+FFFD, decoding with unicode/utf8, grounded on the teacher's
// lexer commentary about rune-accurate scanning and BOM stripping.
func ToValidUtf8(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	s, err := wantString(ctx, input, "to_valid_utf8")
	if err != nil {
		return err
	}
	if utf8.ValidString(s) {
		return emit(value.String(s))
	}
	var b strings.Builder
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				b.WriteRune(utf8.RuneError)
				continue
			}
		}
		b.WriteRune(r)
	}
	return emit(value.String(b.String()))
}

// Utf8Normalize implements `utf8_normalize($form)`, where form is one of
// "NFC", "NFD", "NFKC", "NFKD". Grounded on SPEC_FULL's wiring of
// golang.org/x/text/unicode/norm as a direct domain dependency.
func Utf8Normalize(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	s, err := wantString(ctx, input, "utf8_normalize")
	if err != nil {
		return err
	}
	formName, err := wantString(ctx, args[0], "utf8_normalize")
	if err != nil {
		return err
	}
	var form norm.Form
	switch strings.ToUpper(formName) {
	case "NFC":
		form = norm.NFC
	case "NFD":
		form = norm.NFD
	case "NFKC":
		form = norm.NFKC
	case "NFKD":
		form = norm.NFKD
	default:
		return ctx.Errorf(errors.KindValueError, "unknown normalization form %q", formName)
	}
	return emit(value.String(form.String(s)))
}

// SetCollationLocale1 implements `set_collation_locale($tag)`: configures
// the process-wide locale-aware string ordering value.Compare/sort/sort_by/
// group_by fall back to (value.SetCollationLocale), passing the input value
// through unchanged so the call composes inside a pipeline, e.g.
// `set_collation_locale("sv") | sort`. An empty string clears it, reverting
// to byte-wise comparison.
func SetCollationLocale1(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	tag, err := wantString(ctx, args[0], "set_collation_locale")
	if err != nil {
		return err
	}
	if serr := value.SetCollationLocale(tag); serr != nil {
		return ctx.Errorf(errors.KindValueError, "set_collation_locale: %s", serr.Error())
	}
	return emit(input)
}

// CollationLocale0 implements `collation_locale`: the currently configured
// locale tag, or "" if collation is unset.
func CollationLocale0(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return emit(value.String(value.CollationLocale()))
}

// Tostring implements `tostring`: strings pass through unchanged, every
// other value renders via its compact JSON form.
func Tostring(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	if input.Kind() == value.KindString {
		return emit(input)
	}
	s, err := value.ToJSON(input)
	if err != nil {
		return ctx.Errorf(errors.KindValueError, "%s", err.Error())
	}
	return emit(value.String(s))
}

// Tonumber implements `tonumber`.
func Tonumber(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	switch input.Kind() {
	case value.KindInt, value.KindFloat:
		return emit(input)
	case value.KindString:
		v, err := value.FromJSON([]byte(strings.TrimSpace(input.AsString())))
		if err != nil || !v.IsNumber() {
			return ctx.Errorf(errors.KindValueError, "Cannot parse %q as number", input.AsString())
		}
		return emit(v)
	default:
		return ctx.Errorf(errors.KindTypeError, "Cannot parse %s as number", input.TypeName())
	}
}
