package registry

import (
	"regexp"
	"strings"

	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/value"
)

// Regex built-ins are implemented over Go's RE2-based regexp package rather
// than a backtracking engine: the dlclark/regexp2 found elsewhere in the
// retrieval pack lives only inside provider manifests, never a teacher-
// eligible repo, so it isn't wired here (see DESIGN.md). This means the
// rarer oniguruma extensions (backreferences, lookaround) used by a handful
// of jq programs are not supported; everything RE2 can express works.
//
// `sub` and `gsub` are not defined here: their replacement argument is a
// filter evaluated once per match with named captures bound as variables,
// which needs the executor's scope machinery, so they are language forms
// next to map/select rather than registry entries.

// CompileRegex and RegexArgs expose the regex-argument parsing the executor
// needs to implement `sub`/`gsub` as language forms (their replacement is a
// filter evaluated per match, which needs scope machinery this package does
// not have), so the pattern/flag handling is not duplicated there.
func CompileRegex(pattern, flags string) (*regexp.Regexp, error) {
	return compileRegex(pattern, flags)
}

func RegexArgs(ctx Context, args []value.Value) (pattern, flags string, global bool, err error) {
	return regexArgs(ctx, args)
}

func compileRegex(pattern, flags string) (*regexp.Regexp, error) {
	var prefix string
	for _, f := range flags {
		switch f {
		case 'i':
			prefix += "i"
		case 'x':
			prefix += "x"
		case 's':
			prefix += "s"
		case 'm':
			prefix += "m"
		case 'p':
			prefix += "sm"
		case 'g', 'n', 'l':
			// handled by the caller (global match) or not meaningful under RE2 (n, l)
		default:
			return nil, errUnknownFlag(f)
		}
	}
	expr := pattern
	if prefix != "" {
		expr = "(?" + prefix + ")" + expr
	}
	return regexp.Compile(expr)
}

type unknownFlagError rune

func (e unknownFlagError) Error() string { return "unknown regex flag" }

func errUnknownFlag(r rune) error { return unknownFlagError(r) }

func regexArgs(ctx Context, args []value.Value) (pattern, flags string, global bool, err error) {
	switch len(args) {
	case 1:
		if args[0].Kind() == value.KindArray {
			arr := args[0].AsArray()
			pattern = arr[0].AsString()
			if len(arr) > 1 && arr[1].Kind() == value.KindString {
				flags = arr[1].AsString()
			}
		} else {
			pattern = args[0].AsString()
		}
	case 2:
		pattern = args[0].AsString()
		flags = args[1].AsString()
	}
	global = strings.ContainsRune(flags, 'g')
	return pattern, flags, global, nil
}

// Test1 implements `test($re)`; Test2 implements `test($re; $flags)`.
func Test1(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return testImpl(ctx, input, args, emit)
}

func Test2(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return testImpl(ctx, input, args, emit)
}

func testImpl(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	s, err := wantString(ctx, input, "test")
	if err != nil {
		return err
	}
	pattern, flags, _, _ := regexArgs(ctx, args)
	re, cerr := compileRegex(pattern, flags)
	if cerr != nil {
		return ctx.Errorf(errors.KindValueError, "%s is not a valid regex: %s", pattern, cerr.Error())
	}
	return emit(value.Bool(re.MatchString(s)))
}

func buildMatchObject(re *regexp.Regexp, s string, loc []int) value.Value {
	o := value.NewObject()
	o.Set("offset", value.Int(int64(runeLen(s[:loc[0]]))))
	o.Set("length", value.Int(int64(runeLen(s[loc[0]:loc[1]]))))
	o.Set("string", value.String(s[loc[0]:loc[1]]))
	names := re.SubexpNames()
	var caps []value.Value
	for i := 1; i*2 < len(loc); i++ {
		c := value.NewObject()
		lo, hi := loc[i*2], loc[i*2+1]
		if lo < 0 {
			c.Set("offset", value.Int(-1))
			c.Set("length", value.Int(0))
			c.Set("string", value.Null)
		} else {
			c.Set("offset", value.Int(int64(runeLen(s[:lo]))))
			c.Set("length", value.Int(int64(runeLen(s[lo:hi]))))
			c.Set("string", value.String(s[lo:hi]))
		}
		if names[i] != "" {
			c.Set("name", value.String(names[i]))
		} else {
			c.Set("name", value.Null)
		}
		caps = append(caps, value.Obj(c))
	}
	if caps == nil {
		caps = []value.Value{}
	}
	o.Set("captures", value.Array(caps))
	return value.Obj(o)
}

func runeLen(s string) int { return len([]rune(s)) }

// Match1 implements `match($re)`; Match2 implements `match($re; $flags)`.
func Match1(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return matchImpl(ctx, input, args, emit)
}

func Match2(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return matchImpl(ctx, input, args, emit)
}

func matchImpl(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	s, err := wantString(ctx, input, "match")
	if err != nil {
		return err
	}
	pattern, flags, global, _ := regexArgs(ctx, args)
	re, cerr := compileRegex(pattern, flags)
	if cerr != nil {
		return ctx.Errorf(errors.KindValueError, "%s is not a valid regex: %s", pattern, cerr.Error())
	}
	if !global {
		loc := re.FindStringSubmatchIndex(s)
		if loc == nil {
			return nil
		}
		return emit(buildMatchObject(re, s, loc))
	}
	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		if err := emit(buildMatchObject(re, s, loc)); err != nil {
			return err
		}
	}
	return nil
}

// Capture1 implements `capture($re)`: the named-capture object of the first
// match, or nothing if there is no match.
func Capture1(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return captureImpl(ctx, input, args, emit)
}

func Capture2(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return captureImpl(ctx, input, args, emit)
}

func captureImpl(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	s, err := wantString(ctx, input, "capture")
	if err != nil {
		return err
	}
	pattern, flags, _, _ := regexArgs(ctx, args)
	re, cerr := compileRegex(pattern, flags)
	if cerr != nil {
		return ctx.Errorf(errors.KindValueError, "%s is not a valid regex: %s", pattern, cerr.Error())
	}
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return nil
	}
	o := value.NewObject()
	names := re.SubexpNames()
	for i := 1; i*2 < len(loc); i++ {
		if names[i] == "" {
			continue
		}
		lo, hi := loc[i*2], loc[i*2+1]
		if lo < 0 {
			o.Set(names[i], value.Null)
		} else {
			o.Set(names[i], value.String(s[lo:hi]))
		}
	}
	return emit(value.Obj(o))
}

// Scan1 implements `scan($re)`: streams each match as a string (no capture
// groups) or an array of captures (with groups).
func Scan1(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return scanImpl(ctx, input, args, emit)
}

func Scan2(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return scanImpl(ctx, input, args, emit)
}

func scanImpl(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	s, err := wantString(ctx, input, "scan")
	if err != nil {
		return err
	}
	pattern, flags, _, _ := regexArgs(ctx, args)
	re, cerr := compileRegex(pattern, flags)
	if cerr != nil {
		return ctx.Errorf(errors.KindValueError, "%s is not a valid regex: %s", pattern, cerr.Error())
	}
	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		if re.NumSubexp() == 0 {
			if err := emit(value.String(s[loc[0]:loc[1]])); err != nil {
				return err
			}
			continue
		}
		var caps []value.Value
		for i := 1; i*2 < len(loc); i++ {
			lo, hi := loc[i*2], loc[i*2+1]
			if lo < 0 {
				caps = append(caps, value.Null)
			} else {
				caps = append(caps, value.String(s[lo:hi]))
			}
		}
		if err := emit(value.Array(caps)); err != nil {
			return err
		}
	}
	return nil
}

// Splits1 implements `splits($re)`; Splits2 implements `splits($re; $flags)`.
func Splits1(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return splitsImpl(ctx, input, args, emit)
}

func Splits2(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	return splitsImpl(ctx, input, args, emit)
}

func splitsImpl(ctx Context, input value.Value, args []value.Value, emit Emit) error {
	s, err := wantString(ctx, input, "splits")
	if err != nil {
		return err
	}
	pattern, flags, _, _ := regexArgs(ctx, args)
	re, cerr := compileRegex(pattern, flags)
	if cerr != nil {
		return ctx.Errorf(errors.KindValueError, "%s is not a valid regex: %s", pattern, cerr.Error())
	}
	last := 0
	for _, loc := range re.FindAllStringIndex(s, -1) {
		if err := emit(value.String(s[last:loc[0]])); err != nil {
			return err
		}
		last = loc[1]
	}
	return emit(value.String(s[last:]))
}
