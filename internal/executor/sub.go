package executor

import (
	"regexp"
	"strings"

	"github.com/tabjq/tabjq/internal/ast"
	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/registry"
	"github.com/tabjq/tabjq/internal/value"
)

// sub.go implements `sub`/`gsub` as executor-native language forms: unlike
// every other regex built-in (test/match/capture/scan/splits, all simple
// eager registry entries in internal/registry/builtins_regex.go), the
// replacement argument here is a filter evaluated once per match against an
// object of that match's named captures — exactly the shape `capture`
// already produces — which needs the scope/closure machinery only the
// executor has.
func (e *Executor) evalSub(n *ast.Call, input value.Value, env *Env, emit Emit, global bool) error {
	if input.Kind() != value.KindString {
		return e.Errorf(errors.KindTypeError, "%s cannot be matched, as it is not a string", input.TypeName())
	}
	s := input.AsString()

	return e.Eval(n.Args[0], input, env, func(patVal value.Value) error {
		if patVal.Kind() != value.KindString {
			return e.Errorf(errors.KindTypeError, "regex must be a string")
		}
		pattern := patVal.AsString()

		withFlags := func(cont func(string) error) error {
			if len(n.Args) == 3 {
				return e.Eval(n.Args[2], input, env, func(fv value.Value) error {
					return cont(fv.AsString())
				})
			}
			return cont("")
		}

		return withFlags(func(flags string) error {
			re, cerr := registry.CompileRegex(pattern, flags)
			if cerr != nil {
				return e.Errorf(errors.KindValueError, "%s is not a valid regex: %s", pattern, cerr.Error())
			}
			useGlobal := global || strings.ContainsRune(flags, 'g')
			var locs [][]int
			if useGlobal {
				locs = re.FindAllStringSubmatchIndex(s, -1)
			} else if loc := re.FindStringSubmatchIndex(s); loc != nil {
				locs = [][]int{loc}
			}
			return e.subCombine(re, s, locs, 0, 0, "", n.Args[1], env, emit)
		})
	})
}

func (e *Executor) subCombine(re *regexp.Regexp, s string, locs [][]int, idx, lastEnd int, prefix string, replExpr ast.Expr, env *Env, emit Emit) error {
	if idx == len(locs) {
		return emit(value.String(prefix + s[lastEnd:]))
	}
	loc := locs[idx]
	before := s[lastEnd:loc[0]]
	captures := subCaptures(re, s, loc)
	return e.Eval(replExpr, captures, env, func(rv value.Value) error {
		if rv.Kind() != value.KindString {
			return e.Errorf(errors.KindTypeError, "%s is not a string", rv.TypeName())
		}
		return e.subCombine(re, s, locs, idx+1, loc[1], prefix+before+rv.AsString(), replExpr, env, emit)
	})
}

// subCaptures builds the object of named capture groups for one match,
// the same shape `capture` produces, so a `sub` replacement filter can
// write `.groupname` just like a `capture` consumer would.
func subCaptures(re *regexp.Regexp, s string, loc []int) value.Value {
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
	return value.Obj(o)
}
