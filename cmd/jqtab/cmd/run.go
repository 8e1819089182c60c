package cmd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tabjq/tabjq/internal/errors"
	"github.com/tabjq/tabjq/internal/value"
	"github.com/tabjq/tabjq/pkg/engine"
)

var (
	compactOutput bool
	rawOutput     bool
	rawInput      bool
	nullInput     bool
	slurp         bool
	exitStatus    bool
	asFrame       bool
	lazyFrames    bool
	strictMode    bool
	collectStats  bool
	optLevel      string
	maxRecursion  int
	namedArgs     []string
	namedJSONArgs []string
)

func registerRunFlags(c *cobra.Command) {
	c.Flags().BoolVarP(&compactOutput, "compact-output", "c", false, "print each result on one line")
	c.Flags().BoolVarP(&rawOutput, "raw-output", "r", false, "output string results without JSON quoting")
	c.Flags().BoolVarP(&rawInput, "raw-input", "R", false, "read each input line as a raw string instead of JSON")
	c.Flags().BoolVarP(&nullInput, "null-input", "n", false, "run the filter once against null, ignoring any input")
	c.Flags().BoolVarP(&slurp, "slurp", "s", false, "read every input document into a single array")
	c.Flags().BoolVarP(&exitStatus, "exit-status", "e", false, "exit 1 if the last output was false or null, 2 if there was no output")
	c.Flags().BoolVar(&asFrame, "frame", false, "collect slurped input (an array of uniform objects) into a Frame before running the filter")
	c.Flags().BoolVar(&lazyFrames, "lazy", false, "wrap a --frame input as a LazyFrame instead of an eager Frame")
	c.Flags().BoolVar(&strictMode, "strict", false, "enable strict_mode")
	c.Flags().BoolVar(&collectStats, "stats", false, "print execution statistics to stderr after running")
	c.Flags().StringVar(&optLevel, "optimization-level", "basic", "compiler optimization level: none, basic, advanced")
	c.Flags().IntVar(&maxRecursion, "max-recursion-depth", 0, "recursion depth limit (0 = engine default)")
	c.Flags().StringArrayVar(&namedArgs, "arg", nil, "bind $name to a string value: --arg name value")
	c.Flags().StringArrayVar(&namedJSONArgs, "argjson", nil, "bind $name to a JSON value: --argjson name '[1,2]'")
}

// runFilter is the root command's RunE: args[0] is the filter program text,
// the rest are input file paths (stdin, if none are given).
func runFilter(_ *cobra.Command, args []string) error {
	filter := args[0]
	files := args[1:]

	vars, err := parseNamedArgs()
	if err != nil {
		return err
	}

	eng, err := engine.New(engine.Options{
		OptimizationLevel:      optLevel,
		Lazy:                   lazyFrames,
		DataframeOptimizations: true,
		StrictMode:             strictMode,
		MaxRecursionDepth:      maxRecursion,
		CollectStats:           collectStats,
	})
	if err != nil {
		return err
	}

	inputs, err := readInputs(files)
	if err != nil {
		return err
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	lastWasFalsy := false
	producedAny := false

	runOne := func(input value.Value) error {
		res, err := eng.Run(filter, input, engine.RunOptions{Vars: vars})
		if err != nil {
			return err
		}
		for _, v := range res.Values {
			producedAny = true
			lastWasFalsy = !v.Truthy()
			if err := writeValue(out, v); err != nil {
				return err
			}
		}
		if collectStats && res.Stats != nil {
			fmt.Fprintf(os.Stderr, "rows_processed=%d peak_recursion=%d\n", res.Stats.RowsProcessed, res.Stats.PeakRecursion)
		}
		return nil
	}

	switch {
	case nullInput:
		if err := runOne(value.Null); err != nil {
			return err
		}
	case slurp || asFrame:
		combined, err := combineSlurped(inputs)
		if err != nil {
			return err
		}
		if asFrame {
			combined, err = toFrameOrLazy(eng, combined)
			if err != nil {
				return err
			}
		}
		if err := runOne(combined); err != nil {
			return err
		}
	default:
		for _, v := range inputs {
			if err := runOne(v); err != nil {
				return err
			}
		}
	}

	if exitStatus {
		if !producedAny {
			os.Exit(2)
		}
		if lastWasFalsy {
			os.Exit(1)
		}
	}
	return nil
}

func parseNamedArgs() (map[string]value.Value, error) {
	vars := make(map[string]value.Value, len(namedArgs)+len(namedJSONArgs))
	for _, kv := range namedArgs {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--arg expects name=value, got %q", kv)
		}
		vars[name] = value.String(raw)
	}
	for _, kv := range namedJSONArgs {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--argjson expects name=value, got %q", kv)
		}
		v, err := value.FromJSON([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("--argjson %s: %w", name, err)
		}
		vars[name] = v
	}
	return vars, nil
}

// readInputs reads every document from files (or stdin if files is empty).
// Raw-input mode treats every line as a string instead of parsing JSON.
func readInputs(files []string) ([]value.Value, error) {
	var readers []io.Reader
	if len(files) == 0 {
		readers = []io.Reader{os.Stdin}
	} else {
		for _, f := range files {
			fh, err := os.Open(f)
			if err != nil {
				return nil, fmt.Errorf("opening %s: %w", f, err)
			}
			defer fh.Close()
			readers = append(readers, fh)
		}
	}

	var values []value.Value
	for _, r := range readers {
		if rawInput {
			scanner := bufio.NewScanner(r)
			scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
			for scanner.Scan() {
				values = append(values, value.String(scanner.Text()))
			}
			if err := scanner.Err(); err != nil {
				return nil, err
			}
			continue
		}
		dec := bufio.NewReader(r)
		for {
			doc, err := readJSONDoc(dec)
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
			v, perr := value.FromJSON(doc)
			if perr != nil {
				return nil, perr
			}
			values = append(values, v)
		}
	}
	return values, nil
}

// readJSONDoc reads one whitespace-delimited JSON document from r, the same
// "concatenated JSON" stream jq's own CLI accepts on stdin.
func readJSONDoc(r *bufio.Reader) ([]byte, error) {
	dec := json.NewDecoder(r)
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func combineSlurped(values []value.Value) (value.Value, error) {
	out := make([]value.Value, len(values))
	copy(out, values)
	return value.Array(out), nil
}

// toFrameOrLazy collects a slurped array of objects into a Frame by running
// the `to_frame` builtin (and `lazy` on top of it, under --lazy) through the
// engine itself rather than duplicating its column-discovery logic here.
func toFrameOrLazy(eng *engine.Engine, v value.Value) (value.Value, error) {
	if v.Kind() != value.KindArray {
		return value.Value{}, fmt.Errorf("--frame requires slurped input to be an array of objects")
	}
	program := "to_frame"
	if lazyFrames {
		program = "to_frame | lazy"
	}
	res, err := eng.Run(program, v, engine.RunOptions{})
	if err != nil {
		return value.Value{}, err
	}
	if len(res.Values) != 1 {
		return value.Value{}, fmt.Errorf("--frame: expected exactly one result, got %d", len(res.Values))
	}
	return res.Values[0], nil
}

func writeValue(w *bufio.Writer, v value.Value) error {
	if rawOutput && v.Kind() == value.KindString {
		w.WriteString(v.AsString())
		w.WriteByte('\n')
		return nil
	}
	s, err := value.ToJSON(v)
	if err != nil {
		return err
	}
	if compactOutput {
		w.WriteString(s)
		w.WriteByte('\n')
		return nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(s), "", "  "); err != nil {
		w.WriteString(s)
		w.WriteByte('\n')
		return nil
	}
	w.Write(buf.Bytes())
	w.WriteByte('\n')
	return nil
}

// ExitCode maps a filter-language error kind to a CLI exit code, matching
// jq's own split between "parse/compile failure" and "runtime error while
// processing input N".
func ExitCode(err error) int {
	if d, ok := err.(*errors.Diagnostic); ok {
		switch d.Kind {
		case errors.KindParseError, errors.KindCompileError:
			return 3
		default:
			return 5
		}
	}
	return 2
}
