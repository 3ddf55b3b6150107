package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/chazu/jaring/pkg/solid"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites lesson-script source before passing it to
// zygomys. It performs three transformations:
//
//  1. Keywords: :cone -> "__kw_cone" (string literal), so keywords never
//     collide with variables a script defines.
//
//  2. Kebab-case to underscore: fold-to -> fold_to
//     zygomys reads a hyphen inside an identifier as subtraction, so
//     kebab-case identifiers become underscore form outside of strings
//     and comments.
//
//  3. Line comments: ; and ;; become //.
//
// All three respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// ; comments
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	order      []string
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments. A
// keyword directly following the builtin name with no value after it is
// positional, so (shape :cube) reads the shape name positionally.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok && i+1 < len(args) && !(i == 0 && startsKeyword(args[i+1])) {
			if _, seen := result.kw[name]; !seen {
				result.order = append(result.order, name)
			}
			result.kw[name] = args[i+1]
			i += 2
			continue
		}
		result.positional = append(result.positional, args[i])
		i++
	}
	return result
}

func startsKeyword(s zygo.Sexp) bool {
	_, ok := isKW(s)
	return ok
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toParam converts a dimension argument. Numbers are clamped, strings go
// through solid.Validate and anything else becomes the minimum.
func toParam(s zygo.Sexp) float64 {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return solid.Validate(v.Val)
	case *zygo.SexpFloat:
		return solid.Validate(v.Val)
	case *zygo.SexpStr:
		return solid.Validate(v.S)
	}
	return solid.MinDimension
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_cone) and plain strings ("cone").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toMillis reads a duration given in milliseconds, at most MaxDuration.
func toMillis(s zygo.Sexp) (time.Duration, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	switch {
	case math.IsNaN(f):
		return 0, fmt.Errorf("duration must be a number")
	case f < 0:
		return 0, fmt.Errorf("duration must not be negative, got %g", f)
	case f > float64(MaxDuration/time.Millisecond):
		return 0, fmt.Errorf("duration must not exceed %s, got %gms", MaxDuration, f)
	}
	return time.Duration(f * float64(time.Millisecond)), nil
}

// toPixels reads a positive image dimension.
func toPixels(s zygo.Sexp) (int, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	if f < 1 || f > 8192 {
		return 0, fmt.Errorf("image size must be within 1..8192, got %g", f)
	}
	return int(f), nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// recorder accumulates the commands issued by a script. It tracks the
// selected shape so parameter names can be checked during evaluation.
type recorder struct {
	prog     *Program
	shape    solid.Type
	hasShape bool
}

func (r *recorder) emit(c Command) {
	r.prog.Commands = append(r.prog.Commands, c)
}

// schemaParams reads the keyword arguments of pa as dimensions of t.
func schemaParams(builtin string, t solid.Type, pa kwArgs) (solid.Params, error) {
	known := make(map[string]bool)
	for _, ps := range solid.Schema(t) {
		known[ps.Key] = true
	}
	p := make(solid.Params)
	for _, k := range pa.order {
		key := strings.ReplaceAll(k, "-", "_")
		if !known[key] {
			return nil, fmt.Errorf("%s: %s has no parameter %q", builtin, t, k)
		}
		p[key] = toParam(pa.kw[k])
	}
	return p, nil
}

// registerBuiltins installs the lesson-script builtins into env. Every
// builtin appends to r.prog instead of touching a scene, so evaluation
// stays inside the sandbox.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keywords and kebab-case names reach the builtins in the expected form.
func registerBuiltins(env *zygo.Zlisp, r *recorder) {

	// -----------------------------------------------------------------------
	// (shape :cone :r 2 :t 5)
	// -----------------------------------------------------------------------
	env.AddFunction("shape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("shape: expected one shape name, got %d", len(pa.positional))
		}
		key, err := toKeywordString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape: %w", err)
		}
		t, err := solid.Parse(key)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("shape: %w", err)
		}
		given, err := schemaParams("shape", t, pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		p := solid.Defaults(t)
		for k, v := range given {
			p[k] = v
		}
		r.shape, r.hasShape = t, true
		r.emit(Command{Op: OpShape, Shape: t, Params: p})
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (set-param :r 3 :t 4)
	// -----------------------------------------------------------------------
	env.AddFunction("set_param", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if !r.hasShape {
			return zygo.SexpNull, fmt.Errorf("set-param: no shape selected")
		}
		pa := parseArgs(args)
		if len(pa.positional) > 0 || len(pa.order) == 0 {
			return zygo.SexpNull, fmt.Errorf("set-param: expected :key value pairs")
		}
		p, err := schemaParams("set-param", r.shape, pa)
		if err != nil {
			return zygo.SexpNull, err
		}
		r.emit(Command{Op: OpSetParam, Shape: r.shape, Params: p})
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (fold-to 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("fold_to", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("fold-to: expected one fold value, got %d arguments", len(args))
		}
		v, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fold-to: %w", err)
		}
		r.emit(Command{Op: OpFoldTo, Value: v})
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (unfold) (unfold 1500) (fold :duration 800)
	// -----------------------------------------------------------------------
	transition := func(op Op, target float64) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			var d time.Duration
			var src zygo.Sexp
			switch {
			case len(pa.positional) == 1:
				src = pa.positional[0]
			case len(pa.positional) > 1:
				return zygo.SexpNull, fmt.Errorf("%s: too many arguments", op)
			}
			if v, ok := pa.kw["duration"]; ok {
				src = v
			}
			if src != nil {
				var err error
				if d, err = toMillis(src); err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: duration: %w", op, err)
				}
			}
			r.emit(Command{Op: op, Value: target, Duration: d})
			return zygo.SexpNull, nil
		}
	}
	env.AddFunction("unfold", transition(OpUnfold, 1))
	env.AddFunction("fold", transition(OpFold, 0))

	// -----------------------------------------------------------------------
	// (wait 500)
	// -----------------------------------------------------------------------
	env.AddFunction("wait", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("wait: expected milliseconds")
		}
		d, err := toMillis(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wait: %w", err)
		}
		r.emit(Command{Op: OpWait, Duration: d})
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (snapshot "out.png" :width 640 :height 480)
	// -----------------------------------------------------------------------
	env.AddFunction("snapshot", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("snapshot: expected a file name")
		}
		path, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("snapshot: %w", err)
		}
		c := Command{Op: OpSnapshot, Path: path}
		if v, ok := pa.kw["width"]; ok {
			if c.Width, err = toPixels(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("snapshot: width: %w", err)
			}
		}
		if v, ok := pa.kw["height"]; ok {
			if c.Height, err = toPixels(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("snapshot: height: %w", err)
			}
		}
		r.emit(c)
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (export-stl "cube.stl")
	// -----------------------------------------------------------------------
	env.AddFunction("export_stl", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("export-stl: expected a file name")
		}
		path, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("export-stl: %w", err)
		}
		r.emit(Command{Op: OpExportSTL, Path: path})
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (reset-camera)
	// -----------------------------------------------------------------------
	env.AddFunction("reset_camera", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return zygo.SexpNull, fmt.Errorf("reset-camera: takes no arguments")
		}
		r.emit(Command{Op: OpResetCamera})
		return zygo.SexpNull, nil
	})
}
