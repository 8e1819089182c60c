package registry

// Default returns a Registry pre-populated with every simple built-in,
// grounded on the teacher's builtins.RegisterDefaults wiring pass (one
// Register call per (name, arity), grouped by Category the same way the
// teacher groups its standard library registration).
func Default() *Registry {
	r := New()

	// --- core -------------------------------------------------------------
	r.Register("length", 0, Length, CategoryCore, true, "element count / absolute value / byte count")
	r.Register("utf8bytelength", 0, Utf8ByteLength, CategoryCore, true, "byte length of a string")
	r.Register("type", 0, Type, CategoryCore, true, "the type name of a value")
	r.Register("not", 0, Not, CategoryCore, true, "boolean negation")
	r.Register("empty", 0, Empty, CategoryCore, true, "produce no output")
	r.Register("error", 0, Error0, CategoryCore, false, "raise input as an error")
	r.Register("error", 1, Error1, CategoryCore, false, "raise msg as an error")
	r.Register("keys", 0, Keys, CategoryCore, true, "sorted keys or indices")
	r.Register("keys_unsorted", 0, KeysUnsorted, CategoryCore, true, "keys or indices in original order")
	r.Register("has", 1, Has, CategoryCore, true, "key/index membership")
	r.Register("in", 1, In, CategoryCore, true, "reverse of has")
	r.Register("contains", 1, Contains, CategoryCore, false, "structural containment")
	r.Register("inside", 1, InsideOut, CategoryCore, false, "reverse of contains")
	r.Register("add", 0, Add, CategoryCore, true, "sum an array")
	r.Register("any", 0, Any0, CategoryCore, true, "true if any element is truthy")
	r.Register("all", 0, All0, CategoryCore, true, "true if every element is truthy")
	r.Register("flatten", 0, Flatten0, CategoryArray, false, "fully flatten nested arrays")
	r.Register("flatten", 1, Flatten1, CategoryArray, false, "flatten nested arrays to a depth")
	r.Register("reverse", 0, Reverse, CategoryArray, false, "reverse an array or string")
	r.Register("range", 1, Range1, CategoryCore, false, "0..upto stream")
	r.Register("range", 2, Range2, CategoryCore, false, "from..upto stream")
	r.Register("range", 3, Range3, CategoryCore, false, "from..upto by step stream")
	r.Register("min", 0, Min0, CategoryCore, true, "minimum element")
	r.Register("max", 0, Max0, CategoryCore, true, "maximum element")
	r.Register("_group_by_impl", 1, GroupByImpl1, CategoryCore, false, "group an array by precomputed keys")
	r.Register("_sort_by_impl", 1, SortByImpl1, CategoryCore, false, "stable-sort an array by precomputed keys")
	r.Register("_minmax_by_impl", 2, MinMaxByImpl2, CategoryCore, false, "min/max of an array by precomputed keys")

	// --- math ---------------------------------------------------------------
	r.Register("floor", 0, Floor, CategoryMath, true, "round down")
	r.Register("ceil", 0, Ceil, CategoryMath, true, "round up")
	r.Register("round", 0, Round, CategoryMath, true, "round to nearest")
	r.Register("sqrt", 0, Sqrt, CategoryMath, true, "square root")
	r.Register("cbrt", 0, Cbrt, CategoryMath, true, "cube root")
	r.Register("exp", 0, Exp, CategoryMath, true, "e^x")
	r.Register("exp2", 0, Exp2, CategoryMath, true, "2^x")
	r.Register("exp10", 0, Exp10, CategoryMath, true, "10^x")
	r.Register("log", 0, Log, CategoryMath, true, "natural log")
	r.Register("log2", 0, Log2, CategoryMath, true, "base-2 log")
	r.Register("log10", 0, Log10, CategoryMath, true, "base-10 log")
	r.Register("sin", 0, Sin, CategoryMath, true, "sine")
	r.Register("cos", 0, Cos, CategoryMath, true, "cosine")
	r.Register("tan", 0, Tan, CategoryMath, true, "tangent")
	r.Register("asin", 0, Asin, CategoryMath, true, "arcsine")
	r.Register("acos", 0, Acos, CategoryMath, true, "arccosine")
	r.Register("atan", 0, Atan, CategoryMath, true, "arctangent")
	r.Register("sinh", 0, Sinh, CategoryMath, true, "hyperbolic sine")
	r.Register("cosh", 0, Cosh, CategoryMath, true, "hyperbolic cosine")
	r.Register("tanh", 0, Tanh, CategoryMath, true, "hyperbolic tangent")
	r.Register("trunc", 0, Trunc, CategoryMath, true, "truncate toward zero")
	r.Register("nearbyint", 0, Nearbyint, CategoryMath, true, "round to nearest, ties to even")
	r.Register("significand", 0, Significand, CategoryMath, true, "IEEE significand")
	r.Register("logb", 0, Logb, CategoryMath, true, "IEEE exponent")
	r.Register("gamma", 0, Gamma, CategoryMath, true, "log-gamma")
	r.Register("fabs", 0, Fabs, CategoryMath, true, "float absolute value")
	r.Register("pow", 2, Pow2, CategoryMath, true, "base^exp")
	r.Register("atan2", 2, Atan22, CategoryMath, true, "two-argument arctangent")
	r.Register("copysign", 2, Copysign2, CategoryMath, true, "magnitude of x, sign of y")
	r.Register("fmin", 2, Fmin2, CategoryMath, true, "float minimum")
	r.Register("fmax", 2, Fmax2, CategoryMath, true, "float maximum")
	r.Register("infinite", 0, Infinite, CategoryMath, true, "positive infinity")
	r.Register("nan", 0, Nan, CategoryMath, true, "not-a-number")
	r.Register("isinfinite", 0, Isinfinite, CategoryMath, true, "is input infinite")
	r.Register("isnan", 0, Isnan, CategoryMath, true, "is input NaN")
	r.Register("isnormal", 0, Isnormal, CategoryMath, true, "is input a normal float")

	// --- string ---------------------------------------------------------------
	r.Register("ascii", 0, Ascii, CategoryString, true, "codepoint to one-character string")
	r.Register("explode", 0, Explode, CategoryString, true, "string to codepoint array")
	r.Register("implode", 0, Implode, CategoryString, true, "codepoint array to string")
	r.Register("ascii_downcase", 0, AsciiDowncase, CategoryString, true, "ASCII-only lowercase")
	r.Register("ascii_upcase", 0, AsciiUpcase, CategoryString, true, "ASCII-only uppercase")
	r.Register("ltrimstr", 1, Ltrimstr, CategoryString, true, "strip a literal prefix")
	r.Register("rtrimstr", 1, Rtrimstr, CategoryString, true, "strip a literal suffix")
	r.Register("startswith", 1, Startswith, CategoryString, true, "prefix test")
	r.Register("endswith", 1, Endswith, CategoryString, true, "suffix test")
	r.Register("split", 1, Split1, CategoryString, true, "split on a literal separator")
	r.Register("join", 1, Join1, CategoryString, true, "join an array of strings")
	r.Register("ltrim", 0, Ltrim, CategoryString, true, "strip leading whitespace")
	r.Register("rtrim", 0, Rtrim, CategoryString, true, "strip trailing whitespace")
	r.Register("trim", 0, Trim, CategoryString, true, "strip surrounding whitespace")
	r.Register("to_valid_utf8", 0, ToValidUtf8, CategoryString, true, "replace invalid UTF-8 with U+FFFD")
	r.Register("utf8_normalize", 1, Utf8Normalize, CategoryString, true, "Unicode normalization")
	r.Register("set_collation_locale", 1, SetCollationLocale1, CategoryString, false, "configure locale-aware string ordering")
	r.Register("collation_locale", 0, CollationLocale0, CategoryString, true, "the active collation locale tag, if any")
	r.Register("tostring", 0, Tostring, CategoryString, true, "render as a string")
	r.Register("tonumber", 0, Tonumber, CategoryString, true, "parse as a number")

	// --- regex ---------------------------------------------------------------
	r.Register("test", 1, Test1, CategoryString, false, "regex match test")
	r.Register("test", 2, Test2, CategoryString, false, "regex match test with flags")
	r.Register("match", 1, Match1, CategoryString, false, "regex match details")
	r.Register("match", 2, Match2, CategoryString, false, "regex match details with flags")
	r.Register("capture", 1, Capture1, CategoryString, false, "named capture object")
	r.Register("capture", 2, Capture2, CategoryString, false, "named capture object with flags")
	r.Register("scan", 1, Scan1, CategoryString, false, "stream of matches")
	r.Register("scan", 2, Scan2, CategoryString, false, "stream of matches with flags")
	r.Register("splits", 1, Splits1, CategoryString, false, "stream of regex-delimited fields")
	r.Register("splits", 2, Splits2, CategoryString, false, "stream of regex-delimited fields with flags")

	// --- format ---------------------------------------------------------------
	r.Register("base64", 0, Base64, CategoryFormat, true, "base64 encode")
	r.Register("base64d", 0, Base64d, CategoryFormat, true, "base64 decode")

	// --- path ---------------------------------------------------------------
	r.Register("getpath", 1, Getpath1, CategoryPath, false, "read a value at a path")
	r.Register("setpath", 2, Setpath2, CategoryPath, false, "write a value at a path")
	r.Register("delpaths", 1, Delpaths1, CategoryPath, false, "delete the values at a set of paths")

	// --- tabular ---------------------------------------------------------------
	r.Register("to_frame", 0, ToFrame, CategoryTabular, false, "array of objects to a Frame")
	r.Register("to_array", 0, ToArray, CategoryTabular, false, "Frame/Series to an array")
	r.Register("columns", 0, Columns, CategoryTabular, true, "column names of a Frame")
	r.Register("height", 0, Height, CategoryTabular, true, "row count of a Frame")
	r.Register("width", 0, Width, CategoryTabular, true, "column count of a Frame")
	r.Register("schema", 0, Schema, CategoryTabular, true, "column name/type map")
	r.Register("select_columns", 1, SelectColumns1, CategoryTabular, true, "project a Frame to named columns")
	r.Register("drop_columns", 1, DropColumns1, CategoryTabular, true, "drop named columns from a Frame")
	r.Register("lazy", 0, Lazy0, CategoryTabular, true, "wrap a Frame as a LazyFrame")
	r.Register("collect", 0, Collect0, CategoryTabular, true, "force a LazyFrame to a Frame")
	r.Register("explain", 0, Explain0, CategoryTabular, true, "describe a LazyFrame's pending plan")
	r.Register("pivot", 3, Pivot3, CategoryTabular, false, "reshape long rows to wide columns")
	r.Register("melt", 2, Melt2, CategoryTabular, false, "reshape wide columns to long rows")
	r.Register("join", 4, Join4, CategoryTabular, false, "equi-join against another frame")

	return r
}
