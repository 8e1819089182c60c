package registry

// prelude.go holds the jq-style standard library written in the filter
// language itself rather than in Go, grounded on jq's own architecture:
// most of jq's builtins (map, select, recurse, group_by, ...) are defined in
// a bundled builtin.jq, compiled once ahead of the user's program, with only
// the primitives that need C-speed or a second evaluation strategy
// (_group_by_impl, _sort_by_impl, _minmax_by_impl in
// builtins_generic_tabular.go) dropping down to Go. Prelude is handed to the
// parser concatenated in front of user source text: `def name(...): body;`
// productions chain through their `Rest` field (see the parser's parseFuncDef), so
// splicing is simple string concatenation with no AST surgery required.
//
// Every def here is deliberately written against the iterate/field/index
// operators, the primitives already exposed by default.go (such as the three
// _..._impl array primitives), and map/select as defined at the top of this
// file, rather than against
// any new Go code, so this file can be read the same way a teacher's own
// prelude/stdlib.jq would be: as filter-language source, not Go.
const Prelude = `
def map(f): [.[] | f];
def map_values(f): .[] |= f;
def select(f): if f then . else empty end;

def recurse(f): def r: ., (f | r); r;
def recurse(f; cond): def r: ., (f | select(cond) | r); r;
def recurse: recurse(.[]?);
def repeat(f): def r: ., (f | r); r;

def while(cond; update): def w: if cond then ., (update | w) else empty end; w;
def until(cond; update): def u: if cond then . else (update | u) end; u;
def limit(n; f):
  if n > 0 then
    label $out
    | foreach f as $item (0; . + 1; $item, if . >= n then break $out else empty end)
  else
    empty
  end;

def first(f): label $out | f | ., break $out;
def first: .[0];
def last(f): reduce f as $item (null; $item);
def last: .[-1];
def nth(n): .[n];
def nth(n; f): last(limit(n + 1; f));

def any(generator; condition): reduce (generator | condition) as $x (false; . or $x);
def any(condition): any(.[]; condition);
def all(generator; condition): reduce (generator | condition) as $x (true; . and $x);
def all(condition): all(.[]; condition);

def group_by(f):
  (if type == "frame" then to_array else . end) as $in
  | $in | _group_by_impl($in | map([f]));
def sort_by(f):
  (if type == "frame" then to_array else . end) as $in
  | $in | _sort_by_impl($in | map([f]));
def sort: sort_by(.);
def unique_by(f): [group_by(f)[] | .[0]];
def unique: unique_by(.);
def min_by(f):
  (if type == "frame" then to_array else . end) as $in
  | $in | _minmax_by_impl($in | map([f]); false);
def max_by(f):
  (if type == "frame" then to_array else . end) as $in
  | $in | _minmax_by_impl($in | map([f]); true);

def to_entries: [keys_unsorted[] as $k | {key: $k, value: .[$k]}];
def from_entries:
  reduce .[] as $e
    ({}; . + {($e.key // $e.k // $e.name | tostring): ($e.value // $e.v // null)});
def with_entries(f): to_entries | map(f) | from_entries;

def walk(f):
  def w:
    if type == "object" then with_entries(.value |= w)
    elif type == "array" then map(w)
    else .
    end | f;
  w;

def paths(node_filter):
  . as $in
  | paths
  | select(. as $p | $in | getpath($p) | node_filter);
def del(f): delpaths([path(f)]);

def values: select(. != null);
def nulls: select(. == null);
def booleans: select(type == "boolean");
def numbers: select(type == "number");
def strings: select(type == "string");
def arrays: select(type == "array");
def objects: select(type == "object");
def iterables: select(type == "array" or type == "object");
def scalars: select(type as $t | $t != "array" and $t != "object" and $t != "frame");
def frames: select(type == "frame");

`
