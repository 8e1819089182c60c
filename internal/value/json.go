package value

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// FromJSON parses a single JSON document into a Value, using gjson for the
// scan rather than encoding/json so object key order survives — encoding/
// json's map-based decoding would discard it, and key order is observable
// through the value model's Object type.
func FromJSON(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Null, fmt.Errorf("invalid JSON document")
	}
	return fromGJSON(gjson.ParseBytes(data)), nil
}

func fromGJSON(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null
	case gjson.True:
		return True
	case gjson.False:
		return False
	case gjson.Number:
		if r.Num == float64(int64(r.Num)) && !hasFractionOrExponent(r.Raw) {
			return Int(int64(r.Num))
		}
		return Float(r.Num)
	case gjson.String:
		return String(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			var elems []Value
			r.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, fromGJSON(v))
				return true
			})
			return Array(elems)
		}
		o := NewObject()
		r.ForEach(func(k, v gjson.Result) bool {
			o.Set(k.Str, fromGJSON(v))
			return true
		})
		return Obj(o)
	default:
		return Null
	}
}

// hasFractionOrExponent distinguishes "3" from "3.0"/"3e1" in the raw token,
// since gjson collapses both to the same float64 Num and the value model
// keeps KindInt and KindFloat distinct (spec §3.1 numeric tower).
func hasFractionOrExponent(raw string) bool {
	for _, c := range raw {
		if c == '.' || c == 'e' || c == 'E' {
			return true
		}
	}
	return false
}

// ToJSON renders v as a JSON document. Series and Frame values render as
// their row- or column-major JSON projection (a Frame as an array of row
// objects); a LazyFrame is collected first. Bytes values render as
// base64-encoded strings, matching the `@base64` format.
func ToJSON(v Value) (string, error) {
	var buf []byte
	buf, err := appendJSON(buf, v)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func appendJSON(buf []byte, v Value) ([]byte, error) {
	switch v.Kind() {
	case KindNull:
		return append(buf, "null"...), nil
	case KindBool:
		if v.AsBool() {
			return append(buf, "true"...), nil
		}
		return append(buf, "false"...), nil
	case KindInt:
		return strconv.AppendInt(buf, v.AsInt(), 10), nil
	case KindFloat:
		return strconv.AppendFloat(buf, v.AsFloat(), 'g', -1, 64), nil
	case KindString:
		return appendJSONString(buf, v.AsString()), nil
	case KindBytes:
		return appendJSONString(buf, base64.StdEncoding.EncodeToString(v.AsBytes())), nil
	case KindArray:
		return appendJSONArray(buf, v.AsArray())
	case KindObject:
		return appendJSONObject(buf, v.AsObject())
	case KindSeries:
		return appendJSONArray(buf, v.AsSeries().Values())
	case KindFrame:
		return appendJSONArray(buf, v.AsFrame().Rows())
	case KindLazyFrame:
		f, err := v.AsLazyFrame().Collect()
		if err != nil {
			return nil, err
		}
		return appendJSONArray(buf, f.Rows())
	default:
		return nil, fmt.Errorf("toJSON: unhandled kind %v", v.Kind())
	}
}

func appendJSONArray(buf []byte, vs []Value) ([]byte, error) {
	buf = append(buf, '[')
	for i, e := range vs {
		if i > 0 {
			buf = append(buf, ',')
		}
		var err error
		buf, err = appendJSON(buf, e)
		if err != nil {
			return nil, err
		}
	}
	return append(buf, ']'), nil
}

func appendJSONObject(buf []byte, o *Object) ([]byte, error) {
	buf = append(buf, '{')
	first := true
	var err error
	o.Each(func(k string, v Value) {
		if err != nil {
			return
		}
		if !first {
			buf = append(buf, ',')
		}
		first = false
		buf = appendJSONString(buf, k)
		buf = append(buf, ':')
		buf, err = appendJSON(buf, v)
	})
	if err != nil {
		return nil, err
	}
	return append(buf, '}'), nil
}

// appendJSONString reuses encoding/json's string escaping rather than
// reimplementing it, since getting \u-escaping and surrogate pairs right by
// hand is easy to get subtly wrong.
func appendJSONString(buf []byte, s string) []byte {
	b, _ := json.Marshal(s)
	return append(buf, b...)
}
