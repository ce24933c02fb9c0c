package jsonval

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"unicode/utf8"

	regerrors "github.com/telicent-oss/go-json-register/errors"
)

// Canonicalise renders v to its canonical encoding. Two values canonicalise
// to the same string exactly when they are the same registered entity.
//
// The function is pure and safe for concurrent use; all traversal state is
// local to the call. Cyclic values fail with a CanonicalisationError rather
// than recursing forever.
func Canonicalise(v Value) (string, error) {
	enc := encoder{visited: make(map[uintptr]struct{})}
	if err := enc.appendValue(v); err != nil {
		return "", err
	}
	return string(enc.buf), nil
}

// encoder walks a Value and accumulates the canonical encoding. visited
// holds the identities of containers on the current traversal path, so a
// container reached through itself is detected as a cycle while the same
// container reached twice through siblings (a DAG) is allowed.
type encoder struct {
	buf     []byte
	visited map[uintptr]struct{}
}

func (e *encoder) appendValue(v Value) error {
	switch val := v.(type) {
	case nil:
		return regerrors.NewCanonicalisationError("nil Value")
	case Null:
		e.buf = append(e.buf, "null"...)
		return nil
	case Bool:
		if val {
			e.buf = append(e.buf, "true"...)
		} else {
			e.buf = append(e.buf, "false"...)
		}
		return nil
	case Int:
		e.buf = strconv.AppendInt(e.buf, int64(val), 10)
		return nil
	case Float:
		return e.appendFloat(float64(val))
	case String:
		e.appendString(string(val))
		return nil
	case Array:
		return e.appendArray(val)
	case Object:
		return e.appendObject(val)
	default:
		return regerrors.NewCanonicalisationError("unknown Value type %T", v)
	}
}

func (e *encoder) appendArray(arr Array) error {
	if len(arr) > 0 {
		id := reflect.ValueOf(arr).Pointer()
		if _, ok := e.visited[id]; ok {
			return regerrors.NewCanonicalisationError("cycle detected through array")
		}
		e.visited[id] = struct{}{}
		defer delete(e.visited, id)
	}

	e.buf = append(e.buf, '[')
	for i, elem := range arr {
		if i > 0 {
			e.buf = append(e.buf, ',')
		}
		if err := e.appendValue(elem); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, ']')
	return nil
}

func (e *encoder) appendObject(obj Object) error {
	if len(obj) > 0 {
		id := reflect.ValueOf(obj).Pointer()
		if _, ok := e.visited[id]; ok {
			return regerrors.NewCanonicalisationError("cycle detected through object")
		}
		e.visited[id] = struct{}{}
		defer delete(e.visited, id)
	}

	// Byte-order key sort. UTF-8 byte order equals code point order, which
	// is the equality contract for registered entities.
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	e.buf = append(e.buf, '{')
	for i, k := range keys {
		if i > 0 {
			e.buf = append(e.buf, ',')
		}
		e.appendString(k)
		e.buf = append(e.buf, ':')
		if err := e.appendValue(obj[k]); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, '}')
	return nil
}

// appendFloat renders a float the way encoding/json does: shortest
// round-trip representation, 'e' form outside [1e-6, 1e21) with the
// exponent's leading zero trimmed.
func (e *encoder) appendFloat(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return regerrors.NewCanonicalisationError("unsupported float value %v", f)
	}

	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	e.buf = strconv.AppendFloat(e.buf, f, format, -1, 64)
	if format == 'e' {
		// strconv emits e-09; JSON convention is e-9.
		n := len(e.buf)
		if n >= 4 && e.buf[n-4] == 'e' && e.buf[n-3] == '-' && e.buf[n-2] == '0' {
			e.buf[n-2] = e.buf[n-1]
			e.buf = e.buf[:n-1]
		}
	}
	return nil
}

const hexDigits = "0123456789abcdef"

// appendString emits a quoted JSON string. Only the quote, the backslash,
// and control characters below U+0020 are escaped; non-ASCII text is emitted
// as literal UTF-8, and HTML-sensitive characters are left alone. Invalid
// UTF-8 sequences are replaced with U+FFFD, matching encoding/json.
func (e *encoder) appendString(s string) {
	e.buf = append(e.buf, '"')
	start := 0
	for i := 0; i < len(s); {
		if b := s[i]; b < utf8.RuneSelf {
			if b >= 0x20 && b != '"' && b != '\\' {
				i++
				continue
			}
			e.buf = append(e.buf, s[start:i]...)
			switch b {
			case '"':
				e.buf = append(e.buf, '\\', '"')
			case '\\':
				e.buf = append(e.buf, '\\', '\\')
			case '\b':
				e.buf = append(e.buf, '\\', 'b')
			case '\f':
				e.buf = append(e.buf, '\\', 'f')
			case '\n':
				e.buf = append(e.buf, '\\', 'n')
			case '\r':
				e.buf = append(e.buf, '\\', 'r')
			case '\t':
				e.buf = append(e.buf, '\\', 't')
			default:
				e.buf = append(e.buf, '\\', 'u', '0', '0', hexDigits[b>>4], hexDigits[b&0xF])
			}
			i++
			start = i
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			e.buf = append(e.buf, s[start:i]...)
			e.buf = append(e.buf, "�"...)
			i += size
			start = i
			continue
		}
		i += size
	}
	e.buf = append(e.buf, s[start:]...)
	e.buf = append(e.buf, '"')
}
