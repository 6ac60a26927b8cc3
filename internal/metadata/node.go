package metadata

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/mrsinham/srforge/internal/util"
)

// Node is a position in a decoded metadata document. The zero Node is absent;
// lookups on an absent node return absent nodes, so chains like
// n.Get("a").Get("b") never panic.
type Node struct {
	v    any
	path string
}

// Root wraps a decoded value as the document root.
func Root(v any) Node {
	return Node{v: v}
}

// Path returns the dotted location of the node, e.g. "Measurements[0].Finding".
func (n Node) Path() string {
	return n.path
}

// Exists reports whether the node is present. A JSON null counts as absent.
func (n Node) Exists() bool {
	return n.v != nil
}

// IsObject reports whether the node is a key/value object.
func (n Node) IsObject() bool {
	_, ok := n.v.(map[string]any)
	return ok
}

// IsArray reports whether the node is an array.
func (n Node) IsArray() bool {
	_, ok := n.v.([]any)
	return ok
}

// IsMember reports whether the node is an object holding a non-null key.
func (n Node) IsMember(key string) bool {
	return n.Get(key).Exists()
}

// Get returns the member key of an object node.
func (n Node) Get(key string) Node {
	child := Node{path: n.childPath(key)}
	if m, ok := n.v.(map[string]any); ok {
		child.v = m[key]
	}
	return child
}

func (n Node) childPath(key string) string {
	if n.path == "" {
		return key
	}
	return n.path + "." + key
}

// Index returns element i of an array node.
func (n Node) Index(i int) Node {
	child := Node{path: fmt.Sprintf("%s[%d]", n.path, i)}
	if a, ok := n.v.([]any); ok && i >= 0 && i < len(a) {
		child.v = a[i]
	}
	return child
}

// Len returns the number of elements of an array node, 0 otherwise.
func (n Node) Len() int {
	if a, ok := n.v.([]any); ok {
		return len(a)
	}
	return 0
}

// Keys returns the sorted member names of an object node.
func (n Node) Keys() []string {
	m, ok := n.v.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ClosestKey returns the member name closest to key, for "did you mean"
// hints, or "" when nothing is close.
func (n Node) ClosestKey(key string) string {
	var candidates []string
	for _, k := range n.Keys() {
		if k != key {
			candidates = append(candidates, k)
		}
	}
	return util.ClosestMatch(key, candidates, 3)
}

// String returns the node as text. Strings are returned as is and numbers in
// their shortest decimal form. Other kinds report false.
func (n Node) String() (string, bool) {
	switch t := n.v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}

// Int returns the node as an integer. Numeric strings are accepted, and so are
// reals with no fractional part such as 1.0.
func (n Node) Int() (int, bool) {
	switch t := n.v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case uint64:
		if t > math.MaxInt {
			return 0, false
		}
		return int(t), true
	case float64:
		return integral(t)
	case json.Number:
		return parseInt(t.String())
	case string:
		return parseInt(strings.TrimSpace(t))
	default:
		return 0, false
	}
}

func parseInt(s string) (int, bool) {
	if i, err := strconv.Atoi(s); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return integral(f)
}

func integral(f float64) (int, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int(f), true
}

// Kind describes the node's value for error messages.
func (n Node) Kind() string {
	return kindOf(n.v)
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, int, int64, uint64, float64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
