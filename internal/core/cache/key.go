package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"dashboard.app/pkg/errors"
	"github.com/cespare/xxhash/v2"
)

const (
	numberPrecision = 256
	// maxExactExponent bounds the exponent expanded into integer digits
	maxExactExponent = 4096
)

// numberLiteral matches decimal numbers, leading zeros included ("007" is the ID 7)
var numberLiteral = regexp.MustCompile(`^-?\d+(\.\d+)?([eE][+-]?\d+)?$`)

// Canonicalize serializes input so that logically equal inputs produce identical bytes.
//
// Object keys are sorted, arrays are deduplicated and sorted ascending, and
// numeric strings are coerced to numbers so "5" and 5 name the same ID.
func Canonicalize(input any) ([]byte, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return nil, errors.NewInternalError("cache key input is not serializable", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, errors.NewInternalError("cache key input is not serializable", err)
	}

	canonical, err := json.Marshal(canonicalValue(value))
	if err != nil {
		return nil, errors.NewInternalError("cache key input is not serializable", err)
	}
	return canonical, nil
}

func canonicalValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = canonicalValue(item)
		}
		return out
	case []any:
		return canonicalArray(v)
	case string:
		if n, ok := normalizeNumber(v); ok {
			return n
		}
		return v
	case json.Number:
		if n, ok := normalizeNumber(v.String()); ok {
			return n
		}
		return v
	default:
		return v
	}
}

type arrayItem struct {
	value any
	raw   []byte
	num   *big.Float
}

func canonicalArray(values []any) []any {
	items := make([]arrayItem, 0, len(values))
	for _, value := range values {
		canonical := canonicalValue(value)
		raw, err := json.Marshal(canonical)
		if err != nil {
			// Values decoded from JSON always re-encode.
			raw = []byte(fmt.Sprint(canonical))
		}
		item := arrayItem{value: canonical, raw: raw}
		if n, ok := canonical.(json.Number); ok {
			item.num, _, _ = big.ParseFloat(n.String(), 10, numberPrecision, big.ToNearestEven)
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return compareItems(items[i], items[j]) < 0
	})

	out := make([]any, 0, len(items))
	for i, item := range items {
		if i > 0 && bytes.Equal(items[i-1].raw, item.raw) {
			continue
		}
		out = append(out, item.value)
	}
	return out
}

// typeRank orders mixed arrays: null < bool < number < string < array < object
func typeRank(value any) int {
	switch value.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case json.Number:
		return 2
	case string:
		return 3
	case []any:
		return 4
	default:
		return 5
	}
}

func compareItems(a, b arrayItem) int {
	ra, rb := typeRank(a.value), typeRank(b.value)
	if ra != rb {
		return ra - rb
	}

	switch av := a.value.(type) {
	case bool:
		bv := b.value.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	case json.Number:
		if a.num != nil && b.num != nil {
			if c := a.num.Cmp(b.num); c != 0 {
				return c
			}
		}
	case string:
		return strings.Compare(av, b.value.(string))
	}
	return bytes.Compare(a.raw, b.raw)
}

// normalizeNumber returns the canonical text of a decimal literal, or false when s is not one
func normalizeNumber(s string) (json.Number, bool) {
	if !numberLiteral.MatchString(s) {
		return "", false
	}

	if !strings.ContainsAny(s, ".eE") {
		i, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return "", false
		}
		return json.Number(i.String()), true
	}

	f, _, err := big.ParseFloat(s, 10, numberPrecision, big.ToNearestEven)
	if err != nil || f.IsInf() {
		return "", false
	}
	// Integer values share the digit form of plain integer literals
	if f.IsInt() && exponentWithin(s, maxExactExponent) {
		if r, ok := new(big.Rat).SetString(s); ok && r.IsInt() {
			return json.Number(r.Num().String()), true
		}
	}
	return json.Number(f.Text('g', -1)), true
}

func exponentWithin(s string, limit int) bool {
	i := strings.IndexAny(s, "eE")
	if i < 0 {
		return true
	}
	exp, err := strconv.Atoi(s[i+1:])
	return err == nil && exp >= -limit && exp <= limit
}

// KeyBuilder derives store keys from a procedure identifier and its input
type KeyBuilder struct {
	prefix    string
	maxLength int
}

// NewKeyBuilder creates a key builder. Keys longer than maxLength keep the
// procedure part and replace the canonical payload with its xxhash digest;
// maxLength <= 0 disables digesting.
func NewKeyBuilder(prefix string, maxLength int) *KeyBuilder {
	return &KeyBuilder{
		prefix:    prefix,
		maxLength: maxLength,
	}
}

// Build returns the store key for procedure called with input
func (b *KeyBuilder) Build(procedure string, input any) (string, error) {
	if strings.TrimSpace(procedure) == "" {
		return "", errors.NewInternalError("cache key procedure cannot be empty", nil)
	}

	payload, err := Canonicalize(input)
	if err != nil {
		return "", fmt.Errorf("derive cache key for %s: %w", procedure, err)
	}

	key := b.prefix + procedure + ":" + string(payload)
	if b.maxLength > 0 && len(key) > b.maxLength {
		key = fmt.Sprintf("%s%s:#%016x", b.prefix, procedure, xxhash.Sum64(payload))
	}
	return key, nil
}
