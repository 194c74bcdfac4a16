package gitea

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// validateArgs checks every required argument is present and every present
// argument conforms to its declared type. Returns the normalized argument
// map (integers as int64, lists as []string / []int64) or an
// invalid_argument failure. Arguments not declared by the endpoint are
// rejected; a typo in an optional name would otherwise be silently dropped.
func validateArgs(ep Endpoint, args map[string]interface{}) (map[string]interface{}, *Failure) {
	declared := make(map[string]Param, len(ep.Params))
	for _, p := range ep.Params {
		declared[p.Name] = p
	}

	for name := range args {
		if _, ok := declared[name]; !ok {
			return nil, failf(KindInvalidArgument, "argument %q is not accepted by %s", name, ep.Name)
		}
	}

	normalized := make(map[string]interface{}, len(args))
	for _, p := range ep.Params {
		raw, present := args[p.Name]
		if !present || raw == nil {
			if p.Required {
				return nil, failf(KindInvalidArgument, "argument %q is required", p.Name)
			}
			continue
		}
		val, err := coerce(p.Type, raw)
		if err != nil {
			return nil, failf(KindInvalidArgument, "argument %q: %v", p.Name, err)
		}
		normalized[p.Name] = val
	}
	return normalized, nil
}

// coerce converts a loosely-typed argument value (as decoded from JSON by the
// MCP layer) into its declared type. JSON numbers arrive as float64; integer
// params accept them only when they are whole.
func coerce(t ParamType, raw interface{}) (interface{}, error) {
	switch t {
	case TypeString:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %s", typeName(raw))
		}
		return s, nil

	case TypeInteger:
		return coerceInt(raw)

	case TypeBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %s", typeName(raw))
		}
		return b, nil

	case TypeStringList:
		items, ok := raw.([]interface{})
		if !ok {
			if ss, ok := raw.([]string); ok {
				return ss, nil
			}
			return nil, fmt.Errorf("expected list of strings, got %s", typeName(raw))
		}
		out := make([]string, 0, len(items))
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected list of strings, element %d is %s", i, typeName(item))
			}
			out = append(out, s)
		}
		return out, nil

	case TypeIntegerList:
		items, ok := raw.([]interface{})
		if !ok {
			return nil, fmt.Errorf("expected list of integers, got %s", typeName(raw))
		}
		out := make([]int64, 0, len(items))
		for i, item := range items {
			n, err := coerceInt(item)
			if err != nil {
				return nil, fmt.Errorf("expected list of integers, element %d: %v", i, err)
			}
			out = append(out, n)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown parameter type %q", t)
}

// coerceInt accepts the integer representations that reach this layer:
// Go ints, whole float64s from JSON decoding, and json.Number.
func coerceInt(raw interface{}) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("expected integer, got non-integral number %v", v)
		}
		return int64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", v.String())
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer, got %s", typeName(raw))
	}
}

// typeName renders a value's type for error messages in caller terms.
func typeName(v interface{}) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64, json.Number:
		return "number"
	case []interface{}, []string:
		return "list"
	case map[string]interface{}:
		return "object"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// queryValue renders a normalized value as a query-string value.
func queryValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprint(val)
	}
}

// atDefault reports whether a normalized value equals the param's declared
// default. Query params at their default are omitted from the request.
func atDefault(p Param, v interface{}) bool {
	if p.Default == nil {
		return false
	}
	switch d := p.Default.(type) {
	case int:
		n, ok := v.(int64)
		return ok && n == int64(d)
	default:
		return v == p.Default
	}
}
