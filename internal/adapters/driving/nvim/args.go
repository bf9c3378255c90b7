package nvim

import "math"

// Argument decoding. Msgpack integers arrive as any sized integer type,
// strings as string or []byte, and maps with string or interface keys.

func arg(method string, args []interface{}, i int, name string) (interface{}, error) {
	if i >= len(args) || args[i] == nil {
		return nil, argError(method, name, "is missing")
	}
	return args[i], nil
}

func intArg(method string, args []interface{}, i int, name string) (int, error) {
	v, err := arg(method, args, i, name)
	if err != nil {
		return 0, err
	}
	n, ok := toInt(v)
	if !ok {
		return 0, argError(method, name, "must be an integer")
	}
	return n, nil
}

func stringArg(method string, args []interface{}, i int, name string) (string, error) {
	v, err := arg(method, args, i, name)
	if err != nil {
		return "", err
	}
	s, ok := toString(v)
	if !ok {
		return "", argError(method, name, "must be a string")
	}
	return s, nil
}

func stringsArg(method string, args []interface{}, i int, name string) ([]string, error) {
	v, err := arg(method, args, i, name)
	if err != nil {
		return nil, err
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case []interface{}:
		out := make([]string, len(list))
		for j, item := range list {
			s, ok := toString(item)
			if !ok {
				return nil, argError(method, name, "must be a list of strings")
			}
			out[j] = s
		}
		return out, nil
	default:
		return nil, argError(method, name, "must be a list of strings")
	}
}

func mapArg(method string, args []interface{}, i int, name string) (map[string]interface{}, error) {
	v, err := arg(method, args, i, name)
	if err != nil {
		return nil, err
	}
	m, ok := toMap(v)
	if !ok {
		return nil, argError(method, name, "must be a map")
	}
	return m, nil
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func toString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	default:
		return "", false
	}
}

func toBool(v interface{}) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	if n, ok := toInt(v); ok {
		return n != 0, true
	}
	return false, false
}

func toMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, val := range m {
			key, ok := toString(k)
			if !ok {
				return nil, false
			}
			out[key] = val
		}
		return out, true
	default:
		return nil, false
	}
}
