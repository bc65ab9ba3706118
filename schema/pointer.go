package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// ResolvePointer walks an RFC 6901 JSON Pointer from the document root and
// returns the value it addresses. The empty pointer and "#" address the root
// itself. A leading "#" and leading "/" are both accepted, so fragment forms
// like "#/$defs/Identifier" work directly.
func ResolvePointer(root *Value, pointer string) (*Value, error) {
	pointer = strings.TrimPrefix(pointer, "#")
	if pointer == "" {
		return root, nil
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, fmt.Errorf("invalid JSON pointer %q: must start with /", pointer)
	}

	current := root
	for _, raw := range strings.Split(pointer[1:], "/") {
		token := unescapePointerToken(raw)
		switch current.Kind() {
		case KindObject:
			child, ok := current.Get(token)
			if !ok {
				return nil, fmt.Errorf("pointer segment %q not found", token)
			}
			current = child
		case KindArray:
			idx, err := strconv.Atoi(token)
			if err != nil {
				return nil, fmt.Errorf("pointer segment %q is not an array index", token)
			}
			if idx < 0 || idx >= current.Len() {
				return nil, fmt.Errorf("pointer index %d out of range (len %d)", idx, current.Len())
			}
			current = current.Item(idx)
		default:
			return nil, fmt.Errorf("pointer segment %q addresses into a scalar", token)
		}
	}
	return current, nil
}

// unescapePointerToken reverses RFC 6901 escaping: ~1 becomes / and ~0
// becomes ~. Order matters; ~01 must decode to ~1, not /.
func unescapePointerToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}
