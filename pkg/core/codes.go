package core

import (
	"context"
	"fmt"
	"strings"
)

// CodeObject is an entry of the code-object catalog, such as the "F" member of
// the "sex" code list. CODEREF fields store only its key.
type CodeObject struct {
	Kind  string
	Code  string
	Label string
}

// Key returns "kind.code".
func (c CodeObject) Key() string {
	return c.Kind + "." + c.Code
}

func (c CodeObject) String() string {
	if c.Label == "" {
		return c.Key()
	}
	return fmt.Sprintf("%s (%s)", c.Key(), c.Label)
}

// ParseCodeKey splits a "kind.code" key. The kind may itself contain dots; the
// code is the last segment.
func ParseCodeKey(key string) (kind, code string, err error) {
	i := strings.LastIndexByte(key, '.')
	if i <= 0 || i == len(key)-1 {
		return "", "", fmt.Errorf("malformed code key %q", key)
	}
	return key[:i], key[i+1:], nil
}

// CodeResolver looks catalog entries up by key. Implementations must return an
// error matching ErrCodeNotFound for unknown keys.
type CodeResolver interface {
	Resolve(ctx context.Context, key string) (CodeObject, error)
}
