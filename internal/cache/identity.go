package cache

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
)

// IdentifyFunc derives the cache key of a response object. It returns false
// when the object should stay embedded in its parent instead of being
// normalized into its own entity.
type IdentifyFunc func(obj map[string]any) (string, bool)

// identityFields are consulted in order; the first truthy one wins.
var identityFields = []string{"id", "name", "slug"}

// DefaultIdentify keys objects as "<__typename>:<id|name|slug>". Objects
// without __typename are not normalized. Objects with a typename but none of
// the identity fields get a random UUID, so they never deduplicate across
// writes.
func DefaultIdentify(obj map[string]any) (string, bool) {
	typename, ok := obj[typenameField].(string)
	if !ok || typename == "" {
		return "", false
	}
	for _, field := range identityFields {
		if s, ok := identityValue(obj[field]); ok {
			return typename + ":" + s, true
		}
	}
	return typename + ":" + uuid.NewString(), true
}

// identityValue formats v as an identity component. Empty strings, zero
// numbers, false and null are skipped like missing fields.
func identityValue(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, v != ""
	case json.Number:
		f, err := v.Float64()
		if err == nil && f == 0 {
			return "", false
		}
		return v.String(), v != ""
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), v != 0
	case int:
		return strconv.Itoa(v), v != 0
	case bool:
		return "true", v
	default:
		return "", false
	}
}
