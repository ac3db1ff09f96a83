package cache

// Snapshot is the serializable state of a Cache: entity key to field values.
// References between entities are encoded as {"__ref": "<key>"}.
type Snapshot map[string]map[string]any

// Pseudo-entities holding the root results of queries and mutations.
const (
	RootQuery    = "ROOT_QUERY"
	RootMutation = "ROOT_MUTATION"
)

const (
	refField      = "__ref"
	typenameField = "__typename"
)

var rootTypenames = map[string]string{
	RootQuery:    "Query",
	RootMutation: "Mutation",
}

// Ref returns the reference value stored in place of a normalized entity.
func Ref(key string) map[string]any {
	return map[string]any{refField: key}
}

// refKey reports whether v is a reference and returns the entity key it
// points to.
func refKey(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return "", false
	}
	key, ok := m[refField].(string)
	return key, ok
}

// Clone returns a deep copy of s. A nil snapshot clones to an empty one.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for key, fields := range s {
		out[key] = cloneObject(fields)
	}
	return out
}

func cloneObject(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneObject(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// containsRef reports whether v holds a reference at any depth.
func containsRef(v any) bool {
	if _, ok := refKey(v); ok {
		return true
	}
	switch v := v.(type) {
	case map[string]any:
		for _, item := range v {
			if containsRef(item) {
				return true
			}
		}
	case []any:
		for _, item := range v {
			if containsRef(item) {
				return true
			}
		}
	}
	return false
}
