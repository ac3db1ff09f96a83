package cache

// MergeStrategy decides how an incoming field value combines with the value
// already cached for the same entity field.
type MergeStrategy int

const (
	// DeepMerge merges objects key by key and arrays index by index (the
	// result takes the incoming length). Scalars take the incoming value.
	DeepMerge MergeStrategy = iota
	// ReplaceWithIncoming discards the cached value.
	ReplaceWithIncoming
)

func (s MergeStrategy) String() string {
	switch s {
	case DeepMerge:
		return "deep-merge"
	case ReplaceWithIncoming:
		return "replace"
	default:
		return "unknown"
	}
}

// FieldKey names a field of a GraphQL type.
type FieldKey struct {
	TypeName  string
	FieldName string
}

// Policies maps fields to the strategy used when merging them. Fields not
// listed use DeepMerge.
type Policies map[FieldKey]MergeStrategy

// DefaultPolicies returns the merge policies of the checkout API. A campaign's
// donation tiers are replaced wholesale server-side, so stale tiers must not
// survive a refetch.
func DefaultPolicies() Policies {
	return Policies{
		{TypeName: "Campaign", FieldName: "donationTiers"}: ReplaceWithIncoming,
	}
}

// Strategy returns the strategy for typeName.fieldName.
func (p Policies) Strategy(typeName, fieldName string) MergeStrategy {
	if s, ok := p[FieldKey{TypeName: typeName, FieldName: fieldName}]; ok {
		return s
	}
	return DeepMerge
}

// Merge combines existing and incoming according to the field's strategy.
func (p Policies) Merge(typeName, fieldName string, existing, incoming any) any {
	if p.Strategy(typeName, fieldName) == ReplaceWithIncoming {
		return incoming
	}
	return deepMerge(existing, incoming)
}

func deepMerge(existing, incoming any) any {
	if _, ok := refKey(incoming); ok {
		return incoming
	}
	switch in := incoming.(type) {
	case map[string]any:
		ex, ok := existing.(map[string]any)
		if !ok {
			return in
		}
		if _, ok := refKey(ex); ok {
			return in
		}
		out := make(map[string]any, len(ex)+len(in))
		for k, v := range ex {
			out[k] = v
		}
		for k, v := range in {
			if prev, had := ex[k]; had {
				out[k] = deepMerge(prev, v)
				continue
			}
			out[k] = v
		}
		return out
	case []any:
		ex, ok := existing.([]any)
		if !ok {
			return in
		}
		out := make([]any, len(in))
		for i, v := range in {
			if i < len(ex) {
				out[i] = deepMerge(ex[i], v)
				continue
			}
			out[i] = v
		}
		return out
	default:
		return incoming
	}
}
