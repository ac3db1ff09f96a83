package cache_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/duboisf/donate/internal/cache"
)

func TestPolicies_Merge(t *testing.T) {
	t.Parallel()

	policies := cache.Policies{
		{TypeName: "Cart", FieldName: "items"}: cache.ReplaceWithIncoming,
	}

	tests := []struct {
		name     string
		typeName string
		field    string
		existing any
		incoming any
		want     any
	}{
		{
			name:     "replace discards existing collection",
			typeName: "Cart",
			field:    "items",
			existing: []any{"a", "b"},
			incoming: []any{"c"},
			want:     []any{"c"},
		},
		{
			name:     "replace is scoped to the type",
			typeName: "Order",
			field:    "items",
			existing: []any{map[string]any{"sku": "a", "qty": 1.0}},
			incoming: []any{map[string]any{"qty": 2.0}},
			want:     []any{map[string]any{"sku": "a", "qty": 2.0}},
		},
		{
			name:     "deep merge objects",
			typeName: "Cart",
			field:    "totals",
			existing: map[string]any{"net": 10.0, "tax": 2.0},
			incoming: map[string]any{"net": 12.0},
			want:     map[string]any{"net": 12.0, "tax": 2.0},
		},
		{
			name:     "deep merge scalar arrays take incoming",
			typeName: "Cart",
			field:    "tags",
			existing: []any{"a", "b"},
			incoming: []any{"c"},
			want:     []any{"c"},
		},
		{
			name:     "incoming reference wins",
			typeName: "Cart",
			field:    "owner",
			existing: map[string]any{"name": "Ada"},
			incoming: cache.Ref("Donor:1"),
			want:     cache.Ref("Donor:1"),
		},
		{
			name:     "type change takes incoming",
			typeName: "Cart",
			field:    "note",
			existing: map[string]any{"text": "hi"},
			incoming: "plain",
			want:     "plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := policies.Merge(tt.typeName, tt.field, tt.existing, tt.incoming)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Merge mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDefaultPolicies(t *testing.T) {
	t.Parallel()

	p := cache.DefaultPolicies()
	if got := p.Strategy("Campaign", "donationTiers"); got != cache.ReplaceWithIncoming {
		t.Errorf("Campaign.donationTiers strategy = %v, want %v", got, cache.ReplaceWithIncoming)
	}
	if got := p.Strategy("Campaign", "name"); got != cache.DeepMerge {
		t.Errorf("Campaign.name strategy = %v, want %v", got, cache.DeepMerge)
	}
}

func TestDefaultIdentify(t *testing.T) {
	t.Parallel()

	key1, ok1 := cache.DefaultIdentify(map[string]any{"__typename": "X", "id": "1"})
	key2, ok2 := cache.DefaultIdentify(map[string]any{"__typename": "X", "id": "1"})
	if !ok1 || !ok2 || key1 != key2 || key1 != "X:1" {
		t.Errorf("identities = %q/%v, %q/%v; want X:1 twice", key1, ok1, key2, ok2)
	}

	seen := make(map[string]bool)
	for range 1000 {
		key, ok := cache.DefaultIdentify(map[string]any{"__typename": "X"})
		if !ok {
			t.Fatal("expected typename-only object to be identified")
		}
		if seen[key] {
			t.Fatalf("random identity collision on %q", key)
		}
		seen[key] = true
	}

	if _, ok := cache.DefaultIdentify(map[string]any{"id": "1"}); ok {
		t.Error("object without __typename should not be identified")
	}
}
