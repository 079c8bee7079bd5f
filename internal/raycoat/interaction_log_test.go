package raycoat

import "testing"

func TestInteractionLogCache(t *testing.T) {
	// reset
	cache = &InteractionLogCache{entries: make(map[string][]InteractionLog)}
	logInteraction("0.55", Transmit, 0.55, 0, 0.96)
	logInteraction("0.55", TIR, 0.55, 1.2, 1)
	logInteraction("0.65", Reflect, 0.65, 0.1, 0.04)
	if len(cache.entries["0.55"]) != 2 || len(cache.entries["0.65"]) != 1 {
		t.Fatalf("unexpected cache sizes: %+v", cache.entries)
	}
	counts := interactionCounts()
	if counts[Transmit] != 1 || counts[TIR] != 1 || counts[Reflect] != 1 || counts[Miss] != 0 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestCategoryString(t *testing.T) {
	if TIR.String() != "tir" || Miss.String() != "miss" {
		t.Fatal("category names wrong")
	}
	if Category(42).String() != "Category(42)" {
		t.Fatalf("unknown category: %s", Category(42))
	}
}
