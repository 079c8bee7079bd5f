package raycoat

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dustin/go-humanize"
)

type Category uint8

const (
	Transmit Category = iota // ray passed the surface
	Reflect                  // ray reflected by request
	TIR                      // total internal reflection (ray asked to transmit but could not)
	Miss                     // ray parallel to the surface
)

var categoryNames = [...]string{
	Transmit: "transmit",
	Reflect:  "reflect",
	TIR:      "tir",
	Miss:     "miss",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", c)
}

type InteractionLog struct {
	Name       string
	Category   Category
	Wavelength float64 // microns
	AOI        float64 // radians, in the surface frame
	Intensity  float64 // after the coating
}

type InteractionLogCache struct {
	mu      sync.Mutex
	entries map[string][]InteractionLog // map of log name to entries
}

var cache = &InteractionLogCache{
	entries: make(map[string][]InteractionLog),
}

func logInteraction(name string, category Category, wavelength, aoi, intensity float64) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.entries[name] = append(cache.entries[name], InteractionLog{
		Name:       name,
		Category:   category,
		Wavelength: wavelength,
		AOI:        aoi,
		Intensity:  intensity,
	})
}

// interactionCounts tallies logged entries per category across all names.
func interactionCounts() map[Category]int {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	counts := make(map[Category]int)
	for _, v := range cache.entries {
		for _, e := range v {
			counts[e.Category]++
		}
	}
	return counts
}

func interactionStats() {
	cache.mu.Lock()
	names := make([]string, 0, len(cache.entries))
	for k := range cache.entries {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Printf("Interaction log %s: %s entries\n", k, humanize.Comma(int64(len(cache.entries[k]))))
	}
	cache.mu.Unlock()
	counts := interactionCounts()
	for c := Transmit; c <= Miss; c++ {
		fmt.Printf("  %s: %s\n", c, humanize.Comma(int64(counts[c])))
	}
}
