package raycoat

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lukaszgryglicki/raycoat/internal/catalog"
	"github.com/lukaszgryglicki/raycoat/internal/coating"
)

func Run(cfgPath string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	ct, err := resolveCoating(cfg)
	if err != nil {
		return err
	}
	DebugLog("Coating: %s", ct.Kind())

	start := time.Now()
	results, err := sweep(cfg, ct)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	printSummary(os.Stdout, ct, results, elapsed)

	if Debug {
		interactionStats()
	}

	if cfg.CSVOut != "" {
		if err := saveCSV(cfg.CSVOut, results); err != nil {
			return err
		}
		DebugLog("Saved per-ray CSV: %s", cfg.CSVOut)
	}
	return nil
}

// resolveCoating decodes the inline coating, or loads it from the catalog
// when none is given inline. With catalog.save the inline coating is stored.
func resolveCoating(cfg *Config) (coating.Coating, error) {
	var inline coating.Coating
	if cfg.Coating != nil {
		c, err := coating.FromDict(cfg.Coating)
		if err != nil {
			return nil, fmt.Errorf("coating: %w", err)
		}
		inline = c
	}
	if cfg.Catalog == nil {
		return inline, nil
	}
	if inline != nil && !cfg.Catalog.Save {
		return inline, nil
	}

	cat, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	defer cat.Close()
	if inline != nil {
		if err := cat.Put(cfg.Catalog.Coating, inline); err != nil {
			return nil, err
		}
		DebugLog("Stored coating %q in %s", cfg.Catalog.Coating, cfg.Catalog.Path)
		return inline, nil
	}
	e, err := cat.Entry(cfg.Catalog.Coating)
	if err != nil {
		return nil, err
	}
	DebugLog("Loaded coating %q (%s), stored %s", e.Name, e.ID, humanize.Time(e.Created()))
	return e.Coating()
}

func printSummary(w io.Writer, ct coating.Coating, results []*Result, elapsed time.Duration) {
	total := 0
	counts := make(map[Category]int)
	for _, r := range results {
		total += len(r.X)
		for c, n := range r.Counts {
			counts[c] += n
		}
	}
	fmt.Fprintf(w, "%s: %s rays over %d wavelengths in %s\n",
		ct.Kind(), humanize.Comma(int64(total)), len(results), elapsed.Round(time.Microsecond))
	for _, r := range results {
		fmt.Fprintf(w, "  %s µm  throughput %s\n",
			humanize.FtoaWithDigits(r.Wavelength, 4), humanize.FtoaWithDigits(r.Throughput, 6))
	}
	cats := make([]Category, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	for _, c := range cats {
		fmt.Fprintf(w, "  %s: %s\n", c, humanize.Comma(int64(counts[c])))
	}
}
