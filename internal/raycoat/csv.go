package raycoat

import (
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// resultsFrame flattens a sweep into one row per ray.
func resultsFrame(results []*Result) dataframe.DataFrame {
	var wl, x, y, weight, intensity []float64
	for _, r := range results {
		for i := range r.X {
			wl = append(wl, r.Wavelength)
			x = append(x, r.X[i])
			y = append(y, r.Y[i])
			weight = append(weight, r.Weights[i])
			intensity = append(intensity, r.Intensity[i])
		}
	}
	return dataframe.New(
		series.New(wl, series.Float, "wavelength"),
		series.New(x, series.Float, "x"),
		series.New(y, series.Float, "y"),
		series.New(weight, series.Float, "weight"),
		series.New(intensity, series.Float, "intensity"),
	)
}

func writeResultsCSV(w io.Writer, results []*Result) error {
	df := resultsFrame(results)
	if df.Err != nil {
		return df.Err
	}
	return df.WriteCSV(w)
}

func saveCSV(path string, results []*Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeResultsCSV(f, results); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
