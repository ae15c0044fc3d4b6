// Command genmock writes a synthetic HFMD dataset CSV for local development
// and demos. The generated series has a mid-year seasonal peak and weather
// readings loosely coupled to it, so every dashboard view and derived
// metric has something to show.
//
// Usage:
//
//	go run ./cmd/genmock -out hfmd_mock.csv -start 2009 -end 2019
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "hfmd_mock.csv", "output CSV path")
	startYear := flag.Int("start", 2009, "first year of the series")
	endYear := flag.Int("end", 2019, "last year of the series (inclusive)")
	seed := flag.Int64("seed", 42, "random seed, fixed for reproducible fixtures")
	flag.Parse()

	if *endYear < *startYear {
		return fmt.Errorf("invalid year range %d..%d", *startYear, *endYear)
	}

	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"Date", "Southern", "Northern", "Central", "East Coast", "Borneo", "Temp C", "Rain C", "RH C"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	rows := 0
	start := time.Date(*startYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(*endYear, time.December, 31, 0, 0, 0, 0, time.UTC)

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if err := w.Write(mockRow(d, rng)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
		rows++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	log.Printf("%s: %d rows (%d-%d)", *out, rows, *startYear, *endYear)
	return nil
}

// mockRow synthesizes one day. Case counts follow a sinusoid peaking around
// June with region-specific baselines (Central and Southern highest, Borneo
// lowest, matching the real dataset's ranking); temperature tracks the same
// cycle so the temperature correlation comes out clearly positive.
func mockRow(d time.Time, rng *rand.Rand) []string {
	season := math.Sin(2 * math.Pi * (float64(d.YearDay()) - 60) / 365)

	baselines := []float64{55, 40, 60, 25, 15} // southern, northern, central, east_coast, borneo
	row := []string{d.Format("02/01/2006")}
	for _, base := range baselines {
		cases := base * (1 + 0.6*season) * (0.8 + 0.4*rng.Float64())
		row = append(row, strconv.Itoa(int(math.Max(0, math.Round(cases)))))
	}

	temp := 27.5 + 2.0*season + rng.Float64()
	rain := math.Max(0, 7.0-3.0*season+4.0*rng.Float64())
	rh := 80.0 - 3.0*season + 4.0*rng.Float64()
	row = append(row,
		strconv.FormatFloat(temp, 'f', 1, 64),
		strconv.FormatFloat(rain, 'f', 1, 64),
		strconv.FormatFloat(rh, 'f', 1, 64),
	)
	return row
}
