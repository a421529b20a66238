// Command genfixture generates a synthetic hourly load CSV in the source
// schema (Datetime, PJME_MW) for tests and local pipeline runs. The series
// follows a daily sinusoid with a weekend dip, plus optional injected
// anomalies: a one-hour spike and a multi-day sag imitating a hurricane
// outage. Output is deterministic for a given seed.
//
// Usage:
//
//	go run ./cmd/genfixture -out data/PJME_hourly.csv \
//	  -start 2012-10-20 -days 17 -spike-at "2012-10-25 14:00:00" \
//	  -sag-at 2012-10-29 -sag-days 3
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	baseLoadMW   = 30000.0
	dailySwingMW = 6000.0
	weekendDipMW = 2500.0
	noiseMW      = 150.0
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output CSV path")
	start := flag.String("start", "2012-10-20", "first day (YYYY-MM-DD)")
	days := flag.Int("days", 17, "number of days to generate")
	seed := flag.Int64("seed", 42, "noise seed")
	spikeAt := flag.String("spike-at", "", "timestamp of a 10x spike (YYYY-MM-DD HH:MM:SS)")
	sagAt := flag.String("sag-at", "", "first day of an outage sag (YYYY-MM-DD)")
	sagDays := flag.Int("sag-days", 3, "sag duration in days")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	startDay, err := time.Parse("2006-01-02", *start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}

	var spike time.Time
	if *spikeAt != "" {
		spike, err = time.Parse("2006-01-02 15:04:05", *spikeAt)
		if err != nil {
			return fmt.Errorf("invalid -spike-at: %w", err)
		}
	}
	var sag time.Time
	if *sagAt != "" {
		sag, err = time.Parse("2006-01-02", *sagAt)
		if err != nil {
			return fmt.Errorf("invalid -sag-at: %w", err)
		}
	}

	rows := generate(startDay, *days, *seed, spike, sag, *sagDays)

	if err := writeCSV(*out, rows); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote %d hourly rows: %s", len(rows), *out)
	return nil
}

type row struct {
	ts   time.Time
	load float64
}

func generate(startDay time.Time, days int, seed int64, spike, sag time.Time, sagDays int) []row {
	rng := rand.New(rand.NewSource(seed))
	rows := make([]row, 0, days*24)

	for d := range days {
		day := startDay.AddDate(0, 0, d)
		for h := range 24 {
			ts := day.Add(time.Duration(h) * time.Hour)
			load := hourlyLoad(ts, rng)

			if !spike.IsZero() && ts.Equal(spike) {
				load *= 10
			}
			if !sag.IsZero() && inSag(ts, sag, sagDays) {
				load *= 0.4
			}

			rows = append(rows, row{ts: ts, load: load})
		}
	}
	return rows
}

// hourlyLoad models demand as a daily sinusoid peaking in the late
// afternoon, dipping on weekends, with small gaussian noise.
func hourlyLoad(ts time.Time, rng *rand.Rand) float64 {
	hour := float64(ts.Hour())
	load := baseLoadMW + dailySwingMW*math.Sin(2*math.Pi*(hour-9)/24)
	if wd := ts.Weekday(); wd == time.Saturday || wd == time.Sunday {
		load -= weekendDipMW
	}
	return load + rng.NormFloat64()*noiseMW
}

func inSag(ts, sagStart time.Time, sagDays int) bool {
	end := sagStart.AddDate(0, 0, sagDays)
	return !ts.Before(sagStart) && ts.Before(end)
}

func writeCSV(path string, rows []row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Datetime", "PJME_MW"}); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.ts.Format("2006-01-02 15:04:05"),
			strconv.FormatFloat(r.load, 'f', 1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
