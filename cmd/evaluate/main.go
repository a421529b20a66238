// Command evaluate scores forecast CSVs against actuals with MAPE, for
// both the training and test splits of a fitted model.
//
// Usage:
//
//	go run ./cmd/evaluate \
//	  -train-actual data/splits/train.csv \
//	  -train-forecast data/forecasts/train.csv \
//	  -test-actual data/splits/test.csv \
//	  -test-forecast data/forecasts/test.csv \
//	  -max-test-mape 10
//
// Actual CSVs carry a "y" column, forecast CSVs a "yhat" column; rows are
// paired positionally and must align. Exits non-zero when inputs are
// malformed or the test MAPE exceeds -max-test-mape (when set).
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gridforge/load-forecast-prep/internal/evaluate"
)

func main() {
	trainActual := flag.String("train-actual", "", "CSV with training actuals (y column)")
	trainForecast := flag.String("train-forecast", "", "CSV with training forecasts (yhat column)")
	testActual := flag.String("test-actual", "", "CSV with test actuals (y column)")
	testForecast := flag.String("test-forecast", "", "CSV with test forecasts (yhat column)")
	maxTestMAPE := flag.Float64("max-test-mape", 0, "fail when test MAPE exceeds this percentage (0 disables)")
	flag.Parse()

	if *trainActual == "" || *trainForecast == "" || *testActual == "" || *testForecast == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*trainActual, *trainForecast, *testActual, *testForecast, *maxTestMAPE); code != 0 {
		os.Exit(code)
	}
}

func run(trainActualPath, trainForecastPath, testActualPath, testForecastPath string, maxTestMAPE float64) int {
	trainY, err := loadColumn(trainActualPath, "y")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load train actuals: %v\n", err)
		return 1
	}
	trainYhat, err := loadColumn(trainForecastPath, "yhat")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load train forecasts: %v\n", err)
		return 1
	}
	testY, err := loadColumn(testActualPath, "y")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load test actuals: %v\n", err)
		return 1
	}
	testYhat, err := loadColumn(testForecastPath, "yhat")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load test forecasts: %v\n", err)
		return 1
	}

	report, err := evaluate.Evaluate(trainY, trainYhat, testY, testYhat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: evaluate: %v\n", err)
		return 1
	}

	fmt.Println("=== Forecast Evaluation ===")
	fmt.Printf("Train set MAPE: %.2f%% (%d rows)\n", report.TrainMAPE, len(report.TrainResiduals))
	fmt.Printf("Test set MAPE:  %.2f%% (%d rows)\n", report.TestMAPE, len(report.TestResiduals))
	fmt.Printf("Max train residual: %.2f\n", maxOf(report.TrainResiduals))
	fmt.Printf("Max test residual:  %.2f\n", maxOf(report.TestResiduals))

	if maxTestMAPE > 0 && report.TestMAPE > maxTestMAPE {
		fmt.Printf("\nFAIL: test MAPE %.2f%% exceeds threshold %.2f%%\n", report.TestMAPE, maxTestMAPE)
		return 1
	}
	fmt.Println("\nOK")
	return 0
}

// loadColumn reads one named float column from a CSV file.
func loadColumn(path, column string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}

	idx := -1
	for i, h := range rows[0] {
		if strings.TrimSpace(h) == column {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("missing %q column in %s", column, path)
	}

	values := make([]float64, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if idx >= len(row) {
			return nil, fmt.Errorf("%s line %d: short row", path, i+2)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
		values = append(values, v)
	}
	return values, nil
}

func maxOf(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}
