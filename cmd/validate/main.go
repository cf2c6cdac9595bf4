// Command validate checks a CSV export for internal consistency: every
// assessed row's concentration must equal its column density times the
// conversion factor, and its category must match the classification of that
// concentration. Rows marked "no data" must carry no concentration and an
// unusable column density.
//
// Usage:
//
//	go run ./cmd/validate -csv data/export/air_quality_data_20240426.csv
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/couchcryptid/no2-aqi-etl/internal/domain"
	"github.com/couchcryptid/no2-aqi-etl/internal/report"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to a CSV export")
	height := flag.Float64("boundary-layer-height", domain.DefaultBoundaryLayerHeight, "boundary layer height (m) the export was produced with")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath, *height); code != 0 {
		os.Exit(code)
	}
}

func run(path string, height float64) int {
	conv, err := domain.NewConverter(height)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: open export: %v\n", err)
		return 1
	}
	defer f.Close()

	records, err := report.ReadCSV(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	fmt.Println("=== NO₂ Export Validation ===")
	fmt.Println()

	phases := []*phase{
		validateConversion(records, conv),
		validateClassification(records),
		validateNoDataRows(records, conv),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d\n", len(records))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Conversion ──

func validateConversion(records []report.Record, conv domain.Converter) *phase {
	p := &phase{name: "Phase 1: Conversion (mol/m² → μg/m³)"}
	for _, r := range records {
		if r.Fields["aqi_category"] == report.NoData {
			continue
		}
		m, err := parseField(r, "no2_molm2")
		if err != nil {
			p.errorf("line %d: %v", r.Line, err)
			continue
		}
		got, err := parseField(r, "no2_ugm3")
		if err != nil {
			p.errorf("line %d: %v", r.Line, err)
			continue
		}
		want, err := conv.Convert(m)
		if err != nil {
			p.errorf("line %d (%s): %v", r.Line, r.Fields["city"], err)
			continue
		}
		if !floatEq(got, want) {
			p.errorf("line %d (%s): no2_ugm3 expected %g, got %g", r.Line, r.Fields["city"], want, got)
		}
	}
	return p
}

// ── Phase 2: Classification ──

func validateClassification(records []report.Record) *phase {
	p := &phase{name: "Phase 2: Classification (AQI category)"}
	for _, r := range records {
		if r.Fields["aqi_category"] == report.NoData {
			continue
		}
		c, err := parseField(r, "no2_ugm3")
		if err != nil {
			p.errorf("line %d: %v", r.Line, err)
			continue
		}
		want, err := domain.Classify(c)
		if err != nil {
			p.errorf("line %d (%s): %v", r.Line, r.Fields["city"], err)
			continue
		}
		if got := r.Fields["aqi_category"]; got != want.Category {
			p.errorf("line %d (%s): aqi_category expected %q, got %q", r.Line, r.Fields["city"], want.Category, got)
		}
	}
	return p
}

// ── Phase 3: No-data rows ──

func validateNoDataRows(records []report.Record, conv domain.Converter) *phase {
	p := &phase{name: "Phase 3: No-data rows"}
	for _, r := range records {
		if r.Fields["aqi_category"] != report.NoData {
			continue
		}
		if v := r.Fields["no2_ugm3"]; v != "" {
			p.errorf("line %d (%s): no-data row has no2_ugm3=%q", r.Line, r.Fields["city"], v)
		}
		m, err := parseField(r, "no2_molm2")
		if err != nil {
			continue
		}
		if _, err := conv.Convert(m); err == nil {
			p.errorf("line %d (%s): no-data row has a valid column density %g", r.Line, r.Fields["city"], m)
		}
	}
	return p
}

// ── Helpers ──

func parseField(r report.Record, name string) (float64, error) {
	raw := r.Fields[name]
	if raw == "" {
		return 0, fmt.Errorf("%s is empty", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a number", name, raw)
	}
	return v, nil
}

// floatEq compares with a relative tolerance so values that round-tripped
// through text still match.
func floatEq(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
