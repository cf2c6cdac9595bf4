package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// NoData is written in place of a category when a site could not be assessed.
const NoData = "no data"

// Columns is the CSV export header.
var Columns = []string{
	"city", "lat", "lon", "no2_molm2", "no2_ugm3", "aqi_category",
	"ground_no2", "ground_aqi", "temperature", "humidity",
}

// ExportFilename names a CSV export by date, e.g. air_quality_data_20240426.csv.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("air_quality_data_%s.csv", t.Format("20060102"))
}

// WriteCSV writes one row per site under the Columns header. Absent values
// are left empty.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(record(r)); err != nil {
			return fmt.Errorf("write csv row %q: %w", r.Site.City, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func record(r Row) []string {
	rec := []string{
		r.Site.City,
		formatFloat(r.Site.Lat),
		formatFloat(r.Site.Lon),
		formatFloat(r.Site.ColumnDensity),
		"",
		NoData,
		"", "", "", "",
	}
	a := r.Assessment
	if a == nil {
		return rec
	}
	rec[4] = formatFloat(a.Concentration)
	rec[5] = a.AQI.Category
	if a.Ground != nil {
		if a.Ground.NO2 != nil {
			rec[6] = formatFloat(*a.Ground.NO2)
		}
		if a.Ground.AQI != nil {
			rec[7] = strconv.Itoa(*a.Ground.AQI)
		}
	}
	if a.Weather != nil {
		rec[8] = formatFloat(a.Weather.TemperatureC)
		rec[9] = formatFloat(a.Weather.HumidityPct)
	}
	return rec
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Record is one parsed CSV export row keyed by column name.
type Record struct {
	Line   int
	Fields map[string]string
}

// ReadCSV parses an export, verifying the header matches Columns.
func ReadCSV(r io.Reader) ([]Record, error) {
	all, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("read csv: empty file")
	}

	header := all[0]
	if strings.Join(header, ",") != strings.Join(Columns, ",") {
		return nil, fmt.Errorf("read csv: unexpected header %q", strings.Join(header, ","))
	}

	records := make([]Record, 0, len(all)-1)
	for i, row := range all[1:] {
		fields := make(map[string]string, len(header))
		for j, h := range header {
			if j < len(row) {
				fields[h] = strings.TrimSpace(row[j])
			}
		}
		records = append(records, Record{Line: i + 2, Fields: fields})
	}
	return records, nil
}
