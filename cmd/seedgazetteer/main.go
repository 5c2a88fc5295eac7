// Command seedgazetteer converts a gazetteer Excel workbook into a SQL
// seed file. The sheet columns are: name, latitude, longitude, aliases
// (semicolon separated), region. Data starts at row 2 (row 1 is headers).
// Usage: go run ./cmd/seedgazetteer [gazetteer.xlsx]
// Output: db/seeds/gazetteer.sql
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"fieldatlas/internal/domain"
)

const batchSize = 500

type gazEntry struct {
	name    string
	lat     float64
	lon     float64
	aliases []string
	region  string
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	xlsxPath := "gazetteer.xlsx"
	if len(os.Args) > 1 {
		xlsxPath = os.Args[1]
	}
	outPath := "db/seeds/gazetteer.sql"

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := parseSheet(f)
	if err != nil {
		return fmt.Errorf("parse sheet: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no valid gazetteer rows in %s", xlsxPath)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	w := func(s string) error { _, werr := fmt.Fprintln(out, s); return werr }

	for _, line := range []string{
		"-- Gazetteer seed data generated from Excel.",
		fmt.Sprintf("-- %d entries in batches of %d.", len(entries), batchSize),
		"-- Run: make seed-gazetteer",
		"BEGIN;",
		"TRUNCATE gazetteer_entries;",
		"",
	} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write header: %w", werr)
		}
	}

	for i := 0; i < len(entries); i += batchSize {
		end := i + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		if err := writeBatch(out, entries[i:end]); err != nil {
			return fmt.Errorf("write batch at offset %d: %w", i, err)
		}
	}

	for _, line := range []string{"", "COMMIT;"} {
		if werr := w(line); werr != nil {
			return fmt.Errorf("write footer: %w", werr)
		}
	}

	log.Printf("Generated %d entries (%d batches) in %s",
		len(entries), (len(entries)+batchSize-1)/batchSize, outPath)
	return nil
}

// parseSheet reads the first sheet. Rows with an unparseable or
// out-of-range coordinate are skipped with a log line.
func parseSheet(f *excelize.File) ([]gazEntry, error) {
	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var entries []gazEntry
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 3 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}

		lat, err1 := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		lon, err2 := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err1 != nil || err2 != nil || !domain.ValidLatLong(lat, lon) {
			log.Printf("skipping row %d (%s): bad coordinates", i+1, name)
			continue
		}

		entry := gazEntry{name: name, lat: lat, lon: lon}
		if len(row) > 3 {
			for _, alias := range strings.Split(row[3], ";") {
				alias = strings.TrimSpace(alias)
				if alias != "" {
					entry.aliases = append(entry.aliases, alias)
				}
			}
		}
		if len(row) > 4 {
			entry.region = strings.TrimSpace(row[4])
		}

		seen[strings.ToLower(name)] = true
		entries = append(entries, entry)
	}
	return entries, nil
}

func writeBatch(out *os.File, entries []gazEntry) error {
	if _, err := fmt.Fprintln(out,
		"INSERT INTO gazetteer_entries (id, name, latitude, longitude, aliases, region, created_at) VALUES"); err != nil {
		return err
	}
	for i, e := range entries {
		sep := ","
		if i == len(entries)-1 {
			sep = ";"
		}
		line := fmt.Sprintf("  (gen_random_uuid(), %s, %g, %g, %s, %s, NOW())%s",
			sqlString(e.name), e.lat, e.lon, sqlJSONArray(e.aliases), sqlString(e.region), sep)
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func sqlJSONArray(values []string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = `"` + strings.ReplaceAll(strings.ReplaceAll(v, `\`, `\\`), `"`, `\"`) + `"`
	}
	return sqlString("[" + strings.Join(parts, ",") + "]")
}
