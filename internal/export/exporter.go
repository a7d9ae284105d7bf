package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rebeliceyang/ctower/internal/models"
)

// Header is the column row of CSV exports
var Header = []string{
	"Container", "Precarriage", "Precarriage Price", "Mainline", "Mainline Price",
	"Oncarriage", "Oncarriage Price", "Total Price", "Transit Days", "ETD", "ETA",
}

// WriteCSV writes combinations as CSV to w. Legs outside a combination print "-".
func WriteCSV(w io.Writer, combos []models.Combination) error {
	writer := csv.NewWriter(w)

	// Write header
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write each combination
	for _, c := range combos {
		transit := "-"
		etd, eta := "-", "-"
		if c.HasSchedule() {
			transit = strconv.Itoa(c.TotalTransitDays)
			etd = formatDate(c.ETD)
			eta = formatDate(c.ETA)
		}

		row := []string{
			string(c.ContainerType),
			legID(c.Precarriage), c.Precarriage.Display(),
			legID(c.Mainline), c.Mainline.Display(),
			legID(c.Oncarriage), c.Oncarriage.Display(),
			c.TotalPrice.StringFixed(2),
			transit,
			etd,
			eta,
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportToCSV exports combinations to a CSV file
func ExportToCSV(combos []models.Combination, path string) error {
	// Create the file
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return WriteCSV(file, combos)
}

// WriteJSON writes combinations as indented JSON to w
func WriteJSON(w io.Writer, combos []models.Combination) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(combos); err != nil {
		return fmt.Errorf("failed to marshal combinations to JSON: %w", err)
	}
	return nil
}

// ExportToJSON exports combinations to a JSON file
func ExportToJSON(combos []models.Combination, path string) error {
	// Marshal to JSON with pretty printing
	data, err := json.MarshalIndent(combos, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal combinations to JSON: %w", err)
	}

	// Write to file
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	return nil
}

func legID(q models.LegQuote) string {
	if !q.Included {
		return "-"
	}
	return q.RateID
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(models.DateLayout)
}
