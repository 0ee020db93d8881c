package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/enflow/enflow/internal/engine"
)

// WriteCSV renders a run as CSV: one row per timestep, two columns per
// consumer (value and validity). Invalid values are written as-is so the
// sheet still shows what the failed search produced.
func WriteCSV(w io.Writer, usage *engine.RunUsage) error {
	cw := csv.NewWriter(w)

	header := []string{"time"}
	for _, c := range usage.Consumers {
		header = append(header, fmt.Sprintf("%s [%s]", c.Name, c.Unit), c.Name+" valid")
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for i, ts := range usage.Times {
		row := []string{ts.UTC().Format(time.RFC3339)}
		for _, c := range usage.Consumers {
			row = append(row,
				strconv.FormatFloat(c.Usage[i], 'g', -1, 64),
				strconv.FormatBool(c.Valid[i]))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// jsonReport is the JSON report shape. Field order is fixed by the struct
// so the output is deterministic.
type jsonReport struct {
	Times     []string             `json:"times"`
	Consumers []jsonConsumerReport `json:"consumers"`
}

type jsonConsumerReport struct {
	Name  string    `json:"name"`
	Unit  string    `json:"unit"`
	Usage []float64 `json:"usage"`
	Valid []bool    `json:"valid"`
}

// WriteJSON renders a run as indented JSON.
func WriteJSON(w io.Writer, usage *engine.RunUsage) error {
	report := jsonReport{}
	for _, ts := range usage.Times {
		report.Times = append(report.Times, ts.UTC().Format(time.RFC3339))
	}
	for _, c := range usage.Consumers {
		report.Consumers = append(report.Consumers, jsonConsumerReport{
			Name:  c.Name,
			Unit:  c.Unit,
			Usage: c.Usage,
			Valid: c.Valid,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("writing JSON report: %w", err)
	}
	return nil
}
