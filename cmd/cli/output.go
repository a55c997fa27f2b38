package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"cancerscope/adapters/frame"
	"cancerscope/internal/errors"

	"github.com/go-gota/gota/dataframe"
	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func validOutput(output string) error {
	switch output {
	case outputTable, outputJSON, outputYAML:
		return nil
	}
	return errors.InvalidInput(fmt.Sprintf("output must be table, json or yaml, got %q", output))
}

// render writes v as JSON or YAML, or the dataframe built by table otherwise
func render(w io.Writer, output string, v interface{}, table func() dataframe.DataFrame) error {
	switch output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		// round trip through JSON so field names follow the json tags
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var generic interface{}
		if err := json.Unmarshal(b, &generic); err != nil {
			return err
		}
		out, err := yaml.Marshal(generic)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		_, err := fmt.Fprintln(w, table().String())
		return err
	}
}

func records(header []string, rows [][]string) dataframe.DataFrame {
	return frame.FromRecords(header, rows)
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func fmtPtr(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmtFloat(*v)
}
