// Package frame converts tables into gota dataframes for tabular printing
// and export.
package frame

import (
	"strconv"

	"cancerscope/domain/dataset"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ToDataFrame converts t column by column. Numeric columns become float
// series with NaN for missing cells; the rest become string series where
// missing cells are NA.
func ToDataFrame(t *dataset.Table) dataframe.DataFrame {
	cols := t.Columns()
	list := make([]series.Series, 0, len(cols))
	for _, col := range cols {
		list = append(list, toSeries(col))
	}
	if len(list) == 0 {
		return dataframe.New()
	}
	return dataframe.New(list...)
}

func toSeries(col *dataset.Column) series.Series {
	if col.Type() == dataset.TypeNumeric {
		// gota only flags NA for float elements set from the "NaN" string
		values := make([]string, col.Len())
		for i := range values {
			if v, ok := col.Float(i); ok {
				values[i] = strconv.FormatFloat(v, 'g', -1, 64)
			} else {
				values[i] = "NaN"
			}
		}
		return series.New(values, series.Float, col.Name())
	}

	values := make([]string, col.Len())
	for i := range values {
		v := col.Value(i)
		if v.IsMissing() {
			values[i] = "NaN"
		} else {
			values[i] = v.String()
		}
	}
	return series.New(values, series.String, col.Name())
}

// Preview returns the first n rows of t as a dataframe
func Preview(t *dataset.Table, n int) dataframe.DataFrame {
	return ToDataFrame(t.Head(n))
}

// FromRecords builds an all-string dataframe from a header and rows, for
// printing computed results as a table
func FromRecords(header []string, rows [][]string) dataframe.DataFrame {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, header)
	records = append(records, rows...)
	return dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
}
