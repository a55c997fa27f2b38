package excel

import (
	"cancerscope/adapters/datareadiness/coercer"
)

// ReaderConfig holds configuration for tabular ingestion
type ReaderConfig struct {
	SheetName      string                 `json:"sheet_name"` // empty means first sheet
	MaxRows        int                    `json:"max_rows"`   // 0 means unlimited
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultReaderConfig returns sensible defaults for ingestion
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}
