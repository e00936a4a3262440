package output

import (
	"encoding/json"
	"io"
)

// JSONWriter пишет Result как JSON с отступами.
type JSONWriter struct{}

// NewJSONWriter создаёт JSONWriter.
func NewJSONWriter() *JSONWriter { return &JSONWriter{} }

// Write переносит Summary в metadata.summary, не меняя исходный result.
func (j *JSONWriter) Write(w io.Writer, result *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if result == nil || result.Summary == nil || result.Metadata == nil {
		return enc.Encode(result)
	}

	out := *result
	meta := *result.Metadata
	meta.Summary = result.Summary
	out.Metadata = &meta
	return enc.Encode(&out)
}
