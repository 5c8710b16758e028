package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONRenderer produces machine-readable JSON output.
type JSONRenderer struct {
	w io.Writer
}

func (r *JSONRenderer) Render(report *Report) {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		fmt.Fprintf(r.w, `{"error": %q}`+"\n", err.Error())
	}
}
