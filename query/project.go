package query

import (
	"encoding/json"
	"fmt"
	"time"
)

func parseTime(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not a date", raw)
}

// Project reduces each row to the selected JSON fields plus "id". With no
// fields selected the rows are returned unchanged.
func Project[T any](rows []T, fields []string) (any, error) {
	if len(fields) == 0 {
		return rows, nil
	}
	keep := map[string]bool{"id": true}
	for _, f := range fields {
		keep[f] = true
	}

	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		raw, err := json.Marshal(row)
		if err != nil {
			return nil, err
		}
		var full map[string]any
		if err := json.Unmarshal(raw, &full); err != nil {
			return nil, err
		}
		slim := make(map[string]any, len(keep))
		for k, v := range full {
			if keep[k] {
				slim[k] = v
			}
		}
		out = append(out, slim)
	}
	return out, nil
}
