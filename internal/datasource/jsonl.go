package datasource

import (
	"io"

	"github.com/wandb/simplejsonext"
)

// readJSONL reads one JSON object per line.
func readJSONL(r io.Reader) ([]Row, error) {
	var rows []Row
	for obj, err := range simplejsonext.NewParser(r).IterObjectLines() {
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row(obj))
	}
	return rows, nil
}
