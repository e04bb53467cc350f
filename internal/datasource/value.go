package datasource

import (
	"strconv"

	"github.com/wandb/wandb/chartsync/internal/series"
)

// toValue converts a decoded cell to an axis value.
//
// Numbers become numeric values unless category is set. Strings that
// parse as numbers stay labels only when category is set. It returns
// false for missing cells.
func toValue(v any, category bool) (series.Value, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return series.Value{}, false
	case string:
		if x == "" {
			return series.Value{}, false
		}
		parsed, err := strconv.ParseFloat(x, 64)
		if category || err != nil {
			return series.Category(x), true
		}
		f = parsed
	case bool:
		return series.Category(strconv.FormatBool(x)), true
	case int64:
		f = float64(x)
	case float64:
		f = x
	default:
		return series.Value{}, false
	}

	if category {
		return series.Category(strconv.FormatFloat(f, 'f', -1, 64)), true
	}
	return series.Number(f), true
}
