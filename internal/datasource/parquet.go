package datasource

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

// readParquet reads every column of a parquet file.
//
// Columns of unsupported types, such as lists and structs, read as nil.
func readParquet(ctx context.Context, r parquet.ReaderAtSeeker) ([]Row, error) {
	pf, err := file.NewParquetReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = pf.Close() }()

	reader, err := pqarrow.NewFileReader(
		pf,
		pqarrow.ArrowReadProperties{Parallel: false},
		memory.DefaultAllocator,
	)
	if err != nil {
		return nil, err
	}

	table, err := reader.ReadTable(ctx)
	if err != nil {
		return nil, err
	}
	defer table.Release()

	rows := make([]Row, table.NumRows())
	for i := range rows {
		rows[i] = make(Row, table.NumCols())
	}

	for c := 0; c < int(table.NumCols()); c++ {
		name := table.Schema().Field(c).Name
		offset := 0
		for _, chunk := range table.Column(c).Data().Chunks() {
			for i := 0; i < chunk.Len(); i++ {
				rows[offset+i][name] = cellValue(chunk, i)
			}
			offset += chunk.Len()
		}
	}
	return rows, nil
}

// cellValue reads element i of a column chunk as an int64, float64,
// string or bool.
func cellValue(data arrow.Array, i int) any {
	if data.IsNull(i) {
		return nil
	}

	switch arr := data.(type) {
	case *array.Int32:
		return int64(arr.Value(i))
	case *array.Int64:
		return arr.Value(i)
	case *array.Uint32:
		return int64(arr.Value(i))
	case *array.Uint64:
		return int64(arr.Value(i))
	case *array.Float32:
		return float64(arr.Value(i))
	case *array.Float64:
		return arr.Value(i)
	case *array.String:
		return arr.Value(i)
	case *array.LargeString:
		return arr.Value(i)
	case *array.Boolean:
		return arr.Value(i)
	case *array.Timestamp:
		return int64(arr.Value(i))
	default:
		return nil
	}
}
