package export

import (
	"compress/gzip"
	"errors"
	"fmt"
	"os"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/compress"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/piwi3910/QtyEstimate/internal/model"
)

// ErrNoColumns is returned when a table without columns is written.
var ErrNoColumns = errors.New("table has no columns")

// ParquetExt is the file extension of Parquet exports.
const ParquetExt = ".parquet"

// batchSize bounds the rows held in one record batch.
const batchSize = 10000

// TableSchema builds the Arrow schema of t. A column whose cells are all
// numbers or missing becomes a nullable float64; anything else a nullable
// string.
func TableSchema(t model.Table) *arrow.Schema {
	fields := make([]arrow.Field, len(t.Columns))
	for i, c := range t.Columns {
		typ := arrow.DataType(arrow.PrimitiveTypes.Float64)
		if !numericColumn(t, c) {
			typ = arrow.BinaryTypes.String
		}
		fields[i] = arrow.Field{Name: c, Type: typ, Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

// WriteParquet writes t as a gzip-compressed Parquet file. Missing cells
// are written as nulls.
func WriteParquet(path string, t model.Table) (err error) {
	if len(t.Columns) == 0 {
		return ErrNoColumns
	}
	schema := TableSchema(t)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating parquet file: %w", err)
	}
	// Don't close f; parquet handles closing it.
	writer, err := pqarrow.NewFileWriter(
		schema,
		f,
		parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Gzip),
			parquet.WithCompressionLevel(gzip.BestCompression)),
		pqarrow.DefaultWriterProps(),
	)
	if err != nil {
		f.Close()
		return fmt.Errorf("creating parquet writer: %w", err)
	}
	defer func() {
		if cerr := writer.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing parquet writer: %w", cerr)
		}
	}()

	rb := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer rb.Release()

	for start := 0; start < len(t.Rows) || start == 0; start += batchSize {
		end := min(start+batchSize, len(t.Rows))
		for _, row := range t.Rows[start:end] {
			appendRow(rb, schema, row)
		}
		rec := rb.NewRecord()
		err := writer.Write(rec)
		rec.Release()
		if err != nil {
			return fmt.Errorf("writing parquet record: %w", err)
		}
		if end >= len(t.Rows) {
			break
		}
	}
	return nil
}

func appendRow(rb *array.RecordBuilder, schema *arrow.Schema, row model.Row) {
	for i, field := range schema.Fields() {
		cell := row[field.Name]
		switch b := rb.Field(i).(type) {
		case *array.Float64Builder:
			if v, ok := cell.(float64); ok {
				b.Append(v)
			} else {
				b.AppendNull()
			}
		case *array.StringBuilder:
			switch v := cell.(type) {
			case nil:
				b.AppendNull()
			case string:
				b.Append(v)
			default:
				b.Append(fmt.Sprint(v))
			}
		}
	}
}

func numericColumn(t model.Table, column string) bool {
	for _, r := range t.Rows {
		switch r[column].(type) {
		case nil, float64:
		default:
			return false
		}
	}
	return true
}
