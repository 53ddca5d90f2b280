package cache

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"econfetch/internal/model"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

// csvHeader is the column order of the typed text format. An empty value
// cell marks a missing observation.
var csvHeader = []string{"date", "item_id", "value", "name", "unit", "category", "source"}

const csvDateLayout = "2006-01-02"

// EncodeCSV writes a table in the typed text cache format.
func EncodeCSV(w io.Writer, tbl model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range tbl.Rows {
		value := ""
		if row.Valid {
			value = strconv.FormatFloat(row.Value, 'f', -1, 64)
		}
		rec := []string{
			row.Date.Format(csvDateLayout),
			row.ItemID,
			value,
			row.Name,
			row.Unit,
			row.Category,
			row.Source,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeCSV reads a table from the typed text cache format.
func DecodeCSV(r io.Reader) (model.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)
	records, err := cr.ReadAll()
	if err != nil {
		return model.Table{}, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return model.Table{}, fmt.Errorf("read csv: missing header")
	}

	var tbl model.Table
	for _, rec := range records[1:] {
		date, err := time.Parse(csvDateLayout, rec[0])
		if err != nil {
			return model.Table{}, fmt.Errorf("read csv: bad date %q: %w", rec[0], err)
		}
		row := model.Row{
			Date:     date,
			ItemID:   rec[1],
			Name:     rec[3],
			Unit:     rec[4],
			Category: rec[5],
			Source:   rec[6],
		}
		if rec[2] != "" {
			value, err := strconv.ParseFloat(rec[2], 64)
			if err != nil {
				return model.Table{}, fmt.Errorf("read csv: bad value %q: %w", rec[2], err)
			}
			row.Value = value
			row.Valid = true
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}

// parquetRow is the pre-typed binary schema of a cached observation.
type parquetRow struct {
	Date     string  `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	ItemID   string  `parquet:"name=item_id, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Value    float64 `parquet:"name=value, type=DOUBLE"`
	Valid    bool    `parquet:"name=valid, type=BOOLEAN"`
	Name     string  `parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Unit     string  `parquet:"name=unit, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Category string  `parquet:"name=category, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Source   string  `parquet:"name=source, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
}

// WriteParquet writes a table in the pre-typed binary cache format.
func WriteParquet(path string, tbl model.Table) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("open parquet writer: %w", err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(parquetRow), 2)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range tbl.Rows {
		rec := parquetRow{
			Date:     row.Date.Format(csvDateLayout),
			ItemID:   row.ItemID,
			Value:    row.Value,
			Valid:    row.Valid,
			Name:     row.Name,
			Unit:     row.Unit,
			Category: row.Category,
			Source:   row.Source,
		}
		if err := pw.Write(rec); err != nil {
			return fmt.Errorf("write parquet row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finish parquet: %w", err)
	}
	return nil
}

// ReadParquet reads a table from the pre-typed binary cache format.
func ReadParquet(path string) (model.Table, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return model.Table{}, fmt.Errorf("open parquet: %w", err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(parquetRow), 2)
	if err != nil {
		return model.Table{}, fmt.Errorf("create parquet reader: %w", err)
	}
	defer pr.ReadStop()

	num := int(pr.GetNumRows())
	recs := make([]parquetRow, num)
	if err := pr.Read(&recs); err != nil {
		return model.Table{}, fmt.Errorf("read parquet rows: %w", err)
	}

	var tbl model.Table
	for _, rec := range recs {
		date, err := time.Parse(csvDateLayout, rec.Date)
		if err != nil {
			return model.Table{}, fmt.Errorf("read parquet: bad date %q: %w", rec.Date, err)
		}
		tbl.Rows = append(tbl.Rows, model.Row{
			Date:     date,
			ItemID:   rec.ItemID,
			Value:    rec.Value,
			Valid:    rec.Valid,
			Name:     rec.Name,
			Unit:     rec.Unit,
			Category: rec.Category,
			Source:   rec.Source,
		})
	}
	return tbl, nil
}
