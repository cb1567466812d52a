package usecase

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
)

// DefaultEncoding is assumed when an upload does not declare one.
const DefaultEncoding = "utf-8"

const (
	ColumnName        = "Equipment Name"
	ColumnType        = "Type"
	ColumnFlowrate    = "Flowrate"
	ColumnPressure    = "Pressure"
	ColumnTemperature = "Temperature"
)

//nolint:gochecknoglobals // fixed schema, checked in this order
var requiredColumns = []string{ColumnName, ColumnType, ColumnFlowrate, ColumnPressure, ColumnTemperature}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is one data row of an upload after header validation and conversion.
type Row struct {
	Name        string
	Type        string
	Flowrate    float64
	Pressure    float64
	Temperature float64
}

type columns struct {
	name        int
	typ         int
	flowrate    int
	pressure    int
	temperature int
}

// parseCSV decodes raw, validates the header and hands every data row to
// onRow in file order. It stops at the first violation and returns it as a
// *ValidationError; rows already handed over must then be discarded.
func parseCSV(raw []byte, encoding string, onRow func(Row)) (int, error) {
	text, err := decode(raw, encoding)
	if err != nil {
		return 0, err
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return 0, &ValidationError{Kind: KindEmptyInput}
	}
	if err != nil {
		return 0, &ValidationError{Kind: KindMalformedRow, Err: err}
	}
	index := indexHeader(header)

	record, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return 0, &ValidationError{Kind: KindEmptyInput}
	}
	if err != nil {
		return 0, &ValidationError{Kind: KindMalformedRow, Row: 1, Err: err}
	}

	cols, err := resolveColumns(index)
	if err != nil {
		return 0, err
	}

	rows := 0
	for {
		row, err := convertRow(record, cols, rows+1)
		if err != nil {
			return rows, err
		}
		onRow(row)
		rows++

		record, err = reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, &ValidationError{Kind: KindMalformedRow, Row: rows + 1, Err: err}
		}
	}
}

func decode(raw []byte, encoding string) ([]byte, error) {
	if len(raw) == 0 {
		return nil, &ValidationError{Kind: KindEmptyInput}
	}
	if encoding == "" {
		encoding = DefaultEncoding
	}

	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return nil, &ValidationError{Kind: KindDecoding, Encoding: encoding, Err: err}
	}

	if name, _ := htmlindex.Name(enc); name == DefaultEncoding {
		if !utf8.Valid(raw) {
			return nil, &ValidationError{Kind: KindDecoding, Encoding: DefaultEncoding}
		}
		return bytes.TrimPrefix(raw, utf8BOM), nil
	}

	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, &ValidationError{Kind: KindDecoding, Encoding: encoding, Err: err}
	}

	return bytes.TrimPrefix(out, utf8BOM), nil
}

// indexHeader maps column names to positions; a repeated name keeps its last position.
func indexHeader(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	return index
}

func resolveColumns(index map[string]int) (columns, error) {
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return columns{}, &ValidationError{Kind: KindMissingColumn, Column: name}
		}
	}

	return columns{
		name:        index[ColumnName],
		typ:         index[ColumnType],
		flowrate:    index[ColumnFlowrate],
		pressure:    index[ColumnPressure],
		temperature: index[ColumnTemperature],
	}, nil
}

func convertRow(record []string, cols columns, row int) (Row, error) {
	name := cell(record, cols.name)
	if strings.TrimSpace(name) == "" {
		return Row{}, &ValidationError{Kind: KindEmptyField, Row: row, Column: ColumnName}
	}

	flowrate, err := parseNumber(cell(record, cols.flowrate), row, ColumnFlowrate)
	if err != nil {
		return Row{}, err
	}
	pressure, err := parseNumber(cell(record, cols.pressure), row, ColumnPressure)
	if err != nil {
		return Row{}, err
	}
	temperature, err := parseNumber(cell(record, cols.temperature), row, ColumnTemperature)
	if err != nil {
		return Row{}, err
	}

	return Row{
		Name:        name,
		Type:        cell(record, cols.typ),
		Flowrate:    flowrate,
		Pressure:    pressure,
		Temperature: temperature,
	}, nil
}

// cell returns the value at pos, or "" when the row is shorter than the header.
func cell(record []string, pos int) string {
	if pos < len(record) {
		return record[pos]
	}
	return ""
}

func parseNumber(raw string, row int, column string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &ValidationError{Kind: KindInvalidNumber, Row: row, Column: column, Value: raw, Err: err}
	}
	return value, nil
}
