package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/a7med3yad/DataProject/domain/market"
	"github.com/a7med3yad/DataProject/internal/errors"
)

// Required dataset columns. Header matching is case-insensitive and a few
// common spellings are accepted (see columnAliases).
const (
	ColumnCustomer    = "customer"
	ColumnAge         = "age"
	ColumnCity        = "city"
	ColumnPaymentType = "payment_type"
	ColumnItems       = "items"
	ColumnTotal       = "total"
)

var requiredColumns = []string{
	ColumnCustomer,
	ColumnAge,
	ColumnCity,
	ColumnPaymentType,
	ColumnItems,
	ColumnTotal,
}

var columnAliases = map[string]string{
	"customer":     ColumnCustomer,
	"customername": ColumnCustomer,
	"age":          ColumnAge,
	"city":         ColumnCity,
	"paymenttype":  ColumnPaymentType,
	"payment_type": ColumnPaymentType,
	"payment":      ColumnPaymentType,
	"items":        ColumnItems,
	"item":         ColumnItems,
	"total":        ColumnTotal,
	"totalspend":   ColumnTotal,
	"total_spend":  ColumnTotal,
}

// DataReader handles reading Excel and CSV transaction files
type DataReader struct {
	filePath string
	source   io.Reader
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader for a file on disk, inferring the format
// from the extension.
func NewDataReader(filePath string) *DataReader {
	return &DataReader{filePath: filePath, fileType: fileTypeFor(filePath)}
}

// NewUploadReader creates a reader for an uploaded stream. The filename is
// only used to infer the format.
func NewUploadReader(filename string, source io.Reader) *DataReader {
	return &DataReader{source: source, fileType: fileTypeFor(filename)}
}

func fileTypeFor(name string) string {
	if strings.ToLower(filepath.Ext(name)) == ".csv" {
		return "csv"
	}
	return "xlsx"
}

// ReadRecords reads the dataset into ordered Records, one per data row.
// It fails with a LOAD_ERROR when the file is not tabular or a required
// column is absent; malformed numeric cells become missing values instead.
func (r *DataReader) ReadRecords() ([]market.Record, error) {
	log.Printf("[DataReader] Starting to read %s dataset", r.fileType)

	rows, err := r.readRows()
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, errors.LoadError("dataset must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

func (r *DataReader) readRows() ([][]string, error) {
	switch r.fileType {
	case "csv":
		return r.readCSVRows()
	case "xlsx":
		return r.readExcelRows()
	default:
		return nil, errors.LoadError(fmt.Sprintf("unsupported file type: %s", r.fileType))
	}
}

// readExcelRows reads Sheet1 of an Excel workbook into raw string rows
func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()

	var f *excelize.File
	var err error
	if r.source != nil {
		f, err = excelize.OpenReader(r.source)
	} else {
		f, err = excelize.OpenFile(r.filePath)
	}
	if err != nil {
		return nil, errors.LoadErrorWrap("failed to open Excel file", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, errors.LoadErrorWrap("failed to read Sheet1", err)
	}
	log.Printf("[DataReader] Excel sheet read in %.2fms (%d rows)",
		float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return rows, nil
}

// readCSVRows reads a CSV file into raw string rows
func (r *DataReader) readCSVRows() ([][]string, error) {
	source := r.source
	if source == nil {
		file, err := os.Open(r.filePath)
		if err != nil {
			return nil, errors.LoadErrorWrap("failed to open CSV file", err)
		}
		defer file.Close()
		source = file
	}

	startTime := time.Now()
	reader := csv.NewReader(source)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.LoadErrorWrap("failed to read CSV file", err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)",
		float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return rows, nil
}

// processRows resolves the header row against the required schema and
// converts each data row into a Record
func (r *DataReader) processRows(rows [][]string) ([]market.Record, error) {
	columnIndex, err := resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]market.Record, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		records = append(records, recordFromRow(rows[i], columnIndex))
	}

	log.Printf("[DataReader] %s dataset processed (%d rows)", strings.ToUpper(r.fileType), len(records))
	return records, nil
}

// resolveColumns maps each required column to its index in the header row
func resolveColumns(headerRow []string) (map[string]int, error) {
	columnIndex := make(map[string]int, len(requiredColumns))
	for i, header := range headerRow {
		normalized := strings.ToLower(strings.TrimSpace(header))
		normalized = strings.ReplaceAll(normalized, " ", "_")
		if canonical, ok := columnAliases[normalized]; ok {
			if _, taken := columnIndex[canonical]; !taken {
				columnIndex[canonical] = i
			}
		}
	}

	for _, required := range requiredColumns {
		if _, ok := columnIndex[required]; !ok {
			return nil, errors.LoadError(fmt.Sprintf("required column %q is missing", required))
		}
	}
	return columnIndex, nil
}

func recordFromRow(row []string, columnIndex map[string]int) market.Record {
	cell := func(column string) string {
		idx := columnIndex[column]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	return market.Record{
		Customer:    cell(ColumnCustomer),
		Age:         parseAge(cell(ColumnAge)),
		City:        cell(ColumnCity),
		PaymentType: cell(ColumnPaymentType),
		Items:       cell(ColumnItems),
		Total:       parseTotal(cell(ColumnTotal)),
	}
}

// parseAge accepts integer cells and integral floats (Excel often renders
// "23" as "23.0"); anything else is a missing value
func parseAge(raw string) *int {
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value != math.Trunc(value) {
		return nil
	}
	age := int(value)
	return &age
}

func parseTotal(raw string) *float64 {
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}
