package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shadysedhom/mair-assignment/pkg/errors"
)

// Row is one raw catalog record. Missing fields are empty strings; rows are
// not validated for completeness.
type Row struct {
	Name       string `db:"restaurantname"`
	Pricerange string `db:"pricerange"`
	Area       string `db:"area"`
	Food       string `db:"food"`
	Phone      string `db:"phone"`
	Address    string `db:"addr"`
	Postcode   string `db:"postcode"`
}

// Reader supplies catalog rows from some source.
type Reader interface {
	Read(ctx context.Context) ([]Row, error)
}

// Load reads all rows from r and builds a catalog with New.
func Load(ctx context.Context, r Reader, opts ...Option) (*Catalog, error) {
	rows, err := r.Read(ctx)
	if err != nil {
		return nil, err
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	return New(rows, o.rng), nil
}

// CSVReader reads rows from a CSV file with a header line.
type CSVReader struct {
	path string
}

func NewCSVReader(path string) *CSVReader {
	return &CSVReader{path: path}
}

func (r *CSVReader) Read(_ context.Context) ([]Row, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return nil, errors.NewCatalogError("failed to open catalog file", r.path, err)
	}
	defer file.Close()

	rows, err := ParseCSV(file)
	if err != nil {
		return nil, errors.NewCatalogError("failed to parse catalog file", r.path, err)
	}
	return rows, nil
}

// ParseCSV maps header-named columns onto rows. Unknown columns are ignored
// and absent ones stay empty.
func ParseCSV(in io.Reader) ([]Row, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return []Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rows := make([]Row, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record %d: %w", len(rows)+1, err)
		}
		rows = append(rows, Row{
			Name:       field(record, "restaurantname"),
			Pricerange: field(record, "pricerange"),
			Area:       field(record, "area"),
			Food:       field(record, "food"),
			Phone:      field(record, "phone"),
			Address:    field(record, "addr"),
			Postcode:   field(record, "postcode"),
		})
	}
	return rows, nil
}
