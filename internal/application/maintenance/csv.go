package maintenance

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/dehaep/Project-SupzG/internal/domain"
)

// Columnas reconocidas en el encabezado del CSV de items. Solo name es obligatoria.
const (
	colName        = "name"
	colDescription = "description"
	colStock       = "stock"
	colPrice       = "price"
	colCategory    = "category"
	colLocation    = "location"
)

// ItemRow fila válida del CSV. Line es el número de línea en el archivo (1 = encabezado).
type ItemRow struct {
	Line        int
	Name        string
	Description string
	Stock       int
	Price       decimal.Decimal
	Category    string
	Location    string
}

// RowError error asociado a una línea del archivo.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string { return fmt.Sprintf("línea %d: %v", e.Line, e.Err) }

// Decoder devuelve el decodificador para el nombre de encoding (utf-8, latin1, windows1252).
func Decoder(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM.NewDecoder(), nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "windows1252", "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	}
	return nil, fmt.Errorf("%w: encoding %q no soportado", domain.ErrInvalidInput, name)
}

// ReadItemsCSV decodifica r a UTF-8 y parsea las filas. Las filas inválidas se devuelven
// como RowError; un encabezado inválido o un error de lectura aborta.
func ReadItemsCSV(r io.Reader, enc string) ([]ItemRow, []RowError, error) {
	dec, err := Decoder(enc)
	if err != nil {
		return nil, nil, err
	}
	cr := csv.NewReader(transform.NewReader(r, dec))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("leer encabezado: %w", err)
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := idx[colName]; !ok {
		return nil, nil, fmt.Errorf("%w: falta la columna %q", domain.ErrInvalidInput, colName)
	}

	var (
		rows    []ItemRow
		rowErrs []RowError
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				rowErrs = append(rowErrs, RowError{Line: perr.Line, Err: perr.Err})
				continue
			}
			return nil, nil, err
		}
		line, _ := cr.FieldPos(0)
		row, err := parseItemRow(rec, idx)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: err})
			continue
		}
		row.Line = line
		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}

func parseItemRow(rec []string, idx map[string]int) (ItemRow, error) {
	field := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	row := ItemRow{
		Name:        field(colName),
		Description: field(colDescription),
		Category:    field(colCategory),
		Location:    field(colLocation),
	}
	if row.Name == "" {
		return row, fmt.Errorf("%w: name vacío", domain.ErrInvalidInput)
	}
	if s := field(colStock); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return row, fmt.Errorf("%w: stock %q inválido", domain.ErrInvalidInput, s)
		}
		row.Stock = n
	}
	if s := field(colPrice); s != "" {
		// admite coma decimal de hojas de cálculo en español
		p, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
		if err != nil || p.IsNegative() {
			return row, fmt.Errorf("%w: price %q inválido", domain.ErrInvalidInput, s)
		}
		row.Price = p
	}
	return row, nil
}
