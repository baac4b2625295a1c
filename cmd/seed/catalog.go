package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/tienda-pos/internal/application/dto"
)

// Columnas del CSV de catálogo (separador ';', primera fila = encabezado):
//
//	name;article;package;category;price;discount_price;stock_quantity;description
const catalogColumns = 8

// decodeReader envuelve r según la codificación del archivo exportado.
func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return r, nil
	case "cp1251", "windows-1251":
		return transform.NewReader(r, charmap.Windows1251.NewDecoder()), nil
	case "latin1", "iso-8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	}
	return nil, fmt.Errorf("codificación no soportada: %q", encoding)
}

// parseCatalog lee las filas del CSV. Los errores llevan el número de línea.
func parseCatalog(r io.Reader) ([]dto.CreateProductRequest, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = catalogColumns

	var out []dto.CreateProductRequest
	header := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if header {
			header = false
			continue
		}
		line, _ := cr.FieldPos(0)
		p, err := catalogRow(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func catalogRow(rec []string) (dto.CreateProductRequest, error) {
	price, err := decimal.NewFromString(normalizeDecimal(rec[4]))
	if err != nil {
		return dto.CreateProductRequest{}, fmt.Errorf("price %q: %w", rec[4], err)
	}
	p := dto.CreateProductRequest{
		Name:        strings.TrimSpace(rec[0]),
		Article:     strings.TrimSpace(rec[1]),
		Package:     strings.TrimSpace(rec[2]),
		Category:    strings.TrimSpace(rec[3]),
		Price:       price,
		Description: strings.TrimSpace(rec[7]),
	}
	if s := strings.TrimSpace(rec[5]); s != "" {
		discount, err := decimal.NewFromString(normalizeDecimal(s))
		if err != nil {
			return dto.CreateProductRequest{}, fmt.Errorf("discount_price %q: %w", s, err)
		}
		p.DiscountPrice = &discount
	}
	if s := strings.TrimSpace(rec[6]); s != "" {
		stock, err := strconv.Atoi(s)
		if err != nil {
			return dto.CreateProductRequest{}, fmt.Errorf("stock_quantity %q: %w", s, err)
		}
		p.StockQuantity = stock
	}
	return p, nil
}

// normalizeDecimal acepta coma decimal ("12,50").
func normalizeDecimal(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
}
