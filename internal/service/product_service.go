package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/revinhocontact-cloud/rxcartcart/internal/models"
	"github.com/revinhocontact-cloud/rxcartcart/internal/poster"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/logger"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/validator"
)

const (
	defaultUnit     = "UN"
	defaultCategory = "Geral"
)

var csvHeader = []string{"Nome", "Codigo", "Preco", "Unidade", "Categoria", "Descricao"}

var ErrProductNotFound = errors.New("product not found")

type ProductService struct {
	data *DataService
}

func NewProductService(data *DataService) *ProductService {
	return &ProductService{data: data}
}

func (s *ProductService) List(ctx context.Context, userID uint) ([]models.Product, error) {
	docs, err := s.data.List(ctx, userID, models.DataTypeProduct)
	if err != nil {
		return nil, err
	}
	products := []models.Product{}
	if err := decodeDocuments(docs, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// Search matches query against product names and codes, ignoring case.
// An empty query returns every product.
func (s *ProductService) Search(ctx context.Context, userID uint, query string) ([]models.Product, error) {
	products, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return products, nil
	}

	matches := make([]models.Product, 0, len(products))
	for _, product := range products {
		if strings.Contains(strings.ToLower(product.Name), query) ||
			strings.Contains(strings.ToLower(product.Code), query) {
			matches = append(matches, product)
		}
	}
	return matches, nil
}

func (s *ProductService) Create(ctx context.Context, userID uint, req models.ProductRequest) (*models.Product, error) {
	product := newProduct(req)
	doc, err := s.data.Insert(ctx, userID, models.DataTypeProduct, product)
	if err != nil {
		return nil, err
	}
	return productFrom(doc)
}

func (s *ProductService) Update(ctx context.Context, userID uint, id string, req models.ProductRequest) (*models.Product, error) {
	product := newProduct(req)
	doc, err := s.data.Replace(ctx, userID, id, models.DataTypeProduct, product)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return productFrom(doc)
}

func (s *ProductService) Delete(ctx context.Context, userID uint, id string) error {
	err := s.data.Remove(ctx, userID, id, models.DataTypeProduct)
	if errors.Is(err, ErrDocumentNotFound) {
		return ErrProductNotFound
	}
	return err
}

// ExportCSV writes the catalog as a spreadsheet with prices in the
// Brazilian format, e.g. 25,90.
func (s *ProductService) ExportCSV(ctx context.Context, userID uint, w io.Writer) (int, error) {
	products, err := s.List(ctx, userID)
	if err != nil {
		return 0, err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("write csv: %w", err)
	}
	for _, p := range products {
		record := []string{p.Name, p.Code, poster.FormatPrice(p.Price), p.Unit, p.Category, p.Description}
		if err := writer.Write(record); err != nil {
			return 0, fmt.Errorf("write csv: %w", err)
		}
	}
	writer.Flush()
	return len(products), writer.Error()
}

// ImportCSV reads a spreadsheet in the export layout. The first line is a
// header. Columns are positional: name, code, price, unit, category and
// description; only the first three are required. The separator is ";"
// when the header line contains one, "," otherwise.
func (s *ProductService) ImportCSV(ctx context.Context, userID uint, r io.Reader) (models.ImportResult, error) {
	var result models.ImportResult

	raw, err := io.ReadAll(r)
	if err != nil {
		return result, fmt.Errorf("read csv: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = ','
	headerLine := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		headerLine = raw[:i]
	}
	if bytes.IndexByte(headerLine, ';') >= 0 {
		reader.Comma = ';'
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	products := make([]interface{}, 0)
	header := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				result.Skipped++
				continue
			}
			return result, fmt.Errorf("read csv: %w", err)
		}
		if header {
			header = false
			continue
		}
		if isBlankRecord(record) {
			continue
		}

		product, ok := productFromRecord(record)
		if !ok {
			result.Skipped++
			continue
		}
		products = append(products, product)
	}

	if _, err := s.data.InsertMany(ctx, userID, models.DataTypeProduct, products); err != nil {
		return result, err
	}
	result.Imported = len(products)

	logger.FromContext(ctx).WithFields(map[string]interface{}{
		"imported": result.Imported,
		"skipped":  result.Skipped,
	}).Info("Products imported")
	return result, nil
}

func productFromRecord(record []string) (models.Product, bool) {
	if len(record) < 3 {
		return models.Product{}, false
	}

	column := func(i int) string {
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	name := validator.SanitizeString(column(0))
	if name == "" {
		return models.Product{}, false
	}
	price, ok := poster.ParsePrice(column(2))
	if !ok {
		return models.Product{}, false
	}

	return newProduct(models.ProductRequest{
		Name:        name,
		Code:        column(1),
		Price:       price,
		Unit:        column(3),
		Category:    column(4),
		Description: column(5),
	}), true
}

func newProduct(req models.ProductRequest) models.Product {
	unit := strings.ToUpper(strings.TrimSpace(req.Unit))
	if unit == "" {
		unit = defaultUnit
	}
	category := validator.SanitizeString(req.Category)
	if category == "" {
		category = defaultCategory
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		code = generateProductCode()
	}

	return models.Product{
		Code:        code,
		Name:        validator.SanitizeString(req.Name),
		Price:       req.Price,
		OldPrice:    req.OldPrice,
		Unit:        unit,
		Description: validator.SanitizeString(req.Description),
		Category:    category,
		Image:       strings.TrimSpace(req.Image),
	}
}

func productFrom(doc Document) (*models.Product, error) {
	var product models.Product
	if err := decodeDocument(doc, &product); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	return &product, nil
}

func generateProductCode() string {
	return strconv.Itoa(rand.IntN(100000))
}

func isBlankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
