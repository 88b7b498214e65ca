package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/revinhocontact-cloud/rxcartcart/internal/models"
	"github.com/revinhocontact-cloud/rxcartcart/internal/repository"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/cache"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/logger"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrDocumentType     = errors.New("type is required")
)

// Document is the flattened view of one app_data row: its content fields
// plus id and createdAt.
type Document map[string]interface{}

// Fields owned by the server. They are never stored inside content.
var reservedFields = []string{"id", "type", "createdAt"}

type DataService struct {
	repo  repository.DataRepository
	cache *cache.Cache
}

func NewDataService(repo repository.DataRepository, cacheService *cache.Cache) *DataService {
	return &DataService{repo: repo, cache: cacheService}
}

// List returns the user's documents of docType, newest first. The database
// is authoritative; when it fails, the last cached list is served instead.
func (s *DataService) List(ctx context.Context, userID uint, docType string) ([]Document, error) {
	docType = strings.TrimSpace(docType)
	if docType == "" {
		return nil, ErrDocumentType
	}

	rows, err := s.repo.List(userID, docType)
	if err != nil {
		var cached []Document
		if cacheErr := s.cache.GetCachedDocuments(ctx, userID, docType, &cached); cacheErr == nil {
			logger.FromContext(ctx).WithError(err).WithField("type", docType).Warn("Serving cached documents after database failure")
			return cached, nil
		}
		return nil, fmt.Errorf("list %s documents: %w", docType, err)
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := flatten(row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err := s.cache.CacheDocuments(ctx, userID, docType, docs); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("Failed to cache documents")
	}
	return docs, nil
}

// Get returns one owned document. A non-empty docType must also match.
func (s *DataService) Get(ctx context.Context, userID uint, id, docType string) (Document, error) {
	row, err := s.getRow(userID, id, docType)
	if err != nil {
		return nil, err
	}
	return flatten(*row)
}

// Create stores body as a new document. body must carry a "type" field.
func (s *DataService) Create(ctx context.Context, userID uint, body Document) (Document, error) {
	docType, _ := body["type"].(string)
	docType = strings.TrimSpace(docType)
	if docType == "" {
		return nil, ErrDocumentType
	}
	return s.Insert(ctx, userID, docType, body)
}

// Insert stores value, any JSON-encodable object, as a document of docType.
func (s *DataService) Insert(ctx context.Context, userID uint, docType string, value interface{}) (Document, error) {
	content, err := contentOf(value)
	if err != nil {
		return nil, err
	}

	row := &models.AppData{UserID: userID, Type: docType, Content: content}
	if err := s.repo.Create(row); err != nil {
		return nil, fmt.Errorf("create %s document: %w", docType, err)
	}

	s.invalidate(ctx, userID, docType)
	return flatten(*row)
}

// InsertMany stores values as documents of docType in one batch.
func (s *DataService) InsertMany(ctx context.Context, userID uint, docType string, values []interface{}) ([]Document, error) {
	if len(values) == 0 {
		return []Document{}, nil
	}

	rows := make([]models.AppData, 0, len(values))
	for _, value := range values {
		content, err := contentOf(value)
		if err != nil {
			return nil, err
		}
		rows = append(rows, models.AppData{UserID: userID, Type: docType, Content: content})
	}

	if err := s.repo.CreateBatch(rows); err != nil {
		return nil, fmt.Errorf("create %s documents: %w", docType, err)
	}
	s.invalidate(ctx, userID, docType)

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := flatten(row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Update replaces the content of an owned document with body.
func (s *DataService) Update(ctx context.Context, userID uint, id string, body Document) (Document, error) {
	return s.Replace(ctx, userID, id, "", body)
}

// Replace is Update restricted to documents of docType when it is set.
func (s *DataService) Replace(ctx context.Context, userID uint, id, docType string, value interface{}) (Document, error) {
	current, err := s.getRow(userID, id, docType)
	if err != nil {
		return nil, err
	}

	content, err := contentOf(value)
	if err != nil {
		return nil, err
	}

	row, err := s.repo.UpdateContent(userID, id, content)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("update document: %w", err)
	}

	s.invalidate(ctx, userID, current.Type)
	return flatten(*row)
}

func (s *DataService) Delete(ctx context.Context, userID uint, id string) error {
	return s.Remove(ctx, userID, id, "")
}

// Remove is Delete restricted to documents of docType when it is set.
func (s *DataService) Remove(ctx context.Context, userID uint, id, docType string) error {
	current, err := s.getRow(userID, id, docType)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("delete document: %w", err)
	}

	s.invalidate(ctx, userID, current.Type)
	return nil
}

// Clear deletes every document of docType the user owns.
func (s *DataService) Clear(ctx context.Context, userID uint, docType string) (int64, error) {
	removed, err := s.repo.DeleteByType(userID, docType)
	if err != nil {
		return 0, fmt.Errorf("clear %s documents: %w", docType, err)
	}
	s.invalidate(ctx, userID, docType)
	return removed, nil
}

func (s *DataService) getRow(userID uint, id, docType string) (*models.AppData, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrDocumentNotFound
	}

	row, err := s.repo.Get(userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	if docType != "" && row.Type != docType {
		return nil, ErrDocumentNotFound
	}
	return row, nil
}

func (s *DataService) invalidate(ctx context.Context, userID uint, docType string) {
	if err := s.cache.InvalidateDocuments(ctx, userID, docType); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("Failed to invalidate document cache")
	}
}

func flatten(row models.AppData) (Document, error) {
	doc := Document{}
	if len(row.Content) > 0 {
		if err := json.Unmarshal(row.Content, &doc); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", row.ID, err)
		}
	}
	doc["id"] = row.ID
	doc["createdAt"] = row.CreatedAt.UTC().Format(time.RFC3339Nano)
	return doc, nil
}

// contentOf encodes value as a JSON object without the reserved fields.
func contentOf(value interface{}) (datatypes.JSON, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("document must be a JSON object: %w", err)
	}
	for _, key := range reservedFields {
		delete(fields, key)
	}

	content, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return datatypes.JSON(content), nil
}

// decodeDocuments converts flattened documents into typed values, e.g.
// []models.Product.
func decodeDocuments(docs []Document, dest interface{}) error {
	raw, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func decodeDocument(doc Document, dest interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
