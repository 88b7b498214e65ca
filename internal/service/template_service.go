package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/revinhocontact-cloud/rxcartcart/internal/models"
	"github.com/revinhocontact-cloud/rxcartcart/internal/poster"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/validator"
)

var ErrTemplateNotFound = errors.New("template not found")

// TemplateService keeps the user's reusable poster templates. Posters copy
// a template when it is applied, so deleting one never touches them.
type TemplateService struct {
	data *DataService
}

func NewTemplateService(data *DataService) *TemplateService {
	return &TemplateService{data: data}
}

func (s *TemplateService) List(ctx context.Context, userID uint) ([]poster.Template, error) {
	docs, err := s.data.List(ctx, userID, models.DataTypeTemplate)
	if err != nil {
		return nil, err
	}
	templates := []poster.Template{}
	if err := decodeDocuments(docs, &templates); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}
	return templates, nil
}

func (s *TemplateService) Get(ctx context.Context, userID uint, id string) (*poster.Template, error) {
	doc, err := s.data.Get(ctx, userID, id, models.DataTypeTemplate)
	if err != nil {
		if errors.Is(err, ErrDocumentNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return templateFrom(doc)
}

func (s *TemplateService) Create(ctx context.Context, userID uint, req models.TemplateRequest) (*poster.Template, error) {
	tpl := poster.Template{
		Name:         validator.SanitizeString(req.Name),
		BaseImageURL: strings.TrimSpace(req.BaseImageURL),
		PriceBgURL:   strings.TrimSpace(req.PriceBgURL),
		LogoURL:      strings.TrimSpace(req.LogoURL),
		Layout:       LayoutFromRequest(req.Layout),
	}

	doc, err := s.data.Insert(ctx, userID, models.DataTypeTemplate, tpl)
	if err != nil {
		return nil, err
	}
	return templateFrom(doc)
}

func (s *TemplateService) Delete(ctx context.Context, userID uint, id string) error {
	err := s.data.Remove(ctx, userID, id, models.DataTypeTemplate)
	if errors.Is(err, ErrDocumentNotFound) {
		return ErrTemplateNotFound
	}
	return err
}

func templateFrom(doc Document) (*poster.Template, error) {
	var tpl poster.Template
	if err := decodeDocument(doc, &tpl); err != nil {
		return nil, fmt.Errorf("decode template: %w", err)
	}
	return &tpl, nil
}

// LayoutFromRequest converts validated request layouts into the poster
// layout model. Unknown keys are dropped and an omitted scale means 1.
func LayoutFromRequest(req map[string]models.ElementLayoutRequest) poster.LayoutConfig {
	if len(req) == 0 {
		return nil
	}
	layout := make(poster.LayoutConfig, len(req))
	for key, el := range req {
		elementKey := poster.ElementKey(key)
		if !elementKey.IsValid() {
			continue
		}
		scale := el.Scale
		if scale == 0 {
			scale = 1
		}
		layout[elementKey] = poster.ElementLayout{
			X:       el.X,
			Y:       el.Y,
			Scale:   scale,
			Color:   strings.TrimSpace(el.Color),
			Visible: el.Visible,
		}
	}
	return layout
}
