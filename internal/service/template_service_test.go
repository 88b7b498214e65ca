package service

import (
	"context"
	"errors"
	"testing"

	"github.com/revinhocontact-cloud/rxcartcart/internal/models"
	"github.com/revinhocontact-cloud/rxcartcart/internal/poster"
)

func TestTemplateCreateGetDelete(t *testing.T) {
	data, _ := newTestDataService()
	svc := NewTemplateService(data)
	ctx := context.Background()

	tpl, err := svc.Create(ctx, 1, models.TemplateRequest{
		Name:         "  <b>Oferta</b> Semana ",
		BaseImageURL: " /uploads/base.png ",
		Layout: map[string]models.ElementLayoutRequest{
			"price":   {X: 10, Y: -5, Color: "#ff0000"},
			"unknown": {X: 1, Y: 1, Scale: 2},
		},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if tpl.ID == "" {
		t.Fatalf("expected generated id")
	}
	if tpl.Name != "Oferta Semana" || tpl.BaseImageURL != "/uploads/base.png" {
		t.Fatalf("unexpected template %+v", tpl)
	}
	if len(tpl.Layout) != 1 {
		t.Fatalf("expected unknown layout keys to be dropped, got %+v", tpl.Layout)
	}
	if price := tpl.Layout[poster.ElementPrice]; price.Scale != 1 || price.X != 10 {
		t.Fatalf("unexpected price layout %+v", price)
	}

	got, err := svc.Get(ctx, 1, tpl.ID)
	if err != nil || got.Name != tpl.Name {
		t.Fatalf("Get = %+v, %v", got, err)
	}

	if _, err := svc.Get(ctx, 2, tpl.ID); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected other users not to see the template, got %v", err)
	}

	if err := svc.Delete(ctx, 1, tpl.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(ctx, 1, tpl.ID); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}

	list, err := svc.List(ctx, 1)
	if err != nil || len(list) != 0 {
		t.Fatalf("List = %+v, %v", list, err)
	}
}

func TestLayoutFromRequest(t *testing.T) {
	if layout := LayoutFromRequest(nil); layout != nil {
		t.Fatalf("expected nil layout, got %+v", layout)
	}

	layout := LayoutFromRequest(map[string]models.ElementLayoutRequest{
		"logo":  {X: 4},
		"price": {Scale: 2.5},
	})
	if got := layout[poster.ElementLogo]; got.Scale != 1 || got.X != 4 {
		t.Fatalf("omitted scale should default to 1, got %+v", got)
	}
	if got := layout[poster.ElementPrice]; got.Scale != 2.5 {
		t.Fatalf("explicit scale changed: %+v", got)
	}
}
