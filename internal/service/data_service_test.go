package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestCreateRequiresType(t *testing.T) {
	svc, _ := newTestDataService()

	if _, err := svc.Create(context.Background(), 1, Document{"name": "Arroz"}); !errors.Is(err, ErrDocumentType) {
		t.Fatalf("expected ErrDocumentType, got %v", err)
	}
	if _, err := svc.Create(context.Background(), 1, Document{"type": "  "}); !errors.Is(err, ErrDocumentType) {
		t.Fatalf("expected ErrDocumentType for blank type, got %v", err)
	}
}

func TestCreateStripsServerFields(t *testing.T) {
	svc, repo := newTestDataService()
	ctx := context.Background()

	doc, err := svc.Create(ctx, 1, Document{
		"type":      "product",
		"id":        "client-id",
		"createdAt": "yesterday",
		"name":      "Arroz 5kg",
		"price":     25.9,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	id, _ := doc["id"].(string)
	if id == "" || id == "client-id" {
		t.Fatalf("expected server generated id, got %q", id)
	}
	if doc["name"] != "Arroz 5kg" || doc["price"] != 25.9 {
		t.Fatalf("unexpected flattened document %v", doc)
	}
	if _, ok := doc["type"]; ok {
		t.Fatalf("type must not be part of the flattened document: %v", doc)
	}

	var stored map[string]interface{}
	if err := json.Unmarshal(repo.docs[id].Content, &stored); err != nil {
		t.Fatalf("decode stored content: %v", err)
	}
	for _, key := range []string{"id", "type", "createdAt"} {
		if _, ok := stored[key]; ok {
			t.Fatalf("stored content must not contain %q: %v", key, stored)
		}
	}
	if repo.docs[id].Type != "product" {
		t.Fatalf("expected type column product, got %q", repo.docs[id].Type)
	}
}

func TestListIsScopedAndNewestFirst(t *testing.T) {
	svc, _ := newTestDataService()
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		if _, err := svc.Create(ctx, 1, Document{"type": "product", "name": name}); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}
	if _, err := svc.Create(ctx, 2, Document{"type": "product", "name": "other user"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := svc.Create(ctx, 1, Document{"type": "template", "name": "other type"}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	docs, err := svc.List(ctx, 1, "product")
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	if docs[0]["name"] != "third" || docs[2]["name"] != "first" {
		t.Fatalf("expected newest first, got %v", docs)
	}
	if _, err := svc.List(ctx, 1, ""); !errors.Is(err, ErrDocumentType) {
		t.Fatalf("expected ErrDocumentType for missing type, got %v", err)
	}
}

func TestUpdateAndDeleteRequireOwnership(t *testing.T) {
	svc, _ := newTestDataService()
	ctx := context.Background()

	doc, err := svc.Create(ctx, 1, Document{"type": "product", "name": "Arroz"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	id := doc["id"].(string)

	if _, err := svc.Update(ctx, 2, id, Document{"name": "stolen"}); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound for foreign update, got %v", err)
	}
	if err := svc.Delete(ctx, 2, id); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound for foreign delete, got %v", err)
	}

	updated, err := svc.Update(ctx, 1, id, Document{"name": "Arroz Tipo 1", "id": "ignored"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated["id"] != id || updated["name"] != "Arroz Tipo 1" {
		t.Fatalf("unexpected updated document %v", updated)
	}

	if err := svc.Delete(ctx, 1, id); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(ctx, 1, id); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound on second delete, got %v", err)
	}
}

func TestListReportsDatabaseFailureWithoutCachedCopy(t *testing.T) {
	svc, repo := newTestDataService()
	repo.failList = true

	if _, err := svc.List(context.Background(), 1, "product"); !errors.Is(err, errDatabaseDown) {
		t.Fatalf("expected database error, got %v", err)
	}
}

func TestCreateRejectsNonObjectBody(t *testing.T) {
	svc, _ := newTestDataService()

	if _, err := svc.Insert(context.Background(), 1, "product", []string{"a"}); err == nil {
		t.Fatalf("expected error for non-object content")
	}
}
