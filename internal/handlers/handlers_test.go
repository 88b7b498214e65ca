package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/revinhocontact-cloud/rxcartcart/internal/authorization"
	"github.com/revinhocontact-cloud/rxcartcart/internal/constants"
	"github.com/revinhocontact-cloud/rxcartcart/internal/models"
	"github.com/revinhocontact-cloud/rxcartcart/internal/poster"
	"github.com/revinhocontact-cloud/rxcartcart/internal/service"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/validator"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Init()
	os.Exit(m.Run())
}

func newTestRouter(userID uint, plan authorization.Plan) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set(constants.ContextUserID, userID)
			c.Set(constants.ContextPlan, plan)
		}
		c.Next()
	})
	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %s", rec.Body.String())
	}
	msg, _ := body["error"].(string)
	return msg
}

type stubData struct {
	lastUser uint
	lastType string
}

func (s *stubData) List(_ context.Context, userID uint, docType string) ([]service.Document, error) {
	s.lastUser, s.lastType = userID, docType
	return []service.Document{{"id": "1", "name": "Arroz"}}, nil
}

func (s *stubData) Create(_ context.Context, userID uint, body service.Document) (service.Document, error) {
	if _, ok := body["type"]; !ok {
		return nil, service.ErrDocumentType
	}
	return service.Document{"id": "new", "name": body["name"]}, nil
}

func (s *stubData) Update(_ context.Context, userID uint, id string, body service.Document) (service.Document, error) {
	return nil, service.ErrDocumentNotFound
}

func (s *stubData) Delete(_ context.Context, userID uint, id string) error {
	return errors.New("connection reset")
}

func TestDataHandler(t *testing.T) {
	data := &stubData{}
	h := NewDataHandler(data)
	router := newTestRouter(7, authorization.PlanFree)
	router.GET("/data", h.List)
	router.POST("/data", h.Create)
	router.PUT("/data/:id", h.Update)
	router.DELETE("/data/:id", h.Delete)

	if rec := doJSON(router, http.MethodGet, "/data", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without type, got %d", rec.Code)
	}
	if rec := doJSON(router, http.MethodGet, "/data?type=product", nil); rec.Code != http.StatusOK || data.lastUser != 7 || data.lastType != "product" {
		t.Fatalf("unexpected list call: code=%d user=%d type=%q", rec.Code, data.lastUser, data.lastType)
	}
	if rec := doJSON(router, http.MethodPost, "/data", map[string]string{"name": "Arroz"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing type, got %d", rec.Code)
	}
	if rec := doJSON(router, http.MethodPost, "/data", map[string]string{"type": "product", "name": "Arroz"}); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if rec := doJSON(router, http.MethodPut, "/data/x", map[string]string{"name": "Feijão"}); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign document, got %d", rec.Code)
	}

	rec := doJSON(router, http.MethodDelete, "/data/x", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); strings.Contains(msg, "connection") {
		t.Fatalf("internal errors must not leak, got %q", msg)
	}
}

type stubAuth struct{}

func (stubAuth) Register(req models.RegisterRequest) (*models.User, error) {
	if req.Email == "taken@example.com" {
		return nil, service.ErrUserExists
	}
	return &models.User{ID: 1, Name: req.Name, Email: req.Email, Role: authorization.RoleCustomer}, nil
}

func (stubAuth) Login(req models.LoginRequest) (string, *models.User, error) {
	switch req.Email {
	case "blocked@example.com":
		return "", nil, service.ErrAccountDisabled
	case "loja@example.com":
		if req.Password == "segredo" {
			return "signed-token", &models.User{ID: 1, Email: req.Email}, nil
		}
	}
	return "", nil, service.ErrInvalidCredentials
}

func (stubAuth) ParseToken(string) (*service.Claims, error) {
	return nil, service.ErrInvalidToken
}

func TestAuthHandler(t *testing.T) {
	h := NewAuthHandler(stubAuth{})
	router := newTestRouter(0, "")
	router.POST("/auth/register", h.Register)
	router.POST("/auth/login", h.Login)

	register := func(email string) int {
		return doJSON(router, http.MethodPost, "/auth/register", map[string]string{
			"name": "Loja", "email": email, "password": "segredo",
		}).Code
	}
	if code := register("nova@example.com"); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	if code := register("taken@example.com"); code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", code)
	}
	if code := register("not-an-email"); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid email, got %d", code)
	}

	rec := doJSON(router, http.MethodPost, "/auth/login", map[string]string{"email": "loja@example.com", "password": "segredo"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), constants.AuthTokenCookieName+"=signed-token") {
		t.Fatalf("expected auth cookie, got %q", rec.Header().Get("Set-Cookie"))
	}

	if rec := doJSON(router, http.MethodPost, "/auth/login", map[string]string{"email": "loja@example.com", "password": "errada"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if rec := doJSON(router, http.MethodPost, "/auth/login", map[string]string{"email": "blocked@example.com", "password": "x"}); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for disabled account, got %d", rec.Code)
	}
}

type stubProducts struct {
	imported string
}

func (s *stubProducts) Search(_ context.Context, _ uint, query string) ([]models.Product, error) {
	return []models.Product{{ID: "1", Name: "Arroz " + query}}, nil
}

func (s *stubProducts) Create(_ context.Context, _ uint, req models.ProductRequest) (*models.Product, error) {
	return &models.Product{ID: "1", Name: req.Name, Price: req.Price}, nil
}

func (s *stubProducts) Update(_ context.Context, _ uint, id string, req models.ProductRequest) (*models.Product, error) {
	return nil, service.ErrProductNotFound
}

func (s *stubProducts) Delete(context.Context, uint, string) error { return nil }

func (s *stubProducts) ExportCSV(_ context.Context, _ uint, w io.Writer) (int, error) {
	_, err := io.WriteString(w, "Nome,Codigo,Preco,Unidade,Categoria,Descricao\nArroz,1,\"10,50\",UN,Geral,\n")
	return 1, err
}

func (s *stubProducts) ImportCSV(_ context.Context, _ uint, r io.Reader) (models.ImportResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return models.ImportResult{}, err
	}
	s.imported = string(raw)
	return models.ImportResult{Imported: 1}, nil
}

func TestProductHandlerCSV(t *testing.T) {
	products := &stubProducts{}
	h := NewProductHandler(products, 64)
	router := newTestRouter(1, authorization.PlanPro)
	router.GET("/products/export", h.Export)
	router.POST("/products/import", h.Import)
	router.POST("/products", h.Create)

	rec := doJSON(router, http.MethodGet, "/products/export", nil)
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("unexpected export response %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "attachment") {
		t.Fatalf("export must be an attachment")
	}

	upload := func(content string) *httptest.ResponseRecorder {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile("file", "produtos.csv")
		part.Write([]byte(content))
		writer.Close()
		req := httptest.NewRequest(http.MethodPost, "/products/import", body)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	if rec := upload("Nome;Codigo;Preco\nArroz;1;10,50"); rec.Code != http.StatusOK || products.imported != "Nome;Codigo;Preco\nArroz;1;10,50" {
		t.Fatalf("unexpected import: %d %q", rec.Code, products.imported)
	}
	if rec := upload(strings.Repeat("x", 65)); rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 for oversized import, got %d", rec.Code)
	}

	if rec := doJSON(router, http.MethodPost, "/products", map[string]interface{}{"price": 3}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without name, got %d", rec.Code)
	}
}

type stubQueue struct {
	items    []poster.PrintQueueItem
	selected []string
}

func (s *stubQueue) Add(context.Context, uint, models.PosterRequest) (*poster.PrintQueueItem, error) {
	return nil, service.ErrInvalidPoster
}

func (s *stubQueue) List(context.Context, uint) ([]poster.PrintQueueItem, error) {
	return s.items, nil
}

func (s *stubQueue) Remove(context.Context, uint, string) error { return service.ErrQueueItemNotFound }

func (s *stubQueue) Clear(context.Context, uint) (int64, error) { return int64(len(s.items)), nil }

func (s *stubQueue) Select(_ context.Context, _ uint, ids []string) ([]poster.PrintQueueItem, error) {
	s.selected = ids
	if len(ids) == 0 {
		return s.items, nil
	}
	var out []poster.PrintQueueItem
	for _, item := range s.items {
		for _, id := range ids {
			if item.ID == id {
				out = append(out, item)
			}
		}
	}
	return out, nil
}

func (s *stubQueue) Print(ctx context.Context, userID uint, ids []string) ([]poster.PrintQueueItem, error) {
	items, _ := s.Select(ctx, userID, ids)
	if len(items) == 0 {
		return nil, service.ErrNothingToPrint
	}
	return items, nil
}

func (s *stubQueue) History(context.Context, uint) ([]poster.PosterConfig, error) {
	return []poster.PosterConfig{}, nil
}

type stubPosters struct {
	viewer service.Viewer
	zoom   float64
}

func (s *stubPosters) PreviewHTML(_ context.Context, viewer service.Viewer, req models.PosterRequest, zoom float64) ([]byte, error) {
	s.viewer, s.zoom = viewer, zoom
	return []byte("<html>" + req.ProductName + "</html>"), nil
}

func (s *stubPosters) SheetHTML(_ context.Context, viewer service.Viewer, items []poster.PrintQueueItem) ([]byte, error) {
	s.viewer = viewer
	return []byte("<html>sheet</html>"), nil
}

func (s *stubPosters) SheetPDF(context.Context, service.Viewer, []poster.PrintQueueItem) ([]byte, error) {
	return nil, service.ErrPDFDisabled
}

func TestPosterHandler(t *testing.T) {
	posters := &stubPosters{}
	queue := &stubQueue{items: []poster.PrintQueueItem{
		{PosterConfig: poster.PosterConfig{ID: "a"}, Quantity: 1},
		{PosterConfig: poster.PosterConfig{ID: "b"}, Quantity: 1},
	}}
	h := NewPosterHandler(posters, queue)
	router := newTestRouter(3, authorization.PlanPro)
	router.GET("/posters/catalog", h.Catalog)
	router.POST("/posters/preview", h.Preview)
	router.GET("/print", h.PrintSheet)
	router.GET("/print/pdf", h.PrintPDF)

	catalogRec := doJSON(router, http.MethodGet, "/posters/catalog", nil)
	var catalog poster.Catalog
	if catalogRec.Code != http.StatusOK {
		t.Fatalf("expected catalog 200, got %d", catalogRec.Code)
	}
	if err := json.Unmarshal(catalogRec.Body.Bytes(), &catalog); err != nil || len(catalog.Papers) == 0 || len(catalog.Campaigns) == 0 {
		t.Fatalf("unexpected catalog %s (%v)", catalogRec.Body.String(), err)
	}

	req := map[string]interface{}{"productName": "Arroz", "price": 10.5, "campaign": "OFFER", "size": "A4"}
	rec := doJSON(router, http.MethodPost, "/posters/preview?zoom=0.5", req)
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("unexpected preview response %d %q: %s", rec.Code, rec.Header().Get("Content-Type"), rec.Body.String())
	}
	if posters.zoom != 0.5 || posters.viewer.UserID != 3 || posters.viewer.Plan != authorization.PlanPro {
		t.Fatalf("unexpected preview call zoom=%v viewer=%+v", posters.zoom, posters.viewer)
	}
	for _, zoom := range []string{"big", "NaN", "Inf", "-1", "0", "4.5"} {
		posters.zoom = 0
		if rec := doJSON(router, http.MethodPost, "/posters/preview?zoom="+zoom, req); rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for zoom %q, got %d", zoom, rec.Code)
		}
		if posters.zoom != 0 {
			t.Fatalf("zoom %q reached the renderer", zoom)
		}
	}

	layoutReq := map[string]interface{}{"productName": "Arroz", "price": 10.5, "campaign": "OFFER", "size": "A4",
		"layout": map[string]interface{}{"price": map[string]interface{}{"x": 5, "y": 2}}}
	if rec := doJSON(router, http.MethodPost, "/posters/preview", layoutReq); rec.Code != http.StatusOK {
		t.Fatalf("expected layout without scale to be accepted, got %d: %s", rec.Code, rec.Body.String())
	}
	layoutReq["layout"] = map[string]interface{}{"price": map[string]interface{}{"x": 5, "scale": -1}}
	if rec := doJSON(router, http.MethodPost, "/posters/preview", layoutReq); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative scale, got %d", rec.Code)
	}

	if rec := doJSON(router, http.MethodGet, "/print?ids=a,%20b,,", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Join(queue.selected, "|") != "a|b" {
		t.Fatalf("unexpected id parsing %q", queue.selected)
	}
	if rec := doJSON(router, http.MethodGet, "/print?ids=zzz", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty selection, got %d", rec.Code)
	}
	if rec := doJSON(router, http.MethodGet, "/print/pdf", nil); rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501 when PDF export is disabled, got %d", rec.Code)
	}
}

func TestQueueHandler(t *testing.T) {
	queue := &stubQueue{items: []poster.PrintQueueItem{{PosterConfig: poster.PosterConfig{ID: "a"}, Quantity: 1}}}
	h := NewQueueHandler(queue)
	router := newTestRouter(3, authorization.PlanFree)
	router.DELETE("/queue/:id", h.Remove)
	router.POST("/queue/print", h.MarkPrinted)

	if rec := doJSON(router, http.MethodDelete, "/queue/missing", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := doJSON(router, http.MethodPost, "/queue/print", map[string]interface{}{"ids": []string{}}); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty ids, got %d", rec.Code)
	}
	if rec := doJSON(router, http.MethodPost, "/queue/print", map[string]interface{}{"ids": []string{"a"}}); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCurrentViewerDefaultsToFreePlan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(constants.ContextUserID, uint(9))

	if viewer := currentViewer(c); viewer.UserID != 9 || viewer.Plan != authorization.PlanFree {
		t.Fatalf("unexpected viewer %+v", viewer)
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{service.ErrUserExists, http.StatusConflict},
		{service.ErrCannotDemoteMe, http.StatusForbidden},
		{service.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{service.ErrFileTypeInvalid, http.StatusBadRequest},
		{service.ErrNothingToPrint, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := errorStatus(tt.err); got != tt.status {
			t.Fatalf("%v: expected %d, got %d", tt.err, tt.status, got)
		}
	}
}
