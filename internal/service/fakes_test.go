package service

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/revinhocontact-cloud/rxcartcart/internal/models"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/cache"
)

var errDatabaseDown = errors.New("database unavailable")

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetAll() ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, *user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	return users, nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) Count() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

// fakeDataRepo keeps app_data rows in memory. Each write advances a fake
// clock so ordering by creation time is deterministic.
type fakeDataRepo struct {
	mu       sync.Mutex
	docs     map[string]models.AppData
	clock    time.Time
	failList bool
}

func newFakeDataRepo() *fakeDataRepo {
	return &fakeDataRepo{
		docs:  make(map[string]models.AppData),
		clock: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (r *fakeDataRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *fakeDataRepo) List(userID uint, docType string) ([]models.AppData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failList {
		return nil, errDatabaseDown
	}
	var docs []models.AppData
	for _, doc := range r.docs {
		if doc.UserID == userID && doc.Type == docType {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.After(docs[j].CreatedAt) })
	return docs, nil
}

func (r *fakeDataRepo) Get(userID uint, id string) (*models.AppData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok || doc.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return &doc, nil
}

func (r *fakeDataRepo) Create(doc *models.AppData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insert(doc)
	return nil
}

func (r *fakeDataRepo) insert(doc *models.AppData) {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := r.tick()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	r.docs[doc.ID] = *doc
}

func (r *fakeDataRepo) CreateBatch(docs []models.AppData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range docs {
		r.insert(&docs[i])
	}
	return nil
}

func (r *fakeDataRepo) UpdateContent(userID uint, id string, content datatypes.JSON) (*models.AppData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok || doc.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	doc.Content = content
	doc.UpdatedAt = r.tick()
	r.docs[id] = doc
	return &doc, nil
}

func (r *fakeDataRepo) Delete(userID uint, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok || doc.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *fakeDataRepo) DeleteByType(userID uint, docType string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, doc := range r.docs {
		if doc.UserID == userID && doc.Type == docType {
			delete(r.docs, id)
			removed++
		}
	}
	return removed, nil
}

func (r *fakeDataRepo) GetLatestByType(docType string) (*models.AppData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.AppData
	for _, doc := range r.docs {
		if doc.Type != docType {
			continue
		}
		if latest == nil || doc.UpdatedAt.After(latest.UpdatedAt) {
			copied := doc
			latest = &copied
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (r *fakeDataRepo) SaveSingleton(userID uint, docType string, content datatypes.JSON) (*models.AppData, error) {
	existing, err := r.GetLatestByType(docType)
	if err == nil {
		return r.UpdateContent(existing.UserID, existing.ID, content)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	doc := models.AppData{UserID: userID, Type: docType, Content: content}
	r.insert(&doc)
	return &doc, nil
}

func (r *fakeDataRepo) count(docType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, doc := range r.docs {
		if doc.Type == docType {
			n++
		}
	}
	return n
}

func disabledCache() *cache.Cache {
	c, _ := cache.NewCache("", false)
	return c
}

func newTestDataService() (*DataService, *fakeDataRepo) {
	repo := newFakeDataRepo()
	return NewDataService(repo, disabledCache()), repo
}
