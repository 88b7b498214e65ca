package repository

import (
	"errors"

	"github.com/revinhocontact-cloud/rxcartcart/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DataRepository stores the per-user JSON documents of app_data. Every
// read and write is scoped to the owning user.
type DataRepository interface {
	List(userID uint, docType string) ([]models.AppData, error)
	Get(userID uint, id string) (*models.AppData, error)
	Create(doc *models.AppData) error
	CreateBatch(docs []models.AppData) error
	UpdateContent(userID uint, id string, content datatypes.JSON) (*models.AppData, error)
	Delete(userID uint, id string) error
	DeleteByType(userID uint, docType string) (int64, error)
	GetLatestByType(docType string) (*models.AppData, error)
	SaveSingleton(userID uint, docType string, content datatypes.JSON) (*models.AppData, error)
}

type dataRepository struct {
	db *gorm.DB
}

func NewDataRepository(db *gorm.DB) DataRepository {
	return &dataRepository{db: db}
}

func (r *dataRepository) List(userID uint, docType string) ([]models.AppData, error) {
	var docs []models.AppData
	err := r.db.Where("user_id = ? AND type = ?", userID, docType).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *dataRepository) Get(userID uint, id string) (*models.AppData, error) {
	var doc models.AppData
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&doc).Error
	return &doc, err
}

func (r *dataRepository) Create(doc *models.AppData) error {
	return r.db.Create(doc).Error
}

func (r *dataRepository) CreateBatch(docs []models.AppData) error {
	if len(docs) == 0 {
		return nil
	}
	return r.db.CreateInBatches(docs, 100).Error
}

// UpdateContent replaces the content of one owned document. It returns
// gorm.ErrRecordNotFound when the document does not exist for userID.
func (r *dataRepository) UpdateContent(userID uint, id string, content datatypes.JSON) (*models.AppData, error) {
	result := r.db.Model(&models.AppData{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("content", content)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.Get(userID, id)
}

func (r *dataRepository) Delete(userID uint, id string) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.AppData{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *dataRepository) DeleteByType(userID uint, docType string) (int64, error) {
	result := r.db.Where("user_id = ? AND type = ?", userID, docType).Delete(&models.AppData{})
	return result.RowsAffected, result.Error
}

// GetLatestByType reads a site-wide document regardless of owner.
func (r *dataRepository) GetLatestByType(docType string) (*models.AppData, error) {
	var doc models.AppData
	err := r.db.Where("type = ?", docType).Order("updated_at DESC").First(&doc).Error
	return &doc, err
}

// SaveSingleton keeps exactly one document of docType: the newest is
// updated in place, or a new one is created for userID.
func (r *dataRepository) SaveSingleton(userID uint, docType string, content datatypes.JSON) (*models.AppData, error) {
	var saved models.AppData
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.AppData
		err := tx.Where("type = ?", docType).Order("updated_at DESC").First(&existing).Error
		switch {
		case err == nil:
			existing.Content = content
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			saved = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			saved = models.AppData{UserID: userID, Type: docType, Content: content}
			return tx.Create(&saved).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}
