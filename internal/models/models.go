package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/revinhocontact-cloud/rxcartcart/internal/authorization"
)

type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name         string                   `gorm:"not null" json:"name"`
	Email        string                   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string                   `gorm:"column:password_hash;not null" json:"-"`
	Role         authorization.UserRole   `gorm:"type:varchar(16);default:'CUSTOMER'" json:"role"`
	Plan         authorization.Plan       `gorm:"type:varchar(16);default:'FREE'" json:"plan"`
	Status       authorization.UserStatus `gorm:"type:varchar(16);default:'ACTIVE'" json:"status"`
	ValidUntil   time.Time                `json:"validUntil"`
	Usage        int                      `gorm:"default:0" json:"usage"`

	CPF     string `gorm:"column:cpf" json:"cpf,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// AppData is one user-owned document. Type discriminates the document kind
// and Content holds its fields as stored by the client.
type AppData struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index:idx_app_data_owner_type" json:"userId"`
	Type      string         `gorm:"type:varchar(32);not null;index:idx_app_data_owner_type" json:"type"`
	Content   datatypes.JSON `gorm:"type:jsonb;not null" json:"content"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (AppData) TableName() string {
	return "app_data"
}

func (d *AppData) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(d.ID) == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// Document types stored in app_data.
const (
	DataTypeProduct  = "product"
	DataTypeTemplate = "template"
	DataTypeQueue    = "queue"
	DataTypeHistory  = "history"
	DataTypeConfig   = "config"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	CPF      string `json:"cpf" binding:"omitempty,max=20"`
	Phone    string `json:"phone" binding:"omitempty,max=30"`
	Address  string `json:"address" binding:"omitempty,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type UpdateUserRequest struct {
	Name       *string      `json:"name" binding:"omitempty,min=2,max=120"`
	Role       *string      `json:"role" binding:"omitempty,role"`
	Plan       *string      `json:"plan" binding:"omitempty,plan"`
	Status     *string      `json:"status" binding:"omitempty,user_status"`
	ValidUntil OptionalTime `json:"validUntil"`
	Usage      *int         `json:"usage" binding:"omitempty,min=0"`
}

type Product struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	OldPrice    *float64  `json:"oldPrice,omitempty"`
	Unit        string    `json:"unit"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Image       string    `json:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ProductRequest struct {
	Code        string   `json:"code" binding:"omitempty,max=64"`
	Name        string   `json:"name" binding:"required,max=200"`
	Price       float64  `json:"price" binding:"gte=0"`
	OldPrice    *float64 `json:"oldPrice" binding:"omitempty,gte=0"`
	Unit        string   `json:"unit" binding:"omitempty,max=16"`
	Description string   `json:"description" binding:"omitempty,max=500"`
	Category    string   `json:"category" binding:"omitempty,max=100"`
	Image       string   `json:"image" binding:"omitempty,max=2048"`
}

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type ElementLayoutRequest struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Scale   float64 `json:"scale" binding:"omitempty,gt=0,lte=10"`
	Color   string  `json:"color" binding:"omitempty,hexcolor"`
	Visible *bool   `json:"visible"`
}

type TemplateRequest struct {
	Name         string                          `json:"name" binding:"required,max=120"`
	BaseImageURL string                          `json:"baseImageUrl" binding:"required,max=2048"`
	PriceBgURL   string                          `json:"priceBgUrl" binding:"omitempty,max=2048"`
	LogoURL      string                          `json:"logoUrl" binding:"omitempty,max=2048"`
	Layout       map[string]ElementLayoutRequest `json:"layout" binding:"omitempty,dive,keys,layout_key,endkeys"`
}

// PosterRequest is the editor's poster payload used for previews and queueing.
type PosterRequest struct {
	ProductID          string                          `json:"productId" binding:"max=64"`
	ProductName        string                          `json:"productName" binding:"required,max=200"`
	Price              float64                         `json:"price" binding:"gte=0"`
	OldPrice           *float64                        `json:"oldPrice" binding:"omitempty,gte=0"`
	Unit               string                          `json:"unit" binding:"max=16"`
	Description        string                          `json:"description" binding:"max=500"`
	Campaign           string                          `json:"campaign" binding:"required,campaign"`
	Size               string                          `json:"size" binding:"required,paper_size"`
	Layout             map[string]ElementLayoutRequest `json:"layout" binding:"omitempty,dive,keys,layout_key,endkeys"`
	BackgroundImageURL string                          `json:"backgroundImageUrl" binding:"max=2048"`
	PriceBgURL         string                          `json:"priceBgUrl" binding:"max=2048"`
	LogoURL            string                          `json:"logoUrl" binding:"max=2048"`
	TemplateID         string                          `json:"templateId" binding:"max=64"`
}

type PrintRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,required"`
}

type UploadResult struct {
	ImageURL     string `json:"imageUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Filename     string `json:"filename"`
	Size         int64  `json:"size"`
}
