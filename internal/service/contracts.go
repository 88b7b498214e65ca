package service

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/revinhocontact-cloud/rxcartcart/internal/models"
	"github.com/revinhocontact-cloud/rxcartcart/internal/poster"
)

type AuthUseCase interface {
	Register(models.RegisterRequest) (*models.User, error)
	Login(models.LoginRequest) (string, *models.User, error)
	ParseToken(string) (*Claims, error)
}

type UserUseCase interface {
	List() ([]models.User, error)
	Get(uint) (*models.User, error)
	Update(uint, uint, models.UpdateUserRequest) (*models.User, error)
	Delete(uint, uint) error
}

type DataUseCase interface {
	List(context.Context, uint, string) ([]Document, error)
	Create(context.Context, uint, Document) (Document, error)
	Update(context.Context, uint, string, Document) (Document, error)
	Delete(context.Context, uint, string) error
}

type ProductUseCase interface {
	Search(context.Context, uint, string) ([]models.Product, error)
	Create(context.Context, uint, models.ProductRequest) (*models.Product, error)
	Update(context.Context, uint, string, models.ProductRequest) (*models.Product, error)
	Delete(context.Context, uint, string) error
	ExportCSV(context.Context, uint, io.Writer) (int, error)
	ImportCSV(context.Context, uint, io.Reader) (models.ImportResult, error)
}

type TemplateUseCase interface {
	List(context.Context, uint) ([]poster.Template, error)
	Create(context.Context, uint, models.TemplateRequest) (*poster.Template, error)
	Delete(context.Context, uint, string) error
}

type QueueUseCase interface {
	Add(context.Context, uint, models.PosterRequest) (*poster.PrintQueueItem, error)
	List(context.Context, uint) ([]poster.PrintQueueItem, error)
	Remove(context.Context, uint, string) error
	Clear(context.Context, uint) (int64, error)
	Select(context.Context, uint, []string) ([]poster.PrintQueueItem, error)
	Print(context.Context, uint, []string) ([]poster.PrintQueueItem, error)
	History(context.Context, uint) ([]poster.PosterConfig, error)
}

type PosterUseCase interface {
	PreviewHTML(context.Context, Viewer, models.PosterRequest, float64) ([]byte, error)
	SheetHTML(context.Context, Viewer, []poster.PrintQueueItem) ([]byte, error)
	SheetPDF(context.Context, Viewer, []poster.PrintQueueItem) ([]byte, error)
}

type ConfigUseCase interface {
	Current() models.SystemConfig
	Update(context.Context, uint, models.SystemConfig) (models.SystemConfig, error)
	Preview(models.ThemeSettings) (models.SystemConfig, error)
}

type UploadUseCase interface {
	UploadImage(context.Context, *multipart.FileHeader) (*models.UploadResult, error)
	DeleteImage(context.Context, string) error
}
