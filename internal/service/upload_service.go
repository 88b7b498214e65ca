package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/revinhocontact-cloud/rxcartcart/internal/background"
	"github.com/revinhocontact-cloud/rxcartcart/internal/models"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/logger"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/storage"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/utils"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/validator"
)

const (
	thumbnailSize    = 300
	thumbnailQuality = 80
	imagePrefix      = "images"
	thumbnailPrefix  = "thumbnails"
)

var (
	ErrFileRequired    = errors.New("image file is required")
	ErrFileTooLarge    = errors.New("file size exceeds maximum allowed size")
	ErrFileTypeInvalid = errors.New("file type not allowed")
)

// JobScheduler runs work after the request returns.
type JobScheduler interface {
	Schedule(job background.Job) error
}

type UploadService struct {
	store     storage.Store
	maxSize   int64
	scheduler JobScheduler
}

func NewUploadService(store storage.Store, maxSize int64) *UploadService {
	if maxSize <= 0 {
		maxSize = 10 * 1024 * 1024
	}
	return &UploadService{store: store, maxSize: maxSize}
}

// WithScheduler makes thumbnails render in the background. Without one
// they are produced before UploadImage returns.
func (s *UploadService) WithScheduler(scheduler JobScheduler) *UploadService {
	s.scheduler = scheduler
	return s
}

// UploadImage stores a poster image and its JPEG thumbnail.
func (s *UploadService) UploadImage(ctx context.Context, file *multipart.FileHeader) (*models.UploadResult, error) {
	if file == nil {
		return nil, ErrFileRequired
	}
	if !validator.ValidateFileSize(file.Size, s.maxSize) {
		return nil, ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !validator.ValidateImageExtension(file.Filename) {
		return nil, ErrFileTypeInvalid
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, s.maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.maxSize {
		return nil, ErrFileTooLarge
	}

	contentType := validator.DetectImageType(data)
	if contentType == "" {
		return nil, ErrFileTypeInvalid
	}

	name, err := s.generateName(ctx, file.Filename)
	if err != nil {
		return nil, err
	}
	imageKey := path.Join(imagePrefix, name+ext)
	thumbKey := path.Join(thumbnailPrefix, name+".jpg")

	imageURL, err := s.store.Put(ctx, imageKey, bytes.NewReader(data), contentType)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	result := &models.UploadResult{
		ImageURL:     imageURL,
		ThumbnailURL: imageURL,
		Filename:     path.Base(imageKey),
		Size:         int64(len(data)),
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		logger.FromContext(ctx).WithError(err).WithField("key", imageKey).Warn("Thumbnail not generated")
		return result, nil
	}

	if s.scheduler != nil {
		err := s.scheduler.Schedule(background.Job{
			Name:        "thumbnail:" + thumbKey,
			Timeout:     30 * time.Second,
			RetryPolicy: background.RetryPolicy{MaxRetries: 2, Backoff: time.Second},
			Run: func(jobCtx context.Context) error {
				_, err := s.storeThumbnail(jobCtx, thumbKey, img)
				return err
			},
		})
		if err == nil {
			result.ThumbnailURL = s.store.URL(thumbKey)
			return result, nil
		}
		logger.FromContext(ctx).WithError(err).Warn("Thumbnail job not scheduled, rendering inline")
	}

	thumbURL, err := s.storeThumbnail(ctx, thumbKey, img)
	if err != nil {
		logger.FromContext(ctx).WithError(err).WithField("key", imageKey).Warn("Thumbnail not generated")
		return result, nil
	}
	result.ThumbnailURL = thumbURL
	return result, nil
}

// DeleteImage removes an image and its thumbnail by the file name that
// UploadImage returned.
func (s *UploadService) DeleteImage(ctx context.Context, filename string) error {
	filename = path.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == "/" {
		return storage.ErrInvalidKey
	}
	if err := s.store.Delete(ctx, path.Join(imagePrefix, filename)); err != nil {
		return err
	}
	thumbName := strings.TrimSuffix(filename, path.Ext(filename)) + ".jpg"
	return s.store.Delete(ctx, path.Join(thumbnailPrefix, thumbName))
}

// storeThumbnail writes a JPEG of img fitted into the thumbnail box. Only
// decoded images reach it, so a scheduled job can fail on storage alone.
func (s *UploadService) storeThumbnail(ctx context.Context, key string, img image.Image) (string, error) {
	thumb := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(thumbnailQuality)); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	return s.store.Put(ctx, key, bytes.NewReader(buf.Bytes()), "image/jpeg")
}

// generateName slugs the original file name and appends a short random
// suffix until the key is free.
func (s *UploadService) generateName(ctx context.Context, originalName string) (string, error) {
	base := utils.GenerateSlug(strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName)))
	if base == "" {
		base = "imagem"
	}
	ext := strings.ToLower(filepath.Ext(originalName))

	for i := 0; i < 5; i++ {
		candidate := fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
		exists, err := s.store.Exists(ctx, path.Join(imagePrefix, candidate+ext))
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return uuid.NewString(), nil
}
