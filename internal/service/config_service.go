package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/revinhocontact-cloud/rxcartcart/internal/models"
	"github.com/revinhocontact-cloud/rxcartcart/internal/poster"
	"github.com/revinhocontact-cloud/rxcartcart/internal/repository"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/cache"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/logger"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/utils"
	"github.com/revinhocontact-cloud/rxcartcart/pkg/validator"
)

var ErrInvalidConfig = errors.New("invalid system configuration")

// ConfigService owns the site-wide theme, plans and branding. It holds the
// current value in memory; Init must run before the first Current call
// returns anything but the defaults.
type ConfigService struct {
	repo  repository.DataRepository
	cache *cache.Cache

	mu      sync.RWMutex
	current models.SystemConfig
}

func NewConfigService(repo repository.DataRepository, cacheService *cache.Cache) *ConfigService {
	return &ConfigService{
		repo:    repo,
		cache:   cacheService,
		current: models.DefaultSystemConfig(),
	}
}

// Init resets to the defaults and then loads the stored configuration.
func (s *ConfigService) Init(ctx context.Context) error {
	s.mu.Lock()
	s.current = models.DefaultSystemConfig()
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Refresh reloads the stored configuration. A missing document keeps the
// current value.
func (s *ConfigService) Refresh(ctx context.Context) error {
	var cfg models.SystemConfig
	if err := s.cache.GetCachedSystemConfig(ctx, &cfg); err == nil {
		s.set(cfg)
		return nil
	}

	doc, err := s.repo.GetLatestByType(models.DataTypeConfig)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("load system config: %w", err)
	}

	cfg = models.DefaultSystemConfig()
	if err := json.Unmarshal(doc.Content, &cfg); err != nil {
		return fmt.Errorf("decode system config: %w", err)
	}
	s.set(cfg)

	if err := s.cache.CacheSystemConfig(ctx, cfg); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("Failed to cache system config")
	}
	return nil
}

func (s *ConfigService) Current() models.SystemConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update validates and persists cfg as the site configuration.
func (s *ConfigService) Update(ctx context.Context, userID uint, cfg models.SystemConfig) (models.SystemConfig, error) {
	cfg = normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return models.SystemConfig{}, err
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return models.SystemConfig{}, err
	}
	if _, err := s.repo.SaveSingleton(userID, models.DataTypeConfig, datatypes.JSON(raw)); err != nil {
		return models.SystemConfig{}, fmt.Errorf("save system config: %w", err)
	}

	s.set(cfg)
	if err := s.cache.InvalidateSystemConfig(ctx); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("Failed to invalidate system config cache")
	}

	logger.FromContext(ctx).WithField("site", cfg.Site.Name).Info("System configuration updated")
	return cfg, nil
}

// Preview returns the current configuration with theme swapped in. Nothing
// is stored.
func (s *ConfigService) Preview(theme models.ThemeSettings) (models.SystemConfig, error) {
	cfg := s.Current()
	cfg.Theme = theme
	cfg = normalizeConfig(cfg)
	if err := validateConfig(cfg); err != nil {
		return models.SystemConfig{}, err
	}
	return cfg, nil
}

// Brand is the part of the configuration printed on posters.
func (s *ConfigService) Brand() poster.Brand {
	brand := poster.DefaultBrand()
	if name := s.Current().Site.Name; name != "" {
		brand.Name = name
	}
	return brand
}

func (s *ConfigService) set(cfg models.SystemConfig) {
	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()
}

func normalizeConfig(cfg models.SystemConfig) models.SystemConfig {
	cfg.Site.Name = validator.SanitizeString(cfg.Site.Name)
	cfg.Site.Description = validator.SanitizeString(cfg.Site.Description)
	cfg.Plans.Free.Name = validator.SanitizeString(cfg.Plans.Free.Name)
	cfg.Plans.Pro.Name = validator.SanitizeString(cfg.Plans.Pro.Name)
	cfg.Plans.Enterprise.Name = validator.SanitizeString(cfg.Plans.Enterprise.Name)
	return cfg
}

func validateConfig(cfg models.SystemConfig) error {
	if !utils.IsHexColor(cfg.Theme.PrimaryColor) || !utils.IsHexColor(cfg.Theme.SecondaryColor) {
		return fmt.Errorf("%w: theme colours must be hex values", ErrInvalidConfig)
	}
	if cfg.Site.Name == "" {
		return fmt.Errorf("%w: site name is required", ErrInvalidConfig)
	}
	for _, plan := range []models.PlanDetails{cfg.Plans.Free, cfg.Plans.Pro, cfg.Plans.Enterprise} {
		if plan.Price < 0 || plan.Limit < 0 {
			return fmt.Errorf("%w: plan %q has a negative price or limit", ErrInvalidConfig, plan.Name)
		}
	}
	return nil
}
