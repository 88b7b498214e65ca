package poster

import "time"

// PosterConfig is the snapshot of one poster as edited and queued.
type PosterConfig struct {
	ID                 string       `json:"id"`
	ProductID          string       `json:"productId"`
	ProductName        string       `json:"productName"`
	Price              float64      `json:"price"`
	OldPrice           *float64     `json:"oldPrice,omitempty"`
	Unit               string       `json:"unit"`
	Description        string       `json:"description"`
	Campaign           CampaignType `json:"campaign"`
	Size               PaperSize    `json:"size"`
	Layout             LayoutConfig `json:"layout,omitempty"`
	BackgroundImageURL string       `json:"backgroundImageUrl,omitempty"`
	PriceBgURL         string       `json:"priceBgUrl,omitempty"`
	LogoURL            string       `json:"logoUrl,omitempty"`
	TemplateID         string       `json:"templateId,omitempty"`
	CreatedAt          time.Time    `json:"createdAt"`
}

// UsesTemplate reports whether the custom-template composition applies.
func (c PosterConfig) UsesTemplate() bool {
	return c.BackgroundImageURL != ""
}

// Template is a reusable background plus layout bundle.
type Template struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	BaseImageURL string       `json:"baseImageUrl"`
	PriceBgURL   string       `json:"priceBgUrl,omitempty"`
	LogoURL      string       `json:"logoUrl,omitempty"`
	Layout       LayoutConfig `json:"layout"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// ApplyTemplate copies the template's assets and layout into cfg. The poster
// keeps its own copies, so later template edits or deletion do not reach it.
func ApplyTemplate(cfg PosterConfig, tpl Template) PosterConfig {
	cfg.TemplateID = tpl.ID
	cfg.Campaign = CampaignCustom
	cfg.BackgroundImageURL = tpl.BaseImageURL
	cfg.PriceBgURL = tpl.PriceBgURL
	cfg.LogoURL = tpl.LogoURL
	cfg.Layout = tpl.Layout.Clone()
	return cfg
}

type PrintQueueItem struct {
	PosterConfig
	Quantity int `json:"quantity"`
}
