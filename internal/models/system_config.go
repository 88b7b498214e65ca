package models

type ThemeSettings struct {
	Preset         string `json:"preset" binding:"required,max=32"`
	PrimaryColor   string `json:"primaryColor" binding:"required,hexcolor"`
	SecondaryColor string `json:"secondaryColor" binding:"required,hexcolor"`
	Mode           string `json:"mode" binding:"required,oneof=dark light"`
	Font           string `json:"font" binding:"required,max=64"`
}

type PlanDetails struct {
	Name   string  `json:"name" binding:"required,max=64"`
	Price  float64 `json:"price" binding:"gte=0"`
	Limit  int     `json:"limit" binding:"gte=0"`
	Active bool    `json:"active"`
}

type PlanSettings struct {
	Free       PlanDetails `json:"free"`
	Pro        PlanDetails `json:"pro"`
	Enterprise PlanDetails `json:"enterprise"`
}

type SiteInfo struct {
	Name        string  `json:"name" binding:"required,max=120"`
	Description string  `json:"description" binding:"max=500"`
	LogoMain    *string `json:"logoMain"`
	LogoSmall   *string `json:"logoSmall"`
	WhatsApp    string  `json:"whatsapp" binding:"max=30"`
	Email       string  `json:"email" binding:"omitempty,email"`
}

// SystemConfig is the site-wide theme, plan catalogue and branding.
type SystemConfig struct {
	Theme ThemeSettings `json:"theme"`
	Plans PlanSettings  `json:"plans"`
	Site  SiteInfo      `json:"site"`
}

func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		Theme: ThemeSettings{
			Preset:         "standard",
			PrimaryColor:   "#7C3AED",
			SecondaryColor: "#1E293B",
			Mode:           "dark",
			Font:           "Inter",
		},
		Plans: PlanSettings{
			Free:       PlanDetails{Name: "Básico", Price: 49, Limit: 100, Active: true},
			Pro:        PlanDetails{Name: "Pro", Price: 99, Limit: 9999, Active: true},
			Enterprise: PlanDetails{Name: "Enterprise", Price: 199, Limit: 9999, Active: true},
		},
		Site: SiteInfo{
			Name:        "RexCart",
			Description: "Sistema de cartazes",
		},
	}
}
