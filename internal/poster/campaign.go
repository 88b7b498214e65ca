package poster

type CampaignType string

const (
	CampaignNormal    CampaignType = "NORMAL"
	CampaignOffer     CampaignType = "OFFER"
	CampaignClearance CampaignType = "CLEARANCE"
	CampaignCustom    CampaignType = "CUSTOM"
)

// CampaignStyle holds the colour roles of a campaign as hex values.
type CampaignStyle struct {
	Background string `json:"background"`
	Text       string `json:"text"`
	Border     string `json:"border"`
	Accent     string `json:"accent"`
	Label      string `json:"label"`
}

var campaignStyles = map[CampaignType]CampaignStyle{
	CampaignNormal: {
		Background: "#FFFFFF",
		Text:       "#0F172A",
		Border:     "#E2E8F0",
		Accent:     "#2563EB",
		Label:      "Preço Normal",
	},
	CampaignOffer: {
		Background: "#FACC15",
		Text:       "#B91C1C",
		Border:     "#EAB308",
		Accent:     "#DC2626",
		Label:      "APROVEITE",
	},
	CampaignClearance: {
		Background: "#DC2626",
		Text:       "#FFFFFF",
		Border:     "#B91C1C",
		Accent:     "#FACC15",
		Label:      "SALDÃO",
	},
}

func CampaignTypes() []CampaignType {
	return []CampaignType{CampaignNormal, CampaignOffer, CampaignClearance, CampaignCustom}
}

func (c CampaignType) IsValid() bool {
	switch c {
	case CampaignNormal, CampaignOffer, CampaignClearance, CampaignCustom:
		return true
	default:
		return false
	}
}

// StyleOf never fails: CUSTOM and unknown values fall back to the normal
// colours so callers always get a usable style.
func StyleOf(campaign CampaignType) CampaignStyle {
	if style, ok := campaignStyles[campaign]; ok {
		return style
	}
	style := campaignStyles[CampaignNormal]
	style.Label = "Personalizado"
	return style
}
