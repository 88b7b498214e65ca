package poster

type PaperOption struct {
	Size PaperSize `json:"size"`
	Dimensions
	Label       string `json:"label"`
	AspectRatio string `json:"aspectRatio"`
}

type CampaignOption struct {
	Type  CampaignType  `json:"type"`
	Style CampaignStyle `json:"style"`
}

// Catalog is what the editor needs to build its pickers: the paper sizes,
// campaign styles, element keys and the layout a fresh poster starts from.
type Catalog struct {
	Papers        []PaperOption    `json:"papers"`
	Campaigns     []CampaignOption `json:"campaigns"`
	Elements      []ElementKey     `json:"elements"`
	DefaultLayout LayoutConfig     `json:"defaultLayout"`
}

func EditorCatalog() Catalog {
	catalog := Catalog{
		Elements:      ElementKeys(),
		DefaultLayout: DefaultLayout(),
	}
	for _, size := range PaperSizes() {
		dims, ok := Lookup(size)
		if !ok {
			continue
		}
		catalog.Papers = append(catalog.Papers, PaperOption{
			Size:        size,
			Dimensions:  dims,
			Label:       dims.Label(),
			AspectRatio: dims.AspectRatio(),
		})
	}
	for _, campaign := range CampaignTypes() {
		catalog.Campaigns = append(catalog.Campaigns, CampaignOption{Type: campaign, Style: StyleOf(campaign)})
	}
	return catalog
}
