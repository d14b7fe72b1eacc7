package models

// DesignGuide captures the brand design rules embedded into every image
// prompt for a client.
type DesignGuide struct {
	BrandColors       []string `json:"brand_colors"`
	Typography        string   `json:"typography"`
	DesignStyle       string   `json:"design_style"`
	ImageMood         string   `json:"image_mood"`
	DosDonts          string   `json:"dos_donts"`
	ReferenceLinks    []string `json:"reference_links"`
	AssetNotes        string   `json:"asset_notes"`
	FormatPreferences []string `json:"format_preferences"`
	DesignCheckpoints string   `json:"design_checkpoints"`
}

// ClientProfile is the full brand profile for a client. The registry CSV only
// carries the summary columns; the whole profile lives in the per-client
// profile.json document.
type ClientProfile struct {
	ClientID            string      `json:"client_id"`
	ClientName          string      `json:"client_name" binding:"required,min=2,max=100"`
	Focus               string      `json:"focus"`
	Services            string      `json:"services"`
	BusinessDescription string      `json:"business_description"`
	Audience            string      `json:"audience"`
	WritingInstructions string      `json:"writing_instructions"`
	Tagline             string      `json:"tagline"`
	CallToActions       []string    `json:"call_to_actions"`
	CaptionEnding       string      `json:"caption_ending"`
	WritingSamples      []string    `json:"writing_samples"`
	ContactInfo         string      `json:"contact_info"`
	Website             string      `json:"website"`
	Number              string      `json:"number"`
	Mail                string      `json:"mail"`
	DesignGuide         DesignGuide `json:"design_guide"`
	LogoURLs            []string    `json:"logo_urls"`
}

// ClientRecord is one row of the client registry CSV.
type ClientRecord struct {
	ID       string   `json:"client_id"`
	Name     string   `json:"client_name"`
	Tagline  string   `json:"tagline"`
	Focus    string   `json:"focus"`
	LogoURLs []string `json:"logo_urls"`
}

type UpdateClientDataRequest struct {
	ClientID string         `json:"client_id" binding:"required"`
	Data     map[string]any `json:"data" binding:"required"`
}

type RemoveClientFieldRequest struct {
	ClientID  string `json:"client_id" binding:"required"`
	FieldName string `json:"field_name" binding:"required"`
}
