// Package services holds the business logic between the HTTP handlers and
// the store/AI clients: prompt construction, the post generation pipeline,
// image hosting and finalize notifications.
package services

import (
	"fmt"
	"strings"

	"social-studio-backend/models"
)

// BuildPostPrompt renders the full instruction for the text model: every
// client profile and design-guide field, the requested topics and visual
// style, and the strict JSON-array output contract. Pure and deterministic;
// customPrompt is appended as an extra instruction block when non-empty.
func BuildPostPrompt(client models.ClientProfile, visualStyle string, topicTitles []string, numberOfPosts int, customPrompt string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are a professional social media content and design assistant.

Your job is to create **%d social media posts** (captions and layout plans) based on the client details below.

---

### CLIENT INFORMATION
- Name: %s
- Focus / Industry: %s
- Services: %s
- Description: %s
- Audience: %s
- Writing Style: %s
- Tagline: %s
- Call To Actions: %s
- Caption Ending: %s
- Writing Samples: %s
- Contact Info: %s
- Website: %s
- Number: %s
- Mail: %s
- Logo URLs: %s

---

### DESIGN INFORMATION
- Brand Colors: %s
- Typography: %s
- Design Style: %s
- Image Mood: %s
- Dos & Don'ts: %s
- Reference Links: %s
- Asset Notes: %s
- Format Preferences: %s
- Design Checkpoints: %s
- Visual Style: %s
- Topics: [%s]
`,
		numberOfPosts,
		client.ClientName,
		client.Focus,
		client.Services,
		client.BusinessDescription,
		client.Audience,
		client.WritingInstructions,
		client.Tagline,
		strings.Join(client.CallToActions, ", "),
		client.CaptionEnding,
		strings.Join(client.WritingSamples, ", "),
		client.ContactInfo,
		client.Website,
		client.Number,
		client.Mail,
		strings.Join(client.LogoURLs, ", "),
		strings.Join(client.DesignGuide.BrandColors, ", "),
		client.DesignGuide.Typography,
		client.DesignGuide.DesignStyle,
		client.DesignGuide.ImageMood,
		client.DesignGuide.DosDonts,
		strings.Join(client.DesignGuide.ReferenceLinks, ", "),
		client.DesignGuide.AssetNotes,
		strings.Join(client.DesignGuide.FormatPreferences, ", "),
		client.DesignGuide.DesignCheckpoints,
		visualStyle,
		strings.Join(topicTitles, ", "),
	)

	if strings.TrimSpace(customPrompt) != "" {
		fmt.Fprintf(&b, "\n---\n\n### ADDITIONAL CLIENT INSTRUCTIONS\n%s\n", strings.TrimSpace(customPrompt))
	}

	fmt.Fprintf(&b, `
---

### IMPORTANT INSTRUCTIONS
- Respond **STRICTLY in JSON format**.
- Return an **array of exactly %d objects**.
- Do NOT include any extra text, explanation, or notes outside the JSON array.
- Each object MUST strictly follow the template below:

[
{
  "caption": "Short caption suitable for Instagram",
  "hashtags": ["#brand", "#service", "#city"],
  "image_prompt": "Image generation prompt for design model",
  "layout_notes": "How the text and visuals should be placed"
}
]

- Each object in the array should be **unique** and suitable for posting independently.
`, numberOfPosts)

	return b.String()
}
