package extract

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

const maxPromptDescription = 1500

// visionSystemMsg frames every vision call.
const visionSystemMsg = `You are an expert appraiser of used bicycles on German classifieds sites.
You look at listing screenshots and photos and answer strictly in JSON.`

// describeTmpl asks for an independent description of the bike.
const describeTmpl = `Identify the bicycle shown in the attached listing images.
Use the listing text only as context; trust the photos where they disagree.
If the listing is not a complete bicycle (a frame only, parts, clothing,
a motorbike, a children's bike) set "is_bicycle" to false and give the
reason in "rejection_reason".

Title: {{.Title}}
Asking price: {{if .Price}}{{.Price}} EUR{{else}}unknown{{end}}
Details: {{.Facts}}
Description: {{.Description}}

Respond ONLY with a JSON object matching this schema. Use null when unsure.
{
  "is_bicycle": boolean,
  "rejection_reason": string | null,
  "brand": string | null,
  "model": string | null,
  "year": integer | null,
  "material": "carbon" | "aluminum" | "steel" | "titanium" | "other" | null,
  "frame_size": string | null (e.g. "L", "M/L", "52cm", "19\""),
  "wheel_size": "29" | "27.5" | "26" | "mullet" | "700c" | null,
  "category": "xc" | "trail" | "enduro" | "dh" | "emtb" | "road" | "gravel" | "other" | null,
  "price": integer | null,
  "confidence_score": integer (0-100)
}`

// conditionTmpl asks for a visual condition grade.
const conditionTmpl = `Grade the visual condition of the bicycle in the attached images.
Look for scratches, dents, cracks, rust, worn drivetrain and missing parts.

Description: {{.Description}}
Technical details: {{.Facts}}

Grades: A = like new, B = normal wear, C = visible wear or minor defects,
D = damaged or needs significant work.

Respond ONLY with a JSON object matching this schema.
{
  "score": number (0-10, 10 is perfect),
  "grade": "A" | "B" | "C" | "D",
  "penalty": number (0-1, share of value lost to condition),
  "reasons": [string],
  "defects": [string],
  "positives": [string],
  "needs_review": boolean
}`

var (
	describeTemplate  = template.Must(template.New("describe").Parse(describeTmpl))
	conditionTemplate = template.Must(template.New("condition").Parse(conditionTmpl))
)

// PromptData holds the values rendered into prompts.
type PromptData struct {
	Title       string
	Description string
	Price       int
	Facts       string
}

// RenderDescribePrompt renders the vision description prompt.
func RenderDescribePrompt(lc ListingContext) (string, error) {
	var buf bytes.Buffer
	data := PromptData{
		Title:       lc.Title,
		Description: truncate(lc.Description, maxPromptDescription),
		Price:       lc.Price,
		Facts:       formatFacts(lc.Facts),
	}
	if err := describeTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering describe prompt: %w", err)
	}
	return buf.String(), nil
}

// RenderConditionPrompt renders the condition grading prompt.
func RenderConditionPrompt(description string, techSpecs map[string]string) (string, error) {
	var buf bytes.Buffer
	data := PromptData{
		Description: truncate(description, maxPromptDescription),
		Facts:       formatFacts(techSpecs),
	}
	if err := conditionTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering condition prompt: %w", err)
	}
	return buf.String(), nil
}

func formatFacts(facts map[string]string) string {
	if len(facts) == 0 {
		return "N/A"
	}

	keys := make([]string, 0, len(facts))
	for k := range facts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+facts[k])
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
