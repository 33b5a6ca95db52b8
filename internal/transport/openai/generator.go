package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/furnimatch/internal/domain"
	"github.com/kailas-cloud/furnimatch/internal/domain/catalog"
)

// Chat options of the catalog generator.
const (
	generatorTemperature = 0.9
	generatorMaxTokens   = 2000
	// EnvelopeKey is the object key a wrapped generated list lives under.
	EnvelopeKey = "product"
)

const sampleProduct = `{
    "id": "F9E8C1FA-AA0C-475B-8844-121364F14878",
    "sku": "SOF-MDN-CHR-001",
    "name": "Modern Charcoal Sectional Sofa",
    "description": "Spacious L-shaped sectional sofa with clean lines and plush cushioning, perfect for contemporary living spaces.",
    "category": "Seating",
    "subcategory": "Sectionals",
    "price": 1299.99,
    "style": ["modern", "contemporary"],
    "colors": {"primary": "charcoal gray", "secondary": "black", "all_colors": ["charcoal gray", "black"]},
    "materials": ["fabric", "hardwood frame"],
    "room_types": ["living room"],
    "features": ["reversible chaise", "removable cushions"],
    "tags": ["spacious", "family-friendly", "contemporary"]
}`

var systemPrompt = template.Must(template.New("system").Parse(
	`You are an expert furniture product catalog writer. Generate realistic, appealing furniture product descriptions.

Always return a valid JSON array of {{.Count}} products following the exact structure provided in examples.
Be creative but realistic with product details, descriptions, and specifications.
Ensure all generated products are unique and have diverse attributes.`))

var userPrompt = template.Must(template.New("user").Parse(
	`You are a furniture product catalog generator. Generate {{.Count}} unique, realistic furniture products in JSON format.

Follow the exact same structure as the examples provided below. Be creative with:
- Product names (descriptive and appealing)
- Detailed descriptions (highlight key features and benefits)
- Varied categories, subcategories, styles, colors, and materials
- Realistic pricing ($100-$3000 range)
- Appropriate features and tags for each product

Categories: Seating, Tables, Storage, Bedroom, Textiles, Lighting, Decor & Accessories
Styles: modern, contemporary, traditional, rustic, industrial, mid-century modern, scandinavian, bohemian, coastal, farmhouse, minimalist, vintage, glam

Here are example products to follow:

{{.Sample}}

Generate EXACTLY {{.Count}} NEW furniture product (not the examples above). Return ONLY a valid JSON with no additional text.
Product must have a unique id (use Guid), unique SKU, and be different from the examples.`))

type promptData struct {
	Count  int
	Sample string
}

// Generator produces synthetic catalog items through a chat completion model.
type Generator struct {
	client   *openai.Client
	model    string
	provider string
	logger   *zap.Logger
}

// NewGenerator creates a catalog generator. cfg.Model names the chat model
// (or any name when an Azure deployment is set).
func NewGenerator(cfg *Config) *Generator {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		client:   openai.NewClientWithConfig(clientConfig(cfg)),
		model:    cfg.Model,
		provider: cfg.Provider,
		logger:   logger,
	}
}

// Generate asks the model for count new items. An empty completion yields no items.
func (g *Generator) Generate(ctx context.Context, count int) ([]catalog.Item, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d: %w", count, domain.ErrInvalidInput)
	}
	data := promptData{Count: count, Sample: sampleProduct}
	system, err := render(systemPrompt, data)
	if err != nil {
		return nil, err
	}
	user, err := render(userPrompt, data)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   generatorMaxTokens,
		Temperature: generatorTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, parseAPIError(g.provider, err, domain.ErrGenerationFailed)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		g.logger.Warn("no products generated from completion")
		return nil, nil
	}

	items, err := ParseGenerated([]byte(resp.Choices[0].Message.Content))
	if err != nil {
		return nil, err
	}
	g.logger.Info("generated catalog items",
		zap.Int("count", len(items)),
		zap.Int("requested", count),
		zap.Duration("duration", time.Since(start)),
	)
	return items, nil
}

// ParseGenerated decodes a bare JSON list of items, or an object carrying the
// list under EnvelopeKey. A single object under EnvelopeKey is read as a list of one.
// Any other shape fails with domain.ErrGenerationParse.
func ParseGenerated(raw []byte) ([]catalog.Item, error) {
	var items []catalog.Item
	listErr := json.Unmarshal(raw, &items)
	if listErr == nil {
		return items, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationParse, listErr)
	}
	inner, ok := envelope[EnvelopeKey]
	if !ok {
		return nil, fmt.Errorf("%w: no %q key", domain.ErrGenerationParse, EnvelopeKey)
	}
	inner = bytes.TrimSpace(inner)
	if len(inner) > 0 && inner[0] == '{' {
		var one catalog.Item
		if err := json.Unmarshal(inner, &one); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrGenerationParse, err)
		}
		return []catalog.Item{one}, nil
	}
	if err := json.Unmarshal(inner, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationParse, err)
	}
	return items, nil
}

func render(t *template.Template, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.Name(), err)
	}
	return buf.String(), nil
}
