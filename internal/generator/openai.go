package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"go-travel-planner/internal/model"
)

const systemPrompt = `You are a travel planner. Reply with a single JSON object and nothing else, using exactly these keys:
{"title": string, "description": string, "dailyPlan": [{"day": number, "activity": string}], "highlights": [string], "coordinates": {"lat": number, "lng": number}}
The dailyPlan must contain one entry per requested day, starting at day 1. coordinates are the destination's latitude and longitude.`

type OpenAIConfig struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// OpenAIGenerator asks an OpenAI-compatible chat completions endpoint for a
// JSON itinerary.
type OpenAIGenerator struct {
	client *resty.Client
	model  string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func NewOpenAIGenerator(cfg OpenAIConfig) *OpenAIGenerator {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.openai.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.Endpoint, "/")).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &OpenAIGenerator{client: cli, model: cfg.Model}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req model.TripRequest) (model.Itinerary, error) {
	body := completionRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(req)},
		},
		Temperature:    0.7,
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	var out completionResponse
	var apiErr apiErrorResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1/chat/completions")
	if err != nil {
		return model.Itinerary{}, fmt.Errorf("completion request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		msg := apiErr.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return model.Itinerary{}, fmt.Errorf("%w: upstream %d: %s", model.ErrGeneration, resp.StatusCode(), msg)
	}

	if len(out.Choices) == 0 {
		return model.Itinerary{}, fmt.Errorf("%w: no choices returned", model.ErrGeneration)
	}

	return parseItinerary(out.Choices[0].Message.Content, req.Days)
}

func userPrompt(req model.TripRequest) string {
	return fmt.Sprintf(
		"Create a %d-day itinerary for %d traveler(s) visiting %s. Travel style: %s.",
		req.Days, req.Travelers, req.Destination, req.Budget,
	)
}

// parseItinerary decodes model output, tolerating a markdown code fence
// around the JSON object.
func parseItinerary(content string, days int) (model.Itinerary, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var it model.Itinerary
	if err := json.Unmarshal([]byte(content), &it); err != nil {
		return model.Itinerary{}, fmt.Errorf("%w: decode content: %v", model.ErrGeneration, err)
	}

	return validate(it, days)
}
