package relay

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiUpstream answers chat requests with Google's Generative AI API.
// The request's API key is used as the Gemini key.
type GeminiUpstream struct {
	Model string
}

func NewGeminiUpstream(model string) *GeminiUpstream {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiUpstream{Model: model}
}

func (g *GeminiUpstream) Forward(ctx context.Context, req Request) (Response, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(req.APIKey))
	if err != nil {
		return Response{}, errors.Wrap(err, "failed to create gemini client")
	}
	defer client.Close()

	model := client.GenerativeModel(g.Model)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(float32(req.Temperature))

	system, parts := splitMessages(req.Messages)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if len(parts) == 0 {
		return Response{}, errors.New("no user content to send")
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return Response{}, errors.Wrap(err, "gemini generation failed")
	}

	return geminiResponse(responseText(resp)), nil
}

// splitMessages joins system messages into one instruction and turns the rest into text parts.
func splitMessages(messages []Message) (string, []genai.Part) {
	var system []string
	var parts []genai.Part
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		parts = append(parts, genai.Text(m.Content))
	}
	return strings.Join(system, "\n\n"), parts
}

func responseText(resp *genai.GenerateContentResponse) string {
	var text string
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				text += string(txt)
			}
		}
	}
	return text
}

// geminiResponse labels the text as JSON only when it parses, so plain prose
// still takes the fallback path.
func geminiResponse(text string) Response {
	// The model sometimes wraps the JSON in markdown.
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	if json.Valid([]byte(clean)) {
		return Response{ContentType: "application/json", Body: []byte(clean)}
	}
	return Response{ContentType: "text/plain; charset=utf-8", Body: []byte(text)}
}
