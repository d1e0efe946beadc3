package gemini

import (
	"context"
	"strings"
	"sync"

	"github.com/akolanti/pictopdf/internal/caption"
	"github.com/akolanti/pictopdf/internal/config"
	"github.com/akolanti/pictopdf/pkg/logger_i"
	"google.golang.org/genai"
)

type visionClient struct {
	client    *genai.Client
	modelName string
	prompt    string
}

var logger *logger_i.Logger
var geminiClient *visionClient
var once sync.Once

func GetGeminiClient(ctx context.Context, modelName string, apikey string) caption.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("caption_gemini")
		newGeminiClient(ctx, modelName, apikey)
	})

	if geminiClient == nil {
		return nil
	}
	return geminiClient
}

func newGeminiClient(ctx context.Context, modelName string, apikey string) {
	if apikey == "" {
		logger.Error("Gemini API key is not set")
		return
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
	}
	if c != nil {
		geminiClient = &visionClient{client: c, modelName: modelName, prompt: config.CaptionPrompt}
		logger.Info("Gemini vision client created", "model", modelName)
	}
}

func (c *visionClient) Caption(ctx context.Context, raster []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		{Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: raster}},
			{Text: c.prompt},
		}},
	}

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, contents, nil)
	if err != nil {
		logger.Error("Gemini caption call failed", "error", err)
		return "", err
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		// the call succeeded but the model had nothing to say
		return config.CaptionFallback, nil
	}
	return text, nil
}
