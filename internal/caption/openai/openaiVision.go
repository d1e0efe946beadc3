package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"

	"github.com/akolanti/pictopdf/internal/caption"
	"github.com/akolanti/pictopdf/internal/config"
	"github.com/akolanti/pictopdf/internal/customHttpClient"
	"github.com/akolanti/pictopdf/pkg/logger_i"
	openaiapi "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type visionClient struct {
	client    openaiapi.Client
	modelName string
	prompt    string
}

var logger *logger_i.Logger
var openaiClient *visionClient
var once sync.Once

func GetOpenAIClient(modelName string, apikey string) caption.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("caption_openai")
		if apikey == "" {
			logger.Error("OpenAI API key is not set")
			return
		}
		openaiClient = &visionClient{
			client: openaiapi.NewClient(
				option.WithAPIKey(apikey),
				option.WithHTTPClient(customHttpClient.GetClient()),
			),
			modelName: modelName,
			prompt:    config.CaptionPrompt,
		}
		logger.Info("OpenAI vision client created", "model", modelName)
	})

	if openaiClient == nil {
		return nil
	}
	return openaiClient
}

func (c *visionClient) Caption(ctx context.Context, raster []byte, mimeType string) (string, error) {
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(raster)

	resp, err := c.client.Chat.Completions.New(ctx, openaiapi.ChatCompletionNewParams{
		Model: openaiapi.ChatModel(c.modelName),
		Messages: []openaiapi.ChatCompletionMessageParamUnion{
			openaiapi.UserMessage([]openaiapi.ChatCompletionContentPartUnionParam{
				openaiapi.TextContentPart(c.prompt),
				openaiapi.ImageContentPart(openaiapi.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
			}),
		},
	})
	if err != nil {
		logger.Error("OpenAI caption call failed", "error", err)
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		// the call succeeded but the model had nothing to say
		return config.CaptionFallback, nil
	}
	return text, nil
}
