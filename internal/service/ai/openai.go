package ai

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAICompletionClient sends the raw prompt to an OpenAI-compatible
// /completions endpoint. SDK-level retries are disabled; retrying is the job of WithRetry.
type OpenAICompletionClient struct {
	client openai.Client
	model  string
}

// NewOpenAICompletionClient creates a completions client. An empty baseURL uses the SDK default.
func NewOpenAICompletionClient(apiKey, baseURL, model string, opts ...option.RequestOption) *OpenAICompletionClient {
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}
	options = append(options, opts...)

	return &OpenAICompletionClient{
		client: openai.NewClient(options...),
		model:  model,
	}
}

// Generate implements Generator.
func (c *OpenAICompletionClient) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	resp, err := c.client.Completions.New(ctx, openai.CompletionNewParams{
		Model:       openai.CompletionNewParamsModel(c.model),
		Prompt:      openai.CompletionNewParamsPromptUnion{OfString: openai.String(prompt)},
		MaxTokens:   openai.Int(int64(params.MaxNewTokens)),
		Temperature: openai.Float(params.Temperature),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Text, nil
}
