package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	huggingface "github.com/hupe1980/go-huggingface"
)

const maxErrorBytes = 4 << 10

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("inference endpoint returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("inference endpoint returned status %d: %s", e.StatusCode, e.Message)
}

// HuggingFaceClient runs the text-generation task through the Hugging Face inference client.
type HuggingFaceClient struct {
	client *huggingface.InferenceClient
	model  string
}

// NewHuggingFaceClient creates a client for model under baseURL.
func NewHuggingFaceClient(baseURL, model, token string, httpClient *http.Client) *HuggingFaceClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	model = strings.TrimSpace(model)
	client := huggingface.NewInferenceClient(token, func(o *huggingface.InferenceClientOptions) {
		o.Endpoint = strings.TrimRight(baseURL, "/")
		o.Model = model
		o.HTTPClient = statusCheckingClient{inner: httpClient}
	})
	return &HuggingFaceClient{client: client, model: model}
}

// Generate implements Generator.
func (c *HuggingFaceClient) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	res, err := c.client.TextGeneration(ctx, &huggingface.TextGenerationRequest{
		Inputs: prompt,
		Model:  c.model,
		Parameters: huggingface.TextGenerationParameters{
			MaxNewTokens:   huggingface.PTR(params.MaxNewTokens),
			Temperature:    huggingface.PTR(params.Temperature),
			ReturnFullText: huggingface.PTR(false),
		},
	})
	if err != nil {
		return "", fmt.Errorf("hugging face text generation: %w", err)
	}
	if len(res) == 0 {
		return "", nil
	}
	return res[0].GeneratedText, nil
}

// statusCheckingClient turns non-2xx answers into *StatusError before the
// inference client decodes them, so callers keep the upstream status code.
type statusCheckingClient struct {
	inner *http.Client
}

func (s statusCheckingClient) Do(req *http.Request) (*http.Response, error) {
	resp, err := s.inner.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
	return nil, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
}

func errorMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(body), &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
