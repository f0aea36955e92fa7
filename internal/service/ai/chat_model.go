package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// ChatModelGenerator adapts an eino chat model (Ark in production) to the
// Generator contract: the rendered prompt travels as a single user message.
type ChatModelGenerator struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewChatModelGenerator compiles the prompt -> model chain.
func NewChatModelGenerator(ctx context.Context, chatModel model.ChatModel) (*ChatModelGenerator, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.UserMessage("{prompt}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile completion chain: %w", err)
	}

	return &ChatModelGenerator{chain: runnable}, nil
}

// Generate implements Generator.
func (g *ChatModelGenerator) Generate(ctx context.Context, promptText string, params Params) (string, error) {
	msg, err := g.chain.Invoke(ctx,
		map[string]any{"prompt": promptText},
		compose.WithChatModelOption(
			model.WithMaxTokens(params.MaxNewTokens),
			model.WithTemperature(float32(params.Temperature)),
		),
	)
	if err != nil {
		return "", fmt.Errorf("failed to run completion chain: %w", err)
	}
	if msg == nil {
		return "", nil
	}
	return msg.Content, nil
}
