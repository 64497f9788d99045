package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"leavechat/internal/agent/tools"
	"leavechat/internal/domain/models"
)

const defaultMaxTokens = 1024

// AnthropicGateway implements Gateway over the Anthropic Messages API.
// Tool-use content blocks in the response become the operation batch;
// a response without them is the final reply.
type AnthropicGateway struct {
	client    *anthropic.Client
	model     string
	promptCtx PromptContext
	logger    *slog.Logger
}

// NewAnthropicGateway creates a gateway with the given API key and model.
func NewAnthropicGateway(apiKey, model string, promptCtx PromptContext, logger *slog.Logger) (*AnthropicGateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	return &AnthropicGateway{
		client:    &client,
		model:     model,
		promptCtx: promptCtx,
		logger:    logger,
	}, nil
}

// Decide implements Gateway.
func (g *AnthropicGateway) Decide(ctx context.Context, transcript []Turn, caller *models.CallerIdentity, catalog []tools.Definition) (*Decision, error) {
	messages, err := convertTranscript(transcript)
	if err != nil {
		return nil, fmt.Errorf("failed to convert transcript: %w", err)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: defaultMaxTokens,
		Messages:  messages,
		Tools:     convertCatalog(catalog),
		System: []anthropic.TextBlockParam{
			{
				Type: "text",
				Text: SystemPrompt(caller, g.promptCtx),
			},
		},
	}

	message, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	g.logger.Debug("gateway decision",
		"model", message.Model,
		"stop_reason", message.StopReason,
		"input_tokens", message.Usage.InputTokens,
		"output_tokens", message.Usage.OutputTokens,
	)

	return convertResponse(message)
}

// convertTranscript maps transcript turns onto Anthropic messages.
// Tool-result turns travel as user messages carrying tool_result blocks,
// which is how the Messages API models them.
func convertTranscript(transcript []Turn) ([]anthropic.MessageParam, error) {
	result := make([]anthropic.MessageParam, 0, len(transcript))

	for i, turn := range transcript {
		switch turn.Role {
		case RoleUser:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Content)))

		case RoleAssistant:
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(turn.Calls)+1)
			if turn.Content != "" {
				blocks = append(blocks, anthropic.NewTextBlock(turn.Content))
			}
			for _, call := range turn.Calls {
				blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, call.Input, call.Name))
			}
			if len(blocks) == 0 {
				return nil, fmt.Errorf("turn %d: empty assistant turn", i)
			}
			result = append(result, anthropic.NewAssistantMessage(blocks...))

		case RoleToolResult:
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(turn.Results))
			for _, res := range turn.Results {
				blocks = append(blocks, anthropic.NewToolResultBlock(res.ID, res.Content, res.IsError))
			}
			if len(blocks) == 0 {
				return nil, fmt.Errorf("turn %d: empty tool-result turn", i)
			}
			result = append(result, anthropic.NewUserMessage(blocks...))

		default:
			return nil, fmt.Errorf("turn %d: unsupported role %q", i, turn.Role)
		}
	}

	return result, nil
}

func convertCatalog(catalog []tools.Definition) []anthropic.ToolUnionParam {
	result := make([]anthropic.ToolUnionParam, 0, len(catalog))
	for _, def := range catalog {
		tool := anthropic.ToolParam{
			Name:        def.Name,
			Description: anthropic.String(def.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: def.InputSchema["properties"],
			},
		}
		if required, ok := def.InputSchema["required"].([]string); ok {
			tool.InputSchema.Required = required
		}
		result = append(result, anthropic.ToolUnionParam{OfTool: &tool})
	}
	return result
}

func convertResponse(message *anthropic.Message) (*Decision, error) {
	var texts []string
	var calls []tools.Call

	for i, content := range message.Content {
		switch content.Type {
		case "text":
			texts = append(texts, content.Text)

		case "tool_use":
			var input map[string]interface{}
			if raw := content.JSON.Input.Raw(); raw != "" {
				if err := json.Unmarshal([]byte(raw), &input); err != nil {
					return nil, fmt.Errorf("block %d: bad tool input for %s: %w", i, content.Name, err)
				}
			}
			if input == nil {
				input = map[string]interface{}{}
			}
			calls = append(calls, tools.Call{
				ID:    content.ID,
				Name:  content.Name,
				Input: input,
			})

		// Other block types (thinking etc.) carry no decision content.
		default:
			continue
		}
	}

	return &Decision{
		Reply: strings.Join(texts, "\n"),
		Calls: calls,
	}, nil
}
