package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"chat_cli/pkg/config"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/ssestream"
)

// OpenAIProvider implements Provider against any OpenAI-compatible
// chat completion endpoint.
type OpenAIProvider struct {
	client       openai.Client
	defaultModel string
}

// NewOpenAIProvider constructs a provider from the resolved configuration.
// Construction fails iff the API key is empty.
func NewOpenAIProvider(cfg config.Config) (*OpenAIProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &config.ConfigurationError{
			Reason: config.KeyAPIKey + " is required",
		}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	// The SDK resolves request paths relative to the base URL, so the
	// trailing slash is significant.
	baseURL = strings.TrimSuffix(baseURL, "/") + "/"

	httpClient := &http.Client{}
	if cfg.TimeoutSeconds > 0 {
		httpClient.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
		// One network request per call, no implicit retries.
		option.WithMaxRetries(0),
	)

	return &OpenAIProvider{
		client:       client,
		defaultModel: cfg.Model,
	}, nil
}

// CreateChatCompletion sends a blocking completion request and returns
// the full assistant text.
func (p *OpenAIProvider) CreateChatCompletion(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	params, err := p.buildChatParams(req)
	if err != nil {
		return ChatResponse{}, err
	}

	slog.Debug("chat_completion_request",
		"model", params.Model,
		"message_count", len(params.Messages))

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		slog.Error("chat_completion_error", "error", err)
		return ChatResponse{}, &TransportError{Cause: err}
	}

	if len(resp.Choices) == 0 {
		return ChatResponse{}, &TransportError{Cause: errors.New("response contained no choices")}
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return ChatResponse{}, &TransportError{Cause: errors.New("response contained no content")}
	}

	slog.Debug("chat_completion_done",
		"model", resp.Model,
		"content_length", len(content))

	return ChatResponse{Content: content, Model: resp.Model}, nil
}

// CreateChatCompletionStream sends a streaming completion request. The
// returned stream yields content deltas as the transport delivers them.
func (p *OpenAIProvider) CreateChatCompletionStream(ctx context.Context, req ChatRequest) (ChatStream, error) {
	params, err := p.buildChatParams(req)
	if err != nil {
		return nil, err
	}

	slog.Debug("chat_stream_request",
		"model", params.Model,
		"message_count", len(params.Messages))

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	if err := stream.Err(); err != nil {
		slog.Error("chat_stream_create_error", "error", err)
		return nil, &TransportError{Cause: err}
	}

	return &openAIStream{stream: stream}, nil
}

func (p *OpenAIProvider) buildChatParams(req ChatRequest) (openai.ChatCompletionNewParams, error) {
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = p.defaultModel
	}
	if len(req.Messages) == 0 {
		return openai.ChatCompletionNewParams{}, &TransportError{Cause: errors.New("messages are required")}
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, msg := range req.Messages {
		param, err := toChatMessageParam(msg)
		if err != nil {
			return openai.ChatCompletionNewParams{}, err
		}
		messages = append(messages, param)
	}

	return openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}, nil
}

func toChatMessageParam(msg Message) (openai.ChatCompletionMessageParamUnion, error) {
	switch msg.Role {
	case "system":
		return openai.SystemMessage(msg.Content), nil
	case "user":
		return openai.UserMessage(msg.Content), nil
	case "assistant":
		return openai.AssistantMessage(msg.Content), nil
	default:
		return openai.ChatCompletionMessageParamUnion{}, &TransportError{
			Cause: fmt.Errorf("unsupported message role %q", msg.Role),
		}
	}
}

type openAIStream struct {
	stream *ssestream.Stream[openai.ChatCompletionChunk]
}

func (s *openAIStream) Next() bool {
	return s.stream.Next()
}

func (s *openAIStream) Content() string {
	chunk := s.stream.Current()
	if len(chunk.Choices) == 0 {
		return ""
	}
	return chunk.Choices[0].Delta.Content
}

func (s *openAIStream) Err() error {
	if err := s.stream.Err(); err != nil {
		return &TransportError{Cause: err}
	}
	return nil
}

func (s *openAIStream) Close() error {
	return s.stream.Close()
}

// Ensure interface compliance
var _ Provider = (*OpenAIProvider)(nil)
