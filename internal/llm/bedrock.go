// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/petar-djukic/go-edit/pkg/types"
)

const (
	maxRetryAttempts = 3
	baseRetryDelay   = 1 * time.Second
)

// BedrockAPI abstracts the Bedrock ConverseStream call for testing.
type BedrockAPI interface {
	ConverseStream(ctx context.Context, params *bedrockruntime.ConverseStreamInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseStreamOutput, error)
}

// BedrockClient wraps the AWS Bedrock runtime client.
type BedrockClient struct {
	api       BedrockAPI
	modelID   string
	timeout   time.Duration
	maxTokens int

	mu    sync.Mutex
	usage types.TokenUsage // Cumulative across calls, guarded by mu
}

// NewBedrockClient initializes a Bedrock client via the standard AWS
// credential chain.
func NewBedrockClient(ctx context.Context, cfg Config) (*BedrockClient, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: region is required for bedrock", ErrLLMFailure)
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: loading AWS config: %v", ErrLLMFailure, err)
	}

	return &BedrockClient{
		api:       bedrockruntime.NewFromConfig(awsCfg),
		modelID:   cfg.Model,
		timeout:   cfg.timeout(),
		maxTokens: cfg.maxTokens(),
	}, nil
}

// NewBedrockClientWithAPI creates a client with a pre-configured API
// implementation. Used for testing with mocks.
func NewBedrockClientWithAPI(api BedrockAPI, cfg Config) *BedrockClient {
	return &BedrockClient{
		api:       api,
		modelID:   cfg.Model,
		timeout:   cfg.timeout(),
		maxTokens: cfg.maxTokens(),
	}
}

// SendPrompt sends the conversation via ConverseStream. Tokens arrive on
// the first channel as they stream; the final StreamResponse arrives on the
// second once streaming completes.
func (c *BedrockClient) SendPrompt(ctx context.Context, system string, messages []types.Message) (<-chan string, <-chan *types.StreamResponse) {
	tokenCh := make(chan string, 64)
	resultCh := make(chan *types.StreamResponse, 1)

	go func() {
		defer close(resultCh)

		response, err := c.sendWithRetry(ctx, system, messages, tokenCh)
		if err != nil {
			close(tokenCh)
			resultCh <- &types.StreamResponse{Err: err}
			return
		}

		c.mu.Lock()
		c.usage.InputTokens += response.Usage.InputTokens
		c.usage.OutputTokens += response.Usage.OutputTokens
		c.mu.Unlock()
		resultCh <- response
	}()

	return tokenCh, resultCh
}

// CumulativeUsage returns total token usage across all calls.
func (c *BedrockClient) CumulativeUsage() types.TokenUsage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}

// sendWithRetry calls ConverseStream with exponential backoff on
// throttling errors.
func (c *BedrockClient) sendWithRetry(ctx context.Context, system string, messages []types.Message, tokenCh chan<- string) (*types.StreamResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetryAttempts; attempt++ {
		if attempt > 0 {
			delay := baseRetryDelay * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: context cancelled during retry: %v", ErrLLMFailure, ctx.Err())
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)

		input := &bedrockruntime.ConverseStreamInput{
			ModelId:  aws.String(c.modelID),
			System:   []brtypes.SystemContentBlock{&brtypes.SystemContentBlockMemberText{Value: system}},
			Messages: toBedrockMessages(messages),
			InferenceConfig: &brtypes.InferenceConfiguration{
				MaxTokens: aws.Int32(int32(c.maxTokens)),
			},
		}

		output, err := c.api.ConverseStream(callCtx, input)
		if err != nil {
			cancel()

			var throttle *brtypes.ThrottlingException
			if errors.As(err, &throttle) {
				lastErr = err
				continue
			}
			return nil, c.classifyError(err)
		}

		response := consumeBedrockStream(callCtx, output.GetStream(), tokenCh)
		response.Retries = attempt
		cancel()
		return response, nil
	}

	return nil, fmt.Errorf("%w: rate limited after %d retries: %v", ErrLLMFailure, maxRetryAttempts, lastErr)
}

func (c *BedrockClient) classifyError(err error) error {
	var accessDenied *brtypes.AccessDeniedException
	if errors.As(err, &accessDenied) {
		return fmt.Errorf("%w: credential or permission issue: %v", ErrLLMFailure, err)
	}

	var notFound *brtypes.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: model not found: %s", ErrLLMFailure, c.modelID)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out after %s", ErrLLMFailure, c.timeout)
	}

	return fmt.Errorf("%w: %v", ErrLLMFailure, err)
}

// toBedrockMessages converts neutral messages into the Bedrock wire shape.
// System messages are carried separately by the API and skipped here.
func toBedrockMessages(messages []types.Message) []brtypes.Message {
	var out []brtypes.Message
	for _, m := range messages {
		role := brtypes.ConversationRoleUser
		if m.Role == types.RoleAssistant {
			role = brtypes.ConversationRoleAssistant
		} else if m.Role == types.RoleSystem {
			continue
		}
		out = append(out, brtypes.Message{
			Role: role,
			Content: []brtypes.ContentBlock{
				&brtypes.ContentBlockMemberText{Value: m.Content},
			},
		})
	}
	return out
}

// EventStream abstracts the Bedrock event stream for testing.
type EventStream interface {
	Events() <-chan brtypes.ConverseStreamOutput
	Close() error
	Err() error
}

// consumeBedrockStream reads stream events, forwards text deltas through
// tokenCh, and accumulates the full response. tokenCh is closed when
// streaming completes or the context is cancelled.
func consumeBedrockStream(ctx context.Context, stream EventStream, tokenCh chan<- string) *types.StreamResponse {
	defer close(tokenCh)

	var text strings.Builder
	response := &types.StreamResponse{}

	events := stream.Events()
	for {
		select {
		case <-ctx.Done():
			stream.Close()
			response.FullText = text.String()
			return response

		case event, ok := <-events:
			if !ok {
				response.FullText = text.String()
				return response
			}

			switch v := event.(type) {
			case *brtypes.ConverseStreamOutputMemberContentBlockDelta:
				if delta, ok := v.Value.Delta.(*brtypes.ContentBlockDeltaMemberText); ok {
					text.WriteString(delta.Value)
					select {
					case tokenCh <- delta.Value:
					case <-ctx.Done():
						stream.Close()
						response.FullText = text.String()
						return response
					}
				}

			case *brtypes.ConverseStreamOutputMemberMetadata:
				if v.Value.Usage != nil {
					if v.Value.Usage.InputTokens != nil {
						response.Usage.InputTokens = int(*v.Value.Usage.InputTokens)
					}
					if v.Value.Usage.OutputTokens != nil {
						response.Usage.OutputTokens = int(*v.Value.Usage.OutputTokens)
					}
				}
			}
		}
	}
}
