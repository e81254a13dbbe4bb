// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-edit/pkg/types"
)

// mockEventStream implements EventStream for testing.
type mockEventStream struct {
	ch  chan brtypes.ConverseStreamOutput
	err error
}

func (m *mockEventStream) Events() <-chan brtypes.ConverseStreamOutput { return m.ch }
func (m *mockEventStream) Close() error                               { return nil }
func (m *mockEventStream) Err() error                                 { return m.err }

// failingBedrockAPI implements BedrockAPI and always fails the call.
type failingBedrockAPI struct {
	err error
}

func (f *failingBedrockAPI) ConverseStream(_ context.Context, _ *bedrockruntime.ConverseStreamInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseStreamOutput, error) {
	return nil, f.err
}

func TestSendPrompt_FailureCarriesError(t *testing.T) {
	client := NewBedrockClientWithAPI(&failingBedrockAPI{
		err: &brtypes.AccessDeniedException{Message: aws.String("denied")},
	}, Config{Model: "test-model"})

	tokenCh, resultCh := client.SendPrompt(context.Background(), "system", []types.Message{
		{Role: types.RoleUser, Content: "hello"},
	})

	for range tokenCh {
	}

	resp := <-resultCh
	require.NotNil(t, resp)
	require.Error(t, resp.Err)
	assert.ErrorIs(t, resp.Err, ErrLLMFailure)
	assert.Empty(t, resp.FullText)
}

func TestCumulativeUsage_ConcurrentAccess(t *testing.T) {
	client := NewBedrockClientWithAPI(&failingBedrockAPI{
		err: &brtypes.AccessDeniedException{Message: aws.String("denied")},
	}, Config{Model: "test-model"})

	// Readers may overlap in-flight calls; the race detector flags any
	// unguarded access to the usage counters.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokenCh, resultCh := client.SendPrompt(context.Background(), "system", nil)
			for range tokenCh {
			}
			<-resultCh
			_ = client.CumulativeUsage()
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, client.CumulativeUsage().Total())
}

func textDelta(s string) brtypes.ConverseStreamOutput {
	return &brtypes.ConverseStreamOutputMemberContentBlockDelta{
		Value: brtypes.ContentBlockDeltaEvent{
			ContentBlockIndex: aws.Int32(0),
			Delta:             &brtypes.ContentBlockDeltaMemberText{Value: s},
		},
	}
}

func TestConsumeBedrockStream_TokensDelivered(t *testing.T) {
	tokens := []string{"{\"edits\"", ": [", "]}"}
	ch := make(chan brtypes.ConverseStreamOutput, len(tokens)+1)
	for _, tok := range tokens {
		ch <- textDelta(tok)
	}
	ch <- &brtypes.ConverseStreamOutputMemberMetadata{
		Value: brtypes.ConverseStreamMetadataEvent{
			Usage: &brtypes.TokenUsage{
				InputTokens:  aws.Int32(120),
				OutputTokens: aws.Int32(8),
				TotalTokens:  aws.Int32(128),
			},
		},
	}
	close(ch)

	tokenCh := make(chan string, len(tokens))
	response := consumeBedrockStream(context.Background(), &mockEventStream{ch: ch}, tokenCh)

	var received []string
	for tok := range tokenCh {
		received = append(received, tok)
	}

	assert.Equal(t, tokens, received)
	assert.Equal(t, "{\"edits\": []}", response.FullText)
	assert.Equal(t, 120, response.Usage.InputTokens)
	assert.Equal(t, 8, response.Usage.OutputTokens)
}

func TestConsumeBedrockStream_Cancellation(t *testing.T) {
	ch := make(chan brtypes.ConverseStreamOutput, 1)
	ch <- textDelta("partial")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tokenCh := make(chan string) // Unbuffered so the send blocks and cancellation wins.
	response := consumeBedrockStream(ctx, &mockEventStream{ch: ch}, tokenCh)

	assert.NotNil(t, response)
	// The channel must be closed even on cancellation.
	_, open := <-tokenCh
	assert.False(t, open)
}

func TestClassifyError(t *testing.T) {
	c := &BedrockClient{modelID: "test-model"}

	err := c.classifyError(&brtypes.AccessDeniedException{Message: aws.String("denied")})
	assert.ErrorIs(t, err, ErrLLMFailure)
	assert.Contains(t, err.Error(), "credential or permission")

	err = c.classifyError(&brtypes.ResourceNotFoundException{Message: aws.String("missing")})
	assert.Contains(t, err.Error(), "model not found: test-model")

	err = c.classifyError(context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "timed out")
}

func TestToBedrockMessages(t *testing.T) {
	messages := toBedrockMessages([]types.Message{
		{Role: types.RoleSystem, Content: "skipped"},
		{Role: types.RoleUser, Content: "hello"},
		{Role: types.RoleAssistant, Content: "hi"},
	})

	require.Len(t, messages, 2)
	assert.Equal(t, brtypes.ConversationRoleUser, messages[0].Role)
	assert.Equal(t, brtypes.ConversationRoleAssistant, messages[1].Role)
}

func TestNew_UnsupportedProvider(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "carrier-pigeon", Model: "m"})
	assert.ErrorIs(t, err, ErrLLMFailure)
}

func TestNew_MissingModel(t *testing.T) {
	_, err := New(context.Background(), Config{Provider: "ollama"})
	assert.ErrorIs(t, err, ErrLLMFailure)
}

func TestNewOpenAIClient_OllamaDefaults(t *testing.T) {
	c, err := NewOpenAIClient(Config{Provider: "ollama", Model: "qwen2.5-coder"})
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(Config{Provider: "openai", Model: "gpt-4o"})
	assert.ErrorIs(t, err, ErrLLMFailure)
}
