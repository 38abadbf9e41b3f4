package technique

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proctorhq/proctor/ai/openrouter"
	"github.com/proctorhq/proctor/errors"
)

type fakeClient struct {
	lastReq openrouter.ChatRequest
	resp    *openrouter.ChatResponse
	err     error
	calls   int
}

func (f *fakeClient) Chat(_ context.Context, req openrouter.ChatRequest) (*openrouter.ChatResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func TestExecutorExecute(t *testing.T) {
	client := &fakeClient{
		resp: &openrouter.ChatResponse{
			Content: "  the answer is 4  ",
			Model:   "openai/gpt-4o-mini",
		},
	}
	exec := NewExecutor(client)

	temp := 0.1
	out, err := exec.Execute(context.Background(), NewZeroShotCoT(), ExecuteRequest{
		Input:        "What is 2+2?",
		SystemPrompt: "You are terse.",
		Temperature:  &temp,
	})
	require.NoError(t, err)
	assert.Equal(t, "the answer is 4", out)
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, "You are terse.", client.lastReq.SystemPrompt)
	assert.Contains(t, client.lastReq.UserPrompt, "What is 2+2?")
	require.NotNil(t, client.lastReq.Temperature)
	assert.Equal(t, 0.1, *client.lastReq.Temperature)
}

func TestExecutorPromptFailureSkipsInvocation(t *testing.T) {
	client := &fakeClient{resp: &openrouter.ChatResponse{Content: "x"}}
	exec := NewExecutor(client)

	_, err := exec.Execute(context.Background(), NewDecomp(), ExecuteRequest{Input: "  "})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequest(err))
	assert.Zero(t, client.calls)
}

func TestExecutorInvocationError(t *testing.T) {
	client := &fakeClient{err: errors.MarkPermanent(errors.New("401"), "bad credentials")}
	exec := NewExecutor(client)

	_, err := exec.Execute(context.Background(), NewDecomp(), ExecuteRequest{Input: "problem"})
	require.Error(t, err)
	assert.True(t, errors.IsPermanent(err))
}

func TestExecutorGuards(t *testing.T) {
	exec := NewExecutor(nil)

	_, err := exec.Execute(context.Background(), nil, ExecuteRequest{Input: "x"})
	assert.True(t, errors.IsInvalidRequest(err))

	_, err = exec.Execute(context.Background(), NewDecomp(), ExecuteRequest{Input: "x"})
	assert.True(t, errors.IsDependencyUnavailable(err))

	_, err = exec.GeneratePrompt(context.Background(), nil, "x")
	assert.True(t, errors.IsInvalidRequest(err))
}
