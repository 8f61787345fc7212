package classifier

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shadysedhom/mair-assignment/internal/util"
	"github.com/shadysedhom/mair-assignment/pkg/errors"
)

type fakeProvider struct {
	name    string
	text    string
	err     error
	calls   int
	prompts []string
}

func (f *fakeProvider) Name() string {
	return f.name
}

func (f *fakeProvider) Generate(_ context.Context, prompt string, _ ModelPreset, opts *GenerateOptions) (ProviderResult, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return ProviderResult{}, f.err
	}
	return ProviderResult{Text: f.text, Model: f.name + "-model"}, nil
}

func TestModelManager_PrimarySuccess(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", text: "```json\n{\"act\": \"affirm\"}\n```"}
	fallback := &fakeProvider{name: "OpenAI"}
	mm := NewModelManagerWithProviders(primary, fallback, zap.NewNop())

	var resp actResponse
	metadata, err := mm.GenerateJSON(context.Background(), "prompt", PresetPrecise, &resp)
	require.NoError(t, err)

	assert.Equal(t, "affirm", resp.Act)
	assert.Equal(t, "Gemini", metadata.Provider)
	assert.False(t, metadata.UsedFallback)
	assert.Zero(t, fallback.calls)
}

func TestModelManager_FallsBack(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", err: stderrors.New("503 Service Unavailable")}
	fallback := &fakeProvider{name: "OpenAI", text: `{"act": "deny"}`}
	mm := NewModelManagerWithProviders(primary, fallback, zap.NewNop())

	var resp actResponse
	metadata, err := mm.GenerateJSON(context.Background(), "prompt", PresetPrecise, &resp)
	require.NoError(t, err)

	assert.Equal(t, "deny", resp.Act)
	assert.True(t, metadata.UsedFallback)
	assert.Equal(t, util.CircuitStateClosed, mm.GetCircuitStatus().State)
}

func TestModelManager_CircuitOpensOnServiceFailures(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", err: stderrors.New("request timeout")}
	mm := NewModelManagerWithProviders(primary, nil, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		var resp actResponse
		_, err := mm.GenerateJSON(ctx, "prompt", PresetPrecise, &resp)
		require.Error(t, err)

		var serviceErr *errors.ServiceError
		assert.True(t, stderrors.As(err, &serviceErr))
	}
	assert.Equal(t, util.CircuitStateOpen, mm.GetCircuitStatus().State)

	var resp actResponse
	_, err := mm.GenerateJSON(ctx, "prompt", PresetPrecise, &resp)
	require.Error(t, err)
	assert.Equal(t, 3, primary.calls)

	mm.ResetCircuit()
	assert.Equal(t, util.CircuitStateClosed, mm.GetCircuitStatus().State)
}

func TestModelManager_ClientErrorsDoNotTripCircuit(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", err: stderrors.New("400 Bad Request")}
	mm := NewModelManagerWithProviders(primary, nil, zap.NewNop())

	for i := 0; i < 5; i++ {
		var resp actResponse
		_, err := mm.GenerateJSON(context.Background(), "prompt", PresetPrecise, &resp)
		require.Error(t, err)
	}
	assert.Equal(t, util.CircuitStateClosed, mm.GetCircuitStatus().State)
	assert.Equal(t, 5, primary.calls)
}

func TestModelManager_InvalidJSON(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", text: "not json"}
	mm := NewModelManagerWithProviders(primary, nil, zap.NewNop())

	var resp actResponse
	_, err := mm.GenerateJSON(context.Background(), "prompt", PresetPrecise, &resp)
	assert.Error(t, err)
}

func TestIsServiceFailure(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{stderrors.New("context deadline exceeded"), true},
		{stderrors.New("429 Too Many Requests"), true},
		{stderrors.New(`{"error":{"code":503}}`), true},
		{stderrors.New("500 Internal Server Error"), true},
		{stderrors.New("401 Unauthorized"), false},
		{stderrors.New("invalid argument"), false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isServiceFailure(tt.err), "%v", tt.err)
	}
}

func TestLLM_PredictCachesLabels(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", text: `{"act": "Inform", "confidence": 0.9}`}
	llm, err := NewLLM(NewModelManagerWithProviders(primary, nil, zap.NewNop()), zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	labels, err := llm.Predict(ctx, []string{"I want cheap food"})
	require.NoError(t, err)
	assert.Equal(t, []string{"inform"}, labels)

	labels, err = llm.Predict(ctx, []string{"  i want CHEAP food "})
	require.NoError(t, err)
	assert.Equal(t, []string{"inform"}, labels)
	assert.Equal(t, 1, primary.calls)

	require.Len(t, primary.prompts, 1)
	assert.Contains(t, primary.prompts[0], `"I want cheap food"`)
	assert.Contains(t, primary.prompts[0], "reqalts")
}

func TestLLM_EmptyLabelIsError(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", text: `{"confidence": 0.1}`}
	llm, err := NewLLM(NewModelManagerWithProviders(primary, nil, zap.NewNop()), zap.NewNop())
	require.NoError(t, err)

	_, err = llm.Predict(context.Background(), []string{"uh"})
	require.Error(t, err)

	var serviceErr *errors.ServiceError
	assert.True(t, stderrors.As(err, &serviceErr))
}

func TestLabelCache_Expires(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewLabelCache(time.Minute)
	cache.now = func() time.Time { return now }

	cache.Set("yes", "affirm")
	label, ok := cache.Get("yes")
	require.True(t, ok)
	assert.Equal(t, "affirm", label)

	now = now.Add(2 * time.Minute)
	_, ok = cache.Get("yes")
	assert.False(t, ok)
	assert.Zero(t, cache.Len())
}
