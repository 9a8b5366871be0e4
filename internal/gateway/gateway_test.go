package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-calendar/pkg/apperr"
	"smart-calendar/pkg/datemath"
	"smart-calendar/pkg/llmprovider"
	pkgLog "smart-calendar/pkg/log"
)

type mockGenerator struct {
	prompts []string
	resp    *llmprovider.Response
	err     error
}

func (m *mockGenerator) GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error) {
	m.prompts = append(m.prompts, req.Prompt)
	return m.resp, m.err
}

func wednesday(t *testing.T) (*datemath.Parser, time.Time) {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		t.Skipf("zoneinfo unavailable: %v", err)
	}
	return datemath.NewParserInLocation(loc), time.Date(2025, 1, 15, 9, 30, 0, 0, loc)
}

func TestBuildEventPrompt(t *testing.T) {
	parser, now := wednesday(t)
	req := NewEventRequest("  下周三下午3点开产品评审会，大约1小时 ", "Put anything about the gym in Personal", parser, now)

	prompt := BuildEventPrompt(req)

	for _, want := range []string{
		"today / 今天 = 2025-01-15 (Wednesday)",
		"tomorrow / 明天 = 2025-01-16",
		"day after tomorrow / 后天 = 2025-01-17",
		"next Wednesday / 下周三 = 2025-01-22",
		"timezone Asia/Shanghai",
		`"calendar_type"`,
		`"excluded_dates"`,
		"business hours (2pm-5pm)",
		"USER CALENDAR PREFERENCES",
		"Put anything about the gym in Personal",
		"Text to convert:\n下周三下午3点开产品评审会，大约1小时",
	} {
		assert.Contains(t, prompt, want)
	}
	assert.Equal(t, "2025-01-15", req.ReferenceToday)
	assert.Equal(t, "2025-01-16", req.ReferenceTomorrow)
}

func TestBuildEventPromptIsDeterministic(t *testing.T) {
	parser, now := wednesday(t)
	a := BuildEventPrompt(NewEventRequest("Lunch", "", parser, now))
	b := BuildEventPrompt(NewEventRequest("Lunch", "", parser, now.Add(3*time.Hour)))

	assert.Equal(t, a, b, "same day and text must give the same prompt")
	assert.NotContains(t, a, "USER CALENDAR PREFERENCES")
}

func TestGenerate(t *testing.T) {
	parser, now := wednesday(t)
	req := NewEventRequest("Team meeting tomorrow at 2pm", "", parser, now)

	t.Run("success", func(t *testing.T) {
		gen := &mockGenerator{resp: &llmprovider.Response{Body: []byte(`{"content":[]}`), ProviderName: "anthropic"}}
		g := New(gen, pkgLog.NewNop())

		raw, err := g.Generate(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, `{"content":[]}`, string(raw))
		require.Len(t, gen.prompts, 1)
		assert.True(t, strings.HasSuffix(gen.prompts[0], "Team meeting tomorrow at 2pm"))
	})

	t.Run("empty text", func(t *testing.T) {
		gen := &mockGenerator{}
		_, err := New(gen, pkgLog.NewNop()).Generate(context.Background(), NewEventRequest("  ", "", parser, now))
		assert.ErrorIs(t, err, apperr.ErrValidationFailed)
		assert.Empty(t, gen.prompts)
	})

	t.Run("taxonomy errors pass through", func(t *testing.T) {
		gen := &mockGenerator{err: apperr.New(apperr.CodeRateLimited)}
		_, err := New(gen, pkgLog.NewNop()).Generate(context.Background(), req)
		assert.ErrorIs(t, err, apperr.ErrRateLimited)
	})

	t.Run("plain errors are wrapped", func(t *testing.T) {
		gen := &mockGenerator{err: errors.New("boom")}
		_, err := New(gen, pkgLog.NewNop()).Generate(context.Background(), req)
		assert.ErrorIs(t, err, apperr.ErrRequestFailed)
	})

	t.Run("empty body", func(t *testing.T) {
		gen := &mockGenerator{resp: &llmprovider.Response{}}
		_, err := New(gen, pkgLog.NewNop()).Generate(context.Background(), req)
		assert.ErrorIs(t, err, apperr.ErrAIResponseInvalid)
	})
}
