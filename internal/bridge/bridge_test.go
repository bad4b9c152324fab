package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gera-labs/contentcore/internal/entitlement"
	"github.com/gera-labs/contentcore/internal/genai"
	"github.com/gera-labs/contentcore/internal/session"
	"github.com/gera-labs/contentcore/pkg/logger"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// textBody wraps text parts into a minimal provider response.
func textBody(parts ...string) string {
	wire := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": func() []map[string]string {
				out := make([]map[string]string, len(parts))
				for i, p := range parts {
					out[i] = map[string]string{"text": p}
				}
				return out
			}()}},
		},
	}
	b, _ := json.Marshal(wire)
	return string(b)
}

func newTestBridge(t *testing.T, rt roundTripperFunc) (*Bridge, *session.Holder) {
	t.Helper()
	client, err := genai.New(genai.Config{
		BaseURL:    "http://upstream.test",
		HTTPClient: &http.Client{Transport: rt},
	})
	require.NoError(t, err)

	holder := session.NewHolder()
	b, err := New(Config{Client: client, Credentials: holder, Logger: logger.Nop()})
	require.NoError(t, err)
	return b, holder
}

func TestNewValidatesConfig(t *testing.T) {
	client, err := genai.New(genai.Config{})
	require.NoError(t, err)

	_, err = New(Config{Credentials: session.NewHolder()})
	assert.Error(t, err, "client is required")

	_, err = New(Config{Client: client})
	assert.Error(t, err, "credential holder is required")
}

func TestMissingCredentialBlocksNetwork(t *testing.T) {
	called := false
	b, _ := newTestBridge(t, func(r *http.Request) (*http.Response, error) {
		called = true
		return jsonResponse(200, textBody("never")), nil
	})

	_, err := b.Execute(context.Background(), Request{Model: "m", Prompt: "p"})
	require.ErrorIs(t, err, ErrMissingCredential)
	assert.False(t, called, "no network call may be attempted without a credential")
}

func TestEmptyResponse(t *testing.T) {
	b, holder := newTestBridge(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"candidates":[{"content":{"parts":[]}}]}`), nil
	})
	holder.Set("AIzaSyTest")

	_, err := b.Execute(context.Background(), Request{Model: "m", Prompt: "p"})
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestUpstreamFailurePropagates(t *testing.T) {
	b, holder := newTestBridge(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(429, `{"error":{"code":429,"message":"Quota exceeded","status":"RESOURCE_EXHAUSTED"}}`), nil
	})
	holder.Set("AIzaSyRejectedUpstream")

	_, err := b.Execute(context.Background(), Request{
		Model:  "m",
		Prompt: "p",
		Schema: &genai.Schema{Type: genai.TypeObject},
	})

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.True(t, upstream.QuotaExhausted())
	assert.Contains(t, upstream.Error(), "Quota exceeded")
}

func TestUpstreamNetworkErrorPropagates(t *testing.T) {
	b, holder := newTestBridge(t, func(r *http.Request) (*http.Response, error) {
		return nil, fmt.Errorf("connection refused")
	})
	holder.Set("AIzaSyTest")

	_, err := b.Execute(context.Background(), Request{Model: "m", Prompt: "p"})

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.False(t, upstream.QuotaExhausted())
}

func TestStructuredResult(t *testing.T) {
	b, holder := newTestBridge(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(200, textBody(`{"niche":"fitness","audience":"runners","tone":"direct"}`)), nil
	})
	holder.Set("AIzaSyTest")

	res, err := b.Execute(context.Background(), Request{
		Model:  "m",
		Prompt: "p",
		Schema: &genai.Schema{Type: genai.TypeObject},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Structured)
	assert.Empty(t, res.Text, "structured result must not populate Text")

	var out struct {
		Niche string `json:"niche"`
	}
	require.NoError(t, json.Unmarshal(res.Structured, &out))
	assert.Equal(t, "fitness", out.Niche)
}

func TestStructuredMalformedJSON(t *testing.T) {
	b, holder := newTestBridge(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(200, textBody(`{"broken": `)), nil
	})
	holder.Set("AIzaSyTest")

	_, err := b.Execute(context.Background(), Request{
		Model:  "m",
		Prompt: "p",
		Schema: &genai.Schema{Type: genai.TypeObject},
	})

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestFreeTextIsSanitized(t *testing.T) {
	b, holder := newTestBridge(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(200, textBody(`post a <script>alert(1)</script>behind-the-scenes <b>today</b>`)), nil
	})
	holder.Set("AIzaSyTest")

	res, err := b.Execute(context.Background(), Request{Model: "m", Prompt: "p"})
	require.NoError(t, err)
	assert.NotContains(t, res.Text, "<")
	assert.NotContains(t, res.Text, ">")
	assert.Contains(t, res.Text, "behind-the-scenes")
	assert.Nil(t, res.Structured)
}

func TestCitationDedupAndOrder(t *testing.T) {
	body := `{
	  "candidates": [{
	    "content": {"parts": [{"text": "market research findings"}]},
	    "groundingMetadata": {"groundingChunks": [
	      {"web": {"uri": "https://a.example/1"}},
	      {"web": {"uri": "https://b.example/2"}},
	      {"web": {"uri": "https://a.example/1"}},
	      {"maps": {"uri": "https://c.example/3"}}
	    ]}
	  }]
	}`
	b, holder := newTestBridge(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(200, body), nil
	})
	holder.Set("AIzaSyTest")

	res, err := b.Execute(context.Background(), Request{Model: "m", Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/1", "https://b.example/2", "https://c.example/3"}, res.Sources)

	// The appended block lists each source exactly once, in order.
	assert.Equal(t, 1, strings.Count(res.Text, "https://b.example/2](https://b.example/2)"))
	first := strings.Index(res.Text, "https://a.example/1")
	second := strings.Index(res.Text, "https://b.example/2")
	third := strings.Index(res.Text, "https://c.example/3")
	assert.True(t, first < second && second < third, "sources out of order: %s", res.Text)
	assert.Contains(t, res.Text, "**Sources:**")
}

func TestNoCitationsNoBlock(t *testing.T) {
	b, holder := newTestBridge(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(200, textBody("plain answer")), nil
	})
	holder.Set("AIzaSyTest")

	res, err := b.Execute(context.Background(), Request{Model: "m", Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "plain answer", res.Text)
	assert.Empty(t, res.Sources)
}

func TestFixedTemperatureAndStructuredMode(t *testing.T) {
	var captured []byte
	b, holder := newTestBridge(t, func(r *http.Request) (*http.Response, error) {
		captured, _ = io.ReadAll(r.Body)
		return jsonResponse(200, textBody(`{}`)), nil
	})
	holder.Set("AIzaSyTest")

	_, err := b.Execute(context.Background(), Request{
		Model:             "m",
		Prompt:            "p",
		Schema:            &genai.Schema{Type: genai.TypeObject},
		SystemInstruction: "be terse",
	})
	require.NoError(t, err)
	assert.Contains(t, string(captured), `"temperature":0.7`)
	assert.Contains(t, string(captured), `"responseMimeType":"application/json"`)
	assert.Contains(t, string(captured), `"systemInstruction"`)
}

func TestCredentialReplayAfterSet(t *testing.T) {
	b, holder := newTestBridge(t, func(r *http.Request) (*http.Response, error) {
		return jsonResponse(200, textBody("done")), nil
	})
	req := Request{Model: "m", Prompt: "p"}

	_, err := b.Execute(context.Background(), req)
	require.ErrorIs(t, err, ErrMissingCredential)

	// The caller re-prompts, sets the key, and replays the same request.
	holder.Set("AIzaSyTest")
	res, err := b.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "done", res.Text)
}

// TestPlanGateScenario walks the caller protocol end to end: a FREE plan
// stops at the gate before the bridge; a PAID plan with an upstream-rejected
// key reaches the bridge and gets a typed upstream failure.
func TestPlanGateScenario(t *testing.T) {
	calls := 0
	b, holder := newTestBridge(t, func(r *http.Request) (*http.Response, error) {
		calls++
		return jsonResponse(400, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`), nil
	})
	req := Request{Model: "m", Prompt: "p", Schema: &genai.Schema{Type: genai.TypeObject}}

	if entitlement.CanUseGeneration(entitlement.PlanFree) {
		t.Fatal("FREE plan must not pass the gate")
	}
	assert.Zero(t, calls, "gated caller never reaches the bridge")

	require.True(t, entitlement.CanUseGeneration(entitlement.PlanPaid))
	require.True(t, session.ValidFormat("AIzaSyWellFormedButRejected"))
	holder.Set("AIzaSyWellFormedButRejected")

	_, err := b.Execute(context.Background(), req)
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.False(t, upstream.QuotaExhausted())
	assert.Equal(t, 1, calls)
}

func TestRateLimiterHonorsContext(t *testing.T) {
	client, err := genai.New(genai.Config{
		BaseURL: "http://upstream.test",
		HTTPClient: &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return jsonResponse(200, textBody("ok")), nil
		})},
	})
	require.NoError(t, err)

	holder := session.NewHolder()
	holder.Set("AIzaSyTest")
	b, err := New(Config{Client: client, Credentials: holder, RequestsPerMinute: 1})
	require.NoError(t, err)

	// First call consumes the burst.
	_, err = b.Execute(context.Background(), Request{Model: "m", Prompt: "p"})
	require.NoError(t, err)

	// Second call would wait ~a minute; a canceled context must abort it.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.Execute(ctx, Request{Model: "m", Prompt: "p"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) || strings.Contains(err.Error(), "rate limit"))
}
