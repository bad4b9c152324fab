// Package bridge turns a semantic generation request into a validated call
// against the generative-content API and normalizes the response. It is
// stateless apart from the session credential holder it is closed over;
// concurrent calls are independent and never deduplicated.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/gera-labs/contentcore/internal/genai"
	"github.com/gera-labs/contentcore/internal/metrics"
	"github.com/gera-labs/contentcore/internal/sanitize"
	"github.com/gera-labs/contentcore/internal/session"
	"github.com/gera-labs/contentcore/pkg/logger"
)

// temperature is the fixed sampling temperature for every call.
const temperature = 0.7

// sourcesHeader opens the citation block appended to grounded free text.
const sourcesHeader = "\n\n**Sources:**\n"

// Request is a semantic generation request.
type Request struct {
	// Model is the provider model identifier. Required.
	Model string
	// Prompt is the user-visible request text. Required.
	Prompt string
	// Schema, when set, switches the call to structured output mode.
	Schema *genai.Schema
	// SystemInstruction, when set, steers the model's register.
	SystemInstruction string
	// Tools are provider-side retrieval capabilities.
	Tools []genai.Tool
}

// Result is the normalized outcome of one request. Exactly one of
// Structured and Text is populated: Structured when the request carried a
// schema, Text otherwise.
type Result struct {
	// Structured is the raw JSON of a schema-conforming response.
	Structured json.RawMessage
	// Text is sanitized free text, citation block included.
	Text string
	// Sources are the deduplicated citation URLs, first-seen order.
	Sources []string
}

// Config configures a Bridge.
type Config struct {
	// Client executes provider calls. Required.
	Client *genai.Client
	// Credentials supplies the session API key. Required.
	Credentials *session.Holder
	// Logger receives upstream failures. A nop logger is used when nil.
	Logger *logger.Logger
	// RequestsPerMinute enables a client-side limiter guarding the
	// metered upstream. Zero disables it.
	RequestsPerMinute int
}

// Bridge executes generation requests.
type Bridge struct {
	client  *genai.Client
	creds   *session.Holder
	logger  *logger.Logger
	limiter *rate.Limiter
}

// New creates a Bridge.
func New(cfg Config) (*Bridge, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("bridge: client is required")
	}
	if cfg.Credentials == nil {
		return nil, fmt.Errorf("bridge: credential holder is required")
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), cfg.RequestsPerMinute)
	}
	return &Bridge{
		client:  cfg.Client,
		creds:   cfg.Credentials,
		logger:  log,
		limiter: limiter,
	}, nil
}

// Execute runs one generation request. Each call is a single attempt: there
// is no retry transition on any failure path.
func (b *Bridge) Execute(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	apiKey, ok := b.creds.Get()
	if !ok {
		metrics.ObserveGeneration(metrics.OutcomeMissingCredential, time.Since(start))
		return nil, ErrMissingCredential
	}

	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("bridge: rate limit wait: %w", err)
		}
	}

	resp, err := b.client.GenerateContent(ctx, apiKey, req.Model, b.buildRequest(req))
	if err != nil {
		b.logger.Error("generation request failed", "model", req.Model, "error", err)
		metrics.ObserveGeneration(metrics.OutcomeUpstreamError, time.Since(start))
		return nil, &UpstreamError{Err: err}
	}

	text := resp.Text()
	if text == "" {
		b.logger.Warn("empty model response", "model", req.Model)
		metrics.ObserveGeneration(metrics.OutcomeEmptyResponse, time.Since(start))
		return nil, ErrEmptyResponse
	}

	if req.Schema != nil {
		// Conformance to the schema is the provider's contract; only
		// well-formedness is checked here.
		if !gjson.Valid(text) {
			metrics.ObserveGeneration(metrics.OutcomeParseError, time.Since(start))
			return nil, &ParseError{Err: errors.New("response text is not valid JSON")}
		}
		metrics.ObserveGeneration(metrics.OutcomeOK, time.Since(start))
		return &Result{Structured: json.RawMessage(text)}, nil
	}

	sources := collectSources(resp.Raw())
	if len(sources) > 0 {
		var block strings.Builder
		block.WriteString(sourcesHeader)
		for i, u := range sources {
			if i > 0 {
				block.WriteString("\n")
			}
			fmt.Fprintf(&block, "- [%s](%s)", u, u)
		}
		text += block.String()
	}

	metrics.ObserveGeneration(metrics.OutcomeOK, time.Since(start))
	return &Result{Text: sanitize.Clean(text), Sources: sources}, nil
}

func (b *Bridge) buildRequest(req Request) genai.GenerateContentRequest {
	temp := temperature
	cfg := &genai.GenerationConfig{Temperature: &temp}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.Schema
	}

	out := genai.GenerateContentRequest{
		Contents:         []genai.Content{genai.TextContent(req.Prompt)},
		GenerationConfig: cfg,
		Tools:            req.Tools,
	}
	if req.SystemInstruction != "" {
		out.SystemInstruction = &genai.Content{Parts: []genai.Part{{Text: req.SystemInstruction}}}
	}
	return out
}

// collectSources scans grounding metadata across all candidates and returns
// every citation URL once, preserving first-seen order.
func collectSources(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	add := func(uri string) {
		if uri == "" {
			return
		}
		if _, dup := seen[uri]; dup {
			return
		}
		seen[uri] = struct{}{}
		out = append(out, uri)
	}

	gjson.GetBytes(raw, "candidates").ForEach(func(_, candidate gjson.Result) bool {
		candidate.Get("groundingMetadata.groundingChunks").ForEach(func(_, chunk gjson.Result) bool {
			add(chunk.Get("web.uri").String())
			add(chunk.Get("maps.uri").String())
			return true
		})
		return true
	})
	return out
}
