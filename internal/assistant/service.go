// Package assistant exposes the content-production operations. Each
// operation shapes a prompt and an output schema, executes it through the
// request bridge, and returns sanitized domain values. Callers are expected
// to consult the entitlement gate before invoking any of these.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gera-labs/contentcore/internal/bridge"
	"github.com/gera-labs/contentcore/internal/domain/content"
	"github.com/gera-labs/contentcore/internal/genai"
	"github.com/gera-labs/contentcore/internal/sanitize"
	"github.com/gera-labs/contentcore/pkg/logger"
)

// Model identifiers. Generation ops run on the flash tier, analysis ops on
// the pro tier.
const (
	modelFlash = "gemini-3-flash-preview"
	modelPro   = "gemini-3-pro-preview"
)

// systemCore steers every call toward plain, render-safe output.
const systemCore = "You are a pragmatic content decision engine. " +
	"Be direct, use simple paragraphs, no markdown headings. " +
	"Never include script tags or HTML in responses."

// Config configures the Service.
type Config struct {
	// Bridge executes generation requests. Required.
	Bridge *bridge.Bridge
	// Logger; nop when nil.
	Logger *logger.Logger
}

// Service implements the assistant operations.
type Service struct {
	bridge *bridge.Bridge
	logger *logger.Logger
}

// New creates a Service.
func New(cfg Config) (*Service, error) {
	if cfg.Bridge == nil {
		return nil, fmt.Errorf("assistant: bridge is required")
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{bridge: cfg.Bridge, logger: log}, nil
}

// executeInto runs a structured request and decodes the result into out.
func (s *Service) executeInto(ctx context.Context, req bridge.Request, out any) error {
	res, err := s.bridge.Execute(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(res.Structured, out); err != nil {
		return &bridge.ParseError{Err: err}
	}
	return nil
}

// executeText runs a free-text request.
func (s *Service) executeText(ctx context.Context, req bridge.Request) (string, error) {
	res, err := s.bridge.Execute(ctx, req)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// AnalyzeBusinessProfile suggests a niche, audience and tone for a business.
func (s *Service) AnalyzeBusinessProfile(ctx context.Context, name, city, description string) (*content.ProfileAnalysis, error) {
	prompt := fmt.Sprintf(
		"Analyze this business: %s in %s. Description: %s. Define the ideal niche, target audience and tone of voice for social media.",
		name, city, description,
	)
	var out content.ProfileAnalysis
	if err := s.executeInto(ctx, bridge.Request{
		Model:  modelFlash,
		Prompt: prompt,
		Schema: profileAnalysisSchema,
	}, &out); err != nil {
		return nil, err
	}
	out.Niche = sanitize.Clean(out.Niche)
	out.Audience = sanitize.Clean(out.Audience)
	out.Tone = sanitize.Clean(out.Tone)
	return &out, nil
}

// GeneratePost creates one ready-to-publish asset for a topic.
func (s *Service) GeneratePost(ctx context.Context, profile content.BusinessProfile, topic string, postType content.PostType, goal string) (*content.GeneratedContent, error) {
	prompt := fmt.Sprintf(
		"Client: %s (%s). Audience: %s. Topic: %s. Format: %s. Goal: %s. Generate a ready-to-use post in natural human language.",
		profile.BusinessName, profile.Niche, profile.Audience, topic, postType, goal,
	)
	return s.generateAsset(ctx, prompt, postType)
}

// RemixContent rewrites a reference text entirely for the user's business,
// keeping the reference's structure but none of its wording.
func (s *Service) RemixContent(ctx context.Context, profile content.BusinessProfile, sourceText string, postType content.PostType) (*content.GeneratedContent, error) {
	prompt := fmt.Sprintf(
		"Rewrite this reference text completely for the business %s (niche: %s, tone: %s), keeping its viral structure but replacing every example and term, guaranteed original. Output format: %s. Reference: %q",
		profile.BusinessName, profile.Niche, profile.Tone, postType, sourceText,
	)
	return s.generateAsset(ctx, prompt, postType)
}

func (s *Service) generateAsset(ctx context.Context, prompt string, postType content.PostType) (*content.GeneratedContent, error) {
	var out content.GeneratedContent
	if err := s.executeInto(ctx, bridge.Request{
		Model:             modelFlash,
		Prompt:            prompt,
		Schema:            generatedContentSchema,
		SystemInstruction: systemCore,
	}, &out); err != nil {
		return nil, err
	}
	out.Hook = sanitize.Clean(out.Hook)
	out.Caption = sanitize.Clean(out.Caption)
	out.CTA = sanitize.Clean(out.CTA)
	out.Hashtags = sanitize.CleanAll(out.Hashtags)
	out.ImageSuggestion = sanitize.Clean(out.ImageSuggestion)
	out.BestTime = sanitize.Clean(out.BestTime)
	out.Type = postType
	return &out, nil
}

// MultiplyContent adapts one asset into a reels script, a story sequence
// and a LinkedIn text.
func (s *Service) MultiplyContent(ctx context.Context, profile content.BusinessProfile, original content.GeneratedContent) (*content.ContentVariants, error) {
	prompt := fmt.Sprintf(
		"Act as a social media chief editor. Based on this post: %q from client %s (tone: %s), create exactly: a 30s spoken reels script, a sequence of 3 interactive stories with a poll, and a short provocative LinkedIn text.",
		original.Caption, profile.BusinessName, profile.Tone,
	)
	var out content.ContentVariants
	if err := s.executeInto(ctx, bridge.Request{
		Model:             modelFlash,
		Prompt:            prompt,
		Schema:            contentVariantsSchema,
		SystemInstruction: systemCore,
	}, &out); err != nil {
		return nil, err
	}
	out.ReelsScript = sanitize.Clean(out.ReelsScript)
	out.StorySequence = sanitize.CleanAll(out.StorySequence)
	out.LinkedInText = sanitize.Clean(out.LinkedInText)
	return &out, nil
}

// GenerateCalendar plans a week or month of content slots.
func (s *Service) GenerateCalendar(ctx context.Context, profile content.BusinessProfile, plan string, duration content.CalendarDuration) ([]content.CalendarDay, error) {
	prompt := fmt.Sprintf(
		"Generate a content plan for %s (%s). Duration: %s. Plan: %s. Suggest posts with ISO date (YYYY-MM-DD), weekday, topic, format (POST, REELS, STORY) and a briefing.",
		profile.BusinessName, profile.Niche, duration, plan,
	)
	var out []content.CalendarDay
	if err := s.executeInto(ctx, bridge.Request{
		Model:             modelFlash,
		Prompt:            prompt,
		Schema:            calendarSchema,
		SystemInstruction: systemCore,
	}, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Topic = sanitize.Clean(out[i].Topic)
		out[i].Brief = sanitize.Clean(out[i].Brief)
		out[i].Day = sanitize.Clean(out[i].Day)
	}
	return out, nil
}

// DecisionMatrix reviews completed posts and decides, per topic or format,
// whether to repeat, adjust or stop.
func (s *Service) DecisionMatrix(ctx context.Context, profile content.BusinessProfile, records []content.CalendarDay) (string, error) {
	done := make([]content.CalendarDay, 0, len(records))
	for _, r := range records {
		if r.Status == "done" {
			done = append(done, r)
		}
	}
	payload, err := json.Marshal(done)
	if err != nil {
		return "", fmt.Errorf("assistant: marshal records: %w", err)
	}
	prompt := fmt.Sprintf(
		"Review the completed posts of %s: %s. For each post type or topic decide: REPEAT, ADJUST or STOP. One short paragraph per decision.",
		profile.BusinessName, payload,
	)
	return s.executeText(ctx, bridge.Request{Model: modelPro, Prompt: prompt, SystemInstruction: systemCore})
}

// SuggestTodayAction gives a single direct suggestion of what to post today.
func (s *Service) SuggestTodayAction(ctx context.Context, profile content.BusinessProfile) (string, error) {
	prompt := fmt.Sprintf(
		"Niche: %s. What should be posted TODAY to drive sales or authority? Give a single direct suggestion.",
		profile.Niche,
	)
	return s.executeText(ctx, bridge.Request{Model: modelFlash, Prompt: prompt, SystemInstruction: systemCore})
}

// RepurposeContent transforms existing content into a new format while
// keeping the brand's tone.
func (s *Service) RepurposeContent(ctx context.Context, profile content.BusinessProfile, body, format string) (string, error) {
	prompt := fmt.Sprintf(
		"Transform this content into a new format: %s. Original content: %q. Keep the tone of voice of the brand %s.",
		format, body, profile.BusinessName,
	)
	return s.executeText(ctx, bridge.Request{Model: modelFlash, Prompt: prompt})
}

// DashboardFeedback reviews tracked metrics as a growth strategist.
func (s *Service) DashboardFeedback(ctx context.Context, profile content.BusinessProfile, metrics []content.DashboardMetric) (string, error) {
	payload, err := json.Marshal(metrics)
	if err != nil {
		return "", fmt.Errorf("assistant: marshal metrics: %w", err)
	}
	prompt := fmt.Sprintf(
		"As a growth strategist, review the numbers of %s: %s. Give practical, direct feedback on performance.",
		profile.BusinessName, payload,
	)
	return s.executeText(ctx, bridge.Request{Model: modelPro, Prompt: prompt})
}

// SuggestDashboardGoals proposes three strategic KPIs for the business.
func (s *Service) SuggestDashboardGoals(ctx context.Context, profile content.BusinessProfile) ([]content.GoalSuggestion, error) {
	prompt := fmt.Sprintf("Suggest 3 strategic KPI goals for %s (%s).", profile.BusinessName, profile.Niche)
	var out []content.GoalSuggestion
	if err := s.executeInto(ctx, bridge.Request{
		Model:  modelFlash,
		Prompt: prompt,
		Schema: goalSuggestionsSchema,
	}, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Label = sanitize.Clean(out[i].Label)
	}
	return out, nil
}

// DeepAudit audits the content strategy against the topic history.
func (s *Service) DeepAudit(ctx context.Context, profile content.BusinessProfile, history []string) (string, error) {
	prompt := fmt.Sprintf(
		"Run a deep audit of the content strategy of %s. Topic history: %s. Identify patterns and improvements.",
		profile.BusinessName, strings.Join(history, ", "),
	)
	return s.executeText(ctx, bridge.Request{Model: modelPro, Prompt: prompt})
}

// ManagementDiagnosis produces a full strategic diagnosis from metrics,
// goals, post history and notes.
func (s *Service) ManagementDiagnosis(ctx context.Context, profile content.BusinessProfile, metrics []content.DashboardMetric, goals []content.Goal, history []content.HistoryItem, notes []content.Note) (string, error) {
	topics := make([]string, len(history))
	for i, h := range history {
		topics[i] = h.Topic
	}
	ideas := make([]string, len(notes))
	for i, n := range notes {
		ideas[i] = n.Content
	}
	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		return "", fmt.Errorf("assistant: marshal metrics: %w", err)
	}
	goalsJSON, err := json.Marshal(goals)
	if err != nil {
		return "", fmt.Errorf("assistant: marshal goals: %w", err)
	}
	prompt := fmt.Sprintf(
		"Full strategic diagnosis for %s. Metrics: %s Goals: %s Posts: %s Notes: %s",
		profile.BusinessName, metricsJSON, goalsJSON, strings.Join(topics, "; "), strings.Join(ideas, "; "),
	)
	return s.executeText(ctx, bridge.Request{Model: modelPro, Prompt: prompt})
}

// StrategicResearch answers a market question with search grounding; the
// bridge appends any citation sources to the returned text.
func (s *Service) StrategicResearch(ctx context.Context, profile content.BusinessProfile, query string) (string, error) {
	prompt := fmt.Sprintf("Market and trend research for %s: %s", profile.BusinessName, query)
	return s.executeText(ctx, bridge.Request{
		Model:  modelPro,
		Prompt: prompt,
		Tools:  []genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
}
