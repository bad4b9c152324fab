// Package content defines the domain model for the content-production
// assistant: the business profile, generated assets, calendars, metrics,
// goals and notes.
package content

import (
	"time"

	"github.com/google/uuid"
)

// PostType is the format of a generated asset.
type PostType string

const (
	PostTypePost  PostType = "POST"
	PostTypeReels PostType = "REELS"
	PostTypeStory PostType = "STORY"
)

// MetricType identifies a tracked performance metric.
type MetricType string

const (
	MetricLikes       MetricType = "likes"
	MetricViews       MetricType = "views"
	MetricConversions MetricType = "conversions"
)

// CalendarDuration is the span of a generated content plan.
type CalendarDuration string

const (
	DurationWeek  CalendarDuration = "WEEK"
	DurationMonth CalendarDuration = "MONTH"
)

// MetricLabels holds user-facing names for the dashboard metrics.
type MetricLabels struct {
	Likes       string `json:"likes"`
	Views       string `json:"views"`
	Conversions string `json:"conversions"`
}

// BusinessProfile is the user-configured profile all generation is grounded
// on. Persisted through the integrity store by UI collaborators.
type BusinessProfile struct {
	BusinessName string        `json:"businessName"`
	City         string        `json:"city"`
	Niche        string        `json:"niche"`
	Audience     string        `json:"audience"`
	Tone         string        `json:"tone"`
	JobTitle     string        `json:"jobTitle,omitempty"`
	Avatar       string        `json:"avatar,omitempty"`
	MetricLabels *MetricLabels `json:"metricLabels,omitempty"`
}

// ProfileAnalysis is the model's positioning suggestion for a business.
type ProfileAnalysis struct {
	Niche    string `json:"niche"`
	Audience string `json:"audience"`
	Tone     string `json:"tone"`
}

// GeneratedContent is one ready-to-publish asset.
type GeneratedContent struct {
	Hook            string   `json:"hook"`
	Caption         string   `json:"caption"`
	CTA             string   `json:"cta"`
	Hashtags        []string `json:"hashtags"`
	ImageSuggestion string   `json:"imageSuggestion"`
	BestTime        string   `json:"bestTime"`
	Type            PostType `json:"type"`
}

// ContentVariants are cross-format adaptations of one asset.
type ContentVariants struct {
	ReelsScript   string   `json:"reelsScript"`
	StorySequence []string `json:"storySequence"`
	LinkedInText  string   `json:"linkedinText"`
}

// CalendarDay is one planned slot in a content calendar.
type CalendarDay struct {
	ID     string   `json:"id"`
	Date   string   `json:"date"` // ISO YYYY-MM-DD
	Day    string   `json:"day"`
	Topic  string   `json:"topic"`
	Type   PostType `json:"type"`
	Brief  string   `json:"brief"`
	Status string   `json:"status"` // pending | done
}

// HistoryItem records a generated asset for later review.
type HistoryItem struct {
	ID        string           `json:"id"`
	Timestamp int64            `json:"timestamp"`
	Topic     string           `json:"topic"`
	Content   GeneratedContent `json:"content"`
}

// NewHistoryItem creates a history record for a generated asset.
func NewHistoryItem(topic string, c GeneratedContent) HistoryItem {
	return HistoryItem{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UnixMilli(),
		Topic:     topic,
		Content:   c,
	}
}

// DashboardMetric is one day of tracked performance numbers.
type DashboardMetric struct {
	Date        string `json:"date"`
	Likes       int    `json:"likes"`
	Views       int    `json:"views"`
	Conversions int    `json:"conversions"`
}

// Goal is a tracked KPI target.
type Goal struct {
	ID      string     `json:"id"`
	Label   string     `json:"label"`
	Target  float64    `json:"target"`
	Current float64    `json:"current"`
	Type    MetricType `json:"type"`
}

// GoalSuggestion is a model-proposed KPI, before the user adopts it.
type GoalSuggestion struct {
	Label  string  `json:"label"`
	Target float64 `json:"target"`
	Type   string  `json:"type"`
}

// Note is a free-form idea captured by the user.
type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

// NewNote creates a note with a fresh ID and timestamp.
func NewNote(title, body string) Note {
	return Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   body,
		Timestamp: time.Now().UnixMilli(),
	}
}
