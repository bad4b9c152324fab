package assistant

import "github.com/gera-labs/contentcore/internal/genai"

// Output schemas for the structured operations. The provider enforces
// conformance; these describe the shape only.

var profileAnalysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"niche":    {Type: genai.TypeString},
		"audience": {Type: genai.TypeString},
		"tone":     {Type: genai.TypeString},
	},
	Required: []string{"niche", "audience", "tone"},
}

var generatedContentSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"hook":            {Type: genai.TypeString},
		"caption":         {Type: genai.TypeString},
		"cta":             {Type: genai.TypeString},
		"hashtags":        {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"imageSuggestion": {Type: genai.TypeString},
		"bestTime":        {Type: genai.TypeString},
	},
	Required: []string{"hook", "caption", "cta", "hashtags", "imageSuggestion", "bestTime"},
}

var contentVariantsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"reelsScript":   {Type: genai.TypeString, Description: "Complete narrated script"},
		"storySequence": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "Text for 3 stories"},
		"linkedinText":  {Type: genai.TypeString, Description: "Short corporate text"},
	},
	Required: []string{"reelsScript", "storySequence", "linkedinText"},
}

var calendarSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"id":     {Type: genai.TypeString},
			"date":   {Type: genai.TypeString},
			"day":    {Type: genai.TypeString},
			"topic":  {Type: genai.TypeString},
			"type":   {Type: genai.TypeString, Enum: []string{"POST", "REELS", "STORY"}},
			"brief":  {Type: genai.TypeString},
			"status": {Type: genai.TypeString, Enum: []string{"pending", "done"}},
		},
		Required: []string{"id", "date", "day", "topic", "type", "brief", "status"},
	},
}

var goalSuggestionsSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"label":  {Type: genai.TypeString},
			"target": {Type: genai.TypeNumber},
			"type":   {Type: genai.TypeString, Enum: []string{"likes", "views", "conversions"}},
		},
		Required: []string{"label", "target", "type"},
	},
}
