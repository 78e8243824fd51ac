// Package ai turns raw posting and resume text into structured records by
// prompting a language model and validating its output against JSON schemas.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"log/slog"

	"github.com/qri-io/jsonschema"

	"github.com/jobdeck/jobdeck/internal/config"
	"github.com/jobdeck/jobdeck/pkg/models"
	"github.com/jobdeck/jobdeck/pkg/ollama"
)

// LLM is the slice of the ollama client the engine needs.
type LLM interface {
	Generate(ctx context.Context, model string, prompt string) (ollama.GenerateResult, error)
}

// TagSuggestion is one AI-suggested tag for a posting.
type TagSuggestion struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Color    string `json:"color,omitempty"`
}

// IndustrySuggestion is the AI-suggested industry for a posting.
type IndustrySuggestion struct {
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// ParseResult is the structured response we expect from the LLM for a posting.
type ParseResult struct {
	Title        string              `json:"title"`
	CompanyName  string              `json:"company_name"`
	ApplyEmail   string              `json:"apply_email"`
	EmailSubject string              `json:"email_subject,omitempty"`
	EmailBody    string              `json:"email_body,omitempty"`
	Industry     *IndustrySuggestion `json:"industry,omitempty"`
	Tags         []TagSuggestion     `json:"tags"`
	Requirements models.Requirements `json:"requirements"`
	Confidence   *float64            `json:"confidence,omitempty"`

	// Raw captures the original model output for auditing/logging.
	Raw string `json:"-"`
}

// ResumeProfile is the structured response we expect from the LLM for a resume.
type ResumeProfile struct {
	Name            string   `json:"name,omitempty"`
	Email           string   `json:"email,omitempty"`
	Summary         string   `json:"summary,omitempty"`
	YearsExperience float64  `json:"years_experience,omitempty"`
	Skills          []string `json:"skills"`
	Education       string   `json:"education,omitempty"`
	Location        string   `json:"location,omitempty"`

	Raw string `json:"-"`
}

// Engine wraps an LLM client and provides extraction helpers.
type Engine struct {
	client LLM
	cfg    config.EngineConfig
	logger *slog.Logger

	postingSchema *jsonschema.Schema
	resumeSchema  *jsonschema.Schema
}

// NewEngine creates a new AI engine and compiles the output schemas.
func NewEngine(client LLM, cfg config.EngineConfig, logger *slog.Logger) (*Engine, error) {
	if client == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.MinConfidence <= 0 {
		cfg.MinConfidence = 0.5
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	postingSchema := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(postingSchemaJSON), postingSchema); err != nil {
		return nil, fmt.Errorf("compile posting schema: %w", err)
	}
	resumeSchema := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(resumeSchemaJSON), resumeSchema); err != nil {
		return nil, fmt.Errorf("compile resume schema: %w", err)
	}

	return &Engine{
		client:        client,
		cfg:           cfg,
		logger:        logger,
		postingSchema: postingSchema,
		resumeSchema:  resumeSchema,
	}, nil
}

// ParsePosting prompts the model with the raw posting text and returns the
// validated structured result.
func (e *Engine) ParsePosting(ctx context.Context, rawText string) (*ParseResult, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, errors.New("empty posting text")
	}

	prompt, err := ollama.RenderTemplate(postingPromptTemplate, map[string]any{"Raw": rawText})
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	ctxReq, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	out, err := e.client.Generate(ctxReq, e.cfg.Model, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	j := extractJSON(out.Text)
	if j == "" {
		return nil, errors.New("no JSON object found in response")
	}

	if err := e.validate(ctxReq, e.postingSchema, j); err != nil {
		e.logger.Warn("posting parse rejected by schema", "error", err, "raw", out.Text)
		return nil, err
	}

	var res ParseResult
	if err := json.Unmarshal([]byte(j), &res); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	res.Raw = out.Text

	if res.Confidence == nil {
		assessed := assessConfidence(&res)
		res.Confidence = &assessed
	}
	if *res.Confidence < e.cfg.MinConfidence {
		e.logger.Warn("low confidence posting parse", "confidence", *res.Confidence, "title", res.Title)
	}

	if res.Tags == nil {
		res.Tags = []TagSuggestion{}
	}
	if res.Requirements.Skills == nil {
		res.Requirements.Skills = []string{}
	}

	return &res, nil
}

// ParseResume prompts the model with the raw resume text and returns the
// validated structured profile.
func (e *Engine) ParseResume(ctx context.Context, rawText string) (*ResumeProfile, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, errors.New("empty resume text")
	}

	prompt, err := ollama.RenderTemplate(resumePromptTemplate, map[string]any{"Raw": rawText})
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	ctxReq, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	out, err := e.client.Generate(ctxReq, e.cfg.Model, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	j := extractJSON(out.Text)
	if j == "" {
		return nil, errors.New("no JSON object found in response")
	}

	if err := e.validate(ctxReq, e.resumeSchema, j); err != nil {
		e.logger.Warn("resume parse rejected by schema", "error", err, "raw", out.Text)
		return nil, err
	}

	var profile ResumeProfile
	if err := json.Unmarshal([]byte(j), &profile); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	profile.Raw = out.Text
	if profile.Skills == nil {
		profile.Skills = []string{}
	}

	return &profile, nil
}

func (e *Engine) validate(ctx context.Context, schema *jsonschema.Schema, doc string) error {
	verrs, err := schema.ValidateBytes(ctx, []byte(doc))
	if err != nil {
		return fmt.Errorf("schema validate error: %w", err)
	}
	if len(verrs) > 0 {
		var sb strings.Builder
		for _, v := range verrs {
			sb.WriteString(v.Message)
			sb.WriteString("; ")
		}
		return fmt.Errorf("response does not match schema: %s", sb.String())
	}

	return nil
}

// extractJSON returns the substring from the first '{' to the last '}' in the input.
// This is a pragmatic approach to handle model outputs that wrap JSON in text or markdown.
func extractJSON(s string) string {
	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first == -1 || last == -1 || last < first {
		return ""
	}
	return s[first : last+1]
}

// assessConfidence returns a heuristic score when the model did not provide one.
func assessConfidence(r *ParseResult) float64 {
	score := 0.0
	if strings.TrimSpace(r.Title) != "" {
		score += 0.4
	}
	if strings.TrimSpace(r.ApplyEmail) != "" {
		score += 0.3
	}
	if len(r.Tags) > 0 || len(r.Requirements.Skills) > 0 {
		score += 0.3
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
