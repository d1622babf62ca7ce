package llm

//go:generate go run go.uber.org/mock/mockgen -source=./assistant.go -destination=./mocks/assistant_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"hotelops/config"
	"hotelops/infras/otel"
	"hotelops/shared/constant"
	"strings"
)

// InquiryAnalysis is the translation and summary of a prospective guest message.
type InquiryAnalysis struct {
	MessageEnglish   string `json:"messageEnglish"`
	MessageAmharic   string `json:"messageAmharic"`
	OriginalLanguage string `json:"originalLanguage"`
	Summary          string `json:"summary"`
}

// MaintenanceAnalysis classifies a guest maintenance message.
type MaintenanceAnalysis struct {
	Category       string `json:"category"`
	Priority       string `json:"priority"`
	Summary        string `json:"summary"`
	SummaryAmharic string `json:"summaryAmharic"`
	MessageAmharic string `json:"messageAmharic"`
}

// Assistant is the text analysis capability used by inquiry and maintenance intake.
// Callers own the fallback when an error is returned.
type Assistant interface {
	AnalyzeInquiry(ctx context.Context, name, message string) (InquiryAnalysis, error)
	CategorizeMaintenance(ctx context.Context, message string) (MaintenanceAnalysis, error)
}

type assistantImpl struct {
	client *client
	otel   otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) Assistant {
	llmCfg := cfg.External.LLM

	return &assistantImpl{
		client: newClient(llmCfg.BaseURL, llmCfg.APIKey, llmCfg.Model, llmCfg.RequestsPerSecond, llmCfg.TimeoutSeconds, otl),
		otel:   otl,
	}
}

func (a *assistantImpl) AnalyzeInquiry(ctx context.Context, name, message string) (res InquiryAnalysis, err error) {
	ctx, scope := a.otel.NewScope(ctx, constant.OtelLLMScopeName, constant.OtelLLMScopeName+".AnalyzeInquiry")
	defer scope.End()
	defer scope.TraceIfError(&err)

	reply, err := a.client.complete(ctx, inquiryPrompt, fmt.Sprintf("Name: %s\nMessage: %s", name, message))
	if err != nil {
		return res, fmt.Errorf("failed to analyze inquiry: %w", err)
	}

	if err = decodeJSON(reply, &res); err != nil {
		return res, err
	}

	if res.MessageEnglish == "" {
		res.MessageEnglish = message
	}

	if res.MessageAmharic == "" {
		res.MessageAmharic = message
	}

	return res, nil
}

func (a *assistantImpl) CategorizeMaintenance(ctx context.Context, message string) (res MaintenanceAnalysis, err error) {
	ctx, scope := a.otel.NewScope(ctx, constant.OtelLLMScopeName, constant.OtelLLMScopeName+".CategorizeMaintenance")
	defer scope.End()
	defer scope.TraceIfError(&err)

	reply, err := a.client.complete(ctx, maintenancePrompt, message)
	if err != nil {
		return res, fmt.Errorf("failed to categorize maintenance: %w", err)
	}

	if err = decodeJSON(reply, &res); err != nil {
		return res, err
	}

	if res.SummaryAmharic == "" {
		res.SummaryAmharic = res.Summary
	}

	if res.MessageAmharic == "" {
		res.MessageAmharic = message
	}

	return res, nil
}

// decodeJSON tolerates replies wrapped in a markdown code fence.
func decodeJSON(reply string, out any) error {
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```json")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")

	if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), out); err != nil {
		return fmt.Errorf("failed to decode llm reply: %w", err)
	}

	return nil
}

const inquiryPrompt = `You are a hotel inquiry assistant for Ethiopian hotels.
You receive messages from potential guests who want to inquire about booking rooms, services, pricing, or general information.

Your tasks:
1. Detect the original language of the message
2. Translate the message to English (if not already in English)
3. Translate the message to Amharic (if not already in Amharic)
4. Create a brief summary of the inquiry in English

Respond in JSON format with:
{
  "messageEnglish": "...",
  "messageAmharic": "...",
  "originalLanguage": "...",
  "summary": "..."
}

The summary should be a brief professional description in English (1-2 sentences) of what the person is inquiring about.
The originalLanguage should be the detected language code (e.g., "en", "am", "es", etc.).`

const maintenancePrompt = `You are a hotel maintenance categorization assistant for Ethiopian hotels. Analyze maintenance requests and categorize them, then translate to Amharic.

Categories:
- hvac: Air conditioning, heating, ventilation issues
- plumbing: Water leaks, toilet problems, shower issues
- electrical: Light problems, outlet issues, power problems
- furniture: Broken furniture, damaged fixtures
- cleaning: Cleaning requests, housekeeping issues
- appliances: TV, fridge, microwave issues
- other: Anything that doesn't fit above

Priority levels:
- urgent: Safety issues, no water/power, severe problems
- high: Significant discomfort but not dangerous
- medium: Moderate issues that need attention
- low: Minor issues, cosmetic problems

Respond in JSON format with:
{
  "category": "...",
  "priority": "...",
  "summary": "...",
  "summaryAmharic": "...",
  "messageAmharic": "..."
}

The summary should be a brief professional description in English (1-2 sentences).
The summaryAmharic should be the same professional summary translated to Amharic.
The messageAmharic should be the original user message translated to Amharic.`
