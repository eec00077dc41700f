package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	aiDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stc",
		Subsystem: "ai",
		Name:      "generation_duration_seconds",
		Help:      "Duration of AI question generation requests",
	}, []string{"model"})

	aiFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stc",
		Subsystem: "ai",
		Name:      "generation_failures_total",
		Help:      "Number of AI question generation failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI generator.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIQuestionGenerator implements QuestionGenerator against the OpenAI chat completion API.
type OpenAIQuestionGenerator struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIQuestionGenerator builds a generator using the provided configuration.
func NewOpenAIQuestionGenerator(cfg OpenAIConfig) (*OpenAIQuestionGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	tracer := otel.Tracer("github.com/noah-isme/stc-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	client := openai.NewClientWithConfig(config)

	return &OpenAIQuestionGenerator{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger.With().Str("component", "openai_question_generator").Logger(),
	}, nil
}

// Generate asks the model for questions and validates every returned item.
func (g *OpenAIQuestionGenerator) Generate(parent context.Context, req GenerateRequest) ([]Question, error) {
	count := normalizeCount(req.Count)

	ctx, span := g.tracer.Start(parent, "openai.generate_questions", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
		attribute.String("question.type", string(req.Type)),
		attribute.Int("question.count", count),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: generatorSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildUserPrompt(req.Type, req.Topic, count),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := g.client.CreateChatCompletion(ctx, request)
	aiDuration.WithLabelValues(g.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, g.fail(span, fmt.Errorf("openai generate: %w", err))
	}

	if len(resp.Choices) == 0 {
		return nil, g.fail(span, fmt.Errorf("no choices returned from openai"))
	}

	questions, err := parseGenerationResponse(strings.TrimSpace(resp.Choices[0].Message.Content), req.Type)
	if err != nil {
		return nil, g.fail(span, err)
	}

	if len(questions) > count {
		questions = questions[:count]
	}

	g.logger.Debug().Str("type", string(req.Type)).Int("questions", len(questions)).Int("total_tokens", resp.Usage.TotalTokens).Msg("generated questions")
	return questions, nil
}

func (g *OpenAIQuestionGenerator) fail(span trace.Span, err error) error {
	aiFailures.WithLabelValues(g.cfg.Model).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func generatorSystemPrompt() string {
	return "You write questions for online programming tests. Respond with a JSON object {\"questions\": [...]} where each item has " +
		"question, marks (positive integer) and, for MCQ, options (exactly 4 strings) and correctOption (A-D); for Coding, expectedOutput."
}

func buildUserPrompt(questionType QuestionType, topic string, count int) string {
	builder := strings.Builder{}
	builder.WriteString("# Question Type\n")
	builder.WriteString(string(questionType))
	builder.WriteString("\n\n## Count\n")
	builder.WriteString(fmt.Sprintf("%d", count))
	if strings.TrimSpace(topic) != "" {
		builder.WriteString("\n\n## Topic\n")
		builder.WriteString(strings.TrimSpace(topic))
	}
	builder.WriteString("\nReturn JSON.")
	return builder.String()
}

func parseGenerationResponse(content string, questionType QuestionType) ([]Question, error) {
	type payload struct {
		Questions []Question `json:"questions"`
	}

	var data payload
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return nil, fmt.Errorf("parse generation json: %w", err)
	}

	if len(data.Questions) == 0 {
		return nil, fmt.Errorf("openai returned no questions")
	}

	questions := make([]Question, 0, len(data.Questions))
	for idx, question := range data.Questions {
		question.Type = questionType
		question.CorrectOption = strings.ToUpper(strings.TrimSpace(question.CorrectOption))
		if questionType != QuestionMCQ {
			question.Options = nil
			question.CorrectOption = ""
		}
		if questionType != QuestionCoding {
			question.ExpectedOutput = ""
		}
		if err := validateQuestion(question); err != nil {
			return nil, fmt.Errorf("question %d: %w", idx+1, err)
		}
		questions = append(questions, question)
	}

	return questions, nil
}
