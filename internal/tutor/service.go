package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/abhisek/examiz/internal/llm"
	"github.com/abhisek/examiz/internal/question"
)

// Purpose tags tutor requests in the LLM request log.
const Purpose = "question-explanation"

// Config tunes tutor requests.
type Config struct {
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// DefaultConfig returns the request defaults.
func DefaultConfig() Config {
	return Config{MaxTokens: 600, Temperature: 0.2}
}

// Input is a question under review with the learner's selection.
type Input struct {
	Question question.Question
	// Selected is "" when unanswered.
	Selected string
}

// Explanation is the tutor's answer.
type Explanation struct {
	Summary    string `json:"summary"`
	WhyCorrect string `json:"why_correct"`
	WhyWrong   string `json:"why_wrong"`
	KeyConcept string `json:"key_concept"`
}

// Service explains questions with an LLM. Results are cached per
// question and selection for the life of the service.
type Service struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger

	mu    sync.Mutex
	cache map[cacheKey]*Explanation
}

type cacheKey struct {
	id       int
	selected string
}

// NewService creates a tutor over provider.
func NewService(provider llm.Provider, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{provider: provider, cfg: cfg, log: log, cache: make(map[cacheKey]*Explanation)}
}

// Explain returns an explanation for in.
func (s *Service) Explain(ctx context.Context, in Input) (*Explanation, error) {
	key := cacheKey{id: in.Question.ID, selected: in.Selected}
	s.mu.Lock()
	if e, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return e, nil
	}
	s.mu.Unlock()

	ctx = llm.WithPurpose(ctx, Purpose)
	req := llm.UserPrompt(systemPrompt, buildUserMessage(in))
	req.Schema = ExplanationSchema
	req.MaxTokens = s.cfg.MaxTokens
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("explain question %d: %w", in.Question.ID, err)
	}

	var e Explanation
	if err := json.Unmarshal(resp.Content, &e); err != nil {
		return nil, fmt.Errorf("parse explanation: %w", err)
	}
	s.log.Debug("explained question", zap.Int("question_id", in.Question.ID), zap.String("model", resp.Model))

	s.mu.Lock()
	s.cache[key] = &e
	s.mu.Unlock()
	return &e, nil
}
