// Package advisor is the application core: one Recommend call per
// patient submission, gated on the interactively supplied API key,
// grounded on passages retrieved from the loaded index.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"koyl/internal/domain"
)

// Sentinel errors forming the user-facing taxonomy. Credential and
// validation failures block the submission before any index access or
// network call; everything else is a per-submission request error.
var (
	ErrMissingCredential = errors.New("API key is required")
	ErrMissingCondition  = errors.New("patient condition is required")
	ErrMissingAllergies  = errors.New("allergy profile is required")
)

// GeneratorFactory builds a Generator for an API key. The key is
// supplied per submission and not retained by the service.
type GeneratorFactory func(apiKey string) (domain.Generator, error)

// Service wires the retriever and the generator factory into the
// submission pipeline.
type Service struct {
	retriever    domain.Retriever
	newGenerator GeneratorFactory
}

// NewService creates the advisor service.
func NewService(retriever domain.Retriever, newGenerator GeneratorFactory) *Service {
	return &Service{retriever: retriever, newGenerator: newGenerator}
}

// Recommend runs one submission: credential gate, input validation,
// retrieval, prompt rendering, generation. A failure at any stage
// aborts this submission only; the next call starts clean.
func (s *Service) Recommend(ctx context.Context, apiKey string, req domain.Request) (*domain.Recommendation, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingCredential
	}
	condition := strings.TrimSpace(req.Condition)
	allergies := strings.TrimSpace(req.Allergies)
	if condition == "" {
		return nil, ErrMissingCondition
	}
	if allergies == "" {
		return nil, ErrMissingAllergies
	}

	query := condition + " " + allergies
	sources, err := s.retriever.Retrieve(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retrieving context: %w", err)
	}

	gen, err := s.newGenerator(apiKey)
	if err != nil {
		return nil, fmt.Errorf("constructing generator: %w", err)
	}
	advice, err := gen.Generate(ctx, buildPrompt(condition, allergies, sources))
	if err != nil {
		return nil, fmt.Errorf("generating recommendation: %w", err)
	}
	return &domain.Recommendation{Advice: advice, Sources: sources}, nil
}

// buildPrompt renders the fixed instruction template with the patient
// profile and the retrieved passages in relevance order.
func buildPrompt(condition, allergies string, sources []domain.SearchResult) string {
	var sb strings.Builder
	sb.WriteString("You are a nutrition AI assistant that gives dietary recommendations based on peer-reviewed research.\n")
	sb.WriteString("Given a patient's health condition(s) and allergy profile, provide specific and research-backed nutrition advice.\n")
	sb.WriteString("Use only medically accurate, peer-reviewed information. Cite nutritional reasoning if available.\n\n")
	sb.WriteString("Patient Condition(s): ")
	sb.WriteString(condition)
	sb.WriteString("\nAllergies: ")
	sb.WriteString(allergies)
	sb.WriteString("\n\nContext from medical literature:\n")
	for i, src := range sources {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(src.Chunk.Text)
	}
	sb.WriteString("\n\nWhat are the best dietary recommendations for this patient?\n")
	return sb.String()
}
