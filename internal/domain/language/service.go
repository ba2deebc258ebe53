package language

import (
	"context"
	"strings"
	"sync"
)

// Service serves the active languages from a process-wide snapshot that is
// filled by Load and replaced on every Reload.
type Service struct {
	repo Repository

	mu     sync.RWMutex
	active []Language
	byCode map[string]Language
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, byCode: map[string]Language{}}
}

func (s *Service) Load(ctx context.Context) error {
	languages, err := s.repo.ListActive(ctx)
	if err != nil {
		return err
	}

	byCode := make(map[string]Language, len(languages))
	for _, lang := range languages {
		byCode[lang.Code] = lang
	}

	s.mu.Lock()
	s.active = languages
	s.byCode = byCode
	s.mu.Unlock()
	return nil
}

// Active returns a copy of the snapshot.
func (s *Service) Active() []Language {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Language, len(s.active))
	copy(result, s.active)
	return result
}

func (s *Service) Get(code string) (Language, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lang, ok := s.byCode[normalizeCode(code)]
	if !ok {
		return Language{}, ErrLanguageNotFound
	}
	return lang, nil
}

func (s *Service) IsActive(code string) bool {
	_, err := s.Get(code)
	return err == nil
}

// SetActive toggles a language in the store and refreshes the snapshot.
func (s *Service) SetActive(ctx context.Context, code string, active bool) error {
	updated, err := s.repo.SetActive(ctx, normalizeCode(code), active)
	if err != nil {
		return err
	}
	if !updated {
		return ErrLanguageNotFound
	}
	return s.Load(ctx)
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}
