package contextstore

import (
	"log/slog"
	"os"

	"contextbot/app/config"

	"github.com/samber/do"
	"github.com/samber/oops"
)

// Service holds the static context document, loaded once at startup and
// read-only afterwards. Loading failure is fatal: every conversation
// depends on this text.
type Service struct {
	cfg  *config.Config
	text string
}

func New(di *do.Injector) (*Service, error) {
	return NewWithConfig(do.MustInvoke[*config.Config](di))
}

func NewWithConfig(cfg *config.Config) (*Service, error) {
	data, err := os.ReadFile(cfg.Context.Path)
	if err != nil {
		return nil, oops.Errorf("failed to read context file %q: %w", cfg.Context.Path, err)
	}

	slog.Info("Context loaded", "path", cfg.Context.Path, "size", len(data))

	return &Service{
		cfg:  cfg,
		text: string(data),
	}, nil
}

func (s *Service) Text() string {
	return s.text
}

// Inject returns the context as injected into a conversation, capped to
// context.max_inject_chars characters when the cap is positive.
func (s *Service) Inject() string {
	limit := s.cfg.Context.MaxInjectChars
	if limit <= 0 {
		return s.text
	}

	runes := []rune(s.text)
	if len(runes) <= limit {
		return s.text
	}

	return string(runes[:limit])
}
