// Package locale provides the locale-switching collaborator used by
// contexts.
//
// A Localizer tracks the process-wide active language. SetLanguage matches
// a requested BCP 47 code against the configured supported tags;
// ClearLanguage reverts to a default auto-detected from the environment.
// Change hooks give the host its re-render trigger.
package locale

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// Localizer is the locale-switching contract contexts delegate to.
type Localizer interface {
	// SetLanguage switches the active locale to the best supported match
	// for code.
	SetLanguage(code string) error

	// ClearLanguage reverts to the auto-detected default locale.
	ClearLanguage()

	// Current returns the active locale.
	Current() language.Tag
}

// ChangeHook is invoked after the active locale changes. The host uses
// this to reload whatever presentation depends on the locale.
type ChangeHook func(tag language.Tag)

// Service is the default Localizer implementation.
type Service struct {
	mu        sync.RWMutex
	supported []language.Tag
	matcher   language.Matcher
	fallback  language.Tag
	current   language.Tag
	hooks     []ChangeHook
}

// Option configures a Service.
type Option func(*Service)

// WithSupported sets the supported tags. The first tag is the matcher's
// preferred fallback.
func WithSupported(tags ...language.Tag) Option {
	return func(s *Service) {
		s.supported = tags
	}
}

// WithDefault overrides environment detection for the default locale.
func WithDefault(tag language.Tag) Option {
	return func(s *Service) {
		s.fallback = tag
	}
}

// New creates a localizer. Without options it supports English only and
// defaults to the environment's locale (or English when undetectable).
func New(opts ...Option) *Service {
	s := &Service{
		supported: []language.Tag{language.English},
		fallback:  language.Und,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.fallback == language.Und {
		s.fallback = detectDefault(s.supported)
	}
	s.matcher = language.NewMatcher(s.supported)
	s.current = s.fallback

	return s
}

// SetLanguage switches the active locale to the best supported match for
// code. An unparseable code is an error; a parseable but unsupported code
// resolves to the closest supported tag per language.Matcher.
func (s *Service) SetLanguage(code string) error {
	tag, err := language.Parse(code)
	if err != nil {
		return fmt.Errorf("parsing language %q: %w", code, err)
	}

	matched, _, _ := s.matcher.Match(tag)
	s.setCurrent(matched)
	return nil
}

// ClearLanguage reverts to the auto-detected default locale.
func (s *Service) ClearLanguage() {
	s.setCurrent(s.fallback)
}

// Current returns the active locale.
func (s *Service) Current() language.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// OnChange registers a hook invoked after every effective locale change.
// Setting the already-active locale does not fire hooks.
func (s *Service) OnChange(hook ChangeHook) {
	if hook == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.hooks = append(s.hooks, hook)
}

func (s *Service) setCurrent(tag language.Tag) {
	s.mu.Lock()
	if tag == s.current {
		s.mu.Unlock()
		return
	}
	s.current = tag
	hooks := make([]ChangeHook, len(s.hooks))
	copy(hooks, s.hooks)
	s.mu.Unlock()

	for _, hook := range hooks {
		hook(tag)
	}
}

// detectDefault resolves the environment's locale against the supported
// tags, falling back to the first supported tag.
func detectDefault(supported []language.Tag) language.Tag {
	matcher := language.NewMatcher(supported)

	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		raw := os.Getenv(env)
		if raw == "" || raw == "C" || raw == "POSIX" {
			continue
		}

		// LANG values look like en_US.UTF-8; strip the charset and
		// normalize the separator before parsing.
		raw = strings.SplitN(raw, ".", 2)[0]
		raw = strings.ReplaceAll(raw, "_", "-")

		tag, err := language.Parse(raw)
		if err != nil {
			continue
		}

		matched, _, confidence := matcher.Match(tag)
		if confidence == language.No {
			continue
		}
		return matched
	}

	if len(supported) > 0 {
		return supported[0]
	}
	return language.English
}
