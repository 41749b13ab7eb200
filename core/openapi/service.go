package openapi

import (
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/rs/zerolog"
)

// Service caches the generated document and serves it as JSON. It
// implements swag.Swagger so the document can be registered with swag.
type Service struct {
	logger zerolog.Logger

	gen     atomic.Pointer[Generator]
	cache   atomic.Pointer[cachedDoc]
	version atomic.Uint64 // bumped on every invalidation
	mu      sync.Mutex    // Protects cache generation
}

// cachedDoc holds a generated document with its JSON rendering.
type cachedDoc struct {
	doc         *openapi3.T
	json        []byte
	generatedAt time.Time
	version     uint64
}

// ServiceConfig contains configuration for the OpenAPI service.
type ServiceConfig struct {
	Generator *Generator
	Logger    zerolog.Logger
}

// NewService creates a new OpenAPI service.
func NewService(cfg ServiceConfig) *Service {
	s := &Service{logger: cfg.Logger}
	s.gen.Store(cfg.Generator)
	return s
}

// Document returns the cached document, generating it on first use.
func (s *Service) Document() (*openapi3.T, error) {
	c, err := s.load()
	if err != nil {
		return nil, err
	}
	return c.doc, nil
}

// JSON returns the cached document rendered as JSON.
func (s *Service) JSON() ([]byte, error) {
	c, err := s.load()
	if err != nil {
		return nil, err
	}
	return c.json, nil
}

// ReadDoc implements swag.Swagger.
func (s *Service) ReadDoc() string {
	b, err := s.JSON()
	if err != nil {
		s.logger.Error().Err(err).Msg("OpenAPI document unavailable")
		return "{}"
	}
	return string(b)
}

// GeneratedAt returns when the cached document was built, or the zero
// time if nothing is cached.
func (s *Service) GeneratedAt() time.Time {
	if c := s.current(); c != nil {
		return c.generatedAt
	}
	return time.Time{}
}

// SetGenerator swaps the generator and drops the cached document.
func (s *Service) SetGenerator(g *Generator) {
	s.gen.Store(g)
	s.InvalidateCache()
}

// InvalidateCache forces the next read to regenerate the document.
func (s *Service) InvalidateCache() {
	s.version.Add(1)
	s.cache.Store(nil)
	s.logger.Debug().Msg("OpenAPI cache invalidated")
}

// current returns the cached document unless it predates the last invalidation.
func (s *Service) current() *cachedDoc {
	c := s.cache.Load()
	if c == nil || c.version != s.version.Load() {
		return nil
	}
	return c
}

func (s *Service) load() (*cachedDoc, error) {
	if c := s.current(); c != nil {
		return c, nil
	}

	// Generate with mutex to prevent thundering herd
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.current(); c != nil {
		return c, nil
	}

	version := s.version.Load()
	gen := s.gen.Load()
	if gen == nil {
		return nil, fmt.Errorf("openapi: no generator configured")
	}
	doc, err := gen.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate openapi document: %w", err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal openapi document: %w", err)
	}

	c := &cachedDoc{doc: doc, json: b, generatedAt: time.Now(), version: version}
	s.cache.Store(c)
	s.logger.Debug().
		Str("transformer", gen.Transformer().Name()).
		Int("paths", doc.Paths.Len()).
		Int("schemas", len(doc.Components.Schemas)).
		Msg("OpenAPI document generated")
	return c, nil
}
