// Package markdownstore persists agent templates and sessions as
// tagged-segment markdown documents on the local filesystem.
//
// Layout, relative to the configured base directory:
//
//	AgentTemplates/<id>.md
//	Sessions/<id>.session.md
//
// There is no file locking. Concurrent saves of the same session id from
// two processes race and the last writer wins.
package markdownstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/brainstorm/internal/domain"
	"github.com/gosuda/brainstorm/internal/markdown"
)

const (
	agentTemplatesDir = "AgentTemplates"
	sessionsDir       = "Sessions"
	agentExt          = ".md"
	sessionExt        = ".session.md"
)

// Store reads and writes markdown documents under a base directory.
type Store struct {
	basePath     string
	agentsPath   string
	sessionsPath string
}

// New creates a Store rooted at basePath, creating the directory tree when
// it does not exist yet.
func New(basePath string) (*Store, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("markdownstore.New: %w", err)
	}

	s := &Store{
		basePath:     abs,
		agentsPath:   filepath.Join(abs, agentTemplatesDir),
		sessionsPath: filepath.Join(abs, sessionsDir),
	}

	for _, dir := range []string{s.agentsPath, s.sessionsPath} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("markdownstore.New: create %s: %w", dir, err)
		}
	}

	log.Info().Str("base_path", abs).Msg("markdown store initialized")
	return s, nil
}

// BasePath returns the absolute storage root.
func (s *Store) BasePath() string {
	return s.basePath
}

func (s *Store) agentPath(id string) string {
	return filepath.Join(s.agentsPath, id+agentExt)
}

func (s *Store) sessionPath(id string) string {
	return filepath.Join(s.sessionsPath, id+sessionExt)
}

// LoadAgent reads and converts an agent template document.
func (s *Store) LoadAgent(id string) (*domain.Agent, error) {
	text, err := s.readFile(s.agentPath(id))
	if err != nil {
		return nil, fmt.Errorf("markdownstore.LoadAgent(%q): %w", id, err)
	}

	segments, err := markdown.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("markdownstore.LoadAgent(%q): %w", id, err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("markdownstore.LoadAgent(%q): document has no segments: %w", id, domain.ErrBadFormat)
	}

	agent, err := segments[0].ToAgent()
	if err != nil {
		return nil, fmt.Errorf("markdownstore.LoadAgent(%q): %w", id, err)
	}
	return agent, nil
}

// SaveAgent writes an agent template document, creating parent directories
// as needed.
func (s *Store) SaveAgent(id string, agent *domain.Agent) error {
	text := markdown.Encode([]markdown.Segment{markdown.FromAgent(agent)})
	if err := s.writeFile(s.agentPath(id), text); err != nil {
		return fmt.Errorf("markdownstore.SaveAgent(%q): %w", id, err)
	}
	log.Debug().Str("agent_id", id).Msg("agent template saved")
	return nil
}

// LoadSession reads and converts a session document.
//
// The single session header and single premise segment are mandatory;
// their absence (or duplication) is fatal. Embedded agent and message
// segments are converted independently: one that fails conversion is
// logged and skipped so that a single bad entry never sinks the whole
// session.
func (s *Store) LoadSession(id string) (*domain.Session, error) {
	text, err := s.readFile(s.sessionPath(id))
	if err != nil {
		return nil, fmt.Errorf("markdownstore.LoadSession(%q): %w", id, err)
	}

	segments, err := markdown.Decode(text)
	if err != nil {
		return nil, fmt.Errorf("markdownstore.LoadSession(%q): %w", id, err)
	}

	headers := markdown.FilterSegments(segments, markdown.TypeSession)
	if len(headers) != 1 {
		return nil, fmt.Errorf("markdownstore.LoadSession(%q): want exactly one session segment, got %d: %w",
			id, len(headers), domain.ErrBadFormat)
	}
	created, err := headers[0].RequiredTimestampUTC("created")
	if err != nil {
		return nil, fmt.Errorf("markdownstore.LoadSession(%q): %w", id, err)
	}

	premises := markdown.FilterSegments(segments, markdown.TypePremise)
	if len(premises) != 1 {
		return nil, fmt.Errorf("markdownstore.LoadSession(%q): want exactly one premise segment, got %d: %w",
			id, len(premises), domain.ErrBadFormat)
	}
	premise := premises[0].ToPremise(id)

	session := domain.NewSession(id, created, *premise, nil)

	for i, seg := range markdown.FilterSegments(segments, markdown.TypeAgent) {
		agent, convErr := seg.ToAgent()
		if convErr != nil {
			log.Warn().Err(convErr).Str("session_id", id).Int("segment", i).
				Msg("skipping malformed agent segment")
			continue
		}
		session.Agents = append(session.Agents, *agent)
	}

	for i, seg := range markdown.FilterSegments(segments, markdown.TypeMessage) {
		msg, convErr := seg.ToMessage()
		if convErr != nil {
			log.Warn().Err(convErr).Str("session_id", id).Int("segment", i).
				Msg("skipping malformed message segment")
			continue
		}
		session.Messages = append(session.Messages, *msg)
	}

	return session, nil
}

// SaveSession writes a session document in the fixed order: session header,
// premise, agents in roster order, messages in append order. Interleaving of
// writes across segment types is not preserved on reload.
func (s *Store) SaveSession(id string, session *domain.Session) error {
	segments := make([]markdown.Segment, 0, 2+len(session.Agents)+len(session.Messages))
	segments = append(segments, markdown.FromSessionHeader(id, session))
	segments = append(segments, markdown.FromPremise(&session.Premise))
	for i := range session.Agents {
		segments = append(segments, markdown.FromAgent(&session.Agents[i]))
	}
	for i := range session.Messages {
		segments = append(segments, markdown.FromMessage(&session.Messages[i]))
	}

	if err := s.writeFile(s.sessionPath(id), markdown.Encode(segments)); err != nil {
		return fmt.Errorf("markdownstore.SaveSession(%q): %w", id, err)
	}
	log.Debug().Str("session_id", id).
		Int("agents", len(session.Agents)).
		Int("messages", len(session.Messages)).
		Msg("session saved")
	return nil
}

// ListAgentTemplates loads every agent template in the store. A template
// that fails to load is logged and skipped.
func (s *Store) ListAgentTemplates() ([]*domain.Agent, error) {
	paths, err := filepath.Glob(filepath.Join(s.agentsPath, "*"+agentExt))
	if err != nil {
		return nil, fmt.Errorf("markdownstore.ListAgentTemplates: %w", err)
	}

	agents := make([]*domain.Agent, 0, len(paths))
	for _, path := range paths {
		id := strings.TrimSuffix(filepath.Base(path), agentExt)
		agent, loadErr := s.LoadAgent(id)
		if loadErr != nil {
			log.Error().Err(loadErr).Str("path", path).Msg("skipping unloadable agent template")
			continue
		}
		agents = append(agents, agent)
	}
	return agents, nil
}

// ListSessions loads every session in the store. A session that fails to
// load is logged and skipped.
func (s *Store) ListSessions() ([]*domain.Session, error) {
	paths, err := filepath.Glob(filepath.Join(s.sessionsPath, "*"+sessionExt))
	if err != nil {
		return nil, fmt.Errorf("markdownstore.ListSessions: %w", err)
	}

	sessions := make([]*domain.Session, 0, len(paths))
	for _, path := range paths {
		id := strings.TrimSuffix(filepath.Base(path), sessionExt)
		session, loadErr := s.LoadSession(id)
		if loadErr != nil {
			log.Error().Err(loadErr).Str("path", path).Msg("skipping unloadable session")
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

// SessionExists reports whether a session document is present on disk.
func (s *Store) SessionExists(id string) bool {
	_, err := os.Stat(s.sessionPath(id))
	return err == nil
}

func (s *Store) readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return "", err
	}
	return string(data), nil
}

func (s *Store) writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
