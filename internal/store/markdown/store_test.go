package markdownstore_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/brainstorm/internal/domain"
	markdownstore "github.com/gosuda/brainstorm/internal/store/markdown"
)

func newTestStore(t *testing.T) *markdownstore.Store {
	t.Helper()

	store, err := markdownstore.New(t.TempDir())
	require.NoError(t, err)
	return store
}

func testAgent(name string) *domain.Agent {
	return &domain.Agent{
		Name:         name,
		Service:      "mock",
		Model:        "AlwaysReturns",
		SystemPrompt: "You are " + name + ".",
	}
}

func testSession(id string, agents ...domain.Agent) *domain.Session {
	return domain.NewSession(
		id,
		time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC),
		domain.Premise{ID: id, Content: "Invent a better bicycle."},
		agents,
	)
}

func TestStore_AgentRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	agent := testAgent("Researcher")

	require.NoError(t, store.SaveAgent("researcher", agent))

	got, err := store.LoadAgent("researcher")
	require.NoError(t, err)
	assert.Equal(t, agent, got)
}

func TestStore_LoadAgent_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)

		_, err := store.LoadAgent("nope")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		path := filepath.Join(store.BasePath(), "AgentTemplates", "empty.md")
		require.NoError(t, os.WriteFile(path, []byte("   \n"), 0o644))

		_, err := store.LoadAgent("empty")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrBadFormat)
	})

	t.Run("missing required property", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		doc := "<aistorm type=\"agent\" name=\"Ghost\" model=\"m\" />\n\nprompt"
		path := filepath.Join(store.BasePath(), "AgentTemplates", "ghost.md")
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		_, err := store.LoadAgent("ghost")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrBadFormat)
		assert.Contains(t, err.Error(), "missing required property: service")
	})
}

func TestStore_SessionRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	session := testSession("jam-1", *testAgent("A"), *testAgent("B"))
	session.AddMessage(domain.Message{
		Author:    "A",
		Timestamp: time.Date(2026, 2, 2, 8, 1, 0, 0, time.UTC),
		Content:   "## [A]:\n\nFirst thought.",
	})
	session.AddMessage(domain.Message{
		Author:    domain.HumanAuthor,
		Timestamp: time.Date(2026, 2, 2, 8, 2, 0, 0, time.UTC),
		Content:   "## [Human]:\n\nKeep going.",
	})

	require.NoError(t, store.SaveSession("jam-1", session))

	got, err := store.LoadSession("jam-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, session.Created, got.Created)
	assert.Equal(t, session.Premise, got.Premise)
	assert.Equal(t, session.Agents, got.Agents)
	assert.Equal(t, session.Messages, got.Messages)
}

func TestStore_LoadSession_MandatorySegments(t *testing.T) {
	t.Parallel()

	t.Run("missing premise is fatal", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		doc := "<aistorm type=\"session\" created=\"2026-02-02T08:00:00\" />\n\n# Session s"
		path := filepath.Join(store.BasePath(), "Sessions", "s.session.md")
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		_, err := store.LoadSession("s")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrBadFormat)
		assert.Contains(t, err.Error(), "premise")
	})

	t.Run("missing session header is fatal", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)
		doc := "<aistorm type=\"premise\" />\n\nThe premise."
		path := filepath.Join(store.BasePath(), "Sessions", "s.session.md")
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		_, err := store.LoadSession("s")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrBadFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		store := newTestStore(t)

		_, err := store.LoadSession("absent")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestStore_LoadSession_SkipsMalformedEntries(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	doc := "<aistorm type=\"session\" created=\"2026-02-02T08:00:00\" />\n\n# Session s\n\n" +
		"<aistorm type=\"premise\" />\n\nThe premise.\n\n" +
		"<aistorm type=\"agent\" name=\"Good\" service=\"mock\" model=\"m\" />\n\nok prompt\n\n" +
		"<aistorm type=\"agent\" name=\"Bad\" model=\"m\" />\n\nno service property\n\n" +
		"<aistorm type=\"message\" from=\"Good\" timestamp=\"2026-02-02T08:01:00\" />\n\nhello\n\n" +
		"<aistorm type=\"message\" from=\"Good\" timestamp=\"not-a-time\" />\n\nbroken"
	path := filepath.Join(store.BasePath(), "Sessions", "s.session.md")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	session, err := store.LoadSession("s")
	require.NoError(t, err)

	// The malformed agent and message are skipped, not fatal.
	require.Len(t, session.Agents, 1)
	assert.Equal(t, "Good", session.Agents[0].Name)
	require.Len(t, session.Messages, 1)
	assert.Equal(t, "hello", session.Messages[0].Content)
}

func TestStore_SaveSession_DocumentOrder(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	session := testSession("ordered", *testAgent("A"), *testAgent("B"))
	session.AddMessage(domain.Message{
		Author:    "A",
		Timestamp: time.Date(2026, 2, 2, 8, 1, 0, 0, time.UTC),
		Content:   "first",
	})

	require.NoError(t, store.SaveSession("ordered", session))

	raw, err := os.ReadFile(filepath.Join(store.BasePath(), "Sessions", "ordered.session.md"))
	require.NoError(t, err)
	text := string(raw)

	sessionPos := indexOf(t, text, "type=\"session\"")
	premisePos := indexOf(t, text, "type=\"premise\"")
	agentPos := indexOf(t, text, "type=\"agent\"")
	messagePos := indexOf(t, text, "type=\"message\"")

	assert.Less(t, sessionPos, premisePos)
	assert.Less(t, premisePos, agentPos)
	assert.Less(t, agentPos, messagePos)
}

func TestStore_ListOperations(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	require.NoError(t, store.SaveAgent("a", testAgent("A")))
	require.NoError(t, store.SaveAgent("b", testAgent("B")))
	require.NoError(t, store.SaveSession("s1", testSession("s1", *testAgent("A"))))

	// A broken session document must not sink the listing.
	broken := filepath.Join(store.BasePath(), "Sessions", "broken.session.md")
	require.NoError(t, os.WriteFile(broken, []byte("<aistorm type=\"premise\" />\n\nno header"), 0o644))

	agents, err := store.ListAgentTemplates()
	require.NoError(t, err)
	assert.Len(t, agents, 2)

	sessions, err := store.ListSessions()
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "s1", sessions[0].ID)

	assert.True(t, store.SessionExists("s1"))
	assert.False(t, store.SessionExists("missing"))
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()

	idx := strings.Index(haystack, needle)
	require.GreaterOrEqual(t, idx, 0, "expected %q in document", needle)
	return idx
}
