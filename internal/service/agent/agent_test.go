package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/sandevgo/dazi/internal/core"
	"github.com/sandevgo/dazi/internal/service/memory"
	"github.com/sandevgo/dazi/internal/storage/jsonfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	system string
	user   string
}

type fakeAI struct {
	replies []string
	err     error
	calls   []call
}

func (f *fakeAI) Complete(ctx context.Context, systemPrompt, userText string) (string, error) {
	f.calls = append(f.calls, call{system: systemPrompt, user: userText})
	if f.err != nil {
		return "", f.err
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r, nil
}

type memCfg struct {
	path string
	max  int
}

func (c memCfg) GetMemoryPath() string { return c.path }
func (c memCfg) GetMaxHistory() int    { return c.max }

func newTestAgent(t *testing.T, ai core.Completer, maxHistory int) (*Agent, *memory.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memory.json")
	store := memory.NewStore(memCfg{path: path, max: maxHistory}, jsonfile.NewRecordFile(path))
	_, err := store.Load(context.Background())
	require.NoError(t, err)

	return NewAgent(ai, store, memory.NewSysPrompt("persona", maxHistory)), store, path
}

func TestAgent_Ask_ParsesAndSanitizes(t *testing.T) {
	ai := &fakeAI{replies: []string{"**Hi** there\n- item one\n- item two"}}
	a, _, _ := newTestAgent(t, ai, 6)

	r, err := a.Ask(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there item one item two", r.Visible)
	assert.Equal(t, "", r.Memory)
	assert.Equal(t, TurnInProgress, a.State())

	require.Len(t, ai.calls, 1)
	assert.Equal(t, "hello", ai.calls[0].user)
	assert.Equal(t, memory.Assemble("persona", core.NewRecord(), 6), ai.calls[0].system)
}

func TestAgent_Ask_SplitsMemory(t *testing.T) {
	ai := &fakeAI{replies: []string{"Hello there\n【记录】note text"}}
	a, _, _ := newTestAgent(t, ai, 6)

	r, err := a.Ask(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, Reply{Visible: "Hello there", Memory: "【记录】note text"}, r)
}

func TestAgent_Turn_CommitsAfterShow(t *testing.T) {
	ai := &fakeAI{replies: []string{"Sure.\n【记录】asked for help"}}
	a, store, path := newTestAgent(t, ai, 6)

	var shown []Reply
	err := a.Turn(context.Background(), "help me", func(r Reply) error {
		// nothing committed yet while the reply is displayed
		assert.Empty(t, store.Snapshot().History)
		shown = append(shown, r)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, shown, 1)
	assert.Equal(t, AwaitingInput, a.State())

	onDisk, err := jsonfile.NewRecordFile(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "【记录】asked for help", onDisk.Archive)
	require.Len(t, onDisk.History, 1)
	assert.Equal(t, core.Turn{User: "help me", AssistantVisible: "Sure.", AssistantMemory: "【记录】asked for help"}, onDisk.History[0])
	assert.Equal(t, onDisk, store.Snapshot())
}

func TestAgent_NextPromptCarriesMemory(t *testing.T) {
	ai := &fakeAI{replies: []string{
		"First answer\n[记录] likes tea",
		"Second answer",
	}}
	a, _, _ := newTestAgent(t, ai, 6)
	ctx := context.Background()

	require.NoError(t, a.Turn(ctx, "one", nil))
	require.NoError(t, a.Turn(ctx, "two", nil))

	require.Len(t, ai.calls, 2)
	second := ai.calls[1].system
	assert.Contains(t, second, "【档案/记忆】\n\n[记录] likes tea")
	assert.Contains(t, second, "用户：one\n搭子：First answer\n记录：[记录] likes tea")
}

func TestAgent_ThreeTurnsEvictOldest(t *testing.T) {
	ai := &fakeAI{replies: []string{"a1\n【记录】n1", "a2", "a3\n【记录】n3"}}
	a, _, path := newTestAgent(t, ai, 2)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		require.NoError(t, a.Turn(ctx, fmt.Sprintf("turn %d", i), nil))
	}

	rec, err := jsonfile.NewRecordFile(path).Load(ctx)
	require.NoError(t, err)
	require.Len(t, rec.History, 2)
	assert.Equal(t, "turn 2", rec.History[0].User)
	assert.Equal(t, memory.FallbackNote("turn 2", "a2"), rec.History[0].AssistantMemory)
	assert.Equal(t, "turn 3", rec.History[1].User)
	assert.Equal(t, "【记录】n3", rec.Archive)
}

func TestAgent_CompletionFailureEndsSessionWithoutCommit(t *testing.T) {
	ai := &fakeAI{err: fmt.Errorf("%w: 502 bad gateway", core.ErrTransport)}
	a, store, _ := newTestAgent(t, ai, 6)

	err := a.Turn(context.Background(), "hi", func(Reply) error {
		t.Fatal("reply must not be shown")
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrTransport)
	assert.Equal(t, Done, a.State())
	assert.Empty(t, store.Snapshot().History)

	_, err = a.Ask(context.Background(), "again")
	assert.ErrorIs(t, err, ErrNotAwaitingInput)
}

func TestAgent_ShowFailureSkipsCommit(t *testing.T) {
	ai := &fakeAI{replies: []string{"reply"}}
	a, store, _ := newTestAgent(t, ai, 6)
	showErr := errors.New("stdout closed")

	err := a.Turn(context.Background(), "hi", func(Reply) error { return showErr })
	assert.ErrorIs(t, err, showErr)
	assert.Equal(t, Done, a.State())
	assert.Empty(t, store.Snapshot().History)
}

func TestAgent_AskTwiceWithoutCommit(t *testing.T) {
	ai := &fakeAI{replies: []string{"one", "two"}}
	a, _, _ := newTestAgent(t, ai, 6)

	_, err := a.Ask(context.Background(), "first")
	require.NoError(t, err)

	_, err = a.Ask(context.Background(), "second")
	assert.ErrorIs(t, err, ErrNotAwaitingInput)
	assert.Len(t, ai.calls, 1)
}

func TestAgent_CommitWithoutAsk(t *testing.T) {
	a, _, _ := newTestAgent(t, &fakeAI{}, 6)
	assert.Error(t, a.Commit(context.Background(), "x", Reply{}))
}

func TestAgent_Finish(t *testing.T) {
	a, _, _ := newTestAgent(t, &fakeAI{}, 6)
	a.Finish()
	assert.Equal(t, Done, a.State())
	assert.Equal(t, "done", a.State().String())
}

func TestAgent_Ask_LogsPromptTokensAtDebug(t *testing.T) {
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	ctx := zerolog.New(&buf).Level(zerolog.DebugLevel).WithContext(context.Background())

	a, _, _ := newTestAgent(t, &fakeAI{replies: []string{"ok"}}, 6)
	_, err := a.Ask(ctx, "hello")
	require.NoError(t, err)

	var entry map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &e))
		if e["message"] == "sending turn" {
			entry = e
		}
	}
	require.NotNil(t, entry)
	assert.Greater(t, entry["prompt_tokens"], float64(0))
	assert.IsType(t, true, entry["tokens_exact"])
}
