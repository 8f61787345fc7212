package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shadysedhom/mair-assignment/internal/domain"
	"github.com/shadysedhom/mair-assignment/pkg/errors"
)

type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) now() time.Time {
	cur := c.t
	c.t = c.t.Add(c.step)
	return cur
}

type fakeSink struct {
	sessions []string
	turns    []domain.Turn
	err      error
}

func (f *fakeSink) Append(_ context.Context, sessionID string, turn domain.Turn) error {
	f.sessions = append(f.sessions, sessionID)
	f.turns = append(f.turns, turn)
	return f.err
}

func TestRecorderWriteTo(t *testing.T) {
	clock := &stepClock{t: time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC), step: 30 * time.Second}
	r := NewRecorder(zap.NewNop(), WithClock(clock.now), WithSessionID("s1"))

	r.Record(domain.SpeakerSystem, "Hello, what are you looking for?", "welcome")
	r.Record(domain.SpeakerUser, "cheap chinese", "welcome")

	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	want := "--- Dialogue Transcript ---\n\n" +
		"Timestamp: 2024-03-09 14:05:30\nTurn: 1\nSpeaker: System\nUtterance: Hello, what are you looking for?\n" +
		"\n" +
		"Timestamp: 2024-03-09 14:06:00\nTurn: 2\nSpeaker: User\nUtterance: cheap chinese\n" +
		"\n--- End of Dialogue ---\n" +
		"Total Duration (MM:SS format): 01:30\n" +
		"Total Duration (in seconds): 90.00 seconds\n" +
		"Total Turns: 2\n" +
		"System Turns: 1\n" +
		"User Turns: 1\n"
	assert.Equal(t, want, buf.String())
}

func TestRecorderSave(t *testing.T) {
	start := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	r := NewRecorder(zap.NewNop(), WithClock(func() time.Time { return start }), WithSessionID("s1"))
	r.Record(domain.SpeakerSystem, "Goodbye!", "bye")

	dir := filepath.Join(t.TempDir(), "saved_transcripts")
	path, err := r.Save(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dialogue_20240309_140500_s1.txt"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Utterance: Goodbye!")
	assert.Contains(t, string(content), "Total Duration (MM:SS format): 00:00")
}

func TestRecorderSaveSameSecondKeepsBoth(t *testing.T) {
	start := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	clock := func() time.Time { return start }
	dir := t.TempDir()

	a := NewRecorder(zap.NewNop(), WithClock(clock), WithSessionID("a"))
	a.Record(domain.SpeakerUser, "session A text", "welcome")
	b := NewRecorder(zap.NewNop(), WithClock(clock), WithSessionID("b"))
	b.Record(domain.SpeakerUser, "session B text", "welcome")

	pathA, err := a.Save(dir)
	require.NoError(t, err)
	pathB, err := b.Save(dir)
	require.NoError(t, err)
	require.NotEqual(t, pathA, pathB)

	contentA, err := os.ReadFile(pathA)
	require.NoError(t, err)
	assert.Contains(t, string(contentA), "session A text")
	contentB, err := os.ReadFile(pathB)
	require.NoError(t, err)
	assert.Contains(t, string(contentB), "session B text")
}

func TestRecorderSaveDoesNotOverwrite(t *testing.T) {
	start := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	dir := t.TempDir()
	r := NewRecorder(zap.NewNop(), WithClock(func() time.Time { return start }), WithSessionID("dup"))
	r.Record(domain.SpeakerUser, "first", "welcome")

	path, err := r.Save(dir)
	require.NoError(t, err)

	_, err = r.Save(dir)
	var te *errors.TranscriptError
	require.True(t, stderrors.As(err, &te))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Utterance: first")
}

func TestRecorderSaveUnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	r := NewRecorder(zap.NewNop())
	_, err := r.Save(filepath.Join(file, "nested"))
	require.Error(t, err)

	var te *errors.TranscriptError
	assert.True(t, stderrors.As(err, &te))
}

func TestRecorderFansOutToSinks(t *testing.T) {
	ok := &fakeSink{}
	failing := &fakeSink{err: stderrors.New("down")}
	r := NewRecorder(zap.NewNop(), WithSinks(ok, failing), WithSessionID("abc"))

	r.Record(domain.SpeakerUser, "hi", "welcome")
	r.Record(domain.SpeakerSystem, "hello", "ask_food")

	require.Len(t, ok.turns, 2)
	assert.Equal(t, []string{"abc", "abc"}, ok.sessions)
	assert.Equal(t, "ask_food", ok.turns[1].State)
	assert.Len(t, failing.turns, 2)
	assert.Len(t, r.Turns(), 2)
}

func TestRecorderGeneratesSessionID(t *testing.T) {
	a := NewRecorder(nil)
	b := NewRecorder(nil)
	assert.NotEmpty(t, a.SessionID())
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}

func TestSessionKeyAndEncoding(t *testing.T) {
	assert.Equal(t, "transcript:abc", sessionKey("abc"))

	ts := time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)
	payload, err := encodeTurn(domain.Turn{Speaker: "User", Text: "north", State: "ask_area", Timestamp: ts})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "User", decoded["speaker"])
	assert.Equal(t, "north", decoded["text"])
	assert.Equal(t, "ask_area", decoded["state"])
	assert.Equal(t, "2024-03-09T14:05:00Z", decoded["timestamp"])
}
