package transcript

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shadysedhom/mair-assignment/internal/constants"
	"github.com/shadysedhom/mair-assignment/internal/domain"
	"github.com/shadysedhom/mair-assignment/internal/util"
	"github.com/shadysedhom/mair-assignment/pkg/errors"
)

// Sink receives turns as they are recorded.
type Sink interface {
	Append(ctx context.Context, sessionID string, turn domain.Turn) error
}

// Recorder keeps the turns of one session in memory and forwards each one
// to its sinks.
type Recorder struct {
	mu          sync.Mutex
	sessionID   string
	startedAt   time.Time
	turns       []domain.Turn
	systemTurns int
	userTurns   int
	sinks       []Sink
	now         func() time.Time
	logger      *zap.Logger
}

type RecorderOption func(*Recorder)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		r.now = now
	}
}

func WithSinks(sinks ...Sink) RecorderOption {
	return func(r *Recorder) {
		r.sinks = append(r.sinks, sinks...)
	}
}

func WithSessionID(id string) RecorderOption {
	return func(r *Recorder) {
		r.sessionID = id
	}
}

func NewRecorder(logger *zap.Logger, opts ...RecorderOption) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Recorder{
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.sessionID == "" {
		r.sessionID = uuid.NewString()
	}
	r.startedAt = r.now()
	return r
}

func (r *Recorder) SessionID() string {
	return r.sessionID
}

// Record stores one turn. Sink failures are logged and otherwise ignored.
func (r *Recorder) Record(speaker, text, state string) {
	r.mu.Lock()
	turn := domain.Turn{
		Speaker:   speaker,
		Text:      text,
		State:     state,
		Timestamp: r.now(),
	}
	r.turns = append(r.turns, turn)
	if speaker == domain.SpeakerSystem {
		r.systemTurns++
	} else {
		r.userTurns++
	}
	sinks := r.sinks
	r.mu.Unlock()

	for _, sink := range sinks {
		ctx, cancel := context.WithTimeout(context.Background(), constants.RedisConfig.ReadyTimeout)
		if err := sink.Append(ctx, r.sessionID, turn); err != nil {
			r.logger.Warn("Transcript sink failed",
				zap.String("session", r.sessionID),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// Turns returns a copy of the recorded turns.
func (r *Recorder) Turns() []domain.Turn {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Turn, len(r.turns))
	copy(out, r.turns)
	return out
}

// Summary is the footer of a saved transcript.
type Summary struct {
	Duration    time.Duration
	TotalTurns  int
	SystemTurns int
	UserTurns   int
}

func (r *Recorder) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Summary{
		Duration:    r.now().Sub(r.startedAt),
		TotalTurns:  len(r.turns),
		SystemTurns: r.systemTurns,
		UserTurns:   r.userTurns,
	}
}

// WriteTo renders the transcript in its plain text file format.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	turns := r.Turns()
	summary := r.Summary()

	cw := &countingWriter{w: bufio.NewWriter(w)}
	fmt.Fprint(cw, "--- Dialogue Transcript ---\n\n")
	for i, turn := range turns {
		if i > 0 {
			fmt.Fprint(cw, "\n")
		}
		fmt.Fprintf(cw, "Timestamp: %s\nTurn: %d\nSpeaker: %s\nUtterance: %s\n",
			turn.Timestamp.Format(util.TimestampLayout), i+1, turn.Speaker, turn.Text)
	}
	fmt.Fprint(cw, "\n--- End of Dialogue ---\n")
	fmt.Fprintf(cw, "Total Duration (MM:SS format): %s\n", util.FormatClock(summary.Duration))
	fmt.Fprintf(cw, "Total Duration (in seconds): %.2f seconds\n", summary.Duration.Seconds())
	fmt.Fprintf(cw, "Total Turns: %d\n", summary.TotalTurns)
	fmt.Fprintf(cw, "System Turns: %d\n", summary.SystemTurns)
	fmt.Fprintf(cw, "User Turns: %d\n", summary.UserTurns)

	if cw.err != nil {
		return cw.n, cw.err
	}
	return cw.n, cw.w.Flush()
}

// Save writes the transcript to dir/dialogue_<stamp>_<session>.txt and
// returns the path. An existing file is never overwritten.
func (r *Recorder) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.NewTranscriptError("failed to create transcript directory", "save", dir, err)
	}

	name := fmt.Sprintf("dialogue_%s_%s.txt", r.now().Format(util.FileStampLayout), r.sessionID)
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", errors.NewTranscriptError("failed to create transcript file", "save", path, err)
	}
	if _, err := r.WriteTo(f); err != nil {
		f.Close()
		return "", errors.NewTranscriptError("failed to write transcript", "save", path, err)
	}
	if err := f.Close(); err != nil {
		return "", errors.NewTranscriptError("failed to close transcript file", "save", path, err)
	}

	r.logger.Info("Dialogue transcript saved", zap.String("path", path))
	return path, nil
}

type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
