package recording

import (
	"context"
	"log/slog"

	"github.com/getmockd/mockgate/internal/matching"
	"github.com/getmockd/mockgate/pkg/logging"
	"github.com/getmockd/mockgate/pkg/model"
)

// Replayer answers requests from a fixed list of replays. The first entry
// whose pattern matches wins.
type Replayer struct {
	replays []model.Replay
	log     *slog.Logger
}

// ReplayerOption configures a Replayer.
type ReplayerOption func(*Replayer)

// WithReplayLogger sets the logger used to report near misses.
func WithReplayLogger(log *slog.Logger) ReplayerOption {
	return func(r *Replayer) {
		if log != nil {
			r.log = log
		}
	}
}

// NewReplayer creates a replay handler over a copy of replays.
func NewReplayer(replays []model.Replay, opts ...ReplayerOption) *Replayer {
	r := &Replayer{
		replays: append([]model.Replay(nil), replays...),
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LoadReplayer creates a replay handler from a replay file. A missing or
// malformed file is an error.
func LoadReplayer(path string, opts ...ReplayerOption) (*Replayer, error) {
	replays, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewReplayer(replays, opts...), nil
}

// MustLoadReplayer is like LoadReplayer but panics on error. It is intended
// for test setup, where a bad fixture should stop the suite.
func MustLoadReplayer(path string, opts ...ReplayerOption) *Replayer {
	r, err := LoadReplayer(path, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Len returns the number of replays held.
func (r *Replayer) Len() int { return len(r.replays) }

// Attempt implements mock.Handler.
func (r *Replayer) Attempt(ctx context.Context, req model.Request) (model.Body, bool) {
	for _, replay := range r.replays {
		if matching.MatchRequest(replay.When, req) {
			return replay.Then, true
		}
	}

	if r.log.Enabled(ctx, slog.LevelDebug) && len(r.replays) > 0 {
		patterns := make([]model.Request, len(r.replays))
		for i, replay := range r.replays {
			patterns[i] = replay.When
		}
		idx, miss := matching.Closest(patterns, req)
		r.log.Debug("no replay matched", "request", req.String(), "closest", idx, "reason", miss.Reason)
	}
	return model.Body{}, false
}

// Kind implements mock.Kinder.
func (r *Replayer) Kind() string { return "replay" }
