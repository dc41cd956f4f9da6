package tasks

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/amartyachowdhury/movie-stack/internal/scheduler"
)

// MirrorWarmTaskID identifies the mirror warm-up task.
const MirrorWarmTaskID = "mirror-warm"

// DefaultWarmPages is the number of popular pages mirrored per run.
const DefaultWarmPages = 3

// ErrNothingWarmed is returned when a run mirrored no records.
var ErrNothingWarmed = errors.New("no records mirrored")

// MirrorWarmer copies popular list pages into the mirror table.
type MirrorWarmer interface {
	TMDBConfigured() bool
	WarmMirror(ctx context.Context, pages int) (int, error)
}

// MirrorWarmTask keeps the mirror table populated so detail lookups can
// survive a primary provider outage.
type MirrorWarmTask struct {
	warmer MirrorWarmer
	pages  int
	logger zerolog.Logger
}

// NewMirrorWarmTask creates a new mirror warm-up task.
func NewMirrorWarmTask(warmer MirrorWarmer, pages int, logger zerolog.Logger) *MirrorWarmTask {
	if pages < 1 {
		pages = DefaultWarmPages
	}
	return &MirrorWarmTask{
		warmer: warmer,
		pages:  pages,
		logger: logger.With().Str("task", MirrorWarmTaskID).Logger(),
	}
}

// Run mirrors the first pages of the popular list. Without provider
// credentials it is a no-op.
func (t *MirrorWarmTask) Run(ctx context.Context) error {
	if !t.warmer.TMDBConfigured() {
		t.logger.Debug().Msg("TMDB not configured, skipping mirror warm-up")
		return nil
	}

	count, err := t.warmer.WarmMirror(ctx, t.pages)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNothingWarmed
	}

	t.logger.Info().Int("pages", t.pages).Int("records", count).Msg("Mirror warm-up completed")
	return nil
}

// RegisterMirrorWarmTask registers the mirror warm-up task with the scheduler.
func RegisterMirrorWarmTask(sched *scheduler.Scheduler, warmer MirrorWarmer, cron string, logger zerolog.Logger) error {
	task := NewMirrorWarmTask(warmer, DefaultWarmPages, logger)

	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          MirrorWarmTaskID,
		Name:        "Mirror Warm-up",
		Description: "Copies the first popular list pages into the local mirror table",
		Cron:        cron,
		RunOnStart:  true,
		Func:        task.Run,
	})
}
