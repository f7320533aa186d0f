package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/draftie/storyboard-api/pkg/images"
	"github.com/draftie/storyboard-api/pkg/llm"
	"github.com/draftie/storyboard-api/pkg/storyboard"
	log "github.com/sirupsen/logrus"
)

// State names the stages a run moves through. Failed is terminal and only
// reachable from Scripting: per-scene image failures are absorbed by the
// synthesizer and never fail the run.
type State string

const (
	StateIdle         State = "idle"
	StateScripting    State = "scripting"
	StateIllustrating State = "illustrating"
	StatePersisting   State = "persisting"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// Persister commits a finished storyboard to its destination. The two
// implementations are the authenticated project store (project row + credit
// decrement, one transaction) and the anonymous trial ledger.
type Persister interface {
	Persist(ctx context.Context, req storyboard.GenerationRequest, data *storyboard.ScriptData) error
}

// Options is the pacing policy for image synthesis. Workers=1 illustrates
// scenes strictly in order with Delay between calls, for rate-limited
// providers. Workers>1 fans out with a bounded number of in-flight calls and
// no delay, for providers that tolerate bursts.
type Options struct {
	Delay   time.Duration
	Workers int
}

// Orchestrator sequences prompt construction, script generation, per-scene
// image synthesis and persistence.
type Orchestrator struct {
	generator   *llm.ScriptGenerator
	synthesizer *images.Synthesizer
	opts        Options
}

func NewOrchestrator(generator *llm.ScriptGenerator, synthesizer *images.Synthesizer, opts Options) *Orchestrator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Orchestrator{generator: generator, synthesizer: synthesizer, opts: opts}
}

// Run executes one full pipeline pass and returns the assembled ScriptData.
// Script generation failure is the only pipeline-fatal generation error;
// persistence owns its own atomicity (a failed persist leaves credits and
// trial state untouched).
func (o *Orchestrator) Run(ctx context.Context, req storyboard.GenerationRequest, persister Persister) (*storyboard.ScriptData, error) {
	state := StateIdle

	state = StateScripting
	log.Debugf("Pipeline %s -> %s for topic %q.", StateIdle, state, req.Topic)
	data, err := o.generator.Generate(ctx, req)
	if err != nil {
		state = StateFailed
		log.Errorf("Pipeline reached %s state: %v", state, err)
		return nil, fmt.Errorf("script generation failed: %w", err)
	}

	state = StateIllustrating
	log.Debugf("Pipeline entered %s.", state)
	log.Infof("Illustrating %d scenes (workers=%d, delay=%s).", len(data.Scenes), o.opts.Workers, o.opts.Delay)
	if err := o.illustrate(ctx, data.Scenes); err != nil {
		// Only context cancellation lands here; image errors are absorbed.
		return nil, err
	}

	state = StatePersisting
	log.Debugf("Pipeline entered %s.", state)
	if err := persister.Persist(ctx, req, data); err != nil {
		log.Errorf("Pipeline persistence failed: %v", err)
		return nil, fmt.Errorf("persistence failed: %w", err)
	}

	state = StateDone
	log.Infof("Pipeline %s for topic %q.", state, req.Topic)
	return data, nil
}

func (o *Orchestrator) illustrate(ctx context.Context, scenes []storyboard.Scene) error {
	if o.opts.Workers == 1 {
		return o.illustrateSequential(ctx, scenes)
	}
	return o.illustrateBounded(ctx, scenes)
}

// illustrateSequential walks scenes in order with a fixed pause between
// calls so rate-limited providers do not reject the burst.
func (o *Orchestrator) illustrateSequential(ctx context.Context, scenes []storyboard.Scene) error {
	for i := range scenes {
		if i > 0 && o.opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(o.opts.Delay):
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		o.synthesizer.Illustrate(ctx, &scenes[i])
	}
	return nil
}

// illustrateBounded fans out with at most Workers in-flight calls.
func (o *Orchestrator) illustrateBounded(ctx context.Context, scenes []storyboard.Scene) error {
	sem := make(chan struct{}, o.opts.Workers)
	var wg sync.WaitGroup

	for i := range scenes {
		wg.Add(1)
		go func(scene *storyboard.Scene) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			o.synthesizer.Illustrate(ctx, scene)
		}(&scenes[i])
	}
	wg.Wait()

	return ctx.Err()
}
