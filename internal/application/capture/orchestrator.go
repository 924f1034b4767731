// Package capture turns capture-index notifications into classification
// runs: debounce, settle, re-resolve, classify, present and record.
package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/doeshing/scrnstr/internal/domain"
	"github.com/doeshing/scrnstr/internal/ports"
)

// Presenter is the slice of the feedback presenter a run drives.
type Presenter interface {
	ShowLoading() string
	ShowResult(result domain.ClassificationResult, source domain.SourceRef, onConfirm func())
	Abort(sessionID string, cause error)
}

// HistoryRecorder retains a summary of each successful run.
type HistoryRecorder interface {
	Add(ctx context.Context, record domain.InterceptRecord) error
}

// ActionDispatcher runs the confirmed action in the background.
type ActionDispatcher interface {
	Dispatch(ctx context.Context, category string, fields domain.Fields, source domain.SourceRef)
}

// Orchestrator owns the debounce watermark. OnIndexChange and Run must be
// driven from a single goroutine; classification runs on background workers.
type Orchestrator struct {
	classifier ports.Classifier
	index      ports.CaptureIndex
	presenter  Presenter
	history    HistoryRecorder
	dispatcher ActionDispatcher
	clock      ports.Clock
	logger     ports.Logger
	settings   domain.CaptureSettings
	timeout    time.Duration

	lastProcessed time.Time
	processedOnce bool

	workers errgroup.Group
}

// Config carries the orchestrator's collaborators.
type Config struct {
	Classifier ports.Classifier
	Index      ports.CaptureIndex
	Presenter  Presenter
	History    HistoryRecorder
	Dispatcher ActionDispatcher
	Clock      ports.Clock
	Logger     ports.Logger
	Settings   domain.CaptureSettings
	Timeout    time.Duration
}

// NewOrchestrator wires an orchestrator.
func NewOrchestrator(cfg Config) *Orchestrator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultClassifierTimeout
	}
	return &Orchestrator{
		classifier: cfg.Classifier,
		index:      cfg.Index,
		presenter:  cfg.Presenter,
		history:    cfg.History,
		dispatcher: cfg.Dispatcher,
		clock:      cfg.Clock,
		logger:     cfg.Logger,
		settings:   cfg.Settings,
		timeout:    cfg.Timeout,
	}
}

// Run consumes events until the channel closes or ctx is done, then waits
// for in-flight runs to finish.
func (o *Orchestrator) Run(ctx context.Context, events <-chan domain.CaptureEvent) error {
	defer o.Wait()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			o.OnIndexChange(ctx, ev)
		}
	}
}

// OnIndexChange applies the path heuristic and debounce window to one
// notification and, when it qualifies, starts a background run. It reports
// whether the event was accepted.
func (o *Orchestrator) OnIndexChange(ctx context.Context, ev domain.CaptureEvent) bool {
	if ev.SourceRef.IsEmpty() {
		return false
	}
	path, err := o.index.Resolve(ev.SourceRef)
	if err != nil {
		o.logger.Debug("capture path unresolved", map[string]interface{}{"source": ev.SourceRef.String(), "error": err.Error()})
		return false
	}
	if !o.settings.MatchesCapturePath(path) {
		return false
	}

	now := ev.DetectedAt
	if now.IsZero() {
		now = o.clock.Now()
	}
	if o.processedOnce && now.Sub(o.lastProcessed) < o.settings.Debounce() {
		o.logger.Debug("capture debounced", map[string]interface{}{"source": ev.SourceRef.String()})
		return false
	}
	o.lastProcessed = now
	o.processedOnce = true

	o.logger.Info("capture detected", map[string]interface{}{"path": path})
	o.workers.Go(func() error {
		o.process(ctx, ev.SourceRef)
		return nil
	})
	return true
}

// Wait blocks until every background run has finished.
func (o *Orchestrator) Wait() {
	_ = o.workers.Wait()
}

// ClassifyFile runs the pipeline for ref immediately, without debounce or
// settle delay.
func (o *Orchestrator) ClassifyFile(ctx context.Context, ref domain.SourceRef) (domain.ClassificationResult, error) {
	session := o.presenter.ShowLoading()
	data, mimeType, err := o.index.Load(ref)
	if err != nil {
		err = fmt.Errorf("%w: %v", domain.ErrAcquisition, err)
		o.fail(session, ref, "load", err)
		return domain.ClassificationResult{}, err
	}
	return o.classify(ctx, session, domain.ClassificationInput{Image: data, MIMEType: mimeType}, ref)
}

// ClassifyText runs the pipeline for free-form text. The result carries no
// source resource.
func (o *Orchestrator) ClassifyText(ctx context.Context, text string) (domain.ClassificationResult, error) {
	if strings.TrimSpace(text) == "" {
		return domain.ClassificationResult{}, fmt.Errorf("%w: empty text", domain.ErrAcquisition)
	}
	session := o.presenter.ShowLoading()
	return o.classify(ctx, session, domain.ClassificationInput{Text: text}, domain.EmptySourceRef)
}

func (o *Orchestrator) process(ctx context.Context, observed domain.SourceRef) {
	if err := o.clock.Sleep(ctx, o.settings.SettleDelay()); err != nil {
		return
	}
	final := o.resolveFinal(ctx, observed)
	o.logger.Debug("processing capture", map[string]interface{}{"source": final.String()})
	_, _ = o.ClassifyFile(ctx, final)
}

// resolveFinal re-queries the index for the newest finished capture and
// falls back to the observed reference.
func (o *Orchestrator) resolveFinal(ctx context.Context, observed domain.SourceRef) domain.SourceRef {
	latest, ok, err := o.index.Latest(ctx)
	if err != nil {
		o.logger.Warn("latest capture lookup failed", map[string]interface{}{"error": err.Error()})
		return observed
	}
	if !ok || latest.IsEmpty() {
		return observed
	}
	return latest
}

func (o *Orchestrator) classify(ctx context.Context, session string, input domain.ClassificationInput, source domain.SourceRef) (domain.ClassificationResult, error) {
	cctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	result, err := o.classifier.Classify(cctx, input)
	if err != nil {
		if !errors.Is(err, domain.ErrClassification) {
			err = fmt.Errorf("%w: %v", domain.ErrClassification, err)
		}
		o.fail(session, source, "classify", err)
		return domain.ClassificationResult{}, err
	}

	o.logger.Info("classified", map[string]interface{}{
		"category": result.Category,
		"fields":   result.Fields.Len(),
		"source":   source.String(),
	})
	o.presenter.ShowResult(result, source, func() {
		o.dispatcher.Dispatch(context.WithoutCancel(ctx), result.Category, result.Fields, source)
	})

	record := domain.InterceptRecord{
		Category:     result.Category,
		Title:        result.DisplayTitle(),
		ThumbnailRef: source.String(),
		Timestamp:    o.clock.Now(),
	}
	if err := o.history.Add(ctx, record); err != nil {
		o.logger.Warn("history not recorded", map[string]interface{}{"error": err.Error()})
	}
	return result, nil
}

func (o *Orchestrator) fail(session string, source domain.SourceRef, stage string, err error) {
	o.logger.Error("capture run failed", err, map[string]interface{}{"stage": stage, "source": source.String()})
	o.presenter.Abort(session, err)
}
