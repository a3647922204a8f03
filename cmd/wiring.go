package cmd

import (
	"context"
	"fmt"

	"github.com/iksnae/emotion-session/internal"
	"github.com/iksnae/emotion-session/internal/classifier"
	"github.com/iksnae/emotion-session/internal/store"
)

// app holds the wired components for one command invocation
type app struct {
	cfg        internal.Config
	store      internal.Store
	classifier internal.Classifier
	analyzer   *internal.Analyzer
}

// newApp opens the store only. Commands that classify call withClassifier.
func newApp(ctx context.Context, cfg internal.Config) (*app, error) {
	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}
	internal.LogDebug("Opened %s store", cfg.Store.Backend)

	a := &app{cfg: cfg, store: s}
	a.analyzer = a.newAnalyzer(unavailableClassifier{})
	return a, nil
}

// newClassifyingApp opens the store and the configured classifier
func newClassifyingApp(ctx context.Context, cfg internal.Config) (*app, error) {
	a, err := newApp(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c, err := classifier.New(ctx, cfg.Classifier)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create %s classifier: %w", cfg.Classifier.Provider, err)
	}
	internal.LogDebug("Using %s classifier", c.Name())
	a.classifier = c
	a.analyzer = a.newAnalyzer(c)
	return a, nil
}

func (a *app) newAnalyzer(c internal.Classifier) *internal.Analyzer {
	opts := []internal.AnalyzerOption{
		internal.WithRetryConfig(a.cfg.Classifier.RetryConfig()),
		internal.WithHistoryWindow(a.cfg.Responder.HistoryWindow),
	}
	if a.cfg.Responder.Seed != 0 {
		opts = append(opts, internal.WithResponder(internal.NewResponder(internal.WithSeed(uint64(a.cfg.Responder.Seed)))))
	}
	return internal.NewAnalyzer(c, a.store, opts...)
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		internal.LogWarn("Failed to close store: %v", err)
	}
}

// unavailableClassifier backs read-only commands that never classify
type unavailableClassifier struct{}

func (unavailableClassifier) Classify(ctx context.Context, text string) (internal.SentimentResult, error) {
	return internal.SentimentResult{}, internal.ErrClassificationUnavailable
}

func (unavailableClassifier) Name() string { return "none" }
