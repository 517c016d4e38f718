package fuzzypatch

import (
	"context"
	"fmt"
	"log"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/fuzzypatch/extension"
	"github.com/viant/fuzzypatch/model/types"
	"github.com/viant/fuzzypatch/service/action/system/patch"
	"github.com/viant/fuzzypatch/service/corrector"
	"github.com/viant/fuzzypatch/service/executor"
	"github.com/viant/fuzzypatch/service/intersector"
	"github.com/viant/fuzzypatch/service/minifier"
	"github.com/viant/fuzzypatch/tracing"
)

// Service is the engine façade.
type Service struct {
	config            *Config
	fs                afs.Service
	fsOptions         []storage.Option
	patch             *patch.Service
	corrector         *corrector.Service
	actions           *extension.Actions
	executor          executor.Service
	executorOptions   []executor.Option
	extensionServices []types.Service
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	s.config = s.config.withDefaults()
	if err := s.config.Validate(); err != nil {
		log.Printf("fuzzypatch: invalid config, using defaults: %v", err)
		s.config = DefaultConfig()
	}
	if tracingConfig := s.config.Tracing; tracingConfig.Enabled {
		if err := tracing.Init(tracingConfig.ServiceName, tracingConfig.ServiceVersion, tracingConfig.OutputFile); err != nil {
			log.Printf("fuzzypatch: tracing disabled: %v", err)
		}
	}
	s.corrector = corrector.New(s.correctorOptions()...)
	s.patch = patch.New(
		patch.WithFileService(s.fs),
		patch.WithCorrectorOptions(s.correctorOptions()...),
		patch.WithSessionOptions(
			patch.WithBackupURL(s.config.Apply.BackupURL),
			patch.WithBaseURL(s.config.Apply.BaseURL),
		),
	)
	s.actions = extension.NewActions()
	s.actions.Register(s.patch)
	for _, service := range s.extensionServices {
		s.actions.Register(service)
	}
	s.executor = executor.NewService(s.actions, s.executorOptions...)
}

func (s *Service) correctorOptions() []corrector.Option {
	return []corrector.Option{
		corrector.WithFuzzyThreshold(s.config.Corrector.FuzzyThreshold),
		corrector.WithSearchFactor(s.config.Corrector.SearchFactor),
		corrector.WithNormalizeIndent(s.config.Parser.NormalizeIndent),
	}
}

// Config returns the engine configuration.
func (s *Service) Config() *Config {
	return s.config
}

// Correct re-anchors patchText against content; it returns false when the
// content already satisfies every change.
func (s *Service) Correct(ctx context.Context, patchText, content string) (string, bool) {
	_, span := tracing.StartSpan(ctx, "fuzzypatch.correct")
	ret, ok := s.corrector.Correct(patchText, content)
	span.WithAttributes(map[string]string{"empty": fmt.Sprint(!ok)})
	tracing.EndSpan(span, nil)
	return ret, ok
}

// CorrectURL corrects patchText against the content stored at URL.
func (s *Service) CorrectURL(ctx context.Context, patchText, URL string) (string, bool, error) {
	ctx, span := tracing.StartSpan(ctx, "fuzzypatch.correctURL")
	span.WithAttributes(map[string]string{"url": URL})
	data, err := s.fs.DownloadWithURL(ctx, URL, s.fsOptions...)
	if err != nil {
		err = fmt.Errorf("failed to read target %v: %w", URL, err)
		tracing.EndSpan(span, err)
		return "", false, err
	}
	ret, ok := s.Correct(ctx, patchText, string(data))
	tracing.EndSpan(span, nil)
	return ret, ok, nil
}

// Intersect returns, for every hunk of reject, the best matching hunk of full.
func (s *Service) Intersect(ctx context.Context, full, reject string) string {
	_, span := tracing.StartSpan(ctx, "fuzzypatch.intersect")
	defer tracing.EndSpan(span, nil)
	return intersector.Intersect(full, reject)
}

// Minify splits hunks into minimal change batches.
func (s *Service) Minify(ctx context.Context, patchText string) string {
	_, span := tracing.StartSpan(ctx, "fuzzypatch.minify")
	defer tracing.EndSpan(span, nil)
	return minifier.Minify(patchText)
}

// Diff generates a unified diff between old and new content.
func (s *Service) Diff(ctx context.Context, old, new, path string) (patch.DiffResult, error) {
	_, span := tracing.StartSpan(ctx, "fuzzypatch.diff")
	ret, err := patch.GenerateDiff([]byte(old), []byte(new), path, s.config.Apply.ContextLines)
	tracing.EndSpan(span, err)
	return ret, err
}

// Apply applies patchText within the current session; rejected hunks are
// returned per file for a follow-up Intersect.
func (s *Service) Apply(ctx context.Context, patchText string) (*patch.ApplyResult, error) {
	ctx, span := tracing.StartSpan(ctx, "fuzzypatch.apply")
	ret, err := s.patch.Session().ApplyPatch(ctx, patchText)
	if ret != nil {
		span.WithInt("hunks", ret.Stats.Hunks).WithInt("rejects", len(ret.Rejects))
	}
	tracing.EndSpan(span, err)
	return ret, err
}

// Session returns the current patch session.
func (s *Service) Session() *patch.Session {
	return s.patch.Session()
}

// Actions returns the action service registry.
func (s *Service) Actions() *extension.Actions {
	return s.actions
}

// Executor returns the action executor.
func (s *Service) Executor() executor.Service {
	return s.executor
}

// New creates the engine façade.
func New(options ...Option) *Service {
	ret := &Service{config: DefaultConfig()}
	ret.init(options)
	return ret
}
