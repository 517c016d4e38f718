// Package patch exposes the patch engine and a transactional, afs backed
// patch session as an action service.
package patch

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/fuzzypatch/extension"
	"github.com/viant/fuzzypatch/model/types"
	"github.com/viant/fuzzypatch/service/corrector"
	"github.com/viant/fuzzypatch/service/intersector"
	"github.com/viant/fuzzypatch/service/minifier"
	"github.com/viant/x"
)

// Name of the system/patch action service.
const Name = "system/patch"

// Service exposes patch correction, intersection, minification and session
// based application. Apply calls share one lazily created session until
// commit or rollback.
type Service struct {
	fs               afs.Service
	correctorOptions []corrector.Option
	corrector        *corrector.Service
	sessionOptions   []SessionOption
	mu               sync.Mutex
	session          *Session
}

// Option customises the service.
type Option func(s *Service)

// WithFileService sets the storage used for targets and sessions.
func WithFileService(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithCorrectorOptions sets corrector options.
func WithCorrectorOptions(options ...corrector.Option) Option {
	return func(s *Service) {
		s.correctorOptions = append(s.correctorOptions, options...)
	}
}

// WithSessionOptions sets options of the sessions created by apply.
func WithSessionOptions(options ...SessionOption) Option {
	return func(s *Service) {
		s.sessionOptions = append(s.sessionOptions, options...)
	}
}

// New creates the patch service instance.
func New(options ...Option) *Service {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	ret.corrector = corrector.New(ret.correctorOptions...)
	return ret
}

// Name returns service identifier.
func (s *Service) Name() string { return Name }

// InitTypes registers the service I/O types.
func (s *Service) InitTypes(registry *extension.Types) {
	for _, signature := range s.Methods() {
		registry.Register(x.NewType(signature.Input.Elem()))
		registry.Register(x.NewType(signature.Output.Elem()))
	}
}

// Methods returns service method catalogue.
func (s *Service) Methods() types.Signatures {
	return []types.Signature{
		{
			Name:        "correct",
			Description: "Re-anchors patch hunks against the current target content and drops changes the target already has.",
			Input:       reflect.TypeOf(&CorrectInput{}),
			Output:      reflect.TypeOf(&CorrectOutput{}),
		},
		{
			Name:        "intersect",
			Description: "Selects, for every rejected hunk, the best matching hunk of the reference patch.",
			Input:       reflect.TypeOf(&IntersectInput{}),
			Output:      reflect.TypeOf(&IntersectOutput{}),
		},
		{
			Name:        "minify",
			Description: "Splits patch hunks into minimal change batches.",
			Input:       reflect.TypeOf(&MinifyInput{}),
			Output:      reflect.TypeOf(&MinifyOutput{}),
		},
		{
			Name:        "apply",
			Description: "Applies a unified-diff patch within the current session (auto-created on first use) and returns rejected hunks.",
			Input:       reflect.TypeOf(&ApplyInput{}),
			Output:      reflect.TypeOf(&ApplyOutput{}),
		},
		{
			Name:        "diff",
			Description: "Generates a unified-diff (and statistics) from two text blobs.",
			Input:       reflect.TypeOf(&DiffInput{}),
			Output:      reflect.TypeOf(&DiffOutput{}),
		},
		{
			Name:        "commit",
			Description: "Commits the current session: discards the rollback information and clears the session.",
			Input:       reflect.TypeOf(&EmptyInput{}),
			Output:      reflect.TypeOf(&EmptyOutput{}),
		},
		{
			Name:        "rollback",
			Description: "Rolls back all pending changes in the current session and clears the session.",
			Input:       reflect.TypeOf(&EmptyInput{}),
			Output:      reflect.TypeOf(&EmptyOutput{}),
		},
		{
			Name:        "snapshot",
			Description: "Lists the uncommitted changes of the current session.",
			Input:       reflect.TypeOf(&EmptyInput{}),
			Output:      reflect.TypeOf(&SnapshotOutput{}),
		},
	}
}

// Method maps method names to executable handlers.
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "correct":
		return s.correct, nil
	case "intersect":
		return s.intersect, nil
	case "minify":
		return s.minify, nil
	case "apply":
		return s.apply, nil
	case "diff":
		return s.diff, nil
	case "commit":
		return s.commit, nil
	case "rollback":
		return s.rollback, nil
	case "snapshot":
		return s.snapshot, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

// CorrectInput is the payload for Service.correct; Content takes precedence over URL.
type CorrectInput struct {
	Patch   string `json:"patch" description:"Unified-diff text to correct"`
	Content string `json:"content,omitempty" description:"Current target file content"`
	URL     string `json:"url,omitempty" description:"Target file URL, read when content is empty"`
}

// CorrectOutput holds the corrected patch.
type CorrectOutput struct {
	Patch   string `json:"patch,omitempty"`
	Changed bool   `json:"changed"`
	Empty   bool   `json:"empty"`
}

// IntersectInput is the payload for Service.intersect
type IntersectInput struct {
	Patch  string `json:"patch" description:"Reference patch"`
	Reject string `json:"reject" description:"Rejected hunks to match against the reference patch"`
}

type IntersectOutput struct {
	Patch string `json:"patch"`
}

type MinifyInput struct {
	Patch string `json:"patch"`
}

type MinifyOutput struct {
	Patch string `json:"patch"`
}

// ApplyInput is the payload for Service.apply
type ApplyInput struct {
	// Patch must be in the unified-diff format as produced by `git diff` or
	// `diff -u`. Multi-file patches are accepted.
	Patch string `json:"patch" description:"Unified-diff text (---/+++ file headers with @@ hunk markers) to apply"`
}

// ApplyOutput summarises the changes applied.
type ApplyOutput struct {
	Stats   DiffStats `json:"stats,omitempty"`
	Rejects []Reject  `json:"rejects,omitempty"`
}

// DiffInput is the payload for Service.diff
type DiffInput struct {
	Old          string `json:"old" description:"Original file content"`
	New          string `json:"new" description:"Updated file content"`
	Path         string `json:"path,omitempty" description:"Display path for diff headers"`
	ContextLines int    `json:"contextLines,omitempty" description:"Number of context lines to include in diff (default 3)"`
}

// DiffOutput is identical to DiffResult, re-exported for JSON tags.
type DiffOutput DiffResult

type SnapshotOutput struct {
	Changes []Change `json:"changes"`
}

// EmptyInput/Output used by commit/rollback methods.
type EmptyInput struct{}
type EmptyOutput struct{}

func (s *Service) correct(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*CorrectInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*CorrectOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	content := input.Content
	if content == "" && input.URL != "" {
		data, err := s.fs.DownloadWithURL(ctx, input.URL)
		if err != nil {
			return fmt.Errorf("read %v: %w", input.URL, err)
		}
		content = string(data)
	}
	patch, ok := s.corrector.Correct(input.Patch, content)
	output.Patch = patch
	output.Empty = !ok
	output.Changed = ok && patch != input.Patch
	return nil
}

func (s *Service) intersect(_ context.Context, in, out interface{}) error {
	input, ok := in.(*IntersectInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*IntersectOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	output.Patch = intersector.Intersect(input.Patch, input.Reject)
	return nil
}

func (s *Service) minify(_ context.Context, in, out interface{}) error {
	input, ok := in.(*MinifyInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*MinifyOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	output.Patch = minifier.Minify(input.Patch)
	return nil
}

// Session returns the current session, creating it on first use.
func (s *Service) Session() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		s.session = NewSession(s.fs, s.sessionOptions...)
	}
	return s.session
}

func (s *Service) apply(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*ApplyInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*ApplyOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	session := s.Session()
	result, err := session.ApplyPatch(ctx, input.Patch)
	if err != nil {
		_ = session.Rollback(ctx)
		s.clearSession(session)
		return err
	}
	output.Stats = result.Stats
	output.Rejects = result.Rejects
	return nil
}

func (s *Service) clearSession(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == session {
		s.session = nil
	}
}

func (s *Service) commit(ctx context.Context, in, out interface{}) error {
	if _, ok := in.(*EmptyInput); !ok {
		return types.NewInvalidInputError(in)
	}
	if _, ok := out.(*EmptyOutput); !ok {
		return types.NewInvalidOutputError(out)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	err := s.session.Commit(ctx)
	s.session = nil
	return err
}

func (s *Service) rollback(ctx context.Context, in, out interface{}) error {
	if _, ok := in.(*EmptyInput); !ok {
		return types.NewInvalidInputError(in)
	}
	if _, ok := out.(*EmptyOutput); !ok {
		return types.NewInvalidOutputError(out)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	err := s.session.Rollback(ctx)
	s.session = nil
	return err
}

func (s *Service) snapshot(ctx context.Context, in, out interface{}) error {
	if _, ok := in.(*EmptyInput); !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*SnapshotOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()
	if session == nil {
		output.Changes = []Change{}
		return nil
	}
	changes, err := session.Snapshot(ctx)
	if err != nil {
		return err
	}
	output.Changes = changes
	return nil
}

func (s *Service) diff(_ context.Context, in, out interface{}) error {
	input, ok := in.(*DiffInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*DiffOutput)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	result, err := GenerateDiff([]byte(input.Old), []byte(input.New), input.Path, input.ContextLines)
	if err != nil {
		return err
	}
	*output = DiffOutput(result)
	return nil
}
