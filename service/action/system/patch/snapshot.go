package patch

import "context"

// Change kinds reported by Snapshot.
const (
	KindCreate  = "create"
	KindUpdated = "updated"
	KindDelete  = "delete"
)

// Change describes a single uncommitted change tracked by the session.
type Change struct {
	Kind    string `json:"kind"`
	OrigURL string `json:"origUrl,omitempty"`
	URL     string `json:"url,omitempty"`
	Diff    string `json:"diff,omitempty"`
}

type changeEntry struct {
	kind   string
	orig   string
	url    string
	backup string // original content snapshot
	alive  bool
	diff   string
}

func (s *Session) resetChanges() {
	s.changes = nil
	s.byCurrent = map[string]*changeEntry{}
	s.byOrigin = map[string]*changeEntry{}
}

func (s *Session) ensureEntry(orig, URL string) *changeEntry {
	if URL != "" {
		if e := s.byCurrent[URL]; e != nil {
			return e
		}
	}
	if orig != "" {
		if e := s.byOrigin[orig]; e != nil {
			return e
		}
	}
	e := &changeEntry{orig: orig, url: URL, alive: true}
	s.changes = append(s.changes, e)
	if URL != "" {
		s.byCurrent[URL] = e
	}
	if orig != "" {
		s.byOrigin[orig] = e
	}
	return e
}

func (s *Session) diffOf(ctx context.Context, oldURL, newURL, path string) string {
	var oldData, newData []byte
	if oldURL != "" {
		oldData, _ = s.fs.DownloadWithURL(ctx, oldURL)
	}
	if newURL != "" {
		newData, _ = s.fs.DownloadWithURL(ctx, newURL)
	}
	result, _ := GenerateDiff(oldData, newData, path, DefaultContextLines)
	return result.Patch
}

func (s *Session) trackAdd(ctx context.Context, URL string) {
	e := s.byCurrent[URL]
	if e == nil {
		e = s.ensureEntry("", URL)
	}
	e.kind = KindCreate
	e.alive = true
	e.diff = s.diffOf(ctx, "", URL, URL)
}

func (s *Session) trackMove(src, dst string) {
	e := s.byCurrent[src]
	if e == nil {
		e = s.ensureEntry(src, dst)
		e.kind = KindUpdated
		return
	}
	delete(s.byCurrent, src)
	e.url = dst
	s.byCurrent[dst] = e
	if e.kind == "" {
		e.kind = KindUpdated
	}
}

func (s *Session) trackUpdate(ctx context.Context, URL, backup string) {
	e := s.byCurrent[URL]
	if e == nil {
		e = s.ensureEntry(URL, URL)
	}
	if e.kind != KindCreate && e.backup == "" {
		e.backup = backup
	}
	if e.kind == "" {
		e.kind = KindUpdated
	}
	if e.orig == "" && e.kind != KindCreate {
		e.orig = URL
		s.byOrigin[URL] = e
	}
	e.alive = true
	e.diff = s.diffOf(ctx, e.backup, URL, URL)
}

func (s *Session) trackDelete(ctx context.Context, URL, backup string) {
	e := s.byCurrent[URL]
	if e != nil && e.kind == KindCreate {
		// create then delete cancels out
		e.alive = false
		delete(s.byCurrent, URL)
		return
	}
	if e == nil {
		e = s.ensureEntry(URL, "")
	}
	delete(s.byCurrent, URL)
	if e.backup == "" {
		e.backup = backup
	}
	if e.orig == "" {
		e.orig = URL
		s.byOrigin[URL] = e
	}
	e.kind = KindDelete
	e.url = ""
	e.alive = true
	e.diff = s.diffOf(ctx, e.backup, "", e.orig)
}

// Snapshot returns the uncommitted changes captured by the session.
func (s *Session) Snapshot(ctx context.Context) ([]Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret := make([]Change, 0, len(s.changes))
	for _, e := range s.changes {
		if !e.alive || e.kind == "" {
			continue
		}
		ret = append(ret, Change{Kind: e.kind, OrigURL: e.orig, URL: e.url, Diff: e.diff})
	}
	return ret, nil
}
