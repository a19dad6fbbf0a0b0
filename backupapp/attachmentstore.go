package backupapp

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/arnodel/jtok/filter"
	"github.com/arnodel/jtok/token"
)

// AttachmentStore downloads attachment bytes referenced by the string
// elements of a task object's "attachment_ids" array to local files under
// Dir, and exposes a
// filter.ValueTokenStreamFactory that splices the resulting local paths back
// into the object being backed up via filter.InjectEntry (spec.md §6.3,
// §7's task-with-attachments scenario).
type AttachmentStore struct {
	Client *TaskServiceClient
	Dir    string
}

// InjectLocalPaths returns a filter.ValueTokenStreamFactory that, wired into
// filter.NewInjectEntry("attachment_paths", store.InjectLocalPaths(ctx)),
// watches the object InjectEntry is currently inside for an "attachment_ids"
// array and, once the object closes, downloads each referenced attachment
// and injects an array of local file paths in its place.
func (s *AttachmentStore) InjectLocalPaths(ctx context.Context) filter.ValueTokenStreamFactory {
	return func() (filter.ValueTokenStream, error) {
		return &attachmentValueStream{store: s, ctx: ctx, ch: make(chan token.Token)}, nil
	}
}

type attachmentValueStream struct {
	store *AttachmentStore
	ctx   context.Context
	ch    chan token.Token
	once  sync.Once
	err   error

	inIDs     bool
	sawIDsKey bool
	ids       []string
}

var _ filter.ValueTokenStream = &attachmentValueStream{}

// Put observes the pass-through tokens of the object InjectEntry matched,
// picking out the string elements of its "attachment_ids" array.
func (a *attachmentValueStream) Put(tok token.Token) {
	switch {
	case tok == token.KeyValue("attachment_ids"):
		a.sawIDsKey = true
	case a.sawIDsKey && tok == token.StartArray:
		a.inIDs = true
		a.sawIDsKey = false
	case a.inIDs && tok == token.EndArray:
		a.inIDs = false
	case a.inIDs:
		if s, ok := tok.(token.StringValue); ok {
			a.ids = append(a.ids, string(s))
		}
	}
}

func (a *attachmentValueStream) Close() {
	a.once.Do(func() {
		go a.produce()
	})
}

func (a *attachmentValueStream) produce() {
	defer close(a.ch)

	if err := os.MkdirAll(a.store.Dir, 0o755); err != nil {
		a.err = &ExternalIOError{Op: "create attachment directory", Err: err}
		return
	}

	a.ch <- token.StartArray
	for _, id := range a.ids {
		path, err := a.store.downloadOne(a.ctx, id)
		if err != nil {
			a.err = err
			return
		}
		a.ch <- token.StringValue(path)
	}
	a.ch <- token.EndArray
}

func (a *attachmentValueStream) Tokens() <-chan token.Token { return a.ch }
func (a *attachmentValueStream) Err() error                 { return a.err }

// downloadOne fetches one attachment's content and writes it under Dir,
// named by its attachment ID, returning the local path written.
func (s *AttachmentStore) downloadOne(ctx context.Context, attachmentID string) (string, error) {
	content, err := s.Client.FetchAttachmentContent(ctx, attachmentID)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.Dir, attachmentID)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", &ExternalIOError{Op: "write attachment " + attachmentID, Err: err}
	}
	return path, nil
}
