package backupapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/arnodel/jtok/filter"
	"github.com/arnodel/jtok/token"
)

func TestAttachmentStoreInjectLocalPaths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("bytes for " + r.URL.Path))
	}))
	defer srv.Close()

	dir := t.TempDir()
	store := &AttachmentStore{
		Client: NewTaskServiceClient(TaskServiceConfig{BaseURL: srv.URL}),
		Dir:    dir,
	}

	inject := filter.NewInjectEntry("attachment_paths", store.InjectLocalPaths(context.Background()))

	in := make(chan token.Token, 32)
	in <- token.StartObject
	in <- token.KeyValue("title")
	in <- token.StringValue("a task")
	in <- token.KeyValue("attachment_ids")
	in <- token.StartArray
	in <- token.StringValue("att-1")
	in <- token.StringValue("att-2")
	in <- token.EndArray
	in <- token.EndObject
	close(in)

	out := token.TransformStream(in, inject)

	var toks []token.Token
	for tok := range out {
		toks = append(toks, tok)
	}

	var paths []string
	for _, tok := range toks {
		if s, ok := tok.(token.StringValue); ok {
			p := string(s)
			if filepath.Dir(p) == dir {
				paths = append(paths, p)
			}
		}
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 injected local paths, got %d: %v", len(paths), paths)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected attachment file to exist at %s: %v", p, err)
		}
	}

	foundKey := false
	for _, tok := range toks {
		if tok == token.KeyValue("attachment_paths") {
			foundKey = true
		}
	}
	if !foundKey {
		t.Error("expected an injected attachment_paths key")
	}
}
