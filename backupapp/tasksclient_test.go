package backupapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arnodel/jtok/token"
)

// TestTaskServiceClientPagination serves two pages of a JSON array and
// checks the client reassembles them into one flat array followed by
// token.FinalToken.
func TestTaskServiceClientPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		switch page {
		case "1":
			w.Header().Set(nextPageHeader, "2")
			w.Write([]byte(`[{"id": 1}, {"id": 2}]`))
		case "2":
			w.Write([]byte(`[{"id": 3}]`))
		default:
			t.Errorf("unexpected page %q", page)
		}
	}))
	defer srv.Close()

	client := NewTaskServiceClient(TaskServiceConfig{BaseURL: srv.URL})
	source := client.CreateListsStream(context.Background())

	out := make(chan token.Token, 64)
	if err := source.Produce(out); err != nil {
		t.Fatalf("Produce: %v", err)
	}
	close(out)

	var toks []token.Token
	for tok := range out {
		toks = append(toks, tok)
	}

	if toks[0] != token.StartArray {
		t.Fatalf("expected leading StartArray, got %#v", toks[0])
	}
	if toks[len(toks)-1] != (token.FinalToken{}) {
		t.Errorf("expected trailing FinalToken, got %#v", toks[len(toks)-1])
	}
	if toks[len(toks)-2] != token.EndArray {
		t.Errorf("expected EndArray before FinalToken, got %#v", toks[len(toks)-2])
	}

	idCount := 0
	for _, tok := range toks {
		if tok == token.KeyValue("id") {
			idCount++
		}
	}
	if idCount != 3 {
		t.Errorf("expected 3 id keys across both pages, got %d", idCount)
	}
}

// TestFetchAttachmentContent exercises the single-attachment download path.
func TestFetchAttachmentContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("attachment bytes"))
	}))
	defer srv.Close()

	client := NewTaskServiceClient(TaskServiceConfig{BaseURL: srv.URL})
	data, err := client.FetchAttachmentContent(context.Background(), "att-1")
	if err != nil {
		t.Fatalf("FetchAttachmentContent: %v", err)
	}
	if string(data) != "attachment bytes" {
		t.Errorf("unexpected content: %q", data)
	}
}
