package backupapp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/arnodel/jtok/encoding/json"
	"github.com/arnodel/jtok/token"
)

// TaskServiceClient talks to a remote task-management service's paginated
// HTTP API, rate-limited so a full backup run doesn't trip the service's own
// quota. Each CreateXStream method returns a token.StreamSource that emits a
// JSON array of objects fetched page by page, ending with the synthetic
// token.FinalToken once the source is exhausted (spec.md §6's "final
// synthetic finalToken" collaborator convention).
type TaskServiceClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	pageSize   int
}

// NewTaskServiceClient builds a client from configuration, defaulting
// PageSize to 100 and the rate limiter to 5 req/s with a burst of 5 when the
// config leaves them unset.
func NewTaskServiceClient(cfg TaskServiceConfig) *TaskServiceClient {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}
	return &TaskServiceClient{
		httpClient: &http.Client{Timeout: cfg.timeout()},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		pageSize:   pageSize,
	}
}

// CreateListsStream streams every task list the account owns.
func (c *TaskServiceClient) CreateListsStream(ctx context.Context) token.StreamSource {
	return &paginatedSource{client: c, ctx: ctx, path: "/lists"}
}

// CreateTasksStream streams every task in a given list.
func (c *TaskServiceClient) CreateTasksStream(ctx context.Context, listID string) token.StreamSource {
	return &paginatedSource{client: c, ctx: ctx, path: "/lists/" + url.PathEscape(listID) + "/tasks"}
}

// CreateAttachmentsStream streams attachment metadata for a given task.
func (c *TaskServiceClient) CreateAttachmentsStream(ctx context.Context, taskID string) token.StreamSource {
	return &paginatedSource{client: c, ctx: ctx, path: "/tasks/" + url.PathEscape(taskID) + "/attachments"}
}

// CreateAttachmentsContentBytesStream streams attachment metadata for a
// given task from the same endpoint as CreateAttachmentsStream, with the
// with_content=true query parameter set on every page request so the
// service includes each attachment's content. AttachmentStore does not use
// this stream; it downloads content through FetchAttachmentContent.
func (c *TaskServiceClient) CreateAttachmentsContentBytesStream(ctx context.Context, taskID string) token.StreamSource {
	return &paginatedSource{client: c, ctx: ctx, path: "/tasks/" + url.PathEscape(taskID) + "/attachments", withContent: true}
}

// FetchAttachmentContent downloads the raw bytes of a single attachment,
// rate-limited the same as the paginated endpoints. Used by AttachmentStore
// to materialize attachment content to local files.
func (c *TaskServiceClient) FetchAttachmentContent(ctx context.Context, attachmentID string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &ExternalIOError{Op: "rate limiter", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/attachments/"+url.PathEscape(attachmentID)+"/content", nil)
	if err != nil {
		return nil, &ExternalIOError{Op: "build attachment content request", Err: err}
	}
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ExternalIOError{Op: "fetch attachment content", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ExternalIOError{Op: "fetch attachment content", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ExternalIOError{Op: "read attachment content", Err: err}
	}
	return body, nil
}

func (c *TaskServiceClient) setAuth(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// nextPageHeader is the convention this client assumes the task service
// follows: a non-empty X-Next-Page response header means another page is
// available, carrying the page number/token to request next.
const nextPageHeader = "X-Next-Page"

// paginatedSource is the token.StreamSource backing every CreateXStream
// method: it fetches successive pages of a JSON array endpoint and
// re-streams their elements inside one outer array, followed by
// token.FinalToken.
type paginatedSource struct {
	client      *TaskServiceClient
	ctx         context.Context
	path        string
	withContent bool
}

var _ token.StreamSource = &paginatedSource{}

func (s *paginatedSource) Produce(out chan<- token.Token) error {
	out <- token.StartArray

	page := "1"
	for page != "" {
		body, next, err := s.fetchPage(page)
		if err != nil {
			return err
		}
		if err := s.streamPageElements(body, out); err != nil {
			return err
		}
		page = next
	}

	out <- token.EndArray
	out <- token.FinalToken{}
	return nil
}

func (s *paginatedSource) fetchPage(page string) (io.ReadCloser, string, error) {
	log.Debug().Str("path", s.path).Str("page", page).Msg("fetching task service page")

	if err := s.client.limiter.Wait(s.ctx); err != nil {
		return nil, "", &ExternalIOError{Op: "rate limiter", Err: err}
	}

	q := url.Values{}
	q.Set("page", page)
	q.Set("page_size", strconv.Itoa(s.client.pageSize))
	if s.withContent {
		q.Set("with_content", "true")
	}

	req, err := http.NewRequestWithContext(s.ctx, http.MethodGet, s.client.baseURL+s.path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, "", &ExternalIOError{Op: "build request for " + s.path, Err: err}
	}
	s.client.setAuth(req)

	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("path", s.path).Str("page", page).Msg("task service request failed")
		return nil, "", &ExternalIOError{Op: "request " + s.path, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		log.Error().Int("status", resp.StatusCode).Str("path", s.path).Str("page", page).Msg("task service returned an error status")
		return nil, "", &ExternalIOError{Op: "request " + s.path, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return resp.Body, resp.Header.Get(nextPageHeader), nil
}

// streamPageElements decodes a page's JSON array response body and
// re-emits its elements (without the page's own StartArray/EndArray
// wrapper) onto out.
func (s *paginatedSource) streamPageElements(body io.ReadCloser, out chan<- token.Token) error {
	defer body.Close()

	decoder := json.NewDecoder(body)
	pageTokens := make(chan token.Token, 64)
	decodeErr := make(chan error, 1)
	go func() {
		decodeErr <- decoder.Produce(pageTokens)
		close(pageTokens)
	}()

	var toks []token.Token
	for tok := range pageTokens {
		toks = append(toks, tok)
	}
	if err := <-decodeErr; err != nil {
		return &ExternalIOError{Op: "decode page from " + s.path, Err: err}
	}
	if len(toks) < 2 || toks[0] != token.StartArray || toks[len(toks)-1] != token.EndArray {
		return &ExternalIOError{Op: "decode page from " + s.path, Err: fmt.Errorf("expected a JSON array response")}
	}
	// Strip the page's own wrapping StartArray/EndArray: the caller is
	// re-assembling one flat array across every page.
	for _, tok := range toks[1 : len(toks)-1] {
		out <- tok
	}
	return nil
}
