package contentclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"spacetraveling/cmd/internal/httpclient"
	"spacetraveling/config"
	"spacetraveling/models"
)

// Client 는 Prismic 호환 헤드리스 CMS REST API(v2)를 호출하는 얇은 클라이언트다.
//
// - 인증/캐시/재시도는 하지 않는다.
// - 응답 문서를 models 타입으로 변환해서 돌려준다.
type Client struct {
	base *httpclient.BaseClient
}

var (
	ErrNotFound      = models.ErrNotFound
	ErrInvalidCursor = errors.New("invalid page cursor")
	ErrNoMasterRef   = errors.New("content api returned no master ref")
)

const (
	apiPath    = "/api/v2"
	searchPath = "/api/v2/documents/search"

	// uidPageSize 는 정적 경로 수집 시 한 번에 가져오는 문서 수 (API 최대치)
	uidPageSize = 100
)

func New(cfg config.ContentConfig) *Client {
	return &Client{
		base: httpclient.NewBaseClient(cfg.Endpoint, httpclient.Config{Timeout: cfg.Timeout}),
	}
}

// NewWithHTTPClient is used by tests to point the client at a fake API.
func NewWithHTTPClient(endpoint string, httpClient *http.Client) *Client {
	return &Client{base: httpclient.NewBaseClientWithClient(httpClient, endpoint)}
}

// -------------------- Predicates --------------------

// Predicate is a single query predicate in the API's bracket syntax.
type Predicate string

// At matches documents whose path equals value.
func At(path, value string) Predicate {
	return Predicate(fmt.Sprintf("[at(%s,%s)]", path, strconv.Quote(value)))
}

func DocumentType(docType string) Predicate {
	return At("document.type", docType)
}

func encodePredicates(preds []Predicate) string {
	var b strings.Builder
	b.WriteString("[")
	for _, p := range preds {
		b.WriteString(string(p))
	}
	b.WriteString("]")
	return b.String()
}

// -------------------- Query --------------------

type QueryParams struct {
	Predicates []Predicate
	PageSize   int
	Page       int
	// Fetch limits returned fields, e.g. "posts.title"
	Fetch []string
	// Ref 가 비어 있으면 master ref 를 조회해서 사용한다.
	Ref string
}

// Query runs a document search and maps the results to summaries.
func (c *Client) Query(ctx context.Context, params QueryParams) (models.PostPage, error) {
	resp, err := c.search(ctx, params)
	if err != nil {
		return models.PostPage{}, err
	}
	return resp.postPage(), nil
}

// FirstPage fetches the first page of documents of the given type.
func (c *Client) FirstPage(ctx context.Context, documentType string, pageSize int) (models.PostPage, error) {
	return c.Query(ctx, QueryParams{
		Predicates: []Predicate{DocumentType(documentType)},
		PageSize:   pageSize,
	})
}

// FetchPage follows a next_page cursor returned by an earlier search.
// The cursor must point at the configured API origin.
func (c *Client) FetchPage(ctx context.Context, cursor string) (models.PostPage, error) {
	u, err := url.Parse(cursor)
	if err != nil || !u.IsAbs() || !c.base.SameOrigin(u) || !strings.HasSuffix(u.Path, searchPath) {
		return models.PostPage{}, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.PostPage{}, err
	}

	var out searchResponse
	if err := c.doJSON(req, "FetchPage", &out); err != nil {
		return models.PostPage{}, err
	}
	return out.postPage(), nil
}

// UIDs walks every page of the given document type and returns the uids in API order.
func (c *Client) UIDs(ctx context.Context, documentType string) ([]string, error) {
	resp, err := c.search(ctx, QueryParams{
		Predicates: []Predicate{DocumentType(documentType)},
		PageSize:   uidPageSize,
		Fetch:      []string{documentType + ".title"},
	})
	if err != nil {
		return nil, err
	}

	var uids []string
	for {
		for _, d := range resp.Results {
			if d.UID != "" {
				uids = append(uids, d.UID)
			}
		}
		if resp.NextPage == nil || *resp.NextPage == "" {
			return uids, nil
		}
		u, err := url.Parse(*resp.NextPage)
		if err != nil || !c.base.SameOrigin(u) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCursor, *resp.NextPage)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return nil, err
		}
		resp = searchResponse{}
		if err := c.doJSON(req, "UIDs", &resp); err != nil {
			return nil, err
		}
	}
}

// GetByUID loads a single document. ErrNotFound when no document matches.
func (c *Client) GetByUID(ctx context.Context, documentType, uid, ref string) (*models.PostDetail, error) {
	resp, err := c.search(ctx, QueryParams{
		Predicates: []Predicate{At("my."+documentType+".uid", uid)},
		PageSize:   1,
		Ref:        ref,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, ErrNotFound
	}
	detail := resp.Results[0].postDetail()
	return &detail, nil
}

// -------------------- API root --------------------

type apiRef struct {
	ID          string `json:"id"`
	Ref         string `json:"ref"`
	Label       string `json:"label"`
	IsMasterRef bool   `json:"isMasterRef"`
}

type apiResponse struct {
	Refs []apiRef `json:"refs"`
}

// MasterRef returns the ref of the currently published content.
func (c *Client) MasterRef(ctx context.Context) (string, error) {
	req, err := c.base.NewRequest(ctx, http.MethodGet, apiPath, nil, nil)
	if err != nil {
		return "", err
	}
	var out apiResponse
	if err := c.doJSON(req, "MasterRef", &out); err != nil {
		return "", err
	}
	for _, r := range out.Refs {
		if r.IsMasterRef {
			return r.Ref, nil
		}
	}
	return "", ErrNoMasterRef
}

// Health 는 API 루트가 응답하는지 확인한다.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.MasterRef(ctx)
	return err
}

// -------------------- internals --------------------

func (c *Client) search(ctx context.Context, params QueryParams) (searchResponse, error) {
	ref := params.Ref
	if ref == "" {
		var err error
		if ref, err = c.MasterRef(ctx); err != nil {
			return searchResponse{}, err
		}
	}

	q := url.Values{}
	q.Set("ref", ref)
	if len(params.Predicates) > 0 {
		q.Set("q", encodePredicates(params.Predicates))
	}
	if params.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(params.PageSize))
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if len(params.Fetch) > 0 {
		q.Set("fetch", strings.Join(params.Fetch, ","))
	}

	req, err := c.base.NewRequest(ctx, http.MethodGet, searchPath, q, nil)
	if err != nil {
		return searchResponse{}, err
	}
	var out searchResponse
	if err := c.doJSON(req, "Query", &out); err != nil {
		return searchResponse{}, err
	}
	return out, nil
}

func (c *Client) doJSON(req *http.Request, op string, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.base.Do(req)
	if err != nil {
		return fmt.Errorf("content api %s: %w", op, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("content api %s: decode: %w", op, err)
		}
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("content api %s: status=%d body=%s", op, resp.StatusCode, string(body))
	}
}
