package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// maxStreamMessage bounds one websocket frame; a final result can carry thousands of edges.
const maxStreamMessage = 32 << 20

// AncestryService handles resolution, lookup, and discovery.
type AncestryService struct {
	c *Client
}

// Resolve maps a surface name (e.g. "mug") to its knowledge-graph identifier.
func (s *AncestryService) Resolve(ctx context.Context, name string) (*ResolveResponse, error) {
	var resp ResolveResponse
	if err := s.c.get(ctx, "/api/v1/resolve", url.Values{"name": {name}}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Lookup returns the direct types, hypernyms, or disambiguations of node.
func (s *AncestryService) Lookup(ctx context.Context, kind, node string) (*LookupResponse, error) {
	var resp LookupResponse
	path := "/api/v1/lookup/" + url.PathEscape(kind)
	if err := s.c.get(ctx, path, url.Values{"node": {node}}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Discover computes the ancestry of name.
func (s *AncestryService) Discover(ctx context.Context, name string, opts *DiscoverOptions) (*DiscoverResponse, error) {
	var resp DiscoverResponse
	if err := s.c.get(ctx, "/api/v1/ancestry", discoverParams(name, opts), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DiscoverBatch computes the ancestries of several names at once. Results are in input order.
// opts.Save is ignored.
func (s *AncestryService) DiscoverBatch(ctx context.Context, names []string, opts *DiscoverOptions) ([]*Result, error) {
	body := map[string]any{"names": names}
	if opts != nil {
		body["raw"] = opts.Raw
		body["disambiguate"] = opts.Disambiguate
	}

	var resp struct {
		Results []*Result `json:"results"`
	}
	if err := s.c.post(ctx, "/api/v1/ancestry/batch", body, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// streamMessage mirrors one frame of the ancestry stream.
type streamMessage struct {
	Type   string            `json:"type"`
	Edge   *Edge             `json:"edge,omitempty"`
	Result *DiscoverResponse `json:"result,omitempty"`
	Error  *APIError         `json:"error,omitempty"`
}

// Stream computes the ancestry of name over a websocket, calling onEdge for every edge as the
// server records it. It returns the final result once the server sends it.
func (s *AncestryService) Stream(ctx context.Context, name string, opts *DiscoverOptions, onEdge func(Edge)) (*DiscoverResponse, error) {
	u := s.c.baseURL + "/api/v1/ancestry/stream?" + discoverParams(name, opts).Encode()
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}

	conn, resp, err := websocket.Dial(ctx, u, &websocket.DialOptions{HTTPClient: s.c.httpClient})
	if err != nil {
		if resp != nil && resp.StatusCode >= 400 {
			return nil, &APIError{StatusCode: resp.StatusCode, Code: "unknown", Message: err.Error()}
		}
		return nil, fmt.Errorf("dial stream: %w", err)
	}
	defer conn.CloseNow() //nolint:errcheck

	conn.SetReadLimit(maxStreamMessage)

	for {
		var msg streamMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			return nil, fmt.Errorf("read stream: %w", err)
		}

		switch msg.Type {
		case "edge":
			if msg.Edge != nil && onEdge != nil {
				onEdge(*msg.Edge)
			}
		case "result":
			conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck
			return msg.Result, nil
		case "error":
			if msg.Error == nil {
				return nil, fmt.Errorf("stream failed without detail")
			}
			msg.Error.StatusCode = streamErrorStatus(msg.Error.Code)
			return nil, msg.Error
		}
	}
}

// streamErrorStatus recovers the HTTP status the server would have used for code.
func streamErrorStatus(code string) int {
	switch code {
	case "validation_error", "invalid_request":
		return 400
	case "storage_disabled":
		return 501
	case "upstream_error":
		return 502
	case "upstream_timeout":
		return 504
	default:
		return 500
	}
}

func discoverParams(name string, opts *DiscoverOptions) url.Values {
	params := url.Values{"name": {name}}
	if opts != nil {
		if opts.Raw {
			params.Set("raw", strconv.FormatBool(true))
		}
		if opts.Disambiguate {
			params.Set("disambiguate", strconv.FormatBool(true))
		}
		if opts.Save {
			params.Set("save", strconv.FormatBool(true))
		}
	}
	return params
}
