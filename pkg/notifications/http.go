package notifications

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

const maxErrorBody = 512

// poster sends request bodies and maps non-2xx responses to errors.
type poster struct {
	client     *http.Client
	bufferPool *sync.Pool
}

func newPoster(timeout time.Duration) *poster {
	return &poster{
		client: &http.Client{Timeout: timeout},
		bufferPool: &sync.Pool{
			New: func() interface{} {
				return new(bytes.Buffer)
			},
		},
	}
}

// do sends body with the given method and returns the response body on 2xx.
func (p *poster) do(ctx context.Context, method, url, contentType string, headers map[string]string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errCreateRequest, err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", userAgent)

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := p.client.Do(req) //nolint:bodyclose // closed below
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errSendRequest, err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			slog.Debug("failed to close response body", slog.Any("error", err))
		}
	}(resp.Body)

	buf := p.bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer p.bufferPool.Put(buf)

	_, _ = io.Copy(buf, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := strings.TrimSpace(buf.String())
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}

		return nil, fmt.Errorf("%w: status=%d body=%s", errUnexpectedStatus, resp.StatusCode, snippet)
	}

	return append([]byte(nil), buf.Bytes()...), nil
}
