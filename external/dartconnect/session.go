package dartconnect

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/riskibarqy/dart-league-stats/internal/usecase"
)

const csrfCookieName = "XSRF-TOKEN"

// AcquireSession loads the public league page and keeps the cookies it sets.
// It is not retried; callers decide whether to try again.
func (c *Client) AcquireSession(ctx context.Context) (usecase.ExternalSession, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, url: c.leaguePath("")})
	if err != nil {
		return usecase.ExternalSession{}, fmt.Errorf("acquire session: %w", err)
	}

	session := usecase.ExternalSession{Cookies: make([]*http.Cookie, 0, len(resp.cookies))}
	for _, cookie := range resp.cookies {
		if cookie == nil || strings.TrimSpace(cookie.Name) == "" {
			continue
		}
		session.Cookies = append(session.Cookies, cookie)
		if cookie.Name != csrfCookieName {
			continue
		}
		token, err := url.QueryUnescape(cookie.Value)
		if err != nil {
			token = cookie.Value
		}
		session.CSRFToken = strings.TrimSpace(token)
	}

	if !session.Valid() {
		return usecase.ExternalSession{}, fmt.Errorf("acquire session: %w: %s cookie missing", usecase.ErrRemoteShapeChanged, csrfCookieName)
	}
	return session, nil
}
