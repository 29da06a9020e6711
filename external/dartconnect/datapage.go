package dartconnect

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/dart-league-stats/internal/usecase"
)

// fetchProps loads an HTML page and returns the props object of its embedded
// data-page application state.
func (c *Client) fetchProps(ctx context.Context, fullURL string) (map[string]any, error) {
	raw, err := c.getPage(ctx, fullURL)
	if err != nil {
		return nil, err
	}
	props, err := extractProps(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", redactURL(fullURL), err)
	}
	return props, nil
}

// extractProps finds the first element carrying a data-page attribute. The
// HTML parser has already decoded entities in the attribute value.
func extractProps(raw []byte) (map[string]any, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", usecase.ErrRemoteShapeChanged, err)
	}

	value, ok := doc.Find("[data-page]").First().Attr("data-page")
	if !ok || value == "" {
		return nil, fmt.Errorf("%w: data-page attribute missing", usecase.ErrRemoteShapeChanged)
	}

	var page map[string]any
	if err := sonic.UnmarshalString(value, &page); err != nil {
		return nil, fmt.Errorf("%w: decode data-page: %v", usecase.ErrRemoteShapeChanged, err)
	}

	props, ok := page["props"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: data-page has no props", usecase.ErrRemoteShapeChanged)
	}
	return props, nil
}
