// Package importer 는 RSS/Atom 피드로 개발 서버에 글을 채워
// 실제와 비슷한 데이터로 클라이언트를 돌려볼 수 있게 한다.
package importer

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

type FeedItem struct {
	Title       string
	Link        string
	Content     string
	Categories  []string
	PublishedAt time.Time
}

// FetchFeed 는 feedURL 의 피드를 가져와 파싱한다.
// limit 이 0보다 크면 앞의 limit 개 항목만 반환한다.
func FetchFeed(ctx context.Context, client *http.Client, feedURL string, limit int) ([]FeedItem, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	fp := gofeed.NewParser()
	fp.Client = client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	items := make([]FeedItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		// content:encoded 가 없으면 description 을 본문으로 쓴다.
		content := item.Content
		if strings.TrimSpace(content) == "" {
			content = item.Description
		}

		items = append(items, FeedItem{
			Title:       strings.TrimSpace(item.Title),
			Link:        item.Link,
			Content:     content,
			Categories:  item.Categories,
			PublishedAt: published,
		})
	}

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
