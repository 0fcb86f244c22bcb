package importer

import (
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// minReadableLength 보다 짧은 결과는 readability 가 본문을 잘못 고른 것으로 본다.
const minReadableLength = 40

// CleanContent 는 피드 항목 HTML 을 본문만 남기도록 줄인다. 페이지 전체를 싣는
// 피드는 readability 로 정리하고, 짧거나 파싱할 수 없는 본문은 그대로 둔다.
func CleanContent(rawHTML, link string) string {
	rawHTML = strings.TrimSpace(rawHTML)
	if rawHTML == "" {
		return ""
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML
	}

	pageURL, _ := url.Parse(link)
	article, err := readability.FromDocument(doc, pageURL)
	if err != nil || len(strings.TrimSpace(article.TextContent)) < minReadableLength {
		return rawHTML
	}
	if content := strings.TrimSpace(article.Content); content != "" {
		return content
	}
	return rawHTML
}
