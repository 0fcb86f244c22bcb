package importer

import (
	"context"
	"strings"

	"inkwell/cmd/devserver/services"
	"inkwell/internal/logger"
	"inkwell/models"
)

// ImportAuthor 는 가져온 모든 글의 작성자다.
var ImportAuthor = models.Author{ID: "feeds", Name: "Feed Importer", Username: "feeds"}

// Result 는 Import 호출 한 번의 결과 집계다.
type Result struct {
	Imported int
	Skipped  int
}

// Import 는 아직 없는 제목의 항목마다 공개 글을 만든다.
// 목록이 피드 순서를 유지하도록 오래된 항목부터 넣는다.
func Import(ctx context.Context, svc *services.PostService, items []FeedItem) (Result, error) {
	var res Result
	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]
		if item.Title == "" {
			res.Skipped++
			continue
		}

		exists, serr := svc.HasTitle(ctx, item.Title)
		if serr != nil {
			return res, serr
		}
		if exists {
			res.Skipped++
			continue
		}

		_, serr = svc.Create(ctx, ImportAuthor, models.CreatePostInput{
			Title:       item.Title,
			Content:     CleanContent(item.Content, item.Link),
			Category:    categoryFor(item.Categories),
			Tags:        tagsFor(item.Categories),
			IsPublished: true,
		})
		if serr != nil {
			// 본문이 비어 있는 항목 등은 건너뛰고 나머지를 계속 가져온다.
			logger.WarnWithFields("feed item skipped", logger.Fields{
				"title": item.Title,
				"link":  item.Link,
				"error": serr.Error(),
			})
			res.Skipped++
			continue
		}
		res.Imported++
	}
	return res, nil
}

var categoryKeywords = map[models.Category][]string{
	models.CategoryTechnology: {"go", "golang", "backend", "frontend", "devops", "programming", "engineering", "ai", "cloud"},
	models.CategoryDesign:     {"design", "ux", "ui", "typography"},
	models.CategoryBusiness:   {"business", "startup", "pricing", "marketing", "product"},
	models.CategoryLifestyle:  {"life", "lifestyle", "habits", "travel", "health"},
	models.CategoryTutorial:   {"tutorial", "howto", "how-to", "guide"},
}

// categoryFor 는 피드 카테고리를 글 카테고리로 바꾼다. 맞는 것이 없으면 Technology.
func categoryFor(feedCategories []string) models.Category {
	for _, fc := range feedCategories {
		if c, err := models.ParseCategory(fc); err == nil && c.IsConcrete() {
			return c
		}
	}
	for _, c := range models.Categories {
		for _, fc := range feedCategories {
			if containsFold(categoryKeywords[c], strings.TrimSpace(fc)) {
				return c
			}
		}
	}
	return models.CategoryTechnology
}

func tagsFor(feedCategories []string) []string {
	tags := make([]string, 0, len(feedCategories))
	for _, fc := range feedCategories {
		tags = append(tags, strings.ToLower(strings.TrimSpace(fc)))
	}
	return models.NormalizeTags(tags)
}

func containsFold(words []string, s string) bool {
	for _, w := range words {
		if strings.EqualFold(w, s) {
			return true
		}
	}
	return false
}
