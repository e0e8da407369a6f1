package client

import (
	"fmt"
	"net/url"
	"strings"

	"catalog/indexer/internal/domain"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// catalogPage is one page of an HTML catalog listing
type catalogPage struct {
	Items   []domain.Item
	NextURL string // empty on the last page
}

type catalogParser struct{}

func newCatalogParser() *catalogParser {
	return &catalogParser{}
}

// ParseCatalogPage extracts the item tiles of a catalog listing page. A tile looks like
//
//	<div class="catalog-tile" data-uid="..." data-tags="java,quarkus">
//	  <span class="catalog-tile__title">Quarkus</span>
//	</div>
//
// The next-page link is resolved against pageURL, the address the page was fetched from.
func (p *catalogParser) ParseCatalogPage(html, pageURL string) (*catalogPage, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %s: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	page := &catalogPage{
		Items: make([]domain.Item, 0),
	}

	doc.Find(".catalog-tile").Each(func(i int, s *goquery.Selection) {
		uid, exists := s.Attr("data-uid")
		uid = strings.TrimSpace(uid)
		if !exists || uid == "" {
			log.Warnf("⚠️ Skipping catalog tile %d without data-uid", i)
			return
		}

		tagsAttr, _ := s.Attr("data-tags")
		page.Items = append(page.Items, domain.Item{
			UID:  uid,
			Name: strings.TrimSpace(s.Find(".catalog-tile__title").First().Text()),
			Tags: splitTags(tagsAttr),
		})
	})

	if href, exists := doc.Find("a.catalog-pagination__next").First().Attr("href"); exists && strings.TrimSpace(href) != "" {
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return nil, fmt.Errorf("invalid next page link %q: %w", href, err)
		}
		page.NextURL = base.ResolveReference(ref).String()
	}

	log.Debugf("Parsed catalog page with %d items", len(page.Items))
	return page, nil
}

func splitTags(attr string) []string {
	var tags []string
	for _, tag := range strings.Split(attr, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
