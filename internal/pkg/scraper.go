package pkg

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

type NewsItem struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Link    string `json:"link"`
	Image   string `json:"image,omitempty"`
	Time    string `json:"time,omitempty"`
}

// 页面上两种列表结构：标题选择器 + 摘要选择器
var newsLayouts = []struct {
	item, title, summary string
}{
	{item: ".story_list", title: "h2 a", summary: "p.wrapLines.l3"},
	{item: ".eachStory", title: "h3 a", summary: "p.wrapLines.l5"},
}

type HTMLScraper struct {
	client *http.Client
}

func NewHTMLScraper(client *http.Client) *HTMLScraper {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTMLScraper{client: client}
}

// Scrape 单个 URL 失败只记录日志，不影响其他 URL
func (s *HTMLScraper) Scrape(ctx context.Context, urls []string) ([]NewsItem, error) {
	all := make([]NewsItem, 0)
	for _, u := range urls {
		items, err := s.scrapeURL(ctx, u)
		if err != nil {
			slog.WarnContext(ctx, "scrape url failed", "url", u, "err", err)
			continue
		}
		all = append(all, items...)
	}
	return all, nil
}

func (s *HTMLScraper) scrapeURL(ctx context.Context, pageURL string) ([]NewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; finai-news/1.0)")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}
	base, _ := url.Parse(pageURL)
	return ParseNews(doc, base), nil
}

// ParseNews 标题、摘要、链接缺一则丢弃该条
func ParseNews(doc *goquery.Document, base *url.URL) []NewsItem {
	items := make([]NewsItem, 0)
	for _, l := range newsLayouts {
		doc.Find(l.item).Each(func(_ int, sel *goquery.Selection) {
			a := sel.Find(l.title).First()
			title, _ := a.Attr("title")
			if title == "" {
				title = strings.TrimSpace(a.Text())
			}
			summary := strings.TrimSpace(sel.Find(l.summary).Text())
			href, _ := a.Attr("href")
			link := absoluteURL(base, href)
			if title == "" || summary == "" || link == "" {
				return
			}
			image, _ := sel.Find("img").First().Attr("src")
			items = append(items, NewsItem{
				Title:   title,
				Summary: summary,
				Link:    link,
				Image:   image,
				Time:    strings.TrimSpace(sel.Find("time").First().Text()),
			})
		})
	}
	return items
}

func absoluteURL(base *url.URL, href string) string {
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
