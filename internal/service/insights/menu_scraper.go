package insights

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

// priceRe matches a dollar amount like $12, $12.50 or $ 8.00.
var priceRe = regexp.MustCompile(`\$\s?(\d+(?:\.\d{2})?)`)

// menuItemSelectors are tried in order; the first selector with matches wins.
// The generic fallbacks cover plain list or table based menus.
var menuItemSelectors = []string{
	".menu-item",
	"[itemtype$='MenuItem']",
	"li",
	"tr",
}

// MenuScraper extracts item names and prices from a competitor's menu page.
type MenuScraper struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logger.Logger

	allowPrivateURLs bool // testing only
}

// NewMenuScraper creates a scraper. Scrapes are rate limited to stay polite.
func NewMenuScraper(log logger.Logger) *MenuScraper {
	return &MenuScraper{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(0.5), 1),
		logger:     log,
	}
}

// ScrapeMenu fetches pageURL and returns the menu items it could parse.
// Elements without a recognizable price are skipped.
func (s *MenuScraper) ScrapeMenu(ctx context.Context, pageURL string) ([]*domain.MenuItemPrice, error) {
	if !s.allowPrivateURLs {
		if err := domain.ValidateWebhookURL(pageURL); err != nil {
			return nil, fmt.Errorf("menu URL: %w", err)
		}
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "localpulse-menu-bot/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("menu page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse menu page: %w", err)
	}

	items := s.extractItems(doc)
	s.logger.WithFields(map[string]interface{}{
		"url":   pageURL,
		"items": len(items),
	}).Info("Menu page scraped")
	return items, nil
}

func (s *MenuScraper) extractItems(doc *goquery.Document) []*domain.MenuItemPrice {
	for _, selector := range menuItemSelectors {
		var items []*domain.MenuItemPrice
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			for _, node := range sel.Nodes {
				if item := parseMenuItem(node); item != nil {
					items = append(items, item)
				}
			}
		})
		if len(items) > 0 {
			return items
		}
	}
	return nil
}

// parseMenuItem extracts "name ... $price" from the element's text content.
func parseMenuItem(node *html.Node) *domain.MenuItemPrice {
	text := collapseWhitespace(nodeText(node))

	match := priceRe.FindStringSubmatchIndex(text)
	if match == nil {
		return nil
	}

	price, err := strconv.ParseFloat(text[match[2]:match[3]], 64)
	if err != nil || price <= 0 {
		return nil
	}

	name := strings.TrimSpace(strings.Trim(text[:match[0]], " -.…"))
	if name == "" {
		return nil
	}

	return &domain.MenuItemPrice{Name: name, Price: price}
}

// nodeText walks the subtree collecting text nodes, skipping script/style.
func nodeText(node *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	return sb.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// AveragePrice returns the mean item price, or 0 for an empty menu.
func AveragePrice(items []*domain.MenuItemPrice) float64 {
	if len(items) == 0 {
		return 0
	}
	var total float64
	for _, item := range items {
		total += item.Price
	}
	return total / float64(len(items))
}
