package insights

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localpulse/localpulse/internal/domain"
	"github.com/localpulse/localpulse/pkg/logger"
)

func newTestScraper() *MenuScraper {
	scraper := NewMenuScraper(logger.NewNopLogger())
	scraper.allowPrivateURLs = true
	return scraper
}

func TestMenuScraper_MenuItemClass(t *testing.T) {
	page := `<html><body><ul class="menu">
		<li class="menu-item">Flat White ..... $4.50</li>
		<li class="menu-item">Avocado Toast - $12.00</li>
		<li class="menu-item">Ask about our specials</li>
	</ul></body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	items, err := newTestScraper().ScrapeMenu(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Flat White", items[0].Name)
	assert.InDelta(t, 4.50, items[0].Price, 0.001)
	assert.Equal(t, "Avocado Toast", items[1].Name)
	assert.InDelta(t, 12.00, items[1].Price, 0.001)
}

func TestMenuScraper_TableFallback(t *testing.T) {
	page := `<html><body><table>
		<tr><th>Item</th><th>Price</th></tr>
		<tr><td>House Blend</td><td>$3.25</td></tr>
		<tr><td>Croissant</td><td>$ 4.00</td></tr>
	</table></body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	items, err := newTestScraper().ScrapeMenu(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "House Blend", items[0].Name)
	assert.InDelta(t, 3.25, items[0].Price, 0.001)
	assert.Equal(t, "Croissant", items[1].Name)
}

func TestMenuScraper_SkipsScriptContent(t *testing.T) {
	page := `<html><body>
		<li>Espresso $2.75 <script>var price = "$99.99";</script></li>
	</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	items, err := newTestScraper().ScrapeMenu(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Espresso", items[0].Name)
	assert.InDelta(t, 2.75, items[0].Price, 0.001)
}

func TestMenuScraper_PageError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestScraper().ScrapeMenu(context.Background(), server.URL)
	assert.ErrorContains(t, err, "status 404")
}

func TestMenuScraper_BlocksPrivateURL(t *testing.T) {
	scraper := NewMenuScraper(logger.NewNopLogger())
	_, err := scraper.ScrapeMenu(context.Background(), "http://169.254.169.254/menu")
	assert.ErrorContains(t, err, "menu URL")
}

func TestAveragePrice(t *testing.T) {
	assert.Equal(t, 0.0, AveragePrice(nil))

	items := []*domain.MenuItemPrice{
		{Name: "A", Price: 4},
		{Name: "B", Price: 6},
	}
	assert.InDelta(t, 5.0, AveragePrice(items), 0.001)
}
