package ironstar

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/probegapp/probeg/internal/domain/calendar"
	"github.com/probegapp/probeg/internal/platform/logging"
)

const (
	defaultBaseURL = "https://iron-star.com"
	eventsPath     = "/event/"
	sourceName     = "IronStar"
)

// Cities recoverable from event slugs.
var slugCities = map[string]string{
	"moskva":   "Москва",
	"moscow":   "Москва",
	"luzhniki": "Москва",
	"voronezh": "Воронеж",
	"minsk":    "Минск",
	"sochi":    "Сочи",
	"egypt":    "Египет",
	"sharm":    "Шарм-эль-Шейх",
	"zavidovo": "Завидово",
	"tyumen":   "Тюмень",
}

var (
	eventSlugRegex  = regexp.MustCompile(`(?i)/event/([a-z0-9-]+)/`)
	dottedDateRegex = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)
)

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	Logger     *logging.Logger
}

// Client scrapes the IronStar event calendar page. The calendar is
// server-rendered, so a plain fetch plus markup walk is enough; event
// dates sit in the card text near each event link.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{httpClient: httpClient, baseURL: baseURL, logger: logger}
}

func (c *Client) Name() string {
	return sourceName
}

func (c *Client) FetchUpcoming(ctx context.Context) ([]calendar.RawEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+eventsPath, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Wrap(err, "fetch event calendar")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, crerr.Newf("event calendar status %d", resp.StatusCode)
	}

	markup, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, crerr.Wrap(err, "read event calendar")
	}

	events := ParseCalendar(string(markup), c.baseURL)
	c.logger.InfoContext(ctx, "ironstar calendar fetched", "events", len(events))
	return events, nil
}

// ParseCalendar walks the calendar markup and builds one raw event per
// distinct /event/<slug>/ link. The date is taken from the nearest
// enclosing element whose text carries a dd.mm.yyyy substring.
func ParseCalendar(markup, baseURL string) []calendar.RawEvent {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var events []calendar.RawEvent

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			if event, ok := eventFromAnchor(n, baseURL, seen); ok {
				events = append(events, event)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	return events
}

func eventFromAnchor(anchor *html.Node, baseURL string, seen map[string]struct{}) (calendar.RawEvent, bool) {
	href := attrValue(anchor, "href")
	match := eventSlugRegex.FindStringSubmatch(href)
	if match == nil {
		return calendar.RawEvent{}, false
	}
	slug := strings.ToLower(match[1])
	if strings.Contains(slug, "event") || len(slug) < 5 {
		return calendar.RawEvent{}, false
	}

	eventURL := href
	if !strings.HasPrefix(href, "http") {
		eventURL = baseURL + "/event/" + slug + "/"
	}
	if _, dup := seen[eventURL]; dup {
		return calendar.RawEvent{}, false
	}
	seen[eventURL] = struct{}{}

	city := slugCity(slug)
	return calendar.RawEvent{
		Name:       slugToName(slug),
		Date:       nearbyDate(anchor),
		Location:   city,
		WebsiteURL: eventURL,
	}, true
}

// nearbyDate climbs a few ancestors looking for a dd.mm.yyyy substring,
// since the date lives in the event card, not the link itself.
func nearbyDate(anchor *html.Node) string {
	node := anchor
	for depth := 0; depth < 5 && node != nil; depth++ {
		if match := dottedDateRegex.FindString(subtreeText(node)); match != "" {
			return match
		}
		node = node.Parent
	}
	return ""
}

func slugToName(slug string) string {
	words := strings.Split(slug, "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return "IronStar " + strings.Join(words, " ")
}

func slugCity(slug string) string {
	for fragment, city := range slugCities {
		if strings.Contains(slug, fragment) {
			return city
		}
	}
	return ""
}

func attrValue(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

func subtreeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteByte(' ')
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}
