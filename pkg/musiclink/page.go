package musiclink

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

const (
	// maxPageReadSize limits how much of a page is read when scraping metadata.
	maxPageReadSize = 512 * 1024
)

// pageMeta holds the page fields used for metadata extraction.
type pageMeta struct {
	title   string
	ogTitle string
	ogImage string
}

// PageResolver resolves links of platforms without a structured API by reading
// the Open Graph tags and title of the track page.
type PageResolver struct {
	platform Platform
	cfg      resolverConfig
}

// NewAudiomackResolver creates a page resolver for Audiomack links.
func NewAudiomackResolver(opts ...ResolverOption) *PageResolver {
	return &PageResolver{platform: PlatformAudiomack, cfg: newResolverConfig("", opts)}
}

// NewBoomplayResolver creates a page resolver for Boomplay links.
func NewBoomplayResolver(opts ...ResolverOption) *PageResolver {
	return &PageResolver{platform: PlatformBoomplay, cfg: newResolverConfig("", opts)}
}

// Resolve fetches the page and extracts title, artist and artwork.
func (r *PageResolver) Resolve(ctx context.Context, rawURL string) (*TrackMetadata, error) {
	body, err := fetchHTMLFromURL(ctx, r.cfg.client, r.pageURL(rawURL), string(r.platform), maxPageReadSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s page: %w", r.platform, err)
	}

	meta, err := parsePageMeta(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s page: %w", r.platform, err)
	}

	artist, title, _ := SplitArtistTitle(firstNonEmpty(meta.ogTitle, meta.title))

	return &TrackMetadata{
		Title:      firstNonEmpty(title, UnknownTitle),
		Artist:     firstNonEmpty(artist, UnknownArtist),
		ArtworkURL: meta.ogImage,
	}, nil
}

// pageURL returns the URL to fetch. An endpoint override replaces the scheme
// and host of the link so tests can serve pages locally.
func (r *PageResolver) pageURL(rawURL string) string {
	if r.cfg.endpoint == "" {
		return rawURL
	}
	if i := strings.Index(rawURL, "://"); i >= 0 {
		rest := rawURL[i+3:]
		if j := strings.Index(rest, "/"); j >= 0 {
			return strings.TrimSuffix(r.cfg.endpoint, "/") + rest[j:]
		}
	}
	return r.cfg.endpoint
}

// parsePageMeta walks the document and collects <title> and the og:title and
// og:image meta tags. The first occurrence of each wins.
func parsePageMeta(body string) (*pageMeta, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	meta := &pageMeta{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if meta.title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					meta.title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				var property, content string
				for _, a := range n.Attr {
					switch strings.ToLower(a.Key) {
					case "property", "name":
						property = strings.ToLower(a.Val)
					case "content":
						content = strings.TrimSpace(a.Val)
					}
				}
				switch {
				case property == "og:title" && meta.ogTitle == "":
					meta.ogTitle = content
				case property == "og:image" && meta.ogImage == "":
					meta.ogImage = content
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return meta, nil
}
