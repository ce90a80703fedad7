package harvest

import (
	"fmt"
	"io"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

const (
	clutterSelector = "script, style, nav, footer, noscript"
	textNodeName    = "#text"
)

// ExtractText parses an HTML document, drops scripts, styles, navigation and footers,
// and returns its text with whitespace collapsed, or Markdown when markdown is set.
// Results longer than limit runes are truncated; a limit of zero keeps everything.
func ExtractText(document io.Reader, limit int, markdown bool) (string, error) {
	parsed, err := goquery.NewDocumentFromReader(document)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	parsed.Find(clutterSelector).Remove()

	var text string
	if markdown {
		cleanedHTML, htmlErr := parsed.Html()
		if htmlErr != nil {
			return "", fmt.Errorf("render html: %w", htmlErr)
		}
		converter := md.NewConverter("", true, nil)
		converted, convertErr := converter.ConvertString(cleanedHTML)
		if convertErr != nil {
			return "", fmt.Errorf("convert to markdown: %w", convertErr)
		}
		text = strings.TrimSpace(converted)
	} else {
		var parts []string
		collectText(parsed.Selection, &parts)
		text = strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	}
	return truncateRunes(text, limit), nil
}

// collectText appends the text nodes below selection in document order.
func collectText(selection *goquery.Selection, parts *[]string) {
	selection.Contents().Each(func(_ int, child *goquery.Selection) {
		nodeName := goquery.NodeName(child)
		if nodeName == textNodeName {
			if trimmed := strings.TrimSpace(child.Text()); trimmed != "" {
				*parts = append(*parts, trimmed)
			}
			return
		}
		if strings.HasPrefix(nodeName, "#") {
			return
		}
		collectText(child, parts)
	})
}

func truncateRunes(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
