// ABOUTME: Renders activities for text-only channels as markdown and HTML
// ABOUTME: HTML is produced from the markdown with goldmark

package activity

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
)

// RenderMarkdown flattens an activity and its cards into markdown.
func RenderMarkdown(a Activity) string {
	var b strings.Builder
	if a.Text != "" {
		b.WriteString(escapeMarkdown(a.Text))
	}
	for _, att := range a.Attachments {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		renderAttachment(&b, att)
	}
	return b.String()
}

// RenderHTML renders the markdown form of a to HTML.
func RenderHTML(a Activity) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(RenderMarkdown(a)), &buf); err != nil {
		return "", fmt.Errorf("rendering activity %s: %w", a.ID, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func renderAttachment(b *strings.Builder, att Attachment) {
	switch c := att.Content.(type) {
	case HeroCard:
		renderHero(b, c)
	case ReceiptCard:
		fmt.Fprintf(b, "**%s**\n", escapeMarkdown(c.Title))
		for _, item := range c.Items {
			fmt.Fprintf(b, "\n- %s x%s: %s", escapeMarkdown(item.Title), item.Quantity, item.Price)
		}
		if c.Tax != "" {
			fmt.Fprintf(b, "\n\nTax: %s", c.Tax)
		}
		fmt.Fprintf(b, "\n\nTotal: **%s**", c.Total)
		renderButtons(b, c.Buttons)
	case AdaptiveCard:
		for i, el := range c.Body {
			if i > 0 {
				b.WriteString("\n\n")
			}
			switch el.Type {
			case "TextBlock":
				if el.Weight == "bolder" {
					fmt.Fprintf(b, "**%s**", escapeMarkdown(el.Text))
				} else {
					b.WriteString(escapeMarkdown(el.Text))
				}
			case "Input.ChoiceSet":
				for j, ch := range el.Choices {
					if j > 0 {
						b.WriteString("\n")
					}
					fmt.Fprintf(b, "- %s", escapeMarkdown(ch.Title))
				}
			}
		}
		for _, act := range c.Actions {
			fmt.Fprintf(b, "\n\n[%s](%s)", escapeMarkdown(act.Title), act.URL)
		}
	default:
		if att.ContentURL != "" {
			fmt.Fprintf(b, "![%s](%s)", escapeMarkdown(att.Name), att.ContentURL)
		}
	}
}

func renderHero(b *strings.Builder, c HeroCard) {
	if c.Title != "" {
		fmt.Fprintf(b, "**%s**", escapeMarkdown(c.Title))
	}
	if c.Subtitle != "" {
		fmt.Fprintf(b, "\n\n_%s_", escapeMarkdown(c.Subtitle))
	}
	if c.Text != "" {
		fmt.Fprintf(b, "\n\n%s", escapeMarkdown(c.Text))
	}
	for _, img := range c.Images {
		fmt.Fprintf(b, "\n\n![%s](%s)", escapeMarkdown(img.Alt), img.URL)
	}
	renderButtons(b, c.Buttons)
}

func renderButtons(b *strings.Builder, buttons []CardAction) {
	for _, btn := range buttons {
		fmt.Fprintf(b, "\n\n[%s](%s)", escapeMarkdown(btn.Title), btn.Value)
	}
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", "&lt;",
	">", "&gt;",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
