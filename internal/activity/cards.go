// ABOUTME: Card and attachment shapes a reply may carry
// ABOUTME: Hero, thumbnail, receipt, adaptive and plain image attachments

package activity

// Attachment content types.
const (
	ContentTypeHero      = "application/vnd.microsoft.card.hero"
	ContentTypeThumbnail = "application/vnd.microsoft.card.thumbnail"
	ContentTypeReceipt   = "application/vnd.microsoft.card.receipt"
	ContentTypeAdaptive  = "application/vnd.microsoft.card.adaptive"
	ContentTypeJPEG      = "image/jpeg"
)

// Attachment is a typed payload on an Activity.
type Attachment struct {
	ContentType string `json:"contentType"`
	ContentURL  string `json:"contentUrl,omitempty"`
	Name        string `json:"name,omitempty"`
	Content     any    `json:"content,omitempty"`
}

// CardImage is an image shown on a card.
type CardImage struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// CardAction is a button on a card.
type CardAction struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Value string `json:"value"`
}

// OpenURL is a button that opens url.
func OpenURL(title, url string) CardAction {
	return CardAction{Type: "openUrl", Title: title, Value: url}
}

// HeroCard has a large image and buttons. ThumbnailCard uses the same shape.
type HeroCard struct {
	Title    string       `json:"title,omitempty"`
	Subtitle string       `json:"subtitle,omitempty"`
	Text     string       `json:"text,omitempty"`
	Images   []CardImage  `json:"images,omitempty"`
	Buttons  []CardAction `json:"buttons,omitempty"`
}

// ReceiptItem is one line on a receipt.
type ReceiptItem struct {
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle,omitempty"`
	Image    *CardImage `json:"image,omitempty"`
	Price    string     `json:"price"`
	Quantity string     `json:"quantity"`
}

// ReceiptCard lists purchased items with totals.
type ReceiptCard struct {
	Title   string        `json:"title"`
	Items   []ReceiptItem `json:"items"`
	Tax     string        `json:"tax,omitempty"`
	Total   string        `json:"total"`
	Buttons []CardAction  `json:"buttons,omitempty"`
}

// AdaptiveCard is a minimal adaptive card: text blocks, one choice set and URL actions.
type AdaptiveCard struct {
	Type    string            `json:"type"`
	Version string            `json:"version"`
	Speak   string            `json:"speak,omitempty"`
	Body    []AdaptiveElement `json:"body"`
	Actions []AdaptiveAction  `json:"actions,omitempty"`
}

// AdaptiveElement is a TextBlock or Input.ChoiceSet.
type AdaptiveElement struct {
	Type    string           `json:"type"`
	Text    string           `json:"text,omitempty"`
	Size    string           `json:"size,omitempty"`
	Weight  string           `json:"weight,omitempty"`
	ID      string           `json:"id,omitempty"`
	Style   string           `json:"style,omitempty"`
	Value   string           `json:"value,omitempty"`
	Choices []AdaptiveChoice `json:"choices,omitempty"`
}

// AdaptiveChoice is one option in a choice set.
type AdaptiveChoice struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// AdaptiveAction is an Action.OpenUrl.
type AdaptiveAction struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

func HeroAttachment(card HeroCard) Attachment {
	return Attachment{ContentType: ContentTypeHero, Content: card}
}

func ThumbnailAttachment(card HeroCard) Attachment {
	return Attachment{ContentType: ContentTypeThumbnail, Content: card}
}

func ReceiptAttachment(card ReceiptCard) Attachment {
	return Attachment{ContentType: ContentTypeReceipt, Content: card}
}

func AdaptiveAttachment(card AdaptiveCard) Attachment {
	if card.Type == "" {
		card.Type = "AdaptiveCard"
	}
	if card.Version == "" {
		card.Version = "1.0"
	}
	return Attachment{ContentType: ContentTypeAdaptive, Content: card}
}

// ImageAttachment references an image by URL.
func ImageAttachment(name, url, contentType string) Attachment {
	if contentType == "" {
		contentType = ContentTypeJPEG
	}
	return Attachment{ContentType: contentType, ContentURL: url, Name: name}
}
