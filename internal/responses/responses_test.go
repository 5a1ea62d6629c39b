// ABOUTME: Tests for reply formatting and card builders
// ABOUTME: Confirms formatted lines and card shapes

package responses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/picbot/internal/activity"
)

func TestFormattedLines(t *testing.T) {
	assert.Equal(t, "Sentiment: (0.5).", Sentiment(0.5))
	assert.Equal(t, "Intent: OrderPic (0.91).", IntentScore("OrderPic", 0.91))
	assert.Equal(t, "Your language has been detected as 'fr'", Language("fr"))
}

func TestCards(t *testing.T) {
	thumbs := ThumbnailCards()
	require.Len(t, thumbs.Attachments, 3)
	assert.Equal(t, activity.LayoutList, thumbs.AttachmentLayout)
	for _, att := range thumbs.Attachments {
		assert.Equal(t, activity.ContentTypeThumbnail, att.ContentType)
	}

	receipt := ReceiptCard()
	require.Len(t, receipt.Attachments, 1)
	assert.Equal(t, "112.77", receipt.Attachments[0].Content.(activity.ReceiptCard).Total)

	assert.Equal(t, activity.ContentTypeHero, HeroCard().Attachments[0].ContentType)
	assert.Equal(t, activity.ContentTypeAdaptive, RichCard().Attachments[0].ContentType)
	assert.Equal(t, "https://aka.ms/catwithtie", ImageCard().Attachments[0].ContentURL)
}
