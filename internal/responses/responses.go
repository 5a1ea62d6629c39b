// ABOUTME: Reply texts and card builders for PictureBot
// ABOUTME: Localizable texts are translated by the caller; formatted lines are sent as-is

package responses

import (
	"fmt"
	"strconv"

	"github.com/2389/picbot/internal/activity"
)

// Localizable replies.
const (
	Greeting           = "Hi, I'm PictureBot!"
	Help               = "I can search for pictures, share pictures and order prints of pictures."
	Confused           = "I'm sorry, I don't understand."
	ShareConfirmation  = "Posting your picture(s) on twitter..."
	OrderConfirmation  = "Ordering standard prints of your picture(s)..."
	SearchConfirmation = "I'm searching for your picture(s)..."
	Welcome            = "Hello and welcome!"
	ErrorNotice        = "Sorry, something went wrong. Please try again."
)

// Language reports the detected language.
func Language(lang string) string {
	return fmt.Sprintf("Your language has been detected as '%s'", lang)
}

// Sentiment reports a sentiment score.
func Sentiment(score float64) string {
	return fmt.Sprintf("Sentiment: (%s).", strconv.FormatFloat(score, 'f', -1, 64))
}

// IntentScore reports the classifier's top label and confidence.
func IntentScore(label string, confidence float64) string {
	return fmt.Sprintf("Intent: %s (%s).", label, strconv.FormatFloat(confidence, 'f', -1, 64))
}

// ThumbnailCards is a list of thumbnail cards about programming languages.
func ThumbnailCards() activity.Activity {
	languages := []struct{ name, image string }{
		{"Lisp", "https://en.wikipedia.org/wiki/Lisp_(programming_language)#/media/File:Lisplogo.png"},
		{"Java", "https://en.wikipedia.org/wiki/Java_(programming_language)#/media/File:Java_programming_language_logo.svg"},
		{"Python", "https://en.wikipedia.org/wiki/Python_(programming_language)#/media/File:Python_logo_and_wordmark.svg"},
	}

	attachments := make([]activity.Attachment, 0, len(languages))
	for _, l := range languages {
		attachments = append(attachments, activity.ThumbnailAttachment(activity.HeroCard{
			Title:    "I'm a thumbnail card about " + l.name,
			Subtitle: l.name + " Wikipedia Page",
			Images:   []activity.CardImage{{URL: l.image}},
			Buttons:  []activity.CardAction{activity.OpenURL("WikiPedia Page", "https://en.wikipedia.org/wiki/"+l.name)},
		}))
	}
	return activity.WithAttachments("Here are some programming languages", activity.LayoutList, attachments...)
}

// ReceiptCard is a sample pizza order receipt.
func ReceiptCard() activity.Activity {
	card := activity.ReceiptCard{
		Title: "I'm a receipt card, did you like our pizza?",
		Items: []activity.ReceiptItem{
			{
				Title:    "Pizza margherita",
				Subtitle: "1 large",
				Image:    &activity.CardImage{URL: "https://en.wikipedia.org/wiki/Pizza_Margherita#/media/File:Eataly_Las_Vegas_-_Feb_2019_-_Stierch_12.jpg"},
				Price:    "16.25",
				Quantity: "1",
			},
			{
				Title:    "Soda",
				Subtitle: "3 glass",
				Image:    &activity.CardImage{URL: "https://en.wikipedia.org/wiki/Carbonated_water#/media/File:Drinking_glass_00118.gif"},
				Price:    "2.99",
				Quantity: "3",
			},
		},
		Tax:     "27.52",
		Total:   "112.77",
		Buttons: []activity.CardAction{activity.OpenURL("WikiPedia Page", "https://en.wikipedia.org/wiki/Pizza")},
	}
	return activity.WithAttachments("Thank you for your order", "", activity.ReceiptAttachment(card))
}

// HeroCard introduces the AI-102 course.
func HeroCard() activity.Activity {
	card := activity.HeroCard{
		Title:    "AI-102: Designing and Implementing an Azure AI Solution",
		Subtitle: "Microsoft Learn",
		Text:     "Build, manage and deploy AI solutions that use cognitive services and bots.",
		Images:   []activity.CardImage{{URL: "https://learn.microsoft.com/en-us/media/learn/certification/badges/microsoft-certified-associate-badge.svg"}},
		Buttons:  []activity.CardAction{activity.OpenURL("Course page", "https://learn.microsoft.com/en-us/training/courses/ai-102t00")},
	}
	return activity.WithAttachments("", "", activity.HeroAttachment(card))
}

// RichCard is an adaptive meeting reminder.
func RichCard() activity.Activity {
	card := activity.AdaptiveCard{
		Speak: "Your meeting about Adaptive Card design session is starting at 12:30pm",
		Body: []activity.AdaptiveElement{
			{Type: "TextBlock", Text: "Adaptive Card design session", Size: "large", Weight: "bolder"},
			{Type: "TextBlock", Text: "Conf Room 112/3377 (10)"},
			{Type: "TextBlock", Text: "12:30 PM - 1:30 PM"},
			{
				Type:  "Input.ChoiceSet",
				ID:    "snooze",
				Style: "compact",
				Value: "5",
				Choices: []activity.AdaptiveChoice{
					{Title: "5 minutes", Value: "5"},
					{Title: "15 minutes", Value: "15"},
					{Title: "30 minutes", Value: "30"},
				},
			},
		},
		Actions: []activity.AdaptiveAction{
			{Type: "Action.OpenUrl", Title: "Snooze", URL: "http://foo.com"},
			{Type: "Action.OpenUrl", Title: "I'll be late", URL: "http://foo.com"},
			{Type: "Action.OpenUrl", Title: "Dismiss", URL: "http://foo.com"},
		},
	}
	return activity.WithAttachments("This card should go to conversation", "", activity.AdaptiveAttachment(card))
}

// ImageCard is a single image attachment.
func ImageCard() activity.Activity {
	return activity.WithAttachments("The card with Image", "",
		activity.ImageAttachment("cat with a tie", "https://aka.ms/catwithtie", activity.ContentTypeJPEG))
}
