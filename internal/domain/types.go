package domain

import "strings"

// BookmarkType is the closed set of content types a bookmark can carry.
// Raw values are the ones the server and the pending queue exchange.
type BookmarkType string

const (
	TypeArticle    BookmarkType = "Article"
	TypeVideo      BookmarkType = "Video"
	TypeProduct    BookmarkType = "Product"
	TypeTweet      BookmarkType = "Tweet"
	TypeQuote      BookmarkType = "Quote"
	TypeDocument   BookmarkType = "Document"
	TypePhoto      BookmarkType = "Photo"
	TypeScreenshot BookmarkType = "Screenshot"
	TypeEmail      BookmarkType = "Email"
	TypeOther      BookmarkType = "Other"
)

// AllBookmarkTypes lists every type in declaration order.
var AllBookmarkTypes = []BookmarkType{
	TypeArticle, TypeVideo, TypeProduct, TypeTweet, TypeQuote,
	TypeDocument, TypePhoto, TypeScreenshot, TypeEmail, TypeOther,
}

// ParseBookmarkType maps a free-text label onto a BookmarkType.
// Matching ignores case and surrounding spaces; unknown labels map to TypeOther.
func ParseBookmarkType(raw string) BookmarkType {
	raw = strings.TrimSpace(raw)
	for _, t := range AllBookmarkTypes {
		if strings.EqualFold(string(t), raw) {
			return t
		}
	}
	return TypeOther
}

// EstimateReadTime returns the default read time in minutes for a type.
func EstimateReadTime(t BookmarkType) int {
	switch t {
	case TypeArticle:
		return 8
	case TypeVideo:
		return 15
	case TypeProduct:
		return 5
	case TypeTweet, TypeQuote:
		return 1
	case TypeDocument:
		return 20
	default:
		return 5
	}
}

// EstimateSkimTime is a third of the read time, never below one minute.
func EstimateSkimTime(t BookmarkType) int {
	return max(1, EstimateReadTime(t)/3)
}

// ReminderContext describes when a reminder should fire.
type ReminderContext string

const (
	ReminderAtHome      ReminderContext = "At Home"
	ReminderAtSchool    ReminderContext = "At School"
	ReminderOpenYouTube ReminderContext = "When opening YouTube"
	ReminderOpenChrome  ReminderContext = "When opening Chrome"
	ReminderTwoWeeks    ReminderContext = "In 2 weeks if not opened"
	ReminderWeekend     ReminderContext = "This weekend"
	ReminderCustom      ReminderContext = "Custom"
)

func (r ReminderContext) valid() bool {
	switch r {
	case ReminderAtHome, ReminderAtSchool, ReminderOpenYouTube, ReminderOpenChrome,
		ReminderTwoWeeks, ReminderWeekend, ReminderCustom:
		return true
	}
	return false
}

// FolderOutcome is what the user intends to do with a folder's content.
type FolderOutcome string

const (
	OutcomeLearn       FolderOutcome = "Learn"
	OutcomeBuy         FolderOutcome = "Buy"
	OutcomeWatch       FolderOutcome = "Watch"
	OutcomeRead        FolderOutcome = "Read"
	OutcomeResearch    FolderOutcome = "Research"
	OutcomeInspiration FolderOutcome = "Inspiration"
	OutcomeReference   FolderOutcome = "Reference"
)

var outcomeColors = map[FolderOutcome]string{
	OutcomeLearn:       "blue",
	OutcomeBuy:         "green",
	OutcomeWatch:       "red",
	OutcomeRead:        "orange",
	OutcomeResearch:    "purple",
	OutcomeInspiration: "pink",
	OutcomeReference:   "gray",
}

// Color returns the display color associated with the outcome.
func (o FolderOutcome) Color() string {
	if c, ok := outcomeColors[o]; ok {
		return c
	}
	return "blue"
}

func (o FolderOutcome) valid() bool {
	_, ok := outcomeColors[o]
	return ok
}
