package catalog

import "strings"

// CategoryOther is assigned when no keyword group matches.
const CategoryOther = "Other"

type keywordGroup struct {
	category string
	keywords []string
}

// Order matters: the first group with a matching keyword wins.
var keywordGroups = []keywordGroup{
	{"Social", []string{"instagram", "facebook", "twitter", "tiktok", "snapchat", "discord", "reddit", "linkedin"}},
	{"Entertainment", []string{"netflix", "youtube", "spotify", "twitch", "hulu", "disney"}},
	{"Communication", []string{"whatsapp", "telegram", "signal", "messages", "mail", "phone"}},
	{"Shopping", []string{"amazon", "ebay", "etsy", "shopify"}},
	{"Productivity", []string{"safari", "chrome", "calendar", "notes", "reminders", "pages", "numbers", "keynote"}},
	{"Navigation", []string{"maps", "waze", "google maps", "apple maps"}},
	{"Transportation", []string{"uber", "lyft", "doordash", "grubhub"}},
	{"Travel", []string{"airbnb", "booking", "expedia", "hotels"}},
	{"Media", []string{"camera", "photos", "music", "podcasts"}},
}

// Categorize assigns a category from keywords in the app name. bundleID is
// currently unused.
func Categorize(name, bundleID string) string {
	lower := strings.ToLower(name)
	for _, g := range keywordGroups {
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				return g.category
			}
		}
	}
	return CategoryOther
}
