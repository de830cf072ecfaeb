package catalog

// App is one blockable application.
type App struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
	BundleID    string `json:"bundleId,omitempty"`
	IsSystemApp bool   `json:"isSystemApp"`
}

// FocusModeStats summarizes the catalog and the current selection.
type FocusModeStats struct {
	TotalApps            int
	SelectedApps         int
	Categories           []string
	MostSelectedCategory string
}

func iconURL(seed string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + seed
}

func seedApp(bundleID, name, seed, category string, system bool) App {
	return App{
		ID:          bundleID,
		Name:        name,
		Icon:        iconURL(seed),
		Category:    category,
		BundleID:    bundleID,
		IsSystemApp: system,
	}
}

// CommonApps are third-party apps likely to be installed.
func CommonApps() []App {
	return []App{
		seedApp("com.instagram.ios", "Instagram", "instagram", "Social", false),
		seedApp("com.facebook.Facebook", "Facebook", "facebook", "Social", false),
		seedApp("com.twitter.ios", "Twitter", "twitter", "Social", false),
		seedApp("com.burbn.tiktok", "TikTok", "tiktok", "Entertainment", false),
		seedApp("com.netflix.Netflix", "Netflix", "netflix", "Entertainment", false),
		seedApp("com.google.ios.youtube", "YouTube", "youtube", "Entertainment", false),
		seedApp("com.reddit.Reddit", "Reddit", "reddit", "Social", false),
		seedApp("com.spotify.client", "Spotify", "spotify", "Music", false),
		seedApp("com.amazon.Amazon", "Amazon", "amazon", "Shopping", false),
		seedApp("com.discord", "Discord", "discord", "Social", false),
		seedApp("com.snapchat.ios", "Snapchat", "snapchat", "Social", false),
		seedApp("com.whatsapp.WhatsApp", "WhatsApp", "whatsapp", "Communication", false),
		seedApp("com.ubercab.UberClient", "Uber", "uber", "Transportation", false),
		seedApp("com.airbnb.Airbnb", "Airbnb", "airbnb", "Travel", false),
	}
}

// SystemApps are always available on the device.
func SystemApps() []App {
	return []App{
		seedApp("com.apple.mobilesafari", "Safari", "safari", "Productivity", true),
		seedApp("com.apple.MobileSMS", "Messages", "messages", "Communication", true),
		seedApp("com.apple.mobilemail", "Mail", "mail", "Communication", true),
		seedApp("com.apple.phone", "Phone", "phone", "Communication", true),
		seedApp("com.apple.camera", "Camera", "camera", "Media", true),
		seedApp("com.apple.mobilephotos", "Photos", "photos", "Media", true),
		seedApp("com.apple.mobilecal", "Calendar", "calendar", "Productivity", true),
		seedApp("com.apple.mobilemaps", "Maps", "maps", "Navigation", true),
	}
}

// DefaultApps is the seeded catalog: common apps followed by system apps.
func DefaultApps() []App {
	return append(CommonApps(), SystemApps()...)
}
