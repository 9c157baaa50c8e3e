package model

import "strings"

// Platform identifies the source site of a media URL. It is derived from the
// URL on demand and never persisted.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
	PlatformSnapchat  Platform = "snapchat"
	PlatformGeneric   Platform = "generic"
)

// platformRules is matched in order; the first rule whose needle occurs in
// the lowercased URL wins. TikTok comes first so URLs that also mention other
// hosts still classify as tiktok.
var platformRules = []struct {
	needles  []string
	platform Platform
}{
	{[]string{"tiktok.com", "vm.tiktok.com"}, PlatformTikTok},
	{[]string{"instagram.com"}, PlatformInstagram},
	{[]string{"snapchat.com"}, PlatformSnapchat},
	{[]string{"facebook.com", "fb.watch"}, PlatformFacebook},
	{[]string{"youtube.com", "youtu.be"}, PlatformYouTube},
	{[]string{"twitter.com", "x.com"}, PlatformTwitter},
}

// ClassifyPlatform maps a URL to its platform by case-insensitive substring
// matching. It is total: unrecognized URLs classify as PlatformGeneric. No
// network access, no errors.
func ClassifyPlatform(url string) Platform {
	lower := strings.ToLower(url)
	for _, rule := range platformRules {
		for _, needle := range rule.needles {
			if strings.Contains(lower, needle) {
				return rule.platform
			}
		}
	}
	return PlatformGeneric
}

// String returns the string representation of the platform.
func (p Platform) String() string {
	return string(p)
}
