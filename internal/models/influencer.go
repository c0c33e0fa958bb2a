package models

import "errors"

// Platform identifies the social network an influencer publishes on.
type Platform string

const (
	PlatformInstagram Platform = "Instagram"
	PlatformYouTube   Platform = "YouTube"
	PlatformTwitter   Platform = "Twitter"
	PlatformFacebook  Platform = "Facebook"
	PlatformTikTok    Platform = "TikTok"
	PlatformLinkedIn  Platform = "LinkedIn"
)

// ValidPlatforms lists every platform the engine recognizes.
var ValidPlatforms = []Platform{
	PlatformInstagram,
	PlatformYouTube,
	PlatformTwitter,
	PlatformFacebook,
	PlatformTikTok,
	PlatformLinkedIn,
}

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	for _, v := range ValidPlatforms {
		if p == v {
			return true
		}
	}
	return false
}

// Influencer is the identity anchor the other three tables join against.
type Influencer struct {
	ID            string   `json:"ID"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Gender        string   `json:"gender"`
	FollowerCount int64    `json:"follower_count"`
	Platform      Platform `json:"platform"`
}

// Validate checks the row before it enters a dataset.
func (i *Influencer) Validate() error {
	if i.ID == "" {
		return errors.New("influencer ID is required")
	}
	if i.FollowerCount < 0 {
		return errors.New("follower_count must be >= 0")
	}
	if i.Platform != "" && !i.Platform.Valid() {
		return errors.New("unknown platform: " + string(i.Platform))
	}
	return nil
}
