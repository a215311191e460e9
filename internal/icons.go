package internal

import (
	"fmt"
	"strings"
)

const (
	assetBase        = "/static"
	placeholderIcon  = assetBase + "/placeholder.png"
	profileIconRoute = "%s/cdn/%s/img/profileicon/%d.png"
)

var tierIcons = map[Tier]string{
	TierChallenger:  assetBase + "/ranks/Challenger-icon.webp",
	TierGrandmaster: assetBase + "/ranks/Grandmaster-icon.webp",
	TierMaster:      assetBase + "/ranks/Master-icon.webp",
	TierDiamond:     assetBase + "/ranks/Diamond-icon.webp",
	TierEmerald:     assetBase + "/ranks/Emerald-icon.webp",
	TierPlatinum:    assetBase + "/ranks/Platinum-icon.webp",
	TierGold:        assetBase + "/ranks/Gold-icon.webp",
	TierSilver:      assetBase + "/ranks/Silver-icon.webp",
	TierBronze:      assetBase + "/ranks/Bronze-icon.webp",
	TierIron:        assetBase + "/ranks/Iron-icon.png",
	TierUnranked:    assetBase + "/ranks/Unranked-icon.webp",
}

var roleIcons = map[Role]string{
	RoleTop:     assetBase + "/positions/top.png",
	RoleJungle:  assetBase + "/positions/jungle.png",
	RoleMid:     assetBase + "/positions/mid.png",
	RoleADC:     assetBase + "/positions/adc.png",
	RoleSupport: assetBase + "/positions/supp.png",
}

func TierIcon(t Tier) string {
	if icon, ok := tierIcons[t]; ok {
		return icon
	}
	return placeholderIcon
}

func RoleIcon(r Role) string {
	if icon, ok := roleIcons[r]; ok {
		return icon
	}
	return placeholderIcon
}

// IconResolver builds Data Dragon profile icon URLs. The version is pinned
// through config and goes stale when the upstream patch changes.
type IconResolver struct {
	baseURL string
	version string
}

func NewIconResolver(cfg *Config) *IconResolver {
	return &IconResolver{
		baseURL: strings.TrimRight(cfg.DDragonBaseURL, "/"),
		version: cfg.DDragonVersion,
	}
}

func (r *IconResolver) Version() string {
	return r.version
}

// ProfileIconURL returns "" for a missing icon id.
func (r *IconResolver) ProfileIconURL(profileIconID int) string {
	if profileIconID <= 0 {
		return ""
	}
	return fmt.Sprintf(profileIconRoute, r.baseURL, r.version, profileIconID)
}
