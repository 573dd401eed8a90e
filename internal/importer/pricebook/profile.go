package pricebook

// Profile describes the column layout of one price list export.
// Adding a format is adding a Profile to profiles.
type Profile struct {
	Name      string
	Comma     rune
	MenuCol   string
	BranchCol string
	BaseCol   string
	// OnlineCol may be absent from a file; the base price is used then.
	OnlineCol string
}

func (p Profile) requiredCols() []string {
	return []string{p.MenuCol, p.BranchCol, p.BaseCol}
}

// profiles is tried in order during detection.
var profiles = []Profile{
	{
		Name:      "standard",
		Comma:     ';',
		MenuCol:   "menu_id",
		BranchCol: "branch_id",
		BaseCol:   "base_price",
		OnlineCol: "online_price",
	},
	{
		Name:      "pos-export",
		Comma:     ',',
		MenuCol:   "Menu ID",
		BranchCol: "Branch ID",
		BaseCol:   "Price",
		OnlineCol: "Online Price",
	},
}

// Lookup returns the profile registered under name.
func Lookup(name string) (Profile, bool) {
	for _, p := range profiles {
		if p.Name == name {
			return p, true
		}
	}

	return Profile{}, false
}
