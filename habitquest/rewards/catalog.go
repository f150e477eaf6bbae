package rewards

// Title is a cosmetic reward purchasable with HP.
type Title struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CostHP      int64  `json:"costHp"`
}

// Catalog is the static set of redeemable titles.
var Catalog = []Title{
	{
		ID:          "title_early_riser",
		Name:        "Early Riser",
		Description: "Awarded for consistent morning activity.",
		CostHP:      50,
	},
	{
		ID:          "title_focused_mind",
		Name:        "Focused Mind",
		Description: "For those who stick to their goals.",
		CostHP:      100,
	},
	{
		ID:          "title_streak_master",
		Name:        "Streak Master",
		Description: "Prove your dedication!",
		CostHP:      150,
	},
}

// FindByID looks a title up in the catalog.
func FindByID(id string) (Title, bool) {
	for _, t := range Catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Title{}, false
}
