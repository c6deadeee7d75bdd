package learning

// Path is a fixed, ordered curriculum. The module list doubles as the
// recommendation set that unlocks modules for the user.
type Path struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Modules []string `json:"modules"`
}

// Definitions are static; there is no path authoring surface.
var paths = []Path{
	{
		ID:   "beginner",
		Name: "Beginner",
		Modules: []string{
			"Budgeting Fundamentals",
			"Saving Strategies",
			"Understanding Credit",
			"Debt Management",
		},
	},
	{
		ID:   "intermediate",
		Name: "Intermediate",
		Modules: []string{
			"Emergency Funds",
			"Investing Basics",
			"Retirement Planning",
			"Tax Essentials",
		},
	},
	{
		ID:   "advanced",
		Name: "Advanced",
		Modules: []string{
			"Portfolio Diversification",
			"Real Estate Investing",
			"Advanced Tax Strategies",
			"Estate Planning",
		},
	},
}

// Paths returns every available learning path.
func Paths() []Path {
	out := make([]Path, len(paths))
	copy(out, paths)
	return out
}

// PathByID looks up a path definition.
func PathByID(id string) (Path, bool) {
	for _, p := range paths {
		if p.ID == id {
			return p, true
		}
	}
	return Path{}, false
}
