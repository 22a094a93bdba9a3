package generator

// Style 描述一种刊物文风，目录固定，只按 ID 引用。
type Style struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Badge       string `json:"badge"`
	Color       string `json:"color"`
	Instruction string `json:"-"`
}

// DefaultStyleID is selected when the caller does not pick one.
const DefaultStyleID = "economist"

var catalog = []Style{
	{
		ID:          "economist",
		Name:        "The Economist",
		Description: "Witty, analytical, dry, authoritative, and concise. Uses British spelling and sophisticated vocabulary.",
		Badge:       "E",
		Color:       "#dc2626",
		Instruction: `Write in the style of The Economist. Use British spelling. Be witty, dry, and highly analytical. Start with a clever hook. Use a "Leaders" editorial voice. Focus on macro-implications.`,
	},
	{
		ID:          "nyt",
		Name:        "The New York Times",
		Description: "Journalistic, polished, objective yet narrative-driven. Detailed and context-heavy.",
		Badge:       "T",
		Color:       "#000000",
		Instruction: "Write in the style of The New York Times. Use a sophisticated, journalistic tone. Provide context and nuance. Structure it like a feature article or an op-ed column.",
	},
	{
		ID:          "new_yorker",
		Name:        "The New Yorker",
		Description: "Long-form, literary, erudite, and deeply narrative. Uses specific details and a sophisticated cadence.",
		Badge:       "N",
		Color:       "#292524",
		Instruction: "Write in the style of The New York Times Magazine or The New Yorker. Be narrative, literary, and erudite. Focus on the human element and intellectual curiosity. Use long, flowing sentences.",
	},
	{
		ID:          "wired",
		Name:        "Wired",
		Description: "Tech-forward, punchy, futuristic, and slightly irreverent.",
		Badge:       "W",
		Color:       "#a3e635",
		Instruction: "Write in the style of Wired Magazine. Be punchy, tech-forward, and enthusiastic about future implications. Use modern internet-aware vocabulary.",
	},
	{
		ID:          "atlantic",
		Name:        "The Atlantic",
		Description: "Thought-provoking, cultural commentary, sweeping intellectual arguments.",
		Badge:       "A",
		Color:       "#000000",
		Instruction: `Write in the style of The Atlantic. Focus on cultural commentary and the "big idea". Be persuasive, intellectual, and slightly contrarian.`,
	},
}

// Styles returns a copy of the catalog in display order.
func Styles() []Style {
	out := make([]Style, len(catalog))
	copy(out, catalog)
	return out
}

// LookupStyle 按 ID 查找文风；空 ID 返回默认文风。
func LookupStyle(id string) (Style, bool) {
	if id == "" {
		id = DefaultStyleID
	}
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Style{}, false
}
