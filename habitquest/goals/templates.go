package goals

// HabitTemplate seeds one habit when a goal template is applied.
type HabitTemplate struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Frequency   string `json:"frequency"`
}

// Template is a predefined goal with a starter set of habits.
type Template struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Habits      []HabitTemplate `json:"habits"`
}

var Templates = []Template{
	{
		ID:          "tpl_fitness_starter",
		Name:        "Fitness Starter Pack",
		Description: "Begin your fitness journey with these core habits.",
		Habits: []HabitTemplate{
			{Name: "Walk 5000 steps", Frequency: "daily"},
			{Name: "Drink 8 glasses of water", Frequency: "daily"},
			{Name: "Do 10 push-ups", Description: "Or knee push-ups", Frequency: "daily"},
			{Name: "Stretch for 10 minutes", Frequency: "daily"},
		},
	},
	{
		ID:          "tpl_mindfulness_basics",
		Name:        "Mindfulness Basics",
		Description: "Cultivate calm and focus with simple practices.",
		Habits: []HabitTemplate{
			{Name: "Meditate for 5 minutes", Frequency: "daily"},
			{Name: "Practice deep breathing", Description: "3 sets of 5 deep breaths", Frequency: "daily"},
			{Name: "Journal one positive thing", Frequency: "daily"},
		},
	},
	{
		ID:          "tpl_learning_boost",
		Name:        "Learning Boost",
		Description: "Habits to support acquiring new knowledge or skills.",
		Habits: []HabitTemplate{
			{Name: "Read for 20 minutes", Frequency: "daily"},
			{Name: "Review notes from previous day", Frequency: "daily"},
			{Name: "Plan next day's learning session", Frequency: "weekly"},
		},
	},
}

// FindTemplate looks a template up by ID.
func FindTemplate(id string) (Template, bool) {
	for _, t := range Templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
