package lobby

import "github.com/pixil98/go-crisis/internal/event"

// Themes are the scenario settings a room can be created with.
var Themes = []event.Theme{
	{
		ID:       1,
		Name:     "Medical Mayhem",
		Emoji:    "🏥",
		IntroMsg: "Hey there! 🏥 Ready to save some lives? Let's see if you can handle the medical madness!",
	},
	{
		ID:       2,
		Name:     "Corporate Crisis",
		Emoji:    "🚀",
		IntroMsg: "Welcome to the office! 💼 Think you can handle corporate chaos? Let's find out!",
	},
	{
		ID:       3,
		Name:     "Crime Catastrophe",
		Emoji:    "🔍",
		IntroMsg: "Detective mode activated! 🕵️‍♂️ Time to solve some mysteries and catch the bad guys!",
	},
}

// ThemeByName finds a theme by its display name. Rooms listed by the server
// often carry only the name.
func ThemeByName(name string) (event.Theme, bool) {
	for _, t := range Themes {
		if t.Name == name {
			return t, true
		}
	}
	return event.Theme{}, false
}
