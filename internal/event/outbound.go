package event

// Join asks the server to put the player in a room. Option is one of
// "create", "join" or "random".
type Join struct {
	Username   string `json:"username"`
	Room       string `json:"room"`
	Option     string `json:"option"`
	RoomName   string `json:"roomName,omitempty"`
	RoomTheme  *Theme `json:"roomTheme,omitempty"`
	MaxPlayers int    `json:"maxPlayers,omitempty"`
}

const (
	JoinCreate = "create"
	JoinJoin   = "join"
	JoinRandom = "random"
)

type StartGame struct {
	RoomID   string `json:"room_id"`
	Username string `json:"username"`
}

type SubmitDecision struct {
	RoomID   string `json:"room_id"`
	Username string `json:"username"`
	Decision string `json:"decision"`
}

type Leave struct {
	Username string `json:"username"`
	Room     string `json:"room"`
	Message  string `json:"message"`
}

type Rooms struct{}

type DeleteRoom struct {
	Room string `json:"room"`
}
