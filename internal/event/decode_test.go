package event

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pixil98/go-testutil"
)

func intPtr(i int) *int { return &i }

func TestDecode(t *testing.T) {
	tests := map[string]struct {
		name   string
		raw    string
		exp    Event
		expErr error
	}{
		"connect without payload": {
			name: NameConnect,
			exp:  Connect{},
		},
		"disconnect with reason": {
			name: NameDisconnect,
			raw:  `"transport close"`,
			exp:  Disconnect{Reason: "transport close"},
		},
		"connect error defaults message": {
			name: NameConnectError,
			raw:  `{}`,
			exp:  ConnectError{Message: "Failed to connect to server"},
		},
		"game room": {
			name: NameGameRoom,
			raw:  `{"message":"'bob' joined the game."}`,
			exp:  GameRoom{Message: "'bob' joined the game."},
		},
		"game room without message": {
			name:   NameGameRoom,
			raw:    `{}`,
			expErr: ErrMalformed,
		},
		"game started with score": {
			name: NameGameStarted,
			raw:  `{"roles":{"alice":{"role_name":"Mayor"}},"next_decision_point":"Act now","scenario":"Flood","crisis_score":62}`,
			exp: GameStarted{
				Roles:             map[string]Role{"alice": {RoleName: "Mayor"}},
				NextDecisionPoint: "Act now",
				Scenario:          "Flood",
				CrisisScore:       intPtr(62),
			},
		},
		"game started without score": {
			name: NameGameStarted,
			raw:  `{"scenario":"Flood"}`,
			exp:  GameStarted{Scenario: "Flood"},
		},
		"game started without narrative": {
			name:   NameGameStarted,
			raw:    `{"crisis_score":50}`,
			expErr: ErrMalformed,
		},
		"round completed": {
			name: NameRoundCompleted,
			raw:  `{"round":2,"crisis_score":40,"story_continuation":"Calm","next_decision_point":"Next?"}`,
			exp:  RoundCompleted{Round: 2, CrisisScore: 40, StoryContinuation: "Calm", NextDecisionPoint: "Next?"},
		},
		"round completed with zero round": {
			name:   NameRoundCompleted,
			raw:    `{"round":0}`,
			expErr: ErrMalformed,
		},
		"round completed with wrong field type": {
			name:   NameRoundCompleted,
			raw:    `{"round":"two"}`,
			expErr: ErrMalformed,
		},
		"game ended": {
			name: NameGameEnded,
			raw:  `{"player_scores":{"bob":{"total_score":12,"rank":1,"round_scores":[{"round":1,"total_round_score":12}]}},"final_crisis_score":30,"game_summary":"Done"}`,
			exp: GameEnded{
				PlayerScores: map[string]PlayerScore{
					"bob": {TotalScore: 12, Rank: 1, RoundScores: []RoundScore{{Round: 1, TotalRoundScore: 12}}},
				},
				FinalCrisisScore: 30,
				GameSummary:      "Done",
			},
		},
		"player decision without username": {
			name:   NamePlayerDecisionSubmitted,
			raw:    `{"remaining_players":1}`,
			expErr: ErrMalformed,
		},
		"array payload": {
			name:   NameNotification,
			raw:    `["hello"]`,
			expErr: ErrMalformed,
		},
		"null payload": {
			name:   NameAIAnalysisStarted,
			raw:    `null`,
			expErr: ErrMalformed,
		},
		"navigate with theme object": {
			name: NameNavigateToRoom,
			raw:  `{"room":"12345","room_name":"Ward","room_theme":{"id":1,"name":"Medical Mayhem","intro_msg":"Hi"},"room_players":3,"option":"create"}`,
			exp: NavigateToRoom{
				Room:       "12345",
				RoomName:   "Ward",
				RoomTheme:  Theme{ID: 1, Name: "Medical Mayhem", IntroMsg: "Hi"},
				MaxPlayers: 3,
				Option:     "create",
			},
		},
		"available rooms with string theme": {
			name: NameAvailableRooms,
			raw:  `{"rooms":[{"room_id":"1","room_size":1,"max_players":4,"room_name":"A","theme":"climate_change","host":"amy"}]}`,
			exp: AvailableRooms{Rooms: []Room{
				{RoomID: "1", RoomSize: 1, MaxPlayers: 4, RoomName: "A", Theme: Theme{Name: "climate_change"}, Host: "amy"},
			}},
		},
		"unknown event": {
			name:   "chaos-begin",
			raw:    `{}`,
			expErr: ErrUnknownEvent,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ev, err := Decode(tt.name, json.RawMessage(tt.raw))

			if tt.expErr != nil {
				if !errors.Is(err, tt.expErr) {
					t.Fatalf("expected error %v, got %v", tt.expErr, err)
				}
				if ev != nil {
					t.Errorf("expected nil event on error, got %#v", ev)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if diff := cmp.Diff(tt.exp, ev); diff != "" {
				t.Errorf("event mismatch (-want +got):\n%s", diff)
			}
			testutil.AssertEqual(t, "name", ev.Name(), tt.name)
		})
	}
}

func TestRoomEventsDecodeKnownNames(t *testing.T) {
	for _, name := range append(RoomEvents, LobbyEvents...) {
		_, err := Decode(name, json.RawMessage(`{}`))
		if errors.Is(err, ErrUnknownEvent) {
			t.Errorf("%s is listened to but not decodable", name)
		}
	}
}
