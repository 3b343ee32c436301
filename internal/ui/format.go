package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rivo/tview"

	"github.com/pixil98/go-crisis/internal/api"
	"github.com/pixil98/go-crisis/internal/arena"
	"github.com/pixil98/go-crisis/internal/display"
	"github.com/pixil98/go-crisis/internal/event"
	"github.com/pixil98/go-crisis/internal/notify"
	"github.com/pixil98/go-crisis/internal/session"
)

func themeLabel(t event.Theme) string {
	switch {
	case t.Name == "":
		return ""
	case t.Emoji == "":
		return t.Name
	default:
		return t.Emoji + " " + t.Name
	}
}

// phaseLabel is the one-line status shown under the room header.
func phaseLabel(s session.Snapshot) string {
	switch s.Conn.Status {
	case session.ConnError:
		return "[red]Connection error: " + tview.Escape(s.Conn.Err) + "[-] (press Retry)"
	case session.ConnDisconnected:
		return "[red]Disconnected from server[-] (press Retry)"
	}

	switch s.Phase {
	case session.PhaseConnecting:
		return "Connecting..."
	case session.PhaseWaitingForPlayers:
		if s.CanStart {
			return "[green]Room is full. Start the game when ready![-]"
		}
		return fmt.Sprintf("Waiting for players (%d/%d)", s.CurrentPlayers, s.Params.MaxPlayers)
	case session.PhaseWaitingForAdmin:
		return "Waiting for the host to start the game"
	case session.PhaseBriefing:
		return "Incoming briefing..."
	case session.PhaseInRound:
		return "[yellow]Your move! Type your decision below.[-]"
	case session.PhaseAwaitingResults:
		return "Decision sent. Waiting for the other players..."
	case session.PhaseAnalyzing:
		return "[blue]AI is analyzing decisions...[-]"
	case session.PhaseGameEnded:
		return "[::b]Game over[::-]"
	default:
		return ""
	}
}

func headerText(s session.Snapshot) string {
	var b strings.Builder

	name := s.Params.RoomName
	if name == "" {
		name = "Room"
	}
	fmt.Fprintf(&b, "[::b]%s[::-] (%s)", tview.Escape(name), tview.Escape(s.Params.RoomID))
	if t := themeLabel(s.Params.Theme); t != "" {
		fmt.Fprintf(&b, " · %s", tview.Escape(t))
	}
	b.WriteString("\n")

	players := strconv.Itoa(s.CurrentPlayers)
	if s.Params.MaxPlayers > 0 {
		players += "/" + strconv.Itoa(s.Params.MaxPlayers)
	}
	fmt.Fprintf(&b, "Players %s · Round %d · Crisis %s", players, s.Round, display.ScoreBar(s.CrisisScore))
	if s.TimerRunning {
		timer := display.Countdown(s.Remaining)
		if s.Remaining <= session.DefaultWarningSeconds {
			timer = "[red]" + timer + "[-]"
		}
		fmt.Fprintf(&b, " · ⏱ %s", timer)
	}
	b.WriteString("\n")
	b.WriteString(phaseLabel(s))
	if s.IsTyping {
		b.WriteString(" [gray](AI is typing...)[-]")
	}

	return b.String()
}

func entryText(e session.Entry) string {
	text := tview.Escape(e.Text)
	switch e.Origin {
	case session.OriginAI:
		return "[green]🤖[-] " + text
	case session.OriginPlayer:
		return "[yellow]You:[-] " + text
	default:
		return "[gray]" + text + "[-]"
	}
}

func logText(entries []session.Entry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = entryText(e)
	}
	return strings.Join(lines, "\n\n")
}

func resultsText(r *session.GameResults, me string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏁 Final Crisis Score: %d/100\n\n", r.FinalCrisisScore)

	for _, p := range r.Players {
		you := ""
		if p.Username == me {
			you = " (you)"
		}
		fmt.Fprintf(&b, "#%d %s%s: %d pts\n", p.Rank, p.Username, you, p.TotalScore)
		for _, rs := range p.RoundScores {
			fmt.Fprintf(&b, "   R%d %d (creativity %d, helping %d, strategy %d, role %d)\n",
				rs.Round, rs.TotalRoundScore, rs.Creativity, rs.HelpingNature, rs.TeamStrategy, rs.RoleAppropriateness)
		}
	}

	if r.Summary != "" {
		fmt.Fprintf(&b, "\n%s", r.Summary)
	}
	return b.String()
}

func profileText(username string, u *api.UserStats, sys *api.SystemStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[::b]%s[::-]\n\n", tview.Escape(username))

	if u == nil {
		b.WriteString("No games played yet.\n")
	} else {
		fmt.Fprintf(&b, "Total score:   %.0f\n", u.TotalScore)
		fmt.Fprintf(&b, "Games played:  %d\n", u.TotalGames)
		fmt.Fprintf(&b, "Average score: %.1f\n", u.AverageScore)
		fmt.Fprintf(&b, "Games won:     %d\n", u.GamesWon)
		if u.LastPlayed != nil {
			fmt.Fprintf(&b, "Last played:   %s\n", tview.Escape(*u.LastPlayed))
		}
		if len(u.Achievements) > 0 {
			fmt.Fprintf(&b, "Achievements:  %s\n", tview.Escape(strings.Join(u.Achievements, ", ")))
		}
	}

	if sys != nil {
		fmt.Fprintf(&b, "\n[gray]%d players · %d rooms · %d active games[-]", sys.TotalUsers, sys.TotalRooms, sys.ActiveGames)
	}
	return b.String()
}

func leaderboardText(username string, top []api.LeaderboardEntry) string {
	if len(top) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n[::b]Top players[::-]\n")
	for i, e := range top {
		line := fmt.Sprintf("%d. %s  %.0f", i+1, tview.Escape(e.Username), e.TotalScore)
		if e.Username == username {
			line = "[green]" + line + "[-]"
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

var roomColumns = []string{"Code", "Name", "Theme", "Players", "Host"}

func roomRow(r event.Room, deleting bool) []string {
	name := r.RoomName
	if deleting {
		name += " (deleting...)"
	}
	return []string{
		r.RoomID,
		name,
		themeLabel(r.Theme),
		fmt.Sprintf("%d/%d", r.RoomSize, r.MaxPlayers),
		r.Host,
	}
}

var arenaColumns = []string{"Rank", "Player", "Total", "Games", "Average", "Won"}

func arenaRow(s arena.Standing) []string {
	return []string{
		"#" + strconv.Itoa(s.Rank),
		s.Username,
		fmt.Sprintf("%.0f", s.TotalScore),
		strconv.Itoa(s.TotalGames),
		fmt.Sprintf("%.1f", s.AverageScore),
		strconv.Itoa(s.GamesWon),
	}
}

func arenaFooter(v arena.View) string {
	if v.Refreshed.IsZero() {
		return "Loading..."
	}
	footer := "Updated " + v.Refreshed.Format(time.Kitchen)
	if v.Stats != nil {
		footer = fmt.Sprintf("%d players · %d rooms · %d active games · %s",
			v.Stats.TotalUsers, v.Stats.TotalRooms, v.Stats.ActiveGames, footer)
	}
	return footer
}

func toastText(t notify.Toast) string {
	color := "white"
	switch t.Level {
	case notify.LevelSuccess:
		color = "green"
	case notify.LevelWarning:
		color = "yellow"
	case notify.LevelError:
		color = "red"
	}
	return fmt.Sprintf("[%s]%s[-]", color, tview.Escape(t.Message))
}
