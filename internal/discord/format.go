package discord

import (
	"errors"
	"fmt"
	"strings"

	"monke-bot/internal/constants"
	"monke-bot/internal/domain"
	"monke-bot/internal/rank"
	"monke-bot/internal/service"
)

const (
	markWin    = "✅"
	markLoss   = "❌"
	markRemake = "🔄"
	markUp     = "📈"
	markDown   = "📉"
	markStreak = "🔥"
)

var queueNames = map[domain.GameKind]string{
	domain.GameLeague: "Ranked Solo/Duo",
	domain.GameTFT:    "Ranked TFT",
}

var queueIDNames = map[int]string{
	constants.QueueRankedSolo: "Ranked Solo/Duo",
	constants.QueueRankedFlex: "Ranked Flex",
	constants.QueueTFTNormal:  "Normal TFT",
	constants.QueueTFTRanked:  "Ranked TFT",
	constants.QueueTFTHyper:   "Hyper Roll",
}

func queueName(id int) string {
	if name, ok := queueIDNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Queue %d", id)
}

func header(kind domain.GameKind) string {
	return fmt.Sprintf("** --- %s --- **\n\n", kind.Label())
}

// FormatRank renders "**Gold I** 64 LP".
func FormatRank(r rank.Rank) string {
	return fmt.Sprintf("**%s** %d LP", r.Name(), r.Points)
}

func formatStanding(live *service.LiveStanding) string {
	if live == nil {
		return "Unranked"
	}
	return FormatRank(live.Rank)
}

func formatWinrateLine(stats service.GameStats) string {
	if stats.Games() == 0 {
		return "No games played"
	}
	return fmt.Sprintf("%d/%d **%.2f%%** winrate", stats.Wins, stats.Losses, stats.WinRate())
}

func formatDelta(delta int) string {
	return "**" + rank.FormatDelta(delta) + "**"
}

func FormatRecap(r service.RecapReport) string {
	var b strings.Builder
	b.WriteString(header(r.Kind))
	fmt.Fprintf(&b, "**%s** %s\n\n", r.Player.RiotID(), formatStanding(r.Live))
	fmt.Fprintf(&b, "Recap for **%s**\n\n", r.Day.Format("Monday, January 2, 2006"))
	b.WriteString(formatWinrateLine(r.Stats))

	switch {
	case r.Summary != nil:
		title := "LP DAILY RECAP"
		if !r.Summary.WindowClosed {
			title = "LP RECAP so far"
		}
		fmt.Fprintf(&b, "\n\n`%s`\n\nstart\t%s\nend\t  %s\nGain %s",
			title, FormatRank(r.Summary.Start), FormatRank(r.Summary.End), formatDelta(r.Summary.Delta))
	case r.Tracked:
		b.WriteString("\n\n*No closing snapshot for this day, LP info is incomplete*")
	default:
		b.WriteString("\n\n*Not tracked yet, use /track to record daily LP*")
	}

	if r.Missing > 0 {
		fmt.Fprintf(&b, "\n\n*%d game(s) could not be loaded*", r.Missing)
	}

	switch {
	case r.Stats.Wins > r.Stats.Losses:
		b.WriteString("\n\n**" + markUp + "**")
	case r.Stats.Wins < r.Stats.Losses:
		b.WriteString("\n\n**" + markDown + "**")
	}
	return b.String()
}

func FormatWinrate(r service.WinrateReport) string {
	var b strings.Builder
	b.WriteString(header(r.Kind))

	banner := "Unranked"
	if r.Live != nil {
		banner = fmt.Sprintf("[**%s**] %d LP %d/%d (%.2f%%)",
			r.Live.Rank.Name(), r.Live.Rank.Points, r.Live.Wins, r.Live.Losses, r.Live.SeasonWinRate())
		if r.Live.HotStreak {
			banner += " " + markStreak
		}
	}
	fmt.Fprintf(&b, "**%s** %s\n\n", r.Player.RiotID(), banner)

	if r.Stats.Games() == 0 {
		b.WriteString("No games played")
	} else if r.Kind == domain.GameTFT {
		fmt.Fprintf(&b, "%.2f%% in last %d game(s)\n", r.Stats.WinRate(), r.Stats.Games())
	} else {
		fmt.Fprintf(&b, "[%s]: %.2f%% in last %d game(s)\n", queueNames[r.Kind], r.Stats.WinRate(), r.Stats.Games())
	}
	for _, g := range r.Games {
		b.WriteString(formatGameLine(r.Kind, g))
	}

	if r.Missing > 0 {
		fmt.Fprintf(&b, "\n*%d game(s) could not be loaded*", r.Missing)
	}
	return b.String()
}

func formatGameLine(kind domain.GameKind, g service.GameLine) string {
	mark := markLoss
	switch g.Outcome {
	case domain.OutcomeWin:
		mark = markWin
	case domain.OutcomeRemake:
		mark = markRemake
	}

	if kind == domain.GameTFT {
		return fmt.Sprintf("\n%s - placed **#%d**\t[%s]", mark, g.Placement, queueName(g.QueueID))
	}

	p := domain.Participant{Kills: g.Kills, Deaths: g.Deaths, Assists: g.Assists}
	kda := "Perfect"
	if ratio, perfect := p.KDA(); !perfect {
		kda = fmt.Sprintf("%.2f", ratio)
	}
	return fmt.Sprintf("\n%s - %s %d/%d/%d **%s** KDA", mark, g.Champion, g.Kills, g.Deaths, g.Assists, kda)
}

func FormatTracked(kind domain.GameKind, entry domain.TrackingEntry) string {
	return header(kind) + fmt.Sprintf("Now tracking **%s**", entry.RiotID)
}

func FormatUntracked(kind domain.GameKind, player domain.Player) string {
	return header(kind) + fmt.Sprintf("Tracking successfully removed for **%s**", player.RiotID())
}

func FormatList(kind domain.GameKind, entries []domain.TrackingEntry) string {
	var b strings.Builder
	b.WriteString(header(kind))
	if len(entries) == 0 {
		b.WriteString("No tracked players")
		return b.String()
	}
	b.WriteString("Tracked players:\n")
	for i, e := range entries {
		fmt.Fprintf(&b, "%d.\t%s\n", i+1, e.RiotID)
	}
	return b.String()
}

// FormatError turns a command failure into the message shown to the user.
// Internal details never leave this function.
func FormatError(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return "Invalid options: " + reason(err, domain.ErrInvalidInput)
	case errors.Is(err, domain.ErrNotFound):
		return "Riot ID not found"
	case errors.Is(err, domain.ErrAlreadyTracked):
		return "That player is already tracked"
	case errors.Is(err, domain.ErrNotTracked):
		return "That player is not tracked"
	case errors.Is(err, domain.ErrNoSnapshots):
		return "That player is not tracked yet, use /track to start recording LP"
	case errors.Is(err, domain.ErrRateLimited):
		return "Riot API rate limit reached, try again in a minute"
	default:
		return "Service temporarily unavailable, try again later"
	}
}

// reason returns the text following sentinel in err's message.
func reason(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return sentinel.Error()
}
