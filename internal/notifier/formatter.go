package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"SquadSentinel/internal/model"
)

func money(tenths int) string {
	return "£" + humanize.CommafWithDigits(float64(tenths)/10, 1) + "m"
}

func playerName(cat *model.Catalog, id int) string {
	if p := cat.Player(id); p != nil {
		return p.Name
	}
	return fmt.Sprintf("#%d", id)
}

// FormatDecisionReport formats one period's decision into a Telegram message.
func FormatDecisionReport(rec *model.DecisionRecord, cat *model.Catalog) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>SquadSentinel GW%d</b> | %s\n\n", rec.Period, time.Now().Format("2006-01-02")))

	if len(rec.Transfers) == 0 {
		b.WriteString("🔁 Transfers: none (bank the free transfer)\n")
	} else {
		b.WriteString("🔁 <b>Transfers:</b>\n")
		for _, t := range rec.Transfers {
			b.WriteString(fmt.Sprintf("  %s → %s (%+.1f pts", t.OutName, t.InName, t.Gain))
			if t.HitCost > 0 {
				b.WriteString(fmt.Sprintf(", hit -%d", t.HitCost))
			}
			b.WriteString(")\n")
		}
		b.WriteString(fmt.Sprintf("  net gain: %+.1f | hits: -%d\n", rec.NetGain, rec.HitCost))
	}

	if rec.Chip != model.ChipNone {
		b.WriteString(fmt.Sprintf("\n🃏 <b>Chip played:</b> %s\n", chipLabel(rec.Chip)))
	}

	f := rec.Lineup.Formation
	b.WriteString(fmt.Sprintf("\n⚽️ <b>Lineup (%d-%d-%d)</b>\n", f[1], f[2], f[3]))
	for _, id := range rec.Lineup.Starters {
		tag := ""
		switch id {
		case rec.Lineup.Captain:
			tag = " (C)"
		case rec.Lineup.Vice:
			tag = " (V)"
		}
		b.WriteString(fmt.Sprintf("  %s%s\n", playerName(cat, id), tag))
	}
	b.WriteString("  — bench: ")
	names := make([]string, 0, len(rec.Lineup.Bench))
	for _, id := range rec.Lineup.Bench {
		names = append(names, playerName(cat, id))
	}
	b.WriteString(strings.Join(names, ", "))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("\n📈 expected: %.1f pts | squad value: %s | bank: %d FT\n",
		rec.ExpectedScore, money(rec.SpendTenths), rec.BankAfter))

	return b.String()
}

// FormatSquadStatus formats the current season state for display.
func FormatSquadStatus(state *model.SeasonState, cat *model.Catalog) string {
	var b strings.Builder
	b.WriteString("📦 <b>Squad status</b>\n\n")
	b.WriteString(fmt.Sprintf("Period: GW%d\n", state.Period))
	b.WriteString(fmt.Sprintf("Squad value: %s | cash: %s\n",
		money(state.Roster.SpendTenths(cat)), money(state.CashTenths)))
	b.WriteString(fmt.Sprintf("Free transfers: %d (hit cost %d)\n", state.Transfers.Bank, state.Transfers.HitCost))

	byPos := map[model.Position][]string{}
	for _, id := range state.Roster {
		if p := cat.Player(id); p != nil {
			label := p.Name
			if !p.Available {
				label += " ⚠️"
			}
			byPos[p.Position] = append(byPos[p.Position], label)
		}
	}
	for _, pos := range model.Positions {
		if len(byPos[pos]) > 0 {
			b.WriteString(fmt.Sprintf("%s: %s\n", pos, strings.Join(byPos[pos], ", ")))
		}
	}
	b.WriteString(fmt.Sprintf("\nUpdated: %s\n", state.UpdatedAt.Format("2006-01-02 15:04")))
	return b.String()
}

// FormatChipStatus formats the chip inventory.
func FormatChipStatus(inv model.ChipInventory) string {
	var b strings.Builder
	b.WriteString("🃏 <b>Chip inventory</b>\n\n")
	for _, kind := range model.ChipKinds {
		b.WriteString(fmt.Sprintf("%s: %d left", chipLabel(kind), inv.Remaining[kind]))
		if used := inv.Used[kind]; len(used) > 0 {
			parts := make([]string, len(used))
			for i, gw := range used {
				parts[i] = fmt.Sprintf("GW%d", gw)
			}
			b.WriteString(" (used " + strings.Join(parts, ", ") + ")")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func chipLabel(kind model.ChipKind) string {
	switch kind {
	case model.ChipWildcard:
		return "Wildcard"
	case model.ChipFreeHit:
		return "Free Hit"
	case model.ChipBenchBoost:
		return "Bench Boost"
	case model.ChipTripleCaptain:
		return "Triple Captain"
	default:
		return string(kind)
	}
}
