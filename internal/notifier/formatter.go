package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"TurnipSentinel/internal/model"
)

// Pattern names as shown to users.
const (
	PatternWave         = "Wave"
	PatternFalling      = "Falling"
	PatternThirdPeriod  = "3rd period"
	PatternFourthPeriod = "4th period"
)

// Row is one feasible hypothesis ready for display.
type Row struct {
	Pattern string
	Variant string
	Pred    model.Prediction
}

// Rows flattens a result in display order: wave, falling, third period, fourth period.
func Rows(result *model.Result) []Row {
	var rows []Row
	for _, key := range result.WaveKeys() {
		rows = append(rows, Row{Pattern: PatternWave, Variant: WaveLabel(key), Pred: result.Wave[key]})
	}
	if result.Falling != nil {
		rows = append(rows, Row{Pattern: PatternFalling, Pred: *result.Falling})
	}
	for _, day := range result.ThirdPeriod.StartDays() {
		rows = append(rows, Row{Pattern: PatternThirdPeriod, Variant: day.String(), Pred: *result.ThirdPeriod[day]})
	}
	for _, day := range result.FourthPeriod.StartDays() {
		rows = append(rows, Row{Pattern: PatternFourthPeriod, Variant: day.String(), Pred: *result.FourthPeriod[day]})
	}
	return rows
}

// WaveLabel renders a wave signature as arrows, one per selling slot.
func WaveLabel(key string) string {
	var b strings.Builder
	for _, c := range key {
		switch model.WaveTransitionType(c) {
		case model.WaveRising:
			b.WriteRune('↑')
		case model.WaveTwoTimesFalling, model.WaveThreeTimesFalling:
			b.WriteRune('↓')
		default:
			b.WriteString("[" + string(c) + "]")
		}
	}
	return b.String()
}

// FormatRange renders an interval as whole prices, rounding outward.
func FormatRange(iv model.Interval) string {
	lo := decimal.NewFromFloat(iv.Min).Floor()
	hi := decimal.NewFromFloat(iv.Max).Ceil()
	if lo.Equal(hi) {
		return lo.String()
	}
	return lo.String() + "~" + hi.String()
}

// peakCeiling is the highest rounded-up max over the selling slots.
func peakCeiling(pred model.Prediction) decimal.Decimal {
	best := decimal.Zero
	for s := model.FirstSellSlot; s < model.SlotCount; s++ {
		best = decimal.Max(best, decimal.NewFromFloat(pred[s].Max).Ceil())
	}
	return best
}

// FormatTable renders every feasible hypothesis as a fixed-width table. Cells
// reaching the row's highest price are starred.
func FormatTable(series model.Series, result *model.Result) string {
	const (
		patternWidth = 11
		variantWidth = 13
		cellWidth    = 10
	)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%-*s%-*s", patternWidth, "Pattern", variantWidth, ""))
	for s := model.SlotSun; s < model.SlotCount; s++ {
		b.WriteString(fmt.Sprintf("%-*s", cellWidth, s))
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("%-*s%-*s", patternWidth, "Observed", variantWidth, ""))
	for s := model.SlotSun; s < model.SlotCount; s++ {
		cell := "-"
		if v, ok := series.Get(s); ok {
			cell = fmt.Sprint(v)
		}
		b.WriteString(fmt.Sprintf("%-*s", cellWidth, cell))
	}
	b.WriteString("\n")

	for _, row := range Rows(result) {
		top := peakCeiling(row.Pred)
		b.WriteString(fmt.Sprintf("%-*s%-*s", patternWidth, row.Pattern, variantWidth, row.Variant))
		for s := model.SlotSun; s < model.SlotCount; s++ {
			cell := FormatRange(row.Pred[s])
			if s.IsSell() && decimal.NewFromFloat(row.Pred[s].Max).Ceil().Equal(top) {
				cell += "*"
			}
			b.WriteString(fmt.Sprintf("%-*s", cellWidth, cell))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), " \n") + "\n"
}

// nextSlot is the first selling slot after the last observed one.
func nextSlot(series model.Series) (model.Slot, bool) {
	next := model.FirstSellSlot
	for s := model.FirstSellSlot; s < model.SlotCount; s++ {
		if series.Known(s) {
			next = s + 1
		}
	}
	return next, next.IsSell()
}

// FormatSummary condenses a result into a Telegram message: per pattern the
// number of variants, the range expected at the next slot and the best price.
func FormatSummary(preset string, series model.Series, inline string, result *model.Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🔮 <b>TurnipSentinel</b> | %s | %s\n", time.Now().Format("2006-01-02"), preset))
	b.WriteString(fmt.Sprintf("Prices: <code>%s</code>\n\n", inline))

	if result.Empty() {
		b.WriteString("No pattern explains these prices. Check the inputs or raise the tolerance.")
		return b.String()
	}

	next, hasNext := nextSlot(series)
	groups := make(map[string][]Row)
	var order []string
	for _, row := range Rows(result) {
		if _, ok := groups[row.Pattern]; !ok {
			order = append(order, row.Pattern)
		}
		groups[row.Pattern] = append(groups[row.Pattern], row)
	}

	for _, pattern := range order {
		rows := groups[pattern]
		env := rows[0].Pred
		for _, row := range rows[1:] {
			for s := range env {
				env[s] = env[s].Union(row.Pred[s])
			}
		}

		b.WriteString(fmt.Sprintf("<b>%s</b>", pattern))
		if len(rows) > 1 || rows[0].Variant != "" {
			b.WriteString(fmt.Sprintf(" ×%d", len(rows)))
		}
		b.WriteString("\n")
		if hasNext {
			b.WriteString(fmt.Sprintf("  next %s: %s\n", next, FormatRange(env[next])))
		}
		top := peakCeiling(env)
		var at []string
		for s := model.FirstSellSlot; s < model.SlotCount; s++ {
			if decimal.NewFromFloat(env[s].Max).Ceil().Equal(top) {
				at = append(at, s.String())
			}
		}
		b.WriteString(fmt.Sprintf("  best: up to %s (%s)\n", top, strings.Join(at, ", ")))
	}

	b.WriteString(fmt.Sprintf("\n%d feasible variants", result.Feasible()))
	return b.String()
}

// FormatWeekArchive lists archived weeks, most recent first.
func FormatWeekArchive(weeks []WeekLine) string {
	if len(weeks) == 0 {
		return "No archived weeks yet."
	}
	var b strings.Builder
	b.WriteString("📚 <b>Past weeks</b>\n\n")
	for _, w := range weeks {
		b.WriteString(fmt.Sprintf("%s: <code>%s</code>\n", w.EndedAt.Format("2006-01-02"), w.Inline))
	}
	return b.String()
}

// WeekLine is one archived week in inline form.
type WeekLine struct {
	EndedAt time.Time
	Inline  string
}
