package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"TurnipSentinel/internal/forecast"
	"TurnipSentinel/internal/model"
	"TurnipSentinel/internal/notifier"
	"TurnipSentinel/internal/week"
)

// Sender delivers a message to the chat.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// historyLimit caps the archived weeks listed by /history.
const historyLimit = 8

// Scheduler manages the cron tasks and answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Forecast *forecast.Service
	Notifier Sender
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, fs *forecast.Service, sender Sender) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Forecast: fs,
		Notifier: sender,
		Ctx:      ctx,
	}
}

// RegisterAll registers the weekly reset and the prediction report.
func (s *Scheduler) RegisterAll(resetCron, reportCron string) error {
	if _, err := s.Cron.AddFunc(resetCron, s.resetTask); err != nil {
		return fmt.Errorf("register reset task: %w", err)
	}
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("entries", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunReportNow executes the report task immediately (for RUN_ON_START).
func (s *Scheduler) RunReportNow() {
	s.reportTask()
}

func (s *Scheduler) resetTask() {
	log.Info().Msg("running weekly reset")
	prev, err := s.Forecast.ResetWeek()
	if err != nil {
		log.Error().Err(err).Msg("weekly reset")
		s.trySend(fmt.Sprintf("❌ Weekly reset failed: %v", err))
		return
	}
	if prev.Count() == 0 {
		s.trySend("🗓 New week started.")
		return
	}
	s.trySend(fmt.Sprintf("🗓 New week started. Last week: <code>%s</code>", week.FormatInline(prev)))
}

func (s *Scheduler) reportTask() {
	log.Info().Msg("running prediction report")
	if s.Forecast.Week.Series().Count() == 0 {
		log.Info().Msg("no prices observed this week, skipping report")
		return
	}
	if s.trySend(s.summary("report")) {
		s.Forecast.Metrics.LastSuccessfulReport.Set(float64(time.Now().Unix()))
	}
}

func (s *Scheduler) summary(trigger string) string {
	series, result := s.Forecast.PredictWeek(trigger)
	return notifier.FormatSummary(s.Forecast.Preset(), series, week.FormatInline(series), &result)
}

const helpText = `Commands:
• /price 95 90/85 80 - replace this week's prices
• /set MON1 90 - record one price
• /clear MON1 - forget one price
• /prices - show this week's prices
• /predict - summary per pattern
• /table - every feasible variant
• /history - past weeks
• /reset - start a new week`

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	name := strings.ToLower(fields[0])
	if i := strings.IndexByte(name, '@'); i > 0 {
		name = name[:i]
	}
	args := fields[1:]
	s.Forecast.Metrics.RecordCommand(name)

	switch name {
	case "/price":
		series, err := week.ParseInline(strings.Join(args, " "))
		if err != nil {
			return "Usage: /price 95 90/85 80 (purchase, then AM/PM pairs)"
		}
		if err := s.Forecast.ReplaceWeek("telegram", series); err != nil {
			log.Error().Err(err).Msg("replace week")
			return fmt.Sprintf("❌ %v", err)
		}
		return s.summary("command")

	case "/set":
		if len(args) != 2 {
			return "Usage: /set MON1 90"
		}
		slot, err := model.ParseSlot(args[0])
		if err != nil {
			return fmt.Sprintf("❌ unknown slot %q", args[0])
		}
		price, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Sprintf("❌ %q is not a price", args[1])
		}
		if _, err := s.Forecast.Observe("telegram", slot, price); err != nil {
			return userError(err)
		}
		return s.summary("command")

	case "/clear":
		if len(args) != 1 {
			return "Usage: /clear MON1"
		}
		slot, err := model.ParseSlot(args[0])
		if err != nil {
			return fmt.Sprintf("❌ unknown slot %q", args[0])
		}
		series, err := s.Forecast.Forget("telegram", slot)
		if err != nil {
			return userError(err)
		}
		return fmt.Sprintf("Prices: <code>%s</code>", week.FormatInline(series))

	case "/prices":
		return fmt.Sprintf("Prices: <code>%s</code>", week.FormatInline(s.Forecast.Week.Series()))

	case "/predict":
		return s.summary("command")

	case "/table":
		series, result := s.Forecast.PredictWeek("command")
		if result.Empty() {
			return "No pattern explains these prices."
		}
		return "<pre>" + notifier.FormatTable(series, &result) + "</pre>"

	case "/history":
		weeks, err := s.Forecast.History(historyLimit)
		if err != nil {
			log.Error().Err(err).Msg("load history")
			return fmt.Sprintf("❌ %v", err)
		}
		lines := make([]notifier.WeekLine, 0, len(weeks))
		for _, w := range weeks {
			lines = append(lines, notifier.WeekLine{EndedAt: w.EndedAt, Inline: week.FormatInline(w.Series)})
		}
		return notifier.FormatWeekArchive(lines)

	case "/reset":
		prev, err := s.Forecast.ResetWeek()
		if err != nil {
			return fmt.Sprintf("❌ %v", err)
		}
		return fmt.Sprintf("🗓 New week started. Archived: <code>%s</code>", week.FormatInline(prev))

	default:
		return helpText
	}
}

func userError(err error) string {
	switch {
	case errors.Is(err, week.ErrInvalidSlot):
		return "❌ slot must be SUN, MON1 ... SAT2"
	case errors.Is(err, week.ErrPriceOutOfRange):
		return fmt.Sprintf("❌ price must be between 1 and %d", model.MaxPrice)
	default:
		log.Error().Err(err).Msg("update week")
		return fmt.Sprintf("❌ %v", err)
	}
}

func (s *Scheduler) trySend(text string) bool {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Forecast.Metrics.NotifyFailures.Inc()
		log.Error().Err(err).Msg("send notification")
		return false
	}
	return true
}
