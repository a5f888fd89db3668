package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nervilabs/nervi-backend/internal/schedule"
	"github.com/nervilabs/nervi-backend/internal/store"
)

const (
	IntensityGentle = "light-gentle"
	IntensityHonest = "honest-kind"
)

// Thresholds are the tunables behind the daily-read heuristics. They are
// configuration, not literals, so tests can pin them and ops can adjust
// them without touching the scoring code.
type Thresholds struct {
	NotesWindowDays    int // how far back notes are read
	CheckInWindowDays  int // how far back check-ins are read
	PoorSleepMin       int // poor-sleep check-ins that trigger the fatigue theme
	RecentNotesForMood int // how many recent notes the stress scan looks at
	StressNotesMin     int // stressed notes within that scan for the stress theme
	MealSkipMin        int // meal-skip mentions that earn a watch-for
	ScrollMentionsMin  int // scrolling mentions that shape the tiny pact
	MicroStressNotes   int // recent notes the micro-action stress check reads
	MinCheckIns        int // below this, the micro-action nudges a check-in
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		NotesWindowDays:    14,
		CheckInWindowDays:  7,
		PoorSleepMin:       3,
		RecentNotesForMood: 5,
		StressNotesMin:     3,
		MealSkipMin:        2,
		ScrollMentionsMin:  2,
		MicroStressNotes:   3,
		MinCheckIns:        3,
	}
}

var stressKeywords = []string{"anxious", "overwhelmed", "tense", "frazzled", "stressed"}

// DailyRead is the assembled response for one user and one day.
type DailyRead struct {
	TodaysTheme string   `json:"todaysTheme"`
	WatchFor    []string `json:"watchFor"`
	WhatHelps   []string `json:"whatHelps"`
	TinyPact    string   `json:"tinyPact"`
	MicroAction string   `json:"microAction"`
}

// DailyReadStore is the slice of the store the daily read needs.
type DailyReadStore interface {
	ListNotesSince(userID string, since time.Time) ([]store.Note, error)
	ListCheckInsSince(userID string, since time.Time) ([]store.CheckIn, error)
	GetDayPattern(userID, dayKey string) (*store.DayPattern, error)
	ListTriggerBuffers(userID, typ string) ([]store.TriggerBuffer, error)
	ListMicroActions(userID, date string) ([]store.MicroAction, error)
}

// dailyReadContext aggregates the five independently fetched collections.
// Recomputed per request, never persisted.
type dailyReadContext struct {
	notes        []store.Note
	checkIns     []store.CheckIn
	pattern      *store.DayPattern
	triggers     []store.TriggerBuffer
	buffers      []store.TriggerBuffer
	microActions []store.MicroAction
}

// DailyReadService turns the stored traces of the last two weeks into a
// small themed read of the day. All scoring is pure over the fetched
// context; fetch failures degrade to defaults rather than erroring.
type DailyReadService struct {
	reads      DailyReadStore
	thresholds Thresholds
	logger     *zap.Logger
	now        func() time.Time
}

func NewDailyReadService(reads DailyReadStore, thresholds Thresholds, logger *zap.Logger) *DailyReadService {
	return &DailyReadService{reads: reads, thresholds: thresholds, logger: logger, now: time.Now}
}

func (s *DailyReadService) Generate(ctx context.Context, userID, intensity string) (*DailyRead, error) {
	if intensity != IntensityHonest {
		intensity = IntensityGentle
	}

	rc := s.fetchContext(ctx, userID)

	return &DailyRead{
		TodaysTheme: s.theme(rc, intensity),
		WatchFor:    s.watchFors(rc, intensity),
		WhatHelps:   s.whatHelps(rc),
		TinyPact:    s.tinyPact(rc),
		MicroAction: s.microAction(rc),
	}, nil
}

// fetchContext issues the independent reads concurrently. Each failure is
// logged and leaves its slot empty; the heuristics fall back to defaults.
func (s *DailyReadService) fetchContext(ctx context.Context, userID string) *dailyReadContext {
	now := s.now()
	rc := &dailyReadContext{}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		notes, err := s.reads.ListNotesSince(userID, now.AddDate(0, 0, -s.thresholds.NotesWindowDays))
		if err != nil {
			s.logger.Warn("daily read: notes fetch failed", zap.Error(err))
			return nil
		}
		rc.notes = notes
		return nil
	})
	g.Go(func() error {
		checkIns, err := s.reads.ListCheckInsSince(userID, now.AddDate(0, 0, -s.thresholds.CheckInWindowDays))
		if err != nil {
			s.logger.Warn("daily read: check-ins fetch failed", zap.Error(err))
			return nil
		}
		rc.checkIns = checkIns
		return nil
	})
	g.Go(func() error {
		pattern, err := s.reads.GetDayPattern(userID, schedule.TodayKey(now))
		if err != nil {
			s.logger.Warn("daily read: day pattern fetch failed", zap.Error(err))
			return nil
		}
		rc.pattern = pattern
		return nil
	})
	g.Go(func() error {
		triggers, err := s.reads.ListTriggerBuffers(userID, store.TypeTrigger)
		if err != nil {
			s.logger.Warn("daily read: triggers fetch failed", zap.Error(err))
			return nil
		}
		rc.triggers = triggers
		return nil
	})
	g.Go(func() error {
		buffers, err := s.reads.ListTriggerBuffers(userID, store.TypeBuffer)
		if err != nil {
			s.logger.Warn("daily read: buffers fetch failed", zap.Error(err))
			return nil
		}
		rc.buffers = buffers
		return nil
	})
	g.Go(func() error {
		actions, err := s.reads.ListMicroActions(userID, now.Format("2006-01-02"))
		if err != nil {
			s.logger.Warn("daily read: micro-actions fetch failed", zap.Error(err))
			return nil
		}
		rc.microActions = actions
		return nil
	})
	_ = g.Wait()

	return rc
}

// theme picks today's message by fixed priority: fatigue, then the stored
// day-of-week theme, then recent stress, then the default.
func (s *DailyReadService) theme(rc *dailyReadContext, intensity string) string {
	poorSleep := 0
	for _, c := range rc.checkIns {
		if c.SleepQuality == "poor" {
			poorSleep++
		}
	}
	if poorSleep >= s.thresholds.PoorSleepMin {
		if intensity == IntensityHonest {
			return "Your body has been running on thin sleep all week. Today is about repair, not output."
		}
		return "Sleep has been rough lately. Today, let rest count as progress."
	}

	if rc.pattern != nil && rc.pattern.CommonTheme != "" {
		return rc.pattern.CommonTheme
	}

	if s.stressedNoteCount(rc.notes, s.thresholds.RecentNotesForMood) >= s.thresholds.StressNotesMin {
		if intensity == IntensityHonest {
			return "Your recent notes read stressed. Name what is pressing on you before it runs the day."
		}
		return "There has been a lot on your plate. Today, go a little slower than feels necessary."
	}

	if intensity == IntensityHonest {
		return "A steady day. Use the calm to notice what your nervous system actually needs."
	}
	return "Nothing loud in your patterns today. Keep things simple and kind."
}

// stressedNoteCount counts how many of the n most recent notes carry a
// stress keyword in their feeling field. Notes arrive newest first.
func (s *DailyReadService) stressedNoteCount(notes []store.Note, n int) int {
	if len(notes) > n {
		notes = notes[:n]
	}
	count := 0
	for _, note := range notes {
		feeling := strings.ToLower(note.Feeling)
		for _, kw := range stressKeywords {
			if strings.Contains(feeling, kw) {
				count++
				break
			}
		}
	}
	return count
}

var timePatternPhrasings = map[string]string{
	"afternoon-slump": "Your energy tends to dip mid-afternoon. Plan something gentle for that window.",
	"morning-anxiety": "Mornings often start loud for you. Give the first hour some slack.",
}

var bespokeTriggerPhrasings = map[string]string{
	"conflict":     "Conflict, even small, lands hard on your system. Notice the bracing early.",
	"deadlines":    "Deadline pressure tends to tip you into urgency mode before the work needs it.",
	"social media": "Feeds pull you out of your body. Watch how you feel after ten minutes of scrolling.",
}

func (s *DailyReadService) watchFors(rc *dailyReadContext, intensity string) []string {
	var items []string

	if rc.pattern != nil {
		for _, tp := range rc.pattern.TimePatterns {
			if phrase, ok := timePatternPhrasings[tp]; ok {
				items = append(items, phrase)
			}
		}
	}

	topTriggers := rc.triggers
	if len(topTriggers) > 2 {
		topTriggers = topTriggers[:2]
	}
	for _, trig := range topTriggers {
		if phrase, ok := bespokeTriggerPhrasings[strings.ToLower(trig.Name)]; ok {
			items = append(items, phrase)
		} else {
			items = append(items, fmt.Sprintf("%s tends to activate your nervous system.", trig.Name))
		}
	}

	if s.mealSkipMentions(rc.notes) >= s.thresholds.MealSkipMin {
		items = append(items, "Skipped meals have shown up in your notes. Eating something counts as regulation.")
	}

	limit := 3
	if intensity == IntensityGentle {
		limit = 2
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func (s *DailyReadService) mealSkipMentions(notes []store.Note) int {
	count := 0
	for _, note := range notes {
		activity := strings.ToLower(note.Activity)
		if strings.Contains(activity, "skip") &&
			(strings.Contains(activity, "meal") || strings.Contains(activity, "eat")) {
			count++
		}
	}
	return count
}

var genericHelps = []string{
	"A few slow breaths with a longer exhale.",
	"Stepping outside, even for two minutes.",
	"Putting the phone in another room for a while.",
}

func (s *DailyReadService) whatHelps(rc *dailyReadContext) []string {
	var items []string

	topBuffers := rc.buffers
	if len(topBuffers) > 2 {
		topBuffers = topBuffers[:2]
	}
	for _, buf := range topBuffers {
		items = append(items, buf.Name)
	}

	if rc.pattern != nil && rc.pattern.Buffer != "" && !containsString(items, rc.pattern.Buffer) {
		items = append(items, rc.pattern.Buffer)
	}

	if len(items) == 0 {
		items = append(items, genericHelps...)
	}
	if len(items) > 3 {
		items = items[:3]
	}
	return items
}

func (s *DailyReadService) tinyPact(rc *dailyReadContext) string {
	if len(rc.triggers) > 0 && len(rc.buffers) > 0 {
		return fmt.Sprintf("If %s shows up today, I will reach for %s before anything else.",
			strings.ToLower(rc.triggers[0].Name), strings.ToLower(rc.buffers[0].Name))
	}

	if s.scrollMentions(rc.notes) >= s.thresholds.ScrollMentionsMin {
		return "If I catch myself scrolling, I will put the phone down and take three breaths first."
	}

	return "If my shoulders creep up today, I will pause and feel my feet on the floor."
}

func (s *DailyReadService) scrollMentions(notes []store.Note) int {
	count := 0
	for _, note := range notes {
		text := strings.ToLower(note.Activity + " " + note.Content)
		if strings.Contains(text, "scroll") || strings.Contains(text, "social media") {
			count++
		}
	}
	return count
}

func (s *DailyReadService) microAction(rc *dailyReadContext) string {
	if len(rc.microActions) > 0 && allDone(rc.microActions) {
		return "You already closed today's micro-action. Nothing more is asked of you."
	}
	if s.stressedNoteCount(rc.notes, s.thresholds.MicroStressNotes) > 0 {
		return "Try a two-minute guided reset. Your recent notes suggest your system could use the off-ramp."
	}
	if len(rc.checkIns) < s.thresholds.MinCheckIns {
		return "Schedule a 30-second check-in. A little data makes your daily read sharper."
	}
	return "Pick one block on today's schedule and do it at half speed."
}

func allDone(actions []store.MicroAction) bool {
	for _, a := range actions {
		if !a.Done {
			return false
		}
	}
	return true
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
