package itinerary

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	defaultFallbackDays  = 3
	maxFallbackDays      = 14
	defaultFallbackParty = 2

	fallbackNotes = "模型输出不可用，已根据需求离线生成参考行程，请按实际情况调整。"
)

const cnDigits = "一二两三四五六七八九十"

var (
	destinationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:去|到|前往|飞往|飞去)\s*([\p{Han}A-Za-z]{2,10}?)\s*(?:玩|旅游|旅行|游玩|度假|逛|看看|走走|自驾|出差|[\d` + cnDigits + `]+\s*[天日]|$|[，,。！!？?\s])`),
		regexp.MustCompile(`([\p{Han}A-Za-z]{2,10}?)\s*(?:[\d` + cnDigits + `]+\s*[天日]游|之旅|深度游|自由行)`),
		regexp.MustCompile(`(?:去|到|前往)\s*([\p{Han}A-Za-z]{2,10})`),
	}
	dayCountPattern   = regexp.MustCompile(`([\d` + cnDigits + `]+)\s*(?:个)?\s*(?:天|日游|日行)`)
	partySizePattern  = regexp.MustCompile(`([\d` + cnDigits + `]+)\s*(?:个)?\s*(?:人|位)`)
	familySizePattern = regexp.MustCompile(`一家([\d` + cnDigits + `]+)口`)
	promptPrefixes    = []string{"我想", "我要", "想", "要", "帮我", "计划", "打算"}
)

// Fallback builds a complete itinerary from the user prompt alone. The
// destination, day count and party size are guessed from the prompt and the
// trip starts on today's date in loc.
func Fallback(prompt string, today time.Time, loc *time.Location) Itinerary {
	prompt = fold(prompt)
	destination := GuessDestination(prompt)
	dayCount := GuessDayCount(prompt)

	it := Itinerary{
		Title:             fmt.Sprintf("%s%d日游", destination, dayCount),
		Destination:       destination,
		StartDate:         strPtr(today.In(loc).Format(dateLayout)),
		DepartureLocation: guessDeparture(prompt),
		PartySize:         GuessPartySize(prompt),
		BudgetCurrency:    DefaultCurrency,
		Notes:             strPtr(fallbackNotes),
	}
	if title := truncate(it.Title, maxTitleLen); title != nil {
		it.Title = *title
	}

	for i := 1; i <= dayCount; i++ {
		day := Day{
			DayIndex: i,
			Summary:  strPtr(fmt.Sprintf("%s第%d天自由探索", destination, i)),
		}
		it.Days = append(it.Days, Complete(day, destination, loc))
	}
	InferWindow(&it, loc)
	return it
}

// GuessDestination extracts the place named by patterns such as "去X玩",
// "到X" or "X三日游", or DefaultDestination.
func GuessDestination(prompt string) string {
	prompt = strings.TrimSpace(fold(prompt))
	for _, p := range destinationPatterns {
		m := p.FindStringSubmatch(prompt)
		if m == nil {
			continue
		}
		dest := m[1]
		for _, prefix := range promptPrefixes {
			dest = strings.TrimPrefix(dest, prefix)
		}
		if len([]rune(dest)) >= 2 {
			return dest
		}
	}
	return DefaultDestination
}

// GuessDayCount reads "N天"/"N日游" (Arabic or Chinese numerals), "一周" as 7
// and "周末" as 2. The result is clamped to 1-14 and defaults to 3.
func GuessDayCount(prompt string) int {
	prompt = fold(prompt)
	if m := dayCountPattern.FindStringSubmatch(prompt); m != nil {
		if n, ok := parseNumeral(m[1]); ok {
			return clamp(n, 1, maxFallbackDays)
		}
	}
	switch {
	case strings.Contains(prompt, "周末"):
		return 2
	case strings.Contains(prompt, "一周"), strings.Contains(prompt, "一个星期"):
		return 7
	}
	return defaultFallbackDays
}

// GuessPartySize reads "N人", "N位" or "一家N口", defaulting to 2.
func GuessPartySize(prompt string) int {
	prompt = fold(prompt)
	for _, p := range []*regexp.Regexp{familySizePattern, partySizePattern} {
		if m := p.FindStringSubmatch(prompt); m != nil {
			if n, ok := parseNumeral(m[1]); ok && n > 0 {
				return clamp(n, 1, 99)
			}
		}
	}
	return defaultFallbackParty
}

func guessDeparture(prompt string) *string {
	if m := departFromPattern.FindStringSubmatch(prompt); m != nil {
		return truncate(m[1], maxLocationLen)
	}
	return nil
}

// parseNumeral reads Arabic digits or a Chinese numeral up to 99.
func parseNumeral(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}

	values := map[rune]int{'一': 1, '二': 2, '两': 2, '三': 3, '四': 4, '五': 5, '六': 6, '七': 7, '八': 8, '九': 9}
	runes := []rune(s)
	tenAt := strings.IndexRune(s, '十')
	if tenAt < 0 {
		if len(runes) != 1 {
			return 0, false
		}
		n, ok := values[runes[0]]
		return n, ok
	}

	tens, ones := 1, 0
	before, after := []rune(s[:tenAt]), []rune(s[tenAt+len("十"):])
	if len(before) > 1 || len(after) > 1 {
		return 0, false
	}
	if len(before) == 1 {
		n, ok := values[before[0]]
		if !ok {
			return 0, false
		}
		tens = n
	}
	if len(after) == 1 {
		n, ok := values[after[0]]
		if !ok {
			return 0, false
		}
		ones = n
	}
	return tens*10 + ones, true
}
