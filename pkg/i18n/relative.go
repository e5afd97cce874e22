package i18n

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Relative time units, from smallest to largest.
const (
	UnitSecond = "second"
	UnitMinute = "minute"
	UnitHour   = "hour"
	UnitDay    = "day"
	UnitWeek   = "week"
	UnitMonth  = "month"
	UnitYear   = "year"
)

// RelativeUnit picks the unit and signed value used to describe t relative
// to now. Negative values are in the past. Each unit is used while its
// rounded magnitude stays below the next threshold: 60 seconds, 60 minutes,
// 24 hours, 7 days, 4 weeks, 12 months.
func RelativeUnit(t, now time.Time) (int, string) {
	sec := math.Round(t.Sub(now).Seconds())
	minutes := math.Round(sec / 60)
	hours := math.Round(minutes / 60)
	days := math.Round(hours / 24)
	weeks := math.Round(days / 7)
	months := math.Round(days / 30)
	years := math.Round(days / 365)

	switch {
	case math.Abs(sec) < 60:
		return int(sec), UnitSecond
	case math.Abs(minutes) < 60:
		return int(minutes), UnitMinute
	case math.Abs(hours) < 24:
		return int(hours), UnitHour
	case math.Abs(days) < 7:
		return int(days), UnitDay
	case math.Abs(weeks) < 4:
		return int(weeks), UnitWeek
	case math.Abs(months) < 12:
		return int(months), UnitMonth
	default:
		return int(years), UnitYear
	}
}

// FormatRelativeTime describes t relative to now ("2 hours ago", "in 3 days",
// "yesterday") in the format's language.
func (lf *LocaleFormat) FormatRelativeTime(t, now time.Time) string {
	value, unit := RelativeUnit(t, now)
	p := relativePhrases(lf.language)

	if s, ok := p.special[unit][value]; ok {
		return s
	}

	abs := value
	if abs < 0 {
		abs = -abs
	}
	forms := p.units[unit]
	name := forms[1]
	if abs == 1 {
		name = forms[0]
	}
	amount := strconv.Itoa(abs) + " " + name

	if value < 0 {
		return strings.Replace(p.past, "%s", amount, 1)
	}
	return strings.Replace(p.future, "%s", amount, 1)
}

// List joining styles.
const (
	ListConjunction = "conjunction"
	ListDisjunction = "disjunction"
)

// FormatList joins items in the format's language:
// "A, B, and C" for a conjunction, "A, B, or C" for a disjunction.
func (lf *LocaleFormat) FormatList(items []string, style string) string {
	p := relativePhrases(lf.language)
	word := p.and
	if style == ListDisjunction {
		word = p.or
	}

	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " " + word + " " + items[1]
	}

	rest := strings.Join(items[:len(items)-1], ", ")
	if p.serialComma {
		return rest + ", " + word + " " + items[len(items)-1]
	}
	return rest + " " + word + " " + items[len(items)-1]
}

type phrases struct {
	past, future string
	units        map[string][2]string // singular, plural
	special      map[string]map[int]string
	and, or      string
	serialComma  bool
	compact      [3]string // thousand, million, billion
}

func relativePhrases(lang string) *phrases {
	if p, ok := phrasebook[lang]; ok {
		return p
	}
	return phrasebook[DefaultLang]
}

func compactSuffixes(lang string) [3]string {
	return relativePhrases(lang).compact
}

var phrasebook = map[string]*phrases{
	"en": {
		past:   "%s ago",
		future: "in %s",
		units: map[string][2]string{
			UnitSecond: {"second", "seconds"},
			UnitMinute: {"minute", "minutes"},
			UnitHour:   {"hour", "hours"},
			UnitDay:    {"day", "days"},
			UnitWeek:   {"week", "weeks"},
			UnitMonth:  {"month", "months"},
			UnitYear:   {"year", "years"},
		},
		special: map[string]map[int]string{
			UnitSecond: {0: "now"},
			UnitDay:    {-1: "yesterday", 0: "today", 1: "tomorrow"},
			UnitWeek:   {-1: "last week", 1: "next week"},
			UnitMonth:  {-1: "last month", 1: "next month"},
			UnitYear:   {-1: "last year", 1: "next year"},
		},
		and:         "and",
		or:          "or",
		serialComma: true,
		compact:     [3]string{"K", "M", "B"},
	},
	"de": {
		past:   "vor %s",
		future: "in %s",
		units: map[string][2]string{
			UnitSecond: {"Sekunde", "Sekunden"},
			UnitMinute: {"Minute", "Minuten"},
			UnitHour:   {"Stunde", "Stunden"},
			UnitDay:    {"Tag", "Tagen"},
			UnitWeek:   {"Woche", "Wochen"},
			UnitMonth:  {"Monat", "Monaten"},
			UnitYear:   {"Jahr", "Jahren"},
		},
		special: map[string]map[int]string{
			UnitSecond: {0: "jetzt"},
			UnitDay:    {-1: "gestern", 0: "heute", 1: "morgen"},
			UnitWeek:   {-1: "letzte Woche", 1: "nächste Woche"},
			UnitMonth:  {-1: "letzten Monat", 1: "nächsten Monat"},
			UnitYear:   {-1: "letztes Jahr", 1: "nächstes Jahr"},
		},
		and:     "und",
		or:      "oder",
		compact: [3]string{" Tsd.", " Mio.", " Mrd."},
	},
	"es": {
		past:   "hace %s",
		future: "dentro de %s",
		units: map[string][2]string{
			UnitSecond: {"segundo", "segundos"},
			UnitMinute: {"minuto", "minutos"},
			UnitHour:   {"hora", "horas"},
			UnitDay:    {"día", "días"},
			UnitWeek:   {"semana", "semanas"},
			UnitMonth:  {"mes", "meses"},
			UnitYear:   {"año", "años"},
		},
		special: map[string]map[int]string{
			UnitSecond: {0: "ahora"},
			UnitDay:    {-1: "ayer", 0: "hoy", 1: "mañana"},
			UnitWeek:   {-1: "la semana pasada", 1: "la próxima semana"},
			UnitMonth:  {-1: "el mes pasado", 1: "el próximo mes"},
			UnitYear:   {-1: "el año pasado", 1: "el próximo año"},
		},
		and:     "y",
		or:      "o",
		compact: [3]string{" mil", " M", " mil M"},
	},
	"fr": {
		past:   "il y a %s",
		future: "dans %s",
		units: map[string][2]string{
			UnitSecond: {"seconde", "secondes"},
			UnitMinute: {"minute", "minutes"},
			UnitHour:   {"heure", "heures"},
			UnitDay:    {"jour", "jours"},
			UnitWeek:   {"semaine", "semaines"},
			UnitMonth:  {"mois", "mois"},
			UnitYear:   {"an", "ans"},
		},
		special: map[string]map[int]string{
			UnitSecond: {0: "maintenant"},
			UnitDay:    {-1: "hier", 0: "aujourd’hui", 1: "demain"},
			UnitWeek:   {-1: "la semaine dernière", 1: "la semaine prochaine"},
			UnitMonth:  {-1: "le mois dernier", 1: "le mois prochain"},
			UnitYear:   {-1: "l’année dernière", 1: "l’année prochaine"},
		},
		and:     "et",
		or:      "ou",
		compact: [3]string{" k", " M", " Md"},
	},
	"pt": {
		past:   "há %s",
		future: "em %s",
		units: map[string][2]string{
			UnitSecond: {"segundo", "segundos"},
			UnitMinute: {"minuto", "minutos"},
			UnitHour:   {"hora", "horas"},
			UnitDay:    {"dia", "dias"},
			UnitWeek:   {"semana", "semanas"},
			UnitMonth:  {"mês", "meses"},
			UnitYear:   {"ano", "anos"},
		},
		special: map[string]map[int]string{
			UnitSecond: {0: "agora"},
			UnitDay:    {-1: "ontem", 0: "hoje", 1: "amanhã"},
			UnitWeek:   {-1: "semana passada", 1: "próxima semana"},
			UnitMonth:  {-1: "mês passado", 1: "próximo mês"},
			UnitYear:   {-1: "ano passado", 1: "próximo ano"},
		},
		and:     "e",
		or:      "ou",
		compact: [3]string{" mil", " mi", " bi"},
	},
}
