package localization

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/hireloop/pkg/country"
	"github.com/dmitrymomot/hireloop/pkg/geo"
	"github.com/dmitrymomot/hireloop/pkg/i18n"
	"github.com/dmitrymomot/hireloop/pkg/logger"
)

// Localizer holds the resolved location of one consumer (a CLI session, a
// page render) and exposes formatters bound to its locale and currency.
// It is safe for concurrent use.
type Localizer struct {
	resolver   *geo.Resolver
	logger     *slog.Logger
	onLanguage func(lang string)
	now        func() time.Time

	mu         sync.RWMutex
	result     geo.Result
	language   string
	pending    int
	generation uint64
	wg         sync.WaitGroup
}

// Option configures a Localizer.
type Option func(*Localizer)

// WithLanguageHook registers fn to be called whenever the UI language
// derived from the resolved country changes.
func WithLanguageHook(fn func(lang string)) Option {
	return func(l *Localizer) {
		l.onLanguage = fn
	}
}

// WithLogger sets the logger.
func WithLogger(lg *slog.Logger) Option {
	return func(l *Localizer) {
		l.logger = lg
	}
}

// WithClock injects the time source used for relative times.
func WithClock(now func() time.Time) Option {
	return func(l *Localizer) {
		l.now = now
	}
}

// New creates a Localizer. Until Start is called it reports the resolver's
// default result.
func New(resolver *geo.Resolver, opts ...Option) *Localizer {
	l := &Localizer{
		resolver: resolver,
		logger:   logger.NewNope(),
		now:      time.Now,
		result:   resolver.Default(),
		language: i18n.DefaultLang,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start takes the initial result synchronously. When that result is the
// default, detection continues in the background; use IsDetecting and Wait
// to observe it.
func (l *Localizer) Start(ctx context.Context) geo.Result {
	initial := l.resolver.Initial(ctx)

	l.mu.Lock()
	gen := l.generation
	if initial.Source == geo.SourceDefault {
		l.pending++
		l.wg.Add(1)
	}
	l.mu.Unlock()

	l.apply(initial, gen, false)

	if initial.Source == geo.SourceDefault {
		go func() {
			defer l.wg.Done()
			res := l.resolver.Resolve(ctx, false)
			l.apply(res, gen, true)
			l.logger.DebugContext(ctx, "background location detection finished",
				slog.String("source", string(res.Source)),
				slog.String("country", res.Country.Code),
			)
		}()
	}

	return initial
}

// Wait blocks until background detection started by Start has finished.
func (l *Localizer) Wait() {
	l.wg.Wait()
}

// Refresh forces a new detection and returns its result.
func (l *Localizer) Refresh(ctx context.Context) geo.Result {
	l.mu.Lock()
	l.pending++
	gen := l.generation
	l.mu.Unlock()

	res := l.resolver.Resolve(ctx, true)
	l.apply(res, gen, true)
	return res
}

// SetCountry applies a user selection. Unknown codes are ignored and report false.
func (l *Localizer) SetCountry(ctx context.Context, code string) bool {
	res, ok := l.resolver.SetUserCountry(ctx, code)
	if !ok {
		return false
	}

	l.mu.Lock()
	l.generation++
	gen := l.generation
	l.mu.Unlock()

	l.apply(res, gen, false)
	return true
}

// Clear forgets the stored location and falls back to the default result.
func (l *Localizer) Clear(ctx context.Context) {
	l.resolver.Clear(ctx)

	l.mu.Lock()
	l.generation++
	gen := l.generation
	l.mu.Unlock()

	l.apply(l.resolver.Default(), gen, false)
}

// apply stores res unless a user action happened after the detection that
// produced it was started. done marks one outstanding detection as finished.
func (l *Localizer) apply(res geo.Result, gen uint64, done bool) {
	lang := i18n.LanguageFromLocale(res.Country.Language.Code)

	l.mu.Lock()
	if done {
		l.pending--
	}
	if gen != l.generation {
		l.mu.Unlock()
		return
	}
	l.result = res
	changed := lang != l.language
	l.language = lang
	hook := l.onLanguage
	l.mu.Unlock()

	if changed && hook != nil {
		hook(lang)
	}
}

// IsDetecting reports whether a detection is outstanding.
func (l *Localizer) IsDetecting() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.pending > 0
}

// Result returns the current result.
func (l *Localizer) Result() geo.Result {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.result
}

// State returns the resolution state of the current result.
func (l *Localizer) State() geo.State {
	return geo.StateOf(l.Result())
}

// Country returns the resolved country configuration.
func (l *Localizer) Country() country.Config {
	return l.Result().Country
}

// Location returns the detected location.
func (l *Localizer) Location() geo.Location {
	return l.Result().Location
}

// Currency returns the currency of the resolved country.
func (l *Localizer) Currency() country.Currency {
	return l.Country().Currency
}

// Locale returns the BCP-47 locale of the resolved country.
func (l *Localizer) Locale() string {
	return l.Country().Locale
}

// Language returns the supported UI language for the resolved country.
func (l *Localizer) Language() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.language
}

// SupportedCountries lists every selectable country.
func (l *Localizer) SupportedCountries() []country.Config {
	return l.resolver.Registry().All()
}

// Format returns the locale format of the resolved country.
func (l *Localizer) Format() *i18n.LocaleFormat {
	return i18n.FormatFor(l.Locale())
}

// FormatPrice formats amount in the local currency, or in currencyOverride
// when given.
func (l *Localizer) FormatPrice(amount float64, currencyOverride ...string) string {
	cfg := l.Country()
	code := cfg.Currency.Code
	if len(currencyOverride) > 0 && currencyOverride[0] != "" {
		code = currencyOverride[0]
	}
	return i18n.FormatFor(cfg.Locale).FormatPrice(amount, code)
}

// FormatNumber formats n for the resolved locale.
func (l *Localizer) FormatNumber(n float64) string {
	return l.Format().FormatNumber(n)
}

// FormatDate formats t for the resolved locale.
func (l *Localizer) FormatDate(t time.Time) string {
	return l.Format().FormatDate(t)
}

// FormatRelativeTime describes t relative to now in the resolved language.
func (l *Localizer) FormatRelativeTime(t time.Time) string {
	return l.Format().FormatRelativeTime(t, l.now())
}

// Translator binds svc to the resolved language and locale.
func (l *Localizer) Translator(svc *i18n.I18n, namespace string) *i18n.Translator {
	return i18n.NewTranslator(svc, l.Language(), namespace, l.Format())
}
