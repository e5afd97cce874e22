// Package localization exposes the resolved country of a consumer together
// with formatters that follow its locale and currency.
//
//	loc := localization.New(resolver, localization.WithLanguageHook(setLanguage))
//	loc.Start(ctx)            // stored or default result, detection continues in background
//	loc.FormatPrice(49.99)    // "49,99 €" once Germany is resolved
//	loc.SetCountry(ctx, "JP") // user choice wins over running detections
package localization
