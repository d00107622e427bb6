// Package i18n loads the embedded message catalogues into gotext.
package i18n

import (
	"embed"
	"fmt"
	"path"

	"github.com/leonelquinteros/gotext"
)

// DefaultLanguage is used when no language is requested.
const DefaultLanguage = "en"

const domain = "default"

//go:embed locales
var catalogues embed.FS

// Languages lists the embedded catalogue languages.
func Languages() []string {
	entries, err := catalogues.ReadDir("locales")
	if err != nil {
		return []string{DefaultLanguage}
	}
	langs := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			langs = append(langs, e.Name())
		}
	}
	return langs
}

// Init installs the catalogue for lang as gotext's global storage.
func Init(lang string) error {
	if lang == "" {
		lang = DefaultLanguage
	}
	data, err := catalogues.ReadFile(path.Join("locales", lang, domain+".po"))
	if err != nil {
		return fmt.Errorf("load %s catalogue: %w", lang, err)
	}

	po := gotext.NewPo()
	po.Parse(data)

	locale := gotext.NewLocale("", lang)
	locale.AddTranslator(domain, po)
	gotext.SetStorage(locale)
	return nil
}

// MustInit is Init for the default language, panicking on a broken build.
func MustInit() {
	if err := Init(DefaultLanguage); err != nil {
		panic(err)
	}
}
