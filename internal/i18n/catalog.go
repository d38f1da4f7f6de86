// Package i18n provides the translation catalog for user-facing strings.
//
// Messages live in YAML files named <lang>.yaml and are addressed by dotted
// keys such as "errors.file001.message". English and Spanish are embedded;
// a directory of overrides can add languages or replace single keys.
// Lookups fall back to the default language and finally to the key itself.
package i18n

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/JonMunkholm/kbimport/internal/config"
	"github.com/JonMunkholm/kbimport/internal/core"
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

// Catalog maps language and key to a translated string. It is read-only
// after Load and safe for concurrent use.
type Catalog struct {
	defaultLang string
	messages    map[string]map[string]string
	matcher     language.Matcher
	langs       []string
}

// Load builds a catalog from the embedded locales and cfg.Dir, if set.
func Load(cfg config.I18nConfig) (*Catalog, error) {
	c := &Catalog{
		defaultLang: strings.ToLower(cfg.DefaultLang),
		messages:    make(map[string]map[string]string),
	}
	if c.defaultLang == "" {
		c.defaultLang = "en"
	}

	err := fs.WalkDir(embeddedLocales, "locales", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := embeddedLocales.ReadFile(path)
		if err != nil {
			return err
		}
		return c.merge(langFromPath(path), bytes.NewReader(data))
	})
	if err != nil {
		return nil, fmt.Errorf("load embedded locales: %w", err)
	}

	if cfg.Dir != "" {
		if err := c.loadDir(cfg.Dir); err != nil {
			return nil, err
		}
	}

	if _, ok := c.messages[c.defaultLang]; !ok {
		return nil, fmt.Errorf("default language %q has no catalog", c.defaultLang)
	}

	c.buildMatcher()
	return c, nil
}

func (c *Catalog) loadDir(dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return fmt.Errorf("list locale overrides: %w", err)
	}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open locale %s: %w", path, err)
		}
		err = c.merge(langFromPath(path), f)
		f.Close()
		if err != nil {
			return fmt.Errorf("load locale %s: %w", path, err)
		}
	}
	return nil
}

// merge reads one YAML document into lang, overwriting existing keys.
func (c *Catalog) merge(lang string, r io.Reader) error {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(r); err != nil {
		return err
	}

	msgs, ok := c.messages[lang]
	if !ok {
		msgs = make(map[string]string)
		c.messages[lang] = msgs
	}
	for _, key := range v.AllKeys() {
		msgs[key] = v.GetString(key)
	}
	return nil
}

func (c *Catalog) buildMatcher() {
	c.langs = []string{c.defaultLang}
	for lang := range c.messages {
		if lang != c.defaultLang {
			c.langs = append(c.langs, lang)
		}
	}
	sort.Strings(c.langs[1:])

	tags := make([]language.Tag, len(c.langs))
	for i, lang := range c.langs {
		tags[i] = language.Make(lang)
	}
	c.matcher = language.NewMatcher(tags)
}

// DefaultLang returns the fallback language.
func (c *Catalog) DefaultLang() string { return c.defaultLang }

// Languages returns the available languages, default first.
func (c *Catalog) Languages() []string {
	out := make([]string, len(c.langs))
	copy(out, c.langs)
	return out
}

// Match picks the best available language for an Accept-Language header.
func (c *Catalog) Match(acceptLanguage string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.defaultLang
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return c.defaultLang
	}
	return c.langs[idx]
}

// T returns the translation of key in lang. Extra args are applied with
// fmt.Sprintf. A key missing everywhere is returned as-is.
func (c *Catalog) T(lang, key string, args ...any) string {
	msg, ok := c.lookup(lang, key)
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

func (c *Catalog) lookup(lang, key string) (string, bool) {
	key = strings.ToLower(key)
	if msg, ok := c.messages[strings.ToLower(lang)][key]; ok {
		return msg, true
	}
	msg, ok := c.messages[c.defaultLang][key]
	return msg, ok
}

// UserMessage localizes msg by its code. Fields with no translation keep
// their original text.
func (c *Catalog) UserMessage(lang string, msg core.UserMessage) core.UserMessage {
	if msg.Code == "" {
		return msg
	}
	prefix := "errors." + strings.ToLower(msg.Code) + "."
	if s, ok := c.lookup(lang, prefix+"message"); ok {
		msg.Message = s
	}
	if s, ok := c.lookup(lang, prefix+"action"); ok {
		msg.Action = s
	}
	return msg
}

func langFromPath(path string) string {
	return strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}
