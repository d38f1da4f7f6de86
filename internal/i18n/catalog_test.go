package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/kbimport/internal/config"
	"github.com/JonMunkholm/kbimport/internal/core"
)

func loadDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load(config.I18nConfig{DefaultLang: "en"})
	require.NoError(t, err)
	return c
}

func TestLoad_EmbeddedLanguages(t *testing.T) {
	c := loadDefault(t)
	assert.Equal(t, []string{"en", "es"}, c.Languages())
	assert.Equal(t, "en", c.DefaultLang())
}

func TestT(t *testing.T) {
	c := loadDefault(t)

	tests := []struct {
		name string
		lang string
		key  string
		want string
	}{
		{"english", "en", "wizard.step.preview", "Preview"},
		{"spanish", "es", "wizard.step.preview", "Vista previa"},
		{"keys are case insensitive", "es", "Errors.FILE005.Message", "El archivo no tiene filas de datos"},
		{"missing in spanish falls back to default", "es", "errors.db002.message", "Unable to connect to the database"},
		{"unknown language falls back to default", "fr", "wizard.step.upload", "Upload"},
		{"unknown key returns key", "en", "wizard.nope", "wizard.nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.T(tt.lang, tt.key))
		})
	}
}

func TestMatch(t *testing.T) {
	c := loadDefault(t)

	tests := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"es-MX,es;q=0.9,en;q=0.8", "es"},
		{"fr-FR,fr;q=0.9", "en"},
		{"en-GB", "en"},
		{"de;q=0.9,es;q=0.5", "es"},
		{";;;not a header", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Match(tt.header))
		})
	}
}

func TestUserMessage(t *testing.T) {
	c := loadDefault(t)

	msg := core.MapError(core.ErrEmptyFile)
	got := c.UserMessage("es", msg)
	assert.Equal(t, "FILE005", got.Code)
	assert.Equal(t, "El archivo no tiene filas de datos", got.Message)
	assert.Equal(t, "Añade al menos una pregunta debajo de la fila de encabezados", got.Action)

	unknown := core.UserMessage{Message: "custom", Action: "do something", Code: "XYZ999"}
	assert.Equal(t, unknown, c.UserMessage("es", unknown))

	assert.Equal(t, core.UserMessage{}, c.UserMessage("es", core.UserMessage{}))
}

// Every code MapError can produce needs an English translation.
func TestUserMessage_AllCodesTranslated(t *testing.T) {
	c := loadDefault(t)
	codes := []string{
		"FILE001", "FILE002", "FILE003", "FILE004", "FILE005", "DUP001",
		"IMP001", "IMP002", "IMP003", "IMP004", "IMP005", "IMP006", "IMP007",
		"DB001", "DB002", "DB003", "DB004", "RATE001", "AUTH001", "ERR000",
	}
	for _, code := range codes {
		key := "errors." + code + ".message"
		assert.NotEqual(t, key, c.T("en", key), "missing translation for %s", code)
	}
}

func TestLoad_OverrideDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.yaml"), []byte("wizard:\n  step:\n    upload: Choose file\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "de.yaml"), []byte("wizard:\n  step:\n    upload: Hochladen\n"), 0o644))

	c, err := Load(config.I18nConfig{DefaultLang: "en", Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, "Choose file", c.T("en", "wizard.step.upload"))
	assert.Equal(t, "Preview", c.T("en", "wizard.step.preview"), "untouched keys survive an override")
	assert.Equal(t, "Hochladen", c.T("de", "wizard.step.upload"))
	assert.Equal(t, "de", c.Match("de-AT"))
}

func TestLoad_UnknownDefaultLang(t *testing.T) {
	_, err := Load(config.I18nConfig{DefaultLang: "xx"})
	assert.Error(t, err)
}
