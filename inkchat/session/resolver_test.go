package session

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal "github.com/inkwell-dev/inkchat/inkchat"
	"github.com/inkwell-dev/inkchat/inkchat/codec"
	"github.com/inkwell-dev/inkchat/inkchat/config"
	"github.com/inkwell-dev/inkchat/inkchat/document"
)

func testSettings() config.Settings {
	return config.Settings{
		Model:               "stored-model",
		MaxTokens:           512,
		Temperature:         0.3,
		TopP:                0.8,
		SystemMessage:       "stored system",
		MaxPreviousMessages: 5,
		PromptDelimiter:     "//",
	}
}

func fixedClock() time.Time {
	return time.Date(2025, 3, 14, 9, 26, 0, 0, time.Local)
}

func newResolver(settings config.Settings) *Resolver {
	return NewResolver(settings, NewMutator(fixedClock))
}

func TestResolveNoActiveDocument(t *testing.T) {
	r := newResolver(testSettings())
	cfg, err := r.Resolve(nil)
	assert.ErrorIs(t, err, ErrNoActiveDocument)
	assert.Nil(t, cfg)
}

func TestResolvePrecedence(t *testing.T) {
	doc := "---\nmodel: doc-model\ntemperature: 0.9\n---\nbody\n"
	ed := document.NewBuffer("test.md", doc)
	r := newResolver(testSettings())

	cfg, err := r.Resolve(ed)
	require.NoError(t, err)

	// Metadata beats stored settings.
	assert.Equal(t, "doc-model", cfg.Model)
	assert.Equal(t, 0.9, cfg.Temperature)
	// Stored settings beat compiled defaults.
	assert.Equal(t, 512, cfg.MaxTokens)
	assert.Equal(t, "stored system", cfg.System)
	// Fields without a stored tier fall through to compiled defaults.
	assert.Equal(t, internal.DefaultFrequencyPenalty, cfg.FrequencyPenalty)
	assert.Equal(t, internal.DefaultChoiceCount, cfg.N)
	assert.Equal(t, internal.DefaultStore, cfg.Store)
}

func TestResolveWritesBackFallbackValues(t *testing.T) {
	ed := document.NewBuffer("test.md", "plain document\n")
	r := newResolver(testSettings())

	_, err := r.Resolve(ed)
	require.NoError(t, err)

	meta, ok := codec.ParseMetadata(ed.Value())
	require.True(t, ok, "resolution creates the metadata block")
	for _, key := range []string{
		codec.KeyModel, codec.KeyMaxTokens, codec.KeyTemperature, codec.KeyTopP,
		codec.KeySystem, codec.KeyFrequencyPenalty, codec.KeyPresencePenalty,
		codec.KeyChoiceCount, codec.KeyStore, codec.KeyVectorStore,
	} {
		assert.True(t, meta.Has(key), "key %s written back", key)
	}
	model, _ := meta.String(codec.KeyModel)
	assert.Equal(t, "stored-model", model)
	// The body is untouched below the block.
	assert.True(t, strings.HasSuffix(ed.Value(), "plain document\n"))
}

func TestResolveNeverOverwritesMetadata(t *testing.T) {
	doc := "---\nmodel: keep-me\n---\n"
	ed := document.NewBuffer("test.md", doc)
	r := newResolver(testSettings())

	_, err := r.Resolve(ed)
	require.NoError(t, err)

	meta, _ := codec.ParseMetadata(ed.Value())
	model, _ := meta.String(codec.KeyModel)
	assert.Equal(t, "keep-me", model)
}

func TestResolveIdempotent(t *testing.T) {
	ed := document.NewBuffer("test.md", "body\n")
	r := newResolver(testSettings())

	first, err := r.Resolve(ed)
	require.NoError(t, err)
	afterFirst := ed.Value()

	second, err := r.Resolve(ed)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, afterFirst, ed.Value(), "second resolution performs no writes")
}

func TestResolveDecodesYAMLScalars(t *testing.T) {
	doc := "---\nsystem: \"You are: terse\"\nstore: yes\ntemperature: 0.5\n---\n"
	ed := document.NewBuffer("test.md", doc)

	cfg, err := newResolver(testSettings()).Resolve(ed)
	require.NoError(t, err)

	// Quoting is unwrapped before the value reaches the provider.
	assert.Equal(t, "You are: terse", cfg.System)
	// YAML boolean spellings beyond true/false are honored.
	assert.True(t, cfg.Store)
	assert.Equal(t, 0.5, cfg.Temperature)
}

func TestResolveUndecodableValueFallsBackWithoutOverwrite(t *testing.T) {
	doc := "---\ntemperature: warm\n---\n"
	ed := document.NewBuffer("test.md", doc)

	cfg, err := newResolver(testSettings()).Resolve(ed)
	require.NoError(t, err)

	// The stored setting applies for this request only.
	assert.Equal(t, 0.3, cfg.Temperature)
	// The user's text is left in the document untouched.
	meta, ok := codec.ParseMetadata(ed.Value())
	require.True(t, ok)
	raw, _ := meta.Get(codec.KeyTemperature)
	assert.Equal(t, "warm", raw)
}

func TestResolveMalformedMetadataTreatedAsAbsent(t *testing.T) {
	ed := document.NewBuffer("test.md", "---\nmodel: x\n") // unclosed fence
	r := newResolver(testSettings())

	cfg, err := r.Resolve(ed)
	require.NoError(t, err)
	assert.Equal(t, "stored-model", cfg.Model)
}
