package session

import (
	"strconv"

	internal "github.com/inkwell-dev/inkchat/inkchat"
	"github.com/inkwell-dev/inkchat/inkchat/codec"
	"github.com/inkwell-dev/inkchat/inkchat/config"
	"github.com/inkwell-dev/inkchat/inkchat/document"
)

// EffectiveConfig is the resolved parameter set for one request. It is a
// pure value recomputed per invocation.
type EffectiveConfig struct {
	Model            string
	MaxTokens        int
	Temperature      float64
	TopP             float64
	System           string
	FrequencyPenalty float64
	PresencePenalty  float64
	N                int
	Store            bool
	VectorStore      string
}

// Resolver computes effective request parameters by layering document
// metadata over stored settings over compiled defaults, field by field.
// Every field resolved below the metadata tier is written back into the
// block so the configuration is self-documenting on the next invocation.
type Resolver struct {
	settings config.Settings
	mutator  *Mutator
}

// NewResolver creates a resolver over an immutable settings snapshot.
func NewResolver(settings config.Settings, mutator *Mutator) *Resolver {
	return &Resolver{settings: settings, mutator: mutator}
}

// fieldSpec describes one configuration field's fallback chain. fromMeta
// reads the metadata value through the codec's scalar decoding, normalized
// back to plain text; stored is nil for fields with no stored-settings tier.
type fieldSpec struct {
	key      string
	fromMeta func(meta *codec.Metadata) (string, bool)
	stored   func() string
	def      string
	assign   func(cfg *EffectiveConfig, raw string)
}

func metaString(key string) func(*codec.Metadata) (string, bool) {
	return func(m *codec.Metadata) (string, bool) { return m.String(key) }
}

func metaInt(key string) func(*codec.Metadata) (string, bool) {
	return func(m *codec.Metadata) (string, bool) {
		v, ok := m.Int(key)
		if !ok {
			return "", false
		}
		return strconv.Itoa(v), true
	}
}

func metaFloat(key string) func(*codec.Metadata) (string, bool) {
	return func(m *codec.Metadata) (string, bool) {
		v, ok := m.Float(key)
		if !ok {
			return "", false
		}
		return formatFloat(v), true
	}
}

func metaBool(key string) func(*codec.Metadata) (string, bool) {
	return func(m *codec.Metadata) (string, bool) {
		v, ok := m.Bool(key)
		if !ok {
			return "", false
		}
		return strconv.FormatBool(v), true
	}
}

func (r *Resolver) fields() []fieldSpec {
	return []fieldSpec{
		{
			key:      codec.KeyModel,
			fromMeta: metaString(codec.KeyModel),
			stored:   func() string { return r.settings.Model },
			def:      internal.DefaultModel,
			assign:   func(cfg *EffectiveConfig, raw string) { cfg.Model = raw },
		},
		{
			key:      codec.KeyMaxTokens,
			fromMeta: metaInt(codec.KeyMaxTokens),
			stored:   func() string { return strconv.Itoa(r.settings.MaxTokens) },
			def:      strconv.Itoa(internal.DefaultMaxTokens),
			assign:   func(cfg *EffectiveConfig, raw string) { cfg.MaxTokens = parseInt(raw, internal.DefaultMaxTokens) },
		},
		{
			key:      codec.KeyTemperature,
			fromMeta: metaFloat(codec.KeyTemperature),
			stored:   func() string { return formatFloat(r.settings.Temperature) },
			def:      formatFloat(internal.DefaultTemperature),
			assign:   func(cfg *EffectiveConfig, raw string) { cfg.Temperature = parseFloat(raw, internal.DefaultTemperature) },
		},
		{
			key:      codec.KeyTopP,
			fromMeta: metaFloat(codec.KeyTopP),
			stored:   func() string { return formatFloat(r.settings.TopP) },
			def:      formatFloat(internal.DefaultTopP),
			assign:   func(cfg *EffectiveConfig, raw string) { cfg.TopP = parseFloat(raw, internal.DefaultTopP) },
		},
		{
			key:      codec.KeySystem,
			fromMeta: metaString(codec.KeySystem),
			stored:   func() string { return r.settings.SystemMessage },
			def:      internal.DefaultSystemMessage,
			assign:   func(cfg *EffectiveConfig, raw string) { cfg.System = raw },
		},
		{
			key:      codec.KeyFrequencyPenalty,
			fromMeta: metaFloat(codec.KeyFrequencyPenalty),
			def:      formatFloat(internal.DefaultFrequencyPenalty),
			assign: func(cfg *EffectiveConfig, raw string) {
				cfg.FrequencyPenalty = parseFloat(raw, internal.DefaultFrequencyPenalty)
			},
		},
		{
			key:      codec.KeyPresencePenalty,
			fromMeta: metaFloat(codec.KeyPresencePenalty),
			def:      formatFloat(internal.DefaultPresencePenalty),
			assign: func(cfg *EffectiveConfig, raw string) {
				cfg.PresencePenalty = parseFloat(raw, internal.DefaultPresencePenalty)
			},
		},
		{
			key:      codec.KeyChoiceCount,
			fromMeta: metaInt(codec.KeyChoiceCount),
			def:      strconv.Itoa(internal.DefaultChoiceCount),
			assign:   func(cfg *EffectiveConfig, raw string) { cfg.N = parseInt(raw, internal.DefaultChoiceCount) },
		},
		{
			key:      codec.KeyStore,
			fromMeta: metaBool(codec.KeyStore),
			def:      strconv.FormatBool(internal.DefaultStore),
			assign:   func(cfg *EffectiveConfig, raw string) { cfg.Store = parseBool(raw, internal.DefaultStore) },
		},
		{
			key:      codec.KeyVectorStore,
			fromMeta: metaString(codec.KeyVectorStore),
			def:      internal.DefaultVectorStore,
			assign:   func(cfg *EffectiveConfig, raw string) { cfg.VectorStore = raw },
		},
	}
}

// Resolve computes the effective configuration for ed and persists any
// value the metadata block did not already carry. Existing metadata values
// are never overwritten, even when their scalar text does not decode as the
// field's type; such values only fall back in the in-memory config.
func (r *Resolver) Resolve(ed document.Editor) (*EffectiveConfig, error) {
	if ed == nil {
		return nil, ErrNoActiveDocument
	}
	meta, _ := codec.ParseMetadata(ed.Value())

	cfg := &EffectiveConfig{}
	for _, f := range r.fields() {
		raw, ok := f.fromMeta(meta)
		if !ok {
			if f.stored != nil {
				raw = f.stored()
			} else {
				raw = f.def
			}
			if !meta.Has(f.key) {
				r.mutator.UpsertMetadata(ed, f.key, raw)
			}
		}
		f.assign(cfg, raw)
	}
	return cfg, nil
}

func parseInt(raw string, def int) int {
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	return def
}

func parseFloat(raw string, def float64) float64 {
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	return def
}

func parseBool(raw string, def bool) bool {
	if v, err := strconv.ParseBool(raw); err == nil {
		return v
	}
	return def
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
