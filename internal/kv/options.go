package kv

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Defaulter is implemented by option structs that fill their own zero values.
type Defaulter interface {
	ApplyDefaults()
}

// DecodeOptions decodes a driver option map into dst and applies defaults.
// String durations ("5s") are accepted for time.Duration fields.
func DecodeOptions(input map[string]any, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("decode driver options: %w", err)
	}
	if d, ok := dst.(Defaulter); ok {
		d.ApplyDefaults()
	}
	return nil
}
