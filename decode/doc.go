// Package decode turns structured raw values into typed structs with
// mapstructure. It plugs into lookup through Into, which returns a
// lookup.Converter, and can be used on its own through Build.
//
// Option catalog:
//   - Defaults: WithDefaults, WithDefaultFunc.
//   - Decoder behavior: WithDecoder, WithDecodeHooks, WithStrictKeys, WithWeakTyping,
//     WithTagName, WithoutDefaultHooks/WithDefaultHooks.
//   - Validation: WithValidator, WithValidatorFunc.
//   - Diagnostics: WithOptionError.
//
// Default hooks (DefaultHooks): DurationHook, InvariantTimeHook, FlexibleBoolHook
// and TextUnmarshalerHook.
package decode
