package stdlib

import (
	"time"

	"github.com/appellation/rhai/rhai"
)

// RegisterTime wires duration/date construction as ordinary native
// functions over Variant-boxed time.Time/time.Duration, per SPEC_FULL.md §6
// point 3: the teacher's dedicated Date/DateTime/Duration value kinds and
// duration-suffixed literal syntax (`1.days`) are genomic-table-specific
// surface the distilled grammar never grew, so this bundle recovers the
// original crate's duration/date constructors as plain functions operating
// on the closed Value set's Variant case instead of adding new ValueTypes.
func RegisterTime(e *rhai.Engine) {
	rhai.RegisterFn0(e, "now", func() rhai.Value { return rhai.NewVariant(time.Now()) })

	rhai.RegisterFn1(e, "seconds", func(n int64) rhai.Value { return rhai.NewVariant(time.Duration(n) * time.Second) })
	rhai.RegisterFn1(e, "millis", func(n int64) rhai.Value { return rhai.NewVariant(time.Duration(n) * time.Millisecond) })
	rhai.RegisterFn1(e, "minutes", func(n int64) rhai.Value { return rhai.NewVariant(time.Duration(n) * time.Minute) })
	rhai.RegisterFn1(e, "hours", func(n int64) rhai.Value { return rhai.NewVariant(time.Duration(n) * time.Hour) })
	rhai.RegisterFn1(e, "days", func(n int64) rhai.Value { return rhai.NewVariant(time.Duration(n) * 24 * time.Hour) })

	rhai.RegisterRawFn(e, "elapsed", 1, func(args []rhai.Value) (rhai.Value, error) {
		t, ok := asTime(args[0])
		if !ok {
			return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorArithmetic, Msg: "elapsed() expects a timestamp"}
		}
		return rhai.NewVariant(time.Since(t)), nil
	})

	rhai.RegisterRawFn(e, "duration_secs", 1, func(args []rhai.Value) (rhai.Value, error) {
		d, ok := asDuration(args[0])
		if !ok {
			return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorArithmetic, Msg: "duration_secs() expects a duration"}
		}
		return rhai.NewFloat(d.Seconds()), nil
	})

	rhai.RegisterRawFn(e, "add_duration", 2, func(args []rhai.Value) (rhai.Value, error) {
		t, tok := asTime(args[0])
		d, dok := asDuration(args[1])
		if !tok || !dok {
			return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorArithmetic, Msg: "add_duration() expects (timestamp, duration)"}
		}
		return rhai.NewVariant(t.Add(d)), nil
	})

	rhai.RegisterRawFn(e, "to_unix", 1, func(args []rhai.Value) (rhai.Value, error) {
		t, ok := asTime(args[0])
		if !ok {
			return rhai.Value{}, &rhai.EngineError{Kind: rhai.ErrorArithmetic, Msg: "to_unix() expects a timestamp"}
		}
		return rhai.NewInt(t.Unix()), nil
	})
}

func asTime(v rhai.Value) (time.Time, bool) {
	if v.Type() != rhai.VariantType {
		return time.Time{}, false
	}
	t, ok := v.Variant().(time.Time)
	return t, ok
}

func asDuration(v rhai.Value) (time.Duration, bool) {
	if v.Type() != rhai.VariantType {
		return 0, false
	}
	d, ok := v.Variant().(time.Duration)
	return d, ok
}
