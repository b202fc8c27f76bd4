// Package cpr decodes and validates Danish-style personal identification
// numbers written as DDMMYY-SSSS.
//
// # Pipeline
//
//	Parse                 text → Record (shape only)
//	IsSyntacticallyValid  field ranges
//	IsChecksumValid       modulus-11 control digit
//	ResolveBirthYear      century band lookup
//	Birthday              calendar date, if any
//	SexOf                 serial parity
//
// # Domain Purity
//
// Everything in this package is a pure function of its inputs: no I/O, no
// context.Context, no time.Now(). Callers that need "today" (AgeAt) pass it in.
//
// # Disclosure
//
// A Record is PII. Every generic rendering (fmt verbs, String, slog, JSON,
// text marshalling) yields the constant Redacted. Digits are only produced by
// the explicitly named Record.Reveal.
package cpr
