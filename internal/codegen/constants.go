// Package codegen generates standalone Go matchers from compiled transition
// tables, plus the naming constants the generated code uses.
package codegen

// Variable names used in generated code
const (
	InputName     = "input"
	RunesName     = "runes"
	OffsetName    = "offset"
	StateName     = "state"
	CellsName     = "cells"
	CommittedName = "committed"
	BestName      = "best"
)

// LowerFirst converts the first character of a string to lowercase.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]|0x20) + s[1:]
}

// UpperFirst converts the first character of a string to uppercase.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]&^0x20) + s[1:]
}
