// Package constants centralizes the defaults shared across the bot.
//
// Lookup timeouts, screenshot sizing, and the "N/A" placeholder live here so
// cmd/ and internal/ reference the same values without import cycles. Each
// value can be overridden through configuration; these are only the fallbacks.
package constants
