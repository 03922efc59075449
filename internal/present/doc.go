// Package present turns raw API values into display strings: relative
// times, compact counts, icon and color lookups, and small markup helpers.
// Every function is pure; callers pass the current time explicitly.
package present
