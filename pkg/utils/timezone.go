package utils

import (
	"fmt"
	"strings"
	"time"
)

// timezoneAbbreviations maps common abbreviations to IANA identifiers.
var timezoneAbbreviations = map[string]string{
	"UTC":  "UTC",
	"GMT":  "Europe/London",
	"IST":  "Asia/Kolkata",
	"EST":  "America/New_York",
	"CST":  "America/Chicago",
	"MST":  "America/Denver",
	"PST":  "America/Los_Angeles",
	"CET":  "Europe/Berlin",
	"EET":  "Europe/Athens",
	"JST":  "Asia/Tokyo",
	"SGT":  "Asia/Singapore",
	"GST":  "Asia/Dubai",
	"AEST": "Australia/Sydney",
}

// ResolveTimezone converts an abbreviation to its IANA identifier or returns the input unchanged.
func ResolveTimezone(timezone string) string {
	if iana, ok := timezoneAbbreviations[strings.ToUpper(strings.TrimSpace(timezone))]; ok {
		return iana
	}
	return strings.TrimSpace(timezone)
}

// LoadTimezone resolves and loads a location. An empty name means UTC.
func LoadTimezone(timezone string) (*time.Location, error) {
	if strings.TrimSpace(timezone) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(ResolveTimezone(timezone))
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}
