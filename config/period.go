package config

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxPeriod is the name of the longest chart period.
const MaxPeriod = "max"

// PeriodInfo represents a parsed chart period
type PeriodInfo struct {
	Days     int    `json:"days"`
	Original string `json:"period"`
	Unit     string `json:"-"`
}

var namedPeriods = []PeriodInfo{
	{Days: 1, Original: "1d", Unit: "d"},
	{Days: 3, Original: "3d", Unit: "d"},
	{Days: 7, Original: "1w", Unit: "w"},
	{Days: 30, Original: "1m", Unit: "m"},
	{Days: 180, Original: "6m", Unit: "m"},
	{Days: 365, Original: "1y", Unit: "y"},
	{Days: 1825, Original: MaxPeriod, Unit: ""},
}

var unitDays = map[string]int{
	"d": 1,
	"w": 7,
	"m": 30,
	"y": 365,
}

// Periods returns the chart periods offered to the page, shortest first.
func Periods() []PeriodInfo {
	out := make([]PeriodInfo, len(namedPeriods))
	copy(out, namedPeriods)
	return out
}

// ParsePeriod parses a period string like "1w" or "6m" and returns days
func ParsePeriod(periodStr string) (int, error) {
	info, err := GetPeriodInfo(periodStr)
	if err != nil {
		return 0, err
	}
	return info.Days, nil
}

// GetPeriodInfo parses a period string and returns PeriodInfo
func GetPeriodInfo(periodStr string) (*PeriodInfo, error) {
	periodStr = strings.ToLower(strings.TrimSpace(periodStr))
	for _, p := range namedPeriods {
		if p.Original == periodStr {
			info := p
			return &info, nil
		}
	}

	if len(periodStr) < 2 {
		return nil, fmt.Errorf("invalid period format: %s", periodStr)
	}

	unit := periodStr[len(periodStr)-1:]
	valueStr := periodStr[:len(periodStr)-1]

	value, err := strconv.Atoi(valueStr)
	if err != nil || value <= 0 {
		return nil, fmt.Errorf("invalid period value: %s", periodStr)
	}

	mult, ok := unitDays[unit]
	if !ok {
		return nil, fmt.Errorf("unsupported period unit: %s", unit)
	}

	return &PeriodInfo{
		Days:     value * mult,
		Original: periodStr,
		Unit:     unit,
	}, nil
}
