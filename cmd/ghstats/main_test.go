package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghstats/window"
)

func TestSplitOrgs(t *testing.T) {
	testCases := []struct {
		input    string
		expected []string
	}{
		{"", nil},
		{"acme", []string{"acme"}},
		{"acme,initech", []string{"acme", "initech"}},
		{" acme , initech ,", []string{"acme", "initech"}},
		{",,", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, splitOrgs(tc.input))
		})
	}
}

func TestResolveWindowDefaultsToToday(t *testing.T) {
	win, err := resolveWindow(&cliFlags{})
	require.NoError(t, err)

	today := window.DayOf(time.Now())
	assert.Equal(t, today, win.Since)
	assert.Equal(t, today, win.Until)
}

func TestResolveWindowExplicitDates(t *testing.T) {
	win, err := resolveWindow(&cliFlags{since: "2024-03-01", until: "2024-03-07"})
	require.NoError(t, err)

	assert.Equal(t, window.Date(2024, time.March, 1), win.Since)
	assert.Equal(t, window.Date(2024, time.March, 7), win.Until)
}

func TestResolveWindowRangeWinsOverDates(t *testing.T) {
	win, err := resolveWindow(&cliFlags{rangePreset: "yesterday", since: "2024-03-01"})
	require.NoError(t, err)

	yesterday := window.DayOf(time.Now()).AddDate(0, 0, -1)
	assert.Equal(t, yesterday, win.Since)
	assert.Equal(t, yesterday, win.Until)
}

func TestResolveWindowInvalidDate(t *testing.T) {
	_, err := resolveWindow(&cliFlags{since: "not-a-date"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--since")
}

func TestResolveWindowRelativeSince(t *testing.T) {
	win, err := resolveWindow(&cliFlags{since: "today-1week"})
	require.NoError(t, err)

	today := window.DayOf(time.Now())
	assert.Equal(t, today.AddDate(0, 0, -7), win.Since)
	assert.Equal(t, today, win.Until)
}
