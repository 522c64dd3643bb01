package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTheme_DefaultsToNightfox(t *testing.T) {
	assert.Equal(t, "Nightfox", GetTheme("").Name)
	assert.Equal(t, "Nightfox", GetTheme("nope").Name)
	assert.Equal(t, "Slate", GetTheme("Slate").Name)
}

func TestNextTheme_Cycles(t *testing.T) {
	names := ThemeNames()
	require.Len(t, names, 3)

	current := names[0]
	for i := 1; i <= len(names); i++ {
		current = NextTheme(current)
		assert.Equal(t, names[i%len(names)], current, "step %d", i)
	}
	assert.Equal(t, names[0], NextTheme("unknown"))
}

func TestStatusColor(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		styles := th.Styles()

		for _, status := range []string{"online", "offline", "stale", "cold", "ok", "hot", "ENCENDIDO"} {
			got := styles.StatusColor(status)
			assert.NotEmpty(t, got, "%s: StatusColor(%q)", name, status)
			assert.Equal(t, th.StatusColors[status], got, "%s: StatusColor(%q)", name, status)
		}
		assert.Equal(t, th.Muted, styles.StatusColor("unknown"), "%s: unknown status falls back to muted", name)
		assert.Equal(t, th.StatusColors["hot"], styles.WithBackground(th.Surface).StatusColor("hot"),
			"%s: WithBackground lost status colors", name)
	}
}

func TestThemes_ShareStatusKeys(t *testing.T) {
	base := GetTheme("Nightfox").StatusColors
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		assert.Len(t, th.StatusColors, len(base), name)
		for status := range base {
			assert.NotEmpty(t, th.StatusColors[status], "%s: %s", name, status)
		}
		assert.Equal(t, th.Success, th.StatusColors["online"], name)
		assert.Equal(t, th.Danger, th.StatusColors["offline"], name)
	}
}
