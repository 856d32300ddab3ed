package navcore

// TabConfig describes one entry of the bottom navigation bar.
type TabConfig struct {
	Section      Section // Destination of the tab
	Label        string  // Localized display label
	RequiresAuth bool    // Passed through to presentation code untouched
	Hidden       bool    // Tab exists but is not shown in the bar
	Badge        string  // Optional badge text, empty for none
}

// DefaultTabs returns the standard tab bar with labels from m.
func DefaultTabs(m *Messages) []TabConfig {
	if m == nil {
		m = DefaultMessages()
	}
	return []TabConfig{
		{Section: SectionHome, Label: m.TabLabel(SectionHome)},
		{Section: SectionDailyTasks, Label: m.TabLabel(SectionDailyTasks)},
		{Section: SectionProgress, Label: m.TabLabel(SectionProgress), RequiresAuth: true},
		{Section: SectionSimulator, Label: m.TabLabel(SectionSimulator)},
		{Section: SectionStore, Label: m.TabLabel(SectionStore)},
		{Section: SectionAchievements, Label: m.TabLabel(SectionAchievements), Hidden: true},
		{Section: SectionEvents, Label: m.TabLabel(SectionEvents), Hidden: true},
	}
}

// VisibleTabs filters out hidden tabs, keeping order.
func VisibleTabs(tabs []TabConfig) []TabConfig {
	out := make([]TabConfig, 0, len(tabs))
	for _, t := range tabs {
		if !t.Hidden {
			out = append(out, t)
		}
	}
	return out
}
