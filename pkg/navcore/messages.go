package navcore

import (
	"embed"
	"fmt"
	"io/fs"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/BrandonKowalski/navcore/pkg/navcore/constants"
)

//go:embed locales/*.toml
var localeFS embed.FS

var (
	msgExitTitle       = &i18n.Message{ID: "ExitTitle", Other: "Exit App"}
	msgExitDescription = &i18n.Message{ID: "ExitDescription", Other: "Press back again to exit"}

	tabMessages = map[Section]*i18n.Message{
		SectionHome:         {ID: "TabHome", Other: "Learn"},
		SectionDailyTasks:   {ID: "TabDailyTasks", Other: "Daily"},
		SectionProgress:     {ID: "TabProgress", Other: "Progress"},
		SectionAchievements: {ID: "TabAchievements", Other: "Achievements"},
		SectionStore:        {ID: "TabStore", Other: "Store"},
		SectionSimulator:    {ID: "TabSimulator", Other: "Simulator"},
		SectionEvents:       {ID: "TabEvents", Other: "Events"},
	}
)

var (
	bundleOnce sync.Once
	bundle     *i18n.Bundle
	bundleErr  error
)

func loadBundle() (*i18n.Bundle, error) {
	bundleOnce.Do(func() {
		b := i18n.NewBundle(language.English)
		b.RegisterUnmarshalFunc("toml", toml.Unmarshal)

		files, err := fs.Glob(localeFS, "locales/*.toml")
		if err != nil {
			bundleErr = fmt.Errorf("navcore: list message files: %w", err)
			return
		}
		for _, file := range files {
			if _, err := b.LoadMessageFileFS(localeFS, file); err != nil {
				bundleErr = fmt.Errorf("navcore: load message file %s: %w", file, err)
				return
			}
		}
		bundle = b
	})
	return bundle, bundleErr
}

// Messages resolves user-facing strings for one language.
type Messages struct {
	localizer *i18n.Localizer
	tag       language.Tag
}

// NewMessages returns the messages for the closest supported match of lang,
// a BCP 47 tag such as "es" or "de-AT". Unsupported languages fall back to
// English.
func NewMessages(lang string) (*Messages, error) {
	b, err := loadBundle()
	if err != nil {
		return nil, err
	}

	requested, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("navcore: parse language %q: %w", lang, err)
	}

	supported := b.LanguageTags()
	_, index, _ := language.NewMatcher(supported).Match(requested)
	tag := supported[index]

	return &Messages{
		localizer: i18n.NewLocalizer(b, tag.String()),
		tag:       tag,
	}, nil
}

// DefaultMessages returns the English messages.
func DefaultMessages() *Messages {
	m, err := NewMessages(constants.DefaultLocale)
	if err != nil {
		return &Messages{tag: language.English}
	}
	return m
}

// Language returns the language the messages resolve to.
func (m *Messages) Language() language.Tag {
	return m.tag
}

// ExitWarning returns the title and description of the exit toast.
func (m *Messages) ExitWarning() (title, description string) {
	return m.localize(msgExitTitle), m.localize(msgExitDescription)
}

// TabLabel returns the display label of a section's tab.
func (m *Messages) TabLabel(section Section) string {
	msg, ok := tabMessages[section]
	if !ok {
		return section.String()
	}
	return m.localize(msg)
}

func (m *Messages) localize(msg *i18n.Message) string {
	if m.localizer == nil {
		return msg.Other
	}
	out, err := m.localizer.Localize(&i18n.LocalizeConfig{DefaultMessage: msg})
	if err != nil {
		return msg.Other
	}
	return out
}
