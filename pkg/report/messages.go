package report

import (
	"fmt"

	"github.com/iwvelando/capital-shares/pkg/constants"
	"github.com/iwvelando/capital-shares/pkg/shares"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Language selects the text of section headings and placeholder names.
type Language string

const (
	English Language = constants.LanguageEnglish
	Russian Language = constants.LanguageRussian
)

// Message keys. The English text doubles as the key.
const (
	MsgApartmentCost     = "Apartment cost: %s"
	MsgSubsidyAmount     = "Maternal capital used: %s"
	MsgSubsidyShare      = "Maternal capital share of the apartment: %s"
	MsgOwnFundsShare     = "Own funds share of the apartment: %s"
	MsgExcludingSection  = "• Shares excluding maternal capital •"
	MsgIncludingSection  = "• Shares including maternal capital •"
	MsgOwnerLine         = "%s: %s"
	MsgChartTitle        = "Share distribution (%%)"
	MsgParentPlaceholder = "Parent %d"
	MsgChildPlaceholder  = "Child %d"
)

var russian = map[string]string{
	MsgApartmentCost:     "Стоимость квартиры: %s",
	MsgSubsidyAmount:     "Использованный материнский капитал: %s",
	MsgSubsidyShare:      "Доля мат. капитала в жилом помещении: %s",
	MsgOwnFundsShare:     "Доля собственных средств в жилом помещении: %s",
	MsgExcludingSection:  "• Доли без учета мат. капитала •",
	MsgIncludingSection:  "• Доли с учетом мат. капитала •",
	MsgChartTitle:        "Распределение долей (%%)",
	MsgParentPlaceholder: "Родитель %d",
	MsgChildPlaceholder:  "Ребенок %d",
}

func init() {
	for key, msg := range russian {
		if err := message.SetString(language.Russian, key, msg); err != nil {
			panic(fmt.Sprintf("failed to register message %q: %v", key, err))
		}
	}
}

// ParseLanguage maps a configuration value onto a Language. An empty
// value selects English.
func ParseLanguage(value string) (Language, error) {
	switch Language(value) {
	case "", English:
		return English, nil
	case Russian:
		return Russian, nil
	default:
		return English, fmt.Errorf("unsupported report language %q, expected %s or %s", value, English, Russian)
	}
}

// Tag returns the language tag used by the message printer.
func (l Language) Tag() language.Tag {
	if l == Russian {
		return language.Russian
	}
	return language.English
}

// Printer returns a message printer for l.
func (l Language) Printer() *message.Printer {
	return message.NewPrinter(l.Tag())
}

// Placeholder labels unnamed participants in l.
func (l Language) Placeholder() shares.Placeholder {
	p := l.Printer()
	return func(role shares.Role, position int) string {
		if role == shares.RoleChild {
			return p.Sprintf(MsgChildPlaceholder, position)
		}
		return p.Sprintf(MsgParentPlaceholder, position)
	}
}
