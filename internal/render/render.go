package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eliseohh/geolensbot/internal/vision"
	tele "gopkg.in/telebot.v3"
)

// Telegram MarkdownV2 special characters. Must stay in sync with the
// Bot API spec or Telegram rejects the message with a 400.
const escapeChars = `_*[]()~` + "`" + `>#+-=|{}.!`

// EscapeMarkdownV2 escapes text for a MarkdownV2 message body.
// Values rendered inside backtick spans are NOT escaped by callers.
func EscapeMarkdownV2(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(escapeChars, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Verdict renders the analysis as the MarkdownV2 reply body.
// Layout: message, error, then either GPS block (coords, address, date)
// or the promo code. GPS wins over promo when both are present.
func Verdict(a *vision.Analysis) string {
	var parts []string

	if a.Message != "" {
		parts = append(parts, "🔮 "+EscapeMarkdownV2(a.Message))
	}
	if a.Error != "" {
		parts = append(parts, "❗️ "+EscapeMarkdownV2(a.Error))
	}

	if a.GPS != nil {
		parts = append(parts, fmt.Sprintf("🌎 `%s %s`",
			formatCoord(a.GPS.Latitude), formatCoord(a.GPS.Longitude)))
		if a.Address != "" {
			parts = append(parts, fmt.Sprintf("🚩 `%s`", a.Address))
		}
		if a.Date != "" {
			parts = append(parts, fmt.Sprintf("📸 `%s`", a.Date))
		}
	} else if a.Promo != "" {
		parts = append(parts, fmt.Sprintf("💰 `%s`", a.Promo))
	}

	return strings.Join(parts, "\n\n")
}

// MapKeyboard builds the inline keyboard with map deep links for the
// given coordinates.
func MapKeyboard(lat, lon float64) *tele.ReplyMarkup {
	la, lo := formatCoord(lat), formatCoord(lon)
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(
		markup.URL("Яндекс", fmt.Sprintf("https://yandex.ru/maps/?rtext=~%s,%s&z=16", la, lo)),
		markup.URL("2Гис", fmt.Sprintf("https://2gis.ru/geo/%s,%s", lo, la)),
		markup.URL("Google", fmt.Sprintf("https://www.google.com/maps?q=%s,%s&z=16", la, lo)),
	))
	return markup
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
