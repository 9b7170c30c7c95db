package main

import (
	"fmt"
	"strings"

	"github.com/eliseohh/geolensbot/internal/render"
	"github.com/eliseohh/geolensbot/internal/vision"
)

func main() {
	// Escape check
	if render.EscapeMarkdownV2("Hello. World!") != `Hello\. World\!` {
		panic("escape broken")
	}
	fmt.Println("✔ MarkdownV2 Escaping OK")

	// GPS verdict with keyboard
	a := &vision.Analysis{
		Message: "Был я там.",
		GPS:     &vision.GPS{Latitude: 55.7558, Longitude: 37.6173},
		Address: "Красная площадь, Москва",
		Promo:   "IGNORED", // GPS wins
	}
	out := render.Verdict(a)
	if !strings.Contains(out, "🌎 `55.7558 37.6173`") || strings.Contains(out, "IGNORED") {
		panic("verdict layout broken")
	}
	fmt.Println("✔ Verdict Layout OK (GPS suppresses promo)")

	kb := render.MapKeyboard(a.GPS.Latitude, a.GPS.Longitude)
	if len(kb.InlineKeyboard) != 1 || len(kb.InlineKeyboard[0]) != 3 {
		panic("keyboard shape broken")
	}
	fmt.Println("✔ Map Keyboard OK (3 links)")
}
