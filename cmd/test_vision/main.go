package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/eliseohh/geolensbot/internal/vision"
)

func main() {
	// Mock Gemini Server
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"candidates":[{"content":{"parts":[{"text":"{\"gps\":{\"latitude\":55.7558,\"longitude\":37.6173},\"address\":\"Красная площадь, Москва\",\"message\":\"Mock verdict\"}"}]}}]}`)
	}))
	defer ts.Close()

	client := vision.NewClient(ts.URL, "test-key", "test-model", 0)

	a, err := client.Analyze(context.Background(), []byte("fake-image"), "image/jpeg")
	if err != nil {
		panic(err)
	}
	if a.GPS == nil || a.GPS.Latitude != 55.7558 {
		panic("unexpected verdict")
	}
	fmt.Println("✔ Analyze OK (GPS verdict parsed)")

	if a.Kind() != "gps" {
		panic("unexpected kind")
	}
	fmt.Println("✔ Kind classification OK")
}
