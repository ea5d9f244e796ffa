package lang

import "testing"

func TestDetectEnglish(t *testing.T) {
	sample := "Hey, are you coming to the party tonight? " +
		"I was thinking we could meet at the train station around eight. " +
		"Let me know if that works for you, otherwise we can figure something else out."
	if got := Detect(sample, "en"); got != "en" {
		t.Errorf("Detect() = %q, want en", got)
	}
}

func TestDetectGerman(t *testing.T) {
	sample := "Kommst du heute Abend zur Feier? " +
		"Ich dachte, wir könnten uns gegen acht am Bahnhof treffen. " +
		"Sag mir einfach Bescheid, ob dir das passt, ansonsten überlegen wir uns etwas anderes."
	if got := Detect(sample, "en"); got != "de" {
		t.Errorf("Detect() = %q, want de", got)
	}
}

func TestDetectFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		sample   string
		fallback string
		want     string
	}{
		{"empty sample", "", "de", "de"},
		{"whitespace only", "   \n ", "en", "en"},
		{"emoji only", "😀😀👍🎉", "en", "en"},
		{"unsupported fallback normalized", "", "xx", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.sample, tt.fallback); got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSupported(t *testing.T) {
	for _, code := range []string{"en", "de", "es", "fr"} {
		if !Supported(code) {
			t.Errorf("Supported(%q) = false, want true", code)
		}
	}
	if Supported("ru") {
		t.Error("Supported(ru) = true, want false")
	}
}
