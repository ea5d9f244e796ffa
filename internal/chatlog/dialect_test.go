package chatlog

import "testing"

func TestDetectDialect(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  Dialect
	}{
		{
			"ios",
			[]string{"[12.05.21, 12:34:56] John: hi", "[12.05.21, 12:35:01] Jane: hello"},
			DialectIOS,
		},
		{
			"ios alternate",
			[]string{"[12.05.21 12:34] John: hi", "[12.05.21 12:35:01] Jane: hello"},
			DialectIOSAlt,
		},
		{
			"android",
			[]string{"12.05.21, 12:34 - John: hi", "12.05.21, 12:35 - Jane: hello"},
			DialectAndroid,
		},
		{
			"legacy slash dates",
			[]string{"12/05/21, 12:34 - John: hi"},
			DialectLegacy,
		},
		{
			"majority wins over noise",
			[]string{
				"random preamble",
				"12.05.21, 12:34 - John: hi",
				"12.05.21, 12:35 - Jane: hello",
				"[12.05.21, 12:36:00] Stray: one ios line",
			},
			DialectAndroid,
		},
		{
			"no matches falls back to ios",
			[]string{"not a chat line", "still not one"},
			DialectIOS,
		},
		{
			"directional marks stripped before matching",
			[]string{"\u200E[12.05.21, 12:34:56] John: hi"},
			DialectIOS,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDialect(tt.lines); got != tt.want {
				t.Errorf("DetectDialect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectDialectSampleBound(t *testing.T) {
	// 100 android lines followed by 200 ios lines: only the prefix counts.
	var lines []string
	for i := 0; i < 100; i++ {
		lines = append(lines, "12.05.21, 12:34 - John: hi")
	}
	for i := 0; i < 200; i++ {
		lines = append(lines, "[12.05.21, 12:34:56] John: hi")
	}
	if got := DetectDialect(lines); got != DialectAndroid {
		t.Errorf("DetectDialect() = %q, want %q (sample bounded to first 100 lines)", got, DialectAndroid)
	}
}

func TestDialectFamily(t *testing.T) {
	tests := []struct {
		d    Dialect
		want string
	}{
		{DialectIOS, "ios"},
		{DialectIOSAlt, "ios"},
		{DialectAndroid, "android"},
		{DialectLegacy, "android"},
	}
	for _, tt := range tests {
		if got := tt.d.Family(); got != tt.want {
			t.Errorf("%q.Family() = %q, want %q", tt.d, got, tt.want)
		}
	}
}
