package wordlist

import "testing"

func TestFilterEnglishASCII(t *testing.T) {
	filter := FilterForLang("en")
	if !filter("hello") {
		t.Fatalf("expected hello to pass english filter")
	}
	for _, word := range []string{"résumé", "naïve", "don’t", "co-op", ""} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestValidWord(t *testing.T) {
	filter := FilterForLang("es")
	if !filter("canción") {
		t.Fatalf("expected accented word to pass default filter")
	}
	for _, word := range []string{"", "two words", "tab\there", "line\n"} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}
