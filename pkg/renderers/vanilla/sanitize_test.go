package vanilla

import (
	"strings"
	"testing"
)

func TestSanitizeIcon(t *testing.T) {
	raw := `<svg viewBox="0 0 24 24" onload="alert(1)"><script>alert(2)</script><path d="M2 22h20" stroke="currentColor"/></svg>`
	got := sanitizeIcon(raw)
	for _, banned := range []string{"onload", "script", "alert"} {
		if strings.Contains(got, banned) {
			t.Fatalf("icon kept %q: %s", banned, got)
		}
	}
	// The sanitizer lowercases attribute names; HTML parsing restores the
	// SVG casing of viewBox.
	if !strings.Contains(got, `d="M2 22h20"`) || !strings.Contains(strings.ToLower(got), `viewbox="0 0 24 24"`) {
		t.Fatalf("icon lost drawing attributes: %s", got)
	}
	if sanitizeIcon("   ") != "" {
		t.Fatalf("blank icon should stay blank")
	}
}

func TestSanitizeText(t *testing.T) {
	got := sanitizeText(`Carry <strong>cash</strong>? <img src=x onerror=alert(1)><a href="https://example.gov/rules">rules</a>`)
	if strings.Contains(got, "<img") || strings.Contains(got, "onerror") {
		t.Fatalf("unsafe markup kept: %s", got)
	}
	if !strings.Contains(got, "<strong>cash</strong>") {
		t.Fatalf("emphasis dropped: %s", got)
	}
	if !strings.Contains(got, `href="https://example.gov/rules"`) || !strings.Contains(got, "nofollow") {
		t.Fatalf("link not normalised: %s", got)
	}
}
