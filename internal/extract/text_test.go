package extract

import (
	"strings"
	"testing"
)

func TestVisibleText_SkipsNonContent(t *testing.T) {
	html := `<!DOCTYPE html>
	<html>
	<head><title>ignored</title><style>.x{color:red}</style></head>
	<body>
		<nav>Home | Politics | Sports</nav>
		<script>var tracking = true;</script>
		<article>
			<h1>Budget 2024</h1>
			<p>The finance minister presented the   budget on 1 February.</p>
			<!-- ad slot -->
			<p>Fiscal deficit is targeted at 5.1% of GDP.</p>
		</article>
		<footer>Copyright</footer>
	</body>
	</html>`

	text := VisibleText(html)

	for _, want := range []string{"Budget 2024", "presented the budget on 1 February.", "5.1% of GDP"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in %q", want, text)
		}
	}
	for _, unwanted := range []string{"tracking", "color:red", "Politics", "Copyright", "ad slot", "ignored"} {
		if strings.Contains(text, unwanted) {
			t.Errorf("Did not expect %q in %q", unwanted, text)
		}
	}

	lines := strings.Split(text, "\n")
	if len(lines) != 3 {
		t.Errorf("Expected 3 lines of text, got %d: %q", len(lines), lines)
	}
}

func TestVisibleText_PlainText(t *testing.T) {
	got := VisibleText("  The claim is   simple.\n\n\nSecond   line. ")
	if got != "The claim is simple.\nSecond line." {
		t.Errorf("Unexpected text: %q", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("héllo", 2); got != "hé" {
		t.Errorf("Expected hé, got %q", got)
	}
	if got := truncateRunes("short", 10); got != "short" {
		t.Errorf("Expected unchanged, got %q", got)
	}
	if got := truncateRunes("abc", 0); got != "abc" {
		t.Errorf("Expected no cap for 0, got %q", got)
	}
}
