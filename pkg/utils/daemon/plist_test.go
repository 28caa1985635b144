package daemon

import (
	"strings"
	"testing"
)

func TestPlist(t *testing.T) {
	p := Plist("/opt/battmeter & co/battmeter", "/etc/battmeter.json", "/var/run/battmeter.sock")

	for _, want := range []string{
		"<string>" + Label + "</string>",
		"<string>/opt/battmeter &amp; co/battmeter</string>",
		"<string>--config=/etc/battmeter.json</string>",
		"<string>--daemon-socket=/var/run/battmeter.sock</string>",
		"<string>daemon</string>",
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("plist does not contain %q:\n%s", want, p)
		}
	}
	if strings.Contains(p, "{{") {
		t.Fatalf("plist has unreplaced placeholders:\n%s", p)
	}
}
