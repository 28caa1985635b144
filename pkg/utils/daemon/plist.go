package daemon

import (
	"bytes"
	"encoding/xml"
	"strings"
)

const (
	// Label is the launchd job label of the daemon.
	Label = "cc.chlc.battmeter"

	plistPath = "/Library/LaunchDaemons/" + Label + ".plist"
	logPath   = "/tmp/battmeter.log"
)

const plistTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{label}}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{exe}}</string>
		<string>daemon</string>
		<string>--config={{config}}</string>
		<string>--daemon-socket={{socket}}</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
	<key>StandardOutPath</key>
	<string>{{log}}</string>
	<key>StandardErrorPath</key>
	<string>{{log}}</string>
</dict>
</plist>
`

// Plist returns the launchd job that runs exePath as the daemon.
func Plist(exePath, configPath, socketPath string) string {
	return strings.NewReplacer(
		"{{label}}", Label,
		"{{exe}}", escape(exePath),
		"{{config}}", escape(configPath),
		"{{socket}}", escape(socketPath),
		"{{log}}", logPath,
	).Replace(plistTemplate)
}

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
