// Package device turns request headers into the device metadata recorded on a session.
package device

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mssola/user_agent"

	"github.com/orris-inc/deskhub/internal/domain/user"
	"github.com/orris-inc/deskhub/internal/shared/constants"
)

const unknownDevice = "Unknown Device"

var strict = bluemonday.StrictPolicy()

// Parse extracts browser and OS details from a User-Agent string.
func Parse(userAgent string) user.DeviceInfo {
	if userAgent == "" {
		return user.DeviceInfo{}
	}
	ua := user_agent.New(userAgent)
	name, version := ua.Browser()

	return user.DeviceInfo{
		Browser:        name,
		BrowserVersion: version,
		OS:             ua.OS(),
		Platform:       ua.Platform(),
		Mobile:         ua.Mobile(),
		Bot:            ua.Bot(),
	}
}

// Describe renders a short human readable label such as "Chrome 120.0 on Windows 10".
func Describe(info user.DeviceInfo) string {
	var b strings.Builder
	if info.Browser != "" {
		b.WriteString(info.Browser)
		if info.BrowserVersion != "" {
			b.WriteString(" " + info.BrowserVersion)
		}
	}
	if info.OS != "" {
		if b.Len() > 0 {
			b.WriteString(" on ")
		}
		b.WriteString(info.OS)
	}
	if info.Mobile {
		b.WriteString(" (mobile)")
	}
	if b.Len() == 0 {
		return unknownDevice
	}
	return b.String()
}

// Sanitize strips markup and control characters and truncates to max runes.
// Client headers end up in the session list UI, so nothing renderable is kept.
func Sanitize(value string, max int) string {
	cleaned := strict.Sanitize(value)
	cleaned = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, cleaned)
	cleaned = strings.TrimSpace(cleaned)

	if utf8.RuneCountInString(cleaned) > max {
		runes := []rune(cleaned)
		cleaned = string(runes[:max])
	}
	return cleaned
}

// Metadata builds the session metadata for a sign-in request. When the client sent no
// X-System descriptor, a label derived from the User-Agent is stored instead.
func Metadata(ipAddress, userAgent, systemInfo, fingerprint string) user.DeviceMetadata {
	info := Parse(userAgent)

	system := Sanitize(systemInfo, constants.MaxSystemInfoLength)
	if system == "" {
		system = Describe(info)
	}

	return user.DeviceMetadata{
		IPAddress:   ipAddress,
		SystemInfo:  system,
		Fingerprint: Sanitize(fingerprint, constants.MaxFingerprintLength),
		Device:      info,
	}
}
