// Package safety classifies shell commands against a fixed set of
// destructive-command patterns. The classifier is a seatbelt against
// accidents and model hallucinations, not a security boundary: it is
// consulted unconditionally before any command is spawned, in every
// permission mode, and there is no code path around it.
package safety

import (
	"regexp"
	"strings"
)

// Classification is the verdict for a single command.
type Classification struct {
	Blocked bool
	Reason  string
}

// rule pairs a compiled pattern with the explanation surfaced to the user
// and the model when the pattern matches.
type rule struct {
	pattern *regexp.Regexp
	reason  string
}

// rules is the fixed, non-configurable blocklist. Matching is biased
// toward false positives: a blocked command can always be run by the
// user outside the agent, a destroyed filesystem cannot be un-destroyed.
var rules = []rule{
	// Recursive deletion of root or home
	{regexp.MustCompile(`\brm\s+(-\S+\s+)*-\S*r\S*\s+(--no-preserve-root\s+)?/(\s|$|\*)`), "recursively deletes from the filesystem root"},
	{regexp.MustCompile(`\brm\s+(-\S+\s+)*-\S*r\S*\s+~(/|\s|$)`), "recursively deletes the home directory"},
	{regexp.MustCompile(`\brm\s+-\S*r\S*\s+\*`), "recursive wildcard deletion"},

	// Fork bombs
	{regexp.MustCompile(`:\(\)\s*\{\s*:\s*\|\s*:\s*&\s*\}\s*;\s*:`), "fork bomb: spawns processes until the system exhausts resources"},
	{regexp.MustCompile(`\.\(\)\s*\{\s*\.\s*\|\s*\.\s*&\s*\}\s*;`), "fork bomb variant"},

	// Filesystem wipe utilities
	{regexp.MustCompile(`\bmkfs(\.\w+)?\b`), "formats a filesystem, erasing all data on the target"},
	{regexp.MustCompile(`\bwipefs\b.*-a\b`), "wipes filesystem signatures"},
	{regexp.MustCompile(`\bsgdisk\b.*--zap-all\b`), "destroys the partition table"},
	{regexp.MustCompile(`\bshred\b.*(/dev/[a-z]|/boot|/etc|/usr|/var)`), "irrecoverably wipes system-critical locations"},

	// Raw device writes
	{regexp.MustCompile(`\bdd\b.*\bof=/dev/[a-z]`), "dd writing to a raw device destroys its contents"},
	{regexp.MustCompile(`>\s*/dev/(sd|hd|vd|nvme|mmcblk)`), "redirects output over a raw disk device"},
	{regexp.MustCompile(`\b(cat|yes)\b.*/dev/(zero|urandom|random)\s*>\s*/dev/`), "floods a device with generated data"},

	// Permission and ownership disasters
	{regexp.MustCompile(`\bchmod\s+(-\S+\s+)*(777|000)\s+/(\s|$)`), "changes permissions on the entire filesystem"},
	{regexp.MustCompile(`\bchmod\s+.*-R\b.*\s+/\s*$`), "recursive permission change rooted at /"},
	{regexp.MustCompile(`\bchown\s+.*-R\b.*\s+/\s*$`), "recursive ownership change rooted at /"},

	// System control
	{regexp.MustCompile(`\b(shutdown|reboot|poweroff|halt)\b`), "powers off or reboots the host"},
	{regexp.MustCompile(`\binit\s+[06]\b`), "changes runlevel to shutdown or reboot"},
	{regexp.MustCompile(`\bkill\s+-9\s+-1\b`), "SIGKILLs every process on the system"},

	// Authentication-critical files
	{regexp.MustCompile(`>\s*/etc/(passwd|shadow|sudoers)\b`), "overwrites the system authentication database"},
	{regexp.MustCompile(`\brm\b.*/etc/(passwd|shadow|sudoers)\b`), "deletes critical authentication files"},

	// Network protections
	{regexp.MustCompile(`\biptables\s+(-\S+\s+)*-F\b`), "flushes all firewall rules"},
	{regexp.MustCompile(`\bufw\s+disable\b`), "disables the firewall"},
}

// Classify checks a command against the blocklist. It is pure and never
// errors; an unmatched command is allowed. sudo and env prefixes are part
// of the normalized text, so "sudo rm -rf /" matches the rm rule.
func Classify(command string) Classification {
	normalized := Normalize(command)
	for _, r := range rules {
		if r.pattern.MatchString(normalized) {
			return Classification{Blocked: true, Reason: r.reason}
		}
	}
	return Classification{}
}

// Normalize collapses whitespace and strips quote characters so that
// trivially obfuscated forms ("rm"  -rf  '/' ) classify like their
// canonical spelling. It is intentionally lossy; the classifier only
// needs pattern visibility, not a correct shell parse.
func Normalize(command string) string {
	var b strings.Builder
	b.Grow(len(command))
	space := false
	for _, r := range command {
		switch {
		case r == '\'' || r == '"' || r == '`':
			// drop quotes
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			space = true
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return b.String()
}
