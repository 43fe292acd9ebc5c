// Package profile models the Unison profile file format: the directive
// whitelist shared by generation and detection, a tolerant parser, and the
// ignore-pattern syntax.
package profile

import (
	"sort"
	"strings"
)

// Profile file conventions
const (
	Extension   = ".prf"
	DefaultName = "default"
	CommentChar = "#"
	RootKey     = "root"
	IgnoreKey   = "ignore"
	IncludeKey  = "include"
	SourceKey   = "source"
)

// RequiredRootCount is the number of root directives a non-default profile must carry.
const RequiredRootCount = 2

// directives is the fixed whitelist of recognized profile keys.
//
//nolint:gochecknoglobals // static whitelist
var directives = map[string]struct{}{
	"root": {}, "path": {}, "ignore": {}, "ignorenot": {}, "ignorecase": {},
	"ignorearchives": {}, "ignoreinodenumbers": {}, "ignorelocks": {},
	"backup": {}, "backupcurr": {}, "backupnot": {}, "backupcurrnot": {},
	"backuplocation": {}, "backupdir": {}, "backupprefix": {}, "backupsuffix": {},
	"backups": {}, "maxbackups": {},
	"auto": {}, "batch": {}, "prefer": {}, "preferpartial": {}, "force": {}, "forcepartial": {},
	"log": {}, "logfile": {}, "silent": {}, "terse": {}, "label": {}, "ui": {},
	"retry": {}, "repeat": {}, "confirmbigdel": {}, "confirmmerge": {},
	"times": {}, "perms": {}, "owner": {}, "group": {}, "numericids": {},
	"maxthreads": {}, "fastcheck": {}, "follow": {}, "links": {}, "fat": {},
	"dontchmod": {}, "rsync": {}, "copythreshold": {}, "copyprog": {}, "copyprogrest": {},
	"xferbycopying": {}, "merge": {}, "diff": {}, "sortbysize": {}, "sortnewfirst": {},
	"sortfirst": {}, "sortlast": {}, "sshargs": {}, "servercmd": {}, "addversionno": {},
	"rootalias": {}, "contactquietly": {}, "killserver": {}, "height": {}, "key": {},
	"watch": {}, "atomic": {}, "noupdate": {}, "nodeletion": {}, "nocreation": {},
	"copyonconflict": {}, "fastercheckUNSAFE": {}, "clientHostName": {}, "showarchive": {},
	"maxsizethreshold": {}, "maxerrors": {}, "stream": {},
	"include": {}, "source": {},
}

// IsDirective reports whether key is a recognized profile directive.
func IsDirective(key string) bool {
	_, ok := directives[strings.TrimSpace(key)]
	return ok
}

// Directives returns the whitelist, sorted.
func Directives() []string {
	out := make([]string, 0, len(directives))
	for k := range directives {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SplitLine splits a raw profile line into key and value. It accepts the
// "key = value" form and the bare "include name" / "source name" forms.
// ok is false for lines that have neither shape.
func SplitLine(line string) (key, value string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if idx := strings.Index(trimmed, "="); idx > 0 {
		key = strings.TrimSpace(trimmed[:idx])
		value = strings.TrimSpace(trimmed[idx+1:])
		if key != "" && !strings.ContainsAny(key, " \t") {
			return key, value, true
		}
	}

	for _, bare := range []string{IncludeKey, SourceKey} {
		if strings.HasPrefix(trimmed, bare+" ") || strings.HasPrefix(trimmed, bare+"\t") {
			return bare, strings.TrimSpace(trimmed[len(bare):]), true
		}
	}
	return "", "", false
}

// IsComment reports whether line is blank or a comment.
func IsComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, CommentChar)
}

// IsDefault reports whether name is the default profile, which is exempt
// from the two-root rule.
func IsDefault(name string) bool {
	return name == DefaultName
}
