package catalog

import (
	"sort"
	"strings"

	"github.com/kballard/go-shellquote"
)

// subcommandTools names the tools whose first non-flag argument is part of
// the command identity ("git commit", "docker compose up").
var subcommandTools = map[string]bool{
	"apt":            true,
	"git":            true,
	"docker":         true,
	"docker compose": true,
}

// InferCommand derives the command id of an answer such as
// "docker compose up -d" -> "docker compose up".
func InferCommand(answer string) string {
	tokens := tokenize(answer)
	if len(tokens) == 0 {
		return ""
	}
	command := tokens[0]
	for _, tok := range tokens[1:] {
		if !subcommandTools[command] || strings.HasPrefix(tok, "-") {
			break
		}
		command += " " + tok
	}
	return command
}

// InferFlags collects the option keys used across all answers. Alphabetic
// bundles such as "-la" count as "-l" and "-a"; values are dropped.
func InferFlags(answers []string) []string {
	seen := make(map[string]bool)
	for _, answer := range answers {
		for _, tok := range tokenize(answer) {
			switch {
			case tok == "--":
				continue
			case strings.HasPrefix(tok, "--") && len(tok) > 2:
				key, _, _ := strings.Cut(tok, "=")
				seen[key] = true
			case strings.HasPrefix(tok, "-") && len(tok) > 1:
				if len(tok) > 2 && isAlpha(tok[1:]) {
					for _, r := range tok[1:] {
						seen["-"+string(r)] = true
					}
				} else {
					seen[tok[:2]] = true
				}
			}
		}
	}
	return sortedKeys(seen)
}

func tokenize(s string) []string {
	tokens, err := shellquote.Split(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return tokens
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return s != ""
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
