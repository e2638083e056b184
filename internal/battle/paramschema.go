package battle

import "strings"

// paramAliases maps a known alternate spelling to the canonical token
// used internally, so a schema label written either way resolves to the
// same map key.
var paramAliases = map[string]string{
	"tick_down_first_round": "tickdown_first_round",
}

func canonicalParamToken(tok string) string {
	tok = strings.TrimSpace(tok)
	tok = strings.ToLower(tok)
	tok = strings.ReplaceAll(tok, " ", "_")
	if alias, ok := paramAliases[tok]; ok {
		return alias
	}
	return tok
}

// splitParamLabels splits a comma-separated schema label into tokens,
// canonicalizes each, and pads/truncates to exactly 6 positional slots
// (unnamed trailing slots get an empty string, which ParseParams simply
// skips when building its map).
func splitParamLabels(label string) [6]string {
	var out [6]string
	if label == "" {
		return out
	}
	parts := strings.Split(label, ",")
	for i := 0; i < 6 && i < len(parts); i++ {
		out[i] = canonicalParamToken(parts[i])
	}
	return out
}

// ParseParams zips an effect row's schema label against its raw
// positional parameters into a token -> value map. Unnamed positions are
// skipped; named positions beyond the declared label length still fall
// back to positional access via Params directly.
func ParseParams(row EffectRow) map[string]int {
	labels := splitParamLabels(row.ParamSchema)
	out := make(map[string]int, 6)
	for i, tok := range labels {
		if tok == "" {
			continue
		}
		out[tok] = row.Params[i]
	}
	return out
}

// ParamLabelMatches reports whether a row's declared schema label
// matches an expected canonical label list, used by the dispatcher to
// emit PARAM_LABEL_MISMATCH without treating it as fatal.
func ParamLabelMatches(row EffectRow, expected string) bool {
	got := splitParamLabels(row.ParamSchema)
	want := splitParamLabels(expected)
	return got == want
}
