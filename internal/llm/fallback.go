package llm

import "fmt"

// FallbackTemplate returns the static, domain-templated paragraph substituted
// when the gateway exhausts its retry ladder without a valid response (spec
// §4.5 "Fallback"), and reused by the draft stage when a generated section
// trips a domain's unsafe-pattern check (spec §4.10.3). It never mentions
// the underlying failure to the reader — it reads as legitimate, if
// generic, academic prose.
func FallbackTemplate(d Domain) string {
	return fmt.Sprintf(
		"This section could not be generated with full detail at this time. "+
			"In the context of %s research, further investigation of the relevant "+
			"literature is recommended to substantiate the claims this survey makes "+
			"in this area. Readers should consult the cited sources directly for "+
			"methodological and empirical detail.",
		string(d),
	)
}
