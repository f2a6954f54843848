// Package secrets redacts credentials from code snippets before they are sent
// to an embedding provider.
//
// Detection uses the gitleaks default rule set plus optional extra patterns.
// Findings are replaced with a fixed marker so that equal inputs always scrub
// to equal outputs.
package secrets
