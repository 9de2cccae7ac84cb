// Package idempotency promotes the "already posted?" predicate spec.md
// §9 calls an idempotency cache into a named Store, which
// service.PostPayment consults for request-level dedup (SPEC_FULL.md's
// Idempotency Store expansion); the posters dedupe by ledger scan.
package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Scope names one dedup rule. Each corresponds to one guard in spec.md
// §4.D/§4.E/§8.
type Scope string

const (
	ScopeCheckNumberGuid    Scope = "check_number_guid"
	ScopeAutoSubmit         Scope = "auto_submit"
	ScopeAdjustAllowable    Scope = "adjust_allowable"
	ScopeDeductible         Scope = "deductible"
	ScopeContractualWriteoff Scope = "contractual_writeoff"
)

// Generator turns a scope and a set of parameters into a stable key.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateKey hashes scope+params deterministically (params sorted by
// key first, so callers never need to worry about map iteration order).
func (g *Generator) GenerateKey(scope Scope, params map[string]interface{}) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(string(scope))
	for _, k := range keys {
		b.WriteString(fmt.Sprintf(":%s=%v", k, params[k]))
	}

	hash := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%s-%s", scope, hex.EncodeToString(hash[:8]))
}

// ValidateKey reports whether key is the one GenerateKey would produce
// for scope/params.
func (g *Generator) ValidateKey(scope Scope, params map[string]interface{}, key string) bool {
	return g.GenerateKey(scope, params) == key
}
