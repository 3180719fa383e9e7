package assemble

import (
	"regexp"
	"strings"

	"github.com/arlyon/async-stripe-sub040/internal/ir"
)

// wellKnownPrefixes are the id prefixes of common Stripe objects whose
// schemas carry no id pattern.
var wellKnownPrefixes = map[ir.ComponentPath][]string{
	"account":                    {"acct_"},
	"application_fee":            {"fee_"},
	"balance_transaction":        {"txn_"},
	"bank_account":               {"ba_"},
	"billing.meter":              {"mtr_"},
	"card":                       {"card_"},
	"charge":                     {"ch_", "py_"},
	"checkout.session":           {"cs_"},
	"credit_note":                {"cn_"},
	"customer":                   {"cus_"},
	"dispute":                    {"dp_", "du_"},
	"event":                      {"evt_"},
	"file":                       {"file_"},
	"invoice":                    {"in_"},
	"invoiceitem":                {"ii_"},
	"issuing.card":               {"ic_"},
	"issuing.cardholder":         {"ich_"},
	"payment_intent":             {"pi_"},
	"payment_method":             {"pm_", "card_", "src_", "ba_"},
	"payout":                     {"po_"},
	"price":                      {"price_"},
	"product":                    {"prod_"},
	"quote":                      {"qt_"},
	"refund":                     {"re_", "pyr_"},
	"setup_intent":               {"seti_"},
	"source":                     {"src_"},
	"subscription":               {"sub_"},
	"subscription_item":          {"si_"},
	"subscription_schedule":      {"sub_sched_"},
	"tax_rate":                   {"txr_"},
	"terminal.reader":            {"tmr_"},
	"token":                      {"tok_", "btok_"},
	"topup":                      {"tu_"},
	"transfer":                   {"tr_"},
	"treasury.financial_account": {"fa_"},
	"webhook_endpoint":           {"we_"},
}

// prefixPattern matches the id patterns Stripe publishes:
// "^cus_" or "^(in|ii)_".
var prefixPattern = regexp.MustCompile(`^\^(?:\(([a-z_|]+)\))?([a-z_]*)$`)

// prefixes returns the accepted id prefixes of path. The override table
// wins, then the schema's id pattern, then the built-in table.
func (a *Assembler) prefixes(path ir.ComponentPath) []string {
	if p, ok := a.opts.Overrides.Prefixes(path); ok {
		return p
	}
	if s, ok := a.doc.Component(path); ok {
		if id := s.Property("id"); id != nil {
			if p := PatternPrefixes(id.Pattern); len(p) > 0 {
				return p
			}
		}
	}
	return wellKnownPrefixes[path]
}

// PatternPrefixes extracts literal prefixes from an anchored id pattern.
// Patterns of any other shape yield nil.
func PatternPrefixes(pattern string) []string {
	m := prefixPattern.FindStringSubmatch(pattern)
	if m == nil || (m[1] == "" && m[2] == "") {
		return nil
	}
	if m[1] == "" {
		return []string{m[2]}
	}
	alts := strings.Split(m[1], "|")
	out := make([]string, 0, len(alts))
	for _, alt := range alts {
		if alt == "" {
			continue
		}
		out = append(out, alt+m[2])
	}
	return out
}
