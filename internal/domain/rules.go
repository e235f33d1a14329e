package domain

import "strings"

// SuggestionRule maps description keywords to a target category. Rules are
// evaluated in slice order and the first keyword hit wins, so the position of
// a rule in SuggestionRules is part of the classification contract.
type SuggestionRule struct {
	ID           string
	Keywords     []string
	CategoryName string
	Confidence   float64
}

// RuleNoMatch is the rule id reported for transactions no rule matched.
const RuleNoMatch = "no_match"

// ProviderRuleBased identifies the deterministic engine in audit fields.
const ProviderRuleBased = "rule-based"

// SuggestionRules is the fixed, ordered rule table. Earlier rules take
// precedence even when a later rule's keyword also occurs in the text.
var SuggestionRules = []SuggestionRule{
	{ID: "aluguel", Keywords: []string{"aluguel", "locacao", "locação"}, CategoryName: "Aluguel", Confidence: 0.9},
	{ID: "salarios", Keywords: []string{"salario", "salário", "folha de pagamento", "pro-labore", "pró-labore"}, CategoryName: "Salários", Confidence: 0.85},
	{ID: "impostos", Keywords: []string{"imposto", "darf", "das ", "tributo", "inss", "fgts"}, CategoryName: "Impostos", Confidence: 0.85},
	{ID: "energia", Keywords: []string{"energia", "eletricidade", "conta de luz"}, CategoryName: "Energia", Confidence: 0.85},
	{ID: "agua", Keywords: []string{"agua", "água", "saneamento"}, CategoryName: "Água", Confidence: 0.85},
	{ID: "internet", Keywords: []string{"internet", "banda larga", "fibra"}, CategoryName: "Internet", Confidence: 0.8},
	{ID: "combustivel", Keywords: []string{"combustivel", "combustível", "gasolina", "etanol", "diesel", "posto"}, CategoryName: "Combustível", Confidence: 0.8},
	{ID: "fretes", Keywords: []string{"frete", "transportadora", "correios", "motoboy"}, CategoryName: "Fretes", Confidence: 0.75},
	{ID: "vendas", Keywords: []string{"venda", "recebimento de cliente", "nota fiscal"}, CategoryName: "Vendas", Confidence: 0.7},
	{ID: "pix", Keywords: []string{"pix", "ted", "transferencia", "transferência"}, CategoryName: "Compras", Confidence: 0.5},
}

// NormalizeDescription trims, lowercases and collapses internal whitespace so
// keyword matching and description grouping see a canonical form.
func NormalizeDescription(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// MatchRule evaluates the ordered rule table against a raw description and
// returns the first rule with a keyword substring hit, plus the keyword that
// matched. Returns nil when no rule matches.
func MatchRule(description string) (*SuggestionRule, string) {
	normalized := NormalizeDescription(description)
	for i := range SuggestionRules {
		rule := &SuggestionRules[i]
		for _, kw := range rule.Keywords {
			if strings.Contains(normalized, kw) {
				return rule, kw
			}
		}
	}
	return nil, ""
}
