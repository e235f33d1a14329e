package service

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fluxocx/fluxo/internal/domain"
	"github.com/fluxocx/fluxo/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DiagnosticsError wraps any failure inside the consult pipeline under a
// stable code, carrying a bounded stack snapshot for non-production surfaces.
type DiagnosticsError struct {
	Code  string
	Err   error
	Trace string
}

func (e *DiagnosticsError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *DiagnosticsError) Unwrap() error { return e.Err }

const diagnosticsErrCode = "AI_CONSULT_FAILED"

const maxTraceBytes = 4096

func newDiagnosticsError(err error) *DiagnosticsError {
	trace := string(debug.Stack())
	if len(trace) > maxTraceBytes {
		trace = trace[:maxTraceBytes]
	}
	return &DiagnosticsError{Code: diagnosticsErrCode, Err: err, Trace: trace}
}

type ConsultService struct {
	companies domain.CompanyStore
	txs       domain.TransactionStore
	logger    *zap.Logger
	now       func() time.Time
}

func NewConsultService(companies domain.CompanyStore, txs domain.TransactionStore, logger *zap.Logger) *ConsultService {
	return &ConsultService{
		companies: companies,
		txs:       txs,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Consult produces the deterministic financial diagnosis for a company over a
// period: composite health score, runway estimate, and pt-BR narrative built
// only from persisted numbers. Same data in, same diagnosis out. limit caps
// the echoed recent transactions (ceiling ConsultRecentLimit); a non-empty
// question is echoed back in the narrative, never interpreted.
func (s *ConsultService) Consult(ctx context.Context, tenantID, companyID int64, start, end string, limit int, question string) (*domain.ConsultResult, error) {
	if _, err := s.companies.GetByID(ctx, companyID, tenantID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCompanyNotFound
		}
		return nil, newDiagnosticsError(err)
	}

	startDt, endDt, period, err := domain.ResolvePeriod(start, end, s.now())
	if err != nil {
		return nil, err
	}

	recentLimit := domain.ConsultRecentLimit
	if limit > 0 && limit < recentLimit {
		recentLimit = limit
	}

	var (
		totals        *domain.Totals
		byCategory    []domain.CategoryBreakdown
		recent        []domain.TransactionBrief
		outflows      []domain.TransactionBrief
		uncategorized []domain.TransactionBrief
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.txs.Totals(gctx, tenantID, companyID, startDt, endDt)
		return err
	})
	g.Go(func() error {
		var err error
		byCategory, err = s.txs.ByCategory(gctx, tenantID, companyID, startDt, endDt)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.txs.Recent(gctx, tenantID, companyID, startDt, endDt, recentLimit)
		return err
	})
	g.Go(func() error {
		var err error
		outflows, err = s.txs.ListOutflows(gctx, tenantID, companyID, startDt, endDt)
		return err
	})
	g.Go(func() error {
		var err error
		uncategorized, err = s.txs.Uncategorized(gctx, tenantID, companyID, startDt, endDt, DefaultSuggestLimit, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, newDiagnosticsError(err)
	}

	// The prior window is advisory: a failure there degrades the comparison
	// instead of failing the whole diagnosis.
	prevStart, prevEnd := domain.PreviousPeriod(startDt, endDt)
	var priorTotals *domain.Totals
	hasPrior := false
	if pt, err := s.txs.Totals(ctx, tenantID, companyID, prevStart, prevEnd); err == nil {
		priorTotals = pt
		hasPrior = pt.TransactionCount > 0
	} else {
		s.logger.Warn("prior period totals unavailable",
			zap.Int64("company_id", companyID), zap.Error(err))
	}

	groups := domain.BuildSpendingGroups(outflows)
	recurring := domain.RecurringGroups(groups, domain.RecurrenceMinCents)
	largest := domain.LargestOutflow(outflows)

	topOut := topOutCategories(byCategory, domain.ConsultNarratedCategories)
	var topCatOut int64
	var topCatName string
	if len(topOut) > 0 {
		topCatOut = topOut[0].OutflowCents
		topCatName = topOut[0].CategoryName
	}

	in := domain.HealthInput{
		InflowCents:          totals.InflowCents,
		OutflowCents:         totals.OutflowCents,
		BalanceCents:         totals.BalanceCents,
		UncategorizedCount:   int64(len(uncategorized)),
		TopCategoryOutCents:  topCatOut,
		HasRecurringSpending: len(recurring) > 0,
	}
	if largest != nil {
		in.LargestOutflowCents = largest.AmountCents
	}
	if hasPrior {
		in.HasPriorPeriod = true
		in.PriorOutflowCents = priorTotals.OutflowCents
	}

	score := domain.HealthScore(in)
	status := domain.HealthStatus(score)

	days := domain.PeriodDays(startDt, endDt)
	runway, runwayOK := domain.RunwayDays(totals.BalanceCents, totals.OutflowCents, days)

	res := &domain.ConsultResult{
		CompanyID:          companyID,
		Period:             period,
		GeneratedAt:        s.now(),
		HealthScore:        score,
		HealthStatus:       status,
		Numbers:            *totals,
		TopCategories:      topBreakdown(byCategory, domain.ConsultTopCategoriesLimit),
		SpendingGroups:     topGroups(groups, domain.ConsultTopGroupsLimit),
		RecentTransactions: emptyIfNilBriefs(recent),
	}
	if runwayOK {
		r := runway
		res.RunwayDays = &r
	}

	res.Headline = consultHeadline(status, totals.BalanceCents)
	res.Insights = buildInsights(in, score, status, topOut, res.SpendingGroups, days, runway, runwayOK, hasPrior, priorTotals, question)
	res.Risks = buildRisks(in, topCatName, topCatOut, largest, recurring, runway, runwayOK, hasPrior, priorTotals)
	res.Actions = buildActions(status, in)

	return res, nil
}

func topBreakdown(in []domain.CategoryBreakdown, limit int) []domain.CategoryBreakdown {
	if in == nil {
		return []domain.CategoryBreakdown{}
	}
	if len(in) > limit {
		return in[:limit]
	}
	return in
}

// topOutCategories ranks the breakdown by out-spending, dropping buckets with
// no out-spending at all.
func topOutCategories(in []domain.CategoryBreakdown, limit int) []domain.CategoryBreakdown {
	out := make([]domain.CategoryBreakdown, 0, len(in))
	for _, b := range in {
		if b.OutflowCents > 0 {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OutflowCents > out[j].OutflowCents })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func topGroups(in []domain.SpendingGroup, limit int) []domain.SpendingGroup {
	if in == nil {
		return []domain.SpendingGroup{}
	}
	if len(in) > limit {
		return in[:limit]
	}
	return in
}

func statusPT(status string) string {
	switch status {
	case "healthy":
		return "saudável"
	case "attention":
		return "atenção"
	default:
		return "crítico"
	}
}

func consultHeadline(status string, balanceCents int64) string {
	switch status {
	case "healthy":
		return "Situação financeira saudável no período analisado."
	case "attention":
		return "Situação financeira exige atenção no período analisado."
	default:
		if balanceCents < 0 {
			return "Situação financeira crítica: as saídas superam as entradas."
		}
		return "Situação financeira crítica no período analisado."
	}
}

func buildInsights(in domain.HealthInput, score int, status string, topOut []domain.CategoryBreakdown, groups []domain.SpendingGroup, days, runway int64, runwayOK, hasPrior bool, prior *domain.Totals, question string) []string {
	insights := []string{
		fmt.Sprintf("Saúde financeira: %d/100 (%s).", score, statusPT(status)),
		fmt.Sprintf("No período de %d dias: entradas de %s, saídas de %s, saldo de %s.",
			days, formatBRL(in.InflowCents), formatBRL(in.OutflowCents), formatBRL(in.BalanceCents)),
	}

	if runwayOK {
		insights = append(insights, fmt.Sprintf(
			"Fôlego de caixa estimado: %d dias no ritmo atual de gastos (%s).",
			runway, runwayBandPT(runway)))
	} else {
		insights = append(insights, "Sem saídas registradas no período; fôlego de caixa não calculado.")
	}

	if len(topOut) > 0 && in.OutflowCents > 0 {
		parts := make([]string, 0, len(topOut))
		for _, b := range topOut {
			share := float64(b.OutflowCents) / float64(in.OutflowCents) * 100
			parts = append(parts, fmt.Sprintf("%s com %s (%.0f%%)",
				b.CategoryName, formatBRL(b.OutflowCents), share))
		}
		insights = append(insights, "Principais categorias de gasto: "+strings.Join(parts, "; ")+".")
	}

	if len(groups) > 0 {
		parts := make([]string, 0, len(groups))
		for _, g := range groups {
			parts = append(parts, fmt.Sprintf("%q somou %s em %d lançamentos",
				g.Description, formatBRL(g.TotalCents), g.Count))
		}
		insights = append(insights, "Maiores grupos de despesa: "+strings.Join(parts, "; ")+".")
	}

	if hasPrior && prior != nil && prior.OutflowCents > 0 {
		growth := float64(in.OutflowCents-prior.OutflowCents) / float64(prior.OutflowCents) * 100
		insights = append(insights, fmt.Sprintf(
			"Saídas variaram %+.0f%% em relação ao período anterior (%s antes, %s agora).",
			growth, formatBRL(prior.OutflowCents), formatBRL(in.OutflowCents)))
	} else {
		insights = append(insights, "Sem dados do período anterior para comparação.")
	}

	if in.UncategorizedCount > 0 {
		insights = append(insights, fmt.Sprintf(
			"%d transações sem categoria no período; categorizá-las melhora a precisão do diagnóstico.",
			in.UncategorizedCount))
	}

	if q := strings.TrimSpace(question); q != "" {
		insights = append(insights, fmt.Sprintf(
			"Pergunta recebida: %q. O diagnóstico acima responde com base nos números do período.", q))
	}

	return insights
}

func runwayBandPT(days int64) string {
	switch domain.RunwayBand(days) {
	case "structural deficit":
		return "déficit estrutural"
	case "critical":
		return "crítico"
	case "high risk":
		return "risco alto"
	case "attention":
		return "atenção"
	default:
		return "confortável"
	}
}

func buildRisks(in domain.HealthInput, topCatName string, topCatOut int64, largest *domain.TransactionBrief, recurring []domain.SpendingGroup, runway int64, runwayOK, hasPrior bool, prior *domain.Totals) []string {
	var risks []string

	if in.OutflowCents > 0 && in.InflowCents == 0 {
		risks = append(risks, "Nenhuma entrada registrada no período apesar de haver gastos.")
	}
	if in.BalanceCents < 0 {
		risks = append(risks, fmt.Sprintf("Saldo negativo de %s no período.", formatBRL(in.BalanceCents)))
	}
	if runwayOK && runway >= 0 && runway < 30 {
		risks = append(risks, fmt.Sprintf("Fôlego de caixa de apenas %d dias no ritmo atual.", runway))
	}
	if in.OutflowCents > 0 && topCatName != "" {
		share := float64(topCatOut) / float64(in.OutflowCents) * 100
		if share >= domain.TopCategoryConcentrationPct {
			risks = append(risks, fmt.Sprintf(
				"Gastos concentrados: %s responde por %.0f%% das saídas.", topCatName, share))
		}
	}
	if largest != nil && in.OutflowCents > 0 {
		share := float64(largest.AmountCents) / float64(in.OutflowCents) * 100
		if largest.AmountCents >= domain.LargeOutflowFloorCents || share >= domain.LargestShareRiskPct {
			risks = append(risks, fmt.Sprintf(
				"Despesa isolada de %s (%q) representa %.0f%% das saídas.",
				formatBRL(largest.AmountCents), largest.Description, share))
		}
	}
	for i, g := range recurring {
		if i >= 2 {
			break
		}
		risks = append(risks, fmt.Sprintf(
			"Gasto recorrente detectado: %q apareceu %d vezes, somando %s.",
			g.Description, g.Count, formatBRL(g.TotalCents)))
	}
	if hasPrior && prior != nil && prior.OutflowCents > 0 {
		growth := float64(in.OutflowCents-prior.OutflowCents) / float64(prior.OutflowCents) * 100
		if growth >= domain.OutflowGrowthRiskPct {
			risks = append(risks, fmt.Sprintf(
				"Saídas cresceram %.0f%% em relação ao período anterior.", growth))
		}
	}

	if risks == nil {
		risks = []string{}
	}
	return risks
}

func buildActions(status string, in domain.HealthInput) []string {
	var actions []string

	if status != "healthy" {
		actions = append(actions, "Priorize revisar o fluxo de caixa desta semana: corte ou renegocie os maiores gastos.")
	}
	if in.OutflowCents > 0 && in.InflowCents == 0 {
		actions = append(actions, "Registre as entradas do período ou acelere cobranças pendentes.")
	}
	if in.UncategorizedCount >= 2 {
		actions = append(actions, "Categorize as transações pendentes para enxergar onde o dinheiro está indo.")
	}
	if in.OutflowCents > in.InflowCents && in.InflowCents > 0 {
		actions = append(actions, "Monte um teto de gastos mensal: as saídas estão acima das entradas.")
	}
	if len(actions) == 0 {
		actions = append(actions, "Mantenha o registro em dia e acompanhe o resumo semanalmente.")
	}
	return actions
}

// formatBRL renders integer cents as pt-BR currency: "R$ 1.234,56".
// Negative amounts carry the sign before the symbol: "-R$ 12,00".
func formatBRL(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	intPart := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(intPart, 10)
	var b strings.Builder
	pre := len(digits) % 3
	if pre > 0 {
		b.WriteString(digits[:pre])
	}
	for i := pre; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), frac)
}
