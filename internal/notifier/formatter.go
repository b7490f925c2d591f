package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"Phoenix/internal/model"
	"Phoenix/internal/review"
)

// HelpText lists the bot commands.
const HelpText = `🦅 <b>Phoenix 指令</b>

/diagnose SYMBOL COST QTY  诊断持仓
/simulate  进入模拟
/strategy supplement|swap|hold [参数]  选择策略
  supplement [数量] [价格]
  swap [数量] [目标]
/run  运行模拟
/save  保存计划并复盘
/history  历史复盘
/status  当前状态
/reset  重置会话`

var healthLamp = map[model.HealthStatus]string{
	model.HealthHealthy:    "🟢 健康",
	model.HealthSubhealthy: "🟡 亚健康",
	model.HealthCrisis:     "🔴 危机",
}

var decisionLabel = map[model.StrategyKind]string{
	model.KindSupplement: "补仓",
	model.KindSwap:       "换股",
	model.KindHold:       "持有",
}

// DecisionLabel returns the display name of a strategy kind.
func DecisionLabel(k model.StrategyKind) string {
	if l, ok := decisionLabel[k]; ok {
		return l
	}
	return string(k)
}

// FormatDiagnostics formats a diagnosis. Missing signals are shown as unavailable.
func FormatDiagnostics(d *model.Diagnostics) string {
	var b strings.Builder
	pos := d.Position

	b.WriteString(fmt.Sprintf("🩺 <b>持仓诊断</b> | %s\n\n", html.EscapeString(d.Symbol)))
	b.WriteString(fmt.Sprintf("成本: %.2f × %d 股\n", pos.CostPrice, pos.Quantity))

	if d.Quote != nil {
		b.WriteString(fmt.Sprintf("现价: %.2f %s\n", d.Quote.Price, d.Quote.Currency))
	} else {
		b.WriteString(fmt.Sprintf("现价: 暂不可用 (按成本 %.2f 计)\n", pos.CostPrice))
	}
	pnl := model.Round2((d.CurrentPrice() - pos.CostPrice) * float64(pos.Quantity))
	b.WriteString(fmt.Sprintf("浮动盈亏: %+.2f\n\n", pnl))

	if f := d.Fundamentals; f != nil {
		b.WriteString(fmt.Sprintf("基本面: %s\n", healthLamp[f.Health]))
		b.WriteString(fmt.Sprintf("  ROE %.1f%% | 负债率 %.2f | 营收同比 %+.1f%%\n", f.ROE, f.DebtRatio, f.RevenueYoY))
		if f.Comment != "" {
			b.WriteString(fmt.Sprintf("  %s\n", html.EscapeString(f.Comment)))
		}
	} else {
		b.WriteString("基本面: 暂不可用\n")
	}

	if s := d.Sentiment; s != nil {
		b.WriteString(fmt.Sprintf("情绪: %+.2f | 热度 %.0f\n", s.Score, s.Popularity))
		if s.Summary != "" {
			b.WriteString(fmt.Sprintf("  %s\n", html.EscapeString(s.Summary)))
		}
	} else {
		b.WriteString("情绪: 暂不可用\n")
	}
	return b.String()
}

// FormatStrategy describes the selected strategy parameters.
func FormatStrategy(p model.StrategyParams) string {
	switch s := p.(type) {
	case model.SupplementParams:
		return fmt.Sprintf("策略: 补仓 %d 股 @ %.2f", s.AddQuantity, s.AddPrice)
	case model.SwapParams:
		return fmt.Sprintf("策略: 换股 卖出 %d 股 → %s", s.SellQuantity, html.EscapeString(s.TargetSymbol))
	case model.HoldParams:
		if s.HorizonDays != nil {
			return fmt.Sprintf("策略: 持有 %d 天", *s.HorizonDays)
		}
		return "策略: 持有"
	default:
		return "策略: 未选择"
	}
}

// FormatSimulation formats a simulation result with its scenario curve.
func FormatSimulation(p model.StrategyParams, sim *model.SimulationResult) string {
	var b strings.Builder
	b.WriteString("🧪 <b>策略模拟</b>\n")
	b.WriteString(FormatStrategy(p))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("回本价: %.4f\n", sim.BreakEvenPrice))
	b.WriteString(fmt.Sprintf("盈亏: %+.2f (%+.2f%%)\n", sim.ProfitLoss, sim.ProfitLossPct))
	b.WriteString(fmt.Sprintf("敞口变化: %+.2f%%\n", sim.ExposureChangePct))
	b.WriteString(fmt.Sprintf("风险系数: %.2f / 95\n", sim.RiskCoefficient))
	b.WriteString(fmt.Sprintf("目标价: %.4f | 止损价: %.4f\n", sim.TargetPrice, sim.StopPrice))

	if len(sim.Curve) > 0 {
		b.WriteString("\n📈 <b>情景曲线:</b>\n")
		for _, pt := range sim.Curve {
			b.WriteString(fmt.Sprintf("  %.2f → %+.2f\n", pt.Price, pt.PnL))
		}
	}
	for _, w := range sim.Warnings {
		b.WriteString(fmt.Sprintf("\n⚠️ %s", html.EscapeString(w)))
	}
	return b.String()
}

// FormatPlan formats an execution plan.
func FormatPlan(p *model.ExecutionPlan) string {
	var b strings.Builder
	b.WriteString("📋 <b>执行计划</b>\n\n")
	for i, a := range p.Actions {
		b.WriteString(fmt.Sprintf("%d. %s %s @ %.2f\n", i+1, a.Action, a.Label, a.TriggerPrice))
	}
	b.WriteString(fmt.Sprintf("\n止损: %.2f\n止盈: %.2f\n", p.StopLoss, p.TakeProfit))
	return b.String()
}

// FormatReview formats one saved review record.
func FormatReview(r model.ReviewRecord) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("✅ <b>已保存</b> | %s %s\n", html.EscapeString(r.Symbol), DecisionLabel(r.Decision)))
	b.WriteString(fmt.Sprintf("模拟盈亏: %+.2f\n", r.ResultPnl))
	a := r.Attribution
	b.WriteString(fmt.Sprintf("归因: 市场 %.0f | 个股 %.0f | 情绪 %.0f | 执行 %.0f\n", a.Beta, a.Alpha, a.Emotion, a.Execution))
	if r.Notes != "" {
		b.WriteString(html.EscapeString(r.Notes))
	}
	return b.String()
}

// FormatHistory formats up to limit records, most recent first, followed by the summary.
func FormatHistory(records []model.ReviewRecord, s review.Summary, limit int) string {
	if len(records) == 0 {
		return "📭 暂无复盘记录"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📚 <b>复盘记录</b> (%d)\n\n", len(records)))
	for i, r := range records {
		if limit > 0 && i >= limit {
			b.WriteString(fmt.Sprintf("… 另有 %d 条\n", len(records)-limit))
			break
		}
		b.WriteString(fmt.Sprintf("%s %s %s %+.2f\n",
			r.Timestamp.Local().Format("01-02 15:04"), html.EscapeString(r.Symbol), DecisionLabel(r.Decision), r.ResultPnl))
	}

	b.WriteString("\n📊 <b>统计</b>\n")
	b.WriteString(fmt.Sprintf("胜率: %.2f%% (%d 胜 / %d 负)\n", s.WinRate, s.Wins, s.Losses))
	b.WriteString(fmt.Sprintf("总盈亏: %+.2f | 均值: %+.2f | 标准差: %.2f\n", s.TotalPnl, s.MeanPnl, s.StdDevPnl))

	kinds := make([]string, 0, len(s.ByDecision))
	for k := range s.ByDecision {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s %d", DecisionLabel(model.StrategyKind(k)), s.ByDecision[model.StrategyKind(k)]))
	}
	b.WriteString("决策分布: " + strings.Join(parts, " | "))
	return b.String()
}

// FormatAlert formats a plan trigger hit by the watch job.
func FormatAlert(symbol, label string, trigger, price float64, at time.Time) string {
	return fmt.Sprintf("🔔 <b>计划触发</b> | %s\n\n%s (触发价 %.2f)\n现价: %.2f\n时间: %s",
		html.EscapeString(symbol), html.EscapeString(label), trigger, price, at.Format("2006-01-02 15:04"))
}
