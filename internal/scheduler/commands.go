package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"Phoenix/internal/model"
	"Phoenix/internal/notifier"
	"Phoenix/internal/review"
	"Phoenix/internal/workflow"
)

const historyLimit = 10

const needDiagnosis = "请先诊断持仓: /diagnose SYMBOL COST QTY"

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.HelpText
	}
	name := strings.ToLower(fields[0])
	if i := strings.Index(name, "@"); i > 0 {
		name = name[:i] // /cmd@botname in group chats
	}
	args := fields[1:]

	s.mu.Lock()
	defer s.mu.Unlock()

	switch name {
	case "/diagnose", "诊断":
		return s.cmdDiagnose(ctx, args)
	case "/simulate", "模拟":
		if !s.Workflow.AdvanceToSimulate() {
			return needDiagnosis
		}
		return "🧪 已进入模拟阶段，请用 /strategy supplement|swap|hold 选择策略"
	case "/strategy":
		return s.cmdStrategy(args)
	case "/run":
		return s.cmdRun()
	case "/save", "保存":
		return s.cmdSave(ctx)
	case "/history", "复盘":
		records := s.Workflow.Snapshot().Reviews
		return notifier.FormatHistory(records, review.Summarize(records), historyLimit)
	case "/status":
		return s.cmdStatus()
	case "/reset":
		s.Workflow.Reset()
		s.Workflow.LoadHistory(ctx)
		return "♻️ 会话已重置"
	default:
		return notifier.HelpText
	}
}

func (s *Scheduler) cmdDiagnose(ctx context.Context, args []string) string {
	if len(args) != 3 {
		return "用法: /diagnose SYMBOL COST QTY"
	}
	diag, err := s.Workflow.RunDiagnosis(ctx, workflow.RawPosition{Symbol: args[0], CostPrice: args[1], Quantity: args[2]})
	if err != nil {
		return fmt.Sprintf("❌ 输入无效: %v", err)
	}
	return notifier.FormatDiagnostics(diag)
}

func (s *Scheduler) cmdStrategy(args []string) string {
	if len(args) == 0 {
		return "用法: /strategy supplement|swap|hold [参数]"
	}
	params, ok := s.Workflow.DefaultParams(model.ParseStrategyKind(args[0]))
	if !ok {
		return needDiagnosis
	}

	// The current selection is kept until the new params validate.
	if extra := args[1:]; len(extra) > 0 {
		custom, err := customize(params, extra)
		if err != nil {
			return fmt.Sprintf("❌ 参数无效: %v", err)
		}
		params = custom
	}
	if err := s.Workflow.SetStrategy(params); err != nil {
		return fmt.Sprintf("❌ 参数无效: %v", err)
	}
	return notifier.FormatStrategy(params) + "\n发送 /run 运行模拟"
}

// customize overrides the default parameters positionally:
// supplement [qty] [price], swap [qty] [target], hold [days].
func customize(p model.StrategyParams, args []string) (model.StrategyParams, error) {
	switch d := p.(type) {
	case model.SupplementParams:
		qty, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("数量: %w", err)
		}
		d.AddQuantity = qty
		if len(args) > 1 {
			price, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return nil, fmt.Errorf("价格: %w", err)
			}
			d.AddPrice = price
		}
		return d, nil
	case model.SwapParams:
		qty, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("数量: %w", err)
		}
		d.SellQuantity = qty
		if len(args) > 1 {
			d.TargetSymbol = strings.ToUpper(args[1])
		}
		return d, nil
	case model.HoldParams:
		days, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("天数: %w", err)
		}
		d.HorizonDays = &days
		return d, nil
	default:
		return nil, errors.New("unknown strategy")
	}
}

func (s *Scheduler) cmdRun() string {
	sim, ok := s.Workflow.RunSimulation()
	if !ok {
		return "请先诊断并选择策略: /strategy supplement|swap|hold"
	}
	return notifier.FormatSimulation(s.Workflow.Snapshot().Strategy, sim)
}

func (s *Scheduler) cmdSave(ctx context.Context) string {
	rec, ok := s.Workflow.SavePlan(ctx)
	if !ok {
		return "请先运行模拟: /run"
	}
	snap := s.Workflow.Snapshot()
	return notifier.FormatPlan(snap.Plan) + "\n" + notifier.FormatReview(*rec)
}

func (s *Scheduler) cmdStatus() string {
	snap := s.Workflow.Snapshot()
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📍 阶段: %s\n", snap.Stage))
	if snap.Diagnostics != nil {
		pos := snap.Diagnostics.Position
		b.WriteString(fmt.Sprintf("持仓: %s %.2f × %d\n", pos.Symbol, pos.CostPrice, pos.Quantity))
	}
	if snap.Strategy != nil {
		b.WriteString(notifier.FormatStrategy(snap.Strategy) + "\n")
	}
	if snap.Simulation != nil {
		b.WriteString(fmt.Sprintf("模拟盈亏: %+.2f\n", snap.Simulation.ProfitLoss))
	}
	b.WriteString(fmt.Sprintf("复盘记录: %d 条", len(snap.Reviews)))
	return b.String()
}
