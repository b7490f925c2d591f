package workflow

import "Phoenix/internal/model"

// Session is the mutable state of one user's decision workflow.
// It is owned by exactly one Workflow.
type Session struct {
	Stage       model.Stage
	Diagnostics *model.Diagnostics
	Strategy    model.StrategyParams
	Simulation  *model.SimulationResult
	Plan        *model.ExecutionPlan
	Reviews     []model.ReviewRecord // most recent first
}

func newSession() Session {
	return Session{Stage: model.StageDiagnose, Reviews: []model.ReviewRecord{}}
}

// clone returns a copy that shares no mutable memory with s.
func (s Session) clone() Session {
	out := s
	if s.Diagnostics != nil {
		d := *s.Diagnostics
		out.Diagnostics = &d
	}
	if s.Simulation != nil {
		sim := *s.Simulation
		sim.Curve = append([]model.CurvePoint(nil), s.Simulation.Curve...)
		sim.Warnings = append([]string(nil), s.Simulation.Warnings...)
		out.Simulation = &sim
	}
	if s.Plan != nil {
		p := *s.Plan
		p.Actions = append([]model.PlanAction(nil), s.Plan.Actions...)
		out.Plan = &p
	}
	out.Reviews = append([]model.ReviewRecord{}, s.Reviews...)
	return out
}

// clearDerived drops everything computed from the current diagnosis onwards.
func (s *Session) clearDerived() {
	s.Strategy = nil
	s.Simulation = nil
	s.Plan = nil
}
