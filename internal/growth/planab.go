package growth

import (
	"github.com/vk/ridgegrow/internal/geom"
)

// PlanAPlanB asks the primary strategy first and the secondary one only when
// the primary has no candidate.
type PlanAPlanB struct {
	primary, secondary Strategy
}

func NewPlanAPlanB(primary, secondary Strategy) *PlanAPlanB {
	return &PlanAPlanB{primary: primary, secondary: secondary}
}

func (p *PlanAPlanB) Name() string {
	return string(KindPlanAPlanB) + "(" + p.primary.Name() + "," + p.secondary.Name() + ")"
}

func (p *PlanAPlanB) CanChooseNext(stem geom.Polyline) bool {
	return p.primary.CanChooseNext(stem) || p.secondary.CanChooseNext(stem)
}

func (p *PlanAPlanB) ChooseNext(stem geom.Polyline) (geom.Coordinate, bool, error) {
	next, ok, err := p.primary.ChooseNext(stem)
	if err != nil || ok {
		return next, ok, err
	}
	return p.secondary.ChooseNext(stem)
}
