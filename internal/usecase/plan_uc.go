package usecase

import (
	"context"

	"alumni-portal/internal/domain"
	"alumni-portal/internal/domain/model"
)

var _ PlanUseCase = (*planUC)(nil)

// PlanUseCase exposes the static membership catalog.
type PlanUseCase interface {
	List(ctx context.Context) []*model.MembershipPlan
	Find(ctx context.Context, id string) (*model.MembershipPlan, error)
}

type planUC struct {
	catalog *model.PlanCatalog
}

func NewPlanUseCase(catalog *model.PlanCatalog) *planUC {
	return &planUC{catalog: catalog}
}

func (u *planUC) List(ctx context.Context) []*model.MembershipPlan {
	return u.catalog.List()
}

func (u *planUC) Find(ctx context.Context, id string) (*model.MembershipPlan, error) {
	p, ok := u.catalog.Find(id)
	if !ok {
		return nil, domain.ErrUnknownPlan
	}
	return p, nil
}
