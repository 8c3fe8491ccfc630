package app

import (
	"context"
	"errors"

	"restauranthub/internal/domain"
	apperrors "restauranthub/internal/errors"
)

// disabledBranches answers branch writes when no upstream is configured.
type disabledBranches struct{}

func (disabledBranches) Sync(context.Context) ([]domain.Branch, error) {
	return nil, errNoUpstream()
}

func (disabledBranches) SetOnline(context.Context, string, bool) (domain.Branch, error) {
	return domain.Branch{}, errNoUpstream()
}

func (disabledBranches) SetRushHour(context.Context, string, bool) (domain.Branch, error) {
	return domain.Branch{}, errNoUpstream()
}

func errNoUpstream() error {
	return apperrors.NewNetworkError("branch api", errors.New("upstream base url is not configured"))
}
