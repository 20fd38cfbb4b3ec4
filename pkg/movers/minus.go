package movers

import (
	"context"
	"fmt"

	"github.com/aretw0/pathsampling/pkg/domain"
	"github.com/aretw0/pathsampling/pkg/ports"
)

// MinusMove is the minus-interface move. It can be placed in a mover tree
// but fails when run.
type MinusMove struct {
	base
}

// NewMinusMove creates a minus move.
func NewMinusMove(opts ...Option) *MinusMove {
	m := &MinusMove{base: newBase(newOptions("minus", opts))}
	m.logInit()
	return m
}

// Move always returns domain.ErrIncompleteMove.
func (m *MinusMove) Move(_ context.Context, _ ports.GlobalState) ([]domain.Sample, error) {
	return nil, fmt.Errorf("%s: %w", m.name, domain.ErrIncompleteMove)
}
