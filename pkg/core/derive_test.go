package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/humus/pkg/core"
)

func TestPositiveOrNA(t *testing.T) {
	assert.True(t, core.PositiveOrNA(28820).Equal(core.Number(28820)))
	assert.False(t, core.PositiveOrNA(0).IsApplicable())
	assert.False(t, core.PositiveOrNA(-28820).IsApplicable())
}

func TestFloorZero(t *testing.T) {
	assert.True(t, core.FloorZero(1100).Equal(core.Number(1100)))
	assert.True(t, core.FloorZero(-5).Equal(core.Number(0)))
}

func TestRatio(t *testing.T) {
	assert.True(t, core.Ratio(833096, core.Number(8)).Equal(core.Number(104137)))
	assert.False(t, core.Ratio(833096, core.Number(0)).IsApplicable())
	assert.False(t, core.Ratio(1, core.NotApplicable()).IsApplicable())
	assert.False(t, core.Ratio(1, core.Value{}).IsApplicable())
}
