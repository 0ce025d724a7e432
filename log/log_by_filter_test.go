package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEveryN(t *testing.T) {
	e := &EveryN{N: 3}
	hits := 0
	for i := 0; i < 9; i++ {
		if e.check() {
			hits++
		}
	}
	assert.Equal(t, 3, hits)

	// Zero N and nil filters always pass.
	assert.True(t, (&EveryN{}).check())
	var n *EveryN
	assert.True(t, n.check())
}

func TestIfCondition(t *testing.T) {
	assert.True(t, (&ifCondition{Condition: true}).check())
	assert.False(t, (&ifCondition{Condition: false}).check())
}
