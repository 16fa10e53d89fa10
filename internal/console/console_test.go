package console

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestHandleInterruptReturnsRegister(t *testing.T) {
	register := HandleInterrupt(func() {}, zerolog.Nop())
	assert.NotNil(t, register)
	assert.NotPanics(t, register)
}
