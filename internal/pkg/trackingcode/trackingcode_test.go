package trackingcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	code := Generate("VIC")
	assert.Regexp(t, `^VIC\d{8}$`, code)

	code = Generate("GRV")
	assert.Regexp(t, `^GRV\d{8}$`, code)
}

func TestNewTransactionID(t *testing.T) {
	id := NewTransactionID()
	assert.Regexp(t, `^TXN\d+[0-9A-F]{8}$`, id)
	assert.NotEqual(t, id, NewTransactionID())
}

func TestNewUTRNumber(t *testing.T) {
	assert.Regexp(t, `^UTR\d+[0-9A-F]{8}$`, NewUTRNumber())
}
