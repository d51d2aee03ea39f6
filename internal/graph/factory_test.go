package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackageNodeFactory_SizeProperty(t *testing.T) {
	// Only the constructors are checked here: an empty size property
	// defaults to total and an explicit one is kept. No class is decoded.
	f := NewPackageNodeFactory("")
	assert.Equal(t, SizeTotal, f.SizeProperty)

	cf := NewClassNodeFactory(SizeCode)
	assert.Equal(t, SizeCode, cf.SizeProperty)
}
