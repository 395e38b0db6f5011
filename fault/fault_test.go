package fault

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFaultError(t *testing.T) {
	f := Abort(7, "mismatched close tag </%s>", "a")
	assert.True(t, f.IsFatal())
	assert.Equal(t, "fatal fault at offset 7: mismatched close tag </a>", f.Error())
	f.Line, f.Column = 2, 3
	assert.Equal(t, "fatal fault at offset 7 (2:3): mismatched close tag </a>", f.Error())
}

func TestWrapKeepsCause(t *testing.T) {
	err := Recover(3, "dropped").Wrap()
	f, ok := AsFault(err)
	assert.True(t, ok)
	assert.Equal(t, 3, f.Offset)
	_, ok = AsFault(nil)
	assert.False(t, ok)
}

func TestList(t *testing.T) {
	var l List
	assert.NoError(t, l.Err())
	l = append(l, Recover(1, "a"), Abort(5, "b"), Abort(9, "c"))
	f, ok := l.Fatal()
	assert.True(t, ok)
	assert.Equal(t, 5, f.Offset)
	assert.True(t, l.HasFatal())
	assert.Contains(t, l.Err().Error(), "and 2 more faults")
}
