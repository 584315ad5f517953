package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusDeliversOnlyAfterSwap(t *testing.T) {
	b := NewBus()
	var got []ModelRemoved
	Subscribe(b, func(ev ModelRemoved) { got = append(got, ev) })

	Emit(b, ModelRemoved{ModelName: "cart"})
	assert.Equal(t, 1, b.Pending())
	assert.Equal(t, 0, b.DispatchAll())
	assert.Empty(t, got)

	b.SwapBuffers()
	assert.Equal(t, 0, b.Pending())
	assert.Equal(t, 1, b.DispatchAll())
	assert.Equal(t, []ModelRemoved{{ModelName: "cart"}}, got)

	// front buffer is drained after dispatch
	assert.Equal(t, 0, b.DispatchAll())
}

func TestBusRoutesByType(t *testing.T) {
	b := NewBus()
	removed, contacts := 0, 0
	Subscribe(b, func(ModelRemoved) { removed++ })
	Subscribe(b, func(ContactBegan) { contacts++ })

	Emit(b, ContactBegan{})
	Emit(b, ContactBegan{})
	Emit(b, ModelRemoved{})
	b.SwapBuffers()
	b.DispatchAll()

	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, contacts)
}
