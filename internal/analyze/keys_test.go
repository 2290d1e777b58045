package analyze

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyOf(t *testing.T) {
	unit := loadSource(t, `package shop

type Item struct{}

type Store interface {
	Close() error
	Get(id string) (*Item, bool)
	Put(items ...Item)
	Reset()
	Each(fn func(Item) bool) int
}
`)

	iface, ok := unit.LookupType("Store").Underlying().(*types.Interface)
	require.True(t, ok)

	keys := make(map[string]BindingKey)
	for i := range iface.NumMethods() {
		m := iface.Method(i)
		keys[m.Name()] = KeyOf(m)
	}

	assert.Equal(t, BindingKey("Close()error"), keys["Close"])
	assert.Equal(t, BindingKey("Get(string)(*shop.Item,bool)"), keys["Get"])
	assert.Equal(t, BindingKey("Put(...shop.Item)"), keys["Put"])
	assert.Equal(t, BindingKey("Reset()"), keys["Reset"])
	assert.Equal(t, BindingKey("Each(func(shop.Item) bool)int"), keys["Each"])
}

func TestBindingKey_Name(t *testing.T) {
	assert.Equal(t, "Close", BindingKey("Close()error").Name())
	assert.Equal(t, "Bare", BindingKey("Bare").Name())
	assert.Equal(t, []BindingKey{"A()", "B()"}, Keys("A()", "B()"))
}
