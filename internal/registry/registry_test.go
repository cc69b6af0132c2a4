package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/wrapgen/internal/models"
)

func TestOrdered_InsertionOrder(t *testing.T) {
	r := NewOrdered[string, int]("test", "key")

	for i, key := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Register(key, i))
	}

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, r.Keys())
	assert.Equal(t, []int{0, 1, 2}, r.Values())
	assert.Equal(t, 3, r.Len())
}

func TestOrdered_AppendOnly(t *testing.T) {
	r := NewOrdered[string, int]("test", "key")
	require.NoError(t, r.Register("a", 1))

	err := r.Register("a", 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	value, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, value)
}

func TestOrdered_GetOrRegister(t *testing.T) {
	r := NewOrdered[string, string]("test", "key")
	calls := 0
	create := func() string {
		calls++
		return fmt.Sprintf("v%d", calls)
	}

	v, created, err := r.GetOrRegister("k", create)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "v1", v)

	v, created, err = r.GetOrRegister("k", create)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "v1", v)
	assert.Equal(t, 1, calls)
}

func TestOrdered_Seal(t *testing.T) {
	r := NewOrdered[string, int]("test", "key")
	require.NoError(t, r.Register("a", 1))
	r.Seal()

	assert.True(t, r.Sealed())
	assert.Error(t, r.Register("b", 2))
	assert.False(t, r.Has("b"))
}

func TestOrdered_Validator(t *testing.T) {
	r := NewOrdered[string, *int]("test", "key")
	r.SetValidator(ChainValidators(
		NotEmptyKeyValidator[*int]("key"),
		NotNilValueValidator[string, int]("value"),
	))

	one := 1
	assert.Error(t, r.Register("", &one))
	assert.Error(t, r.Register("nil", nil))
	assert.NoError(t, r.Register("ok", &one))
}

func TestOrdered_ConcurrentRegistration(t *testing.T) {
	r := NewOrdered[string, int]("test", "key")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, _ = r.GetOrRegister(fmt.Sprintf("k%d", i%10), func() int { return i })
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, r.Len())
}

func optionsFor(method string, params ...string) *models.OptionsStruct {
	s := &models.OptionsStruct{
		Method:   method,
		Name:     method + "OptionsStruct",
		FuncType: method + "Options",
	}
	for _, p := range params {
		s.Fields = append(s.Fields, models.OptionsField{Name: p, Param: p, Type: "interface{}"})
	}
	return s
}

func TestOptionsRegistry_Ensure(t *testing.T) {
	r := NewOptionsRegistry()

	first := optionsFor("fetchTrades", "since", "limit", "params")
	got, conflict, err := r.Ensure(first)
	require.NoError(t, err)
	assert.False(t, conflict)
	assert.Same(t, first, got)

	// same shape from another exchange reuses the first struct
	got, conflict, err = r.Ensure(optionsFor("fetchTrades", "since", "limit", "params"))
	require.NoError(t, err)
	assert.False(t, conflict)
	assert.Same(t, first, got)

	// different shape keeps the first struct and reports a conflict
	got, conflict, err = r.Ensure(optionsFor("fetchTrades", "limit", "params"))
	require.NoError(t, err)
	assert.True(t, conflict)
	assert.Same(t, first, got)

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, []string{"fetchTrades"}, r.Conflicts())
	assert.Empty(t, r.Unreachable("fetchTrades"), "a subset of the fields stays settable")

	_, _, err = r.Ensure(optionsFor("fetchTrades", "until", "limit", "cursor"))
	require.NoError(t, err)
	_, _, err = r.Ensure(optionsFor("fetchTrades", "until", "since"))
	require.NoError(t, err)
	assert.Equal(t, []string{"cursor", "until"}, r.Unreachable("fetchTrades"))
	assert.Empty(t, r.Unreachable("fetchOrders"))
}

func TestOptionsRegistry_Merge(t *testing.T) {
	a := NewOptionsRegistry()
	_, _, err := a.Ensure(optionsFor("fetchTrades", "since", "limit"))
	require.NoError(t, err)

	b := NewOptionsRegistry()
	_, _, err = b.Ensure(optionsFor("fetchOHLCV", "since", "limit"))
	require.NoError(t, err)
	_, _, err = b.Ensure(optionsFor("fetchTrades", "limit"))
	require.NoError(t, err)
	_, _, err = b.Ensure(optionsFor("fetchOrders", "since", "limit"))
	require.NoError(t, err)

	conflicts, err := a.Merge(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"fetchTrades"}, conflicts)

	var methods []string
	for _, s := range a.All() {
		methods = append(methods, s.Method)
	}
	assert.Equal(t, []string{"fetchTrades", "fetchOHLCV", "fetchOrders"}, methods)

	existing, _ := a.Get("fetchTrades")
	assert.Len(t, existing.Fields, 2)
}

func TestOptionsRegistry_SealRejectsNewStructs(t *testing.T) {
	r := NewOptionsRegistry()
	_, _, err := r.Ensure(optionsFor("fetchTrades", "since", "limit"))
	require.NoError(t, err)
	r.Seal()

	_, _, err = r.Ensure(optionsFor("fetchOrders", "since", "limit"))
	assert.Error(t, err)

	// lookups of existing structs still work after sealing
	_, conflict, err := r.Ensure(optionsFor("fetchTrades", "since", "limit"))
	assert.NoError(t, err)
	assert.False(t, conflict)
}

func TestDocRegistry(t *testing.T) {
	r := NewDocRegistry()

	r.Remember("fetchTicker", "")
	assert.Equal(t, 0, r.Len())

	r.Remember("fetchTicker", "  fetches a price ticker  ")
	r.Remember("fetchTicker", "another doc")

	assert.Equal(t, "fetches a price ticker", r.Resolve("fetchTicker", ""))
	assert.Equal(t, "own doc", r.Resolve("fetchTicker", "own doc"))
	assert.Equal(t, "", r.Resolve("fetchOrders", ""))
	assert.Equal(t, 1, r.Len())
}
