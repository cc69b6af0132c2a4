package java

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/wrapgen/internal/backend"
	"github.com/toyz/wrapgen/internal/models"
	"github.com/toyz/wrapgen/internal/typecat"
)

func TestMapType(t *testing.T) {
	b := New()

	assert.Equal(t, "List<List<Long>>", b.MapType("fetchX", typecat.Classify("Int[][]"), true).Text)
	assert.Equal(t, "Long", b.MapType("fetchX", typecat.Integer{}, true).Text)
	assert.Equal(t, "long", b.MapType("fetchX", typecat.Integer{}, false).Text)
	assert.Equal(t, "double", b.MapType("fetchX", typecat.Float{}, false).Text)
	assert.Equal(t, "Boolean", b.MapType("fetchX", typecat.Boolean{}, true).Text)
	assert.Equal(t, "Map<String, Object>", b.MapType("fetchX", typecat.Dictionary{}, true).Text)
	assert.Equal(t, "Map<String, List<Trade>>", b.MapType("fetchX", typecat.Classify("Dictionary<Trade[]>"), true).Text)
	assert.Equal(t, "Object", b.MapType("fetchX", typecat.Dynamic{}, false).Text)
}

func TestMapType_Overrides(t *testing.T) {
	b := New()

	assert.Equal(t, "CompletableFuture<Long>", b.MapAsync(true, b.MapType("fetchTime", typecat.Float{}, true)).Text)
	assert.Equal(t, "IOrderBook", b.MapType("watchOrderBook", typecat.Dictionary{}, true).Text)
}

func TestMapAsync(t *testing.T) {
	b := New()

	list := b.MapAsync(true, b.MapType("fetchTrades", typecat.Classify("Trade[]"), true))
	assert.Equal(t, "CompletableFuture<List<Trade>>", b.ResultSignature(list))

	void := b.MapAsync(true, b.MapType("cancelAllOrders", typecat.Void{}, true))
	assert.Equal(t, "CompletableFuture<Void>", void.Text)

	syncVoid := b.MapAsync(false, b.MapType("close", typecat.Void{}, true))
	assert.Equal(t, "void", syncVoid.Text)
}

func TestSynthesizeParameters(t *testing.T) {
	b := New()

	set, err := b.SynthesizeParameters("fetchTrades", []models.ParameterDescriptor{
		{Name: "symbol", Type: "Str"},
		{Name: "since", Type: "Int", Default: "undefined"},
		{Name: "limit", Type: "Int", Default: "100"},
		{Name: "default", Type: "Bool"},
		{Name: "params", Type: "{}", Default: "{}"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"String symbol",
		"Long since",
		"Long limit2",
		"boolean defaultValue",
		"Map<String, Object> params",
	}, set.Declarations)
	assert.Equal(t, []string{"Object limit = limit2 == null ? 100 : limit2;"}, set.Prologue)
	assert.Equal(t, []string{"symbol", "since", "limit", "defaultValue", "params"}, set.CallArgs)
}

func TestSynthesizeBody(t *testing.T) {
	b := New()
	params, err := b.SynthesizeParameters("fetchTicker", []models.ParameterDescriptor{
		{Name: "symbol", Type: "Str"},
		{Name: "params", Default: "{}"},
	})
	require.NoError(t, err)

	async := b.MapAsync(true, b.MapType("fetchTicker", typecat.Classify("Ticker"), true))
	assert.Equal(t, []string{
		"return this.core.fetchTicker(symbol, params).thenApply(res -> {",
		"    return new Ticker(res);",
		"});",
	}, b.SynthesizeBody(backend.Call{Method: "fetchTicker", IsAsync: true, Params: params, Result: async}))

	sync := b.MapAsync(false, b.MapType("market", typecat.Classify("Market"), true))
	assert.Equal(t, []string{
		"Object res = this.core.market(symbol, params);",
		"return new MarketInterface(res);",
	}, b.SynthesizeBody(backend.Call{Method: "market", Params: params, Result: sync}))

	void := b.MapAsync(true, b.MapType("cancelAllOrders", typecat.Void{}, true))
	assert.Equal(t, []string{
		"return this.core.cancelAllOrders(symbol, params).thenAccept(res -> {});",
	}, b.SynthesizeBody(backend.Call{Method: "cancelAllOrders", IsAsync: true, Params: params, Result: void}))
}

func TestSynthesizeCoercion(t *testing.T) {
	b := New()

	list := b.MapType("fetchTrades", typecat.Classify("Trade[]"), true)
	assert.Equal(t, []string{
		"return ((List<Object>) res).stream().map(item -> new Trade(item)).collect(Collectors.toList());",
	}, b.SynthesizeCoercion(list, "res"))

	dicts := b.MapType("fetchX", typecat.Classify("Dict[]"), true)
	assert.Equal(t, []string{
		"return ((List<Object>) res).stream().map(item -> (Map<String, Object>) item).collect(Collectors.toList());",
	}, b.SynthesizeCoercion(dicts, "res"))

	tickers := b.MapType("fetchTickers", typecat.Classify("Dictionary<Ticker>"), true)
	assert.Equal(t, []string{
		"Map<String, Object> dict = (Map<String, Object>) res;",
		"Map<String, Ticker> result = new HashMap<>();",
		"for (String key : dict.keySet()) {",
		"    result.put(key, new Ticker(dict.get(key)));",
		"}",
		"return result;",
	}, b.SynthesizeCoercion(tickers, "res"))

	ohlcv := b.MapType("fetchX", typecat.Classify("Trade[][]"), true)
	assert.Equal(t, []string{
		"return ((List<Object>) res).stream().map(item -> ((List<Object>) item).stream().map(x1 -> new Trade(x1)).collect(Collectors.toList())).collect(Collectors.toList());",
	}, b.SynthesizeCoercion(ohlcv, "res"))

	str := b.MapType("fetchX", typecat.PlainString{}, true)
	assert.Equal(t, []string{"return (String) res;"}, b.SynthesizeCoercion(str, "res"))
}
