package csharp

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
	tests := []struct {
		name string
		cat  typecat.Category
		want string
	}{
		{"dynamic", typecat.Dynamic{}, "object"},
		{"dictionary", typecat.Dictionary{}, "Dictionary<string, object>"},
		{"string", typecat.PlainString{}, "string"},
		{"integer", typecat.Integer{}, "Int64"},
		{"float", typecat.Float{}, "double"},
		{"boolean", typecat.Boolean{}, "bool"},
		{"nested list", typecat.List{Inner: typecat.List{Inner: typecat.Integer{}}}, "List<List<Int64>>"},
		{"nested dictionary", typecat.NestedDictionary{Value: typecat.DomainAlias{Name: "Ticker"}}, "Dictionary<string, Ticker>"},
		{"aliased domain", typecat.DomainAlias{Name: "Market"}, "MarketInterface"},
		{"unknown", typecat.Unknown{Raw: "Partial<Order>"}, "Partial<Order>"},
		{"list of unknown", typecat.Classify("Foo.Bar[]"), "List<Foo.Bar>"},
		{"generic array of unknown", typecat.Classify("Array<Foo.Bar>"), "List<Foo.Bar>"},
		{"dictionary of unknown", typecat.Classify("Dictionary<string, Foo.Bar>"), "Dictionary<string, Foo.Bar>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := b.MapType("fetchSomething", tt.cat, true)
			second := b.MapType("fetchSomething", tt.cat, true)
			assert.Equal(t, tt.want, first.Text)
			assert.Equal(t, first, second)
		})
	}
}

func TestMapType_Overrides(t *testing.T) {
	b := New()

	ts := b.MapAsync(true, b.MapType("fetchTime", typecat.Dynamic{}, true))
	assert.Equal(t, "Task<Int64>", ts.Text)

	ob := b.MapType("watchOrderBookForSymbols", typecat.DomainAlias{Name: "OrderBook"}, true)
	assert.Equal(t, "IOrderBook", ob.Text)
	assert.Equal(t, backend.CoerceCast, backend.CoercionFor(ob))

	// overrides never apply to parameters
	assert.Equal(t, "object", b.MapType("fetchTime", typecat.Dynamic{}, false).Text)
}

func TestMapAsync(t *testing.T) {
	b := New()

	trades := b.MapType("fetchTrades", typecat.Classify("Trade[]"), true)
	async := b.MapAsync(true, trades)
	assert.Equal(t, "Task<List<Trade>>", async.Text)
	assert.Equal(t, "async Task<List<Trade>>", b.ResultSignature(async))

	void := b.MapAsync(true, b.MapType("cancelAll", typecat.Void{}, true))
	assert.Equal(t, "Task", void.Text)

	sync := b.MapAsync(false, trades)
	assert.Equal(t, "List<Trade>", b.ResultSignature(sync))
}

func TestSynthesizeParameters(t *testing.T) {
	b := New()
	params := []models.ParameterDescriptor{
		{Name: "symbol", Type: "Str"},
		{Name: "since", Type: "Int", Default: "undefined"},
		{Name: "limit", Type: "Int", Default: "100"},
		{Name: "reduceOnly", Type: "Bool", Optional: true},
		{Name: "timeframe", Type: "string", Default: "'1m'"},
		{Name: "params", Default: "{}"},
	}

	set, err := b.SynthesizeParameters("fetchOHLCV", params)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"string symbol",
		"Int64? since2 = 0",
		"Int64? limit = 100",
		"bool? reduceOnly = null",
		`string timeframe = "1m"`,
		"object parameters = null",
	}, set.Declarations)
	assert.Equal(t, []string{"var since = since2 == 0 ? null : (object)since2;"}, set.Prologue)
	assert.Equal(t, []string{"symbol", "since", "limit", "reduceOnly", "timeframe", "parameters"}, set.CallArgs)
	assert.Nil(t, set.Options)
}

func TestSynthesizeParameters_ReferenceDefault(t *testing.T) {
	b := New()
	set, err := b.SynthesizeParameters("fetchMarkets", []models.ParameterDescriptor{
		{Name: "type", Type: "any", Default: "'spot'"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Dictionary<string, object> type = null"}, set.Declarations)
	assert.Equal(t, []string{`type ??= "spot";`}, set.Prologue)
}

func TestSynthesizeBody(t *testing.T) {
	b := New()
	result := b.MapAsync(true, b.MapType("fetchTrades", typecat.Classify("Trade[]"), true))
	params, err := b.SynthesizeParameters("fetchTrades", []models.ParameterDescriptor{
		{Name: "symbol", Type: "Str"},
		{Name: "since", Type: "Int", Optional: true},
	})
	require.NoError(t, err)

	body := b.SynthesizeBody(backend.Call{Method: "fetchTrades", IsAsync: true, Params: params, Result: result})

	assert.Equal(t, []string{
		"var since = since2 == 0 ? null : (object)since2;",
		"var res = await this.fetchTrades(symbol, since);",
		"return ((IList<object>)res).Select(item => new Trade(item)).ToList<Trade>();",
	}, body)
}

func TestSynthesizeBody_Void(t *testing.T) {
	b := New()
	result := b.MapAsync(true, b.MapType("cancelAllOrders", typecat.Void{}, true))

	body := b.SynthesizeBody(backend.Call{Method: "cancelAllOrders", IsAsync: true, Result: result})
	assert.Equal(t, []string{"await this.cancelAllOrders();"}, body)
}

func TestSynthesizeCoercion(t *testing.T) {
	b := New()
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"dynamic", "", []string{"return res;"}},
		{"constructible", "Ticker", []string{"return new Ticker(res);"}},
		{"dictionary list", "Dictionary<any>[]", []string{"return ((IList<object>)res).Select(item => (item as Dictionary<string, object>)).ToList();"}},
		{"scalar list", "Num[]", []string{"return ((IList<object>)res).Select(item => (double)item).ToList<double>();"}},
		{"string", "Str", []string{"return (string)res;"}},
		{"nested scalar list", "Int[][]", []string{
			"return ((IList<object>)res).Select(item => ((IList<object>)item).Select(x1 => (Int64)x1).ToList<Int64>()).ToList<List<Int64>>();",
		}},
		{"list of typed maps", "Dictionary<Ticker>[]", []string{
			"return ((IList<object>)res).Select(item => ((Dictionary<string, object>)item).ToDictionary(x1 => x1.Key, x1 => new Ticker(x1.Value))).ToList<Dictionary<string, Ticker>>();",
		}},
		{"map of constructible", "Dictionary<Ticker>", []string{
			"var dict = (Dictionary<string, object>)res;",
			"var result = new Dictionary<string, Ticker>();",
			"foreach (var key in dict.Keys)",
			"{",
			"    result[key] = new Ticker(dict[key]);",
			"}",
			"return result;",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := b.MapType("fetchSomething", typecat.Classify(tt.raw), true)
			assert.Equal(t, tt.want, b.SynthesizeCoercion(mapped, "res"))
		})
	}
}
