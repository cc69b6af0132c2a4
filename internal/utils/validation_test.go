package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validatorCase struct {
	value   string
	wantErr bool
}

func runValidator(t *testing.T, validator Validator[string], cases []validatorCase) {
	t.Helper()
	for _, tc := range cases {
		err := validator(tc.value)
		if tc.wantErr {
			assert.Error(t, err, "value %q", tc.value)
		} else {
			assert.NoError(t, err, "value %q", tc.value)
		}
	}
}

func TestValidationError(t *testing.T) {
	assert.Equal(t, "validation error for field 'output_dir': cannot be empty",
		ValidationError{Field: "output_dir", Message: "cannot be empty"}.Error())
	assert.Equal(t, "validation error: invalid format",
		ValidationError{Message: "invalid format"}.Error())
}

func TestStringValidators(t *testing.T) {
	t.Run("NotEmpty", func(t *testing.T) {
		runValidator(t, NotEmpty("output_dir"), []validatorCase{
			{"build", false},
			{"", true},
			{"   ", false},
		})
	})

	t.Run("MatchesRegex", func(t *testing.T) {
		runValidator(t, MatchesRegex("exchange", `^[a-z0-9]+$`), []validatorCase{
			{"binance", false},
			{"bit2c", false},
			{"Binance", true},
			{"", true},
		})
	})

	t.Run("CompilesAsRegex", func(t *testing.T) {
		runValidator(t, CompilesAsRegex("patches[0].pattern"), []validatorCase{
			{`\(object\)\s*null`, false},
			{`(unclosed`, true},
		})
		err := CompilesAsRegex("patches[0].pattern")(`(unclosed`)
		assert.Contains(t, err.Error(), "not a valid regular expression")
	})

	t.Run("IsValidGoIdentifier", func(t *testing.T) {
		runValidator(t, IsValidGoIdentifier("go.package"), []validatorCase{
			{"ccxt", false},
			{"ccxt_pro", false},
			{"", true},
			{"1ccxt", true},
			{"ccxt-go", true},
			{"func", true},
		})
	})

	t.Run("IsQualifiedName", func(t *testing.T) {
		runValidator(t, IsQualifiedName("java.package"), []validatorCase{
			{"ccxt", false},
			{"io.github.ccxt", false},
			{"", true},
			{"io.github.", true},
			{"io.1ccxt", true},
		})
	})

	t.Run("IsOneOf", func(t *testing.T) {
		runValidator(t, IsOneOf("backend", "csharp", "go", "java"), []validatorCase{
			{"csharp", false},
			{"go", false},
			{"rust", true},
			{"Go", true},
		})
	})
}

func TestSliceValidators(t *testing.T) {
	require.NoError(t, SliceNotEmpty[string]("backends")([]string{"go"}))
	require.Error(t, SliceNotEmpty[string]("backends")(nil))

	each := ValidateEach("backends", IsOneOf("backend", "csharp", "go", "java"))
	assert.NoError(t, each([]string{"csharp", "go"}))
	assert.NoError(t, each([]string{}))

	err := each([]string{"go", "rust"})
	require.Error(t, err)
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "backends[1]", ve.Field)
	assert.Equal(t, "rust", ve.Value)
	assert.Equal(t, "must be one of: [csharp go java]", ve.Message)
}

func TestValidatorChain(t *testing.T) {
	chain := NewValidatorChain(
		NotEmpty("csharp.namespace"),
		IsQualifiedName("csharp.namespace"),
	)

	for value, wantErr := range map[string]bool{
		"ccxt":      false,
		"ccxt.pro":  false,
		"":          true,
		"ccxt..pro": true,
	} {
		err := chain.Validate(value)
		assert.Equal(t, wantErr, err != nil, "value %q: %v", value, err)
	}

	err := chain.Validate("")
	assert.Contains(t, err.Error(), "cannot be empty", "first failing validator wins")
}
