package validate_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"testing"

	"github.com/five82/thermo/internal/logging"
	"github.com/five82/thermo/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() map[string]any {
	return map[string]any{
		validate.FieldAmbient:   22.5,
		validate.FieldTarget:    21.0,
		validate.FieldBattery:   4.2,
		validate.FieldIndicator: "NORMAL",
		validate.FieldDevice:    "enfriando",
	}
}

func TestValidPayloadPassesThrough(t *testing.T) {
	res := validate.Validate(validPayload(), validate.DefaultRules(), logging.Logger{})

	require.False(t, res.HasErrors())
	assert.Equal(t, 22.5, res.Fields[validate.FieldAmbient])
	assert.Equal(t, 21.0, res.Fields[validate.FieldTarget])
	assert.Equal(t, "NORMAL", res.Fields[validate.FieldIndicator])
	assert.Equal(t, "ENFRIANDO", res.Fields[validate.FieldDevice])
}

func TestOutOfRangeBecomesNA(t *testing.T) {
	cases := map[string]float64{
		validate.FieldAmbient: 50.01,
		validate.FieldTarget:  14.9,
		validate.FieldBattery: -1,
	}
	for field, value := range cases {
		t.Run(field, func(t *testing.T) {
			payload := validPayload()
			payload[field] = value

			res := validate.Validate(payload, validate.DefaultRules(), logging.Logger{})

			require.True(t, res.HasErrors())
			assert.Equal(t, validate.OutOfRange, res.Fields[field])
			require.Len(t, res.Issues, 1)
			assert.Equal(t, field, res.Issues[0].Field)
		})
	}
}

func TestBoundsAreInclusive(t *testing.T) {
	payload := validPayload()
	payload[validate.FieldTarget] = 15.0
	payload[validate.FieldBattery] = 5.0

	res := validate.Validate(payload, validate.DefaultRules(), logging.Logger{})

	require.False(t, res.HasErrors())
}

func TestWrongTypeBecomesError(t *testing.T) {
	for _, value := range []any{"22.5", nil, true, math.NaN(), math.Inf(1), []any{1}} {
		payload := validPayload()
		payload[validate.FieldAmbient] = value

		res := validate.Validate(payload, validate.DefaultRules(), logging.Logger{})

		assert.Equal(t, validate.Invalid, res.Fields[validate.FieldAmbient], "value %v", value)
		assert.True(t, res.HasErrors())
	}
}

func TestNumericKinds(t *testing.T) {
	for _, value := range []any{int(22), int64(22), float32(22), uint8(22), json.Number("22.0")} {
		_, sentinel := validate.Field(validate.FieldRule{Kind: validate.KindNumeric, Min: 0, Max: 50}, value)
		assert.Empty(t, sentinel, "value %T", value)
	}
}

func TestEnumIsCaseInsensitive(t *testing.T) {
	for _, value := range []string{"ENCENDIDO", "encendido", "Encendido"} {
		payload := validPayload()
		payload[validate.FieldDevice] = value

		res := validate.Validate(payload, validate.DefaultRules(), logging.Logger{})

		require.False(t, res.HasErrors(), value)
		assert.Equal(t, "ENCENDIDO", res.Fields[validate.FieldDevice])
	}
}

func TestDisallowedEnumBecomesError(t *testing.T) {
	payload := validPayload()
	payload[validate.FieldIndicator] = "EMPTY"

	res := validate.Validate(payload, validate.DefaultRules(), logging.Logger{})

	assert.Equal(t, validate.Invalid, res.Fields[validate.FieldIndicator])
	assert.True(t, res.HasErrors())
}

func TestMissingRuledFieldIsInvalid(t *testing.T) {
	payload := validPayload()
	delete(payload, validate.FieldBattery)

	res := validate.Validate(payload, validate.DefaultRules(), logging.Logger{})

	assert.Equal(t, validate.Invalid, res.Fields[validate.FieldBattery])
}

func TestUnruledFieldPassesThrough(t *testing.T) {
	payload := validPayload()
	payload["firmware"] = "v9"

	res := validate.Validate(payload, validate.DefaultRules(), logging.Logger{})

	require.False(t, res.HasErrors())
	assert.Equal(t, "v9", res.Fields["firmware"])
}

func TestRejectionIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.Wrap(slog.New(slog.NewTextHandler(&buf, nil)))
	payload := validPayload()
	payload[validate.FieldAmbient] = 99.0

	validate.Validate(payload, validate.DefaultRules(), logger)

	out := buf.String()
	assert.Contains(t, out, "field=temperature_ambient")
	assert.Contains(t, out, "received=99")
	assert.Contains(t, out, "level=WARN")
}

func TestFieldRuleCheck(t *testing.T) {
	require.NoError(t, validate.FieldRule{Kind: validate.KindNumeric, Min: 1, Max: 2}.Check())
	require.Error(t, validate.FieldRule{Kind: validate.KindNumeric, Min: 3, Max: 2}.Check())
	require.Error(t, validate.FieldRule{Kind: validate.KindEnum}.Check())
	require.Error(t, validate.FieldRule{Kind: "regex"}.Check())
}
