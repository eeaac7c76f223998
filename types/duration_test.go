package types

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		durStr string
		expErr bool
		expDur time.Duration
	}{
		{"", true, 0},
		{"s", true, 0},
		{"2smin", true, 0},
		{"2+s", true, 0},
		{"500", false, 500 * time.Millisecond},
		{"0", false, 0},
		{"0.5", false, 500 * time.Microsecond},
		{"-200", false, -200 * time.Millisecond},
		{"1.12s", false, 1120 * time.Millisecond},
		{"1s", false, 1 * time.Second},
		{"1m15s", false, 75 * time.Second},
		{"1h2m", false, time.Hour + 2*time.Minute},
		{"-2h", false, -2 * time.Hour},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("tc_%s_exp", tc.durStr), func(t *testing.T) {
			t.Parallel()
			result, err := ParseDuration(tc.durStr)
			if tc.expErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expDur, result)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	t.Parallel()
	t.Run("String", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "1m15s", Duration(75*time.Second).String())
	})
	t.Run("JSON", func(t *testing.T) {
		t.Parallel()
		t.Run("Unmarshal", func(t *testing.T) {
			t.Parallel()
			t.Run("Number", func(t *testing.T) {
				t.Parallel()
				var d Duration
				assert.NoError(t, json.Unmarshal([]byte(`75000`), &d))
				assert.Equal(t, Duration(75*time.Second), d)
			})
			t.Run("Seconds", func(t *testing.T) {
				t.Parallel()
				var d Duration
				assert.NoError(t, json.Unmarshal([]byte(`"75s"`), &d))
				assert.Equal(t, Duration(75*time.Second), d)
			})
			t.Run("String", func(t *testing.T) {
				t.Parallel()
				var d Duration
				assert.NoError(t, json.Unmarshal([]byte(`"1m15s"`), &d))
				assert.Equal(t, Duration(75*time.Second), d)
			})
			t.Run("Invalid", func(t *testing.T) {
				t.Parallel()
				var d Duration
				assert.Error(t, json.Unmarshal([]byte(`"1morning"`), &d))
			})
		})
		t.Run("Marshal", func(t *testing.T) {
			t.Parallel()
			d := Duration(75 * time.Second)
			data, err := json.Marshal(d)
			assert.NoError(t, err)
			assert.Equal(t, `"1m15s"`, string(data))
		})
	})
	t.Run("Text", func(t *testing.T) {
		t.Parallel()
		var d Duration
		assert.NoError(t, d.UnmarshalText([]byte(`10s`)))
		assert.Equal(t, Duration(10*time.Second), d)

		t.Run("Number", func(t *testing.T) {
			t.Parallel()
			var d Duration
			assert.NoError(t, d.UnmarshalText([]byte(`500`)))
			assert.Equal(t, Duration(500*time.Millisecond), d)
		})
	})
}

func TestNullDuration(t *testing.T) {
	t.Parallel()
	t.Run("JSON", func(t *testing.T) {
		t.Parallel()
		t.Run("Unmarshal", func(t *testing.T) {
			t.Parallel()
			t.Run("Number", func(t *testing.T) {
				t.Parallel()
				var d NullDuration
				assert.NoError(t, json.Unmarshal([]byte(`75000`), &d))
				assert.Equal(t, NullDuration{Duration(75 * time.Second), true}, d)
			})
			t.Run("String", func(t *testing.T) {
				t.Parallel()
				var d NullDuration
				assert.NoError(t, json.Unmarshal([]byte(`"1m15s"`), &d))
				assert.Equal(t, NullDuration{Duration(75 * time.Second), true}, d)
			})
			t.Run("Null", func(t *testing.T) {
				t.Parallel()
				var d NullDuration
				assert.NoError(t, json.Unmarshal([]byte(`null`), &d))
				assert.Equal(t, NullDuration{Duration(0), false}, d)
			})
		})
		t.Run("Marshal", func(t *testing.T) {
			t.Parallel()
			t.Run("Valid", func(t *testing.T) {
				t.Parallel()
				d := NullDuration{Duration(75 * time.Second), true}
				data, err := json.Marshal(d)
				assert.NoError(t, err)
				assert.Equal(t, `"1m15s"`, string(data))
			})
			t.Run("null", func(t *testing.T) {
				t.Parallel()
				var d NullDuration
				data, err := json.Marshal(d)
				assert.NoError(t, err)
				assert.Equal(t, `null`, string(data))
			})
		})
	})
	t.Run("Text", func(t *testing.T) {
		t.Parallel()
		var d NullDuration
		assert.NoError(t, d.UnmarshalText([]byte(`10s`)))
		assert.Equal(t, NullDurationFrom(10*time.Second), d)

		t.Run("Empty", func(t *testing.T) {
			t.Parallel()
			var d NullDuration
			assert.NoError(t, d.UnmarshalText([]byte(``)))
			assert.Equal(t, NullDuration{}, d)
		})
	})
	t.Run("ValueOrZero", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, Duration(0), NullDuration{}.ValueOrZero())
		assert.Equal(t, Duration(time.Second), NullDurationFrom(time.Second).ValueOrZero())
	})
	t.Run("TimeDuration", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 30*time.Second, NullDurationFrom(30*time.Second).TimeDuration())
	})
}

func TestNewNullDuration(t *testing.T) {
	t.Parallel()
	assert.Equal(t, NullDuration{Duration(10 * time.Second), true}, NewNullDuration(10*time.Second, true))
	assert.Equal(t, NullDuration{Duration(10 * time.Second), false}, NewNullDuration(10*time.Second, false))
}
