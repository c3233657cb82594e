package helpers

import (
	"encoding/json"
	"math"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profilePatch struct {
	Email    *string         `patch:"email"`
	Phone    *string         `patch:"phone_number"`
	Price    *decimal.Decimal `patch:"price"`
	Photo    []byte          `patch:"photo"`
	Ignored  *string
	Internal *string `patch:"-"`
}

func ptr[T any](v T) *T { return &v }

func TestPatchColumnsOnlySetFields(t *testing.T) {
	cols := PatchColumns(profilePatch{
		Email:    ptr("a@b.c"),
		Photo:    []byte{1, 2},
		Ignored:  ptr("x"),
		Internal: ptr("y"),
	})

	assert.Equal(t, map[string]any{"email": "a@b.c", "photo": []byte{1, 2}}, cols)
}

func TestPatchColumnsEmpty(t *testing.T) {
	assert.Empty(t, PatchColumns(profilePatch{}))
	assert.Empty(t, PatchColumns((*profilePatch)(nil)))
	assert.Empty(t, PatchColumns(42))
}

func TestPatchColumnsDereferencesValues(t *testing.T) {
	price := decimal.RequireFromString("12.50")
	cols := PatchColumns(&profilePatch{Price: &price})

	require.Contains(t, cols, "price")
	assert.True(t, price.Equal(cols["price"].(decimal.Decimal)))
}

func TestParseJSONInt(t *testing.T) {
	cases := map[string]int64{`3`: 3, `"4"`: 4, `5.0`: 5, ` "12" `: 12, `-2`: -2, `9223372036854775807.0`: math.MaxInt64}
	for in, want := range cases {
		got, err := ParseJSONInt(json.RawMessage(in))
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{`3.5`, `"abc"`, `null`, ``, `true`, `[1]`, `""`,
		`18446744073709551617`, `"18446744073709551617"`, `-9223372036854775809`, `1e30`} {
		_, err := ParseJSONInt(json.RawMessage(in))
		assert.ErrorIs(t, err, ErrNotANumber, in)
	}
}

func TestParseJSONDecimal(t *testing.T) {
	got, err := ParseJSONDecimal(json.RawMessage(`"19.99"`))
	require.NoError(t, err)
	assert.Equal(t, "19.99", got.String())

	got, err = ParseJSONDecimal(json.RawMessage(`7.5`))
	require.NoError(t, err)
	assert.Equal(t, "7.5", got.String())

	_, err = ParseJSONDecimal(json.RawMessage(`{"a":1}`))
	assert.ErrorIs(t, err, ErrNotANumber)
}

func TestParseJSONString(t *testing.T) {
	s, ok := ParseJSONString(json.RawMessage(`"50ml"`))
	assert.True(t, ok)
	assert.Equal(t, "50ml", s)

	s, ok = ParseJSONString(json.RawMessage(`12345`))
	assert.True(t, ok)
	assert.Equal(t, "12345", s)

	_, ok = ParseJSONString(json.RawMessage(`null`))
	assert.False(t, ok)
	_, ok = ParseJSONString(json.RawMessage(`{}`))
	assert.False(t, ok)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)
	assert.True(t, PasswordCompare(hash, []byte("secret1")))
	assert.False(t, PasswordCompare(hash, []byte("secret2")))
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/recent-orders?limit=50", nil)
	assert.Equal(t, 20, QueryInt(r, "limit", 5, 1, 20))

	r = httptest.NewRequest("GET", "/recent-orders?limit=0", nil)
	assert.Equal(t, 1, QueryInt(r, "limit", 5, 1, 20))

	r = httptest.NewRequest("GET", "/recent-orders?limit=abc", nil)
	assert.Equal(t, 5, QueryInt(r, "limit", 5, 1, 20))

	r = httptest.NewRequest("GET", "/recent-orders", nil)
	assert.Equal(t, 5, QueryInt(r, "limit", 5, 1, 20))
}

func TestBaseURLAndPhotoURL(t *testing.T) {
	r := httptest.NewRequest("GET", "http://shop.local:5000/perfumes", nil)
	assert.Equal(t, "http://shop.local:5000", BaseURL(r))

	r.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://shop.local:5000/perfumes/photo/9", PhotoURL(BaseURL(r), 9))
}

func TestParseID(t *testing.T) {
	id, ok := ParseID(" 12 ")
	assert.True(t, ok)
	assert.Equal(t, uint(12), id)

	for _, in := range []string{"0", "-1", "x", ""} {
		_, ok := ParseID(in)
		assert.False(t, ok, in)
	}
}

type signupProbe struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,has_at"`
	Size     string `json:"size" validate:"omitempty,perfume_size"`
}

func TestFirstValidationMessage(t *testing.T) {
	v := NewValidator()
	msgs := map[string]string{
		"username.required": "All fields are required",
		"email.has_at":      "Invalid email format",
	}

	err := v.Struct(signupProbe{Email: "x"})
	assert.Equal(t, "All fields are required", FirstValidationMessage(err, msgs))

	err = v.Struct(signupProbe{Username: "u", Email: "nope"})
	assert.Equal(t, "Invalid email format", FirstValidationMessage(err, msgs))

	err = v.Struct(signupProbe{Username: "u", Email: "a@b", Size: "50 ml"})
	assert.Equal(t, "size failed perfume_size validation", FirstValidationMessage(err, msgs))

	assert.NoError(t, v.Struct(signupProbe{Username: "u", Email: "a@b", Size: "50ml"}))
}

func TestFirstValidationMessagePrefersMissingFields(t *testing.T) {
	v := NewValidator()
	msgs := map[string]string{
		"username.required": "All fields are required",
		"email.has_at":      "Invalid email format",
	}

	// the malformed email is listed first, the missing username still wins
	err := v.Struct(struct {
		Email    string `json:"email" validate:"has_at"`
		Username string `json:"username" validate:"required"`
	}{Email: "nope"})
	assert.Equal(t, "All fields are required", FirstValidationMessage(err, msgs))
}
